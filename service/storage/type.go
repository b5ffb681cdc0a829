package storage

// IService persists per-frame detection payloads.
type IService interface {
	// Prepare makes sure the destination exists. It never clears it.
	Prepare() error
	// StoreFrame creates or overwrites the artifact for a zero-based frame
	// index and returns where it went.
	StoreFrame(index int, payload []byte) (string, error)
}
