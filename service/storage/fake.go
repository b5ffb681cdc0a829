package storage

import (
	"sync"

	"golang.org/x/xerrors"
)

// Fake keeps payloads in memory. With failAt >= 0 the store of that frame
// index fails.
type Fake struct {
	mu       sync.Mutex
	failAt   int
	prepared int
	frames   map[int][]byte
	order    []int
}

func NewFake(failAt int) *Fake {
	return &Fake{
		failAt: failAt,
		frames: map[int][]byte{},
	}
}

func (svc *Fake) Prepare() error {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	svc.prepared++
	return nil
}

func (svc *Fake) StoreFrame(index int, payload []byte) (string, error) {
	if index == svc.failAt {
		return "", xerrors.Errorf("fake storage refused frame %d", index)
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()
	svc.frames[index] = append([]byte{}, payload...)
	svc.order = append(svc.order, index)
	return FrameFileName(index), nil
}

func (svc *Fake) Prepared() int {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	return svc.prepared
}

// Order lists the stored frame indexes in write order.
func (svc *Fake) Order() []int {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	return append([]int{}, svc.order...)
}

func (svc *Fake) Frame(index int) ([]byte, bool) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	b, ok := svc.frames[index]
	return b, ok
}
