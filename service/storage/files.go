package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/xerrors"

	"github.com/khaledhikmat/ballspot/service/config"
)

type filesService struct {
	CfgSvc config.IService
	Folder string
}

func NewFiles(cfgsvc config.IService) IService {
	return &filesService{
		CfgSvc: cfgsvc,
		Folder: cfgsvc.GetDetectorOutputFolder(),
	}
}

// FrameFileName is frame_0000.json for index 0. Indexes past 9999 simply get
// more digits.
func FrameFileName(index int) string {
	return fmt.Sprintf("frame_%04d.json", index)
}

func (svc *filesService) Prepare() error {
	if err := os.MkdirAll(svc.Folder, 0755); err != nil {
		return xerrors.Errorf("creating output folder %s: %w", svc.Folder, err)
	}
	return nil
}

func (svc *filesService) StoreFrame(index int, payload []byte) (string, error) {
	fn := filepath.Join(svc.Folder, FrameFileName(index))
	if err := os.WriteFile(fn, payload, 0644); err != nil {
		return "", xerrors.Errorf("writing frame %d: %w", index, err)
	}
	return fn, nil
}
