package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khaledhikmat/ballspot/service/config"
)

func newFiles(t *testing.T, folder string) IService {
	t.Helper()
	cfg, err := config.NewLayered(map[string]interface{}{
		config.DetectorOutputFolderKey: folder,
	})
	require.NoError(t, err)
	return NewFiles(cfg)
}

func TestFrameFileName(t *testing.T) {
	tests := []struct {
		index    int
		expected string
	}{
		{0, "frame_0000.json"},
		{7, "frame_0007.json"},
		{123, "frame_0123.json"},
		{9999, "frame_9999.json"},
		{12345, "frame_12345.json"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, FrameFileName(tt.index))
	}
}

func TestPrepareCreatesMissingFolder(t *testing.T) {
	folder := filepath.Join(t.TempDir(), "nested", "yolo_results")
	svc := newFiles(t, folder)

	require.NoError(t, svc.Prepare())

	info, err := os.Stat(folder)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestPrepareKeepsExistingContent(t *testing.T) {
	folder := t.TempDir()
	stale := filepath.Join(folder, "notes.txt")
	require.NoError(t, os.WriteFile(stale, []byte("keep me"), 0644))

	svc := newFiles(t, folder)
	require.NoError(t, svc.Prepare())
	require.NoError(t, svc.Prepare())

	b, err := os.ReadFile(stale)
	require.NoError(t, err)
	assert.Equal(t, "keep me", string(b))
}

func TestStoreFrameOverwrites(t *testing.T) {
	folder := t.TempDir()
	svc := newFiles(t, folder)
	require.NoError(t, svc.Prepare())

	fn, err := svc.StoreFrame(3, []byte(`[{"name":"old"}]`))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(folder, "frame_0003.json"), fn)

	_, err = svc.StoreFrame(3, []byte(`[]`))
	require.NoError(t, err)

	b, err := os.ReadFile(fn)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(b))
}

func TestStoreFrameWithoutFolderFails(t *testing.T) {
	svc := newFiles(t, filepath.Join(t.TempDir(), "never-created"))

	_, err := svc.StoreFrame(0, []byte(`[]`))
	assert.Error(t, err)
}
