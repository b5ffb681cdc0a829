package data

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khaledhikmat/ballspot/model"
	"github.com/khaledhikmat/ballspot/service/config"
)

func newFilesDB(t *testing.T) (IService, string) {
	t.Helper()
	folder := filepath.Join(t.TempDir(), "stats")
	cfg, err := config.NewLayered(map[string]interface{}{
		config.StatsFolderKey: folder,
	})
	require.NoError(t, err)
	return NewFilesDB(cfg), folder
}

func TestDetectorStatsAppend(t *testing.T) {
	svc, _ := newFilesDB(t)

	require.NoError(t, svc.NewDetectorStats(model.DetectorStats{RunID: "a", Frames: 3}))
	require.NoError(t, svc.NewDetectorStats(model.DetectorStats{RunID: "b", Frames: 5}))

	stats, err := svc.RetrieveDetectorStats()
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, "a", stats[0].RunID)
	assert.Equal(t, 5, stats[1].Frames)
	assert.NotZero(t, stats[1].Timestamp)
}

func TestInferenceStatsEmptyWhenMissing(t *testing.T) {
	svc, _ := newFilesDB(t)

	stats, err := svc.RetrieveInferenceStats()
	require.NoError(t, err)
	assert.Empty(t, stats)

	require.NoError(t, svc.NewInferenceStats(model.InferenceStats{RunID: "x", Status: 200}))

	stats, err = svc.RetrieveInferenceStats()
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, 200, stats[0].Status)
}

func TestNewErrorPersistsCustomAndPlainErrors(t *testing.T) {
	svc, folder := newFilesDB(t)

	require.NoError(t, svc.NewError(model.GenError("detector_batch", errors.New("disk full"), map[string]interface{}{"frame": 4}, "error storing frame %d", 4)))
	require.NoError(t, svc.NewError(errors.New("plain")))
	require.NoError(t, svc.NewError(model.GenError("remote_infer", nil, nil, "no cause")))

	b, err := os.ReadFile(filepath.Join(folder, "errors.json"))
	require.NoError(t, err)

	var entries []map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &entries))
	require.Len(t, entries, 3)

	assert.Equal(t, "detector_batch", entries[0]["processor"])
	assert.Equal(t, "disk full", entries[0]["innerError"])
	assert.Equal(t, "error storing frame 4", entries[0]["message"])
	assert.Equal(t, "N/A", entries[1]["processor"])
	assert.Equal(t, "plain", entries[1]["message"])
	assert.Equal(t, "", entries[2]["innerError"])
}

func TestCorruptStatsFileIsReported(t *testing.T) {
	svc, folder := newFilesDB(t)
	require.NoError(t, os.MkdirAll(folder, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(folder, "detector-stats.json"), []byte("{"), 0644))

	assert.Error(t, svc.NewDetectorStats(model.DetectorStats{}))
}

func TestUnreadableStatsFileIsNotOverwritten(t *testing.T) {
	svc, folder := newFilesDB(t)

	// A directory where the stats file should be makes the read fail with
	// something other than "not found".
	statsPath := filepath.Join(folder, "detector-stats.json")
	require.NoError(t, os.MkdirAll(statsPath, 0755))

	err := svc.NewDetectorStats(model.DetectorStats{RunID: "a"})
	require.Error(t, err)

	info, err := os.Stat(statsPath)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	_, err = svc.RetrieveDetectorStats()
	assert.Error(t, err)
}
