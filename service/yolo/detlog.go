package yolo

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/natefinch/lumberjack"

	"github.com/khaledhikmat/ballspot/model"
	"github.com/khaledhikmat/ballspot/service/lgr"
)

const (
	detLogMaxSizeMB  = 10
	detLogMaxBackups = 5
	detLogMaxAgeDays = 7
)

// detectionLog appends one JSON entry per frame with detections to a
// rotating file.
type detectionLog struct {
	l *lumberjack.Logger
}

func newDetectionLog(path string) *detectionLog {
	return &detectionLog{
		l: &lumberjack.Logger{
			Filename:   path,
			MaxSize:    detLogMaxSizeMB,
			MaxBackups: detLogMaxBackups,
			MaxAge:     detLogMaxAgeDays,
			Compress:   true,
		},
	}
}

func (d *detectionLog) Write(video string, index int, detections []model.Detection) {
	if len(detections) == 0 {
		return
	}

	entry := map[string]interface{}{
		"time":       time.Now().Format(time.RFC3339),
		"video":      video,
		"frame":      index,
		"detections": detections,
	}

	jsonData, err := json.Marshal(entry)
	if err != nil {
		lgr.Logger.Error("error marshaling detections", slog.Any("error", err))
		return
	}

	if _, err := d.l.Write(append(jsonData, '\n')); err != nil {
		lgr.Logger.Error("error writing to detection log file", slog.Any("error", err))
	}
}

func (d *detectionLog) Close() {
	if err := d.l.Close(); err != nil {
		lgr.Logger.Error("error closing detection log file", slog.Any("error", err))
	}
}
