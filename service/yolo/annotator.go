package yolo

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gocv.io/x/gocv"
	"golang.org/x/xerrors"

	"github.com/khaledhikmat/ballspot/model"
	"github.com/khaledhikmat/ballspot/service/lgr"
)

const defaultFPS = 30

var boxColor = color.RGBA{0, 255, 0, 0}

// annotator writes a copy of the video with the detections drawn in. The
// writer is opened on the first frame since the frame size is unknown before.
type annotator struct {
	folder   string
	filename string
	fps      float64
	frames   int
	writer   *gocv.VideoWriter
}

func newAnnotator(folder, video string, fps float64) *annotator {
	if fps <= 0 {
		fps = defaultFPS
	}

	base := strings.TrimSuffix(filepath.Base(video), filepath.Ext(video))
	return &annotator{
		folder:   folder,
		filename: filepath.Join(folder, base+".mp4"),
		fps:      fps,
	}
}

func (a *annotator) Write(img gocv.Mat, detections []model.Detection) error {
	if a.writer == nil {
		if err := os.MkdirAll(a.folder, 0755); err != nil {
			return xerrors.Errorf("creating annotated folder %s: %w", a.folder, err)
		}

		// WARNING: mp4v is used over avc1 as most OpenCV builds lack an H.264 encoder
		writer, err := gocv.VideoWriterFile(a.filename, "mp4v", a.fps, img.Cols(), img.Rows(), true)
		if err != nil {
			return xerrors.Errorf("opening annotated video %s: %w", a.filename, err)
		}
		a.writer = writer
	}

	for _, d := range detections {
		rect := image.Rect(int(d.Box.X1), int(d.Box.Y1), int(d.Box.X2), int(d.Box.Y2))
		gocv.Rectangle(&img, rect, boxColor, 2)
		gocv.PutText(&img, fmt.Sprintf("%s %.2f", d.Name, d.Confidence), image.Pt(rect.Min.X, rect.Min.Y-5),
			gocv.FontHersheySimplex, 0.6, boxColor, 2)
	}

	if err := a.writer.Write(img); err != nil {
		return err
	}
	a.frames++
	return nil
}

func (a *annotator) Close() {
	if a.writer == nil {
		return
	}

	if err := a.writer.Close(); err != nil {
		lgr.Logger.Error("error closing annotated video", slog.Any("error", err))
		return
	}

	lgr.Logger.Info("annotated video saved",
		slog.String("file", a.filename),
		slog.Int("frames", a.frames),
	)
}
