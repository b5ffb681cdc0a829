package yolo

import (
	"context"
	"image"
	"log/slog"
	"os"

	"gocv.io/x/gocv"
	"golang.org/x/xerrors"

	"github.com/khaledhikmat/ballspot/model"
	"github.com/khaledhikmat/ballspot/service/config"
	"github.com/khaledhikmat/ballspot/service/detector"
	"github.com/khaledhikmat/ballspot/service/lgr"
)

type yoloService struct {
	CfgSvc config.IService
}

// New returns a detector that runs a YOLO ONNX export through OpenCV's DNN
// module on the CPU.
func New(cfgsvc config.IService) detector.IService {
	return &yoloService{
		CfgSvc: cfgsvc,
	}
}

func (svc *yoloService) Predict(canx context.Context, video string) (<-chan model.FrameResult, <-chan error) {
	results := make(chan model.FrameResult)
	errs := make(chan error, 1)

	go func() {
		defer close(errs)
		defer close(results)

		if err := svc.run(canx, video, results); err != nil {
			errs <- err
		}
	}()

	return results, errs
}

func (svc *yoloService) run(canx context.Context, video string, results chan<- model.FrameResult) error {
	params := svc.CfgSvc.GetDetectorParameters()
	modelPath := svc.CfgSvc.GetDetectorModelPath()

	if _, err := os.Stat(modelPath); err != nil {
		return xerrors.Errorf("no yolo model at %s: %w", modelPath, err)
	}

	labels, err := detector.LoadLabels(params)
	if err != nil {
		return err
	}

	lgr.Logger.InfoContext(canx, "yolo detector starting...",
		slog.String("model", modelPath),
		slog.String("video", video),
		slog.String("openCV", gocv.Version()),
		slog.Any("labels", labels),
	)

	net := gocv.ReadNet(modelPath, "")
	if net.Empty() {
		return xerrors.Errorf("error reading yolo model %s", modelPath)
	}
	defer net.Close()

	if err := net.SetPreferableBackend(gocv.NetBackendDefault); err != nil {
		return xerrors.Errorf("error setting backend: %w", err)
	}
	if err := net.SetPreferableTarget(gocv.NetTargetCPU); err != nil {
		return xerrors.Errorf("error setting target: %w", err)
	}

	capture, err := gocv.VideoCaptureFile(video)
	if err != nil {
		return xerrors.Errorf("opening video %s: %w", video, err)
	}
	defer capture.Close()

	var ann *annotator
	if params.SaveAnnotated {
		ann = newAnnotator(params.AnnotatedFolder, video, capture.Get(gocv.VideoCaptureFPS))
		defer ann.Close()
	}

	var detLog *detectionLog
	if params.Logging {
		detLog = newDetectionLog(params.LogPath)
		defer detLog.Close()
	}

	img := gocv.NewMat()
	defer img.Close()

	for index := 0; ; index++ {
		// A failed read is the end of the stream.
		if ok := capture.Read(&img); !ok || img.Empty() {
			lgr.Logger.DebugContext(canx, "video exhausted", slog.Int("frames", index))
			return nil
		}

		detections, err := svc.detect(&net, img, labels, params)
		if err != nil {
			return xerrors.Errorf("frame %d: %w", index, err)
		}

		if detLog != nil {
			detLog.Write(video, index, detections)
		}

		if ann != nil {
			if err := ann.Write(img, detections); err != nil {
				return xerrors.Errorf("annotating frame %d: %w", index, err)
			}
		}

		select {
		case <-canx.Done():
			return canx.Err()
		case results <- model.FrameResult{
			Index:      index,
			Width:      img.Cols(),
			Height:     img.Rows(),
			Detections: detections,
		}:
		}
	}
}

func (svc *yoloService) detect(net *gocv.Net, img gocv.Mat, labels []string, params config.DetectorParameters) ([]model.Detection, error) {
	blob := gocv.BlobFromImage(img, 1.0/255.0, image.Pt(params.InputSize, params.InputSize), gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	net.SetInput(blob, "")

	output := net.Forward("")
	defer output.Close()

	data, err := output.DataPtrFloat32()
	if err != nil {
		return nil, xerrors.Errorf("reading model output: %w", err)
	}

	candidates, err := detector.Decode(data, output.Size(), detector.Geometry{
		FrameWidth:  img.Cols(),
		FrameHeight: img.Rows(),
		InputSize:   params.InputSize,
	}, params.ConfidenceThreshold)
	if err != nil {
		return nil, err
	}

	if len(candidates) == 0 {
		return []model.Detection{}, nil
	}

	rects := detector.NMSRects(candidates, img.Cols(), img.Rows())
	scores := make([]float32, len(candidates))
	for i, c := range candidates {
		scores[i] = c.Confidence
	}

	keep := gocv.NMSBoxes(rects, scores, params.ConfidenceThreshold, params.NMSThreshold)
	return detector.ToDetections(candidates, keep, labels), nil
}
