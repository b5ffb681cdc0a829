package detector

import (
	"image"
	"os"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/xerrors"

	"github.com/khaledhikmat/ballspot/model"
	"github.com/khaledhikmat/ballspot/service/config"
)

// Geometry relates the square network input to the decoded frame.
type Geometry struct {
	FrameWidth  int
	FrameHeight int
	InputSize   int
}

type Candidate struct {
	Class      int
	Confidence float32
	Box        model.Box
}

func (c Candidate) Rect() image.Rectangle {
	return image.Rect(int(c.Box.X1), int(c.Box.Y1), int(c.Box.X2), int(c.Box.Y2))
}

// Decode reads a YOLO output tensor. Two layouts are understood:
//
//	[1, anchors, 5+classes]  cx, cy, w, h, objectness, class scores (v5)
//	[1, 4+classes, anchors]  cx, cy, w, h, class scores, channels first (v8+)
//
// The layout is told apart by which of the last two dims is larger, since
// anchors always outnumber attributes. Coordinates are in network input
// pixels and come back scaled and clamped to the frame.
func Decode(data []float32, dims []int, geo Geometry, confThresh float32) ([]Candidate, error) {
	if len(dims) < 2 {
		return nil, xerrors.Errorf("unexpected output dims %v", dims)
	}
	if geo.InputSize <= 0 {
		return nil, xerrors.Errorf("invalid input size %d", geo.InputSize)
	}

	rows, cols := dims[len(dims)-2], dims[len(dims)-1]
	if len(data) < rows*cols {
		return nil, xerrors.Errorf("output has %d values, dims %v need %d", len(data), dims, rows*cols)
	}

	if rows == cols {
		return nil, xerrors.Errorf("ambiguous output dims %v: cannot tell anchors from attributes", dims)
	}

	channelsFirst := rows < cols
	anchors, attrs := rows, cols
	at := func(anchor, attr int) float32 { return data[anchor*cols+attr] }
	firstClass := 5
	if channelsFirst {
		anchors, attrs = cols, rows
		at = func(anchor, attr int) float32 { return data[attr*cols+anchor] }
		firstClass = 4
	}

	if attrs <= firstClass {
		return nil, xerrors.Errorf("output dims %v carry no class scores", dims)
	}

	sx := float32(geo.FrameWidth) / float32(geo.InputSize)
	sy := float32(geo.FrameHeight) / float32(geo.InputSize)

	candidates := []Candidate{}
	for i := 0; i < anchors; i++ {
		objectness := float32(1)
		if !channelsFirst {
			objectness = at(i, 4)
			if objectness < confThresh {
				continue
			}
		}

		classID := -1
		classScore := float32(0)
		for j := firstClass; j < attrs; j++ {
			if s := at(i, j); s > classScore {
				classScore = s
				classID = j - firstClass
			}
		}

		confidence := objectness * classScore
		if classID == -1 || confidence < confThresh {
			continue
		}

		cx, cy, w, h := at(i, 0), at(i, 1), at(i, 2), at(i, 3)
		candidates = append(candidates, Candidate{
			Class:      classID,
			Confidence: confidence,
			Box: model.Box{
				X1: clamp((cx-w/2)*sx, float32(geo.FrameWidth)),
				Y1: clamp((cy-h/2)*sy, float32(geo.FrameHeight)),
				X2: clamp((cx+w/2)*sx, float32(geo.FrameWidth)),
				Y2: clamp((cy+h/2)*sy, float32(geo.FrameHeight)),
			},
		})
	}

	return candidates, nil
}

// NMSRects returns the candidate boxes shifted apart by class, so that a
// class-agnostic NMS only suppresses overlaps within one class. The shift
// exceeds the frame so boxes of different classes can never touch.
func NMSRects(candidates []Candidate, frameWidth, frameHeight int) []image.Rectangle {
	step := max(frameWidth, frameHeight) + 1
	rects := make([]image.Rectangle, len(candidates))
	for i, c := range candidates {
		offset := image.Pt(c.Class*step, c.Class*step)
		rects[i] = c.Rect().Add(offset)
	}
	return rects
}

func clamp(v, limit float32) float32 {
	if v < 0 {
		return 0
	}
	if v > limit {
		return limit
	}
	return v
}

// ToDetections keeps the candidates at the given indexes, names them and
// orders them by descending confidence.
func ToDetections(candidates []Candidate, keep []int, labels []string) []model.Detection {
	detections := make([]model.Detection, 0, len(keep))
	for _, k := range keep {
		if k < 0 || k >= len(candidates) {
			continue
		}
		c := candidates[k]
		detections = append(detections, model.Detection{
			Name:       LabelFor(labels, c.Class),
			Class:      c.Class,
			Confidence: c.Confidence,
			Box:        c.Box,
		})
	}

	sort.SliceStable(detections, func(i, j int) bool {
		return detections[i].Confidence > detections[j].Confidence
	})
	return detections
}

func LabelFor(labels []string, class int) string {
	if class >= 0 && class < len(labels) {
		return labels[class]
	}
	return strconv.Itoa(class)
}

// LoadLabels prefers the names file (one class per line) over the inline
// class list.
func LoadLabels(params config.DetectorParameters) ([]string, error) {
	if params.LabelsPath == "" {
		return params.Classes, nil
	}

	data, err := os.ReadFile(params.LabelsPath)
	if err != nil {
		return nil, xerrors.Errorf("reading labels %s: %w", params.LabelsPath, err)
	}

	labels := []string{}
	for _, l := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		labels = append(labels, strings.TrimSpace(l))
	}
	return labels, nil
}
