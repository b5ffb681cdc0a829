package model

import (
	"fmt"
	"runtime/debug"
)

type CustomError struct {
	Processor  string                 `json:"processor"`
	Inner      error                  `json:"-"`
	Message    string                 `json:"message"`
	StackTrace string                 `json:"stackTrace"`
	Misc       map[string]interface{} `json:"misc"`
}

func GenError(proc string, err error, misc map[string]interface{}, messagef string, args ...interface{}) CustomError {
	return CustomError{
		Processor:  proc,
		Inner:      err,
		Message:    fmt.Sprintf(messagef, args...),
		StackTrace: string(debug.Stack()),
		Misc:       misc,
	}
}

func (e CustomError) Error() string {
	if e.Inner == nil {
		return fmt.Sprintf("%s: %s", e.Processor, e.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.Processor, e.Message, e.Inner)
}

func (e CustomError) Unwrap() error {
	return e.Inner
}

// Box is a bounding box in frame pixels (top-left, bottom-right).
type Box struct {
	X1 float32 `json:"x1"`
	Y1 float32 `json:"y1"`
	X2 float32 `json:"x2"`
	Y2 float32 `json:"y2"`
}

type Detection struct {
	Name       string  `json:"name"`
	Class      int     `json:"class"`
	Confidence float32 `json:"confidence"`
	Box        Box     `json:"box"`
}

// FrameResult is what the local detector produces for one video frame.
type FrameResult struct {
	Index      int         `json:"index"`
	Width      int         `json:"width"`
	Height     int         `json:"height"`
	Detections []Detection `json:"detections"`
}

type ImageSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type Prediction struct {
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	Confidence  float64 `json:"confidence"`
	Class       string  `json:"class"`
	ClassID     int     `json:"class_id"`
	DetectionID string  `json:"detection_id"`
}

// InferenceResponse is the hosted detection API's response body.
type InferenceResponse struct {
	InferenceID string       `json:"inference_id"`
	Time        float64      `json:"time"`
	Image       ImageSize    `json:"image"`
	Predictions []Prediction `json:"predictions"`
}

type DetectorStats struct {
	RunID       string  `json:"runId"`
	Video       string  `json:"video"`
	Model       string  `json:"model"`
	Frames      int     `json:"frames"`
	Detections  int     `json:"detections"`
	Errors      int     `json:"errors"`
	Uptime      int64   `json:"uptime"`
	AvgProcTime float64 `json:"avgProcTime"`
	Timestamp   int64   `json:"timestamp"`
}

type InferenceStats struct {
	RunID       string  `json:"runId"`
	Image       string  `json:"image"`
	ModelID     string  `json:"modelId"`
	Predictions int     `json:"predictions"`
	Status      int     `json:"status"`
	Errors      int     `json:"errors"`
	Elapsed     float64 `json:"elapsed"`
	Timestamp   int64   `json:"timestamp"`
}
