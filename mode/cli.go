package mode

import (
	"context"
	"log/slog"
	"time"

	"github.com/akamensky/argparse"
	"github.com/mdobak/go-xerrors"

	"github.com/khaledhikmat/ballspot/service/config"
	"github.com/khaledhikmat/ballspot/service/lgr"
)

const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

var processors = map[string]Processor{
	"infer":  Infer,
	"detect": Detect,
}

// Command is a parsed command line: the mode to run and the config values
// its flags set.
type Command struct {
	Mode      string
	Processor Processor
	Overrides map[string]interface{}
}

// UsageError carries the help text to show for a bad command line.
type UsageError struct {
	Usage string
	Err   error
}

func (e *UsageError) Error() string {
	return e.Err.Error()
}

func (e *UsageError) Unwrap() error {
	return e.Err
}

// ParseCommand reads args (program name first). Only flags that were given
// end up in Overrides, so unset flags leave the environment and defaults
// alone.
func ParseCommand(args []string) (Command, error) {
	parser := argparse.NewParser("ballspot", "Locate a basketball in images or video frames")

	inferCmd := parser.NewCommand("infer", "Send one image to the hosted detection API and print the response")
	image := inferCmd.String("i", "image", &argparse.Options{Help: "Image path or http(s) URL"})
	modelID := inferCmd.String("m", "model-id", &argparse.Options{Help: "Hosted model id, e.g. project/version"})

	detectCmd := parser.NewCommand("detect", "Run the local model over a video and write one JSON file per frame")
	video := detectCmd.String("v", "video", &argparse.Options{Help: "Video file"})
	modelPath := detectCmd.String("n", "model", &argparse.Options{Help: "ONNX model file"})
	output := detectCmd.String("o", "output", &argparse.Options{Help: "Output folder for per-frame results"})

	if err := parser.Parse(args); err != nil {
		return Command{}, &UsageError{Usage: parser.Usage(err), Err: err}
	}

	cmd := Command{
		Mode:      "detect",
		Overrides: map[string]interface{}{},
	}
	if inferCmd.Happened() {
		cmd.Mode = "infer"
	}
	cmd.Processor = processors[cmd.Mode]

	for key, val := range map[string]*string{
		config.InferenceImagePathKey:   image,
		config.InferenceModelIDKey:     modelID,
		config.DetectorVideoPathKey:    video,
		config.DetectorModelPathKey:    modelPath,
		config.DetectorOutputFolderKey: output,
	} {
		if val != nil && *val != "" {
			cmd.Overrides[key] = *val
		}
	}

	return cmd, nil
}

// Run executes the processor and turns its outcome into an exit status.
// Once canxCtx is cancelled the processor gets waitOnShutdown to return.
func Run(canxCtx context.Context, modeType string, proc Processor, svcs ServicesFactory, waitOnShutdown time.Duration) int {
	modeProcResult := make(chan error, 1)
	go func() {
		modeProcResult <- proc(canxCtx, svcs)
	}()

	select {
	case err := <-modeProcResult:
		return ExitCode(modeType, err)

	case <-canxCtx.Done():
		lgr.Logger.Info(
			"context cancelled, waiting for the mode processor to exit",
			slog.String("mode", modeType),
		)
	}

	timer := time.NewTimer(waitOnShutdown)
	defer timer.Stop()

	select {
	case err := <-modeProcResult:
		return ExitCode(modeType, err)

	case <-timer.C:
		lgr.Logger.Info(
			"shutdown waiting period expired. Exiting now",
			slog.Duration("period", waitOnShutdown),
		)
		return ExitFailure
	}
}

func ExitCode(modeType string, err error) int {
	if err == nil {
		return ExitOK
	}

	lgr.Logger.Error(
		"mode processor failed",
		slog.String("mode", modeType),
		slog.Any("error", xerrors.New(err)),
	)
	return ExitFailure
}
