package inference

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-resty/resty/v2"
	"golang.org/x/xerrors"

	"github.com/khaledhikmat/ballspot/model"
	"github.com/khaledhikmat/ballspot/service/config"
	"github.com/khaledhikmat/ballspot/service/lgr"
)

type roboflowService struct {
	CfgSvc config.IService
	client *resty.Client
}

// NewRoboflow talks to the hosted detection API configured in cfgsvc.
// Failed calls are never retried.
func NewRoboflow(cfgsvc config.IService) IService {
	client := resty.New().
		SetLogger(restyLogger{}).
		SetBaseURL(cfgsvc.GetInferenceAPIURL()).
		SetRetryCount(0)

	return &roboflowService{
		CfgSvc: cfgsvc,
		client: client,
	}
}

func (svc *roboflowService) Infer(ctx context.Context, image string, modelID string) (Result, error) {
	req := svc.client.R().
		SetContext(ctx).
		SetQueryParam("api_key", svc.CfgSvc.GetInferenceAPIKey())

	if isURL(image) {
		req.SetQueryParam("image", image)
	} else {
		data, err := os.ReadFile(image)
		if err != nil {
			return Result{}, xerrors.Errorf("reading image %s: %w", image, err)
		}

		mime, isImage := sniffImage(data)
		if !isImage {
			lgr.Logger.WarnContext(ctx, "uploading a file that does not look like an image",
				slog.String("image", image),
				slog.String("mime", mime),
			)
		}

		lgr.Logger.DebugContext(ctx, "uploading image",
			slog.String("image", image),
			slog.String("mime", mime),
			slog.Int("bytes", len(data)),
		)

		req.SetHeader("Content-Type", "application/x-www-form-urlencoded").
			SetBody(base64.StdEncoding.EncodeToString(data))
	}

	resp, err := req.Post("/" + modelID)
	if err != nil {
		return Result{}, xerrors.Errorf("calling inference api for model %s: %w", modelID, redactError(err))
	}

	result := Result{
		Raw:     json.RawMessage(resp.Body()),
		Status:  resp.StatusCode(),
		Elapsed: resp.Time(),
	}

	if resp.IsError() {
		return result, xerrors.Errorf("inference api returned %s: %s", resp.Status(), strings.TrimSpace(resp.String()))
	}

	if err := json.Unmarshal(resp.Body(), &result.Response); err != nil {
		// The body is still printed as-is; only the summary is lost.
		lgr.Logger.WarnContext(ctx, "inference response is not a detection result",
			slog.Any("error", err),
		)
		result.Response = model.InferenceResponse{}
	}

	return result, nil
}

// sniffImage reports the detected content type and whether it is an image.
// The upload goes ahead either way.
func sniffImage(data []byte) (string, bool) {
	mtype := mimetype.Detect(data)
	for m := mtype; m != nil; m = m.Parent() {
		if strings.HasPrefix(m.String(), "image/") {
			return mtype.String(), true
		}
	}
	return mtype.String(), false
}

var apiKeyParam = regexp.MustCompile(`(api_key=)[^&\s"']*`)

// redactKey hides the api_key query value in a URL or any text embedding one.
func redactKey(s string) string {
	return apiKeyParam.ReplaceAllString(s, "${1}REDACTED")
}

// redactError strips the credential from transport errors, whose text
// carries the full request URL.
func redactError(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		uerr.URL = redactKey(uerr.URL)
		return err
	}
	if msg := err.Error(); msg != redactKey(msg) {
		return errors.New(redactKey(msg))
	}
	return err
}

func isURL(image string) bool {
	return strings.HasPrefix(image, "http://") || strings.HasPrefix(image, "https://")
}

type restyLogger struct{}

func (restyLogger) Errorf(format string, v ...interface{}) {
	lgr.Logger.Error(redactKey(strings.TrimSpace(fmt.Sprintf(format, v...))))
}

func (restyLogger) Warnf(format string, v ...interface{}) {
	lgr.Logger.Warn(redactKey(strings.TrimSpace(fmt.Sprintf(format, v...))))
}

func (restyLogger) Debugf(format string, v ...interface{}) {
	lgr.Logger.Debug(redactKey(strings.TrimSpace(fmt.Sprintf(format, v...))))
}
