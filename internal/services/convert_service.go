package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/filmdesk/backend/internal/config"
	"github.com/filmdesk/backend/internal/pkg/imaging"
)

type ConvertMode string

const (
	// ConvertModeLocal inverts each frame's color channels in-process.
	ConvertModeLocal ConvertMode = "local"
	// ConvertModeRemote delegates each frame to the external processing
	// service.
	ConvertModeRemote ConvertMode = "remote"
)

// BatchFailure records one frame the pipeline could not convert.
type BatchFailure struct {
	FrameID uint   `json:"frame_id"`
	Name    string `json:"name"`
	Reason  string `json:"reason"`
}

// BatchReport summarizes one pipeline run. The batch completes even when
// individual frames fail; failures are listed instead of aborting.
type BatchReport struct {
	Source      string         `json:"source"`
	Destination string         `json:"destination"`
	Total       int            `json:"total"`
	Converted   int            `json:"converted"`
	Failed      int            `json:"failed"`
	Failures    []BatchFailure `json:"failures,omitempty"`
}

// ConvertService runs the negative-to-positive pipeline over one folder,
// writing results into a derived "processed_" folder. Frames are converted
// strictly one at a time; a failing frame is logged and skipped.
type ConvertService struct {
	store  *StoreService
	cfg    *config.Config
	client *http.Client
}

func NewConvertService(store *StoreService, cfg *config.Config) *ConvertService {
	// No client timeout: a hung remote call stalls only its own batch item.
	return &ConvertService{store: store, cfg: cfg, client: &http.Client{}}
}

// ConvertFolder converts every frame of sourceFolder in store order.
func (s *ConvertService) ConvertFolder(ctx context.Context, sourceFolder string, mode ConvertMode) (*BatchReport, error) {
	if strings.TrimSpace(sourceFolder) == "" {
		return nil, ErrNoActiveFolder
	}

	frames, err := s.store.ListFolder(ctx, sourceFolder)
	if err != nil {
		return nil, err
	}
	if len(frames) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyFolder, sourceFolder)
	}

	report := &BatchReport{
		Source:      sourceFolder,
		Destination: "processed_" + sourceFolder,
		Total:       len(frames),
	}

	for _, frame := range frames {
		var (
			converted []byte
			mimeType  string
			convErr   error
		)
		switch mode {
		case ConvertModeRemote:
			converted, mimeType, convErr = s.convertRemote(ctx, frame.Name, frame.Payload)
		default:
			converted, mimeType, convErr = imaging.Invert(frame.Payload)
		}
		if convErr == nil {
			_, convErr = s.store.Put(ctx, "processed_"+frame.Name, converted, mimeType, report.Destination)
		}
		if convErr != nil {
			log.Printf("Conversion failed for frame %d (%s): %v", frame.ID, frame.Name, convErr)
			report.Failed++
			report.Failures = append(report.Failures, BatchFailure{
				FrameID: frame.ID,
				Name:    frame.Name,
				Reason:  convErr.Error(),
			})
			continue
		}
		report.Converted++
	}

	log.Printf("Conversion batch complete for %q: %d/%d converted into %q",
		sourceFolder, report.Converted, report.Total, report.Destination)
	return report, nil
}

// convertRemote submits one frame to the delegated processing service as a
// multipart file field and returns the converted bytes from the response
// body.
func (s *ConvertService) convertRemote(ctx context.Context, name string, payload []byte) ([]byte, string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", name)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrRemoteProcessing, err)
	}
	if _, err := part.Write(payload); err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrRemoteProcessing, err)
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrRemoteProcessing, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.ConvertServiceURL, &body)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrRemoteProcessing, err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrRemoteProcessing, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", fmt.Errorf("%w: service returned %s", ErrRemoteProcessing, resp.Status)
	}

	converted, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrRemoteProcessing, err)
	}
	if len(converted) == 0 {
		return nil, "", fmt.Errorf("%w: empty response body", ErrRemoteProcessing)
	}

	mimeType := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(mimeType, "image/") {
		mimeType = http.DetectContentType(converted)
	}
	return converted, mimeType, nil
}
