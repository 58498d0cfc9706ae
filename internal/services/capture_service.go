package services

import (
	"context"
	"fmt"
	"mime"
	"strings"
	"time"

	"github.com/filmdesk/backend/internal/config"
)

// CaptureService turns raw captures and uploaded files into frame store
// records. It never chooses the target folder itself; callers pass the
// session's active folder explicitly.
type CaptureService struct {
	store *StoreService
	cfg   *config.Config
}

func NewCaptureService(store *StoreService, cfg *config.Config) *CaptureService {
	return &CaptureService{store: store, cfg: cfg}
}

// CaptureFrame stores a raw capture under a timestamp-derived name.
func (s *CaptureService) CaptureFrame(ctx context.Context, folder string, payload []byte, mimeType string) (uint, error) {
	if strings.TrimSpace(folder) == "" {
		return 0, ErrNoActiveFolder
	}
	name := fmt.Sprintf("capture_%s%s", time.Now().UTC().Format("2006-01-02T15-04-05.000Z"), extForMime(mimeType))
	return s.store.Put(ctx, name, payload, mimeType, folder)
}

// IngestUpload stores an uploaded file under its original name.
func (s *CaptureService) IngestUpload(ctx context.Context, folder string, payload []byte, mimeType, originalName string) (uint, error) {
	if strings.TrimSpace(folder) == "" {
		return 0, ErrNoActiveFolder
	}
	if len(payload) == 0 {
		return 0, ErrEmptyUpload
	}
	if strings.TrimSpace(originalName) == "" {
		originalName = fmt.Sprintf("upload_%s%s", time.Now().UTC().Format("2006-01-02T15-04-05.000Z"), extForMime(mimeType))
	}
	return s.store.Put(ctx, originalName, payload, mimeType, folder)
}

func extForMime(mimeType string) string {
	switch mimeType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	}
	if exts, err := mime.ExtensionsByType(mimeType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ".png"
}
