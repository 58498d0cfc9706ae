package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/filmdesk/backend/internal/config"
	"github.com/filmdesk/backend/internal/models"
	"github.com/filmdesk/backend/pkg/validation"
	"gorm.io/gorm"
)

// StoreService is the transactional frame store. Every mutation runs in its
// own transaction; all operations are rejected with ErrStoreNotReady until
// Open has completed.
type StoreService struct {
	db    *gorm.DB
	cfg   *config.Config
	ready atomic.Bool
}

func NewStoreService(db *gorm.DB, cfg *config.Config) *StoreService {
	return &StoreService{db: db, cfg: cfg}
}

// Open migrates the schema, wipes any frames left over from a previous run
// (the store is session-scoped; sessions are never restored) and marks the
// store ready. Intended to run asynchronously from main.
func (s *StoreService) Open(ctx context.Context) error {
	if err := models.Migrate(s.db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Where("1 = 1").Delete(&models.Frame{}).Error
	}); err != nil {
		return fmt.Errorf("failed to reset store: %w", err)
	}
	s.ready.Store(true)
	log.Println("Frame store ready (previous session cleared)")
	return nil
}

// Ready reports whether initialization has completed.
func (s *StoreService) Ready() bool {
	return s.ready.Load()
}

// Put validates and appends a new frame, returning its store-assigned id.
func (s *StoreService) Put(ctx context.Context, name string, payload []byte, mimeType, folder string) (uint, error) {
	if !s.ready.Load() {
		return 0, ErrStoreNotReady
	}
	if !validation.ValidateFolderName(folder) {
		return 0, fmt.Errorf("%w: bad folder name %q", ErrValidation, folder)
	}
	if strings.TrimSpace(name) == "" {
		return 0, fmt.Errorf("%w: frame name is empty", ErrValidation)
	}
	if len(payload) == 0 {
		return 0, fmt.Errorf("%w: payload is empty", ErrValidation)
	}
	detected := http.DetectContentType(payload)
	if !strings.HasPrefix(detected, "image/") {
		return 0, fmt.Errorf("%w: payload is not an image (detected %s)", ErrValidation, detected)
	}
	// Browsers and multipart clients often report octet-stream; trust the
	// sniffed type unless the caller supplied a concrete image type.
	if !strings.HasPrefix(mimeType, "image/") {
		mimeType = detected
	}
	if s.cfg != nil && s.cfg.UploadMaxImageSize > 0 && int64(len(payload)) > s.cfg.UploadMaxImageSize {
		return 0, fmt.Errorf("%w: payload too large (%d bytes, max %d)", ErrValidation, len(payload), s.cfg.UploadMaxImageSize)
	}

	frame := &models.Frame{
		Name:     validation.SanitizeString(name),
		Folder:   folder,
		MimeType: mimeType,
		Payload:  payload,
	}
	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(frame).Error
	}); err != nil {
		return 0, fmt.Errorf("failed to store frame: %w", err)
	}
	return frame.ID, nil
}

// ListAll returns a consistent snapshot of every frame in insertion order.
func (s *StoreService) ListAll(ctx context.Context) ([]models.Frame, error) {
	if !s.ready.Load() {
		return nil, ErrStoreNotReady
	}
	var frames []models.Frame
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&frames).Error; err != nil {
		return nil, err
	}
	return frames, nil
}

// ListFolder returns the frames of one folder in insertion order.
func (s *StoreService) ListFolder(ctx context.Context, folder string) ([]models.Frame, error) {
	if !s.ready.Load() {
		return nil, ErrStoreNotReady
	}
	var frames []models.Frame
	if err := s.db.WithContext(ctx).Where("folder = ?", folder).Order("id ASC").Find(&frames).Error; err != nil {
		return nil, err
	}
	return frames, nil
}

// GetByID returns a single frame.
func (s *StoreService) GetByID(ctx context.Context, id uint) (*models.Frame, error) {
	if !s.ready.Load() {
		return nil, ErrStoreNotReady
	}
	var frame models.Frame
	if err := s.db.WithContext(ctx).First(&frame, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFrameNotFound
		}
		return nil, err
	}
	return &frame, nil
}

// Clear removes every frame. Idempotent: clearing an empty store succeeds.
func (s *StoreService) Clear(ctx context.Context) error {
	if !s.ready.Load() {
		return ErrStoreNotReady
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Where("1 = 1").Delete(&models.Frame{}).Error
	})
}
