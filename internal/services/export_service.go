package services

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/filmdesk/backend/internal/config"
)

// ExportService bundles a folder's frames into a single zip archive. Export
// reads the store and never mutates it; calling it repeatedly is safe.
type ExportService struct {
	store   *StoreService
	storage *StorageService
	s3      *S3Service
	cfg     *config.Config
}

func NewExportService(store *StoreService, storage *StorageService, s3 *S3Service, cfg *config.Config) *ExportService {
	return &ExportService{store: store, storage: storage, s3: s3, cfg: cfg}
}

// BundleName is the download file name for one folder's archive.
func (s *ExportService) BundleName(folder string) string {
	return folder + ".zip"
}

// ExportFolder builds the archive: one entry per frame, entry name equal to
// the frame name, entries in store insertion order.
func (s *ExportService) ExportFolder(ctx context.Context, folder string) ([]byte, error) {
	frames, err := s.store.ListFolder(ctx, folder)
	if err != nil {
		return nil, err
	}
	if len(frames) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyFolder, folder)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, frame := range frames {
		w, err := zw.Create(frame.Name)
		if err != nil {
			zw.Close()
			return nil, fmt.Errorf("failed to add %q to bundle: %w", frame.Name, err)
		}
		if _, err := w.Write(frame.Payload); err != nil {
			zw.Close()
			return nil, fmt.Errorf("failed to write %q into bundle: %w", frame.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize bundle: %w", err)
	}
	bundle := buf.Bytes()

	s.stageAndMirror(ctx, folder, bundle)
	return bundle, nil
}

// stageAndMirror keeps a local staging copy and optionally uploads the
// bundle to S3. Both are best-effort; the export itself has already
// succeeded.
func (s *ExportService) stageAndMirror(ctx context.Context, folder string, bundle []byte) {
	if s.storage == nil {
		return
	}
	key := s.storage.BuildBundleKey(sanitizeBundleFolder(folder))
	path, size, checksum, err := s.storage.StageBundle(ctx, key, bundle)
	if err != nil {
		log.Printf("Failed to stage export bundle for %q: %v", folder, err)
		return
	}
	log.Printf("Export bundle staged: %s (%d bytes, sha256=%s)", path, size, checksum)

	if s.cfg.ExportMirrorEnabled && s.s3 != nil {
		if err := s.s3.UploadBundle(ctx, key, bundle); err != nil {
			log.Printf("Failed to mirror export bundle %s: %v", key, err)
			return
		}
		log.Printf("Export bundle mirrored to s3://%s/%s", s.cfg.ExportBucket, key)
	}
}

func sanitizeBundleFolder(folder string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, folder)
}
