package services

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/filmdesk/backend/internal/config"
	"github.com/google/uuid"
)

// StorageService keeps a local staging copy of every produced export bundle
// under LOCAL_ASSETS_PATH/exports. Staging is diagnostic only; bundles are
// always rebuilt from the store, never served from disk.
type StorageService struct {
	cfg *config.Config
}

func NewStorageService(cfg *config.Config) *StorageService {
	_ = os.MkdirAll(filepath.Join(cfg.LocalAssetsPath, "exports"), 0o755)
	return &StorageService{cfg: cfg}
}

// BuildBundleKey creates a unique staging key for one export of a folder.
func (s *StorageService) BuildBundleKey(folder string) string {
	return fmt.Sprintf("exports/%s-%s.zip", uuid.New().String(), folder)
}

// StageBundle writes bundle bytes atomically and returns the absolute path,
// size and sha256 checksum.
func (s *StorageService) StageBundle(ctx context.Context, key string, bundle []byte) (string, int64, string, error) {
	absPath := filepath.Join(s.cfg.LocalAssetsPath, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return "", 0, "", err
	}

	tmp := absPath + ".part"
	f, err := os.Create(tmp)
	if err != nil {
		return "", 0, "", err
	}
	defer f.Close()

	hasher := sha256.New()
	n, err := io.Copy(io.MultiWriter(f, hasher), bytes.NewReader(bundle))
	if err != nil {
		_ = os.Remove(tmp)
		return "", 0, "", err
	}

	if err := f.Sync(); err != nil {
		_ = os.Remove(tmp)
		return "", 0, "", err
	}

	if err := os.Rename(tmp, absPath); err != nil {
		_ = os.Remove(tmp)
		return "", 0, "", err
	}

	checksum := hex.EncodeToString(hasher.Sum(nil))
	return absPath, n, checksum, nil
}
