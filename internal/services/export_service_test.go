package services

import (
	"archive/zip"
	"bytes"
	"context"
	"image/color"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportFolder_BundleIsComplete(t *testing.T) {
	store := newTestStore(t)
	export := NewExportService(store, nil, nil, testConfig())
	ctx := context.Background()

	payloads := map[string][]byte{
		"one.png":   testPNG(t, color.NRGBA{R: 1, A: 255}),
		"two.png":   testPNG(t, color.NRGBA{R: 2, A: 255}),
		"three.png": testPNG(t, color.NRGBA{R: 3, A: 255}),
	}
	order := []string{"one.png", "two.png", "three.png"}
	for _, name := range order {
		_, err := store.Put(ctx, name, payloads[name], "image/png", "A")
		require.NoError(t, err)
	}

	bundle, err := export.ExportFolder(ctx, "A")
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(bundle), int64(len(bundle)))
	require.NoError(t, err)
	require.Len(t, zr.File, len(order), "one entry per frame")

	for i, f := range zr.File {
		assert.Equal(t, order[i], f.Name, "entries keep insertion order")
		rc, err := f.Open()
		require.NoError(t, err)
		content, err := io.ReadAll(rc)
		rc.Close()
		require.NoError(t, err)
		assert.Equal(t, payloads[f.Name], content)
	}
}

func TestExportFolder_DoesNotMutateStore(t *testing.T) {
	store := newTestStore(t)
	export := NewExportService(store, nil, nil, testConfig())
	ctx := context.Background()

	_, err := store.Put(ctx, "a.png", testPNG(t, color.NRGBA{A: 255}), "image/png", "A")
	require.NoError(t, err)

	_, err = export.ExportFolder(ctx, "A")
	require.NoError(t, err)
	_, err = export.ExportFolder(ctx, "A")
	require.NoError(t, err, "export is safe to repeat")

	frames, err := store.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, frames, 1)
}

func TestExportFolder_EmptyFolder(t *testing.T) {
	export := NewExportService(newTestStore(t), nil, nil, testConfig())

	_, err := export.ExportFolder(context.Background(), "empty")
	assert.ErrorIs(t, err, ErrEmptyFolder)
}

func TestExportFolder_StagesBundleLocally(t *testing.T) {
	store := newTestStore(t)
	cfg := testConfig()
	cfg.LocalAssetsPath = t.TempDir()
	storage := NewStorageService(cfg)
	export := NewExportService(store, storage, nil, cfg)
	ctx := context.Background()

	_, err := store.Put(ctx, "a.png", testPNG(t, color.NRGBA{A: 255}), "image/png", "roll 1")
	require.NoError(t, err)

	_, err = export.ExportFolder(ctx, "roll 1")
	require.NoError(t, err)

	staged, err := filepath.Glob(filepath.Join(cfg.LocalAssetsPath, "exports", "*.zip"))
	require.NoError(t, err)
	assert.Len(t, staged, 1)
	// no stray partial files
	partial, err := filepath.Glob(filepath.Join(cfg.LocalAssetsPath, "exports", "*.part"))
	require.NoError(t, err)
	assert.Empty(t, partial)
}
