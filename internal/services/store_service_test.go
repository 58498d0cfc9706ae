package services

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/filmdesk/backend/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// single connection so the in-memory database is shared
	sqlDB.SetMaxOpenConns(1)
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		APIUrl:             "http://localhost:8080",
		UploadMaxImageSize: 25 * 1024 * 1024,
	}
}

func newTestStore(t *testing.T) *StoreService {
	t.Helper()
	store := NewStoreService(newTestDB(t), testConfig())
	require.NoError(t, store.Open(context.Background()))
	return store
}

// testPNG encodes a small solid-color PNG payload.
func testPNG(t *testing.T, c color.NRGBA) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestStore_PutListRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	payload := testPNG(t, color.NRGBA{R: 10, G: 20, B: 30, A: 255})

	id, err := store.Put(ctx, "frame1.png", payload, "image/png", "A")
	require.NoError(t, err)
	require.NotZero(t, id)

	frames, err := store.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, frames, 1)
	assert.Equal(t, id, frames[0].ID)
	assert.Equal(t, "frame1.png", frames[0].Name)
	assert.Equal(t, "A", frames[0].Folder)
	assert.Equal(t, "image/png", frames[0].MimeType)
	assert.Equal(t, payload, frames[0].Payload, "payload must round-trip byte-identical")
}

func TestStore_RejectsOperationsBeforeOpen(t *testing.T) {
	store := NewStoreService(newTestDB(t), testConfig())
	ctx := context.Background()

	_, err := store.Put(ctx, "x.png", testPNG(t, color.NRGBA{A: 255}), "image/png", "A")
	assert.ErrorIs(t, err, ErrStoreNotReady)

	_, err = store.ListAll(ctx)
	assert.ErrorIs(t, err, ErrStoreNotReady)

	assert.ErrorIs(t, store.Clear(ctx), ErrStoreNotReady)
	assert.False(t, store.Ready())
}

func TestStore_OpenClearsPreviousSession(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	first := NewStoreService(db, testConfig())
	require.NoError(t, first.Open(ctx))
	_, err := first.Put(ctx, "old.png", testPNG(t, color.NRGBA{A: 255}), "image/png", "old")
	require.NoError(t, err)

	// a new launch over the same database starts empty
	second := NewStoreService(db, testConfig())
	require.NoError(t, second.Open(ctx))

	frames, err := second.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, frames)
}

func TestStore_ClearIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Put(ctx, "a.png", testPNG(t, color.NRGBA{A: 255}), "image/png", "A")
	require.NoError(t, err)

	require.NoError(t, store.Clear(ctx))
	require.NoError(t, store.Clear(ctx), "second clear must not error")

	frames, err := store.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, frames)
}

func TestStore_PutValidation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	payload := testPNG(t, color.NRGBA{A: 255})

	tests := []struct {
		name    string
		frame   string
		payload []byte
		folder  string
	}{
		{"empty payload", "a.png", nil, "A"},
		{"non-image payload", "a.txt", []byte("plain text, definitely not pixels"), "A"},
		{"empty folder", "a.png", payload, ""},
		{"folder with path separator", "a.png", payload, "a/b"},
		{"empty name", "   ", payload, "A"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.Put(ctx, tt.frame, tt.payload, "image/png", tt.folder)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}

	frames, err := store.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, frames, "rejected writes must not touch the store")
}

func TestStore_IDsAreMonotonic(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	var last uint
	for i := 0; i < 5; i++ {
		id, err := store.Put(ctx, "f.png", testPNG(t, color.NRGBA{R: uint8(i), A: 255}), "image/png", "A")
		require.NoError(t, err)
		assert.Greater(t, id, last)
		last = id
	}
}

func TestStore_GetByID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.Put(ctx, "a.png", testPNG(t, color.NRGBA{A: 255}), "image/png", "A")
	require.NoError(t, err)

	frame, err := store.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "a.png", frame.Name)

	_, err = store.GetByID(ctx, id+100)
	assert.ErrorIs(t, err, ErrFrameNotFound)
}
