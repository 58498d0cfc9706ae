package services

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertFolder_LocalInvertsIntoDerivedFolder(t *testing.T) {
	store := newTestStore(t)
	convert := NewConvertService(store, testConfig())
	ctx := context.Background()

	src := color.NRGBA{R: 10, G: 200, B: 30, A: 255}
	_, err := store.Put(ctx, "one.png", testPNG(t, src), "image/png", "A")
	require.NoError(t, err)
	_, err = store.Put(ctx, "two.png", testPNG(t, src), "image/png", "A")
	require.NoError(t, err)

	report, err := convert.ConvertFolder(ctx, "A", ConvertModeLocal)
	require.NoError(t, err)
	assert.Equal(t, "processed_A", report.Destination)
	assert.Equal(t, 2, report.Converted)
	assert.Zero(t, report.Failed)

	frames, err := store.ListFolder(ctx, "processed_A")
	require.NoError(t, err)
	require.Len(t, frames, 2)
	assert.Equal(t, "processed_one.png", frames[0].Name)
	assert.Equal(t, "processed_two.png", frames[1].Name)

	decoded, _, err := image.Decode(bytes.NewReader(frames[0].Payload))
	require.NoError(t, err)
	got := color.NRGBAModel.Convert(decoded.At(0, 0)).(color.NRGBA)
	assert.Equal(t, color.NRGBA{R: 245, G: 55, B: 225, A: 255}, got)
}

func TestConvertFolder_RemotePartialFailureContinues(t *testing.T) {
	store := newTestStore(t)
	cfg := testConfig()
	ctx := context.Background()

	converted := testPNG(t, color.NRGBA{R: 1, G: 2, B: 3, A: 255})

	var mu sync.Mutex
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls++
		n := calls
		mu.Unlock()

		if _, _, err := r.FormFile("file"); err != nil {
			http.Error(w, "missing file field", http.StatusBadRequest)
			return
		}
		// the second frame fails, the rest convert
		if n == 2 {
			http.Error(w, "frame detection failed", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(converted)
	}))
	defer server.Close()
	cfg.ConvertServiceURL = server.URL

	convert := NewConvertService(store, cfg)

	for _, name := range []string{"a.png", "b.png", "c.png"} {
		_, err := store.Put(ctx, name, testPNG(t, color.NRGBA{A: 255}), "image/png", "roll")
		require.NoError(t, err)
	}

	report, err := convert.ConvertFolder(ctx, "roll", ConvertModeRemote)
	require.NoError(t, err, "batch completes despite per-frame failures")

	assert.Equal(t, 3, report.Total)
	assert.Equal(t, 2, report.Converted)
	assert.Equal(t, 1, report.Failed)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, "b.png", report.Failures[0].Name)
	assert.Contains(t, report.Failures[0].Reason, ErrRemoteProcessing.Error())

	frames, err := store.ListFolder(ctx, "processed_roll")
	require.NoError(t, err)
	require.Len(t, frames, 2)
	assert.Equal(t, "processed_a.png", frames[0].Name)
	assert.Equal(t, "processed_c.png", frames[1].Name)
	assert.Equal(t, converted, frames[0].Payload)
}

func TestConvertFolder_RemoteTransportErrorIsPerFrame(t *testing.T) {
	store := newTestStore(t)
	cfg := testConfig()
	cfg.ConvertServiceURL = "http://127.0.0.1:1/process" // nothing listens here
	convert := NewConvertService(store, cfg)
	ctx := context.Background()

	_, err := store.Put(ctx, "a.png", testPNG(t, color.NRGBA{A: 255}), "image/png", "roll")
	require.NoError(t, err)

	report, err := convert.ConvertFolder(ctx, "roll", ConvertModeRemote)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Failed)
	assert.Zero(t, report.Converted)
}

func TestConvertFolder_EmptyFolder(t *testing.T) {
	convert := NewConvertService(newTestStore(t), testConfig())

	_, err := convert.ConvertFolder(context.Background(), "nothing-here", ConvertModeLocal)
	assert.ErrorIs(t, err, ErrEmptyFolder)
}

func TestConvertFolder_BlankSourceFolder(t *testing.T) {
	convert := NewConvertService(newTestStore(t), testConfig())

	_, err := convert.ConvertFolder(context.Background(), "  ", ConvertModeLocal)
	assert.ErrorIs(t, err, ErrNoActiveFolder)
}
