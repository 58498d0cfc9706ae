package services

import (
	"context"
	"fmt"
	"log"
	"mime"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/filmdesk/backend/pkg/validation"
	"github.com/fsnotify/fsnotify"
)

// DeviceRequest carries the caller's capture preferences. Devices satisfy
// them on a best-effort basis; a device that cannot is reported, not retried.
type DeviceRequest struct {
	IdealWidth    int
	IdealHeight   int
	FacingOutward bool
}

// FrameSink receives each captured frame while a device is held.
type FrameSink func(payload []byte, mimeType string)

// CaptureDevice is a scoped resource: acquired on entering the scanning
// state and released on every exit path, including failed acquisition.
type CaptureDevice interface {
	Acquire(ctx context.Context, req DeviceRequest, sink FrameSink) error
	Release()
}

// SpoolDevice watches a spool directory for image files dropped by external
// scanner software and feeds them to the sink. Consumed files are removed
// from the spool. Files already present at acquisition are swept first.
type SpoolDevice struct {
	dir string

	mu      sync.Mutex
	watcher *fsnotify.Watcher
	done    chan struct{}
}

func NewSpoolDevice(dir string) *SpoolDevice {
	return &SpoolDevice{dir: dir}
}

func (d *SpoolDevice) Acquire(ctx context.Context, req DeviceRequest, sink FrameSink) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.watcher != nil {
		return fmt.Errorf("%w: spool device already acquired", ErrCameraAccess)
	}
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return fmt.Errorf("%w: %v", ErrCameraAccess, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCameraAccess, err)
	}
	if err := watcher.Add(d.dir); err != nil {
		watcher.Close()
		return fmt.Errorf("%w: %v", ErrCameraAccess, err)
	}

	// Resolution and facing are hints for real camera hardware; the spool
	// device records them so operators can see what was requested.
	log.Printf("Spool device acquired on %s (requested %dx%d, outward=%v)",
		d.dir, req.IdealWidth, req.IdealHeight, req.FacingOutward)

	d.watcher = watcher
	d.done = make(chan struct{})

	// Sweep files that were dropped before the watch started.
	if entries, err := os.ReadDir(d.dir); err == nil {
		for _, entry := range entries {
			if !entry.IsDir() {
				d.consume(filepath.Join(d.dir, entry.Name()), sink)
			}
		}
	}

	go d.watch(watcher, d.done, sink)
	return nil
}

func (d *SpoolDevice) watch(watcher *fsnotify.Watcher, done chan struct{}, sink FrameSink) {
	defer close(done)
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Op.Has(fsnotify.Create) || event.Op.Has(fsnotify.Write) {
				// Give the producer a moment to finish writing.
				time.Sleep(100 * time.Millisecond)
				d.consume(event.Name, sink)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Printf("Spool watch error: %v", err)
		}
	}
}

func (d *SpoolDevice) consume(path string, sink FrameSink) {
	if !validation.AllowedImageExt(path) {
		return
	}
	payload, err := os.ReadFile(path)
	if err != nil || len(payload) == 0 {
		return
	}
	mimeType := mime.TypeByExtension(filepath.Ext(path))
	sink(payload, mimeType)
	if err := os.Remove(path); err != nil {
		log.Printf("Failed to remove consumed spool file %s: %v", path, err)
	}
}

func (d *SpoolDevice) Release() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.watcher == nil {
		return
	}
	d.watcher.Close()
	<-d.done
	d.watcher = nil
	d.done = nil
	log.Printf("Spool device released on %s", d.dir)
}
