package services

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/filmdesk/backend/internal/config"
	"github.com/filmdesk/backend/pkg/validation"
	"github.com/google/uuid"
)

type SessionState string

const (
	StateMenu     SessionState = "menu"
	StateFolder   SessionState = "folder"
	StateScanning SessionState = "scanning"
)

// FrameFunc receives frames produced by the capture device while scanning.
type FrameFunc func(ctx context.Context, folder string, payload []byte, mimeType string)

// SessionService is the view controller's state machine: it selects which of
// menu / folder contents / scanning is active, owns the active-folder
// selection and coordinates the capture device with state transitions.
//
// Valid transitions:
//
//	menu     -> folder    SelectFolder
//	folder   -> scanning  StartScan (acquires the device)
//	folder   -> menu      Back
//	scanning -> menu      Back (releases the device)
//
// The active folder value survives navigation back to the menu so that
// re-entering the folder does not re-prompt.
type SessionService struct {
	mu sync.Mutex

	id     uuid.UUID
	cfg    *config.Config
	device CaptureDevice

	state        SessionState
	activeFolder string
	deviceHeld   bool

	onFrame FrameFunc
}

func NewSessionService(cfg *config.Config, device CaptureDevice) *SessionService {
	return &SessionService{
		id:     uuid.New(),
		cfg:    cfg,
		device: device,
		state:  StateMenu,
	}
}

// SetFrameSink wires the destination for captured frames. Called once
// during startup wiring.
func (s *SessionService) SetFrameSink(fn FrameFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onFrame = fn
}

// State returns the current view state and the retained active folder.
func (s *SessionService) State() (SessionState, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state, s.activeFolder
}

// SelectFolder targets a folder and moves menu -> folder. Empty or invalid
// names abort with no state change. Folders exist implicitly: selecting a
// fresh name creates it as far as the index is concerned.
func (s *SessionService) SelectFolder(name string) error {
	if !validation.ValidateFolderName(name) {
		return fmt.Errorf("%w: folder name required", ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateMenu {
		return fmt.Errorf("%w: cannot select folder from %s", ErrInvalidTransition, s.state)
	}
	s.activeFolder = validation.SanitizeString(name)
	s.state = StateFolder
	log.Printf("[session %s] folder %q selected", s.id, s.activeFolder)
	return nil
}

// StartScan moves folder -> scanning and acquires the capture device. On
// acquisition failure the session stays in the folder state.
func (s *SessionService) StartScan(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateFolder {
		return fmt.Errorf("%w: cannot start scanning from %s", ErrInvalidTransition, s.state)
	}
	if s.activeFolder == "" {
		return ErrNoActiveFolder
	}

	folder := s.activeFolder
	onFrame := s.onFrame
	sink := func(payload []byte, mimeType string) {
		if onFrame != nil {
			onFrame(context.Background(), folder, payload, mimeType)
		}
	}

	req := DeviceRequest{
		IdealWidth:    s.cfg.CaptureIdealWidth,
		IdealHeight:   s.cfg.CaptureIdealHeight,
		FacingOutward: s.cfg.CaptureFacingOutward,
	}
	if err := s.device.Acquire(ctx, req, sink); err != nil {
		log.Printf("[session %s] capture device acquisition failed: %v", s.id, err)
		return err
	}
	s.deviceHeld = true
	s.state = StateScanning
	log.Printf("[session %s] scanning folder %q", s.id, folder)
	return nil
}

// Back navigates to the menu from either folder contents or scanning,
// releasing the capture device if held. The active folder is retained.
func (s *SessionService) Back() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateFolder, StateScanning:
	default:
		return fmt.Errorf("%w: already at menu", ErrInvalidTransition)
	}
	s.releaseLocked()
	s.state = StateMenu
	return nil
}

// CaptureFolder returns the folder captures should land in. Captures are
// only legal while scanning.
func (s *SessionService) CaptureFolder() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateScanning || s.activeFolder == "" {
		return "", ErrNoActiveFolder
	}
	return s.activeFolder, nil
}

// IngestFolder returns the folder uploads should land in. Uploads are legal
// whenever a folder view is open (folder contents or scanning).
func (s *SessionService) IngestFolder() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateMenu || s.activeFolder == "" {
		return "", ErrNoActiveFolder
	}
	return s.activeFolder, nil
}

// Close releases the device regardless of state; used on shutdown.
func (s *SessionService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.releaseLocked()
}

func (s *SessionService) releaseLocked() {
	if s.deviceHeld {
		s.device.Release()
		s.deviceHeld = false
	}
}
