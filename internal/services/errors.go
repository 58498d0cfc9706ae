package services

import "errors"

// Failure taxonomy for the scanning core. Handlers translate these to HTTP
// statuses; batch-level code records per-item failures instead of aborting.
var (
	// ErrStoreNotReady is returned by store operations issued before
	// asynchronous initialization has completed. Operations are rejected,
	// never queued.
	ErrStoreNotReady = errors.New("store not ready")

	// ErrNoActiveFolder is returned when a capture, upload or conversion is
	// attempted without a selected folder.
	ErrNoActiveFolder = errors.New("no active folder selected")

	// ErrEmptyFolder is returned by conversion and export for folders that
	// contain no frames.
	ErrEmptyFolder = errors.New("folder has no frames")

	// ErrEmptyUpload is returned when an upload carries zero bytes.
	ErrEmptyUpload = errors.New("upload is empty")

	// ErrReadFailure is returned when upload bytes could not be read from
	// their source.
	ErrReadFailure = errors.New("failed to read source bytes")

	// ErrRemoteProcessing is recorded per frame when the delegated
	// conversion service returns a non-success response or the transport
	// fails.
	ErrRemoteProcessing = errors.New("remote processing failed")

	// ErrCameraAccess is returned when the capture device cannot be
	// acquired. Entry into the scanning state is aborted.
	ErrCameraAccess = errors.New("capture device unavailable")

	// ErrValidation is returned when a payload is not a well-formed image
	// blob or required metadata is missing.
	ErrValidation = errors.New("invalid frame data")

	// ErrInvalidTransition is returned for scan-session actions that are
	// not legal in the current state.
	ErrInvalidTransition = errors.New("invalid session transition")

	// ErrFrameNotFound is returned when a frame id does not exist.
	ErrFrameNotFound = errors.New("frame not found")
)
