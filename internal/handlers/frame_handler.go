package handlers

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/filmdesk/backend/internal/services"
	"github.com/gin-gonic/gin"
)

type FrameHandler struct {
	storeService   *services.StoreService
	captureService *services.CaptureService
	sessionService *services.SessionService
}

func NewFrameHandler(storeService *services.StoreService, captureService *services.CaptureService, sessionService *services.SessionService) *FrameHandler {
	return &FrameHandler{
		storeService:   storeService,
		captureService: captureService,
		sessionService: sessionService,
	}
}

// Capture ingests one captured frame into the active folder. Only legal
// while the session is scanning.
// POST /scan/frames
// Multipart form: file (required)
func (h *FrameHandler) Capture(c *gin.Context) {
	folder, err := h.sessionService.CaptureFolder()
	if err != nil {
		respondError(c, err)
		return
	}

	payload, mimeType, _, err := readFormFile(c)
	if err != nil {
		respondError(c, err)
		return
	}

	id, err := h.captureService.CaptureFrame(c.Request.Context(), folder, payload, mimeType)
	if err != nil {
		respondError(c, err)
		return
	}

	frame, err := h.storeService.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, frameJSON(frame))
}

// Upload ingests an uploaded file into the active folder under its original
// name.
// POST /frames/upload
// Multipart form: file (required)
func (h *FrameHandler) Upload(c *gin.Context) {
	folder, err := h.sessionService.IngestFolder()
	if err != nil {
		respondError(c, err)
		return
	}

	payload, mimeType, originalName, err := readFormFile(c)
	if err != nil {
		respondError(c, err)
		return
	}

	id, err := h.captureService.IngestUpload(c.Request.Context(), folder, payload, mimeType, originalName)
	if err != nil {
		respondError(c, err)
		return
	}

	frame, err := h.storeService.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, frameJSON(frame))
}

// ServeFrameFile streams one frame's payload bytes
// GET /frames/:id/file
func (h *FrameHandler) ServeFrameFile(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid frame ID"})
		return
	}

	frame, err := h.storeService.GetByID(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=\"%s\"", frame.Name))
	c.Data(http.StatusOK, frame.MimeType, frame.Payload)
}

// ClearAll deletes every frame. Destructive, so the request must carry an
// explicit confirmation; declining leaves the store unchanged.
// DELETE /frames
func (h *FrameHandler) ClearAll(c *gin.Context) {
	var req struct {
		Confirm bool `json:"confirm"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || !req.Confirm {
		c.JSON(http.StatusBadRequest, gin.H{"error": "confirmation required: send {\"confirm\": true}"})
		return
	}

	if err := h.storeService.Clear(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "all frames deleted"})
}

// readFormFile pulls the uploaded bytes out of the multipart "file" field.
func readFormFile(c *gin.Context) ([]byte, string, string, error) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		return nil, "", "", services.ErrEmptyUpload
	}
	defer file.Close()

	payload, err := io.ReadAll(file)
	if err != nil {
		return nil, "", "", fmt.Errorf("%w: %v", services.ErrReadFailure, err)
	}

	return payload, header.Header.Get("Content-Type"), header.Filename, nil
}
