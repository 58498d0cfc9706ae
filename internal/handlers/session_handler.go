package handlers

import (
	"net/http"

	"github.com/filmdesk/backend/internal/services"
	"github.com/gin-gonic/gin"
)

type SessionHandler struct {
	sessionService *services.SessionService
}

func NewSessionHandler(sessionService *services.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

// GetSession returns the current view state and retained active folder
// GET /session
func (h *SessionHandler) GetSession(c *gin.Context) {
	state, folder := h.sessionService.State()
	c.JSON(http.StatusOK, gin.H{
		"state":         state,
		"active_folder": folder,
	})
}

// SelectFolder selects (or implicitly creates) a folder and opens its view
// POST /session/folder
func (h *SessionHandler) SelectFolder(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "folder name is required"})
		return
	}

	if err := h.sessionService.SelectFolder(req.Name); err != nil {
		respondError(c, err)
		return
	}

	state, folder := h.sessionService.State()
	c.JSON(http.StatusOK, gin.H{"state": state, "active_folder": folder})
}

// StartScan enters the scanning state, acquiring the capture device
// POST /session/scan
func (h *SessionHandler) StartScan(c *gin.Context) {
	if err := h.sessionService.StartScan(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}

	state, folder := h.sessionService.State()
	c.JSON(http.StatusOK, gin.H{"state": state, "active_folder": folder})
}

// Back navigates to the menu, releasing the capture device if held
// POST /session/back
func (h *SessionHandler) Back(c *gin.Context) {
	if err := h.sessionService.Back(); err != nil {
		respondError(c, err)
		return
	}

	state, folder := h.sessionService.State()
	c.JSON(http.StatusOK, gin.H{"state": state, "active_folder": folder})
}
