package handlers

import (
	"fmt"
	"net/http"

	"github.com/filmdesk/backend/internal/models"
	"github.com/filmdesk/backend/internal/services"
	"github.com/gin-gonic/gin"
)

type FolderHandler struct {
	storeService   *services.StoreService
	convertService *services.ConvertService
	exportService  *services.ExportService
	renderService  *services.RenderService
	sessionService *services.SessionService
}

func NewFolderHandler(storeService *services.StoreService, convertService *services.ConvertService, exportService *services.ExportService, renderService *services.RenderService, sessionService *services.SessionService) *FolderHandler {
	return &FolderHandler{
		storeService:   storeService,
		convertService: convertService,
		exportService:  exportService,
		renderService:  renderService,
		sessionService: sessionService,
	}
}

// ListFolders returns the folder index, re-derived from the store snapshot
// GET /folders
func (h *FolderHandler) ListFolders(c *gin.Context) {
	frames, err := h.storeService.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	index := services.BuildFolderIndex(frames)
	folders := make([]gin.H, 0, len(index.Order))
	for _, name := range index.Order {
		folders = append(folders, gin.H{
			"name":        name,
			"frame_count": len(index.Groups[name]),
		})
	}

	c.JSON(http.StatusOK, gin.H{"folders": folders})
}

// GetFolder lists one folder's frames in insertion order
// GET /folders/:name
func (h *FolderHandler) GetFolder(c *gin.Context) {
	name := c.Param("name")

	frames, err := h.storeService.ListFolder(c.Request.Context(), name)
	if err != nil {
		respondError(c, err)
		return
	}

	frameList := make([]gin.H, len(frames))
	for i := range frames {
		frameList[i] = frameJSON(&frames[i])
	}

	c.JSON(http.StatusOK, gin.H{
		"folder":      name,
		"frame_count": len(frames),
		"frames":      frameList,
	})
}

// ConvertFolder runs the conversion pipeline over the active folder
// POST /folders/:name/convert
// Body: {"mode": "local"|"remote"} (default local)
func (h *FolderHandler) ConvertFolder(c *gin.Context) {
	name := c.Param("name")

	// Conversion targets the active folder only.
	_, active := h.sessionService.State()
	if active == "" || active != name {
		respondError(c, services.ErrNoActiveFolder)
		return
	}

	var req struct {
		Mode services.ConvertMode `json:"mode"`
	}
	_ = c.ShouldBindJSON(&req)
	if req.Mode == "" {
		req.Mode = services.ConvertModeLocal
	}
	if req.Mode != services.ConvertModeLocal && req.Mode != services.ConvertModeRemote {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown conversion mode %q", req.Mode)})
		return
	}

	report, err := h.convertService.ConvertFolder(c.Request.Context(), name, req.Mode)
	if err != nil {
		respondError(c, err)
		return
	}

	// The batch completes even with per-frame failures; the report carries
	// the counts.
	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("processing complete, results in %q", report.Destination),
		"report":  report,
	})
}

// ExportFolder downloads the folder's frames as a single zip bundle
// GET /folders/:name/export.zip
func (h *FolderHandler) ExportFolder(c *gin.Context) {
	name := c.Param("name")

	bundle, err := h.exportService.ExportFolder(c.Request.Context(), name)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", h.exportService.BundleName(name)))
	c.Data(http.StatusOK, "application/zip", bundle)
}

// ContactSheet downloads a printable contact-sheet PDF of the folder
// GET /folders/:name/contact-sheet.pdf
func (h *FolderHandler) ContactSheet(c *gin.Context) {
	name := c.Param("name")

	pdf, err := h.renderService.ContactSheetPDF(c.Request.Context(), name)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=\"%s-contact-sheet.pdf\"", name))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// ExportQR returns a QR code PNG for the folder's bundle download URL
// GET /folders/:name/export/qr.png
func (h *FolderHandler) ExportQR(c *gin.Context) {
	name := c.Param("name")

	png, err := h.renderService.ExportQRPNG(name)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}

func frameJSON(frame *models.Frame) gin.H {
	return gin.H{
		"id":         frame.ID,
		"name":       frame.Name,
		"folder":     frame.Folder,
		"mime_type":  frame.MimeType,
		"size_bytes": frame.SizeBytes(),
		"file_url":   fmt.Sprintf("/api/v1/frames/%d/file", frame.ID),
		"created_at": frame.CreatedAt,
	}
}
