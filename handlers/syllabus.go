package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/eoauman/sylman/internal/storage"
	"github.com/eoauman/sylman/internal/syllabus"
	"github.com/eoauman/sylman/internal/syllabus/service"
	"github.com/eoauman/sylman/pkg/logger"
	"github.com/eoauman/sylman/pkg/middleware"
)

// SyllabusHandler serves the REST contract the editor's remote gateway
// consumes. Paths mirror the legacy frontend exactly.
type SyllabusHandler struct {
	svc     service.Service
	exports *storage.ExportStore
}

// NewSyllabusHandler wires the handler. exports may be nil; the export
// endpoint then answers 503.
func NewSyllabusHandler(svc service.Service, exports *storage.ExportStore) *SyllabusHandler {
	return &SyllabusHandler{svc: svc, exports: exports}
}

// Register mounts the syllabus routes. authMW guards the admin listing; when
// nil (dev/tests without a JWT secret) the listing is open.
func (h *SyllabusHandler) Register(r *gin.Engine, authMW gin.HandlerFunc) {
	r.POST("/syllabus", h.Create)
	if authMW != nil {
		r.GET("/syllabus/", authMW, middleware.RequireAdmin(), h.ListAll)
	} else {
		r.GET("/syllabus/", h.ListAll)
	}
	// gin's tree rejects a static segment next to a param at the same
	// position, so the literal view/ and copy paths are dispatched inside
	// the param routes. The URLs clients see are unchanged.
	r.GET("/syllabus/:userId", h.ListForUser)
	r.GET("/syllabus/:userId/:id", h.dispatchView)
	r.PUT("/syllabus/update/:id", h.Update)
	r.DELETE("/syllabus/:id", h.Delete)
	r.POST("/syllabus/:id", h.dispatchCopy)
	r.POST("/syllabus/:id/export", h.Export)
}

// dispatchView serves GET /syllabus/view/:id; any other two-segment GET is
// unknown.
func (h *SyllabusHandler) dispatchView(c *gin.Context) {
	if c.Param("userId") != "view" {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	h.View(c)
}

// dispatchCopy serves POST /syllabus/copy.
func (h *SyllabusHandler) dispatchCopy(c *gin.Context) {
	if c.Param("id") != "copy" {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	h.Copy(c)
}

// saveRequest is the save envelope. Legacy clients send formData, the current
// editor sends syllabusData; both carry the same document shape.
type saveRequest struct {
	UserID        string             `json:"userId"`
	SyllabusData  *syllabus.Document `json:"syllabusData"`
	FormData      *syllabus.Document `json:"formData"`
	Autosave      bool               `json:"autosave"`
	LastEdited    string             `json:"lastEdited"`
	ProgramSelect string             `json:"programSelect"`
}

func (r *saveRequest) document() *syllabus.Document {
	if r.SyllabusData != nil {
		return r.SyllabusData
	}
	return r.FormData
}

func writeServiceError(c *gin.Context, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error(), "missing": verr.Missing})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	default:
		logger.Errorf("syllabus handler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// Create stores a new syllabus and returns its assigned id.
func (h *SyllabusHandler) Create(c *gin.Context) {
	var req saveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.UserID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId is required"})
		return
	}
	doc := req.document()
	if doc != nil && req.LastEdited != "" {
		doc.LastEdited = req.LastEdited
	}
	id, err := h.svc.Create(c.Request.Context(), req.UserID, doc, req.Autosave)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"syllabusId": id})
}

// ListForUser returns every syllabus owned by the given user.
func (h *SyllabusHandler) ListForUser(c *gin.Context) {
	recs, err := h.svc.ListByUser(c.Request.Context(), c.Param("userId"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, recs)
}

// ListAll returns every stored syllabus (admin listing).
func (h *SyllabusHandler) ListAll(c *gin.Context) {
	recs, err := h.svc.ListAll(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, recs)
}

// View returns one document. With ?format=json only the syllabusData payload
// is returned, which is what the editor loads on startup.
func (h *SyllabusHandler) View(c *gin.Context) {
	rec, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	if c.Query("format") == "json" {
		c.JSON(http.StatusOK, gin.H{"syllabusData": rec.SyllabusData})
		return
	}
	c.JSON(http.StatusOK, rec)
}

// Update replaces a stored document, or applies the narrow {programSelect}
// partial when no document body is present. Unknown ids answer 404 so the
// editor can recover by clearing its cached id.
func (h *SyllabusHandler) Update(c *gin.Context) {
	id := c.Param("id")
	var req saveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	doc := req.document()
	if doc == nil {
		if req.ProgramSelect == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "syllabusData, formData, or programSelect required"})
			return
		}
		if err := h.svc.UpdateProgram(c.Request.Context(), id, req.ProgramSelect); err != nil {
			writeServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"syllabusId": id})
		return
	}
	if err := h.svc.Update(c.Request.Context(), id, doc, req.LastEdited, req.Autosave); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"syllabusId": id})
}

// Delete removes a document.
func (h *SyllabusHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Copy clones a document server-side and returns the new id.
func (h *SyllabusHandler) Copy(c *gin.Context) {
	var req struct {
		SyllabusID string `json:"syllabusId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.SyllabusID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "syllabusId is required"})
		return
	}
	newID, err := h.svc.Copy(c.Request.Context(), req.SyllabusID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"newId": newID})
}

// Export archives the current document snapshot in object storage and
// returns a short-lived download URL.
func (h *SyllabusHandler) Export(c *gin.Context) {
	if h.exports == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "export storage not configured"})
		return
	}
	rec, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	payload, err := json.MarshalIndent(rec.SyllabusData, "", "  ")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	key, err := h.exports.PutExport(c.Request.Context(), rec.ID, payload, "application/json")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	url, err := h.exports.PresignedURL(c.Request.Context(), key, 15*time.Minute)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"key": key, "url": url})
}
