package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sanjeevkumarraob/adaptive-summarizer/internal/apperr"
	"github.com/sanjeevkumarraob/adaptive-summarizer/internal/auth"
	"github.com/sanjeevkumarraob/adaptive-summarizer/internal/export"
	"github.com/sanjeevkumarraob/adaptive-summarizer/internal/learning"
	"github.com/sanjeevkumarraob/adaptive-summarizer/internal/logger"
	"github.com/sanjeevkumarraob/adaptive-summarizer/internal/pipeline"
	"github.com/sanjeevkumarraob/adaptive-summarizer/internal/store"
	"github.com/sanjeevkumarraob/adaptive-summarizer/internal/summarizer"
)

const (
	defaultHistoryLimit = 20
	maxListLimit        = 200
)

// Handler handles API requests
type Handler struct {
	pipeline *pipeline.Service
	store    *store.Store
	learning *learning.Controller
	jwt      *auth.JWTManager
	logger   *logger.Logger
}

// NewHandler creates a new handler
func NewHandler(
	svc *pipeline.Service,
	st *store.Store,
	controller *learning.Controller,
	jwtManager *auth.JWTManager,
	log *logger.Logger,
) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	return &Handler{
		pipeline: svc,
		store:    st,
		learning: controller,
		jwt:      jwtManager,
		logger:   log.With("component", "api"),
	}
}

// HealthCheck provides a simple health check endpoint
func (h *Handler) HealthCheck(c *gin.Context) {
	status, code := "healthy", http.StatusOK
	if err := h.store.Ping(c.Request.Context()); err != nil {
		h.logger.Error("health check failed", "error", err)
		status, code = "degraded", http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{
		"status":    status,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// IssueToken exchanges the admin secret for a bearer token
func (h *Handler) IssueToken(c *gin.Context) {
	var req struct {
		Secret string `json:"secret" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	token, expires, err := h.jwt.IssueAdminToken(req.Secret)
	switch {
	case errors.Is(err, auth.ErrIssuingDisabled):
		c.JSON(http.StatusForbidden, gin.H{"error": "Token issuing is disabled"})
		return
	case errors.Is(err, auth.ErrInvalidSecret):
		h.logger.Warn("admin token refused", "ip", c.ClientIP())
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid secret"})
		return
	case err != nil:
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"token":      token,
		"token_type": "Bearer",
		"expires_at": expires.UTC().Format(time.RFC3339),
	})
}

// UploadDocument handles document upload and processing
func (h *Handler) UploadDocument(c *gin.Context) {
	level, ok := h.level(c, c.PostForm("level"))
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File is required"})
		return
	}
	defer file.Close()

	res, err := h.pipeline.ProcessUpload(c.Request.Context(), header.Filename, file, level)
	h.respondResult(c, res, err)
}

// ProcessURL downloads and processes a remote PDF
func (h *Handler) ProcessURL(c *gin.Context) {
	var req struct {
		URL   string `json:"url" binding:"required"`
		Level string `json:"level"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	level, ok := h.level(c, req.Level)
	if !ok {
		return
	}

	res, err := h.pipeline.ProcessURL(c.Request.Context(), req.URL, level)
	h.respondResult(c, res, err)
}

// ProcessBatch processes several URLs one after another
func (h *Handler) ProcessBatch(c *gin.Context) {
	var req struct {
		URLs  []string `json:"urls" binding:"required"`
		Level string   `json:"level"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	level, ok := h.level(c, req.Level)
	if !ok {
		return
	}

	res, err := h.pipeline.ProcessBatch(c.Request.Context(), req.URLs, level)
	if err != nil && res == nil {
		h.respondError(c, err)
		return
	}
	body := gin.H{"items": res.Items, "succeeded": res.Succeeded, "failed": res.Failed}
	if err != nil {
		body["error"] = err.Error()
	}
	c.JSON(http.StatusOK, body)
}

// Discover finds the PDFs linked from a page and processes them
func (h *Handler) Discover(c *gin.Context) {
	var req struct {
		PageURL string `json:"page_url" binding:"required"`
		Level   string `json:"level"`
		Limit   int    `json:"limit"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	level, ok := h.level(c, req.Level)
	if !ok {
		return
	}

	links, res, err := h.pipeline.Discover(c.Request.Context(), req.PageURL, level, req.Limit)
	if err != nil && res == nil {
		h.respondError(c, err)
		return
	}
	body := gin.H{"links": links, "items": res.Items, "succeeded": res.Succeeded, "failed": res.Failed}
	if err != nil {
		body["error"] = err.Error()
	}
	c.JSON(http.StatusOK, body)
}

// ListDocuments lists recent documents without their text
func (h *Handler) ListDocuments(c *gin.Context) {
	limit, ok := h.limit(c, 0)
	if !ok {
		return
	}
	docs, err := h.store.ListDocuments(c.Request.Context(), limit)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"documents": docs, "count": len(docs)})
}

// GetDocument returns a stored document
func (h *Handler) GetDocument(c *gin.Context) {
	doc, err := h.store.GetDocument(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// ExportDocument returns the document split into pages
func (h *Handler) ExportDocument(c *gin.Context) {
	format, err := export.ParseDocumentFormat(c.Query("format"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	words := 0
	if raw := c.Query("words"); raw != "" {
		words, err = strconv.Atoi(raw)
		if err != nil || words < 1 || words > export.MaxWordsPerPage {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("words must be between 1 and %d", export.MaxWordsPerPage)})
			return
		}
	}

	doc, err := h.store.GetDocument(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	paginated := export.Paginated(doc, words)
	if format == export.FormatJSON {
		c.JSON(http.StatusOK, paginated)
		return
	}
	h.attachment(c, export.Filename(doc.Title, "pages", format), format, []byte(paginated.Text()))
}

// CreateSummary summarizes a stored document again
func (h *Handler) CreateSummary(c *gin.Context) {
	var req struct {
		Level string `json:"level"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	level, ok := h.level(c, req.Level)
	if !ok {
		return
	}

	res, err := h.pipeline.Resummarize(c.Request.Context(), c.Param("id"), level)
	h.respondResult(c, res, err)
}

// ListSummaries lists the summaries of a document
func (h *Handler) ListSummaries(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")
	if _, err := h.store.GetDocument(ctx, id); err != nil {
		h.respondError(c, err)
		return
	}
	sums, err := h.store.ListSummaries(ctx, id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"summaries": sums, "count": len(sums)})
}

// GetSummary returns a stored summary
func (h *Handler) GetSummary(c *gin.Context) {
	sum, err := h.store.GetSummary(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sum)
}

// ExportSummary renders a summary as text, markdown or HTML
func (h *Handler) ExportSummary(c *gin.Context) {
	format, err := export.ParseSummaryFormat(c.Query("format"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	ctx := c.Request.Context()
	sum, err := h.store.GetSummary(ctx, c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	doc, err := h.store.GetDocument(ctx, sum.DocumentID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	var body string
	switch format {
	case export.FormatMarkdown:
		body = export.SummaryMarkdown(doc, sum)
	case export.FormatHTML:
		body, err = export.SummaryHTML(doc, sum)
		if err != nil {
			h.respondError(c, err)
			return
		}
	default:
		body = export.SummaryText(doc, sum)
	}
	h.attachment(c, export.Filename(doc.Title, "summary", format), format, []byte(body))
}

// SubmitFeedback records a rating for a summary
func (h *Handler) SubmitFeedback(c *gin.Context) {
	var req struct {
		Rating  int    `json:"rating" binding:"required"`
		Comment string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	sum, err := h.pipeline.Feedback(c.Request.Context(), c.Param("id"), req.Rating, req.Comment)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sum)
}

// AnalyzeQuality scores an arbitrary summary against its original
func (h *Handler) AnalyzeQuality(c *gin.Context) {
	var req struct {
		Original   string   `json:"original" binding:"required"`
		Summary    string   `json:"summary"`
		KeyPhrases []string `json:"key_phrases"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	c.JSON(http.StatusOK, h.pipeline.Analyze(req.Original, req.Summary, req.KeyPhrases))
}

// LearningState returns the current learning state
func (h *Handler) LearningState(c *gin.Context) {
	st, err := h.learning.Current(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": st, "running": h.learning.Running()})
}

// LearningHistory returns the most recent learning states
func (h *Handler) LearningHistory(c *gin.Context) {
	limit, ok := h.limit(c, defaultHistoryLimit)
	if !ok {
		return
	}
	states, err := h.store.States().History(c.Request.Context(), limit)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"states": states, "count": len(states)})
}

// TriggerCycle starts a learning cycle without waiting for it
func (h *Handler) TriggerCycle(c *gin.Context) {
	started := h.learning.Trigger(c.Request.Context())
	if started {
		h.logger.Info("learning cycle triggered manually")
	}
	c.JSON(http.StatusAccepted, gin.H{"started": started, "running": h.learning.Running()})
}

// LearningMetrics returns the most recent quality records
func (h *Handler) LearningMetrics(c *gin.Context) {
	limit, ok := h.limit(c, defaultHistoryLimit)
	if !ok {
		return
	}
	metrics, err := h.store.RecentMetrics(c.Request.Context(), limit)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"metrics": metrics, "count": len(metrics)})
}

// Stats returns aggregate counters over every record
func (h *Handler) Stats(c *gin.Context) {
	ctx := c.Request.Context()
	stats, err := h.store.Stats(ctx)
	if err != nil {
		h.respondError(c, err)
		return
	}
	_, version := h.learning.Weights(ctx)
	c.JSON(http.StatusOK, gin.H{"stats": stats, "weights_version": version.String()})
}

func (h *Handler) level(c *gin.Context, raw string) (summarizer.Level, bool) {
	level, err := summarizer.ParseLevel(raw)
	if err != nil {
		h.respondError(c, err)
		return "", false
	}
	return level, true
}

func (h *Handler) limit(c *gin.Context, def int) (int, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > maxListLimit {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("limit must be between 1 and %d", maxListLimit)})
		return 0, false
	}
	return n, true
}

func (h *Handler) attachment(c *gin.Context, filename string, format export.Format, body []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, format.ContentType(), body)
}

// respondResult writes a pipeline result. A document that was extracted
// but could not be summarized is still returned alongside the error.
func (h *Handler) respondResult(c *gin.Context, res *pipeline.Result, err error) {
	if err == nil {
		c.JSON(http.StatusCreated, res)
		return
	}
	if res != nil && res.Document != nil {
		status, body := errorBody(err)
		body["document"] = res.Document
		c.JSON(status, body)
		return
	}
	h.respondError(c, err)
}

func (h *Handler) respondError(c *gin.Context, err error) {
	status, body := errorBody(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", "path", c.FullPath(), "error", err)
	}
	c.JSON(status, body)
}

func errorBody(err error) (int, gin.H) {
	status := apperr.HTTPStatus(err)
	kind := apperr.KindOf(err)
	msg := err.Error()
	switch {
	case kind == apperr.KindEmptyInput || kind == apperr.KindNoSalientContent:
		msg = "Unable to generate summary"
	case status >= http.StatusInternalServerError && status != http.StatusBadGateway:
		msg = "Internal server error"
	}
	body := gin.H{"error": msg}
	if kind != "" {
		body["kind"] = kind
	}
	return status, body
}
