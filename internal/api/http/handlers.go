package http

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/microapp/previewd/internal/domain/session"
	"github.com/microapp/previewd/internal/infrastructure/logging"
	"github.com/microapp/previewd/internal/infrastructure/monitoring"
)

// previewCSP restricts the served document to script execution and
// same-origin content with no top-level navigation. This is the system's
// trust boundary; weakening it is a security regression.
const previewCSP = "sandbox allow-scripts allow-same-origin"

// Handlers serves the presentation-facing API.
type Handlers struct {
	session *session.Manager
	logger  *logging.Logger
	metrics *monitoring.Metrics
	maxBody int64
}

// NewHandlers creates the handler set.
func NewHandlers(sess *session.Manager, logger *logging.Logger, metrics *monitoring.Metrics, maxBody int64) *Handlers {
	if logger == nil {
		logger = logging.NewDefault()
	}
	if maxBody <= 0 {
		maxBody = 1 << 20
	}
	return &Handlers{session: sess, logger: logger, metrics: metrics, maxBody: maxBody}
}

// Root returns service information.
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "previewd",
		"state":   h.session.State(),
	})
}

// Health returns service health.
func (h *Handlers) Health(c *gin.Context) {
	status := h.session.Status()
	c.JSON(http.StatusOK, gin.H{
		"status":         "healthy",
		"uptime_seconds": h.metrics.Uptime().Seconds(),
		"messages":       status.TotalMessages,
	})
}

// PostMessage is the HTTP equivalent of a WebSocket frame.
func (h *Handlers) PostMessage(c *gin.Context) {
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, h.maxBody+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read body"})
		return
	}

	origin := c.Request.Header.Get("Origin")
	if origin == "" {
		origin = c.ClientIP()
	}

	result := h.session.Accept(c.Request.Context(), raw, origin)
	if !result.Valid() {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"accepted": false,
			"summary":  result.Summary,
			"issues":   result.Issues,
		})
		return
	}

	doc := h.session.Document()
	c.JSON(http.StatusOK, gin.H{
		"accepted":  true,
		"files":     len(result.Project.Files),
		"component": doc.Discovery.Component,
	})
}

// GetProject returns the current project, or null before the first
// accepted message.
func (h *Handlers) GetProject(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"project": h.session.Project()})
}

// ListFiles returns the ordered file list for the navigation view.
func (h *Handlers) ListFiles(c *gin.Context) {
	project := h.session.Project()
	if project == nil {
		c.JSON(http.StatusOK, gin.H{"files": []any{}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"files": project.Files})
}

// SelectFile marks a file as selected for the navigation view.
func (h *Handlers) SelectFile(c *gin.Context) {
	var req struct {
		Path string `json:"path" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "path is required"})
		return
	}
	if !h.session.SelectFile(req.Path) {
		c.JSON(http.StatusNotFound, gin.H{"error": "no such file: " + req.Path})
		return
	}
	c.JSON(http.StatusOK, gin.H{"selected": req.Path})
}

// GetSelectedFile returns the currently selected file.
func (h *Handlers) GetSelectedFile(c *gin.Context) {
	file, ok := h.session.SelectedFile()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no file selected"})
		return
	}
	c.JSON(http.StatusOK, file)
}

// GetPreview serves the built document for the sandboxed iframe. Before
// the first accepted project this is the idle placeholder.
func (h *Handlers) GetPreview(c *gin.Context) {
	doc := h.session.Document()
	html := doc.HTML
	if html == "" {
		html = idleDocument
	}
	c.Header("Content-Security-Policy", previewCSP)
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

// GetStatus returns the message counters.
func (h *Handlers) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.session.Status())
}

// GetRejections returns the rejection log, newest first.
func (h *Handlers) GetRejections(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"rejections": h.session.Rejections()})
}

// GetSnapshot returns the full presentation snapshot in one round trip.
func (h *Handlers) GetSnapshot(c *gin.Context) {
	c.JSON(http.StatusOK, h.session.Snapshot())
}

// idleDocument is shown before any project has been accepted.
const idleDocument = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"/><title>Preview</title><style>
body { margin: 0; min-height: 100vh; display: flex; align-items: center; justify-content: center; font-family: -apple-system, "Segoe UI", Roboto, sans-serif; color: #6c757d; }
</style></head>
<body><p>Waiting for a project&hellip;</p></body>
</html>
`
