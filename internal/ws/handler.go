package ws

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/microapp/previewd/internal/domain/session"
	"github.com/microapp/previewd/internal/infrastructure/logging"
	"github.com/microapp/previewd/internal/infrastructure/monitoring"
	"github.com/microapp/previewd/internal/shared/id"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // any embedding origin may connect
	},
}

// Handler manages WebSocket connections feeding the session.
type Handler struct {
	session  *session.Manager
	logger   *logging.Logger
	metrics  *monitoring.Metrics
	maxBytes int64
}

// NewHandler creates a new WebSocket handler. maxBytes bounds a single
// inbound frame at the transport.
func NewHandler(sess *session.Manager, logger *logging.Logger, metrics *monitoring.Metrics, maxBytes int64) *Handler {
	if logger == nil {
		logger = logging.NewDefault()
	}
	return &Handler{session: sess, logger: logger, metrics: metrics, maxBytes: maxBytes}
}

// HandleConnection upgrades the request and processes frames until the
// peer disconnects. Each frame is validated and applied to session state
// before the next read.
func (h *Handler) HandleConnection(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	// One byte of headroom: a frame exactly over the limit still reaches
	// the validator and is logged as a schema rejection; anything larger
	// is cut off at the transport.
	if h.maxBytes > 0 {
		conn.SetReadLimit(h.maxBytes + 1)
	}

	if h.metrics != nil {
		h.metrics.WSConnections.Inc()
		defer h.metrics.WSConnections.Dec()
	}

	origin := c.Request.Header.Get("Origin")
	if origin == "" {
		origin = c.ClientIP()
	}

	connID := id.Connection()
	h.logger.Info("WebSocket client connected",
		zap.String("connection_id", connID),
		zap.String("origin", origin))

	h.send(conn, gin.H{
		"type":          "system",
		"message":       "Connected to preview service",
		"connection_id": connID,
	})

	reqCtx := c.Request.Context()
	for {
		msgType, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Warn("WebSocket read error", zap.Error(err))
			}
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}

		result := h.session.Accept(reqCtx, raw, origin)
		if !result.Valid() {
			h.send(conn, gin.H{
				"type":      "rejected",
				"summary":   result.Summary,
				"issues":    result.Issues,
				"timestamp": time.Now().Unix(),
			})
			continue
		}

		doc := h.session.Document()
		h.send(conn, gin.H{
			"type":      "accepted",
			"files":     len(result.Project.Files),
			"component": doc.Discovery.Component,
			"timestamp": time.Now().Unix(),
		})
	}
}

func (h *Handler) send(conn *websocket.Conn, data any) {
	if err := conn.WriteJSON(data); err != nil {
		h.logger.Warn("WebSocket write failed", zap.Error(err))
	}
}
