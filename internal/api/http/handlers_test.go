package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bytedance/sonic"

	"github.com/microapp/previewd/internal/domain/session"
	"github.com/microapp/previewd/internal/infrastructure/monitoring"
	"github.com/microapp/previewd/internal/preview"
)

var testMetrics = monitoring.NewMetrics()

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	sess := session.NewManager(nil, preview.NewBuilder(nil, nil), nil)
	t.Cleanup(sess.Close)
	h := NewHandlers(sess, nil, testMetrics, 1<<20)

	router := gin.New()
	router.GET("/", h.Root)
	router.GET("/health", h.Health)
	router.POST("/messages", h.PostMessage)
	router.GET("/project", h.GetProject)
	router.GET("/files", h.ListFiles)
	router.POST("/files/select", h.SelectFile)
	router.GET("/files/selected", h.GetSelectedFile)
	router.GET("/preview", h.GetPreview)
	router.GET("/status", h.GetStatus)
	router.GET("/rejections", h.GetRejections)
	router.GET("/snapshot", h.GetSnapshot)
	return router
}

func do(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

const validMessage = `{"type":"data","data":{"files":[{"path":"App.tsx","content":"export default function App(){return null}","type":"component"}]}}`

func TestPreviewServesIdleDocumentWithSandboxHeader(t *testing.T) {
	router := newTestRouter(t)

	w := do(router, http.MethodGet, "/preview", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "sandbox allow-scripts allow-same-origin", w.Header().Get("Content-Security-Policy"))
	assert.Contains(t, w.Body.String(), "Waiting for a project")
}

func TestPostValidMessageBuildsPreview(t *testing.T) {
	router := newTestRouter(t)

	w := do(router, http.MethodPost, "/messages", validMessage)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Accepted  bool   `json:"accepted"`
		Component string `json:"component"`
	}
	require.NoError(t, sonic.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Accepted)
	assert.Equal(t, "App", resp.Component)

	w = do(router, http.MethodGet, "/preview", "")
	assert.Contains(t, w.Body.String(), "function App(){return null}")
	assert.Equal(t, "sandbox allow-scripts allow-same-origin", w.Header().Get("Content-Security-Policy"))
}

func TestPostInvalidMessageReturnsIssues(t *testing.T) {
	router := newTestRouter(t)

	w := do(router, http.MethodPost, "/messages", `{"type":"data","data":{"files":[]}}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp struct {
		Accepted bool   `json:"accepted"`
		Summary  string `json:"summary"`
	}
	require.NoError(t, sonic.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Accepted)
	assert.Contains(t, resp.Summary, "at least 1")

	w = do(router, http.MethodGet, "/rejections", "")
	assert.Contains(t, w.Body.String(), "too_small")
}

func TestStatusCountsMessages(t *testing.T) {
	router := newTestRouter(t)

	do(router, http.MethodPost, "/messages", validMessage)
	do(router, http.MethodPost, "/messages", `not json`)

	w := do(router, http.MethodGet, "/status", "")
	var status struct {
		Total    int `json:"total_messages"`
		Valid    int `json:"valid_count"`
		Rejected int `json:"rejected_count"`
	}
	require.NoError(t, sonic.Unmarshal(w.Body.Bytes(), &status))
	assert.Equal(t, 2, status.Total)
	assert.Equal(t, 1, status.Valid)
	assert.Equal(t, 1, status.Rejected)
}

func TestFileSelection(t *testing.T) {
	router := newTestRouter(t)
	do(router, http.MethodPost, "/messages", validMessage)

	w := do(router, http.MethodGet, "/files/selected", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "App.tsx")

	w = do(router, http.MethodPost, "/files/select", `{"path":"missing.tsx"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(router, http.MethodPost, "/files/select", `{"path":"App.tsx"}`)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProjectNullBeforeFirstMessage(t *testing.T) {
	router := newTestRouter(t)

	w := do(router, http.MethodGet, "/project", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"project":null`)
}
