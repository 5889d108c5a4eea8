package session

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/microapp/previewd/internal/infrastructure/logging"
	"github.com/microapp/previewd/internal/infrastructure/monitoring"
	"github.com/microapp/previewd/internal/preview"
	"github.com/microapp/previewd/internal/schema"
	"github.com/microapp/previewd/internal/shared/id"
	"github.com/microapp/previewd/internal/shared/types"
)

const (
	// RejectionLogCap bounds the rejection log; the oldest entry drops
	// first once an 11th rejection arrives.
	RejectionLogCap = 10

	// BannerWindow is how long the rejection banner stays visible after
	// the rejection that showed it. A later rejection while the banner is
	// up re-shows it but never extends the pending hide.
	BannerWindow = 10 * time.Second
)

// DocumentBuilder produces a preview document from a project.
type DocumentBuilder interface {
	Build(ctx context.Context, project *types.Project) preview.Document
}

// State identifies the session lifecycle phase.
type State string

const (
	StateIdle   State = "idle"
	StateActive State = "active"
)

// Manager holds the latest accepted project, the built document, the
// bounded rejection log and the message counters. All fields are guarded
// by mu; readers get copies, never references into the container.
type Manager struct {
	mu sync.Mutex

	validator *schema.Validator
	builder   DocumentBuilder
	logger    *logging.Logger
	metrics   *monitoring.Metrics

	project    *types.Project
	document   preview.Document
	selected   string
	rejections []types.RejectedMessage
	status     types.ConnectionStatus

	banner        bool
	bannerPending bool
	bannerTimer   *time.Timer
	bannerWindow  time.Duration
}

// NewManager creates a session manager.
func NewManager(validator *schema.Validator, builder DocumentBuilder, logger *logging.Logger) *Manager {
	if validator == nil {
		validator = schema.New()
	}
	if logger == nil {
		logger = logging.NewDefault()
	}
	return &Manager{
		validator:    validator,
		builder:      builder,
		logger:       logger,
		bannerWindow: BannerWindow,
	}
}

// WithMetrics attaches a metrics collector.
func (m *Manager) WithMetrics(metrics *monitoring.Metrics) *Manager {
	m.metrics = metrics
	return m
}

// Accept processes one inbound message: validate, then either replace the
// project and rebuild the preview, or append to the rejection log. The
// current project is untouched by any invalid message.
func (m *Manager) Accept(ctx context.Context, raw []byte, origin string) schema.Result {
	result := m.validator.Validate(raw)
	now := time.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	m.status.TotalMessages++
	m.status.LastMessage = &now

	if !result.Valid() {
		m.status.RejectedCount++
		m.recordRejection(raw, origin, now, result)
		if m.metrics != nil {
			m.metrics.RecordMessage("rejected")
		}
		m.logger.Warn("Message rejected",
			zap.String("origin", origin),
			zap.String("summary", result.Summary),
			zap.Int("issues", len(result.Issues)),
		)
		return result
	}

	m.status.ValidCount++
	m.project = result.Project
	m.selected = result.Project.Files[0].Path
	m.document = m.builder.Build(ctx, result.Project)
	if m.metrics != nil {
		m.metrics.RecordMessage("valid")
		m.metrics.RecordBuild(m.document.Failure != "")
	}
	m.logger.Info("Project accepted",
		zap.String("origin", origin),
		zap.Int("files", len(result.Project.Files)),
		zap.String("root_component", m.document.Discovery.Component),
	)
	return result
}

// recordRejection prepends a log entry (newest first), enforces the cap
// and re-shows the banner. At most one hide is ever pending; a rejection
// while the banner is up does not reschedule it. Caller holds mu.
func (m *Manager) recordRejection(raw []byte, origin string, now time.Time, result schema.Result) {
	entry := types.RejectedMessage{
		ID:      id.Message(),
		Time:    now,
		Origin:  origin,
		Raw:     string(raw),
		Issues:  result.Issues,
		Summary: result.Summary,
	}
	m.rejections = append([]types.RejectedMessage{entry}, m.rejections...)
	if len(m.rejections) > RejectionLogCap {
		m.rejections = m.rejections[:RejectionLogCap]
	}

	m.banner = true
	if !m.bannerPending {
		m.bannerPending = true
		m.bannerTimer = time.AfterFunc(m.bannerWindow, m.hideBanner)
	}
}

func (m *Manager) hideBanner() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.banner = false
	m.bannerPending = false
}

// State reports idle before the first accepted message, active after.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.project == nil {
		return StateIdle
	}
	return StateActive
}

// Project returns a copy of the current project, or nil before the first
// accepted message.
func (m *Manager) Project() *types.Project {
	m.mu.Lock()
	defer m.mu.Unlock()
	return copyProject(m.project)
}

// Document returns the current preview document.
func (m *Manager) Document() preview.Document {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.document
}

// Status returns the current counters.
func (m *Manager) Status() types.ConnectionStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// Rejections returns a copy of the rejection log, newest first.
func (m *Manager) Rejections() []types.RejectedMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]types.RejectedMessage{}, m.rejections...)
}

// SelectFile marks a file as the navigation selection. Unknown paths are
// ignored and reported false.
func (m *Manager) SelectFile(path string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.project == nil {
		return false
	}
	for _, f := range m.project.Files {
		if f.Path == path {
			m.selected = path
			return true
		}
	}
	return false
}

// SelectedFile returns the currently selected file, first occurrence of the
// selected path winning when paths repeat.
func (m *Manager) SelectedFile() (types.ProjectFile, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.project == nil {
		return types.ProjectFile{}, false
	}
	for _, f := range m.project.Files {
		if f.Path == m.selected {
			return f, true
		}
	}
	return types.ProjectFile{}, false
}

// Snapshot returns the complete read-only view for the presentation shell.
func (m *Manager) Snapshot() types.PreviewSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return types.PreviewSnapshot{
		Project:       copyProject(m.project),
		SelectedPath:  m.selected,
		Document:      m.document.HTML,
		BuildError:    m.document.Failure,
		Discovery:     m.document.Discovery,
		Status:        m.status,
		Rejections:    append([]types.RejectedMessage{}, m.rejections...),
		BannerVisible: m.banner,
	}
}

// BannerVisible reports the transient rejection banner state.
func (m *Manager) BannerVisible() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.banner
}

// Close stops the banner timer. State itself lives until process exit.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.bannerTimer != nil {
		m.bannerTimer.Stop()
	}
}

func copyProject(p *types.Project) *types.Project {
	if p == nil {
		return nil
	}
	cp := *p
	cp.Files = append([]types.ProjectFile{}, p.Files...)
	return &cp
}
