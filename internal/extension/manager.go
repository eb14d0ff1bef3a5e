package extension

import (
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/flykit-labs/flykit/internal/logging"
)

// RetryPolicy bounds removal attempts. The delay between attempts is fixed.
type RetryPolicy struct {
	Attempts int
	Delay    time.Duration
}

// DefaultRetryPolicy gives a locked folder about a second and a half.
var DefaultRetryPolicy = RetryPolicy{Attempts: 3, Delay: 500 * time.Millisecond}

// Manager runs the install and removal flows against one registry root.
type Manager struct {
	registry *Registry
	prompter Prompter
	logger   *zap.Logger
	retry    RetryPolicy

	// Replaced in tests.
	rename    func(oldpath, newpath string) error
	deleteDir func(path string) error
	sleep     func(time.Duration)
}

// Option configures a Manager.
type Option func(*Manager)

// WithPrompter sets the consent prompter. Without one every install and
// removal is declined.
func WithPrompter(p Prompter) Option {
	return func(m *Manager) {
		if p != nil {
			m.prompter = p
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(m *Manager) {
		m.logger = logging.OrNop(l)
	}
}

// WithRetryPolicy overrides DefaultRetryPolicy.
func WithRetryPolicy(p RetryPolicy) Option {
	return func(m *Manager) {
		if p.Attempts < 1 {
			p.Attempts = 1
		}
		m.retry = p
	}
}

// NewManager creates a Manager for the registry rooted at root.
func NewManager(root string, opts ...Option) *Manager {
	m := &Manager{
		prompter:  declineAll{},
		logger:    zap.NewNop(),
		retry:     DefaultRetryPolicy,
		rename:    os.Rename,
		deleteDir: os.RemoveAll,
		sleep:     time.Sleep,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.registry = NewRegistry(root, m.logger)
	return m
}

// Registry returns the registry the manager operates on.
func (m *Manager) Registry() *Registry {
	return m.registry
}
