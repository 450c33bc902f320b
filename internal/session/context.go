package session

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/seatwise/extension/pkg/core"
)

// Context holds the current session.
type Context struct {
	mu      sync.RWMutex
	session *core.Session
}

// NewContext starts a new session with a fresh id.
func NewContext(version, build string) *Context {
	return &Context{
		session: &core.Session{
			ID:               uuid.New(),
			StartTime:        time.Now(),
			ExtensionVersion: version,
			ExtensionBuild:   build,
		},
	}
}

// Get returns a copy of the current session.
func (c *Context) Get() core.Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return *c.session
}

// ID returns the current session id.
func (c *Context) ID() uuid.UUID {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session.ID
}

// End stamps the session end time and returns the finished session.
func (c *Context) End() core.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session.EndTime = time.Now()
	return *c.session
}

// LogAttrs returns the attributes added to every log record.
func (c *Context) LogAttrs() []slog.Attr {
	return []slog.Attr{slog.String("session", c.ID().String())}
}
