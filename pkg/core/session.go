// pkg/core/session.go
package core

import (
	"time"

	"github.com/google/uuid"
)

// Session is one load of the extension by the host.
type Session struct {
	ID               uuid.UUID
	StartTime        time.Time
	EndTime          time.Time
	ExtensionVersion string
	ExtensionBuild   string
}
