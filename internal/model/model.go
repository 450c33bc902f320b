package model

import (
	"time"

	"github.com/google/uuid"
	geom "github.com/peterstace/simplefeatures/geom"
	"gorm.io/datatypes"
)

////////////////////////
// DATABASE STRUCTURES //
////////////////////////

// DatabaseModels is a list of all the structs exported here which represent tables in the database schema
var DatabaseModels = []interface{}{
	&Session{},
	&EntryAttempt{},
	&GuardIntervention{},
}

// Session is one load of the extension by the host game.
type Session struct {
	ID               uuid.UUID  `json:"id" gorm:"primaryKey;type:varchar(36)"`
	StartTime        time.Time  `json:"startTime" gorm:"type:timestamptz;NOT NULL;index:idx_session_start_time"`
	EndTime          *time.Time `json:"endTime" gorm:"type:timestamptz"`
	ExtensionVersion string     `json:"extensionVersion" gorm:"size:64"`
	ExtensionBuild   string     `json:"extensionBuild" gorm:"size:64"`
}

func (*Session) TableName() string {
	return "sessions"
}

// EntryAttempt is an enter-vehicle command issued for the local player
type EntryAttempt struct {
	ID           uuid.UUID      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	SessionID    uuid.UUID      `json:"sessionId" gorm:"type:varchar(36);index:idx_entryattempt_session_id"`
	Session      Session        `json:"-" gorm:"foreignkey:SessionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Time         time.Time      `json:"time" gorm:"type:timestamptz;index:idx_entryattempt_time"`
	Mode         string         `json:"mode" gorm:"size:16"`                       // driver or passenger
	VehicleID    int32          `json:"vehicleId"`                                 // Host entity handle
	Model        int64          `json:"model" gorm:"index:idx_entryattempt_model"` // Joaat model hash
	Seat         int            `json:"seat"`                                      // -1 is the driver seat
	Flag         int            `json:"flag"`                                      // 1 standard, 16 alternate
	TargetSource string         `json:"targetSource" gorm:"size:16"`               // raycast or nearest
	Position     geom.Point     `json:"position"`                                  // Player position as 2D point
	ElevationASL float32        `json:"elevationASL"`                              // Player Z coordinate
	Detail       datatypes.JSON `json:"detail"`
}

func (*EntryAttempt) TableName() string {
	return "entry_attempts"
}

// GuardIntervention is a task cancellation performed by the tick guard
type GuardIntervention struct {
	ID        uint      `json:"id" gorm:"primarykey;autoIncrement;"`
	SessionID uuid.UUID `json:"sessionId" gorm:"type:varchar(36);index:idx_guardintervention_session_id"`
	Session   Session   `json:"-" gorm:"foreignkey:SessionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Time      time.Time `json:"time" gorm:"type:timestamptz;index:idx_guardintervention_time"`
	Kind      string    `json:"kind" gorm:"size:32"` // movement_cancel or window_break
	VehicleID int32     `json:"vehicleId"`
	LockState string    `json:"lockState" gorm:"size:16"`
}

func (*GuardIntervention) TableName() string {
	return "guard_interventions"
}
