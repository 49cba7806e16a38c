package models

import "time"

// Table session statuses
const (
	SessionOpen    = "OPEN"
	SessionActive  = "ACTIVE"
	SessionRundown = "RUNDOWN"
	SessionClosed  = "CLOSED"
)

// TableSession is one shift of a gaming table, from open to close.
// At most one non-CLOSED session exists per table.
type TableSession struct {
	ID                         string      `gorm:"type:varchar(36);primaryKey" json:"id"`
	CasinoID                   string      `gorm:"type:varchar(36);not null;index" json:"casinoId"`
	GamingTableID              string      `gorm:"type:varchar(36);not null;index" json:"gamingTableId"`
	GamingTable                GamingTable `gorm:"foreignKey:GamingTableID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	Status                     string      `gorm:"type:varchar(10);not null;index" json:"status"`
	OpenedAt                   time.Time   `gorm:"not null" json:"openedAt"`
	OpenedByStaffID            string      `gorm:"type:varchar(36);not null" json:"openedByStaffId"`
	RundownStartedAt           *time.Time  `json:"rundownStartedAt"`
	RundownStartedByStaffID    *string     `gorm:"type:varchar(36)" json:"rundownStartedByStaffId"`
	ClosedAt                   *time.Time  `json:"closedAt"`
	ClosedByStaffID            *string     `gorm:"type:varchar(36)" json:"closedByStaffId"`
	DropEventID                *string     `gorm:"type:varchar(36)" json:"dropEventId"`
	ClosingInventorySnapshotID *string     `gorm:"type:varchar(36)" json:"closingInventorySnapshotId"`
	Notes                      *string     `gorm:"type:text" json:"notes"`
	GamingDay                  string      `gorm:"type:varchar(10);not null" json:"gamingDay"`
	CreatedAt                  time.Time   `gorm:"not null" json:"createdAt"`
	UpdatedAt                  time.Time   `gorm:"not null" json:"updatedAt"`
}

// IsOpen reports whether the session still blocks a new open on its table.
func (s *TableSession) IsOpen() bool {
	return s.Status != SessionClosed
}

// CloseArtifacts are the closing references for a session. At least one of
// DropEventID and ClosingInventorySnapshotID is required.
type CloseArtifacts struct {
	DropEventID                *string `json:"dropEventId"`
	ClosingInventorySnapshotID *string `json:"closingInventorySnapshotId"`
	Notes                      *string `json:"notes"`
}
