package models

import "time"

// FloorEvent is an outbox row written in the same transaction as the
// change it describes. The event monitor broadcasts and marks it processed.
type FloorEvent struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CasinoID   string    `gorm:"type:varchar(36);not null;index" json:"casinoId"`
	Entity     string    `gorm:"type:varchar(50);not null;index:idx_entity_action" json:"entity"`
	RecordID   string    `gorm:"type:varchar(36);not null" json:"recordId"`
	ActionType string    `gorm:"type:varchar(30);not null;index:idx_entity_action" json:"actionType"`
	ChangedAt  time.Time `gorm:"not null" json:"changedAt"`
	Processed  bool      `gorm:"default:false;index:idx_processed" json:"processed"`
}
