package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// assignID fills an empty primary key with a random UUID.
func assignID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}

func (c *Casino) BeforeCreate(tx *gorm.DB) error         { assignID(&c.ID); return nil }
func (s *CasinoSettings) BeforeCreate(tx *gorm.DB) error { assignID(&s.ID); return nil }
func (s *Staff) BeforeCreate(tx *gorm.DB) error          { assignID(&s.ID); return nil }
func (g *GameSetting) BeforeCreate(tx *gorm.DB) error    { assignID(&g.ID); return nil }
func (t *GamingTable) BeforeCreate(tx *gorm.DB) error    { assignID(&t.ID); return nil }
func (s *TableSession) BeforeCreate(tx *gorm.DB) error   { assignID(&s.ID); return nil }
