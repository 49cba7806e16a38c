package database

import (
	"github.com/yeremiapane/casino-floor/models"
	"github.com/yeremiapane/casino-floor/utils"
	"gorm.io/gorm"
)

// Models lists every table the service owns, in dependency order.
func Models() []interface{} {
	return []interface{}{
		&models.Casino{},
		&models.CasinoSettings{},
		&models.Staff{},
		&models.GameSetting{},
		&models.GamingTable{},
		&models.TableSession{},
		&models.FloorEvent{},
	}
}

// Migrate creates the schema and the constraints gorm tags cannot express.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return err
	}
	return ensureOpenSessionIndex(db)
}

// ensureOpenSessionIndex backs the one-open-session-per-table invariant with
// a partial unique index. MySQL has no partial indexes; there the row lock
// taken by OpenTableSession is the only guard.
func ensureOpenSessionIndex(db *gorm.DB) error {
	switch db.Dialector.Name() {
	case "sqlite", "postgres":
		stmt := `CREATE UNIQUE INDEX IF NOT EXISTS uq_table_sessions_open
			ON table_sessions (gaming_table_id) WHERE status <> 'CLOSED'`
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
		utils.InfoLogger.Printf("Open session index verified (%s)", db.Dialector.Name())
	default:
		utils.InfoLogger.Printf("Dialect %s has no partial indexes; relying on row locks", db.Dialector.Name())
	}
	return nil
}
