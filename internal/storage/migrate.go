package storage

import (
	"deliberate/backend/internal/models"

	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// OpenAppealIndex enforces at most one open appeal per moderation action.
const OpenAppealIndex = "ux_appeals_open_per_action"

// Migrate brings the schema up to date.
func Migrate(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, migrations())
	return m.Migrate()
}

// Rollback undoes the most recent migration.
func Rollback(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, migrations())
	return m.RollbackLast()
}

func migrations() []*gormigrate.Migration {
	return []*gormigrate.Migration{
		{
			ID: "202610010001_create_appeal_tables",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.Moderator{}, &models.ModerationAction{}, &models.Appeal{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable(&models.Appeal{}, &models.ModerationAction{}, &models.Moderator{})
			},
		},
		{
			ID: "202610010002_open_appeal_unique_index",
			Migrate: func(tx *gorm.DB) error {
				return tx.Exec("CREATE UNIQUE INDEX IF NOT EXISTS " + OpenAppealIndex +
					" ON appeals (moderation_action_id) WHERE status IN ('PENDING', 'UNDER_REVIEW')").Error
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Exec("DROP INDEX IF EXISTS " + OpenAppealIndex).Error
			},
		},
	}
}
