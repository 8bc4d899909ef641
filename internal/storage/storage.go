// Package storage is the gorm-backed entity store for moderation actions,
// appeals and the moderator directory.
package storage

import (
	"context"
	"fmt"
	"time"

	"deliberate/backend/internal/models"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Storage is the entity store the appeal workflow depends on.
type Storage interface {
	SaveModerator(ctx context.Context, m *models.Moderator) error
	SaveModerationAction(ctx context.Context, action *models.ModerationAction) error
	GetModerationAction(ctx context.Context, id string) (*models.ModerationAction, error)

	GetAppealByID(ctx context.Context, id string) (*models.Appeal, error)
	GetLatestAppealForAction(ctx context.Context, actionID string) (*models.Appeal, error)
	CreateAppeal(ctx context.Context, appeal *models.Appeal) error
	AssignAppeal(ctx context.Context, id, moderatorID string) (*models.Appeal, error)
	UnassignAppeal(ctx context.Context, id string) (*models.Appeal, error)
	ResolveAppeal(ctx context.Context, id string, res AppealResolution) (*models.Appeal, error)

	ListAppeals(ctx context.Context, filter AppealFilter) (*AppealPage, error)
	CountAppealsByStatus(ctx context.Context, from, to *time.Time) (map[models.AppealStatus]int64, error)
}

// ModeratorDirectory resolves moderator identities.
type ModeratorDirectory interface {
	ModeratorExists(ctx context.Context, id string) (bool, error)
}

// Service implements Storage and ModeratorDirectory on top of gorm.
type Service struct {
	DB     *gorm.DB
	Logger *zap.Logger
	// Now is the clock used for timestamps the store fills in itself.
	Now func() time.Time
}

// NewStorageService Constructor
func NewStorageService(db *gorm.DB, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		DB:     db,
		Logger: logger.Named("storage"),
		Now:    time.Now,
	}
}

// Open connects to the database selected by driver ("postgres" or "sqlite").
// dsn is a postgres DSN or a sqlite file path.
func Open(driver, dsn string, logger *zap.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	gormCfg := &gorm.Config{TranslateError: true}
	if logger != nil {
		gormCfg.Logger = NewGormLogger(logger.Named("gorm"))
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}

	if driver == "sqlite" {
		// sqlite has a single writer, serialize on one connection.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}

func (s *Service) now() time.Time {
	return s.Now().UTC().Truncate(time.Microsecond)
}

// SaveModerator upserts a moderator into the directory.
func (s *Service) SaveModerator(ctx context.Context, m *models.Moderator) error {
	return s.DB.WithContext(ctx).Save(m).Error
}

// ModeratorExists implements ModeratorDirectory.
func (s *Service) ModeratorExists(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, nil
	}
	var count int64
	err := s.DB.WithContext(ctx).Model(&models.Moderator{}).Where("id = ?", id).Limit(1).Count(&count).Error
	return count > 0, err
}

// SaveModerationAction upserts a moderation action. Actions are created by the
// moderation pipeline; the appeal workflow only reads and transitions them.
func (s *Service) SaveModerationAction(ctx context.Context, action *models.ModerationAction) error {
	return s.DB.WithContext(ctx).Omit("Approver").Save(action).Error
}

// GetModerationAction returns the action with its approver, or ErrNotFound.
func (s *Service) GetModerationAction(ctx context.Context, id string) (*models.ModerationAction, error) {
	var action models.ModerationAction
	err := s.DB.WithContext(ctx).Preload("Approver").Where("id = ?", id).First(&action).Error
	if err != nil {
		return nil, convertError(err)
	}
	return &action, nil
}
