package appeal_test

import (
	"context"
	"time"

	"deliberate/backend/internal/models"
	"deliberate/backend/internal/storage"

	"github.com/stretchr/testify/mock"
)

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) SaveModerator(ctx context.Context, mod *models.Moderator) error {
	args := m.Called(ctx, mod)
	return args.Error(0)
}

func (m *MockStorage) SaveModerationAction(ctx context.Context, action *models.ModerationAction) error {
	args := m.Called(ctx, action)
	return args.Error(0)
}

func (m *MockStorage) GetModerationAction(ctx context.Context, id string) (*models.ModerationAction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ModerationAction), args.Error(1)
}

func (m *MockStorage) GetAppealByID(ctx context.Context, id string) (*models.Appeal, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Appeal), args.Error(1)
}

func (m *MockStorage) GetLatestAppealForAction(ctx context.Context, actionID string) (*models.Appeal, error) {
	args := m.Called(ctx, actionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Appeal), args.Error(1)
}

func (m *MockStorage) CreateAppeal(ctx context.Context, appeal *models.Appeal) error {
	args := m.Called(ctx, appeal)
	return args.Error(0)
}

func (m *MockStorage) AssignAppeal(ctx context.Context, id, moderatorID string) (*models.Appeal, error) {
	args := m.Called(ctx, id, moderatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Appeal), args.Error(1)
}

func (m *MockStorage) UnassignAppeal(ctx context.Context, id string) (*models.Appeal, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Appeal), args.Error(1)
}

func (m *MockStorage) ResolveAppeal(ctx context.Context, id string, res storage.AppealResolution) (*models.Appeal, error) {
	args := m.Called(ctx, id, res)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Appeal), args.Error(1)
}

func (m *MockStorage) ListAppeals(ctx context.Context, filter storage.AppealFilter) (*storage.AppealPage, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.AppealPage), args.Error(1)
}

func (m *MockStorage) CountAppealsByStatus(ctx context.Context, from, to *time.Time) (map[models.AppealStatus]int64, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[models.AppealStatus]int64), args.Error(1)
}

type MockDirectory struct {
	mock.Mock
}

func (m *MockDirectory) ModeratorExists(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, eventType string, payload any) error {
	args := m.Called(ctx, eventType, payload)
	return args.Error(0)
}
