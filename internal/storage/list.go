package storage

import (
	"context"
	"errors"
	"time"

	"deliberate/backend/internal/models"

	"gorm.io/gorm"
)

// AppealFilter selects a page of appeals ordered by (created_at, id).
type AppealFilter struct {
	Statuses    []models.AppealStatus
	ReviewerID  *string
	AppellantID *string

	// Cursor is the ID of the last appeal of the previous page.
	Cursor string
	Limit  int
}

// AppealPage is one page of ListAppeals.
type AppealPage struct {
	Items []*models.Appeal
	// Total counts every appeal matching the filter, ignoring the cursor.
	Total int64
}

func (f AppealFilter) scope(db *gorm.DB) *gorm.DB {
	if len(f.Statuses) > 0 {
		db = db.Where("status IN ?", f.Statuses)
	}
	if f.ReviewerID != nil {
		db = db.Where("reviewer_id = ?", *f.ReviewerID)
	}
	if f.AppellantID != nil {
		db = db.Where("appellant_id = ?", *f.AppellantID)
	}
	return db
}

// ListAppeals returns the appeals matching filter with their moderation
// actions preloaded. The cursor resumes strictly after the referenced appeal.
func (s *Service) ListAppeals(ctx context.Context, filter AppealFilter) (*AppealPage, error) {
	page := &AppealPage{Items: make([]*models.Appeal, 0)}

	if err := s.DB.WithContext(ctx).Model(&models.Appeal{}).Scopes(filter.scope).Count(&page.Total).Error; err != nil {
		return nil, err
	}

	q := s.DB.WithContext(ctx).Model(&models.Appeal{}).Scopes(filter.scope)
	if filter.Cursor != "" {
		var last models.Appeal
		err := s.DB.WithContext(ctx).Select("id", "created_at").Where("id = ?", filter.Cursor).First(&last).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCursor
		}
		if err != nil {
			return nil, err
		}
		q = q.Where("(created_at > ? OR (created_at = ? AND id > ?))", last.CreatedAt, last.CreatedAt, last.ID)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	err := q.Preload("ModerationAction.Approver").
		Order("created_at ASC").
		Order("id ASC").
		Find(&page.Items).Error
	if err != nil {
		return nil, err
	}
	return page, nil
}

type statusCount struct {
	Status models.AppealStatus
	Count  int64
}

// CountAppealsByStatus counts appeals created within [from, to] per status
// in a single grouped query. Nil bounds are open. Statuses without appeals
// are absent from the result.
func (s *Service) CountAppealsByStatus(ctx context.Context, from, to *time.Time) (map[models.AppealStatus]int64, error) {
	q := s.DB.WithContext(ctx).Model(&models.Appeal{})
	if from != nil {
		q = q.Where("created_at >= ?", from.UTC())
	}
	if to != nil {
		q = q.Where("created_at <= ?", to.UTC())
	}

	var rows []statusCount
	if err := q.Select("status, COUNT(*) AS count").Group("status").Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[models.AppealStatus]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}
