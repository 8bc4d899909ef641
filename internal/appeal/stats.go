package appeal

import (
	"context"
	"time"

	"deliberate/backend/internal/models"
)

// StatusCount is one row of the per-status breakdown.
type StatusCount struct {
	Status models.AppealStatus `json:"status"`
	Count  int64               `json:"count"`
}

// AppealStatistics summarises appeals created within a date range.
type AppealStatistics struct {
	Total       int64         `json:"total"`
	Pending     int64         `json:"pending"`
	UnderReview int64         `json:"underReview"`
	Upheld      int64         `json:"upheld"`
	Denied      int64         `json:"denied"`
	ByStatus    []StatusCount `json:"byStatus"`
}

// GetAppealStatistics counts appeals whose creation time lies in
// [startDate, endDate]. Either bound may be nil; both nil means all time.
func (s *Service) GetAppealStatistics(ctx context.Context, startDate, endDate *time.Time) (*AppealStatistics, error) {
	if err := (dateRangeInput{Start: startDate, End: endDate}).Validate(); err != nil {
		return nil, validationError(err)
	}

	counts, err := s.Storage.CountAppealsByStatus(ctx, startDate, endDate)
	if err != nil {
		return nil, operationalError("count appeals", err)
	}
	return buildStatistics(counts), nil
}

func buildStatistics(counts map[models.AppealStatus]int64) *AppealStatistics {
	st := &AppealStatistics{
		Pending:     counts[models.AppealStatusPending],
		UnderReview: counts[models.AppealStatusUnderReview],
		Upheld:      counts[models.AppealStatusUpheld],
		Denied:      counts[models.AppealStatusDenied],
		ByStatus:    make([]StatusCount, 0, len(models.AppealStatuses)),
	}
	for _, status := range models.AppealStatuses {
		c := counts[status]
		st.Total += c
		st.ByStatus = append(st.ByStatus, StatusCount{Status: status, Count: c})
	}
	return st
}
