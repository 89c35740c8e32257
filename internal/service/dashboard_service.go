package service

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"lending-ledger/internal/amortization"
	"lending-ledger/internal/models"
	"lending-ledger/pkg/currency"
	"lending-ledger/pkg/redis"
)

const (
	summaryCacheKey = "dashboard:summary"
	summaryCacheTTL = time.Minute
)

func nowUTC() time.Time {
	return time.Now().UTC()
}

// DashboardService serves the portfolio summary, cached briefly in Redis
// because the home screen polls it on every visit.
type DashboardService struct {
	loans     LoanStore
	cache     *redis.Client
	formatter *currency.Formatter
	logger    *zap.Logger
	loc       *time.Location
}

// NewDashboardService creates the service. cache and formatter may be
// nil: without a cache every call hits the database, without a formatter
// the display fields stay empty.
func NewDashboardService(loans LoanStore, cache *redis.Client, formatter *currency.Formatter, logger *zap.Logger, loc *time.Location) *DashboardService {
	return &DashboardService{loans: loans, cache: cache, formatter: formatter, logger: logger, loc: loc}
}

func (s *DashboardService) GetSummary(ctx context.Context) (*models.DashboardSummary, error) {
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, summaryCacheKey); err == nil {
			var summary models.DashboardSummary
			if err := json.Unmarshal([]byte(data), &summary); err == nil {
				return &summary, nil
			}
		}
	}

	today := amortization.NormalizeDate(time.Now(), s.loc)
	summary, err := s.loans.Summary(ctx, today)
	if err != nil {
		return nil, err
	}

	if s.formatter != nil {
		summary.TotalOutstandingDisplay = s.formatter.Format(summary.TotalOutstanding)
		summary.TotalCollectedDisplay = s.formatter.Format(summary.TotalCollected)
	}

	if s.cache != nil {
		if data, err := json.Marshal(summary); err == nil {
			if err := s.cache.Set(ctx, summaryCacheKey, data, summaryCacheTTL); err != nil {
				s.logger.Warn("failed to cache dashboard summary", zap.Error(err))
			}
		}
	}

	return summary, nil
}

// Invalidate drops the cached summary. Called after any write that moves
// portfolio totals.
func (s *DashboardService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, summaryCacheKey); err != nil {
		s.logger.Warn("failed to invalidate dashboard summary", zap.Error(err))
	}
}
