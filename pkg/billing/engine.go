package billing

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/crewtrack/crewtrack/pkg/metrics"
)

var ErrInvalidRange = errors.New("start date must not be after end date")

// Repository loads sites and their time records for a period. Records are
// matched on check-in time falling inside the range.
type Repository interface {
	SitesWithRecords(ctx context.Context, tenantID uuid.UUID, start, end time.Time, siteID, clientID *uuid.UUID) ([]SiteInput, error)
}

type Period struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

type Report struct {
	Orders             []SiteOrder `json:"orders"`
	Totals             Totals      `json:"totals"`
	Period             Period      `json:"period"`
	OvertimeMultiplier float64     `json:"overtimeMultiplier"`
}

type Engine struct {
	repo   Repository
	logger *zap.Logger
}

func NewEngine(repo Repository, logger *zap.Logger) *Engine {
	return &Engine{repo: repo, logger: logger}
}

// CalculateRange computes billable service orders for a tenant over an
// inclusive date range. The end date is extended to the last instant of its
// day. The computation is read-only and idempotent.
func (e *Engine) CalculateRange(ctx context.Context, tenantID uuid.UUID, start, end time.Time, siteID, clientID *uuid.UUID) (*Report, error) {
	if start.After(end) {
		return nil, ErrInvalidRange
	}

	began := time.Now()
	rangeEnd := endOfDay(end)

	sites, err := e.repo.SitesWithRecords(ctx, tenantID, start, rangeEnd, siteID, clientID)
	if err != nil {
		return nil, err
	}

	orders, totals := Calculate(sites)

	metrics.BillingCalcDuration.WithLabelValues(tenantID.String()).Observe(time.Since(began).Seconds())
	e.logger.Debug("calculated service orders",
		zap.String("tenant_id", tenantID.String()),
		zap.Int("sites", totals.SiteCount),
		zap.Float64("total_cost", totals.TotalCost),
	)

	return &Report{
		Orders: orders,
		Totals: totals,
		Period: Period{
			StartDate: start.Format("2006-01-02"),
			EndDate:   end.Format("2006-01-02"),
		},
		OvertimeMultiplier: OvertimeMultiplier,
	}, nil
}

func endOfDay(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), 23, 59, 59, 999000000, day.Location())
}
