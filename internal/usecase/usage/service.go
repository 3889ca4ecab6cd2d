package usage

import (
	"context"
	"time"

	domusage "github.com/kailas-cloud/hoover/internal/domain/usage"
	"github.com/kailas-cloud/hoover/internal/usecase/budget"
)

// Service handles NLP usage reporting.
type Service struct {
	br       BudgetReader
	provider string
	now      func() time.Time
}

// New creates a Service. br can be nil (no budget configured).
func New(br BudgetReader, provider string) *Service {
	return &Service{br: br, provider: provider, now: func() time.Time { return time.Now().UTC() }}
}

// GetReport builds a usage report for the given period. PeriodTotal reports the
// current month counters without boundaries.
func (s *Service) GetReport(_ context.Context, period domusage.Period) domusage.Report {
	now := s.now()
	var start, end, used, limit int64

	var st budget.Status
	if s.br != nil {
		st = s.br.Status()
	}
	switch period {
	case domusage.PeriodDay:
		dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		start = dayStart.UnixMilli()
		end = dayStart.Add(24 * time.Hour).UnixMilli()
		used, limit = st.DailyUsed, st.DailyLimit
	case domusage.PeriodMonth:
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		start = monthStart.UnixMilli()
		end = monthStart.AddDate(0, 1, 0).UnixMilli()
		used, limit = st.MonthlyUsed, st.MonthlyLimit
	default:
		used, limit = st.MonthlyUsed, st.MonthlyLimit
	}

	return domusage.NewReport(period, start, end, s.provider, used, limit)
}
