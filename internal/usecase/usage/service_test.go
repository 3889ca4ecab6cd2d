package usage

import (
	"context"
	"testing"
	"time"

	domusage "github.com/kailas-cloud/hoover/internal/domain/usage"
	"github.com/kailas-cloud/hoover/internal/usecase/budget"
)

// --- Mock ---

type mockBudgetReader struct {
	status budget.Status
}

func (m *mockBudgetReader) Status() budget.Status { return m.status }

// --- Tests ---

var fixedNow = time.Date(2026, 10, 19, 15, 30, 0, 0, time.UTC)

func newTestService(br BudgetReader) *Service {
	s := New(br, "openai")
	s.now = func() time.Time { return fixedNow }
	return s
}

func TestGetReport_DailyPeriod(t *testing.T) {
	svc := newTestService(&mockBudgetReader{status: budget.Status{
		DailyUsed: 3000, DailyLimit: 10000, MonthlyUsed: 50000, MonthlyLimit: 100000,
	}})

	r := svc.GetReport(context.Background(), domusage.PeriodDay)

	if r.Period() != domusage.PeriodDay {
		t.Errorf("expected period %q, got %q", domusage.PeriodDay, r.Period())
	}
	dayStart := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	if r.PeriodStart() != dayStart.UnixMilli() {
		t.Errorf("expected period start %d, got %d", dayStart.UnixMilli(), r.PeriodStart())
	}
	if r.PeriodEnd() != dayStart.Add(24*time.Hour).UnixMilli() {
		t.Errorf("unexpected period end %d", r.PeriodEnd())
	}
	if r.TokensLimit() != 10000 || r.TokensUsed() != 3000 || r.TokensRemaining() != 7000 {
		t.Errorf("unexpected tokens: used=%d limit=%d remaining=%d", r.TokensUsed(), r.TokensLimit(), r.TokensRemaining())
	}
	if r.Provider() != "openai" {
		t.Errorf("unexpected provider %q", r.Provider())
	}
}

func TestGetReport_MonthlyPeriod(t *testing.T) {
	svc := newTestService(&mockBudgetReader{status: budget.Status{MonthlyUsed: 80000, MonthlyLimit: 100000}})

	r := svc.GetReport(context.Background(), domusage.PeriodMonth)

	monthStart := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	if r.PeriodStart() != monthStart.UnixMilli() {
		t.Errorf("expected period start %d, got %d", monthStart.UnixMilli(), r.PeriodStart())
	}
	if r.PeriodEnd() != time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC).UnixMilli() {
		t.Errorf("unexpected period end %d", r.PeriodEnd())
	}
	if r.TokensRemaining() != 20000 {
		t.Errorf("expected remaining 20000, got %d", r.TokensRemaining())
	}
}

func TestGetReport_TotalPeriod(t *testing.T) {
	svc := newTestService(&mockBudgetReader{status: budget.Status{MonthlyUsed: 100000, MonthlyLimit: 100000}})

	r := svc.GetReport(context.Background(), domusage.PeriodTotal)

	if r.PeriodStart() != 0 || r.PeriodEnd() != 0 {
		t.Errorf("expected no boundaries for total, got [%d, %d)", r.PeriodStart(), r.PeriodEnd())
	}
	if !r.Exhausted() {
		t.Error("budget should be exhausted")
	}
}

func TestGetReport_NilBudgetReader(t *testing.T) {
	r := newTestService(nil).GetReport(context.Background(), domusage.PeriodDay)

	if r.TokensLimit() != 0 || r.TokensRemaining() != -1 {
		t.Errorf("expected unlimited report, got limit=%d remaining=%d", r.TokensLimit(), r.TokensRemaining())
	}
	if r.Exhausted() {
		t.Error("nil budget reader should not be exhausted")
	}
}
