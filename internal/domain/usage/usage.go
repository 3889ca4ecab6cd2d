// Package usage describes NLP token consumption reports.
package usage

import "fmt"

// Period is the aggregation granularity.
type Period string

// Aggregation period constants.
const (
	PeriodDay   Period = "day"
	PeriodMonth Period = "month"
	PeriodTotal Period = "total"
)

// ParsePeriod validates a period name. Empty means PeriodDay.
func ParsePeriod(s string) (Period, error) {
	switch p := Period(s); p {
	case "":
		return PeriodDay, nil
	case PeriodDay, PeriodMonth, PeriodTotal:
		return p, nil
	default:
		return "", fmt.Errorf("unknown period %q (want day, month or total)", s)
	}
}

// Report is the NLP token usage of one provider over a period.
// Timestamps are unix millis; zero for PeriodTotal. A zero limit means unlimited.
type Report struct {
	period      Period
	periodStart int64
	periodEnd   int64
	provider    string
	tokensUsed  int64
	tokensLimit int64
}

// NewReport creates a usage report.
func NewReport(period Period, start, end int64, provider string, used, limit int64) Report {
	return Report{
		period:      period,
		periodStart: start,
		periodEnd:   end,
		provider:    provider,
		tokensUsed:  used,
		tokensLimit: limit,
	}
}

// Period returns the aggregation granularity.
func (r *Report) Period() Period { return r.period }

// PeriodStart returns the period start (unix millis).
func (r *Report) PeriodStart() int64 { return r.periodStart }

// PeriodEnd returns the period end, which is also when the budget resets (unix millis).
func (r *Report) PeriodEnd() int64 { return r.periodEnd }

// Provider returns the NLP provider name.
func (r *Report) Provider() string { return r.provider }

// TokensUsed returns tokens consumed in the period.
func (r *Report) TokensUsed() int64 { return r.tokensUsed }

// TokensLimit returns the token cap, 0 if unlimited.
func (r *Report) TokensLimit() int64 { return r.tokensLimit }

// TokensRemaining returns tokens left, or -1 when unlimited.
func (r *Report) TokensRemaining() int64 {
	if r.tokensLimit == 0 {
		return -1
	}
	return max(r.tokensLimit-r.tokensUsed, 0)
}

// Exhausted reports whether the budget is spent.
func (r *Report) Exhausted() bool {
	return r.tokensLimit > 0 && r.tokensUsed >= r.tokensLimit
}
