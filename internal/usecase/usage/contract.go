package usage

import "github.com/kailas-cloud/hoover/internal/usecase/budget"

// BudgetReader provides read-only access to NLP token budget state.
type BudgetReader interface {
	Status() budget.Status
}
