// Package steps defines the single-argument row function shared by the aggregate
// and transform packages, so either can be handed a row set later, typically as the
// continuation of a query.
//
//	records, err := aggregate.New(opts).Step().Then(fetchRows(ctx))
package steps

import "github.com/Ramsey-B/clover/pkg/models"

// Step consumes a row set and produces a new one.
type Step func(rows []models.Row) ([]models.Row, error)

// Then runs the step on the result of a fallible row producer. A producer error
// is returned as-is without running the step.
func (s Step) Then(rows []models.Row, err error) ([]models.Row, error) {
	if err != nil {
		return nil, err
	}
	return s(rows)
}

// Chain composes steps left to right. The first failing step aborts the chain.
func Chain(steps ...Step) Step {
	return func(rows []models.Row) ([]models.Row, error) {
		var err error
		for _, step := range steps {
			if step == nil {
				continue
			}
			rows, err = step(rows)
			if err != nil {
				return nil, err
			}
		}
		return rows, nil
	}
}
