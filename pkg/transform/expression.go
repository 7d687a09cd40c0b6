package transform

import (
	"fmt"
	"sync"

	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/jmespath/go-jmespath"
)

// Evaluator compiles JMESPath expressions into field functions, compiling each
// distinct expression once.
type Evaluator struct {
	cache map[string]*jmespath.JMESPath
	mu    sync.RWMutex
}

// NewEvaluator creates an evaluator with an empty cache.
func NewEvaluator() *Evaluator {
	return &Evaluator{
		cache: make(map[string]*jmespath.JMESPath),
	}
}

// Expression compiles expression into a FieldFunc evaluated against the whole
// row, e.g. "length(posts)" or "post.title".
func (e *Evaluator) Expression(expression string) (FieldFunc, error) {
	compiled, err := e.getOrCompile(expression)
	if err != nil {
		return nil, fmt.Errorf("invalid expression %q: %w", expression, err)
	}

	return func(row models.Row) (any, error) {
		result, err := compiled.Search(row)
		if err != nil {
			return nil, fmt.Errorf("failed to evaluate expression %q: %w", expression, err)
		}
		return result, nil
	}, nil
}

func (e *Evaluator) getOrCompile(expression string) (*jmespath.JMESPath, error) {
	e.mu.RLock()
	compiled, ok := e.cache[expression]
	e.mu.RUnlock()
	if ok {
		return compiled, nil
	}

	compiled, err := jmespath.Compile(expression)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	e.cache[expression] = compiled
	e.mu.Unlock()

	return compiled, nil
}
