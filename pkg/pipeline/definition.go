// Package pipeline loads declarative aggregate and transform definitions from YAML
// and builds them into a single step.
//
//	aggregate:
//	  pkey: id
//	  fields:
//	    - name: posts
//	      path: post.id
//	transform:
//	  - field: postCount
//	    expression: length(posts)
package pipeline

import (
	"fmt"
	"os"

	"github.com/Gobusters/ectolinq"
	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/clover/pkg/aggregate"
	"github.com/Ramsey-B/clover/pkg/errors"
	"github.com/Ramsey-B/clover/pkg/logging"
	"github.com/Ramsey-B/clover/pkg/steps"
	"github.com/Ramsey-B/clover/pkg/transform"
	"github.com/Ramsey-B/clover/pkg/utils"
	"gopkg.in/yaml.v3"
)

// Definition describes an optional aggregation followed by optional field transforms.
type Definition struct {
	Aggregate *AggregateDefinition  `yaml:"aggregate" json:"aggregate"`
	Transform []TransformDefinition `yaml:"transform" json:"transform" validate:"omitempty,dive"`
}

type AggregateDefinition struct {
	PrimaryKey string            `yaml:"pkey" json:"pkey" validate:"required"`
	Fields     []FieldDefinition `yaml:"fields" json:"fields" validate:"required,min=1,dive"`
}

type FieldDefinition struct {
	Name string `yaml:"name" json:"name" validate:"required"`
	Path string `yaml:"path" json:"path" validate:"required"`
}

// TransformDefinition assigns the result of a JMESPath expression to Field.
type TransformDefinition struct {
	Field      string `yaml:"field" json:"field" validate:"required"`
	Expression string `yaml:"expression" json:"expression" validate:"required"`
}

// ParseDefinition decodes and validates a YAML definition.
func ParseDefinition(data []byte) (*Definition, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrInvalidDefinition, err)
	}

	if _, err := utils.Validate(def); err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrInvalidDefinition, err)
	}

	return &def, nil
}

// LoadDefinition reads and parses the definition file at path.
func LoadDefinition(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read definition %s: %w", path, err)
	}

	return ParseDefinition(data)
}

// Build compiles the definition into one step: aggregate first, then transform.
// Expressions are compiled here so a bad one fails before any rows are read.
func (d *Definition) Build(logger ectologger.Logger) (steps.Step, error) {
	if logger == nil {
		logger = logging.Noop()
	}

	var chain []steps.Step

	if d.Aggregate != nil {
		agg := aggregate.New(aggregate.Options{
			PrimaryKey: d.Aggregate.PrimaryKey,
			Fields: ectolinq.Map(d.Aggregate.Fields, func(f FieldDefinition) aggregate.Field {
				return aggregate.Field{Name: f.Name, Path: f.Path}
			}),
		}, aggregate.WithLogger(logger))
		chain = append(chain, agg.Step())
	}

	if len(d.Transform) > 0 {
		evaluator := transform.NewEvaluator()
		fields := make([]transform.Field, 0, len(d.Transform))
		for _, t := range d.Transform {
			fn, err := evaluator.Expression(t.Expression)
			if err != nil {
				return nil, fmt.Errorf("%w: field '%s': %w", errors.ErrInvalidDefinition, t.Field, err)
			}
			fields = append(fields, transform.Field{Name: t.Field, Fn: fn})
		}
		chain = append(chain, transform.New(fields, transform.WithLogger(logger)).Step())
	}

	logger.Debugf("Built pipeline with %d steps", len(chain))

	return steps.Chain(chain...), nil
}
