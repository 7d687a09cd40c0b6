package transform

import (
	"testing"

	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpression(t *testing.T) {
	evaluator := NewEvaluator()

	t.Run("should read nested fields", func(t *testing.T) {
		fn, err := evaluator.Expression("post.title")
		require.NoError(t, err)

		value, err := fn(models.Row{"post": map[string]any{"title": "1"}})
		require.NoError(t, err)
		assert.Equal(t, "1", value)
	})

	t.Run("should count collected children", func(t *testing.T) {
		fn, err := evaluator.Expression("length(posts)")
		require.NoError(t, err)

		value, err := fn(models.Row{"posts": []any{
			map[string]any{"id": 1.0},
			map[string]any{"id": 4.0},
		}})
		require.NoError(t, err)
		assert.Equal(t, 2.0, value)
	})

	t.Run("should project child fields", func(t *testing.T) {
		fn, err := evaluator.Expression("posts[].title")
		require.NoError(t, err)

		value, err := fn(models.Row{"posts": []any{
			map[string]any{"title": "1"},
			map[string]any{"title": "4"},
		}})
		require.NoError(t, err)
		assert.Equal(t, []any{"1", "4"}, value)
	})

	t.Run("should resolve missing fields to nil", func(t *testing.T) {
		fn, err := evaluator.Expression("post.missing")
		require.NoError(t, err)

		value, err := fn(models.Row{"post": map[string]any{}})
		require.NoError(t, err)
		assert.Nil(t, value)
	})

	t.Run("should reject an invalid expression", func(t *testing.T) {
		_, err := evaluator.Expression("posts[")
		assert.Error(t, err)
	})

	t.Run("should report evaluation errors", func(t *testing.T) {
		fn, err := evaluator.Expression("length(age)")
		require.NoError(t, err)

		_, err = fn(models.Row{"age": 8.0})
		assert.Error(t, err)
	})

	t.Run("should reuse compiled expressions", func(t *testing.T) {
		e := NewEvaluator()
		_, err := e.Expression("name")
		require.NoError(t, err)
		_, err = e.Expression("name")
		require.NoError(t, err)

		assert.Len(t, e.cache, 1)
		assert.Contains(t, e.cache, "name")
	})

	t.Run("should keep caches separate per evaluator", func(t *testing.T) {
		first, second := NewEvaluator(), NewEvaluator()
		_, err := first.Expression("age")
		require.NoError(t, err)

		assert.Contains(t, first.cache, "age")
		assert.NotContains(t, second.cache, "age")
	})

	t.Run("should not cache invalid expressions", func(t *testing.T) {
		e := NewEvaluator()
		_, err := e.Expression("posts[")
		require.Error(t, err)
		assert.Empty(t, e.cache)
	})
}
