package take

import (
	stderrors "errors"
	"testing"

	"github.com/Ramsey-B/clover/pkg/errors"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFirst(t *testing.T) {
	t.Run("should take the first element", func(t *testing.T) {
		first, ok := First([]int{1, 2, 3})
		assert.True(t, ok)
		assert.Equal(t, 1, first)

		row, ok := First([]models.Row{{"id": 1}, {"id": 2}})
		assert.True(t, ok)
		assert.Equal(t, models.Row{"id": 1}, row)
	})

	t.Run("should report an empty slice", func(t *testing.T) {
		first, ok := First([]models.Row{})
		assert.False(t, ok)
		assert.Nil(t, first)
	})
}

func TestFirstOrError(t *testing.T) {
	t.Run("should return the first element", func(t *testing.T) {
		row, err := FirstOrError([]models.Row{{"id": 1}}, nil)
		require.NoError(t, err)
		assert.Equal(t, models.Row{"id": 1}, row)
	})

	t.Run("should return ErrNoRows for an empty slice", func(t *testing.T) {
		_, err := FirstOrError([]models.Row{}, nil)
		assert.ErrorIs(t, err, errors.ErrNoRows)
	})

	t.Run("should return the custom error", func(t *testing.T) {
		custom := stderrors.New("you cannot view this page")
		_, err := FirstOrError([]models.Row(nil), custom)
		assert.Same(t, custom, err)
	})

	t.Run("should treat a nil first row as missing", func(t *testing.T) {
		_, err := FirstOrError([]models.Row{nil, {"id": 2}}, nil)
		assert.ErrorIs(t, err, errors.ErrNoRows)
	})
}
