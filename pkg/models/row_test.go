package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCloneRow(t *testing.T) {
	t.Run("should copy top level keys", func(t *testing.T) {
		row := Row{"id": 1, "name": "salem"}
		clone := CloneRow(row)

		clone["name"] = "mimo"
		assert.Equal(t, "salem", row["name"])
		assert.Equal(t, 1, clone["id"])
	})

	t.Run("should share nested values", func(t *testing.T) {
		post := map[string]any{"id": 1}
		clone := CloneRow(Row{"post": post})

		clone["post"].(map[string]any)["title"] = "1"
		assert.Equal(t, "1", post["title"])
	})

	t.Run("should return an empty row for nil input", func(t *testing.T) {
		clone := CloneRow(nil)
		assert.NotNil(t, clone)
		assert.Len(t, clone, 0)
	})
}
