package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Ramsey-B/clover/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const definition = `
aggregate:
  pkey: id
  fields:
    - name: posts
      path: post.id
transform:
  - field: postCount
    expression: length(posts)
`

const input = `[
  {"id": 1, "name": "salem", "post": {"id": 1, "title": "1"}},
  {"id": 1, "name": "salem", "post": {"id": 4, "title": "4"}},
  {"id": 2, "name": "mimo", "post": null}
]`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd(zap.NewNop())
	out := &bytes.Buffer{}
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRunCommand(t *testing.T) {
	defPath := writeFile(t, "pipeline.yaml", definition)

	t.Run("should read stdin and write stdout", func(t *testing.T) {
		out, err := execute(t, input, "run", "--definition", defPath)
		require.NoError(t, err)

		var records []map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &records))
		require.Len(t, records, 2)

		assert.Equal(t, "salem", records[0]["name"])
		assert.Equal(t, 2.0, records[0]["postCount"])
		assert.NotContains(t, records[0], "post")
		assert.Equal(t, []any{}, records[1]["posts"])
		assert.Equal(t, 0.0, records[1]["postCount"])
	})

	t.Run("should read and write files", func(t *testing.T) {
		inPath := writeFile(t, "rows.json", input)
		outPath := filepath.Join(t.TempDir(), "out.json")

		stdout, err := execute(t, "", "run", "-d", defPath, "-i", inPath, "-o", outPath, "--pretty")
		require.NoError(t, err)
		assert.Empty(t, stdout)

		data, err := os.ReadFile(outPath)
		require.NoError(t, err)
		assert.Contains(t, string(data), "\n  {")

		var records []map[string]any
		require.NoError(t, json.Unmarshal(data, &records))
		assert.Len(t, records, 2)
	})

	t.Run("should fail on malformed input", func(t *testing.T) {
		_, err := execute(t, "{not json", "run", "--definition", defPath)
		assert.ErrorContains(t, err, "failed to decode input rows")
	})

	t.Run("should require a definition", func(t *testing.T) {
		_, err := execute(t, input, "run")
		assert.Error(t, err)
	})

	t.Run("should surface pipeline errors", func(t *testing.T) {
		badPath := writeFile(t, "bad.yaml", "aggregate:\n  pkey: id\n  fields:\n    - name: posts\n      path: .id\n")
		_, err := execute(t, input, "run", "--definition", badPath)
		assert.ErrorIs(t, err, errors.ErrInvalidPath)
		assert.ErrorContains(t, err, "check the aggregate fields in "+badPath)
	})
}

func TestRunCommandTransformFailure(t *testing.T) {
	defPath := writeFile(t, "pipeline.yaml", "transform:\n  - field: n\n    expression: length(id)\n")

	_, err := execute(t, input, "run", "--definition", defPath)
	assert.ErrorContains(t, err, "pipeline failed")
	assert.NotContains(t, err.Error(), "check the aggregate fields")
}

func TestValidateCommand(t *testing.T) {
	t.Run("should accept a valid definition", func(t *testing.T) {
		defPath := writeFile(t, "pipeline.yaml", definition)
		out, err := execute(t, "", "validate", "--definition", defPath)
		require.NoError(t, err)
		assert.Contains(t, out, "is valid")
	})

	t.Run("should reject an invalid definition", func(t *testing.T) {
		defPath := writeFile(t, "pipeline.yaml", "aggregate:\n  fields: []\n")
		_, err := execute(t, "", "validate", "--definition", defPath)
		assert.ErrorIs(t, err, errors.ErrInvalidDefinition)
	})
}
