package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/Ramsey-B/clover/pkg/errors"
	"github.com/Ramsey-B/clover/pkg/logging"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/pipeline"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const stdio = "-"

func newRootCmd(logger *zap.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:           "clover",
		Short:         "Fold joined rows into nested records and reshape them",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newRunCmd(logger), newValidateCmd(logger))

	return root
}

func newRunCmd(logger *zap.Logger) *cobra.Command {
	var (
		definitionPath string
		inputPath      string
		outputPath     string
		pretty         bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a pipeline definition over a JSON array of rows",
		RunE: func(cmd *cobra.Command, _ []string) error {
			def, err := pipeline.LoadDefinition(definitionPath)
			if err != nil {
				return err
			}

			step, err := def.Build(logging.NewEctoLogger(logger))
			if err != nil {
				return err
			}

			rows, err := readRows(cmd.InOrStdin(), inputPath)
			if err != nil {
				return err
			}

			result, err := step(rows)
			if errors.IsAggregateError(err) {
				return fmt.Errorf("check the aggregate fields in %s: %w", definitionPath, err)
			}
			if err != nil {
				return fmt.Errorf("pipeline failed: %w", err)
			}

			logger.Info("pipeline complete", zap.Int("input_rows", len(rows)), zap.Int("output_rows", len(result)))

			return writeRows(cmd.OutOrStdout(), outputPath, result, pretty)
		},
	}

	cmd.Flags().StringVarP(&definitionPath, "definition", "d", "", "path to the pipeline definition (YAML)")
	cmd.Flags().StringVarP(&inputPath, "input", "i", stdio, "path to the input rows (JSON array), - for stdin")
	cmd.Flags().StringVarP(&outputPath, "output", "o", stdio, "path to write the result, - for stdout")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "indent the JSON output")
	_ = cmd.MarkFlagRequired("definition")

	return cmd
}

func newValidateCmd(logger *zap.Logger) *cobra.Command {
	var definitionPath string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check that a pipeline definition parses and compiles",
		RunE: func(cmd *cobra.Command, _ []string) error {
			def, err := pipeline.LoadDefinition(definitionPath)
			if err != nil {
				return err
			}

			if _, err := def.Build(logging.NewEctoLogger(logger)); err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s is valid\n", definitionPath)
			return err
		},
	}

	cmd.Flags().StringVarP(&definitionPath, "definition", "d", "", "path to the pipeline definition (YAML)")
	_ = cmd.MarkFlagRequired("definition")

	return cmd
}

func readRows(stdin io.Reader, path string) ([]models.Row, error) {
	in := stdin
	if path != stdio {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open input: %w", err)
		}
		defer f.Close()
		in = f
	}

	var rows []models.Row
	if err := json.NewDecoder(in).Decode(&rows); err != nil {
		return nil, fmt.Errorf("failed to decode input rows: %w", err)
	}

	return rows, nil
}

func writeRows(stdout io.Writer, path string, rows []models.Row, pretty bool) error {
	out := stdout
	if path != stdio {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create output: %w", err)
		}
		defer f.Close()
		out = f
	}

	encoder := json.NewEncoder(out)
	if pretty {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(rows); err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}

	return nil
}
