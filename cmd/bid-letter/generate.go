package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"bid_letter/internal/formatter"
	"bid_letter/internal/http-server/handlers/api/letters"
	"bid_letter/internal/models/bids"
	"bid_letter/internal/orchestrator"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	inputPath string
	wrapWidth int
)

var errGenerationFailed = errors.New("bid letter was not generated")

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate one bid letter from a YAML file of form values",
	Long: `Generate reads a flat YAML map of form field names to values, for example

  clientName: Nike
  projectName: Future Run
  shootDays: "3"

and prints the plain-text letter, or the validation errors.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&inputPath, "input", "i", "", "YAML file with the form values")
	generateCmd.Flags().IntVarP(&wrapWidth, "width", "w", 80, "wrap width, 0 disables wrapping")
	_ = generateCmd.MarkFlagRequired("input")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	f, err := os.Open(inputPath)
	if err != nil {
		return err
	}
	defer f.Close()

	values, err := readValues(f)
	if err != nil {
		return fmt.Errorf("read %s: %w", inputPath, err)
	}

	gen, err := newGenerator(cmd.Context(), log, cfg)
	if err != nil {
		return err
	}

	return generateLetter(cmd.Context(), cmd.OutOrStdout(), orchestrator.New(log, gen), values, wrapWidth)
}

// readValues decodes a flat YAML mapping. Scalars keep their literal text;
// nulls, sequences and nested mappings are skipped.
func readValues(r io.Reader) (map[string]string, error) {
	var doc map[string]yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	values := make(map[string]string, len(doc))
	for k, node := range doc {
		if node.Kind != yaml.ScalarNode || node.ShortTag() == "!!null" {
			continue
		}
		values[k] = node.Value
	}
	return values, nil
}

func generateLetter(ctx context.Context, out io.Writer, submitter letters.Submitter, values map[string]string, width int) error {
	state, _ := submitter.Submit(ctx, values)

	if state.Succeeded() {
		fmt.Fprintln(out, formatter.Wrapped(*state.Letter, width))
		return nil
	}

	fmt.Fprintln(out, state.Message)
	for _, field := range bids.Fields {
		for _, msg := range state.Errors[field] {
			fmt.Fprintf(out, "  %s: %s\n", field, msg)
		}
	}
	return errGenerationFailed
}
