// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/isbn-search/internal/render"
	"github.com/pdiddy/isbn-search/internal/search"
)

type outputFormat int

const (
	formatText outputFormat = iota
	formatJSON
	formatCSL
)

var lookupCmd = &cobra.Command{
	Use:   "lookup [isbn...]",
	Short: "Look up one or more ISBNs and print the results",
	Long: `Lookup validates the given identifiers, reports malformed ones by
position, and fetches summaries for the valid ones in a single request.

Identifiers come from the arguments, from --file, or from standard input,
one per line or separated by commas.`,
	RunE: runLookupCmd,
}

func init() {
	lookupCmd.Flags().String("file", "", "read identifiers from a file")
	lookupCmd.Flags().Bool("json", false, "output results as JSON")
	lookupCmd.Flags().Bool("csl", false, "output results as a CSL-YAML bibliography")

	rootCmd.AddCommand(lookupCmd)
}

func runLookupCmd(cmd *cobra.Command, args []string) error {
	file, _ := cmd.Flags().GetString("file")
	asJSON, _ := cmd.Flags().GetBool("json")
	asCSL, _ := cmd.Flags().GetBool("csl")
	if asJSON && asCSL {
		return fmt.Errorf("--json and --csl are mutually exclusive")
	}

	format := formatText
	switch {
	case asJSON:
		format = formatJSON
	case asCSL:
		format = formatCSL
	}

	input, err := readInput(args, file, cmd.InOrStdin())
	if err != nil {
		return err
	}

	cfg, err := currentConfig()
	if err != nil {
		return err
	}
	p, store, err := newPipeline(cfg)
	if err != nil {
		return err
	}
	defer closeStore(store)

	return runLookup(cmd.Context(), p, input, format, cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// readInput returns the raw identifier text from file, args, or stdin, in
// that order of preference. Trailing newlines of file and stdin input are
// dropped so they do not read as an empty identifier.
func readInput(args []string, file string, stdin io.Reader) (string, error) {
	switch {
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", file, err)
		}
		return strings.TrimRight(string(data), "\r\n"), nil
	case len(args) > 0:
		return strings.Join(args, "\n"), nil
	default:
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return strings.TrimRight(string(data), "\r\n"), nil
	}
}

// runLookup searches input and writes the results to stdout. Rejected
// identifiers are reported on stderr; a failed lookup is returned.
func runLookup(ctx context.Context, p *search.Pipeline, input string, format outputFormat, stdout, stderr io.Writer) error {
	res := p.Run(ctx, input)

	if res.Outcome.HasInvalid() {
		fmt.Fprintf(stderr, "warning: %s\n", res.Outcome.Notice())
		for _, inv := range res.Outcome.Invalid {
			fmt.Fprintf(stderr, "  %d: %q\n", inv.Position(), inv.Value)
		}
	}
	if res.Err != nil {
		return fmt.Errorf("lookup failed: %w", res.Err)
	}

	switch format {
	case formatJSON:
		return render.FormatJSON(res.Cards(), stdout)
	case formatCSL:
		return render.FormatCSL(res.Books, stdout)
	default:
		render.FormatText(res.Cards(), stdout)
		return nil
	}
}
