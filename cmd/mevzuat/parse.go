package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/dgallion1/mevzuat/internal/legal"
	"github.com/dgallion1/mevzuat/internal/parser"
	"github.com/dgallion1/mevzuat/internal/pipeline"
)

var parseCmd = &cobra.Command{
	Use:   "parse FILE",
	Short: "Split a statute file into articles and print the result",
	Long: `Parse extracts the text of FILE, splits it into articles and prints the
articles together with any errors and warnings. Use "-" to read plain text
from standard input. Nothing is stored.`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func runParse(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	strict, _ := cmd.Flags().GetBool("strict")
	if format != "json" && format != "yaml" {
		return fmt.Errorf("unsupported format %q: use json or yaml", format)
	}

	svc := pipeline.NewService(cliConfig(), nil, nil, newLogger())

	var (
		res legal.Result
		err error
	)
	if args[0] == "-" {
		raw, rerr := io.ReadAll(cmd.InOrStdin())
		if rerr != nil {
			return fmt.Errorf("read stdin: %w", rerr)
		}
		text, derr := parser.DecodeText(raw)
		if derr != nil {
			return derr
		}
		res, err = svc.ParseText(text)
	} else {
		data, rerr := os.ReadFile(args[0])
		if rerr != nil {
			return rerr
		}
		res, err = svc.Preview(context.Background(), pipeline.Upload{Filename: args[0], Data: data})
	}
	if err != nil {
		return err
	}

	if err := writeResult(cmd.OutOrStdout(), res, format); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%d article(s), %d error(s), %d warning(s)\n",
		len(res.Articles), len(res.Errors), len(res.Warnings))

	if strict && res.HasErrors() {
		return fmt.Errorf("document has %d error(s)", len(res.Errors))
	}
	return nil
}

func writeResult(w io.Writer, res legal.Result, format string) error {
	if format == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(res); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

func init() {
	parseCmd.Flags().String("format", "json", "output format: json or yaml")
	parseCmd.Flags().Bool("strict", false, "exit with an error when the document has parse errors")

	rootCmd.AddCommand(parseCmd)
}
