package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dgallion1/mevzuat/internal/pipeline"
	"github.com/dgallion1/mevzuat/internal/store"
)

var importCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Parse a statute file and store it in the local database",
	Long: `Import parses FILE and, when it has no errors, stores the document and its
articles in a SQLite database. Documents whose extracted text is already
stored are skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	title, _ := cmd.Flags().GetString("title")
	dbPath := viper.GetString("db")

	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	st, err := store.OpenSQLite(dbPath)
	if err != nil {
		return err
	}
	defer st.Close()

	svc := pipeline.NewService(cliConfig(), st, nil, newLogger())
	out, err := svc.Ingest(context.Background(), pipeline.Upload{
		Filename: filepath.Base(args[0]),
		Title:    title,
		Data:     data,
	})
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	switch {
	case out.Rejected:
		for _, e := range out.Result.Errors {
			fmt.Fprintf(w, "line %d: %s\n", e.Line, e.Message)
		}
		return fmt.Errorf("%s rejected with %d error(s)", args[0], len(out.Result.Errors))
	case out.Duplicate:
		slug := ""
		if out.Document != nil {
			slug = out.Document.Slug
		}
		fmt.Fprintf(w, "already imported as %s\n", slug)
	default:
		fmt.Fprintf(w, "imported %s: %d article(s), %d warning(s)\n",
			out.Document.Slug, out.Document.ArticleCount, out.Document.WarningCount)
	}
	for _, warn := range out.Result.Warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: line %d: %s\n", warn.Line, warn.Message)
	}
	return nil
}

func init() {
	importCmd.Flags().String("title", "", "document title (default: from file metadata or name)")
	importCmd.Flags().String("db", "data/mevzuat.db", "SQLite database path")
	viper.BindPFlag("db", importCmd.Flags().Lookup("db"))

	rootCmd.AddCommand(importCmd)
}
