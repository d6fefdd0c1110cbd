// Package main is the mevzuat command-line tool: it previews how statute
// files split into articles, generates slugs and imports documents into a
// local SQLite database.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dgallion1/mevzuat/internal/config"
)

// version is set at build time via ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "mevzuat",
	Short: "Split Turkish legal texts into articles",
	Long: `mevzuat parses statutes and regulations (plain text, Markdown, HTML, PDF
or DOCX) into numbered articles, reports structural problems such as missing
or duplicate article numbers, and stores accepted documents.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./mevzuat.yaml or ~/.config/mevzuat/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "warn", "log level: debug, info, warn or error")
	rootCmd.PersistentFlags().Bool("pdf-fallback", true, "use pdftotext when the built-in PDF reader fails")
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("pdf_fallback", rootCmd.PersistentFlags().Lookup("pdf-fallback"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("mevzuat")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "mevzuat"))
		}
	}

	viper.SetEnvPrefix("MEVZUAT")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// newLogger writes text logs to stderr so stdout stays machine-readable.
func newLogger() *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(viper.GetString("log_level"))); err != nil {
		level = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// cliConfig maps viper settings onto the service configuration.
func cliConfig() config.Config {
	maxText := viper.GetInt64("max_text_bytes")
	if maxText <= 0 {
		maxText = 10485760
	}
	return config.Config{
		MaxTextBytes:         maxText,
		PDFFallbackPdftotext: viper.GetBool("pdf_fallback"),
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
