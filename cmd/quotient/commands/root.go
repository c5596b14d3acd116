package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/quotient/internal/common"
)

var (
	envFile   string
	verbose   bool
	logFormat string
	noModel   bool
	ocrEngine string

	cfg    *common.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "quotient",
	Short: "Turn quotes, invoices and spreadsheets into normalized inventory items",
	Long: `quotient reads PDFs, scanned images, spreadsheets, CSV, plain text and
e-mail messages, extracts line items with a language model (falling back to
rules when no model is available) and normalizes them into inventory records.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = newLogger(cmd.ErrOrStderr(), logFormat, verbose)
		slog.SetDefault(logger)

		var files []string
		if envFile != "" {
			files = append(files, envFile)
		}
		cfg = common.LoadConfig(files...)
		if noModel {
			cfg.LLM.Backend = "none"
		}
		if ocrEngine != "" {
			cfg.OCR.Engine = ocrEngine
		}
		return cfg.Validate()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "env file to load before reading the environment (default .env)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "json", "log format: json or text")
	rootCmd.PersistentFlags().BoolVar(&noModel, "no-model", false, "skip the model backend and use rules only")
	rootCmd.PersistentFlags().StringVar(&ocrEngine, "ocr-engine", "", "override OCR_ENGINE (tesseract or azure)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func newLogger(w io.Writer, format string, debug bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if debug {
		opts.Level = slog.LevelDebug
	}
	if format == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	logger.Info("output.written", "path", path, "bytes", len(data))
	return nil
}
