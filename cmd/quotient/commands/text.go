package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/quotient/internal/entity"
	"github.com/joseph-ayodele/quotient/internal/textextract"
)

var textOut string

var textCmd = &cobra.Command{
	Use:   "text <file>",
	Short: "Print the plain text extracted from a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runText,
}

func init() {
	textCmd.Flags().StringVarP(&textOut, "out", "o", "", "write text here instead of stdout")
	rootCmd.AddCommand(textCmd)
}

func runText(cmd *cobra.Command, args []string) error {
	doc, err := entity.LoadDocument(args[0])
	if err != nil {
		return err
	}
	if err := textextract.Validate(doc, cfg.Pipeline.MaxFileSizeMB); err != nil {
		return err
	}

	res, err := newTextExtractor(cfg, logger).Extract(cmd.Context(), doc)
	if err != nil {
		return err
	}
	logger.Info("text.ok",
		"method", res.Method,
		"pages", res.Pages,
		"confidence", res.Confidence,
		"warnings", len(res.Warnings),
		"elapsed_ms", res.Duration.Milliseconds(),
	)
	for _, w := range res.Warnings {
		logger.Warn("text.warning", "warning", w)
	}
	return writeOutput(cmd, textOut, []byte(fmt.Sprintln(res.Text)))
}
