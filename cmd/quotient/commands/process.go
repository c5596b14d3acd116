package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/quotient/internal/core"
	"github.com/joseph-ayodele/quotient/internal/entity"
	"github.com/joseph-ayodele/quotient/internal/export"
)

var (
	processOut     string
	processXLSX    string
	processRawText bool
)

var processCmd = &cobra.Command{
	Use:   "process <file>",
	Short: "Extract inventory items from one document",
	Long:  "Run one document through text extraction, item extraction, normalization and deduplication and print the result as JSON.",
	Args:  cobra.ExactArgs(1),
	RunE:  runProcess,
}

func init() {
	processCmd.Flags().StringVarP(&processOut, "out", "o", "", "write JSON here instead of stdout")
	processCmd.Flags().StringVar(&processXLSX, "xlsx", "", "also write the items as an XLSX workbook")
	processCmd.Flags().BoolVar(&processRawText, "raw-text", false, "include the extracted text in the JSON")
	rootCmd.AddCommand(processCmd)
}

type processOutput struct {
	*entity.ProcessingResult
	Summary entity.Summary `json:"summary"`
}

func runProcess(cmd *cobra.Command, args []string) error {
	proc := newProcessor(cfg, logger, &core.Stats{})

	res, procErr := proc.ProcessPath(cmd.Context(), args[0])
	if !processRawText {
		res.RawText = ""
	}

	b, err := json.MarshalIndent(processOutput{ProcessingResult: res, Summary: res.Summary()}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	if err := writeOutput(cmd, processOut, append(b, '\n')); err != nil {
		return err
	}

	if processXLSX != "" && !res.Failed() {
		x, err := export.NewService(logger).ItemsXLSX([]*entity.ProcessingResult{res})
		if err != nil {
			return err
		}
		if err := writeOutput(cmd, processXLSX, x); err != nil {
			return err
		}
	}
	return procErr
}
