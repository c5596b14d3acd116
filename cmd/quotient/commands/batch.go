package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/quotient/internal/core"
	"github.com/joseph-ayodele/quotient/internal/core/async"
	"github.com/joseph-ayodele/quotient/internal/entity"
	"github.com/joseph-ayodele/quotient/internal/export"
	"github.com/joseph-ayodele/quotient/internal/ingest"
)

var (
	batchOut        string
	batchJSON       string
	batchWorkers    int
	batchShowHidden bool
)

var batchCmd = &cobra.Command{
	Use:   "batch <dir>",
	Short: "Process every supported document under a directory",
	Long: `Walk a directory, skip byte-identical duplicates, process the remaining
documents on a worker pool and export all items to one XLSX workbook.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().StringVarP(&batchOut, "out", "o", "", "output XLSX path (default <dir>/../inventory.xlsx)")
	batchCmd.Flags().StringVar(&batchJSON, "json", "", "also write all results as JSON")
	batchCmd.Flags().IntVarP(&batchWorkers, "workers", "w", 0, "worker count (default BATCH_WORKERS)")
	batchCmd.Flags().BoolVar(&batchShowHidden, "hidden", false, "include hidden files and directories")
	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	dir := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if batchOut == "" {
		batchOut = filepath.Join(filepath.Dir(filepath.Clean(dir)), "inventory.xlsx")
	}
	workers := cfg.Batch.Workers
	if batchWorkers > 0 {
		workers = batchWorkers
	}

	start := time.Now()
	found, dirStats, err := ingest.NewFSIngestor(logger).IngestDirectory(ctx, dir, !batchShowHidden)
	if err != nil {
		return err
	}
	paths := ingest.Pending(found)
	logger.Info("batch.ingest.ok",
		"dir", dir,
		"scanned", dirStats.Scanned,
		"matched", dirStats.Matched,
		"duplicates", dirStats.Deduplicated,
		"failed", dirStats.Failed,
		"pending", len(paths),
	)

	stats := &core.Stats{}
	q := async.NewProcessorQueue(newProcessor(cfg, logger, stats), logger,
		async.WithWorkers(workers),
		async.WithQueueSize(cfg.Batch.QueueSize),
		async.WithProcessTimeout(cfg.Batch.ProcessTimeout),
	)

	collected := make(chan []*entity.ProcessingResult, 1)
	go func() {
		var out []*entity.ProcessingResult
		for r := range q.Results() {
			out = append(out, r.Result)
		}
		collected <- out
	}()

	for _, p := range paths {
		if err := q.Enqueue(ctx, async.Job{Path: p}); err != nil {
			logger.Error("batch.enqueue.failed", "path", p, "error", err)
			break
		}
	}
	q.Shutdown(context.Background())
	results := <-collected

	xlsx, err := export.NewService(logger).ItemsXLSX(results)
	if err != nil {
		return err
	}
	if err := writeOutput(cmd, batchOut, xlsx); err != nil {
		return err
	}
	if batchJSON != "" {
		b, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("encode results: %w", err)
		}
		if err := writeOutput(cmd, batchJSON, append(b, '\n')); err != nil {
			return err
		}
	}

	snap := stats.Snapshot()
	logger.Info("batch.done",
		"processed", snap.Processed,
		"failed", snap.Failed,
		"items", snap.Items,
		"model_fallbacks", snap.ModelFallbacks,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Batch processing complete!\n")
	fmt.Fprintf(w, "- Files found: %d (%d duplicates skipped)\n", dirStats.Matched, dirStats.Deduplicated)
	fmt.Fprintf(w, "- Files processed: %d\n", snap.Succeeded)
	fmt.Fprintf(w, "- Failures: %d\n", snap.Failed+int(dirStats.Failed))
	fmt.Fprintf(w, "- Items: %d (%d via rule fallback)\n", snap.Items, snap.ModelFallbacks)
	fmt.Fprintf(w, "- Output: %s\n", batchOut)
	return nil
}
