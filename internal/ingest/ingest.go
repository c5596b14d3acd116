package ingest

import (
	"context"
)

// IngestionResult is the per-file discovery outcome.
type IngestionResult struct {
	SourcePath   string
	Deduplicated bool // same bytes as an earlier file in this run
	DuplicateOf  string
	HashHex      string
	FileExt      string
	Size         int64
	Err          string
}

// DirStats summarizes a directory walk.
type DirStats struct {
	Scanned      uint32
	Matched      uint32
	Succeeded    uint32
	Deduplicated uint32
	Failed       uint32
}

// Ingestor finds documents to process.
type Ingestor interface {
	// IngestPath hashes a single file.
	IngestPath(ctx context.Context, path string) (IngestionResult, error)
	// IngestDirectory walks root and reports every supported file under it.
	IngestDirectory(ctx context.Context, root string, skipHidden bool) ([]IngestionResult, DirStats, error)
}

// Pending returns the paths worth processing: no error and not a duplicate.
func Pending(results []IngestionResult) []string {
	var out []string
	for _, r := range results {
		if r.Err == "" && !r.Deduplicated {
			out = append(out, r.SourcePath)
		}
	}
	return out
}
