package async_test

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/quotient/internal/core/async"
	"github.com/joseph-ayodele/quotient/internal/entity"
)

type fakeProcessor struct {
	calls    atomic.Int32
	inflight atomic.Int32
	peak     atomic.Int32
	delay    time.Duration
}

func (f *fakeProcessor) ProcessPath(ctx context.Context, path string) (*entity.ProcessingResult, error) {
	f.calls.Add(1)
	n := f.inflight.Add(1)
	defer f.inflight.Add(-1)
	for {
		p := f.peak.Load()
		if n <= p || f.peak.CompareAndSwap(p, n) {
			break
		}
	}
	if _, ok := ctx.Deadline(); !ok {
		return nil, errors.New("job context has no deadline")
	}
	time.Sleep(f.delay)

	res := &entity.ProcessingResult{SourcePath: path}
	if path == "bad.pdf" {
		res.Errors = []string{"broken"}
		return res, errors.New("broken")
	}
	res.Items = []entity.InventoryItem{{Name: path}}
	return res, nil
}

func TestProcessorQueue_ProcessesAllJobs(t *testing.T) {
	proc := &fakeProcessor{delay: 5 * time.Millisecond}
	q := async.NewProcessorQueue(proc, nil, async.WithWorkers(3), async.WithQueueSize(4), async.WithProcessTimeout(time.Second))

	collected := make(chan []async.Result, 1)
	go func() {
		var out []async.Result
		for r := range q.Results() {
			out = append(out, r)
		}
		collected <- out
	}()

	for i := 0; i < 10; i++ {
		require.NoError(t, q.Enqueue(context.Background(), async.Job{Path: fmt.Sprintf("doc-%d.txt", i)}))
	}
	require.NoError(t, q.Enqueue(context.Background(), async.Job{Path: "bad.pdf"}))
	q.Shutdown(context.Background())

	results := <-collected
	require.Len(t, results, 11)
	assert.EqualValues(t, 11, proc.calls.Load())
	assert.LessOrEqual(t, proc.peak.Load(), int32(3))

	failed := 0
	for _, r := range results {
		require.NotNil(t, r.Result)
		assert.False(t, r.Job.SubmittedAt.IsZero())
		if r.Err != nil {
			failed++
			assert.Equal(t, "bad.pdf", r.Job.Path)
		}
	}
	assert.Equal(t, 1, failed)
}

func TestProcessorQueue_EnqueueAfterShutdown(t *testing.T) {
	q := async.NewProcessorQueue(&fakeProcessor{}, nil)
	q.Shutdown(context.Background())
	q.Shutdown(context.Background())

	err := q.Enqueue(context.Background(), async.Job{Path: "late.txt"})
	assert.ErrorIs(t, err, async.ErrQueueClosed)

	_, open := <-q.Results()
	assert.False(t, open)
}
