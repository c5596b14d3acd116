package async

import (
	"time"

	"github.com/joseph-ayodele/quotient/internal/entity"
)

// Job asks for one file to be processed.
type Job struct {
	Path        string
	SubmittedAt time.Time
}

// Result pairs a job with its processing outcome. Result is never nil.
type Result struct {
	Job    Job
	Result *entity.ProcessingResult
	Err    error
}
