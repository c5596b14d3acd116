package core

import (
	"sync"

	"github.com/joseph-ayodele/quotient/internal/entity"
)

// StatsSnapshot is a point-in-time copy of Stats.
type StatsSnapshot struct {
	Processed      int `json:"processed"`
	Succeeded      int `json:"succeeded"`
	Failed         int `json:"failed"`
	Items          int `json:"items"`
	ModelFallbacks int `json:"model_fallbacks"`
	ItemErrors     int `json:"item_errors"`
}

// Stats aggregates results across documents. It is safe for concurrent use.
type Stats struct {
	mu sync.Mutex
	s  StatsSnapshot
}

// Record folds one result in. itemErrs counts rejected candidates and
// fellBack marks a model failure recovered by rules.
func (st *Stats) Record(res *entity.ProcessingResult, itemErrs int, fellBack bool) {
	if st == nil || res == nil {
		return
	}
	st.mu.Lock()
	defer st.mu.Unlock()

	st.s.Processed++
	if res.Failed() {
		st.s.Failed++
		return
	}
	st.s.Succeeded++
	st.s.Items += len(res.Items)
	st.s.ItemErrors += itemErrs
	if fellBack {
		st.s.ModelFallbacks++
	}
}

func (st *Stats) Snapshot() StatsSnapshot {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.s
}
