package extract

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/joseph-ayodele/quotient/constants"
	"github.com/joseph-ayodele/quotient/internal/common"
	"github.com/joseph-ayodele/quotient/internal/entity"
	"github.com/joseph-ayodele/quotient/internal/llm"
)

type Config struct {
	ModelTimeout   time.Duration // per-call budget for the model backend, default 45s
	MaxPromptChars int           // default 3000
	SkipModel      bool
}

// Outcome reports which strategy produced the candidates.
type Outcome struct {
	Strategy   constants.Strategy
	BackendErr error // set when the model path was tried and abandoned
	Dropped    []string
	Elapsed    time.Duration
}

// Engine tries the model backend first and falls back to rules.
type Engine struct {
	cfg    Config
	gen    llm.Generator
	logger *slog.Logger
}

// New builds an Engine. gen may be nil, in which case only rules run.
func New(cfg Config, gen llm.Generator, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.ModelTimeout <= 0 {
		cfg.ModelTimeout = 45 * time.Second
	}
	if cfg.MaxPromptChars <= 0 {
		cfg.MaxPromptChars = llm.DefaultMaxPromptChars
	}
	return &Engine{cfg: cfg, gen: gen, logger: logger}
}

// Extract never fails: if both strategies come up empty the result is empty.
func (e *Engine) Extract(ctx context.Context, text string) ([]entity.CandidateEntity, Outcome) {
	start := time.Now()
	if strings.TrimSpace(text) == "" {
		return nil, Outcome{Strategy: constants.StrategyNone}
	}

	var out Outcome
	if e.gen != nil && !e.cfg.SkipModel {
		cands, dropped, err := e.fromModel(ctx, text)
		if err == nil {
			out = Outcome{Strategy: constants.StrategyModel, Dropped: dropped, Elapsed: time.Since(start)}
			e.logger.Info("extract.model.ok", "candidates", len(cands), "dropped", len(dropped), "elapsed_ms", out.Elapsed.Milliseconds())
			return cands, out
		}
		out.BackendErr = err
		e.logger.Warn("extract.model.failed", "error", err, "elapsed_ms", time.Since(start).Milliseconds())
	}

	cands := ExtractRules(text)
	out.Strategy = constants.StrategyRules
	out.Elapsed = time.Since(start)
	e.logger.Info("extract.rules.ok", "candidates", len(cands), "elapsed_ms", out.Elapsed.Milliseconds())
	return cands, out
}

func (e *Engine) fromModel(ctx context.Context, text string) ([]entity.CandidateEntity, []string, error) {
	ctx, cancel := context.WithTimeout(ctx, e.cfg.ModelTimeout)
	defer cancel()

	resp, err := e.gen.Generate(ctx, llm.BuildItemsPrompt(text, e.cfg.MaxPromptChars))
	if err != nil {
		return nil, nil, common.BackendError("model request failed", err)
	}
	objs, dropped, err := llm.ParseItems(resp)
	if err != nil {
		return nil, dropped, common.BackendError("model output unparseable", err)
	}

	cands := make([]entity.CandidateEntity, 0, len(objs))
	for _, m := range objs {
		if c := candidateFromObject(m); c.FieldCount() > 0 {
			cands = append(cands, c)
		}
	}
	return cands, dropped, nil
}
