// Package usecase contains application services orchestrating the
// domain ports: parsing, persistence and async job handling.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/resu-med/resu-med-sub000/internal/adapter/observability"
	"github.com/resu-med/resu-med-sub000/internal/domain"
	"github.com/resu-med/resu-med-sub000/internal/extract"
)

// ParseService turns raw resume text into a structured profile. The AI
// delegate is tried first when configured; any delegate failure falls
// back to the heuristic engine, transparently to the caller.
type ParseService struct {
	Engine *extract.Engine
	AI     domain.AIDelegate

	AITimeout      time.Duration
	AIMaxRetries   int
	InitialBackoff time.Duration
}

// NewParseService constructs a ParseService. ai may be nil to disable
// the delegate entirely.
func NewParseService(engine *extract.Engine, ai domain.AIDelegate, timeout time.Duration, retries int, initialBackoff time.Duration) ParseService {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if initialBackoff <= 0 {
		initialBackoff = 2 * time.Second
	}
	return ParseService{
		Engine:         engine,
		AI:             ai,
		AITimeout:      timeout,
		AIMaxRetries:   retries,
		InitialBackoff: initialBackoff,
	}
}

// Parse extracts a profile from text. The only error it returns is
// domain.ErrEmptyInput; every other failure mode degrades to the
// heuristic result.
func (s ParseService) Parse(ctx domain.Context, text string) (domain.Profile, domain.ParseDiagnostics, error) {
	start := time.Now()
	if strings.TrimSpace(text) == "" {
		return domain.Profile{}, domain.ParseDiagnostics{}, domain.ErrEmptyInput
	}
	if s.AI != nil {
		profile, err := s.tryAI(ctx, text)
		if err == nil {
			diags := domain.ParseDiagnostics{Source: domain.SourceAI}
			observability.ObserveParse(string(domain.SourceAI), time.Since(start))
			return profile, diags, nil
		}
		observability.AIFallbacksTotal.Inc()
		slog.Warn("ai delegate failed; falling back to heuristics", slog.Any("error", err))
		profile, diags, herr := s.Engine.Parse(text)
		if herr != nil {
			return domain.Profile{}, diags, herr
		}
		diags.AIError = err.Error()
		observability.ObserveParse(string(domain.SourceHeuristic), time.Since(start))
		observability.StrategySelectedTotal.WithLabelValues(diags.Strategy).Inc()
		return profile, diags, nil
	}

	profile, diags, err := s.Engine.Parse(text)
	if err != nil {
		return domain.Profile{}, diags, err
	}
	observability.ObserveParse(string(domain.SourceHeuristic), time.Since(start))
	observability.StrategySelectedTotal.WithLabelValues(diags.Strategy).Inc()
	return profile, diags, nil
}

// tryAI calls the delegate under a deadline, retrying transient
// failures a bounded number of times.
func (s ParseService) tryAI(ctx domain.Context, text string) (domain.Profile, error) {
	var profile domain.Profile
	attempt := func() error {
		actx, cancel := context.WithTimeout(ctx, s.AITimeout)
		defer cancel()
		p, err := s.AI.ExtractProfile(actx, text)
		if err != nil {
			// A schema-invalid reply will not improve on retry.
			if errors.Is(err, domain.ErrSchemaInvalid) {
				return backoff.Permanent(err)
			}
			return err
		}
		profile = p
		return nil
	}
	bo := backoff.WithMaxRetries(backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(s.InitialBackoff),
	), uint64(maxRetries(s.AIMaxRetries)))
	if err := backoff.Retry(attempt, backoff.WithContext(bo, ctx)); err != nil {
		return domain.Profile{}, fmt.Errorf("op=parse.ai: %w", err)
	}
	return profile, nil
}

func maxRetries(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
