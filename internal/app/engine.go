package app

import (
	"github.com/resu-med/resu-med-sub000/internal/config"
	"github.com/resu-med/resu-med-sub000/internal/extract"
)

// ScoringWeightsFromConfig starts from the tuned defaults and applies
// any non-zero env overrides.
func ScoringWeightsFromConfig(cfg config.Config) extract.ScoringWeights {
	w := extract.DefaultScoringWeights()
	if cfg.ScorePosition > 0 {
		w.Position = cfg.ScorePosition
	}
	if cfg.ScoreCompany > 0 {
		w.Company = cfg.ScoreCompany
	}
	if cfg.ScoreStartDate > 0 {
		w.StartDate = cfg.ScoreStartDate
	}
	if cfg.ScoreLocation > 0 {
		w.Location = cfg.ScoreLocation
	}
	if cfg.ScoreDescription > 0 {
		w.Description = cfg.ScoreDescription
	}
	if cfg.ScoreAchievements > 0 {
		w.Achievements = cfg.ScoreAchievements
	}
	return w
}

// BuildEngine constructs the heuristic extraction engine from config.
func BuildEngine(cfg config.Config) *extract.Engine {
	return extract.NewEngine(
		extract.WithScoringWeights(ScoringWeightsFromConfig(cfg)),
		extract.WithTraceSink(extract.SlogSink{}),
	)
}
