package extract

import (
	"strconv"
	"strings"

	"github.com/oklog/ulid/v2"

	"github.com/resu-med/resu-med-sub000/internal/domain"
	"github.com/resu-med/resu-med-sub000/pkg/textx"
)

// Engine is the heuristic extraction pipeline: segment the document,
// run the employment strategies under the arbitrator, then apply the
// per-section extractors. An Engine is immutable after construction and
// safe for concurrent use.
type Engine struct {
	vocab       *Vocab
	classifiers *Classifiers
	dates       *DateParser
	segmenter   *Segmenter
	arbitrator  *Arbitrator
	education   *EducationExtractor
	skills      *SkillsExtractor
	interests   *InterestsExtractor
	personal    *PersonalExtractor
	sink        TraceSink
}

// Option customizes Engine construction.
type Option func(*engineOptions)

type engineOptions struct {
	vocab   *Vocab
	weights ScoringWeights
	sink    TraceSink
}

// WithVocab overrides the embedded vocabulary tables.
func WithVocab(v *Vocab) Option {
	return func(o *engineOptions) { o.vocab = v }
}

// WithScoringWeights overrides the arbitration weights.
func WithScoringWeights(w ScoringWeights) Option {
	return func(o *engineOptions) { o.weights = w }
}

// WithTraceSink attaches a diagnostic sink.
func WithTraceSink(s TraceSink) Option {
	return func(o *engineOptions) { o.sink = s }
}

// NewEngine wires the pipeline. Defaults: embedded vocabulary, tuned
// weights, no tracing.
func NewEngine(opts ...Option) *Engine {
	o := engineOptions{
		vocab:   DefaultVocab(),
		weights: DefaultScoringWeights(),
		sink:    NopSink{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	c := NewClassifiers(o.vocab)
	p := NewDateParser(o.vocab)
	g := NewSegmenter(o.vocab)
	scorer := NewScorer(o.weights)
	strategies := []Strategy{
		NewHeaderFirstStrategy(c, p),
		NewDateLedStrategy(c, p),
	}
	return &Engine{
		vocab:       o.vocab,
		classifiers: c,
		dates:       p,
		segmenter:   g,
		arbitrator:  NewArbitrator(strategies, scorer, o.sink),
		education:   NewEducationExtractor(c, p),
		skills:      NewSkillsExtractor(o.vocab),
		interests:   NewInterestsExtractor(o.vocab),
		personal:    NewPersonalExtractor(c, g),
		sink:        o.sink,
	}
}

// Parse turns raw resume text into a structured profile. Empty or
// whitespace-only input returns domain.ErrEmptyInput; any other input
// produces a profile, possibly with empty slices. Output is
// deterministic for a given input modulo the generated entry IDs.
func (e *Engine) Parse(text string) (domain.Profile, domain.ParseDiagnostics, error) {
	diags := domain.ParseDiagnostics{Source: domain.SourceHeuristic}
	if strings.TrimSpace(text) == "" {
		return domain.Profile{}, diags, domain.ErrEmptyInput
	}

	lines := textx.Lines(text)
	sections := e.segmenter.Segment(lines)
	e.sink.Record(Event{Name: "segmented", Fields: map[string]string{
		"lines":    strconv.Itoa(len(lines)),
		"sections": strconv.Itoa(len(sections)),
	}})

	var profile domain.Profile
	profile.Personal = e.personal.Extract(lines)

	if sec, ok := e.segmenter.Find(sections, SectionEmployment); ok {
		res := e.arbitrator.Run(sec.Content(lines))
		diags.Strategy = res.Strategy
		profile.Employment = res.Entries
	}
	if sec, ok := e.segmenter.Find(sections, SectionEducation); ok {
		profile.Education = e.education.Extract(sec.Content(lines))
	}
	if sec, ok := e.segmenter.Find(sections, SectionSkills); ok {
		profile.Skills = e.skills.Extract(sec.Content(lines))
	}
	if sec, ok := e.segmenter.Find(sections, SectionInterests); ok {
		profile.Interests = e.interests.Extract(sec.Content(lines))
	}

	assignIDs(&profile)
	profile.EnsureArrays()
	return profile, diags, nil
}

// assignIDs stamps a fresh ULID on every entry.
func assignIDs(p *domain.Profile) {
	for i := range p.Employment {
		p.Employment[i].ID = ulid.Make().String()
	}
	for i := range p.Education {
		p.Education[i].ID = ulid.Make().String()
	}
	for i := range p.Skills {
		p.Skills[i].ID = ulid.Make().String()
	}
	for i := range p.Interests {
		p.Interests[i].ID = ulid.Make().String()
	}
}
