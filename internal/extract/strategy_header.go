package extract

import (
	"github.com/resu-med/resu-med-sub000/internal/domain"
)

// HeaderFirstStrategy reads documents laid out as
//
//	Senior Engineer at Acme Corp
//	Jan 2021 to Present
//	Belfast, UK
//	Built distributed systems.
//	• Reduced latency by 40%
//
// A job-header line opens an entry; everything up to the next header is
// folded into it.
type HeaderFirstStrategy struct {
	classifiers *Classifiers
	dates       *DateParser
}

// NewHeaderFirstStrategy builds the header-led strategy.
func NewHeaderFirstStrategy(c *Classifiers, p *DateParser) *HeaderFirstStrategy {
	return &HeaderFirstStrategy{classifiers: c, dates: p}
}

// Name implements Strategy.
func (s *HeaderFirstStrategy) Name() string { return "header_first" }

// Parse implements Strategy.
func (s *HeaderFirstStrategy) Parse(lines []string) []domain.EmploymentEntry {
	var entries []domain.EmploymentEntry
	var cur *domain.EmploymentEntry
	for _, line := range lines {
		if s.classifiers.LooksLikeJobHeader(line) {
			if cur != nil {
				entries = append(entries, *cur)
			}
			e := domain.EmploymentEntry{}
			e.Position, e.Company = splitHeader(s.classifiers, line)
			cur = &e
			continue
		}
		if cur == nil {
			continue
		}
		absorbLine(s.classifiers, s.dates, cur, line)
	}
	if cur != nil {
		entries = append(entries, *cur)
	}
	return entries
}
