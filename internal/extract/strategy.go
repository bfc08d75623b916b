package extract

import (
	"strings"

	"github.com/resu-med/resu-med-sub000/internal/domain"
)

// Strategy is one way of reading an employment section. Strategies are
// pure: same lines in, same entries out, and they never fail. Entry IDs
// are assigned later by the engine.
type Strategy interface {
	Name() string
	Parse(lines []string) []domain.EmploymentEntry
}

// StrategyResult pairs a strategy's output with its confidence score.
type StrategyResult struct {
	Strategy string
	Entries  []domain.EmploymentEntry
	Score    int
}

// splitHeader divides a job-header line into position and company on
// the first separator found. Without a separator the whole line is a
// position, unless it carries a company-suffix word.
func splitHeader(c *Classifiers, line string) (position, company string) {
	l := strings.TrimSpace(line)
	for _, sep := range c.vocab.HeaderSeparators {
		if idx := strings.Index(l, sep); idx > 0 {
			return strings.TrimSpace(l[:idx]), strings.TrimSpace(l[idx+len(sep):])
		}
	}
	if c.containsSuffixWord(strings.ToLower(l), c.vocab.CompanySuffixes) {
		return "", l
	}
	return l, ""
}

// absorbLine folds a body line into the entry under construction.
func absorbLine(c *Classifiers, p *DateParser, e *domain.EmploymentEntry, line string) {
	switch {
	case c.LooksLikeAchievementBullet(line):
		e.Achievements = append(e.Achievements, c.StripBullet(line))
	case c.LooksLikeDate(line) && e.DateRange.StartDate == "" && !e.DateRange.IsCurrent:
		e.DateRange = p.Parse(line)
	case c.LooksLikeLocation(line) && e.Location == "":
		e.Location = strings.TrimSpace(line)
	default:
		if e.Description == "" {
			e.Description = strings.TrimSpace(line)
		} else {
			e.Description += " " + strings.TrimSpace(line)
		}
	}
}
