package extract

import (
	"strings"

	"github.com/resu-med/resu-med-sub000/internal/domain"
)

// DateLedStrategy reads documents where the date range is the anchor:
//
//	Jan 2021 - Dec 2022
//	Platform Engineer, Initech
//	Shipped the billing pipeline.
//
// Each date line opens an entry; the nearest header-like line (the one
// just before the date, or the first after it) names the role.
type DateLedStrategy struct {
	classifiers *Classifiers
	dates       *DateParser
}

// NewDateLedStrategy builds the date-led strategy.
func NewDateLedStrategy(c *Classifiers, p *DateParser) *DateLedStrategy {
	return &DateLedStrategy{classifiers: c, dates: p}
}

// Name implements Strategy.
func (s *DateLedStrategy) Name() string { return "date_led" }

// Parse implements Strategy.
func (s *DateLedStrategy) Parse(lines []string) []domain.EmploymentEntry {
	var dateIdx []int
	for i, line := range lines {
		if s.classifiers.LooksLikeDate(line) {
			dateIdx = append(dateIdx, i)
		}
	}
	if len(dateIdx) == 0 {
		return nil
	}

	claimed := make(map[int]bool, len(lines))
	entries := make([]domain.EmploymentEntry, 0, len(dateIdx))
	for k, di := range dateIdx {
		e := domain.EmploymentEntry{DateRange: s.dates.Parse(lines[di])}
		claimed[di] = true

		// The line above the date usually names the role.
		if di > 0 && !claimed[di-1] && s.headerish(lines[di-1]) {
			e.Position, e.Company = s.splitRoleLine(lines[di-1])
			claimed[di-1] = true
		}

		end := len(lines)
		if k+1 < len(dateIdx) {
			end = dateIdx[k+1]
			// Leave the next entry's header line to the next entry.
			if end > di+1 && s.headerish(lines[end-1]) {
				end--
			}
		}
		for i := di + 1; i < end; i++ {
			if claimed[i] {
				continue
			}
			line := lines[i]
			if e.Position == "" && e.Company == "" && s.headerish(line) {
				e.Position, e.Company = s.splitRoleLine(line)
				claimed[i] = true
				continue
			}
			absorbLine(s.classifiers, s.dates, &e, line)
			claimed[i] = true
		}
		entries = append(entries, e)
	}
	return entries
}

// splitRoleLine is splitHeader plus a comma fallback for the plain
// "Role, Company" shape common next to a date anchor.
func (s *DateLedStrategy) splitRoleLine(line string) (position, company string) {
	position, company = splitHeader(s.classifiers, line)
	if company == "" && strings.Count(position, ",") == 1 {
		parts := strings.SplitN(position, ",", 2)
		return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	}
	return position, company
}

// headerish accepts both strict job headers and plain "Role, Company"
// lines that fail LooksLikeJobHeader but sit next to a date.
func (s *DateLedStrategy) headerish(line string) bool {
	l := strings.TrimSpace(line)
	if s.classifiers.LooksLikeJobHeader(l) {
		return true
	}
	if s.classifiers.LooksLikeAchievementBullet(l) || s.classifiers.LooksLikeDate(l) {
		return false
	}
	return len(l) >= 5 && len(l) <= 80 && strings.Count(l, ",") == 1 && !strings.HasSuffix(l, ".")
}
