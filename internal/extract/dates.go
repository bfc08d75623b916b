package extract

import (
	"regexp"
	"strings"

	"github.com/resu-med/resu-med-sub000/internal/domain"
)

// DateParser normalizes free-text date expressions into DateRange
// values. Input is expected to have passed LooksLikeDate, but the
// parser itself degrades to an empty range rather than failing.
type DateParser struct {
	vocab     *Vocab
	yearRe    *regexp.Regexp
	presentRe *regexp.Regexp
	rangeSep  *regexp.Regexp
	wordRe    *regexp.Regexp
}

// NewDateParser builds a DateParser over the vocabulary month table.
func NewDateParser(v *Vocab) *DateParser {
	return &DateParser{
		vocab:     v,
		yearRe:    regexp.MustCompile(`\b(19|20)\d{2}\b`),
		presentRe: regexp.MustCompile(`(?i)\b(present|current|now)\b`),
		// A range separator is "to"/"until"/"through" between spaces, an
		// en/em dash, or a bare hyphen with optional surrounding spaces.
		// Splitting the line first keeps a month on the right half from
		// bleeding into the start date.
		rangeSep: regexp.MustCompile(`(?i)\s+(?:to|until|through)\s+|\s*[–—]\s*|\s*-\s*`),
		wordRe:   regexp.MustCompile(`[A-Za-z]+\.?`),
	}
}

// Parse converts a date expression into a normalized DateRange.
// Zero years yields the empty range: missing information, not an error.
// A single year with no range operator yields a start date only.
func (p *DateParser) Parse(line string) domain.DateRange {
	var dr domain.DateRange
	l := strings.TrimSpace(line)
	if l == "" {
		return dr
	}
	dr.IsCurrent = p.presentRe.MatchString(l)

	left, right, split := p.splitRange(l)
	if split {
		startYear, startMonth := p.yearAndMonth(left)
		endYear, endMonth := p.yearAndMonth(right)
		// Reordering happens before month defaults so a reversed
		// "2022 - 2020" still reads start-of-start, end-of-end.
		if endYear != "" && startYear > endYear {
			startYear, endYear = endYear, startYear
			startMonth, endMonth = endMonth, startMonth
		}
		if startMonth == "" {
			startMonth = "01"
		}
		if endMonth == "" {
			endMonth = "12"
		}
		dr.StartDate = joinYearMonth(startYear, startMonth)
		if !dr.IsCurrent {
			dr.EndDate = joinYearMonth(endYear, endMonth)
		}
	} else {
		years := p.yearRe.FindAllString(l, -1)
		if len(years) > 0 {
			startMonth, endMonth := p.monthsAround(l, years[0])
			dr.StartDate = joinYearMonth(years[0], startMonth)
			if len(years) > 1 && !dr.IsCurrent {
				dr.EndDate = joinYearMonth(years[1], endMonth)
			}
		}
	}
	if dr.IsCurrent {
		dr.EndDate = ""
	}
	// Keep the ordering invariant even for reversed input.
	if dr.StartDate != "" && dr.EndDate != "" && dr.StartDate > dr.EndDate {
		dr.StartDate, dr.EndDate = dr.EndDate, dr.StartDate
	}
	return dr
}

// splitRange cuts the line into the halves before and after the first
// range separator, provided both halves carry a year or a present
// marker; otherwise the line is treated as unsplit.
func (p *DateParser) splitRange(l string) (left, right string, ok bool) {
	loc := p.rangeSep.FindStringIndex(l)
	if loc == nil {
		return "", "", false
	}
	left, right = l[:loc[0]], l[loc[1]:]
	leftOK := p.yearRe.MatchString(left)
	rightOK := p.yearRe.MatchString(right) || p.presentRe.MatchString(right)
	if !leftOK || !rightOK {
		return "", "", false
	}
	return left, right, true
}

// yearAndMonth extracts the first year and first explicit month word of
// a half. Month is empty when none is written.
func (p *DateParser) yearAndMonth(half string) (year, month string) {
	year = p.yearRe.FindString(half)
	for _, w := range p.wordRe.FindAllString(half, -1) {
		if m, ok := p.vocab.MonthNumber(w); ok {
			month = m
			break
		}
	}
	return year, month
}

// monthsAround finds the first month word before the first year (start
// month) and the first month word after it (end month) in an unsplit
// line, with the usual defaults.
func (p *DateParser) monthsAround(l, firstYear string) (startMonth, endMonth string) {
	startMonth, endMonth = "01", "12"
	yearIdx := strings.Index(l, firstYear)
	if yearIdx < 0 {
		return startMonth, endMonth
	}
	for _, loc := range p.wordRe.FindAllStringIndex(l, -1) {
		w := l[loc[0]:loc[1]]
		m, ok := p.vocab.MonthNumber(w)
		if !ok {
			continue
		}
		if loc[0] < yearIdx {
			startMonth = m
		} else {
			endMonth = m
			break
		}
	}
	return startMonth, endMonth
}

func joinYearMonth(year, month string) string {
	if year == "" {
		return ""
	}
	return year + "-" + month
}
