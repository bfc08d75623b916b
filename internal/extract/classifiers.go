package extract

import (
	"regexp"
	"strings"
	"unicode"
)

// Classifiers are pure predicates over a single line. They are total
// functions: ambiguous input returns false, never an error, so a bad
// line can only under-segment, not corrupt an entry.
type Classifiers struct {
	vocab *Vocab

	monthYearRe *regexp.Regexp
	yearRangeRe *regexp.Regexp
	yearRe      *regexp.Regexp
	presentRe   *regexp.Regexp
	locationRe  *regexp.Regexp
	numberedRe  *regexp.Regexp
}

var bulletMarkers = []string{"•", "●", "▪", "◦", "·", "-", "*", "–"}

// NewClassifiers compiles the line predicates against a vocabulary.
func NewClassifiers(v *Vocab) *Classifiers {
	return &Classifiers{
		vocab:       v,
		monthYearRe: regexp.MustCompile(`(?i)\b(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+(19|20)\d{2}\b`),
		yearRangeRe: regexp.MustCompile(`(?i)\b(19|20)\d{2}(?:\s*[–—-]\s*|\s+(?:to|until|through)\s+)(?:(19|20)\d{2}|present|current|now)\b`),
		yearRe:      regexp.MustCompile(`\b(19|20)\d{2}\b`),
		presentRe:   regexp.MustCompile(`(?i)\b(present|current|now)\b`),
		locationRe:  regexp.MustCompile(`^[A-Za-z][A-Za-z.'\- ]*,\s*[A-Za-z][A-Za-z.'\- ]*$`),
		numberedRe:  regexp.MustCompile(`^\d+[.)]\s`),
	}
}

// LooksLikeDate reports whether the line reads as a date expression:
// "Month YYYY", "YYYY-YYYY", "YYYY to YYYY", or "present"/"current"
// paired with a year. A bare 4-digit number (a GPA, a zip code, an ID)
// does not qualify.
func (c *Classifiers) LooksLikeDate(line string) bool {
	l := strings.TrimSpace(line)
	if l == "" || len(l) > 48 {
		return false
	}
	if c.LooksLikeAchievementBullet(l) {
		return false
	}
	if strings.Contains(strings.ToLower(l), "gpa") {
		return false
	}
	if c.monthYearRe.MatchString(l) || c.yearRangeRe.MatchString(l) {
		return true
	}
	return c.presentRe.MatchString(l) && c.yearRe.MatchString(l)
}

// LooksLikeLocation reports whether the line matches the heuristic
// "Word(s), Word(s)" city/region shape.
func (c *Classifiers) LooksLikeLocation(line string) bool {
	l := strings.TrimSpace(line)
	if l == "" || len(l) >= 50 {
		return false
	}
	if c.LooksLikeDate(l) {
		return false
	}
	return c.locationRe.MatchString(l)
}

// LooksLikeJobHeader reports whether the line plausibly introduces a
// new employment entry: an explicit position/company separator, a known
// job-title prefix, or distinctive formatting combined with a title or
// company-suffix keyword. Length bounds exclude prose sentences.
func (c *Classifiers) LooksLikeJobHeader(line string) bool {
	l := strings.TrimSpace(line)
	if len(l) < 5 || len(l) > 100 {
		return false
	}
	if c.LooksLikeAchievementBullet(l) || c.LooksLikeDate(l) {
		return false
	}
	if c.separatorHeader(l) {
		return true
	}
	lower := strings.ToLower(l)
	for _, p := range c.vocab.TitlePrefixes {
		if strings.HasPrefix(lower, p+" ") || lower == p {
			return true
		}
	}
	if isAllCaps(l) || isTitleCase(l) {
		return c.containsKeyword(lower, c.vocab.TitlePrefixes) ||
			c.containsSuffixWord(lower, c.vocab.CompanySuffixes)
	}
	return false
}

// LooksLikeAchievementBullet reports whether the line starts with a
// bullet glyph or a recognized list marker.
func (c *Classifiers) LooksLikeAchievementBullet(line string) bool {
	l := strings.TrimSpace(line)
	if l == "" {
		return false
	}
	for _, m := range bulletMarkers {
		if strings.HasPrefix(l, m+" ") || (strings.HasPrefix(l, m) && m != "-" && m != "*" && m != "–") {
			return true
		}
	}
	return c.numberedRe.MatchString(l)
}

// StripBullet removes a leading bullet glyph or list marker.
func (c *Classifiers) StripBullet(line string) string {
	l := strings.TrimSpace(line)
	if m := c.numberedRe.FindString(l); m != "" {
		return strings.TrimSpace(l[len(m):])
	}
	for _, m := range bulletMarkers {
		if strings.HasPrefix(l, m) {
			return strings.TrimSpace(strings.TrimPrefix(l, m))
		}
	}
	return l
}

// weakSeparators occur constantly in prose ("built X for Y", "worked
// with Z"), so on their own they are not header evidence.
var weakSeparators = map[string]bool{" with ": true, " for ": true}

// separatorHeader reports whether a position/company separator marks
// the line as a header. Strong separators (" at ", " | ", dashes) count
// unconditionally; weak ones need the line to not read as a sentence
// and a title keyword left of the separator or a company-suffix word
// right of it.
func (c *Classifiers) separatorHeader(l string) bool {
	for _, sep := range c.vocab.HeaderSeparators {
		idx := strings.Index(l, sep)
		if idx <= 0 {
			continue
		}
		if !weakSeparators[sep] {
			return true
		}
		if strings.HasSuffix(l, ".") {
			continue
		}
		role := strings.ToLower(l[:idx])
		org := strings.ToLower(l[idx+len(sep):])
		if c.containsKeyword(role, c.vocab.TitlePrefixes) ||
			c.containsSuffixWord(org, c.vocab.CompanySuffixes) {
			return true
		}
	}
	return false
}

func (c *Classifiers) containsKeyword(lower string, kws []string) bool {
	for _, k := range kws {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

// containsSuffixWord matches whole words only so that e.g. "incident"
// does not count as "inc".
func (c *Classifiers) containsSuffixWord(lower string, kws []string) bool {
	words := strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, w := range words {
		for _, k := range kws {
			if w == k {
				return true
			}
		}
	}
	return false
}

func isAllCaps(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			hasLetter = true
			if unicode.IsLower(r) {
				return false
			}
		}
	}
	return hasLetter
}

// isTitleCase reports strict title case: every word of length > 2
// starts with an uppercase letter (short connectives may stay lower).
func isTitleCase(s string) bool {
	words := strings.Fields(s)
	if len(words) == 0 {
		return false
	}
	checked := 0
	for _, w := range words {
		r := []rune(w)
		if !unicode.IsLetter(r[0]) {
			continue
		}
		if len(r) <= 2 || isConnective(strings.ToLower(w)) {
			continue
		}
		checked++
		if !unicode.IsUpper(r[0]) {
			return false
		}
	}
	return checked > 0
}

func isConnective(w string) bool {
	switch w {
	case "of", "and", "the", "for", "at", "in", "on":
		return true
	}
	return false
}
