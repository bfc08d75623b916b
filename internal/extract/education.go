package extract

import (
	"regexp"
	"strings"

	"github.com/resu-med/resu-med-sub000/internal/domain"
)

// degreeTokens are recognized qualification prefixes. "Bachelor of X"
// keeps the full phrase as the degree and leaves the field empty.
var degreeTokens = []string{
	"bsc", "ba", "bs", "beng", "btech", "llb",
	"msc", "ma", "ms", "meng", "mba", "llm",
	"phd", "dphil", "md",
	"bachelor", "master", "doctor", "diploma", "certificate",
}

var gpaRe = regexp.MustCompile(`(?i)\bgpa[:\s]+([0-9](?:\.[0-9]{1,2})?)`)

// EducationExtractor reads an education section laid out as a date line
// followed by a "Degree, Institution, Location" comma line, with
// optional GPA and bullet achievements.
type EducationExtractor struct {
	classifiers *Classifiers
	dates       *DateParser
}

// NewEducationExtractor builds the extractor.
func NewEducationExtractor(c *Classifiers, p *DateParser) *EducationExtractor {
	return &EducationExtractor{classifiers: c, dates: p}
}

// Extract parses the section body into education entries. IDs are
// assigned by the engine.
func (x *EducationExtractor) Extract(lines []string) []domain.EducationEntry {
	var entries []domain.EducationEntry
	var cur *domain.EducationEntry
	var pendingRange domain.DateRange
	havePending := false

	flush := func() {
		if cur != nil {
			entries = append(entries, *cur)
			cur = nil
		}
	}

	for _, line := range lines {
		l := strings.TrimSpace(line)
		switch {
		case x.classifiers.LooksLikeDate(l):
			// A new date line starts the next entry.
			flush()
			pendingRange = x.dates.Parse(l)
			havePending = true
		case gpaRe.MatchString(l):
			if cur != nil {
				cur.GPA = gpaRe.FindStringSubmatch(l)[1]
			}
		case x.classifiers.LooksLikeAchievementBullet(l):
			if cur != nil {
				cur.Achievements = append(cur.Achievements, x.classifiers.StripBullet(l))
			}
		case strings.Contains(l, ","):
			flush()
			e := x.parseDegreeLine(l)
			if havePending {
				e.DateRange = pendingRange
				havePending = false
			}
			cur = &e
		}
	}
	flush()
	return entries
}

// parseDegreeLine splits "Degree, Institution, Location".
func (x *EducationExtractor) parseDegreeLine(l string) domain.EducationEntry {
	var e domain.EducationEntry
	parts := strings.Split(l, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	e.Degree, e.Field = splitDegree(parts[0])
	if len(parts) > 1 {
		e.Institution = parts[1]
	}
	if len(parts) > 2 {
		e.Location = strings.Join(parts[2:], ", ")
	}
	return e
}

// splitDegree divides "BSc Computer Science" into the qualification and
// the field of study. Unrecognized lines stay whole in Degree.
func splitDegree(s string) (degree, field string) {
	words := strings.Fields(s)
	if len(words) == 0 {
		return s, ""
	}
	first := strings.ToLower(strings.Trim(words[0], "."))
	for _, t := range degreeTokens {
		if first != t {
			continue
		}
		// "Bachelor of Science in X" keeps the phrase through "of",
		// then "in" introduces the field.
		rest := words[1:]
		degreeWords := []string{words[0]}
		for len(rest) > 0 {
			w := strings.ToLower(rest[0])
			if w == "in" {
				rest = rest[1:]
				break
			}
			if w == "of" || strings.ToLower(degreeWords[len(degreeWords)-1]) == "of" {
				degreeWords = append(degreeWords, rest[0])
				rest = rest[1:]
				continue
			}
			break
		}
		if first == "bachelor" || first == "master" || first == "doctor" {
			return strings.Join(degreeWords, " "), strings.Join(rest, " ")
		}
		return words[0], strings.Join(words[1:], " ")
	}
	return s, ""
}
