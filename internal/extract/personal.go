package extract

import (
	"regexp"
	"strings"

	"github.com/resu-med/resu-med-sub000/internal/domain"
)

var (
	emailRe    = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	phoneRe    = regexp.MustCompile(`(?:\+?\d{1,3}[\s.\-]?)?(?:\(\d{1,4}\)[\s.\-]?)?\d{2,4}(?:[\s.\-]?\d{2,4}){2,4}`)
	linkedinRe = regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?linkedin\.com/in/[A-Za-z0-9\-_%]+`)
	githubRe   = regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?github\.com/[A-Za-z0-9\-_]+`)
	websiteRe  = regexp.MustCompile(`(?i)\bhttps?://[^\s]+|\bwww\.[^\s]+`)
)

// PersonalExtractor pulls contact details out of the whole document.
// Contact lines rarely stay inside their labeled section, so the
// regexes scan everything; only the name heuristic is position-bound.
type PersonalExtractor struct {
	classifiers *Classifiers
	segmenter   *Segmenter
}

// NewPersonalExtractor builds the extractor.
func NewPersonalExtractor(c *Classifiers, g *Segmenter) *PersonalExtractor {
	return &PersonalExtractor{classifiers: c, segmenter: g}
}

// Extract scans all lines for contact details and applies the name
// heuristic to the first lines of the document.
func (x *PersonalExtractor) Extract(lines []string) domain.PersonalInfo {
	var p domain.PersonalInfo
	doc := strings.Join(lines, "\n")

	p.Email = emailRe.FindString(doc)
	p.LinkedIn = linkedinRe.FindString(doc)
	p.GitHub = githubRe.FindString(doc)
	p.Website = x.findWebsite(doc)
	p.Phone = x.findPhone(lines)
	p.FirstName, p.LastName = x.findName(lines)
	p.Location = x.findLocation(lines)
	return p
}

// findWebsite returns the first URL that is not a LinkedIn or GitHub
// profile link.
func (x *PersonalExtractor) findWebsite(doc string) string {
	for _, u := range websiteRe.FindAllString(doc, -1) {
		lower := strings.ToLower(u)
		if strings.Contains(lower, "linkedin.com") || strings.Contains(lower, "github.com") {
			continue
		}
		return strings.TrimRight(u, ".,;")
	}
	return ""
}

// findPhone looks for a phone-shaped token, skipping lines that parse
// as dates so "2019 - 2022" is never mistaken for a number.
func (x *PersonalExtractor) findPhone(lines []string) string {
	for _, line := range lines {
		if x.classifiers.LooksLikeDate(line) {
			continue
		}
		m := phoneRe.FindString(line)
		if m == "" {
			continue
		}
		digits := 0
		for _, r := range m {
			if r >= '0' && r <= '9' {
				digits++
			}
		}
		if digits >= 7 && digits <= 15 {
			return strings.TrimSpace(m)
		}
	}
	return ""
}

// findName applies the name heuristic to the first few lines: the first
// line of two to four capitalized words with no digits or contact
// markers is taken as "First [Middle...] Last".
func (x *PersonalExtractor) findName(lines []string) (first, last string) {
	limit := 5
	if len(lines) < limit {
		limit = len(lines)
	}
	for _, line := range lines[:limit] {
		l := strings.TrimSpace(line)
		if l == "" || strings.ContainsAny(l, "@0123456789:/") {
			continue
		}
		if x.classifiers.LooksLikeDate(l) || x.classifiers.LooksLikeLocation(l) {
			continue
		}
		if _, isHeader := x.segmenter.matchHeader(l); isHeader {
			continue
		}
		words := strings.Fields(l)
		if len(words) < 2 || len(words) > 4 {
			continue
		}
		ok := true
		for _, w := range words {
			r := []rune(w)
			if !isUpperLetter(r[0]) {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}
		return words[0], words[len(words)-1]
	}
	return "", ""
}

// findLocation prefers a location line in the contact block, which by
// convention sits before the first section header.
func (x *PersonalExtractor) findLocation(lines []string) string {
	for _, line := range lines {
		if _, isHeader := x.segmenter.matchHeader(line); isHeader {
			break
		}
		if x.classifiers.LooksLikeLocation(line) {
			return strings.TrimSpace(line)
		}
	}
	return ""
}

func isUpperLetter(r rune) bool {
	return r >= 'A' && r <= 'Z'
}
