package extract

import (
	"regexp"
	"strings"

	"github.com/resu-med/resu-med-sub000/internal/domain"
)

var skillLevelRe = regexp.MustCompile(`(?i)^(.*?)\s*[(\-:]\s*([a-z ]+?)\s*\)?\s*$`)

// SkillsExtractor splits a skills section into individual skills and
// classifies each against the curated vocabulary. Unknown skills are
// kept with the "other" category rather than dropped.
type SkillsExtractor struct {
	vocab *Vocab
}

// NewSkillsExtractor builds the extractor.
func NewSkillsExtractor(v *Vocab) *SkillsExtractor {
	return &SkillsExtractor{vocab: v}
}

// Extract parses the section body. IDs are assigned by the engine.
func (x *SkillsExtractor) Extract(lines []string) []domain.SkillEntry {
	var entries []domain.SkillEntry
	seen := make(map[string]bool)
	for _, line := range lines {
		for _, item := range splitListItems(line) {
			name, level := x.splitLevel(item)
			if name == "" {
				continue
			}
			key := strings.ToLower(name)
			if seen[key] {
				continue
			}
			seen[key] = true
			entries = append(entries, domain.SkillEntry{
				Name:     name,
				Category: x.vocab.SkillCategoryFor(name),
				Level:    level,
			})
		}
	}
	return entries
}

// splitLevel peels a proficiency marker like "Python (advanced)" or
// "German - fluent" off the skill name, when the marker is one of the
// recognized level words.
func (x *SkillsExtractor) splitLevel(item string) (string, domain.SkillLevel) {
	m := skillLevelRe.FindStringSubmatch(item)
	if m != nil {
		if lvl, ok := x.vocab.SkillLevels[strings.ToLower(strings.TrimSpace(m[2]))]; ok {
			return strings.TrimSpace(m[1]), lvl
		}
	}
	return strings.TrimSpace(item), ""
}

// splitListItems breaks a delimiter-joined line into items. A line with
// a "Category: a, b, c" prefix drops the label.
func splitListItems(line string) []string {
	l := strings.TrimSpace(line)
	if idx := strings.Index(l, ":"); idx > 0 && idx < 40 && !strings.ContainsAny(l[:idx], ",;|•") {
		l = l[idx+1:]
	}
	items := strings.FieldsFunc(l, func(r rune) bool {
		switch r {
		case ',', ';', '|', '•', '●', '·':
			return true
		}
		return false
	})
	out := make([]string, 0, len(items))
	for _, it := range items {
		it = strings.TrimSpace(strings.Trim(it, "-– "))
		if it != "" {
			out = append(out, it)
		}
	}
	return out
}
