package extract

import (
	"strings"
)

// SectionName identifies a logical document region.
type SectionName string

const (
	SectionSummary    SectionName = "summary"
	SectionEmployment SectionName = "employment"
	SectionEducation  SectionName = "education"
	SectionSkills     SectionName = "skills"
	SectionInterests  SectionName = "interests"
	SectionPersonal   SectionName = "personal"
	SectionOther      SectionName = "other"
)

// Section is a contiguous half-open line range [Start, End) of the
// document. Title is the matched header line, empty for implicit
// sections such as the leading unlabeled region.
type Section struct {
	Name  SectionName
	Title string
	Start int
	End   int
}

// Content returns the section body, excluding the header line when the
// section was introduced by one.
func (s Section) Content(lines []string) []string {
	start := s.Start
	if s.Title != "" {
		start++
	}
	if start >= s.End {
		return nil
	}
	return lines[start:s.End]
}

// Segmenter splits a document into named sections by matching header
// lines against the vocabulary keyword table.
type Segmenter struct {
	vocab *Vocab
}

// NewSegmenter builds a Segmenter over the vocabulary section table.
func NewSegmenter(v *Vocab) *Segmenter {
	return &Segmenter{vocab: v}
}

// Segment partitions the lines into sections. The returned sections are
// ordered, non-overlapping, and their union covers [0, len(lines)):
// every line belongs to exactly one section. Lines before the first
// recognized header form an implicit "other" section. When no
// employment header exists, the largest unclaimed region is reassigned
// to employment so the strategies still get a chance to run.
func (g *Segmenter) Segment(lines []string) []Section {
	if len(lines) == 0 {
		return nil
	}
	var sections []Section
	for i, line := range lines {
		name, ok := g.matchHeader(line)
		if !ok {
			continue
		}
		sections = append(sections, Section{Name: name, Title: strings.TrimSpace(line), Start: i})
	}
	if len(sections) == 0 {
		// Headerless documents are treated as one employment block so
		// the strategies still get a shot at them.
		return g.claimEmployment([]Section{{Name: SectionOther, Start: 0, End: len(lines)}})
	}
	for i := range sections {
		if i+1 < len(sections) {
			sections[i].End = sections[i+1].Start
		} else {
			sections[i].End = len(lines)
		}
	}
	if sections[0].Start > 0 {
		lead := Section{Name: SectionOther, Start: 0, End: sections[0].Start}
		sections = append([]Section{lead}, sections...)
	}
	return g.claimEmployment(sections)
}

// Find returns the first section with the given name.
func (g *Segmenter) Find(sections []Section, name SectionName) (Section, bool) {
	for _, s := range sections {
		if s.Name == name {
			return s, true
		}
	}
	return Section{}, false
}

// matchHeader reports whether the line is a section header. A header is
// either an exact uppercase keyword match, or a short line (under 50
// characters, no comma) containing a keyword. The comma guard keeps
// degree lines like "BSc Computer Science, MIT, Boston" out.
func (g *Segmenter) matchHeader(line string) (SectionName, bool) {
	l := strings.TrimSpace(line)
	if l == "" {
		return "", false
	}
	upper := strings.ToUpper(l)
	for _, sk := range g.vocab.Sections {
		for _, kw := range sk.Keywords {
			if upper == kw {
				return sk.Name, true
			}
		}
	}
	if len(l) >= 50 || strings.Contains(l, ",") {
		return "", false
	}
	for _, sk := range g.vocab.Sections {
		for _, kw := range sk.Keywords {
			if strings.Contains(upper, kw) {
				return sk.Name, true
			}
		}
	}
	return "", false
}

// claimEmployment promotes the largest unclaimed section to employment
// when no explicit employment section was found.
func (g *Segmenter) claimEmployment(sections []Section) []Section {
	for _, s := range sections {
		if s.Name == SectionEmployment {
			return sections
		}
	}
	best, bestLen := -1, 0
	for i, s := range sections {
		if s.Name != SectionOther {
			continue
		}
		if n := s.End - s.Start; n > bestLen {
			best, bestLen = i, n
		}
	}
	if best >= 0 {
		sections[best].Name = SectionEmployment
	}
	return sections
}
