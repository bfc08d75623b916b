package extract_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resu-med/resu-med-sub000/internal/extract"
)

func TestSegmentCoversEveryLineExactlyOnce(t *testing.T) {
	g := extract.NewSegmenter(extract.DefaultVocab())
	lines := []string{
		"Jane Doe",
		"jane@example.com",
		"PROFESSIONAL SUMMARY",
		"Engineer with ten years of experience.",
		"EMPLOYMENT HISTORY",
		"Senior Engineer at Acme Corp",
		"Jan 2021 to Present",
		"EDUCATION",
		"BSc Computer Science, Queen's University, Belfast",
		"SKILLS",
		"Python, SQL, Leadership",
	}
	sections := g.Segment(lines)
	require.NotEmpty(t, sections)

	// Ordered, non-overlapping, covering [0, len(lines)).
	assert.Equal(t, 0, sections[0].Start)
	for i, s := range sections {
		assert.Less(t, s.Start, s.End, "section %d is empty", i)
		if i+1 < len(sections) {
			assert.Equal(t, s.End, sections[i+1].Start)
		}
	}
	assert.Equal(t, len(lines), sections[len(sections)-1].End)

	byName := map[extract.SectionName]extract.Section{}
	for _, s := range sections {
		byName[s.Name] = s
	}
	assert.Contains(t, byName, extract.SectionOther) // leading contact block
	assert.Contains(t, byName, extract.SectionSummary)
	assert.Contains(t, byName, extract.SectionEmployment)
	assert.Contains(t, byName, extract.SectionEducation)
	assert.Contains(t, byName, extract.SectionSkills)

	emp := byName[extract.SectionEmployment]
	assert.Equal(t, "EMPLOYMENT HISTORY", emp.Title)
	assert.Equal(t, []string{"Senior Engineer at Acme Corp", "Jan 2021 to Present"}, emp.Content(lines))
}

func TestSegmentHeaderMatching(t *testing.T) {
	g := extract.NewSegmenter(extract.DefaultVocab())

	// A short mixed-case line containing a keyword is still a header.
	sections := g.Segment([]string{
		"Work Experience",
		"Engineer at Acme",
	})
	require.Len(t, sections, 1)
	assert.Equal(t, extract.SectionEmployment, sections[0].Name)
	assert.Equal(t, "Work Experience", sections[0].Title)

	// A long prose line mentioning a keyword is not a header, and
	// neither is a comma line.
	sections = g.Segment([]string{
		"I have extensive work experience across several industries and roles spanning a decade",
		"BSc Computer Science, MIT, Education Lane",
	})
	require.Len(t, sections, 1)
	assert.Empty(t, sections[0].Title)
}

func TestSegmentNoHeadersFallsBackToEmployment(t *testing.T) {
	g := extract.NewSegmenter(extract.DefaultVocab())
	lines := []string{
		"Senior Engineer at Acme Corp",
		"Jan 2021 to Present",
		"Built distributed systems.",
	}
	sections := g.Segment(lines)
	require.Len(t, sections, 1)
	assert.Equal(t, extract.SectionEmployment, sections[0].Name)
	assert.Empty(t, sections[0].Title)
	assert.Equal(t, lines, sections[0].Content(lines))
}

func TestSegmentEmpty(t *testing.T) {
	g := extract.NewSegmenter(extract.DefaultVocab())
	assert.Nil(t, g.Segment(nil))
}
