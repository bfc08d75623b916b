package extract_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resu-med/resu-med-sub000/internal/domain"
	"github.com/resu-med/resu-med-sub000/internal/extract"
)

func TestSkillsExtractCategories(t *testing.T) {
	x := extract.NewSkillsExtractor(extract.DefaultVocab())

	entries := x.Extract([]string{"Python, SQL, Leadership"})
	require.Len(t, entries, 3)
	assert.Equal(t, domain.SkillTechnical, entries[0].Category)
	assert.Equal(t, domain.SkillTechnical, entries[1].Category)
	assert.Equal(t, domain.SkillSoft, entries[2].Category)
}

func TestSkillsExtractLevelsAndLabels(t *testing.T) {
	x := extract.NewSkillsExtractor(extract.DefaultVocab())

	entries := x.Extract([]string{
		"Languages: German (fluent); Spanish (basic)",
		"Kubernetes - advanced",
	})
	require.Len(t, entries, 3)

	byName := map[string]domain.SkillEntry{}
	for _, e := range entries {
		byName[e.Name] = e
	}
	assert.Equal(t, domain.SkillLanguage, byName["German"].Category)
	assert.Equal(t, domain.LevelExpert, byName["German"].Level)
	assert.Equal(t, domain.LevelBeginner, byName["Spanish"].Level)
	assert.Equal(t, domain.SkillTechnical, byName["Kubernetes"].Category)
	assert.Equal(t, domain.LevelAdvanced, byName["Kubernetes"].Level)
}

func TestSkillsExtractUnknownKeptAsOther(t *testing.T) {
	x := extract.NewSkillsExtractor(extract.DefaultVocab())

	entries := x.Extract([]string{"Underwater basket weaving"})
	require.Len(t, entries, 1)
	assert.Equal(t, "Underwater basket weaving", entries[0].Name)
	assert.Equal(t, domain.SkillOther, entries[0].Category)
	assert.Empty(t, entries[0].Level)
}

func TestSkillsExtractDeduplicates(t *testing.T) {
	x := extract.NewSkillsExtractor(extract.DefaultVocab())

	entries := x.Extract([]string{"Python, python, PYTHON"})
	assert.Len(t, entries, 1)
}

func TestInterestsExtract(t *testing.T) {
	x := extract.NewInterestsExtractor(extract.DefaultVocab())

	entries := x.Extract([]string{"Hiking, Photography, Volunteering, Beekeeping"})
	require.Len(t, entries, 4)
	assert.Equal(t, domain.InterestHobby, entries[0].Category)
	assert.Equal(t, domain.InterestHobby, entries[1].Category)
	assert.Equal(t, domain.InterestVolunteer, entries[2].Category)
	assert.Equal(t, domain.InterestGeneral, entries[3].Category)
}
