package extract_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resu-med/resu-med-sub000/internal/domain"
	"github.com/resu-med/resu-med-sub000/internal/extract"
)

func TestDefaultVocab(t *testing.T) {
	v := extract.DefaultVocab()
	require.NotNil(t, v)
	assert.NotEmpty(t, v.Sections)
	assert.NotEmpty(t, v.TitlePrefixes)
	assert.NotEmpty(t, v.HeaderSeparators)
}

func TestParseVocabRejectsBadInput(t *testing.T) {
	_, err := extract.ParseVocab([]byte("{not yaml"))
	assert.Error(t, err)

	_, err = extract.ParseVocab([]byte("kind: extraction-vocabulary\nsections: []\n"))
	assert.ErrorIs(t, err, domain.ErrSchemaInvalid)
}

func TestMonthNumber(t *testing.T) {
	v := extract.DefaultVocab()

	for in, want := range map[string]string{
		"January": "01",
		"jan":     "01",
		"Sep.":    "09",
		"SEPT":    "09",
		"dec":     "12",
	} {
		got, ok := v.MonthNumber(in)
		require.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}

	_, ok := v.MonthNumber("smarch")
	assert.False(t, ok)
}

func TestCategoryLookupsFallBack(t *testing.T) {
	v := extract.DefaultVocab()

	assert.Equal(t, domain.SkillTechnical, v.SkillCategoryFor("  PYTHON "))
	assert.Equal(t, domain.SkillOther, v.SkillCategoryFor("juggling"))
	assert.Equal(t, domain.InterestHobby, v.InterestCategoryFor("Hiking"))
	assert.Equal(t, domain.InterestGeneral, v.InterestCategoryFor("trainspotting"))
}
