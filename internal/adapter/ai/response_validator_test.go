package ai_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resu-med/resu-med-sub000/internal/adapter/ai"
	"github.com/resu-med/resu-med-sub000/internal/domain"
)

func TestValidate_Normalizes(t *testing.T) {
	t.Parallel()
	rv := ai.NewResponseValidator()

	p, err := rv.Validate(`{
		"personal": {"first_name":"Jane","last_name":"Doe"},
		"employment": [
			{"position":"Engineer","company":"Initech","date_range":{"start_date":"2020-03","end_date":"Present"}},
			{"position":"Intern","company":"Acme","date_range":{"start_date":"2018-13","end_date":"2019-06-15"}}
		],
		"skills": [
			{"name":"Go","category":"Technical","level":"EXPERT"},
			{"name":"Juggling","category":"circus","level":"okay"}
		],
		"interests": [{"name":"Chess","category":"Hobby"},{"name":"Stuff","category":"whatever"}]
	}`)
	require.NoError(t, err)

	require.Len(t, p.Employment, 2)
	cur := p.Employment[0].DateRange
	assert.True(t, cur.IsCurrent, "a textual Present end date means the role is ongoing")
	assert.Equal(t, "", cur.EndDate)
	assert.Equal(t, "2020-03", cur.StartDate)

	second := p.Employment[1].DateRange
	assert.Equal(t, "", second.StartDate, "month 13 is not a date")
	assert.Equal(t, "2019-06", second.EndDate, "day suffixes are clamped off")

	assert.Equal(t, domain.SkillTechnical, p.Skills[0].Category)
	assert.Equal(t, domain.LevelExpert, p.Skills[0].Level)
	assert.Equal(t, domain.SkillOther, p.Skills[1].Category)
	assert.Equal(t, domain.SkillLevel(""), p.Skills[1].Level)

	assert.Equal(t, domain.InterestHobby, p.Interests[0].Category)
	assert.Equal(t, domain.InterestGeneral, p.Interests[1].Category)

	assert.NotEmpty(t, p.Employment[0].ID)
	assert.NotEqual(t, p.Employment[0].ID, p.Employment[1].ID)
}

func TestValidate_BackfillsMissingArrays(t *testing.T) {
	t.Parallel()
	rv := ai.NewResponseValidator()

	// Models routinely omit sections they found nothing for; the
	// output contract is still arrays everywhere, never null.
	p, err := rv.Validate(`{
		"personal": {"first_name":"Jane"},
		"employment": [{"position":"Engineer","company":"Initech"}]
	}`)
	require.NoError(t, err)

	assert.NotNil(t, p.Education)
	assert.NotNil(t, p.Skills)
	assert.NotNil(t, p.Interests)
	require.Len(t, p.Employment, 1)
	assert.NotNil(t, p.Employment[0].Achievements)

	raw, err := json.Marshal(p)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "null")
}

func TestValidate_Rejects(t *testing.T) {
	t.Parallel()
	rv := ai.NewResponseValidator()

	_, err := rv.Validate("this is not json")
	require.ErrorIs(t, err, domain.ErrSchemaInvalid)

	_, err = rv.Validate(`{}`)
	require.ErrorIs(t, err, domain.ErrSchemaInvalid, "a contentless profile is useless")

	_, err = rv.Validate(`{"employment":[],"skills":[]}`)
	require.ErrorIs(t, err, domain.ErrSchemaInvalid)
}
