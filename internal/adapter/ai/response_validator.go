package ai

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/oklog/ulid/v2"

	"github.com/resu-med/resu-med-sub000/internal/domain"
)

var yearMonthRe = regexp.MustCompile(`^(19|20)\d{2}-(0[1-9]|1[0-2])`)

// ResponseValidator decodes a cleaned model reply into a domain profile
// and normalizes it: date formats clamped to YYYY-MM, categories and
// levels coerced to known values, the IsCurrent/EndDate invariant
// enforced, fresh ids assigned.
type ResponseValidator struct{}

// NewResponseValidator creates a response validator.
func NewResponseValidator() *ResponseValidator {
	return &ResponseValidator{}
}

// Validate parses the reply into a profile. A reply that does not
// decode, or decodes to a profile with no content at all, returns
// domain.ErrSchemaInvalid.
func (rv *ResponseValidator) Validate(cleaned string) (domain.Profile, error) {
	var p domain.Profile
	dec := json.NewDecoder(strings.NewReader(cleaned))
	if err := dec.Decode(&p); err != nil {
		return domain.Profile{}, fmt.Errorf("%w: decode: %v", domain.ErrSchemaInvalid, err)
	}
	rv.normalize(&p)
	if isEmptyProfile(p) {
		return domain.Profile{}, fmt.Errorf("%w: profile has no content", domain.ErrSchemaInvalid)
	}
	return p, nil
}

func (rv *ResponseValidator) normalize(p *domain.Profile) {
	for i := range p.Employment {
		e := &p.Employment[i]
		e.ID = ulid.Make().String()
		normalizeDateRange(&e.DateRange)
	}
	for i := range p.Education {
		e := &p.Education[i]
		e.ID = ulid.Make().String()
		normalizeDateRange(&e.DateRange)
	}
	for i := range p.Skills {
		s := &p.Skills[i]
		s.ID = ulid.Make().String()
		s.Category = normalizeSkillCategory(s.Category)
		s.Level = normalizeSkillLevel(s.Level)
	}
	for i := range p.Interests {
		in := &p.Interests[i]
		in.ID = ulid.Make().String()
		in.Category = normalizeInterestCategory(in.Category)
	}
	p.EnsureArrays()
}

// normalizeDateRange clamps dates to YYYY-MM and enforces the
// IsCurrent invariant. Unparseable dates become empty.
func normalizeDateRange(dr *domain.DateRange) {
	if strings.EqualFold(strings.TrimSpace(dr.EndDate), "present") {
		dr.IsCurrent = true
	}
	dr.StartDate = clampYearMonth(dr.StartDate)
	dr.EndDate = clampYearMonth(dr.EndDate)
	if dr.IsCurrent {
		dr.EndDate = ""
	}
}

func clampYearMonth(s string) string {
	s = strings.TrimSpace(s)
	if m := yearMonthRe.FindString(s); m != "" {
		return m
	}
	return ""
}

func normalizeSkillCategory(c domain.SkillCategory) domain.SkillCategory {
	switch domain.SkillCategory(strings.ToLower(string(c))) {
	case domain.SkillTechnical, domain.SkillSoft, domain.SkillLanguage:
		return domain.SkillCategory(strings.ToLower(string(c)))
	default:
		return domain.SkillOther
	}
}

func normalizeSkillLevel(l domain.SkillLevel) domain.SkillLevel {
	switch domain.SkillLevel(strings.ToLower(string(l))) {
	case domain.LevelBeginner, domain.LevelIntermediate, domain.LevelAdvanced, domain.LevelExpert:
		return domain.SkillLevel(strings.ToLower(string(l)))
	default:
		return ""
	}
}

func normalizeInterestCategory(c domain.InterestCategory) domain.InterestCategory {
	switch domain.InterestCategory(strings.ToLower(string(c))) {
	case domain.InterestHobby, domain.InterestVolunteer, domain.InterestGeneral:
		return domain.InterestCategory(strings.ToLower(string(c)))
	default:
		return domain.InterestGeneral
	}
}

func isEmptyProfile(p domain.Profile) bool {
	return len(p.Employment) == 0 && len(p.Education) == 0 &&
		len(p.Skills) == 0 && len(p.Interests) == 0 &&
		p.Personal == (domain.PersonalInfo{})
}
