// Package extract implements the adaptive multi-strategy extraction
// engine that turns raw resume text into a structured career profile.
//
// The engine is deliberately data-driven: every keyword table the
// heuristics consult (section headers, month names, job-title prefixes,
// the skill vocabulary) lives in an embedded YAML document so the
// heuristics can be tuned without touching control flow.
package extract

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/resu-med/resu-med-sub000/internal/domain"
)

//go:embed vocab.yaml
var defaultVocabYAML []byte

// SectionKeywords maps one section name to the header keywords that
// introduce it.
type SectionKeywords struct {
	Name     SectionName `yaml:"name"`
	Keywords []string    `yaml:"keywords"`
}

// Vocab is the full set of keyword tables injected into the classifiers
// and extractors.
type Vocab struct {
	Kind             string            `yaml:"kind"`
	Sections         []SectionKeywords `yaml:"sections"`
	Months           map[string]string `yaml:"months"`
	TitlePrefixes    []string          `yaml:"title_prefixes"`
	CompanySuffixes  []string          `yaml:"company_suffixes"`
	HeaderSeparators []string          `yaml:"header_separators"`
	Skills           struct {
		Technical []string `yaml:"technical"`
		Soft      []string `yaml:"soft"`
		Language  []string `yaml:"language"`
	} `yaml:"skills"`
	Interests struct {
		Hobby     []string `yaml:"hobby"`
		Volunteer []string `yaml:"volunteer"`
	} `yaml:"interests"`
	SkillLevels map[string]domain.SkillLevel `yaml:"skill_levels"`

	// Lowercased lookup sets built once by buildIndexes.
	skillCategory    map[string]domain.SkillCategory
	interestCategory map[string]domain.InterestCategory
}

// DefaultVocab parses the embedded vocabulary tables.
// It panics on a malformed embed, which can only happen at build time.
func DefaultVocab() *Vocab {
	v, err := ParseVocab(defaultVocabYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded vocab: %v", err))
	}
	return v
}

// ParseVocab parses YAML vocabulary tables and builds lookup indexes.
func ParseVocab(b []byte) (*Vocab, error) {
	var v Vocab
	if err := yaml.Unmarshal(b, &v); err != nil {
		return nil, fmt.Errorf("op=vocab.parse: %w", err)
	}
	if len(v.Sections) == 0 || len(v.Months) == 0 {
		return nil, fmt.Errorf("op=vocab.parse: %w: missing sections or months", domain.ErrSchemaInvalid)
	}
	v.buildIndexes()
	return &v, nil
}

func (v *Vocab) buildIndexes() {
	v.skillCategory = make(map[string]domain.SkillCategory)
	for _, s := range v.Skills.Technical {
		v.skillCategory[strings.ToLower(s)] = domain.SkillTechnical
	}
	for _, s := range v.Skills.Soft {
		v.skillCategory[strings.ToLower(s)] = domain.SkillSoft
	}
	for _, s := range v.Skills.Language {
		v.skillCategory[strings.ToLower(s)] = domain.SkillLanguage
	}
	v.interestCategory = make(map[string]domain.InterestCategory)
	for _, s := range v.Interests.Hobby {
		v.interestCategory[strings.ToLower(s)] = domain.InterestHobby
	}
	for _, s := range v.Interests.Volunteer {
		v.interestCategory[strings.ToLower(s)] = domain.InterestVolunteer
	}
}

// SkillCategoryFor returns the curated category for a skill name, or
// SkillOther when the name is not in the vocabulary.
func (v *Vocab) SkillCategoryFor(name string) domain.SkillCategory {
	if c, ok := v.skillCategory[strings.ToLower(strings.TrimSpace(name))]; ok {
		return c
	}
	return domain.SkillOther
}

// InterestCategoryFor returns the curated category for an interest
// name, or InterestGeneral when the name is not in the vocabulary.
func (v *Vocab) InterestCategoryFor(name string) domain.InterestCategory {
	if c, ok := v.interestCategory[strings.ToLower(strings.TrimSpace(name))]; ok {
		return c
	}
	return domain.InterestGeneral
}

// MonthNumber resolves a month word (full name or abbreviation, any
// case, optional trailing period) to its zero-padded number.
func (v *Vocab) MonthNumber(word string) (string, bool) {
	w := strings.ToLower(strings.TrimSuffix(strings.TrimSpace(word), "."))
	m, ok := v.Months[w]
	return m, ok
}
