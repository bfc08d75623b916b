package extract

import "github.com/resu-med/resu-med-sub000/internal/domain"

// ScoringWeights control how much each populated field contributes to
// an entry's confidence score. Zero values mean "use the default".
type ScoringWeights struct {
	Position     int `yaml:"position" json:"position"`
	Company      int `yaml:"company" json:"company"`
	StartDate    int `yaml:"start_date" json:"start_date"`
	Location     int `yaml:"location" json:"location"`
	Description  int `yaml:"description" json:"description"`
	Achievements int `yaml:"achievements" json:"achievements"`

	// Bonuses for field values whose length falls in a plausible band.
	PositionLengthBonus int `yaml:"position_length_bonus" json:"position_length_bonus"`
	CompanyLengthBonus  int `yaml:"company_length_bonus" json:"company_length_bonus"`
}

// DefaultScoringWeights returns the tuned weight set.
func DefaultScoringWeights() ScoringWeights {
	return ScoringWeights{
		Position:            20,
		Company:             20,
		StartDate:           10,
		Location:            5,
		Description:         15,
		Achievements:        10,
		PositionLengthBonus: 5,
		CompanyLengthBonus:  5,
	}
}

// Scorer assigns confidence scores to extracted employment entries.
type Scorer struct {
	weights ScoringWeights
}

// NewScorer builds a Scorer with the given weights.
func NewScorer(w ScoringWeights) *Scorer {
	return &Scorer{weights: w}
}

// ScoreEntry returns the confidence score for a single entry. Higher
// means more complete and more plausible.
func (s *Scorer) ScoreEntry(e domain.EmploymentEntry) int {
	w := s.weights
	score := 0
	if e.Position != "" {
		score += w.Position
		if n := len(e.Position); n >= 5 && n <= 50 {
			score += w.PositionLengthBonus
		}
	}
	if e.Company != "" {
		score += w.Company
		if n := len(e.Company); n >= 2 && n <= 30 {
			score += w.CompanyLengthBonus
		}
	}
	if e.DateRange.StartDate != "" {
		score += w.StartDate
	}
	if e.Location != "" {
		score += w.Location
	}
	if len(e.Description) > 20 {
		score += w.Description
	}
	if len(e.Achievements) > 0 {
		score += w.Achievements
	}
	return score
}

// ScoreEntries returns the total score across all entries.
func (s *Scorer) ScoreEntries(entries []domain.EmploymentEntry) int {
	total := 0
	for _, e := range entries {
		total += s.ScoreEntry(e)
	}
	return total
}
