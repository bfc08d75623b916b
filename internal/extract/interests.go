package extract

import (
	"strings"

	"github.com/resu-med/resu-med-sub000/internal/domain"
)

// InterestsExtractor splits an interests section into entries and
// classifies them against the curated hobby/volunteer vocabulary.
type InterestsExtractor struct {
	vocab *Vocab
}

// NewInterestsExtractor builds the extractor.
func NewInterestsExtractor(v *Vocab) *InterestsExtractor {
	return &InterestsExtractor{vocab: v}
}

// Extract parses the section body. IDs are assigned by the engine.
func (x *InterestsExtractor) Extract(lines []string) []domain.InterestEntry {
	var entries []domain.InterestEntry
	seen := make(map[string]bool)
	for _, line := range lines {
		for _, item := range splitListItems(line) {
			key := strings.ToLower(item)
			if seen[key] {
				continue
			}
			seen[key] = true
			entries = append(entries, domain.InterestEntry{
				Name:     item,
				Category: x.vocab.InterestCategoryFor(item),
			})
		}
	}
	return entries
}
