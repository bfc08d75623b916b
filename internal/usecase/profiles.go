package usecase

import (
	"time"

	"github.com/resu-med/resu-med-sub000/internal/domain"
)

// ProfileService parses text and persists the resulting profile.
type ProfileService struct {
	Parser   ParseService
	Profiles domain.ProfileRepository
}

// NewProfileService constructs a ProfileService.
func NewProfileService(parser ParseService, profiles domain.ProfileRepository) ProfileService {
	return ProfileService{Parser: parser, Profiles: profiles}
}

// ParseAndStore runs a parse and stores the outcome. It returns the
// stored profile including its generated id.
func (s ProfileService) ParseAndStore(ctx domain.Context, filename, text string) (domain.StoredProfile, error) {
	profile, diags, err := s.Parser.Parse(ctx, text)
	if err != nil {
		return domain.StoredProfile{}, err
	}
	sp := domain.StoredProfile{
		Profile:     profile,
		Diagnostics: diags,
		Filename:    filename,
		CreatedAt:   time.Now().UTC(),
	}
	id, err := s.Profiles.Create(ctx, sp)
	if err != nil {
		return domain.StoredProfile{}, err
	}
	sp.ID = id
	return sp, nil
}

// Get fetches a stored profile by id.
func (s ProfileService) Get(ctx domain.Context, id string) (domain.StoredProfile, error) {
	return s.Profiles.Get(ctx, id)
}
