package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/moodkeeper/internal/client/models"
	"github.com/dmitrijs2005/moodkeeper/internal/timex"
)

// ProfileUpdate carries the profile fields to change. Nil fields are kept.
type ProfileUpdate struct {
	Name                               *string
	Age                                *string
	Profession                         *string
	Weight                             *string
	Height                             *string
	Gender                             *string
	About                              *string
	StressLevel                        *string
	SleepAverage                       *string
	EnergyPattern                      *string
	EmotionalSensitivity               *string
	AITone                             *string
	SuggestionDepth                    *string
	DefaultInsightRange                *string
	AllowLongTermAnalysis              *bool
	ShowProfessionalSupportSuggestions *bool
}

// ProfileService reads and edits the user profile.
type ProfileService interface {
	GetProfile(ctx context.Context) models.Profile
	SaveProfile(ctx context.Context, p models.Profile) (models.Profile, error)
	UpdateProfile(ctx context.Context, u ProfileUpdate) (models.Profile, error)
}

type profileService struct {
	cols  *Collections
	clock timex.Clock
}

func NewProfileService(cols *Collections, clock timex.Clock) ProfileService {
	return &profileService{cols: cols, clock: clock}
}

func (s *profileService) GetProfile(ctx context.Context) models.Profile {
	p, _ := s.cols.Profile.Reconcile(ctx)
	return p
}

// SaveProfile validates p and persists the cleaned copy. A validation
// failure is a *models.ValidationError and nothing is written.
func (s *profileService) SaveProfile(ctx context.Context, p models.Profile) (models.Profile, error) {
	clean, err := models.ValidateProfile(p, s.clock())
	if err != nil {
		return models.Profile{}, err
	}
	saved, err := s.cols.Profile.Persist(ctx, clean)
	if err != nil {
		return models.Profile{}, fmt.Errorf("error saving profile: %w", err)
	}
	return saved, nil
}

func (s *profileService) UpdateProfile(ctx context.Context, u ProfileUpdate) (models.Profile, error) {
	p := s.GetProfile(ctx)

	setString(&p.Name, u.Name)
	setString(&p.Age, u.Age)
	setString(&p.Profession, u.Profession)
	setString(&p.Weight, u.Weight)
	setString(&p.Height, u.Height)
	setString(&p.Gender, u.Gender)
	setString(&p.About, u.About)
	setString(&p.StressLevel, u.StressLevel)
	setString(&p.SleepAverage, u.SleepAverage)
	setString(&p.EnergyPattern, u.EnergyPattern)
	setString(&p.EmotionalSensitivity, u.EmotionalSensitivity)
	setString(&p.AITone, u.AITone)
	setString(&p.SuggestionDepth, u.SuggestionDepth)
	setString(&p.DefaultInsightRange, u.DefaultInsightRange)
	if u.AllowLongTermAnalysis != nil {
		p.AllowLongTermAnalysis = *u.AllowLongTermAnalysis
	}
	if u.ShowProfessionalSupportSuggestions != nil {
		p.ShowProfessionalSupportSuggestions = *u.ShowProfessionalSupportSuggestions
	}

	return s.SaveProfile(ctx, p)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
