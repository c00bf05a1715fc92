package tutorprofile

import (
	"time"

	"github.com/dagi345/Tutorly/internal/domain"
	"github.com/dagi345/Tutorly/internal/pkg/slots"
)

type CreateProfileRequest struct {
	Subjects     []string    `json:"subjects" binding:"required,min=1" validate:"required,min=1,dive,required"`
	HourlyRate   int64       `json:"hourly_rate" binding:"required,gt=0" validate:"required,gt=0"`
	Availability []time.Time `json:"availability"`
	Bio          string      `json:"bio" validate:"max=2000"`
}

type UpdateProfileRequest struct {
	Subjects     *[]string    `json:"subjects,omitempty"`
	HourlyRate   *int64       `json:"hourly_rate,omitempty"`
	Availability *[]time.Time `json:"availability,omitempty"`
	Bio          *string      `json:"bio,omitempty"`
}

type SetAvailabilityRequest struct {
	Availability []time.Time `json:"availability"`
}

// ProfileResponse is the profile enriched with its owner and the weekly
// ranges the schedule grid renders.
type ProfileResponse struct {
	*domain.TutorProfile
	WeeklyRanges []slots.Range `json:"weekly_ranges"`
}

func toProfileResponse(p *domain.TutorProfile) ProfileResponse {
	return ProfileResponse{
		TutorProfile: p,
		WeeklyRanges: slots.ToRanges(p.Availability),
	}
}
