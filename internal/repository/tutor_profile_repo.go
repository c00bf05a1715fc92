package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/dagi345/Tutorly/internal/domain"
)

type TutorProfileRepository struct {
	db *gorm.DB
}

func NewTutorProfileRepository(db *gorm.DB) *TutorProfileRepository {
	return &TutorProfileRepository{db: db}
}

type tutorProfileModel struct {
	ID             int64       `gorm:"column:id;primaryKey"`
	UserID         int64       `gorm:"column:user_id;uniqueIndex"`
	Subjects       []string    `gorm:"column:subjects;serializer:json"`
	HourlyRate     int64       `gorm:"column:hourly_rate"`
	Bio            *string     `gorm:"column:bio"`
	Availability   []time.Time `gorm:"column:availability;serializer:json"`
	Rating         float64     `gorm:"column:rating;not null;default:0"`
	IsApproved     bool        `gorm:"column:is_approved;index;not null;default:false"`
	TrialUsedCount int         `gorm:"column:trial_used_count;not null;default:0"`
	CreatedAt      time.Time   `gorm:"column:created_at;index"`
	UpdatedAt      time.Time   `gorm:"column:updated_at"`
}

func (tutorProfileModel) TableName() string { return "tutor_profiles" }

func toDomainProfile(m tutorProfileModel) *domain.TutorProfile {
	var bio string
	if m.Bio != nil {
		bio = *m.Bio
	}

	return &domain.TutorProfile{
		ID:             m.ID,
		UserID:         m.UserID,
		Subjects:       m.Subjects,
		HourlyRate:     m.HourlyRate,
		Bio:            bio,
		Availability:   m.Availability,
		Rating:         m.Rating,
		IsApproved:     m.IsApproved,
		TrialUsedCount: m.TrialUsedCount,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func toProfileModel(p *domain.TutorProfile) tutorProfileModel {
	var bio *string
	if p.Bio != "" {
		v := p.Bio
		bio = &v
	}

	return tutorProfileModel{
		ID:             p.ID,
		UserID:         p.UserID,
		Subjects:       p.Subjects,
		HourlyRate:     p.HourlyRate,
		Bio:            bio,
		Availability:   p.Availability,
		Rating:         p.Rating,
		IsApproved:     p.IsApproved,
		TrialUsedCount: p.TrialUsedCount,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func (r *TutorProfileRepository) Create(ctx context.Context, p *domain.TutorProfile) error {
	m := toProfileModel(p)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*p = *toDomainProfile(m)
	return nil
}

func (r *TutorProfileRepository) GetByID(ctx context.Context, id int64) (*domain.TutorProfile, error) {
	var m tutorProfileModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainProfile(m), nil
}

func (r *TutorProfileRepository) GetByUserID(ctx context.Context, userID int64) (*domain.TutorProfile, error) {
	var m tutorProfileModel
	tx := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&m)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainProfile(m), nil
}

// UpdateFields patches the given columns on a user's profile and bumps
// updated_at. Returns gorm.ErrRecordNotFound when no profile exists.
func (r *TutorProfileRepository) UpdateFields(ctx context.Context, userID int64, fields map[string]any) error {
	fields["updated_at"] = time.Now().UTC()
	res := r.db.WithContext(ctx).Model(&tutorProfileModel{}).
		Where("user_id = ?", userID).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SetAvailability replaces the whole availability list atomically.
func (r *TutorProfileRepository) SetAvailability(ctx context.Context, userID int64, availability []time.Time) error {
	return r.UpdateFields(ctx, userID, map[string]any{"availability": availability})
}

func (r *TutorProfileRepository) SetRating(ctx context.Context, userID int64, rating float64) error {
	return r.UpdateFields(ctx, userID, map[string]any{"rating": rating})
}

func (r *TutorProfileRepository) SetApproval(ctx context.Context, userID int64, approved bool) error {
	return r.UpdateFields(ctx, userID, map[string]any{"is_approved": approved})
}

// IncrementTrialUsedTx bumps the trial counter inside an existing
// transaction.
func IncrementTrialUsedTx(tx *gorm.DB, userID int64) error {
	res := tx.Model(&tutorProfileModel{}).
		Where("user_id = ?", userID).
		Updates(map[string]any{
			"trial_used_count": gorm.Expr("trial_used_count + 1"),
			"updated_at":       time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListApproved returns approved profiles ordered by creation time
// ascending, the order the cursor pagination pages over.
func (r *TutorProfileRepository) ListApproved(ctx context.Context) ([]domain.TutorProfile, error) {
	var rows []tutorProfileModel
	if err := r.db.WithContext(ctx).
		Where("is_approved = ?", true).
		Order("created_at asc, id asc").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]domain.TutorProfile, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainProfile(m))
	}
	return out, nil
}

func (r *TutorProfileRepository) ListUnapproved(ctx context.Context) ([]domain.TutorProfile, error) {
	var rows []tutorProfileModel
	if err := r.db.WithContext(ctx).
		Where("is_approved = ?", false).
		Order("created_at asc, id asc").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]domain.TutorProfile, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainProfile(m))
	}
	return out, nil
}
