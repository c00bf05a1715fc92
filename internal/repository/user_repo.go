package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/dagi345/Tutorly/internal/domain"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

type userModel struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	ClerkID   string    `gorm:"column:clerk_id;uniqueIndex"`
	Role      string    `gorm:"column:role;index"`
	Name      string    `gorm:"column:name"`
	Email     string    `gorm:"column:email"`
	AvatarURL *string   `gorm:"column:avatar_url"`
	Credits   int64     `gorm:"column:credits;not null;default:0"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (userModel) TableName() string { return "users" }

func toDomainUser(m userModel) *domain.User {
	var avatar string
	if m.AvatarURL != nil {
		avatar = *m.AvatarURL
	}

	return &domain.User{
		ID:        m.ID,
		ClerkID:   m.ClerkID,
		Role:      domain.UserRole(m.Role),
		Name:      m.Name,
		Email:     m.Email,
		AvatarURL: avatar,
		Credits:   m.Credits,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func toUserModel(u *domain.User) userModel {
	email := strings.TrimSpace(strings.ToLower(u.Email))

	var avatar *string
	if u.AvatarURL != "" {
		v := u.AvatarURL
		avatar = &v
	}

	return userModel{
		ID:        u.ID,
		ClerkID:   u.ClerkID,
		Role:      string(u.Role),
		Name:      u.Name,
		Email:     email,
		AvatarURL: avatar,
		Credits:   u.Credits,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	m := toUserModel(u)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*u = *toDomainUser(m)
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var m userModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainUser(m), nil
}

func (r *UserRepository) GetByClerkID(ctx context.Context, clerkID string) (*domain.User, error) {
	var m userModel
	tx := r.db.WithContext(ctx).Where("clerk_id = ?", clerkID).First(&m)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainUser(m), nil
}

func (r *UserRepository) UpdateRole(ctx context.Context, userID int64, role domain.UserRole) error {
	return r.db.WithContext(ctx).Model(&userModel{}).
		Where("id = ?", userID).
		Updates(map[string]any{"role": string(role), "updated_at": time.Now().UTC()}).Error
}

func (r *UserRepository) ListAll(ctx context.Context) ([]domain.User, error) {
	var rows []userModel
	if err := r.db.WithContext(ctx).Order("created_at asc").Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]domain.User, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainUser(m))
	}
	return out, nil
}

func (r *UserRepository) ListRecent(ctx context.Context, limit int) ([]domain.User, error) {
	var rows []userModel
	if err := r.db.WithContext(ctx).Order("created_at desc").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]domain.User, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainUser(m))
	}
	return out, nil
}

// AddCreditsTx increments a user's balance inside an existing transaction.
func AddCreditsTx(tx *gorm.DB, userID int64, amount int64) error {
	res := tx.Model(&userModel{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"credits":    gorm.Expr("credits + ?", amount),
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeductCreditsTx decrements a user's balance inside an existing
// transaction. The conditional update keeps the balance non-negative even
// under concurrent deductions.
func DeductCreditsTx(tx *gorm.DB, userID int64, amount int64) error {
	res := tx.Model(&userModel{}).
		Where("id = ? AND credits >= ?", userID, amount).
		Updates(map[string]any{
			"credits":    gorm.Expr("credits - ?", amount),
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var cnt int64
		if err := tx.Model(&userModel{}).Where("id = ?", userID).Count(&cnt).Error; err != nil {
			return err
		}
		if cnt == 0 {
			return gorm.ErrRecordNotFound
		}
		return ErrInsufficientCredits
	}
	return nil
}

func (r *UserRepository) AddCredits(ctx context.Context, userID int64, amount int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return AddCreditsTx(tx, userID, amount)
	})
}

func (r *UserRepository) DeductCredits(ctx context.Context, userID int64, amount int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return DeductCreditsTx(tx, userID, amount)
	})
}
