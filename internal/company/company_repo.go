package company

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=company_repo.go -destination=mock/company_repo_mock.go -package=mock
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Company, error)
	Update(ctx context.Context, comp *Company) error
	ListWithActiveSubscription(ctx context.Context, now time.Time) ([]Company, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Company, error) {
	var company Company
	err := r.db.WithContext(ctx).First(&company, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &company, nil
}

func (r *repository) Update(ctx context.Context, comp *Company) error {
	return r.db.WithContext(ctx).Save(comp).Error
}

func (r *repository) ListWithActiveSubscription(ctx context.Context, now time.Time) ([]Company, error) {
	var companies []Company
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Where("subscription_status IN ?", []string{SubscriptionActive, SubscriptionTrial}).
		Where("subscription_ends_at IS NULL OR subscription_ends_at > ?", now).
		Order("created_at ASC").
		Find(&companies).Error
	return companies, err
}
