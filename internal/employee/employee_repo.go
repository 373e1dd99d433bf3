package employee

import (
	"context"
	"database/sql"

	"emplystack/internal/shared/connection"
	"emplystack/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, empl *Employee) error
	FindAllByCompany(ctx context.Context, companyID string, status string) ([]Employee, error)
	FindOptionsByCompany(ctx context.Context, companyID string) ([]Employee, error)
	FindByIDAndCompany(ctx context.Context, companyID string, id string) (*Employee, error)
	Update(ctx context.Context, empl *Employee) error
	Delete(ctx context.Context, companyID string, id string) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{
		db: r.db,
		tx: tx,
	}
}

func (r *repository) Create(ctx context.Context, empl *Employee) error {
	return connection.GormWithTx(ctx, r.db, r.tx).Create(empl).Error
}

// FindAllByCompany filters by status when status is non-empty.
func (r *repository) FindAllByCompany(ctx context.Context, companyID string, status string) ([]Employee, error) {
	var empls []Employee
	query := connection.GormWithTx(ctx, r.db, r.tx).
		Scopes(tenant.Scope(companyID))
	if status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.Order("employee_number ASC").Find(&empls).Error
	return empls, err
}

func (r *repository) FindOptionsByCompany(ctx context.Context, companyID string) ([]Employee, error) {
	var empls []Employee
	err := connection.GormWithTx(ctx, r.db, r.tx).
		Select("id", "employee_number", "full_name").
		Scopes(tenant.Scope(companyID)).
		Where("status = ?", StatusActive).
		Order("full_name ASC").
		Find(&empls).Error
	return empls, err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID string, id string) (*Employee, error) {
	var empl Employee
	err := connection.GormWithTx(ctx, r.db, r.tx).
		Scopes(tenant.Scope(companyID)).
		First(&empl, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &empl, nil
}

func (r *repository) Update(ctx context.Context, empl *Employee) error {
	return connection.GormWithTx(ctx, r.db, r.tx).Save(empl).Error
}

func (r *repository) Delete(ctx context.Context, companyID string, id string) error {
	res := connection.GormWithTx(ctx, r.db, r.tx).
		Scopes(tenant.Scope(companyID)).
		Delete(&Employee{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
