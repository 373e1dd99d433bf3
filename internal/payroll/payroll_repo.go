package payroll

import (
	"context"
	"database/sql"
	"time"

	"emplystack/internal/shared/connection"
	"emplystack/internal/tenant"

	"gorm.io/gorm"
)

// Attendance and leave values mirrored from their modules; payroll reads the
// tables directly instead of importing those packages.
const (
	attendancePresent = "PRESENT"
	attendanceLate    = "LATE"
	employeeActive    = "ACTIVE"
	leaveTypeUnpaid   = "UNPAID"
	leaveApproved     = "APPROVED"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	FindActiveEmployees(ctx context.Context, companyID string) ([]PayrollEmployee, error)
	ExistsForPeriod(ctx context.Context, companyID, employeeID, period string) (bool, error)
	CountPresentDays(ctx context.Context, companyID, employeeID string, start, end time.Time) (int, error)
	FindApprovedUnpaidLeaves(ctx context.Context, companyID, employeeID string, start, end time.Time) ([]LeaveRange, error)
	Create(ctx context.Context, payroll *Payroll) error
	FindAllByCompany(ctx context.Context, companyID string, filter PayrollQueryFilter) ([]Payroll, error)
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*Payroll, error)
	Update(ctx context.Context, payroll *Payroll) error
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

func (r *repository) conn(ctx context.Context) *gorm.DB {
	return connection.GormWithTx(ctx, r.db, r.tx)
}

func (r *repository) FindActiveEmployees(ctx context.Context, companyID string) ([]PayrollEmployee, error) {
	var employees []PayrollEmployee
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("status = ?", employeeActive).
		Where("deleted_at IS NULL").
		Order("employee_number ASC").
		Find(&employees).Error
	return employees, err
}

func (r *repository) ExistsForPeriod(ctx context.Context, companyID, employeeID, period string) (bool, error) {
	var count int64
	err := r.conn(ctx).
		Model(&Payroll{}).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ? AND period = ?", employeeID, period).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) CountPresentDays(ctx context.Context, companyID, employeeID string, start, end time.Time) (int, error) {
	var count int64
	err := r.conn(ctx).
		Table("attendances").
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID).
		Where("attendance_date BETWEEN ? AND ?", start, end).
		Where("status IN ?", []string{attendancePresent, attendanceLate}).
		Count(&count).Error
	return int(count), err
}

func (r *repository) FindApprovedUnpaidLeaves(ctx context.Context, companyID, employeeID string, start, end time.Time) ([]LeaveRange, error) {
	var ranges []LeaveRange
	err := r.conn(ctx).
		Table("leaves").
		Select("start_date, end_date").
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID).
		Where("leave_type = ? AND status = ?", leaveTypeUnpaid, leaveApproved).
		Where("start_date <= ? AND end_date >= ?", end, start).
		Where("deleted_at IS NULL").
		Scan(&ranges).Error
	return ranges, err
}

func (r *repository) Create(ctx context.Context, payroll *Payroll) error {
	return r.conn(ctx).Create(payroll).Error
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string, filter PayrollQueryFilter) ([]Payroll, error) {
	var payrolls []Payroll
	query := r.conn(ctx).
		Preload("Employee").
		Scopes(tenant.Scope(companyID))

	if filter.Period != nil {
		query = query.Where("period = ?", *filter.Period)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	err := query.
		Order("period DESC").
		Order("created_at ASC").
		Find(&payrolls).Error
	return payrolls, err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*Payroll, error) {
	var payroll Payroll
	err := r.conn(ctx).
		Preload("Employee").
		Scopes(tenant.Scope(companyID)).
		First(&payroll, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &payroll, nil
}

func (r *repository) Update(ctx context.Context, payroll *Payroll) error {
	return r.conn(ctx).
		Omit("Employee").
		Save(payroll).Error
}
