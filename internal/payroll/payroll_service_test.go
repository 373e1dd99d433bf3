package payroll_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"emplystack/internal/bootstrap"
	"emplystack/internal/events"
	"emplystack/internal/messaging/kafka"
	"emplystack/internal/payroll"
	payrollerrors "emplystack/internal/payroll/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

type fakePayrollRepository struct {
	withTxFn                   func(tx *sql.Tx) payroll.Repository
	findActiveEmployeesFn      func(ctx context.Context, companyID string) ([]payroll.PayrollEmployee, error)
	existsForPeriodFn          func(ctx context.Context, companyID, employeeID, period string) (bool, error)
	countPresentDaysFn         func(ctx context.Context, companyID, employeeID string, start, end time.Time) (int, error)
	findApprovedUnpaidLeavesFn func(ctx context.Context, companyID, employeeID string, start, end time.Time) ([]payroll.LeaveRange, error)
	createFn                   func(ctx context.Context, p *payroll.Payroll) error
	findAllByCompanyFn         func(ctx context.Context, companyID string, filter payroll.PayrollQueryFilter) ([]payroll.Payroll, error)
	findByIDAndCompanyFn       func(ctx context.Context, companyID, id string) (*payroll.Payroll, error)
	updateFn                   func(ctx context.Context, p *payroll.Payroll) error
}

func (f *fakePayrollRepository) WithTx(tx *sql.Tx) payroll.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakePayrollRepository) FindActiveEmployees(ctx context.Context, companyID string) ([]payroll.PayrollEmployee, error) {
	if f.findActiveEmployeesFn != nil {
		return f.findActiveEmployeesFn(ctx, companyID)
	}
	return nil, nil
}

func (f *fakePayrollRepository) ExistsForPeriod(ctx context.Context, companyID, employeeID, period string) (bool, error) {
	if f.existsForPeriodFn != nil {
		return f.existsForPeriodFn(ctx, companyID, employeeID, period)
	}
	return false, nil
}

func (f *fakePayrollRepository) CountPresentDays(ctx context.Context, companyID, employeeID string, start, end time.Time) (int, error) {
	if f.countPresentDaysFn != nil {
		return f.countPresentDaysFn(ctx, companyID, employeeID, start, end)
	}
	return 0, nil
}

func (f *fakePayrollRepository) FindApprovedUnpaidLeaves(ctx context.Context, companyID, employeeID string, start, end time.Time) ([]payroll.LeaveRange, error) {
	if f.findApprovedUnpaidLeavesFn != nil {
		return f.findApprovedUnpaidLeavesFn(ctx, companyID, employeeID, start, end)
	}
	return nil, nil
}

func (f *fakePayrollRepository) Create(ctx context.Context, p *payroll.Payroll) error {
	if f.createFn != nil {
		return f.createFn(ctx, p)
	}
	return nil
}

func (f *fakePayrollRepository) FindAllByCompany(ctx context.Context, companyID string, filter payroll.PayrollQueryFilter) ([]payroll.Payroll, error) {
	if f.findAllByCompanyFn != nil {
		return f.findAllByCompanyFn(ctx, companyID, filter)
	}
	return nil, nil
}

func (f *fakePayrollRepository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*payroll.Payroll, error) {
	if f.findByIDAndCompanyFn != nil {
		return f.findByIDAndCompanyFn(ctx, companyID, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePayrollRepository) Update(ctx context.Context, p *payroll.Payroll) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, p)
	}
	return nil
}

type fakeOutboxRepository struct {
	createFn func(ctx context.Context, event kafka.OutboxEvent) error
	created  []kafka.OutboxEvent
}

func (f *fakeOutboxRepository) WithTx(tx *sql.Tx) kafka.OutboxRepository {
	return f
}

func (f *fakeOutboxRepository) Create(ctx context.Context, event kafka.OutboxEvent) error {
	f.created = append(f.created, event)
	if f.createFn != nil {
		return f.createFn(ctx, event)
	}
	return nil
}

func (f *fakeOutboxRepository) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutboxRepository) MarkSent(ctx context.Context, id string) error {
	return nil
}

func (f *fakeOutboxRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	return nil
}

type fakeAuditLogger struct {
	entries []bootstrap.AuditLog
}

func (f *fakeAuditLogger) Log(ctx context.Context, entry bootstrap.AuditLog) {
	f.entries = append(f.entries, entry)
}

type payrollServiceDeps struct {
	db         *sql.DB
	sqlMock    sqlmock.Sqlmock
	service    payroll.Service
	repo       *fakePayrollRepository
	outbox     *fakeOutboxRepository
	audit      *fakeAuditLogger
	payslipDir string
}

func setupPayrollServiceTest(t *testing.T) *payrollServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := &fakePayrollRepository{}
	outbox := &fakeOutboxRepository{}
	audit := &fakeAuditLogger{}
	dir := t.TempDir()
	svc := payroll.NewService(db, repo, outbox, audit, payroll.PayslipConfig{
		StorageDir:    dir,
		PublicBaseURL: "/files/payslips/",
	})

	return &payrollServiceDeps{
		db:         db,
		sqlMock:    sqlMock,
		service:    svc,
		repo:       repo,
		outbox:     outbox,
		audit:      audit,
		payslipDir: dir,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

// memoryPayrolls backs the fake repository with a map keyed the same way as
// the unique index on payrolls.
type memoryPayrolls map[string]*payroll.Payroll

func (m memoryPayrolls) key(companyID, employeeID, period string) string {
	return companyID + "/" + employeeID + "/" + period
}

func (m memoryPayrolls) wire(repo *fakePayrollRepository) {
	repo.existsForPeriodFn = func(ctx context.Context, companyID, employeeID, period string) (bool, error) {
		_, ok := m[m.key(companyID, employeeID, period)]
		return ok, nil
	}
	repo.createFn = func(ctx context.Context, p *payroll.Payroll) error {
		k := m.key(p.CompanyID.String(), p.EmployeeID.String(), p.Period)
		if _, ok := m[k]; ok {
			return &pgconn.PgError{Code: "23505", ConstraintName: "uq_payroll_employee_period"}
		}
		m[k] = p
		return nil
	}
}

func TestPayrollService_Generate(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	actorID := uuid.New().String()

	alice := payroll.PayrollEmployee{ID: uuid.New(), FullName: "Alice", EmployeeNumber: "EMP-00001", BasicSalary: 30000, Status: "ACTIVE"}
	bob := payroll.PayrollEmployee{ID: uuid.New(), FullName: "Bob", EmployeeNumber: "EMP-00002", BasicSalary: 30000, Status: "ACTIVE"}

	withEmployees := func(deps *payrollServiceDeps, employees ...payroll.PayrollEmployee) {
		deps.repo.findActiveEmployeesFn = func(ctx context.Context, cid string) ([]payroll.PayrollEmployee, error) {
			assert.Equal(t, companyID, cid)
			return employees, nil
		}
	}

	t.Run("prorates salary by attendance and unpaid leave", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		store := memoryPayrolls{}
		store.wire(deps.repo)
		withEmployees(deps, alice, bob)

		deps.repo.countPresentDaysFn = func(ctx context.Context, cid, eid string, start, end time.Time) (int, error) {
			assert.Equal(t, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), start)
			assert.Equal(t, time.Date(2025, 4, 30, 0, 0, 0, 0, time.UTC), end)
			return 28, nil
		}
		deps.repo.findApprovedUnpaidLeavesFn = func(ctx context.Context, cid, eid string, start, end time.Time) ([]payroll.LeaveRange, error) {
			if eid == bob.ID.String() {
				return []payroll.LeaveRange{{
					StartDate: time.Date(2025, 4, 14, 0, 0, 0, 0, time.UTC),
					EndDate:   time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC),
				}}, nil
			}
			return nil, nil
		}

		result, err := deps.service.Generate(ctx, companyID, actorID, "2025-04")

		assert.NoError(t, err)
		assert.Empty(t, result.Errors)
		if assert.Len(t, result.Records, 2) {
			a, b := result.Records[0], result.Records[1]
			assert.Equal(t, "Alice", a.EmployeeName)
			assert.Equal(t, int64(28000), a.NetSalary)
			assert.Equal(t, int64(0), a.DeductionAmount)
			assert.Equal(t, 30, a.TotalWorkingDays)
			assert.Equal(t, payroll.StatusPending, a.Status)
			assert.Equal(t, int64(0), a.OvertimeAmount)
			assert.Equal(t, int64(0), a.BonusesAmount)
			assert.Equal(t, actorID, *a.CreatedBy)

			assert.Equal(t, int64(26000), b.NetSalary)
			assert.Equal(t, int64(2000), b.DeductionAmount)
			assert.Equal(t, 2, b.UnpaidDays)
		}
		assert.Len(t, store, 2)
		assert.Len(t, deps.audit.entries, 1)
		assert.Equal(t, "payroll.generate", deps.audit.entries[0].Action)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("full attendance pays basic salary", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		memoryPayrolls{}.wire(deps.repo)
		withEmployees(deps, payroll.PayrollEmployee{ID: uuid.New(), FullName: "Carol", BasicSalary: 4500000})
		deps.repo.countPresentDaysFn = func(ctx context.Context, cid, eid string, start, end time.Time) (int, error) {
			return 29, nil
		}

		result, err := deps.service.Generate(ctx, companyID, actorID, "2024-02")

		assert.NoError(t, err)
		if assert.Len(t, result.Records, 1) {
			assert.Equal(t, int64(4500000), result.Records[0].NetSalary)
			assert.Equal(t, 29, result.Records[0].TotalWorkingDays)
		}
	})

	t.Run("no attendance with unpaid leave goes negative", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		memoryPayrolls{}.wire(deps.repo)
		withEmployees(deps, alice)
		deps.repo.findApprovedUnpaidLeavesFn = func(ctx context.Context, cid, eid string, start, end time.Time) ([]payroll.LeaveRange, error) {
			return []payroll.LeaveRange{{
				StartDate: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
				EndDate:   time.Date(2025, 4, 3, 0, 0, 0, 0, time.UTC),
			}}, nil
		}

		result, err := deps.service.Generate(ctx, companyID, actorID, "2025-04")

		assert.NoError(t, err)
		if assert.Len(t, result.Records, 1) {
			assert.Equal(t, int64(-3000), result.Records[0].NetSalary)
		}
	})

	t.Run("second run creates nothing and reports every employee", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		store := memoryPayrolls{}
		store.wire(deps.repo)
		withEmployees(deps, alice, bob)

		first, err := deps.service.Generate(ctx, companyID, actorID, "2025-04")
		assert.NoError(t, err)
		assert.Len(t, first.Records, 2)

		second, err := deps.service.Generate(ctx, companyID, actorID, "2025-04")

		assert.NoError(t, err)
		assert.Empty(t, second.Records)
		assert.Equal(t, []string{
			"Alice: payroll for 2025-04 already exists",
			"Bob: payroll for 2025-04 already exists",
		}, second.Errors)
		assert.Len(t, store, 2)
	})

	t.Run("unique violation on insert is reported as duplicate", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		withEmployees(deps, alice)
		deps.repo.createFn = func(ctx context.Context, p *payroll.Payroll) error {
			return &pgconn.PgError{Code: "23505", ConstraintName: "uq_payroll_employee_period"}
		}

		result, err := deps.service.Generate(ctx, companyID, actorID, "2025-04")

		assert.NoError(t, err)
		assert.Empty(t, result.Records)
		assert.Equal(t, []string{"Alice: payroll for 2025-04 already exists"}, result.Errors)
	})

	t.Run("failure for one employee does not stop the batch", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		store := memoryPayrolls{}
		store.wire(deps.repo)
		withEmployees(deps, alice, bob)
		deps.repo.countPresentDaysFn = func(ctx context.Context, cid, eid string, start, end time.Time) (int, error) {
			if eid == alice.ID.String() {
				return 0, errors.New("connection reset")
			}
			return 30, nil
		}

		result, err := deps.service.Generate(ctx, companyID, actorID, "2025-04")

		assert.NoError(t, err)
		assert.Equal(t, []string{"Alice: connection reset"}, result.Errors)
		if assert.Len(t, result.Records, 1) {
			assert.Equal(t, "Bob", result.Records[0].EmployeeName)
			assert.Equal(t, int64(30000), result.Records[0].NetSalary)
		}
	})

	t.Run("no active employees is fatal", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		created := 0
		deps.repo.createFn = func(ctx context.Context, p *payroll.Payroll) error {
			created++
			return nil
		}
		withEmployees(deps)

		result, err := deps.service.Generate(ctx, companyID, actorID, "2025-04")

		assert.ErrorIs(t, err, payrollerrors.ErrNoActiveEmployees)
		assert.Empty(t, result.Records)
		assert.Zero(t, created)
		assert.Empty(t, deps.audit.entries)
	})

	t.Run("invalid month is rejected before any lookup", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		deps.repo.findActiveEmployeesFn = func(ctx context.Context, cid string) ([]payroll.PayrollEmployee, error) {
			t.Fatal("employees must not be loaded")
			return nil, nil
		}

		_, err := deps.service.Generate(ctx, companyID, actorID, "2025-13")

		assert.ErrorIs(t, err, payrollerrors.ErrInvalidPeriodFormat)
	})

	t.Run("scheduled run has no actor", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		memoryPayrolls{}.wire(deps.repo)
		withEmployees(deps, alice)

		result, err := deps.service.Generate(ctx, companyID, "", "2025-04")

		assert.NoError(t, err)
		if assert.Len(t, result.Records, 1) {
			assert.Nil(t, result.Records[0].CreatedBy)
		}
	})
}

func pendingPayroll(companyID, id string) *payroll.Payroll {
	return &payroll.Payroll{
		ID:               uuid.MustParse(id),
		CompanyID:        uuid.MustParse(companyID),
		EmployeeID:       uuid.New(),
		Employee:         &payroll.PayrollEmployee{FullName: "Alice", EmployeeNumber: "EMP-00001"},
		Period:           "2025-04",
		PeriodStart:      time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:        time.Date(2025, 4, 30, 0, 0, 0, 0, time.UTC),
		TotalWorkingDays: 30,
		DaysPresent:      28,
		UnpaidDays:       2,
		BasicSalary:      30000,
		DeductionAmount:  2000,
		NetSalary:        26000,
		Status:           payroll.StatusPending,
	}
}

func TestPayrollService_Adjust(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	actorID := uuid.New().String()
	payrollID := uuid.New().String()

	t.Run("recomputes net salary", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		expectTx(t, deps.sqlMock, true)
		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*payroll.Payroll, error) {
			return pendingPayroll(cid, id), nil
		}
		var saved *payroll.Payroll
		deps.repo.updateFn = func(ctx context.Context, p *payroll.Payroll) error {
			saved = p
			return nil
		}

		overtime, bonuses, notes := int64(1500), int64(500), "  weekend shift "
		resp, err := deps.service.Adjust(ctx, companyID, actorID, payrollID, payroll.AdjustPayrollRequest{
			OvertimeAmount: &overtime,
			BonusesAmount:  &bonuses,
			Notes:          &notes,
		})

		assert.NoError(t, err)
		assert.Equal(t, int64(28000), resp.NetSalary)
		assert.Equal(t, "weekend shift", *resp.Notes)
		if assert.NotNil(t, saved) {
			assert.Equal(t, int64(28000), saved.NetSalary)
		}
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("only pending records", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		expectTx(t, deps.sqlMock, false)
		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*payroll.Payroll, error) {
			p := pendingPayroll(cid, id)
			p.Status = payroll.StatusPaid
			return p, nil
		}

		bonuses := int64(100)
		_, err := deps.service.Adjust(ctx, companyID, actorID, payrollID, payroll.AdjustPayrollRequest{BonusesAmount: &bonuses})

		assert.ErrorIs(t, err, payrollerrors.ErrAdjustOnlyPending)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative amounts", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)

		deduction := int64(-1)
		_, err := deps.service.Adjust(ctx, companyID, actorID, payrollID, payroll.AdjustPayrollRequest{DeductionAmount: &deduction})

		assert.ErrorIs(t, err, payrollerrors.ErrInvalidMoneyValue)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestPayrollService_MarkAsPaid(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	actorID := uuid.New().String()
	payrollID := uuid.New().String()

	t.Run("stamps paid_at and queues payslip event", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		expectTx(t, deps.sqlMock, true)
		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*payroll.Payroll, error) {
			return pendingPayroll(cid, id), nil
		}

		resp, err := deps.service.MarkAsPaid(ctx, companyID, actorID, payrollID)

		assert.NoError(t, err)
		assert.Equal(t, payroll.StatusPaid, resp.Status)
		assert.NotNil(t, resp.PaidAt)

		if assert.Len(t, deps.outbox.created, 1) {
			event := deps.outbox.created[0]
			assert.Equal(t, events.PayrollPayslipRequestedTopic, event.Topic)
			assert.Equal(t, payrollID, event.AggregateID)

			var payload events.PayrollPayslipRequestedEvent
			assert.NoError(t, json.Unmarshal(event.Payload, &payload))
			assert.Equal(t, companyID, payload.CompanyID)
			assert.Equal(t, payrollID, payload.PayrollID)
			assert.Equal(t, "2025-04", payload.Period)
			assert.Equal(t, actorID, payload.RequestedBy)
		}
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("outbox failure rolls back", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		expectTx(t, deps.sqlMock, false)
		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*payroll.Payroll, error) {
			return pendingPayroll(cid, id), nil
		}
		deps.outbox.createFn = func(ctx context.Context, event kafka.OutboxEvent) error {
			return errors.New("insert failed")
		}

		_, err := deps.service.MarkAsPaid(ctx, companyID, actorID, payrollID)

		assert.EqualError(t, err, "insert failed")
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	for _, status := range []string{payroll.StatusPaid, payroll.StatusCancelled} {
		t.Run("no transition out of "+status, func(t *testing.T) {
			deps := setupPayrollServiceTest(t)
			expectTx(t, deps.sqlMock, false)
			deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*payroll.Payroll, error) {
				p := pendingPayroll(cid, id)
				p.Status = status
				return p, nil
			}

			_, err := deps.service.MarkAsPaid(ctx, companyID, actorID, payrollID)

			assert.ErrorIs(t, err, payrollerrors.ErrInvalidStatusTransition)
			assert.Empty(t, deps.outbox.created)
			assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
		})
	}
}

func TestPayrollService_Cancel(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	actorID := uuid.New().String()
	payrollID := uuid.New().String()

	t.Run("pending becomes cancelled", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		expectTx(t, deps.sqlMock, true)
		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*payroll.Payroll, error) {
			return pendingPayroll(cid, id), nil
		}

		resp, err := deps.service.Cancel(ctx, companyID, actorID, payrollID)

		assert.NoError(t, err)
		assert.Equal(t, payroll.StatusCancelled, resp.Status)
		assert.Nil(t, resp.PaidAt)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("paid cannot be cancelled", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		expectTx(t, deps.sqlMock, false)
		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*payroll.Payroll, error) {
			p := pendingPayroll(cid, id)
			p.Status = payroll.StatusPaid
			return p, nil
		}

		_, err := deps.service.Cancel(ctx, companyID, actorID, payrollID)

		assert.ErrorIs(t, err, payrollerrors.ErrInvalidStatusTransition)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestPayrollService_GetAll(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()

	t.Run("normalises filter", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		deps.repo.findAllByCompanyFn = func(ctx context.Context, cid string, filter payroll.PayrollQueryFilter) ([]payroll.Payroll, error) {
			if assert.NotNil(t, filter.Status) {
				assert.Equal(t, payroll.StatusPending, *filter.Status)
			}
			if assert.NotNil(t, filter.Period) {
				assert.Equal(t, "2025-04", *filter.Period)
			}
			return []payroll.Payroll{*pendingPayroll(cid, uuid.New().String())}, nil
		}

		resp, err := deps.service.GetAll(ctx, companyID, payroll.GetPayrollsFilterRequest{Period: "2025-04", Status: "pending"})

		assert.NoError(t, err)
		assert.Len(t, resp, 1)
	})

	t.Run("unknown status", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)

		resp, err := deps.service.GetAll(ctx, companyID, payroll.GetPayrollsFilterRequest{Status: "draft"})

		assert.ErrorIs(t, err, payrollerrors.ErrInvalidStatusFilter)
		assert.Nil(t, resp)
	})

	t.Run("repository error", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		deps.repo.findAllByCompanyFn = func(ctx context.Context, cid string, filter payroll.PayrollQueryFilter) ([]payroll.Payroll, error) {
			return nil, errors.New("db error")
		}

		resp, err := deps.service.GetAll(ctx, companyID, payroll.GetPayrollsFilterRequest{})

		assert.Error(t, err)
		assert.Nil(t, resp)
	})
}

func TestPayrollService_GetByID_NotFound(t *testing.T) {
	deps := setupPayrollServiceTest(t)

	_, err := deps.service.GetByID(context.Background(), uuid.New().String(), uuid.New().String())

	assert.ErrorIs(t, err, payrollerrors.ErrPayrollNotFound)
}

func TestPayrollService_GeneratePayslip(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	payrollID := uuid.New().String()

	deps := setupPayrollServiceTest(t)
	expectTx(t, deps.sqlMock, true)
	deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*payroll.Payroll, error) {
		p := pendingPayroll(cid, id)
		p.Status = payroll.StatusPaid
		return p, nil
	}

	resp, err := deps.service.GeneratePayslip(ctx, companyID, payrollID)

	assert.NoError(t, err)
	if assert.NotNil(t, resp.PayslipURL) {
		assert.Equal(t, "/files/payslips/payslip_"+payrollID+".pdf", *resp.PayslipURL)
	}
	assert.NotNil(t, resp.PayslipGeneratedAt)

	content, statErr := os.ReadFile(filepath.Join(deps.payslipDir, "payslip_"+payrollID+".pdf"))
	assert.NoError(t, statErr)
	assert.True(t, len(content) > 4 && string(content[:4]) == "%PDF")
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestPayrollService_Export(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()

	t.Run("writes one row per record", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		deps.repo.findAllByCompanyFn = func(ctx context.Context, cid string, filter payroll.PayrollQueryFilter) ([]payroll.Payroll, error) {
			assert.Equal(t, "2025-04", *filter.Period)
			assert.Nil(t, filter.Status)
			return []payroll.Payroll{*pendingPayroll(cid, uuid.New().String())}, nil
		}

		file, err := deps.service.Export(ctx, companyID, "2025-04")

		assert.NoError(t, err)
		assert.Equal(t, "payroll_2025-04.xlsx", file.Filename)

		wb, err := excelize.OpenReader(bytes.NewReader(file.Content))
		if assert.NoError(t, err) {
			defer wb.Close()
			name, _ := wb.GetCellValue("Payroll 2025-04", "B2")
			net, _ := wb.GetCellValue("Payroll 2025-04", "K2")
			total, _ := wb.GetCellValue("Payroll 2025-04", "K3")
			assert.Equal(t, "Alice", name)
			assert.Equal(t, "26000", net)
			assert.Equal(t, "26000", total)
		}
	})

	t.Run("empty month", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)

		_, err := deps.service.Export(ctx, companyID, "2025-04")

		assert.ErrorIs(t, err, payrollerrors.ErrNoPayrollsToExport)
	})

	t.Run("invalid month", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)

		_, err := deps.service.Export(ctx, companyID, "April")

		assert.ErrorIs(t, err, payrollerrors.ErrInvalidPeriodFormat)
	})
}
