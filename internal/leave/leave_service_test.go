package leave_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"emplystack/internal/leave"
	leaveerrors "emplystack/internal/leave/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeLeaveRepository struct {
	createFn                 func(ctx context.Context, l *leave.Leave) error
	findAllFn                func(ctx context.Context, companyID string, q leave.Query) ([]leave.Leave, error)
	findByIDAndCompanyFn     func(ctx context.Context, companyID, id string) (*leave.Leave, error)
	updateFn                 func(ctx context.Context, l *leave.Leave) error
	employeeBelongsToCompany func(ctx context.Context, companyID, employeeID string) (bool, error)
	hasOverlappingPeriodFn   func(ctx context.Context, companyID, employeeID string, startDate, endDate time.Time) (bool, error)
}

func (f *fakeLeaveRepository) WithTx(tx *sql.Tx) leave.Repository { return f }

func (f *fakeLeaveRepository) Create(ctx context.Context, l *leave.Leave) error {
	if f.createFn != nil {
		return f.createFn(ctx, l)
	}
	return nil
}

func (f *fakeLeaveRepository) FindAll(ctx context.Context, companyID string, q leave.Query) ([]leave.Leave, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx, companyID, q)
	}
	return nil, nil
}

func (f *fakeLeaveRepository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*leave.Leave, error) {
	if f.findByIDAndCompanyFn != nil {
		return f.findByIDAndCompanyFn(ctx, companyID, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeLeaveRepository) Update(ctx context.Context, l *leave.Leave) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, l)
	}
	return nil
}

func (f *fakeLeaveRepository) EmployeeBelongsToCompany(ctx context.Context, companyID, employeeID string) (bool, error) {
	if f.employeeBelongsToCompany != nil {
		return f.employeeBelongsToCompany(ctx, companyID, employeeID)
	}
	return true, nil
}

func (f *fakeLeaveRepository) HasOverlappingPeriod(ctx context.Context, companyID, employeeID string, startDate, endDate time.Time) (bool, error) {
	if f.hasOverlappingPeriodFn != nil {
		return f.hasOverlappingPeriodFn(ctx, companyID, employeeID, startDate, endDate)
	}
	return false, nil
}

func newLeaveService(t *testing.T, repo leave.Repository) (leave.Service, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return leave.NewService(db, repo), mock
}

func TestLeaveService_Create(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	actorID := uuid.New().String()

	base := leave.CreateLeaveRequest{
		LeaveType: leave.TypeUnpaid,
		StartDate: "2026-03-10",
		EndDate:   "2026-03-12",
		Reason:    " family ",
	}

	t.Run("defaults employee to caller", func(t *testing.T) {
		var created *leave.Leave
		repo := &fakeLeaveRepository{
			createFn: func(ctx context.Context, l *leave.Leave) error { created = l; return nil },
		}
		svc, mock := newLeaveService(t, repo)
		mock.ExpectBegin()
		mock.ExpectCommit()

		resp, err := svc.Create(ctx, companyID, actorID, false, base)

		assert.NoError(t, err)
		assert.Equal(t, actorID, resp.EmployeeID)
		assert.Equal(t, leave.StatusPending, resp.Status)
		assert.Equal(t, 3, resp.TotalDays)
		assert.Equal(t, "family", created.Reason)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("employee cannot file for others", func(t *testing.T) {
		svc, _ := newLeaveService(t, &fakeLeaveRepository{})
		req := base
		req.EmployeeID = uuid.New().String()

		_, err := svc.Create(ctx, companyID, actorID, false, req)

		assert.ErrorIs(t, err, leaveerrors.ErrCannotFileForOthers)
	})

	t.Run("manager files for a report", func(t *testing.T) {
		svc, mock := newLeaveService(t, &fakeLeaveRepository{})
		mock.ExpectBegin()
		mock.ExpectCommit()
		req := base
		req.EmployeeID = uuid.New().String()

		resp, err := svc.Create(ctx, companyID, actorID, true, req)

		assert.NoError(t, err)
		assert.Equal(t, req.EmployeeID, resp.EmployeeID)
		assert.Equal(t, actorID, resp.CreatedBy)
	})

	t.Run("inverted range", func(t *testing.T) {
		svc, _ := newLeaveService(t, &fakeLeaveRepository{})
		req := base
		req.StartDate, req.EndDate = "2026-03-12", "2026-03-10"

		_, err := svc.Create(ctx, companyID, actorID, false, req)

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidDateRange)
	})

	t.Run("overlap", func(t *testing.T) {
		repo := &fakeLeaveRepository{
			hasOverlappingPeriodFn: func(ctx context.Context, cid, eid string, s, e time.Time) (bool, error) {
				assert.Equal(t, "2026-03-10", s.Format("2006-01-02"))
				assert.Equal(t, "2026-03-12", e.Format("2006-01-02"))
				return true, nil
			},
		}
		svc, mock := newLeaveService(t, repo)
		mock.ExpectBegin()
		mock.ExpectRollback()

		_, err := svc.Create(ctx, companyID, actorID, false, base)

		assert.ErrorIs(t, err, leaveerrors.ErrLeaveOverlap)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("employee outside company", func(t *testing.T) {
		repo := &fakeLeaveRepository{
			employeeBelongsToCompany: func(ctx context.Context, cid, eid string) (bool, error) { return false, nil },
		}
		svc, mock := newLeaveService(t, repo)
		mock.ExpectBegin()
		mock.ExpectRollback()

		_, err := svc.Create(ctx, companyID, actorID, false, base)

		assert.ErrorIs(t, err, leaveerrors.ErrEmployeeNotInCompany)
	})
}

func pendingLeave(employeeID uuid.UUID) *leave.Leave {
	return &leave.Leave{
		ID:         uuid.New(),
		EmployeeID: employeeID,
		LeaveType:  leave.TypeSick,
		StartDate:  time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		TotalDays:  1,
		Status:     leave.StatusPending,
	}
}

func TestLeaveService_Approve(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	approverID := uuid.New().String()
	employeeID := uuid.New()

	t.Run("pending becomes approved", func(t *testing.T) {
		l := pendingLeave(employeeID)
		repo := &fakeLeaveRepository{
			findByIDAndCompanyFn: func(ctx context.Context, cid, id string) (*leave.Leave, error) { return l, nil },
		}
		svc, mock := newLeaveService(t, repo)
		mock.ExpectBegin()
		mock.ExpectCommit()

		resp, err := svc.Approve(ctx, companyID, approverID, l.ID.String())

		assert.NoError(t, err)
		assert.Equal(t, leave.StatusApproved, resp.Status)
		assert.Equal(t, approverID, *resp.ReviewedBy)
		assert.NotNil(t, resp.ReviewedAt)
	})

	t.Run("cannot approve own leave", func(t *testing.T) {
		l := pendingLeave(uuid.MustParse(approverID))
		repo := &fakeLeaveRepository{
			findByIDAndCompanyFn: func(ctx context.Context, cid, id string) (*leave.Leave, error) { return l, nil },
		}
		svc, mock := newLeaveService(t, repo)
		mock.ExpectBegin()
		mock.ExpectRollback()

		_, err := svc.Approve(ctx, companyID, approverID, l.ID.String())

		assert.ErrorIs(t, err, leaveerrors.ErrSelfReview)
	})

	for _, status := range []string{leave.StatusApproved, leave.StatusRejected, leave.StatusCancelled} {
		t.Run("not from "+status, func(t *testing.T) {
			l := pendingLeave(employeeID)
			l.Status = status
			updated := false
			repo := &fakeLeaveRepository{
				findByIDAndCompanyFn: func(ctx context.Context, cid, id string) (*leave.Leave, error) { return l, nil },
				updateFn:             func(ctx context.Context, l *leave.Leave) error { updated = true; return nil },
			}
			svc, mock := newLeaveService(t, repo)
			mock.ExpectBegin()
			mock.ExpectRollback()

			_, err := svc.Approve(ctx, companyID, approverID, l.ID.String())

			assert.ErrorIs(t, err, leaveerrors.ErrInvalidStatusTransition)
			assert.False(t, updated)
		})
	}

	t.Run("not found", func(t *testing.T) {
		svc, mock := newLeaveService(t, &fakeLeaveRepository{})
		mock.ExpectBegin()
		mock.ExpectRollback()

		_, err := svc.Approve(ctx, companyID, approverID, uuid.New().String())

		assert.ErrorIs(t, err, leaveerrors.ErrLeaveNotFound)
	})
}

func TestLeaveService_Reject(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	approverID := uuid.New().String()

	t.Run("requires reason", func(t *testing.T) {
		svc, _ := newLeaveService(t, &fakeLeaveRepository{})

		_, err := svc.Reject(ctx, companyID, approverID, uuid.New().String(), "   ")

		assert.ErrorIs(t, err, leaveerrors.ErrRejectionReasonRequired)
	})

	t.Run("stores reason", func(t *testing.T) {
		l := pendingLeave(uuid.New())
		repo := &fakeLeaveRepository{
			findByIDAndCompanyFn: func(ctx context.Context, cid, id string) (*leave.Leave, error) { return l, nil },
		}
		svc, mock := newLeaveService(t, repo)
		mock.ExpectBegin()
		mock.ExpectCommit()

		resp, err := svc.Reject(ctx, companyID, approverID, l.ID.String(), "peak season")

		assert.NoError(t, err)
		assert.Equal(t, leave.StatusRejected, resp.Status)
		assert.Equal(t, "peak season", *resp.RejectionReason)
	})
}

func TestLeaveService_Cancel(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	owner := uuid.New()

	t.Run("owner cancels", func(t *testing.T) {
		l := pendingLeave(owner)
		repo := &fakeLeaveRepository{
			findByIDAndCompanyFn: func(ctx context.Context, cid, id string) (*leave.Leave, error) { return l, nil },
		}
		svc, mock := newLeaveService(t, repo)
		mock.ExpectBegin()
		mock.ExpectCommit()

		resp, err := svc.Cancel(ctx, companyID, owner.String(), false, l.ID.String())

		assert.NoError(t, err)
		assert.Equal(t, leave.StatusCancelled, resp.Status)
	})

	t.Run("other employee cannot see it", func(t *testing.T) {
		l := pendingLeave(owner)
		repo := &fakeLeaveRepository{
			findByIDAndCompanyFn: func(ctx context.Context, cid, id string) (*leave.Leave, error) { return l, nil },
		}
		svc, mock := newLeaveService(t, repo)
		mock.ExpectBegin()
		mock.ExpectRollback()

		_, err := svc.Cancel(ctx, companyID, uuid.New().String(), false, l.ID.String())

		assert.ErrorIs(t, err, leaveerrors.ErrLeaveNotFound)
	})

	t.Run("update failure", func(t *testing.T) {
		l := pendingLeave(owner)
		repo := &fakeLeaveRepository{
			findByIDAndCompanyFn: func(ctx context.Context, cid, id string) (*leave.Leave, error) { return l, nil },
			updateFn:             func(ctx context.Context, l *leave.Leave) error { return errors.New("write failed") },
		}
		svc, mock := newLeaveService(t, repo)
		mock.ExpectBegin()
		mock.ExpectRollback()

		_, err := svc.Cancel(ctx, companyID, uuid.New().String(), true, l.ID.String())

		assert.EqualError(t, err, "write failed")
	})
}

func TestLeaveService_GetAllAndGetByID(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	self := uuid.New().String()

	t.Run("employee listing is forced to self", func(t *testing.T) {
		var got leave.Query
		repo := &fakeLeaveRepository{
			findAllFn: func(ctx context.Context, cid string, q leave.Query) ([]leave.Leave, error) {
				got = q
				return nil, nil
			},
		}
		svc, _ := newLeaveService(t, repo)

		_, err := svc.GetAll(ctx, companyID, self, false, leave.GetLeavesFilterRequest{
			EmployeeID: uuid.New().String(),
			Status:     leave.StatusApproved,
		})

		assert.NoError(t, err)
		assert.Equal(t, self, *got.EmployeeID)
		assert.Equal(t, leave.StatusApproved, *got.Status)
		assert.Nil(t, got.LeaveType)
	})

	t.Run("employee cannot read another's leave", func(t *testing.T) {
		l := pendingLeave(uuid.New())
		repo := &fakeLeaveRepository{
			findByIDAndCompanyFn: func(ctx context.Context, cid, id string) (*leave.Leave, error) { return l, nil },
		}
		svc, _ := newLeaveService(t, repo)

		_, err := svc.GetByID(ctx, companyID, self, false, l.ID.String())
		assert.ErrorIs(t, err, leaveerrors.ErrLeaveNotFound)

		resp, err := svc.GetByID(ctx, companyID, self, true, l.ID.String())
		assert.NoError(t, err)
		assert.Equal(t, l.ID.String(), resp.ID)
	})
}
