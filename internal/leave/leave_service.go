package leave

import (
	"context"
	"database/sql"
	"strings"
	"time"

	leaveerrors "emplystack/internal/leave/errors"
	"emplystack/internal/shared/calendar"
	"emplystack/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service interface {
	Create(ctx context.Context, companyID, actorID string, canManage bool, req CreateLeaveRequest) (LeaveResponse, error)
	GetAll(ctx context.Context, companyID, actorID string, canManage bool, filter GetLeavesFilterRequest) ([]LeaveResponse, error)
	GetByID(ctx context.Context, companyID, actorID string, canManage bool, id string) (LeaveResponse, error)
	Approve(ctx context.Context, companyID, actorID, id string) (LeaveResponse, error)
	Reject(ctx context.Context, companyID, actorID, id, reason string) (LeaveResponse, error)
	Cancel(ctx context.Context, companyID, actorID string, canManage bool, id string) (LeaveResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	now    func() time.Time
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{db: db, repo: repo, now: time.Now, logger: l}
}

func (s *service) Create(
	ctx context.Context,
	companyID, actorID string,
	canManage bool,
	req CreateLeaveRequest,
) (LeaveResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidCompanyID
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidActorID
	}

	employeeID := req.EmployeeID
	if employeeID == "" {
		employeeID = actorID
	}
	employeeUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidEmployeeID
	}
	if employeeUUID != actorUUID && !canManage {
		return LeaveResponse{}, leaveerrors.ErrCannotFileForOthers
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return LeaveResponse{}, err
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return LeaveResponse{}, err
	}
	if startDate.After(endDate) {
		return LeaveResponse{}, leaveerrors.ErrInvalidDateRange
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("create leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	belongs, err := qtx.EmployeeBelongsToCompany(ctx, companyID, employeeID)
	if err != nil {
		log.Error("create leave employee company check failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if !belongs {
		return LeaveResponse{}, leaveerrors.ErrEmployeeNotInCompany
	}

	overlap, err := qtx.HasOverlappingPeriod(ctx, companyID, employeeID, startDate, endDate)
	if err != nil {
		log.Error("create leave overlap check failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if overlap {
		log.Warn("create leave overlap detected",
			zap.String("employee_id", employeeID),
			zap.String("start_date", req.StartDate),
			zap.String("end_date", req.EndDate),
		)
		return LeaveResponse{}, leaveerrors.ErrLeaveOverlap
	}

	l := &Leave{
		ID:         uuid.New(),
		CompanyID:  companyUUID,
		EmployeeID: employeeUUID,
		LeaveType:  req.LeaveType,
		StartDate:  startDate,
		EndDate:    endDate,
		TotalDays:  calendar.InclusiveDays(startDate, endDate),
		Reason:     strings.TrimSpace(req.Reason),
		Status:     StatusPending,
		CreatedBy:  actorUUID,
	}

	if err := qtx.Create(ctx, l); err != nil {
		log.Error("create leave persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		log.Error("create leave commit failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	log.Info("leave requested",
		zap.String("leave_id", l.ID.String()),
		zap.String("employee_id", employeeID),
		zap.String("leave_type", l.LeaveType),
		zap.Int("total_days", l.TotalDays),
	)

	return mapToResponse(*l), nil
}

func (s *service) GetAll(
	ctx context.Context,
	companyID, actorID string,
	canManage bool,
	filter GetLeavesFilterRequest,
) ([]LeaveResponse, error) {
	var q Query
	if filter.Status != "" {
		q.Status = &filter.Status
	}
	if filter.LeaveType != "" {
		q.LeaveType = &filter.LeaveType
	}

	if canManage {
		if filter.EmployeeID != "" {
			q.EmployeeID = &filter.EmployeeID
		}
	} else {
		if _, err := uuid.Parse(actorID); err != nil {
			return nil, leaveerrors.ErrInvalidActorID
		}
		q.EmployeeID = &actorID
	}

	leaves, err := s.repo.FindAll(ctx, companyID, q)
	if err != nil {
		contextutil.GetLogger(ctx, s.logger).Error("list leaves failed", zap.Error(err))
		return nil, err
	}
	return mapToListResponse(leaves), nil
}

// GetByID hides other employees' leave from callers who cannot manage it.
func (s *service) GetByID(ctx context.Context, companyID, actorID string, canManage bool, id string) (LeaveResponse, error) {
	l, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return LeaveResponse{}, mapRepositoryError(err)
	}
	if !canManage && l.EmployeeID.String() != actorID {
		return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
	}
	return mapToResponse(*l), nil
}

func (s *service) Approve(ctx context.Context, companyID, actorID, id string) (LeaveResponse, error) {
	return s.review(ctx, companyID, actorID, id, StatusApproved, nil)
}

func (s *service) Reject(ctx context.Context, companyID, actorID, id, reason string) (LeaveResponse, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return LeaveResponse{}, leaveerrors.ErrRejectionReasonRequired
	}
	return s.review(ctx, companyID, actorID, id, StatusRejected, &reason)
}

func (s *service) review(
	ctx context.Context,
	companyID, actorID, id, targetStatus string,
	rejectionReason *string,
) (LeaveResponse, error) {
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidActorID
	}

	return s.transition(ctx, companyID, id, targetStatus, func(l *Leave) error {
		if l.EmployeeID == actorUUID {
			return leaveerrors.ErrSelfReview
		}
		now := s.now().UTC()
		l.ReviewedBy = &actorUUID
		l.ReviewedAt = &now
		l.RejectionReason = rejectionReason
		return nil
	})
}

// Cancel withdraws a pending leave. The owner may always cancel; anyone else
// needs leave management rights.
func (s *service) Cancel(ctx context.Context, companyID, actorID string, canManage bool, id string) (LeaveResponse, error) {
	return s.transition(ctx, companyID, id, StatusCancelled, func(l *Leave) error {
		if l.EmployeeID.String() != actorID && !canManage {
			return leaveerrors.ErrLeaveNotFound
		}
		return nil
	})
}

func (s *service) transition(
	ctx context.Context,
	companyID, id, targetStatus string,
	apply func(l *Leave) error,
) (LeaveResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	if _, err := uuid.Parse(companyID); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidCompanyID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("leave transition begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return LeaveResponse{}, mapRepositoryError(err)
	}
	if err := apply(l); err != nil {
		return LeaveResponse{}, err
	}
	if l.Status != StatusPending {
		log.Warn("leave transition rejected",
			zap.String("leave_id", id),
			zap.String("from_status", l.Status),
			zap.String("to_status", targetStatus),
		)
		return LeaveResponse{}, leaveerrors.ErrInvalidStatusTransition
	}

	l.Status = targetStatus
	if err := qtx.Update(ctx, l); err != nil {
		log.Error("leave transition persist failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		log.Error("leave transition commit failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}

	log.Info("leave status changed",
		zap.String("leave_id", id),
		zap.String("status", targetStatus),
	)
	return mapToResponse(*l), nil
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	return t, nil
}

func mapToResponse(l Leave) LeaveResponse {
	resp := LeaveResponse{
		ID:              l.ID.String(),
		CompanyID:       l.CompanyID.String(),
		EmployeeID:      l.EmployeeID.String(),
		LeaveType:       l.LeaveType,
		StartDate:       l.StartDate.Format("2006-01-02"),
		EndDate:         l.EndDate.Format("2006-01-02"),
		TotalDays:       l.TotalDays,
		Reason:          l.Reason,
		Status:          l.Status,
		CreatedBy:       l.CreatedBy.String(),
		RejectionReason: l.RejectionReason,
	}
	if l.Employee != nil {
		resp.EmployeeName = l.Employee.FullName
		resp.EmployeeNumber = l.Employee.EmployeeNumber
	}
	if l.ReviewedBy != nil {
		v := l.ReviewedBy.String()
		resp.ReviewedBy = &v
	}
	if l.ReviewedAt != nil {
		v := l.ReviewedAt.Format(time.RFC3339)
		resp.ReviewedAt = &v
	}
	return resp
}

func mapToListResponse(leaves []Leave) []LeaveResponse {
	resp := make([]LeaveResponse, len(leaves))
	for i, l := range leaves {
		resp[i] = mapToResponse(l)
	}
	return resp
}
