package attendance

import (
	"context"
	"database/sql"
	"errors"
	"time"

	attendanceerrors "emplystack/internal/attendance/errors"
	"emplystack/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	lateAfterHour   = 9
	lateAfterMinute = 15

	// A day with less worked time than this is recorded as HALF_DAY on clock-out.
	halfDayThreshold = 4 * time.Hour
)

type Service interface {
	ClockIn(ctx context.Context, companyID, employeeID string, req ClockInRequest) (AttendanceResponse, error)
	ClockOut(ctx context.Context, companyID, employeeID string, req ClockOutRequest) (AttendanceResponse, error)
	Record(ctx context.Context, companyID, actorID string, req RecordAttendanceRequest) (AttendanceResponse, error)
	GetAll(ctx context.Context, companyID, actorID string, canReadAll bool, filter GetAttendancesFilterRequest) ([]AttendanceResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	loc    *time.Location
	now    func() time.Time
	logger *zap.Logger
}

// NewService evaluates working days and the late threshold in loc; nil means UTC.
func NewService(db *sql.DB, repo Repository, loc *time.Location, logger ...*zap.Logger) Service {
	l := zap.L().Named("attendance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.service")
	}
	if loc == nil {
		loc = time.UTC
	}
	return &service{db: db, repo: repo, loc: loc, now: time.Now, logger: l}
}

// workDate returns the calendar day of t in the service location as a
// midnight UTC value, which is how DATE columns are stored.
func (s *service) workDate(t time.Time) time.Time {
	local := t.In(s.loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

func (s *service) isLate(t time.Time) bool {
	local := t.In(s.loc)
	return local.Hour() > lateAfterHour || (local.Hour() == lateAfterHour && local.Minute() > lateAfterMinute)
}

func parseIDs(companyID, employeeID string) (uuid.UUID, uuid.UUID, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return uuid.Nil, uuid.Nil, attendanceerrors.ErrInvalidCompanyID
	}
	employeeUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return uuid.Nil, uuid.Nil, attendanceerrors.ErrInvalidEmployeeID
	}
	return companyUUID, employeeUUID, nil
}

func (s *service) ClockIn(ctx context.Context, companyID, employeeID string, req ClockInRequest) (AttendanceResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	companyUUID, employeeUUID, err := parseIDs(companyID, employeeID)
	if err != nil {
		return AttendanceResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	now := s.now().UTC()
	today := s.workDate(now)

	existing, err := qtx.FindByEmployeeAndDate(ctx, companyID, employeeID, today)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return AttendanceResponse{}, err
	}
	if existing != nil {
		return AttendanceResponse{}, attendanceerrors.ErrAlreadyClockedIn
	}

	status := StatusPresent
	if s.isLate(now) {
		status = StatusLate
	}

	row := &Attendance{
		ID:             uuid.New(),
		CompanyID:      companyUUID,
		EmployeeID:     employeeUUID,
		AttendanceDate: today,
		ClockIn:        &now,
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		Status:         status,
		Source:         SourceSelf,
		Notes:          req.Notes,
	}

	if err := qtx.Create(ctx, row); err != nil {
		return AttendanceResponse{}, mapRepositoryError(err)
	}
	if err := tx.Commit(); err != nil {
		return AttendanceResponse{}, err
	}

	log.Info("clock in recorded",
		zap.String("employee_id", employeeID),
		zap.String("status", status),
	)
	return s.mapToResponse(*row), nil
}

func (s *service) ClockOut(ctx context.Context, companyID, employeeID string, req ClockOutRequest) (AttendanceResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	if _, _, err := parseIDs(companyID, employeeID); err != nil {
		return AttendanceResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	now := s.now().UTC()

	row, err := qtx.FindByEmployeeAndDate(ctx, companyID, employeeID, s.workDate(now))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AttendanceResponse{}, attendanceerrors.ErrClockInNotFound
		}
		return AttendanceResponse{}, err
	}
	if row.ClockIn == nil {
		return AttendanceResponse{}, attendanceerrors.ErrClockInNotFound
	}
	if row.ClockOut != nil {
		return AttendanceResponse{}, attendanceerrors.ErrAlreadyClockedOut
	}

	row.ClockOut = &now
	if now.Sub(*row.ClockIn) < halfDayThreshold {
		row.Status = StatusHalfDay
	}
	if req.Latitude != nil {
		row.Latitude = req.Latitude
	}
	if req.Longitude != nil {
		row.Longitude = req.Longitude
	}
	if req.Notes != nil {
		row.Notes = req.Notes
	}

	if err := qtx.Update(ctx, row); err != nil {
		return AttendanceResponse{}, mapRepositoryError(err)
	}
	if err := tx.Commit(); err != nil {
		return AttendanceResponse{}, err
	}

	log.Info("clock out recorded",
		zap.String("employee_id", employeeID),
		zap.String("status", row.Status),
	)
	return s.mapToResponse(*row), nil
}

// Record creates or overwrites the attendance of one employee on one day.
func (s *service) Record(ctx context.Context, companyID, actorID string, req RecordAttendanceRequest) (AttendanceResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	companyUUID, employeeUUID, err := parseIDs(companyID, req.EmployeeID)
	if err != nil {
		return AttendanceResponse{}, err
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidDate
	}
	clockIn, err := parseOptionalTimestamp(req.ClockIn)
	if err != nil {
		return AttendanceResponse{}, err
	}
	clockOut, err := parseOptionalTimestamp(req.ClockOut)
	if err != nil {
		return AttendanceResponse{}, err
	}
	if clockIn != nil && clockOut != nil && !clockOut.After(*clockIn) {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidTimeRange
	}

	var recordedBy *uuid.UUID
	if id, err := uuid.Parse(actorID); err == nil {
		recordedBy = &id
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	exists, err := qtx.EmployeeExists(ctx, companyID, req.EmployeeID)
	if err != nil {
		return AttendanceResponse{}, err
	}
	if !exists {
		return AttendanceResponse{}, attendanceerrors.ErrEmployeeNotFound
	}

	row, err := qtx.FindByEmployeeAndDate(ctx, companyID, req.EmployeeID, date)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		row = &Attendance{
			ID:             uuid.New(),
			CompanyID:      companyUUID,
			EmployeeID:     employeeUUID,
			AttendanceDate: date,
		}
		applyRecord(row, req, clockIn, clockOut, recordedBy)
		err = qtx.Create(ctx, row)
	case err != nil:
		return AttendanceResponse{}, err
	default:
		applyRecord(row, req, clockIn, clockOut, recordedBy)
		err = qtx.Update(ctx, row)
	}
	if err != nil {
		return AttendanceResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return AttendanceResponse{}, err
	}

	log.Info("attendance recorded",
		zap.String("employee_id", req.EmployeeID),
		zap.String("date", req.Date),
		zap.String("status", row.Status),
		zap.String("actor_id", actorID),
	)
	return s.mapToResponse(*row), nil
}

func applyRecord(row *Attendance, req RecordAttendanceRequest, clockIn, clockOut *time.Time, recordedBy *uuid.UUID) {
	row.Status = req.Status
	row.ClockIn = clockIn
	row.ClockOut = clockOut
	row.Source = SourceAdmin
	row.RecordedBy = recordedBy
	if req.Notes != nil {
		row.Notes = req.Notes
	}
}

func parseOptionalTimestamp(v *string) (*time.Time, error) {
	if v == nil || *v == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, *v)
	if err != nil {
		return nil, attendanceerrors.ErrInvalidTimestamp
	}
	t = t.UTC()
	return &t, nil
}

// GetAll lists attendance of the company. Callers without read-all access
// only ever see their own rows, whatever employee_id they pass.
func (s *service) GetAll(
	ctx context.Context,
	companyID, actorID string,
	canReadAll bool,
	filter GetAttendancesFilterRequest,
) ([]AttendanceResponse, error) {
	var q Query

	if filter.From != "" {
		from, err := time.Parse("2006-01-02", filter.From)
		if err != nil {
			return nil, attendanceerrors.ErrInvalidDate
		}
		q.From = &from
	}
	if filter.To != "" {
		to, err := time.Parse("2006-01-02", filter.To)
		if err != nil {
			return nil, attendanceerrors.ErrInvalidDate
		}
		q.To = &to
	}
	if q.From != nil && q.To != nil && q.From.After(*q.To) {
		return nil, attendanceerrors.ErrInvalidDateRange
	}
	if filter.Status != "" {
		q.Status = &filter.Status
	}

	if canReadAll {
		if filter.EmployeeID != "" {
			q.EmployeeID = &filter.EmployeeID
		}
	} else {
		if _, err := uuid.Parse(actorID); err != nil {
			return nil, attendanceerrors.ErrInvalidEmployeeID
		}
		q.EmployeeID = &actorID
	}

	rows, err := s.repo.FindAll(ctx, companyID, q)
	if err != nil {
		contextutil.GetLogger(ctx, s.logger).Error("list attendance failed", zap.Error(err))
		return nil, err
	}

	res := make([]AttendanceResponse, len(rows))
	for i, r := range rows {
		res[i] = s.mapToResponse(r)
	}
	return res, nil
}

func (s *service) mapToResponse(a Attendance) AttendanceResponse {
	resp := AttendanceResponse{
		ID:             a.ID.String(),
		CompanyID:      a.CompanyID.String(),
		EmployeeID:     a.EmployeeID.String(),
		AttendanceDate: a.AttendanceDate.Format("2006-01-02"),
		Latitude:       a.Latitude,
		Longitude:      a.Longitude,
		Status:         a.Status,
		Source:         a.Source,
		Notes:          a.Notes,
	}
	if a.Employee != nil {
		resp.EmployeeName = a.Employee.FullName
		resp.EmployeeNumber = a.Employee.EmployeeNumber
	}
	if a.ClockIn != nil {
		v := a.ClockIn.In(s.loc).Format(time.RFC3339)
		resp.ClockIn = &v
	}
	if a.ClockOut != nil {
		v := a.ClockOut.In(s.loc).Format(time.RFC3339)
		resp.ClockOut = &v
	}
	if a.ClockIn != nil && a.ClockOut != nil {
		minutes := int(a.ClockOut.Sub(*a.ClockIn).Minutes())
		resp.WorkedMinutes = &minutes
	}
	return resp
}
