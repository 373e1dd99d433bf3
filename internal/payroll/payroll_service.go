package payroll

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"emplystack/internal/bootstrap"
	"emplystack/internal/events"
	"emplystack/internal/messaging/kafka"
	payrollerrors "emplystack/internal/payroll/errors"
	"emplystack/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service interface {
	Generate(ctx context.Context, companyID, actorID, month string) (GenerateResult, error)
	GetAll(ctx context.Context, companyID string, filter GetPayrollsFilterRequest) ([]PayrollResponse, error)
	GetByID(ctx context.Context, companyID, id string) (PayrollResponse, error)
	Adjust(ctx context.Context, companyID, actorID, id string, req AdjustPayrollRequest) (PayrollResponse, error)
	MarkAsPaid(ctx context.Context, companyID, actorID, id string) (PayrollResponse, error)
	Cancel(ctx context.Context, companyID, actorID, id string) (PayrollResponse, error)
	GeneratePayslip(ctx context.Context, companyID, id string) (PayrollResponse, error)
	Export(ctx context.Context, companyID, month string) (ExportFile, error)
}

type PayslipConfig struct {
	StorageDir    string
	PublicBaseURL string
}

type service struct {
	db      *sql.DB
	repo    Repository
	outbox  kafka.OutboxRepository
	audit   bootstrap.AuditLogger
	payslip PayslipConfig
	now     func() time.Time
	logger  *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	outbox kafka.OutboxRepository,
	audit bootstrap.AuditLogger,
	payslip PayslipConfig,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("payroll.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payroll.service")
	}
	if payslip.StorageDir == "" {
		payslip.StorageDir = "./storage/payslips"
	}
	if payslip.PublicBaseURL == "" {
		payslip.PublicBaseURL = "/files/payslips"
	}
	return &service{
		db:      db,
		repo:    repo,
		outbox:  outbox,
		audit:   audit,
		payslip: payslip,
		now:     time.Now,
		logger:  l,
	}
}

// Generate creates one PENDING payroll per active employee for the month.
// Employees are processed one by one and a failure for one of them is
// reported in GenerateResult.Errors without undoing the others.
func (s *service) Generate(ctx context.Context, companyID, actorID, month string) (GenerateResult, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	period, err := ParsePeriod(month)
	if err != nil {
		return GenerateResult{}, err
	}

	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return GenerateResult{}, payrollerrors.ErrInvalidCompanyID
	}

	var createdBy *uuid.UUID
	if actorID != "" {
		actorUUID, err := uuid.Parse(actorID)
		if err != nil {
			return GenerateResult{}, payrollerrors.ErrInvalidActorID
		}
		createdBy = &actorUUID
	}

	employees, err := s.repo.FindActiveEmployees(ctx, companyID)
	if err != nil {
		return GenerateResult{}, err
	}
	if len(employees) == 0 {
		return GenerateResult{}, payrollerrors.ErrNoActiveEmployees
	}

	result := GenerateResult{Records: make([]PayrollResponse, 0, len(employees))}
	for _, emp := range employees {
		record, err := s.generateForEmployee(ctx, companyUUID, createdBy, emp, period)
		if err != nil {
			msg := fmt.Sprintf("%s: %s", emp.FullName, err.Error())
			if errors.Is(err, payrollerrors.ErrPayrollAlreadyExists) {
				msg = fmt.Sprintf("%s: payroll for %s already exists", emp.FullName, period.Month)
			}
			log.Warn("payroll skipped for employee",
				zap.String("employee_id", emp.ID.String()),
				zap.String("period", period.Month),
				zap.Error(err),
			)
			result.Errors = append(result.Errors, msg)
			continue
		}
		result.Records = append(result.Records, mapToResponse(*record))
	}

	log.Info("payroll generated",
		zap.String("company_id", companyID),
		zap.String("period", period.Month),
		zap.Int("created", len(result.Records)),
		zap.Int("failed", len(result.Errors)),
	)
	if s.audit != nil {
		s.audit.Log(ctx, bootstrap.AuditLog{
			Action:  "payroll.generate",
			Message: fmt.Sprintf("generated %d payroll records for %s", len(result.Records), period.Month),
			Meta: map[string]any{
				"company_id": companyID,
				"actor_id":   actorID,
				"period":     period.Month,
				"created":    len(result.Records),
				"failed":     len(result.Errors),
			},
		})
	}

	return result, nil
}

func (s *service) generateForEmployee(
	ctx context.Context,
	companyID uuid.UUID,
	createdBy *uuid.UUID,
	emp PayrollEmployee,
	period Period,
) (*Payroll, error) {
	cid := companyID.String()
	eid := emp.ID.String()

	// The unique index is the real guard; this only avoids wasted queries.
	exists, err := s.repo.ExistsForPeriod(ctx, cid, eid, period.Month)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, payrollerrors.ErrPayrollAlreadyExists
	}

	present, err := s.repo.CountPresentDays(ctx, cid, eid, period.Start, period.End)
	if err != nil {
		return nil, err
	}

	leaves, err := s.repo.FindApprovedUnpaidLeaves(ctx, cid, eid, period.Start, period.End)
	if err != nil {
		return nil, err
	}
	unpaid := UnpaidDays(leaves, period)

	calc := Prorate(emp.BasicSalary, period.TotalDays, present, unpaid)

	record := &Payroll{
		ID:               uuid.New(),
		CompanyID:        companyID,
		EmployeeID:       emp.ID,
		Period:           period.Month,
		PeriodStart:      period.Start,
		PeriodEnd:        period.End,
		TotalWorkingDays: period.TotalDays,
		DaysPresent:      present,
		UnpaidDays:       unpaid,
		BasicSalary:      emp.BasicSalary,
		DeductionAmount:  calc.DeductionAmount,
		NetSalary:        calc.NetSalary,
		Status:           StatusPending,
		CreatedBy:        createdBy,
	}

	if err := s.repo.Create(ctx, record); err != nil {
		return nil, mapRepositoryError(err)
	}

	record.Employee = &emp
	return record, nil
}

func (s *service) GetAll(ctx context.Context, companyID string, filterReq GetPayrollsFilterRequest) ([]PayrollResponse, error) {
	filter, err := buildQueryFilter(filterReq)
	if err != nil {
		return nil, err
	}

	payrolls, err := s.repo.FindAllByCompany(ctx, companyID, filter)
	if err != nil {
		return nil, err
	}

	return mapToListResponse(payrolls), nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (PayrollResponse, error) {
	payroll, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return PayrollResponse{}, mapRepositoryError(err)
	}

	return mapToResponse(*payroll), nil
}

func (s *service) Adjust(ctx context.Context, companyID, actorID, id string, req AdjustPayrollRequest) (PayrollResponse, error) {
	for _, v := range []*int64{req.OvertimeAmount, req.BonusesAmount, req.DeductionAmount} {
		if v != nil && *v < 0 {
			return PayrollResponse{}, payrollerrors.ErrInvalidMoneyValue
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PayrollResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	payroll, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return PayrollResponse{}, mapRepositoryError(err)
	}
	if payroll.Status != StatusPending {
		return PayrollResponse{}, payrollerrors.ErrAdjustOnlyPending
	}

	if req.OvertimeAmount != nil {
		payroll.OvertimeAmount = *req.OvertimeAmount
	}
	if req.BonusesAmount != nil {
		payroll.BonusesAmount = *req.BonusesAmount
	}
	if req.DeductionAmount != nil {
		payroll.DeductionAmount = *req.DeductionAmount
	}
	if req.Notes != nil {
		notes := strings.TrimSpace(*req.Notes)
		payroll.Notes = &notes
	}
	payroll.NetSalary = AdjustedNet(payroll)

	if err := qtx.Update(ctx, payroll); err != nil {
		return PayrollResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return PayrollResponse{}, err
	}

	contextutil.GetLogger(ctx, s.logger).Info("payroll adjusted",
		zap.String("payroll_id", id),
		zap.String("actor_id", actorID),
		zap.Int64("net_salary", payroll.NetSalary),
	)

	return mapToResponse(*payroll), nil
}

func (s *service) MarkAsPaid(ctx context.Context, companyID, actorID, id string) (PayrollResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PayrollResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	payroll, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return PayrollResponse{}, mapRepositoryError(err)
	}
	if payroll.Status != StatusPending {
		return PayrollResponse{}, payrollerrors.ErrInvalidStatusTransition
	}

	paidAt := s.now().UTC()
	payroll.Status = StatusPaid
	payroll.PaidAt = &paidAt

	if err := qtx.Update(ctx, payroll); err != nil {
		return PayrollResponse{}, mapRepositoryError(err)
	}

	if s.outbox != nil {
		event, err := kafka.NewOutboxEvent(ctx, "payroll", payroll.ID.String(),
			events.PayrollPayslipRequestedType, events.PayrollPayslipRequestedTopic,
			events.PayrollPayslipRequestedEvent{
				EventType:   events.PayrollPayslipRequestedType,
				PayrollID:   payroll.ID.String(),
				CompanyID:   companyID,
				Period:      payroll.Period,
				RequestedBy: actorID,
				OccurredAt:  paidAt,
			},
		)
		if err != nil {
			return PayrollResponse{}, err
		}
		if err := s.outbox.WithTx(tx).Create(ctx, event); err != nil {
			return PayrollResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return PayrollResponse{}, err
	}

	return mapToResponse(*payroll), nil
}

func (s *service) Cancel(ctx context.Context, companyID, actorID, id string) (PayrollResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PayrollResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	payroll, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return PayrollResponse{}, mapRepositoryError(err)
	}
	if payroll.Status != StatusPending {
		return PayrollResponse{}, payrollerrors.ErrInvalidStatusTransition
	}

	payroll.Status = StatusCancelled

	if err := qtx.Update(ctx, payroll); err != nil {
		return PayrollResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return PayrollResponse{}, err
	}

	contextutil.GetLogger(ctx, s.logger).Info("payroll cancelled",
		zap.String("payroll_id", id),
		zap.String("actor_id", actorID),
	)

	return mapToResponse(*payroll), nil
}

func (s *service) GeneratePayslip(ctx context.Context, companyID, id string) (PayrollResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PayrollResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	payroll, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return PayrollResponse{}, mapRepositoryError(err)
	}

	if err := os.MkdirAll(s.payslip.StorageDir, 0o755); err != nil {
		return PayrollResponse{}, fmt.Errorf("create payslip dir: %w", err)
	}

	filename := fmt.Sprintf("payslip_%s.pdf", payroll.ID.String())
	if err := renderPayslipPDF(payroll, filepath.Join(s.payslip.StorageDir, filename)); err != nil {
		return PayrollResponse{}, fmt.Errorf("render payslip: %w", err)
	}

	url := strings.TrimRight(s.payslip.PublicBaseURL, "/") + "/" + filename
	generatedAt := s.now().UTC()
	payroll.PayslipURL = &url
	payroll.PayslipGeneratedAt = &generatedAt

	if err := qtx.Update(ctx, payroll); err != nil {
		return PayrollResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return PayrollResponse{}, err
	}

	return mapToResponse(*payroll), nil
}

func (s *service) Export(ctx context.Context, companyID, month string) (ExportFile, error) {
	period, err := ParsePeriod(month)
	if err != nil {
		return ExportFile{}, err
	}

	payrolls, err := s.repo.FindAllByCompany(ctx, companyID, PayrollQueryFilter{Period: &period.Month})
	if err != nil {
		return ExportFile{}, err
	}
	if len(payrolls) == 0 {
		return ExportFile{}, payrollerrors.ErrNoPayrollsToExport
	}

	content, err := buildPayrollWorkbook(period, payrolls)
	if err != nil {
		return ExportFile{}, fmt.Errorf("build payroll workbook: %w", err)
	}

	return ExportFile{
		Filename: fmt.Sprintf("payroll_%s.xlsx", period.Month),
		Content:  content,
	}, nil
}

func buildQueryFilter(req GetPayrollsFilterRequest) (PayrollQueryFilter, error) {
	var filter PayrollQueryFilter

	if period := strings.TrimSpace(req.Period); period != "" {
		if _, err := ParsePeriod(period); err != nil {
			return PayrollQueryFilter{}, err
		}
		filter.Period = &period
	}

	if status := strings.ToUpper(strings.TrimSpace(req.Status)); status != "" {
		switch status {
		case StatusPending, StatusPaid, StatusCancelled:
			filter.Status = &status
		default:
			return PayrollQueryFilter{}, payrollerrors.ErrInvalidStatusFilter
		}
	}

	return filter, nil
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	v := t.Format(time.RFC3339)
	return &v
}

func mapToResponse(payroll Payroll) PayrollResponse {
	resp := PayrollResponse{
		ID:                 payroll.ID.String(),
		CompanyID:          payroll.CompanyID.String(),
		EmployeeID:         payroll.EmployeeID.String(),
		Period:             payroll.Period,
		PeriodStart:        payroll.PeriodStart.Format("2006-01-02"),
		PeriodEnd:          payroll.PeriodEnd.Format("2006-01-02"),
		TotalWorkingDays:   payroll.TotalWorkingDays,
		DaysPresent:        payroll.DaysPresent,
		UnpaidDays:         payroll.UnpaidDays,
		BasicSalary:        payroll.BasicSalary,
		OvertimeAmount:     payroll.OvertimeAmount,
		BonusesAmount:      payroll.BonusesAmount,
		DeductionAmount:    payroll.DeductionAmount,
		NetSalary:          payroll.NetSalary,
		Status:             payroll.Status,
		PaidAt:             formatTimePtr(payroll.PaidAt),
		Notes:              payroll.Notes,
		PayslipURL:         payroll.PayslipURL,
		PayslipGeneratedAt: formatTimePtr(payroll.PayslipGeneratedAt),
		CreatedAt:          payroll.CreatedAt.Format(time.RFC3339),
	}

	if payroll.Employee != nil {
		resp.EmployeeName = payroll.Employee.FullName
		resp.EmployeeNumber = payroll.Employee.EmployeeNumber
	}
	if payroll.CreatedBy != nil {
		v := payroll.CreatedBy.String()
		resp.CreatedBy = &v
	}

	return resp
}

func mapToListResponse(payrolls []Payroll) []PayrollResponse {
	resp := make([]PayrollResponse, len(payrolls))
	for i, payroll := range payrolls {
		resp[i] = mapToResponse(payroll)
	}
	return resp
}
