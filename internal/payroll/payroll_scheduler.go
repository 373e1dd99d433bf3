package payroll

import (
	"context"
	"errors"
	"time"

	payrollerrors "emplystack/internal/payroll/errors"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const DefaultScheduleSpec = "0 2 1 * *"

// CompanyLister is satisfied by company.Service.
type CompanyLister interface {
	ListActiveCompanyIDs(ctx context.Context) ([]string, error)
}

// Scheduler generates last month's payroll for every subscribed company.
type Scheduler struct {
	cron      *cron.Cron
	spec      string
	service   Service
	companies CompanyLister
	timeout   time.Duration
	now       func() time.Time
	logger    *zap.Logger
}

func NewScheduler(service Service, companies CompanyLister, spec string, logger ...*zap.Logger) *Scheduler {
	l := zap.L().Named("payroll.scheduler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payroll.scheduler")
	}
	if spec == "" {
		spec = DefaultScheduleSpec
	}
	return &Scheduler{
		cron:      cron.New(cron.WithLocation(time.UTC)),
		spec:      spec,
		service:   service,
		companies: companies,
		timeout:   30 * time.Minute,
		now:       time.Now,
		logger:    l,
	}
}

func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		if _, err := s.RunOnce(ctx); err != nil {
			s.logger.Error("scheduled payroll run failed", zap.Error(err))
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("payroll scheduler started", zap.String("spec", s.spec))
	return nil
}

// Stop waits for a running job to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}

// RunOnce generates the previous month for each active company and returns
// how many records were created. A failing company does not stop the run.
func (s *Scheduler) RunOnce(ctx context.Context) (int, error) {
	period := PreviousPeriod(s.now())

	companyIDs, err := s.companies.ListActiveCompanyIDs(ctx)
	if err != nil {
		return 0, err
	}

	created := 0
	for _, companyID := range companyIDs {
		if ctx.Err() != nil {
			return created, ctx.Err()
		}

		result, err := s.service.Generate(ctx, companyID, "", period.Month)
		if err != nil {
			if errors.Is(err, payrollerrors.ErrNoActiveEmployees) {
				continue
			}
			s.logger.Error("generate payroll for company failed",
				zap.String("company_id", companyID),
				zap.String("period", period.Month),
				zap.Error(err),
			)
			continue
		}
		created += len(result.Records)
	}

	s.logger.Info("scheduled payroll run finished",
		zap.String("period", period.Month),
		zap.Int("companies", len(companyIDs)),
		zap.Int("created", created),
	)
	return created, nil
}
