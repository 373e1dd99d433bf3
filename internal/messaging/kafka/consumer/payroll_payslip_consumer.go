package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"emplystack/internal/events"
	"emplystack/internal/payroll"
	payrollerrors "emplystack/internal/payroll/errors"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// PayslipGenerator is satisfied by payroll.Service.
type PayslipGenerator interface {
	GeneratePayslip(ctx context.Context, companyID, id string) (payroll.PayrollResponse, error)
}

func ConsumePayrollPayslipRequested(
	ctx context.Context,
	reader MessageReader,
	payrollService PayslipGenerator,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.payroll_payslip")

	run(ctx, reader, log, func(ctx context.Context, msg kafkago.Message) error {
		var event events.PayrollPayslipRequestedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode payroll payslip event failed", zap.Error(err))
			return errSkip
		}

		resp, err := payrollService.GeneratePayslip(ctx, event.CompanyID, event.PayrollID)
		if err != nil {
			if errors.Is(err, payrollerrors.ErrPayrollNotFound) {
				log.Warn("payroll for payslip no longer exists",
					zap.String("payroll_id", event.PayrollID),
					zap.String("company_id", event.CompanyID),
				)
				return errSkip
			}
			return fmt.Errorf("generate payslip %s: %w", event.PayrollID, err)
		}

		log.Info("payroll payslip generated",
			zap.String("payroll_id", event.PayrollID),
			zap.String("company_id", event.CompanyID),
			zap.Stringp("payslip_url", resp.PayslipURL),
		)
		return nil
	})
}
