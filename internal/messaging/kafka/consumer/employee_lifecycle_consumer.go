package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"emplystack/internal/domain"
	"emplystack/internal/events"

	"github.com/jackc/pgx/v5/pgconn"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// RoleAssigner is satisfied by rbac.Service.
type RoleAssigner interface {
	AssignRole(ctx context.Context, companyID, employeeID, roleName string) error
}

// ConsumeEmployeeLifecycle gives every new employee the default EMPLOYEE role.
func ConsumeEmployeeLifecycle(
	ctx context.Context,
	reader MessageReader,
	roles RoleAssigner,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.employee_lifecycle")

	run(ctx, reader, log, func(ctx context.Context, msg kafkago.Message) error {
		var event events.EmployeeCreatedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode employee_created event failed", zap.Error(err))
			return errSkip
		}

		if err := roles.AssignRole(ctx, event.CompanyID, event.EmployeeID, domain.RoleEmployee); err != nil {
			if isUniqueEmployeeRoleViolation(err) {
				log.Warn("employee already has the default role, skipping",
					zap.String("employee_id", event.EmployeeID),
					zap.String("company_id", event.CompanyID),
				)
				return errSkip
			}
			return fmt.Errorf("assign default role: %w", err)
		}

		log.Info("default role assigned",
			zap.String("employee_id", event.EmployeeID),
			zap.String("company_id", event.CompanyID),
		)
		return nil
	})
}

func isUniqueEmployeeRoleViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && pgErr.ConstraintName == "employee_roles_pkey"
	}
	return false
}
