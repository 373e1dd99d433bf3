package payroll

import (
	"errors"
	"strings"

	payrollerrors "emplystack/internal/payroll/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const uniquePayrollPeriod = "uq_payroll_employee_period"

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return payrollerrors.ErrPayrollNotFound
	}

	if isDuplicatePeriod(err) {
		return payrollerrors.ErrPayrollAlreadyExists
	}

	return err
}

func isDuplicatePeriod(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && pgErr.ConstraintName == uniquePayrollPeriod
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key value") && strings.Contains(msg, uniquePayrollPeriod)
}
