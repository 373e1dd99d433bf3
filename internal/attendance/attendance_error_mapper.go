package attendance

import (
	"errors"
	"strings"

	attendanceerrors "emplystack/internal/attendance/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const uniqueAttendanceDay = "uq_attendance_employee_date"

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return attendanceerrors.ErrAttendanceNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == uniqueAttendanceDay {
		return attendanceerrors.ErrAlreadyClockedIn
	}
	if strings.Contains(err.Error(), uniqueAttendanceDay) {
		return attendanceerrors.ErrAlreadyClockedIn
	}

	return err
}
