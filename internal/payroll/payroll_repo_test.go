package payroll_test

import (
	"context"
	"testing"

	"emplystack/internal/payroll"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newRepoWithMock(t *testing.T) (payroll.Repository, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	assert.NoError(t, err)

	return payroll.NewRepository(gdb), mock
}

func TestRepository_FindActiveEmployees(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	empID := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "employees" WHERE company_id = \$1 AND status = \$2 AND deleted_at IS NULL ORDER BY employee_number ASC`).
		WithArgs("company-1", "ACTIVE").
		WillReturnRows(sqlmock.NewRows([]string{"id", "employee_number", "full_name", "basic_salary", "status"}).
			AddRow(empID.String(), "EMP-00001", "Ana", int64(3000000), "ACTIVE"))

	got, err := repo.FindActiveEmployees(context.Background(), "company-1")

	assert.NoError(t, err)
	if assert.Len(t, got, 1) {
		assert.Equal(t, empID, got[0].ID)
		assert.Equal(t, int64(3000000), got[0].BasicSalary)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_CountPresentDays(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	start, end := date(2025, 3, 1), date(2025, 3, 31)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "attendances" WHERE company_id = \$1 AND employee_id = \$2 AND \(?attendance_date BETWEEN \$3 AND \$4\)? AND status IN \(\$5,\$6\)`).
		WithArgs("company-1", "emp-1", start, end, "PRESENT", "LATE").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(18)))

	got, err := repo.CountPresentDays(context.Background(), "company-1", "emp-1", start, end)

	assert.NoError(t, err)
	assert.Equal(t, 18, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_FindApprovedUnpaidLeaves(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	start, end := date(2025, 3, 1), date(2025, 3, 31)

	// Overlap: the leave starts before the month ends and ends after it starts.
	mock.ExpectQuery(`SELECT start_date, end_date FROM "leaves" WHERE company_id = \$1 AND employee_id = \$2 AND \(?leave_type = \$3 AND status = \$4\)? AND \(?start_date <= \$5 AND end_date >= \$6\)? AND deleted_at IS NULL`).
		WithArgs("company-1", "emp-1", "UNPAID", "APPROVED", end, start).
		WillReturnRows(sqlmock.NewRows([]string{"start_date", "end_date"}).
			AddRow(date(2025, 2, 27), date(2025, 3, 2)).
			AddRow(date(2025, 3, 20), date(2025, 3, 20)))

	got, err := repo.FindApprovedUnpaidLeaves(context.Background(), "company-1", "emp-1", start, end)

	assert.NoError(t, err)
	assert.Equal(t, []payroll.LeaveRange{
		{StartDate: date(2025, 2, 27), EndDate: date(2025, 3, 2)},
		{StartDate: date(2025, 3, 20), EndDate: date(2025, 3, 20)},
	}, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}
