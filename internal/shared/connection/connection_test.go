package connection_test

import (
	"context"
	"testing"

	"emplystack/internal/shared/connection"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type counterRow struct {
	ID   string
	Name string
}

func TestGormWithTx_UsesTransaction(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer sqlDB.Close()

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{SkipDefaultTransaction: true})
	assert.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "counter_rows"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectRollback()

	tx, err := sqlDB.Begin()
	assert.NoError(t, err)

	ctx := context.Background()
	res := connection.GormWithTx(ctx, gdb, tx).
		Model(&counterRow{}).
		Where("id = ?", "p-1").
		Update("name", "x")
	assert.NoError(t, res.Error)
	assert.NoError(t, tx.Rollback())

	assert.NotEqual(t, gorm.ConnPool(tx), gdb.Statement.ConnPool)
	assert.NoError(t, mock.ExpectationsWereMet())
}
