package app

import (
	"fmt"

	"emplystack/internal/attendance"
	"emplystack/internal/auth"
	"emplystack/internal/company"
	"emplystack/internal/domain"
	"emplystack/internal/employee"
	"emplystack/internal/leave"
	"emplystack/internal/payroll"
	"emplystack/internal/rbac"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Tables written through database/sql have no gorm model.
var rawSchema = []string{
	`CREATE EXTENSION IF NOT EXISTS pgcrypto`,
	`CREATE TABLE IF NOT EXISTS company_counters (
	company_id   uuid        NOT NULL,
	counter_type varchar(50) NOT NULL,
	last_value   bigint      NOT NULL DEFAULT 0,
	updated_at   timestamptz NOT NULL DEFAULT now(),
	PRIMARY KEY (company_id, counter_type)
)`,
	`CREATE TABLE IF NOT EXISTS outbox_events (
	id             uuid         PRIMARY KEY DEFAULT gen_random_uuid(),
	request_id     varchar(100),
	aggregate_type varchar(50)  NOT NULL,
	aggregate_id   varchar(100) NOT NULL,
	event_type     varchar(100) NOT NULL,
	topic          varchar(200) NOT NULL,
	payload        jsonb        NOT NULL,
	status         varchar(20)  NOT NULL DEFAULT 'pending',
	retry_count    int          NOT NULL DEFAULT 0,
	next_retry_at  timestamptz,
	error_message  text,
	processed_at   timestamptz,
	created_at     timestamptz  NOT NULL DEFAULT now(),
	updated_at     timestamptz  NOT NULL DEFAULT now()
)`,
	`CREATE INDEX IF NOT EXISTS idx_outbox_events_pending
	ON outbox_events (status, next_retry_at, created_at)`,
}

// schemaModels lists the gorm models that own a table. Employee lookups
// embedded in other modules map onto employees too but carry -:migration,
// so only employee.Employee decides that table's columns.
func schemaModels() []any {
	return []any{
		&company.Company{},
		&employee.Employee{},
		&auth.User{},
		&rbac.Role{},
		&rbac.Permission{},
		&rbac.RolePermission{},
		&rbac.EmployeeRole{},
		&attendance.Attendance{},
		&leave.Leave{},
		&payroll.Payroll{},
	}
}

// Migrate creates or updates the schema. Employees go before the tables
// that reference them.
func Migrate(db *gorm.DB, logger *zap.Logger) error {
	log := logger.Named("app.migrate")

	for _, stmt := range rawSchema {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migrate raw schema: %w", err)
		}
	}

	models := schemaModels()
	for _, m := range models {
		if err := db.AutoMigrate(m); err != nil {
			return fmt.Errorf("migrate %T: %w", m, err)
		}
	}

	for _, table := range employeeOwnedTables {
		if err := db.Exec(employeeForeignKey(table)).Error; err != nil {
			return fmt.Errorf("migrate %s employee foreign key: %w", table, err)
		}
	}

	if err := seedPermissions(db); err != nil {
		return fmt.Errorf("seed permissions: %w", err)
	}

	log.Info("schema migrated", zap.Int("models", len(models)))
	return nil
}

// employeeOwnedTables reference employees through a lookup that is not
// migrated, so their foreign keys are added here.
var employeeOwnedTables = []string{"users", "attendances", "leaves", "payrolls"}

func employeeForeignKey(table string) string {
	return fmt.Sprintf(`DO $$ BEGIN
	ALTER TABLE %[1]s ADD CONSTRAINT fk_%[1]s_employee
		FOREIGN KEY (employee_id) REFERENCES employees (id);
EXCEPTION WHEN duplicate_object THEN NULL;
END $$`, table)
}

// permissionCatalog lists every resource/action pair the routes check.
// Granting them to roles is left to company administrators.
var permissionCatalog = map[string][]string{
	domain.ResourceCompany:    {domain.ActionUpdate},
	domain.ResourceUser:       {domain.ActionRead, domain.ActionCreate, domain.ActionUpdate},
	domain.ResourceEmployee:   {domain.ActionRead, domain.ActionCreate, domain.ActionUpdate, domain.ActionDelete},
	domain.ResourceAttendance: {domain.ActionRead, domain.ActionCreate, domain.ActionUpdate},
	domain.ResourceLeave:      {domain.ActionRead, domain.ActionCreate, domain.ActionApprove},
	domain.ResourcePayroll: {
		domain.ActionRead, domain.ActionGenerate, domain.ActionUpdate,
		domain.ActionPay, domain.ActionExport,
	},
}

func seedPermissions(db *gorm.DB) error {
	var perms []rbac.Permission
	for resource, actions := range permissionCatalog {
		for _, action := range actions {
			perms = append(perms, rbac.Permission{
				Resource: resource,
				Action:   action,
				Label:    action + " " + resource,
				Category: resource,
			})
		}
	}

	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&perms).Error
}
