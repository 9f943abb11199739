package employees

import (
	"context"
	"fmt"
	"time"

	"assetdesk/internal/repository"
	custom_error "assetdesk/pkg/errors"
	"assetdesk/pkg/metadata"
	"assetdesk/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
)

type EmployeeRepository interface {
	PersistEmployee(ctx context.Context, employee *models.Employee) error
	GetEmployee(ctx context.Context, tx *goqu.TxDatabase, id int64) (*models.Employee, error)
	GetEmployees(ctx context.Context) ([]models.Employee, error)
	RemoveEmployee(ctx context.Context, id int64) error
}

type employeeRepositoryImpl struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) EmployeeRepository {
	return &employeeRepositoryImpl{repository: r}
}

func (r *employeeRepositoryImpl) PersistEmployee(ctx context.Context, employee *models.Employee) error {
	query := r.repository.GoquDBWrapper.Insert("employees").
		Rows(goqu.Record{
			"name":       employee.Name,
			"department": employee.Department,
			"email":      employee.Email,
			"phone":      employee.Phone,
			"hire_date":  employee.HireDate,
		}).
		Returning("id", "created_at", "updated_at")

	var inserted struct {
		ID        int64     `db:"id"`
		CreatedAt time.Time `db:"created_at"`
		UpdatedAt time.Time `db:"updated_at"`
	}
	if _, err := query.Executor().ScanStructContext(ctx, &inserted); err != nil {
		return custom_error.ClassifyDBError("insert employee", "Email already registered", err)
	}

	employee.ID = inserted.ID
	employee.CreatedAt = inserted.CreatedAt
	employee.UpdatedAt = inserted.UpdatedAt

	return nil
}

func (r *employeeRepositoryImpl) GetEmployees(ctx context.Context) ([]models.Employee, error) {
	employees := []models.Employee{}
	query := r.repository.GoquDBWrapper.
		Select("id", "name", "department", "email", "phone", "hire_date", "created_at", "updated_at").
		From("employees").
		Order(goqu.C("name").Asc(), goqu.C("id").Asc())

	if err := query.Executor().ScanStructsContext(ctx, &employees); err != nil {
		return nil, custom_error.NewStorage("select employees", fmt.Errorf("error executing SQL statement: %w", err))
	}

	return employees, nil
}

func (r *employeeRepositoryImpl) GetEmployee(ctx context.Context, tx *goqu.TxDatabase, id int64) (*models.Employee, error) {
	var employee models.Employee
	query := r.repository.Querier(tx).
		Select("id", "name", "department", "email", "phone", "hire_date", "created_at", "updated_at").
		From("employees").
		Where(goqu.Ex{"id": id})

	found, err := query.Executor().ScanStructContext(ctx, &employee)
	if err != nil {
		return nil, custom_error.NewStorage("select employee", fmt.Errorf("failed to get employee: %w", err))
	}
	if !found {
		return nil, custom_error.NewNotFound("employee", id)
	}

	return &employee, nil
}

// RemoveEmployee deletes an employee that holds no active assignment. Past
// assignments still reference the row, so the foreign key refuses those too.
func (r *employeeRepositoryImpl) RemoveEmployee(ctx context.Context, id int64) error {
	return r.repository.WithTransaction(ctx, func(tx *goqu.TxDatabase) error {
		var lockedID int64
		found, err := tx.From("employees").
			Select("id").
			Where(goqu.Ex{"id": id}).
			ForUpdate(exp.Wait).
			Executor().
			ScanValContext(ctx, &lockedID)
		if err != nil {
			return custom_error.NewStorage("lock employee", err)
		}
		if !found {
			return custom_error.NewNotFound("employee", id)
		}

		var active int
		_, err = tx.From("assignments").
			Select(goqu.COUNT("*")).
			Where(goqu.Ex{
				"employee_id": id,
				"status":      string(metadata.AssignmentActive),
			}).
			Executor().
			ScanValContext(ctx, &active)
		if err != nil {
			return custom_error.NewStorage("check active assignments", err)
		}
		if active > 0 {
			return &custom_error.TransitionError{
				Resource: "employee",
				ID:       id,
				From:     "employed",
				To:       "deleted",
				Reason:   fmt.Sprintf("employee holds %d active assignment(s)", active),
			}
		}

		_, err = tx.Delete("employees").
			Where(goqu.Ex{"id": id}).
			Executor().
			ExecContext(ctx)
		if err != nil {
			return custom_error.ClassifyDBError("delete employee", "employee has assignment records", err)
		}

		return nil
	})
}
