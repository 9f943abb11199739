package assignments

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

type AssignmentRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *AssignmentRepository {
	return &AssignmentRepository{repository: r}
}

// InsertAssignment stores a new assignment and fills in its id. A second
// active assignment for the same asset is rejected by the database.
func (r *AssignmentRepository) InsertAssignment(ctx context.Context, tx *goqu.TxDatabase, assignment *models.Assignment) error {
	query := r.repository.Querier(tx).Insert("assignments").
		Rows(goqu.Record{
			"asset_id":        assignment.AssetID,
			"employee_id":     assignment.EmployeeID,
			"assign_date":     assignment.AssignDate,
			"expected_return": nullable(assignment.ExpectedReturn),
			"notes":           nullable(assignment.Notes),
			"status":          string(assignment.Status),
		}).
		Returning("id")

	var id int64
	if _, err := query.Executor().ScanValContext(ctx, &id); err != nil {
		return custom_error.ClassifyDBError("insert assignment", "Asset already has an active assignment", err)
	}

	assignment.ID = id
	return nil
}

// LockAssignment takes a row lock on the assignment for the rest of tx.
func (r *AssignmentRepository) LockAssignment(ctx context.Context, tx *goqu.TxDatabase, id int64) error {
	if tx == nil {
		return fmt.Errorf("transaction is required for LockAssignment")
	}

	var lockedID int64
	found, err := tx.From("assignments").
		Select("id").
		Where(goqu.Ex{"id": id}).
		ForUpdate(exp.Wait).
		Executor().
		ScanValContext(ctx, &lockedID)
	if err != nil {
		return custom_error.NewStorage("lock assignment", err)
	}
	if !found {
		return custom_error.NewNotFound("assignment", id)
	}

	return nil
}

func (r *AssignmentRepository) GetAssignment(ctx context.Context, tx *goqu.TxDatabase, id int64) (*models.Assignment, error) {
	query := r.getAssignmentQuery(tx).Where(goqu.Ex{"s.id": id})

	var flat models.FlatAssignmentRecord
	found, err := query.Executor().ScanStructContext(ctx, &flat)
	if err != nil {
		return nil, custom_error.NewStorage("select assignment", fmt.Errorf("unable to select assignment: %w", err))
	}
	if !found {
		return nil, custom_error.NewNotFound("assignment", id)
	}

	assignment := flat.TransformToAssignment()
	return &assignment, nil
}

func (r *AssignmentRepository) GetAssignments(ctx context.Context, conditions repository.QueryBuilder) ([]models.Assignment, error) {
	aliases := map[string]string{
		"status":      "s.status",
		"asset_id":    "s.asset_id",
		"employee_id": "s.employee_id",
	}

	query := r.getAssignmentQuery(nil).
		Where(conditions.BuildConditions(aliases)).
		Order(goqu.I("s.assign_date").Desc(), goqu.I("s.id").Desc())

	var flat []models.FlatAssignmentRecord
	if err := query.Executor().ScanStructsContext(ctx, &flat); err != nil {
		return nil, custom_error.NewStorage("select assignments", fmt.Errorf("unable to select assignments: %w", err))
	}

	assignments := make([]models.Assignment, 0, len(flat))
	for _, record := range flat {
		assignments = append(assignments, record.TransformToAssignment())
	}

	return assignments, nil
}

// MarkReturned closes an active assignment. It reports false when the
// assignment was no longer active.
func (r *AssignmentRepository) MarkReturned(ctx context.Context, tx *goqu.TxDatabase, id int64, returnDate time.Time) (bool, error) {
	result, err := r.repository.Querier(tx).
		Update("assignments").
		Set(goqu.Record{
			"status":      string(metadata.AssignmentReturned),
			"return_date": returnDate,
		}).
		Where(goqu.Ex{
			"id":     id,
			"status": string(metadata.AssignmentActive),
		}).
		Executor().
		ExecContext(ctx)
	if err != nil {
		return false, custom_error.ClassifyDBError("return assignment", "assignment", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, custom_error.NewStorage("return assignment", fmt.Errorf("failed to get rows affected: %w", err))
	}

	return rowsAffected == 1, nil
}

func (r *AssignmentRepository) getAssignmentQuery(tx *goqu.TxDatabase) *goqu.SelectDataset {
	return r.repository.Querier(tx).
		From(goqu.T("assignments").As("s")).
		Select(
			goqu.I("s.id").As("assignment_id"),
			goqu.I("s.asset_id").As("asset_id"),
			goqu.I("s.employee_id").As("employee_id"),
			goqu.I("s.assign_date").As("assign_date"),
			goqu.I("s.expected_return").As("expected_return"),
			goqu.I("s.return_date").As("return_date"),
			goqu.I("s.notes").As("notes"),
			goqu.I("s.status").As("status"),
			goqu.I("a.asset_name").As("asset_name"),
			goqu.I("a.asset_type").As("asset_type"),
			goqu.I("a.serial_number").As("serial_number"),
			goqu.I("a.status").As("asset_status"),
			goqu.I("e.name").As("employee_name"),
			goqu.I("e.department").As("employee_department"),
			goqu.I("e.email").As("employee_email"),
		).
		LeftJoin(
			goqu.T("assets").As("a"),
			goqu.On(goqu.Ex{"s.asset_id": goqu.I("a.id")}),
		).
		LeftJoin(
			goqu.T("employees").As("e"),
			goqu.On(goqu.Ex{"s.employee_id": goqu.I("e.id")}),
		)
}

func nullable[T any](v *T) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
