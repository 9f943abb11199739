package assignments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"assetdesk/internal/inventory/assets"
	"assetdesk/internal/metrics"
	"assetdesk/internal/repository"
	custom_error "assetdesk/pkg/errors"
	"assetdesk/pkg/metadata"
	"assetdesk/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"go.uber.org/zap"
)

// ErrAssignmentReturned is the cause of the TransitionError returned when an
// assignment that is already closed is returned again.
var ErrAssignmentReturned = errors.New("assignment already returned")

type AssetStore interface {
	assets.StatusStore
	LockAsset(ctx context.Context, tx *goqu.TxDatabase, id int64) error
	GetAsset(ctx context.Context, tx *goqu.TxDatabase, id int64) (*models.Asset, error)
}

type EmployeeLookup interface {
	GetEmployee(ctx context.Context, tx *goqu.TxDatabase, id int64) (*models.Employee, error)
}

type AssignmentStore interface {
	InsertAssignment(ctx context.Context, tx *goqu.TxDatabase, assignment *models.Assignment) error
	LockAssignment(ctx context.Context, tx *goqu.TxDatabase, id int64) error
	GetAssignment(ctx context.Context, tx *goqu.TxDatabase, id int64) (*models.Assignment, error)
	GetAssignments(ctx context.Context, conditions repository.QueryBuilder) ([]models.Assignment, error)
	MarkReturned(ctx context.Context, tx *goqu.TxDatabase, id int64, returnDate time.Time) (bool, error)
}

type AssignmentService struct {
	tx          repository.Transactor
	assets      AssetStore
	employees   EmployeeLookup
	assignments AssignmentStore
	lifecycle   *assets.Lifecycle
	auditLog    assets.AuditRecorder
	log         *zap.Logger
	now         func() time.Time
}

func NewAssignmentService(
	tx repository.Transactor,
	assetStore AssetStore,
	employees EmployeeLookup,
	assignments AssignmentStore,
	lifecycle *assets.Lifecycle,
	auditLog assets.AuditRecorder,
	log *zap.Logger,
) *AssignmentService {
	return &AssignmentService{
		tx:          tx,
		assets:      assetStore,
		employees:   employees,
		assignments: assignments,
		lifecycle:   lifecycle,
		auditLog:    auditLog,
		log:         log,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Assign hands an Available asset to an employee. The assignment row, the
// asset status change and the ASSET_ASSIGNED entry commit together or not at all.
func (s *AssignmentService) Assign(ctx context.Context, req models.AssignmentRequest) (*models.Assignment, error) {
	if req.AssetID <= 0 {
		return nil, custom_error.NewValidation("asset_id", "is required")
	}
	if req.EmployeeID <= 0 {
		return nil, custom_error.NewValidation("employee_id", "is required")
	}
	if req.AssignDate.IsZero() {
		return nil, custom_error.NewValidation("assign_date", "is required")
	}
	expectedReturn := req.ExpectedReturn.TimePtr()
	if expectedReturn != nil && expectedReturn.Before(req.AssignDate.Time) {
		return nil, custom_error.NewValidation("expected_return", "must not be before assign_date")
	}

	var assignment *models.Assignment
	err := s.tx.WithTransaction(ctx, func(tx *goqu.TxDatabase) error {
		if err := s.assets.LockAsset(ctx, tx, req.AssetID); err != nil {
			return err
		}

		asset, err := s.assets.GetAsset(ctx, tx, req.AssetID)
		if err != nil {
			return err
		}

		employee, err := s.employees.GetEmployee(ctx, tx, req.EmployeeID)
		if err != nil {
			return err
		}

		if asset.Status != metadata.StatusAvailable {
			return &custom_error.TransitionError{
				Resource: "asset",
				ID:       asset.ID,
				From:     asset.Status.String(),
				To:       metadata.StatusInUse.String(),
				Reason:   "only Available assets can be assigned",
			}
		}

		assignment = &models.Assignment{
			AssetID:        asset.ID,
			EmployeeID:     employee.ID,
			AssignDate:     req.AssignDate.Time,
			ExpectedReturn: expectedReturn,
			Notes:          trimmed(req.Notes),
			Status:         metadata.AssignmentActive,
		}
		if err := s.assignments.InsertAssignment(ctx, tx, assignment); err != nil {
			return err
		}

		if err := s.lifecycle.SetStatus(ctx, tx, asset, metadata.StatusInUse, &employee.ID); err != nil {
			return err
		}
		asset.AssignedTo = employee

		if err := s.auditLog.Record(ctx, tx, metadata.ActionAssetAssigned, asset, employee,
			fmt.Sprintf("Assigned to %s (%s)", employee.Name, employee.Department)); err != nil {
			return err
		}

		assignment.Asset = asset
		assignment.Employee = employee
		return nil
	})
	metrics.ObserveWorkflow("assign", err)
	if err != nil {
		s.log.Warn("Unable to assign asset",
			zap.Int64("asset_id", req.AssetID),
			zap.Int64("employee_id", req.EmployeeID),
			zap.Error(err))
		return nil, err
	}

	s.log.Info("Asset assigned",
		zap.Int64("assignment_id", assignment.ID),
		zap.Int64("asset_id", assignment.AssetID),
		zap.Int64("employee_id", assignment.EmployeeID))

	return assignment, nil
}

// ReturnAssignment closes an active assignment and makes the asset Available
// again. Returning an assignment twice fails with ErrAssignmentReturned and
// writes nothing.
func (s *AssignmentService) ReturnAssignment(ctx context.Context, id int64) (*models.Assignment, error) {
	var assignment *models.Assignment
	err := s.tx.WithTransaction(ctx, func(tx *goqu.TxDatabase) error {
		if err := s.assignments.LockAssignment(ctx, tx, id); err != nil {
			return err
		}

		var err error
		assignment, err = s.assignments.GetAssignment(ctx, tx, id)
		if err != nil {
			return err
		}

		if assignment.Status.IsTerminal() {
			return alreadyReturned(id)
		}

		if err := s.assets.LockAsset(ctx, tx, assignment.AssetID); err != nil {
			return err
		}

		asset, err := s.assets.GetAsset(ctx, tx, assignment.AssetID)
		if err != nil {
			return err
		}

		employee := assignment.Employee
		if employee == nil {
			employee, err = s.employees.GetEmployee(ctx, tx, assignment.EmployeeID)
			if err != nil {
				return err
			}
		}

		returnDate := s.now()
		returned, err := s.assignments.MarkReturned(ctx, tx, id, returnDate)
		if err != nil {
			return err
		}
		if !returned {
			return alreadyReturned(id)
		}

		if err := s.lifecycle.SetStatus(ctx, tx, asset, metadata.StatusAvailable, nil); err != nil {
			return err
		}

		if err := s.auditLog.Record(ctx, tx, metadata.ActionAssetReturned, asset, employee,
			"Returned by "+employee.Name); err != nil {
			return err
		}

		assignment.Status = metadata.AssignmentReturned
		assignment.ReturnDate = &returnDate
		assignment.Asset = asset
		assignment.Employee = employee
		return nil
	})
	metrics.ObserveWorkflow("return", err)
	if err != nil {
		s.log.Warn("Unable to return assignment", zap.Int64("assignment_id", id), zap.Error(err))
		return nil, err
	}

	s.log.Info("Asset returned",
		zap.Int64("assignment_id", id),
		zap.Int64("asset_id", assignment.AssetID))

	return assignment, nil
}

func (s *AssignmentService) GetAssignment(ctx context.Context, id int64) (*models.Assignment, error) {
	return s.assignments.GetAssignment(ctx, nil, id)
}

func (s *AssignmentService) GetAssignments(ctx context.Context, filter models.AssignmentFilter) ([]models.Assignment, error) {
	conditions := repository.NewQueryBuilder()

	if filter.Status != "" {
		status, err := metadata.NewAssignmentStatus(filter.Status)
		if err != nil {
			return nil, custom_error.NewValidation("status", err.Error())
		}
		conditions.AddCondition("status", string(status))
	}
	conditions.AddCondition("asset_id", filter.AssetID)
	conditions.AddCondition("employee_id", filter.EmployeeID)

	return s.assignments.GetAssignments(ctx, conditions)
}

func alreadyReturned(id int64) error {
	return &custom_error.TransitionError{
		Resource: "assignment",
		ID:       id,
		From:     string(metadata.AssignmentReturned),
		To:       string(metadata.AssignmentReturned),
		Cause:    ErrAssignmentReturned,
	}
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
