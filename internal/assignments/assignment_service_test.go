package assignments

import (
	"context"
	"errors"
	"testing"
	"time"

	"assetdesk/internal/inventory/assets"
	"assetdesk/pkg/auditlog"
	custom_error "assetdesk/pkg/errors"
	"assetdesk/pkg/metadata"
	"assetdesk/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testEnv struct {
	store       *memStore
	assets      *assets.AssetService
	assignments *AssignmentService
}

func newTestEnv() *testEnv {
	store := newMemStore()
	log := zap.NewNop()
	lifecycle := assets.NewLifecycle(store)
	audit := auditlog.NewAuditLog(store, log)

	return &testEnv{
		store:       store,
		assets:      assets.NewAssetService(store, store, lifecycle, audit, log),
		assignments: NewAssignmentService(store, store, store, store, lifecycle, audit, log),
	}
}

func (e *testEnv) createLaptop(t *testing.T, serial string) *models.Asset {
	t.Helper()
	asset, err := e.assets.CreateAsset(context.Background(), models.AssetRequest{
		Name:         "Dell XPS 15",
		Serial:       serial,
		Type:         "Laptop",
		PurchaseDate: models.NewDate(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)),
	})
	require.NoError(t, err)
	return asset
}

func assignRequest(assetID, employeeID int64) models.AssignmentRequest {
	return models.AssignmentRequest{
		AssetID:    assetID,
		EmployeeID: employeeID,
		AssignDate: models.NewDate(time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)),
	}
}

func TestAssignAndReturnLifecycle(t *testing.T) {
	env := newTestEnv()
	employee := env.store.addEmployee("Asha Rao", "IT")
	asset := env.createLaptop(t, "DL-2024-001")
	ctx := auditlog.WithPerformer(context.Background(), "jdoe")

	assignment, err := env.assignments.Assign(ctx, assignRequest(asset.ID, employee.ID))
	require.NoError(t, err)
	assert.Equal(t, metadata.AssignmentActive, assignment.Status)
	assert.Nil(t, assignment.ReturnDate)

	stored, err := env.assets.GetAsset(ctx, asset.ID)
	require.NoError(t, err)
	assert.Equal(t, metadata.StatusInUse, stored.Status)
	require.NotNil(t, stored.AssignedToID)
	assert.Equal(t, employee.ID, *stored.AssignedToID)
	require.NotNil(t, stored.AssignedTo)
	assert.Equal(t, "Asha Rao", stored.AssignedTo.Name)

	returned, err := env.assignments.ReturnAssignment(ctx, assignment.ID)
	require.NoError(t, err)
	assert.Equal(t, metadata.AssignmentReturned, returned.Status)
	assert.NotNil(t, returned.ReturnDate)

	stored, err = env.assets.GetAsset(ctx, asset.ID)
	require.NoError(t, err)
	assert.Equal(t, metadata.StatusAvailable, stored.Status)
	assert.Nil(t, stored.AssignedToID)

	history := env.store.historyFor(asset.ID)
	require.Len(t, history, 3)
	assert.Equal(t, metadata.ActionAssetCreated, history[0].Action)
	assert.Equal(t, "New Laptop added to inventory (Serial: DL-2024-001)", history[0].Details)
	assert.Equal(t, auditlog.DefaultPerformer, history[0].PerformedBy)
	assert.Equal(t, metadata.ActionAssetAssigned, history[1].Action)
	assert.Equal(t, "Assigned to Asha Rao (IT)", history[1].Details)
	assert.Equal(t, "jdoe", history[1].PerformedBy)
	require.NotNil(t, history[1].EmployeeID)
	assert.Equal(t, employee.ID, *history[1].EmployeeID)
	assert.Equal(t, metadata.ActionAssetReturned, history[2].Action)
	assert.Equal(t, "Returned by Asha Rao", history[2].Details)
	assert.Equal(t, "Dell XPS 15", history[2].AssetName)
}

func TestDeleteKeepsHistory(t *testing.T) {
	env := newTestEnv()
	asset := env.createLaptop(t, "DL-2024-002")

	require.NoError(t, env.assets.RemoveAsset(context.Background(), asset.ID))

	_, err := env.assets.GetAsset(context.Background(), asset.ID)
	assert.True(t, custom_error.IsNotFound(err))

	history := env.store.historyFor(asset.ID)
	require.Len(t, history, 2)
	assert.Equal(t, metadata.ActionAssetCreated, history[0].Action)
	assert.Equal(t, metadata.ActionAssetDeleted, history[1].Action)
	assert.Equal(t, "Laptop removed from inventory (Serial: DL-2024-002)", history[1].Details)
	assert.Equal(t, "Dell XPS 15", history[1].AssetName)
}

func TestDeleteFailureDiscardsLogEntry(t *testing.T) {
	env := newTestEnv()
	asset := env.createLaptop(t, "DL-2024-003")
	env.store.failOn["RemoveAsset"] = custom_error.NewStorage("delete asset", errors.New("connection reset"))

	err := env.assets.RemoveAsset(context.Background(), asset.ID)

	assert.True(t, custom_error.IsStorage(err))
	assert.Len(t, env.store.historyFor(asset.ID), 1)
	_, err = env.assets.GetAsset(context.Background(), asset.ID)
	assert.NoError(t, err)
}

func TestDeleteRefusedWhileAssigned(t *testing.T) {
	env := newTestEnv()
	employee := env.store.addEmployee("Asha Rao", "IT")
	asset := env.createLaptop(t, "DL-2024-004")
	_, err := env.assignments.Assign(context.Background(), assignRequest(asset.ID, employee.ID))
	require.NoError(t, err)

	err = env.assets.RemoveAsset(context.Background(), asset.ID)

	assert.True(t, custom_error.IsTransition(err))
	assert.Len(t, env.store.historyFor(asset.ID), 2)
}

func TestAssignRequiresAvailableAsset(t *testing.T) {
	for _, status := range []metadata.Status{metadata.StatusDamaged, metadata.StatusMaintenance, metadata.StatusRetired} {
		t.Run(status.String(), func(t *testing.T) {
			env := newTestEnv()
			employee := env.store.addEmployee("Asha Rao", "IT")
			asset := env.createLaptop(t, "SN-"+status.String())
			stored := env.store.assets[asset.ID]
			stored.Status = status
			env.store.assets[asset.ID] = stored

			_, err := env.assignments.Assign(context.Background(), assignRequest(asset.ID, employee.ID))

			assert.True(t, custom_error.IsTransition(err))
			assert.Empty(t, env.store.assignments)
			assert.Len(t, env.store.historyFor(asset.ID), 1)
			assert.Equal(t, status, env.store.assets[asset.ID].Status)
		})
	}
}

func TestAssignTwiceKeepsSingleActiveAssignment(t *testing.T) {
	env := newTestEnv()
	first := env.store.addEmployee("Asha Rao", "IT")
	second := env.store.addEmployee("Ben Ode", "Finance")
	asset := env.createLaptop(t, "DL-2024-005")

	_, err := env.assignments.Assign(context.Background(), assignRequest(asset.ID, first.ID))
	require.NoError(t, err)

	_, err = env.assignments.Assign(context.Background(), assignRequest(asset.ID, second.ID))

	assert.True(t, custom_error.IsTransition(err))
	assert.Equal(t, 1, env.store.activeAssignments(asset.ID))
	assert.Equal(t, first.ID, *env.store.assets[asset.ID].AssignedToID)
}

func TestAssignRollsBackWhenHistoryWriteFails(t *testing.T) {
	env := newTestEnv()
	employee := env.store.addEmployee("Asha Rao", "IT")
	asset := env.createLaptop(t, "DL-2024-006")
	env.store.failOn["PersistEntry"] = custom_error.NewStorage("insert history", errors.New("disk full"))

	_, err := env.assignments.Assign(context.Background(), assignRequest(asset.ID, employee.ID))

	assert.True(t, custom_error.IsStorage(err))
	assert.Empty(t, env.store.assignments)
	assert.Equal(t, metadata.StatusAvailable, env.store.assets[asset.ID].Status)
	assert.Nil(t, env.store.assets[asset.ID].AssignedToID)
	assert.Len(t, env.store.historyFor(asset.ID), 1)
}

func TestAssignRollsBackWhenStatusWriteFails(t *testing.T) {
	env := newTestEnv()
	employee := env.store.addEmployee("Asha Rao", "IT")
	asset := env.createLaptop(t, "DL-2024-007")
	env.store.failOn["CompareAndSetStatus"] = custom_error.NewStorage("update asset status", errors.New("timeout"))

	_, err := env.assignments.Assign(context.Background(), assignRequest(asset.ID, employee.ID))

	assert.Error(t, err)
	assert.Empty(t, env.store.assignments)
	assert.Len(t, env.store.historyFor(asset.ID), 1)
}

func TestAssignReportsMissingEntities(t *testing.T) {
	env := newTestEnv()
	employee := env.store.addEmployee("Asha Rao", "IT")
	asset := env.createLaptop(t, "DL-2024-008")

	_, err := env.assignments.Assign(context.Background(), assignRequest(999, employee.ID))
	assert.True(t, custom_error.IsNotFound(err))

	_, err = env.assignments.Assign(context.Background(), assignRequest(asset.ID, 999))
	assert.True(t, custom_error.IsNotFound(err))

	assert.Empty(t, env.store.assignments)
	assert.Equal(t, metadata.StatusAvailable, env.store.assets[asset.ID].Status)
}

func TestAssignValidatesRequest(t *testing.T) {
	env := newTestEnv()
	early := models.NewDate(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	tests := []struct {
		name  string
		req   models.AssignmentRequest
		field string
	}{
		{"missing asset", models.AssignmentRequest{EmployeeID: 1, AssignDate: early}, "asset_id"},
		{"missing employee", models.AssignmentRequest{AssetID: 1, AssignDate: early}, "employee_id"},
		{"missing assign date", models.AssignmentRequest{AssetID: 1, EmployeeID: 1}, "assign_date"},
		{"return before assign", models.AssignmentRequest{
			AssetID:        1,
			EmployeeID:     1,
			AssignDate:     models.NewDate(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)),
			ExpectedReturn: &early,
		}, "expected_return"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.assignments.Assign(context.Background(), tt.req)

			var validation *custom_error.ValidationError
			require.True(t, errors.As(err, &validation))
			assert.Equal(t, tt.field, validation.Field)
		})
	}
}

func TestReturnTwiceIsRejected(t *testing.T) {
	env := newTestEnv()
	employee := env.store.addEmployee("Asha Rao", "IT")
	asset := env.createLaptop(t, "DL-2024-009")
	assignment, err := env.assignments.Assign(context.Background(), assignRequest(asset.ID, employee.ID))
	require.NoError(t, err)
	_, err = env.assignments.ReturnAssignment(context.Background(), assignment.ID)
	require.NoError(t, err)

	_, err = env.assignments.ReturnAssignment(context.Background(), assignment.ID)

	assert.True(t, custom_error.IsTransition(err))
	assert.ErrorIs(t, err, ErrAssignmentReturned)
	assert.Len(t, env.store.historyFor(asset.ID), 3)
	assert.Equal(t, metadata.StatusAvailable, env.store.assets[asset.ID].Status)
}

func TestReturnRollsBackWhenHistoryWriteFails(t *testing.T) {
	env := newTestEnv()
	employee := env.store.addEmployee("Asha Rao", "IT")
	asset := env.createLaptop(t, "DL-2024-010")
	assignment, err := env.assignments.Assign(context.Background(), assignRequest(asset.ID, employee.ID))
	require.NoError(t, err)
	env.store.failOn["PersistEntry"] = custom_error.NewStorage("insert history", errors.New("disk full"))

	_, err = env.assignments.ReturnAssignment(context.Background(), assignment.ID)

	assert.Error(t, err)
	assert.Equal(t, metadata.AssignmentActive, env.store.assignments[assignment.ID].Status)
	assert.Nil(t, env.store.assignments[assignment.ID].ReturnDate)
	assert.Equal(t, metadata.StatusInUse, env.store.assets[asset.ID].Status)
}

func TestReturnUnknownAssignment(t *testing.T) {
	env := newTestEnv()

	_, err := env.assignments.ReturnAssignment(context.Background(), 404)

	assert.True(t, custom_error.IsNotFound(err))
	assert.Empty(t, env.store.history)
}

func TestReassignAfterReturn(t *testing.T) {
	env := newTestEnv()
	first := env.store.addEmployee("Asha Rao", "IT")
	second := env.store.addEmployee("Ben Ode", "Finance")
	asset := env.createLaptop(t, "DL-2024-011")

	assignment, err := env.assignments.Assign(context.Background(), assignRequest(asset.ID, first.ID))
	require.NoError(t, err)
	_, err = env.assignments.ReturnAssignment(context.Background(), assignment.ID)
	require.NoError(t, err)

	_, err = env.assignments.Assign(context.Background(), assignRequest(asset.ID, second.ID))
	require.NoError(t, err)

	assert.Equal(t, second.ID, *env.store.assets[asset.ID].AssignedToID)

	active, err := env.assignments.GetAssignments(context.Background(), models.AssignmentFilter{Status: "Active"})
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, second.ID, active[0].EmployeeID)

	all, err := env.assignments.GetAssignments(context.Background(), models.AssignmentFilter{AssetID: asset.ID})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestGetAssignmentsRejectsUnknownStatus(t *testing.T) {
	env := newTestEnv()

	_, err := env.assignments.GetAssignments(context.Background(), models.AssignmentFilter{Status: "Lost"})

	assert.True(t, custom_error.IsValidation(err))
}
