package assignments

import (
	"context"
	"sort"
	"time"

	"assetdesk/internal/repository"
	custom_error "assetdesk/pkg/errors"
	"assetdesk/pkg/metadata"
	"assetdesk/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

// memStore is an in-memory stand-in for the PostgreSQL store. A failed
// WithTransaction restores the state taken before fn ran.
type memStore struct {
	assets      map[int64]models.Asset
	employees   map[int64]models.Employee
	assignments map[int64]models.Assignment
	history     []models.History
	nextID      int64
	clock       time.Time
	failOn      map[string]error
}

type memSnapshot struct {
	assets      map[int64]models.Asset
	employees   map[int64]models.Employee
	assignments map[int64]models.Assignment
	history     []models.History
}

func newMemStore() *memStore {
	return &memStore{
		assets:      map[int64]models.Asset{},
		employees:   map[int64]models.Employee{},
		assignments: map[int64]models.Assignment{},
		clock:       time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC),
		failOn:      map[string]error{},
	}
}

func (m *memStore) WithTransaction(ctx context.Context, fn func(tx *goqu.TxDatabase) error) error {
	snap := m.snapshot()
	if err := fn(nil); err != nil {
		m.restore(snap)
		return err
	}
	return nil
}

func (m *memStore) snapshot() memSnapshot {
	snap := memSnapshot{
		assets:      make(map[int64]models.Asset, len(m.assets)),
		employees:   make(map[int64]models.Employee, len(m.employees)),
		assignments: make(map[int64]models.Assignment, len(m.assignments)),
		history:     append([]models.History(nil), m.history...),
	}
	for k, v := range m.assets {
		snap.assets[k] = v
	}
	for k, v := range m.employees {
		snap.employees[k] = v
	}
	for k, v := range m.assignments {
		snap.assignments[k] = v
	}
	return snap
}

func (m *memStore) restore(snap memSnapshot) {
	m.assets = snap.assets
	m.employees = snap.employees
	m.assignments = snap.assignments
	m.history = snap.history
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memStore) addEmployee(name, department string) models.Employee {
	employee := models.Employee{
		ID:         m.id(),
		Name:       name,
		Department: department,
		Email:      name + "@example.com",
		HireDate:   m.clock,
	}
	m.employees[employee.ID] = employee
	return employee
}

func (m *memStore) activeAssignments(assetID int64) int {
	count := 0
	for _, a := range m.assignments {
		if a.AssetID == assetID && a.Status == metadata.AssignmentActive {
			count++
		}
	}
	return count
}

// assets.AssetStore

func (m *memStore) LockAsset(ctx context.Context, tx *goqu.TxDatabase, id int64) error {
	if err := m.failOn["LockAsset"]; err != nil {
		return err
	}
	if _, ok := m.assets[id]; !ok {
		return custom_error.NewNotFound("asset", id)
	}
	return nil
}

func (m *memStore) GetAsset(ctx context.Context, tx *goqu.TxDatabase, id int64) (*models.Asset, error) {
	asset, ok := m.assets[id]
	if !ok {
		return nil, custom_error.NewNotFound("asset", id)
	}
	if asset.AssignedToID != nil {
		if employee, ok := m.employees[*asset.AssignedToID]; ok {
			asset.AssignedTo = &employee
		}
	}
	return &asset, nil
}

func (m *memStore) AssetExists(ctx context.Context, tx *goqu.TxDatabase, id int64) (bool, error) {
	_, ok := m.assets[id]
	return ok, nil
}

func (m *memStore) CompareAndSetStatus(ctx context.Context, tx *goqu.TxDatabase, id int64, from metadata.Status, expectedHolder *int64, to metadata.Status, holder *int64) (bool, error) {
	if err := m.failOn["CompareAndSetStatus"]; err != nil {
		return false, err
	}
	asset, ok := m.assets[id]
	if !ok || asset.Status != from || !sameHolder(asset.AssignedToID, expectedHolder) {
		return false, nil
	}
	asset.Status = to
	asset.AssignedToID = holder
	asset.UpdatedAt = m.clock
	m.assets[id] = asset
	return true, nil
}

func (m *memStore) GetAssetsBy(ctx context.Context, conditions repository.QueryBuilder) ([]models.Asset, error) {
	filter := conditions.BuildConditions(nil)
	result := []models.Asset{}
	for _, asset := range m.assets {
		if status, ok := filter["status"]; ok && status != string(asset.Status) {
			continue
		}
		if assetType, ok := filter["type"]; ok && assetType != string(asset.Type) {
			continue
		}
		result = append(result, asset)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *memStore) PersistAsset(ctx context.Context, tx *goqu.TxDatabase, asset *models.Asset) error {
	for _, existing := range m.assets {
		if existing.Serial == asset.Serial {
			return custom_error.WrapDBError("Duplicate serial number for asset", "23505")
		}
	}
	asset.ID = m.id()
	asset.CreatedAt = m.clock
	asset.UpdatedAt = m.clock
	m.assets[asset.ID] = *asset
	return nil
}

func (m *memStore) UpdateAsset(ctx context.Context, tx *goqu.TxDatabase, id int64, record goqu.Record) error {
	asset, ok := m.assets[id]
	if !ok {
		return custom_error.NewNotFound("asset", id)
	}
	if name, ok := record["asset_name"].(string); ok {
		asset.Name = name
	}
	m.assets[id] = asset
	return nil
}

func (m *memStore) HasActiveAssignment(ctx context.Context, tx *goqu.TxDatabase, assetID int64) (bool, error) {
	return m.activeAssignments(assetID) > 0, nil
}

func (m *memStore) RemoveAsset(ctx context.Context, tx *goqu.TxDatabase, assetID int64) error {
	if err := m.failOn["RemoveAsset"]; err != nil {
		return err
	}
	if _, ok := m.assets[assetID]; !ok {
		return custom_error.NewNotFound("asset", assetID)
	}
	delete(m.assets, assetID)
	for id, a := range m.assignments {
		if a.AssetID == assetID {
			delete(m.assignments, id)
		}
	}
	return nil
}

func (m *memStore) CountByStatus(ctx context.Context) ([]models.StatusCount, error) {
	counts := map[string]int{}
	for _, asset := range m.assets {
		counts[string(asset.Status)]++
	}
	result := []models.StatusCount{}
	for status, count := range counts {
		result = append(result, models.StatusCount{Status: status, Count: count})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Status < result[j].Status })
	return result, nil
}

// EmployeeLookup

func (m *memStore) GetEmployee(ctx context.Context, tx *goqu.TxDatabase, id int64) (*models.Employee, error) {
	employee, ok := m.employees[id]
	if !ok {
		return nil, custom_error.NewNotFound("employee", id)
	}
	return &employee, nil
}

// AssignmentStore

func (m *memStore) InsertAssignment(ctx context.Context, tx *goqu.TxDatabase, assignment *models.Assignment) error {
	if err := m.failOn["InsertAssignment"]; err != nil {
		return err
	}
	if assignment.Status == metadata.AssignmentActive && m.activeAssignments(assignment.AssetID) > 0 {
		return custom_error.WrapDBError("Asset already has an active assignment", "23505")
	}
	assignment.ID = m.id()
	m.assignments[assignment.ID] = *assignment
	return nil
}

func (m *memStore) LockAssignment(ctx context.Context, tx *goqu.TxDatabase, id int64) error {
	if _, ok := m.assignments[id]; !ok {
		return custom_error.NewNotFound("assignment", id)
	}
	return nil
}

func (m *memStore) GetAssignment(ctx context.Context, tx *goqu.TxDatabase, id int64) (*models.Assignment, error) {
	assignment, ok := m.assignments[id]
	if !ok {
		return nil, custom_error.NewNotFound("assignment", id)
	}
	m.expand(&assignment)
	return &assignment, nil
}

func (m *memStore) GetAssignments(ctx context.Context, conditions repository.QueryBuilder) ([]models.Assignment, error) {
	filter := conditions.BuildConditions(nil)
	result := []models.Assignment{}
	for _, assignment := range m.assignments {
		if status, ok := filter["status"]; ok && status != string(assignment.Status) {
			continue
		}
		if assetID, ok := filter["asset_id"]; ok && assetID != assignment.AssetID {
			continue
		}
		if employeeID, ok := filter["employee_id"]; ok && employeeID != assignment.EmployeeID {
			continue
		}
		m.expand(&assignment)
		result = append(result, assignment)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	return result, nil
}

func (m *memStore) MarkReturned(ctx context.Context, tx *goqu.TxDatabase, id int64, returnDate time.Time) (bool, error) {
	assignment, ok := m.assignments[id]
	if !ok || assignment.Status != metadata.AssignmentActive {
		return false, nil
	}
	assignment.Status = metadata.AssignmentReturned
	assignment.ReturnDate = &returnDate
	m.assignments[id] = assignment
	return true, nil
}

func (m *memStore) expand(assignment *models.Assignment) {
	if asset, ok := m.assets[assignment.AssetID]; ok {
		assignment.Asset = &asset
	}
	if employee, ok := m.employees[assignment.EmployeeID]; ok {
		assignment.Employee = &employee
	}
}

// auditlog.HistoryWriter

func (m *memStore) PersistEntry(ctx context.Context, tx *goqu.TxDatabase, entry *models.History) error {
	if err := m.failOn["PersistEntry"]; err != nil {
		return err
	}
	m.clock = m.clock.Add(time.Second)
	entry.ID = m.id()
	entry.CreatedAt = m.clock
	m.history = append(m.history, *entry)
	return nil
}

func (m *memStore) historyFor(assetID int64) []models.History {
	var entries []models.History
	for _, entry := range m.history {
		if entry.AssetID != nil && *entry.AssetID == assetID {
			entries = append(entries, entry)
		}
	}
	return entries
}

func sameHolder(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
