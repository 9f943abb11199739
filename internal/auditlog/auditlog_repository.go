package auditlog

import (
	"context"
	"fmt"
	"time"

	"assetdesk/internal/repository"
	custom_error "assetdesk/pkg/errors"
	"assetdesk/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

type HistoryRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *HistoryRepository {
	return &HistoryRepository{repository: r}
}

// PersistEntry appends entry and fills in the store-assigned id and created_at.
func (r *HistoryRepository) PersistEntry(ctx context.Context, tx *goqu.TxDatabase, entry *models.History) error {
	query := r.repository.Querier(tx).Insert("history").
		Rows(goqu.Record{
			"action":       string(entry.Action),
			"asset_id":     nullable(entry.AssetID),
			"asset_name":   entry.AssetName,
			"employee_id":  nullable(entry.EmployeeID),
			"performed_by": entry.PerformedBy,
			"details":      entry.Details,
		}).
		Returning("id", "created_at")

	var inserted struct {
		ID        int64     `db:"id"`
		CreatedAt time.Time `db:"created_at"`
	}
	if _, err := query.Executor().ScanStructContext(ctx, &inserted); err != nil {
		return custom_error.ClassifyDBError("insert history entry", "history entry", err)
	}

	entry.ID = inserted.ID
	entry.CreatedAt = inserted.CreatedAt

	return nil
}

// GetHistory lists entries newest first. Ties on created_at fall back to id,
// which follows insertion order.
func (r *HistoryRepository) GetHistory(ctx context.Context, conditions repository.QueryBuilder) ([]models.History, error) {
	aliases := map[string]string{
		"asset_id":    "h.asset_id",
		"employee_id": "h.employee_id",
		"action":      "h.action",
	}

	query := r.repository.GoquDBWrapper.
		From(goqu.T("history").As("h")).
		Select(
			goqu.I("h.id").As("history_id"),
			goqu.I("h.action").As("action"),
			goqu.I("h.asset_id").As("asset_id"),
			goqu.I("h.asset_name").As("asset_name"),
			goqu.I("h.employee_id").As("employee_id"),
			goqu.I("h.performed_by").As("performed_by"),
			goqu.I("h.details").As("details"),
			goqu.I("h.created_at").As("created_at"),
			goqu.I("a.asset_type").As("asset_type"),
			goqu.I("e.name").As("employee_name"),
			goqu.I("e.department").As("employee_department"),
		).
		LeftJoin(
			goqu.T("assets").As("a"),
			goqu.On(goqu.Ex{"h.asset_id": goqu.I("a.id")}),
		).
		LeftJoin(
			goqu.T("employees").As("e"),
			goqu.On(goqu.Ex{"h.employee_id": goqu.I("e.id")}),
		).
		Where(conditions.BuildConditions(aliases)).
		Order(goqu.I("h.created_at").Desc(), goqu.I("h.id").Desc())

	var flatEntries []models.FlatHistoryRecord
	if err := query.Executor().ScanStructsContext(ctx, &flatEntries); err != nil {
		return nil, custom_error.NewStorage("select history", fmt.Errorf("error executing SQL statement: %w", err))
	}

	entries := make([]models.History, 0, len(flatEntries))
	for _, flat := range flatEntries {
		entries = append(entries, flat.TransformToHistory())
	}

	return entries, nil
}

func nullable[T any](v *T) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
