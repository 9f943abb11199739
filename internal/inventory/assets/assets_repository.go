package assets

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

type AssetsRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *AssetsRepository {
	return &AssetsRepository{
		repository: r,
	}
}

func (r *AssetsRepository) GetAsset(ctx context.Context, tx *goqu.TxDatabase, id int64) (*models.Asset, error) {
	query := r.getAssetQuery(tx).Where(goqu.Ex{"a.id": id})

	var flatAsset models.FlatAssetRecord
	found, err := query.Executor().ScanStructContext(ctx, &flatAsset)
	if err != nil {
		return nil, custom_error.NewStorage("select asset", fmt.Errorf("unable to select asset from database: %w", err))
	}
	if !found {
		return nil, custom_error.NewNotFound("asset", id)
	}

	asset := flatAsset.TransformToAsset()
	return &asset, nil
}

// LockAsset takes a row lock on the asset for the rest of tx.
func (r *AssetsRepository) LockAsset(ctx context.Context, tx *goqu.TxDatabase, id int64) error {
	if tx == nil {
		return fmt.Errorf("transaction is required for LockAsset")
	}

	var lockedID int64
	found, err := tx.From("assets").
		Select("id").
		Where(goqu.Ex{"id": id}).
		ForUpdate(exp.Wait).
		Executor().
		ScanValContext(ctx, &lockedID)
	if err != nil {
		return custom_error.NewStorage("lock asset", err)
	}
	if !found {
		return custom_error.NewNotFound("asset", id)
	}

	return nil
}

func (r *AssetsRepository) AssetExists(ctx context.Context, tx *goqu.TxDatabase, id int64) (bool, error) {
	var count int
	_, err := r.repository.Querier(tx).
		From("assets").
		Select(goqu.COUNT("*")).
		Where(goqu.Ex{"id": id}).
		Executor().
		ScanValContext(ctx, &count)
	if err != nil {
		return false, custom_error.NewStorage("check asset exists", err)
	}

	return count > 0, nil
}

func (r *AssetsRepository) GetAssetsBy(ctx context.Context, conditions repository.QueryBuilder) ([]models.Asset, error) {
	aliases := map[string]string{
		"status": "a.status",
		"type":   "a.asset_type",
	}

	query := r.getAssetQuery(nil).
		Where(conditions.BuildConditions(aliases)).
		Order(goqu.I("a.id").Asc())

	var flatAssets []models.FlatAssetRecord
	if err := query.Executor().ScanStructsContext(ctx, &flatAssets); err != nil {
		return nil, custom_error.NewStorage("select assets", fmt.Errorf("unable to select assets from database: %w", err))
	}

	assets := make([]models.Asset, 0, len(flatAssets))
	for _, flatAsset := range flatAssets {
		assets = append(assets, flatAsset.TransformToAsset())
	}

	return assets, nil
}

// PersistAsset inserts asset and fills in id and timestamps.
func (r *AssetsRepository) PersistAsset(ctx context.Context, tx *goqu.TxDatabase, asset *models.Asset) error {
	record := goqu.Record{
		"asset_name":    asset.Name,
		"serial_number": asset.Serial,
		"asset_type":    string(asset.Type),
		"purchase_date": asset.PurchaseDate,
		"status":        string(asset.Status),
		"condition":     string(asset.Condition),
		"warranty_date": nullable(asset.WarrantyDate),
		"description":   nullable(asset.Description),
		"assigned_to":   nullable(asset.AssignedToID),
	}
	if asset.PurchasePrice.Valid {
		record["purchase_price"] = asset.PurchasePrice.Decimal.String()
	}

	query := r.repository.Querier(tx).Insert("assets").
		Rows(record).
		Returning("id", "created_at", "updated_at")

	var inserted struct {
		ID        int64     `db:"id"`
		CreatedAt time.Time `db:"created_at"`
		UpdatedAt time.Time `db:"updated_at"`
	}
	if _, err := query.Executor().ScanStructContext(ctx, &inserted); err != nil {
		return custom_error.ClassifyDBError("insert asset", "Duplicate serial number for asset", err)
	}

	asset.ID = inserted.ID
	asset.CreatedAt = inserted.CreatedAt
	asset.UpdatedAt = inserted.UpdatedAt

	return nil
}

func (r *AssetsRepository) UpdateAsset(ctx context.Context, tx *goqu.TxDatabase, id int64, record goqu.Record) error {
	if len(record) == 0 {
		return nil
	}
	record["updated_at"] = goqu.L("NOW()")

	result, err := r.repository.Querier(tx).
		Update("assets").
		Set(record).
		Where(goqu.Ex{"id": id}).
		Executor().
		ExecContext(ctx)
	if err != nil {
		return custom_error.ClassifyDBError("update asset", "Duplicate serial number for asset", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return custom_error.NewStorage("update asset", fmt.Errorf("failed to get rows affected: %w", err))
	}
	if rowsAffected == 0 {
		return custom_error.NewNotFound("asset", id)
	}

	return nil
}

// CompareAndSetStatus moves the asset from status `from` (held by
// expectedHolder) to `to` (held by holder). It reports false when the row no
// longer matches, leaving it untouched.
func (r *AssetsRepository) CompareAndSetStatus(
	ctx context.Context,
	tx *goqu.TxDatabase,
	id int64,
	from metadata.Status,
	expectedHolder *int64,
	to metadata.Status,
	holder *int64,
) (bool, error) {
	condition := goqu.Ex{
		"id":          id,
		"status":      string(from),
		"assigned_to": nullable(expectedHolder),
	}

	result, err := r.repository.Querier(tx).
		Update("assets").
		Set(goqu.Record{
			"status":      string(to),
			"assigned_to": nullable(holder),
			"updated_at":  goqu.L("NOW()"),
		}).
		Where(condition).
		Executor().
		ExecContext(ctx)
	if err != nil {
		return false, custom_error.ClassifyDBError("update asset status", "asset status", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, custom_error.NewStorage("update asset status", fmt.Errorf("failed to get rows affected: %w", err))
	}

	return rowsAffected == 1, nil
}

func (r *AssetsRepository) HasActiveAssignment(ctx context.Context, tx *goqu.TxDatabase, assetID int64) (bool, error) {
	var count int
	_, err := r.repository.Querier(tx).
		From("assignments").
		Select(goqu.COUNT("*")).
		Where(goqu.Ex{
			"asset_id": assetID,
			"status":   string(metadata.AssignmentActive),
		}).
		Executor().
		ScanValContext(ctx, &count)
	if err != nil {
		return false, custom_error.NewStorage("check active assignments", err)
	}

	return count > 0, nil
}

func (r *AssetsRepository) RemoveAsset(ctx context.Context, tx *goqu.TxDatabase, assetID int64) error {
	var id int64
	found, err := r.repository.Querier(tx).
		Delete("assets").
		Where(goqu.Ex{"id": assetID}).
		Returning("id").
		Executor().
		ScanValContext(ctx, &id)
	if err != nil {
		return custom_error.ClassifyDBError("delete asset", "asset", err)
	}
	if !found {
		return custom_error.NewNotFound("asset", assetID)
	}

	return nil
}

func (r *AssetsRepository) CountByStatus(ctx context.Context) ([]models.StatusCount, error) {
	query := r.repository.GoquDBWrapper.
		From("assets").
		Select(
			goqu.C("status"),
			goqu.COUNT("*").As("count"),
		).
		GroupBy("status").
		Order(goqu.C("status").Asc())

	var counts []models.StatusCount
	if err := query.Executor().ScanStructsContext(ctx, &counts); err != nil {
		return nil, custom_error.NewStorage("count assets", err)
	}

	return counts, nil
}

func (r *AssetsRepository) getAssetQuery(tx *goqu.TxDatabase) *goqu.SelectDataset {
	return r.repository.Querier(tx).
		From(goqu.T("assets").As("a")).
		Select(
			goqu.I("a.id").As("asset_id"),
			goqu.I("a.asset_name").As("asset_name"),
			goqu.I("a.serial_number").As("serial_number"),
			goqu.I("a.asset_type").As("asset_type"),
			goqu.I("a.purchase_date").As("purchase_date"),
			goqu.I("a.purchase_price").As("purchase_price"),
			goqu.I("a.status").As("status"),
			goqu.I("a.condition").As("condition"),
			goqu.I("a.warranty_date").As("warranty_date"),
			goqu.I("a.description").As("description"),
			goqu.I("a.assigned_to").As("assigned_to"),
			goqu.I("e.name").As("holder_name"),
			goqu.I("e.department").As("holder_department"),
			goqu.I("e.email").As("holder_email"),
			goqu.I("a.created_at").As("created_at"),
			goqu.I("a.updated_at").As("updated_at"),
		).
		LeftJoin(
			goqu.T("employees").As("e"),
			goqu.On(goqu.Ex{"a.assigned_to": goqu.I("e.id")}),
		)
}

func nullable[T any](v *T) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
