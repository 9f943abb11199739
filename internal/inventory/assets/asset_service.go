package assets

import (
	"context"
	"fmt"
	"strings"
	"time"

	"assetdesk/internal/metrics"
	"assetdesk/internal/repository"
	"assetdesk/pkg/auditlog"
	custom_error "assetdesk/pkg/errors"
	"assetdesk/pkg/metadata"
	"assetdesk/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type AssetStore interface {
	StatusStore
	GetAsset(ctx context.Context, tx *goqu.TxDatabase, id int64) (*models.Asset, error)
	LockAsset(ctx context.Context, tx *goqu.TxDatabase, id int64) error
	GetAssetsBy(ctx context.Context, conditions repository.QueryBuilder) ([]models.Asset, error)
	PersistAsset(ctx context.Context, tx *goqu.TxDatabase, asset *models.Asset) error
	UpdateAsset(ctx context.Context, tx *goqu.TxDatabase, id int64, record goqu.Record) error
	HasActiveAssignment(ctx context.Context, tx *goqu.TxDatabase, assetID int64) (bool, error)
	RemoveAsset(ctx context.Context, tx *goqu.TxDatabase, assetID int64) error
	CountByStatus(ctx context.Context) ([]models.StatusCount, error)
}

type AuditRecorder interface {
	Record(ctx context.Context, tx *goqu.TxDatabase, action metadata.Action, item auditlog.Auditable, employee *models.Employee, details string) error
}

type AssetService struct {
	tx        repository.Transactor
	assets    AssetStore
	lifecycle *Lifecycle
	auditLog  AuditRecorder
	log       *zap.Logger
}

func NewAssetService(tx repository.Transactor, assets AssetStore, lifecycle *Lifecycle, auditLog AuditRecorder, log *zap.Logger) *AssetService {
	return &AssetService{
		tx:        tx,
		assets:    assets,
		lifecycle: lifecycle,
		auditLog:  auditLog,
		log:       log,
	}
}

func (s *AssetService) GetAsset(ctx context.Context, id int64) (*models.Asset, error) {
	return s.assets.GetAsset(ctx, nil, id)
}

func (s *AssetService) GetAssets(ctx context.Context, filter models.AssetFilter) ([]models.Asset, error) {
	conditions := repository.NewQueryBuilder()

	if filter.Status != "" {
		status, err := metadata.NewStatus(filter.Status)
		if err != nil {
			return nil, custom_error.NewValidation("status", err.Error())
		}
		conditions.AddCondition("status", string(status))
	}

	if filter.Type != "" {
		assetType, err := metadata.NewAssetType(filter.Type)
		if err != nil {
			return nil, custom_error.NewValidation("type", err.Error())
		}
		conditions.AddCondition("type", string(assetType))
	}

	return s.assets.GetAssetsBy(ctx, conditions)
}

func (s *AssetService) Summary(ctx context.Context) ([]models.StatusCount, error) {
	return s.assets.CountByStatus(ctx)
}

// CreateAsset registers a new asset and logs ASSET_CREATED in the same transaction.
func (s *AssetService) CreateAsset(ctx context.Context, req models.AssetRequest) (*models.Asset, error) {
	asset, err := newAssetFromRequest(req)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithTransaction(ctx, func(tx *goqu.TxDatabase) error {
		if err := s.assets.PersistAsset(ctx, tx, asset); err != nil {
			return err
		}

		return s.auditLog.Record(ctx, tx, metadata.ActionAssetCreated, asset, nil,
			fmt.Sprintf("New %s added to inventory (Serial: %s)", asset.Type, asset.Serial))
	})
	metrics.ObserveWorkflow("create_asset", err)
	if err != nil {
		s.log.Warn("Unable to create asset", zap.String("serial", asset.Serial), zap.Error(err))
		return nil, err
	}

	s.log.Info("Asset created", zap.Int64("asset_id", asset.ID), zap.String("serial", asset.Serial))

	return asset, nil
}

// RemoveAsset logs ASSET_DELETED and then deletes the row. Both writes share
// one transaction, so a failed delete also discards the log entry.
func (s *AssetService) RemoveAsset(ctx context.Context, id int64) error {
	err := s.tx.WithTransaction(ctx, func(tx *goqu.TxDatabase) error {
		if err := s.assets.LockAsset(ctx, tx, id); err != nil {
			return err
		}

		asset, err := s.assets.GetAsset(ctx, tx, id)
		if err != nil {
			return err
		}

		active, err := s.assets.HasActiveAssignment(ctx, tx, id)
		if err != nil {
			return err
		}
		if active || asset.Status == metadata.StatusInUse {
			return &custom_error.TransitionError{
				Resource: "asset",
				ID:       id,
				From:     asset.Status.String(),
				To:       "deleted",
				Reason:   "asset has an active assignment, return it first",
			}
		}

		if err := s.auditLog.Record(ctx, tx, metadata.ActionAssetDeleted, asset, nil,
			fmt.Sprintf("%s removed from inventory (Serial: %s)", asset.Type, asset.Serial)); err != nil {
			return err
		}

		return s.assets.RemoveAsset(ctx, tx, id)
	})
	metrics.ObserveWorkflow("delete_asset", err)
	if err != nil {
		s.log.Warn("Unable to delete asset", zap.Int64("asset_id", id), zap.Error(err))
		return err
	}

	s.log.Info("Asset deleted", zap.Int64("asset_id", id))

	return nil
}

// UpdateAsset applies a partial edit. Field edits are logged as ASSET_UPDATED
// and a status edit as STATUS_CHANGED. In Use can only be entered or left
// through an assignment.
func (s *AssetService) UpdateAsset(ctx context.Context, id int64, changes models.AssetChanges) (*models.Asset, error) {
	if changes.IsEmpty() {
		return nil, custom_error.NewValidation("", "no changes provided")
	}

	var updated *models.Asset
	err := s.tx.WithTransaction(ctx, func(tx *goqu.TxDatabase) error {
		if err := s.assets.LockAsset(ctx, tx, id); err != nil {
			return err
		}

		current, err := s.assets.GetAsset(ctx, tx, id)
		if err != nil {
			return err
		}

		record, changedFields, err := buildChangeRecord(current, changes)
		if err != nil {
			return err
		}

		previousStatus := current.Status
		next := current.Status
		if changes.Status != nil {
			next, err = metadata.NewStatus(*changes.Status)
			if err != nil {
				return custom_error.NewValidation("status", err.Error())
			}
		}
		statusChanged := next != previousStatus

		if statusChanged && (next == metadata.StatusInUse || previousStatus == metadata.StatusInUse) {
			return &custom_error.TransitionError{
				Resource: "asset",
				ID:       id,
				From:     previousStatus.String(),
				To:       next.String(),
				Reason:   "use the assignment workflow to assign or return an asset",
			}
		}

		if err := s.assets.UpdateAsset(ctx, tx, id, record); err != nil {
			return err
		}

		if statusChanged {
			if err := s.lifecycle.SetStatus(ctx, tx, current, next, nil); err != nil {
				return err
			}
		}

		updated, err = s.assets.GetAsset(ctx, tx, id)
		if err != nil {
			return err
		}

		if len(changedFields) > 0 {
			if err := s.auditLog.Record(ctx, tx, metadata.ActionAssetUpdated, updated, nil,
				"Updated fields: "+strings.Join(changedFields, ", ")); err != nil {
				return err
			}
		}

		if statusChanged {
			if err := s.auditLog.Record(ctx, tx, metadata.ActionStatusChanged, updated, nil,
				fmt.Sprintf("Status changed from %s to %s", previousStatus, updated.Status)); err != nil {
				return err
			}
		}

		return nil
	})
	metrics.ObserveWorkflow("update_asset", err)
	if err != nil {
		s.log.Warn("Unable to update asset", zap.Int64("asset_id", id), zap.Error(err))
		return nil, err
	}

	return updated, nil
}

func newAssetFromRequest(req models.AssetRequest) (*models.Asset, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, custom_error.NewValidation("name", "is required")
	}

	serial := strings.TrimSpace(req.Serial)
	if serial == "" {
		return nil, custom_error.NewValidation("serial_number", "is required")
	}

	if req.PurchaseDate.IsZero() {
		return nil, custom_error.NewValidation("purchase_date", "is required")
	}

	assetType, err := metadata.NewAssetType(req.Type)
	if err != nil {
		return nil, custom_error.NewValidation("type", err.Error())
	}

	status := metadata.StatusAvailable
	if req.Status != "" {
		status, err = metadata.NewStatus(req.Status)
		if err != nil {
			return nil, custom_error.NewValidation("status", err.Error())
		}
		if status == metadata.StatusInUse {
			return nil, custom_error.NewValidation("status", "a new asset cannot start In Use, create an assignment instead")
		}
	}

	condition, err := metadata.NewCondition(req.Condition)
	if err != nil {
		return nil, custom_error.NewValidation("condition", err.Error())
	}

	asset := &models.Asset{
		Name:         name,
		Serial:       serial,
		Type:         assetType,
		PurchaseDate: req.PurchaseDate.Time,
		Status:       status,
		Condition:    condition,
		WarrantyDate: req.WarrantyDate.TimePtr(),
		Description:  req.Description,
	}

	if req.PurchasePrice != nil {
		if req.PurchasePrice.IsNegative() {
			return nil, custom_error.NewValidation("purchase_price", "must not be negative")
		}
		asset.PurchasePrice = decimal.NewNullDecimal(*req.PurchasePrice)
	}

	return asset, nil
}

// buildChangeRecord returns the columns to update and the names of the fields
// whose value actually changes. Status is handled by the lifecycle.
func buildChangeRecord(current *models.Asset, changes models.AssetChanges) (goqu.Record, []string, error) {
	record := goqu.Record{}
	var changed []string

	if changes.Name != nil {
		name := strings.TrimSpace(*changes.Name)
		if name == "" {
			return nil, nil, custom_error.NewValidation("name", "must not be empty")
		}
		if name != current.Name {
			record["asset_name"] = name
			changed = append(changed, "name")
		}
	}

	if changes.Serial != nil {
		serial := strings.TrimSpace(*changes.Serial)
		if serial == "" {
			return nil, nil, custom_error.NewValidation("serial_number", "must not be empty")
		}
		if serial != current.Serial {
			record["serial_number"] = serial
			changed = append(changed, "serial_number")
		}
	}

	if changes.Type != nil {
		assetType, err := metadata.NewAssetType(*changes.Type)
		if err != nil {
			return nil, nil, custom_error.NewValidation("type", err.Error())
		}
		if assetType != current.Type {
			record["asset_type"] = string(assetType)
			changed = append(changed, "type")
		}
	}

	if changes.Condition != nil {
		condition, err := metadata.NewCondition(*changes.Condition)
		if err != nil {
			return nil, nil, custom_error.NewValidation("condition", err.Error())
		}
		if condition != current.Condition {
			record["condition"] = string(condition)
			changed = append(changed, "condition")
		}
	}

	if changes.PurchaseDate != nil {
		if changes.PurchaseDate.IsZero() {
			return nil, nil, custom_error.NewValidation("purchase_date", "must not be empty")
		}
		if !sameDay(changes.PurchaseDate.Time, current.PurchaseDate) {
			record["purchase_date"] = changes.PurchaseDate.Time
			changed = append(changed, "purchase_date")
		}
	}

	if changes.PurchasePrice != nil {
		if changes.PurchasePrice.IsNegative() {
			return nil, nil, custom_error.NewValidation("purchase_price", "must not be negative")
		}
		if !current.PurchasePrice.Valid || !current.PurchasePrice.Decimal.Equal(*changes.PurchasePrice) {
			record["purchase_price"] = changes.PurchasePrice.String()
			changed = append(changed, "purchase_price")
		}
	}

	if changes.WarrantyDate != nil {
		warranty := changes.WarrantyDate.TimePtr()
		if !sameOptionalDay(warranty, current.WarrantyDate) {
			record["warranty_date"] = nullableTime(warranty)
			changed = append(changed, "warranty_date")
		}
	}

	if changes.Description != nil {
		if current.Description == nil || *current.Description != *changes.Description {
			record["description"] = *changes.Description
			changed = append(changed, "description")
		}
	}

	return record, changed, nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func sameOptionalDay(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return sameDay(*a, *b)
}

func nullableTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return *t
}
