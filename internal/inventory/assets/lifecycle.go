package assets

import (
	"context"

	custom_error "assetdesk/pkg/errors"
	"assetdesk/pkg/metadata"
	"assetdesk/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

type StatusStore interface {
	CompareAndSetStatus(ctx context.Context, tx *goqu.TxDatabase, id int64, from metadata.Status, expectedHolder *int64, to metadata.Status, holder *int64) (bool, error)
	AssetExists(ctx context.Context, tx *goqu.TxDatabase, id int64) (bool, error)
}

// Lifecycle owns every write to an asset's status and holder.
type Lifecycle struct {
	store StatusStore
}

func NewLifecycle(store StatusStore) *Lifecycle {
	return &Lifecycle{store: store}
}

// SetStatus moves asset to next. In Use needs employeeID and records it as the
// holder; every other status clears the holder. The write only succeeds if the
// stored row still has the status and holder found in asset.
func (l *Lifecycle) SetStatus(ctx context.Context, tx *goqu.TxDatabase, asset *models.Asset, next metadata.Status, employeeID *int64) error {
	if !next.IsValid() {
		return custom_error.NewValidation("status", "invalid status "+next.String())
	}

	if next.RequiresHolder() && employeeID == nil {
		return custom_error.NewValidation("assigned_to", "an employee is required when status is "+next.String())
	}

	if !asset.Status.CanTransitionTo(next) {
		return &custom_error.TransitionError{
			Resource: "asset",
			ID:       asset.ID,
			From:     asset.Status.String(),
			To:       next.String(),
		}
	}

	var holder *int64
	if next.RequiresHolder() {
		id := *employeeID
		holder = &id
	}

	ok, err := l.store.CompareAndSetStatus(ctx, tx, asset.ID, asset.Status, asset.AssignedToID, next, holder)
	if err != nil {
		return err
	}

	if !ok {
		exists, err := l.store.AssetExists(ctx, tx, asset.ID)
		if err != nil {
			return err
		}
		if !exists {
			return custom_error.NewNotFound("asset", asset.ID)
		}
		return &custom_error.TransitionError{
			Resource: "asset",
			ID:       asset.ID,
			From:     asset.Status.String(),
			To:       next.String(),
			Reason:   "asset was modified concurrently",
		}
	}

	asset.Status = next
	asset.AssignedToID = holder
	if holder == nil {
		asset.AssignedTo = nil
	}

	return nil
}
