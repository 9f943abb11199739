package auditlog

import (
	"context"
	"fmt"
	"strings"

	"assetdesk/pkg/metadata"
	"assetdesk/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"go.uber.org/zap"
)

// DefaultPerformer is recorded when the caller did not identify itself.
const DefaultPerformer = "Admin"

type ctxKey string

const performerKey ctxKey = "auditlog_performer"

// Auditable is anything a history entry can be written about.
type Auditable interface {
	CreateHistoryView() models.History
}

type HistoryWriter interface {
	PersistEntry(ctx context.Context, tx *goqu.TxDatabase, entry *models.History) error
}

type Auditlog struct {
	w   HistoryWriter
	log *zap.Logger
}

func NewAuditLog(w HistoryWriter, log *zap.Logger) *Auditlog {
	return &Auditlog{w: w, log: log}
}

// WithPerformer attaches the acting user's name to ctx.
func WithPerformer(ctx context.Context, performer string) context.Context {
	performer = strings.TrimSpace(performer)
	if performer == "" {
		return ctx
	}
	return context.WithValue(ctx, performerKey, performer)
}

func PerformerFromContext(ctx context.Context) string {
	if ctx == nil {
		return DefaultPerformer
	}
	if v, ok := ctx.Value(performerKey).(string); ok && v != "" {
		return v
	}
	return DefaultPerformer
}

// Record appends one history entry inside tx. The asset name is copied from
// item at call time, so for deletions Record must run before the row is removed.
// employee may be nil.
func (a *Auditlog) Record(
	ctx context.Context,
	tx *goqu.TxDatabase,
	action metadata.Action,
	item Auditable,
	employee *models.Employee,
	details string,
) error {
	if !action.IsValid() {
		return fmt.Errorf("unable to record history: invalid action %q", action)
	}

	entry := models.History{}
	if item != nil {
		entry = item.CreateHistoryView()
	}
	entry.Action = action
	entry.PerformedBy = PerformerFromContext(ctx)
	entry.Details = details
	if employee != nil {
		id := employee.ID
		entry.EmployeeID = &id
	}

	if err := a.w.PersistEntry(ctx, tx, &entry); err != nil {
		a.log.Error("Unable to create history entry",
			zap.String("action", string(action)),
			zap.Int64p("asset_id", entry.AssetID),
			zap.Error(err),
		)
		return fmt.Errorf("unable to record %s: %w", action, err)
	}

	a.log.Debug("Created history entry",
		zap.Int64("id", entry.ID),
		zap.String("action", string(action)),
		zap.Int64p("asset_id", entry.AssetID),
	)

	return nil
}
