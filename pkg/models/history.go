package models

import (
	"time"

	"assetdesk/pkg/metadata"
)

// History is an append-only audit entry. AssetName is a copy taken when the
// entry was written so the entry stays readable after the asset is deleted.
type History struct {
	ID          int64           `json:"id"`
	Action      metadata.Action `json:"action"`
	AssetID     *int64          `json:"asset_id"`
	AssetName   string          `json:"asset_name"`
	Asset       *Asset          `json:"asset,omitempty"`
	EmployeeID  *int64          `json:"employee_id"`
	Employee    *Employee       `json:"employee,omitempty"`
	PerformedBy string          `json:"performed_by"`
	Details     string          `json:"details"`
	CreatedAt   time.Time       `json:"created_at"`
}

type FlatHistoryRecord struct {
	ID                 int64     `db:"history_id"`
	Action             string    `db:"action"`
	AssetID            *int64    `db:"asset_id"`
	AssetName          string    `db:"asset_name"`
	EmployeeID         *int64    `db:"employee_id"`
	PerformedBy        string    `db:"performed_by"`
	Details            string    `db:"details"`
	CreatedAt          time.Time `db:"created_at"`
	LiveAssetType      *string   `db:"asset_type"`
	EmployeeName       *string   `db:"employee_name"`
	EmployeeDepartment *string   `db:"employee_department"`
}

func (fh *FlatHistoryRecord) TransformToHistory() History {
	entry := History{
		ID:          fh.ID,
		Action:      metadata.Action(fh.Action),
		AssetID:     fh.AssetID,
		AssetName:   fh.AssetName,
		EmployeeID:  fh.EmployeeID,
		PerformedBy: fh.PerformedBy,
		Details:     fh.Details,
		CreatedAt:   fh.CreatedAt,
	}

	// the asset may be gone; only expand while it still exists
	if fh.AssetID != nil && fh.LiveAssetType != nil {
		entry.Asset = &Asset{
			ID:   *fh.AssetID,
			Name: fh.AssetName,
			Type: metadata.AssetType(*fh.LiveAssetType),
		}
	}

	if fh.EmployeeID != nil && fh.EmployeeName != nil {
		entry.Employee = &Employee{
			ID:         *fh.EmployeeID,
			Name:       *fh.EmployeeName,
			Department: derefString(fh.EmployeeDepartment),
		}
	}

	return entry
}

type HistoryFilter struct {
	AssetID    int64  `form:"asset_id"`
	EmployeeID int64  `form:"employee_id"`
	Action     string `form:"action"`
}
