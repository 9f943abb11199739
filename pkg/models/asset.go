package models

import (
	"time"

	"assetdesk/pkg/metadata"

	"github.com/shopspring/decimal"
)

type Asset struct {
	ID            int64               `json:"id"`
	Name          string              `json:"name"`
	Serial        string              `json:"serial_number"`
	Type          metadata.AssetType  `json:"type"`
	PurchaseDate  time.Time           `json:"purchase_date"`
	PurchasePrice decimal.NullDecimal `json:"purchase_price"`
	Status        metadata.Status     `json:"status"`
	Condition     metadata.Condition  `json:"condition"`
	WarrantyDate  *time.Time          `json:"warranty_date,omitempty"`
	Description   *string             `json:"description,omitempty"`
	AssignedToID  *int64              `json:"assigned_to_id"`
	AssignedTo    *Employee           `json:"assigned_to,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

type FlatAssetRecord struct {
	ID               int64               `db:"asset_id"`
	Name             string              `db:"asset_name"`
	Serial           string              `db:"serial_number"`
	Type             string              `db:"asset_type"`
	PurchaseDate     time.Time           `db:"purchase_date"`
	PurchasePrice    decimal.NullDecimal `db:"purchase_price"`
	Status           string              `db:"status"`
	Condition        string              `db:"condition"`
	WarrantyDate     *time.Time          `db:"warranty_date"`
	Description      *string             `db:"description"`
	AssignedToID     *int64              `db:"assigned_to"`
	HolderName       *string             `db:"holder_name"`
	HolderDepartment *string             `db:"holder_department"`
	HolderEmail      *string             `db:"holder_email"`
	CreatedAt        time.Time           `db:"created_at"`
	UpdatedAt        time.Time           `db:"updated_at"`
}

func (fa *FlatAssetRecord) TransformToAsset() Asset {
	asset := Asset{
		ID:            fa.ID,
		Name:          fa.Name,
		Serial:        fa.Serial,
		Type:          metadata.AssetType(fa.Type),
		PurchaseDate:  fa.PurchaseDate,
		PurchasePrice: fa.PurchasePrice,
		Status:        metadata.Status(fa.Status),
		Condition:     metadata.Condition(fa.Condition),
		WarrantyDate:  fa.WarrantyDate,
		Description:   fa.Description,
		AssignedToID:  fa.AssignedToID,
		CreatedAt:     fa.CreatedAt,
		UpdatedAt:     fa.UpdatedAt,
	}

	if fa.AssignedToID != nil && fa.HolderName != nil {
		asset.AssignedTo = &Employee{
			ID:         *fa.AssignedToID,
			Name:       *fa.HolderName,
			Department: derefString(fa.HolderDepartment),
			Email:      derefString(fa.HolderEmail),
		}
	}

	return asset
}

func (a *Asset) CreateHistoryView() History {
	id := a.ID
	return History{
		AssetID:   &id,
		AssetName: a.Name,
	}
}

type AssetRequest struct {
	Name          string           `json:"name" binding:"required"`
	Serial        string           `json:"serial_number" binding:"required"`
	Type          string           `json:"type" binding:"required"`
	PurchaseDate  Date             `json:"purchase_date" binding:"required"`
	PurchasePrice *decimal.Decimal `json:"purchase_price"`
	Status        string           `json:"status"`
	Condition     string           `json:"condition"`
	WarrantyDate  *Date            `json:"warranty_date"`
	Description   *string          `json:"description"`
}

// AssetChanges holds a partial update; nil fields are left untouched.
type AssetChanges struct {
	Name          *string          `json:"name"`
	Serial        *string          `json:"serial_number"`
	Type          *string          `json:"type"`
	PurchaseDate  *Date            `json:"purchase_date"`
	PurchasePrice *decimal.Decimal `json:"purchase_price"`
	Status        *string          `json:"status"`
	Condition     *string          `json:"condition"`
	WarrantyDate  *Date            `json:"warranty_date"`
	Description   *string          `json:"description"`
}

func (c *AssetChanges) IsEmpty() bool {
	return c.Name == nil && c.Serial == nil && c.Type == nil && c.PurchaseDate == nil &&
		c.PurchasePrice == nil && c.Status == nil && c.Condition == nil &&
		c.WarrantyDate == nil && c.Description == nil
}

type AssetFilter struct {
	Status string `form:"status"`
	Type   string `form:"type"`
}

type StatusCount struct {
	Status string `json:"status" db:"status"`
	Count  int    `json:"count" db:"count"`
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
