package models

import (
	"time"

	"assetdesk/pkg/metadata"
)

type Assignment struct {
	ID             int64                     `json:"id"`
	AssetID        int64                     `json:"asset_id"`
	EmployeeID     int64                     `json:"employee_id"`
	Asset          *Asset                    `json:"asset,omitempty"`
	Employee       *Employee                 `json:"employee,omitempty"`
	AssignDate     time.Time                 `json:"assign_date"`
	ExpectedReturn *time.Time                `json:"expected_return"`
	ReturnDate     *time.Time                `json:"return_date"`
	Notes          *string                   `json:"notes,omitempty"`
	Status         metadata.AssignmentStatus `json:"status"`
}

type FlatAssignmentRecord struct {
	ID                 int64      `db:"assignment_id"`
	AssetID            int64      `db:"asset_id"`
	EmployeeID         int64      `db:"employee_id"`
	AssignDate         time.Time  `db:"assign_date"`
	ExpectedReturn     *time.Time `db:"expected_return"`
	ReturnDate         *time.Time `db:"return_date"`
	Notes              *string    `db:"notes"`
	Status             string     `db:"status"`
	AssetName          *string    `db:"asset_name"`
	AssetType          *string    `db:"asset_type"`
	AssetSerial        *string    `db:"serial_number"`
	AssetStatus        *string    `db:"asset_status"`
	EmployeeName       *string    `db:"employee_name"`
	EmployeeDepartment *string    `db:"employee_department"`
	EmployeeEmail      *string    `db:"employee_email"`
}

func (fa *FlatAssignmentRecord) TransformToAssignment() Assignment {
	assignment := Assignment{
		ID:             fa.ID,
		AssetID:        fa.AssetID,
		EmployeeID:     fa.EmployeeID,
		AssignDate:     fa.AssignDate,
		ExpectedReturn: fa.ExpectedReturn,
		ReturnDate:     fa.ReturnDate,
		Notes:          fa.Notes,
		Status:         metadata.AssignmentStatus(fa.Status),
	}

	if fa.AssetName != nil {
		assignment.Asset = &Asset{
			ID:     fa.AssetID,
			Name:   *fa.AssetName,
			Type:   metadata.AssetType(derefString(fa.AssetType)),
			Serial: derefString(fa.AssetSerial),
			Status: metadata.Status(derefString(fa.AssetStatus)),
		}
	}

	if fa.EmployeeName != nil {
		assignment.Employee = &Employee{
			ID:         fa.EmployeeID,
			Name:       *fa.EmployeeName,
			Department: derefString(fa.EmployeeDepartment),
			Email:      derefString(fa.EmployeeEmail),
		}
	}

	return assignment
}

type AssignmentRequest struct {
	AssetID        int64   `json:"asset_id" binding:"required"`
	EmployeeID     int64   `json:"employee_id" binding:"required"`
	AssignDate     Date    `json:"assign_date" binding:"required"`
	ExpectedReturn *Date   `json:"expected_return"`
	Notes          *string `json:"notes"`
}

type AssignmentFilter struct {
	Status     string `form:"status"`
	AssetID    int64  `form:"asset_id"`
	EmployeeID int64  `form:"employee_id"`
}
