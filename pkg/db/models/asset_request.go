package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/assetmanage/assetmanage-backend/pkg/enums"
)

// AssetRequest is an employee's claim against one unit of an Asset. A request
// holds exactly one reserved unit from creation until it leaves circulation
// via Rejected, Cancelled, or Returned.
type AssetRequest struct {
	ID               uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	AssetID          uuid.UUID           `gorm:"column:asset_id;type:uuid;index;not null"`
	AssetName        string              `gorm:"column:asset_name;not null"`
	AssetType        enums.AssetType     `gorm:"column:asset_type;not null"`
	RequesterEmail   string              `gorm:"column:requester_email;index;not null"`
	RequesterName    string              `gorm:"column:requester_name;not null"`
	RequesterCompany string              `gorm:"column:requester_company;index;not null"`
	Note             *string             `gorm:"column:note"`
	Status           enums.RequestStatus `gorm:"column:status;not null"`
	RequestDate      time.Time           `gorm:"column:request_date;not null"`
	ApprovalDate     *time.Time          `gorm:"column:approval_date"`
	UpdatedAt        time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
