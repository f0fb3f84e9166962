package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/assetmanage/assetmanage-backend/pkg/enums"
)

// Asset is a catalogued item with a stock counter, owned by a company.
// ProductQuantity is the field under contention: it is only ever adjusted
// through conditional updates inside a request-lifecycle transaction and
// must never be observed negative.
type Asset struct {
	ID              uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	CompanyName     string          `gorm:"column:company_name;index;not null"`
	ProductName     string          `gorm:"column:product_name;not null"`
	ProductType     enums.AssetType `gorm:"column:product_type;not null"`
	ProductQuantity int             `gorm:"column:product_quantity;not null;default:0"`
	AddedBy         string          `gorm:"column:added_by;not null"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
