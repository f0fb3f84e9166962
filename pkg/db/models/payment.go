package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/assetmanage/assetmanage-backend/pkg/enums"
)

// Payment records a completed package purchase by an HR account.
type Payment struct {
	ID            uuid.UUID            `gorm:"column:id;type:uuid;primaryKey"`
	HREmail       string               `gorm:"column:hr_email;index;not null"`
	CompanyName   string               `gorm:"column:company_name;not null"`
	TransactionID string               `gorm:"column:transaction_id;uniqueIndex;not null"`
	Package       enums.BillingPackage `gorm:"column:package;not null"`
	PriceCents    int                  `gorm:"column:price_cents;not null"`
	PaymentStatus bool                 `gorm:"column:payment_status;not null;default:true"`
	CreatedAt     time.Time            `gorm:"column:created_at;autoCreateTime"`
}
