package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/assetmanage/assetmanage-backend/pkg/enums"
)

// User is a registered account. HR users own a company; employees may be
// attached to one by an HR admin.
type User struct {
	ID            uuid.UUID            `gorm:"column:id;type:uuid;primaryKey"`
	Email         string               `gorm:"column:email;uniqueIndex;not null"`
	Name          string               `gorm:"column:name;not null"`
	Role          enums.UserRole       `gorm:"column:role;not null"`
	DateOfBirth   *time.Time           `gorm:"column:date_of_birth"`
	PhotoURL      *string              `gorm:"column:photo_url"`
	CompanyName   *string              `gorm:"column:company_name;index"`
	CompanyLogo   *string              `gorm:"column:company_logo"`
	Package       *enums.BillingPackage `gorm:"column:package"`
	MemberLimit   int                  `gorm:"column:member_limit;not null;default:0"`
	PaymentStatus bool                 `gorm:"column:payment_status;not null;default:false"`
	CreatedAt     time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
