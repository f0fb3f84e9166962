package payments

import (
	"time"

	"github.com/google/uuid"

	"github.com/assetmanage/assetmanage-backend/pkg/db/models"
	"github.com/assetmanage/assetmanage-backend/pkg/enums"
)

// Package prices in cents, charged once per tier.
var packagePriceCents = map[enums.BillingPackage]int{
	enums.BillingPackageStarter:  500,
	enums.BillingPackageStandard: 800,
	enums.BillingPackagePremium:  1500,
}

// PriceCentsFor returns the charge amount for a package.
func PriceCentsFor(pkg enums.BillingPackage) int {
	return packagePriceCents[pkg]
}

// PaymentDTO is the transport shape for payment records.
type PaymentDTO struct {
	ID            uuid.UUID            `json:"id"`
	HREmail       string               `json:"hr_email"`
	CompanyName   string               `json:"company_name"`
	TransactionID string               `json:"transaction_id"`
	Package       enums.BillingPackage `json:"package"`
	PriceCents    int                  `json:"price_cents"`
	PaymentStatus bool                 `json:"payment_status"`
	CreatedAt     time.Time            `json:"created_at"`
}

// IntentDTO carries the client secret the frontend needs to confirm a charge.
type IntentDTO struct {
	ClientSecret string `json:"client_secret"`
	AmountCents  int    `json:"amount_cents"`
}

// RecordPaymentDTO holds a confirmed initial package purchase.
type RecordPaymentDTO struct {
	HREmail       string
	TransactionID string
	Package       enums.BillingPackage
}

// UpgradePackageDTO holds a confirmed move to a higher tier.
type UpgradePackageDTO struct {
	HREmail       string
	TransactionID string
	Package       enums.BillingPackage
}

func FromModel(p *models.Payment) *PaymentDTO {
	if p == nil {
		return nil
	}
	return &PaymentDTO{
		ID:            p.ID,
		HREmail:       p.HREmail,
		CompanyName:   p.CompanyName,
		TransactionID: p.TransactionID,
		Package:       p.Package,
		PriceCents:    p.PriceCents,
		PaymentStatus: p.PaymentStatus,
		CreatedAt:     p.CreatedAt,
	}
}
