package assets

import (
	"time"

	"github.com/google/uuid"

	"github.com/assetmanage/assetmanage-backend/pkg/db/models"
	"github.com/assetmanage/assetmanage-backend/pkg/enums"
)

// AssetDTO is the transport shape for catalogued assets.
type AssetDTO struct {
	ID              uuid.UUID       `json:"id"`
	CompanyName     string          `json:"company_name"`
	ProductName     string          `json:"product_name"`
	ProductType     enums.AssetType `json:"product_type"`
	ProductQuantity int             `json:"product_quantity"`
	AddedBy         string          `json:"added_by"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// CreateAssetDTO holds the fields required to catalogue a new asset.
type CreateAssetDTO struct {
	CompanyName     string
	ProductName     string
	ProductType     enums.AssetType
	ProductQuantity int
	AddedBy         string
}

// UpdateAssetDTO carries a partial asset update. Nil fields are left untouched.
type UpdateAssetDTO struct {
	ProductName     *string
	ProductType     *enums.AssetType
	ProductQuantity *int
}

// Availability narrows listings by stock state.
type Availability string

const (
	AvailabilityAvailable  Availability = "available"
	AvailabilityOutOfStock Availability = "out-of-stock"
)

// ListFilters describe the supported filter knobs for the asset listing.
type ListFilters struct {
	Availability Availability
	ProductType  *enums.AssetType
	Query        string
}

// AssetListDTO is one page of assets plus the cursor for the next one.
type AssetListDTO struct {
	Items  []AssetDTO `json:"items"`
	Cursor string     `json:"cursor,omitempty"`
}

func FromModel(a *models.Asset) *AssetDTO {
	if a == nil {
		return nil
	}
	return &AssetDTO{
		ID:              a.ID,
		CompanyName:     a.CompanyName,
		ProductName:     a.ProductName,
		ProductType:     a.ProductType,
		ProductQuantity: a.ProductQuantity,
		AddedBy:         a.AddedBy,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}

func FromModels(items []models.Asset) []AssetDTO {
	out := make([]AssetDTO, 0, len(items))
	for i := range items {
		out = append(out, *FromModel(&items[i]))
	}
	return out
}

func (c CreateAssetDTO) ToModel() *models.Asset {
	return &models.Asset{
		ID:              uuid.New(),
		CompanyName:     c.CompanyName,
		ProductName:     c.ProductName,
		ProductType:     c.ProductType,
		ProductQuantity: c.ProductQuantity,
		AddedBy:         c.AddedBy,
	}
}
