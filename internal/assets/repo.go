package assets

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/assetmanage/assetmanage-backend/pkg/db/models"
	pkgerrors "github.com/assetmanage/assetmanage-backend/pkg/errors"
	"github.com/assetmanage/assetmanage-backend/pkg/pagination"
)

// LimitedStockThreshold is the quantity below which an asset counts as
// running low.
const LimitedStockThreshold = 10

// Repository exposes asset persistence including the stock counter.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, asset *models.Asset) (*models.Asset, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Asset, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, companyName string, filters ListFilters, params pagination.Params) (*AssetListDTO, error)
	ListLimitedStock(ctx context.Context, companyName string) ([]models.Asset, error)
	AdjustQuantity(ctx context.Context, id uuid.UUID, delta int) error
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository constructs an assets repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, asset *models.Asset) (*models.Asset, error) {
	if asset.ID == uuid.Nil {
		asset.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(asset).Error; err != nil {
		return nil, err
	}
	return asset, nil
}

func (r *repositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*models.Asset, error) {
	var asset models.Asset
	if err := r.db.WithContext(ctx).First(&asset, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &asset, nil
}

func (r *repositoryImpl) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	res := r.db.WithContext(ctx).
		Model(&models.Asset{}).
		Where("id = ?", id).
		UpdateColumns(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.Asset{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repositoryImpl) List(ctx context.Context, companyName string, filters ListFilters, params pagination.Params) (*AssetListDTO, error) {
	normalizedLimit := pagination.NormalizeLimit(params.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(params.Limit)
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	query := r.db.WithContext(ctx).
		Model(&models.Asset{}).
		Where("company_name = ?", companyName)

	switch filters.Availability {
	case AvailabilityAvailable:
		query = query.Where("product_quantity > 0")
	case AvailabilityOutOfStock:
		query = query.Where("product_quantity = 0")
	}
	if filters.ProductType != nil {
		query = query.Where("product_type = ?", *filters.ProductType)
	}
	if q := strings.TrimSpace(filters.Query); q != "" {
		query = query.Where("LOWER(product_name) LIKE ?", "%"+strings.ToLower(q)+"%")
	}
	if cursor != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Asset
	err = query.Order("created_at DESC").Order("id DESC").Limit(limitWithBuffer).Find(&rows).Error
	if err != nil {
		return nil, err
	}

	nextCursor := ""
	if len(rows) > normalizedLimit {
		rows = rows[:normalizedLimit]
		last := rows[len(rows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	return &AssetListDTO{Items: FromModels(rows), Cursor: nextCursor}, nil
}

func (r *repositoryImpl) ListLimitedStock(ctx context.Context, companyName string) ([]models.Asset, error) {
	var rows []models.Asset
	err := r.db.WithContext(ctx).
		Where("company_name = ? AND product_quantity < ?", companyName, LimitedStockThreshold).
		Order("product_quantity ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// AdjustQuantity moves the stock counter by delta in a single conditional
// statement. A negative delta only lands when enough stock remains, which
// makes the UPDATE the serialization point under concurrent requests.
func (r *repositoryImpl) AdjustQuantity(ctx context.Context, id uuid.UUID, delta int) error {
	if delta == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity delta must be non-zero")
	}

	if delta > 0 {
		res := r.db.WithContext(ctx).
			Model(&models.Asset{}).
			Where("id = ?", id).
			UpdateColumn("product_quantity", gorm.Expr("product_quantity + ?", delta))
		if res.Error != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInventoryUpdate, res.Error, "restore stock")
		}
		if res.RowsAffected != 1 {
			return pkgerrors.New(pkgerrors.CodeInventoryUpdate, "stock restore matched no asset")
		}
		return nil
	}

	need := -delta
	res := r.db.WithContext(ctx).
		Model(&models.Asset{}).
		Where("id = ? AND product_quantity >= ?", id, need).
		UpdateColumn("product_quantity", gorm.Expr("product_quantity - ?", need))
	if res.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInventoryUpdate, res.Error, "reserve stock")
	}
	if res.RowsAffected == 1 {
		return nil
	}

	// No row matched: tell an exhausted asset apart from a missing one.
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Asset{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInventoryUpdate, err, "verify asset")
	}
	if count == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "asset not found")
	}
	return pkgerrors.New(pkgerrors.CodeOutOfStock, "asset is out of stock")
}
