package assets

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/assetmanage/assetmanage-backend/pkg/db/models"
	pkgerrors "github.com/assetmanage/assetmanage-backend/pkg/errors"
	"github.com/assetmanage/assetmanage-backend/pkg/pagination"
)

// Service defines catalogue-level asset operations. Stock adjustments are not
// exposed here; they only happen inside request-lifecycle transactions.
type Service interface {
	Create(ctx context.Context, input CreateAssetDTO) (*AssetDTO, error)
	GetByID(ctx context.Context, id uuid.UUID) (*AssetDTO, error)
	Update(ctx context.Context, companyName string, id uuid.UUID, input UpdateAssetDTO) (*AssetDTO, error)
	Delete(ctx context.Context, companyName string, id uuid.UUID) error
	List(ctx context.Context, companyName string, filters ListFilters, params pagination.Params) (*AssetListDTO, error)
	ListLimitedStock(ctx context.Context, companyName string) ([]AssetDTO, error)
}

type service struct {
	repo Repository
}

// NewService builds an assets service over the given repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("assets repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateAssetDTO) (*AssetDTO, error) {
	input.ProductName = strings.TrimSpace(input.ProductName)
	if input.ProductName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name required")
	}
	if !input.ProductType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product type must be Returnable or Non-Returnable")
	}
	if input.ProductQuantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product quantity cannot be negative")
	}
	if strings.TrimSpace(input.CompanyName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "company name required")
	}

	created, err := s.repo.Create(ctx, input.ToModel())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create asset")
	}
	return FromModel(created), nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*AssetDTO, error) {
	asset, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "asset not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load asset")
	}
	return FromModel(asset), nil
}

func (s *service) Update(ctx context.Context, companyName string, id uuid.UUID, input UpdateAssetDTO) (*AssetDTO, error) {
	asset, err := s.ownedAsset(ctx, companyName, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.ProductName != nil {
		name := strings.TrimSpace(*input.ProductName)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name required")
		}
		updates["product_name"] = name
	}
	if input.ProductType != nil {
		if !input.ProductType.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product type must be Returnable or Non-Returnable")
		}
		updates["product_type"] = *input.ProductType
	}
	if input.ProductQuantity != nil {
		if *input.ProductQuantity < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product quantity cannot be negative")
		}
		updates["product_quantity"] = *input.ProductQuantity
	}
	if len(updates) == 0 {
		return FromModel(asset), nil
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "asset not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update asset")
	}
	return s.GetByID(ctx, id)
}

func (s *service) Delete(ctx context.Context, companyName string, id uuid.UUID) error {
	if _, err := s.ownedAsset(ctx, companyName, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return pkgerrors.New(pkgerrors.CodeNotFound, "asset not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete asset")
	}
	return nil
}

func (s *service) List(ctx context.Context, companyName string, filters ListFilters, params pagination.Params) (*AssetListDTO, error) {
	if strings.TrimSpace(companyName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "company name required")
	}
	list, err := s.repo.List(ctx, companyName, filters, params)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list assets")
	}
	return list, nil
}

func (s *service) ListLimitedStock(ctx context.Context, companyName string) ([]AssetDTO, error) {
	if strings.TrimSpace(companyName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "company name required")
	}
	rows, err := s.repo.ListLimitedStock(ctx, companyName)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list limited stock")
	}
	return FromModels(rows), nil
}

func (s *service) ownedAsset(ctx context.Context, companyName string, id uuid.UUID) (*models.Asset, error) {
	asset, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "asset not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load asset")
	}
	if asset.CompanyName != companyName {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "asset belongs to another company")
	}
	return asset, nil
}
