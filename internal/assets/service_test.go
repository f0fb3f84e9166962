package assets

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/assetmanage/assetmanage-backend/pkg/db/models"
	"github.com/assetmanage/assetmanage-backend/pkg/enums"
	pkgerrors "github.com/assetmanage/assetmanage-backend/pkg/errors"
	"github.com/assetmanage/assetmanage-backend/pkg/pagination"
)

type stubAssetsRepo struct {
	byID    map[uuid.UUID]*models.Asset
	updates map[string]any
	deleted []uuid.UUID
}

func newStubAssetsRepo() *stubAssetsRepo {
	return &stubAssetsRepo{byID: map[uuid.UUID]*models.Asset{}}
}

func (s *stubAssetsRepo) add(asset *models.Asset) *models.Asset {
	if asset.ID == uuid.Nil {
		asset.ID = uuid.New()
	}
	s.byID[asset.ID] = asset
	return asset
}

func (s *stubAssetsRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubAssetsRepo) Create(ctx context.Context, asset *models.Asset) (*models.Asset, error) {
	return s.add(asset), nil
}

func (s *stubAssetsRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Asset, error) {
	if asset, ok := s.byID[id]; ok {
		return asset, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubAssetsRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	if _, ok := s.byID[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	s.updates = updates
	return nil
}

func (s *stubAssetsRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := s.byID[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(s.byID, id)
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *stubAssetsRepo) List(ctx context.Context, companyName string, filters ListFilters, params pagination.Params) (*AssetListDTO, error) {
	return &AssetListDTO{}, nil
}

func (s *stubAssetsRepo) ListLimitedStock(ctx context.Context, companyName string) ([]models.Asset, error) {
	return nil, nil
}

func (s *stubAssetsRepo) AdjustQuantity(ctx context.Context, id uuid.UUID, delta int) error {
	return nil
}

func TestCreateValidatesInput(t *testing.T) {
	t.Parallel()

	repo := newStubAssetsRepo()
	svc, err := NewService(repo)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), CreateAssetDTO{
		CompanyName: "acme",
		ProductName: " ",
		ProductType: enums.AssetTypeReturnable,
	})
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))

	_, err = svc.Create(context.Background(), CreateAssetDTO{
		CompanyName:     "acme",
		ProductName:     "Laptop",
		ProductType:     "Leased",
		ProductQuantity: 1,
	})
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
	assert.Empty(t, repo.byID)
}

func TestUpdateRejectsForeignCompany(t *testing.T) {
	t.Parallel()

	repo := newStubAssetsRepo()
	asset := repo.add(&models.Asset{
		CompanyName:     "globex",
		ProductName:     "Printer",
		ProductType:     enums.AssetTypeNonReturnable,
		ProductQuantity: 2,
	})
	svc, err := NewService(repo)
	require.NoError(t, err)

	name := "Printer XL"
	_, err = svc.Update(context.Background(), "acme", asset.ID, UpdateAssetDTO{ProductName: &name})
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeForbidden))
	assert.Nil(t, repo.updates)
}

func TestDeleteOwnedAsset(t *testing.T) {
	t.Parallel()

	repo := newStubAssetsRepo()
	asset := repo.add(&models.Asset{
		CompanyName:     "acme",
		ProductName:     "Printer",
		ProductType:     enums.AssetTypeNonReturnable,
		ProductQuantity: 2,
	})
	svc, err := NewService(repo)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), "acme", asset.ID))
	assert.Equal(t, []uuid.UUID{asset.ID}, repo.deleted)
}
