package requests

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/assetmanage/assetmanage-backend/pkg/db/models"
	"github.com/assetmanage/assetmanage-backend/pkg/enums"
	pkgerrors "github.com/assetmanage/assetmanage-backend/pkg/errors"
	"github.com/assetmanage/assetmanage-backend/pkg/pagination"
)

// TransitionResult reports what a guarded status update did. When the guard
// failed on an existing row, Current carries the status that blocked it.
type TransitionResult struct {
	Found   bool
	Updated bool
	Current enums.RequestStatus
}

// Repository exposes asset-request persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, request *models.AssetRequest) (*models.AssetRequest, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.AssetRequest, error)
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to enums.RequestStatus, approvalDate *time.Time) (TransitionResult, error)
	List(ctx context.Context, filters ListFilters, params pagination.Params) (*RequestListDTO, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository constructs a requests repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, request *models.AssetRequest) (*models.AssetRequest, error) {
	if request.ID == uuid.Nil {
		request.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(request).Error; err != nil {
		return nil, err
	}
	return request, nil
}

func (r *repositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*models.AssetRequest, error) {
	var request models.AssetRequest
	if err := r.db.WithContext(ctx).First(&request, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

// TransitionStatus flips status only when the row still holds from. The
// guarded UPDATE keeps two concurrent deciders from both winning.
func (r *repositoryImpl) TransitionStatus(ctx context.Context, id uuid.UUID, from, to enums.RequestStatus, approvalDate *time.Time) (TransitionResult, error) {
	updates := map[string]any{"status": to}
	if approvalDate != nil {
		updates["approval_date"] = *approvalDate
	}

	res := r.db.WithContext(ctx).
		Model(&models.AssetRequest{}).
		Where("id = ? AND status = ?", id, from).
		UpdateColumns(updates)
	if res.Error != nil {
		return TransitionResult{}, res.Error
	}
	if res.RowsAffected > 0 {
		return TransitionResult{Found: true, Updated: true, Current: to}, nil
	}

	var current models.AssetRequest
	err := r.db.WithContext(ctx).
		Select("status").
		First(&current, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return TransitionResult{}, nil
		}
		return TransitionResult{}, err
	}
	return TransitionResult{Found: true, Current: current.Status}, nil
}

func (r *repositoryImpl) List(ctx context.Context, filters ListFilters, params pagination.Params) (*RequestListDTO, error) {
	normalizedLimit := pagination.NormalizeLimit(params.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(params.Limit)
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	query := r.db.WithContext(ctx).Model(&models.AssetRequest{})
	if filters.RequesterEmail != "" {
		query = query.Where("requester_email = ?", strings.ToLower(filters.RequesterEmail))
	}
	if filters.Company != "" {
		query = query.Where("requester_company = ?", filters.Company)
	}
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.AssetType != nil {
		query = query.Where("asset_type = ?", *filters.AssetType)
	}
	if q := strings.TrimSpace(filters.Query); q != "" {
		query = query.Where("LOWER(asset_name) LIKE ?", "%"+strings.ToLower(q)+"%")
	}
	if cursor != nil {
		query = query.Where("(request_date < ?) OR (request_date = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var rows []models.AssetRequest
	err = query.Order("request_date DESC").Order("id DESC").Limit(limitWithBuffer).Find(&rows).Error
	if err != nil {
		return nil, err
	}

	nextCursor := ""
	if len(rows) > normalizedLimit {
		rows = rows[:normalizedLimit]
		last := rows[len(rows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.RequestDate, ID: last.ID})
	}

	return &RequestListDTO{Items: FromModels(rows), Cursor: nextCursor}, nil
}
