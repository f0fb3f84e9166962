package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/assetmanage/assetmanage-backend/api/middleware"
	"github.com/assetmanage/assetmanage-backend/api/responses"
	"github.com/assetmanage/assetmanage-backend/api/validators"
	"github.com/assetmanage/assetmanage-backend/internal/assets"
	"github.com/assetmanage/assetmanage-backend/pkg/enums"
	pkgerrors "github.com/assetmanage/assetmanage-backend/pkg/errors"
	"github.com/assetmanage/assetmanage-backend/pkg/logger"
	"github.com/assetmanage/assetmanage-backend/pkg/pagination"
)

type createAssetRequest struct {
	ProductName     string `json:"product_name" validate:"required,min=1,max=200"`
	ProductType     string `json:"product_type" validate:"required"`
	ProductQuantity int    `json:"product_quantity" validate:"min=0"`
}

type updateAssetRequest struct {
	ProductName     *string `json:"product_name,omitempty"`
	ProductType     *string `json:"product_type,omitempty"`
	ProductQuantity *int    `json:"product_quantity,omitempty"`
}

func companyContext(r *http.Request) (string, error) {
	company := middleware.CompanyFromContext(r.Context())
	if company == "" {
		return "", pkgerrors.New(pkgerrors.CodeForbidden, "company context missing")
	}
	return company, nil
}

// CreateAsset catalogues a new asset for the caller's company.
func CreateAsset(svc assets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		company, err := companyContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body createAssetRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		assetType, err := enums.ParseAssetType(body.ProductType)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product type"))
			return
		}

		created, err := svc.Create(r.Context(), assets.CreateAssetDTO{
			CompanyName:     company,
			ProductName:     body.ProductName,
			ProductType:     assetType,
			ProductQuantity: body.ProductQuantity,
			AddedBy:         middleware.EmailFromContext(r.Context()),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

// GetAsset returns a single asset by id.
func GetAsset(svc assets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "assetId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid asset id"))
			return
		}

		asset, err := svc.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, asset)
	}
}

// UpdateAsset applies a partial update to a company-owned asset.
func UpdateAsset(svc assets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		company, err := companyContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "assetId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid asset id"))
			return
		}

		var body updateAssetRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := assets.UpdateAssetDTO{
			ProductName:     body.ProductName,
			ProductQuantity: body.ProductQuantity,
		}
		if body.ProductType != nil {
			assetType, err := enums.ParseAssetType(*body.ProductType)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product type"))
				return
			}
			input.ProductType = &assetType
		}

		updated, err := svc.Update(r.Context(), company, id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}

// DeleteAsset removes a company-owned asset.
func DeleteAsset(svc assets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		company, err := companyContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "assetId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid asset id"))
			return
		}

		if err := svc.Delete(r.Context(), company, id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// ListAssets returns the company catalogue with search and stock filters.
func ListAssets(svc assets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		company, err := companyContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 0, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters := assets.ListFilters{
			Query: r.URL.Query().Get("q"),
		}
		switch strings.TrimSpace(r.URL.Query().Get("stock")) {
		case "":
		case string(assets.AvailabilityAvailable):
			filters.Availability = assets.AvailabilityAvailable
		case string(assets.AvailabilityOutOfStock):
			filters.Availability = assets.AvailabilityOutOfStock
		default:
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "stock must be available or out-of-stock"))
			return
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("type")); raw != "" {
			assetType, err := enums.ParseAssetType(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid type filter"))
				return
			}
			filters.ProductType = &assetType
		}

		list, err := svc.List(r.Context(), company, filters, pagination.Params{
			Limit:  limit,
			Cursor: r.URL.Query().Get("cursor"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// ListLimitedStock reports assets running low for the caller's company.
func ListLimitedStock(svc assets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		company, err := companyContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListLimitedStock(r.Context(), company)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}
