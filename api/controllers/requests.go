package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/assetmanage/assetmanage-backend/api/middleware"
	"github.com/assetmanage/assetmanage-backend/api/responses"
	"github.com/assetmanage/assetmanage-backend/api/validators"
	"github.com/assetmanage/assetmanage-backend/internal/requests"
	"github.com/assetmanage/assetmanage-backend/pkg/enums"
	pkgerrors "github.com/assetmanage/assetmanage-backend/pkg/errors"
	"github.com/assetmanage/assetmanage-backend/pkg/logger"
	"github.com/assetmanage/assetmanage-backend/pkg/pagination"
)

type createRequestRequest struct {
	AssetID       string  `json:"asset_id" validate:"required,uuid4"`
	RequesterName string  `json:"requester_name" validate:"required"`
	Note          *string `json:"note,omitempty"`
}

type decideRequestRequest struct {
	Decision string `json:"decision" validate:"required,oneof=approve reject"`
}

// CreateRequest reserves one unit of an asset for the calling employee.
func CreateRequest(svc requests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body createRequestRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		assetID, err := uuid.Parse(body.AssetID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid asset id"))
			return
		}

		company, err := companyContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.Create(r.Context(), requests.CreateRequestDTO{
			AssetID:          assetID,
			RequesterEmail:   middleware.EmailFromContext(r.Context()),
			RequesterName:    body.RequesterName,
			RequesterCompany: company,
			Note:             body.Note,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

// ListRequests returns the request ledger with requester/company/status filters.
func ListRequests(svc requests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", 0, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters := requests.ListFilters{
			RequesterEmail: r.URL.Query().Get("requester"),
			Company:        r.URL.Query().Get("company"),
			Query:          r.URL.Query().Get("q"),
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, err := enums.ParseRequestStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter"))
				return
			}
			filters.Status = &status
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("type")); raw != "" {
			assetType, err := enums.ParseAssetType(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid type filter"))
				return
			}
			filters.AssetType = &assetType
		}

		// Employees only ever see their own requests; HR sees the company.
		switch middleware.RoleFromContext(r.Context()) {
		case string(enums.UserRoleEmployee):
			filters.RequesterEmail = middleware.EmailFromContext(r.Context())
		case string(enums.UserRoleHR):
			if filters.Company == "" {
				filters.Company = middleware.CompanyFromContext(r.Context())
			}
		}

		list, err := svc.List(r.Context(), filters, pagination.Params{
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

// DecideRequest lets an HR admin approve or reject a pending request.
func DecideRequest(svc requests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID, err := uuid.Parse(chi.URLParam(r, "requestId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request id"))
			return
		}

		var body decideRequestRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		decided, err := svc.Decide(r.Context(), requests.DecideInput{
			RequestID:    requestID,
			Decision:     requests.Decision(body.Decision),
			ActorEmail:   middleware.EmailFromContext(r.Context()),
			ActorCompany: middleware.CompanyFromContext(r.Context()),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, decided)
	}
}

// CancelRequest withdraws the caller's own pending request.
func CancelRequest(svc requests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID, err := uuid.Parse(chi.URLParam(r, "requestId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request id"))
			return
		}

		cancelled, err := svc.Cancel(r.Context(), requestID, middleware.EmailFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cancelled)
	}
}

// ReturnRequest hands an approved asset back into stock.
func ReturnRequest(svc requests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID, err := uuid.Parse(chi.URLParam(r, "requestId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request id"))
			return
		}

		returned, err := svc.Return(r.Context(), requestID, middleware.EmailFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, returned)
	}
}
