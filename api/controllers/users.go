package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/assetmanage/assetmanage-backend/api/middleware"
	"github.com/assetmanage/assetmanage-backend/api/responses"
	"github.com/assetmanage/assetmanage-backend/api/validators"
	"github.com/assetmanage/assetmanage-backend/internal/users"
	"github.com/assetmanage/assetmanage-backend/pkg/enums"
	pkgerrors "github.com/assetmanage/assetmanage-backend/pkg/errors"
	"github.com/assetmanage/assetmanage-backend/pkg/logger"
)

type registerUserRequest struct {
	Email       string     `json:"email" validate:"required,email"`
	Name        string     `json:"name" validate:"required"`
	Role        string     `json:"role" validate:"required,oneof=hr employee"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	PhotoURL    *string    `json:"photo_url,omitempty"`
	CompanyName *string    `json:"company_name,omitempty"`
	CompanyLogo *string    `json:"company_logo,omitempty"`
}

type renameUserRequest struct {
	Name string `json:"name" validate:"required,min=1,max=120"`
}

type updateUserCompanyRequest struct {
	Action string `json:"action" validate:"required,oneof=assign unassign"`
}

// RegisterUser creates an account. HR accounts claim a company name.
func RegisterUser(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body registerUserRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		role, err := enums.ParseUserRole(body.Role)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid role"))
			return
		}

		created, err := svc.Register(r.Context(), users.RegisterUserDTO{
			Email:       body.Email,
			Name:        body.Name,
			Role:        role,
			DateOfBirth: body.DateOfBirth,
			PhotoURL:    body.PhotoURL,
			CompanyName: body.CompanyName,
			CompanyLogo: body.CompanyLogo,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

// GetUser returns a single account by email.
func GetUser(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := svc.GetByEmail(r.Context(), chi.URLParam(r, "email"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, user)
	}
}

// ProbeRole answers the hr/employee guards the frontend polls.
func ProbeRole(svc users.Service, role enums.UserRole, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		match, err := svc.HasRole(r.Context(), chi.URLParam(r, "email"), role)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{string(role): match})
	}
}

// RenameUser updates the caller's display name.
func RenameUser(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body renameUserRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		email := middleware.EmailFromContext(r.Context())
		if email == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}

		updated, err := svc.Rename(r.Context(), email, body.Name)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}

// UpdateUserCompany lets an HR admin attach or detach an employee.
func UpdateUserCompany(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := uuid.Parse(chi.URLParam(r, "userId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user id"))
			return
		}

		var body updateUserCompanyRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actor := middleware.EmailFromContext(r.Context())
		var updated *users.UserDTO
		if body.Action == "assign" {
			updated, err = svc.AssignCompany(r.Context(), users.AssignCompanyInput{ActorEmail: actor, UserID: userID})
		} else {
			updated, err = svc.UnassignCompany(r.Context(), actor, userID)
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}

// ListCompanyUsers returns everyone attached to a company.
func ListCompanyUsers(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.ListByCompany(r.Context(), chi.URLParam(r, "companyName"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// ListOwnCompanyUsers returns the members of the caller's company.
func ListOwnCompanyUsers(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		company, err := companyContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListByCompany(r.Context(), company)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}
