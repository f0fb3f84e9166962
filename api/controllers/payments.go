package controllers

import (
	"net/http"

	"github.com/assetmanage/assetmanage-backend/api/middleware"
	"github.com/assetmanage/assetmanage-backend/api/responses"
	"github.com/assetmanage/assetmanage-backend/api/validators"
	"github.com/assetmanage/assetmanage-backend/internal/payments"
	"github.com/assetmanage/assetmanage-backend/pkg/enums"
	pkgerrors "github.com/assetmanage/assetmanage-backend/pkg/errors"
	"github.com/assetmanage/assetmanage-backend/pkg/logger"
)

type createIntentRequest struct {
	Package string `json:"package" validate:"required,oneof=starter standard premium"`
}

type recordPaymentRequest struct {
	TransactionID string `json:"transaction_id" validate:"required"`
	Package       string `json:"package" validate:"required,oneof=starter standard premium"`
}

// CreatePaymentIntent opens a Stripe payment intent for the selected package.
func CreatePaymentIntent(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body createIntentRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		pkg, err := enums.ParseBillingPackage(body.Package)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid billing package"))
			return
		}

		intent, err := svc.CreateIntent(r.Context(), pkg)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, intent)
	}
}

// RecordPayment persists a confirmed charge and activates the package.
func RecordPayment(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body recordPaymentRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		pkg, err := enums.ParseBillingPackage(body.Package)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid billing package"))
			return
		}

		recorded, err := svc.RecordPayment(r.Context(), payments.RecordPaymentDTO{
			HREmail:       middleware.EmailFromContext(r.Context()),
			TransactionID: body.TransactionID,
			Package:       pkg,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, recorded)
	}
}

// UpgradePackage moves the HR account to a larger tier.
func UpgradePackage(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body recordPaymentRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		pkg, err := enums.ParseBillingPackage(body.Package)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid billing package"))
			return
		}

		upgraded, err := svc.UpgradePackage(r.Context(), payments.UpgradePackageDTO{
			HREmail:       middleware.EmailFromContext(r.Context()),
			TransactionID: body.TransactionID,
			Package:       pkg,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, upgraded)
	}
}

// ListPayments returns the billing history for the calling HR account.
func ListPayments(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		history, err := svc.ListByHR(r.Context(), middleware.EmailFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, history)
	}
}
