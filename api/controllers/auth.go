package controllers

import (
	"net/http"
	"time"

	"github.com/assetmanage/assetmanage-backend/api/responses"
	"github.com/assetmanage/assetmanage-backend/api/validators"
	"github.com/assetmanage/assetmanage-backend/internal/users"
	pkgauth "github.com/assetmanage/assetmanage-backend/pkg/auth"
	"github.com/assetmanage/assetmanage-backend/pkg/config"
	pkgerrors "github.com/assetmanage/assetmanage-backend/pkg/errors"
	"github.com/assetmanage/assetmanage-backend/pkg/logger"
)

type issueTokenRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type issueTokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}

// IssueToken mints an access token carrying the account's role and company.
func IssueToken(cfg config.JWTConfig, svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body issueTokenRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.GetByEmail(r.Context(), body.Email)
		if err != nil {
			if pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "unknown account"))
				return
			}
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		token, err := pkgauth.MintAccessToken(cfg, time.Now(), pkgauth.AccessTokenPayload{
			Email:       user.Email,
			Name:        user.Name,
			Role:        user.Role,
			CompanyName: user.CompanyName,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint token"))
			return
		}

		responses.WriteSuccess(w, issueTokenResponse{
			Token:     token,
			ExpiresIn: int(cfg.TokenTTL().Seconds()),
		})
	}
}
