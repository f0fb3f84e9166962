package payments

import (
	"context"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v84"
	"gorm.io/gorm"

	"github.com/assetmanage/assetmanage-backend/internal/users"
	"github.com/assetmanage/assetmanage-backend/pkg/db"
	"github.com/assetmanage/assetmanage-backend/pkg/db/models"
	"github.com/assetmanage/assetmanage-backend/pkg/enums"
	pkgerrors "github.com/assetmanage/assetmanage-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service defines billing operations for HR accounts.
type Service interface {
	CreateIntent(ctx context.Context, pkg enums.BillingPackage) (*IntentDTO, error)
	RecordPayment(ctx context.Context, input RecordPaymentDTO) (*PaymentDTO, error)
	UpgradePackage(ctx context.Context, input UpgradePackageDTO) (*PaymentDTO, error)
	ListByHR(ctx context.Context, hrEmail string) ([]PaymentDTO, error)
}

type service struct {
	repo   Repository
	users  users.Repository
	tx     txRunner
	stripe StripePaymentClient
}

// NewService builds a payments service. The stripe client may be nil when
// intents are created elsewhere; RecordPayment and UpgradePackage still work.
func NewService(repo Repository, userRepo users.Repository, tx txRunner, stripeClient StripePaymentClient) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("payments repository required")
	}
	if userRepo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		repo:   repo,
		users:  userRepo,
		tx:     tx,
		stripe: stripeClient,
	}, nil
}

func (s *service) CreateIntent(ctx context.Context, pkg enums.BillingPackage) (*IntentDTO, error) {
	if !pkg.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown billing package")
	}
	if s.stripe == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "stripe is not configured")
	}

	amount := PriceCentsFor(pkg)
	intent, err := s.stripe.CreateIntent(ctx, &stripe.PaymentIntentCreateParams{
		Amount:             stripe.Int64(int64(amount)),
		Currency:           stripe.String(string(stripe.CurrencyUSD)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create payment intent")
	}
	return &IntentDTO{ClientSecret: intent.ClientSecret, AmountCents: amount}, nil
}

// RecordPayment stores a confirmed purchase and activates the package on the
// HR account. Both writes land or neither does.
func (s *service) RecordPayment(ctx context.Context, input RecordPaymentDTO) (*PaymentDTO, error) {
	admin, err := s.validateInput(ctx, input.HREmail, input.TransactionID, input.Package)
	if err != nil {
		return nil, err
	}

	var created *models.Payment
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		created, err = s.repo.WithTx(tx).Create(ctx, &models.Payment{
			HREmail:       admin.Email,
			CompanyName:   *admin.CompanyName,
			TransactionID: input.TransactionID,
			Package:       input.Package,
			PriceCents:    PriceCentsFor(input.Package),
			PaymentStatus: true,
		})
		if err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, "transaction already recorded")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record payment")
		}

		err = s.users.WithTx(tx).UpdateBilling(ctx, admin.Email, map[string]any{
			"payment_status": true,
			"package":        input.Package,
			"member_limit":   input.Package.MemberLimit(),
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "activate package")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return FromModel(created), nil
}

// UpgradePackage moves a paying account to a bigger tier and logs the charge.
func (s *service) UpgradePackage(ctx context.Context, input UpgradePackageDTO) (*PaymentDTO, error) {
	admin, err := s.validateInput(ctx, input.HREmail, input.TransactionID, input.Package)
	if err != nil {
		return nil, err
	}
	if !admin.PaymentStatus || admin.Package == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "no active package to upgrade")
	}
	if input.Package.MemberLimit() <= admin.MemberLimit {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "target package is not an upgrade")
	}

	var created *models.Payment
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		created, err = s.repo.WithTx(tx).Create(ctx, &models.Payment{
			HREmail:       admin.Email,
			CompanyName:   *admin.CompanyName,
			TransactionID: input.TransactionID,
			Package:       input.Package,
			PriceCents:    PriceCentsFor(input.Package),
			PaymentStatus: true,
		})
		if err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, "transaction already recorded")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record payment")
		}

		err = s.users.WithTx(tx).UpdateBilling(ctx, admin.Email, map[string]any{
			"package":      input.Package,
			"member_limit": input.Package.MemberLimit(),
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upgrade package")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return FromModel(created), nil
}

func (s *service) ListByHR(ctx context.Context, hrEmail string) ([]PaymentDTO, error) {
	rows, err := s.repo.ListByHR(ctx, strings.ToLower(hrEmail))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list payments")
	}
	out := make([]PaymentDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) validateInput(ctx context.Context, hrEmail, transactionID string, pkg enums.BillingPackage) (*models.User, error) {
	if strings.TrimSpace(transactionID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction id required")
	}
	if !pkg.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown billing package")
	}

	admin, err := s.users.FindByEmail(ctx, strings.ToLower(hrEmail))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "hr account not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load hr account")
	}
	if admin.Role != enums.UserRoleHR || admin.CompanyName == nil {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "hr account with a company required")
	}
	return admin, nil
}
