package payments

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v84"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/assetmanage/assetmanage-backend/internal/users"
	"github.com/assetmanage/assetmanage-backend/pkg/db/models"
	"github.com/assetmanage/assetmanage-backend/pkg/enums"
	pkgerrors "github.com/assetmanage/assetmanage-backend/pkg/errors"
)

type gormTxRunner struct {
	db *gorm.DB
}

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

type fakeStripeClient struct {
	lastAmount int64
}

func (f *fakeStripeClient) CreateIntent(ctx context.Context, params *stripe.PaymentIntentCreateParams) (*stripe.PaymentIntent, error) {
	f.lastAmount = *params.Amount
	return &stripe.PaymentIntent{ClientSecret: "pi_test_secret"}, nil
}

type paymentsHarness struct {
	db  *gorm.DB
	svc Service
}

func newPaymentsHarness(t *testing.T, stripeClient StripePaymentClient) *paymentsHarness {
	t.Helper()
	dsn := "file:payments_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Payment{}))

	svc, err := NewService(NewRepository(db), users.NewRepository(db), gormTxRunner{db: db}, stripeClient)
	require.NoError(t, err)
	return &paymentsHarness{db: db, svc: svc}
}

func (h *paymentsHarness) seedHR(t *testing.T, email, company string) *models.User {
	t.Helper()
	user := &models.User{
		ID:          uuid.New(),
		Email:       email,
		Name:        "HR Admin",
		Role:        enums.UserRoleHR,
		CompanyName: &company,
	}
	require.NoError(t, h.db.Create(user).Error)
	return user
}

func (h *paymentsHarness) reloadUser(t *testing.T, email string) *models.User {
	t.Helper()
	var user models.User
	require.NoError(t, h.db.First(&user, "email = ?", email).Error)
	return &user
}

func TestCreateIntentUsesPackagePrice(t *testing.T) {
	t.Parallel()

	fake := &fakeStripeClient{}
	h := newPaymentsHarness(t, fake)

	intent, err := h.svc.CreateIntent(context.Background(), enums.BillingPackageStandard)
	require.NoError(t, err)
	assert.Equal(t, "pi_test_secret", intent.ClientSecret)
	assert.Equal(t, PriceCentsFor(enums.BillingPackageStandard), intent.AmountCents)
	assert.Equal(t, int64(PriceCentsFor(enums.BillingPackageStandard)), fake.lastAmount)

	_, err = h.svc.CreateIntent(context.Background(), "gold")
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
}

func TestRecordPaymentActivatesPackage(t *testing.T) {
	t.Parallel()

	h := newPaymentsHarness(t, nil)
	h.seedHR(t, "hr@acme.test", "Acme")

	dto, err := h.svc.RecordPayment(context.Background(), RecordPaymentDTO{
		HREmail:       "hr@acme.test",
		TransactionID: "txn_001",
		Package:       enums.BillingPackageStarter,
	})
	require.NoError(t, err)
	assert.Equal(t, "Acme", dto.CompanyName)
	assert.Equal(t, PriceCentsFor(enums.BillingPackageStarter), dto.PriceCents)

	user := h.reloadUser(t, "hr@acme.test")
	assert.True(t, user.PaymentStatus)
	require.NotNil(t, user.Package)
	assert.Equal(t, enums.BillingPackageStarter, *user.Package)
	assert.Equal(t, enums.BillingPackageStarter.MemberLimit(), user.MemberLimit)
}

func TestRecordPaymentDuplicateTransaction(t *testing.T) {
	t.Parallel()

	h := newPaymentsHarness(t, nil)
	h.seedHR(t, "hr@acme.test", "Acme")

	_, err := h.svc.RecordPayment(context.Background(), RecordPaymentDTO{
		HREmail:       "hr@acme.test",
		TransactionID: "txn_dup",
		Package:       enums.BillingPackageStarter,
	})
	require.NoError(t, err)

	_, err = h.svc.RecordPayment(context.Background(), RecordPaymentDTO{
		HREmail:       "hr@acme.test",
		TransactionID: "txn_dup",
		Package:       enums.BillingPackageStandard,
	})
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeConflict))

	// The failed upgrade attempt must not have touched the account.
	user := h.reloadUser(t, "hr@acme.test")
	require.NotNil(t, user.Package)
	assert.Equal(t, enums.BillingPackageStarter, *user.Package)
}

func TestRecordPaymentNonHR(t *testing.T) {
	t.Parallel()

	h := newPaymentsHarness(t, nil)
	require.NoError(t, h.db.Create(&models.User{
		ID:    uuid.New(),
		Email: "emp@acme.test",
		Name:  "Emp",
		Role:  enums.UserRoleEmployee,
	}).Error)

	_, err := h.svc.RecordPayment(context.Background(), RecordPaymentDTO{
		HREmail:       "emp@acme.test",
		TransactionID: "txn_002",
		Package:       enums.BillingPackageStarter,
	})
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeForbidden))
}

func TestUpgradePackage(t *testing.T) {
	t.Parallel()

	h := newPaymentsHarness(t, nil)
	h.seedHR(t, "hr@acme.test", "Acme")

	_, err := h.svc.RecordPayment(context.Background(), RecordPaymentDTO{
		HREmail:       "hr@acme.test",
		TransactionID: "txn_init",
		Package:       enums.BillingPackageStarter,
	})
	require.NoError(t, err)

	// Downgrades and sideways moves are refused.
	_, err = h.svc.UpgradePackage(context.Background(), UpgradePackageDTO{
		HREmail:       "hr@acme.test",
		TransactionID: "txn_same",
		Package:       enums.BillingPackageStarter,
	})
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))

	dto, err := h.svc.UpgradePackage(context.Background(), UpgradePackageDTO{
		HREmail:       "hr@acme.test",
		TransactionID: "txn_up",
		Package:       enums.BillingPackagePremium,
	})
	require.NoError(t, err)
	assert.Equal(t, enums.BillingPackagePremium, dto.Package)

	user := h.reloadUser(t, "hr@acme.test")
	require.NotNil(t, user.Package)
	assert.Equal(t, enums.BillingPackagePremium, *user.Package)
	assert.Equal(t, enums.BillingPackagePremium.MemberLimit(), user.MemberLimit)

	history, err := h.svc.ListByHR(context.Background(), "hr@acme.test")
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestUpgradeWithoutActivePackage(t *testing.T) {
	t.Parallel()

	h := newPaymentsHarness(t, nil)
	h.seedHR(t, "hr@acme.test", "Acme")

	_, err := h.svc.UpgradePackage(context.Background(), UpgradePackageDTO{
		HREmail:       "hr@acme.test",
		TransactionID: "txn_up",
		Package:       enums.BillingPackagePremium,
	})
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeConflict))
}
