package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/assetmanage/assetmanage-backend/api/middleware"
	"github.com/assetmanage/assetmanage-backend/internal/payments"
	"github.com/assetmanage/assetmanage-backend/pkg/enums"
)

type testPaymentsService struct {
	intentFn  func(ctx context.Context, pkg enums.BillingPackage) (*payments.IntentDTO, error)
	recordFn  func(ctx context.Context, input payments.RecordPaymentDTO) (*payments.PaymentDTO, error)
	upgradeFn func(ctx context.Context, input payments.UpgradePackageDTO) (*payments.PaymentDTO, error)
}

func (s *testPaymentsService) CreateIntent(ctx context.Context, pkg enums.BillingPackage) (*payments.IntentDTO, error) {
	if s.intentFn != nil {
		return s.intentFn(ctx, pkg)
	}
	return &payments.IntentDTO{}, nil
}

func (s *testPaymentsService) RecordPayment(ctx context.Context, input payments.RecordPaymentDTO) (*payments.PaymentDTO, error) {
	if s.recordFn != nil {
		return s.recordFn(ctx, input)
	}
	return &payments.PaymentDTO{}, nil
}

func (s *testPaymentsService) UpgradePackage(ctx context.Context, input payments.UpgradePackageDTO) (*payments.PaymentDTO, error) {
	if s.upgradeFn != nil {
		return s.upgradeFn(ctx, input)
	}
	return &payments.PaymentDTO{}, nil
}

func (s *testPaymentsService) ListByHR(ctx context.Context, hrEmail string) ([]payments.PaymentDTO, error) {
	return []payments.PaymentDTO{}, nil
}

func TestCreatePaymentIntentParsesPackage(t *testing.T) {
	var captured enums.BillingPackage
	svc := &testPaymentsService{
		intentFn: func(ctx context.Context, pkg enums.BillingPackage) (*payments.IntentDTO, error) {
			captured = pkg
			return &payments.IntentDTO{ClientSecret: "cs_test", AmountCents: 800}, nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/intent", strings.NewReader(`{"package":"standard"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	CreatePaymentIntent(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	if captured != enums.BillingPackageStandard {
		t.Fatalf("unexpected package %q", captured)
	}

	var envelope struct {
		Data payments.IntentDTO `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Data.AmountCents != 800 {
		t.Fatalf("unexpected amount %d", envelope.Data.AmountCents)
	}
}

func TestCreatePaymentIntentRejectsUnknownPackage(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/intent", strings.NewReader(`{"package":"enterprise"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	CreatePaymentIntent(&testPaymentsService{}, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestRecordPaymentUsesActorEmail(t *testing.T) {
	var captured payments.RecordPaymentDTO
	svc := &testPaymentsService{
		recordFn: func(ctx context.Context, input payments.RecordPaymentDTO) (*payments.PaymentDTO, error) {
			captured = input
			return &payments.PaymentDTO{}, nil
		},
	}

	body := `{"transaction_id":"txn_123","package":"premium"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(middleware.WithEmail(req.Context(), "admin@example.com"))
	resp := httptest.NewRecorder()
	RecordPayment(svc, testLogger())(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	if captured.HREmail != "admin@example.com" {
		t.Fatalf("unexpected hr email %q", captured.HREmail)
	}
	if captured.TransactionID != "txn_123" {
		t.Fatalf("unexpected transaction %q", captured.TransactionID)
	}
	if captured.Package != enums.BillingPackagePremium {
		t.Fatalf("unexpected package %q", captured.Package)
	}
}

func TestRecordPaymentRequiresTransactionID(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments", strings.NewReader(`{"package":"starter"}`))
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(middleware.WithEmail(req.Context(), "admin@example.com"))
	resp := httptest.NewRecorder()
	RecordPayment(&testPaymentsService{}, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestUpgradePackageForwardsInput(t *testing.T) {
	var captured payments.UpgradePackageDTO
	svc := &testPaymentsService{
		upgradeFn: func(ctx context.Context, input payments.UpgradePackageDTO) (*payments.PaymentDTO, error) {
			captured = input
			return &payments.PaymentDTO{}, nil
		},
	}

	body := `{"transaction_id":"txn_456","package":"premium"}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/payments/package", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(middleware.WithEmail(req.Context(), "admin@example.com"))
	resp := httptest.NewRecorder()
	UpgradePackage(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	if captured.Package != enums.BillingPackagePremium {
		t.Fatalf("unexpected package %q", captured.Package)
	}
	if captured.HREmail != "admin@example.com" {
		t.Fatalf("unexpected hr email %q", captured.HREmail)
	}
}
