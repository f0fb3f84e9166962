package requests

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/assetmanage/assetmanage-backend/internal/assets"
	"github.com/assetmanage/assetmanage-backend/pkg/db/models"
	"github.com/assetmanage/assetmanage-backend/pkg/enums"
	pkgerrors "github.com/assetmanage/assetmanage-backend/pkg/errors"
	"github.com/assetmanage/assetmanage-backend/pkg/metrics"
	"github.com/assetmanage/assetmanage-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// InventoryStore is the slice of asset persistence the coordinator needs
// inside its transactions.
type InventoryStore interface {
	Find(ctx context.Context, tx *gorm.DB, assetID uuid.UUID) (*models.Asset, error)
	Adjust(ctx context.Context, tx *gorm.DB, assetID uuid.UUID, delta int) error
}

// Service coordinates the request lifecycle. Every mutation pairs a ledger
// write with its stock movement inside one transaction, so a request either
// fully holds a unit or it never existed.
type Service interface {
	Create(ctx context.Context, input CreateRequestDTO) (*RequestDTO, error)
	Decide(ctx context.Context, input DecideInput) (*RequestDTO, error)
	Cancel(ctx context.Context, requestID uuid.UUID, actorEmail string) (*RequestDTO, error)
	Return(ctx context.Context, requestID uuid.UUID, actorEmail string) (*RequestDTO, error)
	Get(ctx context.Context, requestID uuid.UUID) (*RequestDTO, error)
	List(ctx context.Context, filters ListFilters, params pagination.Params) (*RequestListDTO, error)
}

type service struct {
	repo      Repository
	tx        txRunner
	inventory InventoryStore
	metrics   *metrics.ReservationMetrics
}

// NewService builds the request coordinator with its required dependencies.
// Metrics may be nil.
func NewService(repo Repository, tx txRunner, inventory InventoryStore, m *metrics.ReservationMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("requests repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if inventory == nil {
		return nil, fmt.Errorf("inventory store required")
	}
	return &service{
		repo:      repo,
		tx:        tx,
		inventory: inventory,
		metrics:   m,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateRequestDTO) (result *RequestDTO, err error) {
	defer s.observe("create", time.Now(), &err)

	input.RequesterEmail = strings.TrimSpace(strings.ToLower(input.RequesterEmail))
	input.RequesterName = strings.TrimSpace(input.RequesterName)
	if input.AssetID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "asset id required")
	}
	if input.RequesterEmail == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "requester email required")
	}
	if input.RequesterName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "requester name required")
	}
	if strings.TrimSpace(input.RequesterCompany) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "requester company required")
	}

	var created *models.AssetRequest
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		asset, err := s.inventory.Find(ctx, tx, input.AssetID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "asset not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load asset")
		}
		if asset.CompanyName != input.RequesterCompany {
			return pkgerrors.New(pkgerrors.CodeForbidden, "asset belongs to another company")
		}

		if err := s.inventory.Adjust(ctx, tx, asset.ID, -1); err != nil {
			return err
		}

		now := time.Now().UTC()
		created, err = s.repo.WithTx(tx).Create(ctx, &models.AssetRequest{
			AssetID:          asset.ID,
			AssetName:        asset.ProductName,
			AssetType:        asset.ProductType,
			RequesterEmail:   input.RequesterEmail,
			RequesterName:    input.RequesterName,
			RequesterCompany: input.RequesterCompany,
			Note:             input.Note,
			Status:           enums.RequestStatusPending,
			RequestDate:      now,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create request")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return FromModel(created), nil
}

func (s *service) Decide(ctx context.Context, input DecideInput) (result *RequestDTO, err error) {
	defer s.observe(string(input.Decision), time.Now(), &err)

	if input.RequestID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "request id required")
	}
	if input.Decision != DecisionApprove && input.Decision != DecisionReject {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "decision must be approve or reject")
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		request, err := repo.FindByID(ctx, input.RequestID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "request not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load request")
		}
		if input.ActorCompany != "" && request.RequesterCompany != input.ActorCompany {
			return pkgerrors.New(pkgerrors.CodeForbidden, "request belongs to another company")
		}

		target := enums.RequestStatusApproved
		var approvalDate *time.Time
		if input.Decision == DecisionApprove {
			now := time.Now().UTC()
			approvalDate = &now
		} else {
			target = enums.RequestStatusRejected
		}

		res, err := repo.TransitionStatus(ctx, request.ID, enums.RequestStatusPending, target, approvalDate)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update request status")
		}
		if !res.Found {
			return pkgerrors.New(pkgerrors.CodeNotFound, "request not found")
		}
		if !res.Updated {
			return pkgerrors.New(pkgerrors.CodeInvalidTransition, "only pending requests can be decided").
				WithDetails(map[string]any{"status": res.Current})
		}

		if target == enums.RequestStatusRejected {
			// The reserved unit goes back into circulation.
			if err := s.inventory.Adjust(ctx, tx, request.AssetID, 1); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, input.RequestID)
}

func (s *service) Cancel(ctx context.Context, requestID uuid.UUID, actorEmail string) (result *RequestDTO, err error) {
	defer s.observe("cancel", time.Now(), &err)
	return s.release(ctx, requestID, actorEmail, enums.RequestStatusPending, enums.RequestStatusCancelled)
}

func (s *service) Return(ctx context.Context, requestID uuid.UUID, actorEmail string) (result *RequestDTO, err error) {
	defer s.observe("return", time.Now(), &err)
	return s.release(ctx, requestID, actorEmail, enums.RequestStatusApproved, enums.RequestStatusReturned)
}

// release handles the two requester-driven exits, Cancel and Return. Both
// flip the status under guard and put the unit back in the same transaction.
func (s *service) release(ctx context.Context, requestID uuid.UUID, actorEmail string, from, to enums.RequestStatus) (*RequestDTO, error) {
	if requestID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "request id required")
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		request, err := repo.FindByID(ctx, requestID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "request not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load request")
		}
		if actorEmail != "" && request.RequesterEmail != strings.ToLower(actorEmail) {
			return pkgerrors.New(pkgerrors.CodeForbidden, "request belongs to another user")
		}

		res, err := repo.TransitionStatus(ctx, request.ID, from, to, nil)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update request status")
		}
		if !res.Found {
			return pkgerrors.New(pkgerrors.CodeNotFound, "request not found")
		}
		if !res.Updated {
			if to == enums.RequestStatusReturned && res.Current == enums.RequestStatusReturned {
				return pkgerrors.New(pkgerrors.CodeAlreadyReturned, "asset already returned")
			}
			message := "only pending requests can be cancelled"
			if to == enums.RequestStatusReturned {
				message = "only approved requests can be returned"
			}
			return pkgerrors.New(pkgerrors.CodeInvalidTransition, message).
				WithDetails(map[string]any{"status": res.Current})
		}

		return s.inventory.Adjust(ctx, tx, request.AssetID, 1)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, requestID)
}

func (s *service) Get(ctx context.Context, requestID uuid.UUID) (*RequestDTO, error) {
	request, err := s.repo.FindByID(ctx, requestID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "request not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load request")
	}
	return FromModel(request), nil
}

func (s *service) List(ctx context.Context, filters ListFilters, params pagination.Params) (*RequestListDTO, error) {
	list, err := s.repo.List(ctx, filters, params)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list requests")
	}
	return list, nil
}

func (s *service) observe(operation string, start time.Time, err *error) {
	s.metrics.ObserveDuration(operation, time.Since(start))
	outcome := "success"
	if err != nil && *err != nil {
		outcome = "error"
		if typed := pkgerrors.As(*err); typed != nil {
			outcome = strings.ToLower(string(typed.Code()))
		}
	}
	s.metrics.IncOutcome(operation, outcome)
}

// inventoryStoreImpl adapts the assets repository to the coordinator's needs.
type inventoryStoreImpl struct {
	repo assets.Repository
}

// NewInventoryStore wraps the assets repository for use inside coordinator
// transactions.
func NewInventoryStore(repo assets.Repository) InventoryStore {
	return &inventoryStoreImpl{repo: repo}
}

func (s *inventoryStoreImpl) Find(ctx context.Context, tx *gorm.DB, assetID uuid.UUID) (*models.Asset, error) {
	return s.repo.WithTx(tx).FindByID(ctx, assetID)
}

func (s *inventoryStoreImpl) Adjust(ctx context.Context, tx *gorm.DB, assetID uuid.UUID, delta int) error {
	return s.repo.WithTx(tx).AdjustQuantity(ctx, assetID, delta)
}
