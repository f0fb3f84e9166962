package requests

import (
	"time"

	"github.com/google/uuid"

	"github.com/assetmanage/assetmanage-backend/pkg/db/models"
	"github.com/assetmanage/assetmanage-backend/pkg/enums"
)

// RequestDTO is the transport shape for asset requests.
type RequestDTO struct {
	ID               uuid.UUID           `json:"id"`
	AssetID          uuid.UUID           `json:"asset_id"`
	AssetName        string              `json:"asset_name"`
	AssetType        enums.AssetType     `json:"asset_type"`
	RequesterEmail   string              `json:"requester_email"`
	RequesterName    string              `json:"requester_name"`
	RequesterCompany string              `json:"requester_company"`
	Note             *string             `json:"note,omitempty"`
	Status           enums.RequestStatus `json:"status"`
	RequestDate      time.Time           `json:"request_date"`
	ApprovalDate     *time.Time          `json:"approval_date,omitempty"`
	UpdatedAt        time.Time           `json:"updated_at"`
}

// CreateRequestDTO holds the data an employee submits to claim one unit.
type CreateRequestDTO struct {
	AssetID          uuid.UUID
	RequesterEmail   string
	RequesterName    string
	RequesterCompany string
	Note             *string
}

// Decision is the action an HR admin takes on a pending request.
type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

// DecideInput carries the contextual metadata for an HR decision.
type DecideInput struct {
	RequestID    uuid.UUID
	Decision     Decision
	ActorEmail   string
	ActorCompany string
}

// ListFilters describe the supported filter knobs for request listings.
type ListFilters struct {
	RequesterEmail string
	Company        string
	Status         *enums.RequestStatus
	AssetType      *enums.AssetType
	Query          string
}

// RequestListDTO is one page of requests plus the cursor for the next one.
type RequestListDTO struct {
	Items  []RequestDTO `json:"items"`
	Cursor string       `json:"cursor,omitempty"`
}

func FromModel(r *models.AssetRequest) *RequestDTO {
	if r == nil {
		return nil
	}
	return &RequestDTO{
		ID:               r.ID,
		AssetID:          r.AssetID,
		AssetName:        r.AssetName,
		AssetType:        r.AssetType,
		RequesterEmail:   r.RequesterEmail,
		RequesterName:    r.RequesterName,
		RequesterCompany: r.RequesterCompany,
		Note:             r.Note,
		Status:           r.Status,
		RequestDate:      r.RequestDate,
		ApprovalDate:     r.ApprovalDate,
		UpdatedAt:        r.UpdatedAt,
	}
}

func FromModels(items []models.AssetRequest) []RequestDTO {
	out := make([]RequestDTO, 0, len(items))
	for i := range items {
		out = append(out, *FromModel(&items[i]))
	}
	return out
}
