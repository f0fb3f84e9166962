package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/assetmanage/assetmanage-backend/pkg/db/models"
	"github.com/assetmanage/assetmanage-backend/pkg/enums"
)

// UserDTO is the transport shape for user records.
type UserDTO struct {
	ID            uuid.UUID             `json:"id"`
	Email         string                `json:"email"`
	Name          string                `json:"name"`
	Role          enums.UserRole        `json:"role"`
	DateOfBirth   *time.Time            `json:"date_of_birth,omitempty"`
	PhotoURL      *string               `json:"photo_url,omitempty"`
	CompanyName   *string               `json:"company_name,omitempty"`
	CompanyLogo   *string               `json:"company_logo,omitempty"`
	Package       *enums.BillingPackage `json:"package,omitempty"`
	MemberLimit   int                   `json:"member_limit"`
	PaymentStatus bool                  `json:"payment_status"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
}

// RegisterUserDTO holds the data required to persist a new account.
type RegisterUserDTO struct {
	Email       string
	Name        string
	Role        enums.UserRole
	DateOfBirth *time.Time
	PhotoURL    *string
	CompanyName *string
	CompanyLogo *string
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}

	return &UserDTO{
		ID:            u.ID,
		Email:         u.Email,
		Name:          u.Name,
		Role:          u.Role,
		DateOfBirth:   u.DateOfBirth,
		PhotoURL:      u.PhotoURL,
		CompanyName:   u.CompanyName,
		CompanyLogo:   u.CompanyLogo,
		Package:       u.Package,
		MemberLimit:   u.MemberLimit,
		PaymentStatus: u.PaymentStatus,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

func FromModels(users []models.User) []UserDTO {
	out := make([]UserDTO, 0, len(users))
	for i := range users {
		out = append(out, *FromModel(&users[i]))
	}
	return out
}

func (r RegisterUserDTO) ToModel() *models.User {
	return &models.User{
		ID:          uuid.New(),
		Email:       r.Email,
		Name:        r.Name,
		Role:        r.Role,
		DateOfBirth: r.DateOfBirth,
		PhotoURL:    r.PhotoURL,
		CompanyName: r.CompanyName,
		CompanyLogo: r.CompanyLogo,
	}
}
