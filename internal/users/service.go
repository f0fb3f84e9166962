package users

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/assetmanage/assetmanage-backend/pkg/db"
	"github.com/assetmanage/assetmanage-backend/pkg/enums"
	pkgerrors "github.com/assetmanage/assetmanage-backend/pkg/errors"
)

// Service defines account-level operations.
type Service interface {
	Register(ctx context.Context, input RegisterUserDTO) (*UserDTO, error)
	GetByEmail(ctx context.Context, email string) (*UserDTO, error)
	HasRole(ctx context.Context, email string, role enums.UserRole) (bool, error)
	Rename(ctx context.Context, email, name string) (*UserDTO, error)
	AssignCompany(ctx context.Context, input AssignCompanyInput) (*UserDTO, error)
	UnassignCompany(ctx context.Context, actorEmail string, userID uuid.UUID) (*UserDTO, error)
	ListByCompany(ctx context.Context, companyName string) ([]UserDTO, error)
}

// AssignCompanyInput carries an HR admin's request to attach an employee.
type AssignCompanyInput struct {
	ActorEmail string
	UserID     uuid.UUID
}

type service struct {
	repo Repository
}

// NewService builds a users service over the given repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Register(ctx context.Context, input RegisterUserDTO) (*UserDTO, error) {
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))
	input.Name = strings.TrimSpace(input.Name)
	if input.Email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email required")
	}
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name required")
	}
	if !input.Role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "role must be hr or employee")
	}
	if input.Role == enums.UserRoleHR {
		if input.CompanyName == nil || strings.TrimSpace(*input.CompanyName) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "company name required for hr accounts")
		}
		taken, err := s.repo.CompanyNameTaken(ctx, *input.CompanyName)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check company name")
		}
		if taken {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "company name already registered")
		}
	}

	created, err := s.repo.Create(ctx, input.ToModel())
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
	}
	return FromModel(created), nil
}

func (s *service) GetByEmail(ctx context.Context, email string) (*UserDTO, error) {
	user, err := s.repo.FindByEmail(ctx, strings.ToLower(email))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return FromModel(user), nil
}

// HasRole answers the role probes used by the frontend guards. An unknown
// email is not an error, just a false.
func (s *service) HasRole(ctx context.Context, email string, role enums.UserRole) (bool, error) {
	user, err := s.repo.FindByEmail(ctx, strings.ToLower(email))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return false, nil
		}
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return user.Role == role, nil
}

func (s *service) Rename(ctx context.Context, email, name string) (*UserDTO, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name required")
	}
	email = strings.ToLower(email)
	if err := s.repo.UpdateName(ctx, email, name); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update name")
	}
	return s.GetByEmail(ctx, email)
}

func (s *service) AssignCompany(ctx context.Context, input AssignCompanyInput) (*UserDTO, error) {
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}

	admin, err := s.loadHR(ctx, input.ActorEmail)
	if err != nil {
		return nil, err
	}
	if !admin.PaymentStatus {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "company has no active package")
	}

	target, err := s.repo.FindByID(ctx, input.UserID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	if target.Role != enums.UserRoleEmployee {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "only employees can join a company")
	}
	if target.CompanyName != nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "user already belongs to a company")
	}

	members, err := s.repo.CountByCompany(ctx, *admin.CompanyName, enums.UserRoleEmployee)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count company members")
	}
	if members >= int64(admin.MemberLimit) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "member limit reached, upgrade the package")
	}

	if err := s.repo.UpdateCompany(ctx, target.ID, admin.CompanyName, admin.CompanyLogo); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "assign company")
	}
	return s.GetByEmail(ctx, target.Email)
}

func (s *service) UnassignCompany(ctx context.Context, actorEmail string, userID uuid.UUID) (*UserDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}

	admin, err := s.loadHR(ctx, actorEmail)
	if err != nil {
		return nil, err
	}

	target, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	if target.CompanyName == nil || *target.CompanyName != *admin.CompanyName {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "user does not belong to your company")
	}

	if err := s.repo.UpdateCompany(ctx, target.ID, nil, nil); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "unassign company")
	}
	return s.GetByEmail(ctx, target.Email)
}

func (s *service) ListByCompany(ctx context.Context, companyName string) ([]UserDTO, error) {
	if strings.TrimSpace(companyName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "company name required")
	}
	users, err := s.repo.ListByCompany(ctx, companyName)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list company users")
	}
	return FromModels(users), nil
}

func (s *service) loadHR(ctx context.Context, email string) (*UserDTO, error) {
	admin, err := s.repo.FindByEmail(ctx, strings.ToLower(email))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "account not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load hr account")
	}
	if admin.Role != enums.UserRoleHR || admin.CompanyName == nil {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "hr account with a company required")
	}
	return FromModel(admin), nil
}
