package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"emplystack/internal/domain"
	"emplystack/internal/shared/contextutil"
	usererrors "emplystack/internal/user/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Service interface {
	GetAll(ctx context.Context, companyID string) ([]UserResponse, error)
	GetByID(ctx context.Context, companyID, id string) (UserResponse, error)
	Create(ctx context.Context, companyID string, req CreateUserRequest) (UserResponse, error)
	UpdateStatus(ctx context.Context, companyID, actorUserID, id string, isActive bool) (UserResponse, error)
	UpdateRole(ctx context.Context, companyID, actorUserID, id, role string) (UserResponse, error)
	ChangePassword(ctx context.Context, companyID, userID string, req ChangePasswordRequest) error
	ResetPassword(ctx context.Context, companyID, id, newPassword string) error
}

// RoleAssigner is satisfied by rbac.Service; granting the role there keeps
// the casbin policy in line with the role stored on the login.
type RoleAssigner interface {
	AssignRole(ctx context.Context, companyID, employeeID, roleName string) error
}

type service struct {
	repo   Repository
	roles  RoleAssigner
	logger *zap.Logger
}

func NewService(repo Repository, roles RoleAssigner, logger ...*zap.Logger) Service {
	l := zap.L().Named("user.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("user.service")
	}
	return &service{
		repo:   repo,
		roles:  roles,
		logger: l,
	}
}

func (s *service) GetAll(ctx context.Context, companyID string) ([]UserResponse, error) {
	if _, err := uuid.Parse(companyID); err != nil {
		return nil, usererrors.ErrInvalidCompanyID
	}

	users, err := s.repo.FindAllByCompany(ctx, companyID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	resp := make([]UserResponse, len(users))
	for i, u := range users {
		resp[i] = mapToResponse(u)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (UserResponse, error) {
	u, err := s.find(ctx, companyID, id)
	if err != nil {
		return UserResponse{}, err
	}
	return mapToResponse(*u), nil
}

func (s *service) find(ctx context.Context, companyID, id string) (*User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, usererrors.ErrInvalidUserID
	}
	u, err := s.repo.FindByID(ctx, companyID, id)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return u, nil
}

// Create opens a login for an existing employee of the company. The display
// name is taken from the employee record.
func (s *service) Create(ctx context.Context, companyID string, req CreateUserRequest) (UserResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return UserResponse{}, usererrors.ErrInvalidCompanyID
	}
	employeeUUID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return UserResponse{}, usererrors.ErrInvalidEmployeeID
	}

	role := strings.ToUpper(strings.TrimSpace(req.Role))
	if role == "" {
		role = domain.RoleEmployee
	}
	if !domain.IsKnownRole(role) || role == domain.RoleSuperAdmin {
		return UserResponse{}, usererrors.ErrInvalidRole
	}

	emp, err := s.repo.FindEmployee(ctx, companyID, req.EmployeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return UserResponse{}, usererrors.ErrEmployeeNotFound
		}
		return UserResponse{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("hash password failed", zap.Error(err))
		return UserResponse{}, err
	}

	u := &User{
		CompanyID:  companyUUID,
		EmployeeID: employeeUUID,
		Name:       emp.FullName,
		Email:      strings.ToLower(strings.TrimSpace(req.Email)),
		Password:   string(hashed),
		Role:       role,
		IsActive:   true,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return UserResponse{}, mapRepositoryError(err)
	}
	u.Employee = emp

	if err := s.grantRole(ctx, companyID, u.EmployeeID.String(), role); err != nil {
		return UserResponse{}, err
	}

	log.Info("user created",
		zap.String("user_id", u.ID.String()),
		zap.String("employee_id", u.EmployeeID.String()),
		zap.String("role", role),
	)
	return mapToResponse(*u), nil
}

func (s *service) UpdateStatus(ctx context.Context, companyID, actorUserID, id string, isActive bool) (UserResponse, error) {
	if actorUserID == id {
		return UserResponse{}, usererrors.ErrCannotChangeOwnAccess
	}

	u, err := s.find(ctx, companyID, id)
	if err != nil {
		return UserResponse{}, err
	}

	u.IsActive = isActive
	if err := s.repo.Update(ctx, u); err != nil {
		return UserResponse{}, mapRepositoryError(err)
	}

	contextutil.GetLogger(ctx, s.logger).Info("user status changed",
		zap.String("user_id", id),
		zap.Bool("is_active", isActive),
	)
	return mapToResponse(*u), nil
}

func (s *service) UpdateRole(ctx context.Context, companyID, actorUserID, id, role string) (UserResponse, error) {
	role = strings.ToUpper(strings.TrimSpace(role))
	if !domain.IsKnownRole(role) || role == domain.RoleSuperAdmin {
		return UserResponse{}, usererrors.ErrInvalidRole
	}
	if actorUserID == id {
		return UserResponse{}, usererrors.ErrCannotChangeOwnAccess
	}

	u, err := s.find(ctx, companyID, id)
	if err != nil {
		return UserResponse{}, err
	}

	u.Role = role
	if err := s.repo.Update(ctx, u); err != nil {
		return UserResponse{}, mapRepositoryError(err)
	}
	if err := s.grantRole(ctx, companyID, u.EmployeeID.String(), role); err != nil {
		return UserResponse{}, err
	}

	return mapToResponse(*u), nil
}

func (s *service) grantRole(ctx context.Context, companyID, employeeID, role string) error {
	if s.roles == nil {
		return nil
	}
	if err := s.roles.AssignRole(ctx, companyID, employeeID, role); err != nil && !isRoleAlreadyAssigned(err) {
		contextutil.GetLogger(ctx, s.logger).Error("assign role failed",
			zap.String("employee_id", employeeID),
			zap.String("role", role),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (s *service) ChangePassword(ctx context.Context, companyID, userID string, req ChangePasswordRequest) error {
	u, err := s.find(ctx, companyID, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.CurrentPassword)); err != nil {
		return usererrors.ErrWrongPassword
	}

	return s.setPassword(ctx, u, req.NewPassword)
}

func (s *service) ResetPassword(ctx context.Context, companyID, id, newPassword string) error {
	u, err := s.find(ctx, companyID, id)
	if err != nil {
		return err
	}
	return s.setPassword(ctx, u, newPassword)
}

func (s *service) setPassword(ctx context.Context, u *User, password string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		contextutil.GetLogger(ctx, s.logger).Error("hash password failed", zap.Error(err))
		return err
	}

	u.Password = string(hashed)
	if err := s.repo.Update(ctx, u); err != nil {
		return mapRepositoryError(err)
	}
	return nil
}

func mapToResponse(u User) UserResponse {
	resp := UserResponse{
		ID:         u.ID.String(),
		EmployeeID: u.EmployeeID.String(),
		FullName:   u.Name,
		Email:      u.Email,
		Role:       u.Role,
		IsActive:   u.IsActive,
		CreatedAt:  u.CreatedAt.Format(time.RFC3339),
	}
	if u.Employee != nil {
		resp.EmployeeNumber = u.Employee.EmployeeNumber
		resp.FullName = u.Employee.FullName
	}
	return resp
}
