package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dropx/dropx-api/models"
	"github.com/dropx/dropx-api/utils"
	"gorm.io/gorm"
)

// UserService manages profile documents
type UserService struct {
	db *gorm.DB
}

// NewUserService creates a new user service instance
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// Get finds a user by id
func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	return &user, nil
}

// GetByAccount finds the profile that belongs to an account
func (s *UserService) GetByAccount(ctx context.Context, accountID string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("account_id = ?", accountID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load user by account: %w", err)
	}
	return &user, nil
}

// ProfileUpdate holds the editable profile fields. Empty values are left unchanged.
type ProfileUpdate struct {
	FirstName string
	LastName  string
	Mobile    string
}

// UpdateProfile changes the name and phone number of a user
func (s *UserService) UpdateProfile(ctx context.Context, userID string, in ProfileUpdate) (*models.User, error) {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if v := strings.TrimSpace(in.FirstName); v != "" {
		updates["first_name"] = v
	}
	if v := strings.TrimSpace(in.LastName); v != "" {
		updates["last_name"] = v
	}
	if v := strings.TrimSpace(in.Mobile); v != "" {
		updates["mobile"] = v
	}
	if len(updates) == 0 {
		return user, nil
	}

	if err := s.db.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return s.Get(ctx, userID)
}

// ListCouriers returns every user with the courier role, ordered by name
func (s *UserService) ListCouriers(ctx context.Context) ([]models.User, error) {
	var couriers []models.User
	err := s.db.WithContext(ctx).
		Where("role = ?", models.RoleCourier).
		Order("first_name ASC").
		Order("last_name ASC").
		Find(&couriers).Error
	if err != nil {
		return nil, fmt.Errorf("list couriers: %w", err)
	}
	return couriers, nil
}

// RequireCourier loads a user and checks that it is a courier
func (s *UserService) RequireCourier(ctx context.Context, id string) (*models.User, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrInvalidCourier
	}
	user, err := s.Get(ctx, id)
	if errors.Is(err, ErrUserNotFound) {
		return nil, ErrInvalidCourier
	}
	if err != nil {
		return nil, err
	}
	if !user.Role.IsCourier() {
		return nil, ErrInvalidCourier
	}
	return user, nil
}

// ProvisionFromAccount returns the profile of an account, creating a customer
// profile from the account's display name when none exists yet.
func (s *UserService) ProvisionFromAccount(ctx context.Context, account *models.Account) (*models.User, bool, error) {
	user, err := s.GetByAccount(ctx, account.ID)
	if err == nil {
		return user, false, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, false, err
	}

	first, last := utils.SplitDisplayName(account.Name)
	if first == "" {
		first, _, _ = strings.Cut(account.Email, "@")
	}
	created := models.User{
		AccountID: account.ID,
		FirstName: first,
		LastName:  last,
		Email:     account.Email,
		Role:      models.RoleCustomer,
	}
	if err := s.db.WithContext(ctx).Create(&created).Error; err != nil {
		return nil, false, fmt.Errorf("provision user: %w", err)
	}
	return &created, true, nil
}
