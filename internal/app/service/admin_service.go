package service

import (
	"context"
	"errors"
	"time"

	"github.com/ktakagi/sensho-backend/internal/app/model"
	"github.com/ktakagi/sensho-backend/internal/app/repository"
	"github.com/ktakagi/sensho-backend/pkg/logger"
	"github.com/ktakagi/sensho-backend/pkg/redis"
	"github.com/ktakagi/sensho-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrCustomerNotFound = errors.New("customer not found")
)

type AdminService interface {
	Login(username, password string) (*model.Admin, string, error)
	Logout(ctx context.Context, token string) error
	ListOrders() ([]model.Order, error)
	ListCustomers() ([]model.Customer, error)
	ListCustomerOrders(customerID uint) (*model.Customer, []model.Order, error)
}

type adminService struct {
	adminRepo    repository.AdminRepository
	orderRepo    repository.OrderRepository
	customerRepo repository.CustomerRepository
	jwtSecret    string
	tokenExpiry  time.Duration
}

func NewAdminService(
	adminRepo repository.AdminRepository,
	orderRepo repository.OrderRepository,
	customerRepo repository.CustomerRepository,
	jwtSecret string,
	tokenExpiry time.Duration,
) AdminService {
	return &adminService{
		adminRepo:    adminRepo,
		orderRepo:    orderRepo,
		customerRepo: customerRepo,
		jwtSecret:    jwtSecret,
		tokenExpiry:  tokenExpiry,
	}
}

func (s *adminService) Login(username, password string) (*model.Admin, string, error) {
	logger.Info("Admin login attempt", map[string]interface{}{
		"username": username,
	})

	admin, err := s.adminRepo.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Admin login failed: account not found", map[string]interface{}{
				"username": username,
			})
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if !util.VerifyPassword(admin.PasswordHash, password) {
		logger.Warn("Admin login failed: invalid password", map[string]interface{}{
			"username": username,
		})
		return nil, "", ErrInvalidCredentials
	}

	token, err := util.GenerateToken(admin.ID, admin.Username, string(model.ScopeAdmin), s.jwtSecret, s.tokenExpiry)
	if err != nil {
		logger.Error("Failed to generate admin token", err, map[string]interface{}{
			"admin_id": admin.ID,
		})
		return nil, "", err
	}

	logger.Info("Admin logged in successfully", map[string]interface{}{
		"admin_id": admin.ID,
	})

	return admin, token, nil
}

func (s *adminService) Logout(ctx context.Context, token string) error {
	claims, err := util.ValidateToken(token, s.jwtSecret)
	if err != nil {
		return nil
	}
	return redis.RevokeToken(ctx, token, time.Until(claims.ExpiresAt.Time))
}

func (s *adminService) ListOrders() ([]model.Order, error) {
	return s.orderRepo.FindAll()
}

func (s *adminService) ListCustomers() ([]model.Customer, error) {
	return s.customerRepo.FindAll()
}

func (s *adminService) ListCustomerOrders(customerID uint) (*model.Customer, []model.Order, error) {
	customer, err := s.customerRepo.FindByID(customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrCustomerNotFound
		}
		return nil, nil, err
	}

	orders, err := s.orderRepo.FindByCustomerID(customerID)
	if err != nil {
		return nil, nil, err
	}

	return customer, orders, nil
}
