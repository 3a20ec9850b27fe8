package repository

import (
	"github.com/ktakagi/sensho-backend/internal/app/model"
	"github.com/ktakagi/sensho-backend/pkg/logger"
	"gorm.io/gorm"
)

type CustomerRepository interface {
	Create(customer *model.Customer) error
	FindByID(id uint) (*model.Customer, error)
	FindByNameAndEmail(name, email string) (*model.Customer, error)
	FindAll() ([]model.Customer, error)
}

type customerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) Create(customer *model.Customer) error {
	logger.Debug("Creating customer in database", map[string]interface{}{
		"name":  customer.Name,
		"email": customer.Email,
	})

	if err := r.db.Create(customer).Error; err != nil {
		logger.Error("Failed to create customer in database", err, map[string]interface{}{
			"name": customer.Name,
		})
		return err
	}
	return nil
}

func (r *customerRepository) FindByID(id uint) (*model.Customer, error) {
	var customer model.Customer
	if err := r.db.First(&customer, id).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

// FindByNameAndEmail locates a customer by the (name, email) pair used for
// guest-order find-or-create.
func (r *customerRepository) FindByNameAndEmail(name, email string) (*model.Customer, error) {
	var customer model.Customer
	err := r.db.Where("name = ? AND email = ?", name, email).First(&customer).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepository) FindAll() ([]model.Customer, error) {
	var customers []model.Customer
	if err := r.db.Order("created_at DESC").Find(&customers).Error; err != nil {
		logger.Error("Failed to list customers", err, nil)
		return nil, err
	}
	return customers, nil
}
