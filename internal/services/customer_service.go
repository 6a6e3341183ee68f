package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xenocrm/crm-backend/internal/models"
	"github.com/xenocrm/crm-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// CustomerService handles customer-record business logic
type CustomerService struct {
	customerRepo repositories.CustomerRepository
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(customerRepo repositories.CustomerRepository) *CustomerService {
	return &CustomerService{customerRepo: customerRepo}
}

// Create creates a new customer. Emails are unique across the store.
func (s *CustomerService) Create(ctx context.Context, input *models.CustomerInput) (*models.Customer, error) {
	existing, err := s.customerRepo.FindByEmail(ctx, input.Email)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to check email uniqueness: %w", err)
	}
	if existing != nil {
		return nil, validationErrorf("a customer with email %s already exists", input.Email)
	}

	lastVisit := input.LastVisit
	if lastVisit.IsZero() {
		lastVisit = time.Now()
	}

	customer := &models.Customer{
		Name:        input.Name,
		Email:       input.Email,
		Phone:       input.Phone,
		TotalSpends: input.TotalSpends,
		Visits:      input.Visits,
		LastVisit:   lastVisit,
	}

	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}

	return customer, nil
}

// GetByID retrieves a customer by ID
func (s *CustomerService) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Customer, error) {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return customer, nil
}

// GetAll retrieves all customers
func (s *CustomerService) GetAll(ctx context.Context) ([]*models.Customer, error) {
	return s.customerRepo.FindAll(ctx)
}

// Update updates a customer's attributes
func (s *CustomerService) Update(ctx context.Context, id primitive.ObjectID, input *models.CustomerInput) (*models.Customer, error) {
	customer, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Email != customer.Email {
		existing, err := s.customerRepo.FindByEmail(ctx, input.Email)
		if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("failed to check email uniqueness: %w", err)
		}
		if existing != nil {
			return nil, validationErrorf("a customer with email %s already exists", input.Email)
		}
	}

	customer.Name = input.Name
	customer.Email = input.Email
	customer.Phone = input.Phone
	customer.TotalSpends = input.TotalSpends
	customer.Visits = input.Visits
	if !input.LastVisit.IsZero() {
		customer.LastVisit = input.LastVisit
	}

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}

	return customer, nil
}

// Delete deletes a customer
func (s *CustomerService) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return s.customerRepo.Delete(ctx, id)
}

// DeleteAll purges every customer record
func (s *CustomerService) DeleteAll(ctx context.Context) (int64, error) {
	return s.customerRepo.DeleteAll(ctx)
}

// Count counts all customers
func (s *CustomerService) Count(ctx context.Context) (int64, error) {
	return s.customerRepo.Count(ctx)
}

// TopBySpend returns the highest-spending customers
func (s *CustomerService) TopBySpend(ctx context.Context, limit int) ([]*models.Customer, error) {
	return s.customerRepo.FindTopBySpend(ctx, limit)
}
