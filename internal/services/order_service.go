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

// OrderService handles order business logic. Completed orders feed the
// customer's totalSpends/visits counters, which the rule engine filters on.
type OrderService struct {
	orderRepo    repositories.OrderRepository
	customerRepo repositories.CustomerRepository
}

// NewOrderService creates a new OrderService
func NewOrderService(orderRepo repositories.OrderRepository, customerRepo repositories.CustomerRepository) *OrderService {
	return &OrderService{
		orderRepo:    orderRepo,
		customerRepo: customerRepo,
	}
}

// Create creates a new order for an existing customer
func (s *OrderService) Create(ctx context.Context, input *models.OrderInput) (*models.Order, error) {
	customerID, err := primitive.ObjectIDFromHex(input.CustomerID)
	if err != nil {
		return nil, validationErrorf("invalid customer id %q", input.CustomerID)
	}

	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = models.OrderStatusCompleted
	}
	switch status {
	case models.OrderStatusPending, models.OrderStatusCompleted, models.OrderStatusCancelled:
	default:
		return nil, validationErrorf("invalid order status %q", status)
	}

	order := &models.Order{
		CustomerID: customerID,
		OrderDate:  time.Now(),
		Amount:     input.Amount,
		Status:     status,
		Items:      input.Items,
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	// A completed order counts as a visit and adds to the customer's
	// lifetime spend.
	if status == models.OrderStatusCompleted {
		customer.TotalSpends += order.Amount
		customer.Visits++
		customer.LastVisit = order.OrderDate
		if err := s.customerRepo.Update(ctx, customer); err != nil {
			return nil, fmt.Errorf("order created but customer counters not updated: %w", err)
		}
	}

	return order, nil
}

// GetByID retrieves an order by ID
func (s *OrderService) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return order, nil
}

// GetAll retrieves all orders, optionally filtered by customer
func (s *OrderService) GetAll(ctx context.Context, customerID *primitive.ObjectID) ([]*models.Order, error) {
	if customerID != nil {
		return s.orderRepo.FindByCustomerID(ctx, *customerID)
	}
	return s.orderRepo.FindAll(ctx)
}

// Delete deletes an order
func (s *OrderService) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return s.orderRepo.Delete(ctx, id)
}

// Count counts all orders
func (s *OrderService) Count(ctx context.Context) (int64, error) {
	return s.orderRepo.Count(ctx)
}

// RevenueStats computes aggregate revenue figures over all orders
func (s *OrderService) RevenueStats(ctx context.Context) (*models.RevenueStats, error) {
	return s.orderRepo.RevenueStats(ctx)
}
