package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xenocrm/crm-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCreateCustomerDefaultsLastVisit(t *testing.T) {
	svc := NewCustomerService(&fakeCustomerRepo{})

	before := time.Now()
	customer, err := svc.Create(context.Background(), &models.CustomerInput{
		Name:  "Amit",
		Email: "amit@example.com",
	})
	require.NoError(t, err)

	assert.False(t, customer.LastVisit.Before(before))
	assert.False(t, customer.ID.IsZero())
}

func TestCreateCustomerRejectsDuplicateEmail(t *testing.T) {
	svc := NewCustomerService(&fakeCustomerRepo{})

	_, err := svc.Create(context.Background(), &models.CustomerInput{Name: "Amit", Email: "amit@example.com"})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), &models.CustomerInput{Name: "Amit Again", Email: "amit@example.com"})
	require.Error(t, err)
	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestUpdateCustomerChecksEmailUniqueness(t *testing.T) {
	repo := &fakeCustomerRepo{}
	svc := NewCustomerService(repo)

	first, err := svc.Create(context.Background(), &models.CustomerInput{Name: "Amit", Email: "amit@example.com"})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), &models.CustomerInput{Name: "Priya", Email: "priya@example.com"})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), first.ID, &models.CustomerInput{Name: "Amit", Email: "priya@example.com"})
	require.Error(t, err)
	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)

	// Keeping your own email is fine.
	updated, err := svc.Update(context.Background(), first.ID, &models.CustomerInput{Name: "Amit K", Email: "amit@example.com", Visits: 7})
	require.NoError(t, err)
	assert.Equal(t, "Amit K", updated.Name)
	assert.Equal(t, 7, updated.Visits)
}

func TestCustomerNotFound(t *testing.T) {
	svc := NewCustomerService(&fakeCustomerRepo{})

	_, err := svc.GetByID(context.Background(), primitive.NewObjectID())
	require.ErrorIs(t, err, ErrNotFound)

	err = svc.Delete(context.Background(), primitive.NewObjectID())
	require.ErrorIs(t, err, ErrNotFound)
}
