package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bakery_backend/internal/models"
	"bakery_backend/internal/services"
)

func TestDeleteBranch_BlockedByOrders(t *testing.T) {
	branches := &fakeBranchRepo{branch: &models.Branch{ID: 10, Name: "Quận 1", IsActive: true}}
	orders := &fakeOrderRepo{branchOrderCount: 4}
	svc := services.NewBranchService(branches, orders, nil)

	err := svc.DeleteBranch(10)
	require.ErrorIs(t, err, services.ErrBranchHasOrders)
	assert.True(t, branches.branch.IsActive)
}

func TestDeleteBranch_Succeeds(t *testing.T) {
	branches := &fakeBranchRepo{branch: &models.Branch{ID: 10, Name: "Quận 1", IsActive: true}}
	orders := &fakeOrderRepo{}
	svc := services.NewBranchService(branches, orders, nil)

	require.NoError(t, svc.DeleteBranch(10))
	assert.False(t, branches.branch.IsActive)

	_, err := svc.GetBranchByID(10)
	assert.ErrorIs(t, err, services.ErrBranchNotFound)
}

func TestDeletePaymentMethod_BlockedByOrders(t *testing.T) {
	methods := &fakePaymentMethodRepo{method: &models.PaymentMethod{ID: 3, Name: "Cash on delivery", Code: "cod", IsActive: true}}
	orders := &fakeOrderRepo{pmOrderCount: 2}
	svc := services.NewPaymentMethodService(methods, orders, nil)

	err := svc.DeletePaymentMethod(3)
	require.ErrorIs(t, err, services.ErrPaymentMethodHasOrders)
	assert.True(t, methods.method.IsActive)
}

func TestDeletePaymentMethod_Succeeds(t *testing.T) {
	methods := &fakePaymentMethodRepo{method: &models.PaymentMethod{ID: 3, Name: "Cash on delivery", Code: "cod", IsActive: true}}
	orders := &fakeOrderRepo{}
	svc := services.NewPaymentMethodService(methods, orders, nil)

	require.NoError(t, svc.DeletePaymentMethod(3))
	assert.False(t, methods.method.IsActive)
}
