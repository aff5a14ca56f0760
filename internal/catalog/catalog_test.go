package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cafe-terminal/internal/cafe"
	"cafe-terminal/internal/dbtest"
)

var (
	customer = cafe.Session{Login: "alice", Role: cafe.RoleCustomer}
	employee = cafe.Session{Login: "bob", Role: cafe.RoleEmployee}
	manager  = cafe.Session{Login: "carol", Role: cafe.RoleManager}
)

func TestListByType(t *testing.T) {
	_, exec := dbtest.Open(t)
	svc := NewService(exec)

	res, err := svc.ListByType(context.Background(), TypeDrinks)
	require.NoError(t, err)
	assert.Equal(t, []string{"itemname", "price", "description"}, res.Columns)
	require.Equal(t, 3, res.Len())
	assert.Equal(t, "Espresso", res.Value(0, 0))
}

func TestListAllOrderedByType(t *testing.T) {
	_, exec := dbtest.Open(t)
	svc := NewService(exec)

	res, err := svc.ListAll(context.Background())
	require.NoError(t, err)
	require.Equal(t, 7, res.Len())
	for i := 1; i < res.Len(); i++ {
		assert.LessOrEqual(t, res.Value(i-1, 0), res.Value(i, 0))
	}
}

func TestSearch(t *testing.T) {
	_, exec := dbtest.Open(t)
	svc := NewService(exec)
	ctx := context.Background()

	res, err := svc.SearchByName(ctx, "Bagel")
	require.NoError(t, err)
	assert.Equal(t, "Sweets", res.Value(0, 2))

	_, err = svc.SearchByName(ctx, "bagel")
	assert.ErrorIs(t, err, cafe.ErrNotFound)

	res, err = svc.SearchByType(ctx, "Soup")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Len())

	_, err = svc.SearchByType(ctx, "Salad")
	assert.ErrorIs(t, err, cafe.ErrNotFound)
}

func TestAddUpdateDeleteAsManager(t *testing.T) {
	gdb, exec := dbtest.Open(t)
	svc := NewService(exec)
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, manager, Item{Name: "Scone", Type: "Sweets", Price: "2.40", Description: "Cream's best"}))
	res, err := svc.SearchByName(ctx, "Scone")
	require.NoError(t, err)
	assert.Equal(t, "Cream's best", res.Value(0, 3))

	require.NoError(t, svc.Update(ctx, manager, "Scone", FieldPrice, "2.60"))
	res, err = svc.SearchByName(ctx, "Scone")
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("2.60").Equal(decimal.RequireFromString(res.Value(0, 1))))

	require.NoError(t, svc.Update(ctx, manager, "Scone", FieldType, "Bakery"))
	require.NoError(t, svc.Update(ctx, manager, "Scone", FieldDescription, "Fresh"))
	res, err = svc.SearchByName(ctx, "Scone")
	require.NoError(t, err)
	assert.Equal(t, []string{"Bakery", "Fresh"}, []string{res.Value(0, 2), res.Value(0, 3)})

	require.NoError(t, svc.Delete(ctx, manager, "Scone"))
	assert.Equal(t, int64(0), dbtest.CountRows(t, gdb, "menu", "itemname = ?", "Scone"))
}

func TestMenuChangesRequireManager(t *testing.T) {
	gdb, exec := dbtest.Open(t)
	svc := NewService(exec)
	ctx := context.Background()

	for _, sess := range []cafe.Session{customer, employee} {
		assert.ErrorIs(t, svc.Add(ctx, sess, Item{Name: "Scone", Type: "Sweets", Price: "1"}), cafe.ErrForbidden)
		assert.ErrorIs(t, svc.Update(ctx, sess, "Latte", FieldPrice, "0"), cafe.ErrForbidden)
		assert.ErrorIs(t, svc.Delete(ctx, sess, "Latte"), cafe.ErrForbidden)
	}

	assert.Equal(t, int64(0), dbtest.CountRows(t, gdb, "menu", "itemname = ?", "Scone"))
	res, err := svc.SearchByName(ctx, "Latte")
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("3.50").Equal(decimal.RequireFromString(res.Value(0, 1))))
}

func TestUpdateAndDeleteUnknownItem(t *testing.T) {
	gdb, exec := dbtest.Open(t)
	svc := NewService(exec)
	ctx := context.Background()

	assert.ErrorIs(t, svc.Update(ctx, manager, "Muffin", FieldType, "Sweets"), cafe.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, manager, "Muffin"), cafe.ErrNotFound)
	assert.Equal(t, int64(7), dbtest.CountRows(t, gdb, "menu", ""))
}

func TestInvalidInputs(t *testing.T) {
	_, exec := dbtest.Open(t)
	svc := NewService(exec)
	ctx := context.Background()
	var verr *cafe.ValidationError

	err := svc.Add(ctx, manager, Item{Name: "Scone", Type: "Sweets", Price: "-1"})
	assert.True(t, errors.As(err, &verr))

	err = svc.Add(ctx, manager, Item{Name: "Scone", Type: "Sweets", Price: "cheap"})
	assert.True(t, errors.As(err, &verr))

	err = svc.Update(ctx, manager, "Latte", Field("itemname"), "Mocha")
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "field", verr.Field)
}
