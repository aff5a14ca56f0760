package profile

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"cafe-terminal/internal/auth"
	"cafe-terminal/internal/cafe"
	"cafe-terminal/internal/dbtest"
)

var (
	alice = cafe.Session{Login: "alice", Role: cafe.RoleCustomer}
	bob   = cafe.Session{Login: "bob", Role: cafe.RoleEmployee}
	carol = cafe.Session{Login: "carol", Role: cafe.RoleManager}
)

type userRow struct {
	Login    string
	Password string
	PhoneNum string `gorm:"column:phonenum"`
	FavItems string `gorm:"column:favitems"`
	Type     string
}

func loadUser(t *testing.T, gdb *gorm.DB, login string) userRow {
	t.Helper()
	var u userRow
	require.NoError(t, gdb.Table("users").Where("login = ?", login).Take(&u).Error)
	return u
}

func TestSelfService(t *testing.T) {
	gdb, exec := dbtest.Open(t)
	svc := NewService(exec, nil)
	ctx := context.Background()

	require.NoError(t, svc.UpdatePassword(ctx, alice, "alice", "n3w"))
	require.NoError(t, svc.UpdatePhone(ctx, alice, "alice", "555-9999"))

	u := loadUser(t, gdb, "alice")
	assert.Equal(t, "n3w", u.Password)
	assert.Equal(t, "555-9999", u.PhoneNum)

	_, err := auth.NewService(exec, nil).LogIn(ctx, "alice", "n3w")
	assert.NoError(t, err)
}

func TestAddFavoriteAppends(t *testing.T) {
	gdb, exec := dbtest.Open(t)
	svc := NewService(exec, nil)
	ctx := context.Background()

	got, err := svc.AddFavorite(ctx, alice, "alice", "Latte")
	require.NoError(t, err)
	assert.Equal(t, ",Latte", got)

	got, err = svc.AddFavorite(ctx, alice, "alice", "Latte")
	require.NoError(t, err)
	assert.Equal(t, ",Latte,Latte", got)
	assert.Equal(t, ",Latte,Latte", loadUser(t, gdb, "alice").FavItems)
}

func TestCustomerCannotEditOthers(t *testing.T) {
	gdb, exec := dbtest.Open(t)
	svc := NewService(exec, nil)
	ctx := context.Background()

	assert.ErrorIs(t, svc.UpdatePassword(ctx, alice, "bob", "x"), cafe.ErrForbidden)
	assert.ErrorIs(t, svc.UpdatePhone(ctx, bob, "alice", "x"), cafe.ErrForbidden)
	_, err := svc.AddFavorite(ctx, alice, "carol", "Bagel")
	assert.ErrorIs(t, err, cafe.ErrForbidden)
	_, err = svc.LookupUser(ctx, bob, "alice")
	assert.ErrorIs(t, err, cafe.ErrForbidden)
	assert.ErrorIs(t, svc.AssignRole(ctx, alice, "alice", "Manager"), cafe.ErrForbidden)

	assert.Equal(t, "bob", loadUser(t, gdb, "bob").Password)
	assert.Equal(t, "Customer", loadUser(t, gdb, "alice").Type)
}

func TestManagerEditsAnyone(t *testing.T) {
	gdb, exec := dbtest.Open(t)
	svc := NewService(exec, nil)
	ctx := context.Background()

	res, err := svc.LookupUser(ctx, carol, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", res.Value(0, 0))

	_, err = svc.LookupUser(ctx, carol, "zed")
	assert.ErrorIs(t, err, cafe.ErrNotFound)

	require.NoError(t, svc.UpdatePhone(ctx, carol, "alice", "555-1234"))
	_, err = svc.AddFavorite(ctx, carol, "alice", "Bagel")
	require.NoError(t, err)
	require.NoError(t, svc.AssignRole(ctx, carol, "alice", "Employee"))

	u := loadUser(t, gdb, "alice")
	assert.Equal(t, "555-1234", u.PhoneNum)
	assert.Equal(t, ",Bagel", u.FavItems)
	assert.Equal(t, "Employee", u.Type)
}

func TestAssignRoleRejectsUnknownRole(t *testing.T) {
	gdb, exec := dbtest.Open(t)
	svc := NewService(exec, nil)

	err := svc.AssignRole(context.Background(), carol, "alice", "Owner")
	var verr *cafe.ValidationError
	assert.True(t, errors.As(err, &verr))
	assert.Equal(t, "Customer", loadUser(t, gdb, "alice").Type)
}
