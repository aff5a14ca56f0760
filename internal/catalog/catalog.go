// Package catalog browses and administers the cafe menu.
package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"cafe-terminal/internal/cafe"
	"cafe-terminal/internal/executor"
)

// Menu categories with a dedicated shortcut in the browse menu.
const (
	TypeDrinks = "Drinks"
	TypeSweets = "Sweets"
	TypeSoup   = "Soup"
)

// Field names an updatable MenuItem column.
type Field string

const (
	FieldType        Field = "type"
	FieldPrice       Field = "price"
	FieldDescription Field = "description"
)

// Item is the input for adding a menu entry.
type Item struct {
	Name        string
	Type        string
	Price       string
	Description string
}

// Service runs the menu catalog workflow.
type Service struct {
	Exec executor.Executor
}

// NewService returns a menu service backed by exec.
func NewService(exec executor.Executor) *Service {
	return &Service{Exec: exec}
}

// ListByType returns name, price and description of every item of one category.
func (s *Service) ListByType(ctx context.Context, itemType string) (executor.Result, error) {
	return s.Exec.QueryRows(ctx,
		"SELECT itemname, price, description FROM menu WHERE type = ? ORDER BY itemname", itemType)
}

// ListAll returns the whole menu grouped by category.
func (s *Service) ListAll(ctx context.Context) (executor.Result, error) {
	return s.Exec.QueryRows(ctx,
		"SELECT type, itemname, price, description FROM menu ORDER BY type, itemname")
}

// SearchByName returns the item with exactly this name or ErrNotFound.
func (s *Service) SearchByName(ctx context.Context, name string) (executor.Result, error) {
	return s.search(ctx, "itemname", name)
}

// SearchByType returns the items with exactly this category or ErrNotFound.
func (s *Service) SearchByType(ctx context.Context, itemType string) (executor.Result, error) {
	return s.search(ctx, "type", itemType)
}

func (s *Service) search(ctx context.Context, column, value string) (executor.Result, error) {
	res, err := s.Exec.QueryRows(ctx,
		"SELECT itemname, price, type, description FROM menu WHERE "+column+" = ? ORDER BY itemname", value)
	if err != nil {
		return executor.Result{}, err
	}
	if res.Len() == 0 {
		return executor.Result{}, fmt.Errorf("menu %s %q: %w", column, value, cafe.ErrNotFound)
	}
	return res, nil
}

// Exists reports whether an item with this name is on the menu.
func (s *Service) Exists(ctx context.Context, name string) (bool, error) {
	n, err := s.Exec.QueryCount(ctx, "SELECT itemname FROM menu WHERE itemname = ?", name)
	return n > 0, err
}

// Add inserts a new menu item. Managers only.
func (s *Service) Add(ctx context.Context, sess cafe.Session, item Item) error {
	if err := sess.RequireManager("add menu item"); err != nil {
		return err
	}
	if strings.TrimSpace(item.Name) == "" {
		return &cafe.ValidationError{Field: "name", Value: item.Name, Reason: "must not be empty"}
	}
	price, err := ParsePrice(item.Price)
	if err != nil {
		return err
	}
	return s.Exec.Exec(ctx,
		"INSERT INTO menu (itemname, type, price, description) VALUES (?, ?, ?, ?)",
		item.Name, item.Type, price, item.Description)
}

// Update changes a single field of an existing item. Managers only.
func (s *Service) Update(ctx context.Context, sess cafe.Session, name string, field Field, value string) error {
	if err := sess.RequireManager("update menu item"); err != nil {
		return err
	}
	ok, err := s.Exists(ctx, name)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("menu item %q: %w", name, cafe.ErrNotFound)
	}

	var arg any = value
	switch field {
	case FieldType, FieldDescription:
	case FieldPrice:
		price, err := ParsePrice(value)
		if err != nil {
			return err
		}
		arg = price
	default:
		return &cafe.ValidationError{Field: "field", Value: string(field), Reason: "must be type, price or description"}
	}
	return s.Exec.Exec(ctx, "UPDATE menu SET "+string(field)+" = ? WHERE itemname = ?", arg, name)
}

// Delete removes an existing item. Managers only.
func (s *Service) Delete(ctx context.Context, sess cafe.Session, name string) error {
	if err := sess.RequireManager("delete menu item"); err != nil {
		return err
	}
	ok, err := s.Exists(ctx, name)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("menu item %q: %w", name, cafe.ErrNotFound)
	}
	return s.Exec.Exec(ctx, "DELETE FROM menu WHERE itemname = ?", name)
}

// ParsePrice accepts a non-negative decimal amount.
func ParsePrice(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Decimal{}, &cafe.ValidationError{Field: "price", Value: s, Reason: "not a number"}
	}
	if d.IsNegative() {
		return decimal.Decimal{}, &cafe.ValidationError{Field: "price", Value: s, Reason: "must not be negative"}
	}
	return d, nil
}
