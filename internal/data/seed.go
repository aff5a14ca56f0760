package data

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SeedConfig controls which demo rows are inserted.
type SeedConfig struct {
	Menu  []MenuItem
	Users []User
}

// EnsureSchema applies the required database schema.
func EnsureSchema(db *gorm.DB) error {
	return db.AutoMigrate(&User{}, &MenuItem{}, &Order{}, &ItemStatus{})
}

// DefaultSeed returns the demo menu and one account per role.
func DefaultSeed() SeedConfig {
	return SeedConfig{
		Menu:  demoMenu(),
		Users: demoUsers(),
	}
}

// Seed inserts the configured rows, leaving existing logins and item names untouched.
func Seed(ctx context.Context, db *gorm.DB, cfg SeedConfig) error {
	tx := db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true})
	if len(cfg.Menu) > 0 {
		if err := tx.Create(&cfg.Menu).Error; err != nil {
			return err
		}
	}
	if len(cfg.Users) > 0 {
		if err := tx.Create(&cfg.Users).Error; err != nil {
			return err
		}
	}
	return nil
}

func demoMenu() []MenuItem {
	return []MenuItem{
		{ItemName: "Latte", Type: "Drinks", Price: price("3.50"), Description: "Espresso with steamed milk"},
		{ItemName: "Espresso", Type: "Drinks", Price: price("2.25"), Description: "Single shot"},
		{ItemName: "Hot Chocolate", Type: "Drinks", Price: price("3.00"), Description: "With whipped cream"},
		{ItemName: "Bagel", Type: "Sweets", Price: price("2.00"), Description: "Plain, toasted"},
		{ItemName: "Brownie", Type: "Sweets", Price: price("2.75"), Description: "Walnut brownie"},
		{ItemName: "Tomato Soup", Type: "Soup", Price: price("4.50"), Description: "Served with bread"},
		{ItemName: "Clam Chowder", Type: "Soup", Price: price("5.25"), Description: "New England style"},
	}
}

func demoUsers() []User {
	return []User{
		{Login: "alice", Password: "alice", PhoneNum: "555-0100", Type: "Customer"},
		{Login: "bob", Password: "bob", PhoneNum: "555-0101", Type: "Employee"},
		{Login: "carol", Password: "carol", PhoneNum: "555-0102", Type: "Manager"},
	}
}

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
