package data

import (
	"time"

	"github.com/shopspring/decimal"
)

// User is a cafe account. Login is fixed once created.
type User struct {
	Login    string `gorm:"column:login;primaryKey;size:50"`
	Password string `gorm:"column:password;size:255;not null"`
	PhoneNum string `gorm:"column:phonenum;size:16"`
	FavItems string `gorm:"column:favitems;size:400"`
	Type     string `gorm:"column:type;size:8;not null"`
}

func (User) TableName() string { return "users" }

// MenuItem is one entry of the cafe menu.
type MenuItem struct {
	ItemName    string          `gorm:"column:itemname;primaryKey;size:50"`
	Type        string          `gorm:"column:type;size:20;not null;index"`
	Price       decimal.Decimal `gorm:"column:price;type:decimal(10,2);not null"`
	Description string          `gorm:"column:description;size:400"`
}

func (MenuItem) TableName() string { return "menu" }

// Order is the header row of a customer order. The id comes from the database sequence.
type Order struct {
	OrderID           int64           `gorm:"column:orderid;primaryKey;autoIncrement"`
	Login             string          `gorm:"column:login;size:50;not null;index"`
	Paid              bool            `gorm:"column:paid;not null;default:false"`
	TimeStampRecieved time.Time       `gorm:"column:timestamprecieved;not null;index"`
	Total             decimal.Decimal `gorm:"column:total;type:decimal(10,2);not null"`
}

func (Order) TableName() string { return "orders" }

// ItemStatus is one line item of an order together with its preparation state.
type ItemStatus struct {
	OrderID     int64     `gorm:"column:orderid;not null;index"`
	ItemName    string    `gorm:"column:itemname;size:50;not null"`
	LastUpdated time.Time `gorm:"column:lastupdated;not null"`
	Status      string    `gorm:"column:status;size:20"`
	Comments    string    `gorm:"column:comments;size:130"`
}

func (ItemStatus) TableName() string { return "itemstatus" }
