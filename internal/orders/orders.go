// Package orders places, cancels and tracks cafe orders.
package orders

import (
	"context"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"cafe-terminal/internal/cafe"
	"cafe-terminal/internal/events"
	"cafe-terminal/internal/executor"
)

const (
	// OrderSequence backs ORDERS.orderid on postgres.
	OrderSequence = "orders_orderid_seq"

	historyLimit       = 5
	statusHistoryLimit = 10
	staffHistoryWindow = 24 * time.Hour

	orderColumns  = "orderid, login, paid, timestamprecieved, total"
	statusColumns = "orderid, itemname, lastupdated, status, comments"
)

// Service runs the order workflow.
type Service struct {
	Exec      executor.Executor
	Publisher events.Publisher
	Retry     RetryPolicy
	Log       *log.Logger
	Now       func() time.Time
}

// NewService returns an order service. A nil publisher or logger disables that output.
func NewService(exec executor.Executor, pub events.Publisher, retry RetryPolicy, logger *log.Logger) *Service {
	if pub == nil {
		pub = events.Nop{}
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{Exec: exec, Publisher: pub, Retry: retry, Log: logger, Now: time.Now}
}

// Receipt is what a placed order looks like once committed.
type Receipt struct {
	OrderID int64
	Total   decimal.Decimal
	Items   executor.Result
	Order   executor.Result
}

// Place persists an order for items in one transaction. Items are
// inserted in input order; duplicates become separate lines.
func (s *Service) Place(ctx context.Context, sess cafe.Session, items []string) (Receipt, error) {
	if len(items) == 0 {
		return Receipt{}, cafe.ErrNoItems
	}

	var rcpt Receipt
	err := s.Exec.Transaction(ctx, func(tx executor.Executor) error {
		now := s.Now()
		if err := tx.Exec(ctx,
			"INSERT INTO orders (login, paid, timestamprecieved, total) VALUES (?, ?, ?, ?)",
			sess.Login, false, now, decimal.Zero); err != nil {
			return err
		}
		id, ok, err := tx.CurrentSequenceValue(ctx, OrderSequence)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("order id was not generated")
		}

		total := decimal.Zero
		for _, name := range items {
			price, err := itemPrice(ctx, tx, name)
			if err != nil {
				return err
			}
			total = total.Add(price)
			if err := tx.Exec(ctx,
				"INSERT INTO itemstatus (orderid, itemname, lastupdated, status, comments) VALUES (?, ?, ?, ?, ?)",
				id, name, now, string(cafe.StatusNotStarted), ""); err != nil {
				return err
			}
		}

		if err := tx.Exec(ctx, "UPDATE orders SET total = ? WHERE orderid = ?", total, id); err != nil {
			return err
		}

		rcpt = Receipt{OrderID: id, Total: total}
		if rcpt.Items, err = tx.QueryRows(ctx, "SELECT "+statusColumns+" FROM itemstatus WHERE orderid = ?", id); err != nil {
			return err
		}
		rcpt.Order, err = tx.QueryRows(ctx, "SELECT "+orderColumns+" FROM orders WHERE orderid = ?", id)
		return err
	})
	if err != nil {
		return Receipt{}, err
	}

	s.publish(ctx, events.Event{
		Kind:    events.OrderPlaced,
		OrderID: rcpt.OrderID,
		Login:   sess.Login,
		Items:   items,
		Total:   rcpt.Total.StringFixed(2),
	})
	return rcpt, nil
}

func itemPrice(ctx context.Context, exec executor.Executor, name string) (decimal.Decimal, error) {
	res, err := exec.QueryRows(ctx, "SELECT price FROM menu WHERE itemname = ?", name)
	if err != nil {
		return decimal.Zero, err
	}
	if res.Len() == 0 {
		return decimal.Zero, fmt.Errorf("menu item %q: %w", name, cafe.ErrNotFound)
	}
	price, err := decimal.NewFromString(strings.TrimSpace(res.Value(0, 0)))
	if err != nil {
		return decimal.Zero, fmt.Errorf("price of %q: %w", name, err)
	}
	return price, nil
}

// Cancel deletes an unpaid order together with its line items and returns
// the order row as it was before deletion.
func (s *Service) Cancel(ctx context.Context, sess cafe.Session, orderID int64) (executor.Result, error) {
	var removed executor.Result
	err := s.Exec.Transaction(ctx, func(tx executor.Executor) error {
		res, err := tx.QueryRows(ctx,
			"SELECT "+orderColumns+" FROM orders WHERE orderid = ? AND paid = ?", orderID, false)
		if err != nil {
			return err
		}
		if res.Len() == 0 {
			return fmt.Errorf("unpaid order %d: %w", orderID, cafe.ErrNotFound)
		}
		// line items first so no status row outlives its order
		if err := tx.Exec(ctx, "DELETE FROM itemstatus WHERE orderid = ?", orderID); err != nil {
			return err
		}
		if err := tx.Exec(ctx, "DELETE FROM orders WHERE orderid = ?", orderID); err != nil {
			return err
		}
		removed = res
		return nil
	})
	if err != nil {
		return executor.Result{}, err
	}

	s.publish(ctx, events.Event{Kind: events.OrderCancelled, OrderID: orderID, Login: sess.Login})
	return removed, nil
}

// MarkPaid flags an existing order as paid. Employees and managers only.
func (s *Service) MarkPaid(ctx context.Context, sess cafe.Session, orderID int64) error {
	if err := sess.RequireStaff("mark order paid"); err != nil {
		return err
	}
	if err := s.RequireOrder(ctx, orderID); err != nil {
		return err
	}
	if err := s.Exec.Exec(ctx, "UPDATE orders SET paid = ? WHERE orderid = ?", true, orderID); err != nil {
		return err
	}
	s.publish(ctx, events.Event{Kind: events.OrderPaid, OrderID: orderID, Login: sess.Login})
	return nil
}

// SetStatus moves every line of an order to status. Employees and managers only.
func (s *Service) SetStatus(ctx context.Context, sess cafe.Session, orderID int64, status string) error {
	if err := sess.RequireStaff("update item status"); err != nil {
		return err
	}
	if err := s.RequireOrder(ctx, orderID); err != nil {
		return err
	}
	st, err := cafe.ParseStatus(status)
	if err != nil {
		return err
	}
	if err := s.Exec.Exec(ctx,
		"UPDATE itemstatus SET status = ?, lastupdated = ? WHERE orderid = ?",
		string(st), s.Now(), orderID); err != nil {
		return err
	}
	s.publish(ctx, events.Event{Kind: events.ItemStatusChanged, OrderID: orderID, Login: sess.Login, Status: string(st)})
	return nil
}

// RequireOrder returns ErrNotFound unless orderID exists.
func (s *Service) RequireOrder(ctx context.Context, orderID int64) error {
	n, err := s.Exec.QueryCount(ctx, "SELECT orderid FROM orders WHERE orderid = ?", orderID)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("order %d: %w", orderID, cafe.ErrNotFound)
	}
	return nil
}

// History returns a customer's last five orders, or every order of the
// last 24 hours for staff. Most recent first.
func (s *Service) History(ctx context.Context, sess cafe.Session) (executor.Result, error) {
	if sess.IsStaff() {
		return s.Exec.QueryRows(ctx,
			"SELECT "+orderColumns+" FROM orders WHERE timestamprecieved >= ? ORDER BY orderid DESC",
			s.Now().Add(-staffHistoryWindow))
	}
	return s.Exec.QueryRows(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE login = ? ORDER BY orderid DESC LIMIT "+strconv.Itoa(historyLimit),
		sess.Login)
}

// RecentStatuses returns the ten most recent line items system-wide.
func (s *Service) RecentStatuses(ctx context.Context) (executor.Result, error) {
	return s.Exec.QueryRows(ctx,
		"SELECT "+statusColumns+" FROM itemstatus ORDER BY orderid DESC LIMIT "+strconv.Itoa(statusHistoryLimit))
}

// ParseOrderID validates a typed order number.
func ParseOrderID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, &cafe.ValidationError{Field: "order id", Value: s, Reason: "must be a positive whole number"}
	}
	return id, nil
}

func (s *Service) publish(ctx context.Context, ev events.Event) {
	ev.At = s.Now()
	if err := s.Publisher.Publish(ctx, ev); err != nil {
		s.Log.Printf("publish %s for order %d: %v", ev.Kind, ev.OrderID, err)
	}
}
