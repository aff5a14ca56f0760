package app

import (
	"context"
	"errors"

	"cafe-terminal/internal/cafe"
	"cafe-terminal/internal/orders"
)

func (a *App) ordersMenu(ctx context.Context, sess cafe.Session) error {
	for {
		a.con.Menu("Order",
			"1. Place order(s)",
			"2. View order history",
			"3. View item status history",
			"9. Go back")
		choice, err := a.choose(ctx)
		if err != nil {
			return err
		}
		switch choice {
		case 1:
			err = a.placeOrder(ctx, sess)
		case 2:
			res, qerr := a.orders.History(ctx, sess)
			err = a.show(res, qerr)
		case 3:
			res, qerr := a.orders.RecentStatuses(ctx)
			err = a.show(res, qerr)
		case 9:
			return nil
		default:
			a.con.Println("Unrecognized choice! Please try again.")
		}
		if err = a.report(err); err != nil {
			return err
		}
	}
}

// placeOrder drives the item collection state machine and prints the receipt.
func (a *App) placeOrder(ctx context.Context, sess cafe.Session) error {
	capture := a.orders.NewCapture()
	prompt := "What would you like to order? Or type 'q' to quit\n"
	for capture.State() == orders.Collecting {
		line, err := a.con.ReadLine(prompt)
		var verr *cafe.ValidationError
		if errors.As(err, &verr) {
			a.report(err)
			continue
		}
		if err != nil {
			return err
		}
		outcome, err := capture.Submit(ctx, line)
		if err != nil {
			return a.report(err)
		}
		switch outcome {
		case orders.Added:
			prompt = "What more would you like to order? Or type 'q' to quit\n"
		case orders.Unknown:
			a.con.Println("Item does not exist... Please try again.")
		case orders.GaveUp:
			a.con.Println("Too many unknown items, finishing the order.")
		}
	}

	rcpt, err := capture.Finalize(ctx, sess)
	if errors.Is(err, cafe.ErrNoItems) {
		a.con.Println("No orders placed.")
		return nil
	}
	if err != nil {
		return a.report(err)
	}
	a.log.Printf("order %d placed by %s, total %s", rcpt.OrderID, sess.Login, rcpt.Total.StringFixed(2))

	a.con.Println("Order placed!")
	a.con.Println("Your following orders are:")
	if err := a.show(rcpt.Items, nil); err != nil {
		return err
	}
	a.con.Println("Your receipt is:")
	return a.show(rcpt.Order, nil)
}

func (a *App) updateOrdersMenu(ctx context.Context, sess cafe.Session) error {
	for {
		options := []string{"1. Update non-paid order"}
		if sess.IsStaff() {
			options = append(options,
				"2. Update order to paid",
				"3. Update order item status")
		}
		options = append(options, "9. Go back to menu")
		a.con.Menu("Update Orders", options...)

		choice, err := a.choose(ctx)
		if err != nil {
			return err
		}
		switch {
		case choice == 1:
			err = a.replaceOrder(ctx, sess)
		case choice == 2 && sess.IsStaff():
			err = a.markPaid(ctx, sess)
		case choice == 3 && sess.IsStaff():
			err = a.setStatus(ctx, sess)
		case choice == 9:
			return nil
		default:
			a.con.Println("Unrecognized choice! Please try again.")
		}
		if err = a.report(err); err != nil {
			return err
		}
	}
}

func (a *App) readOrderID(prompt string) (int64, bool, error) {
	line, err := a.con.ReadLine(prompt)
	if err != nil {
		return 0, false, err
	}
	id, err := orders.ParseOrderID(line)
	if err != nil {
		return 0, false, a.report(err)
	}
	return id, true, nil
}

// replaceOrder cancels an unpaid order and lets the user order again.
func (a *App) replaceOrder(ctx context.Context, sess cafe.Session) error {
	id, ok, err := a.readOrderID("Please enter the non-paid orderID: ")
	if err != nil || !ok {
		return err
	}
	removed, err := a.orders.Cancel(ctx, sess, id)
	if errors.Is(err, cafe.ErrNotFound) {
		a.con.Println("OrderID not found!")
		return nil
	}
	if err != nil {
		return a.report(err)
	}
	if err := a.show(removed, nil); err != nil {
		return err
	}
	a.log.Printf("order %d cancelled by %s", id, sess.Login)
	a.con.Println("Order Successfully Deleted!")
	return a.placeOrder(ctx, sess)
}

func (a *App) markPaid(ctx context.Context, sess cafe.Session) error {
	id, ok, err := a.readOrderID("Please enter the orderID you would like to change to paid: ")
	if err != nil || !ok {
		return err
	}
	err = a.orders.MarkPaid(ctx, sess, id)
	if errors.Is(err, cafe.ErrNotFound) {
		a.con.Println("OrderID not found!")
		return nil
	}
	if err != nil {
		return a.report(err)
	}
	a.con.Println("Order updated successfully!")
	return nil
}

func (a *App) setStatus(ctx context.Context, sess cafe.Session) error {
	id, ok, err := a.readOrderID("Please enter the orderID you would like to update: ")
	if err != nil || !ok {
		return err
	}
	err = a.orders.RequireOrder(ctx, id)
	if errors.Is(err, cafe.ErrNotFound) {
		a.con.Println("OrderID not found!")
		return nil
	}
	if err != nil {
		return a.report(err)
	}

	status, err := a.con.ReadLine("OrderID found! Update status to Started, Finished, or Hasn't started? ")
	if err != nil {
		return err
	}
	if err := a.orders.SetStatus(ctx, sess, id, status); err != nil {
		return a.report(err)
	}
	a.con.Println("Order updated successfully!")
	return nil
}
