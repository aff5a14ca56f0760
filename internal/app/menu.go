package app

import (
	"context"
	"errors"

	"cafe-terminal/internal/cafe"
	"cafe-terminal/internal/catalog"
	"cafe-terminal/internal/executor"
)

func (a *App) browseMenu(ctx context.Context, sess cafe.Session) error {
	for {
		options := []string{
			"1. View drinks",
			"2. View sweets",
			"3. View soups",
			"4. View entire menu",
			"5. Search by item name",
			"6. Search by item type",
		}
		if sess.IsManager() {
			options = append(options, "7. Add/Update/Delete menu")
		}
		options = append(options, "9. Return to Main Menu")
		a.con.Menu("Viewing Menu", options...)

		choice, err := a.choose(ctx)
		if err != nil {
			return err
		}
		switch choice {
		case 1:
			err = a.showType(ctx, catalog.TypeDrinks)
		case 2:
			err = a.showType(ctx, catalog.TypeSweets)
		case 3:
			err = a.showType(ctx, catalog.TypeSoup)
		case 4:
			res, qerr := a.catalog.ListAll(ctx)
			err = a.show(res, qerr)
		case 5:
			err = a.search(ctx, "Please input an item's name: ", a.catalog.SearchByName)
		case 6:
			err = a.search(ctx, "Please input a type: ", a.catalog.SearchByType)
		case 7:
			if !sess.IsManager() {
				a.con.Println("Unrecognized choice! Please try again.")
				continue
			}
			err = a.manageMenu(ctx, sess)
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

func (a *App) showType(ctx context.Context, itemType string) error {
	res, err := a.catalog.ListByType(ctx, itemType)
	return a.show(res, err)
}

func (a *App) search(ctx context.Context, prompt string, find func(context.Context, string) (executor.Result, error)) error {
	value, err := a.con.ReadLine(prompt)
	if err != nil {
		return err
	}
	res, err := find(ctx, value)
	if errors.Is(err, cafe.ErrNotFound) {
		a.con.Println("Invalid input please try again")
		return nil
	}
	return a.show(res, err)
}

func (a *App) manageMenu(ctx context.Context, sess cafe.Session) error {
	for {
		a.con.Menu("Please choose an option",
			"1. ADD an item to menu",
			"2. UPDATE an item on menu",
			"3. DELETE an item from menu",
			"9. Return to Main Menu")
		choice, err := a.choose(ctx)
		if err != nil {
			return err
		}
		switch choice {
		case 1:
			return a.addItem(ctx, sess)
		case 2:
			return a.updateItem(ctx, sess)
		case 3:
			return a.deleteItem(ctx, sess)
		case 9:
			return nil
		default:
			a.con.Println("Unrecognized choice! Please try again.")
		}
	}
}

func (a *App) addItem(ctx context.Context, sess cafe.Session) error {
	var item catalog.Item
	fields := []struct {
		prompt string
		dst    *string
	}{
		{"Please input an item's name: ", &item.Name},
		{"Please input an item's type: ", &item.Type},
		{"Please input an item's price: ", &item.Price},
		{"Please input an item's description: ", &item.Description},
	}
	for _, f := range fields {
		v, err := a.con.ReadLine(f.prompt)
		if err != nil {
			return err
		}
		*f.dst = v
	}
	if err := a.catalog.Add(ctx, sess, item); err != nil {
		return a.report(err)
	}
	a.con.Println("Successfully added an item!")
	return nil
}

func (a *App) updateItem(ctx context.Context, sess cafe.Session) error {
	name, err := a.con.ReadLine("Which item would you like to update: ")
	if err != nil {
		return err
	}
	ok, err := a.catalog.Exists(ctx, name)
	if err != nil {
		return a.report(err)
	}
	if !ok {
		a.con.Println("Unknown item. Please try again.")
		return nil
	}

	for {
		a.con.Menu("Update "+name,
			"1. Update type",
			"2. Update price",
			"3. Update description",
			"9. Go back to main menu")
		choice, err := a.choose(ctx)
		if err != nil {
			return err
		}
		var field catalog.Field
		switch choice {
		case 1:
			field = catalog.FieldType
		case 2:
			field = catalog.FieldPrice
		case 3:
			field = catalog.FieldDescription
		case 9:
			return nil
		default:
			a.con.Println("Unrecognized choice! Please try again.")
			continue
		}

		value, err := a.con.ReadLine("What would you like to update the " + string(field) + " to?: ")
		if err != nil {
			return err
		}
		if err := a.catalog.Update(ctx, sess, name, field, value); err != nil {
			return a.report(err)
		}
		a.con.Printf("Successfully updated %s!\n", field)
		return nil
	}
}

func (a *App) deleteItem(ctx context.Context, sess cafe.Session) error {
	name, err := a.con.ReadLine("Please input an item's name: ")
	if err != nil {
		return err
	}
	err = a.catalog.Delete(ctx, sess, name)
	if errors.Is(err, cafe.ErrNotFound) {
		a.con.Println("Invalid input please try again")
		return nil
	}
	if err != nil {
		return a.report(err)
	}
	a.con.Println("Successfully Deleted Item!")
	return nil
}
