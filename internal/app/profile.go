package app

import (
	"context"
	"errors"

	"cafe-terminal/internal/cafe"
)

func (a *App) profileMenu(ctx context.Context, sess cafe.Session) error {
	for {
		options := []string{
			"1. Update password",
			"2. Update phone number",
			"3. Update favorite items",
		}
		if sess.IsManager() {
			options = append(options, "4. Select user to update")
		}
		options = append(options, "9. Cancel")
		a.con.Menu("Update Profile", options...)

		choice, err := a.choose(ctx)
		if err != nil {
			return err
		}
		switch choice {
		case 1:
			err = a.updatePassword(ctx, sess, sess.Login)
		case 2:
			err = a.updatePhone(ctx, sess, sess.Login)
		case 3:
			err = a.updateFavorites(ctx, sess, sess.Login)
		case 4:
			if !sess.IsManager() {
				a.con.Println("Unrecognized choice! Please try again.")
				continue
			}
			err = a.selectUser(ctx, sess)
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

func (a *App) selectUser(ctx context.Context, sess cafe.Session) error {
	login, err := a.con.ReadLine("Please enter user you want to update: ")
	if err != nil {
		return err
	}
	res, err := a.profile.LookupUser(ctx, sess, login)
	if errors.Is(err, cafe.ErrNotFound) {
		a.con.Println("User not found.")
		return nil
	}
	if err != nil {
		return a.report(err)
	}
	if err := a.show(res, nil); err != nil {
		return err
	}

	for {
		a.con.Menu("Select Option",
			"1. Update password",
			"2. Update phone number",
			"3. Update favorite items",
			"4. Update user type",
			"9. Cancel")
		choice, err := a.choose(ctx)
		if err != nil {
			return err
		}
		switch choice {
		case 1:
			err = a.updatePassword(ctx, sess, login)
		case 2:
			err = a.updatePhone(ctx, sess, login)
		case 3:
			err = a.updateFavorites(ctx, sess, login)
		case 4:
			err = a.assignRole(ctx, sess, login)
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

func (a *App) updatePassword(ctx context.Context, sess cafe.Session, target string) error {
	password, err := a.con.ReadLine("Please enter new password: ")
	if err != nil {
		return err
	}
	if err := a.profile.UpdatePassword(ctx, sess, target, password); err != nil {
		return a.report(err)
	}
	a.con.Println("Successfully changed password!")
	return nil
}

func (a *App) updatePhone(ctx context.Context, sess cafe.Session, target string) error {
	phone, err := a.con.ReadLine("Please enter new phone number: ")
	if err != nil {
		return err
	}
	if err := a.profile.UpdatePhone(ctx, sess, target, phone); err != nil {
		return a.report(err)
	}
	a.con.Println("Successfully changed phone number!")
	return nil
}

func (a *App) updateFavorites(ctx context.Context, sess cafe.Session, target string) error {
	current, err := a.profile.Favorites(ctx, sess, target)
	if err != nil {
		return a.report(err)
	}
	a.con.Println("Viewing current favorite items:")
	a.con.Println(current)

	item, err := a.con.ReadLine("What item would you like to add? ")
	if err != nil {
		return err
	}
	updated, err := a.profile.AddFavorite(ctx, sess, target, item)
	if err != nil {
		return a.report(err)
	}
	a.con.Printf("Updated favorite item(s), %s\n", updated)
	return nil
}

func (a *App) assignRole(ctx context.Context, sess cafe.Session, target string) error {
	role, err := a.con.ReadLine("Please enter new rank: ")
	if err != nil {
		return err
	}
	if err := a.profile.AssignRole(ctx, sess, target, role); err != nil {
		return a.report(err)
	}
	a.log.Printf("user %s changed role of %s to %s", sess.Login, target, role)
	a.con.Printf("Successfully changed rank of %s.\n", target)
	return nil
}
