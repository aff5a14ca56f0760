// Package app is the menu navigation driver: it reads numeric choices and
// dispatches them to the cafe workflows.
package app

import (
	"context"
	"errors"
	"io"
	"log"

	"cafe-terminal/internal/auth"
	"cafe-terminal/internal/cafe"
	"cafe-terminal/internal/catalog"
	"cafe-terminal/internal/console"
	"cafe-terminal/internal/events"
	"cafe-terminal/internal/executor"
	"cafe-terminal/internal/orders"
	"cafe-terminal/internal/profile"
)

// Config wires the workflows behind the menus.
type Config struct {
	Exec      executor.Executor
	Creds     auth.Credentials
	Publisher events.Publisher
	Retry     orders.RetryPolicy
	Log       *log.Logger
}

// App holds the console and the services its menus call.
type App struct {
	con     *console.Console
	log     *log.Logger
	auth    *auth.Service
	catalog *catalog.Service
	profile *profile.Service
	orders  *orders.Service
}

// New builds an App that reads from and writes to con.
func New(con *console.Console, cfg Config) *App {
	logger := cfg.Log
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &App{
		con:     con,
		log:     logger,
		auth:    auth.NewService(cfg.Exec, cfg.Creds),
		catalog: catalog.NewService(cfg.Exec),
		profile: profile.NewService(cfg.Exec, cfg.Creds),
		orders:  orders.NewService(cfg.Exec, cfg.Publisher, cfg.Retry, logger),
	}
}

// Run shows the greeting and the main menu until the user exits or input
// ends. It returns ctx.Err() once ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	a.greeting()
	for {
		a.con.Menu("MAIN MENU",
			"1. Create user",
			"2. Log in",
			"9. < EXIT")
		choice, err := a.choose(ctx)
		if err != nil {
			return endOfInput(err)
		}

		switch choice {
		case 1:
			err = a.createUser(ctx)
		case 2:
			var sess cafe.Session
			sess, err = a.logIn(ctx)
			if err == nil && sess.Login != "" {
				err = a.userMenu(ctx, sess)
			}
		case 9:
			return nil
		default:
			a.con.Println("Unrecognized choice! Please try again.")
		}
		if err = a.report(err); err != nil {
			return endOfInput(err)
		}
	}
}

func (a *App) greeting() {
	a.con.Println()
	a.con.Println("*******************************************************")
	a.con.Println("              Cafe Ordering Terminal")
	a.con.Println("*******************************************************")
	a.con.Println()
}

func (a *App) createUser(ctx context.Context) error {
	a.con.Println("*WARNING* User logins are final*")
	login, err := a.con.ReadLine("\tEnter user login: ")
	if err != nil {
		return err
	}
	password, err := a.con.ReadLine("\tEnter user password: ")
	if err != nil {
		return err
	}
	phone, err := a.con.ReadLine("\tEnter user phone: ")
	if err != nil {
		return err
	}
	if err := a.auth.SignUp(ctx, login, password, phone); err != nil {
		return a.report(err)
	}
	a.log.Printf("user %s signed up", login)
	a.con.Println("User successfully created!")
	return nil
}

func (a *App) logIn(ctx context.Context) (cafe.Session, error) {
	login, err := a.con.ReadLine("\tEnter user login: ")
	if err != nil {
		return cafe.Session{}, err
	}
	password, err := a.con.ReadLine("\tEnter user password: ")
	if err != nil {
		return cafe.Session{}, err
	}
	sess, err := a.auth.LogIn(ctx, login, password)
	if err != nil {
		return cafe.Session{}, a.report(err)
	}
	a.log.Printf("user %s logged in as %s", sess.Login, sess.Role)
	return sess, nil
}

func (a *App) userMenu(ctx context.Context, sess cafe.Session) error {
	for {
		a.con.Menu("MAIN MENU",
			"1. Go to Menu",
			"2. Update Profile",
			"3. Place a Order",
			"4. Update a Order",
			".........................",
			"9. Log out")
		choice, err := a.choose(ctx)
		if err != nil {
			return err
		}

		switch choice {
		case 1:
			err = a.browseMenu(ctx, sess)
		case 2:
			err = a.profileMenu(ctx, sess)
		case 3:
			err = a.ordersMenu(ctx, sess)
		case 4:
			err = a.updateOrdersMenu(ctx, sess)
		case 9:
			a.log.Printf("user %s logged out", sess.Login)
			return nil
		default:
			a.con.Println("Unrecognized choice! Please try again.")
		}
		if err = a.report(err); err != nil {
			return err
		}
	}
}

// choose reads a menu choice unless ctx has been cancelled.
func (a *App) choose(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	choice, err := a.con.ReadChoice()
	if err != nil {
		return 0, err
	}
	return choice, ctx.Err()
}

// report prints a one-line message for a workflow error. End of input and
// cancellation are passed through so the caller can stop; everything else
// is swallowed and the caller returns to its menu.
func (a *App) report(err error) error {
	if err == nil {
		return nil
	}
	if console.IsEOF(err) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var verr *cafe.ValidationError
	var qerr *executor.QueryError
	switch {
	case errors.Is(err, cafe.ErrInvalidCredentials):
		a.con.Println("Invalid login or password.")
	case errors.Is(err, cafe.ErrForbidden):
		a.con.Println("You are not allowed to do that.")
	case errors.As(err, &verr):
		a.con.Printf("Invalid input: %s\n", verr.Error())
	case errors.As(err, &qerr):
		a.log.Printf("%v", qerr)
		a.con.Printf("Database error: %v\n", qerr.Err)
	default:
		a.con.Printf("Error: %v\n", err)
	}
	return nil
}

// show renders res, or reports err when the query failed.
func (a *App) show(res executor.Result, err error) error {
	if err != nil {
		return a.report(err)
	}
	return a.report(a.con.Table(res))
}

func endOfInput(err error) error {
	if console.IsEOF(err) {
		return nil
	}
	return err
}
