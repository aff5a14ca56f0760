package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"cafe-terminal/internal/app"
	"cafe-terminal/internal/auth"
	"cafe-terminal/internal/console"
	"cafe-terminal/internal/data"
	"cafe-terminal/internal/db"
	"cafe-terminal/internal/events"
	"cafe-terminal/internal/executor"
	"cafe-terminal/internal/orders"
)

func main() {
	var (
		envFile       = flag.String("env-file", ".env", "optional file of KEY=value pairs loaded before reading the environment")
		driver        = flag.String("driver", "", "database driver: postgres | mysql | sqlite (default CAFE_DB_DRIVER or postgres)")
		host          = flag.String("host", "", "database host (default CAFE_DB_HOST or localhost)")
		password      = flag.String("password", "", "database password (default CAFE_DB_PASSWORD)")
		migrate       = flag.Bool("migrate", true, "create or update the cafe tables on startup")
		seed          = flag.Bool("seed", false, "insert the demo menu and one user per role")
		sqlLog        = flag.Bool("sql-log", false, "log every SQL statement")
		maxMisses     = flag.Int("max-item-retries", 0, "unknown item names in a row before an order is finalised (0 = unlimited)")
		hashPasswords = flag.Bool("hash-passwords", false, "store and verify passwords as bcrypt hashes")
		amqpURL       = flag.String("amqp-url", "", "RabbitMQ URL for order events (default CAFE_AMQP_URL, empty disables)")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] [<dbname> <port> <user>]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 0 && flag.NArg() != 3 {
		flag.Usage()
		os.Exit(2)
	}

	if err := db.LoadDotEnv(*envFile); err != nil {
		log.Printf("failed to load %s: %v", *envFile, err)
	}

	if *driver != "" {
		os.Setenv("CAFE_DB_DRIVER", *driver)
	}
	cfg := db.FromEnv()
	if *host != "" {
		cfg.Host = *host
	}
	if *password != "" {
		cfg.Password = *password
	}
	if flag.NArg() == 3 {
		cfg.Database = flag.Arg(0)
		cfg.Port = flag.Arg(1)
		cfg.User = flag.Arg(2)
	}
	if *sqlLog {
		cfg.LogLevel = logger.Info
	}

	log.Printf("connecting to %s database %q on %s:%s", cfg.Driver, cfg.Database, cfg.Host, cfg.Port)
	gdb, err := db.Open(cfg)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer func() {
		log.Printf("disconnecting from database")
		if err := db.Close(gdb); err != nil {
			log.Printf("close database: %v", err)
		}
	}()

	if *migrate {
		if err := data.EnsureSchema(gdb); err != nil {
			log.Fatalf("failed to migrate schema: %v", err)
		}
	}

	var creds auth.Credentials = auth.Plaintext{}
	if *hashPasswords {
		creds = auth.Bcrypt{}
	}

	ctx := context.Background()

	if *seed {
		if err := seedDemo(ctx, gdb, creds); err != nil {
			log.Fatalf("failed to seed demo data: %v", err)
		}
		log.Printf("demo menu and users ready")
	}

	var pub events.Publisher = events.Nop{}
	var amqpClient *events.AMQP
	if *amqpURL == "" {
		*amqpURL = os.Getenv("CAFE_AMQP_URL")
	}
	if *amqpURL != "" {
		client, err := events.DialAMQP(*amqpURL)
		if err != nil {
			log.Printf("order events disabled: %v", err)
		} else {
			defer client.Close()
			amqpClient, pub = client, client
			log.Printf("publishing order events to exchange %s", events.Exchange)
		}
	}

	// The terminal blocks on stdin, so an interrupt ends the process here.
	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-interrupts
		log.Printf("received %s, disconnecting from database", sig)
		if amqpClient != nil {
			_ = amqpClient.Close()
		}
		if err := db.Close(gdb); err != nil {
			log.Printf("close database: %v", err)
		}
		fmt.Println("Bye !")
		os.Exit(130)
	}()

	a := app.New(console.New(os.Stdin, os.Stdout), app.Config{
		Exec:      executor.New(gdb),
		Creds:     creds,
		Publisher: pub,
		Retry:     orders.RetryPolicy{MaxMisses: *maxMisses},
		Log:       log.Default(),
	})
	if err := a.Run(ctx); err != nil {
		log.Printf("terminal input failed: %v", err)
	}
	signal.Stop(interrupts)
	fmt.Println("Bye !")
}

func seedDemo(ctx context.Context, gdb *gorm.DB, creds auth.Credentials) error {
	seedCfg := data.DefaultSeed()
	for i := range seedCfg.Users {
		hashed, err := creds.Hash(seedCfg.Users[i].Password)
		if err != nil {
			return err
		}
		seedCfg.Users[i].Password = hashed
	}
	return data.Seed(ctx, gdb, seedCfg)
}
