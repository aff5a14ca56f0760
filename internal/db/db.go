package db

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"
)

// Config captures the connection parameters for the cafe database.
type Config struct {
	Driver   string
	User     string
	Password string
	Host     string
	Port     string
	Database string
	Params   string
	LogLevel logger.LogLevel
}

// LoadDotEnv reads a .env file into the process environment. A missing file is not an error.
func LoadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err != nil && errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// FromEnv populates a Config using defaults that can be overridden via environment variables.
func FromEnv() Config {
	driver := getEnv("CAFE_DB_DRIVER", DriverPostgres)
	cfg := Config{
		Driver:   driver,
		User:     getEnv("CAFE_DB_USER", "postgres"),
		Password: getEnv("CAFE_DB_PASSWORD", ""),
		Host:     getEnv("CAFE_DB_HOST", "localhost"),
		Port:     getEnv("CAFE_DB_PORT", defaultPort(driver)),
		Database: getEnv("CAFE_DB_NAME", "cafe"),
		Params:   getEnv("CAFE_DB_PARAMS", defaultParams(driver)),
		LogLevel: logger.Warn,
	}
	return cfg
}

// DSN renders the driver specific data source name.
func (c Config) DSN() (string, error) {
	switch c.Driver {
	case DriverPostgres:
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s",
			c.Host, c.Port, c.User, c.Password, c.Database)
		if c.Params != "" {
			dsn += " " + c.Params
		}
		return dsn, nil
	case DriverMySQL:
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s",
			c.User,
			c.Password,
			c.Host,
			c.Port,
			c.Database,
			c.Params,
		), nil
	case DriverSQLite:
		if c.Params == "" {
			return c.Database, nil
		}
		return c.Database + "?" + c.Params, nil
	default:
		return "", fmt.Errorf("unsupported driver %q", c.Driver)
	}
}

// Open returns a gorm DB bound to a single physical connection.
func Open(cfg Config) (*gorm.DB, error) {
	dsn, err := cfg.DSN()
	if err != nil {
		return nil, err
	}

	var dialector gorm.Dialector
	switch cfg.Driver {
	case DriverPostgres:
		dialector = postgres.Open(dsn)
	case DriverMySQL:
		dialector = mysql.Open(dsn)
	case DriverSQLite:
		dialector = sqlite.Open(dsn)
	}

	level := cfg.LogLevel
	if level == 0 {
		level = logger.Warn
	}
	gormCfg := &gorm.Config{
		Logger: logger.Default.LogMode(level),
	}

	gdb, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}

	// One interactive user per connection; transactions and sequence
	// reads rely on statements sharing the same session.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	if cfg.Driver != DriverSQLite {
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}

	return gdb, nil
}

// Close releases the underlying connection.
func Close(gdb *gorm.DB) error {
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func defaultPort(driver string) string {
	switch driver {
	case DriverMySQL:
		return "3306"
	default:
		return "5432"
	}
}

func defaultParams(driver string) string {
	switch driver {
	case DriverMySQL:
		return "charset=utf8mb4&parseTime=True&loc=Local"
	case DriverPostgres:
		return "sslmode=disable"
	default:
		return ""
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
