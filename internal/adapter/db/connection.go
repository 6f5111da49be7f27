package db

import (
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/internal/config"
)

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

// ConnectDB opens the configured store and applies pending migrations.
func ConnectDB(conf *config.Config) (*sqlx.DB, error) {
	var (
		db  *sqlx.DB
		err error
	)

	switch conf.DbDriver {
	case DriverSQLite:
		db, err = OpenSQLite(conf.SqlitePath)
	case DriverMySQL, "":
		db, err = openMySQL(conf)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", conf.DbDriver)
	}
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func openMySQL(conf *config.Config) (*sqlx.DB, error) {
	params := conf.DbParams
	if params == "" {
		params = "parseTime=true&multiStatements=true&loc=UTC"
	}

	dsn := fmt.Sprintf(
		"%s:%s@tcp(%s:%s)/%s?%s",
		conf.DbUser,
		conf.DbPassword,
		conf.DbHost,
		conf.DbPort,
		conf.DbName,
		params,
	)

	db, err := sqlx.Connect(DriverMySQL, dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(conf.DbMaxOpenConns)
	db.SetMaxIdleConns(conf.DbMaxOpenConns / 2)
	return db, nil
}

// OpenSQLite opens a file-backed database for local runs and tests.
func OpenSQLite(path string) (*sqlx.DB, error) {
	dsn := path + "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	db, err := sqlx.Connect(DriverSQLite, dsn)
	if err != nil {
		return nil, err
	}
	// A single connection serialises writers and prevents SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	return db, nil
}
