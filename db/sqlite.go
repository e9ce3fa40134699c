package db

import (
	"database/sql"
	"strings"

	"github.com/mattn/go-sqlite3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// sqliteDriver is go-sqlite3 with the extra SQL functions the stores use
const sqliteDriver = "sqlite3_giftlink"

func init() {
	sql.Register(sqliteDriver, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			// SQLite's LOWER only folds ASCII letters
			return conn.RegisterFunc("unicode_lower", strings.ToLower, true)
		},
	})
}

// SQLite returns a dialector for dsn that has unicode_lower(text) available
func SQLite(dsn string) gorm.Dialector {
	return sqlite.New(sqlite.Config{DriverName: sqliteDriver, DSN: dsn})
}
