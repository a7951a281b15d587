package idstore

import (
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Dialect selects the SQL flavour and driver a Store talks to.
type Dialect string

const (
	MySQL  Dialect = "mysql"
	SQLite Dialect = "sqlite"
)

// mysqlDuplicateEntry is ER_DUP_ENTRY.
const mysqlDuplicateEntry = 1062

func (d Dialect) valid() bool {
	return d == MySQL || d == SQLite
}

// schema returns the CREATE TABLE statement for table. Ids are stored as
// 16 big-endian bytes so that the key order matches fquuid.Compare.
func (d Dialect) schema(table string) string {
	switch d {
	case MySQL:
		return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	scope      VARCHAR(128) NOT NULL,
	id         BINARY(16)   NOT NULL,
	created_at BIGINT       NOT NULL,
	PRIMARY KEY (scope, id)
) ENGINE=InnoDB`, table)
	default:
		return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	scope      TEXT    NOT NULL,
	id         BLOB    NOT NULL,
	created_at INTEGER NOT NULL,
	PRIMARY KEY (scope, id)
) WITHOUT ROWID`, table)
	}
}

// isDuplicate reports whether err is a primary key violation.
func (d Dialect) isDuplicate(err error) bool {
	switch d {
	case MySQL:
		var me *mysql.MySQLError
		return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
	case SQLite:
		var se *sqlite.Error
		return errors.As(err, &se) && se.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return false
}
