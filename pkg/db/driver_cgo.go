//go:build cgo

package db

import (
	"errors"

	"github.com/mattn/go-sqlite3"
)

// DriverName is the database/sql driver registered for this build.
const DriverName = "sqlite3"

func driverCorrupt(err error) bool {
	var se sqlite3.Error
	if !errors.As(err, &se) {
		return false
	}
	return se.Code == sqlite3.ErrNotADB || se.Code == sqlite3.ErrCorrupt
}
