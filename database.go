package main

import (
	"strings"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// ParseDatabaseDriver creates the gorm dialector for a scheme-prefixed
// database string. Returns nil if the scheme is unknown.
func ParseDatabaseDriver(dbURL string) gorm.Dialector {
	switch {
	case strings.HasPrefix(dbURL, "sqlite://"):
		return sqlite.Open(strings.TrimPrefix(dbURL, "sqlite://"))
	case strings.HasPrefix(dbURL, "mysql://"):
		return mysql.Open(strings.TrimPrefix(dbURL, "mysql://"))
	}
	return nil
}
