package database

import "gorm.io/gorm"

// DB is the shared gorm handle, initialized by SetupDatabase.
var DB *gorm.DB

// GetDB returns the shared database connection.
func GetDB() *gorm.DB {
	return DB
}

// SetDB overrides the shared connection, used by tests.
func SetDB(db *gorm.DB) {
	DB = db
}
