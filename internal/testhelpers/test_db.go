// Package testhelpers holds fixtures shared by package tests.
package testhelpers

import (
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"peerprep/interview/internal/models"
)

var (
	openSQLite       = func(dsn string) (*gorm.DB, error) { return gorm.Open(sqlite.Open(dsn), &gorm.Config{}) }
	migrateSchema    = func(db *gorm.DB) error { return db.AutoMigrate(&models.InterviewRecord{}, &models.ArchivedTurn{}) }
	dropHistoryTable = func(db *gorm.DB) error { return db.Migrator().DropTable(&models.ArchivedTurn{}, &models.InterviewRecord{}) }
)

// SetupTestDB creates an isolated in-memory SQLite database with the archive schema.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := openSQLite(dsn)
	if err != nil {
		panic(fmt.Sprintf("failed to open test database: %v", err))
	}
	if err := migrateSchema(db); err != nil {
		panic(fmt.Sprintf("failed to migrate test database: %v", err))
	}
	return db
}

// DropHistoryTables removes the archive tables to force query errors.
func DropHistoryTables(t *testing.T, db *gorm.DB) {
	t.Helper()
	if err := dropHistoryTable(db); err != nil {
		panic(fmt.Sprintf("failed to drop history tables: %v", err))
	}
}
