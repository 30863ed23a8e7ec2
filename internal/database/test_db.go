package database

import (
	"fmt"
	"sync/atomic"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBSeq atomic.Int64

// OpenTest returns a fresh in-memory database with the schema applied.
// Each call gets its own named shared-cache DB so GORM's connection pool
// sees one database per test while tests stay isolated from each other.
func OpenTest() *gorm.DB {
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		panic("failed to connect test database")
	}

	if err := migrate(db); err != nil {
		panic("failed to migrate test database")
	}
	return db
}
