package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	catalogrepo "github.com/reelmetrics/reelmetrics/internal/catalog/repository"
	userdomain "github.com/reelmetrics/reelmetrics/internal/user/domain"
	userrepo "github.com/reelmetrics/reelmetrics/internal/user/repository"
	"github.com/reelmetrics/reelmetrics/pkg/database"
)

var dbSeq atomic.Int64

// SetupSQLiteDB opens a fresh in-memory database with the full schema
// migrated. Each call gets a uniquely named shared-cache database so the
// connection pool sees one store while separate tests stay isolated.
func SetupSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}

	if err := database.RunMigrations(db,
		&catalogrepo.Movie{},
		&catalogrepo.Genre{},
		&catalogrepo.Director{},
		&catalogrepo.Actor{},
		&userdomain.User{},
		&userrepo.UserFavourite{},
		&userrepo.UserRecommendation{},
	); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})

	return db
}
