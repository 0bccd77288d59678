package database

import (
	"fmt"
	"strings"

	"artshare-api/config"
	"artshare-api/internal/domain/billing"
	"artshare-api/internal/domain/gallery"
	"artshare-api/internal/domain/media"

	"github.com/glebarez/sqlite"
	"github.com/go-kratos/kratos/v2/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var DB *gorm.DB

// Open connects to postgres or sqlite. Unique violations come back as
// gorm.ErrDuplicatedKey.
func Open(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch strings.ToLower(driver) {
	case "", "postgres", "postgresql":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(withForeignKeys(dsn))
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, err
	}
	return db, nil
}

// withForeignKeys turns on sqlite foreign key enforcement for every pooled
// connection unless the DSN already sets it.
func withForeignKeys(dsn string) string {
	if strings.Contains(dsn, "foreign_keys") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)"
}

// Models lists every persisted type, referenced tables first.
func Models() []any {
	return []any{
		&media.Object{},
		&gallery.User{},
		&gallery.Art{},
		&gallery.Comment{},
		&gallery.Commission{},
		&gallery.ArtLike{},
		&gallery.Follow{},
		&billing.Payment{},
	}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}

func InitDB() {
	db, err := Open(config.DB_DRIVER, config.DB_URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := Migrate(db); err != nil {
		log.Fatalf("AutoMigrate error: %v", err)
	}
	DB = db
	log.Infof("Connected to %s and migrated successfully", db.Dialector.Name())
}
