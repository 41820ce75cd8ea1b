package infra

import (
	"fmt"
	"strings"
	"time"

	"stockdesk/internal/model"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DefaultDSN is used when DATABASE_URL is empty.
const DefaultDSN = "sqlite://stockdesk.db"

// NewDatabase opens a GORM connection for dsn. postgres:// and postgresql://
// URLs use the pgx-backed postgres dialect; sqlite://path, file: URIs and bare
// paths open an embedded SQLite file.
//
// SQLite gets a single open connection: writers serialize on it, and every
// statement issued inside a transaction must go through the tx handle.
func NewDatabase(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		dsn = DefaultDSN
	}

	dialector, embedded := openDialector(dsn)
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if embedded {
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
	}
	return db, nil
}

func openDialector(dsn string) (gorm.Dialector, bool) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") || strings.Contains(dsn, "host=") {
		return postgres.Open(dsn), false
	}
	return sqlite.Open(sqliteDSN(dsn)), true
}

// sqliteDSN strips the sqlite:// scheme and appends the pragmas the schema
// relies on (FK enforcement is off by default in SQLite).
func sqliteDSN(dsn string) string {
	path := strings.TrimPrefix(dsn, "sqlite://")
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

// RunMigrations creates or updates the three tables, then applies the
// idempotent index patches AutoMigrate does not express.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Product{},
		&model.Sale{},
		&model.PurchaseOrder{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches uses IF NOT EXISTS so re-running on a patched DB is a no-op.
// The syntax is shared by PostgreSQL and SQLite.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// monthly range scans
		`CREATE INDEX IF NOT EXISTS idx_sales_sale_date ON sales (sale_date)`,
		`CREATE INDEX IF NOT EXISTS idx_purchase_orders_status ON purchase_orders (status, order_date)`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", sql[:min(len(sql), 60)], err)
		}
	}
	return nil
}
