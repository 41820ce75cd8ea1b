package infra

import (
	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"
)

// NewReportDB wraps the gorm pool in a sqlx handle for the aggregate report
// queries. The dialector name picks the bind style: "postgres" rebinds ? to
// $N, SQLite keeps ?.
func NewReportDB(db *gorm.DB) (*sqlx.DB, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	return sqlx.NewDb(sqlDB, db.Dialector.Name()), nil
}
