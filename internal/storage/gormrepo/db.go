package gormrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/Skotchmaster/hospital_management/internal/models"
	"github.com/Skotchmaster/hospital_management/internal/storage"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type GormRepo struct {
	DB *gorm.DB
}

var _ storage.Store = (*GormRepo)(nil)

func configurePool(sqlDB *sql.DB, driver string) {
	const (
		maxOpenConns    = 20
		maxIdleConns    = 10
		connMaxLifetime = 30 * time.Minute
		connMaxIdleTime = 5 * time.Minute
	)

	// every sqlite connection would see its own in-memory database
	if driver == DriverSQLite {
		sqlDB.SetMaxOpenConns(1)
		return
	}
	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)
}

// Open connects, tunes the pool, checks the connection and migrates the schema.
func Open(ctx context.Context, driver, dsn string) (*GormRepo, error) {
	if dsn == "" {
		return nil, fmt.Errorf("DATABASE_URL is empty")
	}

	var dialector gorm.Dialector
	switch driver {
	case DriverPostgres:
		dialector = postgres.Open(dsn)
	case DriverSQLite:
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		PrepareStmt:    driver == DriverPostgres,
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	configurePool(sqlDB, driver)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	r := &GormRepo{DB: db}
	if err := r.Migrate(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return r, nil
}

func (r *GormRepo) Migrate(ctx context.Context) error {
	err := r.DB.WithContext(ctx).AutoMigrate(
		&models.User{},
		&models.Doctor{},
		&models.Patient{},
		&models.Hospital{},
		&models.Department{},
		&models.MedicalRecord{},
	)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func (r *GormRepo) Ping(ctx context.Context) error {
	sqlDB, err := r.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (r *GormRepo) Close() error {
	sqlDB, err := r.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return storage.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", storage.ErrAlreadyExists, err)
	default:
		return err
	}
}

// updateColumns applies cols to the row with the given id and reloads it into dst.
func updateColumns(tx *gorm.DB, dst any, id string, cols map[string]any) error {
	if len(cols) > 0 {
		res := tx.Model(dst).Where("id = ?", id).Updates(cols)
		if res.Error != nil {
			return translate(res.Error)
		}
		if res.RowsAffected == 0 {
			return storage.ErrNotFound
		}
	}
	return translate(tx.First(dst, "id = ?", id).Error)
}

// lockByID loads dst and holds a row lock on it until tx ends. SQLite has no
// row locks; its dialect drops the clause and serializes writers instead.
func lockByID(tx *gorm.DB, dst any, id string) error {
	return translate(tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(dst, "id = ?", id).Error)
}
