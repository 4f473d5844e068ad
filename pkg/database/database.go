package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"netmesh-api/pkg/models"

	"github.com/spf13/viper"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/driver/sqliteshim"
)

type DB struct {
	*bun.DB
}

func NewDB() (*DB, error) {
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		viper.GetString("database.user"),
		viper.GetString("database.password"),
		viper.GetString("database.host"),
		viper.GetInt("database.port"),
		viper.GetString("database.dbname"),
		viper.GetString("database.sslmode"),
	)

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))

	db := bun.NewDB(sqldb, pgdialect.New())

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %v", err)
	}

	return &DB{db}, nil
}

// NewTestDB opens an in-memory SQLite database. Used by tests only.
func NewTestDB() (*DB, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, "file::memory:?cache=shared")
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %v", err)
	}
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())

	return &DB{db}, nil
}

// InitSchema creates all tables if they don't exist, parents before the
// tables that reference them.
func (db *DB) InitSchema(ctx context.Context) error {
	tables := []struct {
		model any
		fks   []string
	}{
		{model: (*models.RegionalOffice)(nil)},
		{model: (*models.Agent)(nil), fks: []string{
			`("office_id") REFERENCES regional_offices ("id")`,
		}},
		{model: (*models.MobileDevice)(nil), fks: []string{
			`("agent_id") REFERENCES agents ("id") ON DELETE CASCADE`,
		}},
		{model: (*models.RfcDevice)(nil), fks: []string{
			`("agent_id") REFERENCES agents ("id") ON DELETE CASCADE`,
		}},
		{model: (*models.AuthToken)(nil), fks: []string{
			`("agent_id") REFERENCES agents ("id") ON DELETE CASCADE`,
		}},
		{model: (*models.Server)(nil)},
		{model: (*models.MobileResult)(nil), fks: []string{
			`("server_id") REFERENCES servers ("id") ON DELETE CASCADE`,
		}},
		{model: (*models.RfcResult)(nil), fks: []string{
			`("server_id") REFERENCES servers ("id") ON DELETE CASCADE`,
		}},
		{model: (*models.Location)(nil)},
		{model: (*models.SpeedTest)(nil), fks: []string{
			`("result_id") REFERENCES mobile_results ("id") ON DELETE CASCADE`,
			`("tester_id") REFERENCES agents ("id")`,
			`("device_id") REFERENCES mobile_devices ("id")`,
			`("location_id") REFERENCES locations ("id")`,
		}},
		{model: (*models.RfcTest)(nil), fks: []string{
			`("result_id") REFERENCES rfc_results ("id") ON DELETE CASCADE`,
			`("tester_id") REFERENCES agents ("id")`,
			`("device_id") REFERENCES rfc_devices ("id")`,
			`("location_id") REFERENCES locations ("id")`,
		}},
		{model: (*models.PublicSpeedTest)(nil), fks: []string{
			`("result_id") REFERENCES mobile_results ("id") ON DELETE CASCADE`,
		}},
		{model: (*models.PublicRfcTest)(nil), fks: []string{
			`("result_id") REFERENCES rfc_results ("id") ON DELETE CASCADE`,
		}},
	}

	for _, t := range tables {
		q := db.NewCreateTable().
			Model(t.model).
			IfNotExists()
		for _, fk := range t.fks {
			q = q.ForeignKey(fk)
		}
		if _, err := q.Exec(ctx); err != nil {
			return fmt.Errorf("failed to create table: %v", err)
		}
	}

	return nil
}

// RunInTx runs fn inside a single transaction.
func (db *DB) RunInTx(ctx context.Context, fn func(ctx context.Context, tx bun.Tx) error) error {
	return db.DB.RunInTx(ctx, nil, fn)
}

// isUniqueViolation reports whether err came from a uniqueness constraint,
// for Postgres (SQLSTATE 23505) and the SQLite test driver.
func isUniqueViolation(err error) bool {
	var pgErr pgdriver.Error
	if errors.As(err, &pgErr) {
		return pgErr.Field('C') == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "constraint failed")
}
