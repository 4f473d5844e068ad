package database

import (
	"context"
	"fmt"

	"netmesh-api/pkg/apperr"
	"netmesh-api/pkg/models"

	"github.com/uptrace/bun"
)

// The insert helpers below take a bun.IDB so the attribution engine can run
// them inside one transaction; *DB satisfies bun.IDB for standalone use.

// InsertMobileResult stores a raw mobile measurement. A duplicate
// (timestamp, server) pair is rejected with a conflict and no partial write.
func InsertMobileResult(ctx context.Context, idb bun.IDB, result *models.MobileResult) error {
	_, err := idb.NewInsert().
		Model(result).
		Exec(ctx)

	if err != nil {
		if isUniqueViolation(err) {
			return apperr.Conflict("data already exists")
		}
		return fmt.Errorf("error inserting mobile result: %v", err)
	}

	return nil
}

// InsertRfcResult stores a raw RFC 6349 measurement under the same
// uniqueness rule as InsertMobileResult.
func InsertRfcResult(ctx context.Context, idb bun.IDB, result *models.RfcResult) error {
	_, err := idb.NewInsert().
		Model(result).
		Exec(ctx)

	if err != nil {
		if isUniqueViolation(err) {
			return apperr.Conflict("data already exists")
		}
		return fmt.Errorf("error inserting rfc result: %v", err)
	}

	return nil
}

// InsertLocation persists a geocode snapshot row.
func InsertLocation(ctx context.Context, idb bun.IDB, loc *models.Location) error {
	_, err := idb.NewInsert().
		Model(loc).
		Exec(ctx)

	if err != nil {
		return fmt.Errorf("error inserting location: %v", err)
	}

	return nil
}

func (db *DB) CountMobileResults(ctx context.Context) (int, error) {
	count, err := db.NewSelect().
		Model((*models.MobileResult)(nil)).
		Count(ctx)

	if err != nil {
		return 0, fmt.Errorf("error counting mobile results: %v", err)
	}

	return count, nil
}

func (db *DB) CountRfcResults(ctx context.Context) (int, error) {
	count, err := db.NewSelect().
		Model((*models.RfcResult)(nil)).
		Count(ctx)

	if err != nil {
		return 0, fmt.Errorf("error counting rfc results: %v", err)
	}

	return count, nil
}
