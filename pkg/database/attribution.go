package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"netmesh-api/pkg/apperr"
	"netmesh-api/pkg/models"

	"github.com/uptrace/bun"
)

func InsertSpeedTest(ctx context.Context, idb bun.IDB, test *models.SpeedTest) error {
	_, err := idb.NewInsert().
		Model(test).
		Exec(ctx)

	if err != nil {
		return fmt.Errorf("error inserting speed test: %v", err)
	}

	return nil
}

func InsertRfcTest(ctx context.Context, idb bun.IDB, test *models.RfcTest) error {
	_, err := idb.NewInsert().
		Model(test).
		Exec(ctx)

	if err != nil {
		return fmt.Errorf("error inserting rfc test: %v", err)
	}

	return nil
}

func InsertPublicSpeedTest(ctx context.Context, idb bun.IDB, test *models.PublicSpeedTest) error {
	_, err := idb.NewInsert().
		Model(test).
		Exec(ctx)

	if err != nil {
		return fmt.Errorf("error inserting public speed test: %v", err)
	}

	return nil
}

func InsertPublicRfcTest(ctx context.Context, idb bun.IDB, test *models.PublicRfcTest) error {
	_, err := idb.NewInsert().
		Model(test).
		Exec(ctx)

	if err != nil {
		return fmt.Errorf("error inserting public rfc test: %v", err)
	}

	return nil
}

func (db *DB) GetSpeedTestByTestID(ctx context.Context, testID string) (*models.SpeedTest, error) {
	var test models.SpeedTest
	err := db.NewSelect().
		Model(&test).
		Relation("Result").
		Relation("Tester").
		Relation("Device").
		Relation("Location").
		Where("st.test_id = ?", testID).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("no result was found")
		}
		return nil, fmt.Errorf("error querying speed test: %v", err)
	}

	return &test, nil
}

func (db *DB) GetRfcTestByTestID(ctx context.Context, testID string) (*models.RfcTest, error) {
	var test models.RfcTest
	err := db.NewSelect().
		Model(&test).
		Relation("Result").
		Relation("Tester").
		Relation("Device").
		Relation("Location").
		Where("rt.test_id = ?", testID).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("no result was found")
		}
		return nil, fmt.Errorf("error querying rfc test: %v", err)
	}

	return &test, nil
}

func (db *DB) ListSpeedTestsByTester(ctx context.Context, testerID int64) ([]models.SpeedTest, error) {
	var tests []models.SpeedTest
	err := db.NewSelect().
		Model(&tests).
		Relation("Result").
		Relation("Device").
		Relation("Location").
		Where("st.tester_id = ?", testerID).
		Order("st.created_at DESC").
		Scan(ctx)

	if err != nil {
		return nil, fmt.Errorf("error listing speed tests: %v", err)
	}

	return tests, nil
}

func (db *DB) ListRfcTestsByTester(ctx context.Context, testerID int64) ([]models.RfcTest, error) {
	var tests []models.RfcTest
	err := db.NewSelect().
		Model(&tests).
		Relation("Result").
		Relation("Device").
		Relation("Location").
		Where("rt.tester_id = ?", testerID).
		Order("rt.created_at DESC").
		Scan(ctx)

	if err != nil {
		return nil, fmt.Errorf("error listing rfc tests: %v", err)
	}

	return tests, nil
}

func (db *DB) CountSpeedTests(ctx context.Context) (int, error) {
	count, err := db.NewSelect().
		Model((*models.SpeedTest)(nil)).
		Count(ctx)

	if err != nil {
		return 0, fmt.Errorf("error counting speed tests: %v", err)
	}

	return count, nil
}

func (db *DB) CountPublicSpeedTests(ctx context.Context) (int, error) {
	count, err := db.NewSelect().
		Model((*models.PublicSpeedTest)(nil)).
		Count(ctx)

	if err != nil {
		return 0, fmt.Errorf("error counting public speed tests: %v", err)
	}

	return count, nil
}
