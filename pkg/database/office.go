package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"netmesh-api/pkg/apperr"
	"netmesh-api/pkg/models"
)

func (db *DB) CreateOffice(ctx context.Context, office *models.RegionalOffice) error {
	_, err := db.NewInsert().
		Model(office).
		Exec(ctx)

	if err != nil {
		if isUniqueViolation(err) {
			return apperr.Conflict("office for region already exists")
		}
		return fmt.Errorf("error inserting office: %v", err)
	}

	return nil
}

func (db *DB) GetOfficeByRegion(ctx context.Context, region string) (*models.RegionalOffice, error) {
	var office models.RegionalOffice
	err := db.NewSelect().
		Model(&office).
		Where("region = ?", region).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("no office for region")
		}
		return nil, fmt.Errorf("error querying office: %v", err)
	}

	return &office, nil
}

func (db *DB) ListOffices(ctx context.Context) ([]models.RegionalOffice, error) {
	var offices []models.RegionalOffice
	err := db.NewSelect().
		Model(&offices).
		Order("region").
		Scan(ctx)

	if err != nil {
		return nil, fmt.Errorf("error listing offices: %v", err)
	}

	return offices, nil
}
