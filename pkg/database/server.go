package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"netmesh-api/pkg/apperr"
	"netmesh-api/pkg/models"
)

func (db *DB) CreateServer(ctx context.Context, server *models.Server) error {
	_, err := db.NewInsert().
		Model(server).
		Exec(ctx)

	if err != nil {
		if isUniqueViolation(err) {
			return apperr.Conflict("server already exists")
		}
		return fmt.Errorf("error inserting server: %v", err)
	}

	return nil
}

func (db *DB) GetServerByID(ctx context.Context, id int64) (*models.Server, error) {
	var server models.Server
	err := db.NewSelect().
		Model(&server).
		Where("s.id = ?", id).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("no server was found")
		}
		return nil, fmt.Errorf("error querying server: %v", err)
	}

	return &server, nil
}

func (db *DB) ListServers(ctx context.Context) ([]models.Server, error) {
	var servers []models.Server
	err := db.NewSelect().
		Model(&servers).
		Order("id").
		Scan(ctx)

	if err != nil {
		return nil, fmt.Errorf("error listing servers: %v", err)
	}

	return servers, nil
}
