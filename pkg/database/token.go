package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"netmesh-api/pkg/apperr"
	"netmesh-api/pkg/models"
)

func (db *DB) CreateToken(ctx context.Context, token *models.AuthToken) error {
	_, err := db.NewInsert().
		Model(token).
		Exec(ctx)

	if err != nil {
		if isUniqueViolation(err) {
			return apperr.Conflict("token already exists")
		}
		return fmt.Errorf("error inserting token: %v", err)
	}

	return nil
}

// GetActiveToken resolves a bearer token to its binding, with the owning
// agent (and office) and the bound device loaded.
func (db *DB) GetActiveToken(ctx context.Context, token string) (*models.AuthToken, error) {
	var at models.AuthToken
	err := db.NewSelect().
		Model(&at).
		Relation("Agent").
		Relation("Agent.Office").
		Relation("MobileDevice").
		Relation("RfcDevice").
		Where("at.token = ?", token).
		Where("at.is_active = ?", true).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("device not registered to credential")
		}
		return nil, fmt.Errorf("error querying token: %v", err)
	}

	return &at, nil
}

// GetActiveWebTokenByAgent returns the agent's login token, if one exists.
func (db *DB) GetActiveWebTokenByAgent(ctx context.Context, agentID int64) (*models.AuthToken, error) {
	var at models.AuthToken
	err := db.NewSelect().
		Model(&at).
		Where("agent_id = ?", agentID).
		Where("device_kind = ?", models.KindWeb).
		Where("is_active = ?", true).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("no token was found")
		}
		return nil, fmt.Errorf("error querying token: %v", err)
	}

	return &at, nil
}

func (db *DB) RevokeToken(ctx context.Context, token string) error {
	res, err := db.NewUpdate().
		Model((*models.AuthToken)(nil)).
		Set("is_active = ?", false).
		Where("token = ?", token).
		Exec(ctx)

	if err != nil {
		return fmt.Errorf("error revoking token: %v", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("no token was found")
	}

	return nil
}
