package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"netmesh-api/pkg/apperr"
	"netmesh-api/pkg/models"
)

func (db *DB) CreateAgent(ctx context.Context, agent *models.Agent) error {
	_, err := db.NewInsert().
		Model(agent).
		Exec(ctx)

	if err != nil {
		if isUniqueViolation(err) {
			return apperr.Conflict("agent with email already exists")
		}
		return fmt.Errorf("error inserting agent: %v", err)
	}

	return nil
}

func (db *DB) GetAgentByEmail(ctx context.Context, email string) (*models.Agent, error) {
	var agent models.Agent
	err := db.NewSelect().
		Model(&agent).
		Relation("Office").
		Where("a.email = ?", email).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("no agent with that email")
		}
		return nil, fmt.Errorf("error querying agent: %v", err)
	}

	return &agent, nil
}

func (db *DB) GetAgentByID(ctx context.Context, id int64) (*models.Agent, error) {
	var agent models.Agent
	err := db.NewSelect().
		Model(&agent).
		Relation("Office").
		Where("a.id = ?", id).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("no agent was found")
		}
		return nil, fmt.Errorf("error querying agent: %v", err)
	}

	return &agent, nil
}

// ListAgentsByRegion returns the non-staff agents attached to offices in the
// given region.
func (db *DB) ListAgentsByRegion(ctx context.Context, region string) ([]models.Agent, error) {
	var agents []models.Agent
	err := db.NewSelect().
		Model(&agents).
		Relation("Office").
		Where("office.region = ?", region).
		Where("a.is_staff = ?", false).
		Order("a.id DESC").
		Scan(ctx)

	if err != nil {
		return nil, fmt.Errorf("error listing agents: %v", err)
	}

	return agents, nil
}

func (db *DB) UpdateAgent(ctx context.Context, agent *models.Agent) error {
	_, err := db.NewUpdate().
		Model(agent).
		Column("first_name", "last_name", "office_id", "is_field_tester", "password_hash").
		WherePK().
		Exec(ctx)

	if err != nil {
		return fmt.Errorf("error updating agent: %v", err)
	}

	return nil
}

// DeactivateAgent flips is_active off. Agents referenced by attribution
// records are never hard-deleted.
func (db *DB) DeactivateAgent(ctx context.Context, id int64) error {
	res, err := db.NewUpdate().
		Model((*models.Agent)(nil)).
		Set("is_active = ?", false).
		Where("id = ?", id).
		Exec(ctx)

	if err != nil {
		return fmt.Errorf("error deactivating agent: %v", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("no agent was found")
	}

	return nil
}
