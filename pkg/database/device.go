package database

import (
	"context"
	"fmt"

	"netmesh-api/pkg/apperr"
	"netmesh-api/pkg/models"
)

func (db *DB) CreateMobileDevice(ctx context.Context, device *models.MobileDevice) error {
	_, err := db.NewInsert().
		Model(device).
		Exec(ctx)

	if err != nil {
		if isUniqueViolation(err) {
			return apperr.Conflict("device already enrolled for agent")
		}
		return fmt.Errorf("error inserting mobile device: %v", err)
	}

	return nil
}

func (db *DB) CreateRfcDevice(ctx context.Context, device *models.RfcDevice) error {
	_, err := db.NewInsert().
		Model(device).
		Exec(ctx)

	if err != nil {
		if isUniqueViolation(err) {
			return apperr.Conflict("device already enrolled for agent")
		}
		return fmt.Errorf("error inserting rfc device: %v", err)
	}

	return nil
}

// RfcDeviceNameTaken reports whether an RFC device already claimed the name.
// Enrollment names double as client identifiers, so they stay unique.
func (db *DB) RfcDeviceNameTaken(ctx context.Context, name string) (bool, error) {
	exists, err := db.NewSelect().
		Model((*models.RfcDevice)(nil)).
		Where("name = ?", name).
		Exists(ctx)

	if err != nil {
		return false, fmt.Errorf("error checking device name: %v", err)
	}

	return exists, nil
}

func (db *DB) ListMobileDevicesByAgent(ctx context.Context, agentID int64) ([]models.MobileDevice, error) {
	var devices []models.MobileDevice
	err := db.NewSelect().
		Model(&devices).
		Where("agent_id = ?", agentID).
		Order("id DESC").
		Scan(ctx)

	if err != nil {
		return nil, fmt.Errorf("error listing mobile devices: %v", err)
	}

	return devices, nil
}

func (db *DB) ListRfcDevicesByAgent(ctx context.Context, agentID int64) ([]models.RfcDevice, error) {
	var devices []models.RfcDevice
	err := db.NewSelect().
		Model(&devices).
		Where("agent_id = ?", agentID).
		Order("id DESC").
		Scan(ctx)

	if err != nil {
		return nil, fmt.Errorf("error listing rfc devices: %v", err)
	}

	return devices, nil
}

// ListMobileDevicesByRegion returns devices owned by agents of offices in
// the given region, for staff device management.
func (db *DB) ListMobileDevicesByRegion(ctx context.Context, region string) ([]models.MobileDevice, error) {
	var devices []models.MobileDevice
	err := db.NewSelect().
		Model(&devices).
		Relation("Agent").
		Relation("Agent.Office").
		Where("agent__office.region = ?", region).
		Order("md.id DESC").
		Scan(ctx)

	if err != nil {
		return nil, fmt.Errorf("error listing mobile devices: %v", err)
	}

	return devices, nil
}

func (db *DB) ListRfcDevicesByRegion(ctx context.Context, region string) ([]models.RfcDevice, error) {
	var devices []models.RfcDevice
	err := db.NewSelect().
		Model(&devices).
		Relation("Agent").
		Relation("Agent.Office").
		Where("agent__office.region = ?", region).
		Order("rd.id DESC").
		Scan(ctx)

	if err != nil {
		return nil, fmt.Errorf("error listing rfc devices: %v", err)
	}

	return devices, nil
}
