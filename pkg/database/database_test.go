package database

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"netmesh-api/pkg/apperr"
	"netmesh-api/pkg/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.InitSchema(context.Background()))
	return db
}

func TestCreateOfficeConflict(t *testing.T) {
	db := newDB(t)
	ctx := context.Background()
	region := fmt.Sprintf("R-%d", atomic.AddInt64(&testSeq, 1))

	require.NoError(t, db.CreateOffice(ctx, &models.RegionalOffice{Region: region}))

	err := db.CreateOffice(ctx, &models.RegionalOffice{Region: region})
	require.Error(t, err)
	assert.True(t, apperr.IsConflict(err))
}

func TestCreateAgentDuplicateEmail(t *testing.T) {
	db := newDB(t)
	ctx := context.Background()
	n := atomic.AddInt64(&testSeq, 1)

	office := &models.RegionalOffice{Region: fmt.Sprintf("R-%d", n)}
	require.NoError(t, db.CreateOffice(ctx, office))

	agent := &models.Agent{
		Email:        fmt.Sprintf("dup%d@ntc.gov.ph", n),
		PasswordHash: "x",
		FirstName:    "Jose",
		LastName:     "Rizal",
		OfficeID:     office.ID,
		IsActive:     true,
	}
	require.NoError(t, db.CreateAgent(ctx, agent))

	dup := *agent
	dup.ID = 0
	err := db.CreateAgent(ctx, &dup)
	require.Error(t, err)
	assert.True(t, apperr.IsConflict(err))
	assert.Contains(t, err.Error(), "agent with email already exists")
}

func TestMobileDeviceSerialUniquePerAgent(t *testing.T) {
	db := newDB(t)
	ctx := context.Background()
	n := atomic.AddInt64(&testSeq, 1)

	office := &models.RegionalOffice{Region: fmt.Sprintf("R-%d", n)}
	require.NoError(t, db.CreateOffice(ctx, office))

	makeAgent := func(tag string) *models.Agent {
		a := &models.Agent{
			Email:        fmt.Sprintf("%s%d@ntc.gov.ph", tag, n),
			PasswordHash: "x",
			FirstName:    "A",
			LastName:     "B",
			OfficeID:     office.ID,
			IsActive:     true,
		}
		require.NoError(t, db.CreateAgent(ctx, a))
		return a
	}

	first := makeAgent("first")
	second := makeAgent("second")
	serial := fmt.Sprintf("SN-%d", n)

	require.NoError(t, db.CreateMobileDevice(ctx, &models.MobileDevice{
		AgentID: first.ID, SerialNumber: serial, IsActive: true,
	}))

	// same serial under the same agent conflicts
	err := db.CreateMobileDevice(ctx, &models.MobileDevice{
		AgentID: first.ID, SerialNumber: serial, IsActive: true,
	})
	require.Error(t, err)
	assert.True(t, apperr.IsConflict(err))

	// but another agent may enroll the same serial
	require.NoError(t, db.CreateMobileDevice(ctx, &models.MobileDevice{
		AgentID: second.ID, SerialNumber: serial, IsActive: true,
	}))
}

func TestInsertMobileResultDuplicate(t *testing.T) {
	db := newDB(t)
	ctx := context.Background()
	n := atomic.AddInt64(&testSeq, 1)

	server := &models.Server{UUID: fmt.Sprintf("server-%d", n), IPAddress: "203.0.113.30"}
	require.NoError(t, db.CreateServer(ctx, server))

	stamp := time.Date(2024, 4, 1, 12, 0, 0, int(n), time.UTC)
	result := &models.MobileResult{Lat: 14, Lon: 121, Timestamp: stamp, Success: true, ServerID: server.ID}
	require.NoError(t, InsertMobileResult(ctx, db.DB, result))

	dup := &models.MobileResult{Lat: 14, Lon: 121, Timestamp: stamp, Success: true, ServerID: server.ID}
	err := InsertMobileResult(ctx, db.DB, dup)
	require.Error(t, err)
	assert.True(t, apperr.IsConflict(err))
	assert.Equal(t, "data already exists", err.Error())
}

func TestGetSpeedTestNotFound(t *testing.T) {
	db := newDB(t)

	_, err := db.GetSpeedTestByTestID(context.Background(), uuid.NewString())
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
	assert.Contains(t, err.Error(), "no result was found")
}

func TestRfcDeviceNameTaken(t *testing.T) {
	db := newDB(t)
	ctx := context.Background()
	n := atomic.AddInt64(&testSeq, 1)

	office := &models.RegionalOffice{Region: fmt.Sprintf("R-%d", n)}
	require.NoError(t, db.CreateOffice(ctx, office))

	agent := &models.Agent{
		Email:        fmt.Sprintf("rfcname%d@ntc.gov.ph", n),
		PasswordHash: "x",
		FirstName:    "A",
		LastName:     "B",
		OfficeID:     office.ID,
		IsActive:     true,
	}
	require.NoError(t, db.CreateAgent(ctx, agent))

	name := fmt.Sprintf("client-%d", n)
	taken, err := db.RfcDeviceNameTaken(ctx, name)
	require.NoError(t, err)
	assert.False(t, taken)

	require.NoError(t, db.CreateRfcDevice(ctx, &models.RfcDevice{
		AgentID: agent.ID, Name: name, SerialNumber: fmt.Sprintf("RSN-%d", n), IsActive: true,
	}))

	taken, err = db.RfcDeviceNameTaken(ctx, name)
	require.NoError(t, err)
	assert.True(t, taken)
}

func TestRevokeTokenNotFound(t *testing.T) {
	db := newDB(t)

	err := db.RevokeToken(context.Background(), uuid.NewString())
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}
