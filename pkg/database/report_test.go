package database

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"netmesh-api/pkg/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reportFixture struct {
	db      *DB
	region  string
	agent   *models.Agent
	device  *models.MobileDevice
	server  *models.Server
	testIDs []string
}

// seedSpeedTest stores one attributed mobile result for the fixture agent.
// Timestamps are offset by whole microseconds: sub-microsecond precision is
// lost in storage, which would collide the (timestamp, server) unique key.
func (f *reportFixture) seedSpeedTest(t *testing.T, operator, province, municipality, barangay string) string {
	t.Helper()
	ctx := context.Background()

	result := &models.MobileResult{
		Operator:  operator,
		Lat:       14.6,
		Lon:       121.0,
		Timestamp: time.Date(2024, 3, 1, 9, 0, 0, int(atomic.AddInt64(&testSeq, 1))*1000, time.UTC),
		Success:   true,
		ServerID:  f.server.ID,
	}
	require.NoError(t, InsertMobileResult(ctx, f.db.DB, result))

	loc := &models.Location{
		Lat:          14.6,
		Lon:          121.0,
		Province:     &province,
		Municipality: &municipality,
		Barangay:     &barangay,
	}
	require.NoError(t, InsertLocation(ctx, f.db.DB, loc))

	test := &models.SpeedTest{
		TestID:     uuid.NewString(),
		ResultID:   result.ID,
		TesterID:   f.agent.ID,
		DeviceID:   f.device.ID,
		LocationID: loc.ID,
		ClientIP:   "192.0.2.1",
	}
	require.NoError(t, InsertSpeedTest(ctx, f.db.DB, test))

	f.testIDs = append(f.testIDs, test.TestID)
	return test.TestID
}

func setupReport(t *testing.T) *reportFixture {
	t.Helper()

	db, err := NewTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	require.NoError(t, db.InitSchema(ctx))

	n := atomic.AddInt64(&testSeq, 1)
	region := fmt.Sprintf("R-%d", n)

	office := &models.RegionalOffice{Region: region}
	require.NoError(t, db.CreateOffice(ctx, office))

	agent := &models.Agent{
		Email:         fmt.Sprintf("report%d@ntc.gov.ph", n),
		PasswordHash:  "x",
		FirstName:     "Ana",
		LastName:      "Reyes",
		OfficeID:      office.ID,
		IsFieldTester: true,
		IsActive:      true,
	}
	require.NoError(t, db.CreateAgent(ctx, agent))

	device := &models.MobileDevice{
		AgentID:      agent.ID,
		SerialNumber: fmt.Sprintf("SN-%d", n),
		IsActive:     true,
	}
	require.NoError(t, db.CreateMobileDevice(ctx, device))

	server := &models.Server{
		UUID:      fmt.Sprintf("server-%d", n),
		IPAddress: "203.0.113.20",
	}
	require.NoError(t, db.CreateServer(ctx, server))

	return &reportFixture{db: db, region: region, agent: agent, device: device, server: server}
}

var testSeq int64

func TestListSpeedTestsRegionScope(t *testing.T) {
	f := setupReport(t)
	f.seedSpeedTest(t, "Smart", "Metro Manila", "Quezon City", "Krus Na Ligas")
	f.seedSpeedTest(t, "Globe", "Metro Manila", "Makati", "Poblacion")

	tests, count, err := f.db.ListSpeedTests(context.Background(), ReportFilter{Region: f.region})
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Len(t, tests, 2)
	for _, tc := range tests {
		require.NotNil(t, tc.Tester)
		require.NotNil(t, tc.Tester.Office)
		assert.Equal(t, f.region, tc.Tester.Office.Region)
	}

	// a region with no offices matches nothing
	_, count, err = f.db.ListSpeedTests(context.Background(), ReportFilter{Region: "no-such-region"})
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestListSpeedTestsISPFilter(t *testing.T) {
	f := setupReport(t)
	f.seedSpeedTest(t, "Smart", "Metro Manila", "Quezon City", "Krus Na Ligas")
	f.seedSpeedTest(t, "Globe", "Metro Manila", "Makati", "Poblacion")

	tests, count, err := f.db.ListSpeedTests(context.Background(), ReportFilter{Region: f.region, ISP: "smart"})
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	require.Len(t, tests, 1)
	require.NotNil(t, tests[0].Result)
	assert.Equal(t, "Smart", tests[0].Result.Operator)
}

func TestListSpeedTestsLocationFilters(t *testing.T) {
	f := setupReport(t)
	f.seedSpeedTest(t, "Smart", "Metro Manila", "Quezon City", "Krus Na Ligas")
	f.seedSpeedTest(t, "Smart", "Cebu", "Cebu City", "Lahug")

	_, count, err := f.db.ListSpeedTests(context.Background(), ReportFilter{Region: f.region, Province: "cebu"})
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	_, count, err = f.db.ListSpeedTests(context.Background(), ReportFilter{Region: f.region, Municipality: "quezon"})
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	_, count, err = f.db.ListSpeedTests(context.Background(), ReportFilter{Region: f.region, Barangay: "lahug"})
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestListSpeedTestsSearch(t *testing.T) {
	f := setupReport(t)
	wanted := f.seedSpeedTest(t, "Smart", "Metro Manila", "Quezon City", "Krus Na Ligas")
	f.seedSpeedTest(t, "Smart", "Metro Manila", "Quezon City", "Krus Na Ligas")

	tests, count, err := f.db.ListSpeedTests(context.Background(), ReportFilter{Region: f.region, Search: wanted[:8]})
	require.NoError(t, err)
	require.GreaterOrEqual(t, count, 1)
	assert.Equal(t, wanted, tests[0].TestID)
}

func TestListSpeedTestsDateRange(t *testing.T) {
	f := setupReport(t)
	f.seedSpeedTest(t, "Smart", "Metro Manila", "Quezon City", "Krus Na Ligas")

	today := time.Now().UTC().Truncate(24 * time.Hour)

	_, count, err := f.db.ListSpeedTests(context.Background(), ReportFilter{Region: f.region, MinDate: today.AddDate(0, 0, -1)})
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	_, count, err = f.db.ListSpeedTests(context.Background(), ReportFilter{
		Region:  f.region,
		MinDate: today.AddDate(0, 0, -10),
		MaxDate: today.AddDate(0, 0, -5),
	})
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestListSpeedTestsPaging(t *testing.T) {
	f := setupReport(t)
	for i := 0; i < 5; i++ {
		f.seedSpeedTest(t, "Smart", "Metro Manila", "Quezon City", "Krus Na Ligas")
	}

	tests, count, err := f.db.ListSpeedTests(context.Background(), ReportFilter{Region: f.region, Start: 0, Length: 2})
	require.NoError(t, err)
	assert.Equal(t, 5, count) // unpaged match count
	assert.Len(t, tests, 2)

	tests, _, err = f.db.ListSpeedTests(context.Background(), ReportFilter{Region: f.region, Start: 4, Length: 2})
	require.NoError(t, err)
	assert.Len(t, tests, 1)
}

func TestListRfcTestsIgnoresISPFilter(t *testing.T) {
	f := setupReport(t)
	ctx := context.Background()

	rfcDevice := &models.RfcDevice{
		AgentID:      f.agent.ID,
		Name:         fmt.Sprintf("rfc-%d", atomic.AddInt64(&testSeq, 1)),
		SerialNumber: fmt.Sprintf("RSN-%d", atomic.AddInt64(&testSeq, 1)),
		IsActive:     true,
	}
	require.NoError(t, f.db.CreateRfcDevice(ctx, rfcDevice))

	result := &models.RfcResult{
		Direction: models.DirectionForward,
		Lat:       14.6,
		Lon:       121.0,
		Timestamp: time.Date(2024, 3, 2, 9, 0, 0, int(atomic.AddInt64(&testSeq, 1))*1000, time.UTC),
		ServerID:  f.server.ID,
	}
	require.NoError(t, InsertRfcResult(ctx, f.db.DB, result))

	loc := &models.Location{Lat: 14.6, Lon: 121.0}
	require.NoError(t, InsertLocation(ctx, f.db.DB, loc))

	test := &models.RfcTest{
		TestID:     uuid.NewString(),
		ResultID:   result.ID,
		TesterID:   f.agent.ID,
		DeviceID:   rfcDevice.ID,
		LocationID: loc.ID,
	}
	require.NoError(t, InsertRfcTest(ctx, f.db.DB, test))

	// rfc results carry no operator, so the ISP filter must not exclude rows
	_, count, err := f.db.ListRfcTests(ctx, ReportFilter{Region: f.region, ISP: "smart"})
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
