package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"netmesh-api/pkg/attribution"
	"netmesh-api/pkg/database"
	"netmesh-api/pkg/identity"
	"netmesh-api/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var apiSeq int64

const testPassword = "correct-horse-battery"

type fakeGeocoder struct{}

func (fakeGeocoder) Resolve(ctx context.Context, lat, lon float64) (*models.Location, error) {
	region := "National Capital Region"
	province := "Metro Manila"
	return &models.Location{Lat: lat, Lon: lon, Region: &region, Province: &province}, nil
}

type apiFixture struct {
	db          *database.DB
	router      *gin.Engine
	region      string
	tester      *models.Agent
	staff       *models.Agent
	device      *models.MobileDevice
	server      *models.Server
	testerToken string
	staffToken  string
}

func setupAPI(t *testing.T) *apiFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.NewTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	require.NoError(t, db.InitSchema(ctx))

	n := atomic.AddInt64(&apiSeq, 1)
	region := fmt.Sprintf("R-%d", n)

	office := &models.RegionalOffice{Region: region}
	require.NoError(t, db.CreateOffice(ctx, office))

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	tester := &models.Agent{
		Email:         fmt.Sprintf("tester%d@ntc.gov.ph", n),
		PasswordHash:  string(hash),
		FirstName:     "Juan",
		LastName:      "dela Cruz",
		OfficeID:      office.ID,
		IsFieldTester: true,
		IsActive:      true,
	}
	require.NoError(t, db.CreateAgent(ctx, tester))

	staff := &models.Agent{
		Email:        fmt.Sprintf("staff%d@ntc.gov.ph", n),
		PasswordHash: string(hash),
		FirstName:    "Maria",
		LastName:     "Santos",
		OfficeID:     office.ID,
		IsStaff:      true,
		IsActive:     true,
	}
	require.NoError(t, db.CreateAgent(ctx, staff))

	device := &models.MobileDevice{
		AgentID:      tester.ID,
		SerialNumber: fmt.Sprintf("SN-%d", n),
		IsActive:     true,
	}
	require.NoError(t, db.CreateMobileDevice(ctx, device))

	testerToken := &models.AuthToken{
		Token:          uuid.NewString(),
		AgentID:        tester.ID,
		DeviceKind:     models.KindMobile,
		MobileDeviceID: device.ID,
		IsActive:       true,
	}
	require.NoError(t, db.CreateToken(ctx, testerToken))

	staffToken := &models.AuthToken{
		Token:      uuid.NewString(),
		AgentID:    staff.ID,
		DeviceKind: models.KindWeb,
		IsActive:   true,
	}
	require.NoError(t, db.CreateToken(ctx, staffToken))

	server := &models.Server{UUID: fmt.Sprintf("server-%d", n), IPAddress: "203.0.113.40"}
	require.NoError(t, db.CreateServer(ctx, server))

	svc := attribution.NewService(db, fakeGeocoder{}, nil)
	srv := New(db, identity.NewResolver(db), svc)

	return &apiFixture{
		db:          db,
		router:      srv.Router(),
		region:      region,
		tester:      tester,
		staff:       staff,
		device:      device,
		server:      server,
		testerToken: testerToken.Token,
		staffToken:  staffToken.Token,
	}
}

func (f *apiFixture) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *apiFixture) mobileBody(lat, lon float64) gin.H {
	return gin.H{
		"lat":       lat,
		"lon":       lon,
		"upload":    12.5,
		"download":  48.3,
		"ping":      22,
		"timestamp": time.Date(2024, 3, 1, 9, 0, 0, int(atomic.AddInt64(&apiSeq, 1)), time.UTC),
		"success":   true,
		"server":    f.server.ID,
	}
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	out := decode(t, w)
	errObj, ok := out["error"].(map[string]any)
	require.True(t, ok, "response has no error object: %s", w.Body.String())
	code, _ := errObj["code"].(string)
	return code
}

func TestSubmitMobileAnonymousEndpoint(t *testing.T) {
	f := setupAPI(t)

	w := f.do(t, http.MethodPost, "/api/mobile/results", "", f.mobileBody(14.65, 121.07))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	out := decode(t, w)
	data := out["data"].(map[string]any)
	assert.Equal(t, true, data["public"])
	assert.NotEmpty(t, data["test_id"])
	assert.Nil(t, data["location"])
}

func TestSubmitMobileIdentifiedEndpoint(t *testing.T) {
	f := setupAPI(t)

	w := f.do(t, http.MethodPost, "/api/mobile/results", f.testerToken, f.mobileBody(14.65, 121.07))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	out := decode(t, w)
	data := out["data"].(map[string]any)
	assert.Equal(t, false, data["public"])

	loc, ok := data["location"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "National Capital Region", loc["region"])
}

func TestSubmitMobileInvalidCoordinates(t *testing.T) {
	f := setupAPI(t)

	w := f.do(t, http.MethodPost, "/api/mobile/results", f.testerToken, f.mobileBody(95, 121.07))
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	assert.Equal(t, "VALIDATION_ERROR", errorCode(t, w))

	count, err := f.db.CountMobileResults(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestSubmitMobileUnknownToken(t *testing.T) {
	f := setupAPI(t)

	w := f.do(t, http.MethodPost, "/api/mobile/results", uuid.NewString(), f.mobileBody(14.65, 121.07))
	require.Equal(t, http.StatusNotFound, w.Code, w.Body.String())
	assert.Equal(t, "NOT_FOUND", errorCode(t, w))
}

func TestSubmitMobileWithWebToken(t *testing.T) {
	f := setupAPI(t)

	// login tokens are not bound to a test device
	w := f.do(t, http.MethodPost, "/api/mobile/results", f.staffToken, f.mobileBody(14.65, 121.07))
	require.Equal(t, http.StatusNotFound, w.Code, w.Body.String())
}

func TestSubmitMobileDuplicateEndpoint(t *testing.T) {
	f := setupAPI(t)
	body := f.mobileBody(14.65, 121.07)

	w := f.do(t, http.MethodPost, "/api/mobile/results", f.testerToken, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = f.do(t, http.MethodPost, "/api/mobile/results", f.testerToken, body)
	require.Equal(t, http.StatusConflict, w.Code, w.Body.String())
	assert.Equal(t, "CONFLICT", errorCode(t, w))
}

func TestLogin(t *testing.T) {
	f := setupAPI(t)

	w := f.do(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    f.tester.Email,
		"password": testPassword,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	data := decode(t, w)["data"].(map[string]any)
	token, _ := data["token"].(string)
	require.NotEmpty(t, token)

	// the minted token works against authenticated endpoints
	w = f.do(t, http.MethodGet, "/api/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	me := decode(t, w)["data"].(map[string]any)
	assert.Equal(t, f.tester.Email, me["email"])
}

func TestLoginWrongPassword(t *testing.T) {
	f := setupAPI(t)

	w := f.do(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    f.tester.Email,
		"password": "wrong",
	})
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	assert.Equal(t, "VALIDATION_ERROR", errorCode(t, w))
}

func TestAdminEndpointsRequireStaff(t *testing.T) {
	f := setupAPI(t)

	w := f.do(t, http.MethodGet, "/api/admin/offices", f.testerToken, nil)
	require.Equal(t, http.StatusNotFound, w.Code, w.Body.String())

	w = f.do(t, http.MethodGet, "/api/admin/offices", f.staffToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestAuthRequiredEndpoints(t *testing.T) {
	f := setupAPI(t)

	w := f.do(t, http.MethodGet, "/api/mobile/tests", "", nil)
	require.Equal(t, http.StatusNotFound, w.Code, w.Body.String())
}

func TestCreateOfficeUnknownRegion(t *testing.T) {
	f := setupAPI(t)

	w := f.do(t, http.MethodPost, "/api/admin/offices", f.staffToken, gin.H{"region": "not-a-region"})
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	assert.Equal(t, "VALIDATION_ERROR", errorCode(t, w))
}

func TestRegionReport(t *testing.T) {
	f := setupAPI(t)

	w := f.do(t, http.MethodPost, "/api/mobile/results", f.testerToken, f.mobileBody(14.65, 121.07))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = f.do(t, http.MethodGet, "/api/admin/mobile/tests", f.staffToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	data := decode(t, w)["data"].(map[string]any)
	assert.Equal(t, float64(1), data["recordsFiltered"])
}

func TestExportSpeedTestsCSV(t *testing.T) {
	f := setupAPI(t)

	w := f.do(t, http.MethodPost, "/api/mobile/results", f.testerToken, f.mobileBody(14.65, 121.07))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = f.do(t, http.MethodGet, "/api/admin/mobile/tests.csv", f.staffToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Body.String(), "test_id,date,tester")
}

func TestOwnTestsListingAndRetrieval(t *testing.T) {
	f := setupAPI(t)

	w := f.do(t, http.MethodPost, "/api/mobile/results", f.testerToken, f.mobileBody(14.65, 121.07))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	testID := decode(t, w)["data"].(map[string]any)["test_id"].(string)

	w = f.do(t, http.MethodGet, "/api/mobile/tests", f.testerToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	list := decode(t, w)["data"].([]any)
	require.Len(t, list, 1)

	w = f.do(t, http.MethodGet, "/api/mobile/tests/"+testID, f.testerToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	got := decode(t, w)["data"].(map[string]any)
	assert.Equal(t, testID, got["test_id"])
}

func TestEnrollMobileDeviceReturnsToken(t *testing.T) {
	f := setupAPI(t)

	w := f.do(t, http.MethodPost, "/api/admin/devices/mobile", f.staffToken, gin.H{
		"agent_id":      f.tester.ID,
		"serial_number": fmt.Sprintf("SN-new-%d", atomic.AddInt64(&apiSeq, 1)),
		"phone_model":   "Pixel 6",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	data := decode(t, w)["data"].(map[string]any)
	token, _ := data["token"].(string)
	require.NotEmpty(t, token)

	// the fresh token can submit immediately
	w = f.do(t, http.MethodPost, "/api/mobile/results", token, f.mobileBody(14.65, 121.07))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}
