package api

import (
	"net/http"
	"time"

	"netmesh-api/pkg/apperr"
	"netmesh-api/pkg/models"

	"github.com/gin-gonic/gin"
)

type mobileResultRequest struct {
	AndroidVersion string    `json:"android_version"`
	SSID           string    `json:"ssid"`
	BSSID          string    `json:"bssid"`
	RSSI           float64   `json:"rssi"`
	NetworkType    string    `json:"network_type"`
	IMEI           string    `json:"imei"`
	CellID         string    `json:"cell_id"`
	MCC            string    `json:"mcc"`
	MNC            string    `json:"mnc"`
	TAC            string    `json:"tac"`
	SignalQuality  string    `json:"signal_quality"`
	Operator       string    `json:"operator"`
	Lat            *float64  `json:"lat" binding:"required,gte=-90,lte=90"`
	Lon            *float64  `json:"lon" binding:"required,gte=-180,lte=180"`
	Upload         float64   `json:"upload"`
	Download       float64   `json:"download"`
	Jitter         float64   `json:"jitter"`
	Ping           float64   `json:"ping"`
	Timestamp      time.Time `json:"timestamp" binding:"required"`
	Success        *bool     `json:"success" binding:"required"`
	ServerID       int64     `json:"server" binding:"required"`
}

func (r *mobileResultRequest) toModel() *models.MobileResult {
	return &models.MobileResult{
		AndroidVersion: r.AndroidVersion,
		SSID:           r.SSID,
		BSSID:          r.BSSID,
		RSSI:           r.RSSI,
		NetworkType:    r.NetworkType,
		IMEI:           r.IMEI,
		CellID:         r.CellID,
		MCC:            r.MCC,
		MNC:            r.MNC,
		TAC:            r.TAC,
		SignalQuality:  r.SignalQuality,
		Operator:       r.Operator,
		Lat:            *r.Lat,
		Lon:            *r.Lon,
		Upload:         r.Upload,
		Download:       r.Download,
		Jitter:         r.Jitter,
		Ping:           r.Ping,
		Timestamp:      r.Timestamp,
		Success:        *r.Success,
		ServerID:       r.ServerID,
	}
}

type submissionResponse struct {
	TestID   string           `json:"test_id"`
	Public   bool             `json:"public"`
	Result   any              `json:"result"`
	Location *models.Location `json:"location,omitempty"`
}

func (s *Server) submitMobileResult(c *gin.Context) {
	var req mobileResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result := req.toModel()
	outcome, err := s.attribution.SubmitMobile(c.Request.Context(), result, currentIdentity(c), clientIP(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusCreated, submissionResponse{
		TestID:   outcome.TestID,
		Public:   outcome.Public,
		Result:   result,
		Location: outcome.Location,
	})
}

func (s *Server) listOwnSpeedTests(c *gin.Context) {
	id := currentIdentity(c)
	tests, err := s.db.ListSpeedTestsByTester(c.Request.Context(), id.Agent.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, tests)
}

func (s *Server) getSpeedTest(c *gin.Context) {
	id := currentIdentity(c)
	test, err := s.db.GetSpeedTestByTestID(c.Request.Context(), c.Param("test_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if !id.Agent.IsStaff && test.TesterID != id.Agent.ID {
		respondError(c, apperr.NotFound("no result was found"))
		return
	}
	respond(c, http.StatusOK, test)
}
