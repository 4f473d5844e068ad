package api

import (
	"net/http"
	"time"

	"netmesh-api/pkg/apperr"
	"netmesh-api/pkg/models"

	"github.com/gin-gonic/gin"
)

type rfcResultRequest struct {
	Direction             string    `json:"direction" binding:"omitempty,oneof=forward reverse unknown"`
	MTU                   int       `json:"mtu"`
	BaselineRTT           float64   `json:"baseline_rtt"`
	RTT                   float64   `json:"rtt"`
	AveRTT                float64   `json:"ave_rtt"`
	BB                    float64   `json:"bb"`
	BDP                   float64   `json:"bdp"`
	RWND                  float64   `json:"rwnd"`
	MaxAchievableThpt     int64     `json:"max_achievable_thpt" binding:"gte=0"`
	ActualThpt            int64     `json:"actual_thpt" binding:"gte=0"`
	IdealTransferTime     float64   `json:"ideal_transfer_time"`
	ActualTransferTime    float64   `json:"actual_transfer_time"`
	TransferTimeRatio     float64   `json:"transfer_time_ratio"`
	TCPEfficiency         float64   `json:"tcp_efficiency"`
	BufferDelay           float64   `json:"buffer_delay"`
	TxBytes               float64   `json:"tx_bytes"`
	TransferBytes         int64     `json:"transfer_bytes" binding:"gte=0"`
	RetransmitBytes       int64     `json:"retransmit_bytes" binding:"gte=0"`
	SenderTCPCongestion   string    `json:"sender_tcp_congestion"`
	ReceiverTCPCongestion string    `json:"receiver_tcp_congestion"`
	Lat                   *float64  `json:"lat" binding:"required,gte=-90,lte=90"`
	Lon                   *float64  `json:"lon" binding:"required,gte=-180,lte=180"`
	Location              string    `json:"location"`
	Timestamp             time.Time `json:"timestamp" binding:"required"`
	ServerID              int64     `json:"server" binding:"required"`
}

func (r *rfcResultRequest) toModel() *models.RfcResult {
	direction := models.Direction(r.Direction)
	if direction == "" {
		direction = models.DirectionUnknown
	}
	return &models.RfcResult{
		Direction:             direction,
		MTU:                   r.MTU,
		BaselineRTT:           r.BaselineRTT,
		RTT:                   r.RTT,
		AveRTT:                r.AveRTT,
		BB:                    r.BB,
		BDP:                   r.BDP,
		RWND:                  r.RWND,
		MaxAchievableThpt:     r.MaxAchievableThpt,
		ActualThpt:            r.ActualThpt,
		IdealTransferTime:     r.IdealTransferTime,
		ActualTransferTime:    r.ActualTransferTime,
		TransferTimeRatio:     r.TransferTimeRatio,
		TCPEfficiency:         r.TCPEfficiency,
		BufferDelay:           r.BufferDelay,
		TxBytes:               r.TxBytes,
		TransferBytes:         r.TransferBytes,
		RetransmitBytes:       r.RetransmitBytes,
		SenderTCPCongestion:   r.SenderTCPCongestion,
		ReceiverTCPCongestion: r.ReceiverTCPCongestion,
		Lat:                   *r.Lat,
		Lon:                   *r.Lon,
		Location:              r.Location,
		Timestamp:             r.Timestamp,
		ServerID:              r.ServerID,
	}
}

func (s *Server) submitRfcResult(c *gin.Context) {
	var req rfcResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result := req.toModel()
	outcome, err := s.attribution.SubmitRFC(c.Request.Context(), result, currentIdentity(c), clientIP(c))
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

func (s *Server) listOwnRfcTests(c *gin.Context) {
	id := currentIdentity(c)
	tests, err := s.db.ListRfcTestsByTester(c.Request.Context(), id.Agent.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, tests)
}

func (s *Server) getRfcTest(c *gin.Context) {
	id := currentIdentity(c)
	test, err := s.db.GetRfcTestByTestID(c.Request.Context(), c.Param("test_id"))
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
