package api

import (
	"net/http"

	"netmesh-api/pkg/apperr"
	"netmesh-api/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type enrollMobileDeviceRequest struct {
	AgentID        int64  `json:"agent_id" binding:"required"`
	SerialNumber   string `json:"serial_number" binding:"required"`
	IMEI           string `json:"imei"`
	PhoneModel     string `json:"phone_model"`
	AndroidVersion string `json:"android_version"`
	RAM            string `json:"ram"`
	Storage        string `json:"storage"`
}

type enrollRfcDeviceRequest struct {
	AgentID      int64  `json:"agent_id" binding:"required"`
	Name         string `json:"name" binding:"required"`
	SerialNumber string `json:"serial_number" binding:"required"`
	Manufacturer string `json:"manufacturer"`
	Product      string `json:"product"`
	Version      string `json:"version"`
	OS           string `json:"os"`
	Kernel       string `json:"kernel"`
	RAM          string `json:"ram"`
	Disk         string `json:"disk"`
}

type enrollmentResponse struct {
	Device any    `json:"device"`
	Token  string `json:"token"`
}

// enrollMobileDevice registers a handset under an agent and mints the
// bearer token the device will submit results with.
func (s *Server) enrollMobileDevice(c *gin.Context) {
	var req enrollMobileDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if _, err := s.db.GetAgentByID(c.Request.Context(), req.AgentID); err != nil {
		respondError(c, err)
		return
	}

	device := &models.MobileDevice{
		AgentID:        req.AgentID,
		SerialNumber:   req.SerialNumber,
		IMEI:           req.IMEI,
		PhoneModel:     req.PhoneModel,
		AndroidVersion: req.AndroidVersion,
		RAM:            req.RAM,
		Storage:        req.Storage,
		IsActive:       true,
	}
	if err := s.db.CreateMobileDevice(c.Request.Context(), device); err != nil {
		respondError(c, err)
		return
	}

	token := &models.AuthToken{
		Token:          uuid.NewString(),
		AgentID:        req.AgentID,
		DeviceKind:     models.KindMobile,
		MobileDeviceID: device.ID,
		IsActive:       true,
	}
	if err := s.db.CreateToken(c.Request.Context(), token); err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusCreated, enrollmentResponse{Device: device, Token: token.Token})
}

func (s *Server) enrollRfcDevice(c *gin.Context) {
	var req enrollRfcDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if _, err := s.db.GetAgentByID(c.Request.Context(), req.AgentID); err != nil {
		respondError(c, err)
		return
	}

	// enrollment names double as client identifiers across all agents
	taken, err := s.db.RfcDeviceNameTaken(c.Request.Context(), req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	if taken {
		respondError(c, apperr.Conflict("device name already taken"))
		return
	}

	device := &models.RfcDevice{
		AgentID:      req.AgentID,
		Name:         req.Name,
		SerialNumber: req.SerialNumber,
		Manufacturer: req.Manufacturer,
		Product:      req.Product,
		Version:      req.Version,
		OS:           req.OS,
		Kernel:       req.Kernel,
		RAM:          req.RAM,
		Disk:         req.Disk,
		IsActive:     true,
	}
	if err := s.db.CreateRfcDevice(c.Request.Context(), device); err != nil {
		respondError(c, err)
		return
	}

	token := &models.AuthToken{
		Token:       uuid.NewString(),
		AgentID:     req.AgentID,
		DeviceKind:  models.KindRFC,
		RfcDeviceID: device.ID,
		IsActive:    true,
	}
	if err := s.db.CreateToken(c.Request.Context(), token); err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusCreated, enrollmentResponse{Device: device, Token: token.Token})
}

func (s *Server) listOwnDevices(c *gin.Context) {
	id := currentIdentity(c)

	mobile, err := s.db.ListMobileDevicesByAgent(c.Request.Context(), id.Agent.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	rfc, err := s.db.ListRfcDevicesByAgent(c.Request.Context(), id.Agent.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{"mobile": mobile, "rfc": rfc})
}

func (s *Server) listRegionMobileDevices(c *gin.Context) {
	region, ok := staffRegion(c)
	if !ok {
		return
	}
	devices, err := s.db.ListMobileDevicesByRegion(c.Request.Context(), region)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, devices)
}

func (s *Server) listRegionRfcDevices(c *gin.Context) {
	region, ok := staffRegion(c)
	if !ok {
		return
	}
	devices, err := s.db.ListRfcDevicesByRegion(c.Request.Context(), region)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, devices)
}
