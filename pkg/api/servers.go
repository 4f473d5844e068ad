package api

import (
	"net/http"

	"netmesh-api/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type createServerRequest struct {
	Nickname   string   `json:"nickname" binding:"required"`
	IPAddress  string   `json:"ip_address" binding:"required,ip"`
	ServerType string   `json:"server_type" binding:"required,oneof=local overseas ix web-based rfc unknown"`
	Lat        *float64 `json:"lat" binding:"required,gte=-90,lte=90"`
	Lon        *float64 `json:"lon" binding:"required,gte=-180,lte=180"`
	City       string   `json:"city"`
	Province   string   `json:"province"`
	Country    string   `json:"country"`
	Sponsor    string   `json:"sponsor"`
	Hostname   string   `json:"hostname"`
	URL        string   `json:"url" binding:"omitempty,url"`
}

func (s *Server) createServer(c *gin.Context) {
	var req createServerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	id := currentIdentity(c)
	country := req.Country
	if country == "" {
		country = "Philippines"
	}

	server := &models.Server{
		UUID:          uuid.NewString(),
		Nickname:      req.Nickname,
		IPAddress:     req.IPAddress,
		ServerType:    models.ServerType(req.ServerType),
		Lat:           *req.Lat,
		Lon:           *req.Lon,
		City:          req.City,
		Province:      req.Province,
		Country:       country,
		Sponsor:       req.Sponsor,
		Hostname:      req.Hostname,
		URL:           req.URL,
		ContributorID: id.Agent.ID,
	}
	if err := s.db.CreateServer(c.Request.Context(), server); err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusCreated, server)
}

func (s *Server) listServers(c *gin.Context) {
	servers, err := s.db.ListServers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, servers)
}
