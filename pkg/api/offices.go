package api

import (
	"net/http"

	"netmesh-api/pkg/apperr"
	"netmesh-api/pkg/models"

	"github.com/gin-gonic/gin"
)

type createOfficeRequest struct {
	Region    string `json:"region" binding:"required"`
	Address   string `json:"address"`
	Email     string `json:"email" binding:"omitempty,email"`
	Telephone string `json:"telephone"`
	Mobile    string `json:"mobile"`
}

func (s *Server) createOffice(c *gin.Context) {
	var req createOfficeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if !models.IsValidRegion(req.Region) {
		respondError(c, apperr.Validation("region", "unknown region code"))
		return
	}

	office := &models.RegionalOffice{
		Region:    req.Region,
		Address:   req.Address,
		Email:     req.Email,
		Telephone: req.Telephone,
		Mobile:    req.Mobile,
	}
	if err := s.db.CreateOffice(c.Request.Context(), office); err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusCreated, office)
}

func (s *Server) listOffices(c *gin.Context) {
	offices, err := s.db.ListOffices(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, offices)
}
