package api

import (
	"net/http"
	"strconv"

	"netmesh-api/pkg/apperr"
	"netmesh-api/pkg/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type createAgentRequest struct {
	Email         string `json:"email" binding:"required,email"`
	Password      string `json:"password" binding:"required,min=8"`
	FirstName     string `json:"first_name" binding:"required"`
	LastName      string `json:"last_name" binding:"required"`
	Region        string `json:"region" binding:"required"`
	IsFieldTester bool   `json:"is_field_tester"`
}

func (s *Server) createAgent(c *gin.Context) {
	var req createAgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	office, err := s.db.GetOfficeByRegion(c.Request.Context(), req.Region)
	if err != nil {
		respondError(c, err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(c, err)
		return
	}

	agent := &models.Agent{
		Email:         req.Email,
		PasswordHash:  string(hash),
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		OfficeID:      office.ID,
		IsFieldTester: req.IsFieldTester,
		IsActive:      true,
	}
	if err := s.db.CreateAgent(c.Request.Context(), agent); err != nil {
		respondError(c, err)
		return
	}
	agent.Office = office

	respond(c, http.StatusCreated, agent)
}

func (s *Server) listAgents(c *gin.Context) {
	region, ok := staffRegion(c)
	if !ok {
		return
	}
	agents, err := s.db.ListAgentsByRegion(c.Request.Context(), region)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, agents)
}

type updateAgentRequest struct {
	FirstName     *string `json:"first_name"`
	LastName      *string `json:"last_name"`
	Region        *string `json:"region"`
	IsFieldTester *bool   `json:"is_field_tester"`
	Password      *string `json:"password" binding:"omitempty,min=8"`
}

func (s *Server) updateAgent(c *gin.Context) {
	agentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, apperr.Validation("id", "must be an integer"))
		return
	}

	var req updateAgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	agent, err := s.db.GetAgentByID(c.Request.Context(), agentID)
	if err != nil {
		respondError(c, err)
		return
	}

	if req.FirstName != nil {
		agent.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		agent.LastName = *req.LastName
	}
	if req.IsFieldTester != nil {
		agent.IsFieldTester = *req.IsFieldTester
	}
	if req.Region != nil {
		office, err := s.db.GetOfficeByRegion(c.Request.Context(), *req.Region)
		if err != nil {
			respondError(c, err)
			return
		}
		agent.OfficeID = office.ID
		agent.Office = office
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			respondError(c, err)
			return
		}
		agent.PasswordHash = string(hash)
	}

	if err := s.db.UpdateAgent(c.Request.Context(), agent); err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, agent)
}

func (s *Server) deactivateAgent(c *gin.Context) {
	agentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, apperr.Validation("id", "must be an integer"))
		return
	}

	if err := s.db.DeactivateAgent(c.Request.Context(), agentID); err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{"id": agentID, "is_active": false})
}
