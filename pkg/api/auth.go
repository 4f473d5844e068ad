package api

import (
	"errors"
	"net/http"

	"netmesh-api/pkg/apperr"
	"netmesh-api/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	Token string        `json:"token"`
	Agent *models.Agent `json:"agent"`
}

// login verifies the password and hands back the agent's web token,
// minting one on first login. Web tokens are not bound to a test device,
// so submitting measurement results with one fails device resolution.
func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	invalid := apperr.Validation("credentials", "invalid email or password")

	agent, err := s.db.GetAgentByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if apperr.IsNotFound(err) {
			respondError(c, invalid)
			return
		}
		respondError(c, err)
		return
	}
	if !agent.IsActive {
		respondError(c, invalid)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(agent.PasswordHash), []byte(req.Password)); err != nil {
		respondError(c, invalid)
		return
	}

	token, err := s.db.GetActiveWebTokenByAgent(c.Request.Context(), agent.ID)
	if err != nil {
		var nf *apperr.NotFoundError
		if !errors.As(err, &nf) {
			respondError(c, err)
			return
		}
		token = &models.AuthToken{
			Token:      uuid.NewString(),
			AgentID:    agent.ID,
			DeviceKind: models.KindWeb,
			IsActive:   true,
		}
		if err := s.db.CreateToken(c.Request.Context(), token); err != nil {
			respondError(c, err)
			return
		}
	}

	respond(c, http.StatusOK, loginResponse{Token: token.Token, Agent: agent})
}

func (s *Server) profile(c *gin.Context) {
	id := currentIdentity(c)
	respond(c, http.StatusOK, id.Agent)
}
