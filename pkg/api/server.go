// Package api exposes the HTTP surface: measurement submission for field
// testers and anonymous clients, regional reporting with CSV export, and
// administrative management of agents, devices, offices and servers.
package api

import (
	"log/slog"

	"netmesh-api/pkg/attribution"
	"netmesh-api/pkg/database"
	"netmesh-api/pkg/identity"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
)

type Server struct {
	db          *database.DB
	identity    *identity.Resolver
	attribution *attribution.Service
}

func New(db *database.DB, ident *identity.Resolver, attr *attribution.Service) *Server {
	return &Server{db: db, identity: ident, attribution: attr}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLog())

	apiGroup := r.Group("/api")

	// submissions accept anonymous clients; everything below requires a token
	apiGroup.POST("/mobile/results", s.tokenAuth(false), s.submitMobileResult)
	apiGroup.POST("/rfc6349/results", s.tokenAuth(false), s.submitRfcResult)

	apiGroup.POST("/auth/login", s.login)
	apiGroup.GET("/servers", s.listServers)

	authed := apiGroup.Group("", s.tokenAuth(true))
	authed.GET("/me", s.profile)
	authed.GET("/devices", s.listOwnDevices)
	authed.GET("/mobile/tests", s.listOwnSpeedTests)
	authed.GET("/mobile/tests/:test_id", s.getSpeedTest)
	authed.GET("/rfc6349/tests", s.listOwnRfcTests)
	authed.GET("/rfc6349/tests/:test_id", s.getRfcTest)
	authed.POST("/servers", s.adminOnly(), s.createServer)

	admin := apiGroup.Group("/admin", s.tokenAuth(true), s.adminOnly())
	admin.GET("/mobile/tests", s.listRegionSpeedTests)
	admin.GET("/mobile/tests.csv", s.exportSpeedTestsCSV)
	admin.GET("/rfc6349/tests", s.listRegionRfcTests)
	admin.GET("/rfc6349/tests.csv", s.exportRfcTestsCSV)
	admin.POST("/agents", s.createAgent)
	admin.GET("/agents", s.listAgents)
	admin.PATCH("/agents/:id", s.updateAgent)
	admin.DELETE("/agents/:id", s.deactivateAgent)
	admin.POST("/devices/mobile", s.enrollMobileDevice)
	admin.GET("/devices/mobile", s.listRegionMobileDevices)
	admin.POST("/devices/rfc", s.enrollRfcDevice)
	admin.GET("/devices/rfc", s.listRegionRfcDevices)
	admin.POST("/offices", s.createOffice)
	admin.GET("/offices", s.listOffices)

	return r
}

// Run starts the HTTP server on the configured listen address.
func (s *Server) Run() error {
	listen := viper.GetString("server.listen")
	if listen == "" {
		listen = ":8080"
	}
	slog.Info("Starting API server", "listen", listen)
	return s.Router().Run(listen)
}
