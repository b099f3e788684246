// Package httpserver manages server creation and api routing.
package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/go-petr/pet-transfer/internal/balancedelivery"
	"github.com/go-petr/pet-transfer/internal/ledger"
	"github.com/go-petr/pet-transfer/internal/middleware"
	"github.com/go-petr/pet-transfer/internal/reporter"
	"github.com/go-petr/pet-transfer/internal/resultrepo"
	"github.com/go-petr/pet-transfer/internal/transferdelivery"
	"github.com/go-petr/pet-transfer/internal/transferservice"
	"github.com/go-petr/pet-transfer/pkg/configpkg"
)

// Server holds the handlers router, the session ledger and configuration.
type Server struct {
	Engine    *gin.Engine
	Config    configpkg.Config
	Ledger    *ledger.Ledger
	Transfers *transferservice.Service
}

// ServeHTTP implements the http.Handler interface for the Server type.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Engine.ServeHTTP(w, r)
}

// New creates Server type with instantiated domains and routes.
func New(logger zerolog.Logger, config configpkg.Config, gateway transferservice.Gateway) (*Server, error) {
	initialBalance, err := config.Balance()
	if err != nil {
		return nil, err
	}

	balanceLedger := ledger.New(initialBalance)
	resultRepo := resultrepo.NewRepoMem()

	transferService := transferservice.New(gateway, balanceLedger, reporter.New(resultRepo), resultRepo)

	transferHandler := transferdelivery.NewHandler(transferService)
	balanceHandler := balancedelivery.NewHandler(transferService)

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(middleware.RequestLogger(logger))
	engine.Use(gin.Recovery())
	engine.Use(middleware.BodyLimit(config.MaxBodyBytes))

	engine.GET("/balance", balanceHandler.Get)

	engine.POST("/transfers/review", transferHandler.Review)
	engine.POST("/transfers", transferHandler.Create)
	engine.GET("/transfers/:id", transferHandler.Get)

	server := &Server{
		Engine:    engine,
		Config:    config,
		Ledger:    balanceLedger,
		Transfers: transferService,
	}

	return server, nil
}
