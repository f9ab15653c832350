package sim

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/taskgate/partner-sdk/internal/infrastructure/config"
	"github.com/taskgate/partner-sdk/internal/infrastructure/logging"
)

// SignalRecord is one outbound URL the simulator received from a partner
// app under test, decoded back into its parameters.
type SignalRecord struct {
	Kind       string            `json:"kind"` // "ready" or "completion"
	Params     map[string]string `json:"params"`
	ReceivedAt time.Time         `json:"received_at"`
}

// Server is a stand-in for the TaskGate host app during partner
// development: it mints inbound handoff links from scenarios and records
// the ready signals and completion reports the SDK sends back.
type Server struct {
	router    *gin.Engine
	hub       *Hub
	scenarios *ScenarioSet
	cfg       *config.Config
	logger    *logging.Logger
	srv       *http.Server

	mu      sync.Mutex
	signals []SignalRecord
}

// NewServer creates a simulator from configuration and a scenario set.
func NewServer(cfg *config.Config, scenarios *ScenarioSet, logger *logging.Logger) *Server {
	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		hub:       NewHub(logger.WithComponent("dashboard").Logger),
		scenarios: scenarios,
		cfg:       cfg,
		logger:    logger.WithComponent("sim"),
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}))
	router.Use(RateLimit(cfg.Sim.RequestsPerSecond, cfg.Sim.Burst))

	router.GET("/health", s.handleHealth)
	router.POST("/handoff/:scenario", s.handleHandoff)
	router.GET("/partner-ready", s.handlePartnerReady)
	router.GET("/callback", s.handleCallback)
	router.GET("/signals", s.handleSignals)
	router.GET("/ws", s.hub.HandleConnection)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.router = router
	return s
}

// Run starts serving and blocks until the server is closed.
func (s *Server) Run() error {
	addr := s.cfg.Sim.Host + ":" + s.cfg.Sim.Port
	s.logger.Info("host simulator listening",
		zap.String("addr", addr),
		zap.Int("scenarios", len(s.scenarios.Scenarios)),
	)

	s.srv = &http.Server{
		Addr:    addr,
		Handler: s.router,
	}
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("simulator failed: %w", err)
	}
	return nil
}

// Close shuts the server down gracefully.
func (s *Server) Close() error {
	if s.srv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.srv.Shutdown(ctx)
}

// Router exposes the handler for httptest-driven tests.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":            "ok",
		"dashboard_clients": s.hub.ClientCount(),
	})
}

// handleHandoff mints the inbound deep link for a named scenario. The
// completion callback points back at this simulator.
func (s *Server) handleHandoff(c *gin.Context) {
	name := c.Param("scenario")
	scenario, ok := s.scenarios.Get(name)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("unknown scenario %q", name)})
		return
	}

	callbackURL := "http://" + c.Request.Host + "/callback"
	link, err := scenario.BuildLink(s.cfg.Sim.PartnerBaseURL, callbackURL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	s.logger.Info("minted handoff link",
		zap.String("scenario", name),
		zap.String("task_id", scenario.TaskID),
	)
	c.JSON(http.StatusOK, gin.H{
		"scenario": name,
		"url":      link,
	})
}

// handlePartnerReady receives the SDK's outbound ready signal.
func (s *Server) handlePartnerReady(c *gin.Context) {
	s.record(c, "ready")
	c.JSON(http.StatusOK, gin.H{"acknowledged": true})
}

// handleCallback receives the SDK's completion report.
func (s *Server) handleCallback(c *gin.Context) {
	s.record(c, "completion")
	c.JSON(http.StatusOK, gin.H{"acknowledged": true})
}

func (s *Server) handleSignals(c *gin.Context) {
	s.mu.Lock()
	out := make([]SignalRecord, len(s.signals))
	copy(out, s.signals)
	s.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{"signals": out})
}

// record stores the decoded query parameters and streams them to any
// connected dashboard.
func (s *Server) record(c *gin.Context, kind string) {
	params := make(map[string]string)
	for key, values := range c.Request.URL.Query() {
		if len(values) > 0 {
			params[key] = values[0]
		}
	}

	rec := SignalRecord{
		Kind:       kind,
		Params:     params,
		ReceivedAt: time.Now(),
	}

	s.mu.Lock()
	s.signals = append(s.signals, rec)
	s.mu.Unlock()

	s.logger.Info("received partner signal",
		zap.String("kind", kind),
		zap.Any("params", params),
	)
	s.hub.Broadcast(rec)
}
