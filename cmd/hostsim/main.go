package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/taskgate/partner-sdk/internal/infrastructure/config"
	"github.com/taskgate/partner-sdk/internal/infrastructure/logging"
	"github.com/taskgate/partner-sdk/internal/sim"
)

func main() {
	// Parse flags
	port := flag.String("port", "", "Listen port (overrides TASKGATE_SIM_PORT)")
	scenarioFile := flag.String("scenarios", "", "Scenario TOML file (overrides TASKGATE_SIM_SCENARIOS)")
	dev := flag.Bool("dev", false, "Enable development logging")
	flag.Parse()

	cfg := config.LoadOrDefault()
	if *port != "" {
		cfg.Sim.Port = *port
	}
	if *scenarioFile != "" {
		cfg.Sim.ScenarioFile = *scenarioFile
	}
	if *dev {
		cfg.Logging.Development = true
	}

	var logger *logging.Logger
	if cfg.Logging.Development {
		logger = logging.NewDevelopment()
	} else {
		logger = logging.NewDefault()
	}
	defer func() { _ = logger.Sync() }()

	scenarios, err := sim.LoadScenarios(cfg.Sim.ScenarioFile)
	if err != nil {
		log.Fatalf("Failed to load scenarios: %v", err)
	}

	srv := sim.NewServer(cfg, scenarios, logger)

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		if err := srv.Run(); err != nil {
			errChan <- err
		}
	}()

	select {
	case <-sigChan:
		logger.Info("shutting down gracefully")
		if err := srv.Close(); err != nil {
			logger.Error("error during shutdown", zap.Error(err))
		}
	case err := <-errChan:
		log.Fatalf("Simulator error: %v", err)
	}
}
