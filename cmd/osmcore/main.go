// Package main is the firmware entry point: it mounts the store, boots
// the App, starts the transport listener (unless test_mode skips
// networking), and drives the single cooperative loop spec.md §5
// describes -- poll transport, flush outbox, drain one batch of command
// input, sleep -- until told to stop.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/faisal-shah/offline-secure-messenger-sub000/appcore"
	"github.com/faisal-shah/offline-secure-messenger-sub000/command"
	"github.com/faisal-shah/offline-secure-messenger-sub000/store"
	"github.com/faisal-shah/offline-secure-messenger-sub000/transport"
)

// Config holds the three configuration knobs named in spec.md §6 (port,
// name, test mode) plus the data directory and the loop tick rate.
type Config struct {
	port     uint
	name     string
	testMode bool
	dataDir  string
	tickRate time.Duration
}

func parseFlags() *Config {
	cfg := &Config{}
	flag.UintVar(&cfg.port, "port", 33445, "listen port for the byte-stream transport (1-65535)")
	flag.StringVar(&cfg.name, "name", "osm-device", "device name shown to the user and advertised on the metadata channel")
	flag.BoolVar(&cfg.testMode, "test_mode", false, "skip network start, auto-generate identity if missing")
	flag.StringVar(&cfg.dataDir, "data_dir", "./osm-data", "directory standing in for the mounted block-device filesystem")
	flag.DurationVar(&cfg.tickRate, "tick_rate", 50*time.Millisecond, "cooperative loop sleep interval")
	flag.Parse()
	return cfg
}

func (c *Config) validate() error {
	if c.port == 0 || c.port > 65535 {
		return fmt.Errorf("invalid port: must be between 1 and 65535")
	}
	if c.name == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if c.dataDir == "" {
		return fmt.Errorf("data_dir cannot be empty")
	}
	return nil
}

func main() {
	os.Exit(run())
}

// run executes the firmware's boot-to-shutdown lifecycle and returns an
// exit code: 0 on clean shutdown, non-zero only on fatal init failure,
// per spec.md §6.
func run() int {
	cfg := parseFlags()
	if err := cfg.validate(); err != nil {
		logrus.WithFields(logrus.Fields{"error": err.Error()}).Error("invalid configuration")
		return 1
	}

	logrus.SetLevel(logrus.InfoLevel)
	logger := logrus.WithFields(logrus.Fields{
		"function": "run",
		"package":  "main",
		"device":   cfg.name,
	})

	s, err := store.New(cfg.dataDir)
	if err != nil {
		logger.WithFields(logrus.Fields{"error": err.Error()}).Error("failed to mount store")
		return 1
	}

	srv := transport.NewServer()
	app := appcore.New(s, srv)

	if err := app.Boot(cfg.testMode); err != nil {
		logger.WithFields(logrus.Fields{"error": err.Error()}).Error("failed to boot application state")
		return 1
	}

	if !cfg.testMode {
		if err := srv.Start(fmt.Sprintf(":%d", cfg.port)); err != nil {
			logger.WithFields(logrus.Fields{"error": err.Error()}).Error("failed to start transport")
			return 1
		}
	}

	proc := command.NewProcessor(app)
	lines := command.NewLineSource(os.Stdin)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	logger.Info("firmware core running")
	ticker := time.NewTicker(cfg.tickRate)
	defer ticker.Stop()

loop:
	for {
		select {
		case <-stop:
			logger.Info("received shutdown signal")
			break loop
		case <-ticker.C:
			app.Iterate()
			if err := command.Serve(proc, lines, os.Stdout); err != nil {
				logger.WithFields(logrus.Fields{"error": err.Error()}).Warn("command surface write failed")
			}
		}
	}

	if err := app.Stop(); err != nil {
		logger.WithFields(logrus.Fields{"error": err.Error()}).Warn("error during transport shutdown")
	}
	logger.Info("firmware core stopped cleanly")
	return 0
}
