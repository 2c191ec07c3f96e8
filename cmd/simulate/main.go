package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/strongman/internal/simulate"
	"github.com/okian/strongman/pkg/logger"
)

// Default configuration constants.
const (
	defaultParticipants = 20
	defaultWorkers      = 2 // multiplier for runtime.NumCPU()
	defaultTimeout      = 30 * time.Second
	defaultRunTimeout   = 5 * time.Minute
)

func main() {
	var (
		baseURL      = flag.String("url", "http://localhost:9080", "Base URL of the service")
		eventName    = flag.String("event", "Simulated Truck Pull", "Name of the event to create (replaces the current event)")
		eventType    = flag.String("type", "distance", "Event type: distance or reps")
		participants = flag.Int("participants", defaultParticipants, "Number of participants to register")
		workers      = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout      = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		outputFile   = flag.String("output", "", "Write submitted performances to this JSON file")
		logFormat    = flag.String("log-format", logger.FormatText, "Log format: text or json")
		verbose      = flag.Bool("verbose", false, "Log every failed request")
	)
	flag.Parse()

	if err := logger.Init(logger.WithFormat(*logFormat)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	_, err := simulate.Run(ctx, &simulate.Config{
		BaseURL:      *baseURL,
		EventName:    *eventName,
		EventType:    *eventType,
		Participants: *participants,
		Workers:      *workers,
		Timeout:      *timeout,
		OutputFile:   *outputFile,
		Verbose:      *verbose,
	})
	if err != nil {
		logger.Get().Error(ctx, "simulation failed", logger.Error(err))
		os.Exit(1)
	}
}
