package simulate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/strongman/internal/domain/model"
	"github.com/okian/strongman/pkg/logger"
)

const outputFilePermission = 0o600

// Run executes a complete simulated competition. It replaces whatever event
// the service currently holds.
func Run(ctx context.Context, config *Config) (*Stats, error) {
	log := logger.Named("simulate")
	stats := &Stats{StartTime: time.Now()}

	eventType, err := model.ParseEventType(config.EventType)
	if err != nil {
		return stats, fmt.Errorf("event type: %w", err)
	}
	if config.Participants < 1 {
		return stats, fmt.Errorf("participants must be at least 1, got %d", config.Participants)
	}
	workers := max(config.Workers, 1)

	log.Info(ctx, "starting simulated competition",
		logger.String("baseURL", config.BaseURL),
		logger.String("event", config.EventName),
		logger.String("type", string(eventType)),
		logger.Int("participants", config.Participants),
		logger.Int("workers", workers))

	c := newClient(config.BaseURL, config.Timeout)

	// Step 1: Check service health
	if _, err := c.do(ctx, http.MethodGet, "/healthz", nil, nil, http.StatusOK); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Start a fresh event
	if _, err := c.do(ctx, http.MethodPost, "/event", eventRequest{Name: config.EventName, Type: string(eventType)}, nil, http.StatusCreated); err != nil {
		return stats, fmt.Errorf("create event: %w", err)
	}

	// Step 3: Register participants concurrently
	participants := registerParticipants(ctx, c, config, workers, stats)
	if len(participants) == 0 {
		return stats, fmt.Errorf("no participants registered")
	}

	// Step 4: Submit one result per participant concurrently
	performances := make([]Performance, len(participants))
	for i, p := range participants {
		performances[i] = generatePerformance(eventType, p.ID)
	}
	submitted := submitResults(ctx, c, config, workers, performances, stats)

	// Step 5: Read back what the service published
	var snap Snapshot
	if _, err := c.do(ctx, http.MethodGet, "/results", nil, &snap.Results, http.StatusOK); err != nil {
		return stats, fmt.Errorf("fetch results: %w", err)
	}
	if _, err := c.do(ctx, http.MethodGet, "/leaderboard", nil, &snap.Leaderboard, http.StatusOK); err != nil {
		return stats, fmt.Errorf("fetch leaderboard: %w", err)
	}
	stats.ResultsPublished = len(snap.Results)
	stats.LeaderboardEntries = len(snap.Leaderboard)

	// Step 6: Verify
	if err := verify(eventType, len(participants), submitted, snap); err != nil {
		return stats, fmt.Errorf("verification failed: %w", err)
	}
	log.Info(ctx, "published ranking verified")

	// Step 7: Optionally keep the generated performances
	if config.OutputFile != "" {
		if err := savePerformances(config.OutputFile, submitted); err != nil {
			log.Warn(ctx, "failed to save performances", logger.Error(err))
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, log, stats, snap)
	return stats, nil
}

// registerParticipants adds config.Participants athletes using a worker
// pool. The returned slice keeps generation order and omits failures.
func registerParticipants(ctx context.Context, c *client, config *Config, workers int, stats *Stats) []participant {
	log := logger.Named("simulate")
	registered := make([]participant, config.Participants)
	var failed int64

	jobs := make(chan int, workers*2)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				var p participant
				_, err := c.do(ctx, http.MethodPost, "/participants", map[string]string{"name": participantName(i)}, &p, http.StatusCreated)
				if err != nil {
					atomic.AddInt64(&failed, 1)
					if config.Verbose {
						log.Warn(ctx, "participant registration failed", logger.Int("index", i), logger.Error(err))
					}
					continue
				}
				registered[i] = p
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i := 0; i < config.Participants; i++ {
			select {
			case <-ctx.Done():
				return
			case jobs <- i:
			}
		}
	}()
	wg.Wait()

	out := make([]participant, 0, len(registered))
	for _, p := range registered {
		if p.ID != "" {
			out = append(out, p)
		}
	}
	stats.ParticipantsRegistered = len(out)
	stats.ParticipantsFailed = int(atomic.LoadInt64(&failed))
	return out
}

// submitResults posts every performance and returns the accepted ones.
func submitResults(ctx context.Context, c *client, config *Config, workers int, performances []Performance, stats *Stats) []Performance {
	log := logger.Named("simulate")
	accepted := make([]bool, len(performances))
	var failed int64

	jobs := make(chan int, workers*2)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				_, err := c.do(ctx, http.MethodPost, "/results", performances[i], nil, http.StatusCreated, http.StatusOK)
				if err != nil {
					atomic.AddInt64(&failed, 1)
					if config.Verbose {
						log.Warn(ctx, "result submission failed", logger.String("participant", performances[i].ParticipantID), logger.Error(err))
					}
					continue
				}
				accepted[i] = true
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i := range performances {
			select {
			case <-ctx.Done():
				return
			case jobs <- i:
			}
		}
	}()
	wg.Wait()

	out := make([]Performance, 0, len(performances))
	for i, ok := range accepted {
		if ok {
			out = append(out, performances[i])
		}
	}
	stats.ResultsSubmitted = len(out)
	stats.ResultsFailed = int(atomic.LoadInt64(&failed))
	return out
}

func savePerformances(filename string, performances []Performance) error {
	data, err := json.MarshalIndent(performances, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal performances: %w", err)
	}
	if err := os.WriteFile(filename, data, outputFilePermission); err != nil {
		return fmt.Errorf("write %s: %w", filename, err)
	}
	return nil
}

func displayFinalStats(ctx context.Context, log logger.Logger, stats *Stats, snap Snapshot) {
	fields := []logger.Field{
		logger.Int("participantsRegistered", stats.ParticipantsRegistered),
		logger.Int("participantsFailed", stats.ParticipantsFailed),
		logger.Int("resultsSubmitted", stats.ResultsSubmitted),
		logger.Int("resultsFailed", stats.ResultsFailed),
		logger.Int("resultsPublished", stats.ResultsPublished),
		logger.Int("leaderboardEntries", stats.LeaderboardEntries),
		logger.Duration("duration", stats.Duration),
	}
	if len(snap.Leaderboard) > 0 {
		top := snap.Leaderboard[0]
		fields = append(fields, logger.String("winner", top.ParticipantName), logger.Int("winnerPoints", top.TotalPoints))
	}
	log.Info(ctx, "final statistics", fields...)
}
