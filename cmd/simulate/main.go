package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/hackgods/reception-board/internal/appointment"
	"github.com/hackgods/reception-board/internal/logging"
)

type SimConfig struct {
	APIBaseURL  string
	Duration    time.Duration
	Workers     int
	UpdateRatio float64
}

type OperationMetrics struct {
	Total     int64
	Success   int64
	Conflict  int64
	Error     int64
	Latencies []time.Duration
	mu        sync.Mutex
}

func (om *OperationMetrics) Record(latency time.Duration, success bool, conflict bool) {
	atomic.AddInt64(&om.Total, 1)
	if success {
		atomic.AddInt64(&om.Success, 1)
	} else if conflict {
		atomic.AddInt64(&om.Conflict, 1)
	} else {
		atomic.AddInt64(&om.Error, 1)
	}

	om.mu.Lock()
	om.Latencies = append(om.Latencies, latency)
	om.mu.Unlock()
}

func (om *OperationMetrics) Stats() (avg, p50, p95 time.Duration) {
	om.mu.Lock()
	latencies := make([]time.Duration, len(om.Latencies))
	copy(latencies, om.Latencies)
	om.mu.Unlock()

	if len(latencies) == 0 {
		return 0, 0, 0
	}

	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })

	var sum time.Duration
	for _, l := range latencies {
		sum += l
	}

	return sum / time.Duration(len(latencies)), percentile(latencies, 50), percentile(latencies, 95)
}

func percentile(sorted []time.Duration, p int) time.Duration {
	idx := len(sorted) * p / 100
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

type Metrics struct {
	List   OperationMetrics
	Stats  OperationMetrics
	Update OperationMetrics
}

type Simulator struct {
	config  SimConfig
	ids     []string
	client  *http.Client
	metrics Metrics
}

func main() {
	logging.Init("simulate", getEnv("APP_ENV", "dev"), getEnv("LOG_LEVEL", "info"))

	cfg := SimConfig{
		APIBaseURL:  getEnv("SIM_API_BASE_URL", "http://localhost:8080"),
		Duration:    getDuration("SIM_DURATION", 30*time.Second),
		Workers:     getInt("SIM_WORKERS", 10),
		UpdateRatio: getFloat("SIM_UPDATE_RATIO", 0.3),
	}
	if cfg.Workers <= 0 || cfg.Duration <= 0 {
		log.Fatal().Msg("SIM_WORKERS and SIM_DURATION must be > 0")
	}

	sim := &Simulator{
		config: cfg,
		client: &http.Client{Timeout: 10 * time.Second},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	ids, err := sim.loadIDs(ctx)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("load appointment ids")
	}
	if len(ids) == 0 {
		log.Fatal().Msg("board is empty, nothing to simulate")
	}
	sim.ids = ids

	log.Info().
		Dur("duration", cfg.Duration).
		Int("workers", cfg.Workers).
		Float64("update_ratio", cfg.UpdateRatio).
		Int("appointments", len(ids)).
		Msg("simulation starting")

	sim.Run()
	sim.PrintReport()
}

func (s *Simulator) loadIDs(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.config.APIBaseURL+"/appointments", nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list appointments: unexpected status %d", resp.StatusCode)
	}

	var body struct {
		Appointments []appointment.Appointment `json:"appointments"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode appointments: %w", err)
	}

	ids := make([]string, len(body.Appointments))
	for i, a := range body.Appointments {
		ids[i] = a.ID
	}
	return ids, nil
}

func (s *Simulator) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.Duration)
	defer cancel()

	var wg sync.WaitGroup
	for i := 0; i < s.config.Workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			s.worker(ctx, workerID)
		}(i)
	}

	wg.Wait()
	log.Info().Msg("simulation complete")
}

func (s *Simulator) worker(ctx context.Context, workerID int) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano() + int64(workerID)))
	statuses := appointment.AllStatuses()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		r := rng.Float64()
		switch {
		case r < s.config.UpdateRatio:
			id := s.ids[rng.Intn(len(s.ids))]
			status := statuses[rng.Intn(len(statuses))]
			s.doUpdate(ctx, id, status)
		case rng.Intn(2) == 0:
			s.doGet(ctx, "/appointments", &s.metrics.List)
		default:
			s.doGet(ctx, "/appointments/stats", &s.metrics.Stats)
		}
	}
}

func (s *Simulator) doGet(ctx context.Context, path string, m *OperationMetrics) {
	start := time.Now()

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, s.config.APIBaseURL+path, nil)
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := s.client.Do(req)
	latency := time.Since(start)

	success := false
	if err == nil {
		resp.Body.Close()
		success = resp.StatusCode == http.StatusOK
	}

	m.Record(latency, success, false)
}

func (s *Simulator) doUpdate(ctx context.Context, id string, status appointment.Status) {
	body, _ := json.Marshal(map[string]string{"status": string(status)})

	start := time.Now()

	req, _ := http.NewRequestWithContext(ctx, http.MethodPatch,
		fmt.Sprintf("%s/appointments/%s/status", s.config.APIBaseURL, id), bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := s.client.Do(req)
	latency := time.Since(start)

	success := false
	conflict := false
	if err == nil {
		resp.Body.Close()
		switch resp.StatusCode {
		case http.StatusOK, http.StatusNoContent:
			success = true
		case http.StatusConflict:
			conflict = true
		}
	}

	s.metrics.Update.Record(latency, success, conflict)
}

func (s *Simulator) PrintReport() {
	fmt.Println()
	fmt.Println("operation      total   success  conflict  error   avg        p50        p95")
	for _, row := range []struct {
		name string
		m    *OperationMetrics
	}{
		{"list", &s.metrics.List},
		{"stats", &s.metrics.Stats},
		{"update_status", &s.metrics.Update},
	} {
		avg, p50, p95 := row.m.Stats()
		fmt.Printf("%-14s %-7d %-8d %-9d %-7d %-10s %-10s %-10s\n",
			row.name,
			atomic.LoadInt64(&row.m.Total),
			atomic.LoadInt64(&row.m.Success),
			atomic.LoadInt64(&row.m.Conflict),
			atomic.LoadInt64(&row.m.Error),
			avg.Round(time.Microsecond),
			p50.Round(time.Microsecond),
			p95.Round(time.Microsecond),
		)
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
