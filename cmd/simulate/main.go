package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

type SimConfig struct {
	AppointmentBaseURL string
	OrientationBaseURL string
	Duration           time.Duration
	Workers            int
	OrientRatio        float64
	BookingRatio       float64
	UserIDs            []uuid.UUID
	DoctorIDs          []uuid.UUID
}

func loadSimConfig() SimConfig {
	cfg := SimConfig{
		AppointmentBaseURL: getEnv("APPOINTMENT_API_URL", "http://localhost:8004"),
		OrientationBaseURL: getEnv("ORIENTATION_API_URL", "http://localhost:8005"),
		Duration:           30 * time.Second,
		Workers:            10,
		OrientRatio:        0.5,
		BookingRatio:       0.3,
	}

	if v := os.Getenv("SIM_DURATION"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Duration = d
		}
	}
	if v := os.Getenv("SIM_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Workers = n
		}
	}

	cfg.UserIDs = parseIDList(os.Getenv("SIM_USER_IDS"))
	cfg.DoctorIDs = parseIDList(os.Getenv("SIM_DOCTOR_IDS"))

	return cfg
}

func parseIDList(raw string) []uuid.UUID {
	var out []uuid.UUID
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if id, err := uuid.Parse(part); err == nil {
			out = append(out, id)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

type DataPool struct {
	mu           sync.RWMutex
	appointments []uuid.UUID
}

func (dp *DataPool) Add(id uuid.UUID) {
	dp.mu.Lock()
	defer dp.mu.Unlock()
	dp.appointments = append(dp.appointments, id)
}

func (dp *DataPool) Random() (uuid.UUID, bool) {
	dp.mu.RLock()
	defer dp.mu.RUnlock()
	if len(dp.appointments) == 0 {
		return uuid.Nil, false
	}
	return dp.appointments[rand.Intn(len(dp.appointments))], true
}

type OperationMetrics struct {
	Total     int64
	Success   int64
	Rejected  int64
	Error     int64
	mu        sync.Mutex
	latencies []time.Duration
}

func (om *OperationMetrics) Record(latency time.Duration, status int) {
	atomic.AddInt64(&om.Total, 1)
	switch {
	case status >= 200 && status < 300:
		atomic.AddInt64(&om.Success, 1)
	case status >= 400 && status < 500:
		atomic.AddInt64(&om.Rejected, 1)
	default:
		atomic.AddInt64(&om.Error, 1)
	}

	om.mu.Lock()
	om.latencies = append(om.latencies, latency)
	om.mu.Unlock()
}

func (om *OperationMetrics) Stats() (avg, p50, p95 time.Duration) {
	om.mu.Lock()
	defer om.mu.Unlock()

	if len(om.latencies) == 0 {
		return 0, 0, 0
	}

	latencies := make([]time.Duration, len(om.latencies))
	copy(latencies, om.latencies)
	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })

	var sum time.Duration
	for _, l := range latencies {
		sum += l
	}
	avg = sum / time.Duration(len(latencies))

	idx := func(pct int) int {
		i := len(latencies) * pct / 100
		if i >= len(latencies) {
			i = len(latencies) - 1
		}
		return i
	}
	return avg, latencies[idx(50)], latencies[idx(95)]
}

var symptomSamples = []string{
	"tengo fiebre y tos",
	"dolor de pecho y palpitaciones fuertes",
	"me pica la piel y tengo sarpullido",
	"ansiedad e insomnio desde hace semanas",
	"dolor de espalda después de levantar peso",
	"visión borrosa y dolor de cabeza",
	"quiero una dieta para bajar el colesterol",
	"mi bebé no sube de peso",
	"algo raro que no sé describir",
}

func main() {
	log.SetFlags(log.LstdFlags)
	cfg := loadSimConfig()

	log.Printf("simulate: workers=%d duration=%s appointment=%s orientation=%s",
		cfg.Workers, cfg.Duration, cfg.AppointmentBaseURL, cfg.OrientationBaseURL)
	if len(cfg.UserIDs) == 0 || len(cfg.DoctorIDs) == 0 {
		log.Println("SIM_USER_IDS / SIM_DOCTOR_IDS not set; bookings will use random IDs and be rejected")
	}

	client := &http.Client{Timeout: 10 * time.Second}
	pool := &DataPool{}
	orientMetrics := &OperationMetrics{}
	bookMetrics := &OperationMetrics{}
	cancelMetrics := &OperationMetrics{}

	deadline := time.Now().Add(cfg.Duration)
	var wg sync.WaitGroup

	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))

			for time.Now().Before(deadline) {
				roll := rng.Float64()
				switch {
				case roll < cfg.OrientRatio:
					runOrient(client, cfg, rng, orientMetrics)
				case roll < cfg.OrientRatio+cfg.BookingRatio:
					runBooking(client, cfg, rng, pool, bookMetrics)
				default:
					runCancel(client, cfg, pool, cancelMetrics)
				}
			}
		}(time.Now().UnixNano() + int64(w))
	}

	wg.Wait()

	report("orient", orientMetrics)
	report("booking", bookMetrics)
	report("cancel", cancelMetrics)
}

func report(name string, m *OperationMetrics) {
	avg, p50, p95 := m.Stats()
	log.Printf("%-8s total=%d success=%d rejected=%d error=%d avg=%s p50=%s p95=%s",
		name, m.Total, m.Success, m.Rejected, m.Error, avg, p50, p95)
}

func runOrient(client *http.Client, cfg SimConfig, rng *rand.Rand, m *OperationMetrics) {
	body, _ := json.Marshal(map[string]any{
		"symptoms": symptomSamples[rng.Intn(len(symptomSamples))],
	})

	start := time.Now()
	status := post(client, cfg.OrientationBaseURL+"/ai/orient", body, nil)
	m.Record(time.Since(start), status)
}

func runBooking(client *http.Client, cfg SimConfig, rng *rand.Rand, pool *DataPool, m *OperationMetrics) {
	userID := uuid.New()
	doctorID := uuid.New()
	if len(cfg.UserIDs) > 0 {
		userID = cfg.UserIDs[rng.Intn(len(cfg.UserIDs))]
	}
	if len(cfg.DoctorIDs) > 0 {
		doctorID = cfg.DoctorIDs[rng.Intn(len(cfg.DoctorIDs))]
	}

	body, _ := json.Marshal(map[string]any{
		"user_id":          userID.String(),
		"doctor_id":        doctorID.String(),
		"appointment_date": time.Now().AddDate(0, 0, 1+rng.Intn(14)).Format(time.RFC3339),
		"price":            float64(30 + rng.Intn(90)),
	})

	var created struct {
		ID uuid.UUID `json:"id"`
	}

	start := time.Now()
	status := post(client, cfg.AppointmentBaseURL+"/appointments", body, &created)
	m.Record(time.Since(start), status)

	if status == http.StatusCreated && created.ID != uuid.Nil {
		pool.Add(created.ID)
	}
}

func runCancel(client *http.Client, cfg SimConfig, pool *DataPool, m *OperationMetrics) {
	id, ok := pool.Random()
	if !ok {
		return
	}

	url := fmt.Sprintf("%s/appointments/%s/cancel", cfg.AppointmentBaseURL, id)
	req, err := http.NewRequest(http.MethodPut, url, nil)
	if err != nil {
		return
	}

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		m.Record(time.Since(start), http.StatusInternalServerError)
		return
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	m.Record(time.Since(start), resp.StatusCode)
}

func post(client *http.Client, url string, body []byte, out any) int {
	resp, err := client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return http.StatusInternalServerError
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if out != nil {
		_ = json.Unmarshal(raw, out)
	}
	return resp.StatusCode
}
