package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/silverrose/clinicforms/internal/config"
	"github.com/silverrose/clinicforms/internal/form"
	"github.com/silverrose/clinicforms/internal/gateway"
	"github.com/silverrose/clinicforms/internal/modal"
	"github.com/silverrose/clinicforms/internal/session"
	"github.com/silverrose/clinicforms/pkg/logging"
)

type SimConfig struct {
	APIBaseURL       string
	Duration         time.Duration
	Workers          int
	AppointmentRatio float64
	ContactRatio     float64
	AuthRatio        float64
	InvalidRatio     float64 // share of submits with a deliberately empty field
	NoticeTTL        time.Duration
}

type OperationMetrics struct {
	Total     int64
	Success   int64
	Blocked   int64 // stopped by client-side validation
	Error     int64
	Latencies []time.Duration
	mu        sync.Mutex
}

func (om *OperationMetrics) Record(latency time.Duration, success, blocked bool) {
	atomic.AddInt64(&om.Total, 1)
	if success {
		atomic.AddInt64(&om.Success, 1)
	} else if blocked {
		atomic.AddInt64(&om.Blocked, 1)
	} else {
		atomic.AddInt64(&om.Error, 1)
	}

	om.mu.Lock()
	om.Latencies = append(om.Latencies, latency)
	om.mu.Unlock()
}

func (om *OperationMetrics) Stats() (avg, min, max, p50, p95 time.Duration) {
	om.mu.Lock()
	defer om.mu.Unlock()

	if len(om.Latencies) == 0 {
		return 0, 0, 0, 0, 0
	}

	latencies := make([]time.Duration, len(om.Latencies))
	copy(latencies, om.Latencies)

	sort.Slice(latencies, func(i, j int) bool {
		return latencies[i] < latencies[j]
	})

	var sum time.Duration
	for _, l := range latencies {
		sum += l
	}

	avg = sum / time.Duration(len(latencies))
	min = latencies[0]
	max = latencies[len(latencies)-1]

	p50 = latencies[len(latencies)*50/100]
	p95Idx := len(latencies) * 95 / 100
	if p95Idx >= len(latencies) {
		p95Idx = len(latencies) - 1
	}
	p95 = latencies[p95Idx]

	return avg, min, max, p50, p95
}

type Metrics struct {
	Appointment OperationMetrics
	Contact     OperationMetrics
	Auth        OperationMetrics
}

type Simulator struct {
	config   SimConfig
	gw       *gateway.Client
	modals   *modal.Stack
	sessions *session.Store
	metrics  Metrics
	logger   *logging.Logger
}

func main() {
	logger := logging.New(getEnv("LOG_LEVEL", "warn"))
	logger.Info("simulator starting")

	cfg := loadConfig()
	if err := validateConfig(cfg); err != nil {
		logger.Error("invalid config", "error", err)
		os.Exit(1)
	}

	logger.Info("config loaded",
		"duration", cfg.Duration.String(),
		"workers", cfg.Workers,
		"appointment", cfg.AppointmentRatio,
		"contact", cfg.ContactRatio,
		"auth", cfg.AuthRatio,
	)

	gofakeit.Seed(time.Now().UnixNano())

	modals := modal.NewStack()
	sim := &Simulator{
		config:   cfg,
		gw:       gateway.NewClient(cfg.APIBaseURL, 10*time.Second, logger),
		modals:   modals,
		sessions: session.NewStore(modals, logger),
		logger:   logger,
	}

	sim.Run()
	sim.PrintReport()
}

func loadConfig() SimConfig {
	baseCfg, _ := config.Load()

	cfg := SimConfig{
		APIBaseURL:       getEnv("SIM_API_BASE_URL", baseCfg.APIBaseURL),
		Duration:         getDuration("SIM_DURATION", 30*time.Second),
		Workers:          getInt("SIM_WORKERS", 10),
		AppointmentRatio: getFloat("SIM_APPOINTMENT_RATIO", 0.5),
		ContactRatio:     getFloat("SIM_CONTACT_RATIO", 0.3),
		AuthRatio:        getFloat("SIM_AUTH_RATIO", 0.2),
		InvalidRatio:     getFloat("SIM_INVALID_RATIO", 0.1),
		NoticeTTL:        getDuration("SIM_NOTICE_TTL", 50*time.Millisecond),
	}

	total := cfg.AppointmentRatio + cfg.ContactRatio + cfg.AuthRatio
	if total > 0 {
		cfg.AppointmentRatio /= total
		cfg.ContactRatio /= total
		cfg.AuthRatio /= total
	}

	return cfg
}

func validateConfig(cfg SimConfig) error {
	if cfg.APIBaseURL == "" {
		return fmt.Errorf("SIM_API_BASE_URL is required")
	}
	if cfg.Workers <= 0 {
		return fmt.Errorf("SIM_WORKERS must be > 0")
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("SIM_DURATION must be > 0")
	}
	if cfg.InvalidRatio < 0 || cfg.InvalidRatio > 1 {
		return fmt.Errorf("SIM_INVALID_RATIO must be in [0,1]")
	}
	return nil
}

func (s *Simulator) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.Duration)
	defer cancel()

	s.logger.Info("starting simulation", "duration", s.config.Duration.String(), "workers", s.config.Workers)

	var wg sync.WaitGroup
	for i := 0; i < s.config.Workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			s.worker(ctx, workerID)
		}(i)
	}

	wg.Wait()
	s.logger.Info("simulation complete")
}

func (s *Simulator) worker(ctx context.Context, workerID int) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano() + int64(workerID)))

	for {
		select {
		case <-ctx.Done():
			return
		default:
			r := rng.Float64()
			switch {
			case r < s.config.AppointmentRatio:
				s.doAppointment(ctx, rng)
			case r < s.config.AppointmentRatio+s.config.ContactRatio:
				s.doContact(ctx, rng)
			default:
				s.doAuth(rng)
			}
		}
	}
}

// doAppointment opens the appointment modal, fills a fresh form instance and
// submits it, then tears the instance down the way a closing overlay would.
func (s *Simulator) doAppointment(ctx context.Context, rng *rand.Rand) {
	s.modals.Open(modal.Appointment)
	defer s.modals.Close(modal.Appointment)

	ctrl := form.NewAppointmentController(s.gw, s.modals, form.Options{
		NoticeTTL: s.config.NoticeTTL,
		Logger:    s.logger,
	})
	defer ctrl.Close()

	fields := ctrl.Fields()
	_ = fields.Set(form.FieldFullName, gofakeit.Name())
	_ = fields.Set(form.FieldEmail, gofakeit.Email())
	_ = fields.Set(form.FieldPhone, gofakeit.Phone())
	_ = fields.Set(form.FieldDate, gofakeit.FutureDate().Format("2006-01-02"))

	// Half the submissions send the short HH:MM form the time picker
	// produces, exercising normalization on the wire value.
	if rng.Float64() < 0.5 {
		_ = fields.Set(form.FieldTime, fmt.Sprintf("%02d:%02d", rng.Intn(24), rng.Intn(60)))
	} else {
		_ = fields.Set(form.FieldTime, fmt.Sprintf("%02d:%02d:%02d", rng.Intn(24), rng.Intn(60), rng.Intn(60)))
	}

	if rng.Float64() < s.config.InvalidRatio {
		field := form.AppointmentSchema.Fields[rng.Intn(len(form.AppointmentSchema.Fields))]
		_ = fields.Set(field, "")
	}

	start := time.Now()
	err := ctrl.Submit(ctx)
	latency := time.Since(start)

	var verr *form.ValidationError
	s.metrics.Appointment.Record(latency, err == nil, errors.As(err, &verr))
}

func (s *Simulator) doContact(ctx context.Context, rng *rand.Rand) {
	ctrl := form.NewContactController(s.gw, form.Options{
		NoticeTTL: s.config.NoticeTTL,
		Logger:    s.logger,
	})
	defer ctrl.Close()

	fields := ctrl.Fields()
	_ = fields.Set(form.FieldName, gofakeit.Name())
	_ = fields.Set(form.FieldEmail, gofakeit.Email())
	_ = fields.Set(form.FieldSubject, gofakeit.Sentence(4))
	_ = fields.Set(form.FieldMessage, gofakeit.Paragraph(1, 2, 8, " "))

	if rng.Float64() < s.config.InvalidRatio {
		field := form.ContactSchema.Fields[rng.Intn(len(form.ContactSchema.Fields))]
		_ = fields.Set(field, "")
	}

	start := time.Now()
	err := ctrl.Submit(ctx)
	latency := time.Since(start)

	var verr *form.ValidationError
	s.metrics.Contact.Record(latency, err == nil, errors.As(err, &verr))
}

func (s *Simulator) doAuth(rng *rand.Rand) {
	s.modals.Open(modal.Auth)

	start := time.Now()

	var err error
	if rng.Float64() < 0.5 {
		role := session.RolePatient
		if rng.Float64() < 0.3 {
			role = session.RoleDoctor
		}
		_, err = s.sessions.Register(gofakeit.Name(), gofakeit.Email(), gofakeit.Password(true, true, true, false, false, 12), role)
	} else {
		email := gofakeit.Email()
		if rng.Float64() < s.config.InvalidRatio {
			email = ""
		}
		_, err = s.sessions.Login(email, gofakeit.Password(true, true, true, false, false, 12))
	}

	latency := time.Since(start)
	s.metrics.Auth.Record(latency, err == nil, false)

	// A failed auth leaves the modal up, just like the page would.
	if err != nil {
		s.modals.Close(modal.Auth)
	}

	if rng.Float64() < 0.3 {
		s.sessions.Logout()
	}
}

func (s *Simulator) PrintReport() {
	fmt.Println("\n" + strings.Repeat("=", 80))
	fmt.Println("SIMULATION REPORT")
	fmt.Println(strings.Repeat("=", 80))
	fmt.Printf("Duration: %s\n", s.config.Duration)
	fmt.Printf("Workers: %d\n", s.config.Workers)
	fmt.Println()

	printOperationReport("Appointment submit", &s.metrics.Appointment)
	printOperationReport("Contact submit", &s.metrics.Contact)
	printOperationReport("Auth", &s.metrics.Auth)
}

func printOperationReport(name string, om *OperationMetrics) {
	total := atomic.LoadInt64(&om.Total)
	if total == 0 {
		return
	}

	success := atomic.LoadInt64(&om.Success)
	blocked := atomic.LoadInt64(&om.Blocked)
	errCount := atomic.LoadInt64(&om.Error)

	avg, min, max, p50, p95 := om.Stats()

	fmt.Printf("%s:\n", name)
	fmt.Printf("  Total: %d\n", total)
	fmt.Printf("  Success: %d (%.1f%%)\n", success, float64(success)/float64(total)*100)
	if blocked > 0 {
		fmt.Printf("  Blocked by validation: %d (%.1f%%)\n", blocked, float64(blocked)/float64(total)*100)
	}
	if errCount > 0 {
		fmt.Printf("  Errors: %d (%.1f%%)\n", errCount, float64(errCount)/float64(total)*100)
	}
	fmt.Printf("  Latency: avg=%s min=%s max=%s p50=%s p95=%s\n",
		avg.Round(time.Millisecond), min.Round(time.Millisecond), max.Round(time.Millisecond),
		p50.Round(time.Millisecond), p95.Round(time.Millisecond))
	fmt.Println()
}

// Helper functions

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
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
