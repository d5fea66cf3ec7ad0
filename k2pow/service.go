// HTTP surface for the K2-PoW engine (spec §4.7/§6.1): a single-slot
// scheduler plus a process-lifetime result cache, grounded in the same
// plain net/http server style as go-spacemesh's cmd/bootstrapper/server.go,
// here parsing path segments by hand instead of a router, matching that
// file's regex-on-path approach.
package k2pow

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spacemeshos/postcore/internal/randomx"
)

// jobKey is the (identity, nonce_group, challenge, difficulty) quadruple
// that both the single-slot scheduler and the result cache are keyed by.
type jobKey struct {
	miner      [32]byte
	group      uint8
	challenge  [8]byte
	difficulty [32]byte
}

type job struct {
	key  jobKey
	done chan struct{}
	res  uint64
	err  error
}

// Service serves the K2-PoW HTTP job endpoint.
type Service struct {
	mode     randomx.Mode
	threads  int
	maxNonce uint64
	logger   *zap.Logger

	mu     sync.Mutex
	active *job
	cache  map[jobKey]uint64

	jobsTotal   *prometheus.CounterVec
	jobDuration prometheus.Histogram
}

// NewService constructs a K2-PoW HTTP Service.
func NewService(mode randomx.Mode, threads int, maxNonce uint64, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		mode:     mode,
		threads:  threads,
		maxNonce: maxNonce,
		logger:   logger,
		cache:    make(map[jobKey]uint64),
		jobsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "postcore",
			Subsystem: "k2pow",
			Name:      "jobs_total",
			Help:      "Total K2-PoW search jobs by outcome.",
		}, []string{"outcome"}),
		jobDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: "postcore",
			Subsystem: "k2pow",
			Name:      "job_duration_seconds",
			Help:      "Wall-clock duration of a completed K2-PoW search job.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

// Start serves the K2-PoW job endpoint on addr and a separate /metrics
// endpoint on metricsAddr, until ctx is cancelled, mirroring the
// certifier's two-listener shape.
func (s *Service) Start(ctx context.Context, addr, metricsAddr string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleRoot)
	mux.HandleFunc("/job/", s.handleJob)
	srv := &http.Server{Addr: addr, Handler: mux}

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsSrv := &http.Server{Addr: metricsAddr, Handler: metricsMux}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.serve(ctx, srv, "k2pow") })
	g.Go(func() error { return s.serve(ctx, metricsSrv, "metrics") })
	return g.Wait()
}

func (s *Service) serve(ctx context.Context, srv *http.Server, name string) error {
	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return fmt.Errorf("listening for %s: %w", name, err)
	}
	s.logger.Info("serving", zap.String("service", name), zap.String("addr", ln.Addr().String()))

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

func (s *Service) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// handleJob serves GET /job/{miner_hex32}/{nonce_group_u8}/{challenge_hex8}/{difficulty_hex32}.
func (s *Service) handleJob(w http.ResponseWriter, r *http.Request) {
	key, err := parseJobPath(strings.TrimPrefix(r.URL.Path, "/job/"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if result, ok := s.lookupCache(key); ok {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "%d", result)
		return
	}

	status, result, err := s.admit(key)
	switch {
	case err != nil:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	case status == http.StatusOK:
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "%d", result)
	default:
		w.WriteHeader(status)
	}
}

// admit implements the single-slot scheduler: a request for the currently
// active job's key attaches (201); any other key while a job is active is
// rejected (429); an idle scheduler starts a new job (201).
func (s *Service) admit(key jobKey) (status int, result uint64, err error) {
	s.mu.Lock()

	if s.active == nil {
		j := &job{key: key, done: make(chan struct{})}
		s.active = j
		s.mu.Unlock()
		go s.run(j)
		return http.StatusCreated, 0, nil
	}

	if s.active.key != key {
		s.mu.Unlock()
		return http.StatusTooManyRequests, 0, nil
	}
	j := s.active
	s.mu.Unlock()

	select {
	case <-j.done:
		if j.err != nil {
			return 0, 0, j.err
		}
		return http.StatusOK, j.res, nil
	default:
		return http.StatusCreated, 0, nil
	}
}

func (s *Service) run(j *job) {
	start := time.Now()
	key := Key(j.key.challenge[:], j.key.miner[:], uint32(j.key.group), 0)
	res, err := Search(context.Background(), s.mode, key, j.key.difficulty, s.threads, s.maxNonce)
	s.jobDuration.Observe(time.Since(start).Seconds())

	s.mu.Lock()
	j.res, j.err = res, err
	if err == nil {
		s.cache[j.key] = res
	}
	s.active = nil
	s.mu.Unlock()
	close(j.done)

	switch {
	case err == nil:
		s.jobsTotal.WithLabelValues("found").Inc()
	case errors.Is(err, ErrNotFound):
		s.jobsTotal.WithLabelValues("not_found").Inc()
	default:
		s.jobsTotal.WithLabelValues("error").Inc()
	}
}

func (s *Service) lookupCache(key jobKey) (uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.cache[key]
	return v, ok
}

func parseJobPath(path string) (jobKey, error) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 4 {
		return jobKey{}, fmt.Errorf("expected 4 path segments, got %d", len(parts))
	}

	var key jobKey
	miner, err := hex.DecodeString(parts[0])
	if err != nil || len(miner) != 32 {
		return jobKey{}, fmt.Errorf("invalid miner_hex32: %v", parts[0])
	}
	copy(key.miner[:], miner)

	group, err := strconv.ParseUint(parts[1], 10, 8)
	if err != nil {
		return jobKey{}, fmt.Errorf("invalid nonce_group_u8: %v", parts[1])
	}
	key.group = uint8(group)

	challenge, err := hex.DecodeString(parts[2])
	if err != nil || len(challenge) != 8 {
		return jobKey{}, fmt.Errorf("invalid challenge_hex8: %v", parts[2])
	}
	copy(key.challenge[:], challenge)

	difficulty, err := hex.DecodeString(parts[3])
	if err != nil || len(difficulty) != 32 {
		return jobKey{}, fmt.Errorf("invalid difficulty_hex32: %v", parts[3])
	}
	copy(key.difficulty[:], difficulty)

	return key, nil
}
