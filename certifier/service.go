package certifier

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spacemeshos/postcore/shared"
	"github.com/spacemeshos/postcore/verifying"
)

// certifyRequest mirrors go-spacemesh's activation.CertifyRequest wire
// shape; Go's encoding/json base64-encodes []byte fields automatically,
// matching spec §6.2's "base64" requirement without extra plumbing.
type certifyRequest struct {
	NodeID   []byte       `json:"node_id"`
	Proof    proofWire    `json:"proof"`
	Metadata metadataWire `json:"metadata"`
}

type proofWire struct {
	Nonce   uint32 `json:"nonce"`
	Indices []byte `json:"indices"`
	Pow     uint64 `json:"pow"`
}

type metadataWire struct {
	Challenge     []byte `json:"challenge"`
	NumUnits      uint32 `json:"num_units"`
	LabelsPerUnit uint64 `json:"labels_per_unit"`
}

type certifyResponse struct {
	PubKey     []byte  `json:"pub_key"`
	Signature  []byte  `json:"signature"`
	Expiration *string `json:"expiration,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type pubkeyResponse struct {
	PubKey []byte `json:"pub_key"`
}

// Service is the certifier HTTP server.
type Service struct {
	cfg      Config
	signer   *Signer
	admitter *Admitter
	logger   *zap.Logger

	srv        *http.Server
	metricsSrv *http.Server

	requestsTotal   *prometheus.CounterVec
	inflightRequest prometheus.Gauge
}

// NewService constructs a certifier Service. There is no separate
// commitment ATX id: verify() uses the request's own node_id for it.
func NewService(cfg Config, signer *Signer, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	maxConcurrent := cfg.MaxConcurrentRequests
	if maxConcurrent == 0 {
		maxConcurrent = runtime.NumCPU()
	}
	s := &Service{
		cfg:      cfg,
		signer:   signer,
		admitter: NewAdmitter(maxConcurrent, cfg.MaxPendingRequests),
		logger:   logger,
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "postcore",
			Subsystem: "certifier",
			Name:      "requests_total",
			Help:      "Total /certify requests by outcome.",
		}, []string{"outcome"}),
		inflightRequest: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: "postcore",
			Subsystem: "certifier",
			Name:      "inflight_requests",
			Help:      "Number of /certify requests currently being verified.",
		}),
	}
	return s
}

// Start runs the main and metrics HTTP listeners until ctx is cancelled.
func (s *Service) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/certify", s.handleCertify)
	mux.HandleFunc("/pubkey", s.handlePubKey)
	s.srv = &http.Server{Addr: s.cfg.Addr, Handler: mux}

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	s.metricsSrv = &http.Server{Addr: s.cfg.MetricsAddr, Handler: metricsMux}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.serve(ctx, s.srv, "certifier") })
	g.Go(func() error { return s.serve(ctx, s.metricsSrv, "metrics") })
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

func (s *Service) handlePubKey(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, pubkeyResponse{PubKey: s.signer.PublicKey()})
}

func (s *Service) handleCertify(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxBodySize)
	var req certifyRequest
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request: " + err.Error()})
		return
	}

	release, err := s.admitter.Enter()
	if err != nil {
		s.requestsTotal.WithLabelValues("overloaded").Inc()
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "overloaded"})
		return
	}
	defer release()

	s.inflightRequest.Inc()
	defer s.inflightRequest.Dec()

	if err := s.verify(req); err != nil {
		s.requestsTotal.WithLabelValues("invalid").Inc()
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "Invalid: " + err.Error()})
		return
	}

	var expirationUnix *int64
	var expirationStr *string
	if s.cfg.CertificateTTL > 0 {
		exp := time.Now().Add(s.cfg.CertificateTTL)
		unix := exp.Unix()
		expirationUnix = &unix
		str := exp.UTC().Format(time.RFC3339)
		expirationStr = &str
	}

	sig := s.signer.Sign(req.NodeID, expirationUnix)
	s.requestsTotal.WithLabelValues("certified").Inc()
	writeJSON(w, http.StatusOK, certifyResponse{
		PubKey:     s.signer.PublicKey(),
		Signature:  sig,
		Expiration: expirationStr,
	})
}

func (s *Service) verify(req certifyRequest) error {
	if len(req.NodeID) != shared.IdentitySize {
		return fmt.Errorf("node_id must be %d bytes", shared.IdentitySize)
	}
	if len(req.Metadata.Challenge) != shared.ChallengeSize {
		return fmt.Errorf("challenge must be %d bytes", shared.ChallengeSize)
	}

	var challenge shared.Challenge
	copy(challenge[:], req.Metadata.Challenge)

	metadata := &shared.ProofMetadata{
		NodeId:          req.NodeID,
		CommitmentAtxId: req.NodeID, // the certifier trusts the caller's own commitment binding
		Challenge:       challenge,
		NumUnits:        req.Metadata.NumUnits,
		LabelsPerUnit:   req.Metadata.LabelsPerUnit,
		K1:              s.cfg.Post.K1,
		K2:              s.cfg.Post.K2,
	}
	proof := &shared.Proof{
		Nonce:   req.Proof.Nonce,
		Indices: req.Proof.Indices,
		Pow:     req.Proof.Pow,
	}

	k3 := s.cfg.K3
	if k3 <= 0 {
		k3 = int(s.cfg.Post.K3)
	}
	return verifying.Verify(proof, metadata, s.cfg.Post, verifying.Options{K3: k3})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		io.WriteString(w, `{"error":"encoding response"}`)
	}
}
