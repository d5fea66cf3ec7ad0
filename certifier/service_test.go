package certifier

import (
	"bytes"
	"crypto/rand"
	"encoding/json"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/spacemeshos/postcore/config"
	"github.com/spacemeshos/postcore/shared"
)

func newTestService() *Service {
	seed := make([]byte, 32)
	_, err := rand.Read(seed)
	Expect(err).NotTo(HaveOccurred())
	signer, err := NewSigner(seed)
	Expect(err).NotTo(HaveOccurred())

	cfg := DefaultConfig()
	cfg.MaxConcurrentRequests = 2
	cfg.MaxPendingRequests = 2
	cfg.Post.K1 = 1
	cfg.Post.K2 = 1
	cfg.Post.K3 = 1
	return NewService(cfg, signer, zap.NewNop())
}

var _ = Describe("certifier HTTP service", func() {
	var svc *Service

	BeforeEach(func() {
		svc = newTestService()
	})

	Describe("GET /pubkey", func() {
		It("returns the signer's public key", func() {
			req := httptest.NewRequest("GET", "/pubkey", nil)
			rec := httptest.NewRecorder()

			svc.handlePubKey(rec, req)

			Expect(rec.Code).To(Equal(200))
			var resp pubkeyResponse
			Expect(json.NewDecoder(rec.Body).Decode(&resp)).To(Succeed())
			Expect(resp.PubKey).To(Equal([]byte(svc.signer.PublicKey())))
		})
	})

	Describe("POST /certify", func() {
		It("rejects a malformed JSON body", func() {
			req := httptest.NewRequest("POST", "/certify", bytes.NewBufferString("not json"))
			rec := httptest.NewRecorder()

			svc.handleCertify(rec, req)

			Expect(rec.Code).To(Equal(400))
		})

		It("rejects a proof with a wrong-length node_id", func() {
			body, err := json.Marshal(certifyRequest{
				NodeID: []byte("too-short"),
				Metadata: metadataWire{
					Challenge:     make([]byte, shared.ChallengeSize),
					NumUnits:      config.DefaultMinNumUnits,
					LabelsPerUnit: config.DefaultLabelsPerUnit,
				},
			})
			Expect(err).NotTo(HaveOccurred())

			req := httptest.NewRequest("POST", "/certify", bytes.NewReader(body))
			rec := httptest.NewRecorder()

			svc.handleCertify(rec, req)

			Expect(rec.Code).To(Equal(403))
			var resp errorResponse
			Expect(json.NewDecoder(rec.Body).Decode(&resp)).To(Succeed())
			Expect(resp.Error).To(ContainSubstring("node_id"))
		})

		It("sheds load once the admitter's queue is full", func() {
			// Enter returns once it holds a slot, so only MaxConcurrentRequests
			// callers can get through it here; the remaining queue places are
			// taken the way a caller still waiting for a slot holds them.
			for i := 0; i < svc.cfg.MaxConcurrentRequests; i++ {
				release, err := svc.admitter.Enter()
				Expect(err).NotTo(HaveOccurred())
				defer release()
			}
			for i := 0; i < svc.cfg.MaxPendingRequests; i++ {
				svc.admitter.queue <- struct{}{}
			}

			body, err := json.Marshal(certifyRequest{
				NodeID:   make([]byte, shared.IdentitySize),
				Metadata: metadataWire{Challenge: make([]byte, shared.ChallengeSize)},
			})
			Expect(err).NotTo(HaveOccurred())

			req := httptest.NewRequest("POST", "/certify", bytes.NewReader(body))
			rec := httptest.NewRecorder()

			svc.handleCertify(rec, req)

			Expect(rec.Code).To(Equal(503))
		})
	})
})
