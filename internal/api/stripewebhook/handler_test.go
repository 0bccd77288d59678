package stripewebhooks

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"artshare-api/config"
	"artshare-api/internal/domain/billing"
	"artshare-api/internal/domain/gallery"
	"artshare-api/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

const webhookSecret = "whsec_test"

type WebhookSuite struct {
	suite.Suite
	db         *gorm.DB
	router     *gin.Engine
	commission *gallery.Commission
}

func (s *WebhookSuite) SetupTest() {
	s.db = testutil.SetupTestDB(s.T())
	prev := config.STRIPE_WEBHOOK_SECRET
	config.STRIPE_WEBHOOK_SECRET = webhookSecret
	s.T().Cleanup(func() { config.STRIPE_WEBHOOK_SECRET = prev })

	client := testutil.CreateUser(s.T(), s.db, "client@x.io", "Client")
	s.commission = &gallery.Commission{Details: "fox", Price: 30}
	client.AddClientCommission(s.commission)
	s.Require().NoError(gallery.CreateCommission(s.db, s.commission))
	s.Require().NoError(s.db.Create(&billing.Payment{
		CommissionID:    s.commission.ID,
		StripeSessionID: "cs_test_1",
		AmountEUR:       30,
		Status:          billing.StatusPending,
	}).Error)

	s.router = gin.New()
	s.router.POST("/webhook", StripeWebhook)
}

func TestWebhookSuite(t *testing.T) {
	suite.Run(t, new(WebhookSuite))
}

func event(typ, sessionID, paymentStatus string) string {
	return fmt.Sprintf(`{"id":"evt_1","object":"event","type":%q,"data":{"object":{"id":%q,"object":"checkout.session","payment_status":%q,"metadata":{}}}}`,
		typ, sessionID, paymentStatus)
}

func (s *WebhookSuite) send(payload, secret string) *httptest.ResponseRecorder {
	ts := time.Now().Unix()
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", ts, payload)
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Stripe-Signature", fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil))))
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *WebhookSuite) paidAt() *time.Time {
	var m gallery.Commission
	s.Require().NoError(s.db.First(&m, s.commission.ID).Error)
	return m.PaidAt
}

func (s *WebhookSuite) status() string {
	var p billing.Payment
	s.Require().NoError(s.db.Where("stripe_session_id = ?", "cs_test_1").First(&p).Error)
	return p.Status
}

func (s *WebhookSuite) TestCompletedMarksPaidOnce() {
	w := s.send(event("checkout.session.completed", "cs_test_1", "paid"), webhookSecret)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	s.Equal(billing.StatusPaid, s.status())
	first := s.paidAt()
	s.Require().NotNil(first)

	w = s.send(event("checkout.session.completed", "cs_test_1", "paid"), webhookSecret)
	s.Require().Equal(http.StatusOK, w.Code)
	second := s.paidAt()
	s.Require().NotNil(second)
	s.True(first.Equal(*second))
}

func (s *WebhookSuite) TestCompletedWithoutPaymentWaits() {
	w := s.send(event("checkout.session.completed", "cs_test_1", "unpaid"), webhookSecret)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal(billing.StatusPending, s.status())
	s.Nil(s.paidAt())
}

func (s *WebhookSuite) TestUnknownSessionAcknowledged() {
	w := s.send(event("checkout.session.completed", "cs_other", "paid"), webhookSecret)
	s.Equal(http.StatusOK, w.Code)
	s.Nil(s.paidAt())
}

func (s *WebhookSuite) TestExpiredSession() {
	w := s.send(event("checkout.session.expired", "cs_test_1", "unpaid"), webhookSecret)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal(billing.StatusExpired, s.status())
}

func (s *WebhookSuite) TestBadSignatureRejected() {
	w := s.send(event("checkout.session.completed", "cs_test_1", "paid"), "whsec_wrong")
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal(billing.StatusPending, s.status())
}

func (s *WebhookSuite) TestOtherEventsIgnored() {
	w := s.send(`{"id":"evt_2","object":"event","type":"invoice.paid","data":{"object":{}}}`, webhookSecret)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), "ignored")
}

func (s *WebhookSuite) TestMissingSecret() {
	config.STRIPE_WEBHOOK_SECRET = ""
	w := s.send(event("checkout.session.completed", "cs_test_1", "paid"), webhookSecret)
	s.Equal(http.StatusServiceUnavailable, w.Code)
}
