package stripewebhooks

import (
	"errors"
	"fmt"
	"time"

	"artshare-api/database"
	"artshare-api/internal/domain/billing"
	stripex "artshare-api/internal/infra/stripe"

	"github.com/gin-gonic/gin"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/stripe/stripe-go/v75"
	"gorm.io/gorm"
)

// handleCheckoutSessionCompleted settles the pending payment of a session.
// Sessions we never created are acknowledged and ignored.
func handleCheckoutSessionCompleted(c *gin.Context, session *stripe.CheckoutSession) error {
	if session.ID == "" {
		return errors.New("checkout session missing id")
	}
	if stripex.NormalizeCheckoutStatus(session) != billing.StatusPaid {
		log.Context(c.Request.Context()).Infow("msg", "checkout completed without payment yet", "session", session.ID)
		return nil
	}

	paidAt := time.Now().UTC()
	err := database.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		p, err := billing.MarkCheckoutPaid(tx, session.ID, paidAt)
		if err != nil {
			return err
		}
		log.Context(c.Request.Context()).Infow("msg", "commission paid", "commission_id", p.CommissionID, "session", session.ID)
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		log.Context(c.Request.Context()).Warnw("msg", "unknown checkout session", "session", session.ID,
			"commission_id", session.Metadata["commission_id"])
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to settle checkout %s: %w", session.ID, err)
	}
	return nil
}

func handleCheckoutSessionExpired(c *gin.Context, session *stripe.CheckoutSession) error {
	err := database.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		return billing.MarkCheckoutExpired(tx, session.ID)
	})
	if err != nil {
		return fmt.Errorf("failed to expire checkout %s: %w", session.ID, err)
	}
	return nil
}
