package commissions

import (
	"fmt"
	"net/http"

	"artshare-api/config"
	"artshare-api/database"
	"artshare-api/internal/api/apierr"
	"artshare-api/internal/api/params"
	"artshare-api/internal/api/views"
	"artshare-api/internal/domain/billing"
	"artshare-api/internal/domain/gallery"
	stripex "artshare-api/internal/infra/stripe"

	"github.com/gin-gonic/gin"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/stripe/stripe-go/v75"
	checkoutsession "github.com/stripe/stripe-go/v75/checkout/session"
	"gorm.io/gorm"
)

// newCheckoutSession is swapped in tests.
var newCheckoutSession = checkoutsession.New

// POST /commissions/:id/checkout
func CreateCheckout(c *gin.Context) {
	userID, err := params.MustUserID(c)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	id, err := params.ID(c, "id")
	if err != nil {
		apierr.Respond(c, err)
		return
	}

	db := database.DB.WithContext(c.Request.Context())
	m, err := gallery.LoadCommission(db, id)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	if m.ClientID == nil || *m.ClientID != userID {
		apierr.Respond(c, apierr.ErrForbidden)
		return
	}
	if err := billing.EnsureUnpaid(m); err != nil {
		apierr.Respond(c, err)
		return
	}
	if m.Price <= 0 {
		apierr.Respond(c, apierr.Field("price", "price must be greater than 0 to check out"))
		return
	}

	stripe.Key = config.STRIPE_SECRET_KEY
	if stripe.Key == "" {
		apierr.Respond(c, apierr.ErrUnavailable)
		return
	}

	commissionID := fmt.Sprint(m.ID)
	s, err := newCheckoutSession(&stripe.CheckoutSessionParams{
		SuccessURL: stripe.String(config.APP_URL + "/commissions/" + commissionID + "?paid=1"),
		CancelURL:  stripe.String(config.APP_URL + "/commissions/" + commissionID + "?canceled=1"),
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(string(stripe.CurrencyEUR)),
					UnitAmount: stripe.Int64(stripex.ToMinorUnits(m.Price)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String("Commission #" + commissionID),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		ClientReferenceID: stripe.String(fmt.Sprint(userID)),
		Metadata:          map[string]string{"commission_id": commissionID},
	})
	if err != nil {
		log.Context(c.Request.Context()).Errorw("msg", "stripe checkout failed", "commission_id", m.ID, "error", err.Error())
		apierr.Respond(c, apierr.ErrUnavailable)
		return
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&billing.Payment{
			CommissionID:    m.ID,
			StripeSessionID: s.ID,
			AmountEUR:       m.Price,
			Status:          billing.StatusPending,
		}).Error
	})
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": s.URL})
}

// GET /commissions/:id/payments
func ListPayments(c *gin.Context) {
	id, err := params.ID(c, "id")
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	db := database.DB.WithContext(c.Request.Context())
	m, err := gallery.LoadCommission(db, id)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	if !m.IsParty(params.UserID(c)) && !params.IsAdmin(c) {
		apierr.Respond(c, apierr.ErrForbidden)
		return
	}

	payments, err := billing.ListForCommission(db, m.ID)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	out := make([]views.Payment, 0, len(payments))
	for _, p := range payments {
		out = append(out, views.PaymentRead(p))
	}
	c.JSON(http.StatusOK, out)
}
