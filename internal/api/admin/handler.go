package admin

import (
	"net/http"
	"time"

	"artshare-api/database"
	"artshare-api/internal/api/apierr"
	"artshare-api/internal/api/params"
	"artshare-api/internal/api/views"
	"artshare-api/internal/domain/billing"
	"artshare-api/internal/domain/gallery"

	"github.com/gin-gonic/gin"
)

type AdminPayment struct {
	views.Payment
	ClientEmail *string `json:"client_email,omitempty"`
}

type AdminStats struct {
	TotalUsers       int64   `json:"total_users"`
	TotalArts        int64   `json:"total_arts"`
	TotalComments    int64   `json:"total_comments"`
	TotalCommissions int64   `json:"total_commissions"`
	PaidCommissions  int64   `json:"paid_commissions"`
	TotalRevenue     float64 `json:"total_revenue"`
	RecentRevenue    float64 `json:"recent_revenue"`
}

// GET /admin/users
func ListAllUsers(c *gin.Context) {
	page := params.Paging(c)
	db := database.DB.WithContext(c.Request.Context())

	ids, err := gallery.PageIDs(db, &gallery.User{}, page.Offset(), page.Limit)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	out := make([]views.AdminUser, 0, len(ids))
	for _, id := range ids {
		u, err := gallery.LoadUser(db, id)
		if err != nil {
			apierr.Respond(c, err)
			return
		}
		out = append(out, views.UserAdmin(u))
	}
	c.JSON(http.StatusOK, out)
}

// GET /admin/payments
func ListAllPayments(c *gin.Context) {
	page := params.Paging(c)
	var payments []billing.Payment
	err := database.DB.WithContext(c.Request.Context()).
		Preload("Commission.Client").
		Order("created_at DESC, id DESC").
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&payments).Error
	if err != nil {
		apierr.Respond(c, err)
		return
	}

	result := make([]AdminPayment, 0, len(payments))
	for _, p := range payments {
		row := AdminPayment{Payment: views.PaymentRead(p)}
		if p.Commission != nil && p.Commission.Client != nil {
			row.ClientEmail = &p.Commission.Client.Email
		}
		result = append(result, row)
	}
	c.JSON(http.StatusOK, result)
}

// GET /admin/stats
func GetAdminStats(c *gin.Context) {
	db := database.DB.WithContext(c.Request.Context())
	var stats AdminStats

	counts := []struct {
		model any
		dst   *int64
	}{
		{&gallery.User{}, &stats.TotalUsers},
		{&gallery.Art{}, &stats.TotalArts},
		{&gallery.Comment{}, &stats.TotalComments},
		{&gallery.Commission{}, &stats.TotalCommissions},
	}
	for _, q := range counts {
		if err := db.Model(q.model).Count(q.dst).Error; err != nil {
			apierr.Respond(c, err)
			return
		}
	}
	if err := db.Model(&gallery.Commission{}).Where("paid_at IS NOT NULL").Count(&stats.PaidCommissions).Error; err != nil {
		apierr.Respond(c, err)
		return
	}

	err := db.Model(&billing.Payment{}).
		Where("status = ?", billing.StatusPaid).
		Select("COALESCE(SUM(amount_eur), 0)").
		Scan(&stats.TotalRevenue).Error
	if err != nil {
		apierr.Respond(c, err)
		return
	}

	thirtyDaysAgo := time.Now().AddDate(0, 0, -30)
	err = db.Model(&billing.Payment{}).
		Where("status = ? AND updated_at >= ?", billing.StatusPaid, thirtyDaysAgo).
		Select("COALESCE(SUM(amount_eur), 0)").
		Scan(&stats.RecentRevenue).Error
	if err != nil {
		apierr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
