package controllers

import (
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/firegrill/ordering-backend/models"
	"github.com/firegrill/ordering-backend/utils"
)

type AdminController struct {
	DB *gorm.DB
}

func NewAdminController(db *gorm.DB) *AdminController {
	return &AdminController{DB: db}
}

// GetDashboardStats aggregates the admin dashboard counters.
func (ac *AdminController) GetDashboardStats(c *gin.Context) {
	today := time.Now().Format("2006-01-02")

	var stats struct {
		TotalOrders  int64   `json:"total_orders"`
		TodayOrders  int64   `json:"today_orders"`
		TotalRevenue float64 `json:"total_revenue"`
		TodayRevenue float64 `json:"today_revenue"`
		OrderStats   struct {
			Pending    int64 `json:"pending"`
			Accepted   int64 `json:"accepted"`
			Processing int64 `json:"processing"`
			Completed  int64 `json:"completed"`
			Denied     int64 `json:"denied"`
			Cancelled  int64 `json:"cancelled"`
		} `json:"order_stats"`
		PointsStats struct {
			Issued   int64 `json:"issued"`
			Redeemed int64 `json:"redeemed"`
		} `json:"points_stats"`
	}

	ac.DB.Model(&models.Order{}).Count(&stats.TotalOrders)
	ac.DB.Model(&models.Order{}).Where("DATE(created_at) = ?", today).Count(&stats.TodayOrders)

	ac.DB.Model(&models.Order{}).Where("status = ?", models.OrderStatusPending).Count(&stats.OrderStats.Pending)
	ac.DB.Model(&models.Order{}).Where("status = ?", models.OrderStatusAccepted).Count(&stats.OrderStats.Accepted)
	ac.DB.Model(&models.Order{}).Where("status = ?", models.OrderStatusProcessing).Count(&stats.OrderStats.Processing)
	ac.DB.Model(&models.Order{}).Where("status = ?", models.OrderStatusCompleted).Count(&stats.OrderStats.Completed)
	ac.DB.Model(&models.Order{}).Where("status = ?", models.OrderStatusDenied).Count(&stats.OrderStats.Denied)
	ac.DB.Model(&models.Order{}).Where("status = ?", models.OrderStatusCancelled).Count(&stats.OrderStats.Cancelled)

	// Revenue counts only settled card payments and completed cash orders.
	revenueFilter := "payment_status = ? OR (payment_status = ? AND status = ?)"
	ac.DB.Model(&models.Order{}).
		Where(revenueFilter, models.PaymentStatusPaid, models.PaymentStatusCashOnDelivery, models.OrderStatusCompleted).
		Select("COALESCE(SUM(order_total), 0)").Row().Scan(&stats.TotalRevenue)
	ac.DB.Model(&models.Order{}).
		Where("DATE(created_at) = ?", today).
		Where(revenueFilter, models.PaymentStatusPaid, models.PaymentStatusCashOnDelivery, models.OrderStatusCompleted).
		Select("COALESCE(SUM(order_total), 0)").Row().Scan(&stats.TodayRevenue)

	ac.DB.Model(&models.PointsEntry{}).
		Select("COALESCE(SUM(points_earned), 0)").Row().Scan(&stats.PointsStats.Issued)
	ac.DB.Model(&models.PointsEntry{}).
		Select("COALESCE(SUM(points_spent), 0)").Row().Scan(&stats.PointsStats.Redeemed)

	utils.RespondJSON(c, http.StatusOK, "Dashboard stats retrieved successfully", stats)
}

// GetSalesReport summarizes sales and ranks the top selling items. Item
// quantities come out of each order's line snapshot.
func (ac *AdminController) GetSalesReport(c *gin.Context) {
	var sales struct {
		TotalSales   float64 `json:"total_sales"`
		TotalOrders  int64   `json:"total_orders"`
		AverageOrder float64 `json:"average_order"`
		RevenueByDay []struct {
			Day     string  `json:"day"`
			Revenue float64 `json:"revenue"`
		} `json:"revenue_by_day"`
		TopItems []struct {
			MenuItemID uint    `json:"menu_item_id"`
			Name       string  `json:"name"`
			Quantity   int     `json:"quantity"`
			Revenue    float64 `json:"revenue"`
		} `json:"top_selling_items"`
	}

	ac.DB.Model(&models.Order{}).
		Where("status = ?", models.OrderStatusCompleted).
		Select("COALESCE(SUM(order_total), 0)").Row().Scan(&sales.TotalSales)
	ac.DB.Model(&models.Order{}).
		Where("status = ?", models.OrderStatusCompleted).
		Count(&sales.TotalOrders)

	if sales.TotalOrders > 0 {
		sales.AverageOrder = utils.RoundCurrency(sales.TotalSales / float64(sales.TotalOrders))
	}

	// Last 30 days of completed-order revenue, for the dashboard chart.
	ac.DB.Model(&models.Order{}).
		Where("status = ? AND created_at >= ?", models.OrderStatusCompleted, time.Now().AddDate(0, 0, -30)).
		Select("DATE(created_at) as day, COALESCE(SUM(order_total), 0) as revenue").
		Group("DATE(created_at)").
		Order("day ASC").
		Scan(&sales.RevenueByDay)

	var completed []models.Order
	if err := ac.DB.Where("status = ?", models.OrderStatusCompleted).Find(&completed).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	type itemTally struct {
		name     string
		quantity int
		revenue  float64
	}
	tally := make(map[uint]*itemTally)
	for _, order := range completed {
		lines, err := order.Snapshot()
		if err != nil {
			continue
		}
		for _, line := range lines {
			t, ok := tally[line.MenuItemID]
			if !ok {
				t = &itemTally{name: line.Name}
				tally[line.MenuItemID] = t
			}
			t.quantity += line.Quantity
			t.revenue += line.Price * float64(line.Quantity)
		}
	}

	for id, t := range tally {
		sales.TopItems = append(sales.TopItems, struct {
			MenuItemID uint    `json:"menu_item_id"`
			Name       string  `json:"name"`
			Quantity   int     `json:"quantity"`
			Revenue    float64 `json:"revenue"`
		}{
			MenuItemID: id,
			Name:       t.name,
			Quantity:   t.quantity,
			Revenue:    utils.RoundCurrency(t.revenue),
		})
	}
	sort.Slice(sales.TopItems, func(i, j int) bool {
		return sales.TopItems[i].Quantity > sales.TopItems[j].Quantity
	})
	if len(sales.TopItems) > 10 {
		sales.TopItems = sales.TopItems[:10]
	}

	utils.RespondJSON(c, http.StatusOK, "Sales report", sales)
}

// GetOrderFlow returns the orders waiting on staff action plus the most
// recent activity, for the admin order board.
func (ac *AdminController) GetOrderFlow(c *gin.Context) {
	var flow struct {
		PendingOrders []models.Order `json:"pending_orders"`
		ActiveOrders  []models.Order `json:"active_orders"`
		RecentOrders  []models.Order `json:"recent_orders"`
	}

	ac.DB.Where("status = ?", models.OrderStatusPending).
		Order("created_at ASC").
		Find(&flow.PendingOrders)
	ac.DB.Where("status IN ?", []string{models.OrderStatusAccepted, models.OrderStatusProcessing}).
		Order("created_at ASC").
		Find(&flow.ActiveOrders)
	ac.DB.Order("created_at DESC").Limit(10).Find(&flow.RecentOrders)

	utils.RespondJSON(c, http.StatusOK, "Order flow status", flow)
}
