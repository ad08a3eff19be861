package Controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/firegrill/ordering-backend/controllers"
	"github.com/firegrill/ordering-backend/models"
	"github.com/firegrill/ordering-backend/utils"
)

func setupOrderDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	if err := db.AutoMigrate(&models.Order{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

// asUser stands in for the auth middleware.
func asUser(userID uint, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("role", role)
		c.Next()
	}
}

func setupOrderRouter(db *gorm.DB, userID uint, role string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.Default()
	orderCtrl := controllers.NewOrderController(db)

	authed := router.Group("/", asUser(userID, role))
	authed.GET("/my-orders", orderCtrl.GetMyOrders)
	authed.GET("/orders/:order_id", orderCtrl.GetOrderByID)
	authed.GET("/admin/orders", orderCtrl.GetAllOrders)
	authed.PATCH("/admin/orders/:order_id/status", orderCtrl.UpdateOrderStatus)
	authed.PATCH("/admin/orders/:order_id/payment-status", orderCtrl.UpdatePaymentStatus)
	return router
}

func seedOrder(t *testing.T, db *gorm.DB, userID *uint, status string) models.Order {
	t.Helper()
	order := models.Order{
		UserID:        userID,
		OrderType:     models.OrderTypePickup,
		Status:        status,
		PaymentStatus: models.PaymentStatusCashOnDelivery,
		Subtotal:      20.00,
		OrderTotal:    20.00,
		FullName:      "Alex Doe",
		Phone:         "555-0101",
	}
	assert.NoError(t, db.Create(&order).Error)
	return order
}

func TestGetMyOrdersScopedToUser(t *testing.T) {
	utils.InitLogger()
	db := setupOrderDB(t)

	u1, u2 := uint(1), uint(2)
	seedOrder(t, db, &u1, models.OrderStatusPending)
	seedOrder(t, db, &u2, models.OrderStatusPending)

	router := setupOrderRouter(db, 1, "customer")
	req, _ := http.NewRequest("GET", "/my-orders", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	orders := resp["data"].([]interface{})
	assert.Len(t, orders, 1)
}

func TestCustomerCannotReadForeignOrder(t *testing.T) {
	utils.InitLogger()
	db := setupOrderDB(t)

	u2 := uint(2)
	order := seedOrder(t, db, &u2, models.OrderStatusPending)

	router := setupOrderRouter(db, 1, "customer")
	req, _ := http.NewRequest("GET", "/orders/"+itoa(order.ID), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Admin may read any order.
	adminRouter := setupOrderRouter(db, 9, "admin")
	req, _ = http.NewRequest("GET", "/orders/"+itoa(order.ID), nil)
	w = httptest.NewRecorder()
	adminRouter.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// Guest orders carry no owner and stay readable for the success view.
	guestOrder := seedOrder(t, db, nil, models.OrderStatusPending)
	req, _ = http.NewRequest("GET", "/orders/"+itoa(guestOrder.ID), nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUpdateOrderStatusTransitions(t *testing.T) {
	utils.InitLogger()
	db := setupOrderDB(t)
	order := seedOrder(t, db, nil, models.OrderStatusPending)
	router := setupOrderRouter(db, 9, "admin")

	patchStatus := func(status string) *httptest.ResponseRecorder {
		payload, _ := json.Marshal(map[string]string{"status": status})
		req, _ := http.NewRequest("PATCH", "/admin/orders/"+itoa(order.ID)+"/status", bytes.NewBuffer(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	// pending -> completed skips processing and is rejected.
	assert.Equal(t, http.StatusConflict, patchStatus(models.OrderStatusCompleted).Code)

	assert.Equal(t, http.StatusOK, patchStatus(models.OrderStatusAccepted).Code)
	assert.Equal(t, http.StatusOK, patchStatus(models.OrderStatusProcessing).Code)
	assert.Equal(t, http.StatusOK, patchStatus(models.OrderStatusCompleted).Code)

	// completed is terminal.
	assert.Equal(t, http.StatusConflict, patchStatus(models.OrderStatusCancelled).Code)

	var reloaded models.Order
	assert.NoError(t, db.First(&reloaded, order.ID).Error)
	assert.Equal(t, models.OrderStatusCompleted, reloaded.Status)
}

func TestUpdatePaymentStatus(t *testing.T) {
	utils.InitLogger()
	db := setupOrderDB(t)
	order := seedOrder(t, db, nil, models.OrderStatusCompleted)
	router := setupOrderRouter(db, 9, "admin")

	payload, _ := json.Marshal(map[string]string{"payment_status": "paid"})
	req, _ := http.NewRequest("PATCH", "/admin/orders/"+itoa(order.ID)+"/payment-status", bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	payload, _ = json.Marshal(map[string]string{"payment_status": "refunded"})
	req, _ = http.NewRequest("PATCH", "/admin/orders/"+itoa(order.ID)+"/payment-status", bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func itoa(id uint) string {
	return strconv.Itoa(int(id))
}
