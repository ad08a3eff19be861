package Controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/firegrill/ordering-backend/controllers"
	"github.com/firegrill/ordering-backend/models"
	"github.com/firegrill/ordering-backend/utils"
)

func setupUserDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func setupUserRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.Default()
	userCtrl := controllers.NewUserController(db)
	router.POST("/register", userCtrl.Register)
	router.POST("/login", userCtrl.Login)
	return router
}

func TestRegisterAndLogin(t *testing.T) {
	utils.InitLogger()
	db := setupUserDB(t)
	router := setupUserRouter(db)

	payload := map[string]interface{}{
		"name":     "Alex Doe",
		"email":    "alex@example.com",
		"password": "supersecret1",
	}
	payloadBytes, err := json.Marshal(payload)
	assert.NoError(t, err)

	req, err := http.NewRequest("POST", "/register", bytes.NewBuffer(payloadBytes))
	assert.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)

	// Registered users always start as customers.
	var user models.User
	assert.NoError(t, db.Where("email = ?", "alex@example.com").First(&user).Error)
	assert.Equal(t, "customer", user.Role)
	assert.NotEqual(t, "supersecret1", user.Password)

	// Login returns a token.
	loginPayload := map[string]interface{}{
		"email":    "alex@example.com",
		"password": "supersecret1",
	}
	payloadBytes, _ = json.Marshal(loginPayload)
	req, _ = http.NewRequest("POST", "/login", bytes.NewBuffer(payloadBytes))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var loginResp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &loginResp))
	data, ok := loginResp["data"].(map[string]interface{})
	assert.True(t, ok)
	assert.NotEmpty(t, data["token"])
}

func TestLoginWrongPassword(t *testing.T) {
	utils.InitLogger()
	db := setupUserDB(t)
	router := setupUserRouter(db)

	payload, _ := json.Marshal(map[string]interface{}{
		"name":     "Alex Doe",
		"email":    "alex@example.com",
		"password": "supersecret1",
	})
	req, _ := http.NewRequest("POST", "/register", bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)

	payload, _ = json.Marshal(map[string]interface{}{
		"email":    "alex@example.com",
		"password": "wrongpassword",
	})
	req, _ = http.NewRequest("POST", "/login", bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	utils.InitLogger()
	db := setupUserDB(t)
	router := setupUserRouter(db)

	payload, _ := json.Marshal(map[string]interface{}{
		"name":     "Alex Doe",
		"email":    "alex@example.com",
		"password": "short",
	})
	req, _ := http.NewRequest("POST", "/register", bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
