package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Manrrolo/carpool-backend/internal/config"
	"github.com/Manrrolo/carpool-backend/internal/middleware"
	"github.com/Manrrolo/carpool-backend/internal/models"
	"github.com/Manrrolo/carpool-backend/internal/routes"
)

var emailSeq uint64

// setupTest points config.DB at a fresh in-memory database and returns a
// router serving the full API against it.
func setupTest(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.Publication{},
		&models.Request{},
		&models.Trip{},
		&models.Review{},
		&models.Vehicle{},
	)
	if err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	config.DB = db

	return routes.SetupRouter()
}

func createUser(t *testing.T, role string) (models.User, string) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := models.User{
		FirstName: "Test",
		LastName:  role,
		Email:     fmt.Sprintf("user%d@example.com", atomic.AddUint64(&emailSeq, 1)),
		Password:  string(hash),
		Role:      role,
	}
	if err := config.DB.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}

	token, err := middleware.GenerateToken(user.ID, role)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return user, token
}

func performRequest(r http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			panic(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
}

func createPublication(t *testing.T, r http.Handler, token string, seats int) models.Publication {
	t.Helper()
	w := performRequest(r, "POST", "/createPublication", token, gin.H{
		"origin":          "Santiago",
		"destination":     "Valparaiso",
		"available_seats": seats,
		"cost":            1500,
		"departure_date":  "2026-09-01T09:00:00Z",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create publication: status %d, body %s", w.Code, w.Body.String())
	}
	var resp struct {
		Publication models.Publication `json:"publication"`
	}
	decodeBody(t, w, &resp)
	return resp.Publication
}

func createRequest(t *testing.T, r http.Handler, token string, publicationID uint) models.Request {
	t.Helper()
	w := performRequest(r, "POST", "/requests", token, gin.H{"publication_id": publicationID})
	if w.Code != http.StatusCreated {
		t.Fatalf("create request: status %d, body %s", w.Code, w.Body.String())
	}
	var request models.Request
	decodeBody(t, w, &request)
	return request
}

func acceptRequest(t *testing.T, r http.Handler, driverToken string, requestID uint) {
	t.Helper()
	w := performRequest(r, "PUT", fmt.Sprintf("/requests/status/%d", requestID), driverToken,
		gin.H{"status": "accepted"})
	if w.Code != http.StatusOK {
		t.Fatalf("accept request: status %d, body %s", w.Code, w.Body.String())
	}
}

func tripFor(t *testing.T, publicationID, userID uint) models.Trip {
	t.Helper()
	var trip models.Trip
	err := config.DB.
		Where("publication_id = ? AND user_id = ?", publicationID, userID).
		First(&trip).Error
	if err != nil {
		t.Fatalf("load trip for publication %d user %d: %v", publicationID, userID, err)
	}
	return trip
}
