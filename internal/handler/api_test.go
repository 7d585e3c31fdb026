package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hibro/config"
	"hibro/internal/auth"
	"hibro/internal/middleware"
	"hibro/internal/models"
	"hibro/internal/repository"
	"hibro/internal/service"
	"hibro/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testJWT = config.JWTConfig{
	AccessSecret:  "test-secret-key",
	RefreshSecret: "test-refresh-key",
	AccessExpiry:  time.Hour,
	RefreshExpiry: 24 * time.Hour,
	Issuer:        "hibro-test",
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.TravelPost{},
		&models.BuddyRequest{},
		&models.Favorite{},
		&models.Notification{},
	))
	return db
}

// setupAPI wires the API surface against an in-memory database, the
// same way router.Setup does in production.
func setupAPI(t *testing.T, db *gorm.DB) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{JWT: testJWT}
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	requestRepo := repository.NewRequestRepository(db)
	favRepo := repository.NewFavoriteRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	authSvc := service.NewAuthService(cfg, userRepo)
	matchingSvc := service.NewMatchingService(db)
	notifSvc := service.NewNotificationService(notificationRepo, ws.NewHub())

	authHandler := NewAuthHandler(authSvc)
	postHandler := NewPostHandler(postRepo, requestRepo, userRepo, matchingSvc)
	requestHandler := NewRequestHandler(requestRepo, postRepo, userRepo, matchingSvc, notifSvc)
	favoriteHandler := NewFavoriteHandler(favRepo, postRepo)
	notificationHandler := NewNotificationHandler(notificationRepo)

	r := gin.New()
	authMw := middleware.AuthRequired(&cfg.JWT)
	api := r.Group("/api/v1")
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.GET("/travel-posts", postHandler.List)
	api.GET("/travel-posts/:id", postHandler.Get)

	authed := api.Group("", authMw)
	authed.POST("/travel-posts", postHandler.Create)
	authed.PUT("/travel-posts/:id", postHandler.Update)
	authed.DELETE("/travel-posts/:id", postHandler.Delete)
	authed.POST("/travel-posts/:id/requests", requestHandler.Create)
	authed.GET("/travel-posts/:id/requests", requestHandler.ListForPost)
	authed.GET("/requests", requestHandler.ListPending)
	authed.POST("/requests/:id/accept", requestHandler.Accept)
	authed.POST("/requests/:id/reject", requestHandler.Reject)
	authed.POST("/travel-posts/:id/favorite", favoriteHandler.Add)
	authed.DELETE("/travel-posts/:id/favorite", favoriteHandler.Remove)
	authed.GET("/me/favorites", favoriteHandler.List)
	authed.GET("/me/notifications", notificationHandler.List)
	return r
}

func createUser(t *testing.T, db *gorm.DB, name string) (*models.User, string) {
	t.Helper()
	u := &models.User{Username: name, Email: name + "@example.com"}
	require.NoError(t, db.Create(u).Error)
	token, err := auth.GenerateAccessToken(&testJWT, u.ID, u.Email)
	require.NoError(t, err)
	return u, token
}

func doJSON(r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
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

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&out))
	return out
}

func TestRegisterAndLogin(t *testing.T) {
	db := setupTestDB(t)
	r := setupAPI(t, db)

	w := doJSON(r, "POST", "/api/v1/auth/register", "", map[string]string{
		"email":    "sam@example.com",
		"username": "sam",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	resp := decode(t, w)
	assert.NotEmpty(t, resp["access_token"])
	assert.NotEmpty(t, resp["refresh_token"])

	t.Run("duplicate email conflicts", func(t *testing.T) {
		w := doJSON(r, "POST", "/api/v1/auth/register", "", map[string]string{
			"email":    "sam@example.com",
			"username": "sam2",
			"password": "password123",
		})
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("login", func(t *testing.T) {
		w := doJSON(r, "POST", "/api/v1/auth/login", "", map[string]string{
			"email":    "sam@example.com",
			"password": "password123",
		})
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("wrong password", func(t *testing.T) {
		w := doJSON(r, "POST", "/api/v1/auth/login", "", map[string]string{
			"email":    "sam@example.com",
			"password": "nope-nope-nope",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestPostEndpoints(t *testing.T) {
	db := setupTestDB(t)
	r := setupAPI(t, db)
	_, token := createUser(t, db, "owner")

	validBody := map[string]any{
		"destination": "Torres del Paine",
		"start_date":  "2026-11-01T00:00:00Z",
		"end_date":    "2026-11-12T00:00:00Z",
		"buddy_preference": "hiking,camping",
	}

	t.Run("create requires auth", func(t *testing.T) {
		w := doJSON(r, "POST", "/api/v1/travel-posts", "", validBody)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	w := doJSON(r, "POST", "/api/v1/travel-posts", token, validBody)
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode(t, w)
	postID := uint(created["id"].(float64))
	assert.Equal(t, false, created["buddy_found"])
	assert.Nil(t, created["buddy_id"])

	t.Run("bad dates are a 400", func(t *testing.T) {
		bad := map[string]any{
			"destination": "Nowhere",
			"start_date":  "2026-11-12T00:00:00Z",
			"end_date":    "2026-11-01T00:00:00Z",
		}
		w := doJSON(r, "POST", "/api/v1/travel-posts", token, bad)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("get", func(t *testing.T) {
		w := doJSON(r, "GET", fmt.Sprintf("/api/v1/travel-posts/%d", postID), "", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("get missing is a 404", func(t *testing.T) {
		w := doJSON(r, "GET", "/api/v1/travel-posts/9999", "", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("list with destination filter", func(t *testing.T) {
		w := doJSON(r, "GET", "/api/v1/travel-posts?destination=torres", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		resp := decode(t, w)
		assert.Len(t, resp["posts"], 1)
	})

	t.Run("only the creator may delete", func(t *testing.T) {
		_, otherToken := createUser(t, db, "stranger")
		w := doJSON(r, "DELETE", fmt.Sprintf("/api/v1/travel-posts/%d", postID), otherToken, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("delete", func(t *testing.T) {
		w := doJSON(r, "DELETE", fmt.Sprintf("/api/v1/travel-posts/%d", postID), token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		w = doJSON(r, "GET", fmt.Sprintf("/api/v1/travel-posts/%d", postID), "", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestBuddyRequestFlow(t *testing.T) {
	db := setupTestDB(t)
	r := setupAPI(t, db)
	_, ownerToken := createUser(t, db, "owner")
	alice, aliceToken := createUser(t, db, "alice")
	_, bobToken := createUser(t, db, "bob")

	w := doJSON(r, "POST", "/api/v1/travel-posts", ownerToken, map[string]any{
		"destination": "Annapurna",
		"start_date":  "2027-03-01T00:00:00Z",
		"end_date":    "2027-03-20T00:00:00Z",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	postID := uint(decode(t, w)["id"].(float64))

	w = doJSON(r, "POST", fmt.Sprintf("/api/v1/travel-posts/%d/requests", postID), aliceToken,
		map[string]string{"message": "trail legs ready"})
	require.Equal(t, http.StatusCreated, w.Code)
	aliceReqID := uint(decode(t, w)["id"].(float64))

	w = doJSON(r, "POST", fmt.Sprintf("/api/v1/travel-posts/%d/requests", postID), bobToken, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	bobReqID := uint(decode(t, w)["id"].(float64))

	t.Run("duplicate request conflicts", func(t *testing.T) {
		w := doJSON(r, "POST", fmt.Sprintf("/api/v1/travel-posts/%d/requests", postID), aliceToken, nil)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("owner cannot request own post", func(t *testing.T) {
		w := doJSON(r, "POST", fmt.Sprintf("/api/v1/travel-posts/%d/requests", postID), ownerToken, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("pending list shows context", func(t *testing.T) {
		w := doJSON(r, "GET", "/api/v1/requests", ownerToken, nil)
		require.Equal(t, http.StatusOK, w.Code)
		resp := decode(t, w)
		assert.Len(t, resp["requests"], 2)
	})

	t.Run("only the owner may accept", func(t *testing.T) {
		w := doJSON(r, "POST", fmt.Sprintf("/api/v1/requests/%d/accept", aliceReqID), bobToken, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("accept matches the post and rejects the rest", func(t *testing.T) {
		w := doJSON(r, "POST", fmt.Sprintf("/api/v1/requests/%d/accept", aliceReqID), ownerToken, nil)
		require.Equal(t, http.StatusOK, w.Code)
		resp := decode(t, w)

		post := resp["post"].(map[string]any)
		assert.Equal(t, true, post["buddy_found"])
		assert.Equal(t, float64(alice.ID), post["buddy_id"])
		rejected := resp["rejected_ids"].([]any)
		require.Len(t, rejected, 1)
		assert.Equal(t, float64(bobReqID), rejected[0])
	})

	t.Run("accept is not repeatable", func(t *testing.T) {
		w := doJSON(r, "POST", fmt.Sprintf("/api/v1/requests/%d/accept", bobReqID), ownerToken, nil)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("losers were notified", func(t *testing.T) {
		w := doJSON(r, "GET", "/api/v1/me/notifications", bobToken, nil)
		require.Equal(t, http.StatusOK, w.Code)
		resp := decode(t, w)
		assert.NotEmpty(t, resp["notifications"])
	})

	t.Run("requesting a matched post conflicts", func(t *testing.T) {
		_, carolToken := createUser(t, db, "carol")
		w := doJSON(r, "POST", fmt.Sprintf("/api/v1/travel-posts/%d/requests", postID), carolToken, nil)
		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestRejectEndpoint(t *testing.T) {
	db := setupTestDB(t)
	r := setupAPI(t, db)
	_, ownerToken := createUser(t, db, "owner")
	_, aliceToken := createUser(t, db, "alice")

	w := doJSON(r, "POST", "/api/v1/travel-posts", ownerToken, map[string]any{
		"destination": "Sapa",
		"start_date":  "2026-12-01T00:00:00Z",
		"end_date":    "2026-12-08T00:00:00Z",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	postID := uint(decode(t, w)["id"].(float64))

	w = doJSON(r, "POST", fmt.Sprintf("/api/v1/travel-posts/%d/requests", postID), aliceToken, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	reqID := uint(decode(t, w)["id"].(float64))

	w = doJSON(r, "POST", fmt.Sprintf("/api/v1/requests/%d/reject", reqID), ownerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	t.Run("post stays open", func(t *testing.T) {
		w := doJSON(r, "GET", fmt.Sprintf("/api/v1/travel-posts/%d", postID), "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		post := decode(t, w)["post"].(map[string]any)
		assert.Equal(t, false, post["buddy_found"])
	})

	t.Run("reject twice conflicts", func(t *testing.T) {
		w := doJSON(r, "POST", fmt.Sprintf("/api/v1/requests/%d/reject", reqID), ownerToken, nil)
		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestFavoriteEndpoints(t *testing.T) {
	db := setupTestDB(t)
	r := setupAPI(t, db)
	_, ownerToken := createUser(t, db, "owner")
	_, aliceToken := createUser(t, db, "alice")

	w := doJSON(r, "POST", "/api/v1/travel-posts", ownerToken, map[string]any{
		"destination": "Faroe Islands",
		"start_date":  "2027-06-01T00:00:00Z",
		"end_date":    "2027-06-10T00:00:00Z",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	postID := uint(decode(t, w)["id"].(float64))

	w = doJSON(r, "POST", fmt.Sprintf("/api/v1/travel-posts/%d/favorite", postID), aliceToken, nil)
	assert.Equal(t, http.StatusCreated, w.Code)

	t.Run("favoriting twice is idempotent", func(t *testing.T) {
		w := doJSON(r, "POST", fmt.Sprintf("/api/v1/travel-posts/%d/favorite", postID), aliceToken, nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("favorite of a missing post is a 404", func(t *testing.T) {
		w := doJSON(r, "POST", "/api/v1/travel-posts/9999/favorite", aliceToken, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("list", func(t *testing.T) {
		w := doJSON(r, "GET", "/api/v1/me/favorites", aliceToken, nil)
		require.Equal(t, http.StatusOK, w.Code)
		resp := decode(t, w)
		assert.Len(t, resp["favorites"], 1)
	})

	t.Run("remove then favorite again", func(t *testing.T) {
		w := doJSON(r, "DELETE", fmt.Sprintf("/api/v1/travel-posts/%d/favorite", postID), aliceToken, nil)
		require.Equal(t, http.StatusOK, w.Code)
		w = doJSON(r, "POST", fmt.Sprintf("/api/v1/travel-posts/%d/favorite", postID), aliceToken, nil)
		assert.Equal(t, http.StatusCreated, w.Code)
	})
}
