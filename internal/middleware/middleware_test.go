package middleware_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"emplystack/internal/domain"
	"emplystack/internal/middleware"
	"emplystack/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const testSecret = "test-secret"

type envelope struct {
	Ok    bool `json:"ok"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	assert.NoError(t, err)
	return token
}

func init() {
	gin.SetMode(gin.TestMode)
}

func TestAuthMiddleware(t *testing.T) {
	router := gin.New()
	router.GET("/me", middleware.AuthMiddleware(testSecret), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id":     c.GetString("user_id"),
			"employee_id": c.GetString("employee_id"),
			"company_id":  c.GetString("company_id"),
			"role":        c.GetString("role"),
		})
	})

	t.Run("valid token", func(t *testing.T) {
		token := signToken(t, jwt.MapClaims{
			"user_id":     "u-1",
			"employee_id": "e-1",
			"company_id":  "c-1",
			"role":        "HR",
			"exp":         time.Now().Add(time.Minute).Unix(),
		})

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var body map[string]string
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "e-1", body["employee_id"])
		assert.Equal(t, "c-1", body["company_id"])
		assert.Equal(t, "HR", body["role"])
	})

	t.Run("token from cookie", func(t *testing.T) {
		token := signToken(t, jwt.MapClaims{
			"user_id": "u-1", "employee_id": "e-1", "company_id": "c-1",
			"exp": time.Now().Add(time.Minute).Unix(),
		})

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.AddCookie(&http.Cookie{Name: "access_token", Value: token})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing token", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.False(t, decode(t, w).Ok)
	})

	t.Run("expired token", func(t *testing.T) {
		token := signToken(t, jwt.MapClaims{
			"user_id": "u-1", "employee_id": "e-1", "company_id": "c-1",
			"exp": time.Now().Add(-time.Minute).Unix(),
		})

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "token expired", decode(t, w).Error.Message)
	})

	t.Run("missing company claim", func(t *testing.T) {
		token := signToken(t, jwt.MapClaims{
			"user_id": "u-1", "employee_id": "e-1",
			"exp": time.Now().Add(time.Minute).Unix(),
		})

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

type fakeRBAC struct {
	allowed bool
	err     error
}

func (f *fakeRBAC) Enforce(req domain.EnforceRequest) (bool, error) {
	return f.allowed, f.err
}

func withIdentity(c *gin.Context) {
	c.Set("user_id", "u-1")
	c.Set("employee_id", "e-1")
	c.Set("company_id", "c-1")
	c.Next()
}

func TestRBACAuthorize(t *testing.T) {
	cases := []struct {
		name   string
		rbac   *fakeRBAC
		status int
	}{
		{"allowed", &fakeRBAC{allowed: true}, http.StatusOK},
		{"denied", &fakeRBAC{allowed: false}, http.StatusForbidden},
		{"enforcer error", &fakeRBAC{err: errors.New("boom")}, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := gin.New()
			router.GET("/payroll", withIdentity, middleware.RBACAuthorize(tc.rbac, "payroll", "read"), func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/payroll", nil))
			assert.Equal(t, tc.status, w.Code)
		})
	}
}

type fakeSubscription struct {
	active bool
	err    error
}

func (f *fakeSubscription) HasActiveSubscription(ctx context.Context, companyID string) (bool, error) {
	return f.active, f.err
}

func TestRequireActiveSubscription(t *testing.T) {
	t.Run("inactive", func(t *testing.T) {
		router := gin.New()
		router.GET("/x", withIdentity, middleware.RequireActiveSubscription(&fakeSubscription{}), func(c *gin.Context) {
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

		assert.Equal(t, http.StatusPaymentRequired, w.Code)
		assert.Equal(t, "SUBSCRIPTION_INACTIVE", decode(t, w).Error.Code)
	})

	t.Run("active", func(t *testing.T) {
		router := gin.New()
		router.GET("/x", withIdentity, middleware.RequireActiveSubscription(&fakeSubscription{active: true}), func(c *gin.Context) {
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestRateLimitByUser(t *testing.T) {
	router := gin.New()
	router.GET("/x", withIdentity, middleware.RateLimitByUser(0.001, 1), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "TOO_MANY_REQUESTS", decode(t, w).Error.Code)
}

func TestIdempotency(t *testing.T) {
	const cacheKey = "idemp:/generate:u-1:key-1"
	const lockKey = cacheKey + ":lock"

	newRouter := func(calls *int, mockHandler gin.HandlerFunc) (*gin.Engine, redismock.ClientMock) {
		rdb, mock := redismock.NewClientMock()
		router := gin.New()
		router.POST("/generate", withIdentity, middleware.Idempotency(rdb), func(c *gin.Context) {
			*calls++
			mockHandler(c)
		})
		return router, mock
	}

	post := func(router *gin.Engine) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/generate", nil)
		req.Header.Set(middleware.IdempotencyHeader, "key-1")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("first request is stored", func(t *testing.T) {
		calls := 0
		router, mock := newRouter(&calls, func(c *gin.Context) {
			c.JSON(http.StatusCreated, gin.H{"success": true})
		})

		payload, _ := json.Marshal(struct {
			Status int             `json:"status"`
			Body   json.RawMessage `json:"body"`
		}{http.StatusCreated, json.RawMessage(`{"success":true}`)})

		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(lockKey, "locked", 30*time.Second).SetVal(true)
		mock.ExpectSet(cacheKey, payload, 24*time.Hour).SetVal("OK")
		mock.ExpectDel(lockKey).SetVal(1)

		w := post(router)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, 1, calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("replay returns stored response", func(t *testing.T) {
		calls := 0
		router, mock := newRouter(&calls, func(c *gin.Context) {
			c.JSON(http.StatusCreated, gin.H{"success": true})
		})

		mock.ExpectGet(cacheKey).SetVal(`{"status":201,"body":{"success":true}}`)

		w := post(router)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "true", w.Header().Get("Idempotent-Replayed"))
		assert.JSONEq(t, `{"success":true}`, w.Body.String())
		assert.Equal(t, 0, calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("concurrent duplicate is rejected", func(t *testing.T) {
		calls := 0
		router, mock := newRouter(&calls, func(c *gin.Context) {
			c.Status(http.StatusCreated)
		})

		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(lockKey, "locked", 30*time.Second).SetVal(false)

		w := post(router)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, 0, calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("server error is not stored", func(t *testing.T) {
		calls := 0
		router, mock := newRouter(&calls, func(c *gin.Context) {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false})
		})

		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(lockKey, "locked", 30*time.Second).SetVal(true)
		mock.ExpectDel(lockKey).SetVal(1)

		w := post(router)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestContextLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)

	router := gin.New()
	router.GET("/ping", withIdentity, middleware.ContextLogger(zap.New(core)), func(c *gin.Context) {
		md := contextutil.ExtractMetadata(c.Request.Context())
		contextutil.GetLogger(c.Request.Context(), nil).Info("handled")
		c.JSON(http.StatusOK, gin.H{"request_id": md.RequestID, "company_id": md.CompanyID})
	})

	t.Run("keeps caller request id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(middleware.RequestIDHeader, "req-42")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "req-42", w.Header().Get(middleware.RequestIDHeader))
		assert.JSONEq(t, `{"request_id":"req-42","company_id":"c-1"}`, w.Body.String())

		entry := logs.TakeAll()
		if assert.Len(t, entry, 1) {
			fields := entry[0].ContextMap()
			assert.Equal(t, "req-42", fields["request_id"])
			assert.Equal(t, "u-1", fields["user_id"])
			assert.Equal(t, "c-1", fields["company_id"])
		}
	})

	t.Run("replaces oversized request id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(middleware.RequestIDHeader, strings.Repeat("x", 200))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		rid := w.Header().Get(middleware.RequestIDHeader)
		_, err := uuid.Parse(rid)
		assert.NoError(t, err)
		logs.TakeAll()
	})
}
