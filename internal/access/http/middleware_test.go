package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	accessDomain "github.com/allisson/authz/internal/access/domain"
	apperrors "github.com/allisson/authz/internal/errors"
)

func TestIdentityMiddleware(t *testing.T) {
	logger := testLogger()
	userID := uuid.Must(uuid.NewV7())
	organizationID := uuid.Must(uuid.NewV7())

	newRouter := func(captured **Subject) *gin.Engine {
		router := gin.New()
		router.Use(IdentityMiddleware(logger))
		router.GET("/probe", func(c *gin.Context) {
			subject, ok := GetSubject(c.Request.Context())
			require.True(t, ok)
			*captured = subject
			c.Status(http.StatusOK)
		})
		return router
	}

	t.Run("Success_ValidHeaders", func(t *testing.T) {
		var captured *Subject
		router := newRouter(&captured)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/probe", nil)
		req.Header.Set(HeaderUserID, userID.String())
		req.Header.Set(HeaderOrganizationID, organizationID.String())
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, captured)
		assert.Equal(t, userID, captured.UserID)
		assert.Equal(t, organizationID, captured.OrganizationID)
	})

	t.Run("Error_MissingUserHeader", func(t *testing.T) {
		var captured *Subject
		router := newRouter(&captured)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/probe", nil)
		req.Header.Set(HeaderOrganizationID, organizationID.String())
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Nil(t, captured)
	})

	t.Run("Error_MalformedOrganizationHeader", func(t *testing.T) {
		var captured *Subject
		router := newRouter(&captured)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/probe", nil)
		req.Header.Set(HeaderUserID, userID.String())
		req.Header.Set(HeaderOrganizationID, "not-a-uuid")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Nil(t, captured)
	})
}

func TestRequireCapability(t *testing.T) {
	logger := testLogger()
	userID := uuid.Must(uuid.NewV7())
	organizationID := uuid.Must(uuid.NewV7())

	serve := func(evaluator *mockEvaluatorUseCase, withIdentity bool) *httptest.ResponseRecorder {
		router := gin.New()
		if withIdentity {
			router.Use(IdentityMiddleware(logger))
		}
		router.GET("/protected",
			RequireCapability(evaluator, "role.custom.view", accessDomain.AccessLevelView, logger),
			func(c *gin.Context) { c.Status(http.StatusOK) },
		)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		if withIdentity {
			req.Header.Set(HeaderUserID, userID.String())
			req.Header.Set(HeaderOrganizationID, organizationID.String())
		}
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("Success_CapabilityHeld", func(t *testing.T) {
		evaluator := &mockEvaluatorUseCase{}
		evaluator.On("Check", mock.Anything, userID, organizationID, "role.custom.view", accessDomain.AccessLevelView).
			Return(true, nil)

		w := serve(evaluator, true)

		assert.Equal(t, http.StatusOK, w.Code)
		evaluator.AssertExpectations(t)
	})

	t.Run("Error_CapabilityNotHeld", func(t *testing.T) {
		evaluator := &mockEvaluatorUseCase{}
		evaluator.On("Check", mock.Anything, userID, organizationID, "role.custom.view", accessDomain.AccessLevelView).
			Return(false, nil)

		w := serve(evaluator, true)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Error_EvaluatorFailureDenies", func(t *testing.T) {
		evaluator := &mockEvaluatorUseCase{}
		evaluator.On("Check", mock.Anything, userID, organizationID, "role.custom.view", accessDomain.AccessLevelView).
			Return(false, apperrors.New("db down"))

		w := serve(evaluator, true)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Error_NoSubject", func(t *testing.T) {
		evaluator := &mockEvaluatorUseCase{}

		w := serve(evaluator, false)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		evaluator.AssertNotCalled(t, "Check")
	})
}

func TestSeedTokenMiddleware(t *testing.T) {
	logger := testLogger()

	serve := func(configured, provided string) *httptest.ResponseRecorder {
		router := gin.New()
		router.POST("/seed",
			SeedTokenMiddleware(configured, logger),
			func(c *gin.Context) { c.Status(http.StatusOK) },
		)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/seed", nil)
		if provided != "" {
			req.Header.Set(HeaderSeedToken, provided)
		}
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("Success_MatchingToken", func(t *testing.T) {
		w := serve("bootstrap-token", "bootstrap-token")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Error_MismatchedToken", func(t *testing.T) {
		w := serve("bootstrap-token", "wrong-token")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Error_MissingToken", func(t *testing.T) {
		w := serve("bootstrap-token", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Error_SeedingDisabled", func(t *testing.T) {
		w := serve("", "anything")
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
