package http

import (
	"crypto/subtle"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	accessDomain "github.com/allisson/authz/internal/access/domain"
	accessUseCase "github.com/allisson/authz/internal/access/usecase"
	apperrors "github.com/allisson/authz/internal/errors"
	"github.com/allisson/authz/internal/httputil"
)

// Gateway identity headers. The upstream gateway authenticates the user and
// injects these on every proxied request.
const (
	HeaderUserID         = "X-User-Id"
	HeaderOrganizationID = "X-Organization-Id"
	HeaderSeedToken      = "X-Seed-Token"
)

// IdentityMiddleware parses the gateway identity headers into a Subject and
// stores it in the request context.
//
// Error handling:
//   - Missing X-User-Id or X-Organization-Id header → 401 Unauthorized
//   - Malformed UUID in either header → 401 Unauthorized
//
// Usage:
//
//	router.Use(IdentityMiddleware(logger))
//	router.GET("/protected", func(c *gin.Context) {
//	    subject, ok := GetSubject(c.Request.Context())
//	    ...
//	})
func IdentityMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := uuid.Parse(c.GetHeader(HeaderUserID))
		if err != nil {
			logger.Debug("identity failed: missing or malformed user id header")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		organizationID, err := uuid.Parse(c.GetHeader(HeaderOrganizationID))
		if err != nil {
			logger.Debug("identity failed: missing or malformed organization id header",
				slog.String("user_id", userID.String()))
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		ctx := WithSubject(c.Request.Context(), &Subject{
			UserID:         userID,
			OrganizationID: organizationID,
		})
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RequireCapability guards a route with a capability check against the
// evaluator. It must be used after IdentityMiddleware.
//
// The check is fail-closed: an evaluator error denies the request the same
// way a negative answer does.
//
// Error handling:
//   - No subject in context → 401 Unauthorized (IdentityMiddleware not run)
//   - Evaluator error → 403 Forbidden
//   - Capability not held at the required level → 403 Forbidden
//
// Usage:
//
//	router.POST("/v1/custom-roles",
//	    RequireCapability(evaluator, "role.custom.create", accessDomain.AccessLevelFull, logger),
//	    handler.CreateHandler)
func RequireCapability(
	evaluator accessUseCase.EvaluatorUseCase,
	capabilityKey string,
	required accessDomain.AccessLevel,
	logger *slog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		subject, ok := GetSubject(c.Request.Context())
		if !ok || subject == nil {
			logger.Debug("authorization failed: no subject in context")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		allowed, err := evaluator.Check(
			c.Request.Context(),
			subject.UserID,
			subject.OrganizationID,
			capabilityKey,
			required,
		)
		if err != nil {
			logger.Error("authorization failed: evaluator error",
				slog.String("user_id", subject.UserID.String()),
				slog.String("capability_key", capabilityKey),
				slog.Any("error", err))
			httputil.HandleErrorGin(c, apperrors.ErrForbidden, logger)
			c.Abort()
			return
		}

		if !allowed {
			logger.Debug("authorization failed: capability not held",
				slog.String("user_id", subject.UserID.String()),
				slog.String("organization_id", subject.OrganizationID.String()),
				slog.String("capability_key", capabilityKey),
				slog.String("required_level", required.String()))
			httputil.HandleErrorGin(c, apperrors.ErrForbidden, logger)
			c.Abort()
			return
		}

		c.Next()
	}
}

// SeedTokenMiddleware guards the bootstrap seed endpoints with a static
// token instead of a capability check. Seeding must work on an empty
// database, before any role or grant exists.
//
// Error handling:
//   - Empty configured token → 403 Forbidden (seeding over HTTP disabled)
//   - Missing or mismatched X-Seed-Token header → 401 Unauthorized
func SeedTokenMiddleware(seedToken string, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if seedToken == "" {
			logger.Debug("seed request rejected: no seed token configured")
			httputil.HandleErrorGin(c, apperrors.ErrForbidden, logger)
			c.Abort()
			return
		}

		provided := c.GetHeader(HeaderSeedToken)
		if subtle.ConstantTimeCompare([]byte(provided), []byte(seedToken)) != 1 {
			logger.Debug("seed request rejected: invalid seed token")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		c.Next()
	}
}
