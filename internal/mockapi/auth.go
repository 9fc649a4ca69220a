package mockapi

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/enzomar/agrinote/pkg/logger"
)

// LoginRequest carries the operator credentials
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login issues a bearer token. The mock API accepts any non-empty
// credentials; it exists to exercise the auth path, not to secure anything.
func (s *Server) Login(c echo.Context) error {
	log := logger.FromEcho(c)

	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request data",
		})
	}
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{
			"error": "Missing credentials",
		})
	}

	token, err := s.jwt.GenerateToken(req.Email, s.farm.ID, "operator")
	if err != nil {
		log.Error("Failed to generate token", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to generate token",
		})
	}

	log.Info("Operator logged in", zap.String("email", req.Email))
	return c.JSON(http.StatusOK, echo.Map{
		"token": token,
	})
}

// AuthMiddleware validates the bearer token on every API request
func (s *Server) AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		log := logger.FromEcho(c)

		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			log.Warn("Missing authorization header")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Missing authorization header"})
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			log.Warn("Invalid authorization header format")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid authorization header format"})
		}

		claims, err := s.jwt.ValidateToken(parts[1])
		if err != nil {
			log.Warn("Invalid or expired token", zap.Error(err))
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid or expired token"})
		}

		c.Set("claims", claims)
		return next(c)
	}
}

// RequestIDMiddleware adds a unique request ID to each request
func RequestIDMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requestID := c.Request().Header.Get("X-Request-ID")
			if requestID == "" {
				requestID = uuid.New().String()
				c.Request().Header.Set("X-Request-ID", requestID)
			}

			// Add request ID to response header
			c.Response().Header().Set("X-Request-ID", requestID)

			// Update logger context with request ID
			ctxLogger := logger.GetLogger().With(zap.String("request_id", requestID))
			c.Set("logger", ctxLogger)

			return next(c)
		}
	}
}
