package router

import (
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"ballotbox/docs"
	"ballotbox/internal/auth"
	"ballotbox/internal/config"
	apperrors "ballotbox/internal/errors"
	"ballotbox/internal/handler"
	"ballotbox/internal/model"
)

// Handlers groups the HTTP handlers the router mounts.
type Handlers struct {
	Auth     *handler.AuthHandler
	User     *handler.UserHandler
	Election *handler.ElectionHandler
	Stats    *handler.StatsHandler
}

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	jwtService *auth.JWTService,
	tokenStore auth.TokenStoreInterface,
	h Handlers,
) {
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Add validator
	e.Validator = NewValidator()

	if cfg.SwaggerHost != "" {
		host := strings.TrimPrefix(cfg.SwaggerHost, "https://")
		docs.SwaggerInfo.Host = strings.TrimPrefix(host, "http://")
	}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", h.Auth.Register)
	api.POST("/auth/login", h.Auth.Login)
	api.POST("/auth/refresh", h.Auth.Refresh)

	// Secured routes (require JWT authentication)
	secured := api.Group("", JWTMiddleware(jwtService, tokenStore))

	adminOnly := RequireRole(model.RoleAdmin)
	voterOnly := RequireRole(model.RoleVoter)

	secured.POST("/auth/logout", h.Auth.Logout)

	// User routes
	secured.GET("/users", h.User.ListUsers, adminOnly)
	secured.GET("/users/candidates", h.User.ListCandidates)
	secured.GET("/users/profile", h.User.GetProfile)
	secured.PUT("/users/profile", h.User.UpdateProfile)

	// Election routes
	secured.GET("/elections", h.Election.ListElections)
	secured.POST("/elections", h.Election.CreateElection, adminOnly)
	secured.GET("/elections/:id", h.Election.GetElection)
	secured.POST("/elections/:id/candidates", h.Election.AddCandidates, adminOnly)
	secured.POST("/elections/:id/vote", h.Election.CastVote, voterOnly)
	secured.GET("/elections/:id/results", h.Election.GetResults, adminOnly)
	secured.GET("/elections/:id/ballots", h.Election.GetBallotLog, adminOnly)

	// Stats routes
	secured.GET("/stats", h.Stats.GetStats, adminOnly)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator returns the request validator used by every handler.
func NewValidator() *CustomValidator {
	return &CustomValidator{validator: validator.New()}
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// JWTMiddleware authenticates bearer access tokens and stores their claims
// under handler.ClaimsContextKey. Blacklisted tokens are rejected.
func JWTMiddleware(jwtService *auth.JWTService, tokenStore auth.TokenStoreInterface) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  handler.ClaimsContextKey,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			claims, err := jwtService.ValidateAccessToken(token)
			if err != nil {
				return nil, err
			}
			revoked, err := tokenStore.IsAccessTokenBlacklisted(c.Request().Context(), claims.ID)
			if err != nil {
				return nil, err
			}
			if revoked {
				return nil, auth.ErrInvalidToken
			}
			return claims, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{
				Message: "missing or invalid token",
				Code:    "UNAUTHORIZED",
			})
		},
	})
}

// RequireRole rejects callers whose token role is not one of roles.
func RequireRole(roles ...model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := handler.CurrentClaims(c)
			if err != nil {
				return err
			}
			for _, role := range roles {
				if claims.Role == role {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden, apperrors.ErrorResponse{
				Message: "insufficient role",
				Code:    "FORBIDDEN",
			})
		}
	}
}
