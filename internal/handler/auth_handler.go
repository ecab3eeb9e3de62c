package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"notes-service/internal/middleware"
	"notes-service/internal/model"
	"notes-service/internal/policy"
	"notes-service/internal/store"
	"notes-service/internal/validation"
	"notes-service/pkg/database"
	"notes-service/pkg/jwtutil"
	"notes-service/pkg/logger"
	"notes-service/prometheus"
)

// Login verifies credentials, issues a session token and sets it as the
// session cookie. Unknown email and wrong password return identical
// responses so accounts cannot be enumerated.
func Login(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.LoginCounter.Inc()

	var req struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse login request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return badRequest(c, "invalid request")
	}
	if errs := validation.ValidateStruct(&req); errs != nil {
		prometheus.RecordAuthError("invalid_request")
		return validationFailed(c, errs)
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	user, err := store.FindUserByEmail(database.GetDB(), req.Email)
	if err != nil {
		return internalError(c, log, err)
	}
	if user == nil {
		log.Debug("Login with unknown email", zap.String("email", req.Email))
		prometheus.RecordAuthError("user_not_found")
		return invalidCredentials(c)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		log.Debug("Login with invalid password", zap.String("email", req.Email))
		prometheus.RecordAuthError("invalid_password")
		return invalidCredentials(c)
	}

	token, err := jwtutil.GenerateToken(user.ID, user.Role, user.TenantID)
	if err != nil {
		return internalError(c, log, err)
	}

	setSessionCookie(c, token)
	prometheus.IncreaseActiveTokens()

	log.Info("User logged in",
		zap.String("email", user.Email),
		zap.String("tenant_id", user.TenantID),
		zap.String("role", user.Role))

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "User logged in successfully",
		"data": echo.Map{
			"email":     user.Email,
			"name":      user.Name,
			"role":      user.Role,
			"tenant_id": user.TenantID,
		},
	})
}

// Logout clears the session cookie. It never fails, even without a session.
func Logout(c echo.Context) error {
	clearSessionCookie(c)
	prometheus.DecreaseActiveTokens()
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "User logged out successfully",
	})
}

// InviteUser creates a user in the inviting manager's tenant.
func InviteUser(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.InviteCounter.Inc()
	actor := middleware.CurrentUser(c)

	if d := policy.CanInviteUser(actor); d != nil {
		prometheus.RecordAuthError("forbidden")
		return deny(c, d)
	}

	var req struct {
		Name     string `json:"name" validate:"required"`
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=8"`
		Role     string `json:"role" validate:"required,oneof=MANAGER MEMBER"`
	}

	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse invite request", zap.Error(err))
		return badRequest(c, "invalid request")
	}
	if errs := validation.ValidateStruct(&req); errs != nil {
		return validationFailed(c, errs)
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	existing, err := store.FindUserByEmail(database.GetDB(), req.Email)
	if err != nil {
		return internalError(c, log, err)
	}
	if existing != nil {
		return badRequest(c, "User with this email already exists")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return internalError(c, log, err)
	}

	user := model.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hashed),
		Role:     req.Role,
		TenantID: actor.TenantID,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := store.CreateUser(database.GetDB(), &user); err != nil {
		return internalError(c, log, err)
	}

	log.Info("User invited",
		zap.String("email", user.Email),
		zap.String("role", user.Role),
		zap.String("tenant_id", user.TenantID))

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "User added successfully",
	})
}

// UpdateRole changes the role of a user within the manager's own tenant.
func UpdateRole(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordTenantOperation("update_role")
	actor := middleware.CurrentUser(c)

	id := c.Param("id")
	if id == "" {
		return badRequest(c, "User ID is required")
	}

	var req struct {
		Role string `json:"role"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse role update request", zap.Error(err))
		return badRequest(c, "invalid request")
	}

	// The acting identity is re-derived by its own email rather than trusted
	// from the session, so a stale identity cannot authorize the change.
	defer prometheus.TrackDBOperation("query")(time.Now())
	freshActor, err := store.FindUserByEmail(database.GetDB(), actor.Email)
	if err != nil {
		return internalError(c, log, err)
	}

	if d := policy.CanUpdateRole(actor, freshActor, req.Role); d != nil {
		if d.Kind == policy.KindForbidden {
			prometheus.RecordAuthError("forbidden")
		}
		return deny(c, d)
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	rows, err := store.UpdateUserRole(database.GetDB(), actor.TenantID, id, req.Role)
	if err != nil {
		return internalError(c, log, err)
	}
	if rows == 0 {
		// Absent and cross-tenant targets are indistinguishable on purpose
		return c.JSON(http.StatusNotFound, echo.Map{
			"success": false,
			"message": "User not found",
		})
	}

	log.Info("User role updated",
		zap.String("user_id", id),
		zap.String("role", req.Role),
		zap.String("tenant_id", actor.TenantID))

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "User role updated successfully",
	})
}

// ListUsers returns every user of the authenticated tenant.
func ListUsers(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordTenantOperation("list_users")
	actor := middleware.CurrentUser(c)

	defer prometheus.TrackDBOperation("query")(time.Now())
	users, err := store.ListUsers(database.GetDB(), actor.TenantID)
	if err != nil {
		return internalError(c, log, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    users,
	})
}

// Me echoes the resolved identity attached by the authentication gate.
func Me(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"user":    middleware.CurrentUser(c),
	})
}

func invalidCredentials(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, echo.Map{
		"success": false,
		"message": "Invalid email or password",
	})
}

func setSessionCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   cfg.JWT.ExpirationHours * 3600,
		HttpOnly: true,
		Secure:   cfg.Server.IsProduction(),
		SameSite: http.SameSiteStrictMode,
	})
}

func clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   cfg.Server.IsProduction(),
		SameSite: http.SameSiteStrictMode,
	})
}
