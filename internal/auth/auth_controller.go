package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/DhavalSuthar-24/arena/config"
	"github.com/DhavalSuthar-24/arena/internal/common"
	"github.com/DhavalSuthar-24/arena/internal/middleware"
	"github.com/DhavalSuthar-24/arena/internal/user"
	"github.com/DhavalSuthar-24/arena/pkg/apperr"
	"github.com/DhavalSuthar-24/arena/pkg/logger"
	"github.com/DhavalSuthar-24/arena/pkg/responses"
	"github.com/DhavalSuthar-24/arena/pkg/token"
	"github.com/DhavalSuthar-24/arena/pkg/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AuthController struct {
	repo   AuthRepository
	users  user.UserRepository
	config *config.Config
}

func NewAuthController(repo AuthRepository, users user.UserRepository, cfg *config.Config) *AuthController {
	return &AuthController{repo: repo, users: users, config: cfg}
}

func (ac *AuthController) refreshTTL() time.Duration {
	return time.Duration(ac.config.JWT.RefreshTokenExpiryDays) * 24 * time.Hour
}

func (ac *AuthController) accessTTL() time.Duration {
	return time.Duration(ac.config.JWT.AccessTokenExpiryMinutes) * time.Minute
}

func (ac *AuthController) generateAndSaveTokens(u *user.User) (string, string, error) {
	accessToken, err := token.GenerateJWT(u.ID, u.Role, ac.config.JWT.AccessTokenSecret, ac.accessTTL())
	if err != nil {
		return "", "", apperr.Internal(err, "access token generation failed")
	}

	refreshTokenString, err := utils.GenerateRefreshToken(u.ID, ac.config.JWT.RefreshTokenSecret, ac.refreshTTL())
	if err != nil {
		return "", "", apperr.Internal(err, "refresh token generation failed")
	}

	rt := &user.RefreshToken{
		UserID:    u.ID,
		Token:     refreshTokenString,
		ExpiresAt: time.Now().Add(ac.refreshTTL()),
	}
	if err := ac.repo.SaveRefreshToken(rt); err != nil {
		return "", "", apperr.Internal(err, "failed to save refresh token")
	}
	return accessToken, refreshTokenString, nil
}

func (ac *AuthController) setSessionCookie(c *gin.Context, value string, maxAge int) {
	secure := ac.config.App.Env == "production"
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, value, maxAge, "/", "", secure, true)
}

// @Summary      Register a new user
// @Description  Create a new account with username, email and password.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        user  body      RegisterRequest  true  "User registration details"
// @Success      201   {object}  responses.SuccessResponse{data=AuthResponse}
// @Failure      400   {object}  responses.ErrorResponse
// @Failure      409   {object}  responses.ErrorResponse "Email or username already taken"
// @Router       /auth/register [post]
func (ac *AuthController) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationError(c, err)
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := ac.users.GetByEmail(email); !errors.Is(err, gorm.ErrRecordNotFound) {
		if err != nil {
			responses.FromError(c, apperr.Internal(err, "lookup email"))
			return
		}
		responses.SendError(c, http.StatusConflict, "User with this email already exists")
		return
	}
	if _, err := ac.users.GetByUsername(req.Username); !errors.Is(err, gorm.ErrRecordNotFound) {
		if err != nil {
			responses.FromError(c, apperr.Internal(err, "lookup username"))
			return
		}
		responses.SendError(c, http.StatusConflict, "User with this username already exists")
		return
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		responses.InternalServerError(c, "Error hashing password")
		return
	}

	now := time.Now()
	nickname := req.Nickname
	if nickname == "" {
		nickname = req.Username
	}
	newUser := &user.User{
		Username:   req.Username,
		Email:      email,
		Password:   hashedPassword,
		Role:       user.RoleUser,
		Nickname:   nickname,
		FreeFireID: req.FreeFireID,
		Balance:    ac.config.Wallet.StartingBalance,
		Rank:       user.RankFor(0),
		LastActive: &now,
	}
	if err := ac.users.Create(newUser); err != nil {
		responses.FromError(c, apperr.Internal(err, "create user"))
		return
	}

	accessToken, refreshToken, err := ac.generateAndSaveTokens(newUser)
	if err != nil {
		responses.FromError(c, err)
		return
	}
	ac.setSessionCookie(c, accessToken, int(ac.accessTTL().Seconds()))

	logger.Get().Info().Uint("user_id", newUser.ID).Msg("user registered")
	responses.SendSuccess(c, http.StatusCreated, "User registered successfully", AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user.ToResponse(newUser),
	})
}

// @Summary      Log in
// @Description  Authenticate with email or username and password. Also sets the session cookie.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        credentials  body      LoginRequest  true  "Login credentials"
// @Success      200          {object}  responses.SuccessResponse{data=AuthResponse}
// @Failure      401          {object}  responses.ErrorResponse
// @Failure      403          {object}  responses.ErrorResponse "Account banned"
// @Router       /auth/login [post]
func (ac *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationError(c, err)
		return
	}

	u, err := ac.users.GetByLogin(strings.TrimSpace(req.LoginIdentifier))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			responses.Unauthorized(c, "Invalid credentials")
			return
		}
		responses.FromError(c, apperr.Internal(err, "lookup user"))
		return
	}
	if !utils.CheckPassword(u.Password, req.Password) {
		responses.Unauthorized(c, "Invalid credentials")
		return
	}
	if u.Banned {
		responses.Forbidden(c, "Account is banned")
		return
	}

	accessToken, refreshToken, err := ac.generateAndSaveTokens(u)
	if err != nil {
		responses.FromError(c, err)
		return
	}
	if err := ac.users.Touch(u.ID); err != nil {
		logger.Get().Warn().Err(err).Uint("user_id", u.ID).Msg("update last_active failed")
	}
	ac.setSessionCookie(c, accessToken, int(ac.accessTTL().Seconds()))

	responses.SendSuccess(c, http.StatusOK, "Login successful", AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user.ToResponse(u),
	})
}

// @Summary      Refresh tokens
// @Description  Rotate a refresh token: the old one is revoked and a new pair issued.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        body  body      RefreshTokenRequest  true  "Refresh token"
// @Success      200   {object}  responses.SuccessResponse{data=AuthResponse}
// @Failure      401   {object}  responses.ErrorResponse
// @Router       /auth/refresh-token [post]
func (ac *AuthController) RefreshToken(c *gin.Context) {
	var req RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationError(c, err)
		return
	}

	userID, err := utils.VerifyRefreshToken(req.RefreshToken, ac.config.JWT.RefreshTokenSecret)
	if err != nil {
		responses.Unauthorized(c, "Invalid refresh token")
		return
	}
	stored, err := ac.repo.GetRefreshToken(req.RefreshToken)
	if err != nil || stored.UserID != userID {
		responses.Unauthorized(c, "Refresh token revoked or expired")
		return
	}
	u, err := ac.users.GetByID(userID)
	if err != nil {
		responses.Unauthorized(c, "User not found")
		return
	}
	if u.Banned {
		responses.Forbidden(c, "Account is banned")
		return
	}

	revoked, err := ac.repo.InvalidateRefreshToken(userID, req.RefreshToken)
	if err != nil {
		responses.FromError(c, apperr.Internal(err, "revoke refresh token"))
		return
	}
	if !revoked {
		responses.Unauthorized(c, "Refresh token revoked or expired")
		return
	}
	accessToken, refreshToken, err := ac.generateAndSaveTokens(u)
	if err != nil {
		responses.FromError(c, err)
		return
	}
	ac.setSessionCookie(c, accessToken, int(ac.accessTTL().Seconds()))

	responses.SendSuccess(c, http.StatusOK, "Token refreshed", AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user.ToResponse(u),
	})
}

// @Summary      Log out
// @Description  Revoke one refresh token or all of the caller's sessions and clear the cookie.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      LogoutRequest  false  "What to revoke"
// @Success      200   {object}  responses.SuccessResponse
// @Router       /auth/logout [post]
func (ac *AuthController) Logout(c *gin.Context) {
	userID, err := common.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, err.Error())
		return
	}
	var req LogoutRequest
	// An empty body means "this session only".
	_ = c.ShouldBindJSON(&req)

	switch {
	case req.InvalidateAllSessions:
		err = ac.repo.InvalidateAllRefreshTokensForUser(userID)
	case req.RefreshToken != "":
		_, err = ac.repo.InvalidateRefreshToken(userID, req.RefreshToken)
	}
	if err != nil {
		responses.FromError(c, apperr.Internal(err, "logout"))
		return
	}
	ac.setSessionCookie(c, "", -1)
	responses.SendSuccess(c, http.StatusOK, "Logged out successfully", nil)
}

// @Summary      Current user
// @Tags         Auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  responses.SuccessResponse{data=user.UserResponse}
// @Failure      401  {object}  responses.ErrorResponse
// @Router       /auth/me [get]
func (ac *AuthController) GetProfile(c *gin.Context) {
	userID, err := common.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, err.Error())
		return
	}
	u, err := ac.users.GetByID(userID)
	if err != nil {
		responses.FromError(c, apperr.FromDB(err, "User not found"))
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Profile retrieved", user.ToResponse(u))
}

// @Summary      Change password
// @Description  Requires the current password. All refresh tokens are revoked afterwards.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      ChangePasswordRequest  true  "Passwords"
// @Success      200   {object}  responses.SuccessResponse
// @Failure      400   {object}  responses.ErrorResponse
// @Failure      401   {object}  responses.ErrorResponse "Wrong current password"
// @Router       /auth/change-password [post]
func (ac *AuthController) ChangePassword(c *gin.Context) {
	userID, err := common.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, err.Error())
		return
	}
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationError(c, err)
		return
	}

	u, err := ac.users.GetByID(userID)
	if err != nil {
		responses.FromError(c, apperr.FromDB(err, "User not found"))
		return
	}
	if !utils.CheckPassword(u.Password, req.OldPassword) {
		responses.Unauthorized(c, "Current password is incorrect")
		return
	}
	hashed, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		responses.InternalServerError(c, "Error hashing password")
		return
	}
	if err := ac.users.UpdateFields(userID, map[string]interface{}{"password": hashed}); err != nil {
		responses.FromError(c, apperr.FromDB(err, "User not found"))
		return
	}
	if err := ac.repo.InvalidateAllRefreshTokensForUser(userID); err != nil {
		logger.Get().Warn().Err(err).Uint("user_id", userID).Msg("revoke sessions after password change failed")
	}
	responses.SendSuccess(c, http.StatusOK, "Password changed successfully", nil)
}
