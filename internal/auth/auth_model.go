package auth

import "github.com/DhavalSuthar-24/arena/internal/user"

type LoginRequest struct {
	LoginIdentifier string `json:"login_identifier" binding:"required" example:"john@example.com"` // email or username
	Password        string `json:"password" binding:"required" example:"password123"`
}

type RegisterRequest struct {
	Username   string `json:"username" binding:"required,min=3,max=30" example:"booyah"`
	Email      string `json:"email" binding:"required,email" example:"john@example.com"`
	Password   string `json:"password" binding:"required,min=8,max=72" example:"password123"`
	Nickname   string `json:"nickname,omitempty" binding:"omitempty,max=50"`
	FreeFireID string `json:"free_fire_id,omitempty" binding:"omitempty,max=30"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
}

type ChangePasswordRequest struct {
	OldPassword     string `json:"old_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8,max=72"`
	PasswordConfirm string `json:"password_confirm" binding:"required,eqfield=NewPassword"`
}

type LogoutRequest struct {
	RefreshToken          string `json:"refresh_token"`
	InvalidateAllSessions bool   `json:"invalidate_all_sessions"`
}

type AuthResponse struct {
	AccessToken  string            `json:"access_token"`
	RefreshToken string            `json:"refresh_token"`
	User         user.UserResponse `json:"user"`
}
