package auth

import (
	"time"

	"github.com/DhavalSuthar-24/arena/internal/user"
	"github.com/rotisserie/eris"
	"gorm.io/gorm"
)

type AuthRepository interface {
	SaveRefreshToken(token *user.RefreshToken) error
	GetRefreshToken(tokenString string) (*user.RefreshToken, error)
	InvalidateRefreshToken(userID uint, tokenString string) (bool, error)
	InvalidateAllRefreshTokensForUser(userID uint) error
	DeleteExpiredRefreshTokens() (int64, error)
}

type authRepository struct {
	db *gorm.DB
}

func NewAuthRepository(db *gorm.DB) AuthRepository {
	return &authRepository{db: db}
}

func (r *authRepository) SaveRefreshToken(token *user.RefreshToken) error {
	return r.db.Create(token).Error
}

func (r *authRepository) GetRefreshToken(tokenString string) (*user.RefreshToken, error) {
	var rt user.RefreshToken
	if err := r.db.Where("token = ? AND expires_at > ? AND revoked = ?", tokenString, time.Now(), false).First(&rt).Error; err != nil {
		return nil, err
	}
	return &rt, nil
}

// InvalidateRefreshToken reports whether this call revoked the token. Only
// one of several concurrent callers sees true.
func (r *authRepository) InvalidateRefreshToken(userID uint, tokenString string) (bool, error) {
	res := r.db.Model(&user.RefreshToken{}).
		Where("token = ? AND user_id = ? AND revoked = ?", tokenString, userID, false).
		Update("revoked", true)
	return res.RowsAffected > 0, res.Error
}

func (r *authRepository) InvalidateAllRefreshTokensForUser(userID uint) error {
	err := r.db.Model(&user.RefreshToken{}).
		Where("user_id = ? AND revoked = ?", userID, false).
		Update("revoked", true).Error
	return eris.Wrap(err, "invalidate refresh tokens")
}

func (r *authRepository) DeleteExpiredRefreshTokens() (int64, error) {
	res := r.db.Unscoped().Where("expires_at < ? OR revoked = ?", time.Now(), true).Delete(&user.RefreshToken{})
	return res.RowsAffected, res.Error
}
