package admin

import (
	"fmt"

	"github.com/DhavalSuthar-24/arena/internal/auth"
	"github.com/DhavalSuthar-24/arena/internal/bet"
	"github.com/DhavalSuthar-24/arena/internal/lobby"
	"github.com/DhavalSuthar-24/arena/internal/match"
	"github.com/DhavalSuthar-24/arena/internal/matchmaking"
	"github.com/DhavalSuthar-24/arena/internal/models"
	"github.com/DhavalSuthar-24/arena/internal/notification"
	"github.com/DhavalSuthar-24/arena/internal/user"
	"github.com/DhavalSuthar-24/arena/internal/wallet"
	"github.com/DhavalSuthar-24/arena/pkg/apperr"
	"github.com/DhavalSuthar-24/arena/pkg/logger"
	"gorm.io/gorm"
)

type AdminService struct {
	db       *gorm.DB
	users    user.UserRepository
	wallet   *wallet.WalletService
	notifier notification.Notifier
}

func NewAdminService(db *gorm.DB, walletSvc *wallet.WalletService, notifier notification.Notifier) *AdminService {
	return &AdminService{
		db:       db,
		users:    user.NewGormUserRepository(db),
		wallet:   walletSvc,
		notifier: notifier,
	}
}

func (s *AdminService) Dashboard() (*Dashboard, error) {
	d := &Dashboard{MatchesByStatus: map[string]int64{}}
	var err error
	if d.Users, err = s.users.Count(); err != nil {
		return nil, apperr.Internal(err, "count users")
	}
	if d.ActiveLobbies, err = lobby.NewGormLobbyRepository(s.db).CountByStatus(lobby.StatusActive); err != nil {
		return nil, apperr.Internal(err, "count lobbies")
	}
	if d.QueueSize, err = matchmaking.NewGormQueueRepository(s.db).Count(); err != nil {
		return nil, apperr.Internal(err, "count queue")
	}
	byStatus, err := match.NewGormMatchRepository(s.db).CountByStatus()
	if err != nil {
		return nil, apperr.Internal(err, "count matches")
	}
	for st, n := range byStatus {
		d.MatchesByStatus[string(st)] = n
	}
	if d.BetVolume, err = bet.NewGormBetRepository(s.db).Volume(); err != nil {
		return nil, apperr.Internal(err, "bet volume")
	}
	return d, nil
}

func (s *AdminService) Users(q string, page, pageSize int) ([]user.UserResponse, int64, error) {
	rows, total, err := s.users.List(q, page, pageSize)
	if err != nil {
		return nil, 0, apperr.Internal(err, "list users")
	}
	out := make([]user.UserResponse, 0, len(rows))
	for i := range rows {
		out = append(out, user.ToResponse(&rows[i]))
	}
	return out, total, nil
}

func (s *AdminService) SetRole(adminID, userID uint, role string) (*user.UserResponse, error) {
	if adminID == userID && role != user.RoleAdmin {
		return nil, apperr.Validation("You cannot remove your own admin role")
	}
	return s.update(userID, map[string]interface{}{"role": role})
}

// Ban blocks the account and revokes its refresh tokens. Access tokens stop
// working on the next request because auth re-reads the ban flag.
func (s *AdminService) Ban(adminID, userID uint, reason string) (*user.UserResponse, error) {
	if adminID == userID {
		return nil, apperr.Validation("You cannot ban yourself")
	}
	var out *user.UserResponse
	err := s.db.Transaction(func(tx *gorm.DB) error {
		users := user.NewGormUserRepository(tx)
		if err := users.UpdateFields(userID, map[string]interface{}{"banned": true, "ban_reason": reason}); err != nil {
			return apperr.FromDB(err, "User not found")
		}
		if err := auth.NewAuthRepository(tx).InvalidateAllRefreshTokensForUser(userID); err != nil {
			return apperr.Internal(err, "revoke refresh tokens")
		}
		u, err := users.GetByID(userID)
		if err != nil {
			return apperr.FromDB(err, "User not found")
		}
		r := user.ToResponse(u)
		out = &r
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.Get().Info().Uint("user_id", userID).Uint("admin_id", adminID).Str("reason", reason).Msg("user banned")
	return out, nil
}

func (s *AdminService) Unban(userID uint) (*user.UserResponse, error) {
	out, err := s.update(userID, map[string]interface{}{"banned": false, "ban_reason": ""})
	if err != nil {
		return nil, err
	}
	s.notifier.Notify(userID, notification.Message{
		Type:  notification.TypeAccountModerated,
		Title: "Account restored",
		Body:  "Your account ban was lifted",
		Data:  models.JSONMap{"banned": false},
	})
	return out, nil
}

func (s *AdminService) update(userID uint, fields map[string]interface{}) (*user.UserResponse, error) {
	if err := s.users.UpdateFields(userID, fields); err != nil {
		return nil, apperr.FromDB(err, "User not found")
	}
	u, err := s.users.GetByID(userID)
	if err != nil {
		return nil, apperr.FromDB(err, "User not found")
	}
	r := user.ToResponse(u)
	return &r, nil
}

// AdjustBalance applies a signed correction through the ledger.
func (s *AdminService) AdjustBalance(userID uint, amount int64, reason string) (*wallet.Transaction, error) {
	t, err := s.wallet.Adjust(userID, amount, reason)
	if err != nil {
		return nil, err
	}
	s.notifier.Notify(userID, notification.Message{
		Type:  notification.TypeBalanceAdjusted,
		Title: "Balance adjusted",
		Body:  fmt.Sprintf("An admin adjusted your balance by %+d coins", amount),
		Data:  models.JSONMap{"amount": amount, "reason": reason, "balance": t.BalanceAfter},
	})
	return t, nil
}
