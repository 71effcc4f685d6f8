// Package database owns the schema of every table the API writes.
package database

import (
	"github.com/DhavalSuthar-24/arena/internal/bet"
	"github.com/DhavalSuthar-24/arena/internal/friend"
	"github.com/DhavalSuthar-24/arena/internal/lobby"
	"github.com/DhavalSuthar-24/arena/internal/match"
	"github.com/DhavalSuthar-24/arena/internal/matchmaking"
	"github.com/DhavalSuthar-24/arena/internal/notification"
	"github.com/DhavalSuthar-24/arena/internal/shop"
	"github.com/DhavalSuthar-24/arena/internal/user"
	"github.com/DhavalSuthar-24/arena/internal/wallet"
	"github.com/rotisserie/eris"
	"gorm.io/gorm"
)

func models() []interface{} {
	return []interface{}{
		&user.User{}, &user.RefreshToken{},
		&notification.Notification{},
		&wallet.Transaction{},
		&match.Match{}, &match.MatchPlayer{},
		&bet.Bet{},
		&lobby.Lobby{}, &lobby.LobbyMember{}, &lobby.LobbyInvite{},
		&matchmaking.QueueEntry{}, &matchmaking.QueueMember{},
		&friend.FriendRequest{},
		&shop.ShopItem{}, &shop.InventoryItem{},
	}
}

// Migrate creates or alters all tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models()...); err != nil {
		return eris.Wrap(err, "auto migrate")
	}
	return nil
}
