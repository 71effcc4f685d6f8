package admin

type Dashboard struct {
	Users           int64            `json:"users"`
	ActiveLobbies   int64            `json:"active_lobbies"`
	QueueSize       int64            `json:"queue_size"`
	MatchesByStatus map[string]int64 `json:"matches_by_status"`
	BetVolume       int64            `json:"bet_volume"`
}

type RoleRequest struct {
	Role string `json:"role" binding:"required,oneof=user admin"`
}

type BanRequest struct {
	Reason string `json:"reason" binding:"max=255"`
}

type BalanceRequest struct {
	Amount int64  `json:"amount" binding:"required"`
	Reason string `json:"reason" binding:"max=255"`
}
