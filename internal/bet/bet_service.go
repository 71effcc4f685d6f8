package bet

import (
	"errors"
	"fmt"

	"github.com/DhavalSuthar-24/arena/config"
	"github.com/DhavalSuthar-24/arena/internal/match"
	"github.com/DhavalSuthar-24/arena/internal/wallet"
	"github.com/DhavalSuthar-24/arena/pkg/apperr"
	"github.com/DhavalSuthar-24/arena/pkg/metrics"
	"gorm.io/gorm"
)

type BetService struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewBetService(db *gorm.DB, cfg *config.Config) *BetService {
	return &BetService{db: db, cfg: cfg}
}

// Place stakes amount on the caller's own team. The debit, the bet row and
// the ledger line commit together or not at all.
func (s *BetService) Place(userID, matchID uint, amount int64) (*Bet, error) {
	if amount < s.cfg.Betting.MinAmount || amount > s.cfg.Betting.MaxAmount {
		return nil, apperr.Validation(fmt.Sprintf("Bet must be between %d and %d", s.cfg.Betting.MinAmount, s.cfg.Betting.MaxAmount))
	}

	var b *Bet
	err := s.db.Transaction(func(tx *gorm.DB) error {
		m, err := match.NewGormMatchRepository(tx).GetByID(matchID)
		if err != nil {
			return apperr.FromDB(err, "Match not found")
		}
		team, ok := m.TeamOf(userID)
		if !ok {
			return apperr.Forbidden("Only match participants can bet on this match")
		}
		if !m.Status.BettingOpen() {
			return apperr.Conflict("Betting is closed for this match")
		}

		repo := NewGormBetRepository(tx)
		if _, err := repo.Get(userID, matchID); err == nil {
			return apperr.Conflict("You already placed a bet on this match")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.Internal(err, "check existing bet")
		}

		b = &Bet{UserID: userID, MatchID: matchID, Team: team, Amount: amount, Status: StatusActive}
		if err := repo.Create(b); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperr.Conflict("You already placed a bet on this match")
			}
			return apperr.Internal(err, "create bet")
		}
		_, err = wallet.Debit(tx, wallet.Entry{
			UserID:      userID,
			Amount:      amount,
			Type:        wallet.TxBet,
			Description: fmt.Sprintf("Bet on match %s", m.Code),
			MatchID:     &m.ID,
			BetID:       &b.ID,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	metrics.BetsPlaced.Inc()
	return b, nil
}

func (s *BetService) Get(userID, matchID uint) (*Bet, error) {
	b, err := NewGormBetRepository(s.db).Get(userID, matchID)
	if err != nil {
		return nil, apperr.FromDB(err, "No bet on this match")
	}
	return b, nil
}

func (s *BetService) ListMine(userID uint, page, pageSize int) ([]Bet, int64, error) {
	out, total, err := NewGormBetRepository(s.db).ListForUser(userID, page, pageSize)
	if err != nil {
		return nil, 0, apperr.Internal(err, "list bets")
	}
	return out, total, nil
}

// Settler pays out and refunds bets for the match service.
type Settler struct {
	multiplier int64
}

func NewSettler(multiplier int64) *Settler {
	if multiplier < 1 {
		multiplier = 1
	}
	return &Settler{multiplier: multiplier}
}

func (s *Settler) Settle(tx *gorm.DB, m *match.Match) ([]match.Settlement, error) {
	if m.WinnerTeam == nil {
		return nil, apperr.Validation("Match has no winner")
	}
	repo := NewGormBetRepository(tx)
	bets, err := repo.ActiveForMatch(m.ID)
	if err != nil {
		return nil, apperr.Internal(err, "load bets")
	}

	out := make([]match.Settlement, 0, len(bets))
	for i := range bets {
		b := &bets[i]
		st := match.Settlement{UserID: b.UserID, BetID: b.ID}
		if b.Team == *m.WinnerTeam {
			st.Won = true
			st.Payout = b.Amount * s.multiplier
			if err := repo.Resolve(b.ID, StatusWon, st.Payout); err != nil {
				return nil, apperr.FromDB(err, "Bet already settled")
			}
			if _, err := wallet.Credit(tx, wallet.Entry{
				UserID:      b.UserID,
				Amount:      st.Payout,
				Type:        wallet.TxBetPayout,
				Description: fmt.Sprintf("Winnings from match %s", m.Code),
				MatchID:     &m.ID,
				BetID:       &b.ID,
			}); err != nil {
				return nil, err
			}
		} else if err := repo.Resolve(b.ID, StatusLost, 0); err != nil {
			return nil, apperr.FromDB(err, "Bet already settled")
		}
		out = append(out, st)
	}
	return out, nil
}

func (s *Settler) Refund(tx *gorm.DB, matchID uint) ([]match.Settlement, error) {
	repo := NewGormBetRepository(tx)
	bets, err := repo.ActiveForMatch(matchID)
	if err != nil {
		return nil, apperr.Internal(err, "load bets")
	}
	out := make([]match.Settlement, 0, len(bets))
	for i := range bets {
		b := &bets[i]
		if err := repo.Resolve(b.ID, StatusRefunded, b.Amount); err != nil {
			return nil, apperr.FromDB(err, "Bet already settled")
		}
		if _, err := wallet.Credit(tx, wallet.Entry{
			UserID:      b.UserID,
			Amount:      b.Amount,
			Type:        wallet.TxBetRefund,
			Description: "Refund for canceled match",
			MatchID:     &matchID,
			BetID:       &b.ID,
		}); err != nil {
			return nil, err
		}
		out = append(out, match.Settlement{UserID: b.UserID, BetID: b.ID, Payout: b.Amount, Refund: true})
	}
	return out, nil
}
