package matchmaking

import (
	"context"
	"errors"
	"time"

	"github.com/DhavalSuthar-24/arena/internal/lobby"
	"github.com/DhavalSuthar-24/arena/internal/match"
	"github.com/DhavalSuthar-24/arena/internal/models"
	"github.com/DhavalSuthar-24/arena/internal/notification"
	"github.com/DhavalSuthar-24/arena/pkg/apperr"
	"github.com/DhavalSuthar-24/arena/pkg/lock"
	"github.com/DhavalSuthar-24/arena/pkg/logger"
	"github.com/DhavalSuthar-24/arena/pkg/metrics"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

const (
	processLockKey = "matchmaking:process"
	processLockTTL = 30 * time.Second
)

// errClaimLost rolls back a pairing whose entries were taken by another pass.
var errClaimLost = errors.New("matchmaking: entry already claimed")

// Processor pairs queued entries into matches. Passes are serialized by a
// named lock; each pairing additionally claims its entries with a
// conditional update so no entry is ever consumed twice.
type Processor struct {
	db       *gorm.DB
	locker   lock.Locker
	notifier notification.Notifier
	ttl      time.Duration
	now      func() time.Time
	log      zerolog.Logger
}

func NewProcessor(db *gorm.DB, locker lock.Locker, notifier notification.Notifier, ttl time.Duration) *Processor {
	return &Processor{
		db:       db,
		locker:   locker,
		notifier: notifier,
		ttl:      ttl,
		now:      time.Now,
		log:      logger.Component("matchmaking"),
	}
}

// Process runs one pass. It returns a skipped summary when another pass
// holds the lock.
func (p *Processor) Process(ctx context.Context) (*Summary, error) {
	unlock, err := p.locker.TryLock(ctx, processLockKey, processLockTTL)
	if errors.Is(err, lock.ErrNotAcquired) {
		metrics.ProcessRuns.WithLabelValues("skipped").Inc()
		return &Summary{Skipped: true, MatchIDs: []uint{}}, nil
	}
	if err != nil {
		metrics.ProcessRuns.WithLabelValues("error").Inc()
		return nil, apperr.Internal(err, "acquire matchmaking lock")
	}
	defer func() {
		if err := unlock(context.Background()); err != nil {
			p.log.Warn().Err(err).Msg("release matchmaking lock")
		}
	}()

	sum, err := p.pass(ctx)
	if err != nil {
		metrics.ProcessRuns.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.ProcessRuns.WithLabelValues("ok").Inc()
	return sum, nil
}

func (p *Processor) pass(ctx context.Context) (*Summary, error) {
	sum := &Summary{MatchIDs: []uint{}}

	expired, err := p.expire()
	if err != nil {
		return nil, err
	}
	sum.Expired = expired

	pending, err := NewGormQueueRepository(p.db).Pending()
	if err != nil {
		return nil, apperr.Internal(err, "load queue")
	}
	sum.Pending = len(pending)

	for _, bucket := range bucketize(pending) {
		for _, pr := range formPairings(bucket, bucket[0].TeamSize) {
			if err := ctx.Err(); err != nil {
				return sum, nil
			}
			m, err := p.commit(pr)
			if errors.Is(err, errClaimLost) {
				sum.Conflicts++
				metrics.ClaimConflicts.Inc()
				continue
			}
			if err != nil {
				p.log.Error().Err(err).Msg("create queue match")
				continue
			}
			sum.MatchesCreated++
			sum.MatchIDs = append(sum.MatchIDs, m.ID)
			metrics.MatchesFormed.WithLabelValues(string(match.SourceQueue)).Inc()
			p.notifier.NotifyMany(m.PlayerIDs(), notification.Message{
				Type:  notification.TypeMatchFound,
				Title: "Match found",
				Body:  "Opponents found, waiting for room setup",
				Data:  models.JSONMap{"matchId": m.ID},
			})
		}
	}

	p.log.Info().
		Int("expired", sum.Expired).
		Int("pending", sum.Pending).
		Int("matches", sum.MatchesCreated).
		Int("conflicts", sum.Conflicts).
		Msg("matchmaking pass")
	return sum, nil
}

// expire drops entries older than the TTL and frees their lobbies.
func (p *Processor) expire() (int, error) {
	if p.ttl <= 0 {
		return 0, nil
	}
	stale, err := NewGormQueueRepository(p.db).ExpiredBefore(p.now().Add(-p.ttl))
	if err != nil {
		return 0, apperr.Internal(err, "load expired entries")
	}
	n := 0
	for i := range stale {
		e := &stale[i]
		var removed bool
		err := p.db.Transaction(func(tx *gorm.DB) error {
			var err error
			if removed, err = NewGormQueueRepository(tx).DeleteUnclaimed(e.ID); err != nil || !removed {
				return err
			}
			if e.LobbyID != nil {
				err := lobby.NewGormLobbyRepository(tx).TransitionStatus(*e.LobbyID, lobby.StatusMatchmaking, lobby.StatusActive)
				if err != nil && !apperr.Is(err, apperr.KindConflict) {
					return err
				}
			}
			return nil
		})
		if err != nil {
			p.log.Warn().Err(err).Uint("entry_id", e.ID).Msg("expire queue entry")
			continue
		}
		if !removed {
			continue
		}
		n++
		metrics.QueueExpired.Inc()
		p.notifier.NotifyMany(e.MemberIDs, notification.Message{
			Type:  notification.TypeQueueExpired,
			Title: "Matchmaking timed out",
			Body:  "No opponents were found in time, try again",
			Data:  models.JSONMap{"waitingId": e.ID},
		})
	}
	return n, nil
}

// commit claims every entry of the pairing and creates the match in one
// transaction. A short claim means another pass got there first.
func (p *Processor) commit(pr pairing) (*match.Match, error) {
	var m *match.Match
	err := p.db.Transaction(func(tx *gorm.DB) error {
		queue := NewGormQueueRepository(tx)
		token := uuid.NewString()
		ids := pr.entryIDs()
		claimed, err := queue.Claim(ids, token, p.now())
		if err != nil {
			return apperr.Internal(err, "claim entries")
		}
		if claimed != int64(len(ids)) {
			return errClaimLost
		}

		var players []match.MatchPlayer
		var lobbyIDs []uint
		for team, entries := range pr.teams {
			for _, e := range entries {
				if e.LobbyID != nil {
					lobbyIDs = append(lobbyIDs, *e.LobbyID)
				}
				for _, uid := range e.MemberIDs {
					players = append(players, match.MatchPlayer{UserID: uid, Team: team + 1, LobbyID: e.LobbyID})
				}
			}
		}
		first := pr.teams[0][0]
		m = match.New(match.SourceQueue, nil, first.TeamSize, first.PlatformMode, first.GameplayMode, players)
		if err := match.NewGormMatchRepository(tx).Create(m); err != nil {
			return apperr.Internal(err, "create match")
		}
		if err := queue.DeleteClaimed(token); err != nil {
			return apperr.Internal(err, "delete claimed entries")
		}
		lobbies := lobby.NewGormLobbyRepository(tx)
		for _, id := range lobbyIDs {
			if err := lobbies.TransitionStatus(id, lobby.StatusMatchmaking, lobby.StatusInGame); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Run calls Process every interval until ctx is done.
func (p *Processor) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	p.log.Info().Dur("interval", interval).Msg("matchmaking worker started")
	for {
		select {
		case <-ctx.Done():
			p.log.Info().Msg("matchmaking worker stopped")
			return
		case <-ticker.C:
			if _, err := p.Process(ctx); err != nil {
				p.log.Error().Err(err).Msg("matchmaking pass failed")
			}
		}
	}
}
