package matchmaking

import (
	"errors"
	"time"

	"github.com/DhavalSuthar-24/arena/config"
	"github.com/DhavalSuthar-24/arena/internal/lobby"
	"github.com/DhavalSuthar-24/arena/internal/match"
	"github.com/DhavalSuthar-24/arena/internal/models"
	"github.com/DhavalSuthar-24/arena/pkg/apperr"
	"github.com/DhavalSuthar-24/arena/pkg/logger"
	"github.com/DhavalSuthar-24/arena/pkg/metrics"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// recentWindow is how long a finished match still reports as completed.
const recentWindow = 10 * time.Minute

type MatchmakingService struct {
	db  *gorm.DB
	cfg *config.Config
	now func() time.Time
	log zerolog.Logger
}

func NewMatchmakingService(db *gorm.DB, cfg *config.Config) *MatchmakingService {
	return &MatchmakingService{db: db, cfg: cfg, now: time.Now, log: logger.Component("matchmaking")}
}

// RemoveLobbyEntries lets the lobby service drop a queue entry in its own
// transaction.
func (s *MatchmakingService) RemoveLobbyEntries(tx *gorm.DB, lobbyID uint) (int64, error) {
	return NewGormQueueRepository(tx).RemoveLobbyEntries(tx, lobbyID)
}

// ensureIdle rejects players that are already queued or still playing.
func ensureIdle(tx *gorm.DB, userIDs []uint) error {
	queued, err := NewGormQueueRepository(tx).AnyQueued(userIDs)
	if err != nil {
		return apperr.Internal(err, "check queue")
	}
	if queued {
		return apperr.Conflict("A player is already in the matchmaking queue")
	}
	busy, err := match.NewGormMatchRepository(tx).AnyUnfinished(userIDs)
	if err != nil {
		return apperr.Internal(err, "check unfinished matches")
	}
	if busy {
		return apperr.Conflict("A player is still in an unfinished match")
	}
	return nil
}

func insertEntry(tx *gorm.DB, e *QueueEntry) error {
	if err := NewGormQueueRepository(tx).Create(e); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperr.Conflict("A player is already in the matchmaking queue")
		}
		return apperr.Internal(err, "create queue entry")
	}
	return nil
}

// EnqueueLobby queues a whole ready lobby on behalf of its owner.
func (s *MatchmakingService) EnqueueLobby(userID uint, req LobbyQueueRequest) (*QueueEntry, error) {
	var e *QueueEntry
	err := s.db.Transaction(func(tx *gorm.DB) error {
		lobbies := lobby.NewGormLobbyRepository(tx)
		l, err := lobbies.GetByID(req.LobbyID)
		if err != nil {
			return apperr.FromDB(err, "Lobby not found")
		}
		if l.OwnerID != userID {
			return apperr.Forbidden("Only the lobby owner can start matchmaking")
		}
		if l.Status != lobby.StatusActive {
			return apperr.Conflict("Lobby is not active")
		}
		if !l.AllReady() {
			return apperr.Conflict("All members must be ready")
		}
		teamSize := req.TeamSize
		if teamSize == 0 {
			teamSize = l.MaxPlayers
		}
		if len(l.Members) > teamSize {
			return apperr.Validation("Lobby has more members than the requested team size")
		}
		members := l.MemberIDs()
		if err := ensureIdle(tx, members); err != nil {
			return err
		}

		lobbyID := l.ID
		e = &QueueEntry{
			UserID:       userID,
			LobbyID:      &lobbyID,
			MemberIDs:    models.UintSlice(members),
			Size:         len(members),
			TeamSize:     teamSize,
			PlatformMode: req.PlatformMode,
			GameplayMode: req.GameplayMode,
		}
		if err := insertEntry(tx, e); err != nil {
			return err
		}
		return lobbies.TransitionStatus(l.ID, lobby.StatusActive, lobby.StatusMatchmaking)
	})
	if err != nil {
		return nil, err
	}
	metrics.QueueEnqueued.WithLabelValues("lobby").Inc()
	return e, nil
}

// Find queues a single player who is not in a lobby.
func (s *MatchmakingService) Find(userID uint, req FindRequest) (*QueueEntry, error) {
	var e *QueueEntry
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := lobby.NewGormLobbyRepository(tx).OpenForUser(userID); err == nil {
			return apperr.Conflict("You are in a lobby; queue through the lobby instead")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.Internal(err, "check lobby")
		}
		if err := ensureIdle(tx, []uint{userID}); err != nil {
			return err
		}
		e = &QueueEntry{
			UserID:       userID,
			MemberIDs:    models.UintSlice{userID},
			Size:         1,
			TeamSize:     req.TeamSize,
			PlatformMode: req.PlatformMode,
			GameplayMode: req.GameplayMode,
		}
		return insertEntry(tx, e)
	})
	if err != nil {
		return nil, err
	}
	metrics.QueueEnqueued.WithLabelValues("solo").Inc()
	return e, nil
}

// Cancel removes the caller's unclaimed entry, chosen by waitingID when
// given and by membership otherwise. A queued lobby goes back to active.
func (s *MatchmakingService) Cancel(userID uint, waitingID *uint) (*QueueEntry, error) {
	var e *QueueEntry
	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := NewGormQueueRepository(tx)
		var err error
		if waitingID != nil {
			e, err = repo.GetByID(*waitingID)
			if err == nil && !e.MemberIDs.Contains(userID) && e.UserID != userID {
				return apperr.NotFound("No matchmaking entry found")
			}
		} else {
			e, err = repo.ForUser(userID)
		}
		if err != nil {
			return apperr.FromDB(err, "No matchmaking entry found")
		}
		if e.ClaimToken != nil {
			return apperr.Conflict("Entry was already matched")
		}

		removed, err := repo.DeleteUnclaimed(e.ID)
		if err != nil {
			return apperr.Internal(err, "delete queue entry")
		}
		if !removed {
			return apperr.Conflict("Entry was already matched")
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
		return nil, err
	}
	return e, nil
}

// Status answers, in order: queued, playing, recently finished, idle.
func (s *MatchmakingService) Status(userID uint) (*StatusResponse, error) {
	now := s.now()
	e, err := NewGormQueueRepository(s.db).ForUser(userID)
	if err == nil {
		id := e.ID
		return &StatusResponse{
			Status:         StateSearching,
			WaitingID:      &id,
			ElapsedSeconds: int(now.Sub(e.CreatedAt).Seconds()),
			TeamSize:       e.TeamSize,
		}, nil
	}
	if !isNotFound(err) {
		return nil, apperr.Internal(err, "read queue")
	}

	matches := match.NewGormMatchRepository(s.db)
	m, err := matches.UnfinishedForUser(userID)
	if err == nil {
		return matchStatus(m, stateFor(m.Status)), nil
	}
	if !isNotFound(err) {
		return nil, apperr.Internal(err, "read matches")
	}

	m, err = matches.CompletedSince(userID, now.Add(-recentWindow))
	if err == nil {
		return matchStatus(m, StateCompleted), nil
	}
	if !isNotFound(err) {
		return nil, apperr.Internal(err, "read matches")
	}
	return &StatusResponse{Status: StateIdle}, nil
}

func stateFor(st match.MatchStatus) string {
	switch st {
	case match.StatusWaiting:
		return StateWaiting
	case match.StatusReady, match.StatusPreparing:
		return StateReady
	default:
		return StateInProgress
	}
}

func matchStatus(m *match.Match, state string) *StatusResponse {
	id := m.ID
	return &StatusResponse{Status: state, MatchID: &id, MatchStatus: string(m.Status), TeamSize: m.TeamSize}
}

// EnqueueReadyLobbies queues every active lobby whose members are all ready,
// using the lobby's own modes and capacity. Lobbies that cannot be queued
// are logged and skipped.
func (s *MatchmakingService) EnqueueReadyLobbies() ([]uint, error) {
	lobbies, err := lobby.NewGormLobbyRepository(s.db).ActiveAllReady()
	if err != nil {
		return nil, apperr.Internal(err, "list ready lobbies")
	}
	queued := []uint{}
	for i := range lobbies {
		l := &lobbies[i]
		_, err := s.EnqueueLobby(l.OwnerID, LobbyQueueRequest{
			LobbyID:      l.ID,
			TeamSize:     l.MaxPlayers,
			PlatformMode: l.PlatformMode,
			GameplayMode: l.GameplayMode,
		})
		if err != nil {
			ev := s.log.Warn()
			if apperr.Is(err, apperr.KindConflict) || apperr.Is(err, apperr.KindValidation) {
				ev = s.log.Debug()
			}
			ev.Err(err).Uint("lobby_id", l.ID).Msg("skip lobby in auto matchmaking")
			continue
		}
		queued = append(queued, l.ID)
	}
	return queued, nil
}
