package lobby

import (
	"errors"
	"fmt"

	"github.com/DhavalSuthar-24/arena/config"
	"github.com/DhavalSuthar-24/arena/internal/match"
	"github.com/DhavalSuthar-24/arena/internal/models"
	"github.com/DhavalSuthar-24/arena/internal/notification"
	"github.com/DhavalSuthar-24/arena/internal/user"
	"github.com/DhavalSuthar-24/arena/pkg/apperr"
	"github.com/DhavalSuthar-24/arena/pkg/logger"
	"github.com/DhavalSuthar-24/arena/pkg/metrics"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// QueueRemover drops a lobby's unclaimed matchmaking entries inside tx.
type QueueRemover interface {
	RemoveLobbyEntries(tx *gorm.DB, lobbyID uint) (int64, error)
}

type LobbyService struct {
	db       *gorm.DB
	cfg      *config.Config
	notifier notification.Notifier
	queue    QueueRemover
	log      zerolog.Logger
}

func NewLobbyService(db *gorm.DB, cfg *config.Config, notifier notification.Notifier, queue QueueRemover) *LobbyService {
	return &LobbyService{db: db, cfg: cfg, notifier: notifier, queue: queue, log: logger.Component("lobby")}
}

func (s *LobbyService) repo() *GormLobbyRepository { return NewGormLobbyRepository(s.db) }

func (s *LobbyService) load(repo LobbyRepository, id uint) (*Lobby, error) {
	l, err := repo.GetByID(id)
	if err != nil {
		return nil, apperr.FromDB(err, "Lobby not found")
	}
	return l, nil
}

func ensureFree(repo LobbyRepository, userID uint) error {
	_, err := repo.OpenForUser(userID)
	if err == nil {
		return apperr.Conflict("You are already in a lobby")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.Internal(err, "check open lobby")
	}
	return nil
}

func (s *LobbyService) Create(ownerID uint, req CreateLobbyRequest) (*LobbyView, error) {
	platform, gameplay := req.PlatformMode, req.GameplayMode
	if platform == "" {
		platform = "mobile"
	}
	if gameplay == "" {
		gameplay = "battle_royale"
	}

	var l *Lobby
	err := s.repo().WithTransaction(func(repo LobbyRepository) error {
		if err := ensureFree(repo, ownerID); err != nil {
			return err
		}
		l = &Lobby{
			OwnerID:      ownerID,
			LobbyType:    req.LobbyType,
			MaxPlayers:   req.LobbyType.MaxPlayers(),
			Status:       StatusActive,
			PlatformMode: platform,
			GameplayMode: gameplay,
		}
		if err := repo.Create(l); err != nil {
			return apperr.Internal(err, "create lobby")
		}
		if err := repo.AddMember(l.ID, ownerID); err != nil {
			return apperr.Internal(err, "add owner")
		}
		var err error
		l, err = repo.GetByID(l.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ToView(l), nil
}

func (s *LobbyService) Current(userID uint) (*LobbyView, error) {
	l, err := s.repo().OpenForUser(userID)
	if err != nil {
		return nil, apperr.FromDB(err, "You are not in a lobby")
	}
	return ToView(l), nil
}

func (s *LobbyService) Get(id, userID uint, isAdmin bool) (*LobbyView, error) {
	l, err := s.load(s.repo(), id)
	if err != nil {
		return nil, err
	}
	if !isAdmin && !l.IsMember(userID) {
		return nil, apperr.Forbidden("You are not a member of this lobby")
	}
	return ToView(l), nil
}

// join adds userID to the lobby inside the caller's transaction. Joining a
// lobby you are already in is a no-op.
func join(repo LobbyRepository, lobbyID, userID uint) (*Lobby, error) {
	l, err := repo.GetByIDForUpdate(lobbyID)
	if err != nil {
		return nil, apperr.FromDB(err, "Lobby not found")
	}
	if l.IsMember(userID) {
		return l, nil
	}
	if l.Status != StatusActive {
		return nil, apperr.Conflict("Lobby is not accepting players")
	}
	if l.Full() {
		return nil, apperr.Conflict("Lobby is full")
	}
	if err := ensureFree(repo, userID); err != nil {
		return nil, err
	}
	if err := repo.AddMember(l.ID, userID); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("Already a member")
		}
		return nil, apperr.Internal(err, "add member")
	}
	return repo.GetByID(l.ID)
}

func (s *LobbyService) Join(lobbyID, userID uint) (*LobbyView, error) {
	var l *Lobby
	err := s.repo().WithTransaction(func(repo LobbyRepository) error {
		var err error
		l, err = join(repo, lobbyID, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ToView(l), nil
}

func (s *LobbyService) Invite(lobbyID, inviterID, inviteeID uint) (*LobbyInvite, error) {
	if inviterID == inviteeID {
		return nil, apperr.Validation("You cannot invite yourself")
	}
	repo := s.repo()
	l, err := s.load(repo, lobbyID)
	if err != nil {
		return nil, err
	}
	if !l.IsMember(inviterID) {
		return nil, apperr.Forbidden("Only lobby members can invite")
	}
	if l.Status != StatusActive {
		return nil, apperr.Conflict("Lobby is not accepting players")
	}
	if l.IsMember(inviteeID) {
		return nil, apperr.Conflict("User is already in this lobby")
	}
	if l.Full() {
		return nil, apperr.Conflict("Lobby is full")
	}
	if _, err := user.NewGormUserRepository(s.db).GetByID(inviteeID); err != nil {
		return nil, apperr.FromDB(err, "User not found")
	}
	if _, err := repo.PendingInvite(lobbyID, inviteeID); err == nil {
		return nil, apperr.Conflict("User already has a pending invite to this lobby")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Internal(err, "check invite")
	}

	inv := &LobbyInvite{LobbyID: lobbyID, InviterID: inviterID, InviteeID: inviteeID, Status: InvitePending}
	if err := repo.CreateInvite(inv); err != nil {
		return nil, apperr.Internal(err, "create invite")
	}
	s.notifier.Notify(inviteeID, notification.Message{
		Type:  notification.TypeLobbyInvite,
		Title: "Lobby invite",
		Body:  "You were invited to join a lobby",
		Data:  models.JSONMap{"lobbyId": lobbyID, "inviteId": inv.ID, "inviterId": inviterID},
	})
	return inv, nil
}

func (s *LobbyService) Invites(userID uint) ([]LobbyInvite, error) {
	out, err := s.repo().InvitesFor(userID)
	if err != nil {
		return nil, apperr.Internal(err, "list invites")
	}
	return out, nil
}

func (s *LobbyService) loadInvite(repo LobbyRepository, inviteID, userID uint) (*LobbyInvite, error) {
	inv, err := repo.GetInvite(inviteID)
	if err != nil {
		return nil, apperr.FromDB(err, "Invite not found")
	}
	if inv.InviteeID != userID {
		return nil, apperr.Forbidden("This invite is not for you")
	}
	if inv.Status != InvitePending {
		return nil, apperr.Conflict("Invite is no longer pending")
	}
	return inv, nil
}

func (s *LobbyService) AcceptInvite(inviteID, userID uint) (*LobbyView, error) {
	var l *Lobby
	err := s.repo().WithTransaction(func(repo LobbyRepository) error {
		inv, err := s.loadInvite(repo, inviteID, userID)
		if err != nil {
			return err
		}
		if l, err = join(repo, inv.LobbyID, userID); err != nil {
			return err
		}
		return repo.ResolveInvite(inv.ID, InviteAccepted)
	})
	if err != nil {
		return nil, err
	}
	return ToView(l), nil
}

func (s *LobbyService) DeclineInvite(inviteID, userID uint) error {
	repo := s.repo()
	inv, err := s.loadInvite(repo, inviteID, userID)
	if err != nil {
		return err
	}
	return repo.ResolveInvite(inv.ID, InviteDeclined)
}

// dequeue pulls a matchmaking lobby back to active.
func (s *LobbyService) dequeue(tx *gorm.DB, repo LobbyRepository, l *Lobby) error {
	if l.Status != StatusMatchmaking {
		return nil
	}
	if s.queue != nil {
		if _, err := s.queue.RemoveLobbyEntries(tx, l.ID); err != nil {
			return apperr.Internal(err, "remove queue entry")
		}
	}
	return repo.TransitionStatus(l.ID, StatusMatchmaking, StatusActive)
}

// Leave closes the lobby when the owner leaves; anyone else just drops out.
func (s *LobbyService) Leave(lobbyID, userID uint) error {
	var (
		l      *Lobby
		closed bool
	)
	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := NewGormLobbyRepository(tx)
		var err error
		if l, err = s.load(repo, lobbyID); err != nil {
			return err
		}
		if !l.IsMember(userID) {
			return apperr.NotFound("You are not a member of this lobby")
		}
		if l.Status == StatusInGame {
			return apperr.Conflict("Finish the current match before leaving")
		}
		if l.Status == StatusClosed {
			return apperr.Conflict("Lobby is already closed")
		}
		if l.OwnerID == userID {
			if l.Status == StatusMatchmaking && s.queue != nil {
				if _, err := s.queue.RemoveLobbyEntries(tx, l.ID); err != nil {
					return apperr.Internal(err, "remove queue entry")
				}
			}
			closed = true
			return repo.TransitionStatus(l.ID, l.Status, StatusClosed)
		}
		if err := s.dequeue(tx, repo, l); err != nil {
			return err
		}
		if err := repo.RemoveMember(l.ID, userID); err != nil {
			return apperr.FromDB(err, "You are not a member of this lobby")
		}
		return nil
	})
	if err != nil {
		return err
	}

	if closed {
		others := make([]uint, 0, len(l.Members))
		for _, id := range l.MemberIDs() {
			if id != userID {
				others = append(others, id)
			}
		}
		s.notifier.NotifyMany(others, notification.Message{
			Type:  notification.TypeLobbyClosed,
			Title: "Lobby closed",
			Body:  "The lobby owner closed the lobby",
			Data:  models.JSONMap{"lobbyId": l.ID},
		})
	}
	return nil
}

func (s *LobbyService) Kick(lobbyID, ownerID, targetID uint) (*LobbyView, error) {
	var l *Lobby
	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := NewGormLobbyRepository(tx)
		var err error
		if l, err = s.load(repo, lobbyID); err != nil {
			return err
		}
		if l.OwnerID != ownerID {
			return apperr.Forbidden("Only the lobby owner can kick members")
		}
		if targetID == ownerID {
			return apperr.Validation("You cannot kick yourself")
		}
		if !l.IsMember(targetID) {
			return apperr.NotFound("User is not a member of this lobby")
		}
		if l.Status == StatusInGame {
			return apperr.Conflict("Cannot kick while the lobby is in a match")
		}
		if err := s.dequeue(tx, repo, l); err != nil {
			return err
		}
		if err := repo.RemoveMember(l.ID, targetID); err != nil {
			return apperr.FromDB(err, "User is not a member of this lobby")
		}
		l, err = repo.GetByID(l.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.notifier.Notify(targetID, notification.Message{
		Type:  notification.TypeLobbyKicked,
		Title: "Removed from lobby",
		Body:  "The lobby owner removed you from the lobby",
		Data:  models.JSONMap{"lobbyId": l.ID},
	})
	return ToView(l), nil
}

func (s *LobbyService) SetReady(lobbyID, userID uint, ready bool) (*LobbyView, error) {
	repo := s.repo()
	l, err := s.load(repo, lobbyID)
	if err != nil {
		return nil, err
	}
	if !l.IsMember(userID) {
		return nil, apperr.Forbidden("You are not a member of this lobby")
	}
	if l.Status != StatusActive {
		return nil, apperr.Conflict(fmt.Sprintf("Cannot change ready state while lobby is %s", l.Status))
	}
	if _, err := repo.SetReady(l.ID, userID, ready); err != nil {
		return nil, apperr.Internal(err, "set ready")
	}
	if l, err = s.load(repo, lobbyID); err != nil {
		return nil, err
	}
	return ToView(l), nil
}

// Start turns a ready lobby into a waiting match. The match insert and the
// lobby flip to in_game commit together.
func (s *LobbyService) Start(lobbyID, userID uint) (*match.Match, error) {
	var (
		l *Lobby
		m *match.Match
	)
	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := NewGormLobbyRepository(tx)
		var err error
		if l, err = s.load(repo, lobbyID); err != nil {
			return err
		}
		if l.OwnerID != userID {
			return apperr.Forbidden("Only the lobby owner can start the match")
		}
		if l.Status != StatusActive {
			return apperr.Conflict(fmt.Sprintf("Lobby is %s, expected active", l.Status))
		}
		if !l.AllReady() {
			return apperr.Conflict("All members must be ready")
		}
		matches := match.NewGormMatchRepository(tx)
		busy, err := matches.AnyUnfinished(l.MemberIDs())
		if err != nil {
			return apperr.Internal(err, "check unfinished matches")
		}
		if busy {
			return apperr.Conflict("A member is still in an unfinished match")
		}

		lobbyRef := l.ID
		players := make([]match.MatchPlayer, 0, len(l.Members))
		for _, mem := range l.Members {
			players = append(players, match.MatchPlayer{UserID: mem.UserID, Team: 1, LobbyID: &lobbyRef})
		}
		m = match.New(match.SourceLobby, &lobbyRef, l.MaxPlayers, l.PlatformMode, l.GameplayMode, players)
		if err := matches.Create(m); err != nil {
			return apperr.Internal(err, "create match")
		}
		return repo.TransitionStatus(l.ID, StatusActive, StatusInGame)
	})
	if err != nil {
		return nil, err
	}

	metrics.MatchesFormed.WithLabelValues(string(match.SourceLobby)).Inc()
	s.log.Info().Uint("lobby_id", l.ID).Uint("match_id", m.ID).Int("players", len(m.Players)).Msg("lobby started match")
	s.notifier.NotifyMany(l.MemberIDs(), notification.Message{
		Type:  notification.TypeMatchCreated,
		Title: "Match created",
		Body:  "Your lobby match is waiting for room setup",
		Data:  models.JSONMap{"matchId": m.ID, "lobbyId": l.ID},
	})
	return m, nil
}
