package match

import (
	"fmt"
	"mime/multipart"
	"time"

	"github.com/DhavalSuthar-24/arena/config"
	"github.com/DhavalSuthar-24/arena/internal/models"
	"github.com/DhavalSuthar-24/arena/internal/notification"
	"github.com/DhavalSuthar-24/arena/internal/user"
	"github.com/DhavalSuthar-24/arena/pkg/apperr"
	"github.com/DhavalSuthar-24/arena/pkg/logger"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

type MatchService struct {
	db       *gorm.DB
	cfg      *config.Config
	notifier notification.Notifier
	settler  Settler
	store    ResultStore
	now      func() time.Time
	log      zerolog.Logger
}

func NewMatchService(db *gorm.DB, cfg *config.Config, notifier notification.Notifier, settler Settler, store ResultStore) *MatchService {
	return &MatchService{
		db:       db,
		cfg:      cfg,
		notifier: notifier,
		settler:  settler,
		store:    store,
		now:      time.Now,
		log:      logger.Component("match"),
	}
}

// SetClock overrides the time source.
func (s *MatchService) SetClock(now func() time.Time) { s.now = now }

// New builds an unsaved match in the waiting state.
func New(source Source, lobbyID *uint, teamSize int, platformMode, gameplayMode string, players []MatchPlayer) *Match {
	return &Match{
		Code:         uuid.NewString(),
		LobbyID:      lobbyID,
		Source:       source,
		TeamSize:     teamSize,
		PlatformMode: platformMode,
		GameplayMode: gameplayMode,
		Status:       StatusWaiting,
		Players:      players,
	}
}

func (s *MatchService) repo() *GormMatchRepository { return NewGormMatchRepository(s.db) }

func (s *MatchService) load(id uint) (*Match, error) {
	m, err := s.repo().GetByID(id)
	if err != nil {
		return nil, apperr.FromDB(err, "Match not found")
	}
	return m, nil
}

func (s *MatchService) loadForViewer(id, viewerID uint, isAdmin bool) (*Match, bool, error) {
	m, err := s.load(id)
	if err != nil {
		return nil, false, err
	}
	_, participant := m.TeamOf(viewerID)
	if !participant && !isAdmin {
		return nil, false, apperr.Forbidden("You are not a participant of this match")
	}
	return m, participant || isAdmin, nil
}

func (s *MatchService) view(m *Match, privileged bool) *MatchView {
	cp := *m
	v := &MatchView{Match: &cp}
	if !privileged {
		cp.RoomID = ""
		return v
	}
	v.SenhaSala = m.RoomPassword
	if left, ok := m.TimeRemaining(s.now()); ok {
		v.TempoRestante = &left
	}
	return v
}

func (s *MatchService) Get(matchID, viewerID uint, isAdmin bool) (*MatchView, error) {
	m, privileged, err := s.loadForViewer(matchID, viewerID, isAdmin)
	if err != nil {
		return nil, err
	}
	return s.view(m, privileged), nil
}

// Status is the polling view; tempoRestante counts down from the room timer.
func (s *MatchService) Status(matchID, viewerID uint, isAdmin bool) (*StatusView, error) {
	m, _, err := s.loadForViewer(matchID, viewerID, isAdmin)
	if err != nil {
		return nil, err
	}
	sv := &StatusView{
		MatchID:    m.ID,
		Status:     m.Status,
		IDSala:     m.RoomID,
		SenhaSala:  m.RoomPassword,
		WinnerTeam: m.WinnerTeam,
	}
	if left, ok := m.TimeRemaining(s.now()); ok && m.Status == StatusInProgress {
		sv.TimerRunning = left > 0
		sv.TempoRestante = left
	}
	return sv, nil
}

func (s *MatchService) ListMine(userID uint, status string, page, pageSize int) ([]*MatchView, int64, error) {
	items, total, err := s.repo().ListForUser(userID, status, page, pageSize)
	if err != nil {
		return nil, 0, apperr.Internal(err, "list matches")
	}
	out := make([]*MatchView, 0, len(items))
	for i := range items {
		out = append(out, s.view(&items[i], true))
	}
	return out, total, nil
}

func (s *MatchService) ListAll(status string, page, pageSize int) ([]*MatchView, int64, error) {
	if status != "" && !MatchStatus(status).Valid() {
		return nil, 0, apperr.Validation("Unknown match status " + status)
	}
	items, total, err := s.repo().List(status, page, pageSize)
	if err != nil {
		return nil, 0, apperr.Internal(err, "list matches")
	}
	out := make([]*MatchView, 0, len(items))
	for i := range items {
		out = append(out, s.view(&items[i], true))
	}
	return out, total, nil
}

// ConfigureRoom sets the game-client credentials. With startTimer the match
// goes live and the room timer starts; otherwise it moves to preparing.
func (s *MatchService) ConfigureRoom(matchID uint, idSala, senhaSala string, startTimer bool) (*MatchView, error) {
	var m *Match
	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := NewGormMatchRepository(tx)
		cur, err := repo.GetByID(matchID)
		if err != nil {
			return apperr.FromDB(err, "Match not found")
		}
		now := s.now()
		fields := map[string]interface{}{"room_id": idSala, "room_password": senhaSala}
		if startTimer {
			fields["timer_started_at"] = now
			fields["timer_duration"] = s.cfg.Matchmaking.TimerSeconds
		}

		switch {
		case cur.Status == StatusInProgress:
			err = guardedUpdate(tx, cur.ID, cur.Status, fields)
		case cur.Status == StatusPreparing && !startTimer:
			err = guardedUpdate(tx, cur.ID, cur.Status, fields)
		case startTimer:
			fields["started_at"] = now
			err = repo.TransitionStatus(cur.ID, cur.Status, StatusInProgress, fields)
		default:
			err = repo.TransitionStatus(cur.ID, cur.Status, StatusPreparing, fields)
		}
		if err != nil {
			return err
		}
		m, err = repo.GetByID(cur.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.notifier.NotifyMany(m.PlayerIDs(), notification.Message{
		Type:  notification.TypeRoomConfigured,
		Title: "Room ready",
		Body:  fmt.Sprintf("Room %s is ready for match %s", m.RoomID, m.Code),
		Data: models.JSONMap{
			"matchId":    m.ID,
			"idSala":     m.RoomID,
			"senhaSala":  m.RoomPassword,
			"timerStart": startTimer,
		},
	})
	return s.view(m, true), nil
}

func guardedUpdate(tx *gorm.DB, id uint, status MatchStatus, fields map[string]interface{}) error {
	res := tx.Model(&Match{}).Where("id = ? AND status = ?", id, status).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.Conflict("Match status changed concurrently, reload and retry")
	}
	return nil
}

// SubmitResult stores the screenshot and hands the match to the admins.
func (s *MatchService) SubmitResult(userID, matchID uint, file *multipart.FileHeader) (*MatchView, error) {
	m, err := s.load(matchID)
	if err != nil {
		return nil, err
	}
	if _, ok := m.TeamOf(userID); !ok {
		return nil, apperr.Forbidden("Only match participants can submit a result")
	}
	if m.Status != StatusInProgress {
		return nil, apperr.Conflict("Results can only be submitted while the match is in progress")
	}

	url, err := s.store.Save(m.ID, file)
	if err != nil {
		return nil, err
	}
	now := s.now()
	repo := s.repo()
	err = repo.TransitionStatus(m.ID, StatusInProgress, StatusAwaitingValidation, map[string]interface{}{
		"result_image_url":    url,
		"result_submitted_by": userID,
		"result_submitted_at": now,
	})
	if err != nil {
		return nil, err
	}
	if m, err = s.load(matchID); err != nil {
		return nil, err
	}

	admins, err := s.adminIDs()
	if err != nil {
		s.log.Warn().Err(err).Msg("load admins for result notification")
	}
	s.notifier.NotifyMany(admins, notification.Message{
		Type:  notification.TypeResultSubmitted,
		Title: "Result awaiting validation",
		Body:  fmt.Sprintf("Match %s has a result to review", m.Code),
		Data:  models.JSONMap{"matchId": m.ID, "imageUrl": url, "submittedBy": userID},
	})
	return s.view(m, true), nil
}

func (s *MatchService) adminIDs() ([]uint, error) {
	var ids []uint
	err := s.db.Model(&user.User{}).Where("role = ? AND banned = ?", user.RoleAdmin, false).Pluck("id", &ids).Error
	return ids, err
}

// Validate approves a result (settling bets, updating ranks, releasing
// lobbies) or sends the match back to in_progress.
func (s *MatchService) Validate(matchID uint, approve bool, winnerTeam int, reason string) (*MatchView, error) {
	if !approve {
		return s.reject(matchID, reason)
	}

	var (
		m           *Match
		settlements []Settlement
	)
	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := NewGormMatchRepository(tx)
		cur, err := repo.GetByID(matchID)
		if err != nil {
			return apperr.FromDB(err, "Match not found")
		}
		if cur.Status != StatusAwaitingValidation && cur.Status != StatusInProgress {
			return apperr.Conflict(fmt.Sprintf("Match in status %s cannot be validated", cur.Status))
		}
		if !cur.HasTeam(winnerTeam) {
			return apperr.Validation("winnerTeam is not a team of this match")
		}
		now := s.now()
		if err := repo.TransitionStatus(cur.ID, cur.Status, StatusCompleted, map[string]interface{}{
			"winner_team":  winnerTeam,
			"completed_at": now,
		}); err != nil {
			return err
		}
		if m, err = repo.GetByID(cur.ID); err != nil {
			return err
		}

		if s.settler != nil {
			if settlements, err = s.settler.Settle(tx, m); err != nil {
				return err
			}
		}
		users := user.NewGormUserRepository(tx)
		for _, p := range m.Players {
			if err := users.RecordResult(p.UserID, p.Team == winnerTeam); err != nil {
				return apperr.Internal(err, "record player result")
			}
		}
		return ReleaseLobbies(tx, m.LobbyIDs())
	})
	if err != nil {
		return nil, err
	}

	s.notifier.NotifyMany(m.PlayerIDs(), notification.Message{
		Type:  notification.TypeMatchCompleted,
		Title: "Match finished",
		Body:  fmt.Sprintf("Team %d won match %s", winnerTeam, m.Code),
		Data:  models.JSONMap{"matchId": m.ID, "winnerTeam": winnerTeam},
	})
	s.notifySettlements(m, settlements)
	return s.view(m, true), nil
}

func (s *MatchService) reject(matchID uint, reason string) (*MatchView, error) {
	m, err := s.load(matchID)
	if err != nil {
		return nil, err
	}
	if m.Status != StatusAwaitingValidation {
		return nil, apperr.Conflict("Only submitted results can be rejected")
	}
	submitter := m.ResultSubmittedBy
	err = s.repo().TransitionStatus(m.ID, StatusAwaitingValidation, StatusInProgress, map[string]interface{}{
		"result_submitted_by": nil,
		"result_submitted_at": nil,
	})
	if err != nil {
		return nil, err
	}
	if m, err = s.load(matchID); err != nil {
		return nil, err
	}
	if submitter != nil {
		body := "Your submitted result was rejected"
		if reason != "" {
			body += ": " + reason
		}
		s.notifier.Notify(*submitter, notification.Message{
			Type:  notification.TypeResultRejected,
			Title: "Result rejected",
			Body:  body,
			Data:  models.JSONMap{"matchId": m.ID, "reason": reason},
		})
	}
	return s.view(m, true), nil
}

// Cancel stops a match from any non-terminal status and refunds open bets.
func (s *MatchService) Cancel(matchID uint, reason string) (*MatchView, error) {
	var (
		m           *Match
		settlements []Settlement
	)
	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := NewGormMatchRepository(tx)
		cur, err := repo.GetByID(matchID)
		if err != nil {
			return apperr.FromDB(err, "Match not found")
		}
		if err := repo.TransitionStatus(cur.ID, cur.Status, StatusCanceled, map[string]interface{}{
			"cancel_reason": reason,
			"completed_at":  s.now(),
		}); err != nil {
			return err
		}
		if m, err = repo.GetByID(cur.ID); err != nil {
			return err
		}
		if s.settler != nil {
			if settlements, err = s.settler.Refund(tx, m.ID); err != nil {
				return err
			}
		}
		return ReleaseLobbies(tx, m.LobbyIDs())
	})
	if err != nil {
		return nil, err
	}

	body := fmt.Sprintf("Match %s was canceled", m.Code)
	if reason != "" {
		body += ": " + reason
	}
	s.notifier.NotifyMany(m.PlayerIDs(), notification.Message{
		Type:  notification.TypeMatchCanceled,
		Title: "Match canceled",
		Body:  body,
		Data:  models.JSONMap{"matchId": m.ID, "reason": reason},
	})
	s.notifySettlements(m, settlements)
	return s.view(m, true), nil
}

func (s *MatchService) notifySettlements(m *Match, settlements []Settlement) {
	for _, st := range settlements {
		var body string
		switch {
		case st.Refund:
			body = fmt.Sprintf("Your bet on match %s was refunded (%d coins)", m.Code, st.Payout)
		case st.Won:
			body = fmt.Sprintf("You won %d coins on match %s", st.Payout, m.Code)
		default:
			body = fmt.Sprintf("Your bet on match %s was lost", m.Code)
		}
		s.notifier.Notify(st.UserID, notification.Message{
			Type:  notification.TypeBetSettled,
			Title: "Bet settled",
			Body:  body,
			Data:  models.JSONMap{"matchId": m.ID, "betId": st.BetID, "won": st.Won, "payout": st.Payout, "refund": st.Refund},
		})
	}
}
