package notification

import (
	"github.com/DhavalSuthar-24/arena/pkg/logger"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Notifier is the fire-and-forget side effect other domains depend on.
type Notifier interface {
	Notify(userID uint, msg Message)
	NotifyMany(userIDs []uint, msg Message)
}

type pusher interface {
	Push(userID uint, ev Event)
}

// Sink stores notifications and pushes them to live sockets. Failures are
// logged and never returned.
type Sink struct {
	repo NotificationRepository
	hub  pusher
	log  zerolog.Logger
}

// NewSink accepts a nil hub, in which case nothing is pushed.
func NewSink(db *gorm.DB, hub *Hub) *Sink {
	s := &Sink{repo: NewGormNotificationRepository(db), log: logger.Component("notification")}
	if hub != nil {
		s.hub = hub
	}
	return s
}

func (s *Sink) Notify(userID uint, msg Message) {
	s.NotifyMany([]uint{userID}, msg)
}

func (s *Sink) NotifyMany(userIDs []uint, msg Message) {
	seen := make(map[uint]struct{}, len(userIDs))
	rows := make([]Notification, 0, len(userIDs))
	for _, id := range userIDs {
		if id == 0 {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		rows = append(rows, Notification{
			UserID:  id,
			Type:    msg.Type,
			Title:   msg.Title,
			Message: msg.Body,
			Data:    msg.Data,
		})
	}
	if len(rows) == 0 {
		return
	}
	if err := s.repo.CreateBatch(rows); err != nil {
		s.log.Warn().Err(err).Str("type", string(msg.Type)).Int("recipients", len(rows)).Msg("notification insert failed")
		return
	}
	if s.hub == nil {
		return
	}
	for i := range rows {
		s.hub.Push(rows[i].UserID, Event{Event: "notification", Data: rows[i]})
	}
}
