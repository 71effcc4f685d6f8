package friend

import (
	"errors"

	"github.com/DhavalSuthar-24/arena/internal/models"
	"github.com/DhavalSuthar-24/arena/internal/notification"
	"github.com/DhavalSuthar-24/arena/internal/user"
	"github.com/DhavalSuthar-24/arena/pkg/apperr"
	"gorm.io/gorm"
)

type FriendService struct {
	repo     FriendRepository
	users    user.UserRepository
	notifier notification.Notifier
}

func NewFriendService(db *gorm.DB, notifier notification.Notifier) *FriendService {
	return &FriendService{
		repo:     NewGormFriendRepository(db),
		users:    user.NewGormUserRepository(db),
		notifier: notifier,
	}
}

func (s *FriendService) Send(senderID uint, req SendRequest) (*FriendRequest, error) {
	var (
		target *user.User
		err    error
	)
	if req.UserID != 0 {
		target, err = s.users.GetByID(req.UserID)
	} else {
		target, err = s.users.GetByUsername(req.Username)
	}
	if err != nil {
		return nil, apperr.FromDB(err, "User not found")
	}
	if target.ID == senderID {
		return nil, apperr.Validation("You cannot send a friend request to yourself")
	}

	existing, err := s.repo.Between(senderID, target.ID)
	switch {
	case err == nil && existing.Status == StatusAccepted:
		return nil, apperr.Conflict("You are already friends")
	case err == nil:
		return nil, apperr.Conflict("A friend request is already pending")
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, apperr.Internal(err, "check friend request")
	}

	fr := &FriendRequest{SenderID: senderID, ReceiverID: target.ID, Status: StatusPending}
	if err := s.repo.Create(fr); err != nil {
		return nil, apperr.Internal(err, "create friend request")
	}
	s.notifier.Notify(target.ID, notification.Message{
		Type:  notification.TypeFriendRequest,
		Title: "Friend request",
		Body:  "You have a new friend request",
		Data:  models.JSONMap{"requestId": fr.ID, "senderId": senderID},
	})
	return fr, nil
}

// Requests lists pending requests; direction is incoming (default) or outgoing.
func (s *FriendService) Requests(userID uint, direction string) ([]RequestView, error) {
	var (
		rows []FriendRequest
		err  error
	)
	switch direction {
	case "", "incoming":
		rows, err = s.repo.Incoming(userID)
	case "outgoing":
		rows, err = s.repo.Outgoing(userID)
	default:
		return nil, apperr.Validation("direction must be incoming or outgoing")
	}
	if err != nil {
		return nil, apperr.Internal(err, "list friend requests")
	}
	return s.views(userID, rows)
}

func (s *FriendService) respond(userID, requestID uint, to Status) (*FriendRequest, error) {
	fr, err := s.repo.GetByID(requestID)
	if err != nil {
		return nil, apperr.FromDB(err, "Friend request not found")
	}
	if fr.ReceiverID != userID {
		return nil, apperr.Forbidden("Only the receiver can answer this request")
	}
	if fr.Status != StatusPending {
		return nil, apperr.Conflict("Friend request was already answered")
	}
	if err := s.repo.Resolve(fr.ID, to); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Conflict("Friend request was already answered")
		}
		return nil, apperr.Internal(err, "answer friend request")
	}
	fr.Status = to
	return fr, nil
}

func (s *FriendService) Accept(userID, requestID uint) (*FriendRequest, error) {
	fr, err := s.respond(userID, requestID, StatusAccepted)
	if err != nil {
		return nil, err
	}
	s.notifier.Notify(fr.SenderID, notification.Message{
		Type:  notification.TypeFriendAccepted,
		Title: "Friend request accepted",
		Body:  "Your friend request was accepted",
		Data:  models.JSONMap{"requestId": fr.ID, "userId": userID},
	})
	return fr, nil
}

func (s *FriendService) Reject(userID, requestID uint) (*FriendRequest, error) {
	return s.respond(userID, requestID, StatusRejected)
}

func (s *FriendService) List(userID uint) ([]RequestView, error) {
	rows, err := s.repo.Friends(userID)
	if err != nil {
		return nil, apperr.Internal(err, "list friends")
	}
	return s.views(userID, rows)
}

func (s *FriendService) Remove(userID, friendID uint) error {
	if err := s.repo.Remove(userID, friendID); err != nil {
		return apperr.FromDB(err, "Friendship not found")
	}
	return nil
}

// views attaches the other party's public profile to each row.
func (s *FriendService) views(userID uint, rows []FriendRequest) ([]RequestView, error) {
	out := make([]RequestView, 0, len(rows))
	for _, fr := range rows {
		other := fr.SenderID
		if other == userID {
			other = fr.ReceiverID
		}
		u, err := s.users.GetByID(other)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, apperr.Internal(err, "load friend")
		}
		out = append(out, RequestView{FriendRequest: fr, Other: user.ToPublic(u)})
	}
	return out, nil
}
