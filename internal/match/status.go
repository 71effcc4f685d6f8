package match

type MatchStatus string

const (
	StatusWaiting            MatchStatus = "waiting"
	StatusReady              MatchStatus = "ready"
	StatusPreparing          MatchStatus = "preparing"
	StatusInProgress         MatchStatus = "in_progress"
	StatusAwaitingValidation MatchStatus = "awaiting_validation"
	StatusCompleted          MatchStatus = "completed"
	StatusCanceled           MatchStatus = "canceled"
)

// transitions is the only place match status legality is defined.
var transitions = map[MatchStatus][]MatchStatus{
	StatusWaiting:            {StatusReady, StatusPreparing, StatusInProgress, StatusCanceled},
	StatusReady:              {StatusPreparing, StatusInProgress, StatusCanceled},
	StatusPreparing:          {StatusInProgress, StatusCanceled},
	StatusInProgress:         {StatusAwaitingValidation, StatusCompleted, StatusCanceled},
	StatusAwaitingValidation: {StatusCompleted, StatusInProgress, StatusCanceled},
}

// CanTransition reports whether from -> to is a legal move.
func CanTransition(from, to MatchStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func (s MatchStatus) Valid() bool {
	switch s {
	case StatusWaiting, StatusReady, StatusPreparing, StatusInProgress,
		StatusAwaitingValidation, StatusCompleted, StatusCanceled:
		return true
	}
	return false
}

func (s MatchStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCanceled
}

// BettingOpen is true until the room starts playing.
func (s MatchStatus) BettingOpen() bool {
	return s == StatusWaiting || s == StatusReady || s == StatusPreparing
}

// Unfinished lists the statuses in which players are still bound to a match.
func Unfinished() []MatchStatus {
	return []MatchStatus{StatusWaiting, StatusReady, StatusPreparing, StatusInProgress, StatusAwaitingValidation}
}
