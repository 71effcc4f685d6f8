package matchmaking_test

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/DhavalSuthar-24/arena/config"
	"github.com/DhavalSuthar-24/arena/internal/lobby"
	"github.com/DhavalSuthar-24/arena/internal/match"
	"github.com/DhavalSuthar-24/arena/internal/matchmaking"
	"github.com/DhavalSuthar-24/arena/internal/notification"
	"github.com/DhavalSuthar-24/arena/internal/testutil"
	"github.com/DhavalSuthar-24/arena/internal/user"
	"github.com/DhavalSuthar-24/arena/pkg/apperr"
	"github.com/DhavalSuthar-24/arena/pkg/lock"
	"github.com/DhavalSuthar-24/arena/pkg/logger"
)

type env struct {
	db       *gorm.DB
	cfg      *config.Config
	mm       *matchmaking.MatchmakingService
	lobbies  *lobby.LobbyService
	notifier *testutil.Notifier
}

func newEnv(t *testing.T) *env {
	db := testutil.NewDB(t)
	cfg := testutil.Config(t)
	n := &testutil.Notifier{}
	mm := matchmaking.NewMatchmakingService(db, cfg)
	return &env{db: db, cfg: cfg, mm: mm, lobbies: lobby.NewLobbyService(db, cfg, n, mm), notifier: n}
}

func (e *env) processor(locker lock.Locker) *matchmaking.Processor {
	return matchmaking.NewProcessor(e.db, locker, e.notifier, e.cfg.QueueTTL())
}

func (e *env) queued(t *testing.T) int64 {
	t.Helper()
	n, err := matchmaking.NewGormQueueRepository(e.db).Count()
	require.NoError(t, err)
	return n
}

// readyDuo builds an active duo lobby with both members ready.
func (e *env) readyDuo(t *testing.T) (*lobby.LobbyView, *user.User, *user.User) {
	t.Helper()
	owner, mate := testutil.CreateUser(t, e.db, "owner"), testutil.CreateUser(t, e.db, "mate")
	v, err := e.lobbies.Create(owner.ID, lobby.CreateLobbyRequest{LobbyType: lobby.TypeDuo})
	require.NoError(t, err)
	_, err = e.lobbies.Join(v.ID, mate.ID)
	require.NoError(t, err)
	for _, id := range []uint{owner.ID, mate.ID} {
		_, err = e.lobbies.SetReady(v.ID, id, true)
		require.NoError(t, err)
	}
	return v, owner, mate
}

func lobbyStatus(t *testing.T, db *gorm.DB, id uint) lobby.Status {
	t.Helper()
	var l lobby.Lobby
	require.NoError(t, db.First(&l, id).Error)
	return l.Status
}

func solo(teamSize int) matchmaking.FindRequest {
	return matchmaking.FindRequest{TeamSize: teamSize, PlatformMode: "mobile", GameplayMode: "battle_royale"}
}

func TestCancelWithoutEntryIsNotFound(t *testing.T) {
	e := newEnv(t)
	a, b := testutil.CreateUser(t, e.db, "a"), testutil.CreateUser(t, e.db, "b")
	entry, err := e.mm.Find(a.ID, solo(1))
	require.NoError(t, err)

	_, err = e.mm.Cancel(b.ID, nil)
	assert.Equal(t, 404, apperr.StatusCode(err))

	id := entry.ID
	_, err = e.mm.Cancel(b.ID, &id)
	assert.Equal(t, 404, apperr.StatusCode(err))
	assert.Equal(t, int64(1), e.queued(t))
}

func TestFindThenCancelWithoutWaitingID(t *testing.T) {
	e := newEnv(t)
	a := testutil.CreateUser(t, e.db, "a")

	entry, err := e.mm.Find(a.ID, solo(2))
	require.NoError(t, err)
	assert.NotZero(t, entry.ID)

	_, err = e.mm.Find(a.ID, solo(2))
	assert.Equal(t, 409, apperr.StatusCode(err))

	st, err := e.mm.Status(a.ID)
	require.NoError(t, err)
	assert.Equal(t, matchmaking.StateSearching, st.Status)
	require.NotNil(t, st.WaitingID)
	assert.Equal(t, entry.ID, *st.WaitingID)

	cancelled, err := e.mm.Cancel(a.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, entry.ID, cancelled.ID)
	assert.Zero(t, e.queued(t))

	st, err = e.mm.Status(a.ID)
	require.NoError(t, err)
	assert.Equal(t, matchmaking.StateIdle, st.Status)
}

func TestFindRejectsLobbyMembers(t *testing.T) {
	e := newEnv(t)
	_, owner, _ := e.readyDuo(t)
	_, err := e.mm.Find(owner.ID, solo(2))
	assert.Equal(t, 409, apperr.StatusCode(err))
}

func TestEnqueueLobbyAndCancel(t *testing.T) {
	e := newEnv(t)
	v, owner, mate := e.readyDuo(t)
	req := matchmaking.LobbyQueueRequest{LobbyID: v.ID, PlatformMode: "mobile", GameplayMode: "battle_royale"}

	_, err := e.mm.EnqueueLobby(mate.ID, req)
	assert.Equal(t, 403, apperr.StatusCode(err))

	req.TeamSize = 1
	_, err = e.mm.EnqueueLobby(owner.ID, req)
	assert.Equal(t, 400, apperr.StatusCode(err))

	req.TeamSize = 0
	entry, err := e.mm.EnqueueLobby(owner.ID, req)
	require.NoError(t, err)
	assert.Equal(t, 2, entry.TeamSize)
	assert.Equal(t, 2, entry.Size)
	assert.Equal(t, lobby.StatusMatchmaking, lobbyStatus(t, e.db, v.ID))

	_, err = e.mm.EnqueueLobby(owner.ID, req)
	assert.Equal(t, 409, apperr.StatusCode(err))

	// any member may pull the lobby out
	_, err = e.mm.Cancel(mate.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, lobby.StatusActive, lobbyStatus(t, e.db, v.ID))
	assert.Zero(t, e.queued(t))
}

func TestEnqueueLobbyRequiresEveryoneReady(t *testing.T) {
	e := newEnv(t)
	v, owner, mate := e.readyDuo(t)
	_, err := e.lobbies.SetReady(v.ID, mate.ID, false)
	require.NoError(t, err)

	_, err = e.mm.EnqueueLobby(owner.ID, matchmaking.LobbyQueueRequest{LobbyID: v.ID, PlatformMode: "mobile", GameplayMode: "battle_royale"})
	assert.Equal(t, 409, apperr.StatusCode(err))
	assert.Equal(t, lobby.StatusActive, lobbyStatus(t, e.db, v.ID))
}

func TestLeavingQueuedLobbyDropsEntry(t *testing.T) {
	e := newEnv(t)
	v, owner, mate := e.readyDuo(t)
	_, err := e.mm.EnqueueLobby(owner.ID, matchmaking.LobbyQueueRequest{LobbyID: v.ID, PlatformMode: "mobile", GameplayMode: "battle_royale"})
	require.NoError(t, err)

	require.NoError(t, e.lobbies.Leave(v.ID, mate.ID))
	assert.Zero(t, e.queued(t))
	assert.Equal(t, lobby.StatusActive, lobbyStatus(t, e.db, v.ID))
	_, err = e.mm.Cancel(owner.ID, nil)
	assert.Equal(t, 404, apperr.StatusCode(err))
}

func TestProcessPairsSolos(t *testing.T) {
	e := newEnv(t)
	a, b := testutil.CreateUser(t, e.db, "a"), testutil.CreateUser(t, e.db, "b")
	c := testutil.CreateUser(t, e.db, "c")
	for _, u := range []*user.User{a, b, c} {
		_, err := e.mm.Find(u.ID, solo(1))
		require.NoError(t, err)
	}

	sum, err := e.processor(lock.NewLocalLocker()).Process(context.Background())
	require.NoError(t, err)
	assert.False(t, sum.Skipped)
	assert.Equal(t, 3, sum.Pending)
	assert.Equal(t, 1, sum.MatchesCreated)
	require.Len(t, sum.MatchIDs, 1)

	m, err := match.NewGormMatchRepository(e.db).GetByID(sum.MatchIDs[0])
	require.NoError(t, err)
	assert.Equal(t, match.StatusWaiting, m.Status)
	assert.Equal(t, match.SourceQueue, m.Source)
	teamA, _ := m.TeamOf(a.ID)
	teamB, _ := m.TeamOf(b.ID)
	assert.Equal(t, 1, teamA)
	assert.Equal(t, 2, teamB)
	assert.ElementsMatch(t, []uint{a.ID, b.ID}, e.notifier.Of(notification.TypeMatchFound))

	// c keeps waiting
	assert.Equal(t, int64(1), e.queued(t))
	st, err := e.mm.Status(a.ID)
	require.NoError(t, err)
	assert.Equal(t, matchmaking.StateWaiting, st.Status)
	require.NotNil(t, st.MatchID)
	assert.Equal(t, m.ID, *st.MatchID)

	st, err = e.mm.Status(c.ID)
	require.NoError(t, err)
	assert.Equal(t, matchmaking.StateSearching, st.Status)

	_, err = e.mm.Find(a.ID, solo(1))
	assert.Equal(t, 409, apperr.StatusCode(err), "still bound to an unfinished match")
}

func TestProcessPairsLobbies(t *testing.T) {
	e := newEnv(t)
	var lobbyIDs []uint
	for i := 0; i < 2; i++ {
		v, owner, _ := e.readyDuo(t)
		_, err := e.mm.EnqueueLobby(owner.ID, matchmaking.LobbyQueueRequest{LobbyID: v.ID, PlatformMode: "mobile", GameplayMode: "battle_royale"})
		require.NoError(t, err)
		lobbyIDs = append(lobbyIDs, v.ID)
	}

	sum, err := e.processor(lock.NewLocalLocker()).Process(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, sum.MatchesCreated)

	m, err := match.NewGormMatchRepository(e.db).GetByID(sum.MatchIDs[0])
	require.NoError(t, err)
	assert.Len(t, m.Players, 4)
	assert.ElementsMatch(t, lobbyIDs, m.LobbyIDs())
	for _, p := range m.Players {
		require.NotNil(t, p.LobbyID)
		if *p.LobbyID == lobbyIDs[0] {
			assert.Equal(t, 1, p.Team)
		} else {
			assert.Equal(t, 2, p.Team)
		}
	}
	for _, id := range lobbyIDs {
		assert.Equal(t, lobby.StatusInGame, lobbyStatus(t, e.db, id))
	}
	assert.Zero(t, e.queued(t))
}

func TestProcessPairsLobbiesQueuedBehindSolo(t *testing.T) {
	e := newEnv(t)
	waiting := testutil.CreateUser(t, e.db, "solo")
	_, err := e.mm.Find(waiting.ID, solo(2))
	require.NoError(t, err)

	var lobbyIDs []uint
	for i := 0; i < 2; i++ {
		v, owner, _ := e.readyDuo(t)
		_, err := e.mm.EnqueueLobby(owner.ID, matchmaking.LobbyQueueRequest{LobbyID: v.ID, PlatformMode: "mobile", GameplayMode: "battle_royale"})
		require.NoError(t, err)
		lobbyIDs = append(lobbyIDs, v.ID)
	}

	sum, err := e.processor(lock.NewLocalLocker()).Process(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, sum.MatchesCreated)

	m, err := match.NewGormMatchRepository(e.db).GetByID(sum.MatchIDs[0])
	require.NoError(t, err)
	assert.ElementsMatch(t, lobbyIDs, m.LobbyIDs())
	assert.Equal(t, int64(1), e.queued(t))

	status, err := e.mm.Status(waiting.ID)
	require.NoError(t, err)
	assert.Equal(t, matchmaking.StateSearching, status.Status)
}

func TestConcurrentPassesCreateOneMatch(t *testing.T) {
	e := newEnv(t)
	for i := 0; i < 2; i++ {
		u := testutil.CreateUser(t, e.db, "p")
		_, err := e.mm.Find(u.ID, solo(1))
		require.NoError(t, err)
	}

	// separate lockers simulate two API instances without shared redis
	procs := []*matchmaking.Processor{e.processor(lock.NewLocalLocker()), e.processor(lock.NewLocalLocker())}
	sums := make([]*matchmaking.Summary, len(procs))
	errs := make([]error, len(procs))
	var wg sync.WaitGroup
	for i, p := range procs {
		wg.Add(1)
		go func(i int, p *matchmaking.Processor) {
			defer wg.Done()
			sums[i], errs[i] = p.Process(context.Background())
		}(i, p)
	}
	wg.Wait()

	created := 0
	for i := range procs {
		require.NoError(t, errs[i])
		created += sums[i].MatchesCreated
	}
	assert.Equal(t, 1, created)

	var n int64
	require.NoError(t, e.db.Model(&match.Match{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)
	assert.Zero(t, e.queued(t))
}

func TestProcessSkipsWhileLocked(t *testing.T) {
	e := newEnv(t)
	locker := lock.NewLocalLocker()
	unlock, err := locker.TryLock(context.Background(), "matchmaking:process", time.Minute)
	require.NoError(t, err)

	sum, err := e.processor(locker).Process(context.Background())
	require.NoError(t, err)
	assert.True(t, sum.Skipped)

	require.NoError(t, unlock(context.Background()))
	sum, err = e.processor(locker).Process(context.Background())
	require.NoError(t, err)
	assert.False(t, sum.Skipped)
}

func TestProcessExpiresStaleEntries(t *testing.T) {
	e := newEnv(t)
	v, owner, mate := e.readyDuo(t)
	_, err := e.mm.EnqueueLobby(owner.ID, matchmaking.LobbyQueueRequest{LobbyID: v.ID, PlatformMode: "mobile", GameplayMode: "battle_royale"})
	require.NoError(t, err)
	require.NoError(t, e.db.Model(&matchmaking.QueueEntry{}).Where("1 = 1").
		Update("created_at", time.Now().Add(-time.Hour)).Error)

	sum, err := e.processor(lock.NewLocalLocker()).Process(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Expired)
	assert.Zero(t, sum.Pending)
	assert.Zero(t, e.queued(t))
	assert.Equal(t, lobby.StatusActive, lobbyStatus(t, e.db, v.ID))
	assert.ElementsMatch(t, []uint{owner.ID, mate.ID}, e.notifier.Of(notification.TypeQueueExpired))
}

func TestEnqueueReadyLobbies(t *testing.T) {
	e := newEnv(t)
	ready, _, _ := e.readyDuo(t)
	notReady, _, mate := e.readyDuo(t)
	_, err := e.lobbies.SetReady(notReady.ID, mate.ID, false)
	require.NoError(t, err)

	ids, err := e.mm.EnqueueReadyLobbies()
	require.NoError(t, err)
	assert.Equal(t, []uint{ready.ID}, ids)
	assert.Equal(t, lobby.StatusMatchmaking, lobbyStatus(t, e.db, ready.ID))
	assert.Equal(t, lobby.StatusActive, lobbyStatus(t, e.db, notReady.ID))
}

func TestEnqueueReadyLobbiesLogsSkippedLobbies(t *testing.T) {
	var buf bytes.Buffer
	prev := *logger.Get()
	logger.Set(zerolog.New(&buf).Level(zerolog.DebugLevel))
	t.Cleanup(func() { logger.Set(prev) })

	e := newEnv(t)
	ready, _, _ := e.readyDuo(t)
	busy, _, mate := e.readyDuo(t)
	require.NoError(t, e.db.Create(&match.Match{
		Code:     "busy-match",
		Source:   match.SourceQueue,
		TeamSize: 1,
		Status:   match.StatusWaiting,
		Players:  []match.MatchPlayer{{UserID: mate.ID, Team: 1}},
	}).Error)

	ids, err := e.mm.EnqueueReadyLobbies()
	require.NoError(t, err)
	assert.Equal(t, []uint{ready.ID}, ids)
	assert.Equal(t, lobby.StatusActive, lobbyStatus(t, e.db, busy.ID))

	out := buf.String()
	assert.Contains(t, out, "skip lobby in auto matchmaking")
	assert.Contains(t, out, fmt.Sprintf(`"lobby_id":%d`, busy.ID))
	assert.Contains(t, out, "unfinished match")
}
