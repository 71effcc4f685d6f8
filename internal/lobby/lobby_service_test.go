package lobby_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/DhavalSuthar-24/arena/internal/lobby"
	"github.com/DhavalSuthar-24/arena/internal/match"
	"github.com/DhavalSuthar-24/arena/internal/matchmaking"
	"github.com/DhavalSuthar-24/arena/internal/notification"
	"github.com/DhavalSuthar-24/arena/internal/testutil"
	"github.com/DhavalSuthar-24/arena/pkg/apperr"
)

func newService(t *testing.T) (*gorm.DB, *lobby.LobbyService, *testutil.Notifier) {
	db := testutil.NewDB(t)
	cfg := testutil.Config(t)
	n := &testutil.Notifier{}
	return db, lobby.NewLobbyService(db, cfg, n, matchmaking.NewMatchmakingService(db, cfg)), n
}

func lobbyStatus(t *testing.T, db *gorm.DB, id uint) lobby.Status {
	t.Helper()
	var l lobby.Lobby
	require.NoError(t, db.First(&l, id).Error)
	return l.Status
}

func TestCreateMakesOwnerSoleMember(t *testing.T) {
	db, svc, _ := newService(t)
	owner := testutil.CreateUser(t, db, "owner")

	v, err := svc.Create(owner.ID, lobby.CreateLobbyRequest{LobbyType: lobby.TypeSquad})
	require.NoError(t, err)
	assert.Equal(t, lobby.StatusActive, v.Status)
	assert.Equal(t, 4, v.MaxPlayers)
	assert.Equal(t, []uint{owner.ID}, v.MemberIDs)
	assert.Equal(t, "mobile", v.PlatformMode)
	assert.Equal(t, "battle_royale", v.GameplayMode)

	_, err = svc.Create(owner.ID, lobby.CreateLobbyRequest{LobbyType: lobby.TypeDuo})
	assert.Equal(t, 409, apperr.StatusCode(err))

	cur, err := svc.Current(owner.ID)
	require.NoError(t, err)
	assert.Equal(t, v.ID, cur.ID)
}

func TestJoinIsIdempotentAndRespectsCapacity(t *testing.T) {
	db, svc, _ := newService(t)
	owner := testutil.CreateUser(t, db, "owner")
	a, b := testutil.CreateUser(t, db, "a"), testutil.CreateUser(t, db, "b")

	v, err := svc.Create(owner.ID, lobby.CreateLobbyRequest{LobbyType: lobby.TypeDuo})
	require.NoError(t, err)

	_, err = svc.Join(v.ID, a.ID)
	require.NoError(t, err)
	again, err := svc.Join(v.ID, a.ID)
	require.NoError(t, err)
	assert.Len(t, again.MemberIDs, 2)

	_, err = svc.Join(v.ID, b.ID)
	assert.Equal(t, 409, apperr.StatusCode(err))

	_, err = svc.Get(v.ID, b.ID, false)
	assert.Equal(t, 403, apperr.StatusCode(err))
}

func TestConcurrentJoinsFillOnlyFreeSeats(t *testing.T) {
	db, svc, _ := newService(t)
	owner := testutil.CreateUser(t, db, "owner")
	v, err := svc.Create(owner.ID, lobby.CreateLobbyRequest{LobbyType: lobby.TypeDuo})
	require.NoError(t, err)

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		joined int
	)
	for i := 0; i < 3; i++ {
		u := testutil.CreateUser(t, db, "joiner")
		wg.Add(1)
		go func(userID uint) {
			defer wg.Done()
			if _, err := svc.Join(v.ID, userID); err == nil {
				mu.Lock()
				joined++
				mu.Unlock()
			}
		}(u.ID)
	}
	wg.Wait()

	assert.Equal(t, 1, joined)
	n, err := lobby.NewGormLobbyRepository(db).CountMembers(v.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestGetByIDForUpdateLoadsMembers(t *testing.T) {
	db, svc, _ := newService(t)
	owner := testutil.CreateUser(t, db, "owner")
	v, err := svc.Create(owner.ID, lobby.CreateLobbyRequest{LobbyType: lobby.TypeSquad})
	require.NoError(t, err)

	l, err := lobby.NewGormLobbyRepository(db).GetByIDForUpdate(v.ID)
	require.NoError(t, err)
	assert.True(t, l.IsMember(owner.ID))

	_, err = lobby.NewGormLobbyRepository(db).GetByIDForUpdate(v.ID + 100)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestSetReadyIsIdempotent(t *testing.T) {
	db, svc, _ := newService(t)
	owner, a := testutil.CreateUser(t, db, "owner"), testutil.CreateUser(t, db, "a")
	v, err := svc.Create(owner.ID, lobby.CreateLobbyRequest{LobbyType: lobby.TypeDuo})
	require.NoError(t, err)
	_, err = svc.Join(v.ID, a.ID)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		got, err := svc.SetReady(v.ID, a.ID, true)
		require.NoError(t, err)
		assert.Equal(t, []uint{a.ID}, got.ReadyMembers)
	}

	var rows int64
	require.NoError(t, db.Model(&lobby.LobbyMember{}).Where("lobby_id = ?", v.ID).Count(&rows).Error)
	assert.Equal(t, int64(2), rows)

	outsider := testutil.CreateUser(t, db, "c")
	_, err = svc.SetReady(v.ID, outsider.ID, true)
	assert.Equal(t, 403, apperr.StatusCode(err))
}

func TestStartByNonOwnerLeavesLobbyUnchanged(t *testing.T) {
	db, svc, _ := newService(t)
	owner, a := testutil.CreateUser(t, db, "owner"), testutil.CreateUser(t, db, "a")
	v, err := svc.Create(owner.ID, lobby.CreateLobbyRequest{LobbyType: lobby.TypeDuo})
	require.NoError(t, err)
	_, err = svc.Join(v.ID, a.ID)
	require.NoError(t, err)
	_, err = svc.SetReady(v.ID, owner.ID, true)
	require.NoError(t, err)
	_, err = svc.SetReady(v.ID, a.ID, true)
	require.NoError(t, err)

	_, err = svc.Start(v.ID, a.ID)
	assert.Equal(t, 403, apperr.StatusCode(err))
	assert.Equal(t, lobby.StatusActive, lobbyStatus(t, db, v.ID))

	var n int64
	require.NoError(t, db.Model(&match.Match{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestStartCreatesWaitingMatch(t *testing.T) {
	db, svc, n := newService(t)
	owner, a := testutil.CreateUser(t, db, "owner"), testutil.CreateUser(t, db, "a")
	v, err := svc.Create(owner.ID, lobby.CreateLobbyRequest{LobbyType: lobby.TypeDuo, GameplayMode: "clash_squad"})
	require.NoError(t, err)
	_, err = svc.Join(v.ID, a.ID)
	require.NoError(t, err)
	_, err = svc.SetReady(v.ID, owner.ID, true)
	require.NoError(t, err)

	_, err = svc.Start(v.ID, owner.ID)
	assert.Equal(t, 409, apperr.StatusCode(err), "not everyone is ready")

	_, err = svc.SetReady(v.ID, a.ID, true)
	require.NoError(t, err)
	m, err := svc.Start(v.ID, owner.ID)
	require.NoError(t, err)

	assert.Equal(t, match.StatusWaiting, m.Status)
	assert.Equal(t, match.SourceLobby, m.Source)
	assert.Equal(t, 2, m.TeamSize)
	assert.Equal(t, "clash_squad", m.GameplayMode)
	require.NotNil(t, m.LobbyID)
	assert.Equal(t, v.ID, *m.LobbyID)
	assert.ElementsMatch(t, []uint{owner.ID, a.ID}, m.PlayerIDs())
	assert.Equal(t, lobby.StatusInGame, lobbyStatus(t, db, v.ID))
	assert.ElementsMatch(t, []uint{owner.ID, a.ID}, n.Of(notification.TypeMatchCreated))

	_, err = svc.Start(v.ID, owner.ID)
	assert.Equal(t, 409, apperr.StatusCode(err))

	err = svc.Leave(v.ID, a.ID)
	assert.Equal(t, 409, apperr.StatusCode(err))
}

func TestSoloLobbyStartsWithoutReady(t *testing.T) {
	db, svc, _ := newService(t)
	owner := testutil.CreateUser(t, db, "owner")
	v, err := svc.Create(owner.ID, lobby.CreateLobbyRequest{LobbyType: lobby.TypeSolo})
	require.NoError(t, err)

	m, err := svc.Start(v.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, m.TeamSize)
}

func TestOwnerLeavingClosesLobby(t *testing.T) {
	db, svc, n := newService(t)
	owner, a := testutil.CreateUser(t, db, "owner"), testutil.CreateUser(t, db, "a")
	v, err := svc.Create(owner.ID, lobby.CreateLobbyRequest{LobbyType: lobby.TypeTrio})
	require.NoError(t, err)
	_, err = svc.Join(v.ID, a.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Leave(v.ID, owner.ID))
	assert.Equal(t, lobby.StatusClosed, lobbyStatus(t, db, v.ID))
	assert.Equal(t, []uint{a.ID}, n.Of(notification.TypeLobbyClosed))

	_, err = svc.Current(a.ID)
	assert.Equal(t, 404, apperr.StatusCode(err))
	// a is free to start a new lobby
	_, err = svc.Create(a.ID, lobby.CreateLobbyRequest{LobbyType: lobby.TypeSolo})
	require.NoError(t, err)
}

func TestMemberLeaveAndKick(t *testing.T) {
	db, svc, n := newService(t)
	owner := testutil.CreateUser(t, db, "owner")
	a, b := testutil.CreateUser(t, db, "a"), testutil.CreateUser(t, db, "b")
	v, err := svc.Create(owner.ID, lobby.CreateLobbyRequest{LobbyType: lobby.TypeSquad})
	require.NoError(t, err)
	_, err = svc.Join(v.ID, a.ID)
	require.NoError(t, err)
	_, err = svc.Join(v.ID, b.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Leave(v.ID, a.ID))
	assert.Equal(t, 404, apperr.StatusCode(svc.Leave(v.ID, a.ID)))

	_, err = svc.Kick(v.ID, b.ID, owner.ID)
	assert.Equal(t, 403, apperr.StatusCode(err))
	_, err = svc.Kick(v.ID, owner.ID, owner.ID)
	assert.Equal(t, 400, apperr.StatusCode(err))
	_, err = svc.Kick(v.ID, owner.ID, a.ID)
	assert.Equal(t, 404, apperr.StatusCode(err))

	got, err := svc.Kick(v.ID, owner.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{owner.ID}, got.MemberIDs)
	assert.Equal(t, []uint{b.ID}, n.Of(notification.TypeLobbyKicked))
	assert.Equal(t, lobby.StatusActive, lobbyStatus(t, db, v.ID))
}

func TestInviteAcceptJoinsLobby(t *testing.T) {
	db, svc, n := newService(t)
	owner, a := testutil.CreateUser(t, db, "owner"), testutil.CreateUser(t, db, "a")
	v, err := svc.Create(owner.ID, lobby.CreateLobbyRequest{LobbyType: lobby.TypeDuo})
	require.NoError(t, err)

	_, err = svc.Invite(v.ID, owner.ID, owner.ID)
	assert.Equal(t, 400, apperr.StatusCode(err))

	inv, err := svc.Invite(v.ID, owner.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{a.ID}, n.Of(notification.TypeLobbyInvite))

	_, err = svc.Invite(v.ID, owner.ID, a.ID)
	assert.Equal(t, 409, apperr.StatusCode(err))

	pending, err := svc.Invites(a.ID)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	_, err = svc.AcceptInvite(inv.ID, owner.ID)
	assert.Equal(t, 403, apperr.StatusCode(err))

	got, err := svc.AcceptInvite(inv.ID, a.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{owner.ID, a.ID}, got.MemberIDs)

	_, err = svc.AcceptInvite(inv.ID, a.ID)
	assert.Equal(t, 409, apperr.StatusCode(err))
}
