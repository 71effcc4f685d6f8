package match_test

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/DhavalSuthar-24/arena/config"
	"github.com/DhavalSuthar-24/arena/internal/bet"
	"github.com/DhavalSuthar-24/arena/internal/match"
	"github.com/DhavalSuthar-24/arena/internal/notification"
	"github.com/DhavalSuthar-24/arena/internal/testutil"
	"github.com/DhavalSuthar-24/arena/internal/user"
	"github.com/DhavalSuthar-24/arena/pkg/apperr"
)

type fixture struct {
	db       *gorm.DB
	cfg      *config.Config
	svc      *match.MatchService
	notifier *testutil.Notifier
}

func newFixture(t *testing.T) *fixture {
	db := testutil.NewDB(t)
	cfg := testutil.Config(t)
	n := &testutil.Notifier{}
	svc := match.NewMatchService(db, cfg, n, bet.NewSettler(cfg.Betting.PayoutMultiplier), match.NewDiskStore(cfg.App.UploadDir, "/public/uploads"))
	return &fixture{db: db, cfg: cfg, svc: svc, notifier: n}
}

// createMatch puts players on alternating teams starting with team 1.
func createMatch(t *testing.T, db *gorm.DB, players ...*user.User) *match.Match {
	t.Helper()
	ps := make([]match.MatchPlayer, 0, len(players))
	for i, u := range players {
		ps = append(ps, match.MatchPlayer{UserID: u.ID, Team: i%2 + 1})
	}
	m := match.New(match.SourceQueue, nil, (len(players)+1)/2, "mobile", "battle_royale", ps)
	require.NoError(t, db.Create(m).Error)
	return m
}

func fileHeader(t *testing.T, name string) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("image", name)
	require.NoError(t, err)
	_, err = fw.Write([]byte("\x89PNG fake image"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["image"][0]
}

func statusOf(t *testing.T, db *gorm.DB, id uint) match.MatchStatus {
	t.Helper()
	var m match.Match
	require.NoError(t, db.First(&m, id).Error)
	return m.Status
}

func TestTransitionStatusRejectsStaleFrom(t *testing.T) {
	f := newFixture(t)
	a, b := testutil.CreateUser(t, f.db, "a"), testutil.CreateUser(t, f.db, "b")
	m := createMatch(t, f.db, a, b)

	repo := match.NewGormMatchRepository(f.db)
	require.NoError(t, repo.TransitionStatus(m.ID, match.StatusWaiting, match.StatusPreparing, nil))

	err := repo.TransitionStatus(m.ID, match.StatusWaiting, match.StatusInProgress, nil)
	assert.True(t, apperr.Is(err, apperr.KindConflict))
	assert.Equal(t, match.StatusPreparing, statusOf(t, f.db, m.ID))

	err = repo.TransitionStatus(m.ID, match.StatusPreparing, match.StatusWaiting, nil)
	assert.True(t, apperr.Is(err, apperr.KindConflict))
}

func TestConfigureRoomStartsTimer(t *testing.T) {
	f := newFixture(t)
	a, b := testutil.CreateUser(t, f.db, "a"), testutil.CreateUser(t, f.db, "b")
	outsider := testutil.CreateUser(t, f.db, "c")
	m := createMatch(t, f.db, a, b)

	start := time.Now().Truncate(time.Second)
	f.svc.SetClock(func() time.Time { return start })

	v, err := f.svc.ConfigureRoom(m.ID, "123456", "secret", true)
	require.NoError(t, err)
	assert.Equal(t, match.StatusInProgress, v.Status)
	assert.Equal(t, "123456", v.RoomID)
	assert.Equal(t, "secret", v.SenhaSala)
	require.NotNil(t, v.TempoRestante)
	assert.Equal(t, f.cfg.Matchmaking.TimerSeconds, *v.TempoRestante)
	assert.ElementsMatch(t, []uint{a.ID, b.ID}, f.notifier.Of(notification.TypeRoomConfigured))

	f.svc.SetClock(func() time.Time { return start.Add(100 * time.Second) })
	st, err := f.svc.Status(m.ID, a.ID, false)
	require.NoError(t, err)
	assert.True(t, st.TimerRunning)
	assert.InDelta(t, f.cfg.Matchmaking.TimerSeconds-100, st.TempoRestante, 1)
	assert.LessOrEqual(t, st.TempoRestante, f.cfg.Matchmaking.TimerSeconds)

	f.svc.SetClock(func() time.Time { return start.Add(time.Hour) })
	st, err = f.svc.Status(m.ID, a.ID, false)
	require.NoError(t, err)
	assert.False(t, st.TimerRunning)
	assert.Equal(t, 0, st.TempoRestante)

	_, err = f.svc.Get(m.ID, outsider.ID, false)
	assert.Equal(t, 403, apperr.StatusCode(err))

	admin := testutil.CreateAdmin(t, f.db)
	av, err := f.svc.Get(m.ID, admin.ID, true)
	require.NoError(t, err)
	assert.Equal(t, "secret", av.SenhaSala)
}

func TestConfigureRoomWithoutTimerPrepares(t *testing.T) {
	f := newFixture(t)
	a, b := testutil.CreateUser(t, f.db, "a"), testutil.CreateUser(t, f.db, "b")
	m := createMatch(t, f.db, a, b)

	v, err := f.svc.ConfigureRoom(m.ID, "1", "p", false)
	require.NoError(t, err)
	assert.Equal(t, match.StatusPreparing, v.Status)
	assert.Nil(t, v.TempoRestante)

	// credentials can be changed while preparing
	v, err = f.svc.ConfigureRoom(m.ID, "2", "q", false)
	require.NoError(t, err)
	assert.Equal(t, match.StatusPreparing, v.Status)
	assert.Equal(t, "2", v.RoomID)

	st, err := f.svc.Status(m.ID, b.ID, false)
	require.NoError(t, err)
	assert.False(t, st.TimerRunning)
}

func TestSubmitResultRequiresParticipantAndInProgress(t *testing.T) {
	f := newFixture(t)
	a, b := testutil.CreateUser(t, f.db, "a"), testutil.CreateUser(t, f.db, "b")
	outsider := testutil.CreateUser(t, f.db, "c")
	m := createMatch(t, f.db, a, b)

	_, err := f.svc.SubmitResult(a.ID, m.ID, fileHeader(t, "shot.png"))
	assert.Equal(t, 409, apperr.StatusCode(err))

	_, err = f.svc.ConfigureRoom(m.ID, "1", "p", true)
	require.NoError(t, err)

	_, err = f.svc.SubmitResult(outsider.ID, m.ID, fileHeader(t, "shot.png"))
	assert.Equal(t, 403, apperr.StatusCode(err))

	_, err = f.svc.SubmitResult(a.ID, m.ID, fileHeader(t, "shot.exe"))
	assert.Equal(t, 400, apperr.StatusCode(err))
	assert.Equal(t, match.StatusInProgress, statusOf(t, f.db, m.ID))
}

func TestApproveSettlesBetsAndRanks(t *testing.T) {
	f := newFixture(t)
	a, b := testutil.CreateUser(t, f.db, "a"), testutil.CreateUser(t, f.db, "b")
	admin := testutil.CreateAdmin(t, f.db)
	testutil.Fund(t, f.db, a.ID, 1000)
	testutil.Fund(t, f.db, b.ID, 1000)
	m := createMatch(t, f.db, a, b)

	bets := bet.NewBetService(f.db, f.cfg)
	_, err := bets.Place(a.ID, m.ID, 100)
	require.NoError(t, err)
	_, err = bets.Place(b.ID, m.ID, 100)
	require.NoError(t, err)

	_, err = f.svc.ConfigureRoom(m.ID, "1", "p", true)
	require.NoError(t, err)
	v, err := f.svc.SubmitResult(b.ID, m.ID, fileHeader(t, "shot.png"))
	require.NoError(t, err)
	assert.Equal(t, match.StatusAwaitingValidation, v.Status)
	assert.True(t, strings.HasPrefix(v.ResultImageURL, "/public/uploads/results/"))
	assert.Equal(t, []uint{admin.ID}, f.notifier.Of(notification.TypeResultSubmitted))

	_, err = f.svc.Validate(m.ID, true, 3, "")
	assert.Equal(t, 400, apperr.StatusCode(err))

	v, err = f.svc.Validate(m.ID, true, 1, "")
	require.NoError(t, err)
	assert.Equal(t, match.StatusCompleted, v.Status)
	require.NotNil(t, v.WinnerTeam)
	assert.Equal(t, 1, *v.WinnerTeam)

	assert.Equal(t, int64(1100), testutil.Balance(t, f.db, a.ID))
	assert.Equal(t, int64(900), testutil.Balance(t, f.db, b.ID))

	var winner, loser user.User
	require.NoError(t, f.db.First(&winner, a.ID).Error)
	require.NoError(t, f.db.First(&loser, b.ID).Error)
	assert.Equal(t, 1, winner.Wins)
	assert.Equal(t, 1, loser.Losses)
	assert.Greater(t, winner.RankPoints, loser.RankPoints)
	assert.Len(t, f.notifier.Of(notification.TypeBetSettled), 2)

	_, err = f.svc.Validate(m.ID, true, 1, "")
	assert.Equal(t, 409, apperr.StatusCode(err))
	assert.Equal(t, int64(1100), testutil.Balance(t, f.db, a.ID))
}

func TestRejectSendsMatchBackToPlay(t *testing.T) {
	f := newFixture(t)
	a, b := testutil.CreateUser(t, f.db, "a"), testutil.CreateUser(t, f.db, "b")
	m := createMatch(t, f.db, a, b)

	_, err := f.svc.ConfigureRoom(m.ID, "1", "p", true)
	require.NoError(t, err)
	_, err = f.svc.SubmitResult(a.ID, m.ID, fileHeader(t, "shot.jpg"))
	require.NoError(t, err)

	v, err := f.svc.Validate(m.ID, false, 0, "blurry")
	require.NoError(t, err)
	assert.Equal(t, match.StatusInProgress, v.Status)
	assert.Nil(t, v.ResultSubmittedBy)
	assert.Equal(t, []uint{a.ID}, f.notifier.Of(notification.TypeResultRejected))

	_, err = f.svc.Validate(m.ID, false, 0, "")
	assert.Equal(t, 409, apperr.StatusCode(err))
}

func TestCancelRefundsBets(t *testing.T) {
	f := newFixture(t)
	a, b := testutil.CreateUser(t, f.db, "a"), testutil.CreateUser(t, f.db, "b")
	testutil.Fund(t, f.db, a.ID, 500)
	m := createMatch(t, f.db, a, b)

	_, err := bet.NewBetService(f.db, f.cfg).Place(a.ID, m.ID, 200)
	require.NoError(t, err)
	assert.Equal(t, int64(300), testutil.Balance(t, f.db, a.ID))

	v, err := f.svc.Cancel(m.ID, "no show")
	require.NoError(t, err)
	assert.Equal(t, match.StatusCanceled, v.Status)
	assert.Equal(t, int64(500), testutil.Balance(t, f.db, a.ID))

	var placed bet.Bet
	require.NoError(t, f.db.Where("match_id = ?", m.ID).First(&placed).Error)
	assert.Equal(t, bet.StatusRefunded, placed.Status)

	_, err = f.svc.Cancel(m.ID, "")
	assert.Equal(t, 409, apperr.StatusCode(err))
	assert.Equal(t, int64(500), testutil.Balance(t, f.db, a.ID))
}

func TestListAllRejectsUnknownStatus(t *testing.T) {
	f := newFixture(t)
	_, _, err := f.svc.ListAll("bogus", 1, 10)
	assert.Equal(t, 400, apperr.StatusCode(err))
}
