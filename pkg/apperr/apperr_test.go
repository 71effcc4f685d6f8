package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/DhavalSuthar-24/arena/pkg/apperr"
)

func TestStatusCodes(t *testing.T) {
	cases := map[int]error{
		http.StatusBadRequest:          apperr.Validation("bad"),
		http.StatusUnauthorized:        apperr.Unauthorized("who"),
		http.StatusForbidden:           apperr.Forbidden("no"),
		http.StatusNotFound:            apperr.NotFound("gone"),
		http.StatusConflict:            apperr.Conflict("again"),
		http.StatusInternalServerError: errors.New("boom"),
	}
	for code, err := range cases {
		assert.Equal(t, code, apperr.StatusCode(err), err.Error())
	}
}

func TestKindSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("placing bet: %w", apperr.Conflict("bet already placed"))
	assert.True(t, apperr.Is(err, apperr.KindConflict))
	assert.Equal(t, "bet already placed", apperr.PublicMessage(err))
}

func TestInternalHidesCause(t *testing.T) {
	err := apperr.Internal(errors.New("pq: connection refused"), "load match")
	assert.Equal(t, http.StatusInternalServerError, apperr.StatusCode(err))
	assert.NotContains(t, apperr.PublicMessage(err), "connection refused")
}

func TestFromDB(t *testing.T) {
	assert.Nil(t, apperr.FromDB(nil, "x"))
	assert.True(t, apperr.Is(apperr.FromDB(gorm.ErrRecordNotFound, "Match not found"), apperr.KindNotFound))
	assert.True(t, apperr.Is(apperr.FromDB(apperr.Forbidden("no"), "x"), apperr.KindForbidden))
	assert.True(t, apperr.Is(apperr.FromDB(errors.New("disk"), "x"), apperr.KindInternal))
}
