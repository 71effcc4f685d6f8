package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DhavalSuthar-24/arena/internal/models"
)

func TestUintSliceScanAcceptsStringAndBytes(t *testing.T) {
	var s models.UintSlice
	require.NoError(t, s.Scan("[1,2,3]"))
	assert.Equal(t, models.UintSlice{1, 2, 3}, s)

	require.NoError(t, s.Scan([]byte("[7]")))
	assert.True(t, s.Contains(7))
	assert.False(t, s.Contains(1))

	require.NoError(t, s.Scan(nil))
	assert.Nil(t, s)

	assert.Error(t, s.Scan(42))
}

func TestNilValuesEncodeAsEmptyJSON(t *testing.T) {
	v, err := models.UintSlice(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)

	v, err = models.JSONMap(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "{}", v)
}
