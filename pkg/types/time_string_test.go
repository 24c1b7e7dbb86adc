package types_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairwaylabs/teesheet-service/pkg/types"
)

func TestNewTimeStringFromString(t *testing.T) {
	ts, err := types.NewTimeStringFromString("07:30")
	require.NoError(t, err)
	assert.Equal(t, "07:30", ts.String())

	_, err = types.NewTimeStringFromString("25:00")
	assert.Error(t, err)

	_, err = types.NewTimeStringFromString("7am")
	assert.Error(t, err)
}

func TestTimeString_OnDate(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	ts := types.TimeString("07:30")
	placed, err := ts.OnDate(time.Date(2026, 7, 6, 0, 0, 0, 0, loc), loc)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, 7, 6, 7, 30, 0, 0, loc), placed)
}

func TestTimeString_AddMinutes(t *testing.T) {
	ts := types.TimeString("23:50")
	shifted, err := ts.AddMinutes(20)
	require.NoError(t, err)
	assert.Equal(t, "00:10", shifted.String())
}

func TestTimeString_Ordering(t *testing.T) {
	early := types.TimeString("06:00")
	late := types.TimeString("18:00")

	assert.True(t, early.IsBefore(late))
	assert.True(t, late.IsAfter(early))
	assert.False(t, early.IsAfter(late))
}

func TestTimeString_IsZero(t *testing.T) {
	assert.True(t, types.TimeString("").IsZero())
	assert.False(t, types.TimeString("00:00").IsZero())
}
