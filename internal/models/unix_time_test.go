package models

import (
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnixTime_ZeroIsZero(t *testing.T) {
	data, err := json.Marshal(UnixTime{})
	require.NoError(t, err)
	assert.Equal(t, "0", string(data))

	var u UnixTime
	require.NoError(t, json.Unmarshal([]byte("0"), &u))
	assert.True(t, u.IsZero())
	require.NoError(t, json.Unmarshal([]byte("null"), &u))
	assert.True(t, u.IsZero())
}

func TestUnixTime_FractionalSeconds(t *testing.T) {
	var u UnixTime
	require.NoError(t, json.Unmarshal([]byte("1700000000.5"), &u))
	assert.Equal(t, int64(1700000000), u.Unix())
	assert.Equal(t, 500*time.Millisecond, time.Duration(u.Nanosecond()))

	data, err := json.Marshal(NewUnixTime(time.Unix(1700000000, 0)))
	require.NoError(t, err)
	assert.Equal(t, "1700000000", string(data))
}

func TestUnixTime_Invalid(t *testing.T) {
	var u UnixTime
	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &u))
}
