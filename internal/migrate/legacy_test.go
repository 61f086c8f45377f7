package migrate

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexBool(t *testing.T) {
	tests := []struct {
		in      string
		want    bool
		wantErr bool
	}{
		{`true`, true, false},
		{`false`, false, false},
		{`1`, true, false},
		{`0`, false, false},
		{`"1"`, true, false},
		{`null`, false, false},
		{`"yes"`, false, true},
	}
	for _, tt := range tests {
		var b flexBool
		err := json.Unmarshal([]byte(tt.in), &b)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, bool(b), tt.in)
	}
}

func TestFlexText(t *testing.T) {
	var v struct {
		A, B, C flexText
	}
	require.NoError(t, json.Unmarshal([]byte(`{"A":"01","B":2,"C":null}`), &v))
	assert.Equal(t, flexText("01"), v.A)
	assert.Equal(t, flexText("2"), v.B)
	assert.Equal(t, flexText(""), v.C)
}

func TestJSONTextStringAndEmbedded(t *testing.T) {
	var rec struct {
		A, B, C jsonText
	}
	require.NoError(t, json.Unmarshal([]byte(`{"A":"{\"title\":\"x\"}","B":{"title":"y"},"C":null}`), &rec))

	var meta struct{ Title string }
	require.NoError(t, rec.A.decode(&meta, "{}"))
	assert.Equal(t, "x", meta.Title)
	require.NoError(t, rec.B.decode(&meta, "{}"))
	assert.Equal(t, "y", meta.Title)

	meta.Title = ""
	require.NoError(t, rec.C.decode(&meta, "{}"))
	assert.Empty(t, meta.Title)

	assert.Error(t, jsonText("{broken").decode(&meta, "{}"))
}

func TestParseTimestamp(t *testing.T) {
	s := func(v string) *string { return &v }

	got, err := parseTimestamp(s("2024-05-19 18:30:00"))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 19, 18, 30, 0, 0, time.UTC), *got)

	got, err = parseTimestamp(s("2024-05-19T18:30:00.000000Z"))
	require.NoError(t, err)
	assert.Equal(t, 18, got.Hour())

	got, err = parseTimestamp(s("2024-05-19"))
	require.NoError(t, err)
	assert.Equal(t, 19, got.Day())

	got, err = parseTimestamp(nil)
	assert.NoError(t, err)
	assert.Nil(t, got)

	got, err = parseTimestamp(s("  "))
	assert.NoError(t, err)
	assert.Nil(t, got)

	_, err = parseTimestamp(s("19.05.2024"))
	assert.Error(t, err)
}

func TestFirstTimestamp(t *testing.T) {
	created := "2024-01-01 00:00:00"
	got, err := firstTimestamp(nil, &created)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 2024, got.Year())
}

func TestClockTimeAndEventDay(t *testing.T) {
	assert.Equal(t, "19:00", clockTime("19:00:00"))
	assert.Equal(t, "9:00", clockTime("9:00"))

	d, err := eventDay("2024-05-19 00:00:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 19, 0, 0, 0, 0, time.UTC), d)

	d, err = eventDay("2024-05-19T22:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, 19, d.Day())

	_, err = eventDay("")
	assert.Error(t, err)
}
