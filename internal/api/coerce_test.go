package api

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexString(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{`"4"`, "4"},
		{`4`, "4"},
		{`-3`, "-3"},
		{`"hello"`, "hello"},
		{`null`, ""},
	}

	for _, tc := range cases {
		var f flexString
		require.NoError(t, json.Unmarshal([]byte(tc.raw), &f), tc.raw)
		assert.Equal(t, tc.want, f.String(), tc.raw)
	}

	var f flexString
	assert.Error(t, json.Unmarshal([]byte(`{"a":1}`), &f))
}

func TestFlexBool(t *testing.T) {
	cases := []struct {
		raw  string
		want bool
	}{
		{`true`, true},
		{`false`, false},
		{`"true"`, true},
		{`"TRUE"`, true},
		{`"1"`, true},
		{`"yes"`, true},
		{`"on"`, true},
		{`"false"`, false},
		{`"no"`, false},
		{`""`, false},
		{`1`, true},
		{`0`, false},
		{`null`, false},
	}

	for _, tc := range cases {
		var f flexBool
		require.NoError(t, json.Unmarshal([]byte(tc.raw), &f), tc.raw)
		assert.Equal(t, tc.want, bool(f), tc.raw)
	}
}
