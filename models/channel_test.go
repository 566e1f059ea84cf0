package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBucketChannel(t *testing.T) {
	cases := []struct {
		raw     string
		channel Channel
		ok      bool
	}{
		{"Amazon.com", ChannelUS, true},
		{"amazon.com", ChannelUS, true},
		{" AMAZON.CA ", ChannelCanada, true},
		{"Amazon.de", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		raw := tc.raw
		ch, ok := BucketChannel(&raw)
		assert.Equal(t, tc.ok, ok, "raw=%q", tc.raw)
		assert.Equal(t, tc.channel, ch, "raw=%q", tc.raw)
	}

	ch, ok := BucketChannel(nil)
	assert.False(t, ok)
	assert.Equal(t, Channel(""), ch)
}

func TestParseChannelFilter(t *testing.T) {
	raw, err := ParseChannelFilter("US")
	require.NoError(t, err)
	assert.Equal(t, "amazon.com", raw)

	raw, err = ParseChannelFilter("canada")
	require.NoError(t, err)
	assert.Equal(t, "amazon.ca", raw)

	raw, err = ParseChannelFilter("")
	require.NoError(t, err)
	assert.Empty(t, raw)

	_, err = ParseChannelFilter("mexico")
	require.Error(t, err)
}
