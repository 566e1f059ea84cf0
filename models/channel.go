package models

import (
	"fmt"
	"strings"
)

// Channel is the closed set of storefronts broken out in summaries. Order
// lines from any other sales channel count toward overall totals only.
type Channel string

const (
	ChannelUS     Channel = "US"
	ChannelCanada Channel = "CANADA"
)

// Channels lists every classified channel in summary order.
var Channels = []Channel{ChannelUS, ChannelCanada}

// BucketChannel classifies a raw sales-channel value. The second return is
// false for unclassified channels.
func BucketChannel(salesChannel *string) (Channel, bool) {
	if salesChannel == nil {
		return "", false
	}
	switch strings.ToLower(strings.TrimSpace(*salesChannel)) {
	case "amazon.com":
		return ChannelUS, true
	case "amazon.ca":
		return ChannelCanada, true
	default:
		return "", false
	}
}

// ParseChannelFilter resolves a query-level channel filter ("us", "canada",
// case-insensitive) to the raw sales-channel value it matches. An empty
// filter means no filtering; any other value is a validation error.
func ParseChannelFilter(filter string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(filter)) {
	case "":
		return "", nil
	case "us":
		return "amazon.com", nil
	case "canada":
		return "amazon.ca", nil
	default:
		return "", fmt.Errorf("unknown channel filter %q", filter)
	}
}
