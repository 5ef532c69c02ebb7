package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseTimestamp converts a platform timestamp ("1620000000.000100") into a time.Time
func ParseTimestamp(ts string) (time.Time, error) {
	sec, frac, err := splitTimestamp(ts)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(sec, frac*1000).UTC(), nil
}

// CompareTimestamps orders two platform timestamps numerically. It returns -1
// when a is older than b, 1 when a is newer, and 0 when they are equal.
// Unparseable timestamps sort before everything else.
func CompareTimestamps(a, b string) int {
	as, af, aerr := splitTimestamp(a)
	bs, bf, berr := splitTimestamp(b)
	switch {
	case aerr != nil && berr != nil:
		return 0
	case aerr != nil:
		return -1
	case berr != nil:
		return 1
	}

	switch {
	case as < bs:
		return -1
	case as > bs:
		return 1
	case af < bf:
		return -1
	case af > bf:
		return 1
	}
	return 0
}

// Permalink builds the archive URL of a message from the workspace base URL,
// the channel id and the message timestamp with its decimal point removed
func Permalink(baseURL, channelID, ts string) string {
	base := strings.TrimRight(baseURL, "/")
	return fmt.Sprintf("%s/archives/%s/p%s", base, channelID, strings.Replace(ts, ".", "", 1))
}

// WorkspaceURL returns the base URL for a workspace subdomain
func WorkspaceURL(workspace string) string {
	return fmt.Sprintf("https://%s.slack.com", workspace)
}

// splitTimestamp returns seconds and microseconds of a timestamp. The
// fractional part is right-padded so "1.1" and "1.100000" compare equal.
func splitTimestamp(ts string) (int64, int64, error) {
	secPart, fracPart, _ := strings.Cut(strings.TrimSpace(ts), ".")
	if secPart == "" {
		return 0, 0, fmt.Errorf("invalid timestamp %q", ts)
	}

	sec, err := strconv.ParseInt(secPart, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid timestamp %q: %w", ts, err)
	}

	if len(fracPart) > 6 {
		fracPart = fracPart[:6]
	}
	if fracPart == "" {
		return sec, 0, nil
	}
	fracPart += strings.Repeat("0", 6-len(fracPart))

	frac, err := strconv.ParseInt(fracPart, 10, 64)
	if err != nil || frac < 0 {
		return 0, 0, fmt.Errorf("invalid timestamp %q", ts)
	}
	return sec, frac, nil
}
