package service

import (
	"context"
	"strings"
	"time"

	"merchant-api/pkg/logger"

	"go.uber.org/zap"
)

const (
	dateLayout = "2006-01-02"
	endOfDay   = 23*time.Hour + 59*time.Minute + 59*time.Second
)

// timestampLayouts are tried in order; seconds are optional
var timestampLayouts = []string{time.RFC3339, "2006-01-02T15:04Z07:00"}

// ParseBoundary resolves a startDate/endDate query value into an instant.
//
// Values containing a "T" must be RFC 3339 timestamps, seconds optional. Plain YYYY-MM-DD
// dates resolve to 00:00:00 UTC for a start boundary and 23:59:59 UTC for an end boundary,
// so an end date includes the whole day. Empty or unparseable input yields nil (no
// boundary); malformed input is logged as a warning rather than rejected.
func ParseBoundary(ctx context.Context, value string, isStart bool) *time.Time {
	if strings.TrimSpace(value) == "" {
		return nil
	}

	var (
		t   time.Time
		err error
	)
	if strings.Contains(value, "T") {
		t, err = parseTimestamp(value)
	} else {
		t, err = time.Parse(dateLayout, value)
		if err == nil && !isStart {
			t = t.Add(endOfDay)
		}
	}
	if err != nil {
		logger.FromContext(ctx).Warn("Invalid date format, ignoring boundary",
			zap.String("value", value),
			zap.Bool("start", isStart),
			zap.Error(err))
		return nil
	}

	t = t.UTC()
	return &t
}

func parseTimestamp(value string) (t time.Time, err error) {
	for _, layout := range timestampLayouts {
		if t, err = time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}

// checkDateOrder rejects start > end by plain string comparison, before either value
// is parsed.
func checkDateOrder(start, end string) error {
	if start != "" && end != "" && start > end {
		return invalidInput("Start date must be before or equal to end date")
	}
	return nil
}
