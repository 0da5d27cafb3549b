package templates

import (
	"strconv"
	"strings"
	"time"
)

// Row is one line of a benchmark report.
type Row struct {
	Name        string
	Subscribers int
	Avg         time.Duration
	Min         time.Duration
	P75         time.Duration
	P99         time.Duration
	Max         time.Duration
}

// durations renders the latency columns of r separated by " | ".
func durations(r Row) string {
	var sb strings.Builder
	for i, d := range []time.Duration{r.Avg, r.Min, r.P75, r.P99, r.Max} {
		if i > 0 {
			sb.WriteString(" | ")
		}
		sb.WriteString(d.String())
	}
	return sb.String()
}

func subscriberLabel(n int) string {
	if n == 1 {
		return "1 subscriber"
	}
	return strconv.Itoa(n) + " subscribers"
}
