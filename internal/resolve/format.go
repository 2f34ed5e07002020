package resolve

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// NotAvailable is the sentinel rendered for missing numeric fields.
const NotAvailable = "N/A"

// FormatNumber abbreviates magnitudes with B/M/K and two decimals.
// Very small positive values switch to scientific notation.
func FormatNumber(n *float64) string {
	if n == nil || math.IsNaN(*n) {
		return NotAvailable
	}
	v := *n
	switch {
	case v >= 1e9:
		return fmt.Sprintf("%.2fB", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("%.2fM", v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("%.2fK", v/1e3)
	case v > 0 && v < 0.0001:
		return fmt.Sprintf("%.2e", v)
	}
	return fmt.Sprintf("%.2f", v)
}

// FormatUSD renders a dollar amount with magnitude abbreviation.
func FormatUSD(n *float64) string {
	if n == nil || math.IsNaN(*n) {
		return NotAvailable
	}
	return "$" + FormatNumber(n)
}

// FormatPrice renders a token price with precision scaled to its
// magnitude: scientific below a micro-dollar, then 8, 6 and finally
// 2 decimals.
func FormatPrice(p *float64) string {
	if p == nil || math.IsNaN(*p) {
		return NotAvailable
	}
	v := *p
	switch {
	case v < 0.000001:
		return fmt.Sprintf("$%.2e", v)
	case v < 0.01:
		return fmt.Sprintf("$%.8f", v)
	case v < 1:
		return fmt.Sprintf("$%.6f", v)
	}
	return fmt.Sprintf("$%.2f", v)
}

// FormatPercent renders a signed percentage change with a
// direction marker and two decimals.
func FormatPercent(n *float64) string {
	if n == nil || math.IsNaN(*n) {
		return NotAvailable
	}
	v := *n
	marker, sign := "🔴", ""
	if v >= 0 {
		marker, sign = "🟢", "+"
	}
	return fmt.Sprintf("%s %s%.2f%%", marker, sign, v)
}

// TimeAgo renders a relative timestamp in second/minute/hour/day
// buckets. Non-positive deltas clamp to "Just now".
func TimeAgo(t *time.Time) string {
	return timeAgoAt(t, time.Now())
}

func timeAgoAt(t *time.Time, now time.Time) string {
	if t == nil || t.IsZero() {
		return NotAvailable
	}
	d := now.Sub(*t)
	if d < 0 {
		return "Just now"
	}
	s := int64(d.Seconds())
	if s < 60 {
		return fmt.Sprintf("%ds ago", s)
	}
	m := s / 60
	if m < 60 {
		return fmt.Sprintf("%dm ago", m)
	}
	h := m / 60
	if h < 24 {
		return fmt.Sprintf("%dh %dm ago", h, m%60)
	}
	return fmt.Sprintf("%dd %dh ago", h/24, h%24)
}

// capitalize upper-cases the first character of s.
func capitalize(s string) string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
