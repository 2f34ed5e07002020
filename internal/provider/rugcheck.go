package provider

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"mintwatch/internal/domain"
)

// DefaultRugCheckBaseURL is the RugCheck API.
const DefaultRugCheckBaseURL = "https://api.rugcheck.xyz/v1"

const rugCheckTimeout = 15 * time.Second

// RugRisk is one entry of the risk report.
type RugRisk struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Level       string `json:"level"` // danger | warn | info
}

// RugReport is the risk report summary for a token.
type RugReport struct {
	Score   *int64    `json:"score"`
	Risks   []RugRisk `json:"risks"`
	Creator string    `json:"creator"`
}

// RugCheck is the fail-soft client for the risk report provider.
type RugCheck struct {
	baseURL string
	http    *http.Client
}

// NewRugCheck creates a RugCheck client. baseURL may be empty for the
// default endpoint.
func NewRugCheck(baseURL string) *RugCheck {
	if baseURL == "" {
		baseURL = DefaultRugCheckBaseURL
	}
	return &RugCheck{
		baseURL: baseURL,
		http:    &http.Client{Timeout: rugCheckTimeout},
	}
}

// ReportSummary returns the risk report summary for a mint.
func (c *RugCheck) ReportSummary(ctx context.Context, id domain.TokenIdentifier) Result[RugReport] {
	var report RugReport
	if err := getJSON(ctx, c.http, fmt.Sprintf("%s/tokens/%s/report/summary", c.baseURL, id), &report); err != nil {
		return Unavailable[RugReport]()
	}
	return Ok(report)
}
