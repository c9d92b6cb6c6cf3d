package services

import (
	"context"
	"time"

	"github.com/laith-prog/rms/entity"
)

// BookingPreferences is the validated shape of what used to be an
// opaque preferences blob. All fields optional.
type BookingPreferences struct {
	Floor      string `json:"floor,omitempty"`
	Quiet      bool   `json:"quiet,omitempty"`
	Accessible bool   `json:"accessible,omitempty"`
	Notes      string `json:"notes,omitempty"`
}

// SelectionRequest carries everything a strategy may want to weigh.
// Candidates is never empty and is ordered smallest-capacity-first.
type SelectionRequest struct {
	Candidates      []entity.Table
	PartySize       int
	Date            string
	StartTime       string
	DurationHours   int
	Preferences     BookingPreferences
	SpecialOccasion string
}

// Selection is the outcome of a strategy. Method tells which path
// actually produced the table; a failed advisory call reports
// deterministic with AdvisoryError set. Strategies never return errors:
// advisory availability is not a prerequisite for booking.
type Selection struct {
	Table              entity.Table
	Method             string
	Reasoning          string
	Confidence         float64
	AlternativeTableID *uint
	LatencyMs          int64
	AdvisoryError      string
}

type TableSelector interface {
	SelectTable(ctx context.Context, req SelectionRequest) Selection
}

// DeterministicSelector picks the first candidate: smallest table that
// seats the party, lowest number on ties.
type DeterministicSelector struct{}

func (DeterministicSelector) SelectTable(_ context.Context, req SelectionRequest) Selection {
	return Selection{
		Table:  req.Candidates[0],
		Method: entity.SelectionDeterministic,
	}
}

// AdvisorySuggestion is what the reasoning collaborator returns.
type AdvisorySuggestion struct {
	TableID            uint    `json:"selected_table_id"`
	Reasoning          string  `json:"reasoning"`
	Confidence         float64 `json:"confidence"`
	AlternativeTableID *uint   `json:"alternative_table_id"`
}

type AdvisoryClient interface {
	SuggestTable(ctx context.Context, req SelectionRequest) (*AdvisorySuggestion, error)
}

// AdvisorySelector asks an external reasoning service to rank the
// candidates and falls back to the deterministic pick on any anomaly:
// unreachable service, timeout, malformed output, a table outside the
// candidate set, or confidence below the threshold.
type AdvisorySelector struct {
	Client        AdvisoryClient
	Timeout       time.Duration
	MinConfidence float64
	fallback      DeterministicSelector
}

func NewAdvisorySelector(client AdvisoryClient, timeout time.Duration, minConfidence float64) *AdvisorySelector {
	if timeout <= 0 {
		timeout = 800 * time.Millisecond
	}
	return &AdvisorySelector{Client: client, Timeout: timeout, MinConfidence: minConfidence}
}

func (s *AdvisorySelector) SelectTable(ctx context.Context, req SelectionRequest) Selection {
	started := time.Now()

	suggestion, err := s.suggest(ctx, req)
	latency := time.Since(started).Milliseconds()
	if err != nil {
		sel := s.fallback.SelectTable(ctx, req)
		sel.LatencyMs = latency
		sel.AdvisoryError = err.Error()
		return sel
	}

	var chosen *entity.Table
	for i := range req.Candidates {
		if req.Candidates[i].ID == suggestion.TableID {
			chosen = &req.Candidates[i]
			break
		}
	}
	if chosen == nil {
		sel := s.fallback.SelectTable(ctx, req)
		sel.LatencyMs = latency
		sel.AdvisoryError = "advisory picked a table outside the candidate set"
		return sel
	}
	if suggestion.Confidence < s.MinConfidence || suggestion.Confidence > 1 {
		sel := s.fallback.SelectTable(ctx, req)
		sel.LatencyMs = latency
		sel.AdvisoryError = "advisory confidence out of accepted range"
		return sel
	}

	var alt *uint
	if suggestion.AlternativeTableID != nil {
		for i := range req.Candidates {
			if req.Candidates[i].ID == *suggestion.AlternativeTableID {
				alt = suggestion.AlternativeTableID
				break
			}
		}
	}

	return Selection{
		Table:              *chosen,
		Method:             entity.SelectionAdvisory,
		Reasoning:          suggestion.Reasoning,
		Confidence:         suggestion.Confidence,
		AlternativeTableID: alt,
		LatencyMs:          latency,
	}
}

func (s *AdvisorySelector) suggest(ctx context.Context, req SelectionRequest) (*AdvisorySuggestion, error) {
	if s.Client == nil {
		return nil, errAdvisoryUnavailable
	}
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()
	return s.Client.SuggestTable(ctx, req)
}
