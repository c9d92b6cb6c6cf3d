package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// ChatAdvisoryClient calls an OpenAI-compatible chat-completions
// endpoint and expects a strict JSON object back. Any deviation is an
// error for the selector to fall back on.
type ChatAdvisoryClient struct {
	BaseURL    string
	APIKey     string
	Model      string
	HTTPClient *http.Client
}

func NewChatAdvisoryClient(baseURL, apiKey, model string) *ChatAdvisoryClient {
	return &ChatAdvisoryClient{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		APIKey:     apiKey,
		Model:      model,
		HTTPClient: &http.Client{},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type advisoryTableContext struct {
	ID                  uint    `json:"id"`
	TableNumber         string  `json:"table_number"`
	Capacity            int     `json:"capacity"`
	Floor               string  `json:"floor"`
	CapacityUtilization float64 `json:"capacity_utilization"`
}

func (c *ChatAdvisoryClient) SuggestTable(ctx context.Context, req SelectionRequest) (*AdvisorySuggestion, error) {
	tables := make([]advisoryTableContext, 0, len(req.Candidates))
	for _, t := range req.Candidates {
		util := 0.0
		if t.Capacity > 0 {
			util = float64(req.PartySize) / float64(t.Capacity) * 100
		}
		tables = append(tables, advisoryTableContext{
			ID:                  t.ID,
			TableNumber:         t.TableNumber,
			Capacity:            t.Capacity,
			Floor:               t.Floor,
			CapacityUtilization: util,
		})
	}
	tableJSON, err := json.Marshal(tables)
	if err != nil {
		return nil, err
	}
	prefJSON, _ := json.Marshal(req.Preferences)

	prompt := fmt.Sprintf(`You are an intelligent table selection system.

Reservation request:
- Party size: %d
- Date: %s, start %s, duration %d hours
- Special occasion: %q
- Preferences: %s

Available tables:
%s

Select the best table. Prefer 80-100%% capacity utilization, honor the
stated preferences, and avoid oversized tables unless necessary.

Respond with ONLY this JSON, no additional text:
{"selected_table_id": id, "reasoning": "...", "confidence": 0.0-1.0, "alternative_table_id": id_or_null}`,
		req.PartySize, req.Date, req.StartTime, req.DurationHours,
		req.SpecialOccasion, prefJSON, tableJSON)

	body, err := json.Marshal(chatRequest{
		Model: c.Model,
		Messages: []chatMessage{
			{Role: "system", Content: "You respond with ONLY valid JSON. Start with { and end with }."},
			{Role: "user", Content: prompt},
		},
		Temperature: 0.2,
		MaxTokens:   300,
	})
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("advisory service returned %s", resp.Status)
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	if len(out.Choices) == 0 {
		return nil, fmt.Errorf("advisory service returned no choices")
	}

	return parseSuggestion(out.Choices[0].Message.Content)
}

// parseSuggestion tolerates leading/trailing chatter around the JSON
// object but nothing else.
func parseSuggestion(content string) (*AdvisorySuggestion, error) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("advisory response is not a JSON object")
	}
	var s AdvisorySuggestion
	if err := json.Unmarshal([]byte(content[start:end+1]), &s); err != nil {
		return nil, fmt.Errorf("malformed advisory response: %w", err)
	}
	if s.TableID == 0 {
		return nil, fmt.Errorf("advisory response missing selected_table_id")
	}
	return &s, nil
}
