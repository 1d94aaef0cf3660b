// Package aiservice calls an OpenAI-compatible chat-completions endpoint to
// run architecture consistency audits.
//
// The service formats the fixed audit prompt with two code revisions, sends
// it to the configured model, and post-processes the reply: thinking blocks
// are stripped and the first fenced code block is extracted. The caller owns
// what happens to the result; this package never touches the metadata store.
package aiservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"scrivener/internal/config"
	"scrivener/internal/logging"
)

const defaultBaseURL = "https://api.openai.com/v1"

const systemPrompt = "You are a senior software architect with 10 years of experience. " +
	"Conduct strict code audits to identify and mark any inconsistencies between architecture implementations."

// Service is the audit model client. Construct with NewService.
type Service struct {
	cfg         config.AIConfig
	credentials *CredentialManager
	httpClient  *http.Client
	logger      *logging.AppLogger
}

// NewService creates a client from the AI section of the app config. The
// default http.Transport honors HTTPS_PROXY/HTTP_PROXY from the environment.
func NewService(cfg config.AIConfig, logger *logging.AppLogger) *Service {
	if logger == nil {
		logger = logging.GetDefault()
	}
	return &Service{
		cfg:         cfg,
		credentials: NewCredentialManager(),
		httpClient:  &http.Client{Timeout: 5 * time.Minute},
		logger:      logger,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature *float64      `json:"temperature,omitempty"`
	MaxTokens   *int          `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// AuditConsistency audits newCode against oldCode and returns the model's
// annotated revision of newCode, ready to be written back over the file.
func (s *Service) AuditConsistency(ctx context.Context, oldCode, newCode, exemptionRules string) (string, error) {
	prompt := AuditPrompt(oldCode, newCode, exemptionRules)

	content, err := s.complete(ctx, []chatMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: prompt},
	})
	if err != nil {
		return "", fmt.Errorf("architecture audit service error: %w", err)
	}

	return ExtractCode(content), nil
}

// complete performs one chat-completion round trip.
func (s *Service) complete(ctx context.Context, messages []chatMessage) (string, error) {
	apiKey, err := s.credentials.GetAPIKey()
	if err != nil {
		return "", err
	}

	base := strings.TrimSuffix(s.cfg.BaseURL, "/")
	if base == "" {
		base = defaultBaseURL
	}

	body, err := json.Marshal(chatRequest{
		Model:       s.cfg.Model,
		Messages:    messages,
		Temperature: s.cfg.Temperature,
		MaxTokens:   s.cfg.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, base+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	start := time.Now()
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat completion request failed: %w", err)
	}
	defer resp.Body.Close()
	s.logger.LogPerformance("chat_completion", start)

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("failed to decode response (status %d): %w", resp.StatusCode, err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("model API error (status %d): %s", resp.StatusCode, parsed.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("model API returned status %d", resp.StatusCode)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("model API returned no choices")
	}

	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}

var (
	thinkingPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?s)<thinking>.*?</thinking>`),
		regexp.MustCompile(`(?s)<think>.*?</think>`),
		regexp.MustCompile(`(?s)\[thinking\].*?\[/thinking\]`),
		regexp.MustCompile(`(?s)\[think\].*?\[/think\]`),
		regexp.MustCompile("(?s)```thinking.*?```"),
	}

	codeBlockPattern = regexp.MustCompile("(?s)```[a-zA-Z0-9+-]*\n(.*?)```")
)

// StripThinking removes the model's thinking blocks in all the shapes seen
// in the wild.
func StripThinking(response string) string {
	for _, p := range thinkingPatterns {
		response = p.ReplaceAllString(response, "")
	}
	return strings.TrimSpace(response)
}

// ExtractCode strips thinking blocks and returns the first fenced code
// block, or the cleaned response when no fence is present.
func ExtractCode(response string) string {
	cleaned := StripThinking(response)

	if m := codeBlockPattern.FindStringSubmatch(cleaned); m != nil {
		return strings.TrimSpace(m[1])
	}
	return cleaned
}

// CountMarkers reports how many critical errors and risk annotations the
// audited code carries.
func CountMarkers(auditedCode string) (criticalErrors, riskInfos int) {
	return strings.Count(auditedCode, "CRITICAL_ERROR"), strings.Count(auditedCode, "RISK_INFO")
}
