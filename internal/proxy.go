package internal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// RateLimitedMessage is returned as a successful result when the API is throttling us
const RateLimitedMessage = "Rate limit exceeded. Please wait and try again later."

// ErrAnalysisFailed is the only error the proxy hands back to callers.
// The underlying cause is logged, never returned.
var ErrAnalysisFailed = errors.New("ai analysis failed")

// CompletionProxy turns a validated analysis request into a chat completion call
type CompletionProxy struct {
	completer        Completer
	limiter          *UpstreamLimiter
	systemPrompt     string
	userPromptPrefix string
	maxTokens        int
	timeout          time.Duration
}

// NewCompletionProxy builds a proxy. A nil completer gets a CompletionClient for cfg.
func NewCompletionProxy(cfg ProxyConfig, completer Completer) (*CompletionProxy, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if completer == nil {
		completer = NewCompletionClient(cfg)
	}
	return &CompletionProxy{
		completer:        completer,
		limiter:          NewUpstreamLimiter(cfg.RateLimitPerMinute),
		systemPrompt:     cfg.SystemPrompt,
		userPromptPrefix: cfg.UserPromptPrefix,
		maxTokens:        cfg.MaxTokens,
		timeout:          cfg.Timeout,
	}, nil
}

// BuildRequest assembles the chat completion request for req
func (p *CompletionProxy) BuildRequest(req AnalysisRequest) ChatCompletionRequest {
	return ChatCompletionRequest{
		Model: req.Model,
		Messages: []ChatMessage{
			{Role: RoleSystem, Content: p.systemPrompt},
			{Role: RoleUser, Content: p.userPromptPrefix + req.Code},
		},
		Temperature: req.Temperature,
		TopP:        req.TopP,
		MaxTokens:   p.maxTokens,
	}
}

// Analyze makes exactly one completion call for req.
// Rate limiting is reported as a successful result carrying RateLimitedMessage.
// Every other failure returns ErrAnalysisFailed.
func (p *CompletionProxy) Analyze(ctx context.Context, req AnalysisRequest) (AnalysisResult, error) {
	log := logrus.WithFields(requestLogFields(ctx)).WithField("model", req.Model)

	if !p.limiter.Allow() {
		log.Warn("Local upstream rate limit reached")
		RecordAnalysis(OutcomeRateLimited)
		return AnalysisResult{Suggestions: RateLimitedMessage}, nil
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	body := p.BuildRequest(req)
	log.WithFields(logrus.Fields{
		"temperature": body.Temperature,
		"top_p":       body.TopP,
		"code_length": len(req.Code),
	}).Info("Sending code to completion API")

	start := time.Now()
	resp, err := p.completer.ChatCompletion(ctx, body)
	if err == nil {
		err = checkChoices(resp)
	}
	RecordUpstreamRequest(time.Since(start), err == nil)

	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusTooManyRequests {
			log.Warn("Rate limit exceeded on completion API")
			RecordAnalysis(OutcomeRateLimited)
			return AnalysisResult{Suggestions: RateLimitedMessage}, nil
		}
		log.WithError(err).Error("Completion API call failed")
		RecordAnalysis(OutcomeError)
		return AnalysisResult{}, ErrAnalysisFailed
	}

	log.Info("Response received from completion API")
	RecordAnalysis(OutcomeSuccess)
	return AnalysisResult{Suggestions: resp.Choices[0].Message.Content}, nil
}

func checkChoices(resp *ChatCompletionResponse) error {
	if resp == nil {
		return errors.New("empty response")
	}
	if len(resp.Choices) == 0 {
		return fmt.Errorf("no choices returned in response %q", resp.ID)
	}
	return nil
}
