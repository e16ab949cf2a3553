package internal

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRequest() AnalysisRequest {
	return AnalysisRequest{
		Code:        "var x = 1;",
		Model:       "gpt-4o-mini",
		Temperature: 0.4,
		TopP:        0.9,
	}
}

func newTestProxy(t *testing.T, completer Completer) *CompletionProxy {
	t.Helper()
	proxy, err := NewCompletionProxy(testProxyConfig(), completer)
	require.NoError(t, err)
	return proxy
}

func TestNewCompletionProxy_RequiresAPIKey(t *testing.T) {
	cfg := testProxyConfig()
	cfg.APIKey = ""

	proxy, err := NewCompletionProxy(cfg, &mockCompleter{})
	assert.Nil(t, proxy)
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestAnalyze_Success(t *testing.T) {
	mock := &mockCompleter{resp: completionWith("Use const instead of var.")}
	proxy := newTestProxy(t, mock)

	result, err := proxy.Analyze(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, AnalysisResult{Suggestions: "Use const instead of var."}, result)
	assert.Equal(t, 1, mock.callCount())
}

func TestAnalyze_BuildsChatRequest(t *testing.T) {
	mock := &mockCompleter{resp: completionWith("ok")}
	proxy := newTestProxy(t, mock)

	_, err := proxy.Analyze(context.Background(), validRequest())
	require.NoError(t, err)
	require.Len(t, mock.requests, 1)

	sent := mock.requests[0]
	assert.Equal(t, "gpt-4o-mini", sent.Model)
	assert.Equal(t, 0.4, sent.Temperature)
	assert.Equal(t, 0.9, sent.TopP)
	assert.Equal(t, 512, sent.MaxTokens)
	assert.Equal(t, []ChatMessage{
		{Role: RoleSystem, Content: "You review code."},
		{Role: RoleUser, Content: "Review this:\nvar x = 1;"},
	}, sent.Messages)
}

func TestAnalyze_RateLimitIsSoftFailure(t *testing.T) {
	mock := &mockCompleter{err: &APIError{StatusCode: http.StatusTooManyRequests, Message: "slow down"}}
	proxy := newTestProxy(t, mock)

	result, err := proxy.Analyze(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, RateLimitedMessage, result.Suggestions)
}

func TestAnalyze_WrappedRateLimitIsSoftFailure(t *testing.T) {
	wrapped := errors.Join(errors.New("upstream"), &APIError{StatusCode: http.StatusTooManyRequests})
	proxy := newTestProxy(t, &mockCompleter{err: wrapped})

	result, err := proxy.Analyze(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, RateLimitedMessage, result.Suggestions)
}

func TestAnalyze_FailuresAreNormalized(t *testing.T) {
	tests := []struct {
		name string
		mock *mockCompleter
	}{
		{
			name: "Server error",
			mock: &mockCompleter{err: &APIError{StatusCode: http.StatusInternalServerError, Message: "secret internal detail"}},
		},
		{
			name: "Transport error",
			mock: &mockCompleter{err: errors.New("dial tcp: secret internal detail")},
		},
		{
			name: "Timeout",
			mock: &mockCompleter{err: context.DeadlineExceeded},
		},
		{
			name: "No choices",
			mock: &mockCompleter{resp: &ChatCompletionResponse{ID: "secret internal detail"}},
		},
		{
			name: "Nil response",
			mock: &mockCompleter{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			proxy := newTestProxy(t, tt.mock)

			result, err := proxy.Analyze(context.Background(), validRequest())
			require.ErrorIs(t, err, ErrAnalysisFailed)
			assert.Equal(t, ErrAnalysisFailed, err)
			assert.NotContains(t, err.Error(), "secret")
			assert.Empty(t, result.Suggestions)
			assert.Equal(t, 1, tt.mock.callCount())
		})
	}
}

func TestAnalyze_Idempotent(t *testing.T) {
	mock := &mockCompleter{resp: completionWith("Prefer strict equality.")}
	proxy := newTestProxy(t, mock)

	first, err := proxy.Analyze(context.Background(), validRequest())
	require.NoError(t, err)
	second, err := proxy.Analyze(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	require.Len(t, mock.requests, 2)
	assert.Equal(t, mock.requests[0], mock.requests[1])
}

func TestAnalyze_LocalRateLimit(t *testing.T) {
	cfg := testProxyConfig()
	cfg.RateLimitPerMinute = 1
	mock := &mockCompleter{resp: completionWith("fine")}

	proxy, err := NewCompletionProxy(cfg, mock)
	require.NoError(t, err)

	first, err := proxy.Analyze(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, "fine", first.Suggestions)

	second, err := proxy.Analyze(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, RateLimitedMessage, second.Suggestions)
	assert.Equal(t, 1, mock.callCount())
}

func TestUpstreamLimiter_NilAllows(t *testing.T) {
	var l *UpstreamLimiter
	assert.Nil(t, NewUpstreamLimiter(0))
	assert.True(t, l.Allow())
}
