package internal

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpstreamMetrics_SeriesBoundedByStatus(t *testing.T) {
	ok := newTestProxy(t, &mockCompleter{resp: completionWith("fine")})
	failing := newTestProxy(t, &mockCompleter{err: &APIError{StatusCode: http.StatusBadGateway}})

	for i := 0; i < 50; i++ {
		req := validRequest()
		req.Model = fmt.Sprintf("made-up-model-%d", i)

		_, err := ok.Analyze(context.Background(), req)
		require.NoError(t, err)
		_, err = failing.Analyze(context.Background(), req)
		require.ErrorIs(t, err, ErrAnalysisFailed)
	}

	// One series per status, whatever models clients send
	assert.LessOrEqual(t, testutil.CollectAndCount(upstreamDuration), 2)
	assert.LessOrEqual(t, testutil.CollectAndCount(analysisTotal), 4)
}
