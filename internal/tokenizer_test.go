package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBPETokenizer_Count(t *testing.T) {
	tok := NewBPETokenizer(GPT3Encoding)

	count, err := tok.Count("hello world")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = tok.Count("")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestBPETokenizer_UnknownEncoding(t *testing.T) {
	_, err := NewBPETokenizer("no_such_encoding").Count("hello")
	assert.Error(t, err)
}
