package internal

import (
	"fmt"
	"sync"

	"github.com/pkoukk/tiktoken-go"
	tiktoken_loader "github.com/pkoukk/tiktoken-go-loader"
)

// GPT3Encoding is the byte-pair encoding used by the GPT-3 family
const GPT3Encoding = "r50k_base"

// Tokenizer counts the tokens a model would see for a piece of text
type Tokenizer interface {
	Count(text string) (int, error)
}

// BPETokenizer counts tokens with an embedded tiktoken encoding
type BPETokenizer struct {
	encoding string

	once sync.Once
	enc  *tiktoken.Tiktoken
	err  error
}

var setLoaderOnce sync.Once

// NewBPETokenizer returns a tokenizer for the named encoding.
// The encoding tables are loaded on first use.
func NewBPETokenizer(encoding string) *BPETokenizer {
	setLoaderOnce.Do(func() {
		tiktoken.SetBpeLoader(tiktoken_loader.NewOfflineLoader())
	})
	return &BPETokenizer{encoding: encoding}
}

// Count returns the number of tokens in text
func (t *BPETokenizer) Count(text string) (int, error) {
	t.once.Do(func() {
		t.enc, t.err = tiktoken.GetEncoding(t.encoding)
	})
	if t.err != nil {
		return 0, fmt.Errorf("failed to load encoding %s: %w", t.encoding, t.err)
	}
	return len(t.enc.Encode(text, nil, nil)), nil
}
