package tokens

import (
	"fmt"

	tiktoken "github.com/pkoukk/tiktoken-go"
)

// Tokenizer counts tokens using the model's exact BPE vocabulary.
// It is safe for concurrent use.
type Tokenizer struct {
	enc   *tiktoken.Tiktoken
	model string
}

// NewTokenizer creates a Tokenizer for the given model name
// (e.g. "gpt-3.5-turbo", "gpt-4").
func NewTokenizer(model string) (*Tokenizer, error) {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		return nil, fmt.Errorf("tokens: encoding for model %q: %w", model, err)
	}
	return &Tokenizer{enc: enc, model: model}, nil
}

// Model returns the model name this tokenizer was built for.
func (t *Tokenizer) Model() string {
	return t.model
}

// Count returns the number of tokens in text.
func (t *Tokenizer) Count(text string) int {
	return len(t.enc.Encode(text, nil, nil))
}

// Encode converts text to its token id sequence.
func (t *Tokenizer) Encode(text string) []int {
	return t.enc.Encode(text, nil, nil)
}

// Decode converts a token id sequence back to text.
func (t *Tokenizer) Decode(ids []int) string {
	return t.enc.Decode(ids)
}
