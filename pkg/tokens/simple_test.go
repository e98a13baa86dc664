package tokens

import "testing"

func TestSimpleCounter_Count(t *testing.T) {
	tests := []struct {
		name     string
		counter  SimpleCounter
		text     string
		expected int
	}{
		{"empty text", SimpleCounter{}, "", 0},
		{"single char rounds up", SimpleCounter{}, "a", 1},
		{"exact multiple", SimpleCounter{}, "abcdefgh", 2},
		{"rounds up", SimpleCounter{}, "abcdefghi", 3},
		{"custom ratio", SimpleCounter{CharsPerToken: 2}, "abcdef", 3},
		{"zero ratio falls back to default", SimpleCounter{CharsPerToken: 0}, "abcd", 1},
		{"multibyte runes counted once", SimpleCounter{CharsPerToken: 1}, "héllo", 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.counter.Count(tt.text)
			if got != tt.expected {
				t.Errorf("Count(%q) = %d, want %d", tt.text, got, tt.expected)
			}
		})
	}
}

func TestSimpleCounter_Deterministic(t *testing.T) {
	c := SimpleCounter{}
	text := "the quick brown fox jumps over the lazy dog"
	first := c.Count(text)
	for i := 0; i < 10; i++ {
		if got := c.Count(text); got != first {
			t.Fatalf("Count is not deterministic: %d != %d", got, first)
		}
	}
}

func TestBudget_ChunkTokens(t *testing.T) {
	tests := []struct {
		name     string
		budget   Budget
		overhead int
		expected int
	}{
		{"no reserve", Budget{ContextWindow: 4096, AnswerReserve: 0}, 96, 4000},
		{"third reserved", Budget{ContextWindow: 4096, AnswerReserve: 1.0 / 3.0}, 96, 2666},
		{"overhead exceeds window", Budget{ContextWindow: 100, AnswerReserve: 0.5}, 200, 0},
		{"overhead equals window", Budget{ContextWindow: 100, AnswerReserve: 0.5}, 100, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.budget.ChunkTokens(tt.overhead)
			if got != tt.expected {
				t.Errorf("ChunkTokens(%d) = %d, want %d", tt.overhead, got, tt.expected)
			}
		})
	}
}

func TestPromptOverhead(t *testing.T) {
	// 40 chars -> 10 tokens -> ceil(10 * 1.1) = 11
	c := SimpleCounter{}
	text := "0123456789012345678901234567890123456789"
	if got := PromptOverhead(c, text); got != 11 {
		t.Errorf("PromptOverhead = %d, want 11", got)
	}
}
