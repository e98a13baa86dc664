package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	client := NewClient(ClientConfig{APIKey: "test-key", BaseURL: server.URL})
	return client, server
}

func TestClient_Complete(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", got)
		}

		var req CompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Model != "gpt-3.5-turbo" || len(req.Messages) != 2 {
			t.Errorf("unexpected request: %+v", req)
		}

		json.NewEncoder(w).Encode(map[string]any{
			"model": "gpt-3.5-turbo",
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": "the answer"}},
			},
			"usage": map[string]int{"prompt_tokens": 100, "completion_tokens": 20, "total_tokens": 120},
		})
	})
	defer server.Close()

	resp, err := client.Complete(context.Background(), &CompletionRequest{
		Model: "gpt-3.5-turbo",
		Messages: []Message{
			{Role: RoleSystem, Content: "You are a helpful assistant."},
			{Role: RoleUser, Content: "question"},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Content != "the answer" {
		t.Errorf("Content = %q, want %q", resp.Content, "the answer")
	}
	if resp.Usage.TotalTokens != 120 {
		t.Errorf("TotalTokens = %d, want 120", resp.Usage.TotalTokens)
	}
}

func TestClient_ErrorTaxonomy(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		headers   map[string]string
		wantErr   func(error) bool
		retryable bool
	}{
		{
			name:   "rate limited",
			status: http.StatusTooManyRequests,
			wantErr: func(err error) bool {
				var e *RateLimitError
				return errors.As(err, &e)
			},
			retryable: true,
		},
		{
			name:    "rate limited with retry-after",
			status:  http.StatusTooManyRequests,
			headers: map[string]string{"Retry-After": "7"},
			wantErr: func(err error) bool {
				var e *RateLimitError
				return errors.As(err, &e) && e.RetryAfter == 7*time.Second
			},
			retryable: true,
		},
		{
			name:   "unauthorized",
			status: http.StatusUnauthorized,
			wantErr: func(err error) bool {
				var e *AuthError
				return errors.As(err, &e)
			},
			retryable: false,
		},
		{
			name:   "server error",
			status: http.StatusInternalServerError,
			wantErr: func(err error) bool {
				var e *ProviderError
				return errors.As(err, &e) && e.StatusCode == http.StatusInternalServerError
			},
			retryable: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
				for k, v := range tt.headers {
					w.Header().Set(k, v)
				}
				w.WriteHeader(tt.status)
				w.Write([]byte("upstream says no"))
			})
			defer server.Close()

			_, err := client.Complete(context.Background(), &CompletionRequest{Model: "m"})
			if err == nil {
				t.Fatal("expected an error")
			}
			if !tt.wantErr(err) {
				t.Errorf("unexpected error type: %v", err)
			}
			if got := IsRetryable(err); got != tt.retryable {
				t.Errorf("IsRetryable = %v, want %v", got, tt.retryable)
			}
		})
	}
}

func TestClient_MalformedResponse(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json at all"))
	})
	defer server.Close()

	_, err := client.Complete(context.Background(), &CompletionRequest{Model: "m"})
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if IsRetryable(err) {
		t.Error("parse errors must not be retryable")
	}
}

func TestClient_EmptyChoices(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"model":"m","choices":[],"usage":{"total_tokens":1}}`))
	})
	defer server.Close()

	_, err := client.Complete(context.Background(), &CompletionRequest{Model: "m"})
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
}

func TestClient_TransportErrorIsRetryable(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {})
	server.Close() // connection refused from here on

	_, err := client.Complete(context.Background(), &CompletionRequest{Model: "m"})
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("expected RequestError, got %v", err)
	}
	if !IsRetryable(err) {
		t.Error("transport errors must be retryable")
	}
}

func TestRenderMessages(t *testing.T) {
	got := RenderMessages([]Message{
		{Role: RoleSystem, Content: "ctx"},
		{Role: RoleUser, Content: "q"},
	})
	want := "system: ctx\nuser: q\n"
	if got != want {
		t.Errorf("RenderMessages = %q, want %q", got, want)
	}
}
