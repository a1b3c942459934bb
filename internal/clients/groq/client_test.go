package groq

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/pathprep/pathprep-backend/internal/logger"
	"github.com/pathprep/pathprep-backend/internal/pkg/resilience"
)

func newTestClient(t *testing.T, baseURL string, breaker *resilience.Breaker) Client {
	t.Helper()
	t.Setenv("GROQ_API_KEY", "test-key")
	t.Setenv("GROQ_BASE_URL", baseURL)
	t.Setenv("GROQ_MAX_RETRIES", "2")
	log, err := logger.New("dev")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	c, err := NewClient(log, breaker)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func completionBody(text string) string {
	return `{"choices":[{"message":{"role":"assistant","content":` + jsonString(text) + `},"finish_reason":"stop"}]}`
}

func jsonString(s string) string {
	out := `"`
	for _, r := range s {
		switch r {
		case '"':
			out += `\"`
		case '\\':
			out += `\\`
		case '\n':
			out += `\n`
		default:
			out += string(r)
		}
	}
	return out + `"`
}

func TestGenerate_RetriesRateLimit(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":{"message":"rate limit exceeded"}}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionBody("hello")))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, nil)
	out, err := c.Generate(context.Background(), "say hello", "")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if out != "hello" {
		t.Fatalf("got %q, want %q", out, "hello")
	}
	if calls != 2 {
		t.Fatalf("got %d calls, want 2", calls)
	}
}

func TestGenerate_NoRetryOnServerError(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"boom"}}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, nil)
	_, err := c.Generate(context.Background(), "say hello", "")
	if !errors.Is(err, ErrGenerationFailed) {
		t.Fatalf("got %v, want ErrGenerationFailed", err)
	}
	if calls != 1 {
		t.Fatalf("got %d calls, want 1", calls)
	}
}

func TestGenerate_RateLimitExhaustionMapsUnavailable(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limit exceeded"}}`))
	}))
	defer srv.Close()

	t.Setenv("GROQ_API_KEY", "test-key")
	t.Setenv("GROQ_BASE_URL", srv.URL)
	t.Setenv("GROQ_MAX_RETRIES", "0")
	log, err := logger.New("dev")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	c, err := NewClient(log, nil)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	_, genErr := c.Generate(context.Background(), "say hello", "")
	if !errors.Is(genErr, ErrModelUnavailable) {
		t.Fatalf("got %v, want ErrModelUnavailable", genErr)
	}
	if calls != 1 {
		t.Fatalf("got %d calls, want 1", calls)
	}
}

func TestGenerate_ConnectionFailureMapsUnavailable(t *testing.T) {
	// A closed server refuses the connection outright.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := newTestClient(t, srv.URL, nil)
	_, err := c.Generate(context.Background(), "say hello", "")
	if !errors.Is(err, ErrModelUnavailable) {
		t.Fatalf("got %v, want ErrModelUnavailable", err)
	}
}

func TestGenerate_BreakerShortCircuits(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"boom"}}`))
	}))
	defer srv.Close()

	br := resilience.NewBreaker(resilience.BreakerConfig{
		WindowSize:   4,
		MinCalls:     2,
		FailureRatio: 0.5,
		Cooldown:     time.Minute,
	})
	c := newTestClient(t, srv.URL, br)

	for i := 0; i < 2; i++ {
		if _, err := c.Generate(context.Background(), "say hello", ""); err == nil {
			t.Fatal("expected error")
		}
	}
	callsBefore := calls

	_, err := c.Generate(context.Background(), "say hello", "")
	if !errors.Is(err, ErrModelUnavailable) {
		t.Fatalf("got %v, want ErrModelUnavailable", err)
	}
	if calls != callsBefore {
		t.Fatalf("open breaker still reached server: %d calls", calls-callsBefore)
	}
}

func TestGenerate_CanceledCallFreesBreakerProbe(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionBody("hello")))
	}))
	defer srv.Close()

	now := time.Now()
	clock := func() time.Time { return now }
	br := resilience.NewBreakerWithClock(resilience.BreakerConfig{
		WindowSize:   4,
		MinCalls:     2,
		FailureRatio: 0.4,
		Cooldown:     30 * time.Second,
	}, clock)
	br.Record(true)
	br.Record(true)

	c := newTestClient(t, srv.URL, br)

	// Past the cooldown, the first caller claims the probe slot but its
	// context is already canceled, so the attempt never happens. The slot
	// must come back; a later healthy call has to reach the server and
	// close the breaker.
	now = now.Add(time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.Generate(ctx, "say hello", ""); err == nil {
		t.Fatal("expected error for canceled context")
	}
	if calls != 0 {
		t.Fatalf("canceled call reached server: %d calls", calls)
	}

	out, err := c.Generate(context.Background(), "say hello", "")
	if err != nil {
		t.Fatalf("breaker never recovered after canceled probe: %v", err)
	}
	if out != "hello" {
		t.Fatalf("got %q, want %q", out, "hello")
	}
	if calls != 1 {
		t.Fatalf("got %d calls, want 1", calls)
	}

	// And the breaker is closed again, not half-open.
	if err := br.Allow(); err != nil {
		t.Fatalf("breaker not closed after successful probe: %v", err)
	}
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "")
	os.Unsetenv("GROQ_API_KEY")
	log, err := logger.New("dev")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	if _, err := NewClient(log, nil); err == nil {
		t.Fatal("expected error for missing api key")
	}
}
