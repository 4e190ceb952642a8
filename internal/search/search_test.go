package search

import (
	"strings"
	"testing"
)

func TestCleanURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "https with www", in: "https://www.example.com/a", want: "example.com/a"},
		{name: "http without www", in: "http://example.com", want: "example.com"},
		{name: "bare domain", in: "example.com", want: "example.com"},
		{name: "www only", in: "www.example.com", want: "example.com"},
		{name: "keeps query and slash", in: "https://example.com/path/?q=1", want: "example.com/path/?q=1"},
		{name: "case sensitive scheme", in: "HTTPS://www.example.com", want: "HTTPS://www.example.com"},
		{name: "other scheme untouched", in: "ftp://www.example.com", want: "ftp://www.example.com"},
		{name: "not a url", in: "hello world", want: "hello world"},
		{name: "empty", in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanURL(tt.in); got != tt.want {
				t.Fatalf("CleanURL(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCleanURLIdempotent(t *testing.T) {
	inputs := []string{
		"https://www.example.com/a",
		"http://example.com/www.page",
		"https://example.com",
		"www.",
		"",
		"site:example.com",
	}
	for _, in := range inputs {
		once := CleanURL(in)
		if twice := CleanURL(once); twice != once {
			t.Fatalf("CleanURL not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestCleanURLStripsOnePrefixEach(t *testing.T) {
	// A single substitution removes at most one scheme and one www.
	if got := CleanURL("https://www.www.example.com"); got != "www.example.com" {
		t.Fatalf("unexpected result %q", got)
	}
}

func TestBuildQuery(t *testing.T) {
	got := BuildQuery([]string{"https://a.com", "http://www.b.com"})
	if got != "site:a.com | site:b.com" {
		t.Fatalf("unexpected query %q", got)
	}

	if got := BuildQuery(nil); got != "" {
		t.Fatalf("expected empty query for no urls, got %q", got)
	}
	if got := BuildQuery([]string{}); got != "" {
		t.Fatalf("expected empty query for empty slice, got %q", got)
	}
}

func TestBuildQueryPreservesCountAndOrder(t *testing.T) {
	urls := []string{
		"https://c.org/x",
		"http://www.a.net",
		"b.io",
		"https://c.org/x",
	}

	clauses := strings.Split(BuildQuery(urls), " | ")
	if len(clauses) != len(urls) {
		t.Fatalf("expected %d clauses, got %d", len(urls), len(clauses))
	}
	for i, u := range urls {
		want := "site:" + CleanURL(u)
		if clauses[i] != want {
			t.Fatalf("clause %d = %q, want %q", i, clauses[i], want)
		}
	}
}

func TestEscapeComponentMatchesEncodeURIComponent(t *testing.T) {
	tests := map[string]string{
		"site:a.com | site:b.com": "site%3Aa.com%20%7C%20site%3Ab.com",
		"a+b":                     "a%2Bb",
		"!'()*-_.~":               "!'()*-_.~",
		"a/b?c=d&e#f":             "a%2Fb%3Fc%3Dd%26e%23f",
		"é":                       "%C3%A9",
		"100%":                    "100%25",
	}
	for in, want := range tests {
		if got := EscapeComponent(in); got != want {
			t.Fatalf("EscapeComponent(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestGoogleURL(t *testing.T) {
	got := GoogleURL("site:a.com | site:b.com")
	want := "https://www.google.com/search?q=site%3Aa.com%20%7C%20site%3Ab.com&focus=searchbar"
	if got != want {
		t.Fatalf("GoogleURL = %q, want %q", got, want)
	}
}

func TestEngineCustomEndpoint(t *testing.T) {
	engine := Engine{Endpoint: " https://search.example.org/find "}
	got := engine.URL("site:a.com")
	want := "https://search.example.org/find?q=site%3Aa.com&focus=searchbar"
	if got != want {
		t.Fatalf("Engine.URL = %q, want %q", got, want)
	}
}
