// Package search builds Google site-search queries from reference URLs.
package search

import (
	"net/url"
	"regexp"
	"strings"
)

const (
	// DefaultEndpoint is the Google web search endpoint.
	DefaultEndpoint = "https://www.google.com/search"

	clauseSeparator = " | "
)

var prefixPattern = regexp.MustCompile(`^(https?://)?(www\.)?`)

// componentEscaper maps url.QueryEscape output onto encodeURIComponent, which
// keeps !'()* literal and writes spaces as %20.
var componentEscaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// CleanURL strips a leading http:// or https:// and then a leading www.
// Anything else is returned untouched.
func CleanURL(raw string) string {
	return prefixPattern.ReplaceAllString(raw, "")
}

// BuildQuery joins one site: clause per URL, preserving order.
func BuildQuery(urls []string) string {
	clauses := make([]string, 0, len(urls))
	for _, u := range urls {
		clauses = append(clauses, "site:"+CleanURL(u))
	}
	return strings.Join(clauses, clauseSeparator)
}

// EscapeComponent percent-encodes value for use as a single query component.
func EscapeComponent(value string) string {
	return componentEscaper.Replace(url.QueryEscape(value))
}

// Engine renders search URLs against a configurable endpoint.
type Engine struct {
	Endpoint string
}

// URL returns the search URL for query with the search bar focused.
func (e Engine) URL(query string) string {
	endpoint := strings.TrimSpace(e.Endpoint)
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return endpoint + "?q=" + EscapeComponent(query) + "&focus=searchbar"
}

// GoogleURL returns the Google search URL for query.
func GoogleURL(query string) string {
	return Engine{}.URL(query)
}
