package worldbank

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"
)

// ErrEndOfStream signals that a page request yielded no further data: the
// response was not the expected two-element envelope, or the records element
// was empty or absent. Callers treat it as benign pagination termination,
// never as a failure.
var ErrEndOfStream = errors.New("worldbank: end of stream")

// PageMeta is the first element of the response envelope. The API is loose
// about numeric types here (per_page arrives as a string), so fields are
// decoded leniently and default to zero when absent.
type PageMeta struct {
	Page    int
	Pages   int
	PerPage int
	Total   int
}

// Page is one decoded response chunk: its metadata plus the raw records.
type Page struct {
	Meta    PageMeta
	Records []map[string]any
}

// TotalPages returns the page count reported by the API, defaulting to 1
// when the metadata omits it.
func (p *Page) TotalPages() int {
	if p.Meta.Pages <= 0 {
		return 1
	}
	return p.Meta.Pages
}

// FetchPage issues one GET for the given endpoint path (relative to the
// client's base URL) and query parameters, and decodes the two-element
// [metadata, records] envelope.
//
// It returns ErrEndOfStream when the response carries no records; any HTTP,
// network, or envelope-shape failure is returned as a real error.
func (c *Client) FetchPage(ctx context.Context, path string, query url.Values) (*Page, error) {
	u := c.baseURL + "/" + path
	if enc := query.Encode(); enc != "" {
		u += "?" + enc
	}

	resp, err := c.get(ctx, u)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("worldbank: GET %s: unexpected status %d", u, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("worldbank: read response: %w", err)
	}

	return decodeEnvelope(body)
}

// decodeEnvelope splits the two-element [metadata, records] payload.
//
// Shapes that mean "no data" (a non-array top level, fewer than two
// elements, or a null/empty records array) map to ErrEndOfStream. A payload
// that is not valid JSON at all is a real error.
func decodeEnvelope(body []byte) (*Page, error) {
	var elems []json.RawMessage
	if err := json.Unmarshal(body, &elems); err != nil {
		// Valid JSON that is not an array (e.g. an error object) means the
		// endpoint has no data for us.
		if json.Valid(body) {
			return nil, ErrEndOfStream
		}
		return nil, fmt.Errorf("worldbank: malformed envelope: %w", err)
	}
	if len(elems) < 2 {
		return nil, ErrEndOfStream
	}

	var rawMeta map[string]any
	if err := json.Unmarshal(elems[0], &rawMeta); err != nil {
		return nil, fmt.Errorf("worldbank: malformed page metadata: %w", err)
	}

	var recs []map[string]any
	if err := json.Unmarshal(elems[1], &recs); err != nil {
		return nil, fmt.Errorf("worldbank: malformed records element: %w", err)
	}
	if len(recs) == 0 {
		return nil, ErrEndOfStream
	}

	return &Page{
		Meta: PageMeta{
			Page:    metaInt(rawMeta, "page"),
			Pages:   metaInt(rawMeta, "pages"),
			PerPage: metaInt(rawMeta, "per_page"),
			Total:   metaInt(rawMeta, "total"),
		},
		Records: recs,
	}, nil
}

// metaInt reads an integer metadata field, accepting both JSON numbers and
// the string-typed numbers the API emits for some fields. Absent or
// unparseable values yield zero.
func metaInt(m map[string]any, key string) int {
	switch v := m[key].(type) {
	case float64:
		return int(v)
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return 0
}
