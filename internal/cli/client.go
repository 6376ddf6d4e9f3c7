// Package cli implements questionctl, a debug client for the question API.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
)

// DefaultBaseURL is the local development server.
const DefaultBaseURL = "http://localhost:3000"

// ErrInvalidJSON is returned when the server answers with a body that is not JSON.
var ErrInvalidJSON = errors.New("response is not valid JSON")

// Client fetches documents from the question API.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient returns a client for baseURL, defaulting to DefaultBaseURL.
func NewClient(baseURL string) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Response is a fetched JSON document.
type Response struct {
	Status int
	Body   []byte
}

// Error returns the "error" field of the document, if present.
func (r Response) Error() string {
	return gjson.GetBytes(r.Body, "error").String()
}

// GetQuestion issues a single GET for the question with the given id. The
// request carries no headers or credentials and is not retried.
func (c *Client) GetQuestion(ctx context.Context, id string) (Response, error) {
	url := fmt.Sprintf("%s/api/questions/%s", c.BaseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Response{}, err
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return Response{}, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, fmt.Errorf("read response: %w", err)
	}
	if !gjson.ValidBytes(body) {
		return Response{}, ErrInvalidJSON
	}
	return Response{Status: resp.StatusCode, Body: body}, nil
}

// Format indents a JSON document, adding terminal colors when color is set.
func Format(body []byte, color bool) []byte {
	out := pretty.PrettyOptions(body, &pretty.Options{Width: 80, Indent: "  "})
	if color {
		out = pretty.Color(out, nil)
	}
	return out
}
