package api

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// Client issues JSON requests against the booking backend.
type Client struct {
	http *resty.Client
}

// Options configures a Client.
type Options struct {
	BaseURL   string
	Timeout   time.Duration
	Transport http.RoundTripper // optional, e.g. an instrumented transport
}

// NewClient creates a new Client.
func NewClient(opts Options) *Client {
	rc := resty.New().
		SetBaseURL(opts.BaseURL).
		SetTimeout(opts.Timeout).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json")
	if opts.Transport != nil {
		rc.SetTransport(opts.Transport)
	}
	return &Client{http: rc}
}

// errorBody is the backend's failure shape.
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// call describes one backend request.
type call struct {
	op       string
	method   string
	path     string
	token    string
	auth     bool
	body     any
	params   map[string]string
	result   any
	fallback string
}

// do issues c and normalizes every failure into *Error.
func (c *Client) do(ctx context.Context, req call) error {
	if req.auth && req.token == "" {
		return ErrAuthRequired
	}

	var failure errorBody
	r := c.http.R().
		SetContext(ctx).
		SetError(&failure)
	if req.auth {
		r.SetAuthToken(req.token)
	}
	if req.body != nil {
		r.SetBody(req.body)
	}
	if req.result != nil {
		r.SetResult(req.result)
	}
	if len(req.params) > 0 {
		r.SetPathParams(req.params)
	}

	resp, err := r.Execute(req.method, req.path)
	if err != nil {
		log.Printf("api: %s error: %v", req.op, err)
		return &Error{Kind: KindNetwork, Message: msgNetwork}
	}

	if resp.IsError() {
		msg := failure.Message
		if msg == "" {
			msg = failure.Error
		}
		if msg == "" {
			msg = req.fallback
		}
		kind := KindBackend
		if resp.StatusCode() == http.StatusNotFound {
			kind = KindNotFound
		}
		return &Error{Kind: kind, Status: resp.StatusCode(), Message: msg}
	}

	// resty leaves result untouched when a 2xx body is not declared as JSON.
	if req.result != nil && !resty.IsJSONType(resp.Header().Get("Content-Type")) {
		log.Printf("api: %s: unexpected content type %q", req.op, resp.Header().Get("Content-Type"))
		return &Error{Kind: KindNetwork, Status: resp.StatusCode(), Message: msgNetwork}
	}

	return nil
}
