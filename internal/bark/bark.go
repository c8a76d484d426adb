// © 2026 danielgzd. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package bark pushes notifications to a Bark server.
//
// Delivery is best-effort: failures are logged and never returned, so a
// notification problem can't change the outcome of the tool sending it.
package bark

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/danielgzd/MyAutoScript/internal/logger"
	"github.com/danielgzd/MyAutoScript/internal/request"
)

// Client pushes notifications to the webhook at URL.
type Client struct {
	// URL is the device webhook, like "https://api.day.app/<key>/". If empty,
	// pushes are skipped.
	URL string
	// HTTPClient is used for requests. If nil, request.DefaultClient is used.
	HTTPClient *http.Client
	// Logger receives delivery results. If nil, nothing is logged.
	Logger *slog.Logger
}

type response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// PushPath delivers title and body embedded into the URL path, as
// URL + title + "/" + body. The push counts as delivered only if the server
// responds with 200 OK and a JSON body with code 200.
func (c *Client) PushPath(ctx context.Context, title, body string) {
	if c.skip() {
		return
	}
	log := logger.Or(c.Logger)

	resp, err := request.MakeJSON[response](ctx, request.Params{
		Method:     http.MethodGet,
		URL:        c.URL + url.PathEscape(title) + "/" + url.PathEscape(body),
		HTTPClient: c.HTTPClient,
		Scrubber:   c.scrubber(),
	})
	if err != nil {
		log.Error("push failed", "error", err)
		return
	}
	if resp.Code != http.StatusOK {
		log.Error("push failed", "code", resp.Code, "message", resp.Message)
		return
	}
	log.Info("push delivered")
}

// PushJSON delivers title and body as a JSON object POSTed to URL. Any 200 OK
// response counts as delivered.
func (c *Client) PushJSON(ctx context.Context, title, body string) {
	if c.skip() {
		return
	}
	log := logger.Or(c.Logger)

	_, err := request.Make(ctx, request.Params{
		Method: http.MethodPost,
		URL:    c.URL,
		Body: map[string]string{
			"title": title,
			"body":  body,
		},
		HTTPClient: c.HTTPClient,
		Scrubber:   c.scrubber(),
	})
	if err != nil {
		log.Error("push failed", "error", err)
		return
	}
	log.Info("push delivered")
}

func (c *Client) skip() bool {
	if c.URL == "" {
		logger.Or(c.Logger).Debug("no push URL configured, skipping push")
		return true
	}
	return false
}

// scrubber hides the device key, which is the path of the webhook URL.
func (c *Client) scrubber() *strings.Replacer {
	u, err := url.Parse(c.URL)
	if err != nil || strings.Trim(u.Path, "/") == "" {
		return nil
	}
	key := strings.Trim(u.Path, "/")
	return strings.NewReplacer(key, "[EXPUNGED]", url.PathEscape(key), "[EXPUNGED]")
}
