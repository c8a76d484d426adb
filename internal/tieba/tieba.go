// © 2026 danielgzd. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package tieba implements a client for the Baidu Tieba forum API and the
// daily check-in tasks built on top of it.
package tieba

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/danielgzd/MyAutoScript/internal/logger"
	"github.com/danielgzd/MyAutoScript/internal/request"
	"github.com/danielgzd/MyAutoScript/internal/syncx"
)

const (
	tbsURL      = "http://tieba.baidu.com/dc/common/tbs"
	likesURL    = "http://c.tieba.baidu.com/c/f/forum/like"
	signURL     = "http://c.tieba.baidu.com/c/c/forum/sign"
	followURL   = "http://c.tieba.baidu.com/c/c/forum/like"
	trendingURL = "https://tieba.baidu.com/f/index/rcmdForum"

	browserUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/95.0.4638.69 Safari/537.36"

	// pageSize is the number of followed forums requested per page.
	pageSize = 200
	// maxRetries is the number of times a failed page fetch is repeated.
	maxRetries = 3
)

// Community is a Tieba forum.
type Community struct {
	ID   int64
	Name string
}

// APIError is an application-level error reported by Tieba inside an
// otherwise successful response.
type APIError struct {
	Code    int64
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("tieba: error %d: %s", e.Code, e.Message)
}

// Client talks to the Tieba API on behalf of one account.
type Client struct {
	// BDUSS is the session cookie of the account.
	BDUSS string
	// HTTPClient is used for all requests. If nil, request.DefaultClient is used.
	HTTPClient *http.Client
	// Logger receives diagnostics. If nil, nothing is logged.
	Logger *slog.Logger
	// Now acts as time.Now, but can be mocked for testing.
	Now func() time.Time

	// tbs is fetched on first use and reused for the lifetime of the Client,
	// even if the fetch failed.
	tbs syncx.Lazy[string]
}

func (c *Client) logger() *slog.Logger { return logger.Or(c.Logger) }

func (c *Client) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func (c *Client) scrubber() *strings.Replacer {
	if c.BDUSS == "" {
		return nil
	}
	return strings.NewReplacer(c.BDUSS, "[EXPUNGED]")
}

// TBS returns the anti-forgery token required by sign-in and follow requests.
// If the token can't be fetched, the failure is logged and TBS returns an
// empty string, which is then used for the rest of the Client's lifetime.
func (c *Client) TBS(ctx context.Context) string {
	return c.tbs.Get(func() string {
		resp, err := request.MakeJSON[struct {
			TBS string `json:"tbs"`
		}](ctx, request.Params{
			Method: http.MethodGet,
			URL:    tbsURL,
			Headers: map[string]string{
				"Cookie":     "BDUSS=" + c.BDUSS,
				"Host":       "tieba.baidu.com",
				"User-Agent": browserUserAgent,
				"Referer":    "https://tieba.baidu.com/",
			},
			HTTPClient: c.HTTPClient,
			Scrubber:   c.scrubber(),
		})
		if err != nil {
			c.logger().Error("fetching tbs failed", "error", err)
			return ""
		}
		return resp.TBS
	})
}

// clientFields returns the fields the Tieba mobile client sends with every
// signed request.
func (c *Client) clientFields() map[string]string {
	return map[string]string{
		"_client_type":    "2",
		"_client_id":      "wappc_1534235498291_488",
		"_client_version": "9.7.8.0",
		"_phone_imei":     "000000000000000",
		"model":           "MI+5",
		"net_type":        "1",
		"timestamp":       strconv.FormatInt(c.now().Unix(), 10),
		"vcode_tag":       "11",
	}
}

type forumEntry struct {
	ID   flexInt `json:"id"`
	Name string  `json:"name"`
}

type likesResponse struct {
	HasMore   flexInt         `json:"has_more"`
	ForumList json.RawMessage `json:"forum_list"`
}

type forumList struct {
	NonGconforum []forumEntry `json:"non-gconforum"`
	Gconforum    []forumEntry `json:"gconforum"`
}

type likesPage struct {
	forums  []Community
	hasMore bool
}

// Followed returns all forums the account follows, in the order Tieba lists
// them. Each page is tried up to 1+maxRetries times; if a page still fails,
// the forums collected so far are returned and the failure is logged. The
// returned error is non-nil only if ctx is done.
func (c *Client) Followed(ctx context.Context) ([]Community, error) {
	var all []Community
	for page := 1; ; page++ {
		lp, err := c.likesPageWithRetry(ctx, page)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return all, ctxErr
			}
			c.logger().Error("listing followed forums failed, giving up", "page", page, "error", err)
			return all, nil
		}
		all = append(all, lp.forums...)
		if !lp.hasMore {
			return all, nil
		}
	}
}

func (c *Client) likesPageWithRetry(ctx context.Context, page int) (likesPage, error) {
	var err error
	for attempt := 1; attempt <= 1+maxRetries; attempt++ {
		var lp likesPage
		lp, err = c.likesPage(ctx, page)
		if err == nil {
			return lp, nil
		}
		if ctx.Err() != nil {
			return likesPage{}, err
		}
		c.logger().Warn("listing followed forums failed", "page", page, "attempt", attempt, "error", err)
	}
	return likesPage{}, err
}

func (c *Client) likesPage(ctx context.Context, page int) (likesPage, error) {
	data := c.clientFields()
	data["BDUSS"] = c.BDUSS
	data["from"] = "1008621y"
	data["page_no"] = strconv.Itoa(page)
	data["page_size"] = strconv.Itoa(pageSize)

	resp, err := request.MakeJSON[likesResponse](ctx, request.Params{
		Method:     http.MethodPost,
		URL:        likesURL,
		Form:       signedForm(data),
		HTTPClient: c.HTTPClient,
		Scrubber:   c.scrubber(),
	})
	if err != nil {
		return likesPage{}, err
	}

	lp := likesPage{hasMore: resp.HasMore == 1}
	// An account without forums gets an empty array instead of an object.
	if raw := bytes.TrimSpace(resp.ForumList); len(raw) > 0 && raw[0] == '{' {
		var fl forumList
		if err := json.Unmarshal(raw, &fl); err != nil {
			return likesPage{}, fmt.Errorf("decoding forum list: %w", err)
		}
		for _, e := range fl.NonGconforum {
			lp.forums = append(lp.forums, Community{ID: int64(e.ID), Name: e.Name})
		}
		for _, e := range fl.Gconforum {
			lp.forums = append(lp.forums, Community{ID: int64(e.ID), Name: e.Name})
		}
	}
	return lp, nil
}

type signResponse struct {
	ErrorCode flexInt `json:"error_code"`
	ErrorMsg  string  `json:"error_msg"`
}

// Sign checks in to the forum f.
func (c *Client) Sign(ctx context.Context, f Community) error {
	data := c.clientFields()
	data["BDUSS"] = c.BDUSS
	data["fid"] = strconv.FormatInt(f.ID, 10)
	data["kw"] = f.Name
	data["tbs"] = c.TBS(ctx)

	resp, err := request.MakeJSON[signResponse](ctx, request.Params{
		Method:     http.MethodPost,
		URL:        signURL,
		Form:       signedForm(data),
		HTTPClient: c.HTTPClient,
		Scrubber:   c.scrubber(),
	})
	if err != nil {
		return err
	}
	if resp.ErrorCode != 0 {
		return &APIError{Code: int64(resp.ErrorCode), Message: resp.ErrorMsg}
	}
	return nil
}

type followResponse struct {
	Error *struct {
		Errno  *flexInt `json:"errno"`
		Errmsg string   `json:"errmsg"`
	} `json:"error"`
}

// Follow makes the account follow the forum f. Unlike other endpoints, the
// follow endpoint reports errors in a nested "error" object.
func (c *Client) Follow(ctx context.Context, f Community) error {
	data := map[string]string{
		"BDUSS": c.BDUSS,
		"fid":   strconv.FormatInt(f.ID, 10),
		"kw":    f.Name,
		"tbs":   c.TBS(ctx),
	}

	resp, err := request.MakeJSON[followResponse](ctx, request.Params{
		Method:     http.MethodPost,
		URL:        followURL,
		Form:       signedForm(data),
		HTTPClient: c.HTTPClient,
		Scrubber:   c.scrubber(),
	})
	if err != nil {
		return err
	}
	if resp.Error == nil || resp.Error.Errno == nil {
		return &APIError{Code: -1, Message: "response has no error status"}
	}
	if *resp.Error.Errno != 0 {
		return &APIError{Code: int64(*resp.Error.Errno), Message: resp.Error.Errmsg}
	}
	return nil
}

type trendingResponse struct {
	Data struct {
		ForumInfo []struct {
			ForumID   flexInt `json:"forum_id"`
			ForumName string  `json:"forum_name"`
		} `json:"forum_info"`
	} `json:"data"`
}

// Trending returns a page of currently popular forums.
func (c *Client) Trending(ctx context.Context, page, size int) ([]Community, error) {
	resp, err := request.MakeJSON[trendingResponse](ctx, request.Params{
		Method: http.MethodGet,
		URL:    trendingURL,
		Query: url.Values{
			"pn": {strconv.Itoa(page)},
			"rn": {strconv.Itoa(size)},
		},
		HTTPClient: c.HTTPClient,
		Scrubber:   c.scrubber(),
	})
	if err != nil {
		return nil, err
	}

	forums := make([]Community, 0, len(resp.Data.ForumInfo))
	for _, info := range resp.Data.ForumInfo {
		forums = append(forums, Community{ID: int64(info.ForumID), Name: info.ForumName})
	}
	return forums, nil
}

// flexInt is an integer that Tieba encodes either as a JSON number or as a
// string. Empty strings and null decode to zero.
type flexInt int64

func (n *flexInt) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*n = 0
		return nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid integer %s: %w", b, err)
	}
	*n = flexInt(v)
	return nil
}
