// © 2026 danielgzd. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/danielgzd/MyAutoScript/internal/bark"
	"github.com/danielgzd/MyAutoScript/internal/cli"
	"github.com/danielgzd/MyAutoScript/internal/logger"
	"github.com/danielgzd/MyAutoScript/internal/request"
)

func main() { cli.Main(new(app)) }

type app struct {
	httpc *http.Client // nil means request.DefaultClient
}

const signURL = "https://api.m.jd.com/client.action"

var errNoCredential = errors.New("missing environment variable JD_COOKIE")

func (a *app) Run(ctx context.Context) error {
	env := cli.GetEnv(ctx)
	log := logger.Get(ctx)

	if len(env.Args) != 0 {
		return fmt.Errorf("%w: no arguments expected", cli.ErrInvalidArgs)
	}

	cookie := env.Getenv("JD_COOKIE")
	if cookie == "" {
		return errNoCredential
	}

	notifier := &bark.Client{
		URL:        env.Getenv("BARK_URL_TIEBA_QIANDAO"),
		HTTPClient: a.httpc,
		Logger:     log.Logger,
	}

	log.Info("starting JD sign-in")
	result, err := a.signIn(ctx, cookie)
	if err != nil {
		log.Error("sign-in failed", "error", err)
		notifier.PushJSON(ctx, "JD sign-in failed", err.Error())
		return err
	}

	log.Info("sign-in finished", "result", result)
	notifier.PushJSON(ctx, "JD sign-in succeeded", result)
	return nil
}

func (a *app) signIn(ctx context.Context, cookie string) (string, error) {
	resp, err := request.MakeJSON[struct {
		Code    flexString `json:"code"`
		Message string     `json:"message"`
		Data    struct {
			Status  flexString `json:"status"`
			Reward  flexString `json:"reward"`
			Message string     `json:"message"`
		} `json:"data"`
	}](ctx, request.Params{
		Method: http.MethodPost,
		URL:    signURL,
		Query: url.Values{
			"functionId":    {"signBean"},
			"appid":         {"ld"},
			"client":        {"apple"},
			"clientVersion": {"10.4.0"},
			"body":          {"{}"},
		},
		Headers: map[string]string{
			"User-Agent": "jdapp;iPhone;11.6.0;",
			"Cookie":     cookie,
			"Referer":    "https://home.m.jd.com/",
		},
		HTTPClient: a.httpc,
		Scrubber:   strings.NewReplacer(cookie, "[EXPUNGED]"),
	})
	if err != nil {
		return "", err
	}

	if resp.Code != "0" {
		if resp.Message == "" {
			return "", fmt.Errorf("sign-in rejected (code %s)", resp.Code)
		}
		return "", errors.New(resp.Message)
	}

	if resp.Data.Status == "1" {
		reward := resp.Data.Reward
		if reward == "" {
			reward = "0"
		}
		return fmt.Sprintf("signed in, got %s beans", reward), nil
	}
	if resp.Data.Message != "" {
		return resp.Data.Message, nil
	}
	return "already signed in today", nil
}

// flexString is a JSON value that may be encoded as a string or a number.
type flexString string

func (s *flexString) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*s = ""
		return nil
	}
	*s = flexString(strings.Trim(string(b), `"`))
	return nil
}
