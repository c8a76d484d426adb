// © 2026 danielgzd. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
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

const (
	navURL   = "https://api.bilibili.com/x/web-interface/nav"
	clockURL = "https://manga.bilibili.com/twirp/activity.v1.Activity/ClockIn"
)

var (
	errNoCredential  = errors.New("missing environment variable BILI_COOKIE")
	errCookieExpired = errors.New("cookie expired")
)

func (a *app) Run(ctx context.Context) error {
	env := cli.GetEnv(ctx)
	log := logger.Get(ctx)

	if len(env.Args) != 0 {
		return fmt.Errorf("%w: no arguments expected", cli.ErrInvalidArgs)
	}

	cookie := env.Getenv("BILI_COOKIE")
	if cookie == "" {
		return errNoCredential
	}

	notifier := &bark.Client{
		URL:        env.Getenv("BARK_URL_TIEBA_QIANDAO"),
		HTTPClient: a.httpc,
		Logger:     log.Logger,
	}

	log.Info("starting Bilibili check-in")
	result, err := a.checkIn(ctx, cookie)
	if err != nil {
		log.Error("check-in failed", "error", err)
		notifier.PushJSON(ctx, "Bilibili check-in failed", err.Error())
		return err
	}

	log.Info("check-in finished", "result", result)
	notifier.PushJSON(ctx, "Bilibili check-in succeeded", result)
	return nil
}

func (a *app) checkIn(ctx context.Context, cookie string) (string, error) {
	params := request.Params{
		Headers: map[string]string{
			"User-Agent": "Mozilla/5.0",
			"Referer":    "https://www.bilibili.com/",
			"Cookie":     cookie,
		},
		HTTPClient: a.httpc,
		Scrubber:   strings.NewReplacer(cookie, "[EXPUNGED]"),
	}

	login, err := checkLogin(ctx, params)
	if err != nil {
		return "", err
	}
	manga, err := clockIn(ctx, params)
	if err != nil {
		return "", err
	}
	return login + "\n" + manga, nil
}

func checkLogin(ctx context.Context, p request.Params) (string, error) {
	p.Method, p.URL = http.MethodGet, navURL
	resp, err := request.MakeJSON[struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Data    struct {
			Uname string `json:"uname"`
		} `json:"data"`
	}](ctx, p)
	if err != nil {
		return "", err
	}
	if resp.Code != 0 {
		return "", fmt.Errorf("%w: %s (code %d)", errCookieExpired, resp.Message, resp.Code)
	}
	return "login OK, user: " + resp.Data.Uname, nil
}

// clockIn checks in to Bilibili Manga. Unlike a failed login check, a
// rejected clock-in is reported in the result and isn't an error.
func clockIn(ctx context.Context, p request.Params) (string, error) {
	p.Method, p.URL = http.MethodPost, clockURL
	resp, err := request.MakeJSON[struct {
		Code int    `json:"code"`
		Msg  string `json:"msg"`
	}](ctx, p)
	if err != nil {
		return "", err
	}
	switch resp.Code {
	case 0:
		return "manga check-in succeeded", nil
	case 1:
		return "manga already checked in today", nil
	default:
		return "manga check-in failed: " + resp.Msg, nil
	}
}
