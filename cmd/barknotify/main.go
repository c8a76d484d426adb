// © 2026 danielgzd. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"

	"github.com/danielgzd/MyAutoScript/internal/bark"
	"github.com/danielgzd/MyAutoScript/internal/cli"
	"github.com/danielgzd/MyAutoScript/internal/logger"
)

func main() { cli.Main(new(app)) }

type app struct {
	path bool

	httpc *http.Client // nil means request.DefaultClient
}

func (a *app) Flags(fs *flag.FlagSet) {
	fs.BoolVar(&a.path, "path", false, "Embed title and body into the URL path instead of POSTing JSON.")
}

var errNoURL = errors.New("missing environment variable BARK_URL_TIEBA_QIANDAO")

func (a *app) Run(ctx context.Context) error {
	env := cli.GetEnv(ctx)

	if len(env.Args) != 2 {
		return fmt.Errorf("%w: expected two arguments: 'title' and 'body'", cli.ErrInvalidArgs)
	}

	u := env.Getenv("BARK_URL_TIEBA_QIANDAO")
	if u == "" {
		return errNoURL
	}

	c := &bark.Client{
		URL:        u,
		HTTPClient: a.httpc,
		Logger:     logger.Get(ctx).Logger,
	}
	title, body := env.Args[0], env.Args[1]
	if a.path {
		c.PushPath(ctx, title, body)
	} else {
		c.PushJSON(ctx, title, body)
	}
	return nil
}
