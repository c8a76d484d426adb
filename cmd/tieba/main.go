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
	"os"
	"time"

	"github.com/danielgzd/MyAutoScript/internal/bark"
	"github.com/danielgzd/MyAutoScript/internal/cli"
	"github.com/danielgzd/MyAutoScript/internal/cli/envflag"
	"github.com/danielgzd/MyAutoScript/internal/logger"
	"github.com/danielgzd/MyAutoScript/internal/tieba"

	"golang.org/x/time/rate"
)

func main() { cli.Main(new(app)) }

type app struct {
	rule           *string
	interval       *time.Duration
	followTrending bool
	trendingPage   int
	trendingSize   int
	dry            bool

	httpc *http.Client // nil means request.DefaultClient
}

func (a *app) Flags(fs *flag.FlagSet) {
	a.rule = envflag.Value("rule", "TIEBA_RULE", "", "Starlark `file` deciding which forums get a check-in.", fs)
	a.interval = envflag.Value("interval", "TIEBA_INTERVAL", time.Duration(0), "Pause between check-ins.", fs)
	fs.BoolVar(&a.followTrending, "follow-trending", false, "Follow trending forums after the check-in.")
	fs.IntVar(&a.trendingPage, "trending-page", tieba.TrendingPage, "Page of trending forums to follow.")
	fs.IntVar(&a.trendingSize, "trending-size", tieba.TrendingSize, "Number of trending forums to follow.")
	fs.BoolVar(&a.dry, "dry", false, "Print the forums that would get a check-in, but don't check in.")
}

var errNoCredential = errors.New("missing environment variable BDUSS_TIEBA_QIANDAO")

func (a *app) Run(ctx context.Context) error {
	env := cli.GetEnv(ctx)
	log := logger.Get(ctx)

	if len(env.Args) != 0 {
		return fmt.Errorf("%w: no arguments expected", cli.ErrInvalidArgs)
	}

	bduss := env.Getenv("BDUSS_TIEBA_QIANDAO")
	if bduss == "" {
		return errNoCredential
	}

	var rule *tieba.Rule
	if *a.rule != "" {
		src, err := os.ReadFile(*a.rule)
		if err != nil {
			return fmt.Errorf("loading rule: %w", err)
		}
		rule, err = tieba.LoadRule(*a.rule, src, log.Logger)
		if err != nil {
			return fmt.Errorf("loading rule: %w", err)
		}
	}

	c := &tieba.Client{
		BDUSS:      bduss,
		HTTPClient: a.httpc,
		Logger:     log.Logger,
	}

	if a.dry {
		return a.list(ctx, c, rule)
	}

	opts := tieba.SignOptions{
		Rule:   rule,
		Logger: log.Logger,
	}
	if *a.interval > 0 {
		opts.Limiter = rate.NewLimiter(rate.Every(*a.interval), 1)
	}
	res, err := tieba.SignAll(ctx, c, opts)
	if err != nil {
		return err
	}

	notifier := &bark.Client{
		URL:        env.Getenv("BARK_URL_TIEBA_QIANDAO"),
		HTTPClient: a.httpc,
		Logger:     log.Logger,
	}
	if res.Attempted() > 0 {
		notifier.PushPath(ctx,
			fmt.Sprintf("Tieba check-in finished, %d failed", res.Failed),
			fmt.Sprintf("succeeded: %d\ntotal: %d", res.Succeeded, res.Attempted()),
		)
	} else {
		log.Info("no forums to check in to, skipping push")
	}

	if a.followTrending {
		if _, err := tieba.FollowTrending(ctx, c, a.trendingPage, a.trendingSize, log.Logger); err != nil {
			return err
		}
	}

	return nil
}

func (a *app) list(ctx context.Context, c *tieba.Client, rule *tieba.Rule) error {
	forums, err := c.Followed(ctx)
	if err != nil {
		return err
	}
	env := cli.GetEnv(ctx)
	for _, f := range forums {
		if rule.Keep(f) {
			fmt.Fprintf(env.Stdout, "%d\t%s\n", f.ID, f.Name)
		}
	}
	return nil
}
