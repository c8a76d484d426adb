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

	"github.com/danielgzd/MyAutoScript/internal/cli"
	"github.com/danielgzd/MyAutoScript/internal/cli/envflag"
	"github.com/danielgzd/MyAutoScript/internal/logger"
	"github.com/danielgzd/MyAutoScript/internal/speedtest"
)

func main() { cli.Main(new(app)) }

type app struct {
	top     *int
	output  string
	args    *string
	url     *string
	version *string
	dir     string

	// set in tests
	httpc        *http.Client
	goos, goarch string
}

func (a *app) Flags(fs *flag.FlagSet) {
	a.top = envflag.Value("top", "TOP_N", 10, "Write at most `n` IPs. Zero writes all of them.", fs)
	fs.StringVar(&a.output, "output", "best_ip.txt", "Write IPs to `file`.")
	a.args = envflag.Value("args", "CFST_ARGS", "-p 0 -o "+speedtest.DefaultResultFile, "Arguments passed to the speed test binary.", fs)
	a.url = envflag.Value("url", "CFST_URL", "", "Download the release archive from `url` or path instead of GitHub.", fs)
	a.version = envflag.Value("cfst-version", "CFST_VERSION", "latest", "Release `tag` to download.", fs)
	fs.StringVar(&a.dir, "dir", ".", "Run the speed test in `directory`.")
}

func (a *app) Run(ctx context.Context) error {
	env := cli.GetEnv(ctx)

	if len(env.Args) != 0 {
		return fmt.Errorf("%w: no arguments expected", cli.ErrInvalidArgs)
	}
	if *a.top < 0 {
		return fmt.Errorf("%w: -top must not be negative", cli.ErrInvalidArgs)
	}

	r := &speedtest.Runner{
		URL:        *a.url,
		Version:    *a.version,
		Args:       *a.args,
		Dir:        a.dir,
		Output:     a.output,
		Top:        *a.top,
		HTTPClient: a.httpc,
		Logger:     logger.Get(ctx).Logger,
		Stdout:     env.Stdout,
		Stderr:     env.Stderr,
		GOOS:       a.goos,
		GOARCH:     a.goarch,
	}
	ips, err := r.Run(ctx)
	if errors.Is(err, speedtest.ErrNoResult) {
		return cli.Exit(2, err)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(env.Stdout, "Wrote %d IP(s) to %s.\n", len(ips), a.output)
	return nil
}
