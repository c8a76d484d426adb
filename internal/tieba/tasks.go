// © 2026 danielgzd. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package tieba

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/danielgzd/MyAutoScript/internal/logger"

	"golang.org/x/time/rate"
)

// Default trending slice followed by [FollowTrending].
const (
	TrendingPage = 8
	TrendingSize = 20
)

// Signer lists followed forums and checks in to them. [*Client] implements it.
type Signer interface {
	Followed(context.Context) ([]Community, error)
	Sign(context.Context, Community) error
}

// Follower lists trending forums and follows them. [*Client] implements it.
type Follower interface {
	Trending(ctx context.Context, page, size int) ([]Community, error)
	Follow(context.Context, Community) error
}

var (
	_ Signer   = (*Client)(nil)
	_ Follower = (*Client)(nil)
)

// Result counts the outcome of [SignAll].
type Result struct {
	Succeeded int
	Failed    int
	// Skipped is the number of forums rejected by the rule.
	Skipped int
}

// Attempted returns the number of forums a check-in was attempted for.
func (r Result) Attempted() int { return r.Succeeded + r.Failed }

// Summary returns a human-readable summary of r.
func (r Result) Summary() string {
	s := fmt.Sprintf("Tieba check-in finished\n\nsucceeded: %d\nfailed: %d", r.Succeeded, r.Failed)
	if r.Skipped > 0 {
		s += fmt.Sprintf("\nskipped: %d", r.Skipped)
	}
	return s
}

// SignOptions tune [SignAll].
type SignOptions struct {
	// Rule decides which forums get a check-in. Nil keeps all of them.
	Rule *Rule
	// Limiter, if set, is waited on before every check-in.
	Limiter *rate.Limiter
	// Logger receives per-forum results. If nil, nothing is logged.
	Logger *slog.Logger
}

// SignAll checks in to every followed forum. A failure or panic while
// checking in to one forum is counted and logged, and never stops the
// remaining ones. The returned error is non-nil only if ctx is done; the
// result then covers the forums handled so far.
func SignAll(ctx context.Context, s Signer, opts SignOptions) (Result, error) {
	log := logger.Or(opts.Logger)

	var res Result
	forums, err := s.Followed(ctx)
	if err != nil {
		return res, err
	}
	log.Info("listed followed forums", "count", len(forums))

	for _, f := range forums {
		if !opts.Rule.Keep(f) {
			log.Debug("skipped by rule", "forum", f.Name)
			res.Skipped++
			continue
		}
		if opts.Limiter != nil {
			if err := opts.Limiter.Wait(ctx); err != nil {
				return res, err
			}
		}
		if err := isolate(ctx, f, s.Sign); err != nil {
			if ctx.Err() != nil {
				return res, ctx.Err()
			}
			log.Error("check-in failed", "forum", f.Name, "error", err)
			res.Failed++
			continue
		}
		log.Info("checked in", "forum", f.Name)
		res.Succeeded++
	}

	log.Info(res.Summary())
	return res, nil
}

// FollowTrending follows the trending forums of the given page, in reverse
// order, and returns how many were followed. Failures are logged per forum
// and don't stop the others. The returned error is non-nil only if ctx is
// done.
func FollowTrending(ctx context.Context, f Follower, page, size int, l *slog.Logger) (int, error) {
	log := logger.Or(l)

	forums, err := f.Trending(ctx, page, size)
	if err != nil {
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		log.Error("listing trending forums failed", "error", err)
		return 0, nil
	}

	var followed int
	for i := len(forums) - 1; i >= 0; i-- {
		forum := forums[i]
		if err := isolate(ctx, forum, f.Follow); err != nil {
			if ctx.Err() != nil {
				return followed, ctx.Err()
			}
			log.Error("follow failed", "forum", forum.Name, "error", err)
			continue
		}
		log.Info("followed", "forum", forum.Name)
		followed++
	}

	log.Info("followed trending forums", "count", followed)
	return followed, nil
}

// isolate calls fn, turning a panic into an error.
func isolate(ctx context.Context, f Community, fn func(context.Context, Community) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn(ctx, f)
}
