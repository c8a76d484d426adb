// © 2026 danielgzd. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package tieba

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/danielgzd/MyAutoScript/internal/logger"

	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"
	"go.starlark.net/syntax"
)

// Rule is a Starlark predicate that decides which followed forums get a
// check-in. The script must define a function keep(forum) that returns a
// bool; forum has the fields id and name. For example:
//
//	skip = ["spam", "ads"]
//
//	def keep(forum):
//	    return forum.name not in skip
type Rule struct {
	keep   starlark.Callable
	logger *slog.Logger
}

// LoadRule executes the Starlark script src, read from filename, and returns
// the rule it defines. Output of print calls goes to l.
func LoadRule(filename string, src []byte, l *slog.Logger) (*Rule, error) {
	r := &Rule{logger: logger.Or(l)}

	globals, err := starlark.ExecFileOptions(
		&syntax.FileOptions{
			TopLevelControl: true,
		},
		r.thread(),
		filename,
		src,
		nil,
	)
	if err != nil {
		return nil, err
	}

	keep, ok := globals["keep"].(starlark.Callable)
	if !ok {
		return nil, errors.New("keep must be defined and be a function")
	}
	r.keep = keep
	return r, nil
}

func (r *Rule) thread() *starlark.Thread {
	return &starlark.Thread{
		Name:  "rule",
		Print: func(_ *starlark.Thread, msg string) { r.logger.Info(msg) },
	}
}

// Keep reports whether f should get a check-in. A nil Rule keeps every forum.
// If the rule fails or returns something other than a bool, the forum is kept
// and the problem is logged.
func (r *Rule) Keep(f Community) bool {
	if r == nil {
		return true
	}

	val, err := starlark.Call(
		r.thread(),
		r.keep,
		starlark.Tuple{starlarkstruct.FromStringDict(
			starlarkstruct.Default,
			starlark.StringDict{
				"id":   starlark.MakeInt64(f.ID),
				"name": starlark.String(f.Name),
			},
		)},
		nil,
	)
	if err != nil {
		r.logger.Warn("applying rule", "forum", f.Name, "error", err)
		return true
	}

	ret, ok := val.(starlark.Bool)
	if !ok {
		r.logger.Warn("rule returned non-boolean value", "forum", f.Name, "value", fmt.Sprint(val))
		return true
	}
	return bool(ret)
}
