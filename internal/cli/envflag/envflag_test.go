// © 2026 danielgzd. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package envflag

import (
	"flag"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/danielgzd/MyAutoScript/internal/testutil"
)

func getenv(env map[string]string) func(string) string {
	return func(name string) string { return env[name] }
}

func parse(t *testing.T, fs *flag.FlagSet, args []string, env map[string]string) error {
	t.Helper()
	if err := fs.Parse(args); err != nil {
		t.Fatal(err)
	}
	return Resolve(fs, getenv(env))
}

func TestValue(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		env     map[string]string
		args    []string
		want    int
		wantErr string
	}{
		"default":          {want: 10},
		"from environment": {env: map[string]string{"TOP_N": "3"}, want: 3},
		"empty env value":  {env: map[string]string{"TOP_N": ""}, want: 10},
		"flag wins":        {env: map[string]string{"TOP_N": "3"}, args: []string{"-top", "5"}, want: 5},
		"flag equal to default wins": {
			env:  map[string]string{"TOP_N": "3"},
			args: []string{"-top", "10"},
			want: 10,
		},
		"invalid env value": {
			env:     map[string]string{"TOP_N": "three"},
			want:    10,
			wantErr: `invalid value "three" for environment variable TOP_N`,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			fs := flag.NewFlagSet("test", flag.ContinueOnError)
			fs.SetOutput(io.Discard)
			top := Value("top", "TOP_N", 10, "Number of IPs.", fs)

			err := parse(t, fs, tc.args, tc.env)
			if tc.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
					t.Fatalf("Resolve() error = %v, want it to contain %q", err, tc.wantErr)
				}
			} else if err != nil {
				t.Fatal(err)
			}
			testutil.AssertEqual(t, *top, tc.want)
		})
	}
}

func TestValueTypes(t *testing.T) {
	t.Parallel()

	env := map[string]string{
		"ARGS":     "-p 0",
		"DRY":      "true",
		"INTERVAL": "1500ms",
		"RATIO":    "0.5",
		"PAGE":     "8",
	}
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	args := Value("args", "ARGS", "-o result.csv", "Arguments.", fs)
	dry := Value("dry", "DRY", false, "Dry run.", fs)
	interval := Value("interval", "INTERVAL", time.Duration(0), "Interval.", fs)
	ratio := Value("ratio", "RATIO", 1.0, "Ratio.", fs)
	page := Value("page", "PAGE", int64(1), "Page.", fs)
	if err := parse(t, fs, nil, env); err != nil {
		t.Fatal(err)
	}

	testutil.AssertEqual(t, *args, "-p 0")
	testutil.AssertEqual(t, *dry, true)
	testutil.AssertEqual(t, *interval, 1500*time.Millisecond)
	testutil.AssertEqual(t, *ratio, 0.5)
	testutil.AssertEqual(t, *page, int64(8))

	if err := fs.Set("interval", "nope"); err == nil {
		t.Fatal("setting an invalid duration must fail")
	}
	testutil.AssertEqual(t, fs.Lookup("interval").Value.String(), "1.5s")
}

func TestUsageMentionsEnv(t *testing.T) {
	t.Parallel()

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	Value("output", "OUTPUT", "best_ip.txt", "Output file.", fs)
	f := fs.Lookup("output")
	testutil.AssertEqual(t, f.Usage, "Output file. Can be overridden by OUTPUT environment variable.")
	testutil.AssertEqual(t, f.DefValue, "best_ip.txt")
}

func TestBoolWithoutValue(t *testing.T) {
	t.Parallel()

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	dry := Value("dry", "DRY", false, "Dry run.", fs)
	if err := parse(t, fs, []string{"-dry", "rest"}, map[string]string{"DRY": "false"}); err != nil {
		t.Fatal(err)
	}
	testutil.AssertEqual(t, *dry, true)
	testutil.AssertEqual(t, fs.Args(), []string{"rest"})
}

func TestResolveIgnoresPlainFlags(t *testing.T) {
	t.Parallel()

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	name := fs.String("name", "default", "Name.")
	if err := parse(t, fs, nil, map[string]string{"name": "env"}); err != nil {
		t.Fatal(err)
	}
	testutil.AssertEqual(t, *name, "default")
}
