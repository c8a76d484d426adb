// © 2026 danielgzd. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package clitest runs table-driven tests against cli applications.
package clitest

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/danielgzd/MyAutoScript/internal/cli"
)

// Case is one invocation of an application and what it must produce.
type Case[App cli.App] struct {
	// Args are the command-line arguments.
	Args []string
	// Env is the process environment seen by the application.
	Env map[string]string
	// WantErr is checked against the returned error with errors.Is.
	WantErr error
	// WantExitCode is the process exit status derived from the returned
	// error with cli.ExitCode. Zero means it is not checked.
	WantExitCode int
	// WantInStdout and WantInStderr must be substrings of the respective
	// output.
	WantInStdout string
	WantInStderr string
	// Secrets must not appear anywhere in stdout or stderr, whatever the
	// outcome. Credentials passed through Env belong here.
	Secrets []string
	// CheckFunc performs additional checks after the application has run.
	CheckFunc func(*testing.T, App)
}

// Run runs every case in parallel against a fresh application built by
// setup.
func Run[App cli.App](t *testing.T, setup func(*testing.T) App, cases map[string]Case[App]) {
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			app := setup(t)

			var stdout, stderr bytes.Buffer
			env := &cli.Env{
				Args:   tc.Args,
				Getenv: getenvFunc(tc.Env),
				Stdin:  strings.NewReader(""),
				Stdout: &stdout,
				Stderr: &stderr,
			}

			err := cli.Run(cli.WithEnv(context.Background(), env), app)

			switch {
			case tc.WantErr == nil:
			case err == nil:
				t.Fatalf("must fail with error: %v", tc.WantErr)
			case !errors.Is(err, tc.WantErr):
				t.Fatalf("want error %v, got: %v", tc.WantErr, err)
			}

			if tc.WantExitCode != 0 {
				if got := cli.ExitCode(err); got != tc.WantExitCode {
					t.Fatalf("want exit code %d, got %d (error: %v)", tc.WantExitCode, got, err)
				}
			}

			if tc.WantInStdout != "" && !strings.Contains(stdout.String(), tc.WantInStdout) {
				t.Errorf("stdout must contain %q, got: %q", tc.WantInStdout, stdout.String())
			}
			if tc.WantInStderr != "" && !strings.Contains(stderr.String(), tc.WantInStderr) {
				t.Errorf("stderr must contain %q, got: %q", tc.WantInStderr, stderr.String())
			}
			for _, secret := range tc.Secrets {
				if strings.Contains(stdout.String(), secret) || strings.Contains(stderr.String(), secret) {
					t.Errorf("output leaks %q:\nstdout: %s\nstderr: %s", secret, stdout.String(), stderr.String())
				}
			}

			if tc.CheckFunc != nil {
				tc.CheckFunc(t, app)
			}
		})
	}
}

func getenvFunc(env map[string]string) func(string) string {
	return func(name string) string { return env[name] }
}
