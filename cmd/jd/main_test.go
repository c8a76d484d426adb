// © 2026 danielgzd. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/danielgzd/MyAutoScript/internal/cli"
	"github.com/danielgzd/MyAutoScript/internal/cli/clitest"
	"github.com/danielgzd/MyAutoScript/internal/testutil"
)

const (
	postSign = "POST api.m.jd.com/client.action"
	postPush = "POST api.day.app/test/"

	testCookie = "pt_key=secret; pt_pin=gopher"
)

type push struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type mux struct {
	mux    *http.ServeMux
	pushes []push
}

func testMux(t *testing.T, status int, sign string) *mux {
	m := &mux{mux: http.NewServeMux()}
	m.mux.HandleFunc(postSign, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		testutil.AssertEqual(t, q.Get("functionId"), "signBean")
		testutil.AssertEqual(t, q.Get("appid"), "ld")
		testutil.AssertEqual(t, q.Get("client"), "apple")
		testutil.AssertEqual(t, q.Get("clientVersion"), "10.4.0")
		testutil.AssertEqual(t, q.Get("body"), "{}")
		testutil.AssertEqual(t, r.Header.Get("Cookie"), testCookie)
		testutil.AssertEqual(t, r.Header.Get("Referer"), "https://home.m.jd.com/")
		testutil.AssertEqual(t, r.UserAgent(), "jdapp;iPhone;11.6.0;")
		w.WriteHeader(status)
		io.WriteString(w, sign)
	})
	m.mux.HandleFunc(postPush, func(w http.ResponseWriter, r *http.Request) {
		var p push
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			t.Fatal(err)
		}
		m.pushes = append(m.pushes, p)
		io.WriteString(w, `{"code": 200}`)
	})
	return m
}

var testEnv = map[string]string{
	"JD_COOKIE":              testCookie,
	"BARK_URL_TIEBA_QIANDAO": "https://api.day.app/test/",
}

func TestRun(t *testing.T) {
	t.Parallel()

	clitest.Run(t, func(t *testing.T) *app {
		return &app{httpc: testutil.MockHTTPClient(testMux(t, http.StatusOK, `{"code": "0", "data": {"status": "1", "reward": 5}}`).mux)}
	}, map[string]clitest.Case[*app]{
		"prints usage with help flag": {
			Args:    []string{"-h"},
			WantErr: flag.ErrHelp,
		},
		"version": {
			Args:    []string{"-version"},
			WantErr: cli.ErrExitVersion,
		},
		"missing credential": {
			WantErr:      errNoCredential,
			WantExitCode: 1,
		},
		"unexpected arguments": {
			Args:    []string{"now"},
			Env:     testEnv,
			WantErr: cli.ErrInvalidArgs,
		},
		"signs in": {
			Env:          testEnv,
			WantInStderr: "signed in, got 5 beans",
			Secrets:      []string{"secret"},
		},
	})
}

func TestSignIn(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		status   int
		resp     string
		wantErr  string
		wantPush push
	}{
		"reward": {
			resp:     `{"code": "0", "data": {"status": "1", "reward": "10"}}`,
			wantPush: push{Title: "JD sign-in succeeded", Body: "signed in, got 10 beans"},
		},
		"reward missing": {
			resp:     `{"code": "0", "data": {"status": "1"}}`,
			wantPush: push{Title: "JD sign-in succeeded", Body: "signed in, got 0 beans"},
		},
		"numeric codes": {
			resp:     `{"code": 0, "data": {"status": 1, "reward": 3}}`,
			wantPush: push{Title: "JD sign-in succeeded", Body: "signed in, got 3 beans"},
		},
		"already signed in with message": {
			resp:     `{"code": "0", "data": {"status": "2", "message": "今天已签到"}}`,
			wantPush: push{Title: "JD sign-in succeeded", Body: "今天已签到"},
		},
		"already signed in": {
			resp:     `{"code": "0", "data": {"status": "2"}}`,
			wantPush: push{Title: "JD sign-in succeeded", Body: "already signed in today"},
		},
		"rejected": {
			resp:     `{"code": "3", "message": "not logged in"}`,
			wantErr:  "not logged in",
			wantPush: push{Title: "JD sign-in failed", Body: "not logged in"},
		},
		"rejected without message": {
			resp:     `{"code": "3"}`,
			wantErr:  "sign-in rejected (code 3)",
			wantPush: push{Title: "JD sign-in failed", Body: "sign-in rejected (code 3)"},
		},
		"server error": {
			status:   http.StatusInternalServerError,
			resp:     `oops`,
			wantErr:  "want 200, got 500",
			wantPush: push{Title: "JD sign-in failed"},
		},
		"not json": {
			resp:     `<html>`,
			wantErr:  "decoding response",
			wantPush: push{Title: "JD sign-in failed"},
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			status := tc.status
			if status == 0 {
				status = http.StatusOK
			}
			m := testMux(t, status, tc.resp)

			var stderr bytes.Buffer
			err := cli.Run(cli.WithEnv(context.Background(), &cli.Env{
				Getenv: func(name string) string { return testEnv[name] },
				Stdin:  strings.NewReader(""),
				Stdout: io.Discard,
				Stderr: &stderr,
			}), &app{httpc: testutil.MockHTTPClient(m.mux)})

			if tc.wantErr == "" && err != nil {
				t.Fatal(err)
			}
			if tc.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
					t.Fatalf("got error %v, want it to contain %q", err, tc.wantErr)
				}
				testutil.AssertEqual(t, cli.ExitCode(err), 1)
			}

			if len(m.pushes) != 1 {
				t.Fatalf("want exactly one push, got %v", m.pushes)
			}
			got := m.pushes[0]
			testutil.AssertEqual(t, got.Title, tc.wantPush.Title)
			if tc.wantPush.Body != "" {
				testutil.AssertEqual(t, got.Body, tc.wantPush.Body)
			}
			if strings.Contains(got.Body+stderr.String(), "secret") {
				t.Fatalf("cookie leaked:\npush: %s\nlog: %s", got.Body, stderr.String())
			}
		})
	}
}

func TestSignInWithoutBark(t *testing.T) {
	t.Parallel()

	m := testMux(t, http.StatusOK, `{"code": "0", "data": {"status": "1", "reward": 1}}`)
	err := cli.Run(cli.WithEnv(context.Background(), &cli.Env{
		Getenv: func(name string) string {
			if name == "JD_COOKIE" {
				return testCookie
			}
			return ""
		},
		Stdin:  strings.NewReader(""),
		Stdout: io.Discard,
		Stderr: io.Discard,
	}), &app{httpc: testutil.MockHTTPClient(m.mux)})
	if err != nil {
		t.Fatal(err)
	}
	testutil.AssertEqual(t, len(m.pushes), 0)
}
