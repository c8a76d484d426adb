// © 2026 danielgzd. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package version

import (
	"runtime"
	"runtime/debug"
	"testing"

	"github.com/danielgzd/MyAutoScript/internal/testutil"
)

func TestLoadInfo(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		bi   *debug.BuildInfo
		ok   bool
		want Info
	}{
		"no build info": {
			want: Info{Name: "cmd", Version: "devel"},
		},
		"devel with commit": {
			bi: &debug.BuildInfo{
				Main: debug.Module{Version: "(devel)"},
				Settings: []debug.BuildSetting{
					{Key: "vcs.revision", Value: "abc123"},
					{Key: "vcs.time", Value: "2026-01-01T00:00:00Z"},
				},
			},
			ok: true,
			want: Info{
				Name:    "cmd",
				Version: "devel",
				Commit:  "abc123",
				BuiltAt: "2026-01-01T00:00:00Z",
			},
		},
		"tagged": {
			bi:   &debug.BuildInfo{Main: debug.Module{Version: "v1.2.3"}},
			ok:   true,
			want: Info{Name: "cmd", Version: "v1.2.3"},
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got := loadInfo(func() (*debug.BuildInfo, bool) { return tc.bi, tc.ok })
			tc.want.Go = runtime.Version()
			tc.want.OS = runtime.GOOS
			tc.want.Arch = runtime.GOARCH
			testutil.AssertEqual(t, got, tc.want)
		})
	}
}

func TestUserAgent(t *testing.T) {
	t.Parallel()

	testutil.AssertEqual(t, userAgent(Info{Name: "tieba", Version: "v1.0.0"}), "tieba/v1.0.0")
	testutil.AssertEqual(t, userAgent(Info{Name: "tieba", Version: "devel", Commit: "abc"}), "tieba/abc")
	testutil.AssertEqual(t, userAgent(Info{Name: "tieba", Version: "devel"}), "tieba/devel")
}
