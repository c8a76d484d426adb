// © 2026 danielgzd. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package tieba

import (
	"testing"

	"github.com/danielgzd/MyAutoScript/internal/testutil"
)

func TestPayload(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		data map[string]string
		want string
	}{
		"sorted keys": {
			data: map[string]string{"b": "2", "a": "1"},
			want: "a=1b=2tiebaclient!!!",
		},
		"uppercase sorts first": {
			data: map[string]string{"tbs": "t", "kw": "golang", "fid": "1", "BDUSS": "x"},
			want: "BDUSS=xfid=1kw=golangtbs=ttiebaclient!!!",
		},
		"empty value": {
			data: map[string]string{"tbs": ""},
			want: "tbs=tiebaclient!!!",
		},
		"empty": {
			data: map[string]string{},
			want: "tiebaclient!!!",
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, Payload(tc.data), tc.want)
		})
	}
}

func TestSignature(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		data map[string]string
		want string
	}{
		"simple": {
			data: map[string]string{"b": "2", "a": "1"},
			want: "42961B9881C2D7CB297E9498F9767789",
		},
		"sign-in fields": {
			data: map[string]string{"BDUSS": "x", "fid": "1", "kw": "golang", "tbs": "t"},
			want: "3BA7C11388001E713D0DAA1D75C9D334",
		},
		"nil": {
			want: "8BAFCAA5E0B396536D4D7878549705E5",
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, Signature(tc.data), tc.want)
		})
	}
}

func TestSignatureOrderIndependent(t *testing.T) {
	t.Parallel()

	keys := []string{"kw", "BDUSS", "fid", "_client_type", "tbs", "timestamp", "model"}
	build := func(order []string) map[string]string {
		m := make(map[string]string)
		for _, k := range order {
			m[k] = "v-" + k
		}
		return m
	}

	want := Signature(build(keys))
	reversed := make([]string, len(keys))
	for i, k := range keys {
		reversed[len(keys)-1-i] = k
	}
	for range 10 {
		testutil.AssertEqual(t, Signature(build(keys)), want)
		testutil.AssertEqual(t, Signature(build(reversed)), want)
	}
}

func TestSignedForm(t *testing.T) {
	t.Parallel()

	data := map[string]string{"b": "2", "a": "1"}
	form := signedForm(data)
	testutil.AssertEqual(t, form.Get("a"), "1")
	testutil.AssertEqual(t, form.Get("b"), "2")
	testutil.AssertEqual(t, form.Get("sign"), "42961B9881C2D7CB297E9498F9767789")
	if _, ok := data["sign"]; ok {
		t.Fatal("signedForm modified its input")
	}
}
