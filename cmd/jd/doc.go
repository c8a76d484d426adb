// © 2026 danielgzd. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

/*
Jd signs in to JD.com to collect the daily bean reward.

# Usage

	$ JD_COOKIE=... jd

The result is pushed through Bark if BARK_URL_TIEBA_QIANDAO is set. If the
sign-in is rejected or a request fails, a failure notification is pushed and
jd exits with a non-zero status.
*/
package main

import (
	_ "embed"

	"github.com/danielgzd/MyAutoScript/internal/cli"
)

//go:embed doc.go
var doc []byte

func init() { cli.SetDocComment(doc) }
