// © 2026 danielgzd. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

/*
Tieba checks in to every followed Baidu Tieba forum and reports the result
through Bark.

# Usage

	$ BDUSS_TIEBA_QIANDAO=... tieba [flags...]

The BDUSS cookie of the account is read from the BDUSS_TIEBA_QIANDAO
environment variable. If BARK_URL_TIEBA_QIANDAO is set to a Bark device URL
(like https://api.day.app/<key>/), a summary is pushed there after the
check-in, unless no forums were found.

# Rules

The -rule flag (or the TIEBA_RULE environment variable) points to a Starlark
file that decides which forums get a check-in. It must define a function
keep that receives a forum with id and name fields:

	skip = ["spam", "ads"]

	def keep(forum):
	    return forum.name not in skip

Use -dry to print the forums the rule keeps without checking in.

# Pacing

By default forums are checked in back to back. Set -interval (or
TIEBA_INTERVAL) to a duration like 1s to pause between check-ins.

# Trending forums

With -follow-trending, after the check-in the account also follows a page
of trending forums, selected by -trending-page and -trending-size.
*/
package main

import (
	_ "embed"

	"github.com/danielgzd/MyAutoScript/internal/cli"
)

//go:embed doc.go
var doc []byte

func init() { cli.SetDocComment(doc) }
