// © 2026 danielgzd. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

/*
Bili checks that a Bilibili cookie is still valid and clocks in to Bilibili
Manga.

# Usage

	$ BILI_COOKIE=... bili

The result is pushed through Bark if BARK_URL_TIEBA_QIANDAO is set. If the
cookie has expired or a request fails, a failure notification is pushed and
bili exits with a non-zero status.
*/
package main

import (
	_ "embed"

	"github.com/danielgzd/MyAutoScript/internal/cli"
)

//go:embed doc.go
var doc []byte

func init() { cli.SetDocComment(doc) }
