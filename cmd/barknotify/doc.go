// © 2026 danielgzd. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

/*
Barknotify sends a notification through Bark.

# Usage

	$ BARK_URL_TIEBA_QIANDAO=https://api.day.app/<key>/ barknotify [-path] <title> <body>

The notification is POSTed as JSON. With -path, the title and body are
embedded into the URL path instead.
*/
package main

import (
	_ "embed"

	"github.com/danielgzd/MyAutoScript/internal/cli"
)

//go:embed doc.go
var doc []byte

func init() { cli.SetDocComment(doc) }
