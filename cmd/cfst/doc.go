// © 2026 danielgzd. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

/*
Cfst downloads CloudflareSpeedTest, runs it and writes the fastest IPs it
found to a text file, one per line.

# Usage

	$ cfst [flags...]

The binary runs in the directory given by -dir, so the CSV result and the
text output land there. Arguments for the binary are passed with -args:

	$ cfst -top 5 -args "-tll 40 -tl 150 -dn 10 -sl 5 -p 0"

If the arguments don't name an output file with -o, "-o result.csv" is
added. The release archive for the current platform is downloaded from
GitHub; use -url to point to a mirror or a local archive, or -cfst-version
to pin a release.

Cfst exits with status 2 if the binary didn't produce a result file.
*/
package main

import (
	_ "embed"

	"github.com/danielgzd/MyAutoScript/internal/cli"
)

//go:embed doc.go
var doc []byte

func init() { cli.SetDocComment(doc) }
