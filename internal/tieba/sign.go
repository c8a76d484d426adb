// © 2026 danielgzd. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package tieba

import (
	"crypto/md5"
	"encoding/hex"
	"net/url"
	"slices"
	"strings"
)

// secret is appended to every signature payload by the Tieba mobile client.
const secret = "tiebaclient!!!"

// Payload returns the string that [Signature] hashes: every key=value pair of
// data in ascending key order, with no separators, followed by the client
// secret.
func Payload(data map[string]string) string {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	var sb strings.Builder
	for _, k := range keys {
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(data[k])
	}
	sb.WriteString(secret)
	return sb.String()
}

// Signature returns the uppercase hex MD5 digest of [Payload](data), which the
// Tieba API expects in the "sign" field of authenticated requests.
func Signature(data map[string]string) string {
	sum := md5.Sum([]byte(Payload(data)))
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}

// signedForm returns data as form values with the "sign" field added.
func signedForm(data map[string]string) url.Values {
	form := make(url.Values, len(data)+1)
	for k, v := range data {
		form.Set(k, v)
	}
	form.Set("sign", Signature(data))
	return form
}
