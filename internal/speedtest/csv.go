// © 2026 danielgzd. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package speedtest

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"
)

// headerLabel is the first column label of the result CSV.
const headerLabel = "ip 地址"

// ParseCSV reads a result CSV from r and returns the first column of up to
// top data rows, in file order. The header row, empty rows and repeated
// header rows are skipped. If top is zero or less, all rows are returned.
func ParseCSV(r io.Reader, top int) ([]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	label := strings.TrimPrefix(strings.TrimSpace(header[0]), "\ufeff")

	var ips []string
	for top <= 0 || len(ips) < top {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(row) == 0 {
			continue
		}
		ip := strings.TrimSpace(row[0])
		if ip == "" || isHeader(ip, label) {
			continue
		}
		ips = append(ips, ip)
	}
	return ips, nil
}

func isHeader(s, label string) bool {
	return strings.EqualFold(s, headerLabel) || (label != "" && strings.EqualFold(s, label))
}
