// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package arxivid extracts and canonicalizes arXiv identifiers from free text.
//
// arXiv has used two identifier shapes over the years: the modern
// YYMM.NNNNN form (optionally with a vK version suffix) and a legacy short
// form where the year component may be 1-3 digits and the sequence 4-5
// digits. Catalog lookups require the canonical 4-digit-year,
// 5-digit-sequence form, so Normalize pads short identifiers using era
// rules before dispatch.
package arxivid

import (
	"regexp"
	"strconv"
	"strings"
)

// patterns is an ordered priority list. URL and labeled forms win over the
// bare numeric fallback so a message quoting several numbers still resolves
// to the identifier the user actually referenced.
var patterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)arxiv\.org/abs/(\d+\.\d+v?\d*)`),
	regexp.MustCompile(`(?i)arxiv\.org/pdf/(\d+\.\d+v?\d*)`),
	regexp.MustCompile(`(?i)arXiv ID:\s*(\d+\.\d+v?\d*)`),
	regexp.MustCompile(`(?i)ID:\s*(\d+\.\d+v?\d*)`),
	regexp.MustCompile(`(\d{4}\.\d{4,5}v?\d*)`),
}

var shortFormRe = regexp.MustCompile(`^(\d{1,3})\.(\d{4,5})(v\d+)?$`)

// Extract scans text for an arXiv identifier and returns the first match,
// honoring pattern priority. The second return value reports whether an
// identifier was found.
func Extract(text string) (string, bool) {
	for _, re := range patterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return m[1], true
		}
	}
	return "", false
}

// Normalize converts a legacy short-form identifier to the canonical
// 4-digit-year, 5-digit-sequence form. Already-canonical identifiers are
// returned unchanged, which makes Normalize idempotent.
//
// Era rules for the year component:
//   - 2 digits: >=50 is 19xx, <50 is 20xx
//   - 3 digits: prefixed with "0" (e.g. 712 -> 0712)
//   - 1 digit: prefixed with "200"
//
// The sequence component is zero-padded to 5 digits and any version
// suffix is preserved.
func Normalize(id string) string {
	m := shortFormRe.FindStringSubmatch(strings.TrimSpace(id))
	if m == nil {
		return id
	}
	year, seq, version := m[1], m[2], m[3]

	switch len(year) {
	case 3:
		year = "0" + year
	case 2:
		n, _ := strconv.Atoi(year)
		if n >= 50 {
			year = "19" + year
		} else {
			year = "20" + year
		}
	case 1:
		year = "200" + year
	}

	for len(seq) < 5 {
		seq = "0" + seq
	}
	return year + "." + seq + version
}
