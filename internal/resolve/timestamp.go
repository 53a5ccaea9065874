//
// Copyright (c) 2011-2019 Canonical Ltd
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package resolve

import "time"

// timestampFormats is a subset of the formats allowed by the timestamp
// grammar at http://yaml.org/type/timestamp.html.
//
// TODO: check all the formats that grammar allows instead of this fixed
// list driven by time.Parse; notably "2001-12-14 21:59:43.10 -5" (a
// documented example) doesn't parse against any of these.
var timestampFormats = []string{
	"2006-1-2T15:4:5.999999999Z07:00", // RFC3339Nano with short date fields
	"2006-1-2t15:4:5.999999999Z07:00", // same, lower-case "t"
	"2006-1-2 15:4:5.999999999",       // space separated, no time zone
	"2006-1-2",                        // date only
}

// parseTimestamp parses s as one of timestampFormats, reporting whether any
// matched.
func parseTimestamp(s string) (time.Time, bool) {
	if !looksLikeTimestamp(s) {
		return time.Time{}, false
	}
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// looksLikeTimestamp is a cheap pre-filter: every format above starts with
// a 4-digit year followed by '-', so anything else can skip straight past
// every time.Parse attempt.
func looksLikeTimestamp(s string) bool {
	i := 0
	for ; i < len(s); i++ {
		if c := s[i]; c < '0' || c > '9' {
			break
		}
	}
	return i == 4 && i < len(s) && s[i] == '-'
}
