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

import "encoding/base64"

// base64LineLen is the maximum line length EncodeBase64 folds its output
// at, matching the !!binary style most YAML emitters use for readability.
const base64LineLen = 70

// EncodeBase64 encodes s as base64, folded into base64LineLen-byte lines
// separated by '\n'.
func EncodeBase64(s string) string {
	encLen := base64.StdEncoding.EncodedLen(len(s))
	lines := encLen/base64LineLen + 1
	buf := make([]byte, encLen*2+lines)
	in := buf[0:encLen]
	out := buf[encLen:]
	base64.StdEncoding.Encode(in, []byte(s))

	k := 0
	for i := 0; i < len(in); i += base64LineLen {
		j := i + base64LineLen
		if j > len(in) {
			j = len(in)
		}
		k += copy(out[k:], in[i:j])
		if lines > 1 {
			out[k] = '\n'
			k++
		}
	}
	return string(out[:k])
}
