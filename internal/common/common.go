// Package common holds the few constants shared by the parser and emitter
// that belong to neither.
package common

import (
	"github.com/abhinav/yamlcore/internal/core"
)

// DefaultTagDirectives are the two handles every document can use without
// declaring them: "!" for local tags and "!!" for the yaml.org,2002 domain.
// They are appended after any user %TAG directives, with duplicates
// permitted, so a stream's own declaration for either handle wins.
var DefaultTagDirectives = []core.TagDirective{
	{Handle: []byte("!"), Prefix: []byte("!")},
	{Handle: []byte("!!"), Prefix: []byte("tag:yaml.org,2002:")},
}
