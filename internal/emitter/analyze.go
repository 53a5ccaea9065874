package emitter

import (
	"bytes"
	"errors"

	"github.com/abhinav/yamlcore/internal/core"
)

func (e *Emitter) analyzeAnchor(anchor []byte, alias bool) error {
	if len(anchor) == 0 {
		problem := "anchor value must not be empty"
		if alias {
			problem = "alias value must not be empty"
		}
		return errors.New(problem)
	}
	for i := 0; i < len(anchor); i += core.RuneWidth(anchor[i]) {
		if !core.IsAlphaAt(anchor, i) {
			problem := "anchor value must contain alphanumerical characters only"
			if alias {
				problem = "alias value must contain alphanumerical characters only"
			}
			return errors.New(problem)
		}
	}
	e.anchorInfo.Anchor = anchor
	e.anchorInfo.Alias = alias
	return nil
}

func (e *Emitter) analyzeTag(tag []byte) error {
	if len(tag) == 0 {
		return errors.New("tag value must not be empty")
	}
	for i := 0; i < len(e.tagDirectives); i++ {
		tagDirective := &e.tagDirectives[i]
		if bytes.HasPrefix(tag, tagDirective.Prefix) {
			e.tagInfo.Handle = tagDirective.Handle
			e.tagInfo.Suffix = tag[len(tagDirective.Prefix):]
			return nil
		}
	}
	e.tagInfo.Suffix = tag
	return nil
}

func analyzeVersionDirective(versionDirective *core.VersionDirective) error {
	if versionDirective.Major != 1 || versionDirective.Minor != 1 {
		return errors.New(`incompatible %YAML directive`)
	}
	return nil
}

func analyzeTagDirective(tagDirective *core.TagDirective) error {
	handle := tagDirective.Handle
	prefix := tagDirective.Prefix
	if len(handle) == 0 {
		return errors.New(`tag handle must not be empty`)
	}
	if handle[0] != '!' {
		return errors.New(`tag handle must start with '!'`)
	}
	if handle[len(handle)-1] != '!' {
		return errors.New(`tag handle must end with '!'`)
	}
	for i := 1; i < len(handle)-1; i += core.RuneWidth(handle[i]) {
		if !core.IsAlphaAt(handle, i) {
			return errors.New(`tag handle must contain alphanumerical characters only`)
		}
	}
	if len(prefix) == 0 {
		return errors.New(`tag prefix must not be empty`)
	}
	return nil
}

// scalarStats collects the facts about a scalar's text that style
// selection consults.
type scalarStats struct {
	blockIndicators   bool
	flowIndicators    bool
	lineBreaks        bool
	specialCharacters bool
	tabCharacters     bool

	leadingSpace  bool
	leadingBreak  bool
	trailingSpace bool
	trailingBreak bool
	breakSpace    bool // a space directly after a line break
	spaceBreak    bool // a line break directly after a space
}

// markIndicators notes when c at this position would read as YAML
// punctuation in flow or block context.
func (st *scalarStats) markIndicators(c byte, first, afterWS, beforeWS bool) {
	if first {
		switch c {
		case '#', ',', '[', ']', '{', '}', '&', '*', '!', '|', '>', '\'', '"', '%', '@', '`':
			st.flowIndicators = true
			st.blockIndicators = true
		case '?', ':':
			st.flowIndicators = true
			if beforeWS {
				st.blockIndicators = true
			}
		case '-':
			if beforeWS {
				st.flowIndicators = true
				st.blockIndicators = true
			}
		}
		return
	}
	switch c {
	case ',', '[', ']', '{', '}':
		st.flowIndicators = true
	case '?':
		st.flowIndicators = true
	case ':':
		st.flowIndicators = true
		if beforeWS {
			st.blockIndicators = true
		}
	case '#':
		if afterWS {
			st.flowIndicators = true
			st.blockIndicators = true
		}
	}
}

// scanScalarStats makes one pass over the value, recording everything
// that might rule a style out.
func (e *Emitter) scanScalarStats(value []byte) scalarStats {
	var st scalarStats

	if len(value) >= 3 && (string(value[:3]) == "---" || string(value[:3]) == "...") {
		st.blockIndicators = true
		st.flowIndicators = true
	}

	precededByWhitespace := true
	var previousSpace, previousBreak bool
	for i, w := 0, 0; i < len(value); i += w {
		w = core.RuneWidth(value[i])
		followedByWhitespace := i+w >= len(value) || core.IsBlankAt(value, i+w)

		st.markIndicators(value[i], i == 0, precededByWhitespace, followedByWhitespace)

		switch {
		case value[i] == '\t':
			st.tabCharacters = true
		case !core.IsPrintable(value[i:]):
			st.specialCharacters = true
		case !e.unicode && w > 1:
			// Printable but non-ASCII still forces a quoted style when
			// unicode output is off.
			st.specialCharacters = true
		}

		last := i+w == len(value)
		switch {
		case core.IsSpaceAt(value, i):
			st.leadingSpace = st.leadingSpace || i == 0
			st.trailingSpace = st.trailingSpace || last
			st.breakSpace = st.breakSpace || previousBreak
			previousSpace, previousBreak = true, false
		case core.IsBreakAt(value, i):
			st.lineBreaks = true
			st.leadingBreak = st.leadingBreak || i == 0
			st.trailingBreak = st.trailingBreak || last
			st.spaceBreak = st.spaceBreak || previousSpace
			previousSpace, previousBreak = false, true
		default:
			previousSpace, previousBreak = false, false
		}

		precededByWhitespace = core.IsBlankOrZeroAt(value, i)
	}
	return st
}

// analyzeScalar derives which styles can legally express the value here.
func (e *Emitter) analyzeScalar(value []byte) {
	e.analysis.value = value

	if len(value) == 0 {
		e.analysis.multiline = false
		e.analysis.flowPlainAllowed = false
		e.analysis.blockPlainAllowed = true
		e.analysis.singleQuotedAllowed = true
		e.analysis.blockAllowed = false
		return
	}

	st := e.scanScalarStats(value)

	edgeWhitespace := st.leadingSpace || st.leadingBreak || st.trailingSpace || st.trailingBreak
	oddWhitespace := st.breakSpace || st.spaceBreak || st.tabCharacters || st.specialCharacters

	e.analysis.multiline = st.lineBreaks
	e.analysis.flowPlainAllowed = !(edgeWhitespace || oddWhitespace || st.lineBreaks || st.flowIndicators)
	e.analysis.blockPlainAllowed = !(edgeWhitespace || oddWhitespace || st.lineBreaks || st.blockIndicators)
	e.analysis.singleQuotedAllowed = !oddWhitespace
	e.analysis.blockAllowed = !(st.trailingSpace || st.spaceBreak || st.specialCharacters)
}

// analyzeEvent validates and caches the event's anchor, tag, and scalar
// analysis before the state machine commits any output for it.
func (e *Emitter) analyzeEvent(event *core.Event) error {
	e.anchorInfo.Anchor = nil
	e.tagInfo.Handle = nil
	e.tagInfo.Suffix = nil
	e.analysis.value = nil

	if len(event.HeadComment) > 0 {
		e.headComment = event.HeadComment
	}
	if len(event.LineComment) > 0 {
		e.lineComment = event.LineComment
	}
	if len(event.FootComment) > 0 {
		e.footComment = event.FootComment
	}
	if len(event.TailComment) > 0 {
		e.tailComment = event.TailComment
	}

	switch event.Type {
	case core.EventAlias:
		return e.analyzeAnchor(event.Anchor, true)

	case core.EventScalar:
		if len(event.Anchor) > 0 {
			if err := e.analyzeAnchor(event.Anchor, false); err != nil {
				return err
			}
		}
		if len(event.Tag) > 0 && !event.Implicit && !event.QuotedImplicit {
			if err := e.analyzeTag(event.Tag); err != nil {
				return err
			}
		}
		e.analyzeScalar(event.Value)

	case core.EventSequenceStart, core.EventMappingStart:
		if len(event.Anchor) > 0 {
			if err := e.analyzeAnchor(event.Anchor, false); err != nil {
				return err
			}
		}
		if len(event.Tag) > 0 && !event.Implicit {
			if err := e.analyzeTag(event.Tag); err != nil {
				return err
			}
		}
	}
	return nil
}
