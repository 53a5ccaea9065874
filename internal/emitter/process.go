package emitter

import "github.com/abhinav/yamlcore/internal/core"

func (e *Emitter) processLineComment() error {
	if len(e.lineComment) == 0 {
		return nil
	}
	if !e.lastCharWhitespace {
		if err := e.put(' '); err != nil {
			return err
		}
	}
	if err := e.writeComment(e.lineComment); err != nil {
		return err
	}
	e.lineComment = e.lineComment[:0]
	return nil
}

func (e *Emitter) processAnchor() error {
	if e.anchorInfo.Anchor == nil {
		return nil
	}
	indicator := "&"
	if e.anchorInfo.Alias {
		indicator = "*"
	}
	if err := e.writeIndicator(indicator, true, false, false); err != nil {
		return err
	}
	return e.writeAnchor(e.anchorInfo.Anchor)
}

func (e *Emitter) processTag() error {
	handle, suffix := e.tagInfo.Handle, e.tagInfo.Suffix
	switch {
	case len(handle) == 0 && len(suffix) == 0:
		return nil
	case len(handle) > 0:
		if err := e.writeTagHandle(handle); err != nil {
			return err
		}
		if len(suffix) == 0 {
			return nil
		}
		return e.writeTagContent(suffix, false)
	default:
		// No handle: the tag must be written verbatim.
		if err := e.writeIndicator("!<", true, false, false); err != nil {
			return err
		}
		if err := e.writeTagContent(suffix, false); err != nil {
			return err
		}
		return e.writeIndicator(">", false, false, false)
	}
}

func (e *Emitter) processScalar() error {
	switch e.analysis.style {
	case core.ScalarStylePlain:
		return e.writePlainScalar(e.analysis.value, !e.simpleKeyContext)
	case core.ScalarStyleSingleQuoted:
		return e.writeSingleQuotedScalar(e.analysis.value, !e.simpleKeyContext)
	case core.ScalarStyleDoubleQuoted:
		return e.writeDoubleQuotedScalar(e.analysis.value, !e.simpleKeyContext)
	case core.ScalarStyleLiteral:
		return e.writeLiteralScalar(e.analysis.value)
	case core.ScalarStyleFolded:
		return e.writeFoldedScalar(e.analysis.value)
	}
	panic("unknown scalar style")
}

// writeCommentBlock indents and writes one comment slice, clearing it.
func (e *Emitter) writeCommentBlock(comment *[]byte, markFoot bool) error {
	if err := e.writeIndent(); err != nil {
		return err
	}
	if err := e.writeComment(*comment); err != nil {
		return err
	}
	*comment = (*comment)[:0]
	if markFoot {
		e.footIndent = e.indentLevel
		if e.footIndent < 0 {
			e.footIndent = 0
		}
	}
	return nil
}

func (e *Emitter) processHeadComment() error {
	if len(e.tailComment) > 0 {
		if err := e.writeCommentBlock(&e.tailComment, true); err != nil {
			return err
		}
	}
	if len(e.headComment) == 0 {
		return nil
	}
	return e.writeCommentBlock(&e.headComment, false)
}

func (e *Emitter) processFootComment() error {
	if len(e.footComment) == 0 {
		return nil
	}
	return e.writeCommentBlock(&e.footComment, true)
}
