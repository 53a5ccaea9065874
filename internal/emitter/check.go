package emitter

import "github.com/abhinav/yamlcore/internal/core"

// nextEventsAre reports whether the queued events at the head match the
// given types in order, which is how the lookahead Emit accumulates is
// consulted: a collection whose end event is already visible is empty.
func (e *Emitter) nextEventsAre(types ...core.EventType) bool {
	if len(e.queue)-e.queueHead < len(types) {
		return false
	}
	for i, t := range types {
		if e.queue[e.queueHead+i].Type != t {
			return false
		}
	}
	return true
}

func (e *Emitter) checkEmptySequence() bool {
	return e.nextEventsAre(core.EventSequenceStart, core.EventSequenceEnd)
}

func (e *Emitter) checkEmptyMapping() bool {
	return e.nextEventsAre(core.EventMappingStart, core.EventMappingEnd)
}

// checkSimpleKey reports whether the node at the queue head is small
// enough to render as a simple key: a short alias or single-line scalar,
// or an empty collection, within 128 characters of prefix material.
func (e *Emitter) checkSimpleKey() bool {
	prefix := len(e.anchorInfo.Anchor) + len(e.tagInfo.Handle) + len(e.tagInfo.Suffix)
	switch e.queue[e.queueHead].Type {
	case core.EventAlias:
		return len(e.anchorInfo.Anchor) <= 128
	case core.EventScalar:
		return !e.analysis.multiline && prefix+len(e.analysis.value) <= 128
	case core.EventSequenceStart:
		return e.checkEmptySequence() && prefix <= 128
	case core.EventMappingStart:
		return e.checkEmptyMapping() && prefix <= 128
	}
	return false
}
