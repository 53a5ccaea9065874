package core

// SimpleKey is a candidate key position tracked per flow level while the
// scanner looks ahead for a following `:`. A candidate expires (and, if
// Required, fails the scan) when the line changes, 1024 characters pass,
// or the container around it closes.
type SimpleKey struct {
	Possible     bool
	Required     bool
	TokenNumber int
	Mark         Mark
}

// Comment records source comment text the scanner noticed near a token, so
// a loader/dumper pair can carry it through round-trips. The token and
// event grammars themselves never interpret comment text; this is a
// best-effort passthrough attached by position.
type Comment struct {
	ScanMark  Mark
	TokenMark Mark
	StartMark Mark
	EndMark   Mark

	Head []byte
	Line []byte
	Foot []byte
}
