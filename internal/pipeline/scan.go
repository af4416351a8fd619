package pipeline

// scanState tracks where the scanner is relative to token boundaries.
type scanState int

const (
	// stateBeforeFirstToken: nothing pending since the start of the line,
	// a pipe or a redirect. Whitespace here is skipped.
	stateBeforeFirstToken scanState = iota
	// stateInToken: characters are being accumulated.
	stateInToken
	// stateBetweenTokens: a token is complete and waits for the next
	// character to be flushed.
	stateBetweenTokens
)

func (s scanState) String() string {
	switch s {
	case stateBeforeFirstToken:
		return "before-first-token"
	case stateInToken:
		return "in-token"
	case stateBetweenTokens:
		return "between-tokens"
	default:
		return "state(?)"
	}
}

// onSpace is the whitespace transition.
func (s scanState) onSpace() scanState {
	if s == stateInToken {
		return stateBetweenTokens
	}
	return s
}

// onChar is the transition for an ordinary character. flush reports whether
// the pending token must be stored before the character is appended.
func (s scanState) onChar() (next scanState, flush bool) {
	return stateInToken, s == stateBetweenTokens
}

// slotKind names where a completed token is stored.
type slotKind int

const (
	slotArgument slotKind = iota // next argument of the current command
	slotFilename                 // output filename of the current command
)

// slot is the fill target for the next completed token.
type slot struct {
	kind  slotKind
	index int // argument index, for slotArgument
}

func argumentSlot(index int) slot { return slot{kind: slotArgument, index: index} }

var filenameSlot = slot{kind: slotFilename}

func (s slot) mode() Mode {
	if s.kind == slotFilename {
		return SeekingFilename
	}
	return SeekingArgument
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t'
}
