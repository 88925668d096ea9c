package imap

import "strings"

// Flag is a message or mailbox flag in its canonical form: lowercase and
// without the leading backslash. System flags are normalized on parse, e.g.
// the wire form "\Seen" becomes FlagSeen. Keyword flags (no backslash on the
// wire) are carried as-is.
type Flag string

const (
	// Message system flags, RFC 9051 section 2.3.2
	FlagAnswered Flag = "answered"
	FlagFlagged  Flag = "flagged"
	FlagDeleted  Flag = "deleted"
	FlagSeen     Flag = "seen"
	FlagDraft    Flag = "draft"
	FlagRecent   Flag = "recent"

	// FlagWildcard is the "\*" marker in PERMANENTFLAGS, meaning the server
	// accepts arbitrary keyword flags.
	FlagWildcard Flag = "wildcard"

	// Mailbox attributes, RFC 9051 section 7.3.1
	FlagNonExistent   Flag = "nonexistent"
	FlagNoInferiors   Flag = "noinferiors"
	FlagNoSelect      Flag = "noselect"
	FlagHasChildren   Flag = "haschildren"
	FlagHasNoChildren Flag = "hasnochildren"
	FlagMarked        Flag = "marked"
	FlagUnmarked      Flag = "unmarked"
	FlagSubscribed    Flag = "subscribed"
	FlagRemote        Flag = "remote"

	// Special-use attributes, RFC 9051 section 7.3.1
	FlagAll     Flag = "all"
	FlagArchive Flag = "archive"
	FlagDrafts  Flag = "drafts"
	FlagJunk    Flag = "junk"
	FlagSent    Flag = "sent"
	FlagTrash   Flag = "trash"
)

// wireFlags maps canonical flags back to their exact wire spelling. Flags
// absent from this table are keywords and are written verbatim.
var wireFlags = map[Flag]string{
	FlagAnswered:      `\Answered`,
	FlagFlagged:       `\Flagged`,
	FlagDeleted:       `\Deleted`,
	FlagSeen:          `\Seen`,
	FlagDraft:         `\Draft`,
	FlagRecent:        `\Recent`,
	FlagWildcard:      `\*`,
	FlagNonExistent:   `\NonExistent`,
	FlagNoInferiors:   `\Noinferiors`,
	FlagNoSelect:      `\Noselect`,
	FlagHasChildren:   `\HasChildren`,
	FlagHasNoChildren: `\HasNoChildren`,
	FlagMarked:        `\Marked`,
	FlagUnmarked:      `\Unmarked`,
	FlagSubscribed:    `\Subscribed`,
	FlagRemote:        `\Remote`,
	FlagAll:           `\All`,
	FlagArchive:       `\Archive`,
	FlagDrafts:        `\Drafts`,
	FlagJunk:          `\Junk`,
	FlagSent:          `\Sent`,
	FlagTrash:         `\Trash`,
}

// CanonicalFlag normalizes a wire-form flag. The input is the flag as it
// appears on the wire: system flags keep their leading backslash, keyword
// flags have none.
//
// "\*" maps to FlagWildcard, any other "\Name" maps to lowercase "name", and
// keywords are passed through unchanged.
func CanonicalFlag(wire string) Flag {
	if !strings.HasPrefix(wire, `\`) {
		return Flag(wire)
	}
	if wire == `\*` {
		return FlagWildcard
	}
	return Flag(strings.ToLower(wire[1:]))
}

// WireString returns the flag as it must be written on the wire.
func (f Flag) WireString() string {
	if s, ok := wireFlags[f]; ok {
		return s
	}
	return string(f)
}
