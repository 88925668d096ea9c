package imapclient

import (
	"strings"

	"github.com/tidemail/imap"
	"github.com/tidemail/imap/internal/wire"
)

// FetchOptions selects the message data items of a FETCH command.
type FetchOptions struct {
	Flags         bool
	UID           bool
	InternalDate  bool
	RFC822Size    bool
	Envelope      bool
	BodyStructure bool
	// BodySections requests BODY[section] items. The empty string requests
	// the whole message. Section specs follow RFC 9051, e.g. "1.2",
	// "HEADER" or "2.MIME".
	BodySections []string
	// Peek requests body sections with BODY.PEEK, leaving the \Seen flag
	// untouched.
	Peek bool
}

func (options *FetchOptions) items() string {
	var items []string
	if options.Flags {
		items = append(items, "FLAGS")
	}
	if options.UID {
		items = append(items, "UID")
	}
	if options.InternalDate {
		items = append(items, "INTERNALDATE")
	}
	if options.RFC822Size {
		items = append(items, "RFC822.SIZE")
	}
	if options.Envelope {
		items = append(items, "ENVELOPE")
	}
	if options.BodyStructure {
		items = append(items, "BODYSTRUCTURE")
	}
	for _, section := range options.BodySections {
		item := "BODY"
		if options.Peek {
			item = "BODY.PEEK"
		}
		items = append(items, item+"["+section+"]")
	}
	if len(items) == 0 {
		items = []string{"FLAGS", "UID"}
	}
	return "(" + strings.Join(items, " ") + ")"
}

// Fetch sends a FETCH command. A nil options value requests FLAGS and UID.
func (c *Client) Fetch(seqSet imap.SeqSet, options *FetchOptions) *FetchCommand {
	return c.fetch("FETCH", seqSet, options)
}

// UIDFetch sends a UID FETCH command; seqSet holds UIDs.
func (c *Client) UIDFetch(seqSet imap.SeqSet, options *FetchOptions) *FetchCommand {
	return c.fetch("UID FETCH", seqSet, options)
}

func (c *Client) fetch(name string, seqSet imap.SeqSet, options *FetchOptions) *FetchCommand {
	if options == nil {
		options = &FetchOptions{}
	}
	cmd := &FetchCommand{}
	c.beginCommand(name, cmd,
		wire.AtomArg(seqSet.String()),
		wire.RawArg(options.items()))
	return cmd
}

// FetchCommand is a FETCH command.
type FetchCommand struct {
	cmd
}

// Wait returns the fetched messages in the order the server sent them.
func (cmd *FetchCommand) Wait() ([]imap.FetchData, error) {
	if err := cmd.cmd.Wait(); err != nil {
		return nil, err
	}
	var msgs []imap.FetchData
	for _, resp := range cmd.untagged {
		if data, ok := resp.(*imap.UntaggedFetch); ok {
			msgs = append(msgs, imap.FetchData(*data))
		}
	}
	return msgs, nil
}
