package imapclient

import (
	"strings"

	"github.com/tidemail/imap"
	"github.com/tidemail/imap/internal/wire"
)

// Status sends a STATUS command. items are the status data item names to
// request, e.g. "MESSAGES" or "UIDNEXT"; nil requests MESSAGES, UIDNEXT and
// UIDVALIDITY.
func (c *Client) Status(mailbox string, items []string) *StatusCommand {
	if items == nil {
		items = []string{"MESSAGES", "UIDNEXT", "UIDVALIDITY"}
	}
	cmd := &StatusCommand{mailbox: mailbox}
	c.beginCommand("STATUS", cmd,
		wire.StringArg(c.encodeMailbox(mailbox)),
		wire.RawArg("("+strings.Join(items, " ")+")"))
	return cmd
}

// StatusCommand is a STATUS command.
type StatusCommand struct {
	cmd
	mailbox string
}

// Wait returns the status of the mailbox. Attributes that were not
// requested, or that the server did not report, are nil.
func (cmd *StatusCommand) Wait() (*imap.StatusData, error) {
	if err := cmd.cmd.Wait(); err != nil {
		return nil, err
	}
	for _, resp := range cmd.untagged {
		if data, ok := resp.(*imap.UntaggedStatus); ok {
			status := imap.StatusData(*data)
			status.Mailbox = cmd.mailbox
			return &status, nil
		}
	}
	return &imap.StatusData{Mailbox: cmd.mailbox}, nil
}
