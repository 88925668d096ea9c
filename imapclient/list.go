package imapclient

import (
	"github.com/tidemail/imap"
	"github.com/tidemail/imap/internal/wire"
)

// List sends a LIST command. The reference is usually empty and the pattern
// may contain the "%" and "*" wildcards.
func (c *Client) List(ref, pattern string) *ListCommand {
	cmd := &ListCommand{client: c}
	c.beginCommand("LIST", cmd,
		wire.StringArg(c.encodeMailbox(ref)),
		wire.StringArg(c.encodeMailbox(pattern)))
	return cmd
}

// ListCommand is a LIST command.
type ListCommand struct {
	cmd
	client *Client
}

// Wait returns the mailboxes matching the pattern.
func (cmd *ListCommand) Wait() ([]imap.ListData, error) {
	if err := cmd.cmd.Wait(); err != nil {
		return nil, err
	}
	var l []imap.ListData
	for _, resp := range cmd.untagged {
		if data, ok := resp.(*imap.UntaggedList); ok {
			ld := imap.ListData(*data)
			ld.Mailbox = cmd.client.decodeMailbox(ld.Mailbox)
			l = append(l, ld)
		}
	}
	return l, nil
}
