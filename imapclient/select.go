package imapclient

import (
	"github.com/tidemail/imap"
	"github.com/tidemail/imap/internal/wire"
)

// Select sends a SELECT command.
func (c *Client) Select(mailbox string) *SelectCommand {
	cmd := &SelectCommand{name: mailbox}
	c.beginCommand("SELECT", cmd, wire.StringArg(c.encodeMailbox(mailbox)))
	return cmd
}

// Examine sends an EXAMINE command, selecting the mailbox read-only.
func (c *Client) Examine(mailbox string) *SelectCommand {
	cmd := &SelectCommand{name: mailbox}
	c.beginCommand("EXAMINE", cmd, wire.StringArg(c.encodeMailbox(mailbox)))
	return cmd
}

// SelectCommand is a SELECT or EXAMINE command.
type SelectCommand struct {
	cmd
	name string
	data *SelectedMailbox
}

// Wait returns the view of the newly selected mailbox.
func (cmd *SelectCommand) Wait() (*SelectedMailbox, error) {
	if err := cmd.cmd.Wait(); err != nil {
		return nil, err
	}
	return cmd.data, nil
}

// newSelectedMailbox assembles the mailbox view from the untagged data of a
// SELECT or EXAMINE and its tagged response code.
func newSelectedMailbox(name string, examine bool, untagged []imap.UntaggedResponse, code *imap.RespCode) *SelectedMailbox {
	mbox := &SelectedMailbox{Name: name, ReadOnly: examine}
	for _, resp := range untagged {
		switch resp := resp.(type) {
		case imap.UntaggedExists:
			mbox.NumMessages = uint32(resp)
		case imap.UntaggedFlags:
			mbox.Flags = resp
		case *imap.UntaggedCond:
			if resp.Code == nil {
				continue
			}
			switch resp.Code.Name {
			case imap.CodeUIDNext:
				mbox.UIDNext = resp.Code.Num
			case imap.CodeUIDValidity:
				mbox.UIDValidity = resp.Code.Num
			case imap.CodePermanentFlags:
				mbox.PermanentFlags = resp.Code.Flags
			}
		}
	}
	if code != nil {
		switch code.Name {
		case imap.CodeReadOnly:
			mbox.ReadOnly = true
		case imap.CodeReadWrite:
			mbox.ReadOnly = false
		}
	}
	return mbox
}

// CloseMailbox sends a CLOSE command, expunging and deselecting the mailbox.
func (c *Client) CloseMailbox() *Command {
	cmd := &Command{}
	c.beginCommand("CLOSE", cmd)
	return cmd
}

// Unselect sends an UNSELECT command, deselecting the mailbox without
// expunging.
func (c *Client) Unselect() *Command {
	cmd := &Command{}
	c.beginCommand("UNSELECT", cmd)
	return cmd
}
