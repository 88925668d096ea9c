package imapclient

import (
	"github.com/tidemail/imap/internal/wire"
)

// Create sends a CREATE command.
func (c *Client) Create(mailbox string) *Command {
	cmd := &Command{}
	c.beginCommand("CREATE", cmd, wire.StringArg(c.encodeMailbox(mailbox)))
	return cmd
}

// Delete sends a DELETE command.
func (c *Client) Delete(mailbox string) *Command {
	cmd := &Command{}
	c.beginCommand("DELETE", cmd, wire.StringArg(c.encodeMailbox(mailbox)))
	return cmd
}

// Rename sends a RENAME command.
func (c *Client) Rename(mailbox, newName string) *Command {
	cmd := &Command{}
	c.beginCommand("RENAME", cmd, wire.StringArg(c.encodeMailbox(mailbox)), wire.StringArg(c.encodeMailbox(newName)))
	return cmd
}

// Subscribe sends a SUBSCRIBE command.
func (c *Client) Subscribe(mailbox string) *Command {
	cmd := &Command{}
	c.beginCommand("SUBSCRIBE", cmd, wire.StringArg(c.encodeMailbox(mailbox)))
	return cmd
}

// Unsubscribe sends an UNSUBSCRIBE command.
func (c *Client) Unsubscribe(mailbox string) *Command {
	cmd := &Command{}
	c.beginCommand("UNSUBSCRIBE", cmd, wire.StringArg(c.encodeMailbox(mailbox)))
	return cmd
}
