package imapclient

import (
	"github.com/tidemail/imap"
	"github.com/tidemail/imap/internal/wire"
)

// Copy sends a COPY command.
func (c *Client) Copy(seqSet imap.SeqSet, mailbox string) *CopyCommand {
	return c.copyMove("COPY", seqSet, mailbox)
}

// UIDCopy sends a UID COPY command; seqSet holds UIDs.
func (c *Client) UIDCopy(seqSet imap.SeqSet, mailbox string) *CopyCommand {
	return c.copyMove("UID COPY", seqSet, mailbox)
}

// Move sends a MOVE command.
func (c *Client) Move(seqSet imap.SeqSet, mailbox string) *CopyCommand {
	return c.copyMove("MOVE", seqSet, mailbox)
}

// UIDMove sends a UID MOVE command; seqSet holds UIDs.
func (c *Client) UIDMove(seqSet imap.SeqSet, mailbox string) *CopyCommand {
	return c.copyMove("UID MOVE", seqSet, mailbox)
}

func (c *Client) copyMove(name string, seqSet imap.SeqSet, mailbox string) *CopyCommand {
	cmd := &CopyCommand{}
	c.beginCommand(name, cmd,
		wire.AtomArg(seqSet.String()),
		wire.StringArg(c.encodeMailbox(mailbox)))
	return cmd
}

// CopyCommand is a COPY or MOVE command.
type CopyCommand struct {
	cmd
}

// Wait returns the COPYUID data, or nil when the server did not report it.
//
// COPY carries COPYUID in the tagged response code; MOVE may instead carry
// it in an untagged OK preceding the EXPUNGE replies. Both forms are
// accepted.
func (cmd *CopyCommand) Wait() (*imap.CopyData, error) {
	if err := cmd.cmd.Wait(); err != nil {
		return nil, err
	}
	if code := cmd.tagged.Code; code != nil && code.Name == imap.CodeCopyUID {
		return code.CopyUID, nil
	}
	for _, resp := range cmd.untagged {
		if cond, ok := resp.(*imap.UntaggedCond); ok {
			if code := cond.Code; code != nil && code.Name == imap.CodeCopyUID {
				return code.CopyUID, nil
			}
		}
	}
	return nil, nil
}
