package imapclient

import (
	"github.com/tidemail/imap"
	"github.com/tidemail/imap/internal/wire"
)

// Expunge sends an EXPUNGE command.
func (c *Client) Expunge() *ExpungeCommand {
	cmd := &ExpungeCommand{}
	c.beginCommand("EXPUNGE", cmd)
	return cmd
}

// UIDExpunge sends a UID EXPUNGE command, expunging only the deleted
// messages within the given UID set.
func (c *Client) UIDExpunge(uidSet imap.SeqSet) *ExpungeCommand {
	cmd := &ExpungeCommand{}
	c.beginCommand("UID EXPUNGE", cmd, wire.AtomArg(uidSet.String()))
	return cmd
}

// ExpungeCommand is an EXPUNGE command.
type ExpungeCommand struct {
	cmd
}

// Wait returns the sequence numbers reported expunged, in server order.
// Each number refers to the mailbox as it stood after the preceding
// expunges of the same reply.
func (cmd *ExpungeCommand) Wait() ([]uint32, error) {
	if err := cmd.cmd.Wait(); err != nil {
		return nil, err
	}
	var seqNums []uint32
	for _, resp := range cmd.untagged {
		if num, ok := resp.(imap.UntaggedExpunge); ok {
			seqNums = append(seqNums, uint32(num))
		}
	}
	return seqNums, nil
}
