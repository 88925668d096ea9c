package imapclient

import (
	"github.com/tidemail/imap"
	"github.com/tidemail/imap/internal/wire"
)

// Enable sends an ENABLE command.
func (c *Client) Enable(caps ...string) *EnableCommand {
	cmd := &EnableCommand{}
	args := make([]wire.Arg, len(caps))
	for i, cap := range caps {
		args[i] = wire.AtomArg(cap)
	}
	c.beginCommand("ENABLE", cmd, args...)
	return cmd
}

// EnableCommand is an ENABLE command.
type EnableCommand struct {
	cmd
}

// Wait returns the capabilities the server actually enabled, which may be a
// subset of those requested.
func (cmd *EnableCommand) Wait() ([]string, error) {
	if err := cmd.cmd.Wait(); err != nil {
		return nil, err
	}
	for _, resp := range cmd.untagged {
		if caps, ok := resp.(imap.UntaggedEnabled); ok {
			return caps, nil
		}
	}
	return nil, nil
}
