package imapclient

import (
	"strings"

	"github.com/tidemail/imap"
	"github.com/tidemail/imap/internal/wire"
)

// AppendOptions contains options for the APPEND command.
type AppendOptions struct {
	Flags []imap.Flag
	// InternalDate is the date-time to record for the message, in the RFC
	// 9051 date-time form, e.g. "05-Feb-2026 14:30:00 +0000". Empty lets
	// the server choose.
	InternalDate string
}

// Append sends an APPEND command delivering msg to the mailbox.
//
// The message is sent as a synchronizing literal: the command line goes out
// immediately and the message bytes follow once the server invites them.
func (c *Client) Append(mailbox string, options *AppendOptions, msg []byte) *AppendCommand {
	if options == nil {
		options = &AppendOptions{}
	}
	args := []wire.Arg{wire.StringArg(c.encodeMailbox(mailbox))}
	if len(options.Flags) > 0 {
		names := make([]string, len(options.Flags))
		for i, flag := range options.Flags {
			names[i] = flag.WireString()
		}
		args = append(args, wire.RawArg("("+strings.Join(names, " ")+")"))
	}
	if options.InternalDate != "" {
		args = append(args, wire.StringArg(options.InternalDate))
	}
	args = append(args, wire.LiteralArg(msg))

	cmd := &AppendCommand{}
	c.beginCommand("APPEND", cmd, args...)
	return cmd
}

// AppendCommand is an APPEND command.
type AppendCommand struct {
	cmd
}

// Wait returns the APPENDUID data, or nil when the server did not report
// it.
func (cmd *AppendCommand) Wait() (*imap.AppendData, error) {
	if err := cmd.cmd.Wait(); err != nil {
		return nil, err
	}
	if code := cmd.tagged.Code; code != nil && code.Name == imap.CodeAppendUID {
		return code.AppendUID, nil
	}
	return nil, nil
}
