package imapclient

import (
	"strings"

	"github.com/tidemail/imap"
	"github.com/tidemail/imap/internal/wire"
)

// StoreFlagsOp is the operation applied by a STORE command.
type StoreFlagsOp string

const (
	StoreFlagsSet StoreFlagsOp = ""
	StoreFlagsAdd StoreFlagsOp = "+"
	StoreFlagsDel StoreFlagsOp = "-"
)

// StoreFlags alters message flags.
type StoreFlags struct {
	Op StoreFlagsOp
	// Silent suppresses the untagged FETCH replies carrying the new flags.
	Silent bool
	Flags  []imap.Flag
}

func (store *StoreFlags) item() string {
	item := string(store.Op) + "FLAGS"
	if store.Silent {
		item += ".SILENT"
	}
	return item
}

func (store *StoreFlags) value() string {
	names := make([]string, len(store.Flags))
	for i, flag := range store.Flags {
		names[i] = flag.WireString()
	}
	return "(" + strings.Join(names, " ") + ")"
}

// Store sends a STORE command.
func (c *Client) Store(seqSet imap.SeqSet, store *StoreFlags) *StoreCommand {
	return c.store("STORE", seqSet, store)
}

// UIDStore sends a UID STORE command; seqSet holds UIDs.
func (c *Client) UIDStore(seqSet imap.SeqSet, store *StoreFlags) *StoreCommand {
	return c.store("UID STORE", seqSet, store)
}

func (c *Client) store(name string, seqSet imap.SeqSet, store *StoreFlags) *StoreCommand {
	cmd := &StoreCommand{}
	c.beginCommand(name, cmd,
		wire.AtomArg(seqSet.String()),
		wire.AtomArg(store.item()),
		wire.RawArg(store.value()))
	return cmd
}

// StoreCommand is a STORE command.
type StoreCommand struct {
	cmd
}

// Wait returns the untagged FETCH replies carrying the updated flags. With
// StoreFlags.Silent the list is empty.
func (cmd *StoreCommand) Wait() ([]imap.FetchData, error) {
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
