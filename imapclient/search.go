package imapclient

import (
	"github.com/tidemail/imap"
	"github.com/tidemail/imap/internal/wire"
)

// Search sends a SEARCH command. criteria is the raw search key list, e.g.
// "UNSEEN" or "SINCE 1-Feb-2026 FROM alice".
func (c *Client) Search(criteria string) *SearchCommand {
	cmd := &SearchCommand{}
	c.beginCommand("SEARCH", cmd, wire.RawArg(criteria))
	return cmd
}

// UIDSearch sends a UID SEARCH command; results are UIDs.
func (c *Client) UIDSearch(criteria string) *SearchCommand {
	cmd := &SearchCommand{}
	c.beginCommand("UID SEARCH", cmd, wire.RawArg(criteria))
	return cmd
}

// SearchCommand is a SEARCH command.
type SearchCommand struct {
	cmd
}

// Wait returns the search result. A search without matches is not an error:
// Min, Max, Count and All are then zero. If the server sent no ESEARCH reply
// at all, the result is the zero ESearchData value.
func (cmd *SearchCommand) Wait() (*imap.ESearchData, error) {
	if err := cmd.cmd.Wait(); err != nil {
		return nil, err
	}
	for _, resp := range cmd.untagged {
		if data, ok := resp.(*imap.UntaggedESearch); ok {
			result := imap.ESearchData(*data)
			return &result, nil
		}
	}
	return &imap.ESearchData{}, nil
}
