package imapclient

import (
	"strings"

	"github.com/tidemail/imap/utf7"
)

// utf8Accepted reports whether the server takes mailbox names as plain
// UTF-8. True for IMAP4rev2 servers and for IMAP4rev1 servers with
// UTF8=ACCEPT; anything else gets the modified UTF-7 encoding of RFC 3501.
func (c *Client) utf8Accepted() bool {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	for _, capability := range c.caps {
		if capability == "IMAP4rev2" || strings.EqualFold(capability, "UTF8=ACCEPT") {
			return true
		}
	}
	return false
}

// encodeMailbox converts a mailbox name to its wire form.
func (c *Client) encodeMailbox(name string) string {
	if c.utf8Accepted() {
		return name
	}
	return utf7.Encode(name)
}

// decodeMailbox converts a wire-form mailbox name back to UTF-8. Names that
// fail to decode are passed through untouched.
func (c *Client) decodeMailbox(name string) string {
	if c.utf8Accepted() {
		return name
	}
	decoded, err := utf7.Decode(name)
	if err != nil {
		return name
	}
	return decoded
}
