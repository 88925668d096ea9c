package imapclient

import (
	"encoding/base64"

	"github.com/emersion/go-sasl"

	"github.com/tidemail/imap/internal/wire"
)

// Authenticate sends an AUTHENTICATE command, e.g. with sasl.NewPlainClient
// or NewXOAuth2Client.
//
// The mechanism's initial response, if any, is sent with the command line.
// Further challenges are relayed to the sasl.Client from the read goroutine
// until the server completes the command.
func (c *Client) Authenticate(saslClient sasl.Client) *AuthenticateCommand {
	cmd := &AuthenticateCommand{saslClient: saslClient}
	mech, ir, err := saslClient.Start()
	if err != nil {
		cmd.done = make(chan struct{})
		cmd.fail(err)
		return cmd
	}
	args := []wire.Arg{wire.AtomArg(mech)}
	if ir != nil {
		if len(ir) == 0 {
			args = append(args, wire.AtomArg("="))
		} else {
			args = append(args, wire.AtomArg(base64.StdEncoding.EncodeToString(ir)))
		}
	}
	c.beginCommand("AUTHENTICATE", cmd, args...)
	return cmd
}

// AuthenticateCommand is an AUTHENTICATE command.
type AuthenticateCommand struct {
	cmd
	saslClient sasl.Client
}

// saslResponse answers a server challenge. It returns the line to send,
// without CRLF: the base64 response, or "*" to abort the exchange when the
// mechanism rejects the challenge.
func (cmd *AuthenticateCommand) saslResponse(challenge string) string {
	decoded, err := decodeSASL(challenge)
	if err != nil {
		return "*"
	}
	out, err := cmd.saslClient.Next(decoded)
	if err != nil {
		return "*"
	}
	return encodeSASL(out)
}

func encodeSASL(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return base64.StdEncoding.EncodeToString(b)
}

func decodeSASL(s string) ([]byte, error) {
	switch s {
	case "":
		return nil, nil
	case "=":
		// An explicit empty challenge; go-sasl treats nil as "no challenge",
		// so hand it a non-nil empty slice.
		return []byte{}, nil
	}
	return base64.StdEncoding.DecodeString(s)
}

type xoauth2Client struct {
	username, token string
}

// NewXOAuth2Client returns a sasl.Client for the XOAUTH2 mechanism used by
// Gmail and Outlook.
func NewXOAuth2Client(username, token string) sasl.Client {
	return &xoauth2Client{username: username, token: token}
}

func (c *xoauth2Client) Start() (string, []byte, error) {
	ir := []byte("user=" + c.username + "\x01auth=Bearer " + c.token + "\x01\x01")
	return "XOAUTH2", ir, nil
}

// Next handles the error challenge XOAUTH2 servers send on failure: the
// client answers with an empty response and the server then rejects the
// command.
func (c *xoauth2Client) Next(challenge []byte) ([]byte, error) {
	return []byte{}, nil
}
