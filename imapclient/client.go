// Package imapclient implements an IMAP4rev2 client per RFC 9051.
//
// IMAP commands are exposed as methods on Client. A command method blocks
// until the command has been sent, but not until the server replies: it
// returns a command value whose Wait method yields the result. Commands may
// therefore be pipelined by starting several before waiting on any.
//
// The client owns its Transport exclusively. All responses are read by a
// single goroutine which matches tagged responses to in-flight commands by
// tag and attributes untagged responses to the oldest in-flight command.
// With a single caller this attribution is exact; concurrent callers that
// pipeline commands with overlapping untagged data should serialize at a
// higher layer.
package imapclient

import (
	"errors"
	"fmt"
	"io"
	"time"

	"sync"

	"github.com/tidemail/imap"
	"github.com/tidemail/imap/internal/wire"
)

// ErrClosed is returned for commands submitted after the connection reached
// the Logout state or was closed by Close or by the server. After a teardown
// caused by any other error, such as a malformed response, commands fail
// with that error instead.
var ErrClosed = errors.New("imapclient: connection closed")

var errIdling = errors.New("imapclient: connection is idling, terminate IDLE first")

// Error is a NO or BAD command completion from the server.
type Error struct {
	Tagged imap.TaggedResponse
}

// Error implements the error interface.
func (err *Error) Error() string {
	return fmt.Sprintf("imapclient: server replied %v %v", err.Tagged.Status, err.Tagged.Text)
}

// Options contains options for Connect.
type Options struct {
	// Raw ingress and egress data will be written to this writer, if any
	DebugWriter io.Writer
	// GreetingTimeout bounds the wait for the server greeting. Zero means a
	// default of 30 seconds. This is the only timeout the client imposes;
	// wrap Wait calls for per-command timeouts.
	GreetingTimeout time.Duration
	// UnilateralDataHandler, if set, is invoked from the read goroutine for
	// every untagged response received outside IDLE. The handler must not
	// call back into the client.
	UnilateralDataHandler func(imap.UntaggedResponse)
}

// SelectedMailbox is the client's view of the selected mailbox, assembled
// from the SELECT response and kept up to date by unilateral EXISTS, EXPUNGE
// and FLAGS data.
type SelectedMailbox struct {
	Name           string
	NumMessages    uint32
	Flags          []imap.Flag
	PermanentFlags []imap.Flag
	UIDNext        uint32
	UIDValidity    uint32
	ReadOnly       bool
}

// Client is an IMAP client.
type Client struct {
	transport Transport
	options   Options

	greetingDone chan struct{}
	greetingErr  error

	// encMutex serializes tag allocation plus transmission, so that tags go
	// out in allocation order and literal payloads never interleave with
	// another command's bytes.
	encMutex sync.Mutex

	mutex      sync.Mutex
	greeted    bool
	state      imap.ConnState
	caps       []string
	mailbox    *SelectedMailbox
	cmdTag     uint32
	pendingCmd []command
	idleCmd    *IdleCommand
	closed     bool
	closedErr  error
}

// Connect takes ownership of transport, waits for the server greeting and
// returns a ready client.
//
// A nil options pointer is equivalent to a zero options value.
func Connect(transport Transport, options *Options) (*Client, error) {
	if options == nil {
		options = &Options{}
	}
	if options.DebugWriter != nil {
		transport = &debugTransport{Transport: transport, w: options.DebugWriter}
	}
	c := &Client{
		transport:    transport,
		options:      *options,
		state:        imap.ConnStateNone,
		greetingDone: make(chan struct{}),
	}
	go c.read()

	timeout := options.GreetingTimeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-c.greetingDone:
		if c.greetingErr != nil {
			c.transport.Close()
			return nil, c.greetingErr
		}
		return c, nil
	case <-timer.C:
		c.transport.Close()
		return nil, fmt.Errorf("imapclient: no greeting within %v", timeout)
	}
}

// Close immediately closes the connection. In-flight commands fail with
// ErrClosed. Prefer Logout for a clean shutdown.
func (c *Client) Close() error {
	c.fatal(ErrClosed)
	return nil
}

// State returns the current connection state.
func (c *Client) State() imap.ConnState {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.state
}

// Caps returns the capabilities most recently announced by the server.
func (c *Client) Caps() []string {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	caps := make([]string, len(c.caps))
	copy(caps, c.caps)
	return caps
}

// Mailbox returns a snapshot of the selected mailbox, or nil if no mailbox
// is selected.
func (c *Client) Mailbox() *SelectedMailbox {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if c.mailbox == nil {
		return nil
	}
	mbox := *c.mailbox
	return &mbox
}

// command is implemented by all typed command structs via the embedded
// Command.
type command interface {
	base() *Command
}

// Command is a basic IMAP command in flight.
type Command struct {
	tag      string
	name     string
	literal  []byte
	untagged []imap.UntaggedResponse
	tagged   imap.TaggedResponse
	err      error
	done     chan struct{}
}

func (cmd *Command) base() *Command {
	return cmd
}

// Wait blocks until the command has completed and returns its error, if any.
// A NO or BAD completion is returned as an *Error.
func (cmd *Command) Wait() error {
	<-cmd.done
	return cmd.err
}

func (cmd *Command) fail(err error) {
	cmd.err = err
	close(cmd.done)
}

// cmd is an alias to embed Command without exporting anonymous fields.
type cmd = Command

// beginCommand allocates a tag, registers typed as pending and sends the
// command line. Errors surface through the command's Wait.
func (c *Client) beginCommand(name string, typed command, args ...wire.Arg) {
	base := typed.base()
	*base = Command{name: name, done: make(chan struct{})}

	c.encMutex.Lock()
	defer c.encMutex.Unlock()

	c.mutex.Lock()
	if c.closed || c.state == imap.ConnStateLogout {
		err := c.closedErr
		c.mutex.Unlock()
		if err == nil {
			err = ErrClosed
		}
		base.fail(err)
		return
	}
	if c.idleCmd != nil {
		c.mutex.Unlock()
		base.fail(errIdling)
		return
	}
	c.cmdTag++
	base.tag = wire.FormatTag(c.cmdTag)

	enc, err := (&wire.Command{Tag: base.tag, Name: name, Args: args}).Encode()
	if err != nil {
		c.mutex.Unlock()
		base.fail(err)
		return
	}
	base.literal = enc.Literal

	c.pendingCmd = append(c.pendingCmd, typed)
	if idle, ok := typed.(*IdleCommand); ok {
		c.idleCmd = idle
	}
	c.mutex.Unlock()

	if err := c.transport.Send(enc.Prefix); err != nil {
		c.fatal(fmt.Errorf("imapclient: send: %w", err))
	}
}

// read is the connection's read loop. It owns the receive buffer and is the
// only goroutine parsing responses.
func (c *Client) read() {
	var buf []byte
	for {
		for {
			toks, rest, err := wire.ReadLine(buf)
			if err == wire.ErrIncomplete {
				break
			}
			if err != nil {
				c.fatal(err)
				return
			}
			buf = rest
			resp, err := wire.Parse(toks)
			if err != nil {
				c.fatal(err)
				return
			}
			c.dispatch(resp)
		}
		chunk, err := c.transport.Recv()
		if err != nil {
			if err == io.EOF {
				err = ErrClosed
			}
			c.fatal(err)
			return
		}
		buf = append(buf, chunk...)
	}
}

func (c *Client) dispatch(resp imap.Response) {
	switch resp := resp.(type) {
	case *imap.ContinuationRequest:
		c.continuationResp(resp)
	case *imap.TaggedResponse:
		c.taggedResp(resp)
	case imap.UntaggedResponse:
		c.untaggedResp(resp)
	}
}

func (c *Client) continuationResp(resp *imap.ContinuationRequest) {
	c.mutex.Lock()
	if idle := c.idleCmd; idle != nil && !idle.ackd {
		idle.ackd = true
		c.mutex.Unlock()
		close(idle.ack)
		return
	}
	var auth *AuthenticateCommand
	var out []byte
	if len(c.pendingCmd) > 0 {
		switch typed := c.pendingCmd[0].(type) {
		case *AuthenticateCommand:
			auth = typed
		default:
			base := typed.base()
			if base.literal != nil {
				out = make([]byte, 0, len(base.literal)+2)
				out = append(out, base.literal...)
				out = append(out, "\r\n"...)
				base.literal = nil
			}
		}
	}
	c.mutex.Unlock()

	if auth != nil {
		out = []byte(auth.saslResponse(resp.Base64) + "\r\n")
	}
	if out == nil {
		// Unexpected continuation request, nothing to send.
		return
	}
	c.encMutex.Lock()
	err := c.transport.Send(out)
	c.encMutex.Unlock()
	if err != nil {
		c.fatal(fmt.Errorf("imapclient: send: %w", err))
	}
}

func (c *Client) taggedResp(resp *imap.TaggedResponse) {
	c.mutex.Lock()
	var typed command
	for i, pending := range c.pendingCmd {
		if pending.base().tag == resp.Tag {
			typed = pending
			c.pendingCmd = append(c.pendingCmd[:i], c.pendingCmd[i+1:]...)
			break
		}
	}
	if typed == nil {
		c.mutex.Unlock()
		return
	}
	base := typed.base()
	base.tagged = *resp
	if idle, ok := typed.(*IdleCommand); ok && c.idleCmd == idle {
		c.idleCmd = nil
	}
	if resp.Status == imap.StatusOK {
		if resp.Code != nil && resp.Code.Name == imap.CodeCapability {
			c.caps = resp.Code.Caps
		}
		c.applyTransition(typed, resp)
	}
	c.mutex.Unlock()

	if resp.Status != imap.StatusOK {
		base.fail(&Error{Tagged: *resp})
		return
	}
	close(base.done)
}

// applyTransition applies the connection state change of a tagged OK. Called
// with c.mutex held.
func (c *Client) applyTransition(typed command, resp *imap.TaggedResponse) {
	base := typed.base()
	switch base.name {
	case "LOGIN", "AUTHENTICATE":
		c.state = imap.ConnStateAuthenticated
	case "SELECT", "EXAMINE":
		if sel, ok := typed.(*SelectCommand); ok {
			data := newSelectedMailbox(sel.name, base.name == "EXAMINE", base.untagged, resp.Code)
			sel.data = data
			mbox := *data
			c.mailbox = &mbox
			c.state = imap.ConnStateSelected
		}
	case "CLOSE", "UNSELECT":
		c.state = imap.ConnStateAuthenticated
		c.mailbox = nil
	case "LOGOUT":
		c.state = imap.ConnStateLogout
	}
}

func (c *Client) untaggedResp(resp imap.UntaggedResponse) {
	c.mutex.Lock()
	if !c.greeted {
		c.greeting(resp)
		c.mutex.Unlock()
		return
	}

	switch resp := resp.(type) {
	case imap.UntaggedCapability:
		c.caps = resp
	case imap.UntaggedExists:
		if c.mailbox != nil {
			c.mailbox.NumMessages = uint32(resp)
		}
	case imap.UntaggedExpunge:
		if c.mailbox != nil && c.mailbox.NumMessages > 0 {
			c.mailbox.NumMessages--
		}
	case imap.UntaggedFlags:
		if c.mailbox != nil {
			c.mailbox.Flags = resp
		}
	case *imap.UntaggedCond:
		if resp.Code != nil && c.mailbox != nil {
			switch resp.Code.Name {
			case imap.CodeUIDNext:
				c.mailbox.UIDNext = resp.Code.Num
			case imap.CodeUIDValidity:
				c.mailbox.UIDValidity = resp.Code.Num
			case imap.CodePermanentFlags:
				c.mailbox.PermanentFlags = resp.Code.Flags
			}
		}
	case *imap.UntaggedBye:
		c.state = imap.ConnStateLogout
	}

	idle := c.idleCmd
	if idle == nil && len(c.pendingCmd) > 0 {
		base := c.pendingCmd[0].base()
		base.untagged = append(base.untagged, resp)
	}
	c.mutex.Unlock()

	if idle != nil {
		switch resp.(type) {
		case imap.UntaggedExists, imap.UntaggedExpunge, *imap.UntaggedFetch:
			if idle.handler != nil {
				idle.handler(resp)
			}
		}
		return
	}
	if c.options.UnilateralDataHandler != nil {
		c.options.UnilateralDataHandler(resp)
	}
}

// greeting consumes the first untagged response. Called with c.mutex held.
func (c *Client) greeting(resp imap.UntaggedResponse) {
	c.greeted = true
	switch resp := resp.(type) {
	case *imap.UntaggedCond:
		if resp.Status != imap.StatusOK {
			c.greetingErr = fmt.Errorf("imapclient: server greeting is %v %v", resp.Status, resp.Text)
			break
		}
		c.state = imap.ConnStateNotAuthenticated
		if resp.Code != nil && resp.Code.Name == imap.CodeCapability {
			c.caps = resp.Code.Caps
		}
	case *imap.UntaggedPreAuth:
		c.state = imap.ConnStateAuthenticated
		if resp.Code != nil && resp.Code.Name == imap.CodeCapability {
			c.caps = resp.Code.Caps
		}
	case *imap.UntaggedBye:
		c.state = imap.ConnStateLogout
		c.greetingErr = fmt.Errorf("imapclient: server refused connection: %v", resp.Text)
	default:
		c.greetingErr = fmt.Errorf("imapclient: unexpected greeting %T", resp)
	}
	close(c.greetingDone)
}

// fatal tears the connection down: every in-flight command fails with err
// and the transport is closed.
func (c *Client) fatal(err error) {
	c.mutex.Lock()
	if c.closed {
		c.mutex.Unlock()
		return
	}
	c.closed = true
	c.closedErr = err
	c.state = imap.ConnStateLogout
	pending := c.pendingCmd
	c.pendingCmd = nil
	c.idleCmd = nil
	if !c.greeted {
		c.greeted = true
		c.greetingErr = err
		close(c.greetingDone)
	}
	c.mutex.Unlock()

	for _, typed := range pending {
		typed.base().fail(err)
	}
	c.transport.Close()
}

// Noop sends a NOOP command.
func (c *Client) Noop() *Command {
	cmd := &Command{}
	c.beginCommand("NOOP", cmd)
	return cmd
}

// Login sends a LOGIN command.
func (c *Client) Login(username, password string) *Command {
	cmd := &Command{}
	c.beginCommand("LOGIN", cmd, wire.StringArg(username), wire.StringArg(password))
	return cmd
}

// Logout sends a LOGOUT command. On OK the connection reaches its terminal
// state and any further command fails with ErrClosed.
func (c *Client) Logout() *Command {
	cmd := &Command{}
	c.beginCommand("LOGOUT", cmd)
	return cmd
}

// Capability sends a CAPABILITY command.
func (c *Client) Capability() *CapabilityCommand {
	cmd := &CapabilityCommand{}
	c.beginCommand("CAPABILITY", cmd)
	return cmd
}

// CapabilityCommand is a CAPABILITY command.
type CapabilityCommand struct {
	cmd
}

// Wait returns the capability list announced by the server.
func (cmd *CapabilityCommand) Wait() ([]string, error) {
	if err := cmd.cmd.Wait(); err != nil {
		return nil, err
	}
	for _, resp := range cmd.untagged {
		if caps, ok := resp.(imap.UntaggedCapability); ok {
			return caps, nil
		}
	}
	if code := cmd.tagged.Code; code != nil && code.Name == imap.CodeCapability {
		return code.Caps, nil
	}
	return nil, nil
}
