package imapclient

import (
	"errors"

	"github.com/tidemail/imap"
	"github.com/tidemail/imap/internal/wire"
)

// Idle sends an IDLE command and blocks until the server has accepted it.
//
// While idling, handler is invoked from the read goroutine for each EXISTS,
// EXPUNGE and FETCH update. No other command may be sent until Close
// terminates the flow.
func (c *Client) Idle(handler func(imap.UntaggedResponse)) (*IdleCommand, error) {
	cmd := &IdleCommand{
		client:  c,
		handler: handler,
		ack:     make(chan struct{}),
	}
	c.beginCommand("IDLE", cmd)

	select {
	case <-cmd.ack:
		return cmd, nil
	case <-cmd.done:
		// Completed before the continuation request: NO, BAD or a dead
		// connection.
		err := cmd.err
		if err == nil {
			err = errors.New("imapclient: IDLE completed without continuation")
		}
		return nil, err
	}
}

// IdleCommand is an in-progress IDLE command.
type IdleCommand struct {
	cmd
	client  *Client
	handler func(imap.UntaggedResponse)
	ack     chan struct{}
	ackd    bool
}

// Close terminates the IDLE flow by sending DONE and waits for the tagged
// completion.
func (cmd *IdleCommand) Close() error {
	c := cmd.client

	c.encMutex.Lock()
	c.mutex.Lock()
	if c.idleCmd != cmd {
		c.mutex.Unlock()
		c.encMutex.Unlock()
		return cmd.Wait()
	}
	c.idleCmd = nil
	c.mutex.Unlock()
	err := c.transport.Send([]byte(wire.Done))
	c.encMutex.Unlock()
	if err != nil {
		c.fatal(err)
	}
	return cmd.Wait()
}
