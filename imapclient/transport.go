package imapclient

import (
	"crypto/tls"
	"io"
	"net"
)

// Transport is the byte-level connection the client engine drives. The
// engine owns the transport exclusively once handed over: no other party may
// read or write it.
//
// Recv returns the next chunk of bytes from the server. Chunks may be of any
// size and may split a response line, or even a literal, at any byte
// boundary. Recv returns io.EOF once the peer has closed the connection.
type Transport interface {
	Send(b []byte) error
	Recv() ([]byte, error)
	Close() error
}

type connTransport struct {
	conn net.Conn
	buf  [4096]byte
}

// NewConnTransport wraps a net.Conn as a Transport.
func NewConnTransport(conn net.Conn) Transport {
	return &connTransport{conn: conn}
}

func (t *connTransport) Send(b []byte) error {
	_, err := t.conn.Write(b)
	return err
}

func (t *connTransport) Recv() ([]byte, error) {
	n, err := t.conn.Read(t.buf[:])
	if n > 0 {
		out := make([]byte, n)
		copy(out, t.buf[:n])
		return out, nil
	}
	if err == nil {
		err = io.EOF
	}
	return nil, err
}

func (t *connTransport) Close() error {
	return t.conn.Close()
}

// debugTransport copies everything sent and received to w.
type debugTransport struct {
	Transport
	w io.Writer
}

func (t *debugTransport) Send(b []byte) error {
	t.w.Write(b)
	return t.Transport.Send(b)
}

func (t *debugTransport) Recv() ([]byte, error) {
	b, err := t.Transport.Recv()
	if len(b) > 0 {
		t.w.Write(b)
	}
	return b, err
}

// DialTLS connects to an IMAP server with implicit TLS and waits for the
// server greeting.
func DialTLS(address string, options *Options) (*Client, error) {
	conn, err := tls.Dial("tcp", address, nil)
	if err != nil {
		return nil, err
	}
	client, err := Connect(NewConnTransport(conn), options)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return client, nil
}
