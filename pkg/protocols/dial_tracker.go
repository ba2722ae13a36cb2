package protocols

import (
	"context"
	"net"
	"sync/atomic"
)

type byteCounter struct {
	read    atomic.Int64
	written atomic.Int64
}

type trackingConn struct {
	net.Conn
	counter *byteCounter
}

func (c *trackingConn) Read(b []byte) (int, error) {
	n, err := c.Conn.Read(b)
	c.counter.read.Add(int64(n))
	return n, err
}

func (c *trackingConn) Write(b []byte) (int, error) {
	n, err := c.Conn.Write(b)
	c.counter.written.Add(int64(n))
	return n, err
}

func dialContextWithBytesTracked(ctx context.Context, dialer *net.Dialer, network, address string, counter *byteCounter) (net.Conn, error) {
	conn, err := dialer.DialContext(ctx, network, address)
	if err != nil {
		return nil, err
	}
	return &trackingConn{Conn: conn, counter: counter}, nil
}
