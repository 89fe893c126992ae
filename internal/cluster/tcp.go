package cluster

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"

	"mutalign/core/result"
)

// handshakeTimeout bounds the hello/welcome exchange on a fresh connection.
const handshakeTimeout = 10 * time.Second

type peer struct {
	rank   int
	conn   net.Conn
	br     *bufio.Reader
	wmu    sync.Mutex
	frames chan frame // closed when the connection ends
}

func (p *peer) send(k kind, payload []byte) error {
	p.wmu.Lock()
	defer p.wmu.Unlock()
	return writeFrame(p.conn, k, payload)
}

// tcpComm is a rank connected over TCP. The coordinator holds one peer per
// worker (indexed by rank, nil at its own index); a worker holds one peer,
// the coordinator, at index 0.
type tcpComm struct {
	rank, size int
	runID      uuid.UUID
	peers      []*peer

	abortOnce sync.Once
	abort     chan struct{}
	cause     error

	closeOnce sync.Once
	closing   chan struct{}
}

func newTCPComm(rank, size int, id uuid.UUID) *tcpComm {
	return &tcpComm{
		rank: rank, size: size, runID: id,
		abort:   make(chan struct{}),
		closing: make(chan struct{}),
	}
}

func (c *tcpComm) Rank() int         { return c.rank }
func (c *tcpComm) Size() int         { return c.size }
func (c *tcpComm) Coordinator() bool { return c.rank == Coordinator }

// RunIDOf returns the run ID a TCP endpoint agreed on during the handshake,
// or uuid.Nil for other transports.
func RunIDOf(c Comm) uuid.UUID {
	if t, ok := c.(*tcpComm); ok {
		return t.runID
	}
	return uuid.Nil
}

func (c *tcpComm) stop(cause error) bool {
	first := false
	c.abortOnce.Do(func() {
		first = true
		c.cause = cause
		close(c.abort)
	})
	return first
}

// Abort stops this rank and tells every connected peer. On the coordinator
// that reaches all workers; on a worker, the coordinator relays it.
func (c *tcpComm) Abort(cause error) {
	if !c.stop(cause) {
		return
	}
	msg := []byte("aborted")
	if cause != nil {
		msg = []byte(fmt.Sprintf("rank %d: %v", c.rank, cause))
	}
	for _, p := range c.peers {
		if p != nil {
			_ = p.send(kindAbort, msg)
		}
	}
}

func (c *tcpComm) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.closing)
		for _, p := range c.peers {
			if p != nil {
				err = errors.Join(err, p.conn.Close())
			}
		}
	})
	return err
}

func (c *tcpComm) readLoop(p *peer) {
	defer close(p.frames)
	for {
		f, err := readFrame(p.br)
		if err != nil {
			return
		}
		if f.kind == kindAbort {
			cause := fmt.Errorf("peer %d: %s", p.rank, f.payload)
			if c.Coordinator() {
				c.Abort(cause)
			} else {
				c.stop(cause)
			}
			return
		}
		select {
		case p.frames <- f:
		case <-c.abort:
			return
		case <-c.closing:
			return
		}
	}
}

func (c *tcpComm) start(p *peer) {
	p.frames = make(chan frame, 2)
	c.peers[p.rank] = p
	go c.readLoop(p)
}

func (c *tcpComm) recv(ctx context.Context, p *peer, want kind) (frame, error) {
	select {
	case f, ok := <-p.frames:
		if !ok {
			err := fmt.Errorf("connection to rank %d lost", p.rank)
			c.Abort(err)
			return frame{}, aborted(err)
		}
		if f.kind != want {
			err := fmt.Errorf("%w: rank %d sent %q, want %q", ErrProtocol, p.rank, byte(f.kind), byte(want))
			c.Abort(err)
			return frame{}, err
		}
		return f, nil
	case <-c.abort:
		return frame{}, aborted(c.cause)
	case <-ctx.Done():
		return frame{}, ctx.Err()
	}
}

func (c *tcpComm) Gather(ctx context.Context, local result.Result) ([]result.Result, error) {
	if !c.Coordinator() {
		rec, err := local.MarshalBinary()
		if err != nil {
			return nil, err
		}
		if err := c.peers[0].send(kindResult, rec); err != nil {
			return nil, fmt.Errorf("send result: %w", err)
		}
		return nil, nil
	}

	all := make([]result.Result, c.size)
	all[c.rank] = local
	for r := 1; r < c.size; r++ {
		f, err := c.recv(ctx, c.peers[r], kindResult)
		if err != nil {
			return nil, err
		}
		if err := all[r].UnmarshalBinary(f.payload); err != nil {
			return nil, err
		}
	}
	return all, nil
}

func (c *tcpComm) Barrier(ctx context.Context) error {
	if !c.Coordinator() {
		if err := c.peers[0].send(kindBarrier, nil); err != nil {
			return fmt.Errorf("enter barrier: %w", err)
		}
		_, err := c.recv(ctx, c.peers[0], kindBarrier)
		return err
	}
	for r := 1; r < c.size; r++ {
		if _, err := c.recv(ctx, c.peers[r], kindBarrier); err != nil {
			return err
		}
	}
	for r := 1; r < c.size; r++ {
		if err := c.peers[r].send(kindBarrier, nil); err != nil {
			return fmt.Errorf("release rank %d: %w", r, err)
		}
	}
	return nil
}

// Listener accepts the workers of one run on the coordinator.
type Listener struct {
	ln    net.Listener
	size  int
	runID uuid.UUID

	// Joined, if set, is called after each worker completed the handshake.
	Joined func(rank int, remote net.Addr)
}

// Listen opens addr for a run of size ranks and mints the run ID.
func Listen(addr string, size int) (*Listener, error) {
	if size < 1 {
		return nil, fmt.Errorf("cluster size must be >= 1, got %d", size)
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Listener{ln: ln, size: size, runID: uuid.New()}, nil
}

func (l *Listener) Addr() net.Addr   { return l.ln.Addr() }
func (l *Listener) RunID() uuid.UUID { return l.runID }

// Accept waits until every worker rank 1..size-1 joined, then closes the
// listener and returns the coordinator's endpoint.
func (l *Listener) Accept(ctx context.Context) (Comm, error) {
	defer l.ln.Close()
	c := newTCPComm(Coordinator, l.size, l.runID)
	c.peers = make([]*peer, l.size)

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = l.ln.Close()
		case <-done:
		}
	}()

	for joined := 1; joined < l.size; {
		conn, err := l.ln.Accept()
		if err != nil {
			_ = c.Close()
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, fmt.Errorf("accept: %w", err)
		}
		br := bufio.NewReader(conn)
		rank, err := l.handshake(conn, br, c.peers)
		if err != nil {
			_ = writeFrame(conn, kindAbort, []byte(err.Error()))
			_ = conn.Close()
			continue
		}
		c.start(&peer{rank: rank, conn: conn, br: br})
		joined++
		if l.Joined != nil {
			l.Joined(rank, conn.RemoteAddr())
		}
	}
	return c, nil
}

func (l *Listener) handshake(conn net.Conn, br *bufio.Reader, peers []*peer) (int, error) {
	_ = conn.SetDeadline(time.Now().Add(handshakeTimeout))
	defer conn.SetDeadline(time.Time{})

	f, err := readFrame(br)
	if err != nil {
		return 0, fmt.Errorf("read hello: %w", err)
	}
	if f.kind != kindHello {
		return 0, fmt.Errorf("%w: expected hello, got %q", ErrProtocol, byte(f.kind))
	}
	rank, size := parseHello(f.payload)
	switch {
	case size != l.size:
		return 0, fmt.Errorf("worker expects %d ranks, coordinator runs %d", size, l.size)
	case rank < 1 || rank >= l.size:
		return 0, fmt.Errorf("rank %d outside 1..%d", rank, l.size-1)
	case peers[rank] != nil:
		return 0, fmt.Errorf("rank %d already joined", rank)
	}
	id := l.runID
	if err := writeFrame(conn, kindWelcome, id[:]); err != nil {
		return 0, err
	}
	return rank, nil
}

// Dial connects worker rank to the coordinator at addr, retrying until the
// coordinator is reachable or ctx ends.
func Dial(ctx context.Context, addr string, rank, size int) (Comm, error) {
	if rank < 1 || rank >= size {
		return nil, fmt.Errorf("worker rank %d outside 1..%d", rank, size-1)
	}
	var d net.Dialer
	backoff := 50 * time.Millisecond
	for {
		conn, err := d.DialContext(ctx, "tcp", addr)
		if err == nil {
			return join(conn, rank, size)
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("dial %s: %w", addr, ctx.Err())
		case <-time.After(backoff):
		}
		if backoff < time.Second {
			backoff *= 2
		}
	}
}

func join(conn net.Conn, rank, size int) (Comm, error) {
	_ = conn.SetDeadline(time.Now().Add(handshakeTimeout))
	if err := writeFrame(conn, kindHello, helloPayload(rank, size)); err != nil {
		conn.Close()
		return nil, fmt.Errorf("send hello: %w", err)
	}
	br := bufio.NewReader(conn)
	f, err := readFrame(br)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("read welcome: %w", err)
	}
	switch f.kind {
	case kindWelcome:
	case kindAbort:
		conn.Close()
		return nil, fmt.Errorf("coordinator refused rank %d: %s", rank, f.payload)
	default:
		conn.Close()
		return nil, fmt.Errorf("%w: expected welcome, got %q", ErrProtocol, byte(f.kind))
	}
	_ = conn.SetDeadline(time.Time{})

	id, err := uuid.FromBytes(f.payload)
	if err != nil {
		conn.Close()
		return nil, err
	}
	c := newTCPComm(rank, size, id)
	c.peers = make([]*peer, 1)
	c.start(&peer{rank: Coordinator, conn: conn, br: br})
	return c, nil
}
