package transport

import (
	"net"
	"time"

	"github.com/sirupsen/logrus"
)

// MaxPeers is the number of concurrent peer slots the server accepts,
// per spec.md §4.5.
const MaxPeers = 4

// OnMessage is invoked once per fully reassembled, application-level
// envelope received on any peer slot.
type OnMessage func(peerIdx int, charUUID uint16, payload []byte)

// OnConnect is invoked once per accepted peer, with the slot it was
// assigned.
type OnConnect func(peerIdx int)

// OnDisconnect is invoked exactly once per disconnect event.
type OnDisconnect func(peerIdx int)

type peerSlot struct {
	conn       net.Conn
	pending    []byte
	reassembly Reassembly
}

// Server is a cooperative, non-blocking TCP server accepting up to
// MaxPeers concurrent peers, implementing the framing, fragmentation,
// reassembly, ACK, and broadcast behavior of spec.md §4.5. It has no
// internal goroutines: Poll must be called once per main-loop iteration
// (spec.md §5 -- single-threaded cooperative scheduling).
type Server struct {
	listener net.Listener
	slots    [MaxPeers]*peerSlot
	running  bool

	OnMessage    OnMessage
	OnConnect    OnConnect
	OnDisconnect OnDisconnect

	onAck func(peerIdx int, ackID [8]byte)
}

// ErrPeerNotConnected is returned by Send when the targeted slot has no
// connected peer.
var ErrPeerNotConnected = errNotConnected{}

type errNotConnected struct{}

func (errNotConnected) Error() string { return "peer slot not connected" }

// NewServer constructs an unstarted Server.
func NewServer() *Server {
	return &Server{}
}

// Start binds a TCP listener on addr (e.g. ":33445"). It does not
// accept connections itself; Poll drives accept.
func (s *Server) Start(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.listener = ln
	s.running = true
	logrus.WithFields(logrus.Fields{
		"function": "Start",
		"package":  "transport",
		"addr":     ln.Addr().String(),
	}).Info("transport server listening")
	return nil
}

// Stop closes the listener and every connected peer socket and unsets
// the running flag. No callbacks fire after Stop returns, per spec.md
// §5.
func (s *Server) Stop() error {
	s.running = false
	var err error
	if s.listener != nil {
		err = s.listener.Close()
		s.listener = nil
	}
	for i, slot := range s.slots {
		if slot != nil {
			slot.conn.Close()
			s.slots[i] = nil
		}
	}
	return err
}

// ConnectedCount returns the number of currently connected peer slots.
func (s *Server) ConnectedCount() int {
	n := 0
	for _, slot := range s.slots {
		if slot != nil {
			n++
		}
	}
	return n
}

// Poll drains one round of non-blocking I/O: it accepts at most one new
// connection (closing it at once if no slot is free) and drains all available bytes from every
// connected peer, dispatching complete envelopes to OnMessage.
func (s *Server) Poll() {
	if !s.running {
		return
	}
	s.pollAccept()
	for i := range s.slots {
		s.pollSlot(i)
	}
}

func (s *Server) pollAccept() {
	type deadliner interface {
		SetDeadline(time.Time) error
	}
	if dl, ok := s.listener.(deadliner); ok {
		_ = dl.SetDeadline(time.Now().Add(time.Millisecond))
	}

	conn, err := s.listener.Accept()
	if err != nil {
		return
	}

	freeIdx := -1
	for i, slot := range s.slots {
		if slot == nil {
			freeIdx = i
			break
		}
	}
	if freeIdx == -1 {
		logrus.WithFields(logrus.Fields{
			"function": "pollAccept",
			"package":  "transport",
		}).Warn("no free peer slot, rejecting connection")
		conn.Close()
		return
	}

	s.slots[freeIdx] = &peerSlot{conn: conn}
	logrus.WithFields(logrus.Fields{
		"function":  "pollAccept",
		"package":   "transport",
		"peer_slot": freeIdx,
	}).Info("peer connected")
	if s.OnConnect != nil {
		s.OnConnect(freeIdx)
	}
}

func (s *Server) pollSlot(idx int) {
	slot := s.slots[idx]
	if slot == nil {
		return
	}

	buf := make([]byte, 4096)
	for {
		_ = slot.conn.SetReadDeadline(time.Now().Add(time.Millisecond))
		n, err := slot.conn.Read(buf)
		if n > 0 {
			slot.pending = append(slot.pending, buf[:n]...)
		}
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				break
			}
			s.disconnectSlot(idx)
			return
		}
		if n == 0 {
			break
		}
	}

	s.processPending(idx)
}

func (s *Server) processPending(idx int) {
	slot := s.slots[idx]
	if slot == nil {
		return
	}
	for {
		charUUID, payload, n, ok := TryDecodeFrame(slot.pending)
		if !ok {
			return
		}
		slot.pending = slot.pending[n:]

		frag, err := DecodeFragment(payload)
		if err != nil {
			continue
		}

		result := slot.reassembly.Feed(frag)
		if result.IsAck {
			if s.onAck != nil {
				s.onAck(idx, result.AckID)
			}
			continue
		}
		if result.Delivered != nil {
			ackID := AckID(result.Delivered)
			s.sendAck(idx, ackID)
			if s.OnMessage != nil {
				s.OnMessage(idx, charUUID, result.Delivered)
			}
		}
	}
}

func (s *Server) sendAck(idx int, ackID [8]byte) {
	frag := BuildAckFragment(ackID)
	frame := EncodeFrame(ChannelNotify, EncodeFragment(frag))
	slot := s.slots[idx]
	if slot == nil {
		return
	}
	if _, err := slot.conn.Write(frame); err != nil {
		s.disconnectSlot(idx)
	}
}

func (s *Server) disconnectSlot(idx int) {
	slot := s.slots[idx]
	if slot == nil {
		return
	}
	slot.conn.Close()
	s.slots[idx] = nil
	logrus.WithFields(logrus.Fields{
		"function":  "disconnectSlot",
		"package":   "transport",
		"peer_slot": idx,
	}).Info("peer disconnected")
	if s.OnDisconnect != nil {
		s.OnDisconnect(idx)
	}
}

// Send fragments payload and writes every fragment, wrapped in the outer
// frame, to the peer in slot idx. If any write fails the whole send
// fails and the peer is disconnected.
func (s *Server) Send(idx int, charUUID uint16, payload []byte) error {
	slot := s.slots[idx]
	if slot == nil {
		return ErrPeerNotConnected
	}

	frags, err := BuildFragments(payload)
	if err != nil {
		return err
	}
	for _, f := range frags {
		frame := EncodeFrame(charUUID, EncodeFragment(f))
		if _, err := slot.conn.Write(frame); err != nil {
			s.disconnectSlot(idx)
			return err
		}
	}
	return nil
}

// Broadcast sends payload on charUUID to every connected peer slot,
// tolerating per-slot failures (spec.md §4.5).
func (s *Server) Broadcast(charUUID uint16, payload []byte) {
	for i, slot := range s.slots {
		if slot == nil {
			continue
		}
		if err := s.Send(i, charUUID, payload); err != nil {
			logrus.WithFields(logrus.Fields{
				"function":  "Broadcast",
				"package":   "transport",
				"peer_slot": i,
				"error":     err.Error(),
			}).Warn("broadcast to peer failed")
		}
	}
}

// SetOnAck registers a callback invoked when an ACK fragment arrives on
// any peer slot, used to wire the outbox's dedup-by-ack-id removal.
func (s *Server) SetOnAck(cb func(peerIdx int, ackID [8]byte)) {
	s.onAck = cb
}
