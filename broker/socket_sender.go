package broker

import (
	"fmt"

	"code.helixprotocol.io/helix/events"
	"code.helixprotocol.io/helix/logging"

	"go.nanomsg.org/mangos/v3/protocol"
	"go.nanomsg.org/mangos/v3/protocol/push"
	_ "go.nanomsg.org/mangos/v3/transport/inproc"
	_ "go.nanomsg.org/mangos/v3/transport/tcp"
)

type streamable interface {
	StreamMessage() ([]byte, error)
}

// SocketSender streams events sent to this broker over a socket to a remote
// indexer. Events that do not implement a stream representation are skipped.
type SocketSender struct {
	log     *logging.Logger
	sock    protocol.Socket
	enabled bool
}

func NewSocketSender(log *logging.Logger, config *SocketConfig) (*SocketSender, error) {
	if !bool(config.Enabled) {
		return &SocketSender{}, nil
	}

	sock, err := push.NewSocket()
	if err != nil {
		return nil, fmt.Errorf("failed to create new socket: %w", err)
	}

	addr := fmt.Sprintf("%s://%s:%d", config.TransportType, config.Address, config.Port)
	if err := sock.Dial(addr); err != nil {
		return nil, fmt.Errorf("failed to connect to %v: %w", addr, err)
	}

	return &SocketSender{
		log:     log,
		sock:    sock,
		enabled: true,
	}, nil
}

func (s *SocketSender) Enabled() bool {
	return s.enabled
}

// SendEvent serializes an event and pushes it on the socket.
func (s *SocketSender) SendEvent(e events.Event) error {
	se, ok := e.(streamable)
	if !ok {
		return nil
	}
	buf, err := se.StreamMessage()
	if err != nil {
		return fmt.Errorf("failed to serialize event: %w", err)
	}
	return s.Send(buf)
}

func (s *SocketSender) Send(buf []byte) error {
	if err := s.sock.Send(buf); err != nil {
		return fmt.Errorf("failed to send on socket: %w", err)
	}
	return nil
}

func (s *SocketSender) Close() error {
	if !s.enabled {
		return nil
	}
	return s.sock.Close()
}
