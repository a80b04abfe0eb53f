// Package raknet describes the transport frames that carry LU messages. Only
// the frame identifier and the few connection-level messages that reach the
// application are decoded here; reliability and ordering stay with the
// transport.
package raknet

import (
	"github.com/energizer-project/lupackets/internal/layout"
	"github.com/energizer-project/lupackets/internal/wire"
)

// Frame identifiers.
const (
	IDInternalPing              uint32 = 0
	IDConnectedPong             uint32 = 3
	IDConnectionRequest         uint32 = 4
	IDConnectionRequestAccepted uint32 = 14
	IDNewIncomingConnection     uint32 = 17
	IDDisconnectionNotification uint32 = 19
	IDUserMessage               uint32 = 83
)

// ClientMessage is a frame received by a client.
type ClientMessage interface {
	isClientMessage()
}

// ServerMessage is a frame received by a server.
type ServerMessage interface {
	isServerMessage()
}

// UserMessage carries an LU envelope.
type UserMessage[U any] struct {
	Message U `json:"message"`
}

func (UserMessage[U]) isClientMessage() {}
func (UserMessage[U]) isServerMessage() {}

// InternalPing is a server-received keepalive.
type InternalPing struct {
	SendTime uint32 `json:"send_time"`
}

// ConnectedPong answers an InternalPing.
type ConnectedPong struct {
	PingSendTime uint32 `json:"ping_send_time"`
	PongSendTime uint32 `json:"pong_send_time"`
}

// ConnectionRequest opens a connection; the rest of the frame is the password.
type ConnectionRequest struct {
	Password []byte `json:"password"`
}

// ConnectionRequestAccepted confirms a ConnectionRequest.
type ConnectionRequestAccepted struct {
	PeerIP    uint32 `json:"peer_ip"`
	PeerPort  uint16 `json:"peer_port"`
	LocalIP   uint32 `json:"local_ip"`
	LocalPort uint16 `json:"local_port"`
}

// NewIncomingConnection is the client's acknowledgement of acceptance.
type NewIncomingConnection struct {
	PeerIP    uint32 `json:"peer_ip"`
	PeerPort  uint16 `json:"peer_port"`
	LocalIP   uint32 `json:"local_ip"`
	LocalPort uint16 `json:"local_port"`
}

// DisconnectionNotification closes the connection. It has no payload.
type DisconnectionNotification struct{}

func (InternalPing) isServerMessage()              {}
func (ConnectionRequest) isServerMessage()         {}
func (NewIncomingConnection) isServerMessage()     {}
func (ConnectedPong) isClientMessage()             {}
func (ConnectionRequestAccepted) isClientMessage() {}
func (DisconnectionNotification) isClientMessage() {}
func (DisconnectionNotification) isServerMessage() {}

var (
	internalPingCodec = layout.NewStruct("InternalPing",
		layout.Value("send_time", wire.Uint32, func(m *InternalPing) *uint32 { return &m.SendTime }),
	)

	connectedPongCodec = layout.NewStruct("ConnectedPong",
		layout.Value("ping_send_time", wire.Uint32, func(m *ConnectedPong) *uint32 { return &m.PingSendTime }),
		layout.Value("pong_send_time", wire.Uint32, func(m *ConnectedPong) *uint32 { return &m.PongSendTime }),
	)

	connectionRequestCodec = layout.NewStruct("ConnectionRequest",
		layout.Value("password", wire.Remaining, func(m *ConnectionRequest) *[]byte { return &m.Password }),
	)

	connectionRequestAcceptedCodec = layout.NewStruct("ConnectionRequestAccepted",
		layout.Value("peer_ip", wire.Uint32, func(m *ConnectionRequestAccepted) *uint32 { return &m.PeerIP }),
		layout.Value("peer_port", wire.Uint16, func(m *ConnectionRequestAccepted) *uint16 { return &m.PeerPort }),
		layout.Pad[ConnectionRequestAccepted](2), // system index
		layout.Value("local_ip", wire.Uint32, func(m *ConnectionRequestAccepted) *uint32 { return &m.LocalIP }),
		layout.Value("local_port", wire.Uint16, func(m *ConnectionRequestAccepted) *uint16 { return &m.LocalPort }),
	)

	newIncomingConnectionCodec = layout.NewStruct("NewIncomingConnection",
		layout.Value("peer_ip", wire.Uint32, func(m *NewIncomingConnection) *uint32 { return &m.PeerIP }),
		layout.Value("peer_port", wire.Uint16, func(m *NewIncomingConnection) *uint16 { return &m.PeerPort }),
		layout.Value("local_ip", wire.Uint32, func(m *NewIncomingConnection) *uint32 { return &m.LocalIP }),
		layout.Value("local_port", wire.Uint16, func(m *NewIncomingConnection) *uint16 { return &m.LocalPort }),
	)
)

func userMessageCodec[U any](user wire.Codec[U]) wire.Codec[UserMessage[U]] {
	return layout.Map(user,
		func(u U) UserMessage[U] { return UserMessage[U]{Message: u} },
		func(m UserMessage[U]) U { return m.Message })
}

// ClientCodec builds the client-received frame union around an LU envelope
// codec.
func ClientCodec[U any](user wire.Codec[U]) *layout.Union[ClientMessage] {
	return layout.NewUnion(layout.UnionSpec{Name: "RakNetClientMessage", Width: wire.Width8},
		layout.Case[ClientMessage](IDConnectedPong, "ConnectedPong", connectedPongCodec),
		layout.Case[ClientMessage](IDConnectionRequestAccepted, "ConnectionRequestAccepted", connectionRequestAcceptedCodec),
		layout.Case[ClientMessage](IDDisconnectionNotification, "DisconnectionNotification", layout.Empty[DisconnectionNotification]()),
		layout.Case[ClientMessage](IDUserMessage, "UserMessage", userMessageCodec(user)),
	)
}

// ServerCodec builds the server-received frame union around an LU envelope
// codec.
func ServerCodec[U any](user wire.Codec[U]) *layout.Union[ServerMessage] {
	return layout.NewUnion(layout.UnionSpec{Name: "RakNetServerMessage", Width: wire.Width8},
		layout.Case[ServerMessage](IDInternalPing, "InternalPing", internalPingCodec),
		layout.Case[ServerMessage](IDConnectionRequest, "ConnectionRequest", connectionRequestCodec),
		layout.Case[ServerMessage](IDNewIncomingConnection, "NewIncomingConnection", newIncomingConnectionCodec),
		layout.Case[ServerMessage](IDDisconnectionNotification, "DisconnectionNotification", layout.Empty[DisconnectionNotification]()),
		layout.Case[ServerMessage](IDUserMessage, "UserMessage", userMessageCodec(user)),
	)
}
