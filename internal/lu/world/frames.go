package world

import (
	"github.com/energizer-project/lupackets/internal/layout"
	"github.com/energizer-project/lupackets/internal/lu/chat"
	"github.com/energizer-project/lupackets/internal/lu/common"
	"github.com/energizer-project/lupackets/internal/lu/envelope"
	"github.com/energizer-project/lupackets/internal/lu/general"
	"github.com/energizer-project/lupackets/internal/lu/raknet"
)

var (
	// ClientEnvelope is the LU envelope of client-received user messages.
	ClientEnvelope = envelope.NewCodec[ClientMessage]("LuClientMessage",
		general.ClientMessages, common.ServiceClient, ClientMessages)

	// ServerEnvelope is the LU envelope of messages received by a world
	// server.
	ServerEnvelope = envelope.NewCodec[WorldMessage]("LuServerMessage",
		general.ServerMessages, common.ServiceWorld, WorldMessages)

	// ClientFrames decodes complete frames received by a client.
	ClientFrames = raknet.ClientCodec[envelope.Message](ClientEnvelope)

	// ServerFrames decodes complete frames received by a world server.
	ServerFrames = raknet.ServerCodec[envelope.Message](ServerEnvelope)
)

// NewClientFrame wraps a world message for sending to a client.
func NewClientFrame(m ClientMessage) raknet.ClientMessage {
	return raknet.UserMessage[envelope.Message]{Message: envelope.Subsystem[ClientMessage]{Message: m}}
}

// NewServerFrame wraps a world message for sending to a world server.
func NewServerFrame(m WorldMessage) raknet.ServerMessage {
	return raknet.UserMessage[envelope.Message]{Message: envelope.Subsystem[WorldMessage]{Message: m}}
}

// NewGeneralClientFrame wraps a general service message for a client.
func NewGeneralClientFrame(m general.Message) raknet.ClientMessage {
	return raknet.UserMessage[envelope.Message]{Message: envelope.General{Message: m}}
}

// NewGeneralServerFrame wraps a general service message for a server.
func NewGeneralServerFrame(m general.Message) raknet.ServerMessage {
	return raknet.UserMessage[envelope.Message]{Message: envelope.General{Message: m}}
}

// NewChatRoute builds the RouteMessage that forwards m to the chat server.
func NewChatRoute(m chat.Message) RouteMessage {
	return RouteMessage{Target: ChatRoute{Message: m}}
}

// ClientMessageOf unwraps the world message carried by a client frame.
func ClientMessageOf(f raknet.ClientMessage) (ClientMessage, bool) {
	u, ok := f.(raknet.UserMessage[envelope.Message])
	if !ok {
		return nil, false
	}
	s, ok := u.Message.(envelope.Subsystem[ClientMessage])
	if !ok {
		return nil, false
	}
	return s.Message, true
}

// WorldMessageOf unwraps the world message carried by a server frame.
func WorldMessageOf(f raknet.ServerMessage) (WorldMessage, bool) {
	u, ok := f.(raknet.UserMessage[envelope.Message])
	if !ok {
		return nil, false
	}
	s, ok := u.Message.(envelope.Subsystem[WorldMessage])
	if !ok {
		return nil, false
	}
	return s.Message, true
}

// DecodeClientFrame decodes one client-received frame.
func DecodeClientFrame(frame []byte) (raknet.ClientMessage, error) {
	return layout.DecodeFrame[raknet.ClientMessage](ClientFrames, frame)
}

// DecodeServerFrame decodes one server-received frame.
func DecodeServerFrame(frame []byte) (raknet.ServerMessage, error) {
	return layout.DecodeFrame[raknet.ServerMessage](ServerFrames, frame)
}

// EncodeClientFrame encodes one client-received frame.
func EncodeClientFrame(f raknet.ClientMessage) ([]byte, error) {
	return layout.EncodeFrame[raknet.ClientMessage](ClientFrames, f)
}

// EncodeServerFrame encodes one server-received frame.
func EncodeServerFrame(f raknet.ServerMessage) ([]byte, error) {
	return layout.EncodeFrame[raknet.ServerMessage](ServerFrames, f)
}
