// Package general implements the general service messages every LU server
// and client exchange regardless of subsystem.
package general

import (
	"github.com/energizer-project/lupackets/internal/layout"
	"github.com/energizer-project/lupackets/internal/lu/common"
	"github.com/energizer-project/lupackets/internal/wire"
)

// NetworkVersion is the protocol revision of the last released client.
const NetworkVersion uint32 = 171022

// Message ids of the general service.
const (
	IDHandshake        uint32 = 0
	IDDisconnectNotify uint32 = 1
)

// Message is a general service message.
type Message interface {
	isGeneralMessage()
}

// Handshake is sent by both sides after the transport connection opens.
type Handshake struct {
	NetworkVersion uint32           `json:"network_version"`
	ServiceID      common.ServiceID `json:"service_id"`
	ProcessID      uint32           `json:"process_id"`
	Port           uint16           `json:"port"`
}

// DisconnectNotify tells the client why the server is about to close the
// connection.
type DisconnectNotify struct {
	Reason DisconnectReason `json:"reason"`
}

func (Handshake) isGeneralMessage()        {}
func (DisconnectNotify) isGeneralMessage() {}

// DisconnectReason is the cause carried by DisconnectNotify.
type DisconnectReason uint32

const (
	ReasonUnknownServerError      DisconnectReason = 0
	ReasonDuplicateLogin          DisconnectReason = 4
	ReasonServerShutdown          DisconnectReason = 5
	ReasonServerMapLoadFailure    DisconnectReason = 6
	ReasonInvalidSessionKey       DisconnectReason = 7
	ReasonAccountNotInPendingList DisconnectReason = 8
	ReasonCharacterNotFound       DisconnectReason = 9
	ReasonCharacterCorruption     DisconnectReason = 10
	ReasonKick                    DisconnectReason = 11
	ReasonFreeTrialExpired        DisconnectReason = 13
	ReasonPlayScheduleTimeDone    DisconnectReason = 14
)

var (
	handshakeCodec = layout.NewStruct("Handshake",
		layout.Value("network_version", wire.Uint32, func(m *Handshake) *uint32 { return &m.NetworkVersion }),
		layout.Pad[Handshake](4),
		layout.Value("service_id", common.ServiceIDCodec, func(m *Handshake) *common.ServiceID { return &m.ServiceID }),
		layout.Pad[Handshake](2),
		layout.Value("process_id", wire.Uint32, func(m *Handshake) *uint32 { return &m.ProcessID }),
		layout.Value("port", wire.Uint16, func(m *Handshake) *uint16 { return &m.Port }),
		layout.Pad[Handshake](33),
	)

	disconnectReasonCodec = layout.Enum("DisconnectReason", wire.Width32,
		ReasonUnknownServerError, ReasonDuplicateLogin, ReasonServerShutdown,
		ReasonServerMapLoadFailure, ReasonInvalidSessionKey, ReasonAccountNotInPendingList,
		ReasonCharacterNotFound, ReasonCharacterCorruption, ReasonKick,
		ReasonFreeTrialExpired, ReasonPlayScheduleTimeDone)

	disconnectNotifyCodec = layout.NewStruct("DisconnectNotify",
		layout.Value("reason", disconnectReasonCodec, func(m *DisconnectNotify) *DisconnectReason { return &m.Reason }),
	)
)

var spec = layout.UnionSpec{Name: "GeneralMessage", Width: wire.Width32, Padding: 1}

// ClientMessages is the client-received general service catalog.
var ClientMessages = layout.NewUnion(spec,
	layout.Case[Message](IDHandshake, "Handshake", handshakeCodec),
	layout.Case[Message](IDDisconnectNotify, "DisconnectNotify", disconnectNotifyCodec),
)

// ServerMessages is the server-received general service catalog.
var ServerMessages = layout.NewUnion(spec,
	layout.Case[Message](IDHandshake, "Handshake", handshakeCodec),
)
