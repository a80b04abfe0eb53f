package world

import (
	"github.com/energizer-project/lupackets/internal/layout"
	"github.com/energizer-project/lupackets/internal/lu/common"
	"github.com/energizer-project/lupackets/internal/wire"
)

// Game message ids. Game messages address one object and use a u16 id with
// no padding.
const (
	GMPlayerLoaded                uint32 = 505
	GMPlayerReady                 uint32 = 509
	GMReadyForUpdates             uint32 = 888
	GMRestoreToPostLoadStats      uint32 = 1468
	GMServerDoneLoadingAllObjects uint32 = 1642
)

// ClientGM is a game message received by a client.
type ClientGM interface {
	isClientGM()
}

// ServerGM is a game message received by a world server.
type ServerGM interface {
	isServerGM()
}

// PlayerReady is sent both ways once the player object is set up.
type PlayerReady struct{}

// RestoreToPostLoadStats tells the client to apply its saved stats.
type RestoreToPostLoadStats struct{}

// ServerDoneLoadingAllObjects ends the initial object burst.
type ServerDoneLoadingAllObjects struct{}

// PlayerLoaded reports that the client created the player object.
type PlayerLoaded struct {
	PlayerID common.ObjID `json:"player_id"`
}

// ReadyForUpdates reports that the client can receive updates for an object.
type ReadyForUpdates struct {
	ObjectID common.ObjID `json:"object_id"`
}

func (PlayerReady) isClientGM()                 {}
func (PlayerReady) isServerGM()                 {}
func (RestoreToPostLoadStats) isClientGM()      {}
func (ServerDoneLoadingAllObjects) isClientGM() {}
func (PlayerLoaded) isServerGM()                {}
func (ReadyForUpdates) isServerGM()             {}

// ClientGameMessage is the client-received SubjectGameMessage.
type ClientGameMessage struct {
	Subject common.ObjID `json:"subject"`
	Message ClientGM     `json:"message"`
}

// ServerGameMessage is the server-received SubjectGameMessage.
type ServerGameMessage struct {
	Subject common.ObjID `json:"subject"`
	Message ServerGM     `json:"message"`
}

func gmSpec(name string) layout.UnionSpec {
	return layout.UnionSpec{Name: name, Width: wire.Width16}
}

var (
	// ClientGMs is the client-received game message catalog.
	ClientGMs = layout.NewUnion(gmSpec("ClientGameMessage"),
		layout.Case[ClientGM](GMPlayerReady, "PlayerReady", layout.Empty[PlayerReady]()),
		layout.Case[ClientGM](GMRestoreToPostLoadStats, "RestoreToPostLoadStats", layout.Empty[RestoreToPostLoadStats]()),
		layout.Case[ClientGM](GMServerDoneLoadingAllObjects, "ServerDoneLoadingAllObjects", layout.Empty[ServerDoneLoadingAllObjects]()),
	)

	// ServerGMs is the server-received game message catalog.
	ServerGMs = layout.NewUnion(gmSpec("ServerGameMessage"),
		layout.Case[ServerGM](GMPlayerLoaded, "PlayerLoaded", layout.NewStruct("PlayerLoaded",
			layout.Value("player_id", common.ObjIDCodec, func(m *PlayerLoaded) *common.ObjID { return &m.PlayerID }),
		)),
		layout.Case[ServerGM](GMPlayerReady, "PlayerReady", layout.Empty[PlayerReady]()),
		layout.Case[ServerGM](GMReadyForUpdates, "ReadyForUpdates", layout.NewStruct("ReadyForUpdates",
			layout.Value("object_id", common.ObjIDCodec, func(m *ReadyForUpdates) *common.ObjID { return &m.ObjectID }),
		)),
	)

	clientGameMessageCodec = layout.NewStruct("SubjectGameMessage",
		layout.Value("subject", common.ObjIDCodec, func(m *ClientGameMessage) *common.ObjID { return &m.Subject }),
		layout.Value[ClientGameMessage, ClientGM]("message", ClientGMs, func(m *ClientGameMessage) *ClientGM { return &m.Message }),
	)

	serverGameMessageCodec = layout.NewStruct("SubjectGameMessage",
		layout.Value("subject", common.ObjIDCodec, func(m *ServerGameMessage) *common.ObjID { return &m.Subject }),
		layout.Value[ServerGameMessage, ServerGM]("message", ServerGMs, func(m *ServerGameMessage) *ServerGM { return &m.Message }),
	)
)
