package world

import (
	"github.com/energizer-project/lupackets/internal/layout"
	"github.com/energizer-project/lupackets/internal/lu/chat"
	"github.com/energizer-project/lupackets/internal/lu/common"
	"github.com/energizer-project/lupackets/internal/lu/envelope"
	"github.com/energizer-project/lupackets/internal/wire"
)

// Server-received world message ids.
const (
	IDClientValidation        uint32 = 1
	IDCharacterListRequest    uint32 = 2
	IDCharacterCreateRequest  uint32 = 3
	IDCharacterLoginRequest   uint32 = 4
	IDServerGameMessage       uint32 = 5
	IDCharacterDeleteRequest  uint32 = 6
	IDGeneralChatMessage      uint32 = 14
	IDLevelLoadComplete       uint32 = 19
	IDRouteMessage            uint32 = 21
	IDStringCheck             uint32 = 25
	IDRequestFreeTrialRefresh uint32 = 32
	IDUgcDownloadFailed       uint32 = 120
)

// WorldMessage is a message received by a world server.
type WorldMessage interface {
	isWorldMessage()
}

// ClientValidation authenticates the connection with the session key handed
// out by the auth server.
type ClientValidation struct {
	Username    string   `json:"username"`
	SessionKey  string   `json:"session_key"`
	FdbChecksum [32]byte `json:"fdb_checksum"`
}

// CharacterListRequest asks for the account's characters.
type CharacterListRequest struct{}

// CharacterCreateRequest asks for a new character.
type CharacterCreateRequest struct {
	CharName      string    `json:"char_name"`
	PredefNameIDs [3]uint32 `json:"predef_name_ids"`
	ShirtColor    uint32    `json:"shirt_color"`
	PantsColor    uint32    `json:"pants_color"`
	HairStyle     uint32    `json:"hair_style"`
	HairColor     uint32    `json:"hair_color"`
	EyebrowStyle  uint32    `json:"eyebrow_style"`
	EyeStyle      uint32    `json:"eye_style"`
	MouthStyle    uint32    `json:"mouth_style"`
}

// CharacterLoginRequest selects the character to play.
type CharacterLoginRequest struct {
	CharID common.ObjID `json:"char_id"`
}

// CharacterDeleteRequest deletes one of the account's characters.
type CharacterDeleteRequest struct {
	CharID common.ObjID `json:"char_id"`
}

// GeneralChatMessage has the chat service layout.
type GeneralChatMessage chat.GeneralChatMessage

// LevelLoadComplete reports that the zone from LoadStaticZone finished
// loading.
type LevelLoadComplete struct {
	ZoneID common.ZoneID `json:"zone_id"`
}

// RouteTarget is a destination of a RouteMessage.
type RouteTarget interface {
	isRouteTarget()
}

// ChatRoute forwards a chat service message.
type ChatRoute struct {
	Message chat.Message `json:"message"`
}

func (ChatRoute) isRouteTarget() {}

// RouteMessage asks the world server to forward a message to another
// service on the client's behalf.
type RouteMessage struct {
	Target RouteTarget `json:"target"`
}

// StringCheck asks whether a chat line passes moderation. Unlike
// GeneralChatMessage its length prefix excludes the terminator, and no
// terminator is sent.
type StringCheck struct {
	ChatMode      uint8  `json:"chat_mode"`
	ChatChannel   uint8  `json:"chat_channel"`
	RecipientName string `json:"recipient_name"`
	String        string `json:"string"`
}

// RequestFreeTrialRefresh asks for the current free trial status.
type RequestFreeTrialRefresh struct{}

// UgcResType is the kind of user generated content resource.
type UgcResType uint32

const (
	UgcLxfml UgcResType = iota
	UgcNif
	UgcHkx
	UgcDds
)

// UgcDownloadFailed reports a failed download of a user generated model.
type UgcDownloadFailed struct {
	ResType     UgcResType   `json:"res_type"`
	BlueprintID common.ObjID `json:"blueprint_id"`
	StatusCode  uint32       `json:"status_code"`
	CharID      common.ObjID `json:"char_id"`
}

func (ClientValidation) isWorldMessage()        {}
func (CharacterListRequest) isWorldMessage()    {}
func (CharacterCreateRequest) isWorldMessage()  {}
func (CharacterLoginRequest) isWorldMessage()   {}
func (ServerGameMessage) isWorldMessage()       {}
func (CharacterDeleteRequest) isWorldMessage()  {}
func (GeneralChatMessage) isWorldMessage()      {}
func (LevelLoadComplete) isWorldMessage()       {}
func (RouteMessage) isWorldMessage()            {}
func (StringCheck) isWorldMessage()             {}
func (RequestFreeTrialRefresh) isWorldMessage() {}
func (UgcDownloadFailed) isWorldMessage()       {}

var (
	clientValidationCodec = layout.NewStruct("ClientValidation",
		layout.Value("username", common.WideString33, func(m *ClientValidation) *string { return &m.Username }),
		layout.Value("session_key", common.WideString33, func(m *ClientValidation) *string { return &m.SessionKey }),
		layout.Value("fdb_checksum", layout.Array32(), func(m *ClientValidation) *[32]byte { return &m.FdbChecksum }),
		// the client sends the checksum as a 33 byte C string
		layout.Reserved[ClientValidation]("checksum_terminator", 1),
	)

	characterCreateRequestCodec = layout.NewStruct("CharacterCreateRequest",
		layout.Value("char_name", common.WideString33, func(m *CharacterCreateRequest) *string { return &m.CharName }),
		layout.Value("predef_name_id_1", wire.Uint32, func(m *CharacterCreateRequest) *uint32 { return &m.PredefNameIDs[0] }),
		layout.Value("predef_name_id_2", wire.Uint32, func(m *CharacterCreateRequest) *uint32 { return &m.PredefNameIDs[1] }),
		layout.Value("predef_name_id_3", wire.Uint32, func(m *CharacterCreateRequest) *uint32 { return &m.PredefNameIDs[2] }),
		layout.Pad[CharacterCreateRequest](1),
		layout.Pad[CharacterCreateRequest](4),
		layout.Pad[CharacterCreateRequest](4),
		layout.Value("shirt_color", wire.Uint32, func(m *CharacterCreateRequest) *uint32 { return &m.ShirtColor }),
		layout.Pad[CharacterCreateRequest](4),
		layout.Value("pants_color", wire.Uint32, func(m *CharacterCreateRequest) *uint32 { return &m.PantsColor }),
		layout.Value("hair_style", wire.Uint32, func(m *CharacterCreateRequest) *uint32 { return &m.HairStyle }),
		layout.Value("hair_color", wire.Uint32, func(m *CharacterCreateRequest) *uint32 { return &m.HairColor }),
		layout.Pad[CharacterCreateRequest](4),
		layout.Pad[CharacterCreateRequest](4),
		layout.Value("eyebrow_style", wire.Uint32, func(m *CharacterCreateRequest) *uint32 { return &m.EyebrowStyle }),
		layout.Value("eye_style", wire.Uint32, func(m *CharacterCreateRequest) *uint32 { return &m.EyeStyle }),
		layout.Value("mouth_style", wire.Uint32, func(m *CharacterCreateRequest) *uint32 { return &m.MouthStyle }),
		layout.Pad[CharacterCreateRequest](1),
	)

	characterLoginRequestCodec = layout.NewStruct("CharacterLoginRequest",
		layout.Value("char_id", common.ObjIDCodec, func(m *CharacterLoginRequest) *common.ObjID { return &m.CharID }),
	)

	characterDeleteRequestCodec = layout.NewStruct("CharacterDeleteRequest",
		layout.Value("char_id", common.ObjIDCodec, func(m *CharacterDeleteRequest) *common.ObjID { return &m.CharID }),
	)

	generalChatMessageCodec = layout.Map(chat.GeneralChatMessageCodec,
		func(m chat.GeneralChatMessage) GeneralChatMessage { return GeneralChatMessage(m) },
		func(m GeneralChatMessage) chat.GeneralChatMessage { return chat.GeneralChatMessage(m) })

	levelLoadCompleteCodec = layout.NewStruct("LevelLoadComplete",
		layout.Value("zone_id", common.ZoneIDCodec, func(m *LevelLoadComplete) *common.ZoneID { return &m.ZoneID }),
	)

	// RouteTargets is the destination union of RouteMessage.
	RouteTargets = layout.NewUnion(envelope.TargetSpec("RouteTarget"),
		envelope.RouteTo[RouteTarget](common.ServiceChat, chat.Messages,
			func(m chat.Message) ChatRoute { return ChatRoute{Message: m} },
			func(r ChatRoute) chat.Message { return r.Message }),
	)

	routeMessageCodec = layout.Map(envelope.RouteCodec[RouteTarget](RouteTargets),
		func(t RouteTarget) RouteMessage { return RouteMessage{Target: t} },
		func(m RouteMessage) RouteTarget { return m.Target })

	stringCheckCodec = layout.NewStruct("StringCheck",
		layout.Value("chat_mode", wire.Uint8, func(m *StringCheck) *uint8 { return &m.ChatMode }),
		layout.Value("chat_channel", wire.Uint8, func(m *StringCheck) *uint8 { return &m.ChatChannel }),
		layout.Value("recipient_name", common.WideString42, func(m *StringCheck) *string { return &m.RecipientName }),
		layout.Value("string", wire.VarWideString(wire.Width16, wire.Exclusive), func(m *StringCheck) *string { return &m.String }),
	)

	ugcResTypeCodec = layout.Enum("UgcResType", wire.Width32, UgcLxfml, UgcNif, UgcHkx, UgcDds)

	ugcDownloadFailedCodec = layout.NewStruct("UgcDownloadFailed",
		layout.Value("res_type", ugcResTypeCodec, func(m *UgcDownloadFailed) *UgcResType { return &m.ResType }),
		layout.Value("blueprint_id", common.ObjIDCodec, func(m *UgcDownloadFailed) *common.ObjID { return &m.BlueprintID }),
		layout.Value("status_code", wire.Uint32, func(m *UgcDownloadFailed) *uint32 { return &m.StatusCode }),
		layout.Value("char_id", common.ObjIDCodec, func(m *UgcDownloadFailed) *common.ObjID { return &m.CharID }),
	)
)

// WorldMessages is the server-received world catalog.
var WorldMessages = layout.NewUnion(layout.UnionSpec{Name: "WorldMessage", Width: wire.Width32, Padding: 1},
	layout.Case[WorldMessage](IDClientValidation, "ClientValidation", clientValidationCodec),
	layout.Case[WorldMessage](IDCharacterListRequest, "CharacterListRequest", layout.Empty[CharacterListRequest]()),
	layout.Case[WorldMessage](IDCharacterCreateRequest, "CharacterCreateRequest", characterCreateRequestCodec),
	layout.Case[WorldMessage](IDCharacterLoginRequest, "CharacterLoginRequest", characterLoginRequestCodec),
	layout.Case[WorldMessage](IDServerGameMessage, "SubjectGameMessage", serverGameMessageCodec),
	layout.Case[WorldMessage](IDCharacterDeleteRequest, "CharacterDeleteRequest", characterDeleteRequestCodec),
	layout.Case[WorldMessage](IDGeneralChatMessage, "GeneralChatMessage", generalChatMessageCodec),
	layout.Case[WorldMessage](IDLevelLoadComplete, "LevelLoadComplete", levelLoadCompleteCodec),
	layout.Case[WorldMessage](IDRouteMessage, "RouteMessage", routeMessageCodec),
	layout.Case[WorldMessage](IDStringCheck, "StringCheck", stringCheckCodec),
	layout.Case[WorldMessage](IDRequestFreeTrialRefresh, "RequestFreeTrialRefresh", layout.Empty[RequestFreeTrialRefresh]()),
	layout.Case[WorldMessage](IDUgcDownloadFailed, "UgcDownloadFailed", ugcDownloadFailedCodec),
)
