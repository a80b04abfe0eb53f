// Package world holds the world server catalogs: the messages a world server
// sends to the client, the messages it accepts, and the transport frames
// that carry both.
package world

import (
	"github.com/energizer-project/lupackets/internal/layout"
	"github.com/energizer-project/lupackets/internal/lu/common"
	"github.com/energizer-project/lupackets/internal/wire"
)

// Client-received world message ids.
const (
	IDLoadStaticZone                 uint32 = 2
	IDCreateCharacter                uint32 = 4
	IDCharacterListResponse          uint32 = 6
	IDCharacterCreateResponse        uint32 = 7
	IDCharacterDeleteResponse        uint32 = 11
	IDClientGameMessage              uint32 = 12
	IDTransferToWorld                uint32 = 14
	IDBlueprintLoadItemResponse      uint32 = 23
	IDAddFriendRequest               uint32 = 27
	IDTeamInvite                     uint32 = 35
	IDMinimumChatModeResponse        uint32 = 57
	IDMinimumChatModeResponsePrivate uint32 = 58
	IDUpdateFreeTrialStatus          uint32 = 62
)

// MaxCharacters is the number of characters the client can list. The codec
// does not enforce it.
const MaxCharacters = 4

// ClientMessage is a world message received by the client.
type ClientMessage interface {
	isClientMessage()
}

// InstanceType is the kind of zone instance being loaded.
type InstanceType uint32

const (
	InstancePublic InstanceType = iota
	InstanceSingle
	InstanceTeam
	InstanceGuild
	InstanceMatch
)

// LoadStaticZone tells the client which zone to load.
type LoadStaticZone struct {
	ZoneID         common.ZoneID  `json:"zone_id"`
	MapChecksum    uint32         `json:"map_checksum"`
	PlayerPosition common.Vector3 `json:"player_position"`
	InstanceType   InstanceType   `json:"instance_type"`
}

// CreateCharacter creates the player object from its LDF description.
type CreateCharacter struct {
	Data common.LuNameValue `json:"data"`
}

// CharListChar is one entry of the character selection screen.
type CharListChar struct {
	ObjID          common.ObjID  `json:"obj_id"`
	CharName       string        `json:"char_name"`
	PendingName    string        `json:"pending_name"`
	RequiresRename bool          `json:"requires_rename"`
	IsFreeTrial    bool          `json:"is_free_trial"`
	TorsoColor     uint32        `json:"torso_color"`
	LegsColor      uint32        `json:"legs_color"`
	HairStyle      uint32        `json:"hair_style"`
	HairColor      uint32        `json:"hair_color"`
	EyebrowStyle   uint32        `json:"eyebrow_style"`
	EyeStyle       uint32        `json:"eye_style"`
	MouthStyle     uint32        `json:"mouth_style"`
	LastLocation   common.ZoneID `json:"last_location"`
	EquippedItems  []common.Lot  `json:"equipped_items"`
}

// CharacterListResponse lists the account's characters. On the wire the
// character count comes before SelectedChar.
type CharacterListResponse struct {
	SelectedChar uint8          `json:"selected_char"`
	CharList     []CharListChar `json:"char_list"`
}

// CharacterCreateResponse is the result of a CharacterCreateRequest.
type CharacterCreateResponse uint8

const (
	CharacterCreateSuccess CharacterCreateResponse = iota
	CharacterCreateGeneralFailure
	CharacterCreateNameNotAllowed
	CharacterCreatePredefinedNameInUse
	CharacterCreateCustomNameInUse
)

// CharacterDeleteResponse is the result of a CharacterDeleteRequest.
type CharacterDeleteResponse struct {
	Success bool `json:"success"`
}

// TransferToWorld redirects the client to another world server.
type TransferToWorld struct {
	RedirectIP            string `json:"redirect_ip"`
	RedirectPort          uint16 `json:"redirect_port"`
	IsMaintenanceTransfer bool   `json:"is_maintenance_transfer"`
}

// BlueprintLoadItemResponse answers a request to load a saved model.
type BlueprintLoadItemResponse struct {
	Success    bool         `json:"success"`
	ItemID     common.ObjID `json:"item_id"`
	DestItemID common.ObjID `json:"dest_item_id"`
}

// AddFriendRequest forwards a friend request to its recipient.
type AddFriendRequest struct {
	SenderName          string `json:"sender_name"`
	IsBestFriendRequest bool   `json:"is_best_friend_request"`
}

// TeamInvite forwards a team invitation to its recipient.
type TeamInvite struct {
	SenderName string       `json:"sender_name"`
	SenderID   common.ObjID `json:"sender_id"`
}

// MinimumChatModeResponse answers a public StringCheck.
type MinimumChatModeResponse struct {
	ChatMode    uint8 `json:"chat_mode"`
	ChatChannel uint8 `json:"chat_channel"`
}

// MinimumChatModeResponsePrivate answers a StringCheck addressed to a player.
type MinimumChatModeResponsePrivate struct {
	ChatMode         uint8  `json:"chat_mode"`
	ChatChannel      uint8  `json:"chat_channel"`
	RecipientName    string `json:"recipient_name"`
	RecipientGMLevel uint8  `json:"recipient_gm_level"`
}

// UpdateFreeTrialStatus answers a RequestFreeTrialRefresh.
type UpdateFreeTrialStatus struct {
	IsFreeTrial bool `json:"is_free_trial"`
}

// UnknownClientMessage is a message id this package does not know. Pad holds
// the padding byte after the id and Raw everything after it, so the message
// can be written back unchanged.
type UnknownClientMessage struct {
	ID  uint32 `json:"id"`
	Pad []byte `json:"pad,omitempty"`
	Raw []byte `json:"raw"`
}

// Discriminant implements layout.Raw.
func (m UnknownClientMessage) Discriminant() uint32 { return m.ID }

// RawPadding implements layout.Raw.
func (m UnknownClientMessage) RawPadding() []byte { return m.Pad }

// RawPayload implements layout.Raw.
func (m UnknownClientMessage) RawPayload() []byte { return m.Raw }

func (LoadStaticZone) isClientMessage()                 {}
func (CreateCharacter) isClientMessage()                {}
func (CharacterListResponse) isClientMessage()          {}
func (CharacterCreateResponse) isClientMessage()        {}
func (CharacterDeleteResponse) isClientMessage()        {}
func (ClientGameMessage) isClientMessage()              {}
func (TransferToWorld) isClientMessage()                {}
func (BlueprintLoadItemResponse) isClientMessage()      {}
func (AddFriendRequest) isClientMessage()               {}
func (TeamInvite) isClientMessage()                     {}
func (MinimumChatModeResponse) isClientMessage()        {}
func (MinimumChatModeResponsePrivate) isClientMessage() {}
func (UpdateFreeTrialStatus) isClientMessage()          {}
func (UnknownClientMessage) isClientMessage()           {}

var (
	instanceTypeCodec = layout.Enum("InstanceType", wire.Width32,
		InstancePublic, InstanceSingle, InstanceTeam, InstanceGuild, InstanceMatch)

	loadStaticZoneCodec = layout.NewStruct("LoadStaticZone",
		layout.Value("zone_id", common.ZoneIDCodec, func(m *LoadStaticZone) *common.ZoneID { return &m.ZoneID }),
		layout.Value("map_checksum", wire.Uint32, func(m *LoadStaticZone) *uint32 { return &m.MapChecksum }),
		layout.Reserved[LoadStaticZone]("editor_enabled", 1),
		layout.Reserved[LoadStaticZone]("editor_level", 1),
		layout.Value("player_position", common.Vector3Codec, func(m *LoadStaticZone) *common.Vector3 { return &m.PlayerPosition }),
		layout.Value("instance_type", instanceTypeCodec, func(m *LoadStaticZone) *InstanceType { return &m.InstanceType }),
	)

	createCharacterCodec = layout.NewStruct("CreateCharacter",
		layout.Value("data", common.LuNameValueCodec, func(m *CreateCharacter) *common.LuNameValue { return &m.Data }),
	)

	charListCharCodec = layout.NewStruct("CharListChar",
		layout.Value("obj_id", common.ObjIDCodec, func(c *CharListChar) *common.ObjID { return &c.ObjID }),
		layout.Pad[CharListChar](4),
		layout.Value("char_name", common.WideString33, func(c *CharListChar) *string { return &c.CharName }),
		layout.Value("pending_name", common.WideString33, func(c *CharListChar) *string { return &c.PendingName }),
		layout.Value("requires_rename", wire.Bool, func(c *CharListChar) *bool { return &c.RequiresRename }),
		layout.Value("is_free_trial", wire.Bool, func(c *CharListChar) *bool { return &c.IsFreeTrial }),
		layout.Pad[CharListChar](10),
		layout.Value("torso_color", wire.Uint32, func(c *CharListChar) *uint32 { return &c.TorsoColor }),
		layout.Pad[CharListChar](4),
		layout.Value("legs_color", wire.Uint32, func(c *CharListChar) *uint32 { return &c.LegsColor }),
		layout.Value("hair_style", wire.Uint32, func(c *CharListChar) *uint32 { return &c.HairStyle }),
		layout.Value("hair_color", wire.Uint32, func(c *CharListChar) *uint32 { return &c.HairColor }),
		layout.Pad[CharListChar](8),
		layout.Value("eyebrow_style", wire.Uint32, func(c *CharListChar) *uint32 { return &c.EyebrowStyle }),
		layout.Value("eye_style", wire.Uint32, func(c *CharListChar) *uint32 { return &c.EyeStyle }),
		layout.Value("mouth_style", wire.Uint32, func(c *CharListChar) *uint32 { return &c.MouthStyle }),
		layout.Pad[CharListChar](4),
		layout.Value("last_location", common.ZoneIDCodec, func(c *CharListChar) *common.ZoneID { return &c.LastLocation }),
		layout.Pad[CharListChar](8),
		layout.Slice("equipped_items", wire.Width16, common.LotCodec, func(c *CharListChar) *[]common.Lot { return &c.EquippedItems }),
	)

	characterListResponseCodec = layout.NewStruct("CharacterListResponse",
		layout.Count("char_count", 0, wire.Width8, func(m *CharacterListResponse) int { return len(m.CharList) }),
		layout.Value("selected_char", wire.Uint8, func(m *CharacterListResponse) *uint8 { return &m.SelectedChar }),
		layout.Items("char_list", 0, charListCharCodec, func(m *CharacterListResponse) *[]CharListChar { return &m.CharList }),
	)

	characterCreateResponseCodec = layout.Enum("CharacterCreateResponse", wire.Width8,
		CharacterCreateSuccess, CharacterCreateGeneralFailure, CharacterCreateNameNotAllowed,
		CharacterCreatePredefinedNameInUse, CharacterCreateCustomNameInUse)

	characterDeleteResponseCodec = layout.NewStruct("CharacterDeleteResponse",
		layout.Value("success", wire.Bool, func(m *CharacterDeleteResponse) *bool { return &m.Success }),
	)

	transferToWorldCodec = layout.NewStruct("TransferToWorld",
		layout.Value("redirect_ip", common.String33, func(m *TransferToWorld) *string { return &m.RedirectIP }),
		layout.Value("redirect_port", wire.Uint16, func(m *TransferToWorld) *uint16 { return &m.RedirectPort }),
		layout.Value("is_maintenance_transfer", wire.Bool, func(m *TransferToWorld) *bool { return &m.IsMaintenanceTransfer }),
	)

	blueprintLoadItemResponseCodec = layout.NewStruct("BlueprintLoadItemResponse",
		layout.Value("success", wire.Bool, func(m *BlueprintLoadItemResponse) *bool { return &m.Success }),
		layout.Value("item_id", common.ObjIDCodec, func(m *BlueprintLoadItemResponse) *common.ObjID { return &m.ItemID }),
		layout.Value("dest_item_id", common.ObjIDCodec, func(m *BlueprintLoadItemResponse) *common.ObjID { return &m.DestItemID }),
	)

	addFriendRequestCodec = layout.NewStruct("AddFriendRequest",
		layout.Value("sender_name", common.WideString33, func(m *AddFriendRequest) *string { return &m.SenderName }),
		layout.Value("is_best_friend_request", wire.Bool, func(m *AddFriendRequest) *bool { return &m.IsBestFriendRequest }),
	)

	teamInviteCodec = layout.NewStruct("TeamInvite",
		layout.Value("sender_name", common.WideString33, func(m *TeamInvite) *string { return &m.SenderName }),
		layout.Value("sender_id", common.ObjIDCodec, func(m *TeamInvite) *common.ObjID { return &m.SenderID }),
	)

	minimumChatModeResponseCodec = layout.NewStruct("MinimumChatModeResponse",
		layout.Value("chat_mode", wire.Uint8, func(m *MinimumChatModeResponse) *uint8 { return &m.ChatMode }),
		layout.Value("chat_channel", wire.Uint8, func(m *MinimumChatModeResponse) *uint8 { return &m.ChatChannel }),
	)

	minimumChatModeResponsePrivateCodec = layout.NewStruct("MinimumChatModeResponsePrivate",
		layout.Value("chat_mode", wire.Uint8, func(m *MinimumChatModeResponsePrivate) *uint8 { return &m.ChatMode }),
		layout.Value("chat_channel", wire.Uint8, func(m *MinimumChatModeResponsePrivate) *uint8 { return &m.ChatChannel }),
		layout.Value("recipient_name", common.WideString33, func(m *MinimumChatModeResponsePrivate) *string { return &m.RecipientName }),
		layout.Value("recipient_gm_level", wire.Uint8, func(m *MinimumChatModeResponsePrivate) *uint8 { return &m.RecipientGMLevel }),
	)

	updateFreeTrialStatusCodec = layout.NewStruct("UpdateFreeTrialStatus",
		layout.Value("is_free_trial", wire.Bool, func(m *UpdateFreeTrialStatus) *bool { return &m.IsFreeTrial }),
	)
)

func unknownClientMessage(id uint32, pad, raw []byte) ClientMessage {
	return UnknownClientMessage{ID: id, Pad: pad, Raw: raw}
}

// ClientMessages is the client-received world catalog. It is open: ids
// added by newer servers decode to UnknownClientMessage.
var ClientMessages = layout.NewOpenUnion(layout.UnionSpec{Name: "ClientMessage", Width: wire.Width32, Padding: 1},
	unknownClientMessage,
	layout.Case[ClientMessage](IDLoadStaticZone, "LoadStaticZone", loadStaticZoneCodec),
	layout.Case[ClientMessage](IDCreateCharacter, "CreateCharacter", createCharacterCodec),
	layout.Case[ClientMessage](IDCharacterListResponse, "CharacterListResponse", characterListResponseCodec),
	layout.Case[ClientMessage](IDCharacterCreateResponse, "CharacterCreateResponse", characterCreateResponseCodec),
	layout.Case[ClientMessage](IDCharacterDeleteResponse, "CharacterDeleteResponse", characterDeleteResponseCodec),
	layout.Case[ClientMessage](IDClientGameMessage, "SubjectGameMessage", clientGameMessageCodec),
	layout.Case[ClientMessage](IDTransferToWorld, "TransferToWorld", transferToWorldCodec),
	layout.Case[ClientMessage](IDBlueprintLoadItemResponse, "BlueprintLoadItemResponse", blueprintLoadItemResponseCodec),
	layout.Case[ClientMessage](IDAddFriendRequest, "AddFriendRequest", addFriendRequestCodec),
	layout.Case[ClientMessage](IDTeamInvite, "TeamInvite", teamInviteCodec),
	layout.Case[ClientMessage](IDMinimumChatModeResponse, "MinimumChatModeResponse", minimumChatModeResponseCodec),
	layout.Case[ClientMessage](IDMinimumChatModeResponsePrivate, "MinimumChatModeResponsePrivate", minimumChatModeResponsePrivateCodec),
	layout.Case[ClientMessage](IDUpdateFreeTrialStatus, "UpdateFreeTrialStatus", updateFreeTrialStatusCodec),
)
