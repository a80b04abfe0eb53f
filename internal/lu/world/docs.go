package world

import (
	"github.com/energizer-project/lupackets/internal/catalog"
)

var clientDocs = map[string]catalog.Doc{
	"LoadStaticZone": {
		Trigger:  "Usually the first message after ClientValidation. A server that changes its zone at runtime may send it again.",
		Handling: "Load the zone in zone_id.",
		Response: "LevelLoadComplete once loading is done.",
		Notes:    "The client refuses to load a map whose checksum differs from map_checksum.",
	},
	"CharacterListResponse": {
		Trigger:  "CharacterListRequest, and after a successful CharacterCreateResponse.",
		Handling: "Show the characters for selection.",
		Response: "None.",
		Notes:    "The client cannot show more than four characters. The character count precedes selected_char on the wire.",
	},
	"CharacterCreateResponse": {
		Trigger:  "CharacterCreateRequest.",
		Handling: "On failure show an error and let the user retry. On success wait for the new CharacterListResponse.",
		Response: "None.",
	},
	"CharacterDeleteResponse": {
		Trigger:  "CharacterDeleteRequest.",
		Handling: "Remove the character locally if success is set, otherwise keep it and show an error.",
		Response: "None.",
	},
	"TransferToWorld": {
		Trigger:  "Any time, typically a launchpad or command, an instance shutdown or a full instance.",
		Handling: "Connect to redirect_ip:redirect_port.",
		Response: "Close this connection once the new one is established.",
		Notes:    "is_maintenance_transfer makes the client announce a Mythran dimensional shift.",
	},
	"AddFriendRequest": {
		Trigger:  "A chat server relaying AddFriendRequest, possibly from another instance.",
		Handling: "Ask the player to accept or decline.",
		Response: "AddFriendResponse on the chat service.",
	},
	"TeamInvite": {
		Trigger:  "A chat server relaying TeamInvite, possibly from another instance.",
		Handling: "Ask the player to accept or decline.",
		Response: "TeamInviteResponse on the chat service.",
	},
	"UpdateFreeTrialStatus": {
		Trigger:  "The free trial status changed, or RequestFreeTrialRefresh.",
		Handling: "Update the free trial UI.",
		Response: "None.",
	},
}

var serverDocs = map[string]catalog.Doc{
	"ClientValidation": {
		Trigger:  "First message after the handshake on a world connection.",
		Handling: "Check the session key issued by the auth server.",
		Response: "LoadStaticZone or CharacterListResponse depending on the instance.",
		Notes:    "A filler byte follows the 32 byte checksum; it is always written as zero.",
	},
	"CharacterCreateRequest": {
		Response: "CharacterCreateResponse, then CharacterListResponse on success.",
		Notes:    "Several u8 and u32 fields in the middle carry no meaning and are written as zero.",
	},
	"GeneralChatMessage": {
		Notes: "The message length counts its NUL terminator.",
	},
	"LevelLoadComplete": {
		Trigger: "LoadStaticZone.",
	},
	"RouteMessage": {
		Handling: "Forward the nested message to the service named by its service id.",
		Notes:    "The leading u32 length is written as zero and ignored on read.",
	},
	"StringCheck": {
		Response: "MinimumChatModeResponse or MinimumChatModeResponsePrivate.",
		Notes:    "Unlike GeneralChatMessage the length does not count a terminator, and none is sent.",
	},
	"RequestFreeTrialRefresh": {
		Response: "UpdateFreeTrialStatus.",
	},
}

// Catalog lists every world, game message and route target entry.
func Catalog() []catalog.Entry {
	var out []catalog.Entry
	out = append(out, catalog.FromUnion("world", catalog.ClientReceived, ClientMessages, clientDocs)...)
	out = append(out, catalog.FromUnion("world", catalog.ServerReceived, WorldMessages, serverDocs)...)
	out = append(out, catalog.FromUnion("game", catalog.ClientReceived, ClientGMs, nil)...)
	out = append(out, catalog.FromUnion("game", catalog.ServerReceived, ServerGMs, nil)...)
	out = append(out, catalog.FromUnion("route", catalog.ServerReceived, RouteTargets, nil)...)
	return out
}
