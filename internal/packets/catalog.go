package packets

import (
	"github.com/energizer-project/lupackets/internal/catalog"
	"github.com/energizer-project/lupackets/internal/lu/chat"
	"github.com/energizer-project/lupackets/internal/lu/common"
	"github.com/energizer-project/lupackets/internal/lu/general"
	"github.com/energizer-project/lupackets/internal/lu/world"
)

var generalDocs = map[string]catalog.Doc{
	"Handshake": {
		Trigger:  "The connection was accepted. Each side sends its own.",
		Handling: "Compare network_version against 171022.",
		Notes:    "service_id names the sender's service.",
	},
	"DisconnectNotify": {
		Handling: "Show the reason and close the connection.",
	},
}

var chatDocs = map[string]catalog.Doc{
	"AddFriendRequest": {
		Response: "AddFriendRequest on the recipient's world connection.",
	},
	"TeamInvite": {
		Response: "TeamInvite on the recipient's world connection.",
	},
}

// Catalog lists every message of every layer, sorted by layer, direction
// and discriminant.
func Catalog() []catalog.Entry {
	var out []catalog.Entry
	out = append(out, catalog.FromUnion("raknet", catalog.ClientReceived, world.ClientFrames, nil)...)
	out = append(out, catalog.FromUnion("raknet", catalog.ServerReceived, world.ServerFrames, nil)...)
	out = append(out, catalog.FromUnion("envelope", catalog.ClientReceived, world.ClientEnvelope, nil)...)
	out = append(out, catalog.FromUnion("envelope", catalog.ServerReceived, world.ServerEnvelope, nil)...)
	out = append(out, catalog.FromUnion("general", catalog.ClientReceived, general.ClientMessages, generalDocs)...)
	out = append(out, catalog.FromUnion("general", catalog.ServerReceived, general.ServerMessages, generalDocs)...)
	out = append(out, catalog.FromUnion("chat", catalog.ServerReceived, chat.Messages, chatDocs)...)
	out = append(out, catalog.FromUnion("lnv", catalog.ClientReceived, common.LnvValueCodec, nil)...)
	out = append(out, world.Catalog()...)
	catalog.Sort(out)
	return out
}
