// Package chat implements the chat service messages a chat server receives,
// either directly or routed through a world server.
package chat

import (
	"github.com/energizer-project/lupackets/internal/layout"
	"github.com/energizer-project/lupackets/internal/lu/common"
	"github.com/energizer-project/lupackets/internal/wire"
)

// Message ids of the chat service.
const (
	IDGeneralChatMessage uint32 = 1
	IDAddFriendRequest   uint32 = 7
	IDAddFriendResponse  uint32 = 8
	IDTeamInvite         uint32 = 15
	IDTeamInviteResponse uint32 = 16
)

// Message is a server-received chat message.
type Message interface {
	isChatMessage()
}

// GeneralChatMessage is a line typed into a public chat channel.
type GeneralChatMessage struct {
	ChatChannel uint8  `json:"chat_channel"`
	SourceID    uint16 `json:"source_id"`
	Message     string `json:"message"`
}

// AddFriendRequest asks for a character to be added to the friends list.
type AddFriendRequest struct {
	FriendName          string `json:"friend_name"`
	IsBestFriendRequest bool   `json:"is_best_friend_request"`
}

// AddFriendResponse answers a forwarded AddFriendRequest.
type AddFriendResponse struct {
	Response   AddFriendResponseType `json:"response"`
	FriendName string                `json:"friend_name"`
}

// TeamInvite invites a character into the sender's team.
type TeamInvite struct {
	InviteeName string `json:"invitee_name"`
}

// TeamInviteResponse answers a forwarded TeamInvite.
type TeamInviteResponse struct {
	IsDeclined bool         `json:"is_declined"`
	InviterID  common.ObjID `json:"inviter_id"`
}

func (GeneralChatMessage) isChatMessage() {}
func (AddFriendRequest) isChatMessage()   {}
func (AddFriendResponse) isChatMessage()  {}
func (TeamInvite) isChatMessage()         {}
func (TeamInviteResponse) isChatMessage() {}

// AddFriendResponseType is the outcome of a friend request.
type AddFriendResponseType uint8

const (
	FriendAccepted AddFriendResponseType = iota
	FriendAlreadyFriend
	FriendInvalidCharacter
	FriendGeneralError
	FriendYourFriendsListFull
	FriendTheirFriendsListFull
	FriendDeclined
	FriendBusy
	FriendNotOnline
	FriendWaitingApproval
	FriendMythran
	FriendCancelled
	FriendIsFreeTrial
)

// GeneralChatMessageCodec is shared with the world service, which accepts the
// same layout: the message length counts its NUL terminator.
var GeneralChatMessageCodec = layout.NewStruct("GeneralChatMessage",
	layout.Value("chat_channel", wire.Uint8, func(m *GeneralChatMessage) *uint8 { return &m.ChatChannel }),
	layout.Value("source_id", wire.Uint16, func(m *GeneralChatMessage) *uint16 { return &m.SourceID }),
	layout.Value("message", wire.VarWideString(wire.Width32, wire.Inclusive), func(m *GeneralChatMessage) *string { return &m.Message }),
)

var (
	addFriendRequestCodec = layout.NewStruct("AddFriendRequest",
		layout.Value("friend_name", common.WideString42, func(m *AddFriendRequest) *string { return &m.FriendName }),
		layout.Value("is_best_friend_request", wire.Bool, func(m *AddFriendRequest) *bool { return &m.IsBestFriendRequest }),
	)

	addFriendResponseTypeCodec = layout.Enum("AddFriendResponseType", wire.Width8,
		FriendAccepted, FriendAlreadyFriend, FriendInvalidCharacter, FriendGeneralError,
		FriendYourFriendsListFull, FriendTheirFriendsListFull, FriendDeclined, FriendBusy,
		FriendNotOnline, FriendWaitingApproval, FriendMythran, FriendCancelled, FriendIsFreeTrial)

	addFriendResponseCodec = layout.NewStruct("AddFriendResponse",
		layout.Value("response", addFriendResponseTypeCodec, func(m *AddFriendResponse) *AddFriendResponseType { return &m.Response }),
		layout.Value("friend_name", common.WideString33, func(m *AddFriendResponse) *string { return &m.FriendName }),
	)

	teamInviteCodec = layout.NewStruct("TeamInvite",
		layout.Value("invitee_name", common.WideString42, func(m *TeamInvite) *string { return &m.InviteeName }),
	)

	teamInviteResponseCodec = layout.NewStruct("TeamInviteResponse",
		layout.Value("is_declined", wire.Bool, func(m *TeamInviteResponse) *bool { return &m.IsDeclined }),
		layout.Value("inviter_id", common.ObjIDCodec, func(m *TeamInviteResponse) *common.ObjID { return &m.InviterID }),
	)
)

// Messages is the server-received chat catalog.
var Messages = layout.NewUnion(layout.UnionSpec{Name: "ChatMessage", Width: wire.Width32, Padding: 1},
	layout.Case[Message](IDGeneralChatMessage, "GeneralChatMessage", GeneralChatMessageCodec),
	layout.Case[Message](IDAddFriendRequest, "AddFriendRequest", addFriendRequestCodec),
	layout.Case[Message](IDAddFriendResponse, "AddFriendResponse", addFriendResponseCodec),
	layout.Case[Message](IDTeamInvite, "TeamInvite", teamInviteCodec),
	layout.Case[Message](IDTeamInviteResponse, "TeamInviteResponse", teamInviteResponseCodec),
)
