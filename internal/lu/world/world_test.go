package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/energizer-project/lupackets/internal/layout"
	"github.com/energizer-project/lupackets/internal/lu/chat"
	"github.com/energizer-project/lupackets/internal/lu/common"
	"github.com/energizer-project/lupackets/internal/lu/general"
	"github.com/energizer-project/lupackets/internal/lu/raknet"
	"github.com/energizer-project/lupackets/internal/wire"
)

// frame headers: user message id, service id, message id, padding
var (
	clientHeader = []byte{83, 5, 0}
	serverHeader = []byte{83, 4, 0}
)

func header(prefix []byte, id uint32) []byte {
	return append(append([]byte{}, prefix...), byte(id), byte(id>>8), byte(id>>16), byte(id>>24), 0)
}

func roundTripClient(t *testing.T, m ClientMessage) []byte {
	t.Helper()
	b, err := EncodeClientFrame(NewClientFrame(m))
	require.NoError(t, err)
	f, err := DecodeClientFrame(b)
	require.NoError(t, err)
	got, ok := ClientMessageOf(f)
	require.True(t, ok)
	assert.Equal(t, m, got)
	return b
}

func roundTripServer(t *testing.T, m WorldMessage) []byte {
	t.Helper()
	b, err := EncodeServerFrame(NewServerFrame(m))
	require.NoError(t, err)
	f, err := DecodeServerFrame(b)
	require.NoError(t, err)
	got, ok := WorldMessageOf(f)
	require.True(t, ok)
	assert.Equal(t, m, got)
	return b
}

func sampleChar(id common.ObjID, name string, items ...common.Lot) CharListChar {
	if items == nil {
		items = []common.Lot{}
	}
	return CharListChar{
		ObjID:         id,
		CharName:      name,
		TorsoColor:    1,
		LegsColor:     2,
		HairStyle:     3,
		HairColor:     4,
		EyebrowStyle:  5,
		EyeStyle:      6,
		MouthStyle:    7,
		LastLocation:  common.ZoneID{MapID: 1000},
		EquippedItems: items,
	}
}

func TestClientMessagesRoundTrip(t *testing.T) {
	for _, m := range []ClientMessage{
		LoadStaticZone{
			ZoneID:         common.ZoneID{MapID: 1100, InstanceID: 1, CloneID: 0},
			MapChecksum:    0x49525511,
			PlayerPosition: common.Vector3{X: 1, Y: 2, Z: 3},
			InstanceType:   InstanceSingle,
		},
		CreateCharacter{Data: common.LuNameValue{Entries: []common.NameValue{
			{Key: "name", Value: common.LnvWString("Hero")},
			{Key: "objid", Value: common.LnvObjID(1152921504606846994)},
		}}},
		CharacterListResponse{SelectedChar: 0, CharList: []CharListChar{sampleChar(1, "Hero", 4106, 2519)}},
		CharacterCreateNameNotAllowed,
		CharacterDeleteResponse{Success: true},
		ClientGameMessage{Subject: 42, Message: ServerDoneLoadingAllObjects{}},
		TransferToWorld{RedirectIP: "127.0.0.1", RedirectPort: 2003, IsMaintenanceTransfer: true},
		BlueprintLoadItemResponse{Success: true, ItemID: 7, DestItemID: 8},
		AddFriendRequest{SenderName: "Friend", IsBestFriendRequest: true},
		TeamInvite{SenderName: "Leader", SenderID: 99},
		MinimumChatModeResponse{ChatMode: 1, ChatChannel: 4},
		MinimumChatModeResponsePrivate{ChatMode: 1, ChatChannel: 4, RecipientName: "Pal", RecipientGMLevel: 9},
		UpdateFreeTrialStatus{IsFreeTrial: true},
	} {
		roundTripClient(t, m)
	}
}

func TestServerMessagesRoundTrip(t *testing.T) {
	var checksum [32]byte
	copy(checksum[:], "0123456789abcdef0123456789abcdef")

	for _, m := range []WorldMessage{
		ClientValidation{Username: "user", SessionKey: "key", FdbChecksum: checksum},
		CharacterListRequest{},
		CharacterCreateRequest{
			CharName:      "Custom",
			PredefNameIDs: [3]uint32{1, 2, 3},
			ShirtColor:    4,
			PantsColor:    5,
			HairStyle:     6,
			HairColor:     7,
			EyebrowStyle:  8,
			EyeStyle:      9,
			MouthStyle:    10,
		},
		CharacterLoginRequest{CharID: 1152921504606846994},
		ServerGameMessage{Subject: 5, Message: PlayerLoaded{PlayerID: 5}},
		ServerGameMessage{Subject: 5, Message: ReadyForUpdates{ObjectID: 70}},
		CharacterDeleteRequest{CharID: 12},
		GeneralChatMessage{ChatChannel: 4, SourceID: 0, Message: "hello"},
		LevelLoadComplete{ZoneID: common.ZoneID{MapID: 1000}},
		NewChatRoute(chat.TeamInvite{InviteeName: "Mate"}),
		StringCheck{ChatMode: 0, ChatChannel: 4, RecipientName: "", String: "is this ok"},
		RequestFreeTrialRefresh{},
		UgcDownloadFailed{ResType: UgcNif, BlueprintID: 3, StatusCode: 404, CharID: 4},
	} {
		roundTripServer(t, m)
	}
}

func TestClientValidationFiller(t *testing.T) {
	b := roundTripServer(t, ClientValidation{Username: "u", SessionKey: "k"})
	assert.Equal(t, header(serverHeader, IDClientValidation), b[:8])
	require.Len(t, b, 8+33*2+33*2+32+1)
	assert.Equal(t, byte(0), b[len(b)-1])
}

func TestCharacterCreateRequestSize(t *testing.T) {
	b := roundTripServer(t, CharacterCreateRequest{CharName: "x"})
	assert.Len(t, b, 8+128)
}

func TestCharacterListResponseCountBeforeSelectedChar(t *testing.T) {
	list := CharacterListResponse{
		SelectedChar: 1,
		CharList:     []CharListChar{sampleChar(1, "A"), sampleChar(2, "B", 4106)},
	}
	b := roundTripClient(t, list)
	assert.Equal(t, header(clientHeader, IDCharacterListResponse), b[:8])
	assert.Equal(t, byte(2), b[8])
	assert.Equal(t, byte(1), b[9])

	rec0, err := layout.EncodeFrame(charListCharCodec, list.CharList[0])
	require.NoError(t, err)
	rec1, err := layout.EncodeFrame(charListCharCodec, list.CharList[1])
	require.NoError(t, err)
	require.Len(t, rec0, 218)
	require.Len(t, rec1, 222)
	assert.Equal(t, rec0, b[10:10+len(rec0)])
	assert.Equal(t, rec1, b[10+len(rec0):])
}

func TestCharacterListResponseFourCharacters(t *testing.T) {
	list := CharacterListResponse{SelectedChar: 3}
	for i := 0; i < MaxCharacters; i++ {
		list.CharList = append(list.CharList, sampleChar(common.ObjID(i+1), "C"))
	}
	b := roundTripClient(t, list)
	assert.Equal(t, byte(4), b[8])
}

func TestCharacterListResponseCountPastFrame(t *testing.T) {
	// five characters declared, none present
	_, err := layout.DecodeFrame[ClientMessage](ClientMessages, []byte{6, 0, 0, 0, 0, 5, 0})
	require.Error(t, err)
	assert.ErrorIs(t, err, wire.ErrLengthInconsistency)
	assert.NotErrorIs(t, err, wire.ErrTruncatedInput)

	// one record fits, the second does not
	rec, err := layout.EncodeFrame(charListCharCodec, sampleChar(1, "A"))
	require.NoError(t, err)
	assert.Equal(t, len(rec), wire.MinSizeOf(charListCharCodec))
	frame := append([]byte{6, 0, 0, 0, 0, 2, 0}, rec...)
	_, err = layout.DecodeFrame[ClientMessage](ClientMessages, frame)
	assert.ErrorIs(t, err, wire.ErrLengthInconsistency)
}

func TestClientValidationRejectsEmbeddedNUL(t *testing.T) {
	_, err := EncodeServerFrame(NewServerFrame(ClientValidation{Username: "a\x00b"}))
	assert.ErrorIs(t, err, wire.ErrEmbeddedNUL)

	var ee *wire.EncodeError
	require.ErrorAs(t, err, &ee)
	assert.Contains(t, ee.Path, "username")
}

func TestCharacterListResponseEmpty(t *testing.T) {
	b := roundTripClient(t, CharacterListResponse{CharList: []CharListChar{}})
	assert.Equal(t, []byte{0, 0}, b[8:])
}

func TestCharacterCreateResponseIsSingleByte(t *testing.T) {
	b := roundTripClient(t, CharacterCreateCustomNameInUse)
	assert.Equal(t, append(header(clientHeader, IDCharacterCreateResponse), 4), b)
}

func TestUnknownClientMessagePassesThrough(t *testing.T) {
	frame := append(header(clientHeader, 999), 0xde, 0xad, 0xbe, 0xef)
	f, err := DecodeClientFrame(frame)
	require.NoError(t, err)

	m, ok := ClientMessageOf(f)
	require.True(t, ok)
	assert.Equal(t, UnknownClientMessage{ID: 999, Pad: []byte{0}, Raw: []byte{0xde, 0xad, 0xbe, 0xef}}, m)

	b, err := EncodeClientFrame(f)
	require.NoError(t, err)
	assert.Equal(t, frame, b)
}

func TestUnknownClientMessageKeepsPaddingByte(t *testing.T) {
	frame := []byte{83, 5, 0, 0xe7, 0x03, 0, 0, 0x7f, 1, 2}
	f, err := DecodeClientFrame(frame)
	require.NoError(t, err)

	m, ok := ClientMessageOf(f)
	require.True(t, ok)
	assert.Equal(t, UnknownClientMessage{ID: 999, Pad: []byte{0x7f}, Raw: []byte{1, 2}}, m)

	b, err := EncodeClientFrame(f)
	require.NoError(t, err)
	assert.Equal(t, frame, b)
}

func TestServerRejectsUnknownWorldMessage(t *testing.T) {
	_, err := DecodeServerFrame(append(header(serverHeader, 999), 1, 2, 3))
	assert.ErrorIs(t, err, wire.ErrUnknownDiscriminant)
}

func TestGeneralChatInclusiveVersusStringCheckExclusive(t *testing.T) {
	chatFrame := roundTripServer(t, GeneralChatMessage{ChatChannel: 4, Message: "ab"})
	body := chatFrame[8:]
	// channel, source, length 3, two units and a terminator
	assert.Equal(t, []byte{4, 0, 0, 3, 0, 0, 0, 'a', 0, 'b', 0, 0, 0}, body)

	checkFrame := roundTripServer(t, StringCheck{ChatChannel: 4, String: "ab"})
	body = checkFrame[8:]
	require.Len(t, body, 2+84+2+4)
	assert.Equal(t, []byte{2, 0, 'a', 0, 'b', 0}, body[86:])
}

func TestRouteMessageLayout(t *testing.T) {
	b := roundTripServer(t, NewChatRoute(chat.GeneralChatMessage{ChatChannel: 1, Message: "x"}))
	assert.Equal(t, header(serverHeader, IDRouteMessage), b[:8])
	body := b[8:]
	assert.Equal(t, []byte{0, 0, 0, 0}, body[:4], "size placeholder")
	assert.Equal(t, []byte{2, 0, 1, 0, 0, 0, 0}, body[4:11], "chat service and message id")
}

func TestRouteMessageIgnoresSizeField(t *testing.T) {
	b, err := EncodeServerFrame(NewServerFrame(NewChatRoute(chat.TeamInvite{InviteeName: "y"})))
	require.NoError(t, err)
	b[8], b[9] = 0x10, 0x20

	f, err := DecodeServerFrame(b)
	require.NoError(t, err)
	m, ok := WorldMessageOf(f)
	require.True(t, ok)
	assert.Equal(t, NewChatRoute(chat.TeamInvite{InviteeName: "y"}), m)
}

func TestGameMessageLayout(t *testing.T) {
	b := roundTripClient(t, ClientGameMessage{Subject: 0x0102, Message: PlayerReady{}})
	assert.Equal(t, header(clientHeader, IDClientGameMessage), b[:8])
	assert.Equal(t, []byte{0x02, 0x01, 0, 0, 0, 0, 0, 0, 0xfd, 0x01}, b[8:])

	b = roundTripServer(t, ServerGameMessage{Subject: 1, Message: PlayerReady{}})
	assert.Equal(t, []byte{0xfd, 0x01}, b[16:])
}

func TestGameMessageDirectional(t *testing.T) {
	// PlayerLoaded is only ever received by the server
	_, err := EncodeClientFrame(NewClientFrame(ClientGameMessage{Subject: 1}))
	assert.ErrorIs(t, err, wire.ErrUnknownDiscriminant)

	frame := append(header(clientHeader, IDClientGameMessage), 1, 0, 0, 0, 0, 0, 0, 0, 0xf9, 0x01)
	_, err = DecodeClientFrame(frame)
	assert.ErrorIs(t, err, wire.ErrUnknownDiscriminant)
}

func TestGeneralFrames(t *testing.T) {
	hs := general.Handshake{NetworkVersion: general.NetworkVersion, ServiceID: common.ServiceWorld, ProcessID: 1, Port: 2001}

	b, err := EncodeClientFrame(NewGeneralClientFrame(hs))
	require.NoError(t, err)
	assert.Equal(t, []byte{83, 0, 0}, b[:3])
	f, err := DecodeClientFrame(b)
	require.NoError(t, err)
	_, ok := ClientMessageOf(f)
	assert.False(t, ok)

	b, err = EncodeServerFrame(NewGeneralServerFrame(hs))
	require.NoError(t, err)
	sf, err := DecodeServerFrame(b)
	require.NoError(t, err)
	assert.Equal(t, NewGeneralServerFrame(hs), sf)
}

func TestTransportFramesAreNotWorldMessages(t *testing.T) {
	f, err := DecodeServerFrame([]byte{19})
	require.NoError(t, err)
	assert.Equal(t, raknet.DisconnectionNotification{}, f)
	_, ok := WorldMessageOf(f)
	assert.False(t, ok)
}

func TestTruncatedFrame(t *testing.T) {
	b, err := EncodeServerFrame(NewServerFrame(CharacterLoginRequest{CharID: 1}))
	require.NoError(t, err)
	_, err = DecodeServerFrame(b[:len(b)-1])
	assert.ErrorIs(t, err, wire.ErrTruncatedInput)
}

func TestWrongServiceForDirection(t *testing.T) {
	// a server does not accept client service envelopes
	b, err := EncodeClientFrame(NewClientFrame(CharacterDeleteResponse{Success: true}))
	require.NoError(t, err)
	_, err = DecodeServerFrame(b)
	assert.ErrorIs(t, err, wire.ErrUnknownDiscriminant)
}

func TestCatalog(t *testing.T) {
	entries := Catalog()
	require.NotEmpty(t, entries)

	var sawList, sawRoute bool
	for _, e := range entries {
		if e.Layer == "world" && e.Name == "CharacterListResponse" {
			sawList = true
			assert.Equal(t, IDCharacterListResponse, e.Discriminant)
			assert.True(t, e.Open)
			assert.NotEmpty(t, e.Doc.Trigger)
		}
		if e.Layer == "route" {
			sawRoute = true
			assert.Equal(t, uint32(common.ServiceChat), e.Discriminant)
		}
	}
	assert.True(t, sawList)
	assert.True(t, sawRoute)
}
