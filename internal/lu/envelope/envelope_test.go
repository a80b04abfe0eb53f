package envelope

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/energizer-project/lupackets/internal/layout"
	"github.com/energizer-project/lupackets/internal/lu/chat"
	"github.com/energizer-project/lupackets/internal/lu/common"
	"github.com/energizer-project/lupackets/internal/lu/general"
	"github.com/energizer-project/lupackets/internal/wire"
)

var chatEnvelope = NewCodec[chat.Message]("ChatEnvelope", general.ServerMessages, common.ServiceChat, chat.Messages)

func TestEnvelopeSelectsService(t *testing.T) {
	m := Subsystem[chat.Message]{Message: chat.TeamInvite{InviteeName: "x"}}
	b, err := layout.EncodeFrame[Message](chatEnvelope, m)
	require.NoError(t, err)
	assert.Equal(t, []byte{2, 0, 15, 0, 0, 0, 0}, b[:7])

	got, err := layout.DecodeFrame[Message](chatEnvelope, b)
	require.NoError(t, err)
	assert.Equal(t, m, got)
}

func TestEnvelopeGeneral(t *testing.T) {
	m := General{Message: general.Handshake{NetworkVersion: general.NetworkVersion, ServiceID: common.ServiceClient}}
	b, err := layout.EncodeFrame[Message](chatEnvelope, m)
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0}, b[:2])

	got, err := layout.DecodeFrame[Message](chatEnvelope, b)
	require.NoError(t, err)
	assert.Equal(t, m, got)
}

func TestEnvelopeRejectsOtherServices(t *testing.T) {
	_, err := layout.DecodeFrame[Message](chatEnvelope, []byte{4, 0, 0, 0, 0, 0, 0})
	assert.ErrorIs(t, err, wire.ErrUnknownDiscriminant)
}

func TestNewCodecRejectsGeneralSubsystem(t *testing.T) {
	assert.Panics(t, func() {
		NewCodec[chat.Message]("Bad", general.ServerMessages, common.ServiceGeneral, chat.Messages)
	})
}

type target struct {
	Message chat.Message
}

var routeTargets = layout.NewUnion(TargetSpec("Target"),
	RouteTo[target](common.ServiceChat, chat.Messages,
		func(m chat.Message) target { return target{Message: m} },
		func(t target) chat.Message { return t.Message }),
)

func TestRouteCodecPlaceholder(t *testing.T) {
	c := RouteCodec[target](routeTargets)
	tgt := target{Message: chat.TeamInvite{InviteeName: "y"}}

	b, err := layout.EncodeFrame(c, tgt)
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0, 0, 0, 2, 0, 15, 0, 0, 0, 0}, b[:11])

	// a nonzero size field is accepted and ignored
	b[0], b[1] = 0xff, 0x7f
	got, err := layout.DecodeFrame(c, b)
	require.NoError(t, err)
	assert.Equal(t, tgt, got)
}
