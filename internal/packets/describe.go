package packets

import (
	"github.com/energizer-project/lupackets/internal/layout"
	"github.com/energizer-project/lupackets/internal/lu/chat"
	"github.com/energizer-project/lupackets/internal/lu/envelope"
	"github.com/energizer-project/lupackets/internal/lu/general"
	"github.com/energizer-project/lupackets/internal/lu/raknet"
	"github.com/energizer-project/lupackets/internal/lu/world"
)

// caseName turns a union lookup into a path segment.
func caseName(c layout.CaseInfo, ok bool) string {
	if !ok {
		return "?"
	}
	return c.Name
}

// DescribeClient names the variant chosen at each layer of a client frame,
// outermost first.
func DescribeClient(f raknet.ClientMessage) []string {
	path := []string{caseName(world.ClientFrames.Lookup(f))}
	u, ok := f.(raknet.UserMessage[envelope.Message])
	if !ok {
		return path
	}
	path = append(path, caseName(world.ClientEnvelope.Lookup(u.Message)))
	switch e := u.Message.(type) {
	case envelope.General:
		path = append(path, caseName(general.ClientMessages.Lookup(e.Message)))
	case envelope.Subsystem[world.ClientMessage]:
		path = append(path, caseName(world.ClientMessages.Lookup(e.Message)))
		if gm, ok := e.Message.(world.ClientGameMessage); ok {
			path = append(path, caseName(world.ClientGMs.Lookup(gm.Message)))
		}
	}
	return path
}

// DescribeServer names the variant chosen at each layer of a server frame,
// outermost first.
func DescribeServer(f raknet.ServerMessage) []string {
	path := []string{caseName(world.ServerFrames.Lookup(f))}
	u, ok := f.(raknet.UserMessage[envelope.Message])
	if !ok {
		return path
	}
	path = append(path, caseName(world.ServerEnvelope.Lookup(u.Message)))
	switch e := u.Message.(type) {
	case envelope.General:
		path = append(path, caseName(general.ServerMessages.Lookup(e.Message)))
	case envelope.Subsystem[world.WorldMessage]:
		path = append(path, caseName(world.WorldMessages.Lookup(e.Message)))
		switch m := e.Message.(type) {
		case world.ServerGameMessage:
			path = append(path, caseName(world.ServerGMs.Lookup(m.Message)))
		case world.RouteMessage:
			path = append(path, caseName(world.RouteTargets.Lookup(m.Target)))
			if cr, ok := m.Target.(world.ChatRoute); ok {
				path = append(path, caseName(chat.Messages.Lookup(cr.Message)))
			}
		}
	}
	return path
}
