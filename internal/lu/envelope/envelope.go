// Package envelope implements the layered routing of LU messages: the
// service envelope inside every transport user message, and the routing
// message that forwards a further enveloped payload to another service.
package envelope

import (
	"fmt"

	"github.com/energizer-project/lupackets/internal/layout"
	"github.com/energizer-project/lupackets/internal/lu/common"
	"github.com/energizer-project/lupackets/internal/lu/general"
	"github.com/energizer-project/lupackets/internal/wire"
)

// Message is the payload of a transport user message, selected by a u16
// service id.
type Message interface {
	isEnvelope()
}

// General wraps a general service message.
type General struct {
	Message general.Message `json:"message"`
}

// Subsystem wraps a message of the subsystem the envelope was built for.
type Subsystem[M any] struct {
	Message M `json:"message"`
}

func (General) isEnvelope()      {}
func (Subsystem[M]) isEnvelope() {}

// NewCodec builds an envelope that accepts the general service plus one
// subsystem.
func NewCodec[M any](name string, generals *layout.Union[general.Message], service common.ServiceID, sub wire.Codec[M]) *layout.Union[Message] {
	if service == common.ServiceGeneral {
		panic(fmt.Sprintf("envelope: %s subsystem cannot use the general service id", name))
	}
	return layout.NewUnion(layout.UnionSpec{Name: name, Width: wire.Width16},
		layout.Case[Message](uint32(common.ServiceGeneral), common.ServiceGeneral.String(), layout.Map(generals,
			func(m general.Message) General { return General{Message: m} },
			func(g General) general.Message { return g.Message })),
		layout.Case[Message](uint32(service), service.String(), layout.Map(sub,
			func(m M) Subsystem[M] { return Subsystem[M]{Message: m} },
			func(s Subsystem[M]) M { return s.Message })),
	)
}

type route[T any] struct {
	Target T
}

// RouteCodec frames targets behind the routing header: a u32 length that
// peers neither fill in nor check, then the target union, which itself
// starts with the u16 service id of the destination. The length is written
// as zero and ignored on read.
func RouteCodec[T any](targets wire.Codec[T]) wire.Codec[T] {
	s := layout.NewStruct("RouteMessage",
		layout.Reserved[route[T]]("packet_size", 4),
		layout.Value("target", targets, func(r *route[T]) *T { return &r.Target }),
	)
	return layout.Map(s,
		func(r route[T]) T { return r.Target },
		func(t T) route[T] { return route[T]{Target: t} })
}

// TargetSpec returns the union spec for the destinations of a routing
// message. Only the service id selects the destination; the destination's
// own envelope follows.
func TargetSpec(name string) layout.UnionSpec {
	return layout.UnionSpec{Name: name, Width: wire.Width16}
}

// RouteTo declares one destination service of a routing target union.
func RouteTo[R, V, M any](service common.ServiceID, inner wire.Codec[M], wrap func(M) V, unwrap func(V) M) layout.Variant[R] {
	return layout.Case[R](uint32(service), service.String(), layout.Map(inner, wrap, unwrap))
}
