// Package common holds the wire types shared by every LU service.
package common

import (
	"github.com/energizer-project/lupackets/internal/layout"
	"github.com/energizer-project/lupackets/internal/wire"
)

// ObjID is a 64-bit object identifier.
type ObjID uint64

// Lot is a template ("LEGO object template") number.
type Lot uint32

// ZoneID identifies a zone instance.
type ZoneID struct {
	MapID      uint16 `json:"map_id"`
	InstanceID uint16 `json:"instance_id"`
	CloneID    uint32 `json:"clone_id"`
}

// Vector3 is a position in world space.
type Vector3 struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
	Z float32 `json:"z"`
}

// ServiceID selects the protocol layer inside an LU envelope.
type ServiceID uint16

const (
	ServiceGeneral ServiceID = 0
	ServiceAuth    ServiceID = 1
	ServiceChat    ServiceID = 2
	ServiceWorld   ServiceID = 4
	ServiceClient  ServiceID = 5
)

func (s ServiceID) String() string {
	switch s {
	case ServiceGeneral:
		return "General"
	case ServiceAuth:
		return "Auth"
	case ServiceChat:
		return "Chat"
	case ServiceWorld:
		return "World"
	case ServiceClient:
		return "Client"
	}
	return "Unknown"
}

// Fixed-capacity string widths used across the catalog.
var (
	String33     = wire.FixedString(33)
	WideString33 = wire.FixedWideString(33)
	WideString42 = wire.FixedWideString(42)
)

var (
	ObjIDCodec = layout.Map(wire.Uint64,
		func(v uint64) ObjID { return ObjID(v) },
		func(v ObjID) uint64 { return uint64(v) })

	LotCodec = layout.Map(wire.Uint32,
		func(v uint32) Lot { return Lot(v) },
		func(v Lot) uint32 { return uint32(v) })

	ZoneIDCodec = layout.NewStruct("ZoneID",
		layout.Value("map_id", wire.Uint16, func(z *ZoneID) *uint16 { return &z.MapID }),
		layout.Value("instance_id", wire.Uint16, func(z *ZoneID) *uint16 { return &z.InstanceID }),
		layout.Value("clone_id", wire.Uint32, func(z *ZoneID) *uint32 { return &z.CloneID }),
	)

	Vector3Codec = layout.NewStruct("Vector3",
		layout.Value("x", wire.Float32, func(v *Vector3) *float32 { return &v.X }),
		layout.Value("y", wire.Float32, func(v *Vector3) *float32 { return &v.Y }),
		layout.Value("z", wire.Float32, func(v *Vector3) *float32 { return &v.Z }),
	)

	ServiceIDCodec = layout.Enum("ServiceID", wire.Width16,
		ServiceGeneral, ServiceAuth, ServiceChat, ServiceWorld, ServiceClient)
)
