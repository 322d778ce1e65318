package entity

import "math"

// Vec3 is a position in block space.
type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

func (v Vec3) DistanceSq(o Vec3) float64 {
	d := v.Sub(o)
	return d.X*d.X + d.Y*d.Y + d.Z*d.Z
}

// BlockPos returns the integer block coordinates containing v.
func (v Vec3) BlockPos() (int, int, int) {
	return int(math.Floor(v.X)), int(math.Floor(v.Y)), int(math.Floor(v.Z))
}

// Location is a position plus orientation, in degrees.
type Location struct {
	Position Vec3
	Yaw      float64
	Pitch    float64
}

// Locatable is anything with a location inside an extent.
type Locatable interface {
	Location() Location
	Extent() Extent
}

// Extent is a spatial container of blocks and entities.
type Extent interface {
	Entities() []Entity
}
