package xrpanel

import "math"

// Vec3 is a 3D vector in world or collider-local space.
type Vec3 struct {
	X, Y, Z float64
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

// Scale returns v * s.
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

// Dot returns the dot product of v and o.
func (v Vec3) Dot(o Vec3) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

// Cross returns the cross product v × o.
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

// Length returns the Euclidean length of v.
func (v Vec3) Length() float64 { return math.Sqrt(v.Dot(v)) }

// Normalize returns v scaled to unit length, or the zero vector if v is zero.
func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l == 0 {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

// ProjectOnPlane removes the component of v along the plane normal n.
func (v Vec3) ProjectOnPlane(n Vec3) Vec3 {
	nn := n.Dot(n)
	if nn == 0 {
		return v
	}
	return v.Sub(n.Scale(v.Dot(n) / nn))
}

// SignedAngle returns the angle in degrees from a to b, signed by the
// direction of a × b relative to axis. It is 0 when either vector is zero.
func SignedAngle(a, b, axis Vec3) float64 {
	la, lb := a.Length(), b.Length()
	if la < 1e-9 || lb < 1e-9 {
		return 0
	}
	cos := math.Max(-1, math.Min(1, a.Dot(b)/(la*lb)))
	deg := math.Acos(cos) * 180 / math.Pi
	if axis.Dot(a.Cross(b)) < 0 {
		return -deg
	}
	return deg
}

// Quat is a rotation quaternion. The zero value is not a valid rotation; use
// QuatIdentity.
type Quat struct {
	X, Y, Z, W float64
}

// QuatIdentity is the identity rotation.
var QuatIdentity = Quat{0, 0, 0, 1}

// QuatAxisAngle returns the rotation of angle radians around axis.
func QuatAxisAngle(axis Vec3, angle float64) Quat {
	a := axis.Normalize()
	s, c := math.Sincos(angle / 2)
	return Quat{a.X * s, a.Y * s, a.Z * s, c}
}

// Conjugate returns the inverse of a unit quaternion.
func (q Quat) Conjugate() Quat {
	return Quat{-q.X, -q.Y, -q.Z, q.W}
}

// Dot returns the four-component dot product of q and o.
func (q Quat) Dot(o Quat) float64 {
	return q.X*o.X + q.Y*o.Y + q.Z*o.Z + q.W*o.W
}

// Normalize returns q scaled to unit length, or QuatIdentity if q is zero.
func (q Quat) Normalize() Quat {
	l := math.Sqrt(q.Dot(q))
	if l == 0 {
		return QuatIdentity
	}
	return Quat{q.X / l, q.Y / l, q.Z / l, q.W / l}
}

// QuatLookRotation returns the rotation whose +Z axis points along forward
// and whose +Y axis is as close to up as possible. A zero forward yields
// QuatIdentity.
func QuatLookRotation(forward, up Vec3) Quat {
	f := forward.Normalize()
	if f == (Vec3{}) {
		return QuatIdentity
	}
	r := up.Cross(f)
	if r.Length() < 1e-9 {
		// forward is parallel to up: pick any perpendicular right axis.
		alt := Vec3{0, 0, 1}
		if f.Y > 0 {
			alt = Vec3{0, 0, -1}
		}
		r = alt.Cross(f)
	}
	r = r.Normalize()
	u := f.Cross(r)

	m00, m01, m02 := r.X, u.X, f.X
	m10, m11, m12 := r.Y, u.Y, f.Y
	m20, m21, m22 := r.Z, u.Z, f.Z

	var q Quat
	switch trace := m00 + m11 + m22; {
	case trace > 0:
		s := 0.5 / math.Sqrt(trace+1)
		q = Quat{(m21 - m12) * s, (m02 - m20) * s, (m10 - m01) * s, 0.25 / s}
	case m00 > m11 && m00 > m22:
		s := 2 * math.Sqrt(1+m00-m11-m22)
		q = Quat{0.25 * s, (m01 + m10) / s, (m02 + m20) / s, (m21 - m12) / s}
	case m11 > m22:
		s := 2 * math.Sqrt(1+m11-m00-m22)
		q = Quat{(m01 + m10) / s, 0.25 * s, (m12 + m21) / s, (m02 - m20) / s}
	default:
		s := 2 * math.Sqrt(1+m22-m00-m11)
		q = Quat{(m02 + m20) / s, (m12 + m21) / s, 0.25 * s, (m10 - m01) / s}
	}
	return q.Normalize()
}

// Slerp interpolates along the shortest arc from a to b. t is clamped to
// [0, 1].
func Slerp(a, b Quat, t float64) Quat {
	t = math.Max(0, math.Min(1, t))
	d := a.Dot(b)
	if d < 0 {
		b = Quat{-b.X, -b.Y, -b.Z, -b.W}
		d = -d
	}
	if d > 0.9995 {
		return Quat{
			a.X + (b.X-a.X)*t,
			a.Y + (b.Y-a.Y)*t,
			a.Z + (b.Z-a.Z)*t,
			a.W + (b.W-a.W)*t,
		}.Normalize()
	}
	theta := math.Acos(d)
	sin := math.Sin(theta)
	wa := math.Sin((1-t)*theta) / sin
	wb := math.Sin(t*theta) / sin
	return Quat{
		a.X*wa + b.X*wb,
		a.Y*wa + b.Y*wb,
		a.Z*wa + b.Z*wb,
		a.W*wa + b.W*wb,
	}
}

// Rotate applies q to v.
func (q Quat) Rotate(v Vec3) Vec3 {
	// v' = v + 2w(u×v) + 2u×(u×v)
	u := Vec3{q.X, q.Y, q.Z}
	t := u.Cross(v).Scale(2)
	return v.Add(t.Scale(q.W)).Add(u.Cross(t))
}

// Pose is a rigid transform with optional non-uniform scale.
type Pose struct {
	Position Vec3
	Rotation Quat
	Scale    Vec3
}

// NewPose creates a pose with unit scale.
func NewPose(position Vec3, rotation Quat) Pose {
	return Pose{Position: position, Rotation: rotation, Scale: Vec3{1, 1, 1}}
}

// Forward returns the pose's +Z axis in world space.
func (p Pose) Forward() Vec3 {
	return p.rotation().Rotate(Vec3{0, 0, 1})
}

// Right returns the pose's +X axis in world space.
func (p Pose) Right() Vec3 {
	return p.rotation().Rotate(Vec3{1, 0, 0})
}

// Up returns the pose's +Y axis in world space.
func (p Pose) Up() Vec3 {
	return p.rotation().Rotate(Vec3{0, 1, 0})
}

func (p Pose) rotation() Quat {
	if p.Rotation == (Quat{}) {
		return QuatIdentity
	}
	return p.Rotation
}

func (p Pose) scale() Vec3 {
	s := p.Scale
	if s == (Vec3{}) {
		return Vec3{1, 1, 1}
	}
	return s
}

// TransformPoint converts a local point to world space.
func (p Pose) TransformPoint(local Vec3) Vec3 {
	s := p.scale()
	scaled := Vec3{local.X * s.X, local.Y * s.Y, local.Z * s.Z}
	return p.rotation().Rotate(scaled).Add(p.Position)
}

// InverseTransformPoint converts a world point to local space.
func (p Pose) InverseTransformPoint(world Vec3) Vec3 {
	r := p.rotation().Conjugate().Rotate(world.Sub(p.Position))
	s := p.scale()
	return Vec3{safeDiv(r.X, s.X), safeDiv(r.Y, s.Y), safeDiv(r.Z, s.Z)}
}

// InverseTransformDirection converts a world direction to local space,
// including the inverse scale.
func (p Pose) InverseTransformDirection(world Vec3) Vec3 {
	r := p.rotation().Conjugate().Rotate(world)
	s := p.scale()
	return Vec3{safeDiv(r.X, s.X), safeDiv(r.Y, s.Y), safeDiv(r.Z, s.Z)}
}

func safeDiv(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}

// Ray is a half-line in world space.
type Ray struct {
	Origin    Vec3
	Direction Vec3
}

// RayFromPose returns the ray starting at the pose position along its forward axis.
func RayFromPose(p Pose) Ray {
	return Ray{Origin: p.Position, Direction: p.Forward()}
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// BoxCollider is an oriented box: a local axis-aligned box (Center, Size)
// placed in the world by Pose.
type BoxCollider struct {
	Pose   Pose
	Center Vec3
	Size   Vec3
}

// Raycast intersects the ray with the box. It returns the world-space hit
// point, or false when the ray misses. A ray starting inside the box hits
// at its exit point.
func (b *BoxCollider) Raycast(r Ray) (Vec3, bool) {
	origin := b.Pose.InverseTransformPoint(r.Origin)
	dir := b.Pose.InverseTransformDirection(r.Direction)
	half := b.Size.Scale(0.5)
	boxMin := b.Center.Sub(half)
	boxMax := b.Center.Add(half)

	t, ok := intersectSlabs(origin, dir, boxMin, boxMax)
	if !ok {
		return Vec3{}, false
	}
	local := Vec3{origin.X + dir.X*t, origin.Y + dir.Y*t, origin.Z + dir.Z*t}
	return b.Pose.TransformPoint(local), true
}

// intersectSlabs runs the slab test against an axis-aligned box and returns
// the entry distance, or the exit distance when the origin is inside.
func intersectSlabs(origin, dir, boxMin, boxMax Vec3) (float64, bool) {
	tmin := math.Inf(-1)
	tmax := math.Inf(1)

	o := [3]float64{origin.X, origin.Y, origin.Z}
	d := [3]float64{dir.X, dir.Y, dir.Z}
	lo := [3]float64{boxMin.X, boxMin.Y, boxMin.Z}
	hi := [3]float64{boxMax.X, boxMax.Y, boxMax.Z}

	for i := 0; i < 3; i++ {
		if d[i] != 0 {
			t1 := (lo[i] - o[i]) / d[i]
			t2 := (hi[i] - o[i]) / d[i]
			if t1 > t2 {
				t1, t2 = t2, t1
			}
			if t1 > tmin {
				tmin = t1
			}
			if t2 < tmax {
				tmax = t2
			}
		} else if o[i] < lo[i] || o[i] > hi[i] {
			return 0, false
		}
	}

	if tmax < tmin || tmax < 0 {
		return 0, false
	}
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}

// Surface describes the panel plane for ray orientation checks.
type Surface struct {
	// Normal is the world-space surface normal. Rays must travel against it
	// unless DoubleSided is set.
	Normal      Vec3
	DoubleSided bool
}

// Facing reports whether a ray travelling along dir may hit the surface.
func (s *Surface) Facing(dir Vec3) bool {
	if s == nil || s.DoubleSided {
		return true
	}
	return dir.Dot(s.Normal) < 0
}
