package xrpanel

import (
	"fmt"
	"math"
)

// MovementMode selects how a PanelMovement places its panel relative to
// the viewer's head.
type MovementMode uint8

const (
	// MovementBillboard keeps the panel where it is, turns it to face the
	// viewer and lets it rise and fall with the head.
	MovementBillboard MovementMode = iota
	// MovementFollow carries the panel at a fixed offset in front of the head.
	MovementFollow
)

var movementModeNames = [...]string{"billboard", "follow"}

// String returns the lowercase mode name.
func (m MovementMode) String() string {
	if int(m) < len(movementModeNames) {
		return movementModeNames[m]
	}
	return fmt.Sprintf("MovementMode(%d)", uint8(m))
}

// ParseMovementMode returns the mode for a name as produced by String.
func ParseMovementMode(name string) (MovementMode, error) {
	for i, n := range movementModeNames {
		if n == name {
			return MovementMode(i), nil
		}
	}
	return MovementBillboard, fmt.Errorf("unknown movement mode %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (m MovementMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *MovementMode) UnmarshalText(text []byte) error {
	mode, err := ParseMovementMode(string(text))
	if err != nil {
		return err
	}
	*m = mode
	return nil
}

// PanelMovement moves a panel pose each frame from the camera pose. Call
// Update after the camera has moved for the frame. When Collider or Surface
// are set they are kept in step with the panel, so ray casts made later in
// the frame see the new placement.
//
// The panel's +Z axis points away from the viewer; its visible face is
// -Z, which is what Surface.Normal is set to.
type PanelMovement struct {
	Config   PanelMovementConfig
	Collider *BoxCollider
	Surface  *Surface

	pose    Pose
	started bool

	snapNext     bool
	velocity     Vec3
	allowedPos   Vec3
	allowedRot   Quat
	baseCameraY  float64
	basePanelY   float64
	billboardVel float64
	billboardRot Quat
}

// NewPanelMovement returns a movement that starts from the given panel pose.
func NewPanelMovement(cfg PanelMovementConfig, pose Pose) *PanelMovement {
	return &PanelMovement{Config: cfg, pose: pose}
}

// Pose returns the panel's current pose.
func (m *PanelMovement) Pose() Pose { return m.pose }

// SetPose places the panel and clears any in-flight smoothing. The next
// Update re-runs the start-up placement.
func (m *PanelMovement) SetPose(p Pose) {
	m.pose = p
	m.started = false
	m.velocity = Vec3{}
	m.billboardVel = 0
	m.sync()
}

// Snap makes the next follow step jump straight to its target instead of
// easing toward it.
func (m *PanelMovement) Snap() { m.snapNext = true }

// Start records the baseline for the configured mode. Follow places the
// panel at its offset in front of the camera; billboard remembers the
// current camera and panel heights. Update calls Start on first use.
func (m *PanelMovement) Start(camera Pose) {
	m.started = true
	m.velocity = Vec3{}
	m.billboardVel = 0
	switch m.Config.Mode {
	case MovementFollow:
		pos := m.clampY(camera.TransformPoint(m.Config.LocalOffset))
		toCamera := camera.Position.Sub(pos)
		m.pose.Position = pos
		m.pose.Rotation = QuatLookRotation(toCamera.Scale(-1), Vec3{0, 1, 0})
		m.allowedPos = m.pose.Position
		m.allowedRot = m.pose.Rotation
	default:
		m.baseCameraY = camera.Position.Y
		m.basePanelY = m.pose.Position.Y
		m.billboardRot = m.pose.rotation()
	}
	m.sync()
}

// Update advances the panel by dt seconds toward the placement implied by
// the camera pose. Non-positive dt is ignored.
func (m *PanelMovement) Update(camera Pose, dt float64) {
	if !m.started {
		m.Start(camera)
	}
	if dt <= 0 || math.IsNaN(dt) || math.IsInf(dt, 0) {
		return
	}
	switch m.Config.Mode {
	case MovementFollow:
		m.follow(camera, dt)
	default:
		m.billboard(camera, dt)
	}
	m.sync()
}

func (m *PanelMovement) follow(camera Pose, dt float64) {
	targetPos, targetRot := m.allowedPos, m.allowedRot
	if pitch := CameraPitch(camera); pitch >= m.Config.MinPitch && pitch <= m.Config.MaxPitch {
		targetPos = m.clampY(camera.Position.Add(camera.rotation().Rotate(m.Config.LocalOffset)))
		targetRot = QuatLookRotation(camera.Forward(), Vec3{0, 1, 0})
		m.allowedPos, m.allowedRot = targetPos, targetRot
	}

	if m.snapNext {
		m.snapNext = false
		m.pose.Position = targetPos
		m.pose.Rotation = targetRot
		m.velocity = Vec3{}
		return
	}
	smoothTime := 1 / math.Max(m.Config.FollowSpeed, 1e-4)
	m.pose.Position = smoothDampVec(m.pose.Position, targetPos, &m.velocity, smoothTime, dt)
	m.pose.Rotation = Slerp(m.pose.rotation(), targetRot, dt*m.Config.FollowSpeed)
}

func (m *PanelMovement) billboard(camera Pose, dt float64) {
	targetY := m.basePanelY + (camera.Position.Y-m.baseCameraY)*m.Config.RelativeYFactor
	smoothTime := 1 / math.Max(m.Config.FollowSpeed, 1e-4)
	m.pose.Position.Y = smoothDamp(m.pose.Position.Y, targetY, &m.billboardVel, smoothTime, dt)

	look := camera.Position.Sub(m.pose.Position)
	look.Y = 0
	if look.Dot(look) > 1e-4 {
		m.billboardRot = QuatLookRotation(look.Scale(-1), Vec3{0, 1, 0})
	}
	m.pose.Rotation = Slerp(m.pose.rotation(), m.billboardRot, dt*m.Config.RotationLerpSpeed)
}

func (m *PanelMovement) clampY(p Vec3) Vec3 {
	if m.Config.LockVertical {
		p.Y = math.Max(m.Config.MinY, math.Min(m.Config.MaxY, p.Y))
	}
	return p
}

// sync copies the panel placement into the collider and surface. The
// collider keeps its own scale.
func (m *PanelMovement) sync() {
	if m.Collider != nil {
		m.Collider.Pose.Position = m.pose.Position
		m.Collider.Pose.Rotation = m.pose.Rotation
	}
	if m.Surface != nil {
		m.Surface.Normal = m.pose.Forward().Scale(-1)
	}
}

// CameraPitch returns how far the camera looks below the horizon, in
// degrees. Looking up gives a negative angle. Straight down is 90.
func CameraPitch(camera Pose) float64 {
	fwd := camera.Forward()
	flat := fwd.ProjectOnPlane(Vec3{0, 1, 0})
	if flat.Dot(flat) < 1e-12 {
		if fwd.Y < 0 {
			return 90
		}
		return -90
	}
	return SignedAngle(flat, fwd, camera.Right())
}

// smoothDamp eases current toward target like a critically damped spring
// that reaches it in roughly smoothTime seconds. velocity carries the
// spring state between calls. The result never overshoots the target.
func smoothDamp(current, target float64, velocity *float64, smoothTime, dt float64) float64 {
	smoothTime = math.Max(1e-4, smoothTime)
	omega := 2 / smoothTime
	x := omega * dt
	decay := 1 / (1 + x + 0.48*x*x + 0.235*x*x*x)

	change := current - target
	temp := (*velocity + omega*change) * dt
	*velocity = (*velocity - omega*temp) * decay
	out := target + (change+temp)*decay

	if (target-current > 0) == (out > target) {
		out = target
		*velocity = 0
	}
	return out
}

func smoothDampVec(current, target Vec3, velocity *Vec3, smoothTime, dt float64) Vec3 {
	return Vec3{
		smoothDamp(current.X, target.X, &velocity.X, smoothTime, dt),
		smoothDamp(current.Y, target.Y, &velocity.Y, smoothTime, dt),
		smoothDamp(current.Z, target.Z, &velocity.Z, smoothTime, dt),
	}
}
