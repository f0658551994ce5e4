package xrpanel

// RaySource yields the pointing ray of one controller or hand for the
// current frame.
type RaySource interface {
	Ray() (Ray, bool)
}

// PoseProvider reports a pointer pose, as tracked controllers do.
type PoseProvider interface {
	PointerPose() (Pose, bool)
}

// HandPoseProvider is a tracked hand. Its pointer pose is only meaningful
// while PointerPoseValid reports true.
type HandPoseProvider interface {
	PoseProvider
	PointerPoseValid() bool
}

// PoseRaySource casts along the forward axis of a controller's pointer pose.
type PoseRaySource struct {
	Provider PoseProvider
}

// Ray implements RaySource.
func (s *PoseRaySource) Ray() (Ray, bool) {
	if s == nil || s.Provider == nil {
		return Ray{}, false
	}
	pose, ok := s.Provider.PointerPose()
	if !ok {
		return Ray{}, false
	}
	return RayFromPose(pose), true
}

// HandRaySource casts along a tracked hand's pointer pose.
type HandRaySource struct {
	Hand HandPoseProvider
}

// Ray implements RaySource.
func (s *HandRaySource) Ray() (Ray, bool) {
	if s == nil || s.Hand == nil || !s.Hand.PointerPoseValid() {
		return Ray{}, false
	}
	pose, ok := s.Hand.PointerPose()
	if !ok {
		return Ray{}, false
	}
	return RayFromPose(pose), true
}

// StaticPose is a PoseProvider and HandPoseProvider with a fixed pose,
// for tests and desktop hosts.
type StaticPose struct {
	Pose  Pose
	Valid bool
}

// PointerPose implements PoseProvider.
func (s *StaticPose) PointerPose() (Pose, bool) { return s.Pose, s.Valid }

// PointerPoseValid implements HandPoseProvider.
func (s *StaticPose) PointerPoseValid() bool { return s.Valid }

// RayInteraction casts each hand's controller and hand rays at the panel
// collider once per frame and reports where they land in panel pixels.
type RayInteraction struct {
	Document *Document
	Surface  *Surface
	Collider *BoxCollider

	controllers map[Hand]RaySource
	hands       map[Hand]RaySource

	hits      []RayHit
	lastCoord Vec2
	overPanel bool
}

// NewRayInteraction creates a ray interaction for doc's panel.
func NewRayInteraction(doc *Document, surface *Surface, collider *BoxCollider) *RayInteraction {
	return &RayInteraction{
		Document:    doc,
		Surface:     surface,
		Collider:    collider,
		controllers: make(map[Hand]RaySource),
		hands:       make(map[Hand]RaySource),
	}
}

// SetControllerSource sets or, with nil, removes the controller ray for hand.
func (ri *RayInteraction) SetControllerSource(hand Hand, src RaySource) {
	setSource(&ri.controllers, hand, src)
}

// SetHandSource sets or, with nil, removes the hand-tracking ray for hand.
func (ri *RayInteraction) SetHandSource(hand Hand, src RaySource) {
	setSource(&ri.hands, hand, src)
}

func setSource(m *map[Hand]RaySource, hand Hand, src RaySource) {
	if src == nil {
		delete(*m, hand)
		return
	}
	if *m == nil {
		*m = make(map[Hand]RaySource)
	}
	(*m)[hand] = src
}

// Update recomputes this frame's hits. Controllers are processed before
// hands, left before right, so a hand with both reports the controller hit
// first.
func (ri *RayInteraction) Update() {
	ri.hits = ri.hits[:0]
	ri.overPanel = false

	if ri.Document == nil || !alive(ri.Document.Root()) || ri.Collider == nil {
		return
	}
	w, h := ri.Document.PanelSize()
	if w <= 0 || h <= 0 {
		return
	}

	for _, hand := range []Hand{HandLeft, HandRight} {
		ri.cast(ri.controllers[hand], hand, w, h)
	}
	for _, hand := range []Hand{HandLeft, HandRight} {
		ri.cast(ri.hands[hand], hand, w, h)
	}
}

func (ri *RayInteraction) cast(src RaySource, hand Hand, w, h float64) {
	if src == nil {
		return
	}
	ray, ok := src.Ray()
	if !ok {
		return
	}
	if !ri.Surface.Facing(ray.Direction) {
		return
	}
	hit, ok := ri.Collider.Raycast(ray)
	if !ok {
		return
	}
	size := ri.Collider.Size
	if size.X == 0 || size.Y == 0 {
		return
	}
	local := ri.Collider.Pose.InverseTransformPoint(hit).Sub(ri.Collider.Center)
	u := (local.X + size.X/2) / size.X
	v := (local.Y + size.Y/2) / size.Y

	coord := Vec2{u * w, v * h}
	ri.hits = append(ri.hits, RayHit{Hand: hand, PanelCoord: coord})
	ri.lastCoord = coord
	ri.overPanel = true
}

// Hits returns the hits computed by the last Update. The slice is reused by
// the next Update and MUST NOT be retained.
func (ri *RayInteraction) Hits() []RayHit {
	return ri.hits
}

// IsRayOverPanel reports whether any ray hit the panel in the last Update.
func (ri *RayInteraction) IsRayOverPanel() bool {
	return ri.overPanel
}

// PanelCoord returns the coordinate of the most recent hit.
func (ri *RayInteraction) PanelCoord() Vec2 {
	return ri.lastCoord
}
