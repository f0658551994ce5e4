package xrpanel

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/jsonc"
)

// scriptStep is a single action of an input script.
type scriptStep struct {
	Action string  `json:"action"`
	Hand   string  `json:"hand,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	FromX  float64 `json:"fromX,omitempty"`
	FromY  float64 `json:"fromY,omitempty"`
	ToX    float64 `json:"toX,omitempty"`
	ToY    float64 `json:"toY,omitempty"`
	Frames int     `json:"frames,omitempty"`
}

// inputScript is the top-level structure of a script file.
type inputScript struct {
	Steps []scriptStep `json:"steps"`
}

type scriptDrag struct {
	hand     Hand
	from, to Vec2
	frames   int
	frame    int
}

// ScriptRunner replays a scripted sequence of ray hits and trigger edges.
// It is a HitSource: hits set by the script persist across frames until
// cleared. Call Step once per frame before ElementPicker.Update.
type ScriptRunner struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	drag      *scriptDrag
	done      bool

	positions map[Hand]Vec2
	order     []Hand
	hits      []RayHit
}

// LoadInputScript parses a script. The input is JSON that may carry // and
// /* */ comments and trailing commas.
//
//	{"steps": [
//	  {"action": "hit", "hand": "Left", "x": 100, "y": 50},
//	  {"action": "wait", "frames": 10},  // let hover settle
//	  {"action": "press"},
//	  {"action": "release"},
//	  {"action": "drag", "fromX": 0, "fromY": 0, "toX": 100, "toY": 0, "frames": 5},
//	  {"action": "clear"}
//	]}
func LoadInputScript(data []byte) (*ScriptRunner, error) {
	var script inputScript
	if err := json.Unmarshal(jsonc.ToJSON(data), &script); err != nil {
		return nil, fmt.Errorf("parse input script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse input script: no steps")
	}
	for i, st := range script.Steps {
		switch st.Action {
		case "hit", "clear", "press", "release", "wait", "drag":
		default:
			return nil, fmt.Errorf("parse input script: step %d: unknown action %q", i, st.Action)
		}
		if st.Hand != "" && Hand(st.Hand) != HandLeft && Hand(st.Hand) != HandRight {
			return nil, fmt.Errorf("parse input script: step %d: unknown hand %q", i, st.Hand)
		}
	}
	return &ScriptRunner{steps: script.Steps, positions: make(map[Hand]Vec2)}, nil
}

// Done reports whether every step has been executed.
func (r *ScriptRunner) Done() bool {
	return r.done
}

// Hits implements HitSource.
func (r *ScriptRunner) Hits() []RayHit {
	r.hits = r.hits[:0]
	for _, hand := range r.order {
		r.hits = append(r.hits, RayHit{Hand: hand, PanelCoord: r.positions[hand]})
	}
	return r.hits
}

func stepHand(st scriptStep) Hand {
	if st.Hand == "" {
		return HandLeft
	}
	return Hand(st.Hand)
}

func (r *ScriptRunner) setHit(hand Hand, at Vec2) {
	if _, ok := r.positions[hand]; !ok {
		r.order = append(r.order, hand)
	}
	r.positions[hand] = at
}

func (r *ScriptRunner) clearHit(hand Hand) {
	if _, ok := r.positions[hand]; !ok {
		return
	}
	delete(r.positions, hand)
	for i, h := range r.order {
		if h == hand {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Step advances the script by one frame. Immediate actions (hit, clear,
// press, release) run back to back until a wait or drag consumes the frame.
func (r *ScriptRunner) Step(p Presser) {
	if r.done {
		return
	}
	if r.drag != nil {
		d := r.drag
		d.frame++
		t := float64(d.frame) / float64(d.frames)
		r.setHit(d.hand, d.from.Add(d.to.Sub(d.from).Scale(t)))
		if d.frame >= d.frames {
			r.drag = nil
		}
		r.checkDone()
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		r.checkDone()
		return
	}

	for r.cursor < len(r.steps) {
		st := r.steps[r.cursor]
		r.cursor++
		hand := stepHand(st)

		switch st.Action {
		case "hit":
			r.setHit(hand, Vec2{st.X, st.Y})
		case "clear":
			r.clearHit(hand)
		case "press":
			if p != nil {
				p.Press(hand)
			}
		case "release":
			if p != nil {
				p.Release(hand)
			}
		case "wait":
			if st.Frames > 0 {
				r.waitCount = st.Frames - 1 // this frame counts as one
			}
			r.checkDone()
			return
		case "drag":
			frames := max(st.Frames, 1)
			from := Vec2{st.FromX, st.FromY}
			r.setHit(hand, from)
			if frames > 1 {
				r.drag = &scriptDrag{hand: hand, from: from, to: Vec2{st.ToX, st.ToY}, frames: frames - 1}
			} else {
				r.setHit(hand, Vec2{st.ToX, st.ToY})
			}
			r.checkDone()
			return
		}
	}
	r.checkDone()
}

func (r *ScriptRunner) checkDone() {
	if r.cursor >= len(r.steps) && r.waitCount == 0 && r.drag == nil {
		r.done = true
	}
}

// RunScript drives p with r until the script is done and one more frame has
// run, or maxFrames frames have elapsed. Each frame advances the picker by
// dt. It returns the number of frames run.
func RunScript(p *ElementPicker, r *ScriptRunner, dt float64, maxFrames int) int {
	frames := 0
	for frames < maxFrames {
		wasDone := r.Done()
		r.Step(p)
		p.Update(dt)
		frames++
		if wasDone {
			break
		}
	}
	return frames
}
