package bramble

// EventSink is the interface for optional ECS integration.
// When set on a Director, scene and menu events are forwarded to it.
type EventSink interface {
	EmitEvent(event Event)
}

// EventType identifies a director event.
type EventType uint8

const (
	EventSceneEnter       EventType = iota // a scene became the running scene
	EventSceneExit                         // a scene stopped running
	EventTransitionStart                   // a transition scene started
	EventTransitionFinish                  // a transition handed over to its in-scene
	EventMenuActivate                      // a menu item fired its callback
)

func (t EventType) String() string {
	switch t {
	case EventSceneEnter:
		return "scene_enter"
	case EventSceneExit:
		return "scene_exit"
	case EventTransitionStart:
		return "transition_start"
	case EventTransitionFinish:
		return "transition_finish"
	case EventMenuActivate:
		return "menu_activate"
	default:
		return "unknown"
	}
}

// Event carries the node a director event refers to.
type Event struct {
	Type   EventType
	Name   string
	NodeID uint32
	Tag    int
}

func (d *Director) emit(t EventType, n *Node) {
	if d.sink == nil || n == nil {
		return
	}
	d.sink.EmitEvent(Event{Type: t, Name: n.Name, NodeID: n.ID, Tag: n.Tag})
}
