package ecs

import (
	"github.com/phanxgames/bramble"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// DirectorEventType is the Donburi event type for bramble director events.
var DirectorEventType = events.NewEventType[bramble.Event]()

// SceneData identifies the bramble scene an entity mirrors.
type SceneData struct {
	Name   string
	NodeID uint32
}

// Scene is the component attached to one entity per running scene.
var Scene = donburi.NewComponentType[SceneData]()

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink creates an EventSink backed by a Donburi world. Events are
// queued on DirectorEventType and delivered by ProcessEvents.
func NewDonburiSink(world donburi.World) bramble.EventSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) EmitEvent(event bramble.Event) {
	switch event.Type {
	case bramble.EventSceneEnter:
		entity := s.world.Create(Scene)
		Scene.SetValue(s.world.Entry(entity), SceneData{Name: event.Name, NodeID: event.NodeID})
	case bramble.EventSceneExit:
		s.removeScene(event.NodeID)
	}
	DirectorEventType.Publish(s.world, event)
}

// removeScene deletes the entity mirroring the scene with the given node ID.
func (s *donburiSink) removeScene(id uint32) {
	var stale []donburi.Entity
	Scene.Each(s.world, func(e *donburi.Entry) {
		if Scene.Get(e).NodeID == id {
			stale = append(stale, e.Entity())
		}
	})
	for _, entity := range stale {
		s.world.Remove(entity)
	}
}

// RunningScenes returns the scenes currently mirrored in world.
func RunningScenes(world donburi.World) []SceneData {
	var out []SceneData
	Scene.Each(world, func(e *donburi.Entry) {
		out = append(out, *Scene.Get(e))
	})
	return out
}
