package sink

import (
	"encoding/json"

	"github.com/matzehuels/jsonviz/pkg/scene"
)

// RenderJSON exports the scene as a pretty-printed JSON document. The
// document holds every box, row, dot and edge with their coordinates, so an
// external renderer can draw the same picture without running the layout.
func RenderJSON(s *scene.Scene) ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// ReadJSON parses a document written by [RenderJSON].
func ReadJSON(data []byte) (*scene.Scene, error) {
	var s scene.Scene
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
