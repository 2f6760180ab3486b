package mask

import (
	"strings"

	"dnnbrain/internal/services"
)

// Mask accumulates a selection of DNN layers and, within each layer, the
// channels of interest. A nil channel list means "all channels". Layer order
// is insertion order, so serialization and iteration are deterministic.
type Mask struct {
	order    []string
	channels map[string][]int
}

// New returns an empty mask.
func New() *Mask {
	return &Mask{channels: make(map[string][]int)}
}

// Set selects a layer with the given channels. A nil or empty channel list
// selects all channels. Setting a layer that is already selected replaces its
// channels but keeps its position.
func (m *Mask) Set(layer string, channels []int) error {
	layer = strings.TrimSpace(layer)
	if layer == "" {
		return services.Invalid("layer name can't be empty")
	}
	if m.channels == nil {
		m.channels = make(map[string][]int)
	}
	if _, exists := m.channels[layer]; !exists {
		m.order = append(m.order, layer)
	}
	if len(channels) == 0 {
		m.channels[layer] = nil
		return nil
	}
	m.channels[layer] = append([]int(nil), channels...)
	return nil
}

// Get returns the channel selection for a layer. A nil slice with ok=true
// means the layer is selected with all channels.
func (m *Mask) Get(layer string) (channels []int, ok bool) {
	if m == nil || m.channels == nil {
		return nil, false
	}
	channels, ok = m.channels[layer]
	if !ok {
		return nil, false
	}
	return append([]int(nil), channels...), true
}

// Layers returns the selected layer names in insertion order.
func (m *Mask) Layers() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.order...)
}

// Len returns the number of selected layers.
func (m *Mask) Len() int {
	if m == nil {
		return 0
	}
	return len(m.order)
}

// Delete removes a layer from the selection. Deleting an absent layer is a
// no-op.
func (m *Mask) Delete(layer string) {
	if m == nil || m.channels == nil {
		return
	}
	if _, ok := m.channels[layer]; !ok {
		return
	}
	delete(m.channels, layer)
	for i, name := range m.order {
		if name == layer {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}

// Clear removes every selection.
func (m *Mask) Clear() {
	m.order = nil
	m.channels = make(map[string][]int)
}
