package mask

import (
	"dnnbrain/internal/services"
)

// Build constructs a mask either by combining layers and channels or by
// loading a mask file. Exactly one of layers and maskFile must be provided.
//
// With a single layer, channels (which may be nil, meaning all channels)
// selects that layer's channels. With multiple layers and nil channels, every
// layer is selected with all channels. With multiple layers and a channel
// list of the same length, layers and channels pair positionally, one channel
// per layer. A layer needing several explicit channels while other layers
// also specify channels is not expressible in the multi-layer form; select it
// on its own or list it in a mask file instead.
//
// All preconditions are validated before any selection is made, so a failed
// Build never returns a partially populated mask.
func Build(layers []string, channels []int, maskFile string) (*Mask, error) {
	if (layers == nil) == (maskFile == "") {
		return nil, services.Invalid("use one and only one of 'layers' and 'mask_file'")
	}
	if layers == nil && channels != nil {
		return nil, services.Invalid("'channels' can't be used without 'layers'")
	}

	m := New()
	if layers == nil {
		if err := m.Load(maskFile); err != nil {
			return nil, err
		}
		return m, nil
	}

	switch n := len(layers); {
	case n == 0:
		return nil, services.Invalid("'layers' can't be empty")
	case n == 1:
		if err := m.Set(layers[0], channels); err != nil {
			return nil, err
		}
	case channels == nil:
		for _, layer := range layers {
			if err := m.Set(layer, nil); err != nil {
				return nil, err
			}
		}
	case len(channels) == n:
		// One-to-one correspondence between layers and channels.
		for i, layer := range layers {
			if err := m.Set(layer, []int{channels[i]}); err != nil {
				return nil, err
			}
		}
	default:
		return nil, services.Invalid("'channels' must be nil or a list with the same length as 'layers' when more than one layer is given")
	}
	return m, nil
}
