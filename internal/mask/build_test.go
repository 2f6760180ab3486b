package mask_test

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"dnnbrain/internal/mask"
	"dnnbrain/internal/services"
)

func TestBuildRequiresExactlyOneSource(t *testing.T) {
	if _, err := mask.Build(nil, nil, ""); !errors.Is(err, services.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for neither source, got %v", err)
	}
	if _, err := mask.Build([]string{"conv1"}, nil, "mask.dmask.csv"); !errors.Is(err, services.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for both sources, got %v", err)
	}
}

func TestBuildRejectsChannelsWithoutLayers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "some.dmask.csv")
	m := mask.New()
	_ = m.Set("conv1", nil)
	if err := m.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	_, err := mask.Build(nil, []int{1, 2}, path)
	if !errors.Is(err, services.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestBuildFromFileDelegatesToLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "from.dmask.csv")
	src := mask.New()
	_ = src.Set("conv1", []int{4})
	_ = src.Set("fc3", nil)
	if err := src.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	m, err := mask.Build(nil, nil, path)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if !reflect.DeepEqual(m.Layers(), []string{"conv1", "fc3"}) {
		t.Fatalf("unexpected layers: %v", m.Layers())
	}
	channels, _ := m.Get("conv1")
	if !reflect.DeepEqual(channels, []int{4}) {
		t.Fatalf("unexpected channels: %v", channels)
	}
}

func TestBuildFromMissingFile(t *testing.T) {
	_, err := mask.Build(nil, nil, filepath.Join(t.TempDir(), "absent.dmask.csv"))
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound to propagate, got %v", err)
	}
}

func TestBuildRejectsEmptyLayers(t *testing.T) {
	if _, err := mask.Build([]string{}, nil, ""); !errors.Is(err, services.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for empty layers, got %v", err)
	}
	if _, err := mask.Build([]string{}, []int{1}, ""); !errors.Is(err, services.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for empty layers with channels, got %v", err)
	}
}

func TestBuildSingleLayerTakesChannelsVerbatim(t *testing.T) {
	m, err := mask.Build([]string{"conv1"}, []int{3, 5}, "")
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if m.Len() != 1 {
		t.Fatalf("expected exactly one layer, got %d", m.Len())
	}
	channels, ok := m.Get("conv1")
	if !ok {
		t.Fatal("expected conv1 selected")
	}
	if !reflect.DeepEqual(channels, []int{3, 5}) {
		t.Fatalf("unexpected channels: %v", channels)
	}
}

func TestBuildSingleLayerAllChannels(t *testing.T) {
	m, err := mask.Build([]string{"conv1"}, nil, "")
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	channels, ok := m.Get("conv1")
	if !ok {
		t.Fatal("expected conv1 selected")
	}
	if channels != nil {
		t.Fatalf("expected all channels, got %v", channels)
	}
}

func TestBuildMultiLayerNoChannels(t *testing.T) {
	m, err := mask.Build([]string{"conv1", "conv2"}, nil, "")
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if !reflect.DeepEqual(m.Layers(), []string{"conv1", "conv2"}) {
		t.Fatalf("unexpected layers: %v", m.Layers())
	}
	for _, layer := range m.Layers() {
		channels, _ := m.Get(layer)
		if channels != nil {
			t.Fatalf("expected all channels for %s, got %v", layer, channels)
		}
	}
}

func TestBuildMultiLayerPairedChannels(t *testing.T) {
	m, err := mask.Build([]string{"conv1", "conv2"}, []int{3, 5}, "")
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	channels, _ := m.Get("conv1")
	if !reflect.DeepEqual(channels, []int{3}) {
		t.Fatalf("expected conv1 -> [3], got %v", channels)
	}
	channels, _ = m.Get("conv2")
	if !reflect.DeepEqual(channels, []int{5}) {
		t.Fatalf("expected conv2 -> [5], got %v", channels)
	}
}

func TestBuildMultiLayerMismatchedChannels(t *testing.T) {
	_, err := mask.Build([]string{"a", "b", "c"}, []int{1, 2}, "")
	if !errors.Is(err, services.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for mismatched lengths, got %v", err)
	}
}
