package mask_test

import (
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"dnnbrain/internal/mask"
	"dnnbrain/internal/services"
)

func TestSetAndGet(t *testing.T) {
	m := mask.New()
	if err := m.Set("conv1", []int{3, 5}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := m.Set("conv2", nil); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	channels, ok := m.Get("conv1")
	if !ok {
		t.Fatal("expected conv1 to be selected")
	}
	if !reflect.DeepEqual(channels, []int{3, 5}) {
		t.Fatalf("unexpected channels: %v", channels)
	}

	channels, ok = m.Get("conv2")
	if !ok {
		t.Fatal("expected conv2 to be selected")
	}
	if channels != nil {
		t.Fatalf("expected all-channels selection, got %v", channels)
	}

	if _, ok := m.Get("fc3"); ok {
		t.Fatal("expected fc3 to be absent")
	}
}

func TestSetReplacesChannelsKeepsOrder(t *testing.T) {
	m := mask.New()
	for _, layer := range []string{"conv1", "conv2", "fc3"} {
		if err := m.Set(layer, nil); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
	}
	if err := m.Set("conv2", []int{7}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if got := m.Layers(); !reflect.DeepEqual(got, []string{"conv1", "conv2", "fc3"}) {
		t.Fatalf("unexpected layer order: %v", got)
	}
	channels, _ := m.Get("conv2")
	if !reflect.DeepEqual(channels, []int{7}) {
		t.Fatalf("unexpected channels after replace: %v", channels)
	}
}

func TestSetRejectsEmptyLayerName(t *testing.T) {
	m := mask.New()
	if err := m.Set("  ", nil); !errors.Is(err, services.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestDeleteAndClear(t *testing.T) {
	m := mask.New()
	_ = m.Set("conv1", nil)
	_ = m.Set("conv2", []int{1})

	m.Delete("conv1")
	if m.Len() != 1 {
		t.Fatalf("expected 1 layer after delete, got %d", m.Len())
	}
	if _, ok := m.Get("conv1"); ok {
		t.Fatal("expected conv1 to be removed")
	}

	m.Delete("missing") // no-op

	m.Clear()
	if m.Len() != 0 {
		t.Fatalf("expected empty mask after clear, got %d layers", m.Len())
	}
}

func TestGetReturnsCopy(t *testing.T) {
	m := mask.New()
	_ = m.Set("conv1", []int{1, 2})
	channels, _ := m.Get("conv1")
	channels[0] = 99
	again, _ := m.Get("conv1")
	if again[0] != 1 {
		t.Fatal("Get must not expose internal storage")
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	m := mask.New()
	_ = m.Set("conv1", []int{3, 5})
	_ = m.Set("conv2", nil)
	_ = m.Set("fc3", []int{10})

	path := filepath.Join(t.TempDir(), "test.dmask.csv")
	if err := m.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded := mask.New()
	if err := loaded.Load(path); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if !reflect.DeepEqual(loaded.Layers(), []string{"conv1", "conv2", "fc3"}) {
		t.Fatalf("unexpected layers: %v", loaded.Layers())
	}
	channels, _ := loaded.Get("conv1")
	if !reflect.DeepEqual(channels, []int{3, 5}) {
		t.Fatalf("unexpected conv1 channels: %v", channels)
	}
	channels, _ = loaded.Get("conv2")
	if channels != nil {
		t.Fatalf("expected conv2 all channels, got %v", channels)
	}
}

func TestLoadReplacesPriorContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "replace.dmask.csv")
	fresh := mask.New()
	_ = fresh.Set("fc3", nil)
	if err := fresh.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	m := mask.New()
	_ = m.Set("conv1", []int{1})
	if err := m.Load(path); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !reflect.DeepEqual(m.Layers(), []string{"fc3"}) {
		t.Fatalf("expected prior content to be replaced, got %v", m.Layers())
	}
}

func TestLoadMissingFile(t *testing.T) {
	m := mask.New()
	err := m.Load(filepath.Join(t.TempDir(), "absent.dmask.csv"))
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestReadParsesCommentsAndAllKeyword(t *testing.T) {
	doc := strings.Join([]string{
		"# selection for the pilot experiment",
		"conv1,all",
		"conv5,1,22,36",
		"",
		"fc3,All",
	}, "\n")

	m, err := mask.Read(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if m.Len() != 3 {
		t.Fatalf("expected 3 layers, got %d", m.Len())
	}
	channels, _ := m.Get("conv5")
	if !reflect.DeepEqual(channels, []int{1, 22, 36}) {
		t.Fatalf("unexpected conv5 channels: %v", channels)
	}
	channels, _ = m.Get("fc3")
	if channels != nil {
		t.Fatalf("expected fc3 all channels, got %v", channels)
	}
}

func TestReadDuplicateLayerLastWins(t *testing.T) {
	doc := "conv1,1,2\nconv1,9\n"
	m, err := mask.Read(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	channels, _ := m.Get("conv1")
	if !reflect.DeepEqual(channels, []int{9}) {
		t.Fatalf("expected last row to win, got %v", channels)
	}
}

func TestReadRejectsMalformedRecords(t *testing.T) {
	cases := []struct {
		name string
		doc  string
	}{
		{"missing channels", "conv1\n"},
		{"bad channel number", "conv1,three\n"},
		{"zero channel", "conv1,0\n"},
		{"negative channel", "conv1,-2\n"},
		{"empty layer", ",1,2\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := mask.Read(strings.NewReader(tc.doc))
			if !errors.Is(err, services.ErrFileFormat) {
				t.Fatalf("expected ErrFileFormat, got %v", err)
			}
		})
	}
}
