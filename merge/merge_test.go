package merge

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

type layerFixture struct {
	Name   string           `json:"name"`
	Layers []map[string]any `json:"layers"`
	Want   map[string]any   `json:"want"`
}

func loadLayerFixtures(t *testing.T) []layerFixture {
	t.Helper()

	raw, err := os.ReadFile(filepath.Join("testdata", "layers.json"))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	var fixtures []layerFixture
	if err := json.Unmarshal(raw, &fixtures); err != nil {
		t.Fatalf("decode fixture: %v", err)
	}
	return fixtures
}

func TestLayersFixtures(t *testing.T) {
	for _, fixture := range loadLayerFixtures(t) {
		t.Run(fixture.Name, func(t *testing.T) {
			got := Layers(fixture.Layers...)
			if !reflect.DeepEqual(got, fixture.Want) {
				t.Fatalf("expected %v, got %v", fixture.Want, got)
			}
		})
	}
}

func TestLayersDoesNotMutateInputs(t *testing.T) {
	strong := map[string]any{"limits": map[string]any{"pages": 10}}
	weak := map[string]any{"limits": map[string]any{"pages": 5, "copies": 2}}

	Layers(strong, weak)

	if len(strong["limits"].(map[string]any)) != 1 {
		t.Fatalf("strong layer mutated: %v", strong)
	}
	if len(weak["limits"].(map[string]any)) != 2 {
		t.Fatalf("weak layer mutated: %v", weak)
	}
}

func TestLayersStructs(t *testing.T) {
	type tray struct {
		Size   string
		Duplex *bool
	}
	type printer struct {
		Name string
		Tray tray
	}

	yes := true
	strong := printer{Name: "office", Tray: tray{Size: "letter"}}
	weak := printer{Name: "default", Tray: tray{Size: "a4", Duplex: &yes}}

	got := Layers(strong, weak)
	if got.Name != "office" {
		t.Fatalf("expected strong name, got %q", got.Name)
	}
	if got.Tray.Size != "letter" {
		t.Fatalf("expected strong tray size, got %q", got.Tray.Size)
	}
	if got.Tray.Duplex == nil || !*got.Tray.Duplex {
		t.Fatalf("expected weak duplex pointer to fill")
	}
	if got.Tray.Duplex == weak.Tray.Duplex {
		t.Fatalf("pointer should be cloned, not shared")
	}
}

func TestLayersEmpty(t *testing.T) {
	if got := Layers[map[string]any](); got != nil {
		t.Fatalf("expected zero value for no layers, got %v", got)
	}
}

func TestCloneDetachesValues(t *testing.T) {
	original := map[string]any{
		"tags":  []string{"a", "b"},
		"meta":  map[string]any{"depth": 1},
		"count": 3,
	}

	cloned := Clone(original)
	if !reflect.DeepEqual(cloned, original) {
		t.Fatalf("clone should equal original, got %v", cloned)
	}

	cloned["count"] = 9
	cloned["tags"].([]string)[0] = "z"
	cloned["meta"].(map[string]any)["depth"] = 2

	if original["count"] != 3 {
		t.Fatalf("original scalar mutated")
	}
	if original["tags"].([]string)[0] != "a" {
		t.Fatalf("original slice mutated")
	}
	if original["meta"].(map[string]any)["depth"] != 1 {
		t.Fatalf("original nested map mutated")
	}
}

func TestCloneNil(t *testing.T) {
	if got := Clone[map[string]any](nil); got != nil {
		t.Fatalf("expected nil map clone, got %v", got)
	}
	if got := Clone[*int](nil); got != nil {
		t.Fatalf("expected nil pointer clone, got %v", got)
	}
}
