package source

import (
	"strings"
	"testing"
)

const sampleFeatureCollection = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "properties": {"tzid": "Europe/Paris"},
      "geometry": {
        "type": "Polygon",
        "coordinates": [[[0,0],[10,0],[10,10],[0,10],[0,0]]]
      }
    },
    {
      "type": "Feature",
      "properties": {"tzid": "Africa/El_Aaiun"},
      "geometry": {
        "type": "MultiPolygon",
        "coordinates": [[[[20,20],[30,20],[30,30],[20,30],[20,20]]]]
      }
    }
  ]
}`

func TestLoadParsesFeatures(t *testing.T) {
	result, err := Load(strings.NewReader(sampleFeatureCollection), 1)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(result.Sources) != 2 {
		t.Fatalf("len(Sources) = %d, want 2", len(result.Sources))
	}

	paris := result.Sources[0]
	if paris.ID != "Europe/Paris" {
		t.Errorf("Sources[0].ID = %q, want Europe/Paris", paris.ID)
	}
	if paris.Index != 1 {
		t.Errorf("Sources[0].Index = %d, want 1", paris.Index)
	}
	if len(paris.Included) != 1 {
		t.Fatalf("len(Included) = %d, want 1", len(paris.Included))
	}

	if idx, ok := result.ByID["Africa/El_Aaiun"]; !ok || idx != 2 {
		t.Errorf("ByID[Africa/El_Aaiun] = (%d, %v), want (2, true)", idx, ok)
	}
	if result.ByIndex[2].ID != "Africa/El_Aaiun" {
		t.Errorf("ByIndex[2].ID = %q, want Africa/El_Aaiun", result.ByIndex[2].ID)
	}
}

func TestLoadRejectsMissingTZID(t *testing.T) {
	const badFC = `{
		"type": "FeatureCollection",
		"features": [
			{"type": "Feature", "properties": {}, "geometry": {"type": "Polygon", "coordinates": [[[0,0],[1,0],[1,1],[0,0]]]}}
		]
	}`
	_, err := Load(strings.NewReader(badFC), 1)
	if err == nil {
		t.Fatal("Load with missing tzid: expected error, got nil")
	}
	if _, ok := err.(*InvalidInputError); !ok {
		t.Fatalf("expected *InvalidInputError, got %T", err)
	}
}

func TestLoadRejectsUnsupportedGeometry(t *testing.T) {
	const badFC = `{
		"type": "FeatureCollection",
		"features": [
			{"type": "Feature", "properties": {"tzid": "X"}, "geometry": {"type": "Point", "coordinates": [0,0]}}
		]
	}`
	_, err := Load(strings.NewReader(badFC), 1)
	if err == nil {
		t.Fatal("Load with Point geometry: expected error, got nil")
	}
}

func TestLoadRejectsMalformedJSON(t *testing.T) {
	_, err := Load(strings.NewReader("not json"), 1)
	if err == nil {
		t.Fatal("Load of malformed JSON: expected error, got nil")
	}
}
