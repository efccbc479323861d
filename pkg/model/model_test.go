package model

import (
	"bytes"
	"strings"
	"testing"

	sgerrors "github.com/airvair/stampgraph/pkg/errors"
)

func TestParseControllerKind(t *testing.T) {
	tests := []struct {
		in      string
		want    ControllerKind
		wantErr bool
	}{
		{"", KindIndividual, false},
		{"Individual", KindIndividual, false},
		{"software", KindSoftware, false},
		{"Organization", KindOrganisation, false},
		{"organisation", KindOrganisation, false},
		{"TEAM", KindTeam, false},
		{"committee", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseControllerKind(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseControllerKind(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseControllerKind(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestIsComplexTeam(t *testing.T) {
	members := []Member{{ID: "m1", Name: "A"}}
	tests := []struct {
		name string
		c    Controller
		want bool
	}{
		{"team with members", Controller{Kind: KindTeam, Members: members}, true},
		{"single unit", Controller{Kind: KindTeam, Members: members, SingleUnit: true}, false},
		{"no members", Controller{Kind: KindTeam}, false},
		{"not a team", Controller{Kind: KindOrganisation, Members: members}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.c.IsComplexTeam(); got != tt.want {
				t.Errorf("IsComplexTeam() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDanglingReferences(t *testing.T) {
	m := Model{
		Controllers: []Controller{{ID: "a", Name: "A"}},
		Components:  []Component{{ID: "b", Name: "B"}},
		ControlPaths: []ControlPath{
			{ID: "cp1", SourceID: "a", TargetID: "b"},
			{ID: "cp2", SourceID: "a", TargetID: "ghost"},
		},
		FeedbackPaths: []FeedbackPath{{ID: "fb1", SourceID: "nobody", TargetID: "a"}},
	}

	got := m.DanglingReferences()
	want := []string{"cp2: ghost", "fb1: nobody"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("DanglingReferences() = %v, want %v", got, want)
	}
}

func TestValidate(t *testing.T) {
	base := func() Model {
		return Model{
			Controllers: []Controller{{
				ID: "team", Name: "Crew", Kind: KindTeam,
				Members:  []Member{{ID: "m1"}, {ID: "m2"}},
				Contexts: []Context{{ID: "ctx", Roles: map[string]string{"m1": "lead"}}},
			}},
			Components:   []Component{{ID: "plant", Name: "Plant"}},
			ControlPaths: []ControlPath{{ID: "cp", SourceID: "team", TargetID: "plant"}},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Model)
		wantErr bool
	}{
		{"valid", func(*Model) {}, false},
		{"dangling reference is fine", func(m *Model) { m.ControlPaths[0].TargetID = "ghost" }, false},
		{"duplicate node id", func(m *Model) { m.Components[0].ID = "team" }, true},
		{"missing component id", func(m *Model) { m.Components[0].ID = "" }, true},
		{"duplicate member", func(m *Model) { m.Controllers[0].Members[1].ID = "m1" }, true},
		{"bad kind", func(m *Model) { m.Controllers[0].Kind = ControllerKind(42) }, true},
		{"duplicate path id", func(m *Model) {
			m.ControlPaths = append(m.ControlPaths, ControlPath{ID: "cp", SourceID: "team", TargetID: "plant"})
		}, true},
		{"unknown active context", func(m *Model) { m.ActiveContexts = map[string]string{"team": "night"} }, true},
		{"known active context", func(m *Model) { m.ActiveContexts = map[string]string{"team": "ctx"} }, false},
		{"slash in id", func(m *Model) { m.Components[0].ID = "a/b" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := base()
			tt.mutate(&m)
			err := Validate(m)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !sgerrors.Is(err, sgerrors.ErrCodeInvalidModel) {
				t.Errorf("Validate() code = %v, want %v", sgerrors.GetCode(err), sgerrors.ErrCodeInvalidModel)
			}
		})
	}
}

func TestSampleIsValid(t *testing.T) {
	m := Sample()
	if err := Validate(m); err != nil {
		t.Fatalf("Sample() is invalid: %v", err)
	}
	if refs := m.DanglingReferences(); len(refs) != 0 {
		t.Errorf("Sample() has dangling references: %v", refs)
	}
}

func TestEncodeDecodeFormats(t *testing.T) {
	m := Sample()
	for _, format := range []Format{FormatJSON, FormatYAML, FormatTOML} {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			if err := Encode(&buf, m, format); err != nil {
				t.Fatalf("Encode: %v", err)
			}
			got, err := Decode(&buf, format)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if len(got.Controllers) != len(m.Controllers) {
				t.Fatalf("controllers = %d, want %d", len(got.Controllers), len(m.Controllers))
			}
			if got.Controllers[1].Kind != KindTeam {
				t.Errorf("kind = %v, want team", got.Controllers[1].Kind)
			}
			if len(got.Controllers[1].Members) != 2 {
				t.Errorf("members = %d, want 2", len(got.Controllers[1].Members))
			}
			if got.ActiveContexts[m.Controllers[1].ID] != m.ActiveContexts[m.Controllers[1].ID] {
				t.Error("active context lost")
			}
		})
	}
}

func TestDecodeYAML(t *testing.T) {
	src := `
controllers:
  - id: ops
    name: Operations
    kind: organization
components:
  - id: pump
    name: Pump
controlPaths:
  - id: cp1
    sourceId: ops
    targetId: pump
    actions: [start, stop]
`
	m, err := Decode(strings.NewReader(src), FormatYAML)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if m.Controllers[0].Kind != KindOrganisation {
		t.Errorf("kind = %v, want organisation", m.Controllers[0].Kind)
	}
	if got := m.ControlPaths[0].Actions; len(got) != 2 || got[1] != "stop" {
		t.Errorf("actions = %v", got)
	}
}

func TestDecodeJSONRejectsUnknownKind(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"controllers":[{"id":"a","kind":"committee"}]}`), FormatJSON)
	if !sgerrors.Is(err, sgerrors.ErrCodeInvalidModel) {
		t.Errorf("Decode() error = %v, want INVALID_MODEL", err)
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"m.json", FormatJSON, false},
		{"m.YML", FormatYAML, false},
		{"dir/m.yaml", FormatYAML, false},
		{"m.toml", FormatTOML, false},
		{"m.xml", "", true},
	}
	for _, tt := range tests {
		got, err := FormatFromPath(tt.path)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("FormatFromPath(%q) = %q, %v", tt.path, got, err)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("does-not-exist.json")
	if !sgerrors.Is(err, sgerrors.ErrCodeFileNotFound) {
		t.Errorf("Load() error = %v, want FILE_NOT_FOUND", err)
	}
}
