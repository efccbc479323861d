package graph

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/airvair/stampgraph/pkg/model/modeltest"
)

func TestWriteReadDiagram(t *testing.T) {
	d := Build(modeltest.Random(7, 6), BuildOptions{})

	var buf bytes.Buffer
	if err := WriteDiagram(d, &buf); err != nil {
		t.Fatalf("WriteDiagram: %v", err)
	}
	back, err := ReadDiagram(&buf)
	if err != nil {
		t.Fatalf("ReadDiagram: %v", err)
	}
	if !reflect.DeepEqual(normalize(back), normalize(d)) {
		t.Errorf("round trip differs:\n got %+v\nwant %+v", back, d)
	}
}

func TestReadDiagramFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "diagram.json")
	d := Build(modeltest.FanOut(2), BuildOptions{})
	if err := WriteDiagramFile(d, path); err != nil {
		t.Fatalf("WriteDiagramFile: %v", err)
	}
	back, err := ReadDiagramFile(path)
	if err != nil {
		t.Fatalf("ReadDiagramFile: %v", err)
	}
	if len(back.Nodes) != 3 || len(back.Edges) != 2 {
		t.Errorf("got %d nodes, %d edges", len(back.Nodes), len(back.Edges))
	}
}

func TestReadDiagramFileNotFound(t *testing.T) {
	_, err := ReadDiagramFile(filepath.Join(t.TempDir(), "missing.json"))
	if err == nil || !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err = %v, want not-exist", err)
	}
}

func TestReadDiagramInvalid(t *testing.T) {
	if _, err := ReadDiagram(bytes.NewBufferString(`{"edges":[{"sourceHandle":"north-control"}]}`)); err == nil {
		t.Error("expected error for unknown handle side")
	}
}

// normalize maps nil and empty slices to the same value.
func normalize(d Diagram) Diagram {
	if len(d.Nodes) == 0 {
		d.Nodes = nil
	}
	if len(d.Edges) == 0 {
		d.Edges = nil
	}
	return d
}
