package dephoist

import (
	"bytes"
	"testing"

	"github.com/golang/dephoist/hoist"
)

func TestHoistEndToEnd(t *testing.T) {
	leaf := &hoist.InputNode{Name: "lodash", Reference: "4.17.0"}
	mid := &hoist.InputNode{Name: "a", Reference: "1.0.0", Dependencies: []*hoist.InputNode{leaf}}
	root := &hoist.InputNode{Name: "root", Reference: "workspace:.", Dependencies: []*hoist.InputNode{mid}}

	var logBuf bytes.Buffer
	ctx := NewContext(&logBuf)

	res, err := Hoist(ctx, root, Options{Check: true, DebugLevel: 1})
	if err != nil {
		t.Fatalf("Hoist: %v", err)
	}

	found := false
	for _, d := range res.Root.Dependencies {
		if d.Name == "a" {
			for _, ad := range d.Dependencies {
				if ad.Name == "lodash" {
					t.Fatalf("lodash should have been hoisted out from under a")
				}
			}
		}
		if d.Name == "lodash" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected lodash hoisted to the output root, got %+v", res.Root)
	}
	if res.Dump == "" {
		t.Fatalf("expected a dump at DebugLevel 1")
	}
	if logBuf.Len() == 0 {
		t.Fatalf("expected Hoist to log something via ctx")
	}
}

func TestLoadConfigMissingFileIsNotAnError(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("expected a missing .dephoist.toml to be fine, got %v", err)
	}
	if cfg.DebugLevel != 0 || cfg.SelfCheck {
		t.Fatalf("expected zero-value config, got %+v", cfg)
	}
}

func TestReadConfigParsesTOML(t *testing.T) {
	cfg, err := ReadConfig(bytes.NewBufferString("debug_level = 2\nself_check = true\n"))
	if err != nil {
		t.Fatalf("ReadConfig: %v", err)
	}
	if cfg.DebugLevel != 2 || !cfg.SelfCheck {
		t.Fatalf("got %+v", cfg)
	}
}
