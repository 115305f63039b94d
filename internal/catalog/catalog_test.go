package catalog

import (
	"testing"
)

func TestDefaultLibraryOrderAndLookup(t *testing.T) {
	c := Default()
	want := []string{"W20-1", "W20-7a", "R2-1-45", "G20-2", "W1-2", "W8-7", "channelizer"}
	all := c.All()
	if len(all) != len(want) {
		t.Fatalf("expected %d signs, got %d", len(want), len(all))
	}
	for i, id := range want {
		if all[i].ID != id {
			t.Fatalf("sign[%d] = %s, want %s", i, all[i].ID, id)
		}
		def, ok := c.Lookup(id)
		if !ok {
			t.Fatalf("lookup %s failed", id)
		}
		if def.Glyph == "" || def.Name == "" {
			t.Fatalf("sign %s missing name or glyph: %+v", id, def)
		}
	}
	if _, ok := c.Lookup("W99-9"); ok {
		t.Fatalf("expected unknown id to miss")
	}
}

func TestAllReturnsCopy(t *testing.T) {
	c := Default()
	all := c.All()
	all[0].Name = "mutated"
	if def, _ := c.Lookup(all[0].ID); def.Name == "mutated" {
		t.Fatalf("catalog must not be mutable through All()")
	}
}

func TestNewRejectsDuplicateAndEmptyIDs(t *testing.T) {
	if _, err := New(SignDefinition{ID: "a"}, SignDefinition{ID: " a "}); err == nil {
		t.Fatalf("expected duplicate id error")
	}
	if _, err := New(SignDefinition{ID: "  "}); err == nil {
		t.Fatalf("expected empty id error")
	}
	c, err := New(SignDefinition{ID: "cone"})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	def, _ := c.Lookup("cone")
	if def.Name != "cone" || def.Shape != ShapeUnknown {
		t.Fatalf("expected defaults applied, got %+v", def)
	}
}

func TestResolveFallsBackToPlaceholder(t *testing.T) {
	def := Default().Resolve("not-a-sign")
	if !def.IsPlaceholder() {
		t.Fatalf("expected placeholder, got %+v", def)
	}
	if Symbol(def) != '?' {
		t.Fatalf("placeholder symbol = %q", Symbol(def))
	}
}

func TestParseGlyphViewBox(t *testing.T) {
	def, _ := Default().Lookup("G20-2")
	info, err := ParseGlyph(def.Glyph)
	if err != nil {
		t.Fatalf("parse glyph: %v", err)
	}
	if info.Width != 160 || info.Height != 70 {
		t.Fatalf("unexpected viewBox: %+v", info)
	}
	for _, sign := range Default().All() {
		if _, err := ParseGlyph(sign.Glyph); err != nil {
			t.Fatalf("glyph for %s does not parse: %v", sign.ID, err)
		}
	}
	if _, err := ParseGlyph("<div/>"); err == nil {
		t.Fatalf("expected non-svg glyph to fail")
	}
}

func TestFootprintScalesWithGlyph(t *testing.T) {
	square, _ := Default().Lookup("W20-1")
	cols, rows := Footprint(square, 1)
	if cols != 2 || rows != 1 {
		t.Fatalf("square footprint = %dx%d, want 2x1", cols, rows)
	}
	cols, rows = Footprint(square, 2)
	if cols != 4 || rows != 2 {
		t.Fatalf("scaled footprint = %dx%d, want 4x2", cols, rows)
	}
	wide, _ := Default().Lookup("G20-2")
	if cols, _ := Footprint(wide, 1); cols <= 2 {
		t.Fatalf("wide glyph should span more columns, got %d", cols)
	}
}

func TestNewParsesGlyphOnce(t *testing.T) {
	wide, _ := Default().Lookup("G20-2")
	info, ok := wide.Geometry()
	if !ok || info.Width != 160 || info.Height != 70 {
		t.Fatalf("geometry = %+v, %v", info, ok)
	}
	wide.Glyph = ""
	if cols, _ := Footprint(wide, 1); cols <= 2 {
		t.Fatalf("footprint should use the geometry parsed by New, got %d cols", cols)
	}

	loose := SignDefinition{ID: "loose", Glyph: `<svg viewBox="0 0 50 100"/>`}
	if info, ok := loose.Geometry(); !ok || info.Width != 50 {
		t.Fatalf("definitions built by hand parse on demand, got %+v, %v", info, ok)
	}
	if _, ok := Placeholder().Geometry(); !ok {
		t.Fatalf("placeholder should report a default geometry")
	}
}
