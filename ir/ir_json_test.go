package ir

import (
	"testing"

	json "github.com/goccy/go-json"
)

func TestOpJSON(t *testing.T) {
	op, meta := compile(t, `(?<w>ab)+\1`)

	data, err := json.Marshal(op)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if got["ir"] != "Seq" {
		t.Fatalf("ir = %v, want Seq", got["ir"])
	}

	parts := got["parts"].([]any)
	quant := parts[0].(map[string]any)
	if quant["ir"] != "Quant" || quant["max"] != "Inf" || quant["mode"] != "Greedy" {
		t.Errorf("quant = %v", quant)
	}

	group := quant["child"].(map[string]any)
	if group["ir"] != "Group" || group["name"] != "w" {
		t.Errorf("group = %v", group)
	}
	lit := group["body"].(map[string]any)
	if lit["ir"] != "Lit" || lit["value"] != "ab" {
		t.Errorf("lit = %v", lit)
	}

	backref := parts[1].(map[string]any)
	if backref["ir"] != "Backref" || backref["by_index"] != float64(1) {
		t.Errorf("backref = %v", backref)
	}

	metaData, err := json.Marshal(meta)
	if err != nil {
		t.Fatalf("Marshal metadata failed: %v", err)
	}
	var gotMeta map[string]any
	if err := json.Unmarshal(metaData, &gotMeta); err != nil {
		t.Fatalf("Unmarshal metadata failed: %v", err)
	}
	if _, ok := gotMeta["features"]; !ok {
		t.Errorf("metadata JSON missing features: %v", gotMeta)
	}
}
