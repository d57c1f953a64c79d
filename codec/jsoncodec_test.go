package codec

import "testing"

type sample struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

func TestJSONCodec_RoundTrip(t *testing.T) {
	c := jsonCodec{}

	in := &sample{Name: "x", Values: []string{"a", "b"}}

	data, err := c.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var out sample
	if err := c.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if out.Name != in.Name || len(out.Values) != len(in.Values) {
		t.Fatalf("round trip mismatch: got %+v, want %+v", out, *in)
	}
}

func TestJSONCodec_Name(t *testing.T) {
	if got := (jsonCodec{}).Name(); got != "proto" {
		t.Fatalf("Name() = %q, want %q", got, "proto")
	}
}
