package configproc

import "testing"

func TestArgvParseStartArgsRoundTrip(t *testing.T) {
	in := StartArgs{
		Agent:             "http://localhost:23151",
		Artifact:          "example",
		ArtifactContext:   "/work/context",
		ArtifactNamespace: "default",
		ArtifactSystem:    "x86_64-linux",
		ArtifactUnlock:    true,
		ArtifactVariable:  map[string]string{"b": "2", "a": "1"},
		Port:              23152,
		Registry:          "http://localhost:23151",
	}

	out, err := ParseStartArgs(in.Argv())
	if err != nil {
		t.Fatalf("ParseStartArgs: %v", err)
	}

	if out.Agent != in.Agent || out.Artifact != in.Artifact || out.ArtifactContext != in.ArtifactContext ||
		out.ArtifactNamespace != in.ArtifactNamespace || out.ArtifactSystem != in.ArtifactSystem ||
		out.ArtifactUnlock != in.ArtifactUnlock || out.Port != in.Port || out.Registry != in.Registry {
		t.Fatalf("round trip mismatch: got %+v, want %+v", out, in)
	}

	if len(out.ArtifactVariable) != len(in.ArtifactVariable) {
		t.Fatalf("variable count mismatch: got %v, want %v", out.ArtifactVariable, in.ArtifactVariable)
	}
	for k, v := range in.ArtifactVariable {
		if out.ArtifactVariable[k] != v {
			t.Fatalf("variable %s = %s, want %s", k, out.ArtifactVariable[k], v)
		}
	}
}

func TestArgvDeterministicVariableOrder(t *testing.T) {
	in := StartArgs{
		Agent:             "a",
		Artifact:          "b",
		ArtifactContext:   "c",
		ArtifactNamespace: "d",
		ArtifactSystem:    "e",
		ArtifactVariable:  map[string]string{"z": "1", "a": "2", "m": "3"},
		Port:              1,
		Registry:          "f",
	}

	first := in.Argv()
	for i := 0; i < 5; i++ {
		again := in.Argv()
		if len(first) != len(again) {
			t.Fatalf("argv length differs across calls")
		}
		for j := range first {
			if first[j] != again[j] {
				t.Fatalf("argv differs at index %d: %s != %s", j, first[j], again[j])
			}
		}
	}
}

func TestParseStartArgsMissingRequired(t *testing.T) {
	_, err := ParseStartArgs([]string{"start", "-agent", "a"})
	if err == nil {
		t.Fatalf("expected error for missing required flags")
	}
}

func TestParseStartArgsWrongSubcommand(t *testing.T) {
	_, err := ParseStartArgs([]string{"build"})
	if err == nil {
		t.Fatalf("expected error for unknown subcommand")
	}
}

func TestParseStartArgsInvalidVariable(t *testing.T) {
	args := StartArgs{
		Agent: "a", Artifact: "b", ArtifactContext: "c",
		ArtifactNamespace: "d", ArtifactSystem: "e", Registry: "f", Port: 1,
	}.Argv()
	args = append(args, "-artifact-variable", "novalue")

	if _, err := ParseStartArgs(args); err == nil {
		t.Fatalf("expected error for malformed variable binding")
	}
}
