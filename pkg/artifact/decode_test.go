package artifact

import "testing"

func TestFromCanonicalJSON_RoundTripsDigest(t *testing.T) {
	entrypoint := "bash"
	script := "echo hi\n"
	digest := "abc123"

	a := &Artifact{
		Name:    "roundtrip",
		Target:  X8664Linux,
		Systems: []System{X8664Linux},
		Sources: []ArtifactSource{
			{Name: "src", Path: ".", Digest: &digest, Excludes: []string{"*.o"}},
		},
		Steps: []ArtifactStep{
			{Entrypoint: &entrypoint, Script: &script, Arguments: []string{"-c"}},
		},
		Aliases: []string{"team/app:latest"},
	}

	encoded, err := Canonicalize(a)
	if err != nil {
		t.Fatalf("Canonicalize: %v", err)
	}

	decoded, err := FromCanonicalJSON(encoded)
	if err != nil {
		t.Fatalf("FromCanonicalJSON: %v", err)
	}

	reencoded, err := Canonicalize(decoded)
	if err != nil {
		t.Fatalf("re-Canonicalize: %v", err)
	}

	if string(reencoded) != string(encoded) {
		t.Fatalf("round trip changed bytes:\nwant %s\ngot  %s", encoded, reencoded)
	}
}
