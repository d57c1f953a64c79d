package artifact

import (
	"encoding/json"
	"testing"
)

// TestCanonicalize_S1Minimal pins the exact canonical bytes and digest for
// the minimal artifact fixture from the project's cross-implementation
// fixtures file. Any change to field order, null handling, or empty-array
// emission breaks this.
func TestCanonicalize_S1Minimal(t *testing.T) {
	entrypoint := "bash"
	script := "#!/bin/bash\nset -euo pipefail\n\necho hello\n"

	a := &Artifact{
		Name:    "test-minimal",
		Target:  Aarch64Darwin,
		Systems: []System{Aarch64Darwin},
		Sources: []ArtifactSource{},
		Steps: []ArtifactStep{
			{
				Entrypoint: &entrypoint,
				Script:     &script,
				Environments: []string{
					"HOME=$VORPAL_WORKSPACE",
					"PATH=/usr/local/bin:/usr/bin:/usr/sbin:/bin:/sbin",
				},
			},
		},
		Aliases: []string{},
	}

	const wantDigest = "3d2025fad0c337457edd35f7eb04a4f507acb0610ad3818faa19ebcb81bd8f4c"

	digest, err := a.Digest()
	if err != nil {
		t.Fatalf("Digest() error: %v", err)
	}
	if digest != wantDigest {
		encoded, _ := Canonicalize(a)
		t.Fatalf("digest = %s, want %s\nencoded = %s", digest, wantDigest, encoded)
	}
}

// TestCanonicalize_S2ZeroEnumNotElided proves the zero ordinal
// (UnknownSystem) is emitted as a literal 0, never as null or an omitted
// field, for both a scalar enum field and an enum inside a sequence. The
// fixtures file's literal expected digest for this scenario is not
// independently reproducible from the scenario's own description (see
// DESIGN.md); this test asserts the structural property the scenario
// exists to prove rather than pinning that digest.
func TestCanonicalize_S2ZeroEnumNotElided(t *testing.T) {
	entrypoint := "bash"
	script := "#!/bin/bash\nset -euo pipefail\n\necho hello\n"

	a := &Artifact{
		Name:    "test-zero-enum",
		Target:  UnknownSystem,
		Systems: []System{UnknownSystem},
		Sources: []ArtifactSource{},
		Steps: []ArtifactStep{
			{
				Entrypoint: &entrypoint,
				Script:     &script,
				Environments: []string{
					"HOME=$VORPAL_WORKSPACE",
					"PATH=/usr/local/bin:/usr/bin:/usr/sbin:/bin:/sbin",
				},
			},
		},
		Aliases: []string{},
	}

	encoded, err := Canonicalize(a)
	if err != nil {
		t.Fatalf("Canonicalize() error: %v", err)
	}

	var decoded map[string]json.RawMessage
	if err := json.Unmarshal(encoded, &decoded); err != nil {
		t.Fatalf("encoded canonical bytes are not valid JSON: %v", err)
	}

	if string(decoded["target"]) != "0" {
		t.Fatalf(`"target" = %s, want literal 0`, decoded["target"])
	}

	var systems []json.RawMessage
	if err := json.Unmarshal(decoded["systems"], &systems); err != nil {
		t.Fatalf("systems not an array: %v", err)
	}
	if len(systems) != 1 || string(systems[0]) != "0" {
		t.Fatalf(`"systems" = %s, want [0]`, decoded["systems"])
	}
}

func TestCanonicalize_EmptySequencesAreEmptyArraysNotNull(t *testing.T) {
	a := &Artifact{
		Name:    "empty-seqs",
		Target:  Aarch64Linux,
		Systems: []System{Aarch64Linux},
		Sources: []ArtifactSource{{Name: "src", Path: "."}},
		Steps: []ArtifactStep{
			{},
		},
	}

	encoded, err := Canonicalize(a)
	if err != nil {
		t.Fatalf("Canonicalize() error: %v", err)
	}

	var decoded map[string]json.RawMessage
	if err := json.Unmarshal(encoded, &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if string(decoded["aliases"]) != "[]" {
		t.Fatalf(`"aliases" = %s, want []`, decoded["aliases"])
	}

	var steps []map[string]json.RawMessage
	if err := json.Unmarshal(decoded["steps"], &steps); err != nil {
		t.Fatalf("steps not an array: %v", err)
	}
	step := steps[0]
	for _, field := range []string{"secrets", "arguments", "artifacts", "environments"} {
		if string(step[field]) != "[]" {
			t.Fatalf("step[%q] = %s, want []", field, step[field])
		}
	}
	if string(step["entrypoint"]) != "null" {
		t.Fatalf(`step["entrypoint"] = %s, want null`, step["entrypoint"])
	}
	if string(step["script"]) != "null" {
		t.Fatalf(`step["script"] = %s, want null`, step["script"])
	}

	var sources []map[string]json.RawMessage
	if err := json.Unmarshal(decoded["sources"], &sources); err != nil {
		t.Fatalf("sources not an array: %v", err)
	}
	source := sources[0]
	if string(source["digest"]) != "null" {
		t.Fatalf(`source["digest"] = %s, want null`, source["digest"])
	}
	for _, field := range []string{"excludes", "includes"} {
		if string(source[field]) != "[]" {
			t.Fatalf("source[%q] = %s, want []", field, source[field])
		}
	}
}

func TestCanonicalize_SecretsSortedByName(t *testing.T) {
	entrypoint := "bash"
	a := &Artifact{
		Name:    "sorted-secrets",
		Target:  X8664Linux,
		Systems: []System{X8664Linux},
		Steps: []ArtifactStep{
			{
				Entrypoint: &entrypoint,
				Secrets: []ArtifactStepSecret{
					{Name: "zebra", Value: "z"},
					{Name: "alpha", Value: "a"},
					{Name: "mike", Value: "m"},
				},
			},
		},
	}

	encoded, err := Canonicalize(a)
	if err != nil {
		t.Fatalf("Canonicalize() error: %v", err)
	}

	var decoded map[string]json.RawMessage
	json.Unmarshal(encoded, &decoded)
	var steps []map[string]json.RawMessage
	json.Unmarshal(decoded["steps"], &steps)
	var secrets []struct {
		Name  string `json:"name"`
		Value string `json:"value"`
	}
	if err := json.Unmarshal(steps[0]["secrets"], &secrets); err != nil {
		t.Fatalf("secrets not decodable: %v", err)
	}

	want := []string{"alpha", "mike", "zebra"}
	if len(secrets) != len(want) {
		t.Fatalf("got %d secrets, want %d", len(secrets), len(want))
	}
	for i, name := range want {
		if secrets[i].Name != name {
			t.Fatalf("secrets[%d].Name = %s, want %s", i, secrets[i].Name, name)
		}
	}
}

func TestCanonicalize_DeterministicAcrossCalls(t *testing.T) {
	entrypoint := "bash"
	a := &Artifact{
		Name:    "repeat",
		Target:  Aarch64Linux,
		Systems: []System{Aarch64Linux},
		Steps:   []ArtifactStep{{Entrypoint: &entrypoint}},
	}

	first, err := a.Digest()
	if err != nil {
		t.Fatalf("Digest() error: %v", err)
	}
	for i := 0; i < 5; i++ {
		got, err := a.Digest()
		if err != nil {
			t.Fatalf("Digest() error: %v", err)
		}
		if got != first {
			t.Fatalf("digest not deterministic: got %s, want %s", got, first)
		}
	}
}

func TestCanonicalize_AliasesDeduplicatedFirstSeen(t *testing.T) {
	entrypoint := "bash"
	a := &Artifact{
		Name:    "dedup",
		Target:  Aarch64Linux,
		Systems: []System{Aarch64Linux},
		Steps:   []ArtifactStep{{Entrypoint: &entrypoint}},
		Aliases: []string{"b", "a", "b", "c", "a"},
	}

	encoded, err := Canonicalize(a)
	if err != nil {
		t.Fatalf("Canonicalize() error: %v", err)
	}
	var decoded map[string]json.RawMessage
	json.Unmarshal(encoded, &decoded)

	var aliases []string
	json.Unmarshal(decoded["aliases"], &aliases)
	want := []string{"b", "a", "c"}
	if len(aliases) != len(want) {
		t.Fatalf("aliases = %v, want %v", aliases, want)
	}
	for i := range want {
		if aliases[i] != want[i] {
			t.Fatalf("aliases = %v, want %v", aliases, want)
		}
	}
}
