package artifact

import "fmt"

// ArtifactStepSecret is a {name, value} pair. Value is ciphertext in
// transit and at rest; it is only decrypted inside the Worker sandbox
// (see pkg/secret).
type ArtifactStepSecret struct {
	Name  string
	Value string
}

// ArtifactSource describes one source input to an artifact build. The
// source kind (local path, HTTP(S) URL, VCS reference) is inferred from
// Path by the Agent, never stored explicitly.
type ArtifactSource struct {
	Digest   *string
	Excludes []string
	Includes []string
	Name     string
	Path     string
}

// ArtifactStep is one executable step of an artifact's build. Artifacts
// lists dependency digests (not names) and establishes the build DAG.
type ArtifactStep struct {
	Entrypoint   *string
	Script       *string
	Secrets      []ArtifactStepSecret
	Arguments    []string
	Artifacts    []string
	Environments []string
}

// Artifact is the only content-addressed record in the system. Its
// digest (Digest()) is computed over the canonical encoding of this
// struct (see canonical.go) and is its identity.
type Artifact struct {
	Target  System
	Sources []ArtifactSource
	Steps   []ArtifactStep
	Systems []System
	Aliases []string
	Name    string
}

// Validate enforces the invariants from spec §3: target must be a
// supported system, name must be non-empty, steps must be non-empty.
func (a *Artifact) Validate() error {
	if a.Name == "" {
		return fmt.Errorf("artifact: 'name' is required")
	}

	if len(a.Steps) == 0 {
		return fmt.Errorf("artifact: 'steps' is required")
	}

	if len(a.Systems) == 0 {
		return fmt.Errorf("artifact: 'systems' is required")
	}

	found := false
	for _, s := range a.Systems {
		if s == a.Target {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("artifact: target %s is not in systems", a.Target)
	}

	return nil
}

// Digest returns the lowercase hex SHA-256 of the canonical encoding of a.
func (a *Artifact) Digest() (string, error) {
	encoded, err := Canonicalize(a)
	if err != nil {
		return "", err
	}
	return DigestBytes(encoded), nil
}
