package artifact

import "encoding/json"

// canonicalJSON mirrors Canonicalize's field names/order for decoding;
// encoding/json is safe to use here since, unlike encoding, decoding
// doesn't need to reproduce specific bytes — only read them back.
type canonicalJSON struct {
	Target  int32  `json:"target"`
	Sources []canonicalSourceJSON `json:"sources"`
	Steps   []canonicalStepJSON   `json:"steps"`
	Systems []int32               `json:"systems"`
	Aliases []string              `json:"aliases"`
	Name    string                `json:"name"`
}

type canonicalSourceJSON struct {
	Digest   *string  `json:"digest"`
	Excludes []string `json:"excludes"`
	Includes []string `json:"includes"`
	Name     string   `json:"name"`
	Path     string   `json:"path"`
}

type canonicalStepJSON struct {
	Entrypoint   *string                    `json:"entrypoint"`
	Script       *string                    `json:"script"`
	Secrets      []ArtifactStepSecret       `json:"secrets"`
	Arguments    []string                   `json:"arguments"`
	Artifacts    []string                   `json:"artifacts"`
	Environments []string                   `json:"environments"`
}

// FromCanonicalJSON parses the canonical encoding produced by
// Canonicalize back into an Artifact. Round-tripping through this does
// not change an artifact's digest, since Canonicalize is deterministic
// over the resulting struct.
func FromCanonicalJSON(data []byte) (*Artifact, error) {
	var decoded canonicalJSON
	if err := json.Unmarshal(data, &decoded); err != nil {
		return nil, err
	}

	sources := make([]ArtifactSource, len(decoded.Sources))
	for i, s := range decoded.Sources {
		sources[i] = ArtifactSource{
			Digest:   s.Digest,
			Excludes: s.Excludes,
			Includes: s.Includes,
			Name:     s.Name,
			Path:     s.Path,
		}
	}

	steps := make([]ArtifactStep, len(decoded.Steps))
	for i, s := range decoded.Steps {
		steps[i] = ArtifactStep{
			Entrypoint:   s.Entrypoint,
			Script:       s.Script,
			Secrets:      s.Secrets,
			Arguments:    s.Arguments,
			Artifacts:    s.Artifacts,
			Environments: s.Environments,
		}
	}

	systems := make([]System, len(decoded.Systems))
	for i, sys := range decoded.Systems {
		systems[i] = System(sys)
	}

	return &Artifact{
		Target:  System(decoded.Target),
		Sources: sources,
		Steps:   steps,
		Systems: systems,
		Aliases: decoded.Aliases,
		Name:    decoded.Name,
	}, nil
}
