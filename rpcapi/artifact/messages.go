// Package artifact defines ArtifactService's wire messages and
// hand-written grpc-go client/server bindings. Message shapes mirror
// proto/artifact.proto; they are plain Go structs marshaled by
// codec.Register (see DESIGN.md's gRPC codec decision), not
// protoc-gen-go output.
package artifact

import domain "github.com/vorpal-sh/vorpal/pkg/artifact"

// ArtifactSource is the wire form of pkg/artifact.ArtifactSource.
type ArtifactSource struct {
	Digest   *string  `json:"digest"`
	Excludes []string `json:"excludes"`
	Includes []string `json:"includes"`
	Name     string   `json:"name"`
	Path     string   `json:"path"`
}

type ArtifactStepSecret struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type ArtifactStep struct {
	Entrypoint   *string              `json:"entrypoint"`
	Script       *string              `json:"script"`
	Secrets      []ArtifactStepSecret `json:"secrets"`
	Arguments    []string             `json:"arguments"`
	Artifacts    []string             `json:"artifacts"`
	Environments []string             `json:"environments"`
}

type Artifact struct {
	Target  int32          `json:"target"`
	Sources []ArtifactSource `json:"sources"`
	Steps   []ArtifactStep   `json:"steps"`
	Systems []int32          `json:"systems"`
	Aliases []string         `json:"aliases"`
	Name    string           `json:"name"`
}

// FromDomain converts a domain Artifact into its wire form.
func FromDomain(a *domain.Artifact) *Artifact {
	sources := make([]ArtifactSource, len(a.Sources))
	for i, s := range a.Sources {
		sources[i] = ArtifactSource{
			Digest:   s.Digest,
			Excludes: s.Excludes,
			Includes: s.Includes,
			Name:     s.Name,
			Path:     s.Path,
		}
	}

	steps := make([]ArtifactStep, len(a.Steps))
	for i, s := range a.Steps {
		secrets := make([]ArtifactStepSecret, len(s.Secrets))
		for j, sec := range s.Secrets {
			secrets[j] = ArtifactStepSecret{Name: sec.Name, Value: sec.Value}
		}
		steps[i] = ArtifactStep{
			Entrypoint:   s.Entrypoint,
			Script:       s.Script,
			Secrets:      secrets,
			Arguments:    s.Arguments,
			Artifacts:    s.Artifacts,
			Environments: s.Environments,
		}
	}

	systems := make([]int32, len(a.Systems))
	for i, sys := range a.Systems {
		systems[i] = int32(sys)
	}

	return &Artifact{
		Target:  int32(a.Target),
		Sources: sources,
		Steps:   steps,
		Systems: systems,
		Aliases: a.Aliases,
		Name:    a.Name,
	}
}

// ToDomain converts a wire Artifact back into the domain type.
func (a *Artifact) ToDomain() *domain.Artifact {
	sources := make([]domain.ArtifactSource, len(a.Sources))
	for i, s := range a.Sources {
		sources[i] = domain.ArtifactSource{
			Digest:   s.Digest,
			Excludes: s.Excludes,
			Includes: s.Includes,
			Name:     s.Name,
			Path:     s.Path,
		}
	}

	steps := make([]domain.ArtifactStep, len(a.Steps))
	for i, s := range a.Steps {
		secrets := make([]domain.ArtifactStepSecret, len(s.Secrets))
		for j, sec := range s.Secrets {
			secrets[j] = domain.ArtifactStepSecret{Name: sec.Name, Value: sec.Value}
		}
		steps[i] = domain.ArtifactStep{
			Entrypoint:   s.Entrypoint,
			Script:       s.Script,
			Secrets:      secrets,
			Arguments:    s.Arguments,
			Artifacts:    s.Artifacts,
			Environments: s.Environments,
		}
	}

	systems := make([]domain.System, len(a.Systems))
	for i, sys := range a.Systems {
		systems[i] = domain.System(sys)
	}

	return &domain.Artifact{
		Target:  domain.System(a.Target),
		Sources: sources,
		Steps:   steps,
		Systems: systems,
		Aliases: a.Aliases,
		Name:    a.Name,
	}
}

type GetArtifactRequest struct {
	Digest    string `json:"digest"`
	Namespace string `json:"namespace"`
}

type GetArtifactAliasRequest struct {
	Namespace string `json:"namespace"`
	System    int32  `json:"system"`
	Name      string `json:"name"`
	Tag       string `json:"tag"`
}

type GetArtifactAliasResponse struct {
	Digest string `json:"digest"`
}

// StoreArtifactRequest carries the client-asserted digest alongside the
// record; the server recomputes the canonical digest independently and
// rejects a mismatch rather than trusting the caller's claim.
type StoreArtifactRequest struct {
	Artifact  *Artifact `json:"artifact"`
	Digest    string    `json:"digest"`
	Namespace string    `json:"namespace"`
}

type StoreArtifactResponse struct {
	Digest string `json:"digest"`
}
