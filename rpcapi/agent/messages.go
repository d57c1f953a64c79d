// Package agent defines AgentService's wire messages and hand-written
// grpc-go bindings (see rpcapi/artifact for the pattern rationale).
package agent

import wireartifact "github.com/vorpal-sh/vorpal/rpcapi/artifact"

type PrepareArtifactRequest struct {
	Artifact        *wireartifact.Artifact `json:"artifact"`
	ContextPath     string                 `json:"context_path"`
	Namespace       string                 `json:"namespace"`
	Unlock          bool                   `json:"unlock"`
	RegistryAddress string                 `json:"registry_address"`
}

// PrepareArtifactResponse is one streamed PrepareEvent. Log is set for
// incremental progress lines; Artifact and Digest are set only on the
// final event once every source has been resolved.
type PrepareArtifactResponse struct {
	Log      string                 `json:"log,omitempty"`
	Artifact *wireartifact.Artifact `json:"artifact,omitempty"`
	Digest   string                 `json:"digest,omitempty"`
}
