// Package context defines ContextService's wire messages and
// hand-written grpc-go bindings. ContextService is served ephemerally
// by the user-compiled config child process the Driver spawns.
package context

import wireartifact "github.com/vorpal-sh/vorpal/rpcapi/artifact"

type GetArtifactRequest struct {
	Digest string `json:"digest"`
}

type GetArtifactsRequest struct{}

type GetArtifactsResponse struct {
	Digests []string `json:"digests"`
}

// GetArtifactResponse wraps the artifact so a response message (not the
// bare Artifact) is what travels the wire. ArtifactService.GetArtifact,
// by contrast, returns the bare Artifact.
type GetArtifactResponse struct {
	Artifact *wireartifact.Artifact `json:"artifact"`
}
