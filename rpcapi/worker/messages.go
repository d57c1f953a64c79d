// Package worker defines WorkerService's wire messages and hand-written
// grpc-go bindings.
package worker

type BuildArtifactRequest struct {
	Digest          string `json:"digest"`
	Namespace       string `json:"namespace"`
	RegistryAddress string `json:"registry_address"`
}

// BuildArtifactResponse is one streamed BuildEvent. Phase names the
// state-machine phase the build just entered; Log carries a prefixed
// step output line; Cached and Digest are set on the terminal event.
type BuildArtifactResponse struct {
	Log    string `json:"log,omitempty"`
	Phase  string `json:"phase,omitempty"`
	Cached bool   `json:"cached,omitempty"`
	Digest string `json:"digest,omitempty"`
}
