package registry

import (
	"context"
	"fmt"
	"io"

	"github.com/vorpal-sh/vorpal/pkg/artifact"
	wireartifact "github.com/vorpal-sh/vorpal/rpcapi/artifact"
	"github.com/vorpal-sh/vorpal/pkg/vorpalerr"
)

// ArtifactServer implements rpcapi/artifact.ArtifactServiceServer
// against a Registry's BlobStore.
type ArtifactServer struct {
	wireartifact.UnimplementedArtifactServiceServer
	registry *Registry
}

func NewArtifactServer(r *Registry) *ArtifactServer {
	return &ArtifactServer{registry: r}
}

func (s *ArtifactServer) GetArtifact(ctx context.Context, req *wireartifact.GetArtifactRequest) (*wireartifact.Artifact, error) {
	rc, err := s.registry.store.Open(ctx, artifactRecordKey(req.Namespace, req.Digest))
	if err != nil {
		return nil, vorpalerr.ToStatus(err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, vorpalerr.ToStatus(vorpalerr.Wrap(vorpalerr.KindTransientIO, "read artifact record", err))
	}

	record, err := artifact.FromCanonicalJSON(data)
	if err != nil {
		return nil, vorpalerr.ToStatus(vorpalerr.Wrap(vorpalerr.KindInternalError, "decode artifact record", err))
	}

	return wireartifact.FromDomain(record), nil
}

func (s *ArtifactServer) GetArtifactAlias(ctx context.Context, req *wireartifact.GetArtifactAliasRequest) (*wireartifact.GetArtifactAliasResponse, error) {
	digest, err := s.registry.GetAlias(ctx, req.Namespace, artifact.System(req.System), req.Name, req.Tag)
	if err != nil {
		return nil, vorpalerr.ToStatus(err)
	}
	return &wireartifact.GetArtifactAliasResponse{Digest: digest}, nil
}

// StoreArtifact verifies the submitted record's digest matches its own
// canonical encoding before persisting it. A mismatch indicates a
// non-conforming client and is a hard error, never silently corrected.
func (s *ArtifactServer) StoreArtifact(ctx context.Context, req *wireartifact.StoreArtifactRequest) (*wireartifact.StoreArtifactResponse, error) {
	domainArtifact := req.Artifact.ToDomain()

	if err := domainArtifact.Validate(); err != nil {
		return nil, vorpalerr.ToStatus(vorpalerr.NewValidationError(err.Error()))
	}

	computed, err := domainArtifact.Digest()
	if err != nil {
		return nil, vorpalerr.ToStatus(vorpalerr.Wrap(vorpalerr.KindInternalError, "compute digest", err))
	}

	if req.Digest != "" && req.Digest != computed {
		return nil, vorpalerr.ToStatus(vorpalerr.NewIntegrityError(fmt.Sprintf(
			"submitted digest %s does not match canonical encoding %s", req.Digest, computed)))
	}

	encoded, err := artifact.Canonicalize(domainArtifact)
	if err != nil {
		return nil, vorpalerr.ToStatus(err)
	}

	w, err := s.registry.store.Create(ctx, artifactRecordKey(req.Namespace, computed))
	if err != nil {
		return nil, vorpalerr.ToStatus(vorpalerr.Wrap(vorpalerr.KindTransientIO, "create artifact record", err))
	}
	if _, err := w.Write(encoded); err != nil {
		w.Close()
		return nil, vorpalerr.ToStatus(vorpalerr.Wrap(vorpalerr.KindTransientIO, "write artifact record", err))
	}
	if err := w.Close(); err != nil {
		return nil, vorpalerr.ToStatus(vorpalerr.Wrap(vorpalerr.KindTransientIO, "publish artifact record", err))
	}

	for _, alias := range domainArtifact.Aliases {
		ref, err := artifact.ParseAlias(alias)
		if err != nil {
			return nil, vorpalerr.ToStatus(vorpalerr.NewValidationError(fmt.Sprintf("artifact %s: %v", computed, err)))
		}
		if err := s.registry.PutAlias(ctx, req.Namespace, domainArtifact.Target, ref.Name, ref.Tag, computed); err != nil {
			return nil, vorpalerr.ToStatus(err)
		}
	}

	return &wireartifact.StoreArtifactResponse{Digest: computed}, nil
}
