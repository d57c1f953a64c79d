package registry

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/vorpal-sh/vorpal/pkg/artifact"
)

// aliasKey is the store key an alias resolves to:
// alias/<namespace>/<system>/<name>/<tag>. Writing an alias atomically
// replaces this leaf file; resolution is last-writer-wins, not
// version-guarded.
func aliasKey(namespace string, system artifact.System, name, tag string) string {
	return strings.Join([]string{"alias", namespace, system.String(), name, tag}, "/")
}

// PutAlias atomically points (namespace, system, name, tag) at digest.
func (r *Registry) PutAlias(ctx context.Context, namespace string, system artifact.System, name, tag, digest string) error {
	w, err := r.store.Create(ctx, aliasKey(namespace, system, name, tag))
	if err != nil {
		return err
	}
	if _, err := w.Write([]byte(digest)); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

// GetAlias resolves (namespace, system, name, tag) to a digest.
func (r *Registry) GetAlias(ctx context.Context, namespace string, system artifact.System, name, tag string) (string, error) {
	rc, err := r.store.Open(ctx, aliasKey(namespace, system, name, tag))
	if err != nil {
		return "", err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return "", fmt.Errorf("read alias: %w", err)
	}

	return strings.TrimSpace(string(data)), nil
}
