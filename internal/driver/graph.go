package driver

import (
	"fmt"
	"sort"
)

// buildEdges derives each artifact's direct dependency digests from its
// steps' Artifacts references, deduplicating within a single artifact.
func buildEdges(artifacts map[string]*resolvedArtifact) map[string][]string {
	edges := make(map[string][]string, len(artifacts))

	for digest, ra := range artifacts {
		seen := make(map[string]bool)
		var deps []string
		for _, step := range ra.artifact.Steps {
			for _, dep := range step.Artifacts {
				if !seen[dep] {
					seen[dep] = true
					deps = append(deps, dep)
				}
			}
		}
		edges[digest] = deps
	}

	return edges
}

// topologicalSort orders digests leaves-first: every dependency appears
// before the artifact that references it. A digest reachable only
// through a cycle, or referencing a digest outside the graph, is a
// fatal error. Grounded on the DFS-with-recursion-stack shape of the
// pack's platinummonkey/spoke pkg/dependencies/graph.go
// TopologicalSort/DetectCircularDependencies, adapted from module@version
// keys to artifact digests. Visit order is sorted for determinism: two
// runs over the same artifact set must produce the same build order.
func topologicalSort(edges map[string][]string) ([]string, error) {
	visited := make(map[string]bool, len(edges))
	onStack := make(map[string]bool, len(edges))
	result := make([]string, 0, len(edges))

	roots := make([]string, 0, len(edges))
	for digest := range edges {
		roots = append(roots, digest)
	}
	sort.Strings(roots)

	var visit func(string) error
	visit = func(digest string) error {
		if onStack[digest] {
			return fmt.Errorf("driver: circular dependency detected at %s", digest)
		}
		if visited[digest] {
			return nil
		}

		visited[digest] = true
		onStack[digest] = true

		deps := append([]string(nil), edges[digest]...)
		sort.Strings(deps)
		for _, dep := range deps {
			if _, ok := edges[dep]; !ok {
				return fmt.Errorf("driver: artifact %s depends on unknown digest %s", digest, dep)
			}
			if err := visit(dep); err != nil {
				return err
			}
		}

		onStack[digest] = false
		result = append(result, digest)
		return nil
	}

	for _, digest := range roots {
		if err := visit(digest); err != nil {
			return nil, err
		}
	}

	return result, nil
}
