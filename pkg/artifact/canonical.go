package artifact

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
)

// Canonicalize produces the one true byte representation of an Artifact,
// per spec §4.1. It is not the generic JSON mapping of the struct: field
// order is the declared proto field-number order, every field is always
// emitted (including empty sequences and absent-optional nulls), enums
// are integers, secrets are sorted by name, and aliases/sources are
// deduplicated in first-seen order. Three independent host-language
// implementations of Vorpal must reproduce these exact bytes for a given
// Artifact, so nothing here may depend on a general serializer's default
// field-order or omitempty behavior.
func Canonicalize(a *Artifact) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')

	buf.WriteString(`"target":`)
	if err := writeJSON(&buf, int32(a.Target)); err != nil {
		return nil, err
	}

	buf.WriteString(`,"sources":[`)
	sources := dedupSourcesByName(a.Sources)
	for i, s := range sources {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeSource(&buf, s); err != nil {
			return nil, err
		}
	}
	buf.WriteString(`],"steps":[`)
	for i, s := range a.Steps {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeStep(&buf, s); err != nil {
			return nil, err
		}
	}
	buf.WriteString(`],"systems":[`)
	for i, sys := range a.Systems {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSON(&buf, int32(sys)); err != nil {
			return nil, err
		}
	}
	buf.WriteString(`],"aliases":`)
	if err := writeJSON(&buf, dedupStrings(a.Aliases)); err != nil {
		return nil, err
	}

	buf.WriteString(`,"name":`)
	if err := writeJSON(&buf, a.Name); err != nil {
		return nil, err
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

func writeSource(buf *bytes.Buffer, s ArtifactSource) error {
	buf.WriteByte('{')

	buf.WriteString(`"digest":`)
	if err := writeNullableString(buf, s.Digest); err != nil {
		return err
	}

	buf.WriteString(`,"excludes":`)
	if err := writeJSON(buf, emptyIfNil(s.Excludes)); err != nil {
		return err
	}

	buf.WriteString(`,"includes":`)
	if err := writeJSON(buf, emptyIfNil(s.Includes)); err != nil {
		return err
	}

	buf.WriteString(`,"name":`)
	if err := writeJSON(buf, s.Name); err != nil {
		return err
	}

	buf.WriteString(`,"path":`)
	if err := writeJSON(buf, s.Path); err != nil {
		return err
	}

	buf.WriteByte('}')

	return nil
}

func writeStep(buf *bytes.Buffer, s ArtifactStep) error {
	buf.WriteByte('{')

	buf.WriteString(`"entrypoint":`)
	if err := writeNullableString(buf, s.Entrypoint); err != nil {
		return err
	}

	buf.WriteString(`,"script":`)
	if err := writeNullableString(buf, s.Script); err != nil {
		return err
	}

	buf.WriteString(`,"secrets":[`)
	secrets := sortedSecrets(s.Secrets)
	for i, sec := range secrets {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('{')
		buf.WriteString(`"name":`)
		if err := writeJSON(buf, sec.Name); err != nil {
			return err
		}
		buf.WriteString(`,"value":`)
		if err := writeJSON(buf, sec.Value); err != nil {
			return err
		}
		buf.WriteByte('}')
	}
	buf.WriteString(`],"arguments":`)
	if err := writeJSON(buf, emptyIfNil(s.Arguments)); err != nil {
		return err
	}

	buf.WriteString(`,"artifacts":`)
	if err := writeJSON(buf, emptyIfNil(s.Artifacts)); err != nil {
		return err
	}

	buf.WriteString(`,"environments":`)
	if err := writeJSON(buf, emptyIfNil(s.Environments)); err != nil {
		return err
	}

	buf.WriteByte('}')

	return nil
}

func writeJSON(buf *bytes.Buffer, v any) error {
	encoded, err := json.Marshal(v)
	if err != nil {
		return err
	}
	buf.Write(encoded)
	return nil
}

func writeNullableString(buf *bytes.Buffer, s *string) error {
	if s == nil {
		buf.WriteString("null")
		return nil
	}
	return writeJSON(buf, *s)
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func sortedSecrets(secrets []ArtifactStepSecret) []ArtifactStepSecret {
	out := make([]ArtifactStepSecret, len(secrets))
	copy(out, secrets)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func dedupStrings(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func dedupSourcesByName(sources []ArtifactSource) []ArtifactSource {
	out := make([]ArtifactSource, 0, len(sources))
	seen := make(map[string]struct{}, len(sources))
	for _, s := range sources {
		if _, ok := seen[s.Name]; ok {
			continue
		}
		seen[s.Name] = struct{}{}
		out = append(out, s)
	}
	return out
}

// DigestBytes returns the lowercase hex SHA-256 of b.
func DigestBytes(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
