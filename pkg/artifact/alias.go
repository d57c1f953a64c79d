package artifact

import (
	"fmt"
	"strings"
)

const (
	defaultAliasNamespace = "library"
	defaultAliasTag       = "latest"
	maxAliasLength        = 255
)

// AliasRef is a parsed alias: [namespace/]name[:tag].
type AliasRef struct {
	Namespace string
	Name      string
	Tag       string
}

func isValidAliasComponent(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '-' || r == '.' || r == '_' || r == '+':
		default:
			return false
		}
	}
	return true
}

// ParseAlias parses alias in the form [namespace/]name[:tag], defaulting
// namespace to "library" and tag to "latest". Each component must consist
// only of alphanumerics, '-', '.', '_', '+'; a bare naive split (on the
// rightmost ':' then on '/') is not sufficient on its own, since something
// like "name:tag:extra" splits into a syntactically valid {name:"name:tag",
// tag:"extra"} that only the character-set check catches.
func ParseAlias(alias string) (*AliasRef, error) {
	if alias == "" {
		return nil, fmt.Errorf("alias cannot be empty")
	}

	if len(alias) > maxAliasLength {
		return nil, fmt.Errorf("alias too long (max %d characters)", maxAliasLength)
	}

	tag := ""
	base := alias

	if lastColon := strings.LastIndex(alias, ":"); lastColon != -1 {
		tagPart := alias[lastColon+1:]
		if tagPart == "" {
			return nil, fmt.Errorf("tag cannot be empty")
		}
		tag = tagPart
		base = alias[:lastColon]
	}

	namespace := ""
	name := ""

	switch strings.Count(base, "/") {
	case 0:
		name = base
	case 1:
		slashIdx := strings.Index(base, "/")
		namespace = base[:slashIdx]
		name = base[slashIdx+1:]
		if namespace == "" {
			return nil, fmt.Errorf("namespace cannot be empty")
		}
	default:
		return nil, fmt.Errorf("invalid format: too many path separators")
	}

	if name == "" {
		return nil, fmt.Errorf("name is required")
	}

	if tag == "" {
		tag = defaultAliasTag
	}
	if namespace == "" {
		namespace = defaultAliasNamespace
	}

	if !isValidAliasComponent(name) {
		return nil, fmt.Errorf("name contains invalid characters")
	}
	if !isValidAliasComponent(namespace) {
		return nil, fmt.Errorf("namespace contains invalid characters")
	}
	if !isValidAliasComponent(tag) {
		return nil, fmt.Errorf("tag contains invalid characters")
	}

	return &AliasRef{Namespace: namespace, Name: name, Tag: tag}, nil
}

// String renders the alias in canonical [namespace/]name[:tag] form,
// omitting the namespace and tag when they equal their defaults.
func (r *AliasRef) String() string {
	s := r.Name
	if r.Namespace != defaultAliasNamespace {
		s = r.Namespace + "/" + s
	}
	if r.Tag != defaultAliasTag {
		s = s + ":" + r.Tag
	}
	return s
}
