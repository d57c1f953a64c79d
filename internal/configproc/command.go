// Package configproc defines the argv contract between the Driver and
// the user-compiled config child process it spawns: the flag names,
// the parser, and the inverse argv builder the Driver uses to launch
// the child. Generalized from a single os.Args[1] "start" switch into a
// StartArgs value both sides share so the flag names can't drift apart
// from each other.
package configproc

import (
	"flag"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// StartArgs is the full set of parameters the Driver hands to the
// config child's "start" subcommand.
type StartArgs struct {
	Agent             string
	Artifact          string
	ArtifactContext   string
	ArtifactNamespace string
	ArtifactSystem    string
	ArtifactUnlock    bool
	ArtifactVariable  map[string]string
	Port              int
	Registry          string
}

// Argv builds the argument list (excluding argv[0], the binary path)
// the Driver passes to exec.Command when spawning the config child.
// Variable bindings are sorted by key so two runs of the same build
// produce an identical child invocation.
func (a StartArgs) Argv() []string {
	argv := []string{
		"start",
		"-agent", a.Agent,
		"-artifact", a.Artifact,
		"-artifact-context", a.ArtifactContext,
		"-artifact-namespace", a.ArtifactNamespace,
		"-artifact-system", a.ArtifactSystem,
		"-port", strconv.Itoa(a.Port),
		"-registry", a.Registry,
	}

	if a.ArtifactUnlock {
		argv = append(argv, "-artifact-unlock")
	}

	keys := make([]string, 0, len(a.ArtifactVariable))
	for k := range a.ArtifactVariable {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		argv = append(argv, "-artifact-variable", fmt.Sprintf("%s=%s", k, a.ArtifactVariable[k]))
	}

	return argv
}

// ParseStartArgs parses the "start" subcommand argv a config child
// receives as os.Args[1:], the inverse of Argv. Config-program authors
// call this instead of hand-rolling their own flag.NewFlagSet, keeping
// both ends of the contract defined in one place.
func ParseStartArgs(args []string) (*StartArgs, error) {
	if len(args) == 0 || args[0] != "start" {
		return nil, fmt.Errorf("configproc: expected \"start\" subcommand")
	}

	startCmd := flag.NewFlagSet("start", flag.ContinueOnError)

	var variables []string

	agent := startCmd.String("agent", "", "agent address")
	artifact := startCmd.String("artifact", "", "artifact name to build")
	artifactContext := startCmd.String("artifact-context", "", "artifact source context path")
	artifactNamespace := startCmd.String("artifact-namespace", "", "artifact namespace")
	artifactSystem := startCmd.String("artifact-system", "", "target system")
	artifactUnlock := startCmd.Bool("artifact-unlock", false, "unlock lockfile drift")
	startCmd.Var(newStringSliceValue(&variables), "artifact-variable", "variable binding (key=value), repeatable")
	port := startCmd.Int("port", 0, "ContextService port")
	registry := startCmd.String("registry", "", "registry address")

	if err := startCmd.Parse(args[1:]); err != nil {
		return nil, err
	}

	required := []struct{ name, value string }{
		{"agent", *agent},
		{"artifact", *artifact},
		{"artifact-context", *artifactContext},
		{"artifact-namespace", *artifactNamespace},
		{"artifact-system", *artifactSystem},
		{"registry", *registry},
	}
	for _, req := range required {
		if req.value == "" {
			return nil, fmt.Errorf("configproc: -%s is required", req.name)
		}
	}

	if *port == 0 {
		return nil, fmt.Errorf("configproc: -port is required")
	}

	variableMap := make(map[string]string, len(variables))
	for _, v := range variables {
		kv := strings.SplitN(v, "=", 2)
		if len(kv) != 2 {
			return nil, fmt.Errorf("configproc: invalid -artifact-variable %q, want key=value", v)
		}
		variableMap[kv[0]] = kv[1]
	}

	return &StartArgs{
		Agent:             *agent,
		Artifact:          *artifact,
		ArtifactContext:   *artifactContext,
		ArtifactNamespace: *artifactNamespace,
		ArtifactSystem:    *artifactSystem,
		ArtifactUnlock:    *artifactUnlock,
		ArtifactVariable:  variableMap,
		Port:              *port,
		Registry:          *registry,
	}, nil
}

// stringSliceValue implements flag.Value, accumulating one value per
// -artifact-variable occurrence.
type stringSliceValue struct {
	values *[]string
}

func newStringSliceValue(p *[]string) *stringSliceValue {
	return &stringSliceValue{values: p}
}

func (s *stringSliceValue) String() string {
	if s.values == nil || len(*s.values) == 0 {
		return ""
	}
	return strings.Join(*s.values, ",")
}

func (s *stringSliceValue) Set(value string) error {
	*s.values = append(*s.values, value)
	return nil
}
