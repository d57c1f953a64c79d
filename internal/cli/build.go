package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vorpal-sh/vorpal/internal/driver"
	"github.com/vorpal-sh/vorpal/internal/transport"
	domainartifact "github.com/vorpal-sh/vorpal/pkg/artifact"
)

// NewBuildCommand builds the `vorpal build` command: it drives
// internal/driver.Run with flags mirroring the config child's own
// "start" subcommand (see internal/configproc), since the Driver is
// the one constructing that invocation.
func NewBuildCommand() *cobra.Command {
	var (
		configBinary      string
		artifactName      string
		artifactContext   string
		artifactNamespace string
		artifactSystem    string
		artifactUnlock    bool
		artifactVariable  []string
		agentAddress      string
		workerAddress     string
		registryAddress   string
		outputDir         string
		logLevel          string
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build an artifact via the Config Driver",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := buildLogger(logLevel)
			if err != nil {
				return err
			}
			defer logger.Sync()

			variables, err := parseVariableBindings(artifactVariable)
			if err != nil {
				return err
			}

			result, err := driver.Run(cmd.Context(), driver.Options{
				ConfigBinary:      configBinary,
				Artifact:          artifactName,
				ArtifactContext:   artifactContext,
				ArtifactNamespace: artifactNamespace,
				ArtifactSystem:    artifactSystem,
				ArtifactUnlock:    artifactUnlock,
				ArtifactVariable:  variables,
				AgentAddress:      agentAddress,
				WorkerAddress:     workerAddress,
				RegistryAddress:   registryAddress,
				OutputDir:         outputDir,
				Dial:              transport.Dial,
				Logger:            logger,
			})
			if err != nil {
				return err
			}

			var failures int
			for _, b := range result.Builds {
				switch {
				case b.Err != nil:
					failures++
					fmt.Printf("FAIL  %s (%s): %v\n", b.Name, b.Digest, b.Err)
				case b.Skipped:
					fmt.Printf("SKIP  %s (%s)\n", b.Name, b.Digest)
				case b.Cached:
					fmt.Printf("CACHE %s (%s) -> %s\n", b.Name, b.Digest, b.OutputPath)
				default:
					fmt.Printf("BUILT %s (%s) -> %s\n", b.Name, b.Digest, b.OutputPath)
				}
			}

			if failures > 0 {
				return fmt.Errorf("build failed: %d artifact(s) did not build", failures)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&configBinary, "config", "", "path to the compiled config program")
	cmd.Flags().StringVar(&artifactName, "artifact", "", "artifact name to build")
	cmd.Flags().StringVar(&artifactContext, "artifact-context", ".", "artifact source context path")
	cmd.Flags().StringVar(&artifactNamespace, "artifact-namespace", "default", "artifact namespace")
	cmd.Flags().StringVar(&artifactSystem, "artifact-system", domainartifact.DefaultSystemString(), "target system")
	cmd.Flags().BoolVar(&artifactUnlock, "artifact-unlock", false, "allow lockfile drift to overwrite prior entries")
	cmd.Flags().StringArrayVar(&artifactVariable, "artifact-variable", nil, "variable binding key=value, repeatable")
	cmd.Flags().StringVar(&agentAddress, "agent", "127.0.0.1:23151", "Agent daemon address")
	cmd.Flags().StringVar(&workerAddress, "worker", "127.0.0.1:23153", "Worker daemon address")
	cmd.Flags().StringVar(&registryAddress, "registry", "127.0.0.1:23152", "Registry daemon address")
	cmd.Flags().StringVar(&outputDir, "output", "./vorpal-out", "local directory to unpack finished builds into")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")

	cmd.MarkFlagRequired("config")
	cmd.MarkFlagRequired("artifact")

	return cmd
}

func parseVariableBindings(bindings []string) (map[string]string, error) {
	out := make(map[string]string, len(bindings))
	for _, b := range bindings {
		kv := strings.SplitN(b, "=", 2)
		if len(kv) != 2 || kv[0] == "" {
			return nil, fmt.Errorf("invalid --artifact-variable %q, want key=value", b)
		}
		out[kv[0]] = kv[1]
	}
	return out, nil
}
