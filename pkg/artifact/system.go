package artifact

import (
	"fmt"
	"runtime"
)

// System identifies the target platform an artifact builds for.
type System int32

const (
	UnknownSystem System = 0
	Aarch64Darwin System = 1
	Aarch64Linux  System = 2
	X8664Darwin   System = 3
	X8664Linux    System = 4
)

func (s System) String() string {
	switch s {
	case Aarch64Darwin:
		return "aarch64-darwin"
	case Aarch64Linux:
		return "aarch64-linux"
	case X8664Darwin:
		return "x86_64-darwin"
	case X8664Linux:
		return "x86_64-linux"
	default:
		return "unknown"
	}
}

// ParseSystem parses the CLI/config string form ("aarch64-linux", ...).
func ParseSystem(s string) (System, error) {
	switch s {
	case "aarch64-darwin":
		return Aarch64Darwin, nil
	case "aarch64-linux":
		return Aarch64Linux, nil
	case "x86_64-darwin":
		return X8664Darwin, nil
	case "x86_64-linux":
		return X8664Linux, nil
	default:
		return UnknownSystem, fmt.Errorf("unknown system: %s", s)
	}
}

// DefaultSystemString returns the host's system in Vorpal's "<arch>-<os>" form.
func DefaultSystemString() string {
	goarch := runtime.GOARCH
	goos := runtime.GOOS

	if goarch == "amd64" {
		goarch = "x86_64"
	}

	if goarch == "arm64" {
		goarch = "aarch64"
	}

	return fmt.Sprintf("%s-%s", goarch, goos)
}

// DefaultSystem resolves the host's system, falling back to UnknownSystem
// when the host platform isn't one Vorpal builds for.
func DefaultSystem() System {
	system, err := ParseSystem(DefaultSystemString())
	if err != nil {
		return UnknownSystem
	}
	return system
}
