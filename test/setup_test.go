package test

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
)

const binaryPathEnvVar = "INPUT_RANGE_BINARY_PATH"

var (
	_, b, _, _ = runtime.Caller(0)
	basepath   = filepath.Dir(filepath.Dir(b))
	binaryPath = ""
	regenerate = flag.Bool("regenerate", false, "regenerate fixtures instead of comparing")
)

// requireBinary gates the whole package on a prebuilt binary so regular
// unit test runs stay hermetic.
func requireBinary(t *testing.T) {
	t.Helper()
	if binaryPath == "" {
		t.Skipf("set %s to a compiled binary to run integration tests", binaryPathEnvVar)
	}
}

func binary() string {
	if filepath.IsAbs(binaryPath) {
		return binaryPath
	}
	return filepath.Join(basepath, binaryPath)
}

func runBinary(ctx context.Context, args []string) ([]byte, error) {
	// nolint:gosec
	cmd := exec.CommandContext(ctx, binary(), args...)
	cmd.Env = append(os.Environ(), "GOCOVERDIR=.coverdata")
	// nolint:wrapcheck
	return cmd.CombinedOutput()
}

func TestMain(m *testing.M) {
	binaryPath = os.Getenv(binaryPathEnvVar)
	if binaryPath == "" {
		fmt.Printf("no binary provided, integration tests will be skipped\n")
	}

	os.Exit(m.Run())
}
