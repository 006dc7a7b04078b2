package cmd

import (
	"bytes"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/PolarWolf314/coffer/internal/configs"
	"github.com/PolarWolf314/coffer/internal/utils"
	"github.com/spf13/cobra"
)

// setupTestEnvironment points COFFER_HOME at a temp dir and supplies the
// passphrase through the environment. It returns the coffer directory.
func setupTestEnvironment(t *testing.T, passphrase string) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "coffer")

	t.Setenv(configs.HomeEnvVar, dir)
	t.Setenv(utils.PassphraseEnvVar, passphrase)
	t.Setenv("NO_COLOR", "1")
	if err := configs.InitSettings(); err != nil {
		t.Fatalf("Failed to init settings: %v", err)
	}

	t.Cleanup(func() {
		ResetGlobalState()
		os.Unsetenv(configs.HomeEnvVar)
		_ = configs.InitSettings()
	})
	return dir
}

// captureOutput captures both stdout and stderr during function execution.
func captureOutput(fn func() error) (string, error) {
	originalStdout := os.Stdout
	originalStderr := os.Stderr

	stdoutReader, stdoutWriter, _ := os.Pipe()
	stderrReader, stderrWriter, _ := os.Pipe()

	os.Stdout = stdoutWriter
	os.Stderr = stderrWriter

	outputChan := make(chan string, 2)
	collect := func(r io.Reader) {
		var buf bytes.Buffer
		if _, err := io.Copy(&buf, r); err != nil {
			log.Fatalf("Failed to run copy command: %s", err)
		}
		outputChan <- buf.String()
	}
	go collect(stdoutReader)
	go collect(stderrReader)

	err := fn()

	stdoutWriter.Close()
	stderrWriter.Close()

	os.Stdout = originalStdout
	os.Stderr = originalStderr

	return <-outputChan + <-outputChan, err
}

// createTestCLI resets global state and returns the root command set up to
// run args.
func createTestCLI(args ...string) *cobra.Command {
	ResetGlobalState()
	RootCmd.SetArgs(args)
	return RootCmd
}

// runCLI runs args and returns everything written to stdout and stderr.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	output, err := captureOutput(func() error {
		cli := createTestCLI(args...)
		cli.SetOut(&out)
		cli.SetErr(&out)
		return cli.Execute()
	})
	return out.String() + output, err
}
