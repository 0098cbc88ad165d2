package cberrors

import (
	"errors"
	"os"
	"os/exec"
	"testing"

	"github.com/luxfi/log"
	"github.com/stretchr/testify/require"
)

// Fatal and RecoverHandlerPanic both terminate the process, so they are
// exercised in a re-executed subprocess rather than in-process.

func TestFatalExitsNonZero(t *testing.T) {
	if os.Getenv("CBERRORS_HELPER_FATAL") == "1" {
		Fatal(log.NewNoOpLogger(), "mmap read", errors.New("bad offset"))
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=TestFatalExitsNonZero")
	cmd.Env = append(os.Environ(), "CBERRORS_HELPER_FATAL=1")
	err := cmd.Run()

	var exitErr *exec.ExitError
	require.ErrorAs(t, err, &exitErr)
	require.Equal(t, 1, exitErr.ExitCode())
}

func TestRecoverHandlerPanicExitsNonZero(t *testing.T) {
	if os.Getenv("CBERRORS_HELPER_PANIC") == "1" {
		func() {
			defer RecoverHandlerPanic(log.NewNoOpLogger())
			panic("handler blew up")
		}()
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=TestRecoverHandlerPanicExitsNonZero")
	cmd.Env = append(os.Environ(), "CBERRORS_HELPER_PANIC=1")
	err := cmd.Run()

	var exitErr *exec.ExitError
	require.ErrorAs(t, err, &exitErr)
	require.Equal(t, 1, exitErr.ExitCode())
}

func TestRecoverHandlerPanicNoOpWithoutPanic(t *testing.T) {
	ran := false
	func() {
		defer RecoverHandlerPanic(log.NewNoOpLogger())
		ran = true
	}()
	require.True(t, ran)
}
