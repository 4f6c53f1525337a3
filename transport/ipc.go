package transport

import (
	"os"
	"path/filepath"
	"strings"
)

const ipcScheme = "ipc://"

// ipcPath extracts the filesystem path from an ipc:// endpoint; the bool
// return is false for non-ipc endpoints (tcp://), for which the IPC
// filesystem helper is a no-op.
func ipcPath(endpoint string) (path string, isIPC bool) {
	if !strings.HasPrefix(endpoint, ipcScheme) {
		return "", false
	}
	return strings.TrimPrefix(endpoint, ipcScheme), true
}

// prepareIPCDir implements component B's pre-bind step: fail if the path is
// empty or already exists as a directory, otherwise create all missing
// parent directories. No-op for tcp:// endpoints.
func prepareIPCDir(endpoint string) error {
	path, isIPC := ipcPath(endpoint)
	if !isIPC {
		return nil
	}
	if path == "" {
		return &IpcPrepError{Endpoint: endpoint, Cause: errEmptyIPCPath}
	}
	if fi, err := os.Stat(path); err == nil && fi.IsDir() {
		return &IpcPrepError{Endpoint: endpoint, Cause: errIPCPathIsDir}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &IpcPrepError{Endpoint: endpoint, Cause: err}
	}
	return nil
}

// setIPCPermissions implements component B's post-bind step: set the
// socket-file permissions to mode; fails if the file does not exist yet.
// No-op for tcp:// endpoints or when mode is nil (feature disabled).
func setIPCPermissions(endpoint string, mode *os.FileMode) error {
	path, isIPC := ipcPath(endpoint)
	if !isIPC || mode == nil {
		return nil
	}
	if path == "" {
		return &IpcPrepError{Endpoint: endpoint, Cause: errEmptyIPCPath}
	}
	if _, err := os.Stat(path); err != nil {
		return &IpcPrepError{Endpoint: endpoint, Cause: errIPCFileMissing}
	}
	if err := os.Chmod(path, *mode); err != nil {
		return &IpcPrepError{Endpoint: endpoint, Cause: err}
	}
	return nil
}

// DefaultIPCPermissions is the default mode to pass to
// ReaderConfigBuilder.WithFixIPCPermissions (spec §6 default tunables);
// setIPCPermissions applies only the mode it is given.
const DefaultIPCPermissions os.FileMode = 0o777

var (
	errEmptyIPCPath   = errString("invalid ipc endpoint: empty path")
	errIPCPathIsDir   = errString("ipc endpoint is not a file: path exists as a directory")
	errIPCFileMissing = errString("ipc endpoint does not exist")
)

type errString string

func (e errString) Error() string { return string(e) }
