package domain

import (
	"os"
	"path/filepath"
)

const (
	// WorkFileName is the name of the optional workspace configuration file at the root.
	WorkFileName = "pbuild.work.yaml"

	// TargetFileName is the name of the build configuration a target directory must contain.
	TargetFileName = "pbuild.yaml"

	// EnvFileName is the name of the dotenv file loaded into a target's build environment.
	EnvFileName = ".env"

	// SocketPrefix prefixes the per-run channel socket name.
	SocketPrefix = "pbuild-"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644

	// PrivateFilePerm is the default permission for private files (rw-------).
	PrivateFilePerm = 0o600
)

// ChannelSocketPath returns the Unix socket path used by the run with the given id.
func ChannelSocketPath(runID string) string {
	return filepath.Join(os.TempDir(), SocketPrefix+runID+".sock")
}
