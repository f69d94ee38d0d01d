package watcher

import (
	"bufio"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// isRemotePathFunc is swappable for tests.
var isRemotePathFunc = isRemotePath

// isRemotePath reports whether the path sits on a mount where inotify cannot
// be trusted (NFS, SMB, sshfs and other FUSE filesystems). A path that does
// not exist yet is judged by its closest existing ancestor. Only Linux has a
// readable mount table; elsewhere the answer is false and fsnotify gets to
// try.
func isRemotePath(path string) bool {
	if path == "" {
		return false
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}

	probe := abs
	for {
		if _, err := os.Stat(probe); err == nil {
			break
		}
		parent := filepath.Dir(probe)
		if parent == probe {
			return false
		}
		probe = parent
	}

	if runtime.GOOS != "linux" {
		return false
	}
	return mountIsRemote(probe, "/proc/mounts")
}

// mountIsRemote finds the longest mount point prefix of path in the mount
// table and checks its filesystem name.
func mountIsRemote(path, mountsFile string) bool {
	f, err := os.Open(mountsFile)
	if err != nil {
		return false
	}
	defer f.Close()

	best := ""
	remote := false

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 3 {
			continue
		}
		mountPoint, fsName := fields[1], fields[2]
		if !mountPrefix(path, mountPoint) || len(mountPoint) < len(best) {
			continue
		}
		best = mountPoint
		remote = remoteFsName(fsName)
	}
	if scanner.Err() != nil {
		return false
	}
	return remote
}

func mountPrefix(path, mountPoint string) bool {
	if mountPoint == "/" {
		return true
	}
	return path == mountPoint || strings.HasPrefix(path, mountPoint+"/")
}

func remoteFsName(name string) bool {
	return strings.HasPrefix(name, "nfs") ||
		name == "cifs" || name == "smbfs" || name == "smb2" ||
		name == "fuse" || strings.HasPrefix(name, "fuse.")
}
