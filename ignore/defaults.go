package ignore

import "runtime"

// DefaultSkipDirs lists absolute directories that never hold user files.
// Walking them either loops through kernel views or never finishes.
var DefaultSkipDirs = defaultSkipDirs(runtime.GOOS)

// DefaultSkipDirNames lists directory base names skipped on every volume,
// compared case-insensitively.
var DefaultSkipDirNames = []string{
	"System Volume Information",
	"$Recycle.Bin",
	".Trashes",
	".Spotlight-V100",
	".fseventsd",
}

func defaultSkipDirs(goos string) []string {
	switch goos {
	case "linux":
		return []string{"/proc", "/sys", "/dev", "/run"}
	case "darwin":
		return []string{"/dev", "/System/Volumes/VM", "/private/var/vm"}
	default:
		return nil
	}
}
