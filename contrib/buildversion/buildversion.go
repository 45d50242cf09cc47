package buildversion

import "runtime/debug"

const devVersion = "dev"

// GetVersion resolves the version of modulePath from the build info of
// the running binary. When the binary was built outside a module
// context, or modulePath is the main module of a development build, it
// reports "dev".
func GetVersion(modulePath string) string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return devVersion
	}

	if info.Main.Path == modulePath {
		if info.Main.Version == "" || info.Main.Version == "(devel)" {
			return devVersion
		}
		return info.Main.Version
	}

	for _, dep := range info.Deps {
		if dep.Path == modulePath {
			return dep.Version
		}
	}

	return devVersion
}
