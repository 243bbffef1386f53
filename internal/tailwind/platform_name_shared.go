package tailwind

import "runtime"

// PlatformName returns a human-readable platform name, e.g. "Linux x64".
func PlatformName() string {
	return osName() + " " + archName()
}

func osName() string {
	switch runtime.GOOS {
	case "darwin":
		return "macOS"
	case "linux":
		return "Linux"
	default:
		return runtime.GOOS
	}
}

func archName() string {
	switch runtime.GOARCH {
	case "arm64":
		return "ARM64"
	case "amd64":
		return "x64"
	default:
		return runtime.GOARCH
	}
}
