package version

import (
	"runtime"
)

// Set at build time:
//
//	go build -ldflags "-X github.com/MrSnakeDoc/verse/internal/version.Version=v0.1.0 -X github.com/MrSnakeDoc/verse/internal/version.Commit=abcd123"
var (
	Version   = "dev"             // ex: v0.1.0
	Commit    = "none"            // ex: abcd123
	BuildDate = "unknown"         // ex: 2025-08-11T18:42:00Z
	GoVersion = runtime.Version() // go version
)

// UserAgent is sent with every request to the XML store.
func UserAgent() string {
	return "verse/" + Version + " (+https://github.com/MrSnakeDoc/verse)"
}
