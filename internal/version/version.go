package version

// Version is the current instafetch release, overridable at build time:
//
//	go build -ldflags "-X instafetch/internal/version.Version=v1.2.3"
var Version = "0.4.1"
