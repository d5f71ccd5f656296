// internal/version/version.go
package version

// Version can be overridden at build time:
//
//	go build -ldflags "-X seqvault/internal/version.Version=v1.2.3"
var Version = "0.7.3"
