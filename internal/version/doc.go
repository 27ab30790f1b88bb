// Package version exposes build metadata of the dst-clock binaries.
//
// Version, Commit and BuildTime are injected with -ldflags and fall back to
// the VCS stamp Go embeds in module builds.
package version
