// Package buildinfo provides build information for sigtok.
//
// Values injected via ldflags take precedence; anything left unset is
// filled from the module build info embedded by the Go toolchain:
//
//	go build -ldflags "-X github.com/yndnr/sigtok-go/internal/infra/buildinfo.Version=v1.0.0"
package buildinfo
