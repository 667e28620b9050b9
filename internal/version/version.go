package version

// Version is overridden at build time:
//
//	go build -ldflags "-X stcall/internal/version.Version=v1.2.0" ./cmd/stcall
var Version = "dev"
