package main

import (
	"context"
	"os"

	"github.com/bnema/rbwchain/internal/adapters/in/cli"
	buildinfo "github.com/bnema/rbwchain/pkg/version"
)

// Set via -ldflags "-X main.version=... -X main.commit=... -X main.date=...".
var (
	version string
	commit  string
	date    string
)

func main() {
	buildinfo.Set(version, commit, date)
	os.Exit(cli.Execute(context.Background()))
}
