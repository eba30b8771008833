package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"layoutdna/cli"
	"layoutdna/signalhandler"
)

var (
	version = "dev"
	commit  = ""
)

func main() {
	ctx, cancel := signalhandler.SetupHandler(context.Background())
	defer cancel()

	cli.SetVersion(version, commit)
	if err := cli.Execute(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
