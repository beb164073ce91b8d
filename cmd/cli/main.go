package main

import (
	"aprcalc/cmd"
	"aprcalc/internal/logger"
	"context"
	"fmt"
	"os"
)

func main() {
	deps, err := cmd.InitializeDependencies()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	h := cliHandler{
		AssetService: deps.AssetService,
		TableService: deps.TableService,
		DefaultTotal: deps.Config.Defaults.Total,
	}
	ctx := logger.WithLogger(context.Background(), logger.New().With("cmd", "aprcalc"))
	err = h.rootCmd().ExecuteContext(ctx)
	cmd.CloseDependencies(deps)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
