package main

import (
	"context"
	"fmt"
	"os"

	"IndoHomz/internal/commands"
	"IndoHomz/internal/config"
)

func main() {
	cfg := config.Load()
	if err := commands.NewRootCmd(cfg).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
