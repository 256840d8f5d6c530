package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/idilsaglam/shoplist/internal/cli"
	"github.com/idilsaglam/shoplist/internal/ui"
)

func main() {
	// Root flags (apply to every subcommand)
	theme := flag.String("theme", os.Getenv("SHOPLIST_THEME"), "ui theme: classic, neon or mono")
	plain := flag.Bool("plain", false, "plain output: no colors, no frames")
	flag.Parse()

	ui.SetColorForcing(false, *plain)
	ui.SetTheme(*theme)

	// Hand the remaining args to the CLI runner.
	args := flag.Args()
	if len(args) == 0 {
		cli.PrintHelp()
		os.Exit(2)
	}

	code := cli.Run(args, cli.Options{
		Plain: *plain,
	})
	if code != 0 {
		fmt.Fprintln(os.Stderr)
	}
	os.Exit(code)
}
