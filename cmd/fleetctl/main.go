// Command fleetctl inspects the vehicle catalog, runs registry simulations and
// serves the command surface to a scripting host over stdin/stdout.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/OCAP2/fleet/internal/config"
)

// BuildDate can be set at build time via ldflags
var (
	CurrentVersion string = "0.0.1"
	BuildDate      string = "unknown"

	AppName string = "fleetctl"
)

func usage() {
	fmt.Fprintf(os.Stderr, `usage: %s [-config dir] <command> [args]

commands:
  models [-json]              list the catalog
  info <model>                describe one model
  seat <model> <index>        resolve a passenger seat
  variants <model> [count]    draw cosmetic variants
  simulate [-ticks n] [-vehicles n]
                              drive the registry and record to storage
  history [-db file] <id>     print the recorded track of a vehicle
  serve                       answer host commands on stdin/stdout
  version                     print the version
`, AppName)
}

func main() {
	fs := flag.NewFlagSet(AppName, flag.ExitOnError)
	fs.Usage = usage
	configDir := fs.String("config", ".", "directory containing "+config.FileName)
	_ = fs.Parse(os.Args[1:])

	args := fs.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	if args[0] == "version" {
		fmt.Printf("%s %s (%s)\n", AppName, CurrentVersion, BuildDate)
		return
	}

	a, err := newApp(*configDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "setup:", err)
		os.Exit(1)
	}

	err = run(a, args[0], args[1:])
	a.Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, args[0]+":", err)
		os.Exit(1)
	}
}

func run(a *app, cmd string, args []string) error {
	switch cmd {
	case "models":
		return modelsCmd(a, args)
	case "info":
		return infoCmd(a, args)
	case "seat":
		return seatCmd(a, args)
	case "variants":
		return variantsCmd(a, args)
	case "simulate":
		return simulateCmd(a, args)
	case "history":
		return historyCmd(a, args)
	case "serve":
		return serveCmd(a, args)
	default:
		usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}
