// Command timeshift drives the clock of a running timeshiftd.
package main

import (
	"fmt"
	"os"

	"github.com/HerbHall/timeshift/internal/version"
)

const usage = `usage: timeshift <command> [flags] [args]

commands:
  status            show the daemon clock
  shift <amount>    move the clock by a duration (1h30m) or milliseconds (3600000);
                    put -- before a negative amount: shift -- -1h
  jump <target>     move the clock to a date string or epoch milliseconds
  reset             restore the real clock
  token             mint a bearer token for a daemon with auth_secret set
  version           print version information

common flags:
  -addr     daemon address (default $TIMESHIFT_ADDR or http://127.0.0.1:7700)
  -token    bearer token (default $TIMESHIFT_TOKEN)
  -secret   mint a token from this secret instead (default $TIMESHIFT_SECRET)
  -o        output format: text, json or yaml
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	args := os.Args[2:]
	var err error
	switch os.Args[1] {
	case "status":
		err = runStatus(args)
	case "shift":
		err = runShift(args)
	case "jump":
		err = runJump(args)
	case "reset":
		err = runReset(args)
	case "token":
		err = runToken(args)
	case "version", "--version", "-version":
		fmt.Println(version.Info())
	case "help", "-h", "--help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", os.Args[1], usage)
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "%s failed: %v\n", os.Args[1], err)
		os.Exit(1)
	}
}
