// pgpseal is a small command line front end for the pgpseal library:
// it generates OpenPGP key ring pairs and runs the streaming
// sign-then-encrypt pipeline over files.
package main

import (
	"fmt"
	"os"

	"github.com/pgpseal/pgpseal/constants"
	"github.com/rs/zerolog"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return 2
	}

	switch args[0] {
	case "keygen":
		return runKeygen(args[1:])
	case "encrypt":
		return runEncrypt(args[1:])
	case "version", "--version":
		fmt.Printf("pgpseal %s\n", constants.Version)
		return 0
	case "help", "--help", "-h":
		printUsage()
		return 0
	default:
		fmt.Fprintf(os.Stderr, "pgpseal: unknown command %q\n", args[0])
		printUsage()
		return 2
	}
}

func printUsage() {
	fmt.Fprint(os.Stderr, `usage: pgpseal <command> [flags]

commands:
  keygen    generate an OpenPGP key ring pair
  encrypt   sign and encrypt a file for a recipient
  version   print the pgpseal version

run "pgpseal <command> --help" for command flags
`)
}

// newLogger builds the console logger shared by all subcommands.
// Debug level is opt-in via --verbose.
func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	writer := zerolog.ConsoleWriter{Out: os.Stderr}
	return zerolog.New(writer).Level(level).With().Timestamp().Logger()
}
