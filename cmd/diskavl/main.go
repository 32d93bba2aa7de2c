// Package main provides the entry point for the diskavl CLI.
package main

import (
	"fmt"
	"io"
	"os"
)

// Standard streams, replaced in tests.
var (
	stdin  io.Reader = os.Stdin
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

func main() {
	exitCode := run(os.Args)
	os.Exit(exitCode)
}

// run executes the CLI and returns an exit code.
// This is separated from main() to facilitate testing.
func run(args []string) int {
	if len(args) < 2 {
		printUsage(stdout)
		return 1
	}

	switch args[1] {
	case "insert":
		return insertCmd(args[2:])
	case "search":
		return searchCmd(args[2:])
	case "delete":
		return deleteCmd(args[2:])
	case "dump":
		return dumpCmd(args[2:])
	case "check":
		return checkCmd(args[2:])
	case "stats":
		return statsCmd(args[2:])
	case "seed":
		return seedCmd(args[2:])
	case "backup":
		return backupCmd(args[2:])
	case "restore":
		return restoreCmd(args[2:])
	case "shell":
		return shellCmd(args[2:])
	case "config":
		return configCmd(args[2:])
	case "version":
		return versionCmd(args[2:])
	case "help", "-h", "--help":
		printUsage(stdout)
		return 0
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", args[1])
		fmt.Fprintln(stderr, "Run 'diskavl help' for usage.")
		return 1
	}
}
