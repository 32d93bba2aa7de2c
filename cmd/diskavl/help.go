package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage information to the given writer.
func printUsage(w io.Writer) {
	fmt.Fprint(w, `diskavl - AVL tree of int32 keys stored in a single file

Usage:
  diskavl <command> [options]

Commands:
  insert      Insert keys
  search      Look up keys
  delete      Delete keys
  dump        Print the tree structure
  check       Verify the tree invariants
  stats       Show file and tree statistics
  seed        Insert random keys
  backup      Dump all keys to a backup file
  restore     Rebuild a tree from a backup file
  shell       Interactive shell
  config      Configuration management
  version     Show version information

Use "diskavl <command> -h" for more information about a command.
`)
}

const treeOptions = `  -file string
        Tree file path (overrides config, default "tree.avl")
  -config string
        Path to configuration file
  -h, -help
        Show this help message
`

const keyNote = `
Keys are decimal 32-bit signed integers. Put "--" before negative keys:
  diskavl delete -file tree.avl -- -5
`

// printInsertUsage prints the insert command usage.
func printInsertUsage(w io.Writer) {
	fmt.Fprint(w, `Insert keys

Usage:
  diskavl insert [options] key...

Options:
`+treeOptions+keyNote+`
Exits with status 1 if any key was already present.
`)
}

// printSearchUsage prints the search command usage.
func printSearchUsage(w io.Writer) {
	fmt.Fprint(w, `Look up keys

Usage:
  diskavl search [options] key...

Options:
`+treeOptions+keyNote)
}

// printDeleteUsage prints the delete command usage.
func printDeleteUsage(w io.Writer) {
	fmt.Fprint(w, `Delete keys

Usage:
  diskavl delete [options] key...

Options:
`+treeOptions+keyNote+`
Deleting an absent key is not an error.
`)
}

// printDumpUsage prints the dump command usage.
func printDumpUsage(w io.Writer) {
	fmt.Fprint(w, `Print the tree structure in pre-order

Usage:
  diskavl dump [options]

Options:
`+treeOptions+`
Each line shows the side of the parent (L/R, * for the root), the key,
the record offset, the stored height and the balance factor.
`)
}

// printCheckUsage prints the check command usage.
func printCheckUsage(w io.Writer) {
	fmt.Fprint(w, `Verify ordering, heights, balance and pointers of every node

Usage:
  diskavl check [options]

Options:
`+treeOptions)
}

// printStatsUsage prints the stats command usage.
func printStatsUsage(w io.Writer) {
	fmt.Fprint(w, `Show file and tree statistics

Usage:
  diskavl stats [options]

Options:
`+treeOptions)
}

// printSeedUsage prints the seed command usage.
func printSeedUsage(w io.Writer) {
	fmt.Fprint(w, `Insert distinct random keys

Usage:
  diskavl seed [options]

Options:
  -records int
        Number of keys to insert (default from config, 1000)
  -min int
        Smallest key (default from config, 0)
  -max int
        Largest key (default from config, 1000000)
`+treeOptions+`
Keys already present are skipped.
`)
}

// printBackupUsage prints the backup command usage.
func printBackupUsage(w io.Writer) {
	fmt.Fprint(w, `Dump all keys to a backup file

Usage:
  diskavl backup [options]

Options:
  -output string
        Output file path (required)
  -compress
        Compress with snappy (default from config, true)
`+treeOptions)
}

// printRestoreUsage prints the restore command usage.
func printRestoreUsage(w io.Writer) {
	fmt.Fprint(w, `Rebuild a tree from a backup file

Usage:
  diskavl restore [options]

Options:
  -input string
        Backup file path (required)
  -overwrite
        Replace the keys of a non-empty tree
  -dry-run
        Only verify the backup file
`+treeOptions)
}

// printShellUsage prints the shell command usage.
func printShellUsage(w io.Writer) {
	fmt.Fprint(w, `Interactive shell

Usage:
  diskavl shell [options]

Options:
  -read-only
        Open the tree read-only
`+treeOptions)
}

// printShellHelp lists the statements accepted by the shell.
func printShellHelp(w io.Writer) {
	fmt.Fprint(w, `Statements:
  insert k...   Insert keys
  search k...   Look up keys
  delete k...   Delete keys
  keys          List keys in order
  min, max      Smallest or largest key
  dump          Print the tree structure
  check         Verify the tree
  stats         Show statistics
  help          Show this list
  exit, quit    Leave the shell
`)
}

// printConfigUsage prints the config command usage.
func printConfigUsage(w io.Writer) {
	fmt.Fprint(w, `Configuration management

Usage:
  diskavl config <subcommand> [options]

Subcommands:
  init        Print (or write) the default configuration
  show        Show the effective configuration
  validate    Validate a configuration file

Environment Variables:
  DISKAVL_STORAGE_PATH            Override the tree file path
  DISKAVL_STORAGE_SYNC_ON_WRITE   Override syncOnWrite (true/false)
  DISKAVL_LOGGING_LEVEL           Override log level
  DISKAVL_LOGGING_FORMAT          Override log format
  DISKAVL_LOGGING_OUTPUT          Override log output
`)
}

// printVersionUsage prints the version command usage.
func printVersionUsage(w io.Writer) {
	fmt.Fprint(w, `Show version information

Usage:
  diskavl version [options]

Options:
  -short
        Show only version number
  -h, -help
        Show this help message
`)
}
