package main

import (
	"flag"
	"fmt"
	"time"

	"github.com/luobolong/disk-avl/internal/backup"
)

// backupCmd handles the backup command.
func backupCmd(args []string) int {
	fs := flag.NewFlagSet("backup", flag.ContinueOnError)
	fs.SetOutput(stderr)
	tf := addTreeFlags(fs)

	output := fs.String("output", "", "Output dump file path")
	compress := fs.Bool("compress", false, "Compress the dump with snappy (default from config)")

	if err := fs.Parse(args); err != nil {
		return 1
	}

	if tf.wantHelp() {
		printBackupUsage(stdout)
		return 0
	}

	if *output == "" {
		fmt.Fprintln(stderr, "Error: -output is required")
		return 1
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	s, err := tf.openSession("backup", true)
	if err != nil {
		printError(err)
		return 1
	}
	defer s.close()

	if !set["compress"] {
		*compress = s.cfg.Backup.Compress
	}

	fmt.Fprintf(stdout, "Creating backup...\n")
	fmt.Fprintf(stdout, "  Tree:     %s\n", s.cfg.Storage.Path)
	fmt.Fprintf(stdout, "  Output:   %s\n", *output)
	fmt.Fprintf(stdout, "  Compress: %v\n", *compress)

	stats, err := backup.Backup(s.tree, &backup.BackupOptions{
		OutputPath: *output,
		Compress:   *compress,
		Logger:     s.logger,
	})
	if err != nil {
		printError(err)
		return 1
	}

	okColor.Fprintf(stdout, "\nBackup completed successfully!\n")
	fmt.Fprintf(stdout, "  Keys:     %d\n", stats.Keys)
	fmt.Fprintf(stdout, "  Bytes:    %d\n", stats.TotalBytes)
	if stats.Compressed {
		fmt.Fprintf(stdout, "  Saved:    %.1f%%\n", stats.CompressionRatio()*100)
	}
	fmt.Fprintf(stdout, "  Duration: %v\n", stats.Duration.Round(time.Millisecond))
	return 0
}

// restoreCmd handles the restore command.
func restoreCmd(args []string) int {
	fs := flag.NewFlagSet("restore", flag.ContinueOnError)
	fs.SetOutput(stderr)
	tf := addTreeFlags(fs)

	input := fs.String("input", "", "Input dump file path")
	overwrite := fs.Bool("overwrite", false, "Replace the contents of a non-empty tree")
	dryRun := fs.Bool("dry-run", false, "Only verify the dump")

	if err := fs.Parse(args); err != nil {
		return 1
	}

	if tf.wantHelp() {
		printRestoreUsage(stdout)
		return 0
	}

	if *input == "" {
		fmt.Fprintln(stderr, "Error: -input is required")
		return 1
	}

	if *dryRun {
		stats, err := backup.VerifyDump(*input)
		if err != nil {
			printError(err)
			return 1
		}
		okColor.Fprintf(stdout, "Dump is valid: %d keys, compressed=%v\n", stats.Keys, stats.Compressed)
		return 0
	}

	cfg, err := tf.loadConfig()
	if err != nil {
		printError(err)
		return 1
	}
	logger := newLogger(cfg, "restore")

	fmt.Fprintf(stdout, "Restoring backup...\n")
	fmt.Fprintf(stdout, "  Input:     %s\n", *input)
	fmt.Fprintf(stdout, "  Tree:      %s\n", cfg.Storage.Path)
	fmt.Fprintf(stdout, "  Overwrite: %v\n", *overwrite)

	stats, err := backup.Restore(&backup.RestoreOptions{
		InputPath:   *input,
		TargetPath:  cfg.Storage.Path,
		Overwrite:   *overwrite,
		SyncOnWrite: cfg.Storage.SyncOnWrite,
		Logger:      logger,
	})
	if err != nil {
		printError(err)
		return 1
	}

	okColor.Fprintf(stdout, "\nRestore completed successfully!\n")
	fmt.Fprintf(stdout, "  Keys:     %d\n", stats.Keys)
	fmt.Fprintf(stdout, "  Duration: %v\n", stats.Duration.Round(time.Millisecond))
	return 0
}
