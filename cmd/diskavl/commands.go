package main

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-faker/faker/v4"

	"github.com/luobolong/disk-avl/internal/storage/avl"
)

// maxSeedRange bounds max-min for seed; the key pool is materialized.
const maxSeedRange = 1 << 24

// keysCmd builds the insert, search and delete commands, which share their
// flags and differ only in the per-key action.
func keysCmd(name string, readOnly bool, usage func(io.Writer),
	action func(io.Writer, *avl.Tree, int32) error) func([]string) int {
	return func(args []string) int {
		fs := flag.NewFlagSet(name, flag.ContinueOnError)
		fs.SetOutput(stderr)
		tf := addTreeFlags(fs)

		if err := fs.Parse(args); err != nil {
			return 1
		}

		if tf.wantHelp() {
			usage(stdout)
			return 0
		}

		keys, err := parseKeys(fs.Args())
		if err != nil {
			printError(err)
			return 1
		}

		s, err := tf.openSession(name, readOnly)
		if err != nil {
			printError(err)
			return 1
		}
		defer s.close()

		exitCode := 0
		for _, k := range keys {
			if err := action(stdout, s.tree, k); err != nil {
				exitCode = 1
				if errors.Is(err, avl.ErrDuplicateKey) {
					continue
				}
				s.logger.Error(name+" failed", "key", k, "error", err)
				printError(err)
				return 1
			}
		}
		s.logger.Debug(name+" done", "keys", len(keys))
		return exitCode
	}
}

// insertCmd handles the insert command.
func insertCmd(args []string) int {
	return keysCmd("insert", false, printInsertUsage, insertKey)(args)
}

// searchCmd handles the search command.
func searchCmd(args []string) int {
	return keysCmd("search", true, printSearchUsage, searchKey)(args)
}

// deleteCmd handles the delete command.
func deleteCmd(args []string) int {
	return keysCmd("delete", false, printDeleteUsage, deleteKey)(args)
}

// treeCmd builds the commands that take no arguments and run one read-only
// action against the tree.
func treeCmd(name string, usage func(io.Writer), action func(io.Writer, *avl.Tree) error) func([]string) int {
	return func(args []string) int {
		fs := flag.NewFlagSet(name, flag.ContinueOnError)
		fs.SetOutput(stderr)
		tf := addTreeFlags(fs)

		if err := fs.Parse(args); err != nil {
			return 1
		}

		if tf.wantHelp() {
			usage(stdout)
			return 0
		}

		s, err := tf.openSession(name, true)
		if err != nil {
			printError(err)
			return 1
		}
		defer s.close()

		if err := action(stdout, s.tree); err != nil {
			s.logger.Error(name+" failed", "error", err)
			printError(err)
			return 1
		}
		return 0
	}
}

// dumpCmd handles the dump command.
func dumpCmd(args []string) int {
	return treeCmd("dump", printDumpUsage, dumpTree)(args)
}

// checkCmd handles the check command.
func checkCmd(args []string) int {
	return treeCmd("check", printCheckUsage, checkTree)(args)
}

// statsCmd handles the stats command.
func statsCmd(args []string) int {
	return treeCmd("stats", printStatsUsage, printStats)(args)
}

// seedCmd handles the seed command.
func seedCmd(args []string) int {
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	fs.SetOutput(stderr)
	tf := addTreeFlags(fs)

	records := fs.Int("records", 0, "Number of random keys to insert (default from config)")
	minKey := fs.Int("min", 0, "Smallest key (default from config)")
	maxKey := fs.Int("max", 0, "Largest key (default from config)")

	if err := fs.Parse(args); err != nil {
		return 1
	}

	if tf.wantHelp() {
		printSeedUsage(stdout)
		return 0
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	s, err := tf.openSession("seed", false)
	if err != nil {
		printError(err)
		return 1
	}
	defer s.close()

	if !set["records"] {
		*records = s.cfg.Seed.Records
	}
	if !set["min"] {
		*minKey = int(s.cfg.Seed.Min)
	}
	if !set["max"] {
		*maxKey = int(s.cfg.Seed.Max)
	}

	keys, err := seedKeys(*records, int64(*minKey), int64(*maxKey))
	if err != nil {
		printError(err)
		return 1
	}

	startTime := time.Now()
	inserted, skipped := 0, 0
	for _, k := range keys {
		err := s.tree.Insert(k)
		switch {
		case err == nil:
			inserted++
		case errors.Is(err, avl.ErrDuplicateKey):
			skipped++
		default:
			printError(err)
			return 1
		}
	}

	s.logger.Info("seeded", "inserted", inserted, "skipped", skipped)
	okColor.Fprintf(stdout, "Seeded %d keys", inserted)
	fmt.Fprintf(stdout, " (%d already present) in %v\n", skipped, time.Since(startTime).Round(time.Millisecond))
	return 0
}

// seedKeys draws n distinct random keys from [lo, hi].
func seedKeys(n int, lo, hi int64) ([]int32, error) {
	switch {
	case n < 0:
		return nil, errors.New("-records must be non-negative")
	case lo < -1<<31 || hi > 1<<31-1:
		return nil, errors.New("-min and -max must be 32-bit signed integers")
	case lo >= hi:
		return nil, errors.New("-max must be greater than -min")
	case hi-lo >= maxSeedRange:
		return nil, errors.Newf("-max minus -min must be below %d", maxSeedRange)
	case int64(n) > hi-lo+1:
		return nil, errors.Newf("cannot draw %d distinct keys from [%d, %d]", n, lo, hi)
	}
	if n == 0 {
		return nil, nil
	}

	values, err := faker.RandomInt(int(lo), int(hi), n)
	if err != nil {
		return nil, errors.Wrap(err, "generate keys")
	}

	keys := make([]int32, 0, len(values))
	for _, v := range values {
		keys = append(keys, int32(v))
	}
	return keys, nil
}
