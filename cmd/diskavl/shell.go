package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/luobolong/disk-avl/internal/logging"
	"github.com/luobolong/disk-avl/internal/storage/avl"
)

// shellCmd handles the shell command.
func shellCmd(args []string) int {
	fs := flag.NewFlagSet("shell", flag.ContinueOnError)
	fs.SetOutput(stderr)
	tf := addTreeFlags(fs)

	readOnly := fs.Bool("read-only", false, "Open the tree read-only")

	if err := fs.Parse(args); err != nil {
		return 1
	}

	if tf.wantHelp() {
		printShellUsage(stdout)
		return 0
	}

	s, err := tf.openSession("shell", *readOnly)
	if err != nil {
		printError(err)
		return 1
	}
	defer s.close()

	return runShell(s, stdin, stdout)
}

// runShell reads statements from in until EOF or exit. Errors are printed
// and the loop continues.
func runShell(s *session, in io.Reader, out io.Writer) int {
	sc := bufio.NewScanner(in)

	for {
		promptColor.Fprint(out, "diskavl> ")
		if !sc.Scan() {
			fmt.Fprintln(out)
			break
		}

		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}

		cmd := strings.ToLower(fields[0])
		if cmd == "exit" || cmd == "quit" {
			return 0
		}

		logger := s.logger.WithRequestID(logging.GenerateRequestID())
		logger.Debug("shell statement", "statement", cmd)

		if err := execStatement(out, s.tree, cmd, fields[1:]); err != nil {
			logger.Warn("statement failed", "statement", cmd, "error", err)
			errColor.Fprintf(out, "error: %v\n", err)
		}
	}

	if err := sc.Err(); err != nil {
		printError(err)
		return 1
	}
	return 0
}

func execStatement(out io.Writer, tree *avl.Tree, cmd string, args []string) error {
	perKey := map[string]func(io.Writer, *avl.Tree, int32) error{
		"insert": insertKey,
		"search": searchKey,
		"delete": deleteKey,
	}

	if action, ok := perKey[cmd]; ok {
		keys, err := parseKeys(args)
		if err != nil {
			return err
		}
		for _, k := range keys {
			if err := action(out, tree, k); err != nil && !errors.Is(err, avl.ErrDuplicateKey) {
				return err
			}
		}
		return nil
	}

	switch cmd {
	case "dump":
		return dumpTree(out, tree)
	case "check":
		return checkTree(out, tree)
	case "stats":
		return printStats(out, tree)
	case "keys":
		return printKeys(out, tree)
	case "min", "max":
		return printEdge(out, tree, cmd)
	case "help":
		printShellHelp(out)
		return nil
	default:
		return errors.Newf("unknown statement %q, type help", cmd)
	}
}

func printKeys(out io.Writer, tree *avl.Tree) error {
	keys, err := tree.Keys()
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		dimColor.Fprintln(out, "(empty)")
		return nil
	}

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprint(k)
	}
	fmt.Fprintln(out, strings.Join(parts, " "))
	return nil
}

func printEdge(out io.Writer, tree *avl.Tree, which string) error {
	edge := tree.Min
	if which == "max" {
		edge = tree.Max
	}

	k, ok, err := edge()
	if err != nil {
		return err
	}
	if !ok {
		dimColor.Fprintln(out, "(empty)")
		return nil
	}
	keyColor.Fprintln(out, k)
	return nil
}
