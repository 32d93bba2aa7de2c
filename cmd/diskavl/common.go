package main

import (
	"flag"
	"strconv"

	"github.com/cockroachdb/errors"

	"github.com/luobolong/disk-avl/internal/config"
	"github.com/luobolong/disk-avl/internal/logging"
	"github.com/luobolong/disk-avl/internal/storage/avl"
)

// treeFlags are the flags shared by every command that opens a tree.
type treeFlags struct {
	file       *string
	configFile *string
	help       *bool
	helpLong   *bool
}

func addTreeFlags(fs *flag.FlagSet) *treeFlags {
	return &treeFlags{
		file:       fs.String("file", "", "Tree file path (overrides config)"),
		configFile: fs.String("config", "", "Path to configuration file"),
		help:       fs.Bool("h", false, "Show help message"),
		helpLong:   fs.Bool("help", false, "Show help message"),
	}
}

func (f *treeFlags) wantHelp() bool {
	return *f.help || *f.helpLong
}

// loadConfig builds the effective configuration: defaults, then the config
// file, then DISKAVL_* variables, then -file.
func (f *treeFlags) loadConfig() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if *f.configFile != "" {
		loaded, err := config.LoadConfig(*f.configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if err := config.ApplyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	if *f.file != "" {
		cfg.Storage.Path = *f.file
	}

	if errs := config.ValidateConfig(cfg); len(errs) > 0 {
		return nil, errors.Wrap(errs[0], "invalid configuration")
	}
	return cfg, nil
}

// session is an open tree together with the logger of one command.
type session struct {
	cfg    *config.Config
	tree   *avl.Tree
	logger logging.Logger
}

// openSession loads the configuration and opens the tree. A readOnly
// command never creates or modifies the file.
func (f *treeFlags) openSession(command string, readOnly bool) (*session, error) {
	cfg, err := f.loadConfig()
	if err != nil {
		return nil, err
	}

	logger := newLogger(cfg, command)

	opts := cfg.TreeOptions(logger)
	if readOnly {
		opts = opts.WithReadOnly(true).WithCreateIfNew(false)
	}

	tree, err := avl.Open(cfg.Storage.Path, opts)
	if err != nil {
		return nil, err
	}
	return &session{cfg: cfg, tree: tree, logger: logger}, nil
}

// newLogger builds the logger of one command invocation.
func newLogger(cfg *config.Config, command string) logging.Logger {
	return logging.New(cfg.Logging.LoggerConfig()).
		WithRequestID(logging.GenerateRequestID()).
		WithFields("cmd", command)
}

func (s *session) close() {
	if err := s.tree.Close(); err != nil {
		s.logger.Error("close failed", "error", err)
	}
}

// parseKeys parses decimal int32 keys.
func parseKeys(args []string) ([]int32, error) {
	if len(args) == 0 {
		return nil, errors.New("at least one key is required")
	}

	keys := make([]int32, 0, len(args))
	for _, a := range args {
		k, err := strconv.ParseInt(a, 10, 32)
		if err != nil {
			return nil, errors.Newf("invalid key %q: must be a 32-bit signed integer", a)
		}
		keys = append(keys, int32(k))
	}
	return keys, nil
}
