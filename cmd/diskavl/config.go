package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/luobolong/disk-avl/internal/config"
)

// configCmd handles the config command.
func configCmd(args []string) int {
	if len(args) == 0 {
		printConfigUsage(stdout)
		return 0
	}

	if args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		printConfigUsage(stdout)
		return 0
	}

	switch args[0] {
	case "validate":
		return configValidateCmd(args[1:])
	case "init":
		return configInitCmd(args[1:])
	case "show":
		return configShowCmd(args[1:])
	default:
		fmt.Fprintf(stderr, "Unknown config subcommand: %s\n", args[0])
		fmt.Fprintln(stderr, "Run 'diskavl config help' for usage.")
		return 1
	}
}

// configValidateCmd handles the config validate subcommand.
func configValidateCmd(args []string) int {
	fs := flag.NewFlagSet("config validate", flag.ContinueOnError)
	fs.SetOutput(stderr)

	configFile := fs.String("config", "", "Path to configuration file")
	help := fs.Bool("h", false, "Show help message")
	helpLong := fs.Bool("help", false, "Show help message")

	if err := fs.Parse(args); err != nil {
		return 1
	}

	if *help || *helpLong {
		fmt.Fprintln(stdout, "Validate configuration file")
		fmt.Fprintln(stdout)
		fmt.Fprintln(stdout, "Usage:")
		fmt.Fprintln(stdout, "  diskavl config validate -config FILE")
		return 0
	}

	if *configFile == "" {
		fmt.Fprintln(stderr, "Error: -config is required")
		return 1
	}

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		fmt.Fprintf(stderr, "Invalid configuration: %v\n", err)
		return 1
	}

	errs := config.ValidateConfig(cfg)
	if len(errs) > 0 {
		fmt.Fprintln(stderr, "Configuration errors:")
		for _, e := range errs {
			fmt.Fprintf(stderr, "  - %s\n", e)
		}
		return 1
	}

	okColor.Fprintln(stdout, "Configuration is valid")
	return 0
}

// configInitCmd handles the config init subcommand.
func configInitCmd(args []string) int {
	fs := flag.NewFlagSet("config init", flag.ContinueOnError)
	fs.SetOutput(stderr)

	output := fs.String("output", "", "Write to this file instead of stdout")
	help := fs.Bool("h", false, "Show help message")
	helpLong := fs.Bool("help", false, "Show help message")

	if err := fs.Parse(args); err != nil {
		return 1
	}

	if *help || *helpLong {
		fmt.Fprintln(stdout, "Generate default configuration")
		fmt.Fprintln(stdout)
		fmt.Fprintln(stdout, "Usage:")
		fmt.Fprintln(stdout, "  diskavl config init [-output FILE]")
		return 0
	}

	data, err := config.MarshalYAML(config.DefaultConfig())
	if err != nil {
		printError(err)
		return 1
	}

	if *output == "" {
		stdout.Write(data)
		return 0
	}

	if _, err := os.Stat(*output); err == nil {
		fmt.Fprintf(stderr, "Error: %s already exists\n", *output)
		return 1
	}
	if err := os.WriteFile(*output, data, 0644); err != nil {
		printError(err)
		return 1
	}
	fmt.Fprintf(stdout, "Wrote %s\n", *output)
	return 0
}

// configShowCmd handles the config show subcommand. It prints the effective
// configuration after environment overrides.
func configShowCmd(args []string) int {
	fs := flag.NewFlagSet("config show", flag.ContinueOnError)
	fs.SetOutput(stderr)

	configFile := fs.String("config", "", "Path to configuration file")
	format := fs.String("format", "yaml", "Output format (yaml, json)")
	help := fs.Bool("h", false, "Show help message")
	helpLong := fs.Bool("help", false, "Show help message")

	if err := fs.Parse(args); err != nil {
		return 1
	}

	if *help || *helpLong {
		fmt.Fprintln(stdout, "Show effective configuration")
		fmt.Fprintln(stdout)
		fmt.Fprintln(stdout, "Usage:")
		fmt.Fprintln(stdout, "  diskavl config show [-config FILE] [-format yaml|json]")
		return 0
	}

	cfg := config.DefaultConfig()
	if *configFile != "" {
		loaded, err := config.LoadConfig(*configFile)
		if err != nil {
			printError(err)
			return 1
		}
		cfg = loaded
	}
	if err := config.ApplyEnvOverrides(cfg); err != nil {
		printError(err)
		return 1
	}

	switch *format {
	case "yaml":
		data, err := config.MarshalYAML(cfg)
		if err != nil {
			printError(err)
			return 1
		}
		stdout.Write(data)
	case "json":
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(cfg); err != nil {
			printError(err)
			return 1
		}
	default:
		fmt.Fprintf(stderr, "Error: unknown format %q\n", *format)
		return 1
	}
	return 0
}
