package main

import (
	"flag"
)

type AppFlags struct {
	GlobalConfigFile string
	TargetsFile      string
	CheckIntervalMs  int
	HotReload        bool
}

func ParseFlags() AppFlags {
	globalConfigFile := flag.String("config", "", "Path to the global YAML/JSON configuration file. If not set, searches default locations.")
	globalConfigFileAlias := flag.String("c", "", "Alias for -config")

	targetsFile := flag.String("targets", "", "Path to a text file with one URL per line to monitor from startup.")
	targetsFileAlias := flag.String("t", "", "Alias for -targets")

	intervalMs := flag.Int("interval-ms", 0, "Check interval in milliseconds (overrides monitor_config.check_interval_ms)")
	hotReload := flag.Bool("watch-config", true, "Reload the configuration file when it changes")

	flag.Parse()

	flags := AppFlags{
		CheckIntervalMs: *intervalMs,
		HotReload:       *hotReload,
	}

	if *globalConfigFile != "" {
		flags.GlobalConfigFile = *globalConfigFile
	} else if *globalConfigFileAlias != "" {
		flags.GlobalConfigFile = *globalConfigFileAlias
	}

	if *targetsFile != "" {
		flags.TargetsFile = *targetsFile
	} else if *targetsFileAlias != "" {
		flags.TargetsFile = *targetsFileAlias
	}

	return flags
}
