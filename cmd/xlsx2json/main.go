// xlsx2json converts Excel workbooks into JSON data tables for bramble games.
//
// Usage:
//
//	xlsx2json [flags]
//
// Flags:
//
//	--src <dir>          - Directory holding .xlsx workbooks (default: excel)
//	--dest <dir>         - Directory receiving <sheet>.json files (default: json)
//	--head <row>         - 1-based header row (default: 2)
//	--sqlite <path>      - Also archive every run into a SQLite database
//	--config <file>      - Read the options above from a yaml/json/toml file
//	--exit-delay <dur>   - Time to stay alive after a fatal error (default: 30s)
//
// Every option can also be set through an XLSX2JSON_ environment variable,
// e.g. XLSX2JSON_HEAD=1.
//
// On failure the error is logged and the process stays alive for the exit
// delay, so a console window opened by double-clicking keeps the message on
// screen, then logs "exit" and exits with status 1.
package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/phanxgames/bramble/internal/datatable"
)

const defaultExitDelay = 30 * time.Second

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "xlsx2json",
	})
	delay := defaultExitDelay

	defer func() {
		if r := recover(); r != nil {
			crashAndExit(logger, fmt.Errorf("panic: %v", r), delay, time.Sleep, os.Exit)
		}
	}()

	cmd := newRootCmd(logger, &delay)
	if err := cmd.Execute(); err != nil {
		crashAndExit(logger, err, delay, time.Sleep, os.Exit)
	}
}

// newRootCmd builds the command. delay receives the configured exit delay as
// soon as the options are loaded.
func newRootCmd(logger *log.Logger, delay *time.Duration) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "xlsx2json",
		Short: "Convert Excel workbooks into JSON data tables",
		Long: `xlsx2json reads every .xlsx workbook in the source directory and writes
one JSON file per sheet into the destination directory. The header row names
the columns; every non-blank row below it becomes one JSON object.

Examples:
  xlsx2json --src excel --dest json
  xlsx2json --head 1 --sqlite tables.db
  xlsx2json --config datatable.yaml`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, d, err := loadOptions(cmd)
			if d > 0 {
				*delay = d
			}
			if err != nil {
				return err
			}
			report, err := datatable.Convert(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			logger.Info("done", "run", report.RunID, "workbooks", report.Workbooks, "tables", len(report.Tables))
			return nil
		},
	}

	f := cmd.Flags()
	f.String("config", "", "Config file (yaml, json or toml)")
	f.String("src", "excel", "Directory holding .xlsx workbooks")
	f.String("dest", "json", "Directory receiving <sheet>.json files")
	f.Int("head", 2, "1-based header row")
	f.String("sqlite", "", "Also archive the tables into this SQLite database")
	f.Duration("exit-delay", defaultExitDelay, "Time to stay alive after a fatal error")
	return cmd
}

// loadOptions merges flags, XLSX2JSON_* environment variables and the
// optional config file, in that order of precedence.
func loadOptions(cmd *cobra.Command) (datatable.Config, time.Duration, error) {
	v := viper.New()
	v.SetEnvPrefix("XLSX2JSON")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return datatable.Config{}, 0, err
	}

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return datatable.Config{}, v.GetDuration("exit-delay"), fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var cfg datatable.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return datatable.Config{}, v.GetDuration("exit-delay"), fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, v.GetDuration("exit-delay"), nil
}

// crashAndExit logs err, keeps the process alive for delay, then exits with
// status 1.
func crashAndExit(logger *log.Logger, err error, delay time.Duration, sleep func(time.Duration), exit func(int)) {
	logger.Error(err.Error())
	if delay > 0 {
		sleep(delay)
	}
	logger.Info("exit")
	exit(1)
}
