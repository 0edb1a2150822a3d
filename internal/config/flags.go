package config

import (
	"flag"
	"fmt"
	"io"

	"github.com/dmitrijs2005/cabinkeeper/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-s string   store driver: sqlite, postgres, s3, memory
//	-db string  sqlite database path
//	-m string   model used for insights
//	-l string   log level: debug, info, warn, error
//	-e string   calendar export path
//
// args is filtered with flagx.FilterArgs so flags owned by other loaders
// (-c, -env) are ignored here.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-s", "-db", "-m", "-l", "-e"})

	fs := flag.NewFlagSet("cabinkeeper", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.StoreDriver, "s", cfg.StoreDriver, "store driver (sqlite, postgres, s3, memory)")
	fs.StringVar(&cfg.SQLitePath, "db", cfg.SQLitePath, "sqlite database path")
	fs.StringVar(&cfg.Model, "m", cfg.Model, "model used for insights")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.ExportPath, "e", cfg.ExportPath, "calendar export path")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}
	return nil
}
