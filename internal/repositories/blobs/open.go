package blobs

import (
	"context"
	"fmt"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverS3       = "s3"
	DriverMemory   = "memory"
)

// Options selects and configures a backend. Only the fields of the chosen
// driver are read.
type Options struct {
	Driver      string
	SQLitePath  string
	PostgresDSN string
	S3          S3Options
}

func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Driver {
	case DriverSQLite, "":
		return OpenSQLite(ctx, opts.SQLitePath)
	case DriverPostgres:
		return OpenPostgres(ctx, opts.PostgresDSN)
	case DriverS3:
		return NewS3Repository(ctx, opts.S3)
	case DriverMemory:
		return NewMemoryRepository(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", opts.Driver)
	}
}
