package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/pspsync/pkg/repository/ooxml"
	"github.com/secmon-lab/pspsync/pkg/service/storage"
	"github.com/secmon-lab/pspsync/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// Storage holds CLI flags for document locations
type Storage struct {
	enableGCS       bool
	credentialsFile string
	tempDir         string
}

func (x *Storage) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:        "gcs",
			Usage:       "Accept gs://bucket/object document locations",
			Category:    "Storage",
			Destination: &x.enableGCS,
			Sources:     cli.EnvVars("PSPSYNC_GCS"),
		},
		&cli.StringFlag{
			Name:        "gcs-credentials",
			Usage:       "Service account key file for GCS (application default credentials if empty)",
			Category:    "Storage",
			Destination: &x.credentialsFile,
			Sources:     cli.EnvVars("PSPSYNC_GCS_CREDENTIALS"),
			TakesFile:   true,
		},
		&cli.StringFlag{
			Name:        "temp-dir",
			Usage:       "Directory for local copies of remote documents",
			Category:    "Storage",
			Destination: &x.tempDir,
			Sources:     cli.EnvVars("PSPSYNC_TEMP_DIR"),
		},
	}
}

func (x Storage) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Bool("gcs", x.enableGCS),
		slog.Bool("credentials", x.credentialsFile != ""),
		slog.String("temp_dir", x.tempDir),
	)
}

// Configure returns the document opener. The returned function releases the GCS client.
func (x *Storage) Configure(ctx context.Context) (*ooxml.Repository, func(), error) {
	var opts []storage.Option
	closer := func() {}

	if x.tempDir != "" {
		opts = append(opts, storage.WithTempDir(x.tempDir))
	}

	if x.enableGCS || x.credentialsFile != "" {
		client, err := storage.NewGCSClient(ctx, x.credentialsFile)
		if err != nil {
			return nil, nil, goerr.Wrap(err, "failed to configure GCS")
		}
		opts = append(opts, storage.WithGCS(client))
		closer = func() {
			if err := client.Close(); err != nil {
				logging.From(ctx).Warn("failed to close GCS client", "error", err)
			}
		}
		logging.From(ctx).Debug("GCS document locations enabled")
	}

	return ooxml.New(storage.New(opts...)), closer, nil
}
