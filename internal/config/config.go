// Package config resolves server settings from flags, the environment and
// an optional .env file. Flags win over the environment.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/erazemk/popis/internal/photos"
)

// Config holds the resolved server settings.
type Config struct {
	DBPath    string
	Addr      string
	LogPath   string
	PhotosDir string
	MinIO     photos.MinIOConfig
}

// UseMinIO reports whether photos go to an S3-compatible store instead of
// the local directory.
func (c *Config) UseMinIO() bool {
	return c.MinIO.Endpoint != ""
}

// ErrHelp is returned when -h or -help was given.
var ErrHelp = flag.ErrHelp

const usage = `Usage: popis [flags]

Flags:
  -d, -db <path>            SQLite database path (default: popis.sqlite3, env POPIS_DB)
  -a, -addr <host:port>     listen address (default: :8080, env POPIS_ADDR)
  -l, -log <path>           log file path (default: none, env POPIS_LOG)
  -p, -photos <dir>         photo directory (default: photos, env POPIS_PHOTOS)
  -minio-endpoint <host>    store photos in MinIO/S3 instead (env POPIS_MINIO_ENDPOINT)
  -minio-access-key <key>   access key (env POPIS_MINIO_ACCESS_KEY)
  -minio-secret-key <key>   secret key (env POPIS_MINIO_SECRET_KEY)
  -minio-bucket <name>      bucket (default: popis, env POPIS_MINIO_BUCKET)
  -minio-ssl                use TLS (env POPIS_MINIO_SSL)
  -h, -help                 show this help and exit
`

// Load reads .env from the working directory when present and parses args.
func Load(args []string, out io.Writer) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}
	return Parse(args, os.Getenv, out)
}

// Parse resolves the configuration from args, using getenv for defaults.
func Parse(args []string, getenv func(string) string, out io.Writer) (*Config, error) {
	env := func(key, def string) string {
		if v := getenv(key); v != "" {
			return v
		}
		return def
	}

	sslDefault := false
	if v := getenv("POPIS_MINIO_SSL"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("POPIS_MINIO_SSL: %w", err)
		}
		sslDefault = b
	}

	var cfg Config
	fs := flag.NewFlagSet("popis", flag.ContinueOnError)
	fs.SetOutput(out)
	fs.Usage = func() { fmt.Fprint(out, usage) }

	dbDefault := env("POPIS_DB", "popis.sqlite3")
	fs.StringVar(&cfg.DBPath, "db", dbDefault, "")
	fs.StringVar(&cfg.DBPath, "d", dbDefault, "")

	addrDefault := env("POPIS_ADDR", ":8080")
	fs.StringVar(&cfg.Addr, "addr", addrDefault, "")
	fs.StringVar(&cfg.Addr, "a", addrDefault, "")

	logDefault := env("POPIS_LOG", "")
	fs.StringVar(&cfg.LogPath, "log", logDefault, "")
	fs.StringVar(&cfg.LogPath, "l", logDefault, "")

	photosDefault := env("POPIS_PHOTOS", "photos")
	fs.StringVar(&cfg.PhotosDir, "photos", photosDefault, "")
	fs.StringVar(&cfg.PhotosDir, "p", photosDefault, "")

	fs.StringVar(&cfg.MinIO.Endpoint, "minio-endpoint", env("POPIS_MINIO_ENDPOINT", ""), "")
	fs.StringVar(&cfg.MinIO.AccessKey, "minio-access-key", env("POPIS_MINIO_ACCESS_KEY", ""), "")
	fs.StringVar(&cfg.MinIO.SecretKey, "minio-secret-key", env("POPIS_MINIO_SECRET_KEY", ""), "")
	fs.StringVar(&cfg.MinIO.Bucket, "minio-bucket", env("POPIS_MINIO_BUCKET", "popis"), "")
	fs.BoolVar(&cfg.MinIO.UseSSL, "minio-ssl", sslDefault, "")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		fs.Usage()
		return nil, fmt.Errorf("unexpected argument: %s", fs.Arg(0))
	}

	if cfg.DBPath == "" {
		return nil, errors.New("database path must not be empty")
	}
	if cfg.UseMinIO() && (cfg.MinIO.AccessKey == "" || cfg.MinIO.SecretKey == "") {
		return nil, errors.New("MinIO endpoint set without access and secret keys")
	}
	return &cfg, nil
}
