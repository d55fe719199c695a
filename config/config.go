package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/hupe1980/gridkit/column"
)

// EnvPrefix is the prefix of environment overrides.
const EnvPrefix = "GRIDKIT"

// Column declares one grid column. Accessor fields hold template sources.
type Column struct {
	Name             string                       `mapstructure:"name" validate:"required_without=Attributes"`
	Title            string                       `mapstructure:"title"`
	Field            string                       `mapstructure:"field"`
	SortField        string                       `mapstructure:"sortField"`
	Kind             string                       `mapstructure:"kind" validate:"omitempty,oneof=text number date boolean badge"`
	Format           string                       `mapstructure:"format"`
	Hidden           bool                         `mapstructure:"hidden"`
	Filter           string                       `mapstructure:"filter" validate:"omitempty,oneof=text pickExisting number"`
	QuickFilterValue string                       `mapstructure:"quickFilterValue"`
	SortValue        string                       `mapstructure:"sortValue"`
	FilterValue      string                       `mapstructure:"filterValue"`
	UniqueValue      string                       `mapstructure:"uniqueValue"`
	Attributes       []column.AttributeDescriptor `mapstructure:"attributes" validate:"dive"`
}

// Selection declares an initial column filter.
type Selection struct {
	Kind        string `mapstructure:"kind" validate:"required,oneof=text pickExisting number"`
	Text        string `mapstructure:"text"`
	Values      []any  `mapstructure:"values"`
	Method      string `mapstructure:"method" validate:"required_if=Kind number"`
	Value       any    `mapstructure:"value"`
	SecondValue any    `mapstructure:"secondValue"`
}

// Sort declares the initial sort.
type Sort struct {
	Column    string `mapstructure:"column"`
	Direction string `mapstructure:"direction" validate:"omitempty,oneof=asc desc"`
}

// Source declares where the grid rows are read from.
//
// URI schemes: file:// (or a plain path), s3://bucket/key and
// minio://bucket/key.
type Source struct {
	URI         string `mapstructure:"uri"`
	Format      string `mapstructure:"format" validate:"omitempty,oneof=auto json ndjson csv arrow parquet"`
	Compression string `mapstructure:"compression" validate:"omitempty,oneof=none zstd zst lz4"`
	RateLimit   int    `mapstructure:"rateLimit" validate:"gte=0"`
	Region      string `mapstructure:"region"`
	Endpoint    string `mapstructure:"endpoint" validate:"required_if=Scheme minio"`
	AccessKey   string `mapstructure:"accessKey"`
	SecretKey   string `mapstructure:"secretKey"`
	UseSSL      bool   `mapstructure:"useSSL"`
	// Scheme is derived from URI.
	Scheme string `mapstructure:"-"`
}

// Views declares where saved views are stored.
type Views struct {
	Backend string `mapstructure:"backend" validate:"omitempty,oneof=blob dynamodb"`
	URI     string `mapstructure:"uri"`
	Table   string `mapstructure:"table" validate:"required_if=Backend dynamodb"`
}

// Grid is a grid configuration.
type Grid struct {
	ID          string               `mapstructure:"id"`
	Columns     []Column             `mapstructure:"columns" validate:"required,min=1,dive"`
	RowIDKey    string               `mapstructure:"rowIdKey"`
	QuickFilter string               `mapstructure:"quickFilter"`
	Filters     map[string]Selection `mapstructure:"filters" validate:"dive"`
	Sort        Sort                 `mapstructure:"sort"`
	PageSize    int                  `mapstructure:"pageSize" validate:"gte=0"`
	Source      Source               `mapstructure:"source"`
	Views       Views                `mapstructure:"views"`
	LogLevel    string               `mapstructure:"logLevel" validate:"omitempty,oneof=debug info warn error"`
}

func newViper() *viper.Viper {
	v := viper.New()

	// defaults
	v.SetDefault("id", "default")
	v.SetDefault("rowIdKey", "id")
	v.SetDefault("pageSize", 0)
	v.SetDefault("quickFilter", "")
	v.SetDefault("logLevel", "info")
	v.SetDefault("source.uri", "")
	v.SetDefault("source.format", "auto")
	v.SetDefault("source.compression", "")
	v.SetDefault("source.rateLimit", 0)
	v.SetDefault("source.region", "")
	v.SetDefault("source.endpoint", "")
	v.SetDefault("source.accessKey", "")
	v.SetDefault("source.secretKey", "")
	v.SetDefault("source.useSSL", true)
	v.SetDefault("views.backend", "")
	v.SetDefault("views.uri", "")
	v.SetDefault("views.table", "")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the configuration file at path, applies environment overrides
// and validates the result.
func Load(path string) (*Grid, error) {
	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(filepath.Dir(path), ".env")
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			return nil, errors.Wrapf(err, "loading %s", dotEnvPath)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "checking %s", dotEnvPath)
	}

	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "reading config %s", path)
	}

	var g Grid
	if err := v.Unmarshal(&g); err != nil {
		return nil, errors.Wrapf(err, "decoding config %s", path)
	}
	g.normalize()
	if err := g.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid config %s", path)
	}
	return &g, nil
}

// Validate checks the configuration.
func (g *Grid) Validate() error {
	g.Source.Scheme = g.Source.schemeOf()
	if err := Validate.Struct(g); err != nil {
		return translate(err)
	}
	names := g.columnNames()
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if _, dup := seen[name]; dup {
			return errors.Errorf("columns: duplicate column %q", name)
		}
		seen[name] = struct{}{}
	}
	for name := range g.Filters {
		if _, ok := seen[name]; !ok {
			return errors.Errorf("filters: unknown column %q", name)
		}
	}
	if g.Sort.Column != "" {
		if _, ok := seen[g.Sort.Column]; !ok {
			return errors.Errorf("sort: unknown column %q", g.Sort.Column)
		}
	}
	return nil
}

// SlogLevel returns the configured log level.
func (g *Grid) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(g.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func (s Source) schemeOf() string {
	scheme, _, found := strings.Cut(s.URI, "://")
	if !found {
		return "file"
	}
	return strings.ToLower(scheme)
}
