package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/viper"

	"github.com/Clark-Hu/catalog-api/internal/store"
)

const (
	// VariantCatalog serves the full movies and songs CRUD surface.
	VariantCatalog = "catalog"
	// VariantFixture serves the hardcoded movie lookup only.
	VariantFixture = "fixture"

	DriverMongo    = store.DriverMongo
	DriverPostgres = store.DriverPostgres
	DriverMemory   = store.DriverMemory

	defaultConfigFile = "appsettings.json"
)

// Config captures all runtime configuration derived from the config file and
// environment variables.
type Config struct {
	Port             string
	Variant          string
	LogLevel         string
	ReadTimeoutSecs  int
	WriteTimeoutSecs int
	IdleTimeoutSecs  int
	Database         DatabaseSettings
}

// DatabaseSettings mirrors the DatabaseSettings section of the config file.
type DatabaseSettings struct {
	Driver                 string
	ConnectionString       string
	DatabaseName           string
	MoviesCollectionName   string
	SongsCollectionName    string
	MaxConns               int
	MinConns               int
	MaxConnIdleSecs        int
	MaxConnLifetimeSecs    int
	ConnTimeoutSecs        int
	StatementCacheCapacity int
}

// Load reads configuration from the file named by CONFIG_FILE (appsettings.json
// when unset) and environment variables, applying defaults and validation.
func Load() (Config, error) {
	return LoadFile(os.Getenv("CONFIG_FILE"))
}

// LoadFile is Load with an explicit config file path. An empty path falls back
// to appsettings.json, which may be absent.
func LoadFile(path string) (Config, error) {
	v, err := newViper(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port:             v.GetString("port"),
		Variant:          strings.ToLower(strings.TrimSpace(v.GetString("variant"))),
		LogLevel:         v.GetString("log.level"),
		ReadTimeoutSecs:  v.GetInt("server.readtimeoutsecs"),
		WriteTimeoutSecs: v.GetInt("server.writetimeoutsecs"),
		IdleTimeoutSecs:  v.GetInt("server.idletimeoutsecs"),
		Database: DatabaseSettings{
			Driver:                 strings.ToLower(strings.TrimSpace(v.GetString("databasesettings.driver"))),
			ConnectionString:       v.GetString("databasesettings.connectionstring"),
			DatabaseName:           v.GetString("databasesettings.databasename"),
			MoviesCollectionName:   v.GetString("databasesettings.moviescollectionname"),
			SongsCollectionName:    v.GetString("databasesettings.songscollectionname"),
			MaxConns:               v.GetInt("databasesettings.maxconns"),
			MinConns:               v.GetInt("databasesettings.minconns"),
			MaxConnIdleSecs:        v.GetInt("databasesettings.maxconnidlesecs"),
			MaxConnLifetimeSecs:    v.GetInt("databasesettings.maxconnlifetimesecs"),
			ConnTimeoutSecs:        v.GetInt("databasesettings.conntimeoutsecs"),
			StatementCacheCapacity: v.GetInt("databasesettings.statementcachecapacity"),
		},
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func newViper(path string) (*viper.Viper, error) {
	v := viper.New()

	v.SetDefault("port", "8080")
	v.SetDefault("variant", VariantCatalog)
	v.SetDefault("log.level", "info")
	v.SetDefault("server.readtimeoutsecs", 15)
	v.SetDefault("server.writetimeoutsecs", 15)
	v.SetDefault("server.idletimeoutsecs", 60)
	v.SetDefault("databasesettings.driver", DriverMongo)
	v.SetDefault("databasesettings.connectionstring", "")
	v.SetDefault("databasesettings.databasename", "catalog")
	v.SetDefault("databasesettings.moviescollectionname", "movies")
	v.SetDefault("databasesettings.songscollectionname", "songs")
	v.SetDefault("databasesettings.maxconns", 20)
	v.SetDefault("databasesettings.minconns", 2)
	v.SetDefault("databasesettings.maxconnidlesecs", 300)
	v.SetDefault("databasesettings.maxconnlifetimesecs", 3600)
	v.SetDefault("databasesettings.conntimeoutsecs", 10)
	v.SetDefault("databasesettings.statementcachecapacity", 256)

	// DatabaseSettings.ConnectionString <-> DATABASESETTINGS__CONNECTIONSTRING
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "__"))
	v.AutomaticEnv()

	optional := path == ""
	if optional {
		path = defaultConfigFile
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return v, nil
		}
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}
	return v, nil
}

func (c Config) validate() error {
	if c.Port == "" {
		return fmt.Errorf("Port is required")
	}
	switch c.Variant {
	case VariantCatalog, VariantFixture:
	default:
		return fmt.Errorf("Variant must be %q or %q, got %q", VariantCatalog, VariantFixture, c.Variant)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("Log.Level: %w", err)
	}
	if c.ReadTimeoutSecs <= 0 || c.WriteTimeoutSecs <= 0 || c.IdleTimeoutSecs <= 0 {
		return fmt.Errorf("Server timeouts must be positive")
	}

	db := c.Database
	switch db.Driver {
	case DriverMongo, DriverPostgres:
		if db.ConnectionString == "" {
			return fmt.Errorf("DatabaseSettings:ConnectionString is required for driver %s", db.Driver)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("DatabaseSettings:Driver %q is not supported", db.Driver)
	}
	if db.Driver == DriverMongo && db.DatabaseName == "" {
		return fmt.Errorf("DatabaseSettings:DatabaseName is required for driver mongo")
	}
	if db.MoviesCollectionName == "" || db.SongsCollectionName == "" {
		return fmt.Errorf("DatabaseSettings collection names must not be empty")
	}
	if db.MoviesCollectionName == db.SongsCollectionName {
		return fmt.Errorf("DatabaseSettings:MoviesCollectionName and SongsCollectionName must differ")
	}
	if db.MaxConns <= 0 {
		return fmt.Errorf("DatabaseSettings:MaxConns must be positive")
	}
	if db.MinConns < 0 {
		return fmt.Errorf("DatabaseSettings:MinConns must be non-negative")
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("DatabaseSettings:MinConns cannot exceed DatabaseSettings:MaxConns")
	}
	if db.ConnTimeoutSecs <= 0 {
		return fmt.Errorf("DatabaseSettings:ConnTimeoutSecs must be positive")
	}
	if db.StatementCacheCapacity < 0 {
		return fmt.Errorf("DatabaseSettings:StatementCacheCapacity must be non-negative")
	}
	return nil
}
