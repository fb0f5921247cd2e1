package config

import (
	"fmt"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/yungbote/placesync/internal/platform/envutil"
)

const (
	defaultMaxRetries = 30
	defaultEncoding   = "utf-8"
)

// Config is built once at process start and passed by parameter; no component
// reads the environment after Load returns.
type Config struct {
	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string

	DataPath   string
	PlacesFile string
	PeopleFile string
	OutputFile string

	MaxRetries int
	Encoding   string

	LogMode string
}

func Load() Config {
	// .env is optional; real deployments inject the environment directly.
	_ = godotenv.Load()

	return Config{
		DBHost:     envutil.String("DB_HOST", "database"),
		DBPort:     envutil.Int("DB_PORT", 5432),
		DBUser:     envutil.String("DB_USER", "codetest"),
		DBPassword: envutil.String("DB_PASSWORD", "swordfish"),
		DBName:     envutil.String("DB_NAME", "codetest"),

		DataPath:   envutil.String("DATA_PATH", "/app/data"),
		PlacesFile: envutil.String("PLACES_FILE", "places.csv"),
		PeopleFile: envutil.String("PEOPLE_FILE", "people.csv"),
		OutputFile: envutil.String("OUTPUT_FILE", "summary_output.json"),

		MaxRetries: envutil.Int("MAX_DB_RETRIES", defaultMaxRetries),
		Encoding:   envutil.String("FILE_ENCODING", defaultEncoding),

		LogMode: envutil.String("LOG_MODE", "development"),
	}
}

func (c Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

func (c Config) PlacesPath() string { return filepath.Join(c.DataPath, c.PlacesFile) }
func (c Config) PeoplePath() string { return filepath.Join(c.DataPath, c.PeopleFile) }
func (c Config) OutputPath() string { return filepath.Join(c.DataPath, c.OutputFile) }
