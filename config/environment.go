package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Environment struct {
	IsDevelopment bool
	Port          string

	DBDriver string
	DBURL    string

	// ImportAPIKey guards /api/data/*. An empty key rejects every request.
	ImportAPIKey string

	JWTSecretKey string
	JWTIssuer    string
	JWTAudience  string

	AllowedOrigins []string
	DataDir        string
	LogMode        string
	Location       *time.Location

	// DataRateLimit is requests per second per API key on /api/data/*.
	DataRateLimit float64
}

// LoadEnvironment reads .env outside production, then the process
// environment through viper.
func LoadEnvironment() (Environment, error) {
	// Load .env file if not in production environment
	if os.Getenv("RAILWAY_ENVIRONMENT_NAME") == "" {
		if err := godotenv.Load(); err != nil {
			log.Printf("Warning: .env file not found, environment variables might not be loaded: %v", err)
		}
	}
	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("PORT", "8080")
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("DATA_DIR", "data")
	v.SetDefault("LOG_MODE", "dev")
	v.SetDefault("TIMEZONE", "UTC")
	v.SetDefault("DATA_RATE_LIMIT", 5.0)
	v.SetDefault("JWT_ISSUER", "lingodeck")
	v.SetDefault("JWT_AUDIENCE", "lingodeck-api")
	return v
}

// FromViper builds an Environment from an already configured viper instance.
func FromViper(v *viper.Viper) (Environment, error) {
	loc, err := time.LoadLocation(v.GetString("TIMEZONE"))
	if err != nil {
		return Environment{}, err
	}

	var origins []string
	for _, o := range strings.Split(v.GetString("ALLOWED_ORIGINS"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}

	logMode := v.GetString("LOG_MODE")
	return Environment{
		IsDevelopment:  logMode != "prod" && logMode != "production",
		Port:           v.GetString("PORT"),
		DBDriver:       v.GetString("DB_DRIVER"),
		DBURL:          v.GetString("DB_URL"),
		ImportAPIKey:   v.GetString("IMPORT_API_KEY"),
		JWTSecretKey:   v.GetString("JWT_SECRET_KEY"),
		JWTIssuer:      v.GetString("JWT_ISSUER"),
		JWTAudience:    v.GetString("JWT_AUDIENCE"),
		AllowedOrigins: origins,
		DataDir:        v.GetString("DATA_DIR"),
		LogMode:        logMode,
		Location:       loc,
		DataRateLimit:  v.GetFloat64("DATA_RATE_LIMIT"),
	}, nil
}
