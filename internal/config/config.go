package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// AppConfig holds the complete application configuration.
type AppConfig struct {
	// Simulation defaults. Callers can override iterations per run request.
	DefaultIterations int
	BatchSize         int
	Workers           int

	// DelayCostFraction is the fraction of the final rate charged per day of
	// delay beyond the baseline transit time.
	DelayCostFraction float64

	// Statistics.
	HistogramBins int

	// Decision layer.
	ConfidenceFloor  float64 // minimum confidence for a strategy to be recommendable
	WaitHorizonDays  int     // how long the "wait" strategy defers booking
	WaitRateDiscount float64 // expected rate improvement from waiting, scaled by volatility
	ReroutePremium   float64 // rate multiplier applied by the "reroute" strategy
	SplitRatio       float64 // volume fraction booked immediately by the "split" strategy

	DataPath string
	LogDir   string
}

// Load loads the configuration from .env files and environment variables.
func Load() (*AppConfig, error) {
	// 1. Try to load from the executable's directory (highest priority for stdio servers)
	exePath, err := os.Executable()
	exeDir := ""
	if err == nil {
		exeDir = filepath.Dir(exePath)
		envPath := filepath.Join(exeDir, ".env")
		if err := godotenv.Load(envPath); err == nil {
			log.Debug().Str("path", envPath).Msg("Loaded configuration from binary directory")
		}
	}

	// 2. Fallback to current working directory (useful for development/go run)
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found in working directory, relying on environment variables or binary-relative .env")
	}

	// 3. Resolve Data Paths
	dataPath := os.Getenv("LANESIM_DATA_PATH")
	if dataPath == "" {
		if exeDir != "" {
			dataPath = exeDir
		} else {
			dataPath = "."
		}
	}

	logDir := filepath.Join(dataPath, "logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.Warn().Err(err).Str("path", logDir).Msg("Failed to create log directory")
	}

	cfg := &AppConfig{
		DefaultIterations: getEnvInt("LANESIM_ITERATIONS", 10000),
		BatchSize:         getEnvInt("LANESIM_BATCH_SIZE", 100),
		Workers:           getEnvInt("LANESIM_WORKERS", 4),
		DelayCostFraction: getEnvFloat("LANESIM_DELAY_COST_FRACTION", 0.001),
		HistogramBins:     getEnvInt("LANESIM_HISTOGRAM_BINS", 30),
		ConfidenceFloor:   getEnvFloat("LANESIM_CONFIDENCE_FLOOR", 60),
		WaitHorizonDays:   getEnvInt("LANESIM_WAIT_HORIZON_DAYS", 7),
		WaitRateDiscount:  getEnvFloat("LANESIM_WAIT_RATE_DISCOUNT", 0.02),
		ReroutePremium:    getEnvFloat("LANESIM_REROUTE_PREMIUM", 1.08),
		SplitRatio:        getEnvFloat("LANESIM_SPLIT_RATIO", 0.5),
		DataPath:          dataPath,
		LogDir:            logDir,
	}

	return cfg, nil
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return fallback
}
