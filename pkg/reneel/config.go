package reneel

import (
	"os"
	"runtime"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// Config manages runner configuration using Viper
type Config struct {
	v *viper.Viper
}

// NewConfig creates a new configuration with defaults
func NewConfig() *Config {
	v := viper.New()

	// Runner parameters
	v.SetDefault("runner.executable", "a.out")
	v.SetDefault("runner.output_dir", ".")
	v.SetDefault("runner.scratch_dir", ".")
	v.SetDefault("runner.nproc", runtime.NumCPU())
	v.SetDefault("runner.keep_results", false)
	v.SetDefault("runner.test_mode", false)

	// Ensemble parameters
	v.SetDefault("ensemble.rg_size", 10)
	v.SetDefault("ensemble.reneel_size", 8)
	v.SetDefault("ensemble.rg_parameter", 2)

	// Logging parameters
	v.SetDefault("logging.level", "warn")
	v.SetDefault("logging.run_log", "reneel.log")

	return &Config{v: v}
}

// LoadFromFile loads configuration from file
func (c *Config) LoadFromFile(path string) error {
	c.v.SetConfigFile(path)
	return c.v.ReadInConfig()
}

// Getters for runner parameters
func (c *Config) ExecutablePath() string { return c.v.GetString("runner.executable") }
func (c *Config) OutputDir() string      { return c.v.GetString("runner.output_dir") }
func (c *Config) ScratchDir() string     { return c.v.GetString("runner.scratch_dir") }
func (c *Config) NumCPU() int            { return c.v.GetInt("runner.nproc") }
func (c *Config) KeepResults() bool      { return c.v.GetBool("runner.keep_results") }
func (c *Config) TestMode() bool         { return c.v.GetBool("runner.test_mode") }

func (c *Config) RGEnsembleSize() int     { return c.v.GetInt("ensemble.rg_size") }
func (c *Config) ReneelEnsembleSize() int { return c.v.GetInt("ensemble.reneel_size") }
func (c *Config) RGParameter() int        { return c.v.GetInt("ensemble.rg_parameter") }

func (c *Config) LogLevel() string   { return c.v.GetString("logging.level") }
func (c *Config) RunLogPath() string { return c.v.GetString("logging.run_log") }

// Set allows dynamic configuration changes
func (c *Config) Set(key string, value interface{}) {
	c.v.Set(key, value)
}

// CreateLogger creates a zerolog logger based on config
func (c *Config) CreateLogger() zerolog.Logger {
	level, err := zerolog.ParseLevel(c.LogLevel())
	if err != nil {
		level = zerolog.WarnLevel
	}

	return zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: "15:04:05",
	}).Level(level).With().Timestamp().Str("service", "reneel").Logger()
}
