// Package config reads defaults for every command from the environment,
// optionally seeded by a .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gonum.org/v1/plot/vg"

	"github.com/zalepa/benito/chart"
	"github.com/zalepa/benito/parser"
)

type Config struct {
	// Input
	DataPath string
	Format   string // empty means "from the file extension"

	// Output
	SiteDir string
	Width   float64 // inches
	Height  float64 // inches

	// HTTP server
	Port string

	LogLevel string

	// env values Load could not parse, reported by Validate
	invalid []string
}

// Load reads .env (if present) and then the process environment.
func Load() *Config {
	_ = godotenv.Load()

	c := &Config{
		DataPath: getEnv("BENITO_DATA", "data/gastos.csv"),
		Format:   getEnv("BENITO_FORMAT", ""),
		SiteDir:  getEnv("BENITO_SITE_DIR", "site"),
		Port:     getEnv("BENITO_PORT", "8080"),
		LogLevel: getEnv("BENITO_LOG_LEVEL", "info"),
	}
	c.Width = c.getEnvFloat("BENITO_WIDTH", float64(chart.DefaultWidth/vg.Inch))
	c.Height = c.getEnvFloat("BENITO_HEIGHT", float64(chart.DefaultHeight/vg.Inch))
	return c
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	errs := append([]string(nil), c.invalid...)

	if c.Format != "" {
		if _, err := parser.ParseFormat(c.Format); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port %q: must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Sprintf("invalid chart size %gx%g: must be positive", c.Width, c.Height))
	}

	if len(errs) > 0 {
		return errors.New("configuration errors:\n  - " + strings.Join(errs, "\n  - "))
	}
	return nil
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return def
}

// getEnvFloat returns def when key is unset. An unparsable value also yields
// def and is remembered for Validate.
func (c *Config) getEnvFloat(key string, def float64) float64 {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		c.invalid = append(c.invalid, fmt.Sprintf("invalid %s %q: must be a number", key, v))
		return def
	}
	return f
}

// Size returns the configured chart size.
func (c *Config) Size() (vg.Length, vg.Length) {
	return vg.Length(c.Width) * vg.Inch, vg.Length(c.Height) * vg.Inch
}
