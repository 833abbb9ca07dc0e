package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// DriverDefaults holds ambient CLI defaults for the adxquery driver — not
// core decode/filter behavior, which always takes explicit parameters.
// Loaded from an optional .env file, falling back to built-in defaults
// for anything unset.
type DriverDefaults struct {
	SnapshotPath    string
	Projection      string // comma-separated attribute names, "" means all
	Limit           int    // 0 means unlimited
	CaseInsensitive bool
}

const (
	defaultProjection      = ""
	defaultLimit           = 0
	defaultCaseInsensitive = true
)

// LoadDriverDefaults loads ambient defaults from configName (an .env-style
// file). A missing file is not an error — the built-in defaults apply; a
// present-but-malformed file is.
func LoadDriverDefaults(configName string) (DriverDefaults, error) {
	d := DriverDefaults{
		Projection:      defaultProjection,
		Limit:           defaultLimit,
		CaseInsensitive: defaultCaseInsensitive,
	}

	if _, err := os.Stat(configName); os.IsNotExist(err) {
		return d, nil
	}
	if err := godotenv.Load(configName); err != nil {
		return d, err
	}

	if v := os.Getenv("ADXQUERY_SNAPSHOT"); v != "" {
		d.SnapshotPath = v
	}
	if v := os.Getenv("ADXQUERY_PROJECTION"); v != "" {
		d.Projection = v
	}
	if v := os.Getenv("ADXQUERY_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return d, err
		}
		d.Limit = n
	}
	if v := os.Getenv("ADXQUERY_CASE_INSENSITIVE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return d, err
		}
		d.CaseInsensitive = b
	}
	return d, nil
}
