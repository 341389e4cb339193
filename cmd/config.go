package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"receiving/internal/pkg/errs"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	InventoryServiceURL string
	TransportServiceURL string
	ExternalTimeout     time.Duration

	SequenceTenant string
	SequencePrefix string

	ApprovalRulesFile string

	RelaySchedule    string
	RelayBatchSize   int
	RelayMaxAttempts int

	LogLevel string
}

var defaults = map[string]any{
	"HTTP_PORT":             "8080",
	"DB_HOST":               "localhost",
	"DB_PORT":               "5432",
	"DB_USER":               "postgres",
	"DB_NAME":               "receiving",
	"DB_SSLMODE":            "disable",
	"INVENTORY_SERVICE_URL": "http://localhost:8081",
	"TRANSPORT_SERVICE_URL": "http://localhost:8082",
	"EXTERNAL_TIMEOUT":      "5s",
	"SEQUENCE_TENANT":       "default",
	"SEQUENCE_PREFIX":       "",
	"APPROVAL_RULES_FILE":   "",
	"RELAY_SCHEDULE":        "*/10 * * * * *",
	"RELAY_BATCH_SIZE":      50,
	"RELAY_MAX_ATTEMPTS":    10,
	"LOG_LEVEL":             "info",
}

// LoadConfig reads the configuration from the environment. Variables from
// envFile are added first unless already set; a missing envFile is ignored.
func LoadConfig(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	v := viper.New()
	v.AutomaticEnv()
	v.AllowEmptyEnv(true)
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	config := Config{
		HTTPPort:            v.GetString("HTTP_PORT"),
		DBHost:              v.GetString("DB_HOST"),
		DBPort:              v.GetString("DB_PORT"),
		DBUser:              v.GetString("DB_USER"),
		DBPassword:          v.GetString("DB_PASSWORD"),
		DBName:              v.GetString("DB_NAME"),
		DBSslMode:           v.GetString("DB_SSLMODE"),
		InventoryServiceURL: v.GetString("INVENTORY_SERVICE_URL"),
		TransportServiceURL: v.GetString("TRANSPORT_SERVICE_URL"),
		ExternalTimeout:     v.GetDuration("EXTERNAL_TIMEOUT"),
		SequenceTenant:      v.GetString("SEQUENCE_TENANT"),
		SequencePrefix:      v.GetString("SEQUENCE_PREFIX"),
		ApprovalRulesFile:   v.GetString("APPROVAL_RULES_FILE"),
		RelaySchedule:       v.GetString("RELAY_SCHEDULE"),
		RelayBatchSize:      v.GetInt("RELAY_BATCH_SIZE"),
		RelayMaxAttempts:    v.GetInt("RELAY_MAX_ATTEMPTS"),
		LogLevel:            v.GetString("LOG_LEVEL"),
	}

	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

func (c Config) Validate() error {
	var required []error
	for name, value := range map[string]string{
		"HTTP_PORT":             c.HTTPPort,
		"DB_HOST":               c.DBHost,
		"DB_NAME":               c.DBName,
		"INVENTORY_SERVICE_URL": c.InventoryServiceURL,
		"TRANSPORT_SERVICE_URL": c.TransportServiceURL,
		"SEQUENCE_TENANT":       c.SequenceTenant,
		"RELAY_SCHEDULE":        c.RelaySchedule,
	} {
		if value == "" {
			required = append(required, errs.NewValueIsRequiredError(name))
		}
	}

	var errTimeout, errBatch, errAttempts error
	if c.ExternalTimeout <= 0 {
		errTimeout = errs.NewValueIsOutOfRangeError("EXTERNAL_TIMEOUT", c.ExternalTimeout, "1ns", "unbounded")
	}
	if c.RelayBatchSize <= 0 {
		errBatch = errs.NewValueIsOutOfRangeError("RELAY_BATCH_SIZE", c.RelayBatchSize, 1, "unbounded")
	}
	if c.RelayMaxAttempts <= 0 {
		errAttempts = errs.NewValueIsOutOfRangeError("RELAY_MAX_ATTEMPTS", c.RelayMaxAttempts, 1, "unbounded")
	}

	return errors.Join(append(required, errTimeout, errBatch, errAttempts)...)
}

// DSN returns the postgres connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}
