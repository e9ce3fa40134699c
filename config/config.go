// Package config contains code to set the default values and read
// config files to be used throughout the whole application
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/pflag"
	v "github.com/spf13/viper"
)

var (
	seedFile = pflag.String("seed", "", "JSON file with gifts to import when the gift collection is empty")

	validLogLevels = []string{"debug", "info", "warn", "error", "fatal"}
	validDBTypes   = []string{"sqlite", "postgres", "mongo"}
	validHashers   = []string{"bcrypt", "argon2id"}
)

var (
	ErrNoJWTSecret   = errors.New("jwt.secret is required")
	ErrNoDatabaseURL = errors.New("db.url is required")
	ErrInvalidDBType = errors.New("invalid database type provided")
)

func genSecret() string {
	b := make([]byte, 64)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// Setup parses command line flags and loads the configuration. It's meant
// to be called once from main.
func Setup() error {
	if !pflag.Parsed() {
		pflag.Parse()
	}

	if err := Load(); err != nil {
		return err
	}

	if *seedFile != "" {
		v.Set("gifts.seed_file", *seedFile)
	}

	return nil
}

// Load prepares everything config-related so that the app can
// start working. Function will return an error if something
// is critically wrong and the application can't run because of
// that. A config.toml file in the working directory is optional,
// every key can be provided through the environment instead.
func Load() error {
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	//
	// ENVS
	//
	v.BindEnv("db.url", "DB_URL", "MONGO_URL")
	v.BindEnv("jwt.secret", "JWT_SECRET")

	//
	// Defaults
	//
	v.SetDefault("app.log_level", "info")

	v.SetDefault("host.port", 3060)
	v.SetDefault("host.cors", "http://localhost:3000")
	v.SetDefault("host.ssl.enabled", false)

	v.SetDefault("db.type", "sqlite")
	v.SetDefault("db.name", "giftdb")

	v.SetDefault("jwt.validity", "2h")

	v.SetDefault("security.password_hash", "bcrypt")
	v.SetDefault("security.rate_limit", 20)

	v.SetDefault("cloudflare.turnstile.enabled", false)

	v.SetDefault("gifts.require_auth", true)

	v.SetDefault("cache.type", "none")
	v.SetDefault("cache.ttl", "15s")

	v.SetDefault("storage.enabled", false)
	v.SetDefault("storage.region", "auto")

	v.SetDefault("upload.max_size", 5)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(v.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config file, %w", err)
		}
	}

	if !slices.Contains(validLogLevels, v.GetString("app.log_level")) {
		return errors.New("invalid log level provided")
	}

	if v.GetInt("host.port") <= 0 {
		return errors.New("invalid port provided")
	}

	if v.GetBool("host.ssl.enabled") {
		if v.GetString("host.ssl.certificate_path") == "" {
			return errors.New("no ssl certificate path provided")
		}

		if v.GetString("host.ssl.certificate_key_path") == "" {
			return errors.New("no ssl certificate key path provided")
		}
	}

	if v.GetString("jwt.secret") == "" {
		fmt.Println("WARNING: You haven't set a JWT secret. Please set it as the JWT_SECRET environment variable or in the config.toml file.\nA random JWT secret you can use:\n\n" + genSecret() + "\n")
		return ErrNoJWTSecret
	}

	if v.GetDuration("jwt.validity") <= 0 {
		return errors.New("jwt.validity must be bigger than 0")
	}

	if !slices.Contains(validDBTypes, v.GetString("db.type")) {
		return ErrInvalidDBType
	}

	if v.GetString("db.url") == "" {
		return ErrNoDatabaseURL
	}

	if !slices.Contains(validHashers, v.GetString("security.password_hash")) {
		return errors.New("invalid password hash algorithm provided")
	}

	if v.GetInt("security.rate_limit") < 0 {
		return errors.New("security.rate_limit can't be negative")
	}

	switch v.GetString("cache.type") {
	case "none", "memory":
	case "redis":
		if v.GetString("cache.redis_url") == "" {
			return errors.New("cache.redis_url is required for the redis cache")
		}
	default:
		return errors.New("invalid cache type provided")
	}

	if v.GetInt("upload.max_size") <= 0 {
		return errors.New("upload.max_size must be bigger than 0")
	}

	if v.GetBool("storage.enabled") {
		if v.GetString("storage.bucket") == "" {
			return errors.New("bucket can't be empty")
		}
		if v.GetString("storage.access_key") == "" {
			return errors.New("storage access key can't be empty")
		}
		if v.GetString("storage.secret_access_key") == "" {
			return errors.New("secret access key can't be empty")
		}
		if v.GetString("storage.public_url") == "" {
			return errors.New("storage public url can't be empty")
		}
	}

	if !v.GetBool("cloudflare.turnstile.enabled") {
		fmt.Println("[WARNING]: Cloudflare's turnstile is disabled. Registration and login won't be guarded against bots")
	} else {
		if v.GetString("cloudflare.turnstile.secret_token") == "" {
			return errors.New("turnstile secret token is missing")
		}
	}

	v.Set("upload.max_size", v.GetInt64("upload.max_size")<<20)
	return nil
}
