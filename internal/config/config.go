// Package config contains utilities for loading configs
package config

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/go-playground/validator/v10"
	"github.com/matt-dz/foodgram/internal/password"
	"github.com/matt-dz/foodgram/internal/validation"
)

const (
	configFilePath     = "/data/foodgram.yaml"
	appSecretBytes     = 32
	appSecretFilePerms = 0o600
)

const (
	EnvProd = "PROD"
	EnvDev  = "DEV"
)

const (
	defaultHTTPPort        = 8080
	defaultRateLimit       = 100
	defaultRateLimitWindow = 60
)

type FileStoreBackend string

const (
	FileStoreLocal FileStoreBackend = "local"
	FileStoreS3    FileStoreBackend = "s3"
)

func (b FileStoreBackend) Validate() error {
	switch b {
	case FileStoreLocal, FileStoreS3:
		return nil
	}
	return fmt.Errorf("unknown filestore backend: %q", b)
}

type AdminPassword string

func (a AdminPassword) Validate() error {
	return password.ValidatePassword(string(a))
}

type AppSecretValue string

func (a *AppSecretValue) Validate() error {
	if a == nil {
		return errors.New("secret should not be nil")
	}
	if len([]byte(*a)) < appSecretBytes {
		return errors.New("secret should be at least 32 bytes")
	}
	return nil
}

func splitFieldList(param string) []string {
	// "A,B,C" or "A B C"
	param = strings.ReplaceAll(param, " ", ",")
	parts := strings.Split(param, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// allOrNothing is a cross-field rule: the fields named in the tag
// parameter (e.g. `validate:"allOrNothing=A B C"`) must either all be
// zero or all be non-zero. It is attached to a placeholder field and
// inspects the parent struct. Nil pointers and interfaces count as zero.
// A missing field name fails validation so that typos surface.
func allOrNothing(fl validator.FieldLevel) bool {
	parent := fl.Parent()
	if parent.Kind() == reflect.Pointer {
		if parent.IsNil() {
			return true
		}
		parent = parent.Elem()
	}
	if parent.Kind() != reflect.Struct {
		return false
	}

	names := splitFieldList(fl.Param())
	if len(names) == 0 {
		return false
	}

	hasZero := false
	hasNonZero := false

	for _, name := range names {
		f := parent.FieldByName(name)
		if !f.IsValid() {
			return false
		}

		for (f.Kind() == reflect.Pointer || f.Kind() == reflect.Interface) && !f.IsNil() {
			f = f.Elem()
		}

		if f.IsZero() {
			hasZero = true
		} else {
			hasNonZero = true
		}

		if hasZero && hasNonZero {
			return false
		}
	}

	return true
}

func registerAllOrNothing(v *validator.Validate) {
	validation.MustRegister(v, "allOrNothing", allOrNothing)
}

func formatValidationError(err error) error {
	validationErrs, ok := err.(validator.ValidationErrors) //nolint:errorlint
	if !ok {
		return err
	}

	for _, e := range validationErrs {
		if e.Tag() == "allOrNothing" {
			// "Config.FileStore.S3.Validate" -> "S3"
			parts := strings.Split(e.Namespace(), ".")
			var structName string
			//nolint:mnd
			if len(parts) >= 2 {
				structName = parts[len(parts)-2]
			}

			var fields string
			switch structName {
			case "Database":
				fields = "Port, Host, Database, User, and Password"
			case "Admin":
				fields = "Email, Username, FirstName, LastName, and Password"
			case "S3":
				fields = "AccessKeyID and SecretAccessKey"
			default:
				fields = "all related fields"
			}

			return fmt.Errorf(
				"%s configuration is incomplete: either all fields must be set (%s) or all must be empty",
				structName, fields)
		}
	}

	return err
}

type AppSecret struct {
	Value   *AppSecretValue `yaml:"value" validate:"omitempty,validateFn"`
	Path    string          `yaml:"path" validate:"omitempty,filepath"`
	Version string          `yaml:"version"`
}

type Database struct {
	Port     uint16 `yaml:"port"`
	Host     string `yaml:"host" validate:"omitempty,hostname_rfc1123"`
	Database string `yaml:"database"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`

	Validate struct{} `yaml:"-" validate:"allOrNothing=Port Host Database User Password"`
}

type S3 struct {
	Endpoint        string `yaml:"endpoint" validate:"omitempty,url"`
	Region          string `yaml:"region"`
	Bucket          string `yaml:"bucket"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	PublicURL       string `yaml:"public_url" validate:"omitempty,url"`

	Validate struct{} `yaml:"-" validate:"allOrNothing=AccessKeyID SecretAccessKey"`
}

type FileStore struct {
	Backend   FileStoreBackend `yaml:"backend" validate:"validateFn"`
	Volume    string           `yaml:"volume"`
	URLPrefix string           `yaml:"url_prefix"`
	S3        S3               `yaml:"s3"`
}

type HTTP struct {
	Port                   uint16   `yaml:"port"`
	AllowedOrigins         []string `yaml:"allowed_origins" validate:"dive,required"`
	RateLimitRequests      int      `yaml:"rate_limit_requests" validate:"gte=0"`
	RateLimitWindowSeconds int      `yaml:"rate_limit_window_seconds" validate:"gte=0"`
}

type Admin struct {
	Email     string        `yaml:"email" validate:"omitempty,email"`
	Username  string        `yaml:"username" validate:"omitempty,max=150"`
	FirstName string        `yaml:"first_name" validate:"omitempty,max=150"`
	LastName  string        `yaml:"last_name" validate:"omitempty,max=150"`
	Password  AdminPassword `yaml:"password" validate:"omitempty,validateFn"`

	Validate struct{} `yaml:"-" validate:"allOrNothing=Email Password"`
}

type Config struct {
	AppSecret  AppSecret `yaml:"app_secret"`
	Admin      Admin     `yaml:"admin"`
	FileStore  FileStore `yaml:"filestore"`
	Database   Database  `yaml:"database"`
	HTTP       HTTP      `yaml:"http"`
	HostOrigin string    `yaml:"host_origin" validate:"url"`
	Env        string    `yaml:"env" validate:"omitempty,oneof=DEV PROD"`
}

func newAppSecret() (string, error) {
	token := make([]byte, appSecretBytes)
	if _, err := rand.Reader.Read(token); err != nil {
		return "", fmt.Errorf("creating app secret: %w", err)
	}
	return base64.StdEncoding.EncodeToString(token), nil
}

func loadAppSecret(config *Config) error {
	if config.AppSecret.Value != nil {
		return nil
	}

	var secret string
	if f1, err := os.Lstat(config.AppSecret.Path); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("checking secret path: %w", err)
		}

		file, err := os.OpenFile(config.AppSecret.Path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, appSecretFilePerms)
		if err != nil {
			return fmt.Errorf("creating secret file: %w", err)
		}
		defer func() { _ = file.Close() }()

		secret, err = newAppSecret()
		if err != nil {
			return fmt.Errorf("generating new app secret: %w", err)
		}

		if _, err := file.WriteString(secret); err != nil {
			return fmt.Errorf("writing secret file: %w", err)
		}
	} else {
		if f1.IsDir() {
			return fmt.Errorf("expected file, got directory at %q", config.AppSecret.Path)
		}
		data, err := os.ReadFile(config.AppSecret.Path)
		if err != nil {
			return fmt.Errorf("reading file: %w", err)
		}
		secret = strings.TrimSpace(string(data))
	}
	val := AppSecretValue(secret)
	config.AppSecret.Value = &val
	return nil
}

func loadWithDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseUint16(key, def string) (uint16, error) {
	raw := loadWithDefault(key, def)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseUint(raw, 10, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid %s (%q): %w", key, raw, err)
	}
	return uint16(v), nil
}

func parseInt(key, def string) (int, error) {
	raw := loadWithDefault(key, def)
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s (%q): %w", key, raw, err)
	}
	return v, nil
}

func loadConfigFromEnv() (Config, error) {
	conf := Config{
		HostOrigin: loadWithDefault("HOST_ORIGIN", "http://localhost:8080"),
		Env:        loadWithDefault("ENV", EnvDev),
	}

	conf.AppSecret = AppSecret{
		Path:    loadWithDefault("APP_SECRET_PATH", "/data/secret"),
		Version: loadWithDefault("APP_SECRET_VERSION", "1"),
	}
	if v := AppSecretValue(loadWithDefault("APP_SECRET", "")); v != "" {
		conf.AppSecret.Value = &v
	}

	conf.Database = Database{
		Host:     loadWithDefault("DATABASE_HOST", "localhost"),
		Database: loadWithDefault("DATABASE", ""),
		User:     loadWithDefault("DATABASE_USER", ""),
		Password: loadWithDefault("DATABASE_PASSWORD", ""),
	}
	port, err := parseUint16("DATABASE_PORT", "5432")
	if err != nil {
		return conf, err
	}
	conf.Database.Port = port

	conf.Admin = Admin{
		Email:     loadWithDefault("ADMIN_EMAIL", ""),
		Username:  loadWithDefault("ADMIN_USERNAME", ""),
		FirstName: loadWithDefault("ADMIN_FIRST_NAME", ""),
		LastName:  loadWithDefault("ADMIN_LAST_NAME", ""),
		Password:  AdminPassword(loadWithDefault("ADMIN_PASSWORD", "")),
	}

	conf.FileStore = FileStore{
		Backend:   FileStoreBackend(loadWithDefault("FILESTORE_BACKEND", "")),
		Volume:    loadWithDefault("FILESTORE_VOLUME", ""),
		URLPrefix: loadWithDefault("FILESTORE_URL_PREFIX", ""),
		S3: S3{
			Endpoint:        loadWithDefault("S3_ENDPOINT", ""),
			Region:          loadWithDefault("S3_REGION", ""),
			Bucket:          loadWithDefault("S3_BUCKET", ""),
			AccessKeyID:     loadWithDefault("S3_ACCESS_KEY_ID", ""),
			SecretAccessKey: loadWithDefault("S3_SECRET_ACCESS_KEY", ""),
			PublicURL:       loadWithDefault("S3_PUBLIC_URL", ""),
		},
	}

	if conf.HTTP.Port, err = parseUint16("HTTP_PORT", ""); err != nil {
		return conf, err
	}
	if origins := loadWithDefault("HTTP_ALLOWED_ORIGINS", ""); origins != "" {
		conf.HTTP.AllowedOrigins = splitFieldList(origins)
	}
	if conf.HTTP.RateLimitRequests, err = parseInt("HTTP_RATE_LIMIT_REQUESTS", strconv.Itoa(defaultRateLimit)); err != nil {
		return conf, err
	}
	if conf.HTTP.RateLimitWindowSeconds, err = parseInt(
		"HTTP_RATE_LIMIT_WINDOW_SECONDS", strconv.Itoa(defaultRateLimitWindow)); err != nil {
		return conf, err
	}

	applyDefaults(&conf)
	if err := validate(&conf); err != nil {
		return conf, err
	}

	if err := loadAppSecret(&conf); err != nil {
		return conf, fmt.Errorf("loading app secret: %w", err)
	}

	return conf, nil
}

func loadConfigFromFile(path string) (Config, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}

	config := Config{
		HTTP: HTTP{
			RateLimitRequests:      defaultRateLimit,
			RateLimitWindowSeconds: defaultRateLimitWindow,
		},
	}
	if err := yaml.Unmarshal(contents, &config); err != nil {
		return Config{}, fmt.Errorf("unmarshaling config: %w", err)
	}

	applyDefaults(&config)
	if err := validate(&config); err != nil {
		return Config{}, err
	}

	if err := loadAppSecret(&config); err != nil {
		return Config{}, fmt.Errorf("loading app secret: %w", err)
	}

	return config, nil
}

func applyDefaults(config *Config) {
	if config.AppSecret.Path == "" {
		config.AppSecret.Path = "/data/secret"
	}
	if config.AppSecret.Version == "" {
		config.AppSecret.Version = "1"
	}
	if config.Env == "" {
		config.Env = EnvDev
	}
	if config.HostOrigin == "" {
		config.HostOrigin = "http://localhost:8080"
	}
	if config.Database.Host == "" {
		config.Database.Host = "localhost"
	}
	if config.Database.Port == 0 {
		config.Database.Port = 5432
	}
	if config.FileStore.Backend == "" {
		config.FileStore.Backend = FileStoreLocal
	}
	if config.FileStore.Volume == "" {
		config.FileStore.Volume = "/data/media"
	}
	if config.FileStore.URLPrefix == "" {
		config.FileStore.URLPrefix = "/media"
	}
	if config.HTTP.Port == 0 {
		config.HTTP.Port = defaultHTTPPort
	}
	if len(config.HTTP.AllowedOrigins) == 0 {
		config.HTTP.AllowedOrigins = []string{config.HostOrigin}
	}
}

func validate(config *Config) error {
	v := validator.New(validator.WithRequiredStructEnabled())
	registerAllOrNothing(v)
	if err := v.Struct(config); err != nil {
		return formatValidationError(err)
	}

	if config.FileStore.Backend == FileStoreS3 {
		if config.FileStore.S3.Bucket == "" || config.FileStore.S3.Region == "" {
			return errors.New("s3 filestore requires a bucket and a region")
		}
	}
	return nil
}

func configFileExists(path string) bool {
	f, err := os.Lstat(path)
	if err != nil {
		return false
	}

	return !f.IsDir()
}

// LoadConfig reads the YAML config at CONFIG_PATH (default
// /data/foodgram.yaml) and falls back to environment variables when the
// file does not exist.
func LoadConfig() (Config, error) {
	path := loadWithDefault("CONFIG_PATH", configFilePath)
	if configFileExists(path) {
		return loadConfigFromFile(path)
	}

	return loadConfigFromEnv()
}

// RateLimitEnabled reports whether request rate limiting is configured.
func (h HTTP) RateLimitEnabled() bool {
	return h.RateLimitRequests > 0 && h.RateLimitWindowSeconds > 0
}
