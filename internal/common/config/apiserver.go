package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

type (
	APIServerConfig struct {
		Server     ServerConfig     `yaml:"server"`
		App        AppConfig        `yaml:"app"`
		Database   DatabaseConfig   `yaml:"database"`
		Logger     LoggerConfig     `yaml:"logger"`
		JWT        JWTConfig        `yaml:"jwt"`
		SuperAdmin SuperAdminConfig `yaml:"super_admin"`
		Mail       MailConfig       `yaml:"mail"`
		Blob       BlobConfig       `yaml:"blob"`
		Exchange   ExchangeConfig   `yaml:"exchange"`
	}

	ServerConfig struct {
		Port int `yaml:"port"`
	}

	// AppConfig holds application-wide behavior settings.
	// TimeZone drives reading-date computation; the property is in
	// Romania, so the default is Europe/Bucharest.
	AppConfig struct {
		TimeZone   string `yaml:"time_zone"`
		AdminEmail string `yaml:"admin_email"` // recipient of meter reading notifications
	}

	DatabaseConfig struct {
		Type     string `yaml:"type"`     // mysql, postgres, sqlite
		Host     string `yaml:"host"`     // localhost
		Port     int    `yaml:"port"`     // 3306 (for mysql), 5432 (for postgres)
		User     string `yaml:"user"`     // root (for mysql), postgres (for postgres)
		Password string `yaml:"password"` // password
		DBName   string `yaml:"dbname"`   // database name, or file path for sqlite
		SSLMode  string `yaml:"sslmode"`  // disable (for postgres)
	}

	JWTConfig struct {
		SecretKey string        `yaml:"secret_key"`
		Duration  time.Duration `yaml:"duration"`
	}

	// MailConfig represents the outbound notification channel
	MailConfig struct {
		Enabled  bool   `yaml:"enabled"`
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		From     string `yaml:"from"`
	}

	// BlobConfig represents the utility bill attachment store
	BlobConfig struct {
		Type string        `yaml:"type"` // disk or s3
		Disk DiskBlobConfig `yaml:"disk"`
		S3   S3BlobConfig   `yaml:"s3"`
	}

	DiskBlobConfig struct {
		Path string `yaml:"path"` // directory for attachment files
	}

	S3BlobConfig struct {
		Region          string `yaml:"region"`
		Bucket          string `yaml:"bucket"`
		Endpoint        string `yaml:"endpoint"` // custom endpoint, e.g. Cloudflare R2
		AccessKeyID     string `yaml:"access_key_id"`
		SecretAccessKey string `yaml:"secret_access_key"`
	}

	// ExchangeConfig represents the EUR to RON conversion settings
	ExchangeConfig struct {
		FixedRate string `yaml:"fixed_rate"` // decimal string, e.g. "5"
	}
)

// GetDSN returns the database connection string
func (c *DatabaseConfig) GetDSN() string {
	switch c.Type {
	case "postgres":
		return c.getPostgresDSN()
	case "mysql":
		return c.getMySQLDSN()
	case "sqlite":
		// Ensure the directory for the SQLite database exists.
		if dir := filepath.Dir(c.DBName); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0755); err != nil {
				panic(fmt.Errorf("failed to create directory for sqlite database: %w", err))
			}
		}
		return c.DBName // For SQLite, DBName is the file path
	default:
		return ""
	}
}

// getPostgresDSN returns PostgreSQL connection string
func (c *DatabaseConfig) getPostgresDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}

// getMySQLDSN returns MySQL connection string
func (c *DatabaseConfig) getMySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.User, c.Password, c.Host, c.Port, c.DBName)
}
