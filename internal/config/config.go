package config

import (
	"time"

	"github.com/ruralpay/teller/internal/credential"
	"github.com/spf13/viper"
)

// Config carries everything the ledger needs injected at startup. The
// administrator credential arrives as a digest (or a bootstrap secret hashed
// once at boot); nothing credential-shaped lives in the core.
type Config struct {
	AdminName         string
	AdminSecretDigest string
	AdminSecret       string
	CredentialSalt    string
	Argon2            credential.Params
	LockTimeout       time.Duration
	RenameSecretKey   string
	RenameTokenTTL    time.Duration
}

// Load reads the optional .env file, lets real environment variables
// override it, and applies defaults.
func Load() *Config {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()
	viper.ReadInConfig()

	viper.BindEnv("admin.name", "ADMIN_NAME")
	viper.BindEnv("admin.secret", "ADMIN_SECRET")
	viper.BindEnv("admin.secret_digest", "ADMIN_SECRET_DIGEST")
	viper.BindEnv("credential.salt", "CREDENTIAL_SALT")
	viper.BindEnv("argon2.time", "ARGON2_TIME")
	viper.BindEnv("argon2.memory", "ARGON2_MEMORY")
	viper.BindEnv("argon2.threads", "ARGON2_THREADS")
	viper.BindEnv("argon2.key_length", "ARGON2_KEY_LENGTH")
	viper.BindEnv("locks.timeout", "LOCK_TIMEOUT")
	viper.BindEnv("rename.secret_key", "RENAME_SECRET_KEY")
	viper.BindEnv("rename.token_ttl", "RENAME_TOKEN_TTL")

	viper.SetDefault("admin.name", "admin")
	viper.SetDefault("credential.salt", "teller-dev-salt")
	viper.SetDefault("argon2.time", 1)
	viper.SetDefault("argon2.memory", 64*1024)
	viper.SetDefault("argon2.threads", 4)
	viper.SetDefault("argon2.key_length", 32)
	viper.SetDefault("locks.timeout", 5*time.Second)
	viper.SetDefault("rename.token_ttl", 24*time.Hour)

	return &Config{
		AdminName:         viper.GetString("admin.name"),
		AdminSecretDigest: viper.GetString("admin.secret_digest"),
		AdminSecret:       viper.GetString("admin.secret"),
		CredentialSalt:    viper.GetString("credential.salt"),
		Argon2: credential.Params{
			Time:      uint32(viper.GetInt("argon2.time")),
			Memory:    uint32(viper.GetInt("argon2.memory")),
			Threads:   uint8(viper.GetInt("argon2.threads")),
			KeyLength: uint32(viper.GetInt("argon2.key_length")),
		},
		LockTimeout:     viper.GetDuration("locks.timeout"),
		RenameSecretKey: viper.GetString("rename.secret_key"),
		RenameTokenTTL:  viper.GetDuration("rename.token_ttl"),
	}
}
