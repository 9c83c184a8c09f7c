package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/smartnotes/internal/flagx"
	"github.com/dmitrijs2005/smartnotes/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Durations use
// timex.Duration so both "15m" and integer nanoseconds are accepted. Pointer
// fields distinguish "absent" from the zero value.
type JsonConfig struct {
	HTTPAddr       string `json:"http_addr"`
	GRPCHealthAddr string `json:"grpc_health_addr"`
	DatabaseDSN    string `json:"database_dsn"`
	LogLevel       string `json:"log_level"`

	SecretKey                    string         `json:"secret_key"`
	AccessTokenValidityDuration  timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration timex.Duration `json:"refresh_token_validity_duration"`
	ResetTokenValidityDuration   timex.Duration `json:"reset_token_validity_duration"`

	FrontendOrigin  string         `json:"frontend_origin"`
	MaxBodyBytes    int64          `json:"max_body_bytes"`
	ShutdownTimeout timex.Duration `json:"shutdown_timeout"`

	SMTPHost       string `json:"smtp_host"`
	SMTPPort       int    `json:"smtp_port"`
	SMTPUser       string `json:"smtp_user"`
	SMTPPassword   string `json:"smtp_password"`
	SMTPFromName   string `json:"smtp_from_name"`
	SMTPFromEmail  string `json:"smtp_from_email"`
	SMTPSkipVerify *bool  `json:"smtp_skip_verify"`

	S3RootUser     string `json:"s3_root_user"`
	S3RootPassword string `json:"s3_root_password"`
	S3Bucket       string `json:"s3_bucket"`
	S3Region       string `json:"s3_region"`
	S3BaseEndpoint string `json:"s3_base_endpoint"`

	AuthRatePerMinute int `json:"auth_rate_per_minute"`
	AuthRateBurst     int `json:"auth_rate_burst"`
}

// parseJson overlays values from the JSON file named by -c / -config.
// Keys missing from the file keep their current value. Unreadable or
// invalid files panic, as the server cannot start on a broken config.
func parseJson(config *Config) {

	jsonConfigFile := flagx.ConfigPath(os.Args[1:])

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	setString(&config.HTTPAddr, c.HTTPAddr)
	setString(&config.GRPCHealthAddr, c.GRPCHealthAddr)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.SecretKey, c.SecretKey)
	setDuration(&config.AccessTokenValidityDuration, c.AccessTokenValidityDuration)
	setDuration(&config.RefreshTokenValidityDuration, c.RefreshTokenValidityDuration)
	setDuration(&config.ResetTokenValidityDuration, c.ResetTokenValidityDuration)
	setString(&config.FrontendOrigin, c.FrontendOrigin)
	if c.MaxBodyBytes > 0 {
		config.MaxBodyBytes = c.MaxBodyBytes
	}
	setDuration(&config.ShutdownTimeout, c.ShutdownTimeout)

	setString(&config.SMTPHost, c.SMTPHost)
	setInt(&config.SMTPPort, c.SMTPPort)
	setString(&config.SMTPUser, c.SMTPUser)
	setString(&config.SMTPPassword, c.SMTPPassword)
	setString(&config.SMTPFromName, c.SMTPFromName)
	setString(&config.SMTPFromEmail, c.SMTPFromEmail)
	if c.SMTPSkipVerify != nil {
		config.SMTPSkipVerify = *c.SMTPSkipVerify
	}

	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)

	setInt(&config.AuthRatePerMinute, c.AuthRatePerMinute)
	setInt(&config.AuthRateBurst, c.AuthRateBurst)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v timex.Duration) {
	if v.Duration != 0 {
		*dst = v.Duration
	}
}
