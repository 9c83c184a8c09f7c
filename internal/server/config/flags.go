package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/smartnotes/internal/flagx"
)

var knownFlags = []string{
	"-a", "-grpc", "-d", "-l", "-s", "-t", "-r", "-reset-ttl", "-f",
	"-smtp-host", "-smtp-port", "-smtp-user", "-smtp-password", "-smtp-from-name", "-smtp-from",
	"-u", "-p", "-b", "-g", "-e", "-rate", "-burst",
}

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-a string          HTTP bind address (e.g., ":8080")
//	-grpc string       gRPC health bind address
//	-d string          PostgreSQL DSN
//	-l string          log level (debug, info, warn, error)
//	-s string          JWT HMAC secret key
//	-t int             access token validity, minutes
//	-r int             refresh token validity, minutes
//	-reset-ttl int     password reset link validity, minutes
//	-f string          frontend origin used in reset links and CORS
//	-smtp-host string  SMTP server; empty logs mails instead of sending
//	-smtp-port int     SMTP port
//	-smtp-user string  SMTP user
//	-smtp-password string
//	-smtp-from-name string
//	-smtp-from string  sender address
//	-u string          S3 root user
//	-p string          S3 root password
//	-b string          S3 bucket name
//	-g string          S3 region
//	-e string          S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//	-rate int          login/forgot-password requests per minute per client
//	-burst int         burst for -rate
//
// os.Args is first filtered to the flags above with flagx.FilterArgs so that
// -c/-config and test runner flags do not trip the parser.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], knownFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port to run HTTP server")
	fs.StringVar(&config.GRPCHealthAddr, "grpc", config.GRPCHealthAddr, "address and port of gRPC health service")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	accessTokenValidityDuration := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access_token_validity_duration (in minutes)")
	refreshTokenValidityDuration := fs.Int("r", int(config.RefreshTokenValidityDuration.Minutes()), "refresh_token_validity_duration (in minutes)")
	resetTokenValidityDuration := fs.Int("reset-ttl", int(config.ResetTokenValidityDuration.Minutes()), "reset_token_validity_duration (in minutes)")

	fs.StringVar(&config.FrontendOrigin, "f", config.FrontendOrigin, "frontend origin")

	fs.StringVar(&config.SMTPHost, "smtp-host", config.SMTPHost, "SMTP host")
	fs.IntVar(&config.SMTPPort, "smtp-port", config.SMTPPort, "SMTP port")
	fs.StringVar(&config.SMTPUser, "smtp-user", config.SMTPUser, "SMTP user")
	fs.StringVar(&config.SMTPPassword, "smtp-password", config.SMTPPassword, "SMTP password")
	fs.StringVar(&config.SMTPFromName, "smtp-from-name", config.SMTPFromName, "sender display name")
	fs.StringVar(&config.SMTPFromEmail, "smtp-from", config.SMTPFromEmail, "sender address")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 root bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 root region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	fs.IntVar(&config.AuthRatePerMinute, "rate", config.AuthRatePerMinute, "auth requests per minute per client")
	fs.IntVar(&config.AuthRateBurst, "burst", config.AuthRateBurst, "auth request burst per client")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AccessTokenValidityDuration = time.Duration(*accessTokenValidityDuration) * time.Minute
	config.RefreshTokenValidityDuration = time.Duration(*refreshTokenValidityDuration) * time.Minute
	config.ResetTokenValidityDuration = time.Duration(*resetTokenValidityDuration) * time.Minute
}
