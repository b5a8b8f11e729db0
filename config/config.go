// Package config parses the CLI surface of spec.md §6 and resolves the
// ArangoDB JWT secrets directory, the way cmd/graphenginesrv's own flag
// set is expected to be parsed once at process start.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
)

// Config holds every flag named in spec.md §6's CLI surface, with
// environment-variable fallbacks applied before flag parsing overrides
// them.
type Config struct {
	BindAddress string
	BindPort    int

	UseTLS  bool
	CertPath string
	KeyPath  string
	AuthCA   string

	ArangoDBEndpoints []string
	ArangoDBUser      string
	ArangoDBJWTDir    string

	Authentication bool
	AuthService    string
}

// Parse builds a Config from args (typically os.Args[1:]), seeding
// defaults from the environment variables spec.md §6 names before
// pflag parsing applies any explicit overrides.
func Parse(args []string) (*Config, error) {
	cfg := &Config{}

	flags := pflag.NewFlagSet("graphenginesrv", pflag.ContinueOnError)

	flags.StringVar(&cfg.BindAddress, "bind-address", "0.0.0.0", "address to bind the HTTP server to")
	flags.IntVar(&cfg.BindPort, "bind-port", envInt("HTTP_PORT", 8080), "port to bind the HTTP server to")
	flags.BoolVar(&cfg.UseTLS, "use-tls", false, "serve over TLS")
	flags.StringVar(&cfg.CertPath, "cert", "", "TLS certificate path")
	flags.StringVar(&cfg.KeyPath, "key", "", "TLS key path")
	flags.StringVar(&cfg.AuthCA, "authca", envString("ARANGODB_CA_CERTS", ""), "CA bundle for source-database TLS verification")

	var endpoints string
	flags.StringVar(&endpoints, "arangodb-endpoints", envString("ARANGODB_ENDPOINT", ""), "comma-separated source database endpoints")
	flags.StringVar(&cfg.ArangoDBUser, "arangodb-user", envString("ARANGODB_USER", ""), "source database user")
	flags.StringVar(&cfg.ArangoDBJWTDir, "arangodb-jwt-secrets", envString("ARANGODB_JWT", ""), "directory of JWT secret files; the file named \"token\" signs outgoing requests")

	flags.BoolVar(&cfg.Authentication, "authentication", false, "require caller authentication")
	flags.StringVar(&cfg.AuthService, "auth-service", envString("INTEGRATION_SERVICE_ADDRESS", ""), "remote token validator address")

	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	if endpoints != "" {
		cfg.ArangoDBEndpoints = strings.Split(endpoints, ",")
	}

	return cfg, nil
}

func envString(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// JWTSigningSecret reads the file literally named "token" under
// ArangoDBJWTDir and returns its contents as the signing secret. Other
// files in that directory are not read.
func (c *Config) JWTSigningSecret() (string, error) {
	if c.ArangoDBJWTDir == "" {
		return "", nil
	}

	path := filepath.Join(c.ArangoDBJWTDir, "token")
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("config: reading jwt signing secret: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// JWTVerificationSecrets reads every regular file under ArangoDBJWTDir,
// including "token" itself, as acceptable verification secrets.
func (c *Config) JWTVerificationSecrets() ([]string, error) {
	if c.ArangoDBJWTDir == "" {
		return nil, nil
	}

	entries, err := os.ReadDir(c.ArangoDBJWTDir)
	if err != nil {
		return nil, fmt.Errorf("config: reading jwt secrets directory: %w", err)
	}

	var secrets []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(c.ArangoDBJWTDir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("config: reading jwt secret %q: %w", entry.Name(), err)
		}
		secrets = append(secrets, strings.TrimSpace(string(data)))
	}
	return secrets, nil
}
