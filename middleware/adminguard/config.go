package adminguard

import "time"

// Config holds admin guard configuration.
type Config struct {
	// Secret is the HMAC key admin tokens are signed with
	Secret string

	// Issuer is the expected "iss" claim
	Issuer string

	// Role is the value the "role" claim must carry (default: "admin")
	Role string

	// TokenTTL is the lifetime of tokens minted by TokenIssuer (default: 15m)
	TokenTTL time.Duration

	// Header is the message header carrying the bearer token (default: "Authorization")
	Header string

	// ProtectedServices lists the service names that require an admin token
	ProtectedServices []string
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Issuer:            "catalog-service",
		Role:              "admin",
		TokenTTL:          15 * time.Minute,
		Header:            "Authorization",
		ProtectedServices: []string{"hard_delete_product"},
	}
}

// Option is a function that modifies Config.
type Option func(*Config)

// WithSecret sets the signing secret.
func WithSecret(secret string) Option {
	return func(c *Config) {
		c.Secret = secret
	}
}

// WithIssuer sets the expected token issuer.
func WithIssuer(issuer string) Option {
	return func(c *Config) {
		c.Issuer = issuer
	}
}

// WithRole sets the required role claim.
func WithRole(role string) Option {
	return func(c *Config) {
		c.Role = role
	}
}

// WithTokenTTL sets the lifetime of issued tokens.
func WithTokenTTL(ttl time.Duration) Option {
	return func(c *Config) {
		c.TokenTTL = ttl
	}
}

// WithHeader sets the header name for token extraction.
func WithHeader(header string) Option {
	return func(c *Config) {
		c.Header = header
	}
}

// WithProtectedServices replaces the list of guarded services.
func WithProtectedServices(services ...string) Option {
	return func(c *Config) {
		c.ProtectedServices = services
	}
}
