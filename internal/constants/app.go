package constants

// Application Information
const (
	AppName    = "Review Platform"
	AppVersion = "1.0.0"
)

// Environment Types
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// Cache Key Prefixes
const (
	CacheKeyPrefix        = "review:"
	CacheKeyReviewProduct = CacheKeyPrefix + "product:"
	CacheKeyReviewAll     = CacheKeyPrefix + "all"
	CacheKeyVersionPrefix = "version:"
)

// Token type returned to OAuth2-style clients
const TokenTypeBearer = "bearer"
