// File: utils/constants.go
package utils

// AuthCachePrefix is the prefix used for revoked-token keys in Redis.
const AuthCachePrefix = "revoked:"
