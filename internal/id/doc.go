// Package id generates the URL-safe identifiers used across the document
// graph: UUIDv4 bytes encoded as unpadded base32 (RFC 4648), lowercase,
// 26 characters, safe for use in URLs and file paths.
package id
