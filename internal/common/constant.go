// Package common contains constants and error kinds shared by every layer
// of the lexqa client.
package common

// IdentityKey is the metadata key under which the anonymous identity is stored.
const IdentityKey = "user_id"

// AcceptedExtension is the only file type the remote service ingests.
const AcceptedExtension = ".pdf"

// BytesPerMB converts the configured upload limit into bytes.
const BytesPerMB = 1024 * 1024
