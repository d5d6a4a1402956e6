// Package pipeline wires parsing, normalization, filtering and aggregation
// into one request-scoped run.
//
// A run reads the uploaded bytes, normalizes them into shipment records,
// applies the caller's filter and computes every summary the report needs.
// Normalized batches are memoized by a SHA-256 digest of the input bytes and
// its format, so repeated filter changes over the same upload skip parsing.
// Each run is traced and measured with OpenTelemetry.
package pipeline
