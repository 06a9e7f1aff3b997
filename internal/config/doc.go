// Package config provides the run configuration of enumdir.
//
// Config is filled from CLI flags, optionally merged with the per-host
// entries of a YAML configuration file, validated once, and then passed
// read-only to every stage of the scan pipeline.
package config
