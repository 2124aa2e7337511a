// Package config defines the aaamesh-node configuration.
//
//   - node.go: NodeConfig struct definition
//   - default.go: default values
//   - verify.go: validation
//   - sanitize.go: masking secrets before the config is logged
//   - cluster.go: conversion to cluster.Config
//
// Values are loaded with internal/infra/confloader from a YAML file,
// AAAMESH_ environment variables and command-line flags.
package config
