// Package confloader loads layered configuration with koanf and watches
// the configuration file with fsnotify.
//
// Priority (highest to lowest):
//
//  1. Maps loaded with LoadMap (command-line flags)
//  2. Environment variables (AAAMESH_ prefix)
//  3. The YAML configuration file
//  4. Values already present in the target struct
//
// Environment variables map to keys by dropping the prefix, lowercasing
// and turning "__" into a level separator, so AAAMESH_CLUSTER__DIAL_TIMEOUT
// sets cluster.dial_timeout.
package confloader
