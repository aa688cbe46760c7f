// Package config resolves the effective CLI configuration for one
// invocation.
//
// Sources are layered with priority (highest to lowest):
//
//  1. Command-line flags (including their CENTRIC_* env fallbacks)
//  2. CENTRIC_<SECTION>_<KEY> environment variables
//  3. YAML configuration file (default ~/.centric/cli.yaml)
//  4. Built-in defaults
//
// A .env file in the working directory is preloaded into the process
// environment before the environment layer is read.
package config
