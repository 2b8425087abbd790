// Package config loads roster settings from a file and ROSTER_* environment
// variables with viper.
package config
