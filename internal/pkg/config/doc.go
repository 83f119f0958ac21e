// Package config provides functionality for loading and managing application configuration.
//
// This package handles loading settings from environment variables and an optional
// .env file, validating them, and making them accessible throughout the application.
// It centralizes configuration management for easier modification and extension.
package config
