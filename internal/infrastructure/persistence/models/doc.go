// Package models contains the GORM database models used by the persistence
// layer, with converters between database models and domain entities.
package models
