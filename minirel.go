// Package minirel is the top-level facade for the minirel engine.
package minirel

import "github.com/tuannm99/minirel/internal/engine"

type Database = engine.Database

var NewDatabase = engine.NewDatabase
