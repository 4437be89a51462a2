// Package model defines domain data structures shared across the app: video
// identifiers and references, thumbnail assets, lazily resolved page metadata
// fields, playlist entities, clipboard events and the error taxonomy.
// Structures carry no I/O and are safe to pass between goroutines once built.
package model
