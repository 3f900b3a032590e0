package codec

import (
	"go.uber.org/zap"

	"github.com/wippyai/shapecodec/record"
)

// Options configures a Schema.
type Options struct {
	// Logger receives compile and registration events. Nil means the
	// package Logger.
	Logger *zap.Logger
	// Naming derives document field names for untagged struct fields.
	Naming record.Naming
	// SortSets encodes set elements in ascending order when the element
	// kind is ordered.
	SortSets bool
	// SortMaps encodes map members in ascending key order.
	SortMaps bool
}

// DefaultOptions returns default schema configuration.
func DefaultOptions() Options {
	return Options{
		Naming:   record.NamingAsIs,
		SortSets: true,
		SortMaps: true,
	}
}
