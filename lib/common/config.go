package common

import (
	"fmt"
	"strings"
)

// --------------------------------------------------------------------------
// Pickling session configuration
// --------------------------------------------------------------------------

// PickleConfig holds the settings of a single pickle or unpickle session.
// Both sides of a session must use the same Deduplicate value, otherwise the
// identity indices written by one side cannot be resolved by the other.
type PickleConfig struct {
	// Deduplicate enables identity based deduplication of reference values
	Deduplicate bool

	// InitialBufferSize is the initial capacity of the session encoder (in bytes)
	InitialBufferSize int

	// ChunkSize is the size of the chunks returned by chunked output (in bytes)
	ChunkSize int
}

// DefaultPickleConfig returns the configuration used when none is given
func DefaultPickleConfig() PickleConfig {
	return PickleConfig{
		Deduplicate:       true,
		InitialBufferSize: 512,
		ChunkSize:         64 * 1024,
	}
}

// String returns a formatted string representation of the configuration
func (c PickleConfig) String() string {
	var sb strings.Builder

	addSection(&sb, "Pickling")
	addField(&sb, "Deduplicate", fmt.Sprintf("%t", c.Deduplicate))
	addField(&sb, "Initial Buffer", fmt.Sprintf("%d bytes", c.InitialBufferSize))
	addField(&sb, "Chunk Size", fmt.Sprintf("%d bytes", c.ChunkSize))

	return sb.String()
}

// --------------------------------------------------------------------------
// CLI configuration
// --------------------------------------------------------------------------

// CLIConfig holds the settings of the dpickle command line tool
type CLIConfig struct {
	Pickle PickleConfig

	// Compression is the frame compression (none, lz4, zstd). Empty disables framing.
	Compression string

	// Format is the text encoding of binary output (hex, base64, raw)
	Format string

	// LogLevel is one of debug, info, warn, error
	LogLevel string
}

// String returns a formatted string representation of the configuration
func (c CLIConfig) String() string {
	var sb strings.Builder

	sb.WriteString(c.Pickle.String())

	addSection(&sb, "Output")
	compression := c.Compression
	if compression == "" {
		compression = "unframed"
	}
	addField(&sb, "Compression", compression)
	addField(&sb, "Format", c.Format)

	addSection(&sb, "Logging")
	addField(&sb, "Log Level", c.LogLevel)

	return sb.String()
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func addSection(sb *strings.Builder, title string) {
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
}

func addField(sb *strings.Builder, name, value string) {
	sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
}
