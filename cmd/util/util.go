package util

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"github.com/ValentinKolb/dPickle/lib/common"
	"github.com/ValentinKolb/dPickle/lib/frame"
	"github.com/ValentinKolb/dPickle/lib/serializer"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"io"
	"strings"
)

const (
	// Wrap is the number of characters to Wrap the help text at
	Wrap int = 50
)

// WrapString wraps a string at Wrap characters
func WrapString(text string) string {
	var wrappedLines []string
	var currentLine strings.Builder
	lineWidth := 0

	for _, word := range strings.Fields(text) {
		wordWidth := len(word)

		// Check if we need to wrap
		if lineWidth > 0 && lineWidth+1+wordWidth > Wrap {
			wrappedLines = append(wrappedLines, currentLine.String())
			currentLine.Reset()
			lineWidth = 0
		}

		// Add space before word (if not first word on line)
		if lineWidth > 0 {
			currentLine.WriteString(" ")
			lineWidth++
		}

		currentLine.WriteString(word)
		lineWidth += wordWidth
	}

	// Add any remaining text
	if currentLine.Len() > 0 {
		wrappedLines = append(wrappedLines, currentLine.String())
	}

	return strings.Join(wrappedLines, "\n")
}

// SetupPickleFlags adds the pickling session and output flags to a command
func SetupPickleFlags(cmd *cobra.Command) {
	key := "dedup"
	cmd.PersistentFlags().Bool(key, true, WrapString("Deduplicate reference values (strings, ids, big numbers) by identity. Encoder and decoder must agree on this setting"))

	key = "buffer-size"
	cmd.PersistentFlags().Int(key, 512, WrapString("The initial size of the encoder buffer (in bytes)"))

	key = "chunk-size"
	cmd.PersistentFlags().Int(key, 64, WrapString("The size of the chunks of chunked output (in KB)"))

	key = "compress"
	cmd.PersistentFlags().String(key, "", WrapString("Wrap the pickled bytes in a checksummed frame with this compression (none, lz4, zstd). Leave empty for unframed output"))

	key = "format"
	cmd.PersistentFlags().String(key, "hex", WrapString("The text encoding of binary data on stdin and stdout (hex, base64, raw)"))

	key = "log-level"
	cmd.PersistentFlags().String(key, "warn", WrapString("LogLevel is the level at which logs will be output (debug, info, warn, error)"))
}

// InitConfig initializes configuration from environment variables
func InitConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix("dpickle")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}

// GetCLIConfig reads the CLI configuration from viper
func GetCLIConfig() *common.CLIConfig {
	return &common.CLIConfig{
		Pickle: common.PickleConfig{
			Deduplicate:       viper.GetBool("dedup"),
			InitialBufferSize: viper.GetInt("buffer-size"),
			ChunkSize:         viper.GetInt("chunk-size") * 1024,
		},
		Compression: viper.GetString("compress"),
		Format:      viper.GetString("format"),
		LogLevel:    viper.GetString("log-level"),
	}
}

// SetupLogging installs the custom logger and applies the configured level
func SetupLogging(config *common.CLIConfig) error {
	return common.InitLoggers(config.LogLevel)
}

// GetCompression returns the configured frame compression. The second
// return value is false if the output should not be framed at all.
func GetCompression(config *common.CLIConfig) (frame.CompressionTag, bool, error) {
	if config.Compression == "" {
		return frame.CompressionNone, false, nil
	}
	tag, err := frame.ParseCompressionTag(config.Compression)
	return tag, err == nil, err
}

// GetSerializer creates the serializer with the given name using the
// configured pickling session settings
func GetSerializer(name string, config *common.CLIConfig) (serializer.ISerializer, error) {
	return serializer.New(name, config.Pickle)
}

// BindCommandFlags binds a command's flags to viper
func BindCommandFlags(cmd *cobra.Command) error {
	return viper.BindPFlags(cmd.Flags())
}

// --------------------------------------------------------------------------
// Binary input and output
// --------------------------------------------------------------------------

// ReadArg returns the argument, or all of stdin if the argument is "-"
func ReadArg(arg string, stdin io.Reader) (string, error) {
	if arg != "-" {
		return arg, nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), nil
}

// EncodeBinary renders binary data in the configured text format
func EncodeBinary(data []byte, format string) ([]byte, error) {
	switch format {
	case "hex":
		return []byte(hex.EncodeToString(data) + "\n"), nil
	case "base64":
		return []byte(base64.StdEncoding.EncodeToString(data) + "\n"), nil
	case "raw":
		return data, nil
	default:
		return nil, fmt.Errorf("invalid format %s (available: hex, base64, raw)", format)
	}
}

// DecodeBinary parses binary data rendered in the configured text format.
// Surrounding whitespace is ignored for the text formats.
func DecodeBinary(text string, format string) ([]byte, error) {
	switch format {
	case "hex":
		return hex.DecodeString(strings.Join(strings.Fields(text), ""))
	case "base64":
		return base64.StdEncoding.DecodeString(strings.Join(strings.Fields(text), ""))
	case "raw":
		return []byte(text), nil
	default:
		return nil, fmt.Errorf("invalid format %s (available: hex, base64, raw)", format)
	}
}
