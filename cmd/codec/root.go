package codec

import (
	"github.com/ValentinKolb/dPickle/cmd/util"
	"github.com/ValentinKolb/dPickle/lib/common"
	"github.com/ValentinKolb/dPickle/lib/registry"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var Logger = logger.GetLogger("cli")

var (
	// EncodeCmd pickles a value given as text
	EncodeCmd = &cobra.Command{
		Use:   "encode [value|-]",
		Short: "Pickles a value of a registered type",
		Long: `Parses the value as YAML (or with the parser of the type) and prints the pickled bytes.
Use - to read the value from stdin. See 'dpickle types' for the available types.`,
		Args:    cobra.ExactArgs(1),
		PreRunE: setupCodec,
		RunE:    runEncode,
	}

	// DecodeCmd unpickles bytes into a value and prints it as YAML
	DecodeCmd = &cobra.Command{
		Use:   "decode [data|-]",
		Short: "Unpickles a value of a registered type",
		Long: `Reads pickled bytes in the configured format and prints the value as YAML.
Use - to read the data from stdin.`,
		Args:    cobra.ExactArgs(1),
		PreRunE: setupCodec,
		RunE:    runDecode,
	}

	// TypesCmd lists the registered types
	TypesCmd = &cobra.Command{
		Use:   "types",
		Short: "Lists the registered types",
		Args:  cobra.NoArgs,
		RunE:  runTypes,
	}
)

func init() {
	for _, cmd := range []*cobra.Command{EncodeCmd, DecodeCmd} {
		cmd.Flags().StringP("type", "t", "string", "Name of the registered type")
	}
}

// cliConfig holds the configuration of the running command
var cliConfig *common.CLIConfig

// setupCodec reads the configuration from the command line flags and environment variables
func setupCodec(cmd *cobra.Command, _ []string) error {
	// Bind command flags to viper
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	cliConfig = util.GetCLIConfig()
	if err := util.SetupLogging(cliConfig); err != nil {
		return err
	}
	Logger.Debugf("configuration:%s", cliConfig)
	return nil
}

// lookupType returns the registry entry selected with --type
func lookupType() (*registry.Entry, error) {
	return registry.Default().Lookup(viper.GetString("type"))
}
