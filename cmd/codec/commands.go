package codec

import (
	"fmt"
	"github.com/ValentinKolb/dPickle/cmd/util"
	"github.com/ValentinKolb/dPickle/lib/frame"
	"github.com/ValentinKolb/dPickle/lib/registry"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	"text/tabwriter"
)

func runEncode(cmd *cobra.Command, args []string) error {
	entry, err := lookupType()
	if err != nil {
		return err
	}

	text, err := util.ReadArg(args[0], cmd.InOrStdin())
	if err != nil {
		return err
	}

	v, err := entry.Parse(text)
	if err != nil {
		return err
	}

	data, err := entry.Encode(v, cliConfig.Pickle)
	if err != nil {
		return err
	}
	Logger.Debugf("pickled %s into %d bytes", entry.Name, len(data))

	tag, framed, err := util.GetCompression(cliConfig)
	if err != nil {
		return err
	}
	if framed {
		if data, err = frame.Seal(data, tag); err != nil {
			return err
		}
		Logger.Debugf("sealed frame of %d bytes", len(data))
	}

	out, err := util.EncodeBinary(data, cliConfig.Format)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}

func runDecode(cmd *cobra.Command, args []string) error {
	entry, err := lookupType()
	if err != nil {
		return err
	}

	text, err := util.ReadArg(args[0], cmd.InOrStdin())
	if err != nil {
		return err
	}

	data, err := util.DecodeBinary(text, cliConfig.Format)
	if err != nil {
		return fmt.Errorf("invalid %s input: %w", cliConfig.Format, err)
	}

	if _, framed, err := util.GetCompression(cliConfig); err != nil {
		return err
	} else if framed {
		h, err := frame.ReadHeader(data)
		if err != nil {
			return err
		}
		Logger.Debugf("frame with %s compression and %d payload bytes", h.Compression, h.PayloadSize)
		if data, err = frame.Open(data); err != nil {
			return err
		}
	}

	v, err := entry.Decode(data, cliConfig.Pickle)
	if err != nil {
		return err
	}

	out, err := yaml.Marshal(entry.Format(v))
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}

func runTypes(cmd *cobra.Command, _ []string) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tGO TYPE\tDESCRIPTION")
	for _, entry := range registry.Default().Entries() {
		fmt.Fprintf(w, "%s\t%s\t%s\n", entry.Name, entry.Type, entry.Description)
	}
	return w.Flush()
}
