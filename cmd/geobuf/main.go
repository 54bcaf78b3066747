// Command geobuf converts between GeoJSON / TopoJSON and the geobuf binary format.
package main

import (
	"errors"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"

	"github.com/arloliu/geobuf/internal/config"
	"github.com/arloliu/geobuf/internal/logger"
)

// Options are the flags shared by every command.
type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile string `short:"c" long:"config" env:"GEOBUF_CONFIG" description:"Path to YAML configuration file" default:"geobuf.yaml"`
}

var (
	opts Options
	cfg  *config.Config
)

func main() {
	parser := flags.NewParser(&opts, flags.Default)
	parser.CommandHandler = func(cmd flags.Commander, args []string) error {
		if err := setup(parser); err != nil {
			return err
		}
		if cmd == nil {
			return nil
		}

		return cmd.Execute(args)
	}

	mustAdd(parser.AddCommand("encode", "Encode GeoJSON to geobuf", "Reads GeoJSON or TopoJSON and writes a geobuf stream.", &encodeCommand{}))
	mustAdd(parser.AddCommand("decode", "Decode geobuf to GeoJSON", "Reads a geobuf stream and writes GeoJSON, one document per line.", &decodeCommand{}))
	mustAdd(parser.AddCommand("info", "Describe a geobuf stream", "Prints header and node statistics for every document of a stream.", &infoCommand{}))
	mustAdd(parser.AddCommand("filter", "Select features by bounding box", "Writes the features of a geobuf stream that intersect a bounding box as GeoJSON.", &filterCommand{}))

	if _, err := parser.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) {
			if flagsErr.Type == flags.ErrHelp {
				os.Exit(0)
			}
			os.Exit(2)
		}
		log.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}

func mustAdd(_ *flags.Command, err error) {
	if err != nil {
		panic(err)
	}
}

// setup loads the configuration file and installs the logger.
// The default config path is optional; an explicit one must exist.
func setup(parser *flags.Parser) error {
	optional := true
	if opt := parser.FindOptionByLongName("config"); opt != nil && opt.IsSet() && !opt.IsSetDefault() {
		optional = false
	}

	var err error
	cfg, err = config.Load(opts.ConfigFile, optional)
	if err != nil {
		opts.Logger.Setup()
		return err
	}

	if lvl := parser.FindOptionByLongName("log-level"); cfg.LogLevel != "" && (lvl == nil || !lvl.IsSet() || lvl.IsSetDefault()) {
		opts.Logger.Level = cfg.LogLevel
	}
	opts.Logger.Setup()

	log.Debug().
		Str("config", opts.ConfigFile).
		Str("compression", cfg.CompressionType().String()).
		Bool("compact", cfg.Compact).
		Msg("Configuration loaded")

	return nil
}
