package main

import (
	"bufio"
	"io"
	"os"

	"github.com/rs/zerolog/log"
)

// IOOptions select the input and output files; "-" means stdin / stdout.
type IOOptions struct {
	Input  string `short:"i" long:"input"  description:"Input file" default:"-"`
	Output string `short:"o" long:"output" description:"Output file" default:"-"`
}

func (o IOOptions) read() ([]byte, error) {
	if o.Input == "" || o.Input == "-" {
		return io.ReadAll(bufio.NewReader(os.Stdin))
	}

	return os.ReadFile(o.Input)
}

func (o IOOptions) write(data []byte) error {
	if o.Output == "" || o.Output == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}

	if err := os.WriteFile(o.Output, data, 0o644); err != nil { //nolint:gosec
		return err
	}
	log.Info().Str("file", o.Output).Int("bytes", len(data)).Msg("Output written")

	return nil
}
