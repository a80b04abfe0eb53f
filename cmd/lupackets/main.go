// lupackets decodes, catalogs and records LU world protocol frames.
//
// It prints the message catalog, decodes single frames or frame streams,
// keeps a sqlite capture store, and serves an HTTP inspector with an
// optional TCP capture listener and MQTT capture feed.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/energizer-project/lupackets/internal/cli"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := cli.Run(ctx, os.Args); err != nil {
		log.Fatal().Err(err).Msg("lupackets failed")
	}
}
