package cli

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/energizer-project/lupackets/internal/api"
	"github.com/energizer-project/lupackets/internal/config"
	"github.com/energizer-project/lupackets/internal/db"
	"github.com/energizer-project/lupackets/internal/network"
	"github.com/energizer-project/lupackets/internal/packets"
	"github.com/energizer-project/lupackets/internal/telemetry"
)

// serve runs the inspector API and, when configured, the TCP capture
// listener and the MQTT capture feed. All of them share one recorder.
func serve(ctx context.Context, cfg *config.Config) error {
	store, err := db.NewCaptureStore(cfg.GetCapture().DatabasePath)
	if err != nil {
		return err
	}
	defer store.Close()
	log.Info().Str("database", store.Path()).Msg("capture store opened")

	var sink packets.CaptureSink
	if mqttCfg := cfg.GetMQTT(); mqttCfg.Enabled {
		feed, err := telemetry.NewMQTTFeed(mqttCfg)
		if err != nil {
			return err
		}
		if err := feed.Connect(); err != nil {
			log.Warn().Err(err).Msg("MQTT feed unavailable, captures will not be published")
		} else {
			defer feed.Close()
			sink = feed
		}
	}

	recorder := packets.NewRecorder(store, sink)
	srv := api.NewServer(cfg, store, recorder)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Start(ctx)
	})
	if port := cfg.GetCapture().ListenPort; port != 0 {
		listener := network.NewCaptureListener(fmt.Sprintf("127.0.0.1:%d", port), recorder)
		g.Go(func() error {
			return listener.Start(ctx)
		})
	}
	return g.Wait()
}
