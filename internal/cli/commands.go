// Package cli implements the lupackets command tree: catalog listings,
// one-off frame decoding, the capture store and the inspector server.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog/log"
	ucli "github.com/urfave/cli/v2"

	"github.com/energizer-project/lupackets/internal/catalog"
	"github.com/energizer-project/lupackets/internal/config"
	"github.com/energizer-project/lupackets/internal/db"
	"github.com/energizer-project/lupackets/internal/packets"
	"github.com/energizer-project/lupackets/internal/util"
)

// App holds the state shared by all commands.
type App struct {
	cfg *config.Config
	out io.Writer
}

// New builds the command tree. Command output goes to out.
func New(out io.Writer) *ucli.App {
	a := &App{out: out}
	configDir := config.DefaultConfigDir
	logLevel := ""

	return &ucli.App{
		Name:      "lupackets",
		Usage:     "inspect LU world protocol frames",
		Writer:    out,
		ErrWriter: os.Stderr,
		Flags: []ucli.Flag{
			&ucli.StringFlag{
				Name:        "config-dir",
				Usage:       "directory holding " + config.DefaultConfigFile,
				EnvVars:     []string{"LUPACKETS_CONFIG_DIR"},
				Destination: &configDir,
				Value:       configDir,
			},
			&ucli.StringFlag{
				Name:        "log-level",
				Usage:       "override logging.level: trace, debug, info, warn, error",
				EnvVars:     []string{"LUPACKETS_LOG_LEVEL"},
				Destination: &logLevel,
			},
		},
		Before: func(*ucli.Context) error {
			cfg, err := config.Load(configDir)
			if err != nil {
				return err
			}
			if result := config.Validate(cfg); !result.IsValid() {
				return result.Errors[0]
			}
			logCfg := cfg.LogConfig()
			if logLevel != "" {
				logCfg.Level = logLevel
			}
			if err := util.InitLogger(logCfg); err != nil {
				return err
			}
			a.cfg = cfg
			return nil
		},
		Commands: []*ucli.Command{
			a.catalogCmd(),
			a.decodeCmd(),
			a.captureCmd(),
			a.serveCmd(),
		},
	}
}

// Run executes the command line in args.
func Run(ctx context.Context, args []string) error {
	return New(os.Stdout).RunContext(ctx, args)
}

func directionFlag(required bool) *ucli.StringFlag {
	return &ucli.StringFlag{
		Name:     "direction",
		Aliases:  []string{"d"},
		Usage:    "receiving side: client or server",
		Required: required,
	}
}

func (a *App) catalogCmd() *ucli.Command {
	return &ucli.Command{
		Name:  "catalog",
		Usage: "list every known message",
		Flags: []ucli.Flag{
			&ucli.StringFlag{Name: "layer", Usage: "only entries of this layer"},
			directionFlag(false),
			&ucli.BoolFlag{Name: "docs", Usage: "show trigger and response notes"},
		},
		Action: func(ctx *ucli.Context) error {
			a.printCatalog(ctx.String("layer"), catalog.Direction(ctx.String("direction")), ctx.Bool("docs"))
			return nil
		},
	}
}

// printCatalog displays the catalog in a formatted table.
func (a *App) printCatalog(layer string, dir catalog.Direction, docs bool) {
	header := []string{"Layer", "Dir", "Union", "ID", "Name", "Width", "Pad", "Open"}
	if docs {
		header = append(header, "Trigger", "Response")
	}

	tw := tablewriter.NewWriter(a.out)
	tw.SetHeader(header)
	tw.SetBorder(true)
	tw.SetAutoWrapText(false)

	for _, e := range packets.Catalog() {
		if layer != "" && e.Layer != layer {
			continue
		}
		if dir != "" && e.Direction != dir {
			continue
		}
		row := []string{
			e.Layer,
			string(e.Direction),
			e.Union,
			strconv.FormatUint(uint64(e.Discriminant), 10),
			e.Name,
			strconv.Itoa(e.Width),
			strconv.Itoa(e.Padding),
			strconv.FormatBool(e.Open),
		}
		if docs {
			row = append(row, e.Doc.Trigger, e.Doc.Response)
		}
		tw.Append(row)
	}

	tw.Render()
}

func (a *App) decodeCmd() *ucli.Command {
	return &ucli.Command{
		Name:      "decode",
		Usage:     "decode frames given as hex or read from a capture stream",
		ArgsUsage: "[HEX]",
		Flags: []ucli.Flag{
			directionFlag(true),
			&ucli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "length-prefixed capture stream"},
		},
		Action: func(ctx *ucli.Context) error {
			p, err := packets.NewParser(catalog.Direction(ctx.String("direction")))
			if err != nil {
				return err
			}

			if path := ctx.String("file"); path != "" {
				return a.decodeStream(p, path)
			}

			if ctx.NArg() == 0 {
				return fmt.Errorf("a hex frame or --file is required")
			}
			frame, err := packets.ParseHex(strings.Join(ctx.Args().Slice(), ""))
			if err != nil {
				return err
			}
			return a.printDecoded(p, frame)
		},
	}
}

func (a *App) decodeStream(p *packets.Parser, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open capture stream: %w", err)
	}
	defer f.Close()

	for i := 0; ; i++ {
		frame, err := packets.ReadFrame(f)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
		fmt.Fprintf(a.out, "# frame %d (%d bytes)\n", i, len(frame))
		if err := a.printDecoded(p, frame); err != nil {
			fmt.Fprintf(a.out, "error: %v\n", err)
		}
	}
}

func (a *App) printDecoded(p *packets.Parser, frame []byte) error {
	d, err := p.Parse(frame)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to render frame: %w", err)
	}
	fmt.Fprintf(a.out, "%s\n%s\n", strings.Join(d.Path, " > "), data)
	return nil
}

func (a *App) openStore() (*db.CaptureStore, error) {
	return db.NewCaptureStore(a.cfg.GetCapture().DatabasePath)
}

func (a *App) captureCmd() *ucli.Command {
	return &ucli.Command{
		Name:  "capture",
		Usage: "record and browse frames in the capture store",
		Subcommands: []*ucli.Command{
			{
				Name:      "add",
				Usage:     "store a frame",
				ArgsUsage: "HEX",
				Flags: []ucli.Flag{
					directionFlag(true),
					&ucli.StringFlag{Name: "label", Usage: "free-form note"},
				},
				Action: func(ctx *ucli.Context) error {
					return a.captureAdd(catalog.Direction(ctx.String("direction")), ctx.String("label"), ctx.Args().Slice())
				},
			},
			{
				Name:  "list",
				Usage: "list stored frames, newest first",
				Flags: []ucli.Flag{
					directionFlag(false),
					&ucli.IntFlag{Name: "limit", Value: 50},
				},
				Action: func(ctx *ucli.Context) error {
					return a.captureList(ctx.String("direction"), ctx.Int("limit"))
				},
			},
			{
				Name:      "show",
				Usage:     "decode a stored frame",
				ArgsUsage: "ID",
				Action: func(ctx *ucli.Context) error {
					id, err := strconv.ParseInt(ctx.Args().First(), 10, 64)
					if err != nil {
						return fmt.Errorf("invalid capture id: %q", ctx.Args().First())
					}
					return a.captureShow(id)
				},
			},
		},
	}
}

func (a *App) captureAdd(dir catalog.Direction, label string, args []string) error {
	frame, err := packets.ParseHex(strings.Join(args, ""))
	if err != nil {
		return err
	}
	if max := a.cfg.GetCapture().MaxFrameBytes; len(frame) > max {
		return fmt.Errorf("frame of %d bytes exceeds capture.max_frame_bytes (%d)", len(frame), max)
	}

	store, err := a.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	stored, _, err := packets.NewRecorder(store, nil).Record(dir, label, frame)
	if err != nil {
		return err
	}
	if stored.DecodeErr != "" {
		fmt.Fprintf(a.out, "stored capture %d (does not decode: %s)\n", stored.ID, stored.DecodeErr)
		return nil
	}
	fmt.Fprintf(a.out, "stored capture %d\n", stored.ID)
	return nil
}

// captureList displays stored captures in a formatted table.
func (a *App) captureList(direction string, limit int) error {
	store, err := a.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	list, err := store.List(direction, limit)
	if err != nil {
		return err
	}

	tw := tablewriter.NewWriter(a.out)
	tw.SetHeader([]string{"ID", "Dir", "Size", "Message", "Label", "Stored"})
	tw.SetBorder(true)
	tw.SetAutoWrapText(false)

	for _, c := range list {
		message := strings.Join(c.Path, " > ")
		if c.DecodeErr != "" {
			message = "error: " + c.DecodeErr
		}
		tw.Append([]string{
			strconv.FormatInt(c.ID, 10),
			c.Direction,
			strconv.Itoa(len(c.Frame)),
			message,
			c.Label,
			c.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}

	tw.Render()
	return nil
}

func (a *App) captureShow(id int64) error {
	store, err := a.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	c, err := store.Get(id)
	if err != nil {
		return err
	}
	p, err := packets.NewParser(catalog.Direction(c.Direction))
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "capture %d, %s, %d bytes, %s\n", c.ID, c.Direction, len(c.Frame), c.Label)
	return a.printDecoded(p, c.Frame)
}

func (a *App) serveCmd() *ucli.Command {
	return &ucli.Command{
		Name:  "serve",
		Usage: "run the HTTP inspector",
		Flags: []ucli.Flag{
			&ucli.IntFlag{Name: "port", Usage: "override api.port"},
		},
		Action: func(ctx *ucli.Context) error {
			if port := ctx.Int("port"); port != 0 {
				apiCfg := a.cfg.GetAPI()
				apiCfg.Port = port
				a.cfg.SetAPI(apiCfg)
			}
			port := a.cfg.GetAPI().Port
			if !config.IsPortAvailable(port) {
				return fmt.Errorf("api port %d is already in use", port)
			}
			log.Info().Int("port", port).Msg("starting inspector")
			return serve(ctx.Context, a.cfg)
		},
	}
}
