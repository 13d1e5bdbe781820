package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"LocalPaint/internal/config"
	"LocalPaint/internal/export"
	"LocalPaint/internal/net"
	"LocalPaint/internal/render"
	"LocalPaint/internal/session"
	"LocalPaint/internal/state"
	"LocalPaint/internal/store"
	"LocalPaint/internal/ui"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// cli carries what every subcommand shares once the root has run.
type cli struct {
	configPath string
	cfg        *config.Config
	logFile    io.Closer
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:           "localpaint",
		Short:         "Freehand drawing surface with a replayable stroke log",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig(c.configPath)
			if err != nil {
				return err
			}
			c.cfg = cfg
			c.logFile, err = setupLogging(cfg.Logging)
			return err
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if c.logFile != nil {
				_ = c.logFile.Close()
			}
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			return c.runDesktop()
		},
	}
	root.PersistentFlags().StringVar(&c.configPath, "config", "localpaint.yaml", "configuration file")

	root.AddCommand(newDesktopCmd(c))
	root.AddCommand(newServeCmd(c))
	root.AddCommand(newDiscoverCmd(c))
	root.AddCommand(newRenderCmd(c))
	return root
}

func newDesktopCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "desktop",
		Short: "Open the paint window (default)",
		RunE: func(_ *cobra.Command, _ []string) error {
			return c.runDesktop()
		},
	}
}

func (c *cli) runDesktop() error {
	log.Println("[MAIN] starting desktop front-end")
	a := ui.NewApp()

	st, err := store.Open(store.Options{
		Driver: c.cfg.Storage.Driver,
		Path:   c.cfg.Storage.Path,
		Prefs:  a.Preferences(),
	})
	if err != nil {
		return err
	}
	defer st.Close()

	s, err := c.newSession(st)
	if err != nil {
		return err
	}
	ui.RunApp(a, c.cfg, s)
	return nil
}

func newServeCmd(c *cli) *cobra.Command {
	var listen string
	var advertise bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the canvas to a browser on the local network",
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := c.cfg.Server
			if cmd.Flags().Changed("listen") {
				opts.ListenAddress = listen
			}
			if cmd.Flags().Changed("advertise") {
				opts.Advertise = advertise
			}

			driver := c.cfg.Storage.Driver
			if driver == "prefs" {
				// Preferences belong to the desktop app.
				driver = "sqlite"
			}
			st, err := store.Open(store.Options{Driver: driver, Path: c.cfg.Storage.Path})
			if err != nil {
				return err
			}
			defer st.Close()

			s, err := c.newSession(st)
			if err != nil {
				return err
			}
			defer s.Close()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := net.NewServer(s, net.ServerOptions{
				ListenAddress: opts.ListenAddress,
				Advertise:     opts.Advertise,
				Instance:      opts.Instance,
				JPEGFilename:  c.cfg.Export.JPEGFilename,
				PDFFilename:   c.cfg.Export.PDFFilename,
			})
			log.Printf("[MAIN] serving on %s with %s storage", opts.ListenAddress, driver)
			return srv.ListenAndServe(ctx)
		},
	}
	cmd.Flags().StringVar(&listen, "listen", ":8888", "listen address")
	cmd.Flags().BoolVar(&advertise, "advertise", true, "announce the canvas over mDNS")
	return cmd
}

func newDiscoverCmd(_ *cli) *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "discover",
		Short: "List canvases served on the local network",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			found := 0
			err := net.Browse(ctx, timeout, func(e net.Entry) {
				found++
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\thttp://%s/\t%s\n", e.Instance, e.Addr, e.SessionID)
			})
			if err != nil {
				return err
			}
			if found == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no canvases found")
			}
			return nil
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 3*time.Second, "how long to listen for answers")
	return cmd
}

func newRenderCmd(c *cli) *cobra.Command {
	var width, height int
	var background string
	var trace bool

	cmd := &cobra.Command{
		Use:   "render <log.json> <out.jpeg|png|pdf>",
		Short: "Replay a saved stroke log into an image or PDF",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("width") {
				width = c.cfg.Canvas.Width
			}
			if !cmd.Flags().Changed("height") {
				height = c.cfg.Canvas.Height
			}
			if background == "" {
				background = c.cfg.Canvas.Background
			}
			background = state.NormalizeHex(background)

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read log: %w", err)
			}
			strokes, err := state.Decode(data)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			samples := strokes.Samples()

			if trace {
				rec := &render.Recording{}
				if _, err := render.Reconstruct(samples, rec, background); err != nil {
					return err
				}
				if _, err := rec.WriteTo(cmd.OutOrStdout()); err != nil {
					return err
				}
			}
			return renderFile(args[1], samples, width, height, background)
		},
	}
	cmd.Flags().IntVar(&width, "width", 1024, "surface width in pixels")
	cmd.Flags().IntVar(&height, "height", 718, "surface height in pixels")
	cmd.Flags().StringVar(&background, "background", "", "background colour (hex)")
	cmd.Flags().BoolVar(&trace, "trace", false, "print every replayed segment")
	return cmd
}

func renderFile(path string, samples []state.Sample, width, height int, background string) error {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".jpeg" && ext != ".jpg" && ext != ".png" && ext != ".pdf" {
		return fmt.Errorf("unsupported output type %q", ext)
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}

	err = writeRendered(out, ext, samples, width, height, background)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return err
	}
	log.Printf("[MAIN] rendered %d samples to %s", len(samples), path)
	return nil
}

func writeRendered(w io.Writer, ext string, samples []state.Sample, width, height int, background string) error {
	if ext == ".pdf" {
		return export.WritePDF(w, samples, width, height, background)
	}

	raster, err := render.NewRaster(width, height)
	if err != nil {
		return err
	}
	defer raster.Close()
	if _, err := render.Reconstruct(samples, raster, background); err != nil {
		return err
	}
	if ext == ".png" {
		return raster.EncodePNG(w)
	}
	return raster.EncodeJPEG(w)
}

// newSession acquires the raster and starts a session on it. A surface that cannot
// be acquired is fatal.
func (c *cli) newSession(st store.Store) (*session.Session, error) {
	raster, err := render.NewRaster(c.cfg.Canvas.Width, c.cfg.Canvas.Height)
	if err != nil {
		return nil, err
	}
	s, err := session.New(session.OptionsFromConfig(c.cfg), raster, st)
	if err != nil {
		if errors.Is(err, state.ErrSurfaceUnavailable) {
			log.Printf("[MAIN] no drawing surface: %v", err)
		}
		return nil, err
	}
	return s, nil
}
