package main

import (
	"context"
	"fmt"
	"log"
	"math"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"pi-vision/config"
	"pi-vision/internal/container"
	"pi-vision/internal/domain/entity"
	"pi-vision/internal/domain/port"
	"pi-vision/internal/infrastructure/media"
	"pi-vision/internal/infrastructure/tof"
)

const (
	flagPreset   = "preset"
	flagProfiles = "profiles"
	flagLogLevel = "log-level"
	flagDuration = "duration"
	flagOut      = "out"
	flagImage    = "image"
	flagColor    = "color"
	flagClass    = "class"
	flagFrames   = "frames"
	flagNoVideo  = "no-video"
	flagReads    = "reads"
)

func main() {
	var (
		cfg    *config.Config
		logger *zap.Logger
		deps   *container.Container
	)

	app := &cli.App{
		Name:  "pi-vision",
		Usage: "colour object detection and sensing for the camera robot",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: flagPreset, Usage: "built-in profile set (cycle, scripts)"},
			&cli.StringFlag{Name: flagProfiles, Usage: "YAML profile `FILE` applied over the preset"},
			&cli.StringFlag{Name: flagLogLevel, Usage: "debug, info, warn or error"},
		},
		Before: func(c *cli.Context) error {
			var err error
			if cfg, err = config.Load(); err != nil {
				return errors.Wrap(err, "load config")
			}
			if c.IsSet(flagPreset) {
				cfg.ProfilePreset = c.String(flagPreset)
			}
			if c.IsSet(flagProfiles) {
				cfg.ProfilesFile = c.String(flagProfiles)
			}
			if c.IsSet(flagLogLevel) {
				cfg.LogLevel = c.String(flagLogLevel)
			}
			if logger, err = container.NewLogger(cfg.LogLevel); err != nil {
				return err
			}
			deps, err = container.New(cfg, logger)
			return err
		},
		After: func(c *cli.Context) error {
			if deps == nil {
				return nil
			}
			err := deps.Close()
			_ = logger.Sync()
			return err
		},
		Commands: []*cli.Command{
			{
				Name:  "record",
				Usage: "record camera frames to a video file",
				Flags: []cli.Flag{
					&cli.DurationFlag{Name: flagDuration, Usage: "recording length (default RECORD_DURATION)"},
					&cli.StringFlag{Name: flagOut, Usage: "output video `FILE`"},
				},
				Action: func(c *cli.Context) error {
					return runRecord(c, deps)
				},
			},
			{
				Name:  "detect",
				Usage: "detect objects of one colour and class on a still image",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: flagImage, Required: true, Usage: "input image `FILE`"},
					&cli.StringFlag{Name: flagColor, Value: "RED"},
					&cli.StringFlag{Name: flagClass, Value: "BALL"},
					&cli.StringFlag{Name: flagOut, Usage: "write the annotated image to `FILE`"},
				},
				Action: func(c *cli.Context) error {
					return runDetect(c, deps)
				},
			},
			{
				Name:  "cycle",
				Usage: "run the preset work-list over camera frames and record an annotated video",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: flagImage, Usage: "use a still image `FILE` instead of the camera"},
					&cli.IntFlag{Name: flagFrames, Usage: "frames per phase (overrides the preset)"},
					&cli.BoolFlag{Name: flagNoVideo, Usage: "do not write the annotated video"},
					&cli.StringFlag{Name: flagOut, Usage: "output video `FILE`"},
				},
				Action: func(c *cli.Context) error {
					return runCycle(c, deps)
				},
			},
			{
				Name:  "tof",
				Usage: "print 8x8 depth matrices from the ToF sensor",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: flagReads, Usage: "stop after N reads (0 polls until interrupted)"},
				},
				Action: func(c *cli.Context) error {
					return runTof(c, deps)
				},
			},
			{
				Name:  "presets",
				Usage: "list the colour ranges, class profiles and work-list in use",
				Action: func(c *cli.Context) error {
					return printPresets(c, deps)
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("pi-vision: %v", err)
	}
}

func signalContext(c *cli.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
}

func openCamera(cfg *config.Config) (*media.Camera, int, int, error) {
	cam, err := media.OpenCamera(cfg.CameraDevice, cfg.FrameWidth, cfg.FrameHeight, cfg.CameraFPS)
	if err != nil {
		return nil, 0, 0, err
	}
	w, h := cam.Size()
	if w == 0 || h == 0 {
		w, h = cfg.FrameWidth, cfg.FrameHeight
	}
	return cam, w, h, nil
}

func runRecord(c *cli.Context, deps *container.Container) error {
	cfg := deps.Config
	duration := cfg.RecordDuration
	if c.IsSet(flagDuration) {
		duration = c.Duration(flagDuration)
	}
	out := c.String(flagOut)
	if out == "" {
		out = media.VideoPath(cfg.VideoDir, "simple_capture", deps.Clock.Now())
	}

	cam, w, h, err := openCamera(cfg)
	if err != nil {
		return err
	}
	writer, err := media.CreateVideoWriter(out, cfg.VideoCodec, cfg.VideoFPS, w, h)
	if err != nil {
		return multierr.Append(err, cam.Close())
	}

	ctx, cancel := signalContext(c)
	defer cancel()
	report, err := deps.Record(cam, writer).Record(ctx, duration)
	err = ignoreCanceled(multierr.Combine(err, writer.Close(), cam.Close()))

	fmt.Fprintf(c.App.Writer, "recorded %d frames (%.1f FPS) to %s\n", report.Frames, report.FPS(), writer.Path())
	return err
}

func runDetect(c *cli.Context, deps *container.Container) error {
	frame, err := media.LoadFrame(c.String(flagImage), entity.OrderBGR)
	if err != nil {
		return err
	}

	res, err := deps.Detection.DetectAndAnnotate(c.Context, frame, c.String(flagColor), c.String(flagClass))
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "LABEL\tX\tY\tW\tH\tAREA")
	for _, d := range res.Detections {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%.0f\n", d.Label(), d.Box.X, d.Box.Y, d.Box.Width, d.Box.Height, d.Area)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if out := c.String(flagOut); out != "" {
		return media.SaveFrame(out, res.Annotated)
	}
	return nil
}

func runCycle(c *cli.Context, deps *container.Container) error {
	cfg := deps.Config
	phases := append([]entity.Phase(nil), deps.Sequence...)
	if c.IsSet(flagFrames) {
		for i := range phases {
			phases[i].Frames = c.Int(flagFrames)
		}
	}

	var (
		source port.FrameSource
		w, h   int
	)
	if img := c.String(flagImage); img != "" {
		frame, err := media.LoadFrame(img, entity.OrderBGR)
		if err != nil {
			return err
		}
		source, w, h = media.NewStillSource(frame), frame.Width, frame.Height
	} else {
		cam, cw, ch, err := openCamera(cfg)
		if err != nil {
			return err
		}
		source, w, h = cam, cw, ch
	}
	defer source.Close()

	var sink port.FrameSink
	if !c.Bool(flagNoVideo) {
		out := c.String(flagOut)
		if out == "" {
			out = media.VideoPath(cfg.VideoDir, "fsm_detect_output", deps.Clock.Now())
		}
		writer, err := media.CreateVideoWriter(out, cfg.VideoCodec, cfg.VideoFPS, w, h)
		if err != nil {
			return err
		}
		defer writer.Close()
		sink = writer
		deps.Logger.Info("writing annotated video", zap.String("path", writer.Path()))
	}

	ctx, cancel := signalContext(c)
	defer cancel()
	report, err := deps.Cycle(source, sink).Run(ctx, deps.Preset, phases)
	err = ignoreCanceled(err)

	tw := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PHASE\tFRAMES\tWITH HITS\tDETECTIONS\tLARGEST")
	for _, p := range report.Phases {
		largest := "-"
		if p.Largest != nil {
			largest = fmt.Sprintf("%.0f px²", p.Largest.Area)
		}
		fmt.Fprintf(tw, "%s %s\t%d\t%d\t%d\t%s\n", p.Phase.Color, p.Phase.Class, p.Frames, p.FramesWithHits, p.Detections, largest)
	}
	fmt.Fprintf(tw, "total\t%d\t\t%d\t%.1f FPS\n", report.Frames, report.Detections(), report.FPS())
	if ferr := tw.Flush(); ferr != nil {
		return multierr.Append(err, ferr)
	}
	return err
}

func runTof(c *cli.Context, deps *container.Container) error {
	cfg := deps.Config
	sensor, err := tof.Open(cfg.TofBus, cfg.TofAddress)
	if err != nil {
		return err
	}
	defer sensor.Close()

	ctx, cancel := signalContext(c)
	defer cancel()
	nearest := uint8(math.MaxUint8)
	stats, err := deps.Depth(sensor).Run(ctx, c.Int(flagReads), func(m entity.DepthMatrix) {
		nearest = min(nearest, m.Min())
		fmt.Fprintln(c.App.Writer, m.String())
	})
	fmt.Fprintf(c.App.Writer, "done: %d reads, %d bad frames", stats.Reads, stats.Bad)
	if stats.Reads > stats.Bad {
		fmt.Fprintf(c.App.Writer, ", nearest %d", nearest)
	}
	fmt.Fprintln(c.App.Writer)
	return err
}

// ignoreCanceled превращает остановку по Ctrl-C в штатное завершение.
func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func printPresets(c *cli.Context, deps *container.Container) error {
	tw := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "preset: %s\n\n", deps.Preset)

	fmt.Fprintln(tw, "COLOR\tLOWER\tUPPER")
	for _, rng := range deps.Profiles.Ranges() {
		for _, p := range rng.Pairs {
			fmt.Fprintf(tw, "%s\t(%d, %d, %d)\t(%d, %d, %d)\n", rng.Name,
				p.Lower.H, p.Lower.S, p.Lower.V, p.Upper.H, p.Upper.S, p.Upper.V)
		}
	}

	fmt.Fprintln(tw, "\nCLASS\tMIN AREA\tASPECT\tCHECK")
	for _, p := range deps.Profiles.Profiles() {
		fmt.Fprintf(tw, "%s\t%.0f\t%.2f-%.2f\t%t\n", p.Name, p.MinArea, p.AspectMin, p.AspectMax, p.CheckAspect)
	}

	fmt.Fprintln(tw, "\nSEQUENCE")
	for i, p := range deps.Sequence {
		fmt.Fprintf(tw, "%d\t%s\n", i+1, p)
	}
	return tw.Flush()
}
