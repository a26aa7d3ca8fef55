// Command pathsvg renders scene files to SVG from the command line.
//
// Usage:
//
//	pathsvg render <scene.json|scene.yaml> [-o out.svg] [-fonts dir] [-center bbox|mean] [-indent] [-db url]
//	pathsvg sample [-o out.svg] [-scene]
//	pathsvg inspect <file.svg> [-strict]
//	pathsvg token -sub name [-ttl 1h]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/inamate/pathsvg/internal/auth"
	"github.com/inamate/pathsvg/internal/config"
	"github.com/inamate/pathsvg/internal/document"
	"github.com/inamate/pathsvg/internal/engine"
	"github.com/inamate/pathsvg/internal/geom"
	"github.com/inamate/pathsvg/internal/scene"
	"github.com/inamate/pathsvg/internal/sink"
	"github.com/inamate/pathsvg/internal/store"
	"github.com/inamate/pathsvg/internal/svg"
	"github.com/inamate/pathsvg/internal/text"
)

var errUsage = errors.New("usage: pathsvg <render|sample|inspect|token> [flags]")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "pathsvg:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	level, _ := cfg.Level()
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	text.SetLogger(logger)

	if len(args) == 0 {
		return errUsage
	}
	switch args[0] {
	case "render":
		return runRender(ctx, cfg, args[1:], stdout, stderr)
	case "sample":
		return runSample(ctx, cfg, args[1:], stdout, stderr)
	case "inspect":
		return runInspect(args[1:], stdout, stderr)
	case "token":
		return runToken(cfg, args[1:], stdout, stderr)
	}
	return fmt.Errorf("unknown command %q: %w", args[0], errUsage)
}

// parse lets flags follow the positional arguments, as in
// "render scene.json -o out.svg".
func parse(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		if fs.NArg() == 0 {
			return positional, nil
		}
		positional = append(positional, fs.Arg(0))
		args = fs.Args()[1:]
	}
}

type renderFlags struct {
	out    string
	fonts  string
	center string
	indent bool
	db     string
}

func (f *renderFlags) register(fs *flag.FlagSet, cfg *config.Config) {
	fs.StringVar(&f.out, "o", "-", "output file, - for stdout")
	fs.StringVar(&f.fonts, "fonts", cfg.FontDir, "directory of .ttf/.otf fonts to load")
	fs.StringVar(&f.center, "center", cfg.CenterPolicy, "viewport center policy: bbox or mean")
	fs.BoolVar(&f.indent, "indent", false, "pretty-print the SVG")
	fs.StringVar(&f.db, "db", "", "also save the export to this database URL")
}

func (f *renderFlags) engine() (*engine.Engine, error) {
	policy, err := document.ParseCenterPolicy(f.center)
	if err != nil {
		return nil, err
	}
	fonts := text.NewFontDB()
	if f.fonts != "" {
		if _, err := fonts.LoadDir(f.fonts); err != nil {
			return nil, err
		}
	}
	return engine.New(
		engine.WithShaper(text.NewShaper(fonts)),
		engine.WithCenterPolicy(policy),
		engine.WithSerializer(&svg.Encoder{Indent: f.indent}),
	), nil
}

// export renders sc to the output flag and, with -db, to the export store.
func (f *renderFlags) export(ctx context.Context, sc *scene.Scene, stdout io.Writer) error {
	eng, err := f.engine()
	if err != nil {
		return err
	}

	var out sink.Sink = sink.File{}
	dest := f.out
	if f.out == "-" {
		out = sink.Writer(stdout)
		dest = sc.Name
	}

	if f.db != "" {
		st, err := store.New(ctx, f.db)
		if err != nil {
			return err
		}
		defer st.Close()
		if err := st.Migrate(ctx); err != nil {
			return err
		}
		saved := st.NewSink(sc.ID)
		out = sink.Multi(saved, out)
		defer func() {
			if e := saved.Last(); e != nil {
				slog.Info("export saved", "id", e.ID, "digest", e.Digest)
			}
		}()
	}

	_, err = eng.Export(ctx, sc, out, dest)
	return err
}

func runRender(ctx context.Context, cfg *config.Config, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var f renderFlags
	f.register(fs, cfg)

	pos, err := parse(fs, args)
	if err != nil {
		return err
	}
	if len(pos) != 1 {
		return errors.New("render: expected exactly one scene file")
	}

	sc, err := scene.Load(pos[0])
	if err != nil {
		return err
	}
	return f.export(ctx, sc, stdout)
}

func runSample(ctx context.Context, cfg *config.Config, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("sample", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var f renderFlags
	f.register(fs, cfg)
	asScene := fs.Bool("scene", false, "print the sample scene as YAML instead of rendering it")

	if _, err := parse(fs, args); err != nil {
		return err
	}
	if *asScene {
		return scene.Encode(stdout, scene.Sample(), scene.FormatYAML)
	}
	return f.export(ctx, scene.Sample(), stdout)
}

func runInspect(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
	fs.SetOutput(stderr)
	strict := fs.Bool("strict", false, "fail on unsupported elements")

	pos, err := parse(fs, args)
	if err != nil {
		return err
	}
	if len(pos) != 1 {
		return errors.New("inspect: expected exactly one SVG file")
	}

	mode := svg.IgnoreErrorMode
	if *strict {
		mode = svg.StrictErrorMode
	}
	parsed, err := svg.DecodeFile(pos[0], mode)
	if err != nil {
		return err
	}

	vb := parsed.ViewBox
	b := parsed.Bounds()
	fmt.Fprintf(stdout, "size     %s x %s\n", geom.FormatFloat(parsed.Width), geom.FormatFloat(parsed.Height))
	fmt.Fprintf(stdout, "viewBox  %s %s %s %s\n", geom.FormatFloat(vb.X), geom.FormatFloat(vb.Y), geom.FormatFloat(vb.Width), geom.FormatFloat(vb.Height))
	fmt.Fprintf(stdout, "paths    %d\n", len(parsed.Paths))
	fmt.Fprintf(stdout, "bounds   %s %s %s %s\n", geom.FormatFloat(b.X), geom.FormatFloat(b.Y), geom.FormatFloat(b.Width), geom.FormatFloat(b.Height))
	return nil
}

func runToken(cfg *config.Config, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("token", flag.ContinueOnError)
	fs.SetOutput(stderr)
	sub := fs.String("sub", "", "token subject")
	ttl := fs.Duration("ttl", time.Hour, "token lifetime")
	secret := fs.String("secret", cfg.JWTSecret, "signing secret")

	if _, err := parse(fs, args); err != nil {
		return err
	}
	svc, err := auth.NewService(*secret)
	if err != nil {
		return err
	}
	token, err := svc.IssueToken(*sub, *ttl)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, token)
	return nil
}
