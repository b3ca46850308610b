package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gookit/color"
	"golang.org/x/term"

	"github.com/gosuhiman/get-lost/internal/config"
	"github.com/gosuhiman/get-lost/internal/export"
	"github.com/gosuhiman/get-lost/internal/logger"
	"github.com/gosuhiman/get-lost/internal/maze"
	"github.com/gosuhiman/get-lost/internal/render"
	"github.com/gosuhiman/get-lost/internal/seed"
)

const formatText = "text"

// options holds the parsed command line.
type options struct {
	configFile   string
	size         string
	portals      int
	seed         string
	format       string
	outputFile   string
	showSolution bool
	colorMode    string
	solveFile    string
	verbose      bool
}

func main() {
	var opts options
	flag.StringVar(&opts.configFile, "config", "", "Path to config YAML file (sizes and defaults)")
	flag.StringVar(&opts.size, "size", "", "Maze size: S, M, L, XL or a configured preset (default from config)")
	flag.IntVar(&opts.portals, "portals", -1, "Portal pairs to place (default from config)")
	flag.StringVar(&opts.seed, "seed", "", "Seed: a number or any text (default: random)")
	flag.StringVar(&opts.format, "format", "", "Output format: text, json or yaml (default: from -out extension, else text)")
	flag.StringVar(&opts.outputFile, "out", "", "Output file (empty for stdout)")
	flag.BoolVar(&opts.showSolution, "solution", false, "Include the shortest path")
	flag.StringVar(&opts.colorMode, "color", "auto", "Colour text output: auto, always or never")
	flag.StringVar(&opts.solveFile, "solve", "", "Solve a saved JSON or YAML maze document instead of generating")
	flag.BoolVar(&opts.verbose, "v", false, "Log to stdout")
	flag.Parse()

	if err := run(opts); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run does the work of one invocation. Deferred cleanup runs before main
// decides the exit status.
func run(opts options) error {
	cfg, err := config.LoadConfig(opts.configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	cfg.Logging.Console.Enabled = opts.verbose
	if opts.verbose || cfg.Logging.File.Enabled {
		if err := logger.Initialize(cfg.Logging); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		defer logger.Close()
	}

	outFormat, err := resolveFormat(opts.format, opts.outputFile)
	if err != nil {
		return err
	}

	out := io.Writer(os.Stdout)
	toTerminal := term.IsTerminal(int(os.Stdout.Fd()))
	if opts.outputFile != "" {
		file, err := os.Create(opts.outputFile)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer file.Close()
		out = file
		toTerminal = false
	}

	useColor, err := setupColor(opts.colorMode, toTerminal)
	if err != nil {
		return err
	}

	if opts.solveFile != "" {
		return solve(out, opts.solveFile, outFormat, useColor)
	}

	sizeName := opts.size
	if sizeName == "" {
		sizeName = cfg.Maze.DefaultSize
	}
	portals := opts.portals
	if portals < 0 {
		portals = cfg.Maze.DefaultPortals
	}

	engine := maze.NewEngine(cfg.SizeTable(), cfg.Maze.MaxPortalPairs)
	size, err := engine.Sizes.ParseSize(sizeName)
	if err != nil {
		return fmt.Errorf("%w (known sizes: %s)", err, sizeList(engine.Sizes))
	}

	sd, random, err := seed.Resolve(opts.seed)
	if err != nil {
		return err
	}
	logger.Debug("Seed selected", "seed", sd, "random", random)

	res, err := engine.GenerateWithPortals(size, portals, seed.New(sd))
	if err != nil {
		return fmt.Errorf("generate maze: %w", err)
	}
	if res.PlacedPairs < res.RequestedPairs {
		logger.Warning("Fewer portals placed than requested",
			"requested", res.RequestedPairs,
			"placed", res.PlacedPairs)
	}

	if outFormat == formatText {
		if toTerminal {
			warnWidth(res.Grid)
		}
		err = render.Text(out, res.Grid, res.Path, render.Options{ShowPath: opts.showSolution, Color: useColor})
	} else {
		err = export.Write(out, export.FromResult(res, sd, opts.showSolution), export.Format(outFormat))
	}
	if err != nil {
		return fmt.Errorf("write maze: %w", err)
	}

	printSummary(res, sd)
	return nil
}

// solve loads a saved document and prints its shortest path.
func solve(out io.Writer, path, outFormat string, useColor bool) error {
	doc, err := export.ReadFile(path)
	if err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	g, err := doc.ToGrid()
	if err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}

	sol, err := maze.Solve(g)
	if err != nil {
		return err
	}
	if !sol.Found() {
		return fmt.Errorf("%s: no route from entrance to exit", path)
	}

	if outFormat == formatText {
		if err := render.Text(out, g, sol.Path, render.Options{ShowPath: true, Color: useColor}); err != nil {
			return err
		}
	} else {
		doc.Path = make([][2]int, len(sol.Path))
		for i, c := range sol.Path {
			doc.Path[i] = [2]int{c.X, c.Y}
		}
		doc.PortalSteps = sol.PortalSteps
		if err := export.Write(out, doc, export.Format(outFormat)); err != nil {
			return err
		}
	}

	fmt.Fprintf(os.Stderr, "Path: %d cells, %d portal hops\n", len(sol.Path), len(sol.PortalSteps))
	return nil
}

// resolveFormat picks the output format from the flag, then the output
// file extension, then text.
func resolveFormat(flagValue, outputFile string) (string, error) {
	if flagValue == "" && outputFile != "" {
		if f, err := export.FormatForPath(outputFile); err == nil {
			return string(f), nil
		}
		return formatText, nil
	}
	if flagValue == "" || strings.EqualFold(flagValue, formatText) {
		return formatText, nil
	}
	f, err := export.ParseFormat(flagValue)
	if err != nil {
		return "", err
	}
	return string(f), nil
}

func setupColor(mode string, toTerminal bool) (bool, error) {
	switch strings.ToLower(mode) {
	case "always":
		color.ForceOpenColor()
		return true, nil
	case "never":
		color.Disable()
		return false, nil
	case "auto", "":
		if !toTerminal {
			color.Disable()
		}
		return toTerminal, nil
	}
	return false, fmt.Errorf("unknown -color mode %q (want auto, always or never)", mode)
}

// warnWidth notes when the drawing is wider than the terminal.
func warnWidth(g *maze.Grid) {
	cols, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return
	}
	if need := render.Width(g); need > cols {
		fmt.Fprintf(os.Stderr, "Warning: maze needs %d columns, terminal has %d\n", need, cols)
	}
}

func printSummary(res *maze.Result, sd int64) {
	stats := maze.Analyze(res.Grid)
	fmt.Fprintf(os.Stderr, "Size: %s (%dx%d)\n", res.Size, res.Width, res.Height)
	fmt.Fprintf(os.Stderr, "Seed: %d\n", sd)
	if res.Sections > 0 {
		fmt.Fprintf(os.Stderr, "Sections: %d\n", res.Sections)
		fmt.Fprintf(os.Stderr, "Portals: %d of %d requested\n", res.PlacedPairs, res.RequestedPairs)
	}
	fmt.Fprintf(os.Stderr, "Path: %d cells, %d portal hops\n", len(res.Path), len(res.PortalSteps))
	fmt.Fprintf(os.Stderr, "Dead ends: %d\n", stats.DeadEnds)
}

func sizeList(t maze.SizeTable) string {
	names := t.Names()
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = string(n)
	}
	return strings.Join(parts, ", ")
}
