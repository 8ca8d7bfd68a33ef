package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"drafter/editor"
	"drafter/export"
	"drafter/sketch"
	"drafter/solver"
)

func main() {
	// Define command line flags
	var (
		interactive = flag.Bool("i", false, "Interactive TUI mode")
		solve       = flag.Bool("solve", false, "Run the constraint solver before exporting")
		help        = flag.Bool("help", false, "Show help")

		// Sketch plane flag
		planeFlag = flag.String("plane", "XY", "Construction plane for a new sketch: XY, XZ, YZ")

		// Export flags
		format     = flag.String("format", "ascii", "Export format: svg, json, ascii")
		outputFile = flag.String("o", "", "Output file (default: stdout)")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] [sketch.json]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "A terminal parametric sketchpad: draw points, lines, circles and arcs,\n")
		fmt.Fprintf(os.Stderr, "pin them down with constraints, and let the solver keep them consistent.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                           # Start the interactive sketchpad\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -i sketch.json            # Edit a saved sketch in the TUI\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s sketch.json               # Render a sketch to stdout\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -solve sketch.json        # Re-solve the constraints, then render\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -format svg -o out.svg sketch.json\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -format json -solve sketch.json\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nEnvironment (a .env file is loaded when present):\n")
		fmt.Fprintf(os.Stderr, "  DRAFTER_EPSILON          Solver convergence tolerance\n")
		fmt.Fprintf(os.Stderr, "  DRAFTER_MAX_ITERATIONS   Solver iteration cap\n")
		fmt.Fprintf(os.Stderr, "  DRAFTER_SNAP_RADIUS      Snap pick distance in plane units\n")
	}

	flag.Parse()

	if *help {
		flag.Usage()
		os.Exit(0)
	}

	log.SetFlags(0)

	opts := loadOptions()

	plane, ok := sketch.ParsePlane(*planeFlag)
	if !ok {
		log.Fatalf("Error: invalid plane %q (must be XY, XZ or YZ)", *planeFlag)
	}

	// Get filename if provided
	args := flag.Args()
	var filename string
	if len(args) > 0 {
		filename = args[0]
	}

	// Handle interactive mode
	if *interactive || filename == "" {
		if err := runInteractive(filename, plane, opts); err != nil {
			log.Fatalf("Error: %v", err)
		}
		os.Exit(0)
	}

	// Read the sketch file
	sk, err := loadSketch(filename)
	if err != nil {
		log.Fatalf("Error loading sketch: %v", err)
	}

	if *solve {
		res, err := solver.New(opts.Solver).Solve(sk)
		if err != nil {
			log.Fatalf("Error solving sketch: %v", err)
		}
		sk = res.Sketch
		log.Printf("Solved in %d iterations: %s, %d degrees of freedom", res.Iterations, res.Status, res.DOF)
	}

	// Parse export format
	exportFormat, err := export.ParseFormat(*format)
	if err != nil {
		log.Fatalf("Error: %v\nAvailable formats: svg, json, ascii", err)
	}

	// Create appropriate exporter
	exporter, err := export.NewExporter(exportFormat)
	if err != nil {
		log.Fatalf("Error creating exporter: %v", err)
	}

	output, err := exporter.Export(sk)
	if err != nil {
		log.Fatalf("Error exporting sketch: %v", err)
	}

	// Output the result
	if *outputFile != "" {
		if err := os.WriteFile(*outputFile, []byte(output), 0644); err != nil {
			log.Fatalf("Error writing to file: %v", err)
		}
		log.Printf("Successfully exported to %s", *outputFile)
	} else {
		fmt.Println(output)
	}
}

// loadOptions builds the editor tuning from the environment. A .env
// file in the working directory is read first; absence is not an error.
func loadOptions() editor.Options {
	_ = godotenv.Load()

	opts := editor.DefaultOptions()
	if v := os.Getenv("DRAFTER_EPSILON"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			opts.Solver.Epsilon = f
		} else {
			log.Printf("Ignoring DRAFTER_EPSILON=%q: not a positive number", v)
		}
	}
	if v := os.Getenv("DRAFTER_MAX_ITERATIONS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			opts.Solver.MaxIterations = n
		} else {
			log.Printf("Ignoring DRAFTER_MAX_ITERATIONS=%q: not a positive integer", v)
		}
	}
	if v := os.Getenv("DRAFTER_SNAP_RADIUS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			opts.SnapRadius = f
		} else {
			log.Printf("Ignoring DRAFTER_SNAP_RADIUS=%q: not a positive number", v)
		}
	}
	return opts
}

// loadSketch reads a sketch snapshot and checks its referential
// integrity before anything downstream trusts the ids.
func loadSketch(filename string) (*sketch.Sketch, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	var sk sketch.Sketch
	if err := json.Unmarshal(data, &sk); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}

	if issues := sk.Validate(); len(issues) > 0 {
		for _, issue := range issues {
			log.Printf("%s: %s", filename, issue)
		}
		return nil, fmt.Errorf("sketch failed validation with %d issue(s)", len(issues))
	}

	return &sk, nil
}
