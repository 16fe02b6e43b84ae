// fractaltool is a headless CLI for the hexagonal fractal: instance
// counts, transform dumps and software snapshots.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/Faultbox/hexfractal/internal/config"
	"github.com/Faultbox/hexfractal/internal/logger"
	"github.com/Faultbox/hexfractal/internal/publish"
	"github.com/Faultbox/hexfractal/internal/snapshot"
	"github.com/Faultbox/hexfractal/pkg/fractal"
	"github.com/Faultbox/hexfractal/pkg/math"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "counts":
		cmdCounts(args)
	case "generate", "gen":
		cmdGenerate(args)
	case "snapshot", "snap":
		cmdSnapshot(args)
	case "config":
		cmdConfig(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`fractaltool - hexagonal fractal utility

Usage:
  fractaltool <command> [options]

Commands:
  counts                     Show joint and strut counts per depth
  generate [-dump] [params]  Generate instances and print a summary
  snapshot [-o file] [params] [-publish]
                             Render the fractal in software
  config                     Print the effective configuration as YAML

Shared flags (generate, snapshot, config):
  -config path -debug -depth n -base-scale f -scale-reduction f
  -joint-radius f -strut-radius f

Examples:
  fractaltool counts
  fractaltool generate -depth 3 -dump > transforms.txt
  fractaltool snapshot -depth 4 -width 1920 -height 1080 -o fractal.png`)
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

// loadConfig parses args with the shared config flags plus any extra flags
// the caller registered on fs.
func loadConfig(fs *flag.FlagSet, args []string) *config.Config {
	o := config.NewOverrides()
	o.RegisterFlags(fs)
	fs.Parse(args)

	cfg, err := config.LoadWith(o)
	if err != nil {
		fatal(err)
	}
	return cfg
}

func cmdCounts(args []string) {
	fs := flag.NewFlagSet("counts", flag.ExitOnError)
	maxDepth := fs.Int("max", fractal.MaxDepth, "Deepest level to list")
	fs.Parse(args)

	fmt.Printf("%-6s %10s %10s %10s\n", "depth", "joints", "struts", "total")
	for d := 0; d <= *maxDepth; d++ {
		j, s := fractal.Counts(d)
		fmt.Printf("%-6d %10d %10d %10d\n", d, j, s, j+s)
	}
	fmt.Printf("\nInstance budget: %d\n", fractal.MaxInstances)
}

func cmdGenerate(args []string) {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	dump := fs.Bool("dump", false, "Print every transform")
	cfg := loadConfig(fs, args)

	inst, err := fractal.Generate(cfg.Fractal)
	if err != nil {
		fatal(err)
	}

	if *dump {
		w := bufio.NewWriter(os.Stdout)
		dumpTransforms(w, "joint", inst.Joints)
		dumpTransforms(w, "strut", inst.Struts)
		if err := w.Flush(); err != nil {
			fatal(err)
		}
		return
	}

	p := cfg.Fractal
	fmt.Printf("Depth:           %d\n", p.Depth)
	fmt.Printf("Base size:       %g\n", p.BaseScale)
	fmt.Printf("Scale reduction: %g\n", p.ScaleReduction)
	fmt.Printf("Joint size:      %g\n", p.JointRadius)
	fmt.Printf("Stick thickness: %g\n", p.StrutRadius)
	fmt.Println()
	fmt.Printf("Joints: %d\n", len(inst.Joints))
	fmt.Printf("Struts: %d\n", len(inst.Struts))
	fmt.Printf("Memory: %.2f MB\n", float64(inst.Len()*64)/(1024*1024))
}

// dumpTransforms prints one column-major matrix per line.
func dumpTransforms(w io.Writer, kind string, transforms []math.Mat4) {
	for i, m := range transforms {
		fmt.Fprintf(w, "%s %d", kind, i)
		for _, v := range m {
			fmt.Fprintf(w, " %g", v)
		}
		fmt.Fprintln(w)
	}
}

func cmdSnapshot(args []string) {
	fs := flag.NewFlagSet("snapshot", flag.ExitOnError)
	output := fs.String("o", "", "Output file (default: timestamped file in the snapshot dir)")
	width := fs.Int("width", 0, "Image width")
	height := fs.Int("height", 0, "Image height")
	format := fs.String("format", "", "Image format: png or bmp")
	distance := fs.Float64("distance", 0, "Camera distance from the origin")
	doPublish := fs.Bool("publish", false, "Upload to the configured bucket")
	cfg := loadConfig(fs, args)
	if *width > 0 {
		cfg.Snapshot.Width = *width
	}
	if *height > 0 {
		cfg.Snapshot.Height = *height
	}
	if *format != "" {
		cfg.Snapshot.Format = *format
	}
	if *distance > 0 {
		cfg.Camera.Distance = float32(*distance)
	}
	if err := cfg.Validate(); err != nil {
		fatal(err)
	}

	if err := logger.Init(cfg.Logging.Options()); err != nil {
		fatal(err)
	}
	defer logger.Sync()

	inst, err := fractal.Generate(cfg.Fractal)
	if err != nil {
		fatal(err)
	}
	opt := snapshot.FromConfig(cfg.Snapshot, cfg.Camera)

	if *output != "" {
		img, err := snapshot.RenderInstances(inst, opt)
		if err != nil {
			fatal(err)
		}
		if err := snapshot.WriteFile(*output, img, cfg.Snapshot.Format); err != nil {
			fatal(err)
		}
		fmt.Println(*output)
		if *doPublish {
			publishFile(cfg, *output)
		}
		return
	}

	var up snapshot.Uploader
	if *doPublish {
		pub, err := publish.New(cfg.Publish, logger.Named("publish"))
		if err != nil {
			fatal(err)
		}
		up = pub
	}
	path, err := snapshot.Save(context.Background(), inst, opt, cfg.Snapshot.Format,
		snapshot.NewCapture(cfg.Snapshot.OutputDir, "hexfractal"), up, logger.Named("snapshot"))
	if err != nil {
		fatal(err)
	}
	fmt.Println(path)
}

func publishFile(cfg *config.Config, path string) {
	pub, err := publish.New(cfg.Publish, logger.Named("publish"))
	if err != nil {
		fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		fatal(err)
	}
	key, err := pub.Upload(context.Background(), filepath.Base(path), data, snapshot.ContentType(cfg.Snapshot.Format))
	if err != nil {
		logger.Error("upload failed", zap.Error(err))
		os.Exit(1)
	}
	fmt.Printf("Published: s3://%s/%s\n", cfg.Publish.Bucket, key)
}

func cmdConfig(args []string) {
	cfg := loadConfig(flag.NewFlagSet("config", flag.ExitOnError), args)
	data, err := cfg.Marshal()
	if err != nil {
		fatal(err)
	}
	os.Stdout.Write(data)
}
