// Command tzbuild compiles a GeoJSON time zone boundary dataset into
// the compiled binary tree format consumed by pkg/tzfinder.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/beetlebugorg/tzfinder/internal/buildlog"
	"github.com/beetlebugorg/tzfinder/internal/source"
	"github.com/beetlebugorg/tzfinder/internal/tree"
)

func main() {
	var (
		input      = flag.String("in", "", "path to the GeoJSON FeatureCollection (required)")
		output     = flag.String("out", "TZFinder.TimeZoneData.bin", "path to write the compiled tree to")
		maxLevel   = flag.Int("max-level", tree.DefaultMaxLevel, "maximum BSP recursion depth")
		minRing    = flag.Float64("min-ring-distance", 500, "minimum vertex spacing in meters for ring reduction")
		verify     = flag.Bool("verify", false, "run Validate on the built tree before writing it")
	)
	flag.Parse()

	if *input == "" {
		fmt.Fprintln(os.Stderr, "tzbuild: -in is required")
		os.Exit(2)
	}

	if err := run(*input, *output, *maxLevel, *minRing, *verify); err != nil {
		fmt.Fprintf(os.Stderr, "tzbuild: %v\n", err)
		os.Exit(1)
	}
}

func run(input, output string, maxLevel int, minRing float64, verify bool) error {
	logger := buildlog.New(log.New(os.Stderr, "", log.LstdFlags), 5000)

	in, err := os.Open(input)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer in.Close()

	result, err := source.Load(in, minRing)
	if err != nil {
		return fmt.Errorf("load geojson: %w", err)
	}
	fmt.Fprintf(os.Stderr, "loaded %d time zone sources\n", len(result.Sources))

	ctx := context.Background()

	builder := tree.NewBuilder(tree.BuilderOptions{
		MaxLevel: maxLevel,
		Progress: logger.Progress,
	})
	t, err := builder.Build(ctx, result.Sources)
	if err != nil {
		return fmt.Errorf("build: %w", err)
	}
	fmt.Fprintf(os.Stderr, "built tree: %d nodes\n", t.NodeCount())

	consolidator := tree.NewConsolidator(tree.ConsolidatorOptions{
		Progress: logger.Progress,
	})
	if err := consolidator.Consolidate(ctx, builder, t, result); err != nil {
		return fmt.Errorf("consolidate: %w", err)
	}

	if verify {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("validate: %w", err)
		}
		fmt.Fprintln(os.Stderr, "validate: ok")
	}

	stats := t.Stats()
	fmt.Fprintf(os.Stderr, "leaves=%d max_depth=%d multi_index_leaves=%d\n",
		stats.LeafCount, stats.MaxDepth, stats.MultiLeafCount)

	tmp := output + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := tree.Encode(f, t); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("encode: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close output: %w", err)
	}
	if err := os.Rename(tmp, output); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename output: %w", err)
	}

	fmt.Fprintf(os.Stderr, "wrote %s\n", output)
	return nil
}
