// Command tzlookup queries a compiled time zone tree for the id (or
// ids) covering a longitude/latitude pair.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/beetlebugorg/tzfinder/pkg/tzfinder"
)

func main() {
	data := flag.String("data", "", "path to the compiled tree file (defaults to the executable's sibling file)")
	flag.Parse()

	args := flag.Args()
	if len(args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: tzlookup [-data path] <lon> <lat>")
		os.Exit(2)
	}

	lon, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tzlookup: invalid longitude %q: %v\n", args[0], err)
		os.Exit(2)
	}
	lat, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tzlookup: invalid latitude %q: %v\n", args[1], err)
		os.Exit(2)
	}

	lookup := tzfinder.New()
	if *data != "" {
		if err := lookup.SetDataPath(*data); err != nil {
			fmt.Fprintf(os.Stderr, "tzlookup: %v\n", err)
			os.Exit(1)
		}
	}

	if err := lookup.EnsureLoaded(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "tzlookup: %v\n", err)
		os.Exit(1)
	}

	ids, err := lookup.AllIDsAt(lon, lat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tzlookup: %v\n", err)
		os.Exit(1)
	}

	for _, id := range ids {
		fmt.Println(id)
	}
}
