// concat merges per-sample gzipped FASTQ files into one pair of
// date-keyed files per collection date, ready for SRA upload. It is a
// standalone utility, unrelated to the arrivals pipeline; it lives in
// this repo because the same surveillance project produces both
// datasets.
//
// Groups are independent, so they're partitioned across a fixed-size
// worker pool. There's no ordering requirement between workers and no
// shared state beyond the filesystem: each worker either completes its
// concatenation or the whole run fails loudly.
package main

import (
	"flag"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"
)

var (
	fManifest string
	fOutDir   string
	fMount    string
	fWorkers  int
)

func init() {
	flag.StringVar(&fManifest, "manifest", "fwd_read_files.tsv", "TSV of date,file for the forward reads")
	flag.StringVar(&fOutDir, "outdir", ".", "where the concatenated files go")
	flag.StringVar(&fMount, "mount", "", "local mount root standing in for s3:// paths")
	flag.IntVar(&fWorkers, "workers", 16, "concurrent concatenations")
}

func main() {
	flag.Parse()
	rows, err := readManifest(fManifest)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read %s: %v\n", fManifest, err)
		os.Exit(1)
	}

	tasks := buildTasks(rows, fOutDir, fMount)
	fmt.Printf("%d groups from %d files\n", len(tasks), len(rows))

	var g errgroup.Group
	g.SetLimit(fWorkers)
	for _, task := range tasks {
		task := task
		g.Go(func() error {
			fmt.Printf("concatenating %d files into %s\n", len(task.Inputs), task.Output)
			return concatFiles(task)
		})
	}
	if err := g.Wait(); err != nil {
		fmt.Fprintf(os.Stderr, "concat failed: %v\n", err)
		os.Exit(1)
	}
}
