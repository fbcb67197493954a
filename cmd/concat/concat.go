package main

import (
	"compress/gzip"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

type manifestRow struct {
	Date string
	File string // forward-read (_1.fastq.gz) path, possibly s3://
}

type Task struct {
	Inputs []string
	Output string
}

// readManifest reads the date,file TSV listing every forward-read file.
func readManifest(path string) ([]manifestRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rdr := csv.NewReader(f)
	rdr.Comma = '\t'

	headers, err := rdr.Read()
	if err != nil {
		return nil, fmt.Errorf("header row: %v", err)
	}
	dateCol, fileCol := -1, -1
	for i, h := range headers {
		switch h {
		case "date":
			dateCol = i
		case "file":
			fileCol = i
		}
	}
	if dateCol < 0 || fileCol < 0 {
		return nil, fmt.Errorf("header row missing date/file: %v", headers)
	}

	rows := []manifestRow{}
	for {
		fields, err := rdr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, manifestRow{Date: fields[dateCol], File: fields[fileCol]})
	}
	return rows, nil
}

// buildTasks groups the manifest by date and makes one task per
// (date, read-direction) pair. Reverse-read inputs are derived by the
// _1 -> _2 filename convention.
func buildTasks(rows []manifestRow, outDir, mount string) []Task {
	byDate := map[string][]string{}
	order := []string{}
	for _, row := range rows {
		if _, seen := byDate[row.Date]; !seen {
			order = append(order, row.Date)
		}
		byDate[row.Date] = append(byDate[row.Date], row.File)
	}

	tasks := []Task{}
	for _, date := range order {
		for _, direction := range []string{"_1.fastq", "_2.fastq"} {
			inputs := []string{}
			for _, file := range byDate[date] {
				if direction == "_2.fastq" {
					file = strings.Replace(file, "_1.fastq", "_2.fastq", 1)
				}
				inputs = append(inputs, mapMount(file, mount))
			}
			tasks = append(tasks, Task{
				Inputs: inputs,
				Output: filepath.Join(outDir, "HTP-"+date+direction+".gz"),
			})
		}
	}
	return tasks
}

// mapMount rewrites an s3:// URI onto the local mount of the bucket.
func mapMount(file, mount string) string {
	if mount == "" {
		return file
	}
	return strings.Replace(file, "s3://", mount+"/", 1)
}

// concatFiles decompresses each input in order and recompresses the
// stream into the output file.
func concatFiles(task Task) error {
	outf, err := os.Create(task.Output)
	if err != nil {
		return err
	}
	defer outf.Close()

	zw := gzip.NewWriter(outf)
	for _, input := range task.Inputs {
		if err := appendFile(zw, input); err != nil {
			return fmt.Errorf("%s: %w", input, err)
		}
	}
	if err := zw.Close(); err != nil {
		return err
	}
	return outf.Close()
}

func appendFile(w io.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	zr, err := gzip.NewReader(f)
	if err != nil {
		return err
	}
	defer zr.Close()

	_, err = io.Copy(w, zr)
	return err
}
