// Go-BMP loads a 24-bit bitmap, applies filters to it and saves the result
// (it's a hobby project and not to be used in production!)
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/anas-shakeel/bmp24/internal/adjustments"
	"github.com/anas-shakeel/bmp24/internal/bmp"
	"github.com/anas-shakeel/bmp24/internal/config"
	"github.com/anas-shakeel/bmp24/internal/filters"
)

func main() {
	configFile := flag.String("config", "", "YAML job file")
	input := flag.String("in", "", "Input bitmap (overrides the job file)")
	output := flag.String("out", "", "Output bitmap (overrides the job file)")
	filterList := flag.String("filter", "", "Comma separated filters, e.g. invert,grayscale")
	printPixels := flag.Bool("print", false, "Print the bitmap in the terminal (small images only)")
	printMeta := flag.Bool("meta", false, "Print the bitmap metadata")
	verbose := flag.Bool("v", false, "Verbose (debug) logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	bmp.SetLogger(logger)

	job, err := buildJob(*configFile, *input, *output, *filterList, *printPixels, *printMeta)
	if err != nil {
		logger.Error("invalid job", "err", err)
		os.Exit(1)
	}

	if err := run(job, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", describe(err))
		logger.Debug("run failed", "err", err)
		os.Exit(1)
	}
}

// buildJob merges the optional job file with the command line flags.
func buildJob(configFile, input, output, filterList string, printPixels, printMeta bool) (*config.Job, error) {
	job := &config.Job{}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		job = loaded
	}

	if input != "" {
		job.Input = input
	}
	if output != "" {
		job.Output = output
	}
	if filterList != "" {
		steps, err := config.ParseSteps(filterList)
		if err != nil {
			return nil, err
		}
		job.Steps = append(job.Steps, steps...)
	}
	job.Print = job.Print || printPixels
	job.Metadata = job.Metadata || printMeta

	if err := job.Validate(); err != nil {
		return nil, err
	}
	return job, nil
}

// run loads the input, applies every step, prints and saves.
func run(job *config.Job, stdout io.Writer) error {
	bitmap, err := bmp.ReadBitmap(job.Input)
	if err != nil {
		return err
	}
	defer func() { bitmap.Release() }()

	for _, step := range job.Steps {
		next, err := applyStep(bitmap, step)
		if err != nil {
			return fmt.Errorf("%s: %w", step.Name, err)
		}
		if next != bitmap {
			bitmap.Release()
			bitmap = next
		}
		bmp.Logger().Debug("applied step", "step", step.Name, "width", bitmap.Width(), "height", bitmap.Height())
	}

	if job.Metadata {
		if err := bitmap.PrintMetadata(stdout); err != nil {
			return err
		}
	}
	if job.Print {
		if err := bitmap.PrintBitmap(stdout); err != nil {
			return err
		}
	}

	if job.Output != "" {
		if err := bitmap.Save(job.Output); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Saved %s (%dx%d)\n", job.Output, bitmap.Width(), bitmap.Height())
	}
	return nil
}

// applyStep runs one step. In-place steps return b itself.
func applyStep(b *bmp.Image, step config.Step) (*bmp.Image, error) {
	switch step.Name {
	case "invert":
		return b, filters.Invert(b)
	case "grayscale":
		return b, filters.Grayscale(b)
	case "grayscale-luma":
		return b, filters.GrayscaleLuma(b)
	case "brightness":
		return b, filters.Brightness(b, step.Factor, step.Method)
	case "contrast":
		return b, filters.Contrast(b, step.Factor)
	case "expr":
		return b, filters.Expression(b, step.Expr)
	case "flip-vertical":
		return b, adjustments.FlipVertical(b)
	case "flip-horizontal":
		return b, adjustments.FlipHorizontal(b)
	case "red", "green", "blue":
		return b.GetChannel(step.Name)
	case "crop":
		r := step.Rect
		return adjustments.Crop(b, r[0], r[1], r[2], r[3])
	case "scale":
		return adjustments.Scale(b, step.Size[0], step.Size[1], step.Kernel)
	}
	return nil, fmt.Errorf("unknown step %q", step.Name)
}

// describe turns codec errors into a message for the user.
func describe(err error) string {
	switch {
	case errors.Is(err, bmp.ErrInvalidSignature):
		return "not a bitmap file: " + err.Error()
	case errors.Is(err, bmp.ErrEmptyFile), errors.Is(err, bmp.ErrMissingPixelOffset):
		return "corrupt bitmap header: " + err.Error()
	case errors.Is(err, bmp.ErrUnsupportedFormat):
		return "only 24-bit uncompressed bitmaps are supported: " + err.Error()
	case errors.Is(err, bmp.ErrOutOfMemory):
		return "image too large: " + err.Error()
	case errors.Is(err, io.ErrUnexpectedEOF):
		return "bitmap file is truncated: " + err.Error()
	case errors.Is(err, bmp.ErrIO):
		return "couldn't read or write the file: " + err.Error()
	}
	return err.Error()
}
