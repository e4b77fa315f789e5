// Command ddsconv inspects DDS and EDDS textures and converts them to PNG,
// BMP or TIFF.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"

	"github.com/spf13/pflag"
	"github.com/woozymasta/dds"
	"golang.org/x/sync/errgroup"
)

const usage = `usage: ddsconv <command> [flags] FILE...

commands:
  info     print header, format and mip chain
  decode   convert one texture to an image file
  batch    convert many textures in parallel
`

var errUsage = errors.New("usage")

func main() {
	logger := log.New(os.Stderr, "ddsconv: ", 0)

	if err := run(context.Background(), os.Args[1:], os.Stdout, logger); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, usage)
			os.Exit(2)
		}
		logger.Fatal(err)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer, logger *log.Logger) error {
	if len(args) == 0 {
		return errUsage
	}

	switch args[0] {
	case "info":
		return runInfo(args[1:], stdout, logger)
	case "decode":
		return runDecode(args[1:], logger)
	case "batch":
		return runBatch(ctx, args[1:], logger)
	case "-h", "--help", "help":
		fmt.Fprint(stdout, usage)
		return nil
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
	}
}

// decodeFlags registers the options shared by decode and batch.
func decodeFlags(fs *pflag.FlagSet) *dds.DecodeOptions {
	opts := &dds.DecodeOptions{}
	fs.Int64Var(&opts.MaxPixels, "max-pixels", 1<<28, "reject textures with more texels (0 = no limit)")
	fs.BoolVar(&opts.KeepPremultiplied, "keep-premultiplied", false, "do not un-premultiply DXT2/DXT4 colour")
	return opts
}

func runInfo(args []string, stdout io.Writer, logger *log.Logger) error {
	fs := pflag.NewFlagSet("info", pflag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return errUsage
	}

	failed := 0
	for _, path := range fs.Args() {
		data, err := readInput(path)
		if err == nil {
			err = describe(stdout, path, data)
		}
		if err != nil {
			logger.Print(err)
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, fs.NArg())
	}

	return nil
}

func runDecode(args []string, logger *log.Logger) error {
	fs := pflag.NewFlagSet("decode", pflag.ContinueOnError)
	opts := decodeFlags(fs)
	out := fs.StringP("output", "o", "", "output file; format follows the extension (default: input name with .png)")
	slice := fs.IntP("slice", "z", 0, "depth slice of a volume texture")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errUsage
	}

	in := fs.Arg(0)
	if *out == "" {
		*out = outputPath(in, "", "png")
	}
	if err := convertFile(in, *out, *slice, opts); err != nil {
		return err
	}
	logger.Printf("%s -> %s", in, *out)

	return nil
}

func runBatch(ctx context.Context, args []string, logger *log.Logger) error {
	fs := pflag.NewFlagSet("batch", pflag.ContinueOnError)
	opts := decodeFlags(fs)
	dir := fs.StringP("out-dir", "d", "", "output directory (default: next to each input)")
	format := fs.StringP("format", "f", "png", "output format: png, bmp or tiff")
	jobs := fs.IntP("jobs", "j", runtime.NumCPU(), "parallel conversions")
	keepGoing := fs.BoolP("keep-going", "k", false, "continue after a failed file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return errUsage
	}

	ext, err := outputFormat(*format)
	if err != nil {
		return err
	}
	if *dir != "" {
		if err := os.MkdirAll(*dir, 0o755); err != nil {
			return fmt.Errorf("create %q: %w", *dir, err)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(*jobs, 1))
	for _, in := range fs.Args() {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			out := outputPath(in, *dir, ext)
			if err := convertFile(in, out, 0, opts); err != nil {
				if *keepGoing {
					logger.Print(err)
					return nil
				}
				return err
			}
			logger.Printf("%s -> %s", in, out)
			return nil
		})
	}

	return g.Wait()
}
