package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/alitto/pond"
	"github.com/urfave/cli/v2"

	"github.com/sixy6e/go-s1isp/isp"
	"github.com/sixy6e/go-s1isp/stream"
)

// udfModeFromFlag maps the --data flag's string value onto a
// stream.UDFMode, per spec.md §6's decode/extract/none vocabulary.
func udfModeFromFlag(value string) (stream.UDFMode, error) {
	switch value {
	case "", "none":
		return stream.UDFModeNone, nil
	case "extract":
		return stream.UDFModeExtract, nil
	case "decode":
		return stream.UDFModeDecode, nil
	default:
		return stream.UDFModeNone, fmt.Errorf("unknown --data value %q", value)
	}
}

// recordRow flattens a fixed subset of one Record's verbatim and derived
// fields into a single CSV row, in csvHeader's column order.
func recordRow(rec isp.Record, enumValue bool) ([]string, error) {
	derived, err := rec.Derived()
	if err != nil {
		return nil, err
	}

	row := []string{
		strconv.FormatInt(rec.ByteOffset, 10),
		strconv.Itoa(int(rec.Primary.SequenceCount)),
		strconv.Itoa(int(rec.Secondary.SpacePacketCount)),
		strconv.Itoa(int(rec.Secondary.PriCount)),
		strconv.Itoa(int(rec.Secondary.NumberOfQuads)),
	}

	if enumValue {
		row = append(row,
			strconv.Itoa(int(rec.Secondary.BaqMode)),
			strconv.Itoa(int(rec.Secondary.RangeDecimation)),
			strconv.Itoa(int(rec.Secondary.Ses.SignalType)),
		)
	} else {
		row = append(row,
			rec.Secondary.BaqMode.String(),
			rec.Secondary.RangeDecimation.String(),
			rec.Secondary.Ses.SignalType.String(),
		)
	}

	row = append(row,
		strconv.FormatFloat(derived.PriSeconds, 'g', -1, 64),
		strconv.FormatFloat(derived.SwlSeconds, 'g', -1, 64),
		strconv.Itoa(derived.N3Rx),
		strconv.Itoa(len(rec.Samples)),
	)

	return row, nil
}

var csvHeader = []string{
	"byte_offset", "sequence_count", "space_packet_count", "pri_count",
	"number_of_quads", "baq_mode", "range_decimation", "signal_type",
	"pri_sec", "swl_sec", "n3rx_samples", "num_samples",
}

// decodeOne runs the streaming decoder over uri and writes every emitted
// record as a CSV row to out. It returns the *isp.InvalidPacketError that
// terminated the stream, if any, so the caller can pick the right exit
// code (§6: 0 success, 1 I/O error, 2 invalid packet with no recovery).
func decodeOne(uri string, opts stream.DecodeOptions, enumValue bool, out *csv.Writer) error {
	f, err := stream.Open(uri, "", false)
	if err != nil {
		return err
	}
	defer f.Close()

	d := stream.NewDecoder(f, opts)

	if err := out.Write(csvHeader); err != nil {
		return err
	}

	for {
		result, _, ok, err := d.Next()
		if err != nil {
			return err
		}
		if !ok {
			break
		}

		row, err := recordRow(result.Record, enumValue)
		if err != nil {
			log.Printf("offset %d: %v", result.Record.ByteOffset, err)
			continue
		}
		if err := out.Write(row); err != nil {
			return err
		}
	}

	out.Flush()
	return out.Error()
}

func openOutput(outPath string, force bool) (*os.File, error) {
	if outPath == "" || outPath == "-" {
		return os.Stdout, nil
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !force {
		if _, err := os.Stat(outPath); err == nil {
			return nil, fmt.Errorf("output %s already exists; pass --force to overwrite", outPath)
		}
	}
	return os.OpenFile(outPath, flags, 0o644)
}

func exitCodeFor(err error) int {
	var invalid *isp.InvalidPacketError
	if errors.As(err, &invalid) {
		return 2
	}
	return 1
}

func decodeCommand() *cli.Command {
	return &cli.Command{
		Name:      "decode",
		Usage:     "decode a raw Sentinel-1 ISP telemetry file",
		ArgsUsage: "<filename>",
		Flags: []cli.Flag{
			&cli.Int64Flag{Name: "skip", Usage: "number of leading packets to skip"},
			&cli.Int64Flag{Name: "maxcount", Usage: "maximum number of packets to decode"},
			&cli.Int64Flag{Name: "bytes-offset", Usage: "byte offset to seek to before scanning"},
			&cli.StringFlag{Name: "output-format", Value: "csv", Usage: "one of csv, pkl, h5, xlsx (only csv is implemented)"},
			&cli.StringFlag{Name: "data", Value: "none", Usage: "one of none, extract, decode"},
			&cli.BoolFlag{Name: "enum-value", Usage: "emit enum fields as their numeric code instead of symbolic name"},
			&cli.BoolFlag{Name: "force", Usage: "overwrite an existing output file"},
			&cli.BoolFlag{Name: "resync", Usage: "recover from an invalid Primary Header by scanning byte-by-byte"},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "output file path, defaults to stdout"},
		},
		Action: func(cCtx *cli.Context) error {
			uri := cCtx.Args().First()
			if uri == "" {
				return cli.Exit("decode requires a filename argument", 1)
			}

			if cCtx.String("output-format") != "csv" {
				return cli.Exit(fmt.Sprintf("output format %q is not implemented", cCtx.String("output-format")), 1)
			}

			udfMode, err := udfModeFromFlag(cCtx.String("data"))
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}

			out, err := openOutput(cCtx.String("output"), cCtx.Bool("force"))
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			if out != os.Stdout {
				defer out.Close()
			}

			opts := stream.DecodeOptions{
				SkipPackets: cCtx.Int64("skip"),
				MaxCount:    cCtx.Int64("maxcount"),
				BytesOffset: cCtx.Int64("bytes-offset"),
				UDFMode:     udfMode,
				Resync:      cCtx.Bool("resync"),
			}

			log.Println("decoding:", uri)
			err = decodeOne(uri, opts, cCtx.Bool("enum-value"), csv.NewWriter(out))
			if err != nil {
				return cli.Exit(err.Error(), exitCodeFor(err))
			}

			log.Println("finished:", uri)
			return nil
		},
	}
}

// batchCommand decodes every raw ISP file found under a directory
// concurrently, grounded on the teacher's convert-trawl command and its
// fixed-size pond worker pool.
func batchCommand() *cli.Command {
	return &cli.Command{
		Name:      "batch",
		Usage:     "decode every raw ISP file under a directory concurrently",
		ArgsUsage: "<directory>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "pattern", Value: "*.dat", Usage: "glob pattern matched against files in the directory"},
			&cli.StringFlag{Name: "outdir", Usage: "output directory for the per-file CSVs, defaults alongside each input"},
			&cli.BoolFlag{Name: "force", Usage: "overwrite existing output files"},
		},
		Action: func(cCtx *cli.Context) error {
			dir := cCtx.Args().First()
			if dir == "" {
				return cli.Exit("batch requires a directory argument", 1)
			}

			matches, err := filepath.Glob(filepath.Join(dir, cCtx.String("pattern")))
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			log.Println("files to process:", len(matches))

			n := runtime.NumCPU() * 2
			pool := pond.New(n, 0, pond.MinWorkers(n))
			defer pool.StopAndWait()

			for _, path := range matches {
				path := path
				pool.Submit(func() {
					outdir := cCtx.String("outdir")
					if outdir == "" {
						outdir = filepath.Dir(path)
					}
					outPath := filepath.Join(outdir, filepath.Base(path)+".csv")

					out, err := openOutput(outPath, cCtx.Bool("force"))
					if err != nil {
						log.Printf("%s: %v", path, err)
						return
					}
					defer out.Close()

					if err := decodeOne(path, stream.DecodeOptions{UDFMode: stream.UDFModeNone, Resync: true}, false, csv.NewWriter(out)); err != nil {
						log.Printf("%s: %v", path, err)
					}
				})
			}

			return nil
		},
	}
}

func main() {
	app := &cli.App{
		Name:  "s1isp",
		Usage: "decode Sentinel-1 SAR Instrument Source Packet telemetry",
		Commands: []*cli.Command{
			decodeCommand(),
			batchCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Println(err)
		var exitErr cli.ExitCoder
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.ExitCode())
		}
		os.Exit(1)
	}
}
