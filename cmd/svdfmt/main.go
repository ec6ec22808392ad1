// svdfmt reads CMSIS-SVD files, validates them against the device model and
// writes them back in canonical form.
//
// With no file arguments it filters standard input to standard output.
// Alternative outputs dump the decoded model as YAML, or list every register
// with the size, access, protection and reset values it inherits.
package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/bits"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	svd "github.com/KimNorgaard/go-svd"
)

// version is set at link time.
var version = "devel"

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "svdfmt: %v\n", err)
		os.Exit(1)
	}
}

type config struct {
	write     bool
	list      bool
	yaml      bool
	registers bool
	indent    int
	noHeader  bool
	parallel  int
	verbose   bool
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	var cfg config

	flagSet := pflag.NewFlagSet("svdfmt", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.BoolVarP(&cfg.write, "write", "w", false, "write result to the source file instead of stdout")
	flagSet.BoolVarP(&cfg.list, "list", "l", false, "list files whose canonical form differs from their contents")
	flagSet.BoolVar(&cfg.yaml, "yaml", false, "print the decoded model as YAML")
	flagSet.BoolVar(&cfg.registers, "registers", false, "list registers with their resolved properties")
	flagSet.IntVarP(&cfg.indent, "indent", "i", 2, "spaces per nesting level, 0 for compact output")
	flagSet.BoolVar(&cfg.noHeader, "no-header", false, "omit the <?xml?> declaration")
	flagSet.IntVarP(&cfg.parallel, "parallel", "j", 1, "number of peripherals decoded concurrently")
	flagSet.BoolVarP(&cfg.verbose, "verbose", "v", false, "enable debug logging")
	flagSet.BoolP("help", "h", false, "show help")
	showVersion := flagSet.Bool("version", false, "print version and exit")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printHelp(stderr, flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(stderr, flagSet)
		return nil
	}
	if *showVersion {
		fmt.Fprintf(stdout, "svdfmt %s\n", version)
		return nil
	}

	modes := 0
	for _, on := range []bool{cfg.write, cfg.list, cfg.yaml, cfg.registers} {
		if on {
			modes++
		}
	}
	if modes > 1 {
		return errors.New("--write, --list, --yaml and --registers are mutually exclusive")
	}

	level := slog.LevelWarn
	if cfg.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	files := flagSet.Args()
	if len(files) == 0 {
		if cfg.write {
			return errors.New("cannot use --write with standard input")
		}
		return process(logger, &cfg, "<stdin>", stdin, stdout)
	}

	var failed bool
	for _, name := range files {
		if err := processFile(logger, &cfg, name, stdout); err != nil {
			logger.Error("processing failed", "file", name, "error", err)
			failed = true
		}
	}
	if failed {
		return errors.New("one or more files could not be processed")
	}
	return nil
}

func processFile(logger *slog.Logger, cfg *config, name string, stdout io.Writer) error {
	f, err := os.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()
	return process(logger, cfg, name, f, stdout)
}

func process(logger *slog.Logger, cfg *config, name string, r io.Reader, stdout io.Writer) error {
	src, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("reading %s: %w", name, err)
	}

	start := time.Now()
	var dev svd.Device
	if err := svd.Unmarshal(src, &dev, svd.Parallel(cfg.parallel)); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	logger.Debug("decoded device",
		"file", name,
		"device", dev.Name,
		"schema_version", dev.SchemaVersion,
		"peripherals", len(dev.Peripherals),
		"duration", time.Since(start),
	)

	switch {
	case cfg.yaml:
		return dumpYAML(stdout, &dev)
	case cfg.registers:
		return listRegisters(stdout, &dev)
	}

	out, err := svd.Marshal(&dev, svd.Indent(cfg.indent), svd.XMLHeader(!cfg.noHeader))
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	switch {
	case cfg.list:
		if !bytes.Equal(src, out) {
			fmt.Fprintln(stdout, name)
		}
		return nil
	case cfg.write:
		if bytes.Equal(src, out) {
			logger.Debug("already canonical", "file", name)
			return nil
		}
		info, err := os.Stat(name)
		if err != nil {
			return err
		}
		if err := os.WriteFile(name, out, info.Mode().Perm()); err != nil {
			return fmt.Errorf("writing %s: %w", name, err)
		}
		logger.Debug("rewrote file", "file", name, "bytes", len(out))
		return nil
	}

	_, err = stdout.Write(out)
	return err
}

func dumpYAML(w io.Writer, dev *svd.Device) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(dev); err != nil {
		return fmt.Errorf("encoding YAML: %w", err)
	}
	return enc.Close()
}

// listRegisters prints one line per register with its absolute address and
// its effective properties. The address falls back to the bare offset when
// the peripheral has no base address or the sum does not fit in 64 bits.
func listRegisters(w io.Writer, dev *svd.Device) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "REGISTER\tADDRESS\tSIZE\tACCESS\tPROTECTION\tRESET\tMASK")

	err := dev.WalkRegisters(func(p *svd.Peripheral, r *svd.Register, c svd.Chain) error {
		peripheral := "?"
		if p.Name != nil {
			peripheral = *p.Name
		}
		address := fmt.Sprintf("+0x%X", r.AddressOffset)
		if p.BaseAddress != nil {
			if sum, carry := bits.Add64(*p.BaseAddress, r.AddressOffset, 0); carry == 0 {
				address = fmt.Sprintf("0x%08X", sum)
			}
		}

		eff := c.Effective()
		_, err := fmt.Fprintf(tw, "%s.%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			peripheral, r.Name, address,
			orDash(eff.Size, func(v uint64) string { return fmt.Sprint(v) }),
			orDash(eff.Access, func(v svd.Access) string { return string(v) }),
			orDash(eff.Protection, func(v svd.Protection) string { return string(v) }),
			orDash(eff.ResetValue, hex),
			orDash(eff.ResetMask, hex),
		)
		return err
	})
	if err != nil {
		return err
	}
	return tw.Flush()
}

func hex(v uint64) string { return fmt.Sprintf("0x%08X", v) }

func orDash[T any](v *T, format func(T) string) string {
	if v == nil {
		return "-"
	}
	return format(*v)
}

func printHelp(w io.Writer, flagSet *pflag.FlagSet) {
	fmt.Fprintf(w, `svdfmt reformats CMSIS-SVD device descriptions.

Every input is decoded into the device model, which rejects documents
with missing required elements or malformed values, and encoded again.
Elements the model does not track are dropped.

Usage:
  svdfmt [flags] [file ...]

Examples:
  # Print the canonical form of a file
  svdfmt STM32F401.svd

  # Rewrite files in place
  svdfmt -w *.svd

  # Show the effective register properties
  svdfmt --registers STM32F401.svd

Flags:
`)
	flagSet.SetOutput(w)
	flagSet.PrintDefaults()
}
