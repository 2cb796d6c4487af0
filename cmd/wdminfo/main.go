// Command wdminfo prints the properties of a WDM wavelet basis and,
// optionally, of its lookup table.
//
// Usage:
//
//	wdminfo [flags]
//
// Examples:
//
//	wdminfo
//	wdminfo -duration 31457280 -pixel 7680 -cadence 5
//	wdminfo -duration 16384 -pixel 64 -cadence 1 -table
//	wdminfo -families
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/tlittenberg/glass/dsp/wdm"
	"github.com/tlittenberg/glass/dsp/wdm/track"
	"github.com/tlittenberg/glass/logging"
	"github.com/tlittenberg/glass/waveform"
)

func main() {
	if err := run(os.Stdout, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(out io.Writer, args []string) error {
	def := wdm.DefaultConfig()

	fs := flag.NewFlagSet("wdminfo", flag.ContinueOnError)
	duration := fs.Float64("duration", 1<<25, "observation duration in seconds")
	pixel := fs.Float64("pixel", def.PixelDuration, "time-pixel width ΔT in seconds")
	cadence := fs.Float64("cadence", def.SampleCadence, "sample cadence in seconds")
	oversample := fs.Int("oversample", def.Oversample, "window oversampling factor q")
	order := fs.Float64("order", def.FilterOrder, "filter taper order")
	table := fs.Bool("table", false, "build the lookup table and print its grid")
	families := fs.Bool("families", false, "list registered waveform families")
	verbose := fs.Bool("v", false, "log debug output to stderr")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: wdminfo [flags]\n\n")
		fmt.Fprintf(fs.Output(), "Prints the properties of a WDM wavelet basis.\n\n")
		fmt.Fprintf(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *families {
		for _, name := range waveform.Names() {
			fmt.Fprintln(out, name)
		}
		return nil
	}

	logger := logging.Logger(&logging.NoOpLogger{})
	if *verbose {
		l := logging.NewWriterLogger(os.Stderr, os.Stderr)
		l.SetLevel(logging.DebugLevel)
		logger = l
	}

	b, err := wdm.NewBasis(*duration,
		wdm.WithPixelDuration(*pixel),
		wdm.WithSampleCadence(*cadence),
		wdm.WithOversample(*oversample),
		wdm.WithFilterOrder(*order),
		wdm.WithLogger(logger))
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	printBasis(tw, b)

	if *table {
		tab, err := wdm.BuildTable(context.Background(), b)
		if err != nil {
			return err
		}
		printTable(tw, b, tab)
	}

	return tw.Flush()
}

func printBasis(w io.Writer, b *wdm.Basis) {
	a, bw := b.FilterEdges()
	window := b.DefaultWindow()

	rows := []struct {
		name  string
		value string
	}{
		{"Time pixels (NT)", fmt.Sprintf("%d", b.TimePixels())},
		{"Layers (NF)", fmt.Sprintf("%d", b.Layers())},
		{"Pixel duration [s]", fmt.Sprintf("%g", b.PixelDuration())},
		{"Layer bandwidth [Hz]", fmt.Sprintf("%.6g", b.Bandwidth())},
		{"Sample cadence [s]", fmt.Sprintf("%g", b.Cadence())},
		{"Duration [s]", fmt.Sprintf("%g", b.Duration())},
		{"Filter edges A, B [rad/s]", fmt.Sprintf("%.6g, %.6g", a, bw)},
		{"Filter bandwidth [Hz]", fmt.Sprintf("%.6g", b.FilterBandwidth())},
		{"Window length", fmt.Sprintf("%d (q=%d)", len(b.Window()), b.Oversample())},
		{"Window duration [s]", fmt.Sprintf("%g", b.WindowDuration())},
		{"Default window", fmt.Sprintf("[%d, %d) %d pixels", window.Min, window.Max, window.Len())},
		{"Active pixels, narrow source", fmt.Sprintf("%d", track.MaxActivePixels(b, window, track.FilterLimits(b), 0))},
	}

	fmt.Fprintf(w, "Property\tValue\n")
	fmt.Fprintf(w, "--------\t-----\n")
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%s\n", r.name, r.value)
	}
}

func printTable(w io.Writer, b *wdm.Basis, tab *wdm.Table) {
	lo, hi := tab.FdotRange()
	fmt.Fprintf(w, "Table fdot slices\t%d\n", tab.Steps())
	fmt.Fprintf(w, "Table fdot range [Hz/s]\t[%.6g, %.6g)\n", lo, hi)
	fmt.Fprintf(w, "Table fdot step [Hz/s]\t%.6g\n", tab.FdotStep())
	fmt.Fprintf(w, "Table frequency step [Hz]\t%.6g\n", tab.FrequencyStep())
	fmt.Fprintf(w, "Table half bandwidth at 0 [ΔF]\t%.4f\n", tab.HalfBandwidth(0)/b.Bandwidth())
	fmt.Fprintf(w, "Active pixels, table\t%d\n", track.MaxActivePixels(b, b.DefaultWindow(), tab, 0))
}
