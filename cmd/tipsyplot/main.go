/*
NAME
  tipsyplot - plots the sample stream of a tipsy WAV carrier.

AUTHOR
  David Sutton <davidsutton@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package tipsyplot is a diagnostic command-line tool that renders the raw
// sample stream of a tipsy WAV carrier as a waveform plot, marking sentinel
// transitions and reporting basic descriptive statistics over the encoded
// data samples. It is useful for visually confirming that a carrier
// actually looks like the sentinel/value pattern described by the protocol.
package main

import (
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/go-audio/wav"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/ausocean/tipsy/protocol/tipsy"
)

func main() {
	in := flag.String("in", "", "path to the tipsy WAV file to plot")
	out := flag.String("out", "tipsy.png", "path to write the plot image to")
	flag.Parse()

	if *in == "" {
		os.Stderr.WriteString("tipsyplot: -in is required\n")
		os.Exit(1)
	}

	samples, err := readSamples(*in)
	if err != nil {
		os.Stderr.WriteString("tipsyplot: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := render(samples, *out); err != nil {
		os.Stderr.WriteString("tipsyplot: " + err.Error() + "\n")
		os.Exit(1)
	}
}

// readSamples decodes every float32 sample out of a WAV file without
// interpreting them through the protocol, since tipsyplot wants to show
// malformed streams too.
func readSamples(path string) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, os.ErrInvalid
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, err
	}

	samples := make([]float64, len(buf.Data))
	for i, v := range buf.Data {
		samples[i] = float64(math.Float32frombits(uint32(v)))
	}
	return samples, nil
}

// dataPoints separates the samples that are valid protocol data encodings
// from the full stream, for the descriptive statistics below; sentinels
// and malformed floats are excluded since they would otherwise dominate
// a distribution of encoded payload bytes.
func dataPoints(samples []float64) []float64 {
	var data []float64
	for _, s := range samples {
		if tipsy.IsSentinel(float32(s)) || !tipsy.IsValidProtocolEncoding(float32(s)) {
			continue
		}
		data = append(data, s)
	}
	return data
}

// render draws the sample stream as a line plot, shading sentinel samples
// distinctly from data samples, and writes the statistics summary to
// stdout.
func render(samples []float64, out string) error {
	pts := make(plotter.XYs, len(samples))
	var sentinelPts plotter.XYs
	for i, s := range samples {
		pts[i].X = float64(i)
		pts[i].Y = s
		if tipsy.IsSentinel(float32(s)) {
			sentinelPts = append(sentinelPts, struct{ X, Y float64 }{float64(i), s})
		}
	}

	p := plot.New()
	p.Title.Text = "tipsy sample stream"
	p.X.Label.Text = "sample index"
	p.Y.Label.Text = "value"

	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	p.Add(line)

	if len(sentinelPts) > 0 {
		sc, err := plotter.NewScatter(sentinelPts)
		if err != nil {
			return err
		}
		p.Add(sc)
		p.Legend.Add("sentinels", sc)
	}
	p.Legend.Add("samples", line)

	if data := dataPoints(samples); len(data) > 0 {
		mean, std := stat.MeanStdDev(data, nil)
		fmt.Printf("data samples: %d, mean=%.6f, stddev=%.6f\n", len(data), mean, std)
	}

	return p.Save(8*vg.Inch, 4*vg.Inch, out)
}
