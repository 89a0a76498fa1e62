/*
NAME
  tipsyenc - encodes a file into a tipsy WAV carrier.

AUTHOR
  David Sutton <davidsutton@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package tipsyenc is a command-line tool that wraps an arbitrary file in a
// tipsy message and writes it out as a 32-bit float WAV file.
package main

import (
	"flag"
	"os"

	"github.com/ausocean/utils/logging"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ausocean/tipsy/carrier/tipsywav"
)

const (
	logPath      = "/var/log/tipsyenc/tipsyenc.log"
	logMaxSize   = 50 // MB
	logMaxBackup = 10
	logMaxAge    = 28 // days
	logVerbosity = logging.Debug
	logSuppress  = true
)

func main() {
	in := flag.String("in", "", "path to the file to encode")
	out := flag.String("out", "", "path to the WAV file to write")
	mime := flag.String("mime", "application/octet-stream", "MIME type to record in the message header")
	rate := flag.Int("rate", 48000, "sample rate of the generated WAV file, in Hz")
	flag.Parse()

	fileLog := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    logMaxSize,
		MaxBackups: logMaxBackup,
		MaxAge:     logMaxAge,
	}
	log := logging.New(logVerbosity, fileLog, logSuppress)

	if *in == "" || *out == "" {
		log.Fatal("both -in and -out are required")
	}

	payload, err := os.ReadFile(*in)
	if err != nil {
		log.Fatal("could not read input file", "error", err.Error())
	}

	w, err := os.Create(*out)
	if err != nil {
		log.Fatal("could not create output file", "error", err.Error())
	}
	defer w.Close()

	if err := tipsywav.WriteMessage(w, *rate, *mime, payload); err != nil {
		log.Fatal("could not write tipsy message", "error", err.Error())
	}
	log.Info("wrote tipsy message", "out", *out, "bytes", len(payload))
}
