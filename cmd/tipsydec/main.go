/*
NAME
  tipsydec - decodes a tipsy WAV carrier back into its original file.

AUTHOR
  David Sutton <davidsutton@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package tipsydec is a command-line tool that reads a tipsy WAV carrier
// and writes the recovered payload back out to a file.
package main

import (
	"flag"
	"os"

	"github.com/ausocean/utils/logging"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ausocean/tipsy/carrier/tipsywav"
)

const (
	logPath      = "/var/log/tipsydec/tipsydec.log"
	logMaxSize   = 50 // MB
	logMaxBackup = 10
	logMaxAge    = 28 // days
	logVerbosity = logging.Debug
	logSuppress  = true
)

func main() {
	in := flag.String("in", "", "path to the WAV file to decode")
	out := flag.String("out", "", "path to write the recovered payload to")
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

	r, err := os.Open(*in)
	if err != nil {
		log.Fatal("could not open input file", "error", err.Error())
	}
	defer r.Close()

	mime, payload, err := tipsywav.ReadMessage(r)
	if err != nil {
		log.Fatal("could not read tipsy message", "error", err.Error())
	}

	if err := os.WriteFile(*out, payload, 0o644); err != nil {
		log.Fatal("could not write output file", "error", err.Error())
	}
	log.Info("recovered tipsy message", "mime", mime, "bytes", len(payload))
}
