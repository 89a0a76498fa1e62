/*
NAME
  tipsyd - watches a directory for tipsy WAV carriers and decodes them.

AUTHOR
  David Sutton <davidsutton@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package tipsyd is a daemon that watches a directory for new tipsy WAV
// carrier files, decodes each one as it appears, and writes the recovered
// payload into an output directory. Decoded payloads are staged through a
// ring buffer before being flushed to disk, the way revid stages encoded
// media before handing it to a sender.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ausocean/utils/logging"
	"github.com/ausocean/utils/pool"
	"github.com/ausocean/utils/realtime"
	"github.com/coreos/go-systemd/daemon"
	"github.com/fsnotify/fsnotify"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ausocean/tipsy/carrier/tipsyalsa"
	"github.com/ausocean/tipsy/carrier/tipsywav"
	"github.com/ausocean/tipsy/cmd/tipsyd/config"
)

const (
	logPath      = "/var/log/tipsyd/tipsyd.log"
	logMaxSize   = 50 // MB
	logMaxBackup = 10
	logMaxAge    = 28 // days
	logVerbosity = logging.Debug
	logSuppress  = true
)

// clock is used to timestamp pool writes; it is swappable so that the
// ring-buffer wiring can be unit tested without depending on wall time.
var clock = realtime.NewRealTime()

// tipsyd holds the running state of the daemon.
type tipsyd struct {
	cfg config.Config
	log logging.Logger
	buf *pool.Buffer
}

func main() {
	cfgPath := flag.String("watch", "", "directory to watch for tipsy WAV files")
	outPath := flag.String("out", "", "directory to write recovered payloads to")
	device := flag.String("device", "", "ALSA device name to additionally capture from, or empty to disable")
	rate := flag.Uint("rate", 0, "sample rate in Hz")
	flag.Parse()

	fileLog := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    logMaxSize,
		MaxBackups: logMaxBackup,
		MaxAge:     logMaxAge,
	}
	log := logging.New(logVerbosity, fileLog, logSuppress)

	cfg := config.Config{
		Logger:     log,
		WatchDir:   *cfgPath,
		OutDir:     *outPath,
		DeviceName: *device,
		SampleRate: *rate,
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid config", "error", err.Error())
	}

	d := &tipsyd{
		cfg: cfg,
		log: log,
		buf: pool.NewBuffer(int(cfg.PoolCapacity/cfg.PoolStartElementSize), int(cfg.PoolStartElementSize), cfg.PoolWriteTimeout),
	}

	if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
		log.Fatal("could not create output directory", "error", err.Error())
	}

	sent, err := daemon.SdNotify(false, daemon.SdNotifyReady)
	if err != nil {
		log.Warning("systemd notify failed", "error", err.Error())
	} else if sent {
		log.Debug("notified systemd of readiness")
	}

	if cfg.SystemdNotifyPeriod > 0 {
		go d.watchdogLoop()
	}

	if cfg.DeviceName != "" {
		go d.captureLoop()
	}

	if err := d.watch(); err != nil {
		log.Fatal("watch failed", "error", err.Error())
	}
}

// captureLoop repeatedly records tipsy messages from the configured ALSA
// device, writing each recovered payload out the same way a decoded file
// would be.
func (d *tipsyd) captureLoop() {
	for {
		mime, payload, err := tipsyalsa.Record(d.cfg.DeviceName, int(d.cfg.SampleRate))
		if err != nil {
			d.log.Error("ALSA capture failed", "device", d.cfg.DeviceName, "error", err.Error())
			time.Sleep(time.Second)
			continue
		}

		outPath := filepath.Join(d.cfg.OutDir, fmt.Sprintf("alsa-%d.payload", time.Now().UnixNano()))
		if err := os.WriteFile(outPath, payload, 0o644); err != nil {
			d.log.Error("could not write payload", "path", outPath, "error", err.Error())
			continue
		}
		d.log.Info("recovered tipsy message from ALSA", "device", d.cfg.DeviceName, "out", outPath, "mime", mime, "bytes", len(payload))
	}
}

// watchdogLoop periodically pings systemd's watchdog, proving the daemon's
// main loop hasn't wedged.
func (d *tipsyd) watchdogLoop() {
	t := time.NewTicker(d.cfg.SystemdNotifyPeriod)
	defer t.Stop()
	for range t.C {
		if _, err := daemon.SdNotify(false, daemon.SdNotifyWatchdog); err != nil {
			d.log.Warning("systemd watchdog notify failed", "error", err.Error())
		}
	}
}

// watch blocks, handling new files created in cfg.WatchDir until an
// unrecoverable watcher error occurs.
func (d *tipsyd) watch() error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("tipsyd: could not create watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(d.cfg.WatchDir); err != nil {
		return fmt.Errorf("tipsyd: could not watch %s: %w", d.cfg.WatchDir, err)
	}
	d.log.Info("watching for tipsy carriers", "dir", d.cfg.WatchDir)

	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return fmt.Errorf("tipsyd: watcher events channel closed")
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			d.handleFile(ev.Name)
		case err, ok := <-w.Errors:
			if !ok {
				return fmt.Errorf("tipsyd: watcher errors channel closed")
			}
			d.log.Error("watcher error", "error", err.Error())
		}
	}
}

// handleFile decodes a single tipsy WAV carrier and stages its payload
// through the ring buffer before flushing it to outDir.
func (d *tipsyd) handleFile(path string) {
	f, err := os.Open(path)
	if err != nil {
		d.log.Warning("could not open carrier file", "path", path, "error", err.Error())
		return
	}
	defer f.Close()

	mime, payload, err := tipsywav.ReadMessage(f)
	if err != nil {
		d.log.Warning("could not decode carrier file", "path", path, "error", err.Error())
		return
	}

	n, err := d.buf.Write(payload)
	if err != nil {
		d.log.Error("ring buffer write failed", "path", path, "error", err.Error())
		return
	}
	ts := "unset"
	if clock.IsSet() {
		ts = clock.Get().String()
	}
	d.log.Debug("staged decoded payload", "path", path, "mime", mime, "bytes", n, "at", ts)

	chunk, err := d.buf.Next(d.cfg.PoolNextTimeout)
	if err != nil {
		d.log.Error("ring buffer read failed", "path", path, "error", err.Error())
		return
	}

	outPath := filepath.Join(d.cfg.OutDir, filepath.Base(path)+".payload")
	if err := os.WriteFile(outPath, chunk, 0o644); err != nil {
		d.log.Error("could not write payload", "path", outPath, "error", err.Error())
		return
	}
	d.log.Info("recovered tipsy message", "in", path, "out", outPath, "mime", mime, "bytes", len(chunk))
}
