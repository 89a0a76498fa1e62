/*
NAME
  config.go

AUTHORS
  David Sutton <davidsutton@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package config contains the configuration settings for tipsyd, the tipsy
// directory-watching daemon.
package config

import (
	"strconv"
	"time"

	"github.com/ausocean/utils/logging"
)

// Default values, used by Validate to fill in any field left unset.
const (
	defaultWatchDir            = "/var/lib/tipsyd/in"
	defaultOutDir              = "/var/lib/tipsyd/out"
	defaultSampleRate          = 48000
	defaultDeviceName          = ""
	defaultPoolCapacity        = 1 << 20 // 1 MiB
	defaultPoolStartSize       = 4096
	defaultPoolWriteTimeout    = 100 * time.Millisecond
	defaultPoolNextTimeout     = 100 * time.Millisecond
	defaultSystemdNotifyPeriod = 10 * time.Second
)

// Config holds the parameters relevant to a running tipsyd instance. The
// zero value is valid input to Validate, which fills in defaults.
type Config struct {
	Logger logging.Logger

	// WatchDir is the directory tipsyd watches for new WAV carrier files
	// to decode.
	WatchDir string

	// OutDir is the directory tipsyd writes recovered payloads to.
	OutDir string

	// DeviceName names an ALSA device to additionally record tipsy
	// messages from, or empty to disable ALSA capture.
	DeviceName string

	// SampleRate is the sample rate, in Hz, used for both file and ALSA
	// carriers.
	SampleRate uint

	// PoolCapacity is the total size, in bytes, of the ring buffer used
	// to stage decoded payloads before they're written out.
	PoolCapacity uint

	// PoolStartElementSize is the initial size of each pool buffer
	// element.
	PoolStartElementSize uint

	// PoolWriteTimeout bounds how long a write into the pool may block.
	PoolWriteTimeout time.Duration

	// PoolNextTimeout bounds how long a read from the pool may block.
	PoolNextTimeout time.Duration

	// SystemdNotifyPeriod is the interval between watchdog keep-alive
	// notifications sent to systemd. Validate replaces a zero value with
	// the default period.
	SystemdNotifyPeriod time.Duration
}

// Validate fills in zero-valued fields with their defaults. It never
// returns a non-nil error today, but retains an error return so callers
// that check it aren't broken by future validation rules.
func (c *Config) Validate() error {
	for _, v := range Variables {
		if v.Validate != nil {
			v.Validate(c)
		}
	}
	return nil
}

// Update takes a map of configuration variable names to string values (as
// might arrive from a cloud variable store or config file) and applies
// them to c.
func (c *Config) Update(vars map[string]string) {
	for _, v := range Variables {
		if s, ok := vars[v.Name]; ok && v.Update != nil {
			v.Update(c, s)
		}
	}
}

// LogInvalidField logs that name was bad or unset and has been defaulted
// to def.
func (c *Config) LogInvalidField(name string, def interface{}) {
	c.Logger.Info(name+" bad or unset, defaulting", name, def)
}

// Variable describes a single updatable/validatable config field.
type Variable struct {
	Name     string
	Update   func(*Config, string)
	Validate func(*Config)
}

// Key names for the variables in Variables, usable as keys into the map
// passed to Config.Update.
const (
	KeyWatchDir            = "WatchDir"
	KeyOutDir              = "OutDir"
	KeyDeviceName          = "DeviceName"
	KeySampleRate          = "SampleRate"
	KeyPoolCapacity        = "PoolCapacity"
	KeyPoolStartSize       = "PoolStartElementSize"
	KeyPoolWriteTimeout    = "PoolWriteTimeout"
	KeyPoolNextTimeout     = "PoolNextTimeout"
	KeySystemdNotifyPeriod = "SystemdNotifyPeriod"
)

// Variables is the table driving Config.Update and Config.Validate.
var Variables = []Variable{
	{
		Name: KeyWatchDir,
		Update: func(c *Config, v string) {
			c.WatchDir = v
		},
		Validate: func(c *Config) {
			if c.WatchDir == "" {
				c.LogInvalidField(KeyWatchDir, defaultWatchDir)
				c.WatchDir = defaultWatchDir
			}
		},
	},
	{
		Name: KeyOutDir,
		Update: func(c *Config, v string) {
			c.OutDir = v
		},
		Validate: func(c *Config) {
			if c.OutDir == "" {
				c.LogInvalidField(KeyOutDir, defaultOutDir)
				c.OutDir = defaultOutDir
			}
		},
	},
	{
		Name: KeyDeviceName,
		Update: func(c *Config, v string) {
			c.DeviceName = v
		},
	},
	{
		Name: KeySampleRate,
		Update: func(c *Config, v string) {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				c.LogInvalidField(KeySampleRate, defaultSampleRate)
				return
			}
			c.SampleRate = uint(n)
		},
		Validate: func(c *Config) {
			if c.SampleRate == 0 {
				c.LogInvalidField(KeySampleRate, defaultSampleRate)
				c.SampleRate = defaultSampleRate
			}
		},
	},
	{
		Name: KeyPoolCapacity,
		Update: func(c *Config, v string) {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				c.LogInvalidField(KeyPoolCapacity, defaultPoolCapacity)
				return
			}
			c.PoolCapacity = uint(n)
		},
		Validate: func(c *Config) {
			if c.PoolCapacity == 0 {
				c.LogInvalidField(KeyPoolCapacity, defaultPoolCapacity)
				c.PoolCapacity = defaultPoolCapacity
			}
		},
	},
	{
		Name: KeyPoolStartSize,
		Update: func(c *Config, v string) {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				c.LogInvalidField(KeyPoolStartSize, defaultPoolStartSize)
				return
			}
			c.PoolStartElementSize = uint(n)
		},
		Validate: func(c *Config) {
			if c.PoolStartElementSize == 0 {
				c.LogInvalidField(KeyPoolStartSize, defaultPoolStartSize)
				c.PoolStartElementSize = defaultPoolStartSize
			}
		},
	},
	{
		Name: KeyPoolWriteTimeout,
		Update: func(c *Config, v string) {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				c.LogInvalidField(KeyPoolWriteTimeout, defaultPoolWriteTimeout)
				return
			}
			c.PoolWriteTimeout = time.Duration(n) * time.Millisecond
		},
		Validate: func(c *Config) {
			if c.PoolWriteTimeout == 0 {
				c.LogInvalidField(KeyPoolWriteTimeout, defaultPoolWriteTimeout)
				c.PoolWriteTimeout = defaultPoolWriteTimeout
			}
		},
	},
	{
		Name: KeyPoolNextTimeout,
		Update: func(c *Config, v string) {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				c.LogInvalidField(KeyPoolNextTimeout, defaultPoolNextTimeout)
				return
			}
			c.PoolNextTimeout = time.Duration(n) * time.Millisecond
		},
		Validate: func(c *Config) {
			if c.PoolNextTimeout == 0 {
				c.LogInvalidField(KeyPoolNextTimeout, defaultPoolNextTimeout)
				c.PoolNextTimeout = defaultPoolNextTimeout
			}
		},
	},
	{
		Name: KeySystemdNotifyPeriod,
		Update: func(c *Config, v string) {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				c.LogInvalidField(KeySystemdNotifyPeriod, defaultSystemdNotifyPeriod)
				return
			}
			c.SystemdNotifyPeriod = time.Duration(n) * time.Second
		},
		Validate: func(c *Config) {
			if c.SystemdNotifyPeriod == 0 {
				c.SystemdNotifyPeriod = defaultSystemdNotifyPeriod
			}
		},
	},
}
