/*
NAME
  config_test.go

AUTHORS
  David Sutton <davidsutton@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

type dumbLogger struct{}

func (dl *dumbLogger) Log(l int8, m string, a ...interface{})  {}
func (dl *dumbLogger) SetLevel(l int8)                         {}
func (dl *dumbLogger) Debug(msg string, args ...interface{})   {}
func (dl *dumbLogger) Info(msg string, args ...interface{})    {}
func (dl *dumbLogger) Warning(msg string, args ...interface{}) {}
func (dl *dumbLogger) Error(msg string, args ...interface{})   {}
func (dl *dumbLogger) Fatal(msg string, args ...interface{})   {}

func TestValidate(t *testing.T) {
	dl := &dumbLogger{}

	want := Config{
		Logger:               dl,
		WatchDir:             defaultWatchDir,
		OutDir:               defaultOutDir,
		SampleRate:           defaultSampleRate,
		PoolCapacity:         defaultPoolCapacity,
		PoolStartElementSize: defaultPoolStartSize,
		PoolWriteTimeout:     defaultPoolWriteTimeout,
		PoolNextTimeout:      defaultPoolNextTimeout,
		SystemdNotifyPeriod:  defaultSystemdNotifyPeriod,
	}

	got := Config{Logger: dl}
	if err := (&got).Validate(); err != nil {
		t.Fatalf("did not expect error: %v", err)
	}

	if !cmp.Equal(got, want) {
		t.Errorf("configs not equal\nwant: %+v\ngot: %+v", want, got)
	}
}

func TestUpdate(t *testing.T) {
	dl := &dumbLogger{}
	got := Config{Logger: dl}
	got.Update(map[string]string{
		KeyWatchDir:         "/tmp/in",
		KeyOutDir:           "/tmp/out",
		KeyDeviceName:       "hw:0,0",
		KeySampleRate:       "44100",
		KeyPoolCapacity:     "2048",
		KeyPoolStartSize:    "128",
		KeyPoolWriteTimeout: "50",
		KeyPoolNextTimeout:  "25",
	})

	want := Config{
		Logger:               dl,
		WatchDir:             "/tmp/in",
		OutDir:               "/tmp/out",
		DeviceName:           "hw:0,0",
		SampleRate:           44100,
		PoolCapacity:         2048,
		PoolStartElementSize: 128,
		PoolWriteTimeout:     50 * time.Millisecond,
		PoolNextTimeout:      25 * time.Millisecond,
	}

	if !cmp.Equal(got, want) {
		t.Errorf("configs not equal\nwant: %+v\ngot: %+v", want, got)
	}
}

func TestUpdateIgnoresBadValues(t *testing.T) {
	dl := &dumbLogger{}
	got := Config{Logger: dl, SampleRate: 48000}
	got.Update(map[string]string{KeySampleRate: "not-a-number"})
	if got.SampleRate != 48000 {
		t.Errorf("SampleRate = %d, want unchanged 48000", got.SampleRate)
	}
}
