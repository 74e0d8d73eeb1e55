//go:build linux

package hw

import (
	"encoding/binary"
	"fmt"
	"time"

	"periph.io/x/conn/v3/i2c"
)

// ADS1115 registers and config bits.
const (
	adsRegConversion = 0x00
	adsRegConfig     = 0x01

	adsOSSingle    uint16 = 0x8000 // start / conversion-done bit
	adsModeSingle  uint16 = 0x0100
	adsGainOne     uint16 = 0x0200 // +/- 4.096V full scale
	adsRate860     uint16 = 0x00E0 // 860 SPS, ~1.2ms per conversion
	adsCompDisable uint16 = 0x0003

	adsMuxSingle0 uint16 = 0x4000 // AIN0 vs GND; channels 1-3 step by 0x1000

	adsConvTimeout  = 50 * time.Millisecond
	adsConvPollWait = 200 * time.Microsecond
)

// ads1115 reads single-ended channels of an ADS1115 in single-shot mode.
type ads1115 struct {
	dev i2c.Dev
}

// readChannel runs one single-shot conversion on AINch and returns the
// count scaled down to the 12-bit range the detection thresholds assume.
func (a *ads1115) readChannel(ch int) (int, error) {
	if ch < 0 || ch > 3 {
		return 0, fmt.Errorf("ads1115: no channel %d", ch)
	}

	config := adsOSSingle | adsModeSingle | adsGainOne | adsRate860 | adsCompDisable |
		(adsMuxSingle0 + uint16(ch)<<12)

	// Write the config register; this starts the conversion.
	if err := a.dev.Tx([]byte{adsRegConfig, byte(config >> 8), byte(config)}, nil); err != nil {
		return 0, fmt.Errorf("ads1115: write config: %w", err)
	}

	// Poll the OS bit until the conversion completes.
	deadline := time.Now().Add(adsConvTimeout)
	cfg := make([]byte, 2)
	for {
		if err := a.dev.Tx([]byte{adsRegConfig}, cfg); err != nil {
			return 0, fmt.Errorf("ads1115: read config: %w", err)
		}
		if binary.BigEndian.Uint16(cfg)&adsOSSingle != 0 {
			break
		}
		if time.Now().After(deadline) {
			return 0, fmt.Errorf("ads1115: conversion timeout")
		}
		time.Sleep(adsConvPollWait)
	}

	buf := make([]byte, 2)
	if err := a.dev.Tx([]byte{adsRegConversion}, buf); err != nil {
		return 0, fmt.Errorf("ads1115: read conversion: %w", err)
	}

	count := int16(binary.BigEndian.Uint16(buf))
	if count < 0 {
		count = 0
	}
	// 15-bit single-ended range scaled to 0..4095.
	return int(count >> 3), nil
}
