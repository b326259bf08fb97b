// Copyright © 2025 Tilemason contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/config.go
// Summary: Editor configuration store (tilemason.json).

package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

const configName = "tilemason.json"

// Render holds the quality knobs handed to the render worker at init
// and updatable at runtime.
type Render struct {
	UseLOD          bool    `json:"useLOD"`
	LODThreshold    float64 `json:"lodThreshold"`
	LODQuality      int     `json:"lodQuality"`
	BatchSize       int     `json:"batchSize"`
	UseDirectAtlas  bool    `json:"useDirectAtlas"`
	DebugMode       bool    `json:"debugMode"`
	FrameRate       int     `json:"frameRate"`
	ResizeFrameRate int     `json:"resizeFrameRate"`
}

// Map holds the initial map and tile sheet settings.
type Map struct {
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	TileWidth  int    `json:"tileWidth"`
	TileHeight int    `json:"tileHeight"`
	AtlasPath  string `json:"atlasPath"`
}

// Config is the full editor configuration.
type Config struct {
	Render             Render `json:"render"`
	Map                Map    `json:"map"`
	MaxUndoSteps       int    `json:"maxUndoSteps"`
	WorldAlignedRepeat bool   `json:"worldAlignedRepeat"`
}

// Default returns the stock configuration.
func Default() Config {
	return Config{
		Render: Render{
			UseLOD:          true,
			LODThreshold:    0.5,
			LODQuality:      1,
			BatchSize:       64,
			UseDirectAtlas:  true,
			FrameRate:       30,
			ResizeFrameRate: 15,
		},
		Map: Map{
			Width:      64,
			Height:     48,
			TileWidth:  16,
			TileHeight: 16,
		},
		MaxUndoSteps:       50,
		WorldAlignedRepeat: true,
	}
}

// Path returns the user config file location.
func Path() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "tilemason", configName), nil
}

// Load reads the config file at path, merging over the defaults. A
// missing file yields the defaults without error; a corrupt file is
// logged and also falls back to defaults.
func Load(path string) Config {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Config: Failed to read %s: %v", path, err)
		}
		return cfg
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		log.Printf("Config: Failed to parse %s: %v", path, err)
		return Default()
	}
	return cfg.sanitized()
}

// Save writes the config as indented JSON, creating parent directories
// as needed.
func (c Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("config: create dir: %w", err)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// sanitized clamps values a hand-edited file may have broken.
func (c Config) sanitized() Config {
	d := Default()
	if c.Render.FrameRate <= 0 {
		c.Render.FrameRate = d.Render.FrameRate
	}
	if c.Render.ResizeFrameRate <= 0 {
		c.Render.ResizeFrameRate = d.Render.ResizeFrameRate
	}
	if c.Render.LODThreshold <= 0 {
		c.Render.LODThreshold = d.Render.LODThreshold
	}
	if c.Render.LODQuality < 0 {
		c.Render.LODQuality = 0
	}
	if c.Render.BatchSize <= 0 {
		c.Render.BatchSize = d.Render.BatchSize
	}
	if c.Map.Width <= 0 || c.Map.Height <= 0 {
		c.Map.Width, c.Map.Height = d.Map.Width, d.Map.Height
	}
	if c.Map.TileWidth <= 0 || c.Map.TileHeight <= 0 {
		c.Map.TileWidth, c.Map.TileHeight = d.Map.TileWidth, d.Map.TileHeight
	}
	if c.MaxUndoSteps <= 0 {
		c.MaxUndoSteps = d.MaxUndoSteps
	}
	return c
}
