// Copyright © 2025 Tilemason contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/tilemason/main.go
// Summary: Terminal tile-map editor entry point. Wires the config,
// atlas, brush library, render worker and paint controller together
// and runs the terminal event loop.
// Usage: `tilemason [-map file.tmm] [-atlas sheet.png]`

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/term"

	"github.com/tilemason/tilemason/brush"
	"github.com/tilemason/tilemason/config"
	"github.com/tilemason/tilemason/editor"
	"github.com/tilemason/tilemason/geom"
	"github.com/tilemason/tilemason/grid"
	"github.com/tilemason/tilemason/protocol"
	"github.com/tilemason/tilemason/render"
	"github.com/tilemason/tilemason/store"
	"github.com/tilemason/tilemason/tiles"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	fs := flag.NewFlagSet("tilemason", flag.ContinueOnError)
	mapPath := fs.String("map", "", "Map file to open and save (.tmm)")
	atlasPath := fs.String("atlas", "", "Tile sheet PNG (overrides the configured sheet)")
	configPath := fs.String("config", "", "Config file location")
	logPath := fs.String("log", "", "Log file location (default: alongside the config)")

	if err := fs.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("tilemason needs an interactive terminal")
	}

	// All logging goes to a file; the terminal belongs to the canvas.
	if *configPath == "" {
		p, err := config.Path()
		if err != nil {
			return fmt.Errorf("resolve config path: %w", err)
		}
		*configPath = p
	}
	if *logPath == "" {
		*logPath = filepath.Join(filepath.Dir(*configPath), "tilemason.log")
	}
	if err := os.MkdirAll(filepath.Dir(*logPath), 0755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}
	logFile, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()
	log.SetOutput(logFile)
	log.Println("Tilemason starting...")

	cfg := config.Load(*configPath)
	grid.Debug = cfg.Render.DebugMode
	if *atlasPath == "" {
		*atlasPath = cfg.Map.AtlasPath
	}

	atlas, err := loadAtlas(*atlasPath, cfg)
	if err != nil {
		return err
	}

	libPath, err := store.DefaultPath()
	if err != nil {
		return fmt.Errorf("resolve library path: %w", err)
	}
	library, err := store.Open(libPath)
	if err != nil {
		return fmt.Errorf("open brush library: %w", err)
	}
	defer library.Close()

	brushes := brush.NewManager(atlas)
	if saved, err := library.LoadBrushes(); err != nil {
		log.Printf("Main: Failed to load custom brushes: %v", err)
	} else {
		brushes.ImportCustom(saved)
	}

	g, err := openMap(*mapPath, cfg, brushes)
	if err != nil {
		return err
	}
	if *mapPath != "" {
		if err := library.TouchRecentMap(*mapPath); err != nil {
			log.Printf("Main: Failed to record recent map: %v", err)
		}
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()
	screen.EnableMouse()
	screen.HideCursor()

	presenter := render.NewTcellPresenter(screen)
	worker := render.New(render.Deps{
		Grid:      g,
		Atlas:     atlas,
		Brushes:   brushes,
		Presenter: presenter,
		Options:   cfg.Render,
		Slice:     geom.SliceOptions{WorldAlignedRepeat: cfg.WorldAlignedRepeat},
		Observer:  render.NewFPSLogger(log.Default()),
		Logger:    log.Default(),
	})
	if err := worker.Start(5 * time.Second); err != nil {
		return fmt.Errorf("start render worker: %w", err)
	}
	defer worker.Stop(2 * time.Second)

	ed := editor.New(editor.Deps{
		Grid:           g,
		Brushes:        brushes,
		Sink:           worker,
		Config:         cfg,
		PaletteColumns: atlas.Columns(),
	})
	ed.SetCanvasSize(presenter.Size())
	ed.Sync()
	input := editor.NewInputHandler(ed)

	err = eventLoop(screen, presenter, ed, input)

	// Persist what outlives the session.
	if *mapPath != "" {
		if saveErr := saveMap(*mapPath, g, brushes, *atlasPath, cfg); saveErr != nil {
			log.Printf("Main: Failed to save map: %v", saveErr)
			if err == nil {
				err = saveErr
			}
		}
	}
	if saveErr := library.SaveBrushes(brushes.Custom()); saveErr != nil {
		log.Printf("Main: Failed to save custom brushes: %v", saveErr)
	}

	if err == nil {
		log.Println("Tilemason stopped cleanly.")
	}
	return err
}

// eventLoop pumps terminal events into the editor until quit.
func eventLoop(screen tcell.Screen, presenter *render.TcellPresenter, ed *editor.Editor, input *editor.InputHandler) error {
	for {
		ev := screen.PollEvent()
		if ev == nil {
			return nil
		}

		switch ev := ev.(type) {
		case *tcell.EventResize:
			screen.Sync()
			ed.SetCanvasSize(presenter.Size())
			continue
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyCtrlC {
				return nil
			}
			if ev.Key() == tcell.KeyRune && ev.Rune() == 'q' && ev.Modifiers() == tcell.ModNone {
				return nil
			}
		}

		input.HandleEvent(ev)
	}
}

// loadAtlas opens the configured tile sheet, falling back to a
// generated sheet of solid-color tiles when none is available.
func loadAtlas(path string, cfg config.Config) (*tiles.Atlas, error) {
	if path != "" {
		atlas, err := tiles.Load(path, cfg.Map.TileWidth, cfg.Map.TileHeight)
		if err != nil {
			return nil, fmt.Errorf("load atlas: %w", err)
		}
		return atlas, nil
	}
	log.Println("Main: No atlas configured, using the builtin test sheet")
	return tiles.TestSheet(8, 8, cfg.Map.TileWidth, cfg.Map.TileHeight)
}

// openMap loads the map file if given, otherwise starts a fresh grid
// of the configured size.
func openMap(path string, cfg config.Config, brushes *brush.Manager) (*grid.Shared, error) {
	g, err := grid.New(cfg.Map.Width, cfg.Map.Height)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return g, nil
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("Main: Map %s does not exist yet, starting fresh", path)
			return g, nil
		}
		return nil, fmt.Errorf("open map: %w", err)
	}
	defer f.Close()

	mf, err := protocol.ReadContainer(f)
	if err != nil {
		return nil, fmt.Errorf("read map %s: %w", path, err)
	}
	if err := protocol.ImportMap(mf, g); err != nil {
		return nil, fmt.Errorf("import map %s: %w", path, err)
	}
	brushes.ImportCustom(mf.CustomBrushes)
	log.Printf("Main: Opened map %s (%dx%d)", path, mf.MapData.Width, mf.MapData.Height)
	return g, nil
}

// saveMap writes the grid and custom brushes as a map container.
func saveMap(path string, g *grid.Shared, brushes *brush.Manager, atlasPath string, cfg config.Config) error {
	mf, err := protocol.ExportMap(g, brushes.Custom(), protocol.TilemapSettings{
		Path:       atlasPath,
		TileWidth:  cfg.Map.TileWidth,
		TileHeight: cfg.Map.TileHeight,
	}, protocol.FormatBinary)
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if err := protocol.WriteContainer(f, mf); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}
