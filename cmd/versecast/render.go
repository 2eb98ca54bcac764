/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"versecast/internal/compositor"
	"versecast/internal/config"
	"versecast/internal/crash"
	"versecast/internal/domain"
	"versecast/internal/export"
	applog "versecast/internal/log"
	"versecast/internal/pagination"
	"versecast/internal/scripture"
	"versecast/internal/slidecache"
	"versecast/internal/textlayout"
)

type renderOpts struct {
	out        string
	formats    []string
	preset     string
	display    string
	background string
	themeFile  string
	align      string
	position   string
	size       int
	family     string
	shadow     bool
	caption    bool
	dsn        string
}

func newRenderCmd(ro *rootOpts, cc *crash.Context) *cobra.Command {
	o := &renderOpts{}
	cmd := &cobra.Command{
		Use:   "render <reference>",
		Short: "Render a passage such as \"John 3:16-17\" to slide images",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := scripture.ParseReference(args[0])
			if err != nil {
				return err
			}
			req, err := o.request(cmd, ro.cfg, ref)
			if err != nil {
				return err
			}
			if cc != nil {
				cc.Request = &req
			}
			paths, err := runRender(cmd, ro.cfg, o, req)
			if err != nil {
				return err
			}
			for _, p := range paths {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&o.out, "out", "o", "", "output directory (default is the preset name)")
	f.StringSliceVarP(&o.formats, "format", "f", nil, "output formats: png, zip, pdf (default from preset)")
	f.StringVar(&o.preset, "preset", string(export.PresetWeb), "export preset: web or print")
	f.StringVar(&o.display, "display", "", "display preset: 720p, 1080p or 4k")
	f.StringVar(&o.background, "background", "", "background image file")
	f.StringVar(&o.themeFile, "theme", "", "JSON theme document")
	f.StringVar(&o.align, "align", "", "horizontal alignment: left, center or right")
	f.StringVar(&o.position, "position", "", "vertical position: top, middle or bottom")
	f.IntVar(&o.size, "size", 0, "font size in pixels")
	f.StringVar(&o.family, "family", "", "font family")
	f.BoolVar(&o.shadow, "shadow", false, "enable the drop shadow")
	f.BoolVar(&o.caption, "caption", false, "draw the verse caption")
	f.StringVar(&o.dsn, "dsn", "", "verse store DSN (overrides config)")
	return cmd
}

// request merges config, theme document and flags. Flags win.
func (o *renderOpts) request(cmd *cobra.Command, cfg config.AppConfig, ref domain.ScriptureReference) (domain.GenerationRequest, error) {
	req := cfg.Request(ref)
	if o.themeFile != "" {
		data, err := os.ReadFile(o.themeFile)
		if err != nil {
			return req, err
		}
		t, err := domain.DecodeTheme(data)
		if err != nil {
			return req, err
		}
		req.Theme = t
	}
	if o.display != "" {
		p, err := domain.PresetByName(o.display)
		if err != nil {
			return req, err
		}
		req.Canvas = p.Canvas
	}
	fl := cmd.Flags()
	if fl.Changed("align") {
		req.Theme.HorizontalAlignment = domain.HorizontalAlignment(o.align)
	}
	if fl.Changed("position") {
		req.Theme.Position = domain.Position(o.position)
	}
	if fl.Changed("size") {
		req.Theme.Font.Size = o.size
	}
	if fl.Changed("family") {
		req.Theme.Font.Family = o.family
	}
	if fl.Changed("shadow") {
		req.Theme.DropShadow.Enabled = o.shadow
	}
	if fl.Changed("caption") {
		req.Theme.ShowCaption = o.caption
	}
	return req, req.Validate()
}

func runRender(cmd *cobra.Command, cfg config.AppConfig, o *renderOpts, req domain.GenerationRequest) ([]string, error) {
	ctx := cmd.Context()
	l := applog.WithOperation(applog.WithComponent("cli"), "render")

	dsn := o.dsn
	if dsn == "" {
		dsn = cfg.Scripture.DSN
	}
	st, err := scripture.Open(ctx, dsn)
	if err != nil {
		return nil, err
	}
	defer func() { _ = st.Close() }()

	bgPath := o.background
	if bgPath == "" {
		bgPath = cfg.Display.Background
	}
	var bg image.Image
	if bgPath != "" {
		if bg, err = loadImage(bgPath); err != nil {
			return nil, err
		}
	}

	dirs := cfg.Fonts.Dirs
	if len(dirs) == 0 {
		dirs = textlayout.DefaultFontDirs()
	}
	fonts := textlayout.NewProvider(textlayout.NewSystemFonts(dirs, cfg.Fonts.FontCacheTTL()))
	cache := slidecache.New(slidecache.Options{
		Source:        st,
		Paginator:     pagination.New(fonts),
		Renderer:      compositor.New(fonts),
		PrefetchAhead: cfg.Render.PrefetchAhead,
		Workers:       cfg.Render.Workers,
	})
	defer cache.Close()

	cache.SetBackground(bg)
	if err := cache.SetRequest(ctx, req); err != nil {
		return nil, err
	}
	title := scripture.FormatReference(req.Reference)
	deck, err := export.FromCache(ctx, cache, title)
	if err != nil {
		return nil, err
	}
	paths, err := export.BatchExport(deck, export.BatchOptions{
		Preset:  export.PresetName(o.preset),
		Formats: o.formats,
		OutDir:  o.out,
	})
	if err != nil {
		return nil, err
	}
	l.Info("rendered", slog.String("ref", title), slog.Int("slides", len(deck.Slides)), slog.String("canvas", req.Canvas.String()))
	return paths, nil
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open background: %w", err)
	}
	defer func() { _ = f.Close() }()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode background %s: %w", path, err)
	}
	return img, nil
}
