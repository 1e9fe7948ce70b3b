// Command render-testing drives the renderer end to end against a local
// HTML/CSS file pair and writes the resulting frame to a PNG (spec §6.5):
// `render-testing --html <file> --css <file> --size WxH --output <png>`.
package main

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wrenweb/wren/internal/config"
	"github.com/wrenweb/wren/internal/obslog"
	"github.com/wrenweb/wren/pkg/paint/ggpainter"
	"github.com/wrenweb/wren/pkg/pipeline"
)

func main() {
	var htmlPath, cssPath, output, size, cfgPath string

	cmd := &cobra.Command{
		Use:   "render-testing",
		Short: "Render an HTML/CSS file pair to a PNG for inspection",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath, cmd.Flags())
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if size != "" {
				w, h, err := parseSize(size)
				if err != nil {
					return err
				}
				cfg.ViewportWidth, cfg.ViewportHeight = w, h
			}
			logger, _ := zap.NewProduction()
			obslog.SetLogger(logger)

			htmlSrc, err := os.ReadFile(htmlPath)
			if err != nil {
				return fmt.Errorf("read html: %w", err)
			}

			newRasterizer := func(w, h int) pipeline.Rasterizer { return ggpainter.New(w, h) }
			p := pipeline.New(newRasterizer, float64(cfg.ViewportWidth), float64(cfg.ViewportHeight))

			p.Dispatch(pipeline.LoadHTML{Content: string(htmlSrc), ContentType: "text/html", BaseURL: htmlPath})
			if cssPath != "" {
				cssSrc, err := os.ReadFile(cssPath)
				if err != nil {
					return fmt.Errorf("read css: %w", err)
				}
				p.Dispatch(pipeline.LoadHTML{Content: string(cssSrc), ContentType: "text/css"})
			}

			events := p.Dispatch(pipeline.GetRenderedBitmap{RequestId: "render-testing"})
			for _, ev := range events {
				bmp, ok := ev.(pipeline.RenderedBitmap)
				if !ok {
					continue
				}
				return savePNG(output, bmp)
			}
			return fmt.Errorf("render-testing: no bitmap produced")
		},
	}

	cmd.Flags().StringVar(&htmlPath, "html", "", "input HTML file")
	cmd.Flags().StringVar(&cssPath, "css", "", "input CSS file")
	cmd.Flags().StringVar(&size, "size", "", "viewport size WxH, e.g. 800x600")
	cmd.Flags().StringVar(&output, "output", "out.png", "output PNG path")
	cmd.Flags().StringVar(&cfgPath, "config", "", "optional YAML config file")
	cmd.MarkFlagRequired("html")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func parseSize(s string) (int, int, error) {
	var w, h int
	if _, err := fmt.Sscanf(s, "%dx%d", &w, &h); err != nil {
		return 0, 0, fmt.Errorf("invalid --size %q, want WxH: %w", s, err)
	}
	return w, h, nil
}

// savePNG re-packs the pipeline's row-major RGBA8 bytes into an
// image.RGBA and encodes it with the standard library's PNG encoder —
// nothing in the retrieval pack offers a better PNG encoder than
// image/png, so this one boundary stays on the standard library (see
// DESIGN.md).
func savePNG(path string, bmp pipeline.RenderedBitmap) error {
	img := &image.RGBA{
		Pix:    bmp.Bytes,
		Stride: bmp.Width * 4,
		Rect:   image.Rect(0, 0, bmp.Width, bmp.Height),
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}
