// Command kernel-testing opens a real window (spec §6.5's "kernel"
// process) and drives the renderer pipeline in-process, repurposing the
// teacher's ad hoc browser shell (cmd/l14) into the windowed host spec.md
// treats as an external collaborator.
package main

import (
	"fmt"
	"image"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wrenweb/wren/internal/config"
	"github.com/wrenweb/wren/internal/obslog"
	"github.com/wrenweb/wren/pkg/paint/ggpainter"
	"github.com/wrenweb/wren/pkg/pipeline"
)

func main() {
	var htmlPath, cssPath, size, cfgPath string

	cmd := &cobra.Command{
		Use:   "kernel-testing",
		Short: "Open a window and render an HTML/CSS file pair in it",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath, cmd.Flags())
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if size != "" {
				var w, h int
				if _, err := fmt.Sscanf(size, "%dx%d", &w, &h); err != nil {
					return fmt.Errorf("invalid --size %q: %w", size, err)
				}
				cfg.ViewportWidth, cfg.ViewportHeight = w, h
			}
			logger, _ := zap.NewProduction()
			obslog.SetLogger(logger)

			htmlSrc, err := os.ReadFile(htmlPath)
			if err != nil {
				return fmt.Errorf("read html: %w", err)
			}
			var cssSrc []byte
			if cssPath != "" {
				cssSrc, err = os.ReadFile(cssPath)
				if err != nil {
					return fmt.Errorf("read css: %w", err)
				}
			}

			newRasterizer := func(w, h int) pipeline.Rasterizer { return ggpainter.New(w, h) }
			p := pipeline.New(newRasterizer, float64(cfg.ViewportWidth), float64(cfg.ViewportHeight))

			a := app.New()
			w := a.NewWindow("wren kernel")
			w.Resize(fyne.NewSize(float32(cfg.ViewportWidth), float32(cfg.ViewportHeight)))

			target := image.NewRGBA(image.Rect(0, 0, cfg.ViewportWidth, cfg.ViewportHeight))
			canvasImg := canvas.NewImageFromImage(target)
			canvasImg.FillMode = canvas.ImageFillOriginal
			status := widget.NewLabel("loading...")

			w.SetContent(container.NewBorder(nil, status, nil, nil, canvasImg))

			events := p.Dispatch(pipeline.LoadHTML{Content: string(htmlSrc), ContentType: "text/html", BaseURL: htmlPath})
			if len(cssSrc) > 0 {
				p.Dispatch(pipeline.LoadHTML{Content: string(cssSrc), ContentType: "text/css"})
			}
			applyEvents(events, w, status)

			frameEvents := p.Dispatch(pipeline.GetRenderedBitmap{RequestId: "kernel-testing"})
			for _, ev := range frameEvents {
				if bmp, ok := ev.(pipeline.RenderedBitmap); ok {
					canvasImg.Image = &image.RGBA{Pix: bmp.Bytes, Stride: bmp.Width * 4, Rect: image.Rect(0, 0, bmp.Width, bmp.Height)}
					canvasImg.Refresh()
				}
			}

			w.ShowAndRun()
			return nil
		},
	}

	cmd.Flags().StringVar(&htmlPath, "html", "", "input HTML file")
	cmd.Flags().StringVar(&cssPath, "css", "", "input CSS file")
	cmd.Flags().StringVar(&size, "size", "", "viewport size WxH, e.g. 800x600")
	cmd.Flags().StringVar(&cfgPath, "config", "", "optional YAML config file")
	cmd.MarkFlagRequired("html")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func applyEvents(events []pipeline.Event, w fyne.Window, status *widget.Label) {
	for _, ev := range events {
		switch e := ev.(type) {
		case pipeline.TitleChanged:
			w.SetTitle(e.Title)
		case pipeline.URLChanged:
			status.SetText(e.URL)
		case pipeline.RendererDied:
			status.SetText("renderer died: " + e.Reason)
		}
	}
}
