// Command compose_mosaic builds a mosaic PNG from local image files.
// Useful for eyeballing layout changes without running the service:
//
//	go run scripts/compose_mosaic.go -out mosaic.png img1.jpg img2.jpg img3.jpg
package main

import (
	"bytes"
	"flag"
	"fmt"
	"image"
	"os"

	"github.com/yungbote/screengrabber-backend/internal/mosaic"
	"github.com/yungbote/screengrabber-backend/internal/platform/logger"
)

func main() {
	out := flag.String("out", "mosaic.png", "output file")
	width := flag.Int("width", 1200, "target mosaic width")
	border := flag.Int("border", 10, "border between cells, px")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: compose_mosaic [-out file] [-width px] [-border px] image...")
		os.Exit(2)
	}

	log, err := logger.New("development")
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	var images []mosaic.Image
	for _, path := range flag.Args() {
		data, err := os.ReadFile(path)
		if err != nil {
			log.Fatal("Read image failed", "path", path, "error", err)
		}
		cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			log.Fatal("Decode image failed", "path", path, "error", err)
		}
		images = append(images, mosaic.Image{Data: data, Width: cfg.Width, Height: cfg.Height})
	}

	opts := mosaic.DefaultOptions()
	opts.TargetWidth = *width
	opts.BorderSize = *border

	composed, err := mosaic.NewComposer(log).Render(images, opts)
	if err != nil {
		log.Fatal("Compose failed", "error", err)
	}
	if err := os.WriteFile(*out, composed, 0o644); err != nil {
		log.Fatal("Write output failed", "path", *out, "error", err)
	}
	log.Info("Mosaic written", "path", *out, "inputs", len(images))
}
