// skinpicker shows a catalog of skins as selectable tiles.
//
// Clicking a tile selects the skin; clicking one of its chroma swatches
// selects the chroma and copies its download URL to the clipboard.
package main

import (
	"os"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/retroblast-engine/skintile"
)

type options struct {
	catalog string
	columns int
	width   int
	height  int
	verbose bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "skinpicker",
		Short: "Browse skins and their chromas",
		Long: `skinpicker lays out every skin in a catalog as a tile with its chroma
swatches. Selecting a chroma copies its download URL to the clipboard.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts)
		},
	}

	cmd.Flags().StringVarP(&opts.catalog, "catalog", "c", "", "path to the skin catalog (JSON)")
	cmd.Flags().IntVar(&opts.columns, "columns", 4, "number of tile columns")
	cmd.Flags().IntVar(&opts.width, "tile-width", 220, "tile width in pixels")
	cmd.Flags().IntVar(&opts.height, "tile-height", 130, "tile height in pixels")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose output")
	_ = cmd.MarkFlagRequired("catalog")
	return cmd
}

func newLogger(verbose bool) hclog.Logger {
	level := hclog.Info
	if verbose {
		level = hclog.Debug
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:   "skinpicker",
		Output: os.Stderr,
		Level:  level,
	})
}

func run(opts *options) error {
	logger := newLogger(opts.verbose)

	cat, err := LoadCatalog(opts.catalog)
	if err != nil {
		return err
	}
	logger.Info("catalog loaded", "path", opts.catalog, "skins", len(cat.Skins))

	loader := skintile.NewLoader(skintile.LoaderOptions{Logger: logger})
	g := newGallery(cat, galleryConfig{
		Columns:    opts.columns,
		TileWidth:  opts.width,
		TileHeight: opts.height,
	}, logger, loader, clipboard.WriteAll)
	defer g.Close()

	cols := max(1, opts.columns)
	ebiten.SetWindowSize(cols*(opts.width+tileGap)+2*galleryPadding, 720)
	ebiten.SetWindowTitle("Skin Picker")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	return ebiten.RunGame(g)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
