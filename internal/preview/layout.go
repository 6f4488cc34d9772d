// Package preview renders a top-down picture of a scan log: where every
// shard is picked from and, when place planes are given, where it goes.
package preview

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/banshee-data/pickplace.report/internal/fsutil"
	"github.com/banshee-data/pickplace.report/internal/geom"
	"github.com/banshee-data/pickplace.report/internal/monitoring"
	"github.com/banshee-data/pickplace.report/internal/scanlog"
)

// DefaultSizeInches is the default edge length of the square image.
const DefaultSizeInches = 8

// ErrNothingToDraw is returned for a record without shards.
var ErrNothingToDraw = errors.New("scan log has no shards to draw")

// Options controls the rendered image.
type Options struct {
	// SizeInches is the width and height; zero means DefaultSizeInches.
	SizeInches float64
	// Title defaults to the record's folder.
	Title string
	// Format is any format plot supports ("png", "svg", "pdf"); default png.
	Format string
}

func (o Options) size() vg.Length {
	if o.SizeInches <= 0 {
		return DefaultSizeInches * vg.Inch
	}
	return vg.Length(o.SizeInches) * vg.Inch
}

func (o Options) format() string {
	if o.Format == "" {
		return "png"
	}
	return o.Format
}

// RenderLayout draws pick origins projected on the XY plane, labelled with
// their shard keys. With placePlanes, one per shard, it also draws place
// origins and a segment from each pick to its place.
func RenderLayout(w io.Writer, rec *scanlog.ScanRecord, placePlanes []geom.Plane, opts Options) error {
	n := rec.NumShards()
	if n == 0 {
		return ErrNothingToDraw
	}
	if len(placePlanes) != 0 && len(placePlanes) != n {
		return fmt.Errorf("%w: %d place planes for %d shards", scanlog.ErrCountMismatch, len(placePlanes), n)
	}

	p := plot.New()
	p.Title.Text = opts.Title
	if p.Title.Text == "" {
		p.Title.Text = rec.Folder
	}
	p.X.Label.Text = "X"
	p.Y.Label.Text = "Y"
	p.Add(plotter.NewGrid())

	picks := make(plotter.XYs, n)
	labels := make([]string, n)
	for i, s := range rec.Shards {
		o := s.PickPlane.Origin
		picks[i] = plotter.XY{X: o.X, Y: o.Y}
		labels[i] = s.Key
	}
	colors := generateColors(n)

	pickScatter, err := plotter.NewScatter(picks)
	if err != nil {
		return fmt.Errorf("pick positions: %w", err)
	}
	pickScatter.GlyphStyle.Shape = draw.CircleGlyph{}
	pickScatter.GlyphStyle.Radius = vg.Points(3)
	pickScatter.GlyphStyleFunc = func(i int) draw.GlyphStyle {
		s := pickScatter.GlyphStyle
		s.Color = colors[i]
		return s
	}
	p.Add(pickScatter)
	p.Legend.Add("pick", pickScatter)

	pickLabels, err := plotter.NewLabels(plotter.XYLabels{XYs: picks, Labels: labels})
	if err != nil {
		return fmt.Errorf("shard labels: %w", err)
	}
	for i := range pickLabels.TextStyle {
		pickLabels.TextStyle[i].XAlign = draw.XLeft
	}
	pickLabels.Offset = vg.Point{X: vg.Points(4)}
	p.Add(pickLabels)

	if len(placePlanes) > 0 {
		places := make(plotter.XYs, n)
		for i, pl := range placePlanes {
			places[i] = plotter.XY{X: pl.Origin.X, Y: pl.Origin.Y}
		}
		placeScatter, err := plotter.NewScatter(places)
		if err != nil {
			return fmt.Errorf("place positions: %w", err)
		}
		placeScatter.GlyphStyle.Shape = draw.BoxGlyph{}
		placeScatter.GlyphStyle.Radius = vg.Points(3)
		placeScatter.GlyphStyleFunc = func(i int) draw.GlyphStyle {
			s := placeScatter.GlyphStyle
			s.Color = colors[i]
			return s
		}
		p.Add(placeScatter)
		p.Legend.Add("place", placeScatter)

		for i := range places {
			line, err := plotter.NewLine(plotter.XYs{picks[i], places[i]})
			if err != nil {
				return fmt.Errorf("%s path: %w", labels[i], err)
			}
			line.Color = colors[i]
			line.Width = vg.Points(1)
			line.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
			p.Add(line)
		}
	}

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10

	size := opts.size()
	wt, err := p.WriterTo(size, size, opts.format())
	if err != nil {
		return fmt.Errorf("render layout: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write layout: %w", err)
	}
	return nil
}

// SaveLayout renders the layout and writes it to path through fs. The
// format follows the file extension when opts.Format is empty.
func SaveLayout(fs fsutil.FileSystem, path string, rec *scanlog.ScanRecord, placePlanes []geom.Plane, opts Options) error {
	if opts.Format == "" {
		if ext := filepath.Ext(path); ext != "" {
			opts.Format = strings.ToLower(ext[1:])
		}
	}
	var buf bytes.Buffer
	if err := RenderLayout(&buf, rec, placePlanes, opts); err != nil {
		return err
	}
	if err := fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := fs.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	monitoring.Logf("[preview] wrote layout of %d shards to %s", rec.NumShards(), path)
	return nil
}
