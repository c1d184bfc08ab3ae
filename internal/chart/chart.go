package chart

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"time"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"CrossWatch/internal/model"
)

const (
	panelWidth  = 1000
	panelHeight = 300
)

// Renderer draws the alert chart: price with both VWMA overlays, RSI with
// its moving average and threshold lines, and Stochastic RSI %K/%D with
// reference lines at 20/80. The three panels are stacked vertically into a
// single PNG.
type Renderer struct {
	Overbought float64
	Oversold   float64
}

// NewRenderer creates a renderer with the detector's threshold lines baked
// into the RSI panel.
func NewRenderer(overbought, oversold float64) *Renderer {
	return &Renderer{Overbought: overbought, Oversold: oversold}
}

// Render produces the stacked PNG for one symbol.
func (r *Renderer) Render(bars []model.OHLCV, ind *model.IndicatorSet, symbol, title string) ([]byte, error) {
	if len(bars) == 0 {
		return nil, fmt.Errorf("render %s: no bars", symbol)
	}
	times := make([]time.Time, len(bars))
	closes := make([]float64, len(bars))
	for i, b := range bars {
		times[i] = b.Time
		closes[i] = b.Close
	}

	pricePanel, err := renderPanel(title, nil, []line{
		{name: "Close", x: times, y: closes, color: gochart.ColorBlue},
		indicatorLine("VWMA short", bars, ind.VWMAShort, gochart.ColorOrange),
		indicatorLine("VWMA long", bars, ind.VWMALong, gochart.ColorGreen),
	})
	if err != nil {
		return nil, fmt.Errorf("render %s price panel: %w", symbol, err)
	}

	rsiPanel, err := renderPanel("RSI", &gochart.ContinuousRange{Min: 0, Max: 100}, []line{
		indicatorLine("RSI", bars, ind.RSI, gochart.ColorBlue),
		indicatorLine("RSI MA", bars, ind.RSIMA, gochart.ColorOrange),
		refLine(fmt.Sprintf("%.0f", r.Overbought), times, r.Overbought, gochart.ColorRed),
		refLine(fmt.Sprintf("%.0f", r.Oversold), times, r.Oversold, gochart.ColorGreen),
	})
	if err != nil {
		return nil, fmt.Errorf("render %s rsi panel: %w", symbol, err)
	}

	stochPanel, err := renderPanel("Stoch RSI", &gochart.ContinuousRange{Min: 0, Max: 100}, []line{
		indicatorLine("%K", bars, ind.StochK, gochart.ColorBlue),
		indicatorLine("%D", bars, ind.StochD, gochart.ColorOrange),
		refLine("80", times, 80, gochart.ColorRed),
		refLine("20", times, 20, gochart.ColorGreen),
	})
	if err != nil {
		return nil, fmt.Errorf("render %s stoch panel: %w", symbol, err)
	}

	return stack(pricePanel, rsiPanel, stochPanel)
}

// line is one plottable series within a panel. Empty lines are dropped.
type line struct {
	name   string
	x      []time.Time
	y      []float64
	color  drawing.Color
	dashed bool
}

func indicatorLine(name string, bars []model.OHLCV, s model.Series, color drawing.Color) line {
	var xs []time.Time
	var ys []float64
	for i, p := range s {
		if !p.Defined {
			continue
		}
		xs = append(xs, bars[i].Time)
		ys = append(ys, p.V)
	}
	return line{name: name, x: xs, y: ys, color: color}
}

func refLine(name string, times []time.Time, level float64, color drawing.Color) line {
	ys := make([]float64, len(times))
	for i := range ys {
		ys[i] = level
	}
	return line{name: name, x: times, y: ys, color: color, dashed: true}
}

func renderPanel(title string, yRange *gochart.ContinuousRange, lines []line) ([]byte, error) {
	graph := gochart.Chart{
		Title:  title,
		Width:  panelWidth,
		Height: panelHeight,
		XAxis: gochart.XAxis{
			ValueFormatter: gochart.TimeValueFormatterWithFormat("01-02 15:04"),
		},
	}
	if yRange != nil {
		graph.YAxis = gochart.YAxis{Range: yRange}
	}
	for _, l := range lines {
		if len(l.x) < 2 {
			continue // go-chart cannot draw a single point
		}
		style := gochart.Style{StrokeColor: l.color, StrokeWidth: 1.5}
		if l.dashed {
			style.StrokeDashArray = []float64{5.0, 5.0}
		}
		graph.Series = append(graph.Series, gochart.TimeSeries{
			Name:    l.name,
			XValues: l.x,
			YValues: l.y,
			Style:   style,
		})
	}
	if len(graph.Series) == 0 {
		return nil, fmt.Errorf("panel %q: nothing to plot", title)
	}
	graph.Elements = []gochart.Renderable{gochart.Legend(&graph)}

	var buf bytes.Buffer
	if err := graph.Render(gochart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// stack composes the rendered panels vertically into one PNG.
func stack(panels ...[]byte) ([]byte, error) {
	images := make([]image.Image, 0, len(panels))
	width, height := 0, 0
	for _, p := range panels {
		img, err := png.Decode(bytes.NewReader(p))
		if err != nil {
			return nil, fmt.Errorf("decode panel: %w", err)
		}
		b := img.Bounds()
		if b.Dx() > width {
			width = b.Dx()
		}
		height += b.Dy()
		images = append(images, img)
	}

	out := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(out, out.Bounds(), image.White, image.Point{}, draw.Src)
	y := 0
	for _, img := range images {
		b := img.Bounds()
		draw.Draw(out, image.Rect(0, y, b.Dx(), y+b.Dy()), img, b.Min, draw.Src)
		y += b.Dy()
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return nil, fmt.Errorf("encode chart: %w", err)
	}
	return buf.Bytes(), nil
}
