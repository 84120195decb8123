/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package view renders the companion page for a session with templ.
package view

import (
	"context"
	"io"
	"strconv"

	"github.com/Seednode/wavedial/client"
	"github.com/Seednode/wavedial/dial"
	"github.com/a-h/templ"
)

// Band fills, outermost first.
var bandFill = map[int]string{
	2: "#f1c40f",
	3: "#e67e22",
	4: "#e74c3c",
}

const (
	needleInset = 8
	labelRatio  = 0.75
)

// Dial draws the semicircular dial as inline SVG: the background, the
// scoring bands uncovered up to the clip width, and the needle.
func Dial(d client.DialView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		g := d.Geometry
		if g.R == 0 {
			g = dial.Default
		}

		p := &printer{w: w}

		p.printf(`<svg id="dial" class="dial cursor-%s" xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s" data-interactive="%t">`,
			templ.EscapeString(d.Cursor), num(g.Width()), num(g.Height()), num(g.Width()), num(g.Height()),
			d.Interactive)

		p.printf(`<defs><clipPath id="reveal-clip"><rect x="%s" y="0" width="%s" height="%s"/></clipPath></defs>`,
			num(g.CX-g.R), num(d.ClipWidth), num(g.Height()))

		p.printf(`<path d="%s" fill="#16213e" stroke="#2a2a4a" stroke-width="2"/>`, g.BackgroundPath())

		if d.ShowTarget {
			p.printf(`<g clip-path="url(#reveal-clip)">`)
			for _, b := range dial.Bands(d.Target) {
				p.printf(`<path d="%s" fill="%s"/>`, g.ArcPath(float64(b.Start), float64(b.End), 0, g.R), bandFill[b.Points])
			}
			for _, b := range dial.Bands(d.Target) {
				x, y := g.AngleToPoint(b.Mid(), g.R*labelRatio)
				p.printf(`<text x="%s" y="%s" text-anchor="middle" dominant-baseline="middle" font-size="11" font-weight="700" fill="#fff">%d</text>`,
					num(x), num(y), b.Points)
			}
			p.printf(`</g>`)
		}

		if d.ShowNeedle {
			x, y := g.AngleToPoint(float64(d.Needle), g.R-needleInset)
			p.printf(`<line id="needle" x1="%s" y1="%s" x2="%s" y2="%s" stroke="#fff" stroke-width="4" stroke-linecap="round"/>`,
				num(g.CX), num(g.CY), num(x), num(y))
		}
		p.printf(`<circle cx="%s" cy="%s" r="7" fill="#6c63ff"/>`, num(g.CX), num(g.CY))

		p.printf(`<text x="%s" y="%s" text-anchor="start" font-size="12" fill="#aaa">%s</text>`,
			num(g.CX-g.R), num(g.CY+20), templ.EscapeString(d.Left))
		p.printf(`<text x="%s" y="%s" text-anchor="end" font-size="12" fill="#aaa">%s</text>`,
			num(g.CX+g.R), num(g.CY+20), templ.EscapeString(d.Right))

		p.printf(`</svg>`)

		return p.err
	})
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
