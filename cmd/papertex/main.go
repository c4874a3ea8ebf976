package main

import (
	"bytes"
	"fmt"
	"image/color"
	"io"
	"log"
	"math/rand/v2"
	"os"
	"strconv"
	"strings"

	"github.com/unixdj/papertex"

	"github.com/mattn/go-isatty"
	"github.com/pborman/getopt/v2"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const defaultFile = "textures/paper_noise.png"

var g = struct {
	fn     string                    // output file
	tint   rgb                       // base colour
	seed   uint64                    // PCG seed
	level  papertex.CompressionLevel // zlib level
	indep  bool                      // independent channel samples
	quiet  bool                      // no report
	width  int                       // image width
	height int                       // image height
}{
	fn: defaultFile,
	tint: rgb{papertex.Default.Tint.R, papertex.Default.Tint.G,
		papertex.Default.Tint.B},
}

func printUsage(w io.Writer) {
	cl := getopt.CommandLine
	fmt.Fprint(w, "Paper noise texture generator\nUsage: ",
		cl.Program(), " ", cl.UsageLine(), `
Writes an RGBA PNG texture of warm paper noise.  With no options,
writes a 100x100 texture to `+defaultFile+`.

`)
	var b bytes.Buffer
	cl.PrintOptions(&b)
	w.Write(b.Bytes())
}

type opt func()

func (opt) String() string                    { return "" }
func (o opt) Set(string, getopt.Option) error { o(); return nil }

func usage() {
	printUsage(os.Stderr)
	os.Exit(2)
}

func help() {
	printUsage(os.Stdout)
	os.Exit(0)
}

func version() {
	fmt.Println(`papertex version 0.1.0
Copyright (c) 2024 Vadim Vygonets`)
	os.Exit(0)
}

type rgb struct {
	R, G, B uint8
}

// Colour names accepted by -T.  Values from X11 rgb.txt.
var names = map[string]rgb{
	"paper":    {0xf9, 0xf4, 0xe8},
	"white":    {0xff, 0xff, 0xff},
	"ivory":    {0xff, 0xff, 0xf0},
	"linen":    {0xfa, 0xf0, 0xe6},
	"oldlace":  {0xfd, 0xf5, 0xe6},
	"cornsilk": {0xff, 0xf8, 0xdc},
	"beige":    {0xf5, 0xf5, 0xdc},
	"wheat":    {0xf5, 0xde, 0xb3},
}

func (c *rgb) String() string {
	for k, v := range names {
		if v == *c {
			return k
		}
	}
	return fmt.Sprintf("%02x%02x%02x", c.R, c.G, c.B)
}

func (c *rgb) Set(s string, _ getopt.Option) error {
	var ok bool
	if *c, ok = names[strings.ToLower(strings.ReplaceAll(s, " ", ""))]; ok {
		return nil
	}
	n, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return fmt.Errorf("%q: bad colour spec", s)
	}
	switch len(s) {
	case 3:
		var nn uint64
		for i := 0; i < 3; i++ {
			nn <<= 8
			nn |= n >> 8 & 0xf * 0x11
			n <<= 4
		}
		n = nn
	case 6:
	default:
		return fmt.Errorf("%q: bad colour spec", s)
	}
	c.R, c.G, c.B = uint8(n>>16), uint8(n>>8), uint8(n)
	return nil
}

var levels = map[string]papertex.CompressionLevel{
	"default": papertex.DefaultCompression,
	"none":    papertex.NoCompression,
	"speed":   papertex.BestSpeed,
	"best":    papertex.BestCompression,
}

func parseFlags() {
	getopt.SetUsage(usage)
	getopt.Flag(opt(help), 'h', "show this help").SetFlag()
	getopt.Flag(opt(version), 'V', "print version and copyright").SetFlag()
	getopt.Flag(&g.fn, 'o', `output file, or "-" for standard output`,
		"file")
	getopt.FlagLong(&g.tint, "tint", 'T', `base colour as 3 or 6 hex `+
		`digits or one of: paper, white, ivory, linen, oldlace, `+
		`cornsilk, beige, wheat`, "RGB|name")
	getopt.FlagLong(&g.seed, "seed", 's',
		"random seed; equal seeds give equal textures", "seed")
	getopt.Flag(&g.indep, 'I', "draw each channel from its own sample")
	getopt.Flag(&g.quiet, 'q', "do not report the written file")
	width := getopt.Unsigned('W', uint(papertex.Default.Width),
		&getopt.UnsignedLimit{0, 16, 1, 1 << 14}, "width in pixels", "px")
	height := getopt.Unsigned('H', uint(papertex.Default.Height),
		&getopt.UnsignedLimit{0, 16, 1, 1 << 14}, "height in pixels", "px")
	lev := getopt.Enum('z', []string{"default", "none", "speed", "best"},
		"default", "zlib compression level", "level")

	getopt.Parse()
	if args := getopt.Args(); len(args) != 0 {
		fmt.Fprintf(os.Stderr, "unexpected argument %q\n", args[0])
		usage()
	}
	g.width = int(*width)
	g.height = int(*height)
	g.level = levels[*lev]
	if !getopt.IsSet('s') {
		g.seed = rand.Uint64()
	}
}

func main() {
	log.SetFlags(0)
	parseFlags()

	t := papertex.Default
	t.Width, t.Height = g.width, g.height
	t.Tint = color.RGBA{g.tint.R, g.tint.G, g.tint.B, 0xff}
	t.Independent = g.indep
	raw, err := t.Scanlines(rand.New(rand.NewPCG(g.seed, g.seed>>32|g.seed<<32)))
	if err != nil {
		log.Fatalln(err)
	}
	e := papertex.Encoder{CompressionLevel: g.level}
	b, err := e.Encode(t.Width, t.Height, raw)
	if err != nil {
		log.Fatalln(err)
	}

	report := os.Stdout
	if g.fn == "-" {
		if isatty.IsTerminal(os.Stdout.Fd()) ||
			isatty.IsCygwinTerminal(os.Stdout.Fd()) {
			log.Fatalln("refusing to write PNG data to a terminal")
		}
		if _, err := os.Stdout.Write(b); err != nil {
			log.Fatalln(err)
		}
		report = os.Stderr
	} else if err := papertex.WriteFile(g.fn, b); err != nil {
		log.Fatalln(err)
	}
	if !g.quiet {
		p := message.NewPrinter(language.English)
		p.Fprintf(report, "Generated: %s (%d bytes)\n", g.fn, len(b))
	}
}
