// Copyright ©2023 The go-pdf Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command quire-md renders a Markdown file as a PDF document.
//
// Usage:
//
//	quire-md [options] input.md
//
// Images referenced by the Markdown are embedded when the destination names
// a JPEG, PNG or GIF file relative to the input file.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/kofi-q/quire"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

func main() {
	log.SetPrefix("quire-md: ")
	log.SetFlags(0)

	out := flag.String("o", "", "output file (default: input with .pdf extension)")
	font := flag.String("font", "helvetica", "core font family for body text")
	size := flag.Float64("size", 11, "body font size in points")
	page := flag.String("page", "A4", "page size")
	title := flag.String("title", "", "document title")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] input.md\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}
	input := flag.Arg(0)
	output := *out
	if output == "" {
		output = strings.TrimSuffix(input, filepath.Ext(input)) + ".pdf"
	}

	src, err := os.ReadFile(input)
	if err != nil {
		log.Fatal(err)
	}

	doc := quire.New("P", "mm", *page, "")
	if *title != "" {
		doc.SetTitle(*title, true)
	}
	doc.SetCreator("quire-md", false)
	doc.AliasNbPages("")
	doc.SetFooterFunc(func() {
		doc.SetY(-15)
		doc.SetFont(*font, "I", 8)
		doc.CellFormat(0, 10, fmt.Sprintf("%d/{nb}", doc.PageNo()), "", 0, "C", false, 0, "")
	})
	registerImages(doc, filepath.Dir(input), src)

	doc.AddPage()
	doc.SetFont(*font, "", *size)
	doc.WriteMarkdown(*size*0.5, src)

	if err := doc.OutputFileAndClose(output); err != nil {
		log.Fatal(err)
	}
	log.Printf("wrote %s (%d pages)", output, doc.PageCount())
}

// registerImages registers the local images the Markdown refers to, under
// the destination written in the source.
func registerImages(doc *quire.Quire, dir string, src []byte) {
	root := goldmark.New().Parser().Parse(text.NewReader(src))
	ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		img, ok := n.(*ast.Image)
		if !ok || !entering {
			return ast.WalkContinue, nil
		}
		dest := string(img.Destination)
		if strings.Contains(dest, "://") {
			return ast.WalkContinue, nil
		}
		path := filepath.Join(dir, dest)
		f, err := os.Open(path)
		if err != nil {
			log.Printf("skipping image %s: %v", dest, err)
			return ast.WalkContinue, nil
		}
		defer f.Close()
		doc.RegisterImageReader(dest, "", f)
		if err := doc.Error(); err != nil {
			log.Printf("skipping image %s: %v", dest, err)
			doc.ClearError()
		}
		return ast.WalkContinue, nil
	})
}
