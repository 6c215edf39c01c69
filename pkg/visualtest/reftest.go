package visualtest

import (
	"errors"
	"fmt"
	"image"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"boxlayout/pkg/css"
	"boxlayout/pkg/html"
	"boxlayout/pkg/images"
	"boxlayout/pkg/layout"
	"boxlayout/pkg/render"
	"boxlayout/pkg/text"
)

// ErrNoReference is returned for a test page without a
// <link rel="match" href="..."> element.
var ErrNoReference = errors.New("visualtest: no <link rel=\"match\"> reference")

// RunOptions configures a reftest run. Pages are measured with Ahem
// metrics and painted without glyphs, so a reftest compares box geometry
// and painting only.
type RunOptions struct {
	Width, Height int
	Compare       CompareOptions
}

func DefaultRunOptions() RunOptions {
	return RunOptions{Width: 400, Height: 400, Compare: DefaultOptions()}
}

// RefResult is the outcome of rendering a test page and its reference.
type RefResult struct {
	TestPath, RefPath string
	Test, Reference   image.Image
	*CompareResult
}

// FindReference returns the href of the first <link rel="match"> element.
func FindReference(doc *html.Document) (string, bool) {
	var href string
	var walk func(n *html.Node) bool
	walk = func(n *html.Node) bool {
		if n.IsElement("link") {
			rel, _ := n.GetAttribute("rel")
			for _, r := range strings.Fields(rel) {
				if strings.EqualFold(r, "match") {
					href, _ = n.GetAttribute("href")
					return href != ""
				}
			}
		}
		for _, child := range n.Children {
			if walk(child) {
				return true
			}
		}
		return false
	}
	found := walk(doc.Root)
	return href, found
}

// RenderPage lays out and paints an HTML source. Relative image sources
// resolve against baseDir.
func RenderPage(src, baseDir string, width, height int) (image.Image, error) {
	doc, err := html.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	return renderDocument(doc, baseDir, width, height), nil
}

func renderDocument(doc *html.Document, baseDir string, width, height int) image.Image {
	loader := images.NewLoader(baseDir)
	root := layout.LayoutTree(css.ApplyStyles(doc), text.AhemMeasurer{}, loader,
		layout.Viewport{Width: float64(width), Height: float64(height)})
	r := render.NewRenderer(width, height, nil, render.WithImages(loader))
	r.Render(root)
	return r.Image()
}

// Run renders the test page at testPath and the reference it links to,
// then compares the two images.
func Run(testPath string, opts RunOptions) (*RefResult, error) {
	testDoc, err := parseFile(testPath)
	if err != nil {
		return nil, err
	}
	href, ok := FindReference(testDoc)
	if !ok {
		return nil, fmt.Errorf("%s: %w", testPath, ErrNoReference)
	}
	refPath := filepath.Join(filepath.Dir(testPath), filepath.FromSlash(href))
	refDoc, err := parseFile(refPath)
	if err != nil {
		return nil, err
	}

	result := &RefResult{
		TestPath:  testPath,
		RefPath:   refPath,
		Test:      renderDocument(testDoc, filepath.Dir(testPath), opts.Width, opts.Height),
		Reference: renderDocument(refDoc, filepath.Dir(refPath), opts.Width, opts.Height),
	}
	result.CompareResult, err = Compare(result.Test, result.Reference, opts.Compare)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func parseFile(path string) (*html.Document, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	doc, err := html.Parse(string(src))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return doc, nil
}

// Discover lists the reftest pages under dir: HTML files carrying a match
// link. Reference pages (*-ref.html, or anything under a reference/
// directory) are skipped.
func Discover(dir string) ([]string, error) {
	var tests []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == "reference" {
				return filepath.SkipDir
			}
			return nil
		}
		ext := filepath.Ext(path)
		if ext != ".html" && ext != ".xht" {
			return nil
		}
		if strings.HasSuffix(strings.TrimSuffix(d.Name(), ext), "-ref") {
			return nil
		}
		doc, err := parseFile(path)
		if err != nil {
			return nil
		}
		if _, ok := FindReference(doc); ok {
			tests = append(tests, path)
		}
		return nil
	})
	return tests, err
}
