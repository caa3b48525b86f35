package merge

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/chris-ramon/douceur/inliner"
	"github.com/rykov/convocgen/config"
	"github.com/spf13/afero"
	"golang.org/x/net/html"

	"fmt"
	"strings"
)

// inlineStylesheets replaces local <link rel=stylesheet> tags with
// <style> tags read relative to the template, then moves every rule
// into style attributes so the document needs no external files
func inlineStylesheets(appFs *config.Fs, body string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return "", err
	}

	doc.Find("link[rel=stylesheet]").EachWithBreak(func(i int, s *goquery.Selection) bool {
		href, exists := s.Attr("href")
		if !exists {
			badHTML, _ := goquery.OuterHtml(s)
			err = fmt.Errorf("No href attribute for <link>: %s", badHTML)
			return false
		}

		// Remote stylesheets stay as they are
		if isRemote(href) {
			return true
		}

		path := appFs.AssetPath(href)
		if !appFs.IsFile(path) {
			err = fmt.Errorf("Stylesheet %s not found for <link href=%q>", path, href)
			return false
		}

		var cssBytes []byte
		if cssBytes, err = afero.ReadFile(appFs, path); err != nil {
			return false
		}

		// Insert nodes manually to avoid injection and escaping
		styleNode := &html.Node{Type: html.ElementNode, Data: "style"}
		textNode := &html.Node{Type: html.TextNode, Data: string(cssBytes)}
		styleNode.FirstChild, styleNode.LastChild = textNode, textNode
		s.ReplaceWithNodes(styleNode)
		return true
	})

	if err != nil {
		return "", err
	}

	if body, err = goquery.OuterHtml(doc.Selection); err != nil {
		return "", err
	}

	return inliner.Inline(body)
}

func isRemote(href string) bool {
	return strings.HasPrefix(href, "//") || strings.Contains(href, "://")
}
