package ingest

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"strings"

	"book_music/internal/book"
)

type epubContainer struct {
	Rootfiles []struct {
		FullPath string `xml:"full-path,attr"`
	} `xml:"rootfiles>rootfile"`
}

type epubPackage struct {
	Metadata struct {
		Title string `xml:"title"`
	} `xml:"metadata"`
	Manifest struct {
		Items []struct {
			ID   string `xml:"id,attr"`
			Href string `xml:"href,attr"`
		} `xml:"item"`
	} `xml:"manifest"`
	Spine struct {
		Itemrefs []struct {
			IDRef string `xml:"idref,attr"`
		} `xml:"itemref"`
	} `xml:"spine"`
}

// parseEPUB walks container.xml to the OPF package, then reads every
// spine document in order. Spine items with no extractable text (cover
// pages, navigation) are dropped.
func parseEPUB(raw []byte) (string, []book.Chapter, error) {
	zr, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", nil, fmt.Errorf("open epub zip: %w", err)
	}

	files := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		files[f.Name] = f
	}

	containerRaw, err := readZipFile(files, "META-INF/container.xml")
	if err != nil {
		return "", nil, err
	}
	var container epubContainer
	if err := xml.Unmarshal(containerRaw, &container); err != nil {
		return "", nil, fmt.Errorf("parse container.xml: %w", err)
	}
	if len(container.Rootfiles) == 0 || container.Rootfiles[0].FullPath == "" {
		return "", nil, fmt.Errorf("container.xml has no rootfile")
	}

	opfPath := container.Rootfiles[0].FullPath
	opfRaw, err := readZipFile(files, opfPath)
	if err != nil {
		return "", nil, err
	}
	var pkg epubPackage
	if err := xml.Unmarshal(opfRaw, &pkg); err != nil {
		return "", nil, fmt.Errorf("parse opf package: %w", err)
	}

	hrefs := make(map[string]string, len(pkg.Manifest.Items))
	for _, item := range pkg.Manifest.Items {
		hrefs[item.ID] = item.Href
	}

	opfDir := path.Dir(opfPath)
	chapters := make([]book.Chapter, 0, len(pkg.Spine.Itemrefs))
	for _, ref := range pkg.Spine.Itemrefs {
		href, ok := hrefs[ref.IDRef]
		if !ok {
			continue
		}
		docPath := href
		if opfDir != "." {
			docPath = path.Join(opfDir, href)
		}
		docRaw, err := readZipFile(files, docPath)
		if err != nil {
			continue
		}
		heading, text := extractXHTML(docRaw)
		text = normalizeWhitespace(text)
		if strings.TrimSpace(text) == "" {
			continue
		}
		order := len(chapters) + 1
		title := heading
		if title == "" {
			title = fmt.Sprintf("Chapter %d", order)
		}
		chapters = append(chapters, book.Chapter{
			ID:      ref.IDRef,
			Title:   title,
			Content: text,
			Order:   order,
		})
	}
	if len(chapters) == 0 {
		return "", nil, fmt.Errorf("no readable chapters found in epub")
	}
	return strings.TrimSpace(pkg.Metadata.Title), chapters, nil
}

func readZipFile(files map[string]*zip.File, name string) ([]byte, error) {
	f, ok := files[name]
	if !ok {
		return nil, fmt.Errorf("%s not found in epub", name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	defer rc.Close()
	raw, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return raw, nil
}

// extractXHTML strips markup from a spine document. The first heading
// becomes the chapter title; script and style content is skipped.
func extractXHTML(raw []byte) (string, string) {
	decoder := xml.NewDecoder(bytes.NewReader(raw))
	decoder.Strict = false
	decoder.AutoClose = xml.HTMLAutoClose
	decoder.Entity = xml.HTMLEntity

	var text strings.Builder
	var heading strings.Builder
	headingDone := false
	inHeading := false
	skipDepth := 0

	for {
		tok, err := decoder.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			name := strings.ToLower(t.Name.Local)
			switch name {
			case "script", "style", "head":
				skipDepth++
			case "h1", "h2", "h3":
				if !headingDone {
					inHeading = true
				}
			}
		case xml.EndElement:
			name := strings.ToLower(t.Name.Local)
			switch name {
			case "script", "style", "head":
				if skipDepth > 0 {
					skipDepth--
				}
			case "h1", "h2", "h3":
				if inHeading {
					inHeading = false
					headingDone = true
				}
				text.WriteString("\n")
			case "p", "div", "br", "li", "section":
				text.WriteString("\n")
			}
		case xml.CharData:
			if skipDepth > 0 {
				continue
			}
			if inHeading {
				heading.Write(t)
			}
			text.Write(t)
		}
	}
	return strings.TrimSpace(strings.Join(strings.Fields(heading.String()), " ")), text.String()
}
