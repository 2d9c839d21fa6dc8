// Package epub 把 result 目录下的章节 Markdown 合并为一本 EPUB 电子书。
// 容器为标准布局：未压缩的 mimetype、META-INF/container.xml、OPF 清单
// 与 NCX 目录，每章一个 XHTML 文件。缺失章节与空章节不收录。
package epub

import (
	"archive/zip"
	"bytes"
	"fmt"
	"html"
	"os"
	"strings"

	"github.com/yuin/goldmark"

	"hly-press/internal/formatter"
	"hly-press/internal/search"
)

// Metadata 是书籍级元数据，来自配置。
type Metadata struct {
	Identifier string
	Title      string
	Author     string
	Language   string
}

const containerXML = `<?xml version="1.0" encoding="UTF-8"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>
`

// Build 读取章节目录并写出 EPUB 文件，返回收录的章节数。
func Build(resultDir string, meta Metadata, outPath string) (int, error) {
	ix, err := search.LoadDir(resultDir)
	if err != nil {
		return 0, err
	}
	docs := included(ix.All())
	if len(docs) == 0 {
		return 0, fmt.Errorf("没有可收录的章节（%s）", resultDir)
	}

	f, err := os.Create(outPath)
	if err != nil {
		return 0, fmt.Errorf("创建 EPUB 文件失败（%s）：%w", outPath, err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)

	// mimetype 必须是第一个条目且不压缩。
	w, err := zw.CreateHeader(&zip.FileHeader{Name: "mimetype", Method: zip.Store})
	if err != nil {
		return 0, fmt.Errorf("写入 mimetype 失败：%w", err)
	}
	if _, err := w.Write([]byte("application/epub+zip")); err != nil {
		return 0, fmt.Errorf("写入 mimetype 失败：%w", err)
	}

	files := map[string]string{
		"META-INF/container.xml": containerXML,
		"OEBPS/content.opf":      renderOPF(meta, docs),
		"OEBPS/toc.ncx":          renderNCX(meta, docs),
	}
	md := goldmark.New()
	for _, d := range docs {
		xhtml, err := renderChapterXHTML(md, d, meta.Language)
		if err != nil {
			return 0, err
		}
		files[chapterHref(d.Number)] = xhtml
	}

	names := orderedNames(docs)
	for _, name := range names {
		w, err := zw.Create(name)
		if err != nil {
			return 0, fmt.Errorf("写入 %s 失败：%w", name, err)
		}
		if _, err := w.Write([]byte(files[name])); err != nil {
			return 0, fmt.Errorf("写入 %s 失败：%w", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return 0, fmt.Errorf("关闭 EPUB 失败：%w", err)
	}
	return len(docs), nil
}

func included(docs []search.Document) []search.Document {
	var out []search.Document
	for _, d := range docs {
		body := strings.TrimSpace(d.Body)
		if body == "" || strings.Contains(body, formatter.MissingParagraph) {
			continue
		}
		out = append(out, d)
	}
	return out
}

func orderedNames(docs []search.Document) []string {
	names := []string{"META-INF/container.xml", "OEBPS/content.opf", "OEBPS/toc.ncx"}
	for _, d := range docs {
		names = append(names, chapterHref(d.Number))
	}
	return names
}

func chapterHref(number int) string {
	return fmt.Sprintf("OEBPS/chapter_%02d.xhtml", number)
}

func chapterID(number int) string {
	return fmt.Sprintf("chapter%02d", number)
}

func renderChapterXHTML(md goldmark.Markdown, d search.Document, lang string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(d.Body), &buf); err != nil {
		return "", fmt.Errorf("第%d章 Markdown 转换失败：%w", d.Number, err)
	}
	var b strings.Builder
	b.WriteString("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	b.WriteString("<!DOCTYPE html>\n")
	b.WriteString(fmt.Sprintf("<html xmlns=\"http://www.w3.org/1999/xhtml\" xml:lang=\"%s\">\n", html.EscapeString(lang)))
	b.WriteString(fmt.Sprintf("<head><title>%s</title></head>\n<body>\n", html.EscapeString(d.Title)))
	b.Write(buf.Bytes())
	b.WriteString("</body>\n</html>\n")
	return b.String(), nil
}

func renderOPF(meta Metadata, docs []search.Document) string {
	var b strings.Builder
	b.WriteString("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	b.WriteString("<package xmlns=\"http://www.idpf.org/2007/opf\" unique-identifier=\"bookid\" version=\"2.0\">\n")
	b.WriteString("  <metadata xmlns:dc=\"http://purl.org/dc/elements/1.1/\">\n")
	b.WriteString(fmt.Sprintf("    <dc:identifier id=\"bookid\">%s</dc:identifier>\n", html.EscapeString(meta.Identifier)))
	b.WriteString(fmt.Sprintf("    <dc:title>%s</dc:title>\n", html.EscapeString(meta.Title)))
	b.WriteString(fmt.Sprintf("    <dc:creator>%s</dc:creator>\n", html.EscapeString(meta.Author)))
	b.WriteString(fmt.Sprintf("    <dc:language>%s</dc:language>\n", html.EscapeString(meta.Language)))
	b.WriteString("  </metadata>\n  <manifest>\n")
	b.WriteString("    <item id=\"ncx\" href=\"toc.ncx\" media-type=\"application/x-dtbncx+xml\"/>\n")
	for _, d := range docs {
		b.WriteString(fmt.Sprintf("    <item id=\"%s\" href=\"chapter_%02d.xhtml\" media-type=\"application/xhtml+xml\"/>\n", chapterID(d.Number), d.Number))
	}
	b.WriteString("  </manifest>\n  <spine toc=\"ncx\">\n")
	for _, d := range docs {
		b.WriteString(fmt.Sprintf("    <itemref idref=\"%s\"/>\n", chapterID(d.Number)))
	}
	b.WriteString("  </spine>\n</package>\n")
	return b.String()
}

func renderNCX(meta Metadata, docs []search.Document) string {
	var b strings.Builder
	b.WriteString("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	b.WriteString("<ncx xmlns=\"http://www.daisy.org/z3986/2005/ncx/\" version=\"2005-1\">\n")
	b.WriteString("  <head>\n")
	b.WriteString(fmt.Sprintf("    <meta name=\"dtb:uid\" content=\"%s\"/>\n", html.EscapeString(meta.Identifier)))
	b.WriteString("    <meta name=\"dtb:depth\" content=\"1\"/>\n")
	b.WriteString("  </head>\n")
	b.WriteString(fmt.Sprintf("  <docTitle><text>%s</text></docTitle>\n", html.EscapeString(meta.Title)))
	b.WriteString("  <navMap>\n")
	for i, d := range docs {
		b.WriteString(fmt.Sprintf("    <navPoint id=\"nav%02d\" playOrder=\"%d\">\n", d.Number, i+1))
		b.WriteString(fmt.Sprintf("      <navLabel><text>%s</text></navLabel>\n", html.EscapeString(d.Title)))
		b.WriteString(fmt.Sprintf("      <content src=\"chapter_%02d.xhtml\"/>\n", d.Number))
		b.WriteString("    </navPoint>\n")
	}
	b.WriteString("  </navMap>\n</ncx>\n")
	return b.String()
}
