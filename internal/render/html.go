package render

import (
	_ "embed"
	"html"
)

// Buffer sizes for the pages the tree serves.
const (
	// PageSize bounds a device or root page.
	PageSize = 2048

	// FormSize bounds a configuration form page.
	FormSize = 1536

	// FrameSize bounds the body of an embedded control frame.
	FrameSize = 1024
)

// Content types used in responses.
const (
	ContentTypeHTML = "text/html"
	ContentTypeXML  = "text/xml"
	ContentTypeCSS  = "text/css"
)

// StylesPath is where the stylesheet is served and linked from every page.
const StylesPath = "/styles.css"

//go:embed styles.css
var styles []byte

// Styles returns the stylesheet shared by every page.
func Styles() []byte {
	return styles
}

const (
	docHead = `<!DOCTYPE html><html><head><meta charset="utf-8">` +
		`<meta name="viewport" content="width=device-width, initial-scale=1">` +
		`<link rel="stylesheet" href="` + StylesPath + `">`
	docTail = `</body></html>`
)

// Header opens a page with a centred title and reserves room for Tail.
func Header(b *Buffer, title string) {
	b.reserve(len(docTail))
	t := html.EscapeString(title)
	b.Printf(`%s<title>%s</title></head><body><h2 align="center">%s</h2>`, docHead, t, t)
}

// Head opens an untitled page, as used inside frames, and reserves room for Tail.
func Head(b *Buffer) {
	b.reserve(len(docTail))
	b.WriteString(docHead + `</head><body>`)
}

// Tail closes a page opened by Header or Head.
func Tail(b *Buffer) {
	b.release()
	b.WriteAtomic(docTail)
}

// AppButton writes a full width navigation button.
func AppButton(b *Buffer, path, label string) {
	b.Printf(`<div align="center"><a href="%s"><button class="appButton">%s</button></a></div>`,
		html.EscapeString(path), html.EscapeString(label))
}

// ConfigButton writes the smaller button that leads to a configuration form.
func ConfigButton(b *Buffer, path, label string) {
	b.Printf(`<div align="center"><a href="%s"><button class="cfgButton">%s</button></a></div>`,
		html.EscapeString(path), html.EscapeString(label))
}

// Title writes a level three heading.
func Title(b *Buffer, text string) {
	b.Printf(`<h3 align="center">%s</h3>`, html.EscapeString(text))
}

// Paragraph writes centred text.
func Paragraph(b *Buffer, text string) {
	b.Printf(`<p align="center">%s</p>`, html.EscapeString(text))
}

// Frame embeds the page at path.
func Frame(b *Buffer, path string, height, width int) {
	b.Printf(`<div align="center"><iframe src="%s" height="%d" width="%d" frameborder="0"></iframe></div>`,
		html.EscapeString(path), height, width)
}

// Field is one text input of a Form.
type Field struct {
	Label       string
	Name        string
	Placeholder string
}

// Form writes a GET form submitting to action with a Submit button and a
// Cancel button that returns to cancel.
func Form(b *Buffer, action, cancel string, fields ...Field) {
	b.Printf(`<form action="%s"><div align="center">`, html.EscapeString(action))
	for _, f := range fields {
		b.Printf(`<label for="%s">%s&nbsp;&nbsp;</label><input type="text" placeholder="%s" name="%s"><br><br>`,
			html.EscapeString(f.Name), html.EscapeString(f.Label),
			html.EscapeString(f.Placeholder), html.EscapeString(f.Name))
	}
	b.WriteString(`<button class="fmButton" type="submit">Submit</button>&nbsp;&nbsp;`)
	b.Printf(`<button class="fmButton" type="button" onclick="window.location.href='%s';">Cancel</button>`,
		html.EscapeString(cancel))
	b.WriteString(`</div></form>`)
}

// Toggle writes a switch that links to href. on selects the checked state.
func Toggle(b *Buffer, href string, on bool) {
	checked := ""
	label := "OFF"
	if on {
		checked = " checked"
		label = "ON"
	}
	b.Printf(`<div align="center"><a href="%s" class="toggle"><input class="toggle-checkbox" type="checkbox"%s>`+
		`<span class="toggle-switch"></span></a>&emsp;%s</div>`, html.EscapeString(href), checked, label)
}

// Escape escapes text for inclusion in markup written directly to a Buffer.
func Escape(s string) string {
	return html.EscapeString(s)
}

