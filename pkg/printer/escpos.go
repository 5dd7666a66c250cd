package printer

import (
	"bytes"
	"strings"
	"unicode/utf8"
)

// ESC/POS control bytes.
const (
	ESC = 0x1B
	GS  = 0x1D
	LF  = 0x0A
)

// Alignment values for SetAlign.
const (
	AlignLeft   = 0
	AlignCenter = 1
	AlignRight  = 2
)

// Character sizes for SetFontSize.
const (
	FontNormal = 0x00
	FontTall   = 0x01
)

// DefaultWidth is the character width of 58mm paper; 80mm paper fits 48.
const DefaultWidth = 32

// Document accumulates an ESC/POS ticket.
type Document struct {
	buf   bytes.Buffer
	width int
}

// NewDocument starts a ticket for a printer of charWidth columns.
func NewDocument(charWidth int) *Document {
	if charWidth <= 0 {
		charWidth = DefaultWidth
	}
	d := &Document{width: charWidth}
	d.buf.Write([]byte{ESC, '@'})
	return d
}

func (d *Document) FeedLines(n int) *Document {
	d.buf.Write(bytes.Repeat([]byte{LF}, n))
	return d
}

func (d *Document) SetAlign(align int) *Document {
	d.buf.Write([]byte{ESC, 'a', byte(align)})
	return d
}

func (d *Document) SetBold(on bool) *Document {
	var b byte
	if on {
		b = 1
	}
	d.buf.Write([]byte{ESC, 'E', b})
	return d
}

func (d *Document) SetFontSize(size byte) *Document {
	d.buf.Write([]byte{GS, '!', size})
	return d
}

// Separator prints a full-width rule of char.
func (d *Document) Separator(char byte) *Document {
	d.buf.WriteString(strings.Repeat(string(char), d.width))
	d.buf.WriteByte(LF)
	return d
}

// KeyValue prints key left and value flush right on one line. Widths count
// runes so Kannada labels line up. A key too long to leave room for the
// value is cut short; the value is never cut.
func (d *Document) KeyValue(key, value string) *Document {
	if value == "" {
		d.buf.WriteString(key)
		d.buf.WriteByte(LF)
		return d
	}

	room := d.width - utf8.RuneCountInString(value) - 1
	if room < 0 {
		room = 0
	}
	if utf8.RuneCountInString(key) > room {
		key = string([]rune(key)[:room])
	}

	pad := d.width - utf8.RuneCountInString(key) - utf8.RuneCountInString(value)
	if pad < 1 {
		pad = 1
	}
	d.buf.WriteString(key)
	d.buf.WriteString(strings.Repeat(" ", pad))
	d.buf.WriteString(value)
	d.buf.WriteByte(LF)
	return d
}

// PartialCut leaves a tab so tickets tear off one by one.
func (d *Document) PartialCut() *Document {
	d.buf.Write([]byte{GS, 'V', 0x01})
	return d
}

// Bytes returns the ticket so far.
func (d *Document) Bytes() []byte {
	return d.buf.Bytes()
}
