// Copyright 2022~2024 wangqi. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package terminal

// CharacterSet is one of the 7-bit sets selectable into the G0-G3 slots.
type CharacterSet int

const (
	Charset_US CharacterSet = iota // US-ASCII
	Charset_UK
	Charset_Drawing // DEC special graphics
	Charset_Rom
	Charset_RomSpecial
	Charset_VT52Graphics
	Charset_DecSupplemental
	Charset_NRC_Dutch
	Charset_NRC_Finnish
	Charset_NRC_French
	Charset_NRC_German
	Charset_NRC_Italian
	Charset_NRC_Norwegian
	Charset_NRC_Spanish
)

// LockshiftMode records a persistent GL/GR mapping established by the
// locking-shift controls.
type LockshiftMode int

const (
	Lockshift_None LockshiftMode = iota
	Lockshift_G1_GR
	Lockshift_G2_GR
	Lockshift_G3_GR
	Lockshift_G2_GL
	Lockshift_G3_GL
)

type Singleshift int

const (
	Singleshift_None Singleshift = iota
	Singleshift_SS2
	Singleshift_SS3
)

// DEC special graphics, 0x60-0x7E.
var decSpecialGraphics = map[rune]rune{
	'`': '◆', // diamond
	'a': '▒', // checkerboard
	'b': '␉', // HT symbol
	'c': '␌', // FF symbol
	'd': '␍', // CR symbol
	'e': '␊', // LF symbol
	'f': '°', // degree
	'g': '±', // plus/minus
	'h': '␤', // NL symbol
	'i': '␋', // VT symbol
	'j': '┘',
	'k': '┐',
	'l': '┌',
	'm': '└',
	'n': '┼',
	'o': '⎺',
	'p': '⎻',
	'q': '─',
	'r': '⎼',
	's': '⎽',
	't': '├',
	'u': '┤',
	'v': '┴',
	'w': '┬',
	'x': '│',
	'y': '≤',
	'z': '≥',
	'{': 'π',
	'|': '≠',
	'}': '£',
	'~': '·',
}

// VT52 graphics mode, 0x5E-0x7E. The scan-line characters reuse the DEC
// horizontal bars.
var vt52Graphics = map[rune]rune{
	'^': ' ',
	'_': ' ',
	'`': '·',
	'a': '█',
	'b': '⅟',
	'c': '³',
	'd': '⁵',
	'e': '⁷',
	'f': '°',
	'g': '±',
	'h': '→',
	'i': '…',
	'j': '÷',
	'k': '↓',
	'l': '⎺',
	'm': '⎺',
	'n': '⎻',
	'o': '⎻',
	'p': '─',
	'q': '─',
	'r': '⎼',
	's': '⎼',
	't': '₀',
	'u': '₁',
	'v': '₂',
	'w': '₃',
	'x': '₄',
	'y': '₅',
	'z': '₆',
	'{': '₇',
	'|': '₈',
	'}': '₉',
	'~': '¶',
}

// National replacement sets are sparse overrides of US-ASCII.
var nrcTables = map[CharacterSet]map[rune]rune{
	Charset_NRC_Dutch: {
		'#': '£', '@': '¾', '[': 'ĳ', '\\': '½',
		']': '|', '{': '¨', '|': 'ƒ', '}': '¼', '~': '´',
	},
	Charset_NRC_Finnish: {
		'[': 'Ä', '\\': 'Ö', ']': 'Å', '^': 'Ü',
		'`': 'é', '{': 'ä', '|': 'ö', '}': 'å', '~': 'ü',
	},
	Charset_NRC_French: {
		'#': '£', '@': 'à', '[': '°', '\\': 'ç',
		']': '§', '{': 'é', '|': 'ù', '}': 'è', '~': '¨',
	},
	Charset_NRC_German: {
		'@': '§', '[': 'Ä', '\\': 'Ö', ']': 'Ü',
		'{': 'ä', '|': 'ö', '}': 'ü', '~': 'ß',
	},
	Charset_NRC_Italian: {
		'#': '£', '@': '§', '[': '°', '\\': 'ç',
		']': 'é', '`': 'ù', '{': 'à', '|': 'ò',
		'}': 'è', '~': 'ì',
	},
	Charset_NRC_Norwegian: {
		'@': 'Ä', '[': 'Æ', '\\': 'Ø', ']': 'Å',
		'^': 'Ü', '`': 'ä', '{': 'æ', '|': 'ø',
		'}': 'å', '~': 'ü',
	},
	Charset_NRC_Spanish: {
		'#': '£', '@': '§', '[': '¡', '\\': 'Ñ',
		']': '¿', '{': '°', '|': 'ñ', '}': 'ç',
	},
}

// DEC supplemental differs from ISO 8859-1 in a handful of positions; the
// undefined slots fall through to the Latin-1 glyph.
var decSupplementalOverrides = map[rune]rune{
	0x37: 'Œ',
	0x3d: 'Ÿ',
	0x57: 'œ',
	0x5d: 'ÿ',
}

// charsetLookup maps a 7-bit code point through the given set to its display
// code point.
func charsetLookup(cs CharacterSet, ch rune) rune {
	switch cs {
	case Charset_UK:
		if ch == '#' {
			return '£'
		}
	case Charset_Drawing:
		if r, ok := decSpecialGraphics[ch]; ok {
			return r
		}
	case Charset_VT52Graphics:
		if r, ok := vt52Graphics[ch]; ok {
			return r
		}
	case Charset_DecSupplemental:
		// the set occupies GR: translate the low seven bits into the
		// Latin-1 block, then apply the DEC multinational deviations
		low := ch & 0x7f
		if low < 0x20 {
			return ch
		}
		idx := low - 0x20
		if r, ok := decSupplementalOverrides[idx]; ok {
			return r
		}
		return 0xa0 + idx
	case Charset_Rom, Charset_RomSpecial, Charset_US:
		return ch
	default:
		if tbl, ok := nrcTables[cs]; ok {
			if r, ok := tbl[ch]; ok {
				return r
			}
		}
	}
	return ch
}
