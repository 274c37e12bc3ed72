package vm

import "github.com/btre/btre/block"

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isWord(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || isDigit(b)
}

func isWhitespace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\f':
		return true
	default:
		return false
	}
}

// matchClass reports whether b satisfies any member of items.
func matchClass(items []block.ListItem, b byte) bool {
	for _, it := range items {
		switch it.Kind {
		case block.ListItemChar:
			if b == it.Byte {
				return true
			}
		case block.ListItemRange:
			if b >= it.Byte && b <= it.ByteB {
				return true
			}
		case block.ListItemWhitespace:
			if isWhitespace(b) != it.Negate {
				return true
			}
		case block.ListItemWord:
			if isWord(b) != it.Negate {
				return true
			}
		case block.ListItemDigit:
			if isDigit(b) != it.Negate {
				return true
			}
		}
	}
	return false
}
