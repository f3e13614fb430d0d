package main

func getLine(content string, lineIndex int) string {
	start := 0
	currentLine := 0

	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			if currentLine == lineIndex {
				return trimCR(content[start:i])
			}
			start = i + 1
			currentLine++
		}
	}

	if currentLine == lineIndex {
		return trimCR(content[start:])
	}
	return ""
}

func trimCR(s string) string {
	if len(s) > 0 && s[len(s)-1] == '\r' {
		return s[:len(s)-1]
	}
	return s
}

// getWordAtPosition returns the identifier under the cursor and its range
// on the line.
func getWordAtPosition(content string, line, char int) (string, Range) {
	lineStr := getLine(content, line)
	if char < 0 || char >= len(lineStr) || !isIdentifierChar(lineStr[char]) {
		// If cursor is at the end of a word, check previous char
		if char > 0 && char <= len(lineStr) && isIdentifierChar(lineStr[char-1]) {
			char--
		} else {
			return "", Range{}
		}
	}

	start := char
	for start > 0 && isIdentifierChar(lineStr[start-1]) {
		start--
	}
	end := char
	for end < len(lineStr) && isIdentifierChar(lineStr[end]) {
		end++
	}

	return lineStr[start:end], Range{
		Start: Position{Line: line, Character: start},
		End:   Position{Line: line, Character: end},
	}
}

func isIdentifierChar(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9') || b == '_' || b == '\''
}
