package syntax

import "bytes"

// File is one parsed source file: its tree, its token stream and the text
// both were produced from.
type File struct {
	Path     string
	Language string
	Source   []byte
	Tokens   Tokens
	Root     Node
}

// Line returns the text of the 1-based line n without its newline, or ""
// when n is out of range.
func (f *File) Line(n int) string {
	if n < 1 {
		return ""
	}
	src := f.Source
	for i := 1; i < n; i++ {
		idx := bytes.IndexByte(src, '\n')
		if idx < 0 {
			return ""
		}
		src = src[idx+1:]
	}
	if idx := bytes.IndexByte(src, '\n'); idx >= 0 {
		src = src[:idx]
	}
	return string(bytes.TrimSuffix(src, []byte("\r")))
}

// Lines splits the source into lines without their terminators.
func (f *File) Lines() []string {
	if len(f.Source) == 0 {
		return nil
	}
	text := bytes.ReplaceAll(f.Source, []byte("\r\n"), []byte("\n"))
	text = bytes.TrimSuffix(text, []byte("\n"))
	parts := bytes.Split(text, []byte("\n"))
	lines := make([]string, len(parts))
	for i, p := range parts {
		lines[i] = string(p)
	}
	return lines
}
