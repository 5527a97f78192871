package browser

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
)

const previewByteLimit = 16 * 1024

// renderPreview produces the text shown below the property rows for
// previewable files. Markdown goes through glamour; other text files are
// shown raw, truncated to the first previewByteLimit bytes.
func renderPreview(path string, width int) string {
	ext := strings.ToLower(ext(path))
	switch ext {
	case ".md", ".markdown":
		return renderMarkdown(path, width)
	case ".txt", ".log", ".csv", ".json", ".yaml", ".yml", ".go", ".py", ".sh":
		return renderPlain(path)
	default:
		return ""
	}
}

func renderMarkdown(path string, width int) string {
	content, err := readHead(path)
	if err != nil {
		return fmt.Sprintf("Error reading file: %v", err)
	}

	if width <= 0 || width > 100 {
		width = 100
	}
	r, _ := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dracula"),
		glamour.WithWordWrap(width),
		glamour.WithColorProfile(termenv.ANSI256),
	)

	out, err := r.Render(content)
	if err != nil {
		return "Error rendering markdown"
	}
	return out
}

func renderPlain(path string) string {
	content, err := readHead(path)
	if err != nil {
		return fmt.Sprintf("Error reading file: %v", err)
	}
	return content
}

func readHead(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	buf := make([]byte, previewByteLimit)
	n, _ := f.Read(buf)
	return string(buf[:n]), nil
}

func ext(path string) string {
	if i := strings.LastIndex(path, "."); i >= 0 {
		return path[i:]
	}
	return ""
}
