package browser

import "github.com/esqtui/esq/internal/search"

// Icon tables keyed by extension, one unicode set and one ASCII fallback
// for terminals without wide glyph support. The charset is a runtime
// toggle, not a capability probe.

var unicodeIcons = map[string]string{
	".txt": "📄", ".md": "📝", ".pdf": "📕", ".doc": "📘", ".docx": "📘",
	".xls": "📗", ".xlsx": "📗", ".ppt": "📙", ".pptx": "📙",
	".jpg": "🖼", ".jpeg": "🖼", ".png": "🖼", ".gif": "🖼", ".bmp": "🖼",
	".svg": "🖼", ".mp3": "🎵", ".wav": "🎵", ".flac": "🎵", ".ogg": "🎵",
	".m4a": "🎵", ".mp4": "🎬", ".avi": "🎬", ".mkv": "🎬", ".mov": "🎬",
	".zip": "📦", ".rar": "📦", ".7z": "📦", ".tar": "📦", ".gz": "📦",
	".exe": "⚙", ".dll": "⚙", ".msi": "⚙",
	".go": "💻", ".py": "💻", ".js": "💻", ".ts": "💻", ".c": "💻",
	".cpp": "💻", ".h": "💻", ".rs": "💻", ".java": "💻", ".sh": "💻",
}

var asciiIcons = map[string]string{
	".txt": "[t]", ".md": "[m]", ".pdf": "[p]", ".doc": "[w]", ".docx": "[w]",
	".xls": "[x]", ".xlsx": "[x]", ".ppt": "[s]", ".pptx": "[s]",
	".jpg": "[i]", ".jpeg": "[i]", ".png": "[i]", ".gif": "[i]", ".bmp": "[i]",
	".svg": "[i]", ".mp3": "[a]", ".wav": "[a]", ".flac": "[a]", ".ogg": "[a]",
	".m4a": "[a]", ".mp4": "[v]", ".avi": "[v]", ".mkv": "[v]", ".mov": "[v]",
	".zip": "[z]", ".rar": "[z]", ".7z": "[z]", ".tar": "[z]", ".gz": "[z]",
	".exe": "[!]", ".dll": "[!]", ".msi": "[!]",
	".go": "[c]", ".py": "[c]", ".js": "[c]", ".ts": "[c]", ".c": "[c]",
	".cpp": "[c]", ".h": "[c]", ".rs": "[c]", ".java": "[c]", ".sh": "[c]",
}

const (
	unicodeDirIcon  = "📁"
	unicodeFileIcon = "📄"
	asciiDirIcon    = "[d]"
	asciiFileIcon   = "[f]"
)

// iconFor picks the glyph for one item under the current charset.
func iconFor(item search.Item, unicode bool) string {
	if item.IsDir() {
		if unicode {
			return unicodeDirIcon
		}
		return asciiDirIcon
	}
	if unicode {
		if icon, ok := unicodeIcons[item.Ext()]; ok {
			return icon
		}
		return unicodeFileIcon
	}
	if icon, ok := asciiIcons[item.Ext()]; ok {
		return icon
	}
	return asciiFileIcon
}
