package filetype

import "strings"

// Category names reported in catalog statistics.
const (
	Code       = "Code"
	Document   = "Document"
	Image      = "Image"
	Audio      = "Audio"
	Video      = "Video"
	Archive    = "Archive"
	Executable = "Executable"
	Data       = "Data"
	Other      = "Other"
)

// ExtensionToCategory maps lowercase extensions (without dot) to a category.
var ExtensionToCategory = map[string]string{
	// Source code
	"go": Code, "js": Code, "jsx": Code, "mjs": Code, "ts": Code, "tsx": Code,
	"py": Code, "pyw": Code, "rs": Code, "java": Code, "kt": Code, "kts": Code,
	"c": Code, "h": Code, "cpp": Code, "cc": Code, "cxx": Code, "hpp": Code,
	"cs": Code, "swift": Code, "dart": Code, "rb": Code, "php": Code,
	"sh": Code, "bash": Code, "zsh": Code, "ps1": Code, "bat": Code, "cmd": Code,
	"html": Code, "htm": Code, "css": Code, "scss": Code, "lua": Code, "scala": Code,
	"hs": Code, "zig": Code, "vue": Code, "svelte": Code, "sql": Code,

	// Documents
	"txt": Document, "md": Document, "rst": Document, "tex": Document,
	"pdf": Document, "doc": Document, "docx": Document, "odt": Document, "rtf": Document,
	"xls": Document, "xlsx": Document, "ods": Document,
	"ppt": Document, "pptx": Document, "odp": Document, "epub": Document,

	// Images
	"png": Image, "jpg": Image, "jpeg": Image, "gif": Image, "bmp": Image,
	"ico": Image, "webp": Image, "tiff": Image, "tif": Image, "svg": Image,
	"heic": Image, "raw": Image, "psd": Image,

	// Audio
	"mp3": Audio, "wav": Audio, "flac": Audio, "ogg": Audio, "m4a": Audio, "aac": Audio, "wma": Audio,

	// Video
	"mp4": Video, "avi": Video, "mov": Video, "mkv": Video, "webm": Video, "wmv": Video, "m4v": Video,

	// Archives
	"zip": Archive, "tar": Archive, "gz": Archive, "tgz": Archive, "bz2": Archive,
	"xz": Archive, "rar": Archive, "7z": Archive, "iso": Archive, "dmg": Archive,

	// Binaries
	"exe": Executable, "dll": Executable, "so": Executable, "dylib": Executable,
	"o": Executable, "a": Executable, "lib": Executable, "msi": Executable,
	"class": Executable, "jar": Executable, "war": Executable, "apk": Executable,

	// Data / config
	"json": Data, "yaml": Data, "yml": Data, "toml": Data, "xml": Data, "ini": Data,
	"csv": Data, "tsv": Data, "db": Data, "sqlite": Data, "sqlite3": Data,
	"log": Data, "cfg": Data, "conf": Data, "properties": Data,
}

// Category returns the category for a file extension (without the leading
// dot), or Other when it is empty or unknown.
func Category(extension string) string {
	if extension == "" {
		return Other
	}
	if category, ok := ExtensionToCategory[strings.ToLower(extension)]; ok {
		return category
	}
	return Other
}
