package media

import (
	"path/filepath"
	"slices"
	"strings"
)

// Extensions the player can decode.
var audioExts = map[string]bool{
	".mp3":  true,
	".wav":  true,
	".flac": true,
	".ogg":  true,
}

// IsSupportedExt reports whether ext names a decodable audio format.
func IsSupportedExt(ext string) bool {
	return audioExts[strings.ToLower(ext)]
}

// IsAudioFile reports whether path has a decodable audio extension.
func IsAudioFile(path string) bool {
	return IsSupportedExt(filepath.Ext(path))
}

// SupportedExtsList is the sorted extension list for error messages.
func SupportedExtsList() string {
	exts := make([]string, 0, len(audioExts))
	for ext := range audioExts {
		exts = append(exts, ext)
	}
	slices.Sort(exts)
	return strings.Join(exts, ", ")
}
