package pipeline

import (
	"os"
	"path/filepath"
	"strings"
)

// Supported container extensions (lowercase, with leading dot).
var videoExtensions = map[string]bool{
	".mp4":  true,
	".mkv":  true,
	".avi":  true,
	".mov":  true,
	".flv":  true,
	".wmv":  true,
	".webm": true,
}

// IsVideoFile reports whether name carries a supported container extension.
// Matching is case-insensitive and suffix-only: "clip.MP4" passes,
// "clip.mp4x" does not.
func IsVideoFile(name string) bool {
	return videoExtensions[strings.ToLower(filepath.Ext(name))]
}

// ListVideos returns the full paths of the video files directly inside dir,
// in directory order as the filesystem reports it (deliberately unsorted —
// workers have no ordering guarantee anyway). Subdirectories are not
// descended into.
func ListVideos(dir string) ([]string, error) {
	f, err := os.Open(dir)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	// f.ReadDir instead of os.ReadDir: the latter sorts by name.
	entries, err := f.ReadDir(-1)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !IsVideoFile(e.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	return files, nil
}
