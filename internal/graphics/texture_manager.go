package graphics

import (
	"sync"

	"opengl-lab/internal/gpu"
)

var (
	imageCache = make(map[string]gpu.Image)
	cacheMutex sync.RWMutex
)

// GetImage returns the decoded image for path, decoding it on first use.
// Textures created from the same file share the decoded pixels for the life
// of the process. Failures are not cached.
func GetImage(path string) (gpu.Image, error) {
	cacheMutex.RLock()
	if img, ok := imageCache[path]; ok {
		cacheMutex.RUnlock()
		return img, nil
	}
	cacheMutex.RUnlock()

	cacheMutex.Lock()
	defer cacheMutex.Unlock()

	// Double check locking
	if img, ok := imageCache[path]; ok {
		return img, nil
	}

	img, err := LoadImage(path)
	if err != nil {
		return gpu.Image{}, err
	}

	imageCache[path] = img
	return img, nil
}
