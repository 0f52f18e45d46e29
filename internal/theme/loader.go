package theme

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/example/colorbook/assets"
)

var (
	// ErrNotFound reports that no source provides the requested image.
	ErrNotFound = errors.New("image not found")
	// ErrDecode reports that an image exists but could not be decoded.
	ErrDecode = errors.New("image decode error")
)

var imageExts = []string{".png", ".jpg", ".jpeg"}

// Loader resolves image keys to decoded line art and keeps every decoded
// image in memory for reuse.
type Loader struct {
	Embedded  fs.FS
	ConfigDir string
	SystemDir string

	mu    sync.Mutex
	cache map[string]image.Image
}

// NewLoader creates a Loader with the standard search paths.
func NewLoader() *Loader {
	home, _ := os.UserHomeDir()
	return &Loader{
		Embedded:  assets.FS(),
		ConfigDir: filepath.Join(home, ".config", "colorbook", "lineart"),
		SystemDir: "/usr/share/colorbook/lineart",
	}
}

// sources lists the line art roots in lookup order. Each root holds one
// directory per theme plus optional <theme>.theme descriptions.
func (l *Loader) sources() []source {
	var out []source
	if l.Embedded != nil {
		out = append(out, source{fsys: l.Embedded, art: "lineart", desc: "themes"})
	}
	for _, dir := range []string{l.ConfigDir, l.SystemDir} {
		if dir == "" {
			continue
		}
		if _, err := os.Stat(dir); err != nil {
			continue
		}
		out = append(out, source{fsys: os.DirFS(dir), art: ".", desc: "."})
	}
	return out
}

type source struct {
	fsys fs.FS
	art  string
	desc string
}

// Themes returns every theme found in any source, sorted by key.
func (l *Loader) Themes() []*Theme {
	byKey := map[string]*Theme{}
	explicit := map[string]bool{}
	for _, src := range l.sources() {
		dirs, err := fs.ReadDir(src.fsys, src.art)
		if err != nil {
			continue
		}
		for _, d := range dirs {
			if !d.IsDir() {
				continue
			}
			key := d.Name()
			t, ok := byKey[key]
			if !ok {
				t = l.describe(src, key)
				byKey[key] = t
				explicit[key] = len(t.Variants) > 0
			}
			if explicit[key] {
				continue
			}
			t.Variants = mergeVariants(t.Variants, scanVariants(src.fsys, path.Join(src.art, key)))
		}
	}
	keys := make([]string, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]*Theme, 0, len(keys))
	for _, k := range keys {
		out = append(out, byKey[k])
	}
	return out
}

func (l *Loader) describe(src source, key string) *Theme {
	f, err := src.fsys.Open(path.Join(src.desc, key+".theme"))
	if err != nil {
		return Default(key)
	}
	defer f.Close()
	t, err := Parse(key, f)
	if err != nil {
		return Default(key)
	}
	return t
}

func scanVariants(fsys fs.FS, dir string) []string {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(path.Ext(e.Name()))
		for _, want := range imageExts {
			if ext == want {
				names = append(names, strings.TrimSuffix(e.Name(), path.Ext(e.Name())))
				break
			}
		}
	}
	return names
}

func mergeVariants(have, add []string) []string {
	seen := map[string]bool{}
	for _, v := range have {
		seen[v] = true
	}
	for _, v := range add {
		if !seen[v] {
			seen[v] = true
			have = append(have, v)
		}
	}
	sort.Strings(have)
	return have
}

// Theme looks up a single theme by key.
func (l *Loader) Theme(key string) (*Theme, error) {
	for _, t := range l.Themes() {
		if t.Key == key {
			return t, nil
		}
	}
	return nil, fmt.Errorf("theme %q: %w", key, ErrNotFound)
}

// Resolve turns a key into its canonical form. File paths and registered
// images are returned unchanged; a bare theme resolves to its first variant.
func (l *Loader) Resolve(key string) (string, error) {
	if l.cached(key) != nil {
		return key, nil
	}
	if isFile(key) {
		return key, nil
	}
	th, variant, err := SplitKey(key)
	if err != nil {
		return "", err
	}
	if variant != "" {
		return JoinKey(th, variant), nil
	}
	t, err := l.Theme(th)
	if err != nil {
		return "", err
	}
	if len(t.Variants) == 0 {
		return "", fmt.Errorf("theme %q has no pages: %w", th, ErrNotFound)
	}
	return t.ImageKey(0), nil
}

// Register makes img available under key, e.g. line art pasted from the
// clipboard.
func (l *Loader) Register(key string, img image.Image) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cache == nil {
		l.cache = map[string]image.Image{}
	}
	l.cache[key] = img
}

func (l *Loader) cached(key string) image.Image {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cache[key]
}

// Load decodes the image for key. Lookup order:
// 1. A registered or previously decoded image.
// 2. A file path that exists.
// 3. Embedded line art.
// 4. ConfigDir.
// 5. SystemDir.
func (l *Loader) Load(key string) (image.Image, error) {
	canonical, err := l.Resolve(key)
	if err != nil {
		return nil, err
	}
	if img := l.cached(canonical); img != nil {
		return img, nil
	}
	var img image.Image
	if isFile(canonical) {
		img, err = decodeFile(os.DirFS(filepath.Dir(canonical)), filepath.Base(canonical))
	} else {
		img, err = l.loadFromSources(canonical)
	}
	if err != nil {
		return nil, err
	}
	l.Register(canonical, img)
	return img, nil
}

func (l *Loader) loadFromSources(key string) (image.Image, error) {
	th, variant, err := SplitKey(key)
	if err != nil {
		return nil, err
	}
	for _, src := range l.sources() {
		for _, ext := range imageExts {
			img, err := decodeFile(src.fsys, path.Join(src.art, th, variant+ext))
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return img, err
		}
	}
	return nil, fmt.Errorf("line art %q: %w", key, ErrNotFound)
}

// RequestImage loads key on a separate goroutine and calls onReady exactly
// once with the result.
func (l *Loader) RequestImage(ctx context.Context, key string, onReady func(image.Image, error)) {
	go func() {
		img, err := l.Load(key)
		if cerr := ctx.Err(); cerr != nil {
			img, err = nil, cerr
		}
		onReady(img, err)
	}()
}

func decodeFile(fsys fs.FS, name string) (image.Image, error) {
	f, err := fsys.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
		}
		return nil, err
	}
	defer f.Close()
	return decode(name, f)
}

func decode(name string, r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", name, ErrDecode, err)
	}
	return img, nil
}

func isFile(p string) bool {
	if !strings.ContainsAny(p, `./\`) {
		return false
	}
	st, err := os.Stat(p)
	return err == nil && !st.IsDir()
}
