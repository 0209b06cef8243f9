package progress

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

// Bar renders the number of archives loaded so far and the archives still
// in flight. It is safe for concurrent use.
type Bar struct {
	total      int64
	current    int64
	width      int
	writer     io.Writer
	mu         sync.Mutex
	active     map[string]int
	enabled    bool
	lastUpdate time.Time
}

// New returns a bar writing to w. Rendering is disabled unless w is a
// terminal.
func New(total int64, w io.Writer) *Bar {
	return &Bar{
		total:      total,
		width:      40,
		writer:     w,
		active:     make(map[string]int),
		enabled:    isTerminal(w),
		lastUpdate: time.Now(),
	}
}

// ForceEnable renders even when the writer is not a terminal.
func (b *Bar) ForceEnable() *Bar {
	b.enabled = true
	return b
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Start marks path as in flight.
func (b *Bar) Start(path string) {
	if !b.enabled {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.active[filepath.Base(path)]++
	b.render()
}

// Done marks path as finished and advances the bar.
func (b *Bar) Done(path string) {
	if !b.enabled {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	name := filepath.Base(path)
	if b.active[name] <= 1 {
		delete(b.active, name)
	} else {
		b.active[name]--
	}
	b.current++

	// Redraw at most every 100ms, and always for the last archive.
	now := time.Now()
	if now.Sub(b.lastUpdate) > 100*time.Millisecond || b.current == b.total {
		b.lastUpdate = now
		b.render()
	}
}

// render expects b.mu held.
func (b *Bar) render() {
	if b.total == 0 {
		return
	}

	percent := float64(b.current) / float64(b.total) * 100
	filledWidth := int(float64(b.width) * float64(b.current) / float64(b.total))
	if filledWidth > b.width {
		filledWidth = b.width
	}

	bar := strings.Repeat("█", filledWidth) + strings.Repeat("░", b.width-filledWidth)

	names := make([]string, 0, len(b.active))
	for name := range b.active {
		names = append(names, name)
	}
	sort.Strings(names)

	var activeDisplay string
	if len(names) > 3 {
		activeDisplay = fmt.Sprintf(" | %s +%d more", strings.Join(names[:3], ", "), len(names)-3)
	} else if len(names) > 0 {
		activeDisplay = " | " + strings.Join(names, ", ")
	}

	fmt.Fprintf(b.writer, "\r\033[K[%s] %3d%% (%d/%d archives)%s",
		bar, int(percent), b.current, b.total, activeDisplay)
}

func (b *Bar) Finish() {
	if !b.enabled {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.current = b.total
	clear(b.active)
	b.render()
	fmt.Fprintf(b.writer, "\n")
}
