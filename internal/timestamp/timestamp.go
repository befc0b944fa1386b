// Package timestamp finds video jump points such as 04:12 or 1:02:03 in
// model output and delivers seek requests to whoever plays the video.
package timestamp

import (
	"regexp"
	"strconv"
	"sync"
)

var (
	pattern      = regexp.MustCompile(`\b(?:\d{1,2}:)?\d{1,2}:\d{2}\b`)
	labelPattern = regexp.MustCompile(`^(?:(\d{1,2}):)?(\d{1,2}):(\d{2})$`)
)

type Mark struct {
	Label   string  `json:"label"`
	Seconds float64 `json:"seconds"`
}

// Parse converts MM:SS or HH:MM:SS to seconds. Seconds take exactly two
// digits, and minutes and seconds must be below 60.
func Parse(label string) (float64, bool) {
	m := labelPattern.FindStringSubmatch(label)
	if m == nil {
		return 0, false
	}

	hours, _ := strconv.Atoi(m[1])
	minutes, _ := strconv.Atoi(m[2])
	seconds, _ := strconv.Atoi(m[3])
	if minutes >= 60 || seconds >= 60 {
		return 0, false
	}
	return float64(hours*3600 + minutes*60 + seconds), true
}

// Find returns every timestamp in text, in order of appearance.
func Find(text string) []Mark {
	matches := pattern.FindAllString(text, -1)
	if len(matches) == 0 {
		return nil
	}

	marks := make([]Mark, 0, len(matches))
	for _, label := range matches {
		seconds, ok := Parse(label)
		if !ok {
			continue
		}
		marks = append(marks, Mark{Label: label, Seconds: seconds})
	}
	return marks
}

// Seeker is implemented by the component that owns video playback.
type Seeker interface {
	SeekTo(seconds float64)
}

// SeekerFunc adapts a function to Seeker.
type SeekerFunc func(seconds float64)

func (f SeekerFunc) SeekTo(seconds float64) { f(seconds) }

// Broadcaster fans a seek request out to its subscribers.
type Broadcaster struct {
	mu      sync.RWMutex
	nextID  int
	seekers map[int]Seeker
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{seekers: make(map[int]Seeker)}
}

// Subscribe registers s and returns a function that removes it.
func (b *Broadcaster) Subscribe(s Seeker) (unsubscribe func()) {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.seekers[id] = s
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.seekers, id)
		b.mu.Unlock()
	}
}

func (b *Broadcaster) Seek(mark Mark) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, s := range b.seekers {
		s.SeekTo(mark.Seconds)
	}
}
