package metrics

import (
	"encoding/json"
	"os"
	"sort"
	"sync"

	"github.com/google/uuid"

	eb "navigation-qr/internal/eventBus"
)

type FloorCounters struct {
	Floor     int  `json:"piso"`
	Generated int  `json:"generated"`
	Failed    int  `json:"failed"`
	Skipped   bool `json:"skipped,omitempty"`
}

type Counters struct {
	RunID          string                 `json:"run_id"`
	TotalGenerated int                    `json:"total_generated"`
	TotalFailed    int                    `json:"total_failed"`
	Floors         map[int]*FloorCounters `json:"-"`
}

type Collector struct {
	mu sync.Mutex
	Counters
}

func NewCollector() *Collector {
	return &Collector{Counters: Counters{Floors: make(map[int]*FloorCounters)}}
}

func (c *Collector) floor(n int) *FloorCounters {
	fc, ok := c.Floors[n]
	if !ok {
		fc = &FloorCounters{Floor: n}
		c.Floors[n] = fc
	}
	return fc
}

// Consume tallies events until ch is closed.
func (c *Collector) Consume(ch <-chan eb.Event) {
	for ev := range ch {
		c.Add(ev)
	}
}

func (c *Collector) Add(ev eb.Event) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.RunID == "" && ev.RunID != uuid.Nil {
		c.RunID = ev.RunID.String()
	}
	switch ev.Type {
	case eb.EventFloorStarted:
		c.floor(ev.Floor)
	case eb.EventQRGenerated:
		c.floor(ev.Floor).Generated++
		c.TotalGenerated++
	case eb.EventQRFailed:
		c.floor(ev.Floor).Failed++
		c.TotalFailed++
	case eb.EventFloorSkipped:
		c.floor(ev.Floor).Skipped = true
	}
}

// Floor returns a copy of the counters of floor n.
func (c *Collector) Floor(n int) FloorCounters {
	c.mu.Lock()
	defer c.mu.Unlock()
	if fc, ok := c.Floors[n]; ok {
		return *fc
	}
	return FloorCounters{Floor: n}
}

type report struct {
	Counters
	Floors []FloorCounters `json:"floors"`
}

func (c *Collector) Flush(file string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	r := report{Counters: c.Counters}
	for _, fc := range c.Floors {
		r.Floors = append(r.Floors, *fc)
	}
	sort.Slice(r.Floors, func(i, j int) bool { return r.Floors[i].Floor < r.Floors[j].Floor })

	f, err := os.Create(file)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
