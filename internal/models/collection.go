package models

import (
	"github.com/RoaringBitmap/roaring/v2"
	json "github.com/goccy/go-json"
)

// Collection is the set of puzzle ranks a participant has solved.
// It is persisted as a sorted JSON array.
type Collection struct {
	bm *roaring.Bitmap
}

func NewCollection(ranks ...uint32) *Collection {
	return &Collection{bm: roaring.BitmapOf(ranks...)}
}

// Add reports whether rank was not already present.
func (c *Collection) Add(rank uint32) bool {
	if c.bm == nil {
		c.bm = roaring.New()
	}
	return c.bm.CheckedAdd(rank)
}

func (c *Collection) Contains(rank uint32) bool {
	if c == nil || c.bm == nil {
		return false
	}
	return c.bm.Contains(rank)
}

func (c *Collection) Len() int {
	if c == nil || c.bm == nil {
		return 0
	}
	return int(c.bm.GetCardinality())
}

func (c *Collection) Ranks() []uint32 {
	if c == nil || c.bm == nil {
		return []uint32{}
	}
	return c.bm.ToArray()
}

func (c *Collection) Clone() *Collection {
	if c == nil || c.bm == nil {
		return NewCollection()
	}
	return &Collection{bm: c.bm.Clone()}
}

func (c *Collection) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Ranks())
}

func (c *Collection) UnmarshalJSON(data []byte) error {
	var ranks []uint32
	if err := json.Unmarshal(data, &ranks); err != nil {
		return err
	}
	c.bm = roaring.BitmapOf(ranks...)
	return nil
}
