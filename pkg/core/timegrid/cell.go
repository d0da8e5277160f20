package timegrid

import "fmt"

// Cell addresses one 30-minute slot of the weekly grid: a (day, hour,
// half-hour) triple. Cells are comparable values; their Key ordering is
// day-major, then hour, then half-hour, so sorting keys walks the week in
// chronological order.
type Cell struct {
	Day  Weekday
	Hour int  // 0..23
	Half bool // true for the :30 half of the hour
}

// NewCell builds a validated Cell.
func NewCell(day Weekday, hour int, half bool) (Cell, error) {
	c := Cell{Day: day, Hour: hour, Half: half}
	if err := c.Validate(); err != nil {
		return Cell{}, err
	}
	return c, nil
}

// Validate checks that the cell addresses a real slot of the week.
func (c Cell) Validate() error {
	if !c.Day.Valid() {
		return fmt.Errorf("invalid cell day: %d", int(c.Day))
	}
	if c.Hour < 0 || c.Hour > 23 {
		return fmt.Errorf("invalid cell hour: %d", c.Hour)
	}
	return nil
}

// Key encodes the cell into a sortable integer, 0..335.
func (c Cell) Key() int {
	k := int(c.Day)*CellsPerDay + c.Hour*2
	if c.Half {
		k++
	}
	return k
}

// CellFromKey decodes a sortable key back into a Cell.
func CellFromKey(key int) (Cell, error) {
	if key < 0 || key >= TotalCells {
		return Cell{}, fmt.Errorf("cell key out of range: %d", key)
	}
	day := Weekday(key / CellsPerDay)
	rem := key % CellsPerDay
	return Cell{Day: day, Hour: rem / 2, Half: rem%2 == 1}, nil
}

// BeginMinutes returns the cell's start as minutes since midnight.
func (c Cell) BeginMinutes() int {
	m := c.Hour * 60
	if c.Half {
		m += 30
	}
	return m
}

// EndMinutes returns the cell's end as minutes since midnight. The last cell
// of the day ends at 1440.
func (c Cell) EndMinutes() int {
	return c.BeginMinutes() + 30
}

// Compare orders cells chronologically within the week. It returns a negative
// value if c is earlier than o, zero if equal, positive if later.
func (c Cell) Compare(o Cell) int {
	return c.Key() - o.Key()
}

func (c Cell) String() string {
	half := "00"
	if c.Half {
		half = "30"
	}
	return fmt.Sprintf("%s %02d:%s", c.Day, c.Hour, half)
}
