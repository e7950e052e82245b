package export

import (
	"time"

	"github.com/lestrrat-go/strftime"
)

// TimestampPattern has millisecond precision so rapid exports rarely share
// a name. The writer resolves any remaining collision.
const TimestampPattern = "%Y%m%d%H%M%S%L"

type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

// FixedClock always reports N.
type FixedClock struct {
	N time.Time
}

func (c *FixedClock) Now() time.Time {
	return c.N
}

type Namer struct {
	pattern *strftime.Strftime
	clock   Clock
}

func NewNamer(clock Clock) *Namer {
	if clock == nil {
		clock = SystemClock{}
	}
	pattern, err := strftime.New(TimestampPattern, strftime.WithMilliseconds('L'))
	if err != nil {
		panic("export.NewNamer: " + err.Error())
	}
	return &Namer{pattern: pattern, clock: clock}
}

// Generate returns prefix + timestamp + ext.
func (n *Namer) Generate(prefix, ext string) string {
	return prefix + n.pattern.FormatString(n.clock.Now()) + ext
}
