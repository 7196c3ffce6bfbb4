package stack

import "fmt"

// Formatter renders elements for Report and recognises the fill value of
// unused slots.
type Formatter interface {
	Format(v Element) string
	IsSentinel(v Element) bool
}

// DecimalFormatter renders elements in base 10.
type DecimalFormatter struct{}

func (DecimalFormatter) Format(v Element) string    { return fmt.Sprintf("%d", int32(v)) }
func (DecimalFormatter) IsSentinel(v Element) bool { return v == PoisonElement }

// HexFormatter renders elements as 32-bit hex words.
type HexFormatter struct{}

func (HexFormatter) Format(v Element) string    { return fmt.Sprintf("0x%08X", uint32(v)) }
func (HexFormatter) IsSentinel(v Element) bool { return v == PoisonElement }

// FormatterFuncs adapts a pair of functions to Formatter. A nil IsSentinel
// matches the poison element.
type FormatterFuncs struct {
	FormatFunc   func(Element) string
	SentinelFunc func(Element) bool
}

func (f FormatterFuncs) Format(v Element) string {
	if f.FormatFunc == nil {
		return DecimalFormatter{}.Format(v)
	}
	return f.FormatFunc(v)
}

func (f FormatterFuncs) IsSentinel(v Element) bool {
	if f.SentinelFunc == nil {
		return v == PoisonElement
	}
	return f.SentinelFunc(v)
}
